package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/authgate/internal/client/client"
	"github.com/dmitrijs2005/authgate/internal/client/config"
	"github.com/dmitrijs2005/authgate/internal/common"
)

// AuthClient is the part of client.GRPCClient the shell uses.
type AuthClient interface {
	Signup(ctx context.Context, email, password string, name *string) (*client.Session, error)
	Login(ctx context.Context, email, password string) (*client.Session, error)
	Me(ctx context.Context) (*client.User, error)
	GetUser(ctx context.Context, id string) (*client.User, error)
	LoggedIn() bool
	Logout()
	Close() error
}

type App struct {
	client AuthClient
	reader *bufio.Reader
	out    io.Writer
	email  string
}

// NewApp dials the server named in c and returns an App reading from stdin.
func NewApp(c *config.Config) (*App, error) {
	apiClient, err := client.NewAuthClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return newApp(apiClient, os.Stdin, os.Stdout), nil
}

func newApp(c AuthClient, in io.Reader, out io.Writer) *App {
	return &App{client: c, reader: bufio.NewReader(in), out: out}
}

// Run starts the shell and returns when the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.client.Close()
	fmt.Fprintln(a.out, "authctl: type 'help' for commands")
	runREPL(ctx, a, a.status, a.reader, a.out)
}

func (a *App) isLoggedIn() bool { return a.client.LoggedIn() }

func (a *App) status() string {
	if a.client.LoggedIn() {
		return a.email
	}
	return "not logged in"
}

// report prints err in a user-friendly form and returns it.
func (a *App) report(err error) error {
	var ce *common.Error
	switch {
	case errors.As(err, &ce):
		fmt.Fprintf(a.out, "Error: %s\n", ce.Message)
		for _, v := range ce.Violations {
			fmt.Fprintf(a.out, "  - %s: %s\n", v.Field, v.Message)
		}
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Error: server is unavailable, try again later")
	default:
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
	return err
}

func (a *App) printUser(u *client.User) {
	name := "-"
	if u.Name != nil {
		name = *u.Name
	}
	fmt.Fprintf(a.out, "id:    %s\nemail: %s\nname:  %s\nrole:  %s\n", u.ID, u.Email, name, u.Role)
	if !u.CreatedAt.IsZero() {
		fmt.Fprintf(a.out, "since: %s\n", u.CreatedAt.Format("2006-01-02 15:04"))
	}
}
