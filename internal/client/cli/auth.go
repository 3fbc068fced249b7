package cli

import (
	"context"
	"fmt"
)

func (a *App) readCredentials() (email, password string, err error) {
	email, err = GetSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return "", "", err
	}
	password, err = GetPassword(a.out)
	if err != nil {
		return "", "", err
	}
	return email, password, nil
}

func (a *App) Signup(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return a.report(err)
	}
	name, err := GetSimpleText(a.reader, "Name (optional)", a.out)
	if err != nil {
		return a.report(err)
	}

	var namePtr *string
	if name != "" {
		namePtr = &name
	}
	s, err := a.client.Signup(ctx, email, password, namePtr)
	if err != nil {
		return a.report(err)
	}
	a.email = s.User.Email
	fmt.Fprintf(a.out, "Registered and logged in as %s\n", s.User.Email)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, password, err := a.readCredentials()
	if err != nil {
		return a.report(err)
	}
	s, err := a.client.Login(ctx, email, password)
	if err != nil {
		return a.report(err)
	}
	a.email = s.User.Email
	fmt.Fprintf(a.out, "Logged in as %s (%s)\n", s.User.Email, s.User.Role)
	return nil
}

func (a *App) Me(ctx context.Context) error {
	u, err := a.client.Me(ctx)
	if err != nil {
		return a.report(err)
	}
	a.printUser(u)
	return nil
}

func (a *App) User(ctx context.Context, id string) error {
	if id == "" {
		var err error
		if id, err = GetSimpleText(a.reader, "User id", a.out); err != nil {
			return a.report(err)
		}
	}
	u, err := a.client.GetUser(ctx, id)
	if err != nil {
		return a.report(err)
	}
	a.printUser(u)
	return nil
}

func (a *App) Logout(context.Context) error {
	a.client.Logout()
	a.email = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
