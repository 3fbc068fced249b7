package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/authgate/internal/flagx"
	"github.com/dmitrijs2005/authgate/internal/timex"
)

// parseFlags populates Config fields from command-line flags.
//
//	-a string   address and port of the authgate gRPC endpoint
//	-t string   per-call timeout, e.g. "5s"
func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{"-a", "-t"})

	fs := flag.NewFlagSet("authctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.Func("t", "per-call timeout", func(v string) error {
		d, err := timex.ParseDuration(v)
		if err != nil {
			return err
		}
		cfg.RequestTimeout = d
		return nil
	})

	return fs.Parse(args)
}
