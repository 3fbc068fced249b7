// Package cli implements authctl, an interactive shell over the authgate
// gRPC API.
//
// App wires the configuration, the gRPC client and a line-oriented REPL.
// The session token lives only in memory: it is set by signup or login and
// dropped by logout, by exit, or when the server reports the token as
// expired or invalid.
//
// Commands:
//   - signup (register)  prompt for email, password and an optional name
//   - login              prompt for email and password
//   - me (whoami)        show the signed-in user
//   - user <id>          look up a user by id (ADMIN only)
//   - logout             forget the session token
//   - help, exit (quit)
//
// Passwords are read without echo when stdin is a terminal. The REPL is
// started with App.Run(ctx), which blocks until the user exits or ctx is
// cancelled.
package cli
