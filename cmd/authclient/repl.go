package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/jrsteele09/go-auth-client/navigation"
	"github.com/rs/zerolog"
)

// repl is the line-oriented front end. Each command maps onto a screen
// action; the screens decide what to show and where to navigate.
type repl struct {
	app  *app
	log  zerolog.Logger
	done chan struct{}
	once sync.Once
}

func newREPL(app *app, log zerolog.Logger) *repl {
	return &repl{app: app, log: log, done: make(chan struct{})}
}

func (r *repl) loop(ctx context.Context) {
	defer r.stop()

	fmt.Println(`Type "help" for commands.`)
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if !r.dispatch(ctx, fields[0], fields[1:]) {
			return
		}
	}
}

// dispatch runs one command. Returns false to exit the loop.
func (r *repl) dispatch(ctx context.Context, cmd string, args []string) bool {
	switch cmd {
	case "help":
		printHelp()

	case "signin":
		if !expectArgs(args, 2, "signin <email> <password>") {
			break
		}
		r.app.authScreen.SubmitSignIn(ctx, args[0], args[1])

	case "signup":
		if !expectArgs(args, 3, "signup <email> <password> <confirm>") {
			break
		}
		r.app.authScreen.SubmitSignUp(ctx, args[0], args[1], args[2])

	case "oauth":
		r.app.authScreen.StartOAuth(r.app.cfg.GetOAuthProviderName())

	case "forgot":
		if !expectArgs(args, 1, "forgot <email>") {
			break
		}
		r.app.router.Replace(navigation.RouteForgotPassword, nil)
		r.app.forgotScreen.Submit(ctx, args[0])

	case "newpassword":
		if !expectArgs(args, 2, "newpassword <password> <confirm>") {
			break
		}
		r.app.resetScreen.Submit(ctx, args[0], args[1])

	case "whoami":
		user, err := r.app.sessions.CurrentUser(ctx)
		if err != nil {
			fmt.Println("not signed in")
			break
		}
		fmt.Println(user.Email)

	case "signout":
		r.app.homeScreen.SignOut(ctx)

	case "quit", "exit":
		return false

	default:
		fmt.Printf("unknown command %q, type \"help\"\n", cmd)
	}
	return true
}

func (r *repl) stop() {
	r.once.Do(func() { close(r.done) })
}

func expectArgs(args []string, n int, usage string) bool {
	if len(args) != n {
		fmt.Println("usage:", usage)
		return false
	}
	return true
}

func printHelp() {
	fmt.Print(`Commands:
  signin <email> <password>           sign in with a password
  signup <email> <password> <confirm> create an account
  oauth                               sign in via the browser
  forgot <email>                      request a password reset email
  newpassword <password> <confirm>    set a new password (after a reset link)
  whoami                              show the signed-in user
  signout                             sign out
  quit                                exit
`)
}
