package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/dmitrijs2005/flock/internal/client/session"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// screenContext derives the context one command runs under. Ctrl-C cancels
// the command in flight and returns to the prompt.
var screenContext = func(ctx context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(ctx, os.Interrupt)
}

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	takeRedirect() (session.Route, bool)
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Profile(ctx context.Context) error
	EditProfile(ctx context.Context) error
	Logout(ctx context.Context) error
	Outreaches(ctx context.Context) error
	Ministries(ctx context.Context) error
	Media(ctx context.Context, args []string) error
	Connect(ctx context.Context) error
	Stats(ctx context.Context) error
}

const (
	helpGuest  = "Available commands: login, register, outreaches, ministries, media, connect, exit"
	helpMember = "Available commands: profile, edit, logout, outreaches, ministries, media, connect, stats, exit"
)

// runREPL starts a simple read–eval–print loop for the flock client.
//
// Before each prompt a pending redirect to the login route opens the login
// screen. It then reads a line, parses the first token as the command, and
// dispatches to methods on 'a' under a fresh screen context. The loop exits
// on EOF, when ctx is done, or when the user types "exit" or "quit".
//
// Prompt & Commands
//
//	Anyone:
//	  - help                      - show available commands
//	  - outreaches | o            - list church campuses
//	  - ministries | m            - list ministries
//	  - media [category]          - list media, optionally filtered
//	  - media show <id>           - show one media item
//	  - connect                   - send a message to the church
//	  - exit | quit               - leave the program
//
//	Not logged in:
//	  - login                     - authenticate
//	  - register                  - create an account
//
//	Logged in:
//	  - profile                   - show your profile
//	  - edit                      - edit name and phone number
//	  - logout                    - log out (asks for confirmation)
//	  - stats                     - API request counters
//
// Errors returned by command handlers are ignored here; handlers report
// them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	run := func(fn func(context.Context) error) {
		sctx, cancel := screenContext(ctx)
		defer cancel()
		_ = fn(sctx)
	}

	for {
		if ctx.Err() != nil {
			return
		}
		if r, ok := a.takeRedirect(); ok && r == session.RouteLogin {
			printlnFn("Please log in (or type 'register' at the prompt to create an account).")
			run(a.Login)
		}

		printlnFn(fmt.Sprintf("flock %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpMember)
			} else {
				printlnFn(helpGuest)
			}

		case "login", "register":
			if a.isLoggedIn() {
				printlnFn("You are already logged in. Type 'logout' first.")
				continue
			}
			if cmd == "login" {
				run(a.Login)
			} else {
				run(a.Register)
			}

		case "profile", "edit", "logout", "stats":
			if !a.isLoggedIn() {
				printlnFn("Please log in first.")
				continue
			}
			switch cmd {
			case "profile":
				run(a.Profile)
			case "edit":
				run(a.EditProfile)
			case "logout":
				run(a.Logout)
			case "stats":
				run(a.Stats)
			}

		case "o", "outreaches":
			run(a.Outreaches)

		case "m", "ministries":
			run(a.Ministries)

		case "media":
			run(func(ctx context.Context) error { return a.Media(ctx, args) })

		case "connect":
			run(a.Connect)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			return
		}
	}
}
