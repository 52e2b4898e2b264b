package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	SignUp(ctx context.Context) error
	SignIn(ctx context.Context) error
	SignOut(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	ListNews(ctx context.Context) error
	ShowNews(ctx context.Context) error
	AddNews(ctx context.Context) error
	EditNews(ctx context.Context) error
	DeleteNews(ctx context.Context) error
	ListEvents(ctx context.Context) error
	ShowEvent(ctx context.Context) error
	AddEvent(ctx context.Context) error
	EditEvent(ctx context.Context) error
	DeleteEvent(ctx context.Context) error
	RefreshAll(ctx context.Context) error
}

// runREPL reads a line from the scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Errors returned by command handlers are printed and the loop continues;
// a failed command never terminates the shell.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ts> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: news, shownews, addnews, editnews, delnews, events, showevent, addevent, editevent, delevent, refresh, whoami, signout, exit")
			} else {
				printlnFn("Available commands: signup, signin, exit")
			}
		case "signup":
			err = a.SignUp(ctx)
		case "signin":
			err = a.SignIn(ctx)
		case "signout":
			err = a.SignOut(ctx)
		case "whoami":
			err = a.WhoAmI(ctx)
		case "news":
			err = a.ListNews(ctx)
		case "shownews":
			err = a.ShowNews(ctx)
		case "addnews":
			err = a.AddNews(ctx)
		case "editnews":
			err = a.EditNews(ctx)
		case "delnews":
			err = a.DeleteNews(ctx)
		case "events":
			err = a.ListEvents(ctx)
		case "showevent":
			err = a.ShowEvent(ctx)
		case "addevent":
			err = a.AddEvent(ctx)
		case "editevent":
			err = a.EditEvent(ctx)
		case "delevent":
			err = a.DeleteEvent(ctx)
		case "refresh":
			err = a.RefreshAll(ctx)
		case "exit", "quit":
			return
		default:
			printlnFn(fmt.Sprintf("Unknown command: %s (type 'help')", cmd))
		}

		if err != nil {
			printlnFn(fmt.Sprintf("Error: %s", err.Error()))
		}
	}
}
