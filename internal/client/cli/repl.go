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
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	Me(ctx context.Context) error
	UpdateProfile(ctx context.Context) error
	ChangePassword(ctx context.Context) error
	Deactivate(ctx context.Context) error
	Upload(ctx context.Context, path string) error
	PutFile(ctx context.Context, path string) error
}

// runREPL reads commands line by line and dispatches them to a. It exits on
// scanner EOF or on "exit"/"quit". Handler errors are printed and the loop
// goes on.
//
//	Not logged in: help, signup, login, exit
//	Logged in:     help, me, update, passwd, upload <path>, putfile <path>,
//	               deactivate, logout, exit
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("usersctl %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		var err error
		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: me, update, passwd, upload <path>, putfile <path>, deactivate, logout, exit")
			} else {
				printlnFn("Available commands: signup, login, exit")
			}

		case "signup", "register":
			err = a.Register(ctx)

		case "login":
			err = a.Login(ctx)

		case "logout":
			err = a.Logout(ctx)

		case "me":
			err = a.Me(ctx)

		case "update":
			err = a.UpdateProfile(ctx)

		case "passwd":
			err = a.ChangePassword(ctx)

		case "deactivate":
			err = a.Deactivate(ctx)

		case "upload", "putfile":
			if len(args) != 1 {
				printlnFn("Usage:", cmd, "<path>")
				continue
			}
			if cmd == "upload" {
				err = a.Upload(ctx, args[0])
			} else {
				err = a.PutFile(ctx, args[0])
			}

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}

		if err != nil {
			printlnFn("Error:", err.Error())
		}
	}
}
