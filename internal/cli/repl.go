package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// printlnFn is a test seam for REPL output.
var printlnFn = fmt.Println

// execIface is the command surface the REPL dispatches to. App implements
// it; tests use a stub.
type execIface interface {
	isLoggedIn() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	AddWallet(ctx context.Context) error
	List(ctx context.Context) error
	Show(ctx context.Context) error
	PrivateKey(ctx context.Context) error
	Update(ctx context.Context) error
	Delete(ctx context.Context) error
	AddNote(ctx context.Context) error
	Notes(ctx context.Context) error
	DeleteNote(ctx context.Context) error
}

const (
	helpLoggedOut = "Available commands: register, login, help, exit"
	helpLoggedIn  = "Available commands: addwallet, (l)ist, show, privkey, update, delete, addnote, notes, delnote, logout, help, exit"
)

// runREPL reads one command per line from in and dispatches it to a until
// end of input or "exit"/"quit". Handler errors are reported to the user and
// the loop continues.
func runREPL(ctx context.Context, a execIface, statusFn func() string, in *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("wk%s> ", statusFn()))
		line, err := in.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		var cmdErr error
		switch cmd := parts[0]; cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
		case "register":
			cmdErr = a.Register(ctx)
		case "login":
			cmdErr = a.Login(ctx)
		case "logout":
			cmdErr = a.Logout(ctx)
		case "addwallet":
			cmdErr = a.AddWallet(ctx)
		case "l", "list":
			cmdErr = a.List(ctx)
		case "show":
			cmdErr = a.Show(ctx)
		case "privkey":
			cmdErr = a.PrivateKey(ctx)
		case "update":
			cmdErr = a.Update(ctx)
		case "delete":
			cmdErr = a.Delete(ctx)
		case "addnote":
			cmdErr = a.AddNote(ctx)
		case "notes":
			cmdErr = a.Notes(ctx)
		case "delnote":
			cmdErr = a.DeleteNote(ctx)
		case "exit", "quit":
			printlnFn("Bye!")
			return
		default:
			printlnFn("Unknown command:", cmd)
		}

		if cmdErr != nil {
			printlnFn("Error:", userMessage(cmdErr))
		}
		if ctx.Err() != nil {
			return
		}
	}
}
