package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/walletkeeper/internal/common"
	"github.com/dmitrijs2005/walletkeeper/internal/logging"
	"github.com/dmitrijs2005/walletkeeper/internal/services"
)

// App is one terminal session.
type App struct {
	vault services.VaultService
	log   logging.Logger
	in    *bufio.Reader
	out   io.Writer

	username string
	password []byte
	release  func()
}

// NewApp wires a session reading commands from in and writing to out.
func NewApp(vault services.VaultService, log logging.Logger, in io.Reader, out io.Writer) *App {
	if log == nil {
		log = logging.Nop()
	}
	return &App{vault: vault, log: log, in: bufio.NewReader(in), out: out}
}

// Run shows the banner and serves commands until exit or end of input.
func (a *App) Run(ctx context.Context, banner string) {
	defer a.endSession()
	if banner != "" {
		fmt.Fprintln(a.out, banner)
	}
	fmt.Fprintln(a.out, "Type 'help' for commands.")
	runREPL(ctx, a, a.status, a.in)
}

func (a *App) isLoggedIn() bool {
	return a.password != nil
}

func (a *App) status() string {
	if a.username == "" {
		return ""
	}
	return "(" + a.username + ")"
}

func (a *App) startSession(username string, password []byte) {
	a.endSession()
	a.username = username
	a.password = append([]byte(nil), password...)
	a.release = common.LockMemory(a.password)
}

func (a *App) endSession() {
	if a.release != nil {
		a.release()
		a.release = nil
	}
	common.WipeByteArray(a.password)
	a.password = nil
	a.username = ""
}

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	return nil
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}
