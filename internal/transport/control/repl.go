package control

import (
	"bufio"
	"context"
	goerrors "errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	sessiondomain "telewatch/internal/modules/session/domain"
)

// REPL is the line-based presentation of the control task. Reader and
// writer are injectable so tests can drive it. It also serves as the
// session's secret source during the bootstrap login.
type REPL struct {
	controller *Controller
	in         *bufio.Scanner
	out        io.Writer
}

// NewREPL creates a command loop over the given streams; nil defaults to
// stdin/stdout.
func NewREPL(controller *Controller, in io.Reader, out io.Writer) *REPL {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &REPL{
		controller: controller,
		in:         bufio.NewScanner(in),
		out:        out,
	}
}

// Run reads commands until quit, EOF or context cancellation. Command
// errors are printed, never fatal. Reading operator input must not block
// the monitoring loop: this runs on its own goroutine and shares nothing
// but the store and session contracts.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, "Interactive console started. Type 'help' for available commands.")

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		fmt.Fprint(r.out, "> ")
		if !r.in.Scan() {
			if err := r.in.Err(); err != nil {
				return err
			}
			// EOF is a quit.
			r.controller.quit()
			return nil
		}

		out, err := r.controller.Execute(ctx, r.in.Text())
		if err != nil {
			if goerrors.Is(err, ErrQuit) {
				fmt.Fprintln(r.out, out)
				return nil
			}
			slog.Debug("Command failed", "error", err)
			fmt.Fprintf(r.out, "error: %v\n", err)
			continue
		}
		if out != "" {
			fmt.Fprintln(r.out, out)
		}
	}
}

// Secret prompts the operator for a login secret; it implements the session
// manager's SecretSource for the bootstrap flow.
func (r *REPL) Secret(ctx context.Context, kind sessiondomain.SecretKind) (string, error) {
	switch kind {
	case sessiondomain.SecretKindCode:
		fmt.Fprint(r.out, "Enter the code you received: ")
	case sessiondomain.SecretKindPassword:
		fmt.Fprint(r.out, "Enter your 2FA password: ")
	default:
		return "", fmt.Errorf("unknown secret kind: %s", kind)
	}

	if !r.in.Scan() {
		if err := r.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return r.in.Text(), nil
}
