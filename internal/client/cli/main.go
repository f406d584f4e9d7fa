package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/evidencevault/internal/client/app"
	"github.com/dmitrijs2005/evidencevault/internal/client/config"
	"github.com/dmitrijs2005/evidencevault/internal/flagx"
)

var ErrUsage = errors.New("usage: vault [flags] process|sync|timeline|status|retry|review|verify|daemon|shell")

func positional(args, extra []string) []string {
	vf := append(append([]string(nil), config.ValueFlags...), extra...)
	return flagx.Positional(args, vf)
}

// Main loads configuration from args (normally os.Args[1:]), opens the
// vault and runs the requested command.
func Main(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	pos := positional(args, CommandValueFlags)
	if len(pos) == 0 {
		return ErrUsage
	}

	cfg, err := config.LoadConfig(args)
	if err != nil {
		return err
	}

	a, err := app.New(ctx, cfg, app.Options{
		Passphrase: func() ([]byte, error) { return GetPassphrase(os.Stderr) },
	})
	if err != nil {
		return fmt.Errorf("open vault: %w", err)
	}
	defer a.Close()

	r := NewRunner(a, stdout)
	if pos[0] == "shell" {
		return r.Shell(ctx, stdin)
	}
	return r.Dispatch(ctx, pos[0], pos[1:], args)
}
