package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/evidencevault/internal/buildinfo"
	"github.com/dmitrijs2005/evidencevault/internal/flagx"
	"github.com/dmitrijs2005/evidencevault/internal/server"
	"github.com/dmitrijs2005/evidencevault/internal/server/auth"
	"github.com/dmitrijs2005/evidencevault/internal/server/config"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// mintCollection returns the value of -mint, if given.
func mintCollection(args []string) (string, error) {
	var collection string
	fs := flag.NewFlagSet("mint", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&collection, "mint", "", "print a device token for the collection and exit")
	if err := fs.Parse(flagx.FilterArgs(args, []string{"-mint"})); err != nil {
		return "", err
	}
	return collection, nil
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "version" {
		buildinfo.PrintBuildData(stdout)
		return 0
	}

	cfg, err := config.LoadConfig(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	collection, err := mintCollection(args)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}
	if collection != "" {
		token, err := auth.GenerateToken(collection, []byte(cfg.SecretKey), cfg.TokenValidityDuration)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		fmt.Fprintln(stdout, token)
		return 0
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer app.Close()

	if err := app.Run(ctx); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}
