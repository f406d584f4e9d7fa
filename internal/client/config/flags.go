package config

import (
	"flag"
	"io"
	"time"

	"github.com/dmitrijs2005/evidencevault/internal/flagx"
)

// ValueFlags lists every flag owned by this package that takes a value.
// Subcommand dispatch uses it to separate flags from operands.
var ValueFlags = []string{"-c", "-config", "-a", "-t", "-collection", "-db", "-key", "-inbox", "-audit", "-i", "-s", "-m", "-log"}

func parseFlags(cfg *Config, args []string) error {
	args = flagx.FilterArgs(args, ValueFlags[2:])

	fs := flag.NewFlagSet("vault", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port of the evidence store")
	fs.StringVar(&cfg.AccessToken, "t", cfg.AccessToken, "device access token")
	fs.StringVar(&cfg.CollectionID, "collection", cfg.CollectionID, "remote collection id")
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "local vault database path")
	fs.StringVar(&cfg.KeyFile, "key", cfg.KeyFile, "master key file")
	fs.StringVar(&cfg.InboxDir, "inbox", cfg.InboxDir, "capture inbox directory")
	fs.StringVar(&cfg.AuditLogPath, "audit", cfg.AuditLogPath, "audit log path")
	fs.StringVar(&cfg.MetricsAddr, "m", cfg.MetricsAddr, "metrics listen address")
	fs.StringVar(&cfg.LogLevel, "log", cfg.LogLevel, "log level")
	onlineCheck := fs.Int("i", int(cfg.OnlineCheckInterval.Seconds()), "online check interval (in seconds)")
	syncInterval := fs.Int("s", int(cfg.SyncInterval.Seconds()), "periodic sync interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.OnlineCheckInterval = time.Duration(*onlineCheck) * time.Second
	cfg.SyncInterval = time.Duration(*syncInterval) * time.Second
	return nil
}
