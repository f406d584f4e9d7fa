package config

import "time"

// Config holds runtime settings for the vault client.
type Config struct {
	ServerEndpointAddr  string
	AccessToken         string
	CollectionID        string
	DBPath              string
	KeyFile             string
	AuditLogPath        string
	InboxDir            string
	LogLevel            string
	MetricsAddr         string
	OnlineCheckInterval time.Duration
	SyncInterval        time.Duration
	RetryBaseDelay      time.Duration
	MaxRetries          int
	CacheSize           int
	MaxMessages         int
	AllowManualOverride bool
	FilterMaxBytes      int64
	BlockedTerms        []string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.CollectionID = "default"
	c.DBPath = "vault.db"
	c.KeyFile = "vault.key"
	c.AuditLogPath = "vault-audit.jsonl"
	c.InboxDir = "inbox"
	c.LogLevel = "info"
	c.OnlineCheckInterval = 3 * time.Second
	c.SyncInterval = 5 * time.Minute
	c.RetryBaseDelay = 30 * time.Second
	c.MaxRetries = 3
	c.CacheSize = 100
	c.MaxMessages = 10
	c.AllowManualOverride = true
	c.FilterMaxBytes = 50 << 20
}

// LoadConfig builds a Config from defaults, then the JSON file (if any), then
// flags found in args (normally os.Args[1:]). Later sources win.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
