package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/evidencevault/internal/flagx"
	"github.com/dmitrijs2005/evidencevault/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Pointer fields tell an
// absent key apart from a zero value, so only keys present in the file
// override defaults.
type JsonConfig struct {
	ServerEndpointAddr  *string         `json:"server_endpoint_addr"`
	AccessToken         *string         `json:"access_token"`
	CollectionID        *string         `json:"collection_id"`
	DBPath              *string         `json:"db_path"`
	KeyFile             *string         `json:"key_file"`
	AuditLogPath        *string         `json:"audit_log_path"`
	InboxDir            *string         `json:"inbox_dir"`
	LogLevel            *string         `json:"log_level"`
	MetricsAddr         *string         `json:"metrics_addr"`
	OnlineCheckInterval *timex.Duration `json:"online_check_interval"`
	SyncInterval        *timex.Duration `json:"sync_interval"`
	RetryBaseDelay      *timex.Duration `json:"retry_base_delay"`
	MaxRetries          *int            `json:"max_retries"`
	CacheSize           *int            `json:"cache_size"`
	MaxMessages         *int            `json:"max_messages"`
	AllowManualOverride *bool           `json:"allow_manual_override"`
	FilterMaxBytes      *int64          `json:"filter_max_bytes"`
	BlockedTerms        []string        `json:"blocked_terms"`
}

func parseJson(cfg *Config, args []string) error {
	path := flagx.JsonConfigFlags(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	setString(&cfg.ServerEndpointAddr, jc.ServerEndpointAddr)
	setString(&cfg.AccessToken, jc.AccessToken)
	setString(&cfg.CollectionID, jc.CollectionID)
	setString(&cfg.DBPath, jc.DBPath)
	setString(&cfg.KeyFile, jc.KeyFile)
	setString(&cfg.AuditLogPath, jc.AuditLogPath)
	setString(&cfg.InboxDir, jc.InboxDir)
	setString(&cfg.LogLevel, jc.LogLevel)
	setString(&cfg.MetricsAddr, jc.MetricsAddr)

	if jc.OnlineCheckInterval != nil {
		cfg.OnlineCheckInterval = jc.OnlineCheckInterval.Duration
	}
	if jc.SyncInterval != nil {
		cfg.SyncInterval = jc.SyncInterval.Duration
	}
	if jc.RetryBaseDelay != nil {
		cfg.RetryBaseDelay = jc.RetryBaseDelay.Duration
	}
	if jc.MaxRetries != nil {
		cfg.MaxRetries = *jc.MaxRetries
	}
	if jc.CacheSize != nil {
		cfg.CacheSize = *jc.CacheSize
	}
	if jc.MaxMessages != nil {
		cfg.MaxMessages = *jc.MaxMessages
	}
	if jc.AllowManualOverride != nil {
		cfg.AllowManualOverride = *jc.AllowManualOverride
	}
	if jc.FilterMaxBytes != nil {
		cfg.FilterMaxBytes = *jc.FilterMaxBytes
	}
	if jc.BlockedTerms != nil {
		cfg.BlockedTerms = jc.BlockedTerms
	}
	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
