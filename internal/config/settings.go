package config

import (
	_ "embed"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"

	"github.com/rodrigouroz/moltbot/internal/netguard"
)

type Config struct {
	Gateway struct {
		Bind     string `json:"bind"`
		Port     int    `json:"port"`
		MaxConns int    `json:"max_conns"`
	} `json:"gateway"`

	Pairing struct {
		AutoApproveAllowlist []string `json:"auto_approve_allowlist"`
		DevicesFile          string   `json:"devices_file"`
	} `json:"pairing"`

	Auth struct {
		AdminPasswordHash string `json:"admin_password_hash"`
		TokenTTLMinutes   int    `json:"token_ttl_minutes"`
	} `json:"auth"`

	GeoLite struct {
		DatabasePath string `json:"database_path"`
	} `json:"geolite"`
}

var settingsFilePath = "data/gateway.json"

var (
	//go:embed default_gateway.json
	defaultConfig []byte

	configValue atomic.Value
	configMu    sync.Mutex
)

func init() {
	configValue.Store(Config{})
}

// ReadSettings loads data/gateway.json, creating it from the embedded
// defaults on first run. Parse failures leave the previous configuration in
// place.
func ReadSettings() {
	data, err := os.ReadFile(settingsFilePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Warn("Settings file not found, creating with default configuration")

			if err := os.MkdirAll(filepath.Dir(settingsFilePath), os.ModePerm); err != nil {
				log.Error("Error creating directory for settings file", "error", err)
				return
			}
			if err := os.WriteFile(settingsFilePath, defaultConfig, os.ModePerm); err != nil {
				log.Error("Error writing default settings file", "error", err)
				return
			}

			data = defaultConfig
		} else {
			log.Error("Error reading settings file", "error", err)
			return
		}
	}

	var newConfig Config
	if err := json.Unmarshal(data, &newConfig); err != nil {
		log.Error("Error unmarshalling settings file", "error", err)
		return
	}

	applyConfigUpdate(newConfig, false)
	log.Debug("Settings file loaded successfully")
}

// SetConfig applies a new configuration and writes it back to disk.
func SetConfig(newConfig Config) {
	applyConfigUpdate(newConfig, true)
}

// ApplyOverrides applies a configuration for this run only, without touching
// the settings file. Used for flag and environment overrides.
func ApplyOverrides(newConfig Config) {
	applyConfigUpdate(newConfig, false)
}

func applyConfigUpdate(newConfig Config, persistToFile bool) {
	configMu.Lock()
	defer configMu.Unlock()

	for _, entry := range invalidAllowlistEntries(newConfig.Pairing.AutoApproveAllowlist) {
		log.Warn("Allowlist entry is neither an address nor a valid IPv4 CIDR; it will only ever match literally", "entry", entry)
	}

	configValue.Store(newConfig)

	if !persistToFile {
		return
	}

	data, err := json.MarshalIndent(newConfig, "", "  ")
	if err != nil {
		log.Error("Error marshalling new configuration", "error", err)
		return
	}
	if err := os.MkdirAll(filepath.Dir(settingsFilePath), os.ModePerm); err != nil {
		log.Error("Error creating directory for settings file", "error", err)
		return
	}
	if err := os.WriteFile(settingsFilePath, data, os.ModePerm); err != nil {
		log.Error("Error writing new configuration to file", "error", err)
	}
}

// invalidAllowlistEntries returns the entries a pairing decision can only
// match by exact string equality: not the localhost sentinel, not an IP
// literal, not a valid IPv4 CIDR.
func invalidAllowlistEntries(entries []string) []string {
	var suspect []string
	for _, entry := range entries {
		if entry == "localhost" || netguard.IsLoopback(entry) {
			continue
		}
		if net.ParseIP(entry) != nil {
			continue
		}
		if netguard.IsValidCIDR(entry) {
			continue
		}
		suspect = append(suspect, entry)
	}
	return suspect
}

// GetConfig returns the current configuration snapshot.
func GetConfig() Config {
	return configValue.Load().(Config)
}
