package bootstrap

import (
	"fmt"

	"github.com/rodrigouroz/moltbot/internal/config"
	"github.com/rodrigouroz/moltbot/internal/geolite"
	"github.com/rodrigouroz/moltbot/internal/pairing"
)

// Setup loads the gateway settings, opens the optional GeoLite database and
// brings up the device store.
func Setup() (*pairing.Store, error) {
	config.ReadSettings()
	cfg := config.GetConfig()

	geolite.Open(cfg.GeoLite.DatabasePath)

	store, err := pairing.NewStore(cfg.Pairing.DevicesFile)
	if err != nil {
		return nil, fmt.Errorf("open device store: %w", err)
	}

	return store, nil
}
