package geolite

import (
	"net"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/oschwald/geoip2-golang"
)

var (
	mu     sync.RWMutex
	reader *geoip2.Reader
)

// Open loads a GeoLite2 Country database for annotating pairing attempts.
// An empty path disables lookups; a broken database logs and disables them
// too, since geolocation is strictly best-effort here.
func Open(path string) {
	if path == "" {
		return
	}

	r, err := geoip2.Open(path)
	if err != nil {
		log.Warn("GeoLite database unavailable, country annotations disabled", "path", path, "error", err)
		return
	}

	mu.Lock()
	if reader != nil {
		_ = reader.Close()
	}
	reader = r
	mu.Unlock()

	log.Debug("GeoLite database loaded", "path", path)
}

// Close releases the database. Safe to call when nothing is open.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if reader != nil {
		_ = reader.Close()
		reader = nil
	}
}

// CountryCode returns the ISO country code for ip, or "" when the database
// is not loaded, the address does not parse, or the lookup finds nothing.
func CountryCode(ip string) string {
	mu.RLock()
	defer mu.RUnlock()

	if reader == nil {
		return ""
	}

	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ""
	}

	record, err := reader.Country(parsed)
	if err != nil {
		return ""
	}
	return record.Country.IsoCode
}
