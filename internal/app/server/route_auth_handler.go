package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rodrigouroz/moltbot/internal/auth"
	"github.com/rodrigouroz/moltbot/internal/config"
)

type loginBody struct {
	Password string `json:"password"`
}

func loginAdmin(w http.ResponseWriter, r *http.Request) {
	var body loginBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	cfg := config.GetConfig()
	if cfg.Auth.AdminPasswordHash == "" {
		writeError(w, "admin login is not configured", http.StatusServiceUnavailable)
		return
	}

	if !auth.CheckPassword(cfg.Auth.AdminPasswordHash, body.Password) {
		log.Warn("Admin login rejected", "ip", auth.ClientIP(r))
		writeError(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ttl := time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}

	token, err := auth.GenerateToken("admin", ttl)
	if err != nil {
		log.Error("Failed to issue session token", "error", err)
		writeError(w, "failed to issue session token", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}
