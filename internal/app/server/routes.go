package server

import (
	"encoding/json"
	"net/http"

	"github.com/rodrigouroz/moltbot/internal/auth"
	"github.com/rodrigouroz/moltbot/internal/pairing"
)

var deviceStore *pairing.Store

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, msg string, status int) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// BuildRoutes wires the gateway's HTTP surface onto a fresh mux. Pairing
// approval management requires an admin session token; the pairing request
// itself is open, since the auto-approve decision runs on the caller's
// address.
func BuildRoutes(store *pairing.Store) *http.ServeMux {
	deviceStore = store

	router := http.NewServeMux()

	router.HandleFunc("GET /health", getHealth)
	router.HandleFunc("POST /login", loginAdmin)

	router.HandleFunc("POST /pair/request", pairDevice)
	router.Handle("GET /pair/pending", auth.RequireAuth(http.HandlerFunc(getPendingDevices)))
	router.Handle("POST /pair/approve", auth.RequireAuth(http.HandlerFunc(approveDevice)))
	router.Handle("POST /pair/deny", auth.RequireAuth(http.HandlerFunc(denyDevice)))

	return router
}
