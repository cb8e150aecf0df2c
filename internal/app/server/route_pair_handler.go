package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/rodrigouroz/moltbot/internal/auth"
	"github.com/rodrigouroz/moltbot/internal/config"
	"github.com/rodrigouroz/moltbot/internal/geolite"
	"github.com/rodrigouroz/moltbot/internal/netguard"
	"github.com/rodrigouroz/moltbot/internal/pairing"
)

type pairRequestBody struct {
	DeviceID string `json:"device_id"`
	Name     string `json:"name"`
}

type pairResponse struct {
	Status pairing.State `json:"status"`
	Token  string        `json:"token,omitempty"`
}

func pairDevice(w http.ResponseWriter, r *http.Request) {
	var body pairRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if body.DeviceID == "" {
		writeError(w, "device_id is required", http.StatusBadRequest)
		return
	}

	clientIP := auth.ClientIP(r)
	cfg := config.GetConfig()

	autoApprove := netguard.InAutoApproveAllowlist(clientIP, cfg.Pairing.AutoApproveAllowlist)
	country := geolite.CountryCode(netguard.NormalizeMappedIPv4(clientIP))

	dev, token, err := deviceStore.Request(body.DeviceID, body.Name, clientIP, country, autoApprove)
	if err != nil {
		log.Error("Pairing request failed", "device", body.DeviceID, "ip", clientIP, "error", err)
		writeError(w, "pairing request failed", http.StatusInternalServerError)
		return
	}

	if dev.State == pairing.StateApproved {
		if token != "" {
			log.Info("Device auto-approved", "device", dev.ID, "ip", clientIP)
		}
		writeJSON(w, http.StatusOK, pairResponse{Status: dev.State, Token: token})
		return
	}

	log.Info("Pairing request queued for approval", "device", dev.ID, "ip", clientIP, "country", country)
	writeJSON(w, http.StatusAccepted, pairResponse{Status: dev.State})
}

func getPendingDevices(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, deviceStore.Pending())
}

type deviceActionBody struct {
	DeviceID string `json:"device_id"`
}

func approveDevice(w http.ResponseWriter, r *http.Request) {
	var body deviceActionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.DeviceID == "" {
		writeError(w, "device_id is required", http.StatusBadRequest)
		return
	}

	dev, token, err := deviceStore.Approve(body.DeviceID)
	if err != nil {
		writeError(w, err.Error(), http.StatusNotFound)
		return
	}

	log.Info("Device approved", "device", dev.ID)
	writeJSON(w, http.StatusOK, pairResponse{Status: dev.State, Token: token})
}

func denyDevice(w http.ResponseWriter, r *http.Request) {
	var body deviceActionBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.DeviceID == "" {
		writeError(w, "device_id is required", http.StatusBadRequest)
		return
	}

	if err := deviceStore.Deny(body.DeviceID); err != nil {
		writeError(w, err.Error(), http.StatusNotFound)
		return
	}

	log.Info("Pairing request denied", "device", body.DeviceID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "denied"})
}
