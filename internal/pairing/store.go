package pairing

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/rodrigouroz/moltbot/internal/security"
)

type State string

const (
	StatePending  State = "pending"
	StateApproved State = "approved"
)

// Device is one client that asked to pair with the gateway. Token holds the
// encrypted-at-rest pairing token for approved devices; pending devices have
// none.
type Device struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	RemoteIP    string    `json:"remote_ip"`
	Country     string    `json:"country,omitempty"`
	State       State     `json:"state"`
	Token       string    `json:"token,omitempty"`
	RequestedAt time.Time `json:"requested_at"`
	ApprovedAt  time.Time `json:"approved_at,omitempty"`
}

type storeFile struct {
	Devices []Device `json:"devices"`
}

// Store keeps pairing state in memory and writes every mutation through to a
// JSON file so approvals survive restarts.
type Store struct {
	mu      sync.Mutex
	path    string
	devices map[string]*Device
}

func NewStore(path string) (*Store, error) {
	s := &Store{
		path:    path,
		devices: make(map[string]*Device),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return s, nil
		}
		return nil, fmt.Errorf("read devices file: %w", err)
	}

	var file storeFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse devices file: %w", err)
	}
	for i := range file.Devices {
		dev := file.Devices[i]
		s.devices[dev.ID] = &dev
	}

	log.Debug("Device store loaded", "path", path, "devices", len(s.devices))
	return s, nil
}

// Request records a pairing attempt. Auto-approved requests are granted a
// fresh token immediately; the plaintext token is returned exactly once and
// only its encrypted form is kept. Requests for already-known devices do not
// mint new state: an approved device stays approved (with no token replay)
// and a pending one just refreshes its request metadata.
func (s *Store) Request(id, name, remoteIP, country string, autoApprove bool) (Device, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.devices[id]; ok {
		if existing.State == StateApproved {
			return *existing, "", nil
		}
		existing.Name = name
		existing.RemoteIP = remoteIP
		existing.Country = country
		existing.RequestedAt = time.Now().UTC()
		if err := s.persistLocked(); err != nil {
			return Device{}, "", err
		}
		return *existing, "", nil
	}

	dev := &Device{
		ID:          id,
		Name:        name,
		RemoteIP:    remoteIP,
		Country:     country,
		State:       StatePending,
		RequestedAt: time.Now().UTC(),
	}

	var plainToken string
	if autoApprove {
		token, err := mintToken()
		if err != nil {
			return Device{}, "", err
		}
		sealed, err := security.EncryptDeviceToken(token)
		if err != nil {
			return Device{}, "", fmt.Errorf("seal device token: %w", err)
		}
		dev.State = StateApproved
		dev.Token = sealed
		dev.ApprovedAt = dev.RequestedAt
		plainToken = token
	}

	s.devices[id] = dev
	if err := s.persistLocked(); err != nil {
		return Device{}, "", err
	}

	return *dev, plainToken, nil
}

// Approve promotes a pending device and returns its new plaintext token.
func (s *Store) Approve(id string) (Device, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	dev, ok := s.devices[id]
	if !ok {
		return Device{}, "", fmt.Errorf("unknown device: %s", id)
	}
	if dev.State == StateApproved {
		return Device{}, "", fmt.Errorf("device already approved: %s", id)
	}

	token, err := mintToken()
	if err != nil {
		return Device{}, "", err
	}
	sealed, err := security.EncryptDeviceToken(token)
	if err != nil {
		return Device{}, "", fmt.Errorf("seal device token: %w", err)
	}

	dev.State = StateApproved
	dev.Token = sealed
	dev.ApprovedAt = time.Now().UTC()

	if err := s.persistLocked(); err != nil {
		return Device{}, "", err
	}

	return *dev, token, nil
}

// Deny drops a pending pairing request.
func (s *Store) Deny(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	dev, ok := s.devices[id]
	if !ok {
		return fmt.Errorf("unknown device: %s", id)
	}
	if dev.State == StateApproved {
		return fmt.Errorf("cannot deny an approved device: %s", id)
	}

	delete(s.devices, id)
	return s.persistLocked()
}

// Pending lists pairing requests awaiting an operator decision, oldest
// first.
func (s *Store) Pending() []Device {
	s.mu.Lock()
	defer s.mu.Unlock()

	var pending []Device
	for _, dev := range s.devices {
		if dev.State == StatePending {
			pending = append(pending, *dev)
		}
	}

	sort.Slice(pending, func(i, j int) bool {
		return pending[i].RequestedAt.Before(pending[j].RequestedAt)
	})
	return pending
}

// VerifyToken checks a presented pairing token against an approved device.
func (s *Store) VerifyToken(id, token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	dev, ok := s.devices[id]
	if !ok || dev.State != StateApproved || token == "" {
		return false
	}

	stored, err := security.DecryptDeviceToken(dev.Token)
	if err != nil {
		log.Error("Failed to open stored device token", "device", id, "error", err)
		return false
	}
	return stored == token
}

func (s *Store) persistLocked() error {
	file := storeFile{Devices: make([]Device, 0, len(s.devices))}
	for _, dev := range s.devices {
		file.Devices = append(file.Devices, *dev)
	}
	sort.Slice(file.Devices, func(i, j int) bool {
		return file.Devices[i].RequestedAt.Before(file.Devices[j].RequestedAt)
	})

	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal devices: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), os.ModePerm); err != nil {
		return fmt.Errorf("create devices directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("write devices file: %w", err)
	}
	return nil
}

func mintToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate pairing token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
