package config

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"healthsync/internal/domain"
)

// Secret names looked up in the SecretStore.
const (
	SecretAPIKey   = "gateway_api_key"
	SecretUsername = "gateway_username"
	SecretPassword = "gateway_password"
)

// ErrSecretNotFound is returned by a SecretStore for a missing key.
var ErrSecretNotFound = errors.New("secret not found")

type SecretStore interface {
	Get(key string) (string, error)
}

// DefaultDataTypes are synced when the config names none.
var DefaultDataTypes = []domain.DataType{
	domain.DataTypeStepCount,
	domain.DataTypeHeartRate,
	domain.DataTypeActiveEnergyBurned,
	domain.DataTypeSleepAnalysis,
}

func ParseFrequency(s string) (domain.SyncFrequency, error) {
	f := domain.SyncFrequency(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("unknown sync frequency %q", s)
	}
	return f, nil
}

func ParseDataTypes(names []string) ([]domain.DataType, error) {
	if len(names) == 0 {
		return append([]domain.DataType(nil), DefaultDataTypes...), nil
	}
	types := make([]domain.DataType, 0, len(names))
	seen := make(map[domain.DataType]bool, len(names))
	for _, n := range names {
		t := domain.DataType(strings.TrimSpace(n))
		if !t.Valid() {
			return nil, fmt.Errorf("unknown data type %q", n)
		}
		if !seen[t] {
			seen[t] = true
			types = append(types, t)
		}
	}
	return types, nil
}

// Settings serves the runtime view of the configuration. Gateway secrets
// missing from the file are read from the secret store on every call, so a
// credential change takes effect on the next pass.
type Settings struct {
	secrets SecretStore

	mu        sync.RWMutex
	gateway   GatewayConfig
	frequency domain.SyncFrequency
	types     []domain.DataType
}

// NewSettings builds Settings from a loaded config. secrets may be nil.
func NewSettings(cfg *Config, secrets SecretStore) (*Settings, error) {
	freq, err := ParseFrequency(cfg.Sync.Frequency)
	if err != nil {
		return nil, err
	}
	types, err := ParseDataTypes(cfg.Sync.DataTypes)
	if err != nil {
		return nil, err
	}

	return &Settings{
		secrets:   secrets,
		gateway:   cfg.Gateway,
		frequency: freq,
		types:     types,
	}, nil
}

// Gateway returns nil when no endpoint is configured.
func (s *Settings) Gateway(_ context.Context) (*domain.GatewayConfig, error) {
	s.mu.RLock()
	g := s.gateway
	s.mu.RUnlock()

	if strings.TrimSpace(g.BaseURL) == "" {
		return nil, nil
	}

	out := &domain.GatewayConfig{
		BaseURL:  g.BaseURL,
		Port:     g.Port,
		APIKey:   g.APIKey,
		Username: g.Username,
		Password: g.Password,
	}
	if s.secrets == nil {
		return out, nil
	}

	for _, f := range []struct {
		key string
		dst *string
	}{
		{SecretAPIKey, &out.APIKey},
		{SecretUsername, &out.Username},
		{SecretPassword, &out.Password},
	} {
		if *f.dst != "" {
			continue
		}
		v, err := s.secrets.Get(f.key)
		if errors.Is(err, ErrSecretNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f.key, err)
		}
		*f.dst = v
	}
	return out, nil
}

func (s *Settings) EnabledTypes() []domain.DataType {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.DataType(nil), s.types...)
}

func (s *Settings) Frequency() domain.SyncFrequency {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frequency
}

func (s *Settings) SetFrequency(f domain.SyncFrequency) error {
	if !f.Valid() {
		return fmt.Errorf("unknown sync frequency %q", f)
	}
	s.mu.Lock()
	s.frequency = f
	s.mu.Unlock()
	return nil
}
