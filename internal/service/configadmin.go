package service

import (
	"fmt"
	"tunestatus/internal/config"

	"golang.org/x/crypto/bcrypt"
)

// ConfigAdmin is the config-editing surface behind the HTTP API.
type ConfigAdmin interface {
	Current() config.Config
	Apply(cfg config.Config) error
	HashPassword(password string) (string, error)
}

type ConfigAdminService struct {
	store *config.Store
}

func NewConfigAdminService(store *config.Store) *ConfigAdminService {
	return &ConfigAdminService{store: store}
}

func (s *ConfigAdminService) Current() config.Config {
	return s.store.Config()
}

// Apply validates and persists an edited config; the store swaps the live
// snapshot on success.
func (s *ConfigAdminService) Apply(cfg config.Config) error {
	return s.store.Update(cfg)
}

// HashPassword turns a new admin password into the bcrypt hash the config
// stores.
func (s *ConfigAdminService) HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password is empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}
