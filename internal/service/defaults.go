package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"storepos/backend/internal/domain"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "admin"
)

// EnsureDefaults creates the administrator account and the settings record
// when they are absent. Running it again changes nothing.
func (s *Service) EnsureDefaults(ctx context.Context) error {
	hash, err := hashPassword(defaultAdminPassword)
	if err != nil {
		return fmt.Errorf("hash default password: %w", err)
	}

	created, err := s.repo.CreateUserIfAbsent(ctx, domain.UserAccount{
		User: domain.User{
			ID:       domain.DefaultAdminID,
			Username: defaultAdminUsername,
			Fullname: "Administrator",
			Permissions: domain.Permissions{
				Products:     1,
				Categories:   1,
				Transactions: 1,
				Users:        1,
				Settings:     1,
			},
		},
		PasswordHash: hash,
	})
	if err != nil {
		return fmt.Errorf("ensure admin user: %w", err)
	}
	if created {
		s.logger.Warn("default admin account created; change its password", zap.String("username", defaultAdminUsername))
	}

	if _, err := s.repo.GetSettings(ctx); err != nil {
		if !IsNotFound(err) {
			return fmt.Errorf("load settings: %w", err)
		}
		if _, err := s.repo.UpsertSettings(ctx, domain.Settings{ID: domain.SettingsID, App: "Standalone Point of Sale"}); err != nil {
			return fmt.Errorf("ensure settings: %w", err)
		}
		s.logger.Info("default settings created")
	}
	return nil
}
