package service

import (
	"context"

	"go.uber.org/zap"

	"storepos/backend/internal/domain"
)

func (s *Service) GetSettings(ctx context.Context) (*domain.Settings, error) {
	return s.repo.GetSettings(ctx)
}

// SaveSettings writes the single settings record. The stored image is kept
// unless the request names a new one or asks for removal.
func (s *Service) SaveSettings(ctx context.Context, req domain.SettingsUpsertRequest) (domain.Settings, bool, error) {
	settings := req.Settings
	settings.ID = domain.SettingsID

	if req.RemoveImage {
		settings.Img = ""
	} else if settings.Img == "" {
		current, err := s.repo.GetSettings(ctx)
		if err != nil && !IsNotFound(err) {
			return domain.Settings{}, false, err
		}
		if current != nil {
			settings.Img = current.Img
		}
	}

	created, err := s.repo.UpsertSettings(ctx, settings)
	if err != nil {
		return domain.Settings{}, false, err
	}
	s.logger.Info("settings saved", zap.Bool("created", created), actorField(ctx))
	return settings, created, nil
}
