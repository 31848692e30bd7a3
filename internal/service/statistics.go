package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"storepos/backend/internal/domain"
	"storepos/backend/internal/store"
	"storepos/backend/internal/xid"
)

// isoLayout is the millisecond ISO-8601 form the desktop client writes.
const isoLayout = "2006-01-02T15:04:05.000Z"

// NormalizeDate parses any common date spelling and renders it in the
// stored ISO-8601 form, so string comparison orders dates correctly.
func NormalizeDate(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", store.ErrInvalidInput
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return "", fmt.Errorf("%w: date %q: %v", store.ErrInvalidInput, raw, err)
	}
	return t.UTC().Format(isoLayout), nil
}

func (s *Service) ListStatistics(ctx context.Context) ([]domain.Statistic, error) {
	return s.repo.ListStatistics(ctx)
}

// ListStatisticsByDate returns statistics dated inside [start, end], both
// ends included.
func (s *Service) ListStatisticsByDate(ctx context.Context, start string, end string) ([]domain.Statistic, error) {
	from, err := NormalizeDate(start)
	if err != nil {
		return nil, err
	}
	to, err := NormalizeDate(end)
	if err != nil {
		return nil, err
	}
	return s.repo.ListStatisticsByDate(ctx, from, to)
}

func (s *Service) GetStatistic(ctx context.Context, id string) (*domain.Statistic, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, store.ErrInvalidInput
	}
	return s.repo.GetStatistic(ctx, id)
}

func (s *Service) CreateStatistic(ctx context.Context, stat domain.Statistic) (domain.Statistic, error) {
	stat.ID = strings.TrimSpace(stat.ID)
	if stat.ID == "" {
		stat.ID = xid.NewString()
	}
	if err := s.normalizeStatistic(&stat); err != nil {
		return domain.Statistic{}, err
	}
	if err := s.repo.CreateStatistic(ctx, stat); err != nil {
		return domain.Statistic{}, err
	}
	return stat, nil
}

func (s *Service) UpdateStatistic(ctx context.Context, stat domain.Statistic) (domain.Statistic, error) {
	stat.ID = strings.TrimSpace(stat.ID)
	if stat.ID == "" {
		return domain.Statistic{}, store.ErrInvalidInput
	}
	if err := s.normalizeStatistic(&stat); err != nil {
		return domain.Statistic{}, err
	}
	if err := s.repo.UpdateStatistic(ctx, stat); err != nil {
		return domain.Statistic{}, err
	}
	return stat, nil
}

func (s *Service) DeleteStatistic(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return store.ErrInvalidInput
	}
	return s.repo.DeleteStatistic(ctx, id)
}

func (s *Service) normalizeStatistic(stat *domain.Statistic) error {
	if strings.TrimSpace(stat.Date) == "" {
		stat.Date = s.timestamp()
		return nil
	}
	date, err := NormalizeDate(stat.Date)
	if err != nil {
		return err
	}
	stat.Date = date
	return nil
}
