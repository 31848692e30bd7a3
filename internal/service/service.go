package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"storepos/backend/internal/domain"
	"storepos/backend/internal/store"
	"storepos/backend/internal/xid"
)

type actorContextKey struct{}

func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorContextKey{}, actor)
}

func ActorFromContext(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorContextKey{}).(domain.Actor)
	return actor, ok
}

// actorField names the operator behind a request in audit log lines.
func actorField(ctx context.Context) zap.Field {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return zap.Skip()
	}
	return zap.String("actor", actor.Username)
}

// Integer-keyed tables; each has an id sequence of the same name.
var sequenceTables = []string{
	store.TableProducts,
	store.TableCustomers,
	store.TableCategories,
	store.TableUsers,
}

// maxIDAttempts bounds how often an insert with a drawn id may collide
// before the caller gets an error.
const maxIDAttempts = 3

type Service struct {
	repo   store.Repository
	seq    xid.Sequence
	logger *zap.Logger
	now    func() time.Time
}

func New(repo store.Repository, seq xid.Sequence, logger *zap.Logger) *Service {
	if seq == nil {
		seq = xid.NewCounter()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		repo:   repo,
		seq:    seq,
		logger: logger,
		now:    time.Now,
	}
}

// IsNotFound reports whether err means the requested record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}

func (s *Service) nextID(ctx context.Context, name string) (int64, error) {
	id, err := s.seq.Next(ctx, name)
	if err != nil {
		s.logger.Error("id sequence failed", zap.String("sequence", name), zap.Error(err))
		return 0, err
	}
	return id, nil
}

// SyncSequences moves every id sequence past the ids already stored, so a
// restarted process does not hand out ids an earlier run used.
func (s *Service) SyncSequences(ctx context.Context) error {
	for _, table := range sequenceTables {
		if err := s.syncSequence(ctx, table); err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) syncSequence(ctx context.Context, table string) error {
	maxID, err := s.repo.MaxID(ctx, table)
	if err != nil {
		return fmt.Errorf("max id of %s: %w", table, err)
	}
	if err := s.seq.Advance(ctx, table, maxID); err != nil {
		return fmt.Errorf("advance sequence %s: %w", table, err)
	}
	return nil
}

// insertWithNextID draws an id from the table's sequence and hands it to
// insert. When the id is already taken the sequence is moved past the stored
// ids and a fresh one is drawn; an existing row is never overwritten.
func (s *Service) insertWithNextID(ctx context.Context, table string, insert func(id int64) error) (int64, error) {
	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		id, err := s.nextID(ctx, table)
		if err != nil {
			return 0, err
		}
		err = insert(id)
		if !errors.Is(err, store.ErrDuplicate) {
			return id, err
		}
		s.logger.Warn("drawn id already in use", zap.String("table", table), zap.Int64("id", id), zap.Int("attempt", attempt))
		if err := s.syncSequence(ctx, table); err != nil {
			return 0, err
		}
	}
	return 0, fmt.Errorf("no free id in %s after %d attempts", table, maxIDAttempts)
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(isoLayout)
}

func defaultString(value string, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
