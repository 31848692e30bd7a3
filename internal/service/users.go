package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"storepos/backend/internal/domain"
	"storepos/backend/internal/store"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

const statusTimeLayout = "Mon Jan 02 2006 15:04:05 GMT-0700"

func (s *Service) ListUsers(ctx context.Context) ([]domain.User, error) {
	return s.repo.ListUsers(ctx)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	if id == 0 {
		return nil, store.ErrInvalidInput
	}
	return s.repo.GetUser(ctx, id)
}

// Login checks the password and stamps the user's status with the login time.
func (s *Service) Login(ctx context.Context, req domain.LoginRequest) (domain.User, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" || req.Password == "" {
		return domain.User{}, ErrInvalidCredentials
	}

	account, err := s.repo.GetUserAccountByUsername(ctx, username)
	if err != nil {
		if IsNotFound(err) {
			return domain.User{}, ErrInvalidCredentials
		}
		return domain.User{}, err
	}
	if !verifyPassword(account.PasswordHash, req.Password) {
		s.logger.Warn("login rejected", zap.String("username", username))
		return domain.User{}, ErrInvalidCredentials
	}

	status := "Logged In_" + s.now().Format(statusTimeLayout)
	if err := s.repo.SetUserStatus(ctx, account.ID, status); err != nil {
		return domain.User{}, err
	}
	user := account.User
	user.Status = status
	return user, nil
}

func (s *Service) Logout(ctx context.Context, id int64) error {
	if id == 0 {
		return store.ErrInvalidInput
	}
	return s.repo.SetUserStatus(ctx, id, "Logged Out_"+s.now().Format(statusTimeLayout))
}

// SaveUser inserts or updates an operator. An empty password on update keeps
// the stored one; a new operator must have a password. Usernames are unique.
func (s *Service) SaveUser(ctx context.Context, req domain.UserUpsertRequest) (domain.User, bool, error) {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return domain.User{}, false, store.ErrInvalidInput
	}
	if req.ID == 0 && req.Password == "" {
		return domain.User{}, false, store.ErrInvalidInput
	}

	account := domain.UserAccount{
		User: domain.User{
			ID:          req.ID,
			Username:    username,
			Fullname:    strings.TrimSpace(req.Fullname),
			Permissions: req.Permissions,
		},
	}
	if req.Password != "" {
		hash, err := hashPassword(req.Password)
		if err != nil {
			return domain.User{}, false, fmt.Errorf("hash password: %w", err)
		}
		account.PasswordHash = hash
	}

	var created bool
	if account.ID == 0 {
		_, err := s.insertWithNextID(ctx, store.TableUsers, func(id int64) error {
			account.ID = id
			return s.repo.CreateUser(ctx, account)
		})
		if err != nil {
			return domain.User{}, false, err
		}
		created = true
	} else {
		var err error
		if created, err = s.repo.UpsertUser(ctx, account); err != nil {
			return domain.User{}, false, err
		}
	}

	s.logger.Info("user saved", zap.Int64("user_id", account.ID), zap.Bool("created", created), actorField(ctx))
	return account.User, created, nil
}

func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	if id == 0 {
		return store.ErrInvalidInput
	}
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.logger.Info("user deleted", zap.Int64("user_id", id), actorField(ctx))
	return nil
}

func verifyPassword(stored string, input string) bool {
	if stored == "" || strings.TrimSpace(input) == "" || !isPasswordHash(stored) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(input)) == nil
}

func hashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

func isPasswordHash(value string) bool {
	return strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") || strings.HasPrefix(value, "$2y$")
}
