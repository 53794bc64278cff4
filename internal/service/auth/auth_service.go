package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ebalakin/enertrack/internal/domain"
	"github.com/ebalakin/enertrack/internal/pkg/constants"
	"github.com/ebalakin/enertrack/internal/pkg/logger"
	"github.com/ebalakin/enertrack/internal/pkg/store"
	"github.com/ebalakin/enertrack/internal/pkg/utils"
)

// defaultTariffRate applies when registration omits a tariff.
var defaultTariffRate = decimal.NewFromFloat(7.00)

type Service struct {
	store store.Store
}

func NewService(s store.Store) *Service {
	return &Service{store: s}
}

// Register creates an account and returns it with a signed auth token.
func (s *Service) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, string, error) {
	if _, err := s.store.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, "", constants.ErrUsernameTaken
	} else if !errors.Is(err, constants.ErrDBNotFound) {
		return nil, "", fmt.Errorf("check username: %w", err)
	}
	if _, err := s.store.GetUserByEmail(ctx, req.Email); err == nil {
		return nil, "", constants.ErrEmailTaken
	} else if !errors.Is(err, constants.ErrDBNotFound) {
		return nil, "", fmt.Errorf("check email: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, "", err
	}

	tariff := req.TariffRate
	if tariff.IsZero() {
		tariff = defaultTariffRate
	}
	householdSize := req.HouseholdSize
	if householdSize == 0 {
		householdSize = 1
	}

	user, err := s.store.CreateUser(ctx, &domain.User{
		Username:      req.Username,
		Email:         req.Email,
		PasswordHash:  hash,
		FullName:      req.FullName,
		HouseholdSize: householdSize,
		TariffRate:    tariff,
	})
	if err != nil {
		return nil, "", err
	}

	token, err := utils.GenerateAuthToken(&utils.AuthTokenWrapper{UserID: user.ID})
	if err != nil {
		return nil, "", err
	}

	logger.Infof(ctx, "registered user %s (id %d)", user.Username, user.ID)
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed auth token.
func (s *Service) Login(ctx context.Context, req *domain.LoginRequest) (*domain.User, string, error) {
	user, err := s.store.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, "", constants.ErrBadCredentials
		}
		return nil, "", fmt.Errorf("load user: %w", err)
	}

	if !utils.CheckPassword(user.PasswordHash, req.Password) {
		return nil, "", constants.ErrBadCredentials
	}

	token, err := utils.GenerateAuthToken(&utils.AuthTokenWrapper{UserID: user.ID})
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

// UserByID resolves the account behind a parsed auth token.
func (s *Service) UserByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.store.GetUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, constants.ErrDBNotFound) {
			return nil, constants.ErrUnauthorized
		}
		return nil, err
	}
	return user, nil
}
