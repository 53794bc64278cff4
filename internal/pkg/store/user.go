package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/ebalakin/enertrack/internal/domain"
)

var userColumns = []string{
	"id", "username", "email", "password_hash", "full_name",
	"household_size", "tariff_rate", "created_at", "updated_at",
}

func (s *store) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := builder().Insert(tableUsers).
		Columns("username", "email", "password_hash", "full_name", "household_size", "tariff_rate").
		Values(user.Username, user.Email, user.PasswordHash, user.FullName, user.HouseholdSize, user.TariffRate).
		Suffix("RETURNING " + joinColumns(userColumns))

	var created domain.User
	if err := s.pool.Getx(ctx, &created, query); err != nil {
		return nil, fmt.Errorf("insert user: %w", wrapErr(err))
	}

	return &created, nil
}

func (s *store) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	query := builder().Select(userColumns...).
		From(tableUsers).
		Where(sq.Eq{"id": id})

	var selected domain.User
	if err := s.pool.Getx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return &selected, nil
}

func (s *store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := builder().Select(userColumns...).
		From(tableUsers).
		Where(sq.Eq{"username": username})

	var selected domain.User
	if err := s.pool.Getx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return &selected, nil
}

func (s *store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := builder().Select(userColumns...).
		From(tableUsers).
		Where(sq.Eq{"email": email})

	var selected domain.User
	if err := s.pool.Getx(ctx, &selected, query); err != nil {
		return nil, wrapErr(err)
	}

	return &selected, nil
}
