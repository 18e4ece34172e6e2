package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xreward/backend/internal/model"
)

var ErrUserNotFound = errors.New("user not found")

const userColumns = "user_id, coins, referrals, ref_code, boost_until, joined_at"

func (r *Repository) GetUser(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	err := r.get(ctx, &user, "SELECT "+userColumns+" FROM users WHERE user_id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) GetUserByReferralCode(ctx context.Context, code string) (*model.User, error) {
	var user model.User
	err := r.get(ctx, &user, "SELECT "+userColumns+" FROM users WHERE ref_code = ?", code)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) ReferralCodeExists(ctx context.Context, code string) (bool, error) {
	var count int
	err := r.get(ctx, &count, "SELECT COUNT(*) FROM users WHERE ref_code = ?", code)
	return count > 0, err
}

// CreateUser inserts the user unless a row with the same id exists.
// It reports whether a row was created.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) (bool, error) {
	query := `
		INSERT INTO users (user_id, coins, referrals, ref_code, boost_until, joined_at)
		VALUES (?, 0, 0, ?, 0, ?)
		ON CONFLICT (user_id) DO NOTHING`

	n, err := r.exec(ctx, query, user.ID, user.RefCode, user.JoinedAt)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repository) SetBoostUntil(ctx context.Context, id, until int64) error {
	n, err := r.exec(ctx, "UPDATE users SET boost_until = ? WHERE user_id = ?", until, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
