package repository

import (
	"context"
)

func (r *Repository) IncrementReferrals(ctx context.Context, id int64) error {
	n, err := r.exec(ctx, "UPDATE users SET referrals = referrals + 1 WHERE user_id = ?", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}
