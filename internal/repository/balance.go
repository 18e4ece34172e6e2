package repository

import (
	"context"

	"github.com/xreward/backend/internal/model"
)

// AddCoins adds amount to the balance in a single statement, so concurrent
// credits to the same user never lose an update.
func (r *Repository) AddCoins(ctx context.Context, id, amount int64) error {
	n, err := r.exec(ctx, "UPDATE users SET coins = coins + ? WHERE user_id = ?", amount, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrUserNotFound
	}
	return nil
}

// TopUsers returns the richest users. Equal balances are ordered by user id.
func (r *Repository) TopUsers(ctx context.Context, limit int) ([]model.LeaderboardEntry, error) {
	var entries []model.LeaderboardEntry
	err := r.selectAll(ctx, &entries, `
		SELECT user_id, coins FROM users
		ORDER BY coins DESC, user_id ASC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}
	return entries, nil
}
