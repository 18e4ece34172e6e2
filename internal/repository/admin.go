package repository

import (
	"context"

	"github.com/xreward/backend/internal/model"
)

// InsertVerifier adds a grant and reports false when the user already has one.
func (r *Repository) InsertVerifier(ctx context.Context, grant *model.VerifierGrant) (bool, error) {
	n, err := r.exec(ctx, `
		INSERT INTO verifiers (user_id, added_by, added_at)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id) DO NOTHING`,
		grant.UserID, grant.AddedBy, grant.AddedAt)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteVerifier reports whether a grant was removed.
func (r *Repository) DeleteVerifier(ctx context.Context, userID int64) (bool, error) {
	n, err := r.exec(ctx, "DELETE FROM verifiers WHERE user_id = ?", userID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *Repository) IsVerifier(ctx context.Context, userID int64) (bool, error) {
	var count int
	err := r.get(ctx, &count, "SELECT COUNT(*) FROM verifiers WHERE user_id = ?", userID)
	return count > 0, err
}

func (r *Repository) ListVerifiers(ctx context.Context) ([]model.VerifierGrant, error) {
	var grants []model.VerifierGrant
	err := r.selectAll(ctx, &grants, "SELECT user_id, added_by, added_at FROM verifiers ORDER BY user_id")
	return grants, err
}
