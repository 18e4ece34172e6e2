package repository

import (
	"context"
)

func (r *Repository) InsertAdWatch(ctx context.Context, userID, watchedAt int64) error {
	_, err := r.exec(ctx, "INSERT INTO ads (user_id, watched_at) VALUES (?, ?)", userID, watchedAt)
	return err
}

// CountAdWatchesSince counts events strictly newer than since.
func (r *Repository) CountAdWatchesSince(ctx context.Context, userID, since int64) (int, error) {
	var count int
	err := r.get(ctx, &count, "SELECT COUNT(*) FROM ads WHERE user_id = ? AND watched_at > ?", userID, since)
	return count, err
}

// DeleteAdWatchesBefore removes events at or before cutoff and returns how many were removed.
func (r *Repository) DeleteAdWatchesBefore(ctx context.Context, cutoff int64) (int64, error) {
	return r.exec(ctx, "DELETE FROM ads WHERE watched_at <= ?", cutoff)
}
