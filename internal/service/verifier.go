package service

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/xreward/backend/internal/config"
	"github.com/xreward/backend/internal/model"
	"github.com/xreward/backend/internal/repository"
)

var (
	ErrNotAdmin      = errors.New("only admins can do this")
	ErrAccessDenied  = errors.New("access denied")
	ErrInvalidUserID = errors.New("invalid user id")
)

// VerifierService manages the verifier roster. Admins come from configuration
// and are never persisted; verifiers live in the store.
type VerifierService struct {
	repo  repository.Store
	roles config.RolesConfig
	now   func() time.Time
}

func NewVerifierService(repo repository.Store, roles config.RolesConfig) *VerifierService {
	return &VerifierService{
		repo:  repo,
		roles: roles,
		now:   time.Now,
	}
}

// SetClock replaces the time source (used by tests)
func (s *VerifierService) SetClock(now func() time.Time) {
	s.now = now
}

func (s *VerifierService) IsAdmin(userID int64) bool {
	return s.roles.IsAdmin(userID)
}

func (s *VerifierService) IsVerifier(ctx context.Context, userID int64) (bool, error) {
	return s.repo.IsVerifier(ctx, userID)
}

// CanViewVerifiers allows admins and verifiers to read the roster.
func (s *VerifierService) CanViewVerifiers(ctx context.Context, userID int64) (bool, error) {
	if s.IsAdmin(userID) {
		return true, nil
	}
	return s.IsVerifier(ctx, userID)
}

// AddVerifier grants the verifier role. It returns false if userID already holds it.
func (s *VerifierService) AddVerifier(ctx context.Context, adminID, userID int64) (bool, error) {
	if !s.IsAdmin(adminID) {
		return false, ErrNotAdmin
	}
	return s.repo.InsertVerifier(ctx, &model.VerifierGrant{
		UserID:  userID,
		AddedBy: adminID,
		AddedAt: s.now().Unix(),
	})
}

// RemoveVerifier revokes the role. It returns false if userID did not hold it.
func (s *VerifierService) RemoveVerifier(ctx context.Context, adminID, userID int64) (bool, error) {
	if !s.IsAdmin(adminID) {
		return false, ErrNotAdmin
	}
	return s.repo.DeleteVerifier(ctx, userID)
}

// ListVerifiers returns verifier ids ordered by id.
func (s *VerifierService) ListVerifiers(ctx context.Context) ([]int64, error) {
	grants, err := s.repo.ListVerifiers(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(grants))
	for _, g := range grants {
		ids = append(ids, g.UserID)
	}
	return ids, nil
}

// SeedVerifiers inserts the configured verifiers, skipping existing grants.
// Failures are logged and do not stop the remaining inserts.
func (s *VerifierService) SeedVerifiers(ctx context.Context) int {
	seeded := 0
	for _, id := range s.roles.Verifiers {
		inserted, err := s.repo.InsertVerifier(ctx, &model.VerifierGrant{
			UserID:  id,
			AddedBy: s.roles.PrimaryAdmin(),
			AddedAt: s.now().Unix(),
		})
		if err != nil {
			log.Printf("[Verifiers] Error adding verifier %d: %v", id, err)
			continue
		}
		if inserted {
			seeded++
		}
	}
	return seeded
}

// ParseUserID validates a user id typed by an admin.
func ParseUserID(text string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, ErrInvalidUserID
	}
	return id, nil
}
