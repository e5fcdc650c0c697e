package faces

import (
	"context"
	"errors"
	"fmt"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/accounts"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type Service struct {
	repo     Repository
	accounts accounts.Repository
	logger   zerolog.Logger
}

func NewService(repo Repository, accountsRepo accounts.Repository, logger zerolog.Logger) *Service {
	return &Service{
		repo:     repo,
		accounts: accountsRepo,
		logger:   logger.With().Str("component", "faces").Logger(),
	}
}

// Add stores an embedding for a user of the caller's school. A missing user
// is ErrUserNotFound; a user under a different school is ErrWrongSchool.
// The blob itself is opaque and stored as-is.
func (s *Service) Add(ctx context.Context, schoolID, userID string, embedding []byte) (*Encoding, error) {
	if userID == "" {
		return nil, ErrUserNotFound
	}
	if len(embedding) == 0 {
		return nil, ErrEmptyEmbedding
	}

	user, err := s.accounts.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("resolve user: %w", err)
	}
	if user.SchoolID != schoolID {
		return nil, ErrWrongSchool
	}

	encoding := &Encoding{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Embedding: embedding,
	}
	if err := s.repo.Add(ctx, encoding); err != nil {
		return nil, fmt.Errorf("store encoding: %w", err)
	}

	s.logger.Info().Str("school_id", schoolID).Str("user_id", userID).Msg("face encoding stored")
	return encoding, nil
}

var ErrEmptyEmbedding = errors.New("embedding payload is empty")

// ListUserNames returns display names of users with at least one encoding.
// An empty result is reported as ErrNoEncodings, which callers surface as a
// not-found condition rather than an empty list.
func (s *Service) ListUserNames(ctx context.Context, schoolID string) ([]string, error) {
	names, err := s.repo.ListUserNames(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, ErrNoEncodings
	}
	return names, nil
}
