package storage

import (
	"context"

	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/accounts"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/events"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/faces"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/schedules"
	"github.com/Arnur12345/tirek-infomatrix-backend/internal/domain/schools"
)

// Repository groups data access by domain. WithTx runs fn against a
// transaction-bound view of the same repositories; the transaction commits
// when fn returns nil and rolls back otherwise.
type Repository interface {
	Accounts() accounts.Repository
	Events() events.Repository
	Schools() schools.Repository
	Faces() faces.Repository
	Schedules() schedules.Repository

	WithTx(ctx context.Context, fn func(context.Context, Repository) error) error
}
