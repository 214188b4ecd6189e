package repository

import (
	"context"

	"github.com/oksasatya/devconnector/internal/domain/entity"
)

// ProfileRepository persists profiles as whole aggregates.
type ProfileRepository interface {
	// Create fails with ErrDuplicate when the user already owns a profile.
	Create(ctx context.Context, p *entity.Profile) error
	GetByUserID(ctx context.Context, userID string) (*entity.Profile, error)
	List(ctx context.Context) ([]*entity.Profile, error)
	// Update rewrites the aggregate only if its stored version still equals
	// p.Version, returning ErrStaleVersion otherwise. p.Version is bumped on success.
	Update(ctx context.Context, p *entity.Profile) error
	DeleteByUserID(ctx context.Context, userID string) error
}
