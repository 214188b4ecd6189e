package repository

import (
	"context"

	"github.com/oksasatya/devconnector/internal/domain/entity"
)

// PostRepository persists posts together with their likes and comments.
type PostRepository interface {
	Create(ctx context.Context, p *entity.Post) error
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	// List returns every post, newest first.
	List(ctx context.Context) ([]*entity.Post, error)
	// Update rewrites likes and comments under the same version check as
	// ProfileRepository.Update.
	Update(ctx context.Context, p *entity.Post) error
	// DeleteOwned removes the post only when userID owns it. It returns
	// ErrNotFound for a missing post and entity.ErrNotOwner for someone else's.
	DeleteOwned(ctx context.Context, id, userID string) error
}
