package application

import (
	"context"
	"io"

	"github.com/oksasatya/devconnector/internal/domain/entity"
)

// EmailPublisher enqueues a mailer.EmailJob for the email worker.
type EmailPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// AvatarStore uploads an avatar image and returns its public URL.
type AvatarStore interface {
	Upload(ctx context.Context, userID, filename, contentType string, r io.Reader) (string, error)
}

// PostIndex mirrors posts into a full-text index.
type PostIndex interface {
	Index(ctx context.Context, p *entity.Post) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]map[string]any, error)
}
