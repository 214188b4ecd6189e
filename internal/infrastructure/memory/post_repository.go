package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	"github.com/oksasatya/devconnector/internal/domain/repository"
)

type PostRepository struct {
	mu    sync.RWMutex
	posts map[string]*entity.Post
}

func NewPostRepository() *PostRepository {
	return &PostRepository{posts: make(map[string]*entity.Post)}
}

func (r *PostRepository) Create(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[p.ID]; ok {
		return repository.ErrDuplicate
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	p.Version = 1
	p.Normalize()
	r.posts[p.ID] = p.Clone()
	return nil
}

func (r *PostRepository) GetByID(_ context.Context, id string) (*entity.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *PostRepository) List(_ context.Context) ([]*entity.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Post, 0, len(r.posts))
	for _, p := range r.posts {
		out = append(out, p.Clone())
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *PostRepository) Update(_ context.Context, p *entity.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.posts[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Version != p.Version {
		return repository.ErrStaleVersion
	}
	// Only the embedded sequences are mutable after creation.
	next, in := stored.Clone(), p.Clone()
	next.Likes, next.Comments = in.Likes, in.Comments
	next.Version++
	p.Version = next.Version
	r.posts[p.ID] = next
	return nil
}

func (r *PostRepository) DeleteOwned(_ context.Context, id, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return repository.ErrNotFound
	}
	if !p.OwnedBy(userID) {
		return entity.ErrNotOwner
	}
	delete(r.posts, id)
	return nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
