package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	"github.com/oksasatya/devconnector/internal/domain/repository"
)

// ProfileRepository indexes profiles by owning user id. Aggregates are
// cloned on the way in and out so callers never alias stored state.
type ProfileRepository struct {
	mu       sync.RWMutex
	byUserID map[string]*entity.Profile
}

func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{byUserID: make(map[string]*entity.Profile)}
}

func (r *ProfileRepository) Create(_ context.Context, p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byUserID[p.UserID]; ok {
		return repository.ErrDuplicate
	}
	now := time.Now()
	p.CreatedAt, p.UpdatedAt = now, now
	p.Version = 1
	p.Normalize()
	r.byUserID[p.UserID] = p.Clone()
	return nil
}

func (r *ProfileRepository) GetByUserID(_ context.Context, userID string) (*entity.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byUserID[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *ProfileRepository) List(_ context.Context) ([]*entity.Profile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*entity.Profile, 0, len(r.byUserID))
	for _, p := range r.byUserID {
		out = append(out, p.Clone())
	}
	// oldest first; same-tick ties fall back to ID so the order is fixed
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *ProfileRepository) Update(_ context.Context, p *entity.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.byUserID[p.UserID]
	if !ok || stored.ID != p.ID {
		return repository.ErrNotFound
	}
	if stored.Version != p.Version {
		return repository.ErrStaleVersion
	}
	p.Version++
	p.UpdatedAt = time.Now()
	r.byUserID[p.UserID] = p.Clone()
	return nil
}

func (r *ProfileRepository) DeleteByUserID(_ context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byUserID, userID)
	return nil
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
