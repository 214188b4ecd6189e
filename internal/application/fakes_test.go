package application

import (
	"context"
	"errors"
	"io"
	"sync"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	"github.com/oksasatya/devconnector/internal/domain/repository"
	"github.com/oksasatya/devconnector/pkg/mailer"
)

type recordingPublisher struct {
	mu   sync.Mutex
	jobs []mailer.EmailJob
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, body.(mailer.EmailJob))
	return nil
}

func (p *recordingPublisher) sent() []mailer.EmailJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]mailer.EmailJob(nil), p.jobs...)
}

type fakeAvatarStore struct {
	url  string
	body []byte
}

func (f *fakeAvatarStore) Upload(_ context.Context, _, _, _ string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.body = b
	return f.url, nil
}

type fakeIndex struct {
	indexed []string
	deleted []string
	hits    []map[string]any
}

func (f *fakeIndex) Index(_ context.Context, p *entity.Post) error {
	f.indexed = append(f.indexed, p.ID)
	return nil
}

func (f *fakeIndex) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeIndex) Search(_ context.Context, _ string, _ int) ([]map[string]any, error) {
	return f.hits, nil
}

// racingPosts lets a competing writer slip in before each of the first
// races Update calls, so the caller's version goes stale for real.
type racingPosts struct {
	repository.PostRepository
	races    int
	compete  func(p *entity.Post)
	attempts int
}

func (r *racingPosts) Update(ctx context.Context, p *entity.Post) error {
	r.attempts++
	if r.races > 0 {
		r.races--
		current, err := r.PostRepository.GetByID(ctx, p.ID)
		if err != nil {
			return err
		}
		r.compete(current)
		if err := r.PostRepository.Update(ctx, current); err != nil {
			return err
		}
	}
	return r.PostRepository.Update(ctx, p)
}

// staleProfiles always reports a stale version.
type staleProfiles struct {
	repository.ProfileRepository
	attempts int
}

func (s *staleProfiles) Update(context.Context, *entity.Profile) error {
	s.attempts++
	return repository.ErrStaleVersion
}

var errBroker = errors.New("broker down")
