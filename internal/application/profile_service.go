package application

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	repo "github.com/oksasatya/devconnector/internal/domain/repository"
	"github.com/oksasatya/devconnector/pkg/metrics"
)

// ProfileView is a profile with its owner's name and avatar joined in.
// User is nil when the owner no longer exists.
type ProfileView struct {
	*entity.Profile
	User *entity.UserSummary `json:"user"`
}

type ProfileService struct {
	Profiles repo.ProfileRepository
	Users    repo.UserRepository
	Metrics  *metrics.Metrics
	Logger   *logrus.Logger
}

func NewProfileService(profiles repo.ProfileRepository, users repo.UserRepository, m *metrics.Metrics, logger *logrus.Logger) *ProfileService {
	return &ProfileService{Profiles: profiles, Users: users, Metrics: m, Logger: logger}
}

func (s *ProfileService) views(ctx context.Context, profiles ...*entity.Profile) ([]*ProfileView, error) {
	ids := make([]string, 0, len(profiles))
	for _, p := range profiles {
		ids = append(ids, p.UserID)
	}
	users, err := s.Users.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	out := make([]*ProfileView, 0, len(profiles))
	for _, p := range profiles {
		v := &ProfileView{Profile: p}
		if u, ok := users[p.UserID]; ok {
			sum := u.Summary()
			v.User = &sum
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *ProfileService) view(ctx context.Context, p *entity.Profile) (*ProfileView, error) {
	vs, err := s.views(ctx, p)
	if err != nil {
		return nil, err
	}
	return vs[0], nil
}

func (s *ProfileService) Me(ctx context.Context, userID string) (*ProfileView, error) {
	return s.GetByUserID(ctx, userID)
}

func (s *ProfileService) GetByUserID(ctx context.Context, userID string) (*ProfileView, error) {
	p, err := s.Profiles.GetByUserID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.view(ctx, p)
}

func (s *ProfileService) List(ctx context.Context) ([]*ProfileView, error) {
	ps, err := s.Profiles.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.views(ctx, ps...)
}

// Upsert patches the caller's profile in place, creating it on first use.
// A lost create race is retried as an update. A caller whose account is
// gone gets ErrUserNotFound.
func (s *ProfileService) Upsert(ctx context.Context, userID string, patch entity.ProfilePatch) (*ProfileView, error) {
	if _, err := s.Users.GetByID(ctx, userID); errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, err
	}
	var saved *entity.Profile
	err := withVersionRetry(s.Metrics, "profile", func() error {
		p, err := s.Profiles.GetByUserID(ctx, userID)
		switch {
		case errors.Is(err, repo.ErrNotFound):
			p = &entity.Profile{ID: uuid.NewString(), UserID: userID}
			p.Apply(patch)
			err = s.Profiles.Create(ctx, p)
			if errors.Is(err, repo.ErrDuplicate) {
				return repo.ErrStaleVersion
			}
		case err != nil:
			return err
		default:
			p.Apply(patch)
			err = s.Profiles.Update(ctx, p)
		}
		if err == nil {
			saved = p
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return s.view(ctx, saved)
}

// DeleteAccount removes the caller's profile and user. Their posts stay.
func (s *ProfileService) DeleteAccount(ctx context.Context, userID string) error {
	if err := s.Profiles.DeleteByUserID(ctx, userID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	if err := s.Users.Delete(ctx, userID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	return nil
}

func (s *ProfileService) AddExperience(ctx context.Context, userID string, e entity.Experience) (*ProfileView, error) {
	e.ID = uuid.NewString()
	return s.mutate(ctx, userID, func(p *entity.Profile) error {
		p.AddExperience(e)
		return nil
	})
}

func (s *ProfileService) RemoveExperience(ctx context.Context, userID, expID string) (*ProfileView, error) {
	return s.mutate(ctx, userID, func(p *entity.Profile) error {
		return p.RemoveExperience(expID)
	})
}

func (s *ProfileService) AddEducation(ctx context.Context, userID string, e entity.Education) (*ProfileView, error) {
	e.ID = uuid.NewString()
	return s.mutate(ctx, userID, func(p *entity.Profile) error {
		p.AddEducation(e)
		return nil
	})
}

func (s *ProfileService) RemoveEducation(ctx context.Context, userID, eduID string) (*ProfileView, error) {
	return s.mutate(ctx, userID, func(p *entity.Profile) error {
		return p.RemoveEducation(eduID)
	})
}

// mutate loads the caller's profile, applies fn and saves it under the
// version check. fn errors abort without writing.
func (s *ProfileService) mutate(ctx context.Context, userID string, fn func(*entity.Profile) error) (*ProfileView, error) {
	var saved *entity.Profile
	err := withVersionRetry(s.Metrics, "profile", func() error {
		p, err := s.Profiles.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		if err := s.Profiles.Update(ctx, p); err != nil {
			return err
		}
		saved = p
		return nil
	})
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}
	return s.view(ctx, saved)
}
