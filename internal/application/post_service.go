package application

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	repo "github.com/oksasatya/devconnector/internal/domain/repository"
	"github.com/oksasatya/devconnector/pkg/helpers"
	"github.com/oksasatya/devconnector/pkg/mailer"
	tpl "github.com/oksasatya/devconnector/pkg/mailer/templates"
	"github.com/oksasatya/devconnector/pkg/metrics"
)

type PostService struct {
	Posts   repo.PostRepository
	Users   repo.UserRepository
	Index   PostIndex
	Mail    EmailPublisher
	Metrics *metrics.Metrics
	Logger  *logrus.Logger
	AppName string
}

func NewPostService(posts repo.PostRepository, users repo.UserRepository, index PostIndex, mail EmailPublisher, m *metrics.Metrics, logger *logrus.Logger, appName string) *PostService {
	return &PostService{
		Posts:   posts,
		Users:   users,
		Index:   index,
		Mail:    mail,
		Metrics: m,
		Logger:  logger,
		AppName: appName,
	}
}

func (s *PostService) author(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// Create stores a post carrying a snapshot of the caller's name and avatar.
func (s *PostService) Create(ctx context.Context, userID, text string) (*entity.Post, error) {
	u, err := s.author(ctx, userID)
	if err != nil {
		return nil, err
	}
	p := &entity.Post{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Text:      text,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
	}
	if err := s.Posts.Create(ctx, p); err != nil {
		return nil, err
	}
	s.Metrics.IncrementPostsCreated()

	if s.Index != nil {
		if err := s.Index.Index(ctx, p); err != nil {
			helpers.LogWarn(s.Logger, "index post failed", err, logrus.Fields{"post_id": p.ID})
		}
	}
	return p, nil
}

func (s *PostService) List(ctx context.Context) ([]*entity.Post, error) {
	return s.Posts.List(ctx)
}

func (s *PostService) Get(ctx context.Context, id string) (*entity.Post, error) {
	p, err := s.Posts.GetByID(ctx, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	return p, err
}

// Delete removes the post if the caller wrote it. Ownership is checked in the
// same statement as the delete.
func (s *PostService) Delete(ctx context.Context, id, userID string) error {
	err := s.Posts.DeleteOwned(ctx, id, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}
	if s.Index != nil {
		if err := s.Index.Delete(ctx, id); err != nil {
			helpers.LogWarn(s.Logger, "unindex post failed", err, logrus.Fields{"post_id": id})
		}
	}
	return nil
}

func (s *PostService) Like(ctx context.Context, id, userID string) ([]entity.Like, error) {
	like := entity.Like{ID: uuid.NewString(), UserID: userID}
	p, err := s.mutate(ctx, id, func(p *entity.Post) error { return p.Like(like) })
	if err != nil {
		return nil, err
	}
	s.Metrics.IncrementLikes("like")
	return p.Likes, nil
}

func (s *PostService) Unlike(ctx context.Context, id, userID string) ([]entity.Like, error) {
	p, err := s.mutate(ctx, id, func(p *entity.Post) error { return p.Unlike(userID) })
	if err != nil {
		return nil, err
	}
	s.Metrics.IncrementLikes("unlike")
	return p.Likes, nil
}

// Comment prepends a comment snapshotting the caller and, when the caller is
// not the author, queues a notification for the author.
func (s *PostService) Comment(ctx context.Context, id, userID, text string) ([]entity.Comment, error) {
	u, err := s.author(ctx, userID)
	if err != nil {
		return nil, err
	}
	c := entity.Comment{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Text:      text,
		Name:      u.Name,
		AvatarURL: u.AvatarURL,
		CreatedAt: time.Now().UTC(),
	}
	p, err := s.mutate(ctx, id, func(p *entity.Post) error {
		p.AddComment(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.Metrics.IncrementComments("add")

	if !p.OwnedBy(userID) {
		s.notifyComment(ctx, p, c)
	}
	return p.Comments, nil
}

func (s *PostService) notifyComment(ctx context.Context, p *entity.Post, c entity.Comment) {
	if s.Mail == nil {
		return
	}
	author, err := s.Users.GetByID(ctx, p.UserID)
	if err != nil {
		// Authors may have deleted their account; their posts outlive them.
		return
	}
	job := mailer.EmailJob{
		To:       author.Email,
		Template: tpl.CommentNotification,
		Data:     tpl.NewCommentNotificationData(s.AppName, author.Name, c.Name, p.ID, p.Text, c.Text, c.CreatedAt),
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		helpers.LogWarn(s.Logger, "enqueue comment notification failed", err, logrus.Fields{"post_id": p.ID})
	}
}

func (s *PostService) Uncomment(ctx context.Context, id, commentID, userID string) ([]entity.Comment, error) {
	p, err := s.mutate(ctx, id, func(p *entity.Post) error { return p.RemoveComment(commentID, userID) })
	if err != nil {
		return nil, err
	}
	s.Metrics.IncrementComments("remove")
	return p.Comments, nil
}

// Search returns matching post documents, or none when no index is configured.
func (s *PostService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.Index == nil {
		return []map[string]any{}, nil
	}
	return s.Index.Search(ctx, q, size)
}

func (s *PostService) mutate(ctx context.Context, id string, fn func(*entity.Post) error) (*entity.Post, error) {
	var saved *entity.Post
	err := withVersionRetry(s.Metrics, "post", func() error {
		p, err := s.Posts.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := fn(p); err != nil {
			return err
		}
		if err := s.Posts.Update(ctx, p); err != nil {
			return err
		}
		saved = p
		return nil
	})
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return saved, nil
}
