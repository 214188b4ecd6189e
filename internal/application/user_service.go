package application

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	repo "github.com/oksasatya/devconnector/internal/domain/repository"
	"github.com/oksasatya/devconnector/pkg/helpers"
	"github.com/oksasatya/devconnector/pkg/mailer"
	tpl "github.com/oksasatya/devconnector/pkg/mailer/templates"
)

type UserService struct {
	Repo    repo.UserRepository
	JWT     *helpers.JWTManager
	Avatars AvatarStore
	Mail    EmailPublisher
	Logger  *logrus.Logger
	AppName string
}

func NewUserService(users repo.UserRepository, jwt *helpers.JWTManager, avatars AvatarStore, mail EmailPublisher, logger *logrus.Logger, appName string) *UserService {
	return &UserService{
		Repo:    users,
		JWT:     jwt,
		Avatars: avatars,
		Mail:    mail,
		Logger:  logger,
		AppName: appName,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates the account and returns a signed token for it.
func (s *UserService) Register(ctx context.Context, name, email, password string) (string, error) {
	email = normalizeEmail(email)
	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return "", ErrUserExists
	} else if !errors.Is(err, repo.ErrNotFound) {
		return "", err
	}

	hash, err := helpers.HashPassword(password)
	if err != nil {
		return "", err
	}
	u := &entity.User{
		ID:        uuid.NewString(),
		Name:      strings.TrimSpace(name),
		Email:     email,
		Password:  hash,
		AvatarURL: helpers.GravatarURL(email),
	}
	if err := s.Repo.Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return "", ErrUserExists
		}
		return "", err
	}

	s.sendWelcome(ctx, u)

	token, _, err := s.JWT.GenerateToken(u.ID)
	if err != nil {
		helpers.LogError(s.Logger, "generate token failed", err, logrus.Fields{"user_id": u.ID})
		return "", err
	}
	return token, nil
}

func (s *UserService) sendWelcome(ctx context.Context, u *entity.User) {
	if s.Mail == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: tpl.Welcome,
		Data:     tpl.NewWelcomeData(s.AppName, u.Name, u.Email),
	}
	if err := s.Mail.PublishJSON(ctx, job); err != nil {
		helpers.LogWarn(s.Logger, "enqueue welcome email failed", err, logrus.Fields{"user_id": u.ID})
	}
}

// Login checks the credentials and returns a signed token. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	u, err := s.Repo.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repo.ErrNotFound) {
		return "", ErrInvalidCredentials
	}
	if err != nil {
		return "", err
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return "", ErrInvalidCredentials
	}
	token, _, err := s.JWT.GenerateToken(u.ID)
	return token, err
}

func (s *UserService) Me(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// UploadAvatar stores the image and points the user's avatar at it. Post and
// comment snapshots taken earlier keep the old avatar.
func (s *UserService) UploadAvatar(ctx context.Context, userID string, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.Avatars == nil {
		return nil, ErrStorageDisabled
	}
	u, err := s.Me(ctx, userID)
	if err != nil {
		return nil, err
	}
	url, err := s.Avatars.Upload(ctx, userID, filename, contentType, r)
	if err != nil {
		return nil, err
	}
	u.AvatarURL = url
	if err := s.Repo.Update(ctx, u); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
