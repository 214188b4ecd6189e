package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/oksasatya/devconnector/config"
	"github.com/oksasatya/devconnector/internal/application"
	"github.com/oksasatya/devconnector/internal/domain/entity"
	"github.com/oksasatya/devconnector/internal/domain/repository"
	pginfra "github.com/oksasatya/devconnector/internal/infrastructure/postgres"
	"github.com/oksasatya/devconnector/pkg/helpers"
)

// seed creates a demo account with a profile and one post. Re-running it
// reuses the account and skips the post if it already has one.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	users := pginfra.NewUserRepository(pool)
	posts := pginfra.NewPostRepository(pool)
	logger := helpers.NewDiscardLogger()

	email := "demo@devconnector.local"
	password := "password123"
	name := "Demo Developer"

	u, err := users.GetByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		hash, hErr := helpers.HashPassword(password)
		if hErr != nil {
			log.Fatalf("failed to hash password: %v", hErr)
		}
		u = &entity.User{ID: uuid.NewString(), Name: name, Email: email, Password: hash, AvatarURL: helpers.GravatarURL(email)}
		err = users.Create(ctx, u)
	}
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", u.ID, email, password)

	profiles := application.NewProfileService(pginfra.NewProfileRepository(pool), users, nil, logger)
	if _, err := profiles.Upsert(ctx, u.ID, entity.ProfilePatch{
		Company:        entity.StrField("DevConnector"),
		Location:       entity.StrField("Remote"),
		Status:         entity.StrField("Developer"),
		GitHubUsername: entity.StrField("octocat"),
		Skills:         entity.ParseSkills("Go, PostgreSQL, Redis"),
		Bio:            entity.StrField("Seeded demo profile"),
	}); err != nil {
		log.Fatalf("failed to seed profile: %v", err)
	}
	fmt.Println("seeded profile")

	all, err := posts.List(ctx)
	if err != nil {
		log.Fatalf("failed to list posts: %v", err)
	}
	if slices.ContainsFunc(all, func(p *entity.Post) bool { return p.OwnedBy(u.ID) }) {
		fmt.Println("demo post already present")
		return
	}
	svc := application.NewPostService(posts, users, nil, nil, nil, logger, cfg.AppName)
	p, err := svc.Create(ctx, u.ID, "Hello from the seeded demo account!")
	if err != nil {
		log.Fatalf("failed to seed post: %v", err)
	}
	fmt.Printf("seeded post: id=%s\n", p.ID)
}
