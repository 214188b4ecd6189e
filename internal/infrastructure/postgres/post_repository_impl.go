package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	"github.com/oksasatya/devconnector/internal/domain/repository"
)

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

const postColumns = `id, user_id, text, name, avatar_url, likes, comments, version, created_at`

func scanPost(row rowScanner) (*entity.Post, error) {
	p := &entity.Post{}
	if err := row.Scan(&p.ID, &p.UserID, &p.Text, &p.Name, &p.AvatarURL,
		&p.Likes, &p.Comments, &p.Version, &p.CreatedAt); err != nil {
		return nil, mapErr(err)
	}
	p.Normalize()
	return p, nil
}

func (r *PostRepository) Create(ctx context.Context, p *entity.Post) error {
	p.Normalize()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO posts (id, user_id, text, name, avatar_url, likes, comments)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING version, created_at
	`, p.ID, p.UserID, p.Text, p.Name, p.AvatarURL, p.Likes, p.Comments)

	return mapErr(row.Scan(&p.Version, &p.CreatedAt))
}

func (r *PostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	if !validID(id) {
		return nil, repository.ErrNotFound
	}
	return scanPost(r.pool.QueryRow(ctx, `SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
}

func (r *PostRepository) List(ctx context.Context) ([]*entity.Post, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+postColumns+` FROM posts ORDER BY created_at DESC, id`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]*entity.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, mapErr(rows.Err())
}

func (r *PostRepository) Update(ctx context.Context, p *entity.Post) error {
	p.Normalize()

	var version int64
	err := r.pool.QueryRow(ctx, `
		UPDATE posts
		SET likes = $1, comments = $2, version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`, p.Likes, p.Comments, p.ID, p.Version).Scan(&version)
	if err != nil {
		err = mapErr(err)
		if errors.Is(err, repository.ErrNotFound) {
			return existsOrStale(ctx, r.pool, `SELECT 1 FROM posts WHERE id = $1`, p.ID)
		}
		return err
	}
	p.Version = version
	return nil
}

func (r *PostRepository) DeleteOwned(ctx context.Context, id, userID string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	var owner string
	err := r.pool.QueryRow(ctx, `
		WITH target AS (SELECT id, user_id FROM posts WHERE id = $1),
		     removed AS (DELETE FROM posts p USING target t
		                 WHERE p.id = t.id AND t.user_id::text = $2
		                 RETURNING p.id)
		SELECT user_id::text FROM target
	`, id, userID).Scan(&owner)
	if err != nil {
		return mapErr(err)
	}
	if owner != userID {
		return entity.ErrNotOwner
	}
	return nil
}

var _ repository.PostRepository = (*PostRepository)(nil)
