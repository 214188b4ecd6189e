package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/oksasatya/devconnector/internal/domain/entity"
	"github.com/oksasatya/devconnector/internal/domain/repository"
)

// ProfileRepository stores each profile as one row; social, experience and
// education are JSONB documents rewritten with the row.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `id, user_id, company, website, location, bio, status, github_username,
	skills, social, experience, education, version, created_at, updated_at`

func scanProfile(row rowScanner) (*entity.Profile, error) {
	p := &entity.Profile{}
	if err := row.Scan(&p.ID, &p.UserID, &p.Company, &p.Website, &p.Location, &p.Bio,
		&p.Status, &p.GitHubUsername, &p.Skills, &p.Social, &p.Experience, &p.Education,
		&p.Version, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	p.Normalize()
	return p, nil
}

func (r *ProfileRepository) Create(ctx context.Context, p *entity.Profile) error {
	p.Normalize()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (id, user_id, company, website, location, bio, status, github_username,
			skills, social, experience, education)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING version, created_at, updated_at
	`, p.ID, p.UserID, p.Company, p.Website, p.Location, p.Bio, p.Status, p.GitHubUsername,
		p.Skills, p.Social, p.Experience, p.Education)

	return mapErr(row.Scan(&p.Version, &p.CreatedAt, &p.UpdatedAt))
}

func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*entity.Profile, error) {
	if !validID(userID) {
		return nil, repository.ErrNotFound
	}
	return scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE user_id = $1`, userID))
}

func (r *ProfileRepository) List(ctx context.Context) ([]*entity.Profile, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles ORDER BY created_at, id`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	out := make([]*entity.Profile, 0)
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, mapErr(rows.Err())
}

func (r *ProfileRepository) Update(ctx context.Context, p *entity.Profile) error {
	p.Normalize()
	now := time.Now()

	var version int64
	err := r.pool.QueryRow(ctx, `
		UPDATE profiles
		SET company = $1, website = $2, location = $3, bio = $4, status = $5, github_username = $6,
			skills = $7, social = $8, experience = $9, education = $10,
			version = version + 1, updated_at = $11
		WHERE id = $12 AND version = $13
		RETURNING version
	`, p.Company, p.Website, p.Location, p.Bio, p.Status, p.GitHubUsername,
		p.Skills, p.Social, p.Experience, p.Education, now, p.ID, p.Version).Scan(&version)
	if err != nil {
		err = mapErr(err)
		if errors.Is(err, repository.ErrNotFound) {
			return existsOrStale(ctx, r.pool, `SELECT 1 FROM profiles WHERE id = $1`, p.ID)
		}
		return err
	}
	p.Version = version
	p.UpdatedAt = now
	return nil
}

func (r *ProfileRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if !validID(userID) {
		return repository.ErrNotFound
	}
	_, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE user_id = $1`, userID)
	return mapErr(err)
}

// existsOrStale tells a vanished row apart from a version mismatch after a
// conditional update matched nothing.
func existsOrStale(ctx context.Context, pool *pgxpool.Pool, query, id string) error {
	var one int
	if err := pool.QueryRow(ctx, query, id).Scan(&one); err != nil {
		return mapErr(err)
	}
	return repository.ErrStaleVersion
}

var _ repository.ProfileRepository = (*ProfileRepository)(nil)
