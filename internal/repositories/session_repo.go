package repositories

import (
	"context"

	"healthhub/internal/models"
)

type SessionRepository interface {
	Create(ctx context.Context, session *models.Session) error
	GetByToken(ctx context.Context, token string) (*models.Session, error)
	DeleteExpired(ctx context.Context) (int64, error)
}

type sessionRepo struct {
	db Querier
}

func NewSessionRepo(db Querier) SessionRepository {
	return &sessionRepo{db: db}
}

func (r *sessionRepo) Create(ctx context.Context, session *models.Session) error {
	query := `
		INSERT INTO sessions (token, user_id, expires_at, created_at)
		VALUES ($1, $2, $3, NOW())
	`
	_, err := r.db.Exec(ctx, query, session.Token, session.UserID, session.ExpiresAt)
	return err
}

func (r *sessionRepo) GetByToken(ctx context.Context, token string) (*models.Session, error) {
	session := &models.Session{}
	query := `
		SELECT token, user_id, expires_at, created_at
		FROM sessions
		WHERE token = $1
	`
	err := r.db.QueryRow(ctx, query, token).Scan(&session.Token, &session.UserID,
		&session.ExpiresAt, &session.CreatedAt)
	if err != nil {
		return nil, err
	}
	return session, nil
}

// DeleteExpired removes sessions past their expiry. Expiry is still enforced
// at authentication time; this only keeps the table from growing unbounded.
func (r *sessionRepo) DeleteExpired(ctx context.Context) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at <= NOW()`
	tag, err := r.db.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
