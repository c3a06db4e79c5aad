package repositories

import (
	"context"

	"github.com/google/uuid"

	"healthhub/internal/models"
)

type AdminUserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
}

type adminUserRepo struct {
	db Querier
}

func NewAdminUserRepo(db Querier) AdminUserRepository {
	return &adminUserRepo{db: db}
}

func (r *adminUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.AdminUser, error) {
	user := &models.AdminUser{}
	query := `
		SELECT id, email, password_hash, full_name, role, created_at, updated_at
		FROM admin_users
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Email, &user.PasswordHash,
		&user.FullName, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *adminUserRepo) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	user := &models.AdminUser{}
	query := `
		SELECT id, email, password_hash, full_name, role, created_at, updated_at
		FROM admin_users
		WHERE email = $1
	`
	err := r.db.QueryRow(ctx, query, email).Scan(&user.ID, &user.Email, &user.PasswordHash,
		&user.FullName, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return user, nil
}
