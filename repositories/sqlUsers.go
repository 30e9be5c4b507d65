package repositories

import (
	"context"
	"time"

	"planner-server/entities"

	"github.com/google/uuid"
)

type userSQLRepository struct {
	db DBTX
}

func NewUserSQLRepository(db DBTX) UserRepository {
	return &userSQLRepository{db: db}
}

func (r *userSQLRepository) Create(ctx context.Context, user *entities.User) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	user.CreatedAt, user.UpdatedAt = now, now

	query :=
		`INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID, user.Username, user.Email, user.PasswordHash, user.CreatedAt, user.UpdatedAt)
	return translate("create user", err)
}

func (r *userSQLRepository) GetByID(ctx context.Context, id string) (*entities.User, error) {
	return r.getOne(ctx, "get user", `SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE id = $1`, id)
}

func (r *userSQLRepository) GetByUsername(ctx context.Context, username string) (*entities.User, error) {
	return r.getOne(ctx, "get user", `SELECT id, username, email, password_hash, created_at, updated_at FROM users WHERE username = $1`, username)
}

func (r *userSQLRepository) getOne(ctx context.Context, op, query string, arg any) (*entities.User, error) {
	user := &entities.User{}
	err := r.db.QueryRowContext(ctx, query, arg).
		Scan(&user.ID, &user.Username, &user.Email, &user.PasswordHash, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, translate(op, err)
	}
	return user, nil
}
