package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type User struct {
	ID             uuid.UUID
	Name           string
	Email          string
	HashedPassword string
	IsAdmin        bool
	CreatedAt      time.Time
}

type Users struct {
	db DBTX
}

func NewUsers(db DBTX) *Users {
	return &Users{db: db}
}

const userColumns = `id, name, email, hashed_password, is_admin, created_at`

func scanUser(row pgx.Row) (User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.HashedPassword, &u.IsAdmin, &u.CreatedAt)
	return u, err
}

func (s *Users) GetByEmail(ctx context.Context, email string) (User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND is_active`
	return scanUser(s.db.QueryRow(ctx, q, email))
}

func (s *Users) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND is_active`
	return scanUser(s.db.QueryRow(ctx, q, id))
}

type CreateUserParams struct {
	Name           string
	Email          string
	HashedPassword string
	IsAdmin        bool
}

func (s *Users) Create(ctx context.Context, arg CreateUserParams) (User, error) {
	const q = `
		INSERT INTO users (name, email, hashed_password, is_admin)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + userColumns + `
	`
	return scanUser(s.db.QueryRow(ctx, q, arg.Name, arg.Email, arg.HashedPassword, arg.IsAdmin))
}
