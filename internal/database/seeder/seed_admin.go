package seeder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"job-portal/internal/database"
	ucauth "job-portal/internal/usecase/auth"

	"github.com/google/uuid"
)

// AdminSeeder creates the first admin account. Admins cannot self-register,
// so this is the only way one comes into existence. An existing account with
// the same email is left untouched.
type AdminSeeder struct {
	Email       string
	Password    string
	DisplayName string
}

func (AdminSeeder) Name() string { return "admin" }

func (s AdminSeeder) Run(ctx context.Context, db database.DB) error {
	email := ucauth.NormalizeEmail(s.Email)
	if email == "" || s.Password == "" {
		return nil
	}
	if err := EnsureTableColumns(ctx, db, "users", "id", "name", "email", "password_hash", "role", "status", "created_at"); err != nil {
		return err
	}

	hash, err := ucauth.HashPassword(s.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	name := strings.TrimSpace(s.DisplayName)
	if name == "" {
		name = "Administrator"
	}

	_, err = db.Exec(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, 'admin', 'active', $5, $5)
		 ON CONFLICT (email) DO NOTHING`,
		uuid.New(), name, email, hash, time.Now().UTC(),
	)
	return err
}
