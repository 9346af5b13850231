package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mete/schoolhub/internal/app/models"
	"github.com/mete/schoolhub/internal/pkg/auth"
	"github.com/mete/schoolhub/internal/pkg/logger"
)

type seedUser struct {
	firstName string
	lastName  string
	email     string
	password  string
	role      models.Role
}

var defaultUsers = []seedUser{
	{"Ayse", "Demir", "admin@schoolhub.app", "Admin123!", models.RoleAdmin},
	{"Mehmet", "Kaya", "m.kaya@schoolhub.app", "Teacher123!", models.RoleTeacher},
	{"Elif", "Yilmaz", "e.yilmaz@schoolhub.app", "Teacher123!", models.RoleTeacher},
	{"Can", "Ozturk", "can.ozturk@schoolhub.app", "Student123!", models.RoleStudent},
	{"Zeynep", "Arslan", "zeynep.arslan@schoolhub.app", "Student123!", models.RoleStudent},
}

type seedCourse struct {
	name string
	code string
}

var defaultCourses = []seedCourse{
	{"Mathematics", "MATH-9"},
	{"Physics", "PHYS-10"},
	{"Literature", "LIT-9"},
}

// CreateDefaultData seeds baseline users and courses. Each row is inserted
// only when missing, so running it on every startup is safe.
func CreateDefaultData(ctx context.Context, pool *pgxpool.Pool) error {
	for _, u := range defaultUsers {
		var exists bool
		err := pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, u.email).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check seed user %s: %w", u.email, err)
		}
		if exists {
			continue
		}

		hash, err := auth.HashPassword(u.password)
		if err != nil {
			return fmt.Errorf("failed to hash seed password: %w", err)
		}

		_, err = pool.Exec(ctx,
			`INSERT INTO users (first_name, last_name, email, password_hash, role)
			 VALUES ($1, $2, $3, $4, $5)`,
			u.firstName, u.lastName, u.email, hash, string(u.role))
		if err != nil {
			return fmt.Errorf("failed to seed user %s: %w", u.email, err)
		}
		logger.Info().Str("email", u.email).Str("role", string(u.role)).Msg("Seeded user")
	}

	for _, c := range defaultCourses {
		var exists bool
		err := pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM courses WHERE code = $1)`, c.code).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check seed course %s: %w", c.code, err)
		}
		if exists {
			continue
		}

		_, err = pool.Exec(ctx,
			`INSERT INTO courses (name, code) VALUES ($1, $2)`,
			c.name, c.code)
		if err != nil {
			return fmt.Errorf("failed to seed course %s: %w", c.code, err)
		}
		logger.Info().Str("code", c.code).Msg("Seeded course")
	}

	return nil
}
