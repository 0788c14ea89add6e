package seed

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// CreateDefaultData inserts a few development accounts so the hierarchy and
// link endpoints have users to work against. Accounts are owned by a separate
// identity service in production; this service only reads them.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	lgr.Info().Msg("Checking/Creating default users...")

	defaultUsers := []struct {
		email     string
		fullName  string
		isTeacher bool
	}{
		{"teacher@studyflow.dev", "Default Teacher", true},
		{"student@studyflow.dev", "Default Student", false},
	}

	query := `
		INSERT INTO users (email, full_name, is_teacher)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO NOTHING
	`

	for _, u := range defaultUsers {
		if _, err := dbPool.Exec(ctx, query, u.email, u.fullName, u.isTeacher); err != nil {
			lgr.Error().Err(err).Str("email", u.email).Msg("Error creating default user")
			return err
		}
	}

	lgr.Info().Msg("Default users in place.")
	return nil
}
