package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"travelviet/internal/domain"
	"travelviet/internal/domain/models"
	"travelviet/internal/domain/repositories"
)

// PostgresProfileRepository implements the ProfileRepository interface.
type PostgresProfileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewProfileRepository creates a new profile repository.
func NewProfileRepository(config *RepositoryConfig) repositories.ProfileRepository {
	return &PostgresProfileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// GetByUserID retrieves a profile by the auth user id.
func (r *PostgresProfileRepository) GetByUserID(ctx context.Context, userID string) (*models.Profile, error) {
	query := fmt.Sprintf(`
		SELECT id, full_name, avatar_url, home_city, travel_styles,
			budget_min_vnd, budget_max_vnd, created_at, updated_at
		FROM %s
		WHERE id = $1
	`, r.tables.Profiles)

	var profile models.Profile
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, userID).Scan(
		&profile.ID,
		&profile.FullName,
		&profile.AvatarURL,
		&profile.HomeCity,
		&profile.TravelStyles,
		&profile.BudgetMinVND,
		&profile.BudgetMaxVND,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// Upsert creates the profile row on first write, updating it afterwards.
func (r *PostgresProfileRepository) Upsert(ctx context.Context, profile *models.Profile) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, full_name, avatar_url, home_city, travel_styles,
			budget_min_vnd, budget_max_vnd)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			full_name = EXCLUDED.full_name,
			avatar_url = EXCLUDED.avatar_url,
			home_city = EXCLUDED.home_city,
			travel_styles = EXCLUDED.travel_styles,
			budget_min_vnd = EXCLUDED.budget_min_vnd,
			budget_max_vnd = EXCLUDED.budget_max_vnd,
			updated_at = now()
		RETURNING created_at, updated_at
	`, r.tables.Profiles)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		profile.ID,
		profile.FullName,
		profile.AvatarURL,
		profile.HomeCity,
		profile.TravelStyles,
		profile.BudgetMinVND,
		profile.BudgetMaxVND,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)

	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}
