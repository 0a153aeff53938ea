package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"travelviet/internal/domain"
	"travelviet/internal/domain/models"
	"travelviet/internal/domain/repositories"
)

// PostgresTripRepository implements the TripRepository interface.
type PostgresTripRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewTripRepository creates a new trip repository.
func NewTripRepository(config *RepositoryConfig) repositories.TripRepository {
	return &PostgresTripRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// tripColumns is the select list shared by every trip read. Dates are
// rendered server-side so the model carries plain YYYY-MM-DD strings.
const tripColumns = `
	id, owner_id, title, destination_provinces,
	to_char(start_date, 'YYYY-MM-DD'), to_char(end_date, 'YYYY-MM-DD'),
	travelers_count, mode, total_budget_vnd, status, share_slug,
	created_at, updated_at`

func scanTrip(row interface{ Scan(...interface{}) error }, trip *models.Trip) error {
	return row.Scan(
		&trip.ID,
		&trip.OwnerID,
		&trip.Title,
		&trip.DestinationProvinces,
		&trip.StartDate,
		&trip.EndDate,
		&trip.TravelersCount,
		&trip.Mode,
		&trip.TotalBudgetVND,
		&trip.Status,
		&trip.ShareSlug,
		&trip.CreatedAt,
		&trip.UpdatedAt,
	)
}

// CreateTrip inserts a new trip and fills in the generated columns.
func (r *PostgresTripRepository) CreateTrip(ctx context.Context, trip *models.Trip) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (owner_id, title, destination_provinces, start_date, end_date,
			travelers_count, mode, total_budget_vnd, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`, r.tables.Trips)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		trip.OwnerID,
		trip.Title,
		trip.DestinationProvinces,
		trip.StartDate,
		trip.EndDate,
		trip.TravelersCount,
		trip.Mode,
		trip.TotalBudgetVND,
		trip.Status,
	).Scan(&trip.ID, &trip.CreatedAt, &trip.UpdatedAt)

	if err != nil {
		return fmt.Errorf("create trip: %w", err)
	}
	return nil
}

// GetTrip retrieves one trip scoped to its owner.
func (r *PostgresTripRepository) GetTrip(ctx context.Context, tripID, ownerID string) (*models.Trip, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND owner_id = $2
	`, tripColumns, r.tables.Trips)

	var trip models.Trip
	err := scanTrip(GetExecutor(ctx, r.pool).QueryRow(ctx, query, tripID, ownerID), &trip)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("trip %s: %w", tripID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get trip: %w", err)
	}
	return &trip, nil
}

// GetTripByShareSlug retrieves a trip by its public share slug. Not owner
// scoped; this backs the unauthenticated share route.
func (r *PostgresTripRepository) GetTripByShareSlug(ctx context.Context, slug string) (*models.Trip, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE share_slug = $1
	`, tripColumns, r.tables.Trips)

	var trip models.Trip
	err := scanTrip(GetExecutor(ctx, r.pool).QueryRow(ctx, query, slug), &trip)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("shared trip %s: %w", slug, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get shared trip: %w", err)
	}
	return &trip, nil
}

// ListTrips retrieves all trips for a user, newest updated first.
func (r *PostgresTripRepository) ListTrips(ctx context.Context, ownerID string) ([]models.Trip, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE owner_id = $1
		ORDER BY updated_at DESC
	`, tripColumns, r.tables.Trips)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list trips: %w", err)
	}
	defer rows.Close()

	trips := []models.Trip{}
	for rows.Next() {
		var trip models.Trip
		if err := scanTrip(rows, &trip); err != nil {
			return nil, fmt.Errorf("scan trip: %w", err)
		}
		trips = append(trips, trip)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trips: %w", err)
	}
	return trips, nil
}

// UpdateTrip updates a trip's mutable fields and bumps updated_at.
func (r *PostgresTripRepository) UpdateTrip(ctx context.Context, trip *models.Trip) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET title = $1, destination_provinces = $2, start_date = $3, end_date = $4,
			travelers_count = $5, mode = $6, total_budget_vnd = $7, status = $8,
			updated_at = now()
		WHERE id = $9 AND owner_id = $10
		RETURNING updated_at
	`, r.tables.Trips)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		trip.Title,
		trip.DestinationProvinces,
		trip.StartDate,
		trip.EndDate,
		trip.TravelersCount,
		trip.Mode,
		trip.TotalBudgetVND,
		trip.Status,
		trip.ID,
		trip.OwnerID,
	).Scan(&trip.UpdatedAt)

	if err != nil {
		if isPgNoRowsError(err) {
			return fmt.Errorf("trip %s: %w", trip.ID, domain.ErrNotFound)
		}
		return fmt.Errorf("update trip: %w", err)
	}
	return nil
}

// DeleteTrip removes a trip; days and items cascade via foreign keys.
func (r *PostgresTripRepository) DeleteTrip(ctx context.Context, tripID, ownerID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND owner_id = $2
	`, r.tables.Trips)

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query, tripID, ownerID)
	if err != nil {
		return fmt.Errorf("delete trip: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip %s: %w", tripID, domain.ErrNotFound)
	}
	return nil
}

// SetShareSlug sets or clears the trip's public share slug.
func (r *PostgresTripRepository) SetShareSlug(ctx context.Context, tripID, ownerID string, slug *string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET share_slug = $1, updated_at = now()
		WHERE id = $2 AND owner_id = $3
	`, r.tables.Trips)

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query, slug, tripID, ownerID)
	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "share slug already in use",
				ResourceType: "trip",
				ResourceID:   tripID,
			}
		}
		return fmt.Errorf("set share slug: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip %s: %w", tripID, domain.ErrNotFound)
	}
	return nil
}
