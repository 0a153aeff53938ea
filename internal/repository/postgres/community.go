package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"travelviet/internal/domain"
	"travelviet/internal/domain/models"
	"travelviet/internal/domain/repositories"
)

// PostgresCommunityRepository implements the CommunityRepository interface.
type PostgresCommunityRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewCommunityRepository creates a new community repository.
func NewCommunityRepository(config *RepositoryConfig) repositories.CommunityRepository {
	return &PostgresCommunityRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// Publish inserts a community entry for a trip. Each trip publishes at most
// once; a second publish conflicts.
func (r *PostgresCommunityRepository) Publish(ctx context.Context, entry *models.PublicItinerary) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (trip_id, owner_id, title, summary, tags)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, likes_count, saves_count, published_at
	`, r.tables.PublicItineraries)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		entry.TripID,
		entry.OwnerID,
		entry.Title,
		entry.Summary,
		entry.Tags,
	).Scan(&entry.ID, &entry.LikesCount, &entry.SavesCount, &entry.PublishedAt)

	if err != nil {
		if isPgDuplicateError(err) {
			return &domain.ConflictError{
				Message:      "trip is already published",
				ResourceType: "public_itinerary",
				ResourceID:   entry.TripID,
			}
		}
		if isPgForeignKeyError(err) {
			return fmt.Errorf("trip %s: %w", entry.TripID, domain.ErrNotFound)
		}
		return fmt.Errorf("publish itinerary: %w", err)
	}
	return nil
}

// Unpublish removes a trip's community entry.
func (r *PostgresCommunityRepository) Unpublish(ctx context.Context, tripID, ownerID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE trip_id = $1 AND owner_id = $2
	`, r.tables.PublicItineraries)

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query, tripID, ownerID)
	if err != nil {
		return fmt.Errorf("unpublish itinerary: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("published itinerary for trip %s: %w", tripID, domain.ErrNotFound)
	}
	return nil
}

// GetByTrip retrieves a trip's community entry.
func (r *PostgresCommunityRepository) GetByTrip(ctx context.Context, tripID string) (*models.PublicItinerary, error) {
	query := fmt.Sprintf(`
		SELECT id, trip_id, owner_id, title, summary, tags,
			likes_count, saves_count, published_at
		FROM %s
		WHERE trip_id = $1
	`, r.tables.PublicItineraries)

	var entry models.PublicItinerary
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, tripID).Scan(
		&entry.ID,
		&entry.TripID,
		&entry.OwnerID,
		&entry.Title,
		&entry.Summary,
		&entry.Tags,
		&entry.LikesCount,
		&entry.SavesCount,
		&entry.PublishedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("published itinerary for trip %s: %w", tripID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get published itinerary: %w", err)
	}
	return &entry, nil
}

// ListPublished returns the newest published itineraries, capped at limit.
func (r *PostgresCommunityRepository) ListPublished(ctx context.Context, limit int) ([]models.PublicItinerary, error) {
	query := fmt.Sprintf(`
		SELECT id, trip_id, owner_id, title, summary, tags,
			likes_count, saves_count, published_at
		FROM %s
		ORDER BY published_at DESC
		LIMIT $1
	`, r.tables.PublicItineraries)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list published itineraries: %w", err)
	}
	defer rows.Close()

	entries := []models.PublicItinerary{}
	for rows.Next() {
		var entry models.PublicItinerary
		err := rows.Scan(
			&entry.ID,
			&entry.TripID,
			&entry.OwnerID,
			&entry.Title,
			&entry.Summary,
			&entry.Tags,
			&entry.LikesCount,
			&entry.SavesCount,
			&entry.PublishedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan published itinerary: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate published itineraries: %w", err)
	}
	return entries, nil
}
