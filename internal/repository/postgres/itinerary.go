package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"travelviet/internal/domain"
	"travelviet/internal/domain/models"
	"travelviet/internal/domain/repositories"
)

// PostgresItineraryRepository implements the ItineraryRepository interface.
// Day/item writes run through GetExecutor so a saved itinerary can be
// replaced atomically inside one transaction.
type PostgresItineraryRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewItineraryRepository creates a new itinerary repository.
func NewItineraryRepository(config *RepositoryConfig) repositories.ItineraryRepository {
	return &PostgresItineraryRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

// CreateDay inserts one itinerary day.
func (r *PostgresItineraryRepository) CreateDay(ctx context.Context, day *models.TripDay) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (trip_id, day_index, date, summary)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, r.tables.TripDays)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		day.TripID,
		day.DayIndex,
		day.Date,
		day.Summary,
	).Scan(&day.ID, &day.CreatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("trip %s: %w", day.TripID, domain.ErrNotFound)
		}
		return fmt.Errorf("create trip day: %w", err)
	}
	return nil
}

// GetDay returns one day, verifying ownership through the parent trip.
func (r *PostgresItineraryRepository) GetDay(ctx context.Context, dayID, ownerID string) (*models.TripDay, error) {
	query := fmt.Sprintf(`
		SELECT d.id, d.trip_id, d.day_index, to_char(d.date, 'YYYY-MM-DD'), d.summary, d.created_at
		FROM %s d
		JOIN %s t ON t.id = d.trip_id
		WHERE d.id = $1 AND t.owner_id = $2
	`, r.tables.TripDays, r.tables.Trips)

	var day models.TripDay
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, dayID, ownerID).Scan(
		&day.ID, &day.TripID, &day.DayIndex, &day.Date, &day.Summary, &day.CreatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("trip day %s: %w", dayID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get trip day: %w", err)
	}
	return &day, nil
}

// ListDays returns a trip's days ordered by day index.
func (r *PostgresItineraryRepository) ListDays(ctx context.Context, tripID string) ([]models.TripDay, error) {
	query := fmt.Sprintf(`
		SELECT id, trip_id, day_index, to_char(date, 'YYYY-MM-DD'), summary, created_at
		FROM %s
		WHERE trip_id = $1
		ORDER BY day_index ASC, created_at ASC
	`, r.tables.TripDays)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("list trip days: %w", err)
	}
	defer rows.Close()

	days := []models.TripDay{}
	for rows.Next() {
		var day models.TripDay
		err := rows.Scan(&day.ID, &day.TripID, &day.DayIndex, &day.Date, &day.Summary, &day.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan trip day: %w", err)
		}
		days = append(days, day)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trip days: %w", err)
	}
	return days, nil
}

// DeleteDaysByTrip removes all days for a trip; items cascade.
func (r *PostgresItineraryRepository) DeleteDaysByTrip(ctx context.Context, tripID string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE trip_id = $1`, r.tables.TripDays)

	if _, err := GetExecutor(ctx, r.pool).Exec(ctx, query, tripID); err != nil {
		return fmt.Errorf("delete trip days: %w", err)
	}
	return nil
}

// DeleteDay removes one day, verifying ownership through the parent trip.
func (r *PostgresItineraryRepository) DeleteDay(ctx context.Context, dayID, ownerID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s d
		USING %s t
		WHERE d.id = $1 AND d.trip_id = t.id AND t.owner_id = $2
	`, r.tables.TripDays, r.tables.Trips)

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query, dayID, ownerID)
	if err != nil {
		return fmt.Errorf("delete trip day: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip day %s: %w", dayID, domain.ErrNotFound)
	}
	return nil
}

// itemColumns renders times server-side so the model carries HH:MM strings.
const itemColumns = `
	i.id, i.trip_day_id, i.item_type, i.title, i.description, i.location_name,
	i.lat, i.lng, to_char(i.start_time, 'HH24:MI'), to_char(i.end_time, 'HH24:MI'),
	i.estimated_cost_vnd, i.is_hidden_gem, i.sort_order, i.created_at`

// CreateItem inserts one itinerary item.
func (r *PostgresItineraryRepository) CreateItem(ctx context.Context, item *models.TripItem) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (trip_day_id, item_type, title, description, location_name,
			lat, lng, start_time, end_time, estimated_cost_vnd, is_hidden_gem, sort_order)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id, created_at
	`, r.tables.TripItems)

	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query,
		item.TripDayID,
		item.ItemType,
		item.Title,
		item.Description,
		item.LocationName,
		item.Lat,
		item.Lng,
		item.StartTime,
		item.EndTime,
		item.EstimatedCostVND,
		item.IsHiddenGem,
		item.SortOrder,
	).Scan(&item.ID, &item.CreatedAt)

	if err != nil {
		if isPgForeignKeyError(err) {
			return fmt.Errorf("trip day %s: %w", item.TripDayID, domain.ErrNotFound)
		}
		return fmt.Errorf("create trip item: %w", err)
	}
	return nil
}

// GetItem returns one item, verifying ownership through the parent trip.
func (r *PostgresItineraryRepository) GetItem(ctx context.Context, itemID, ownerID string) (*models.TripItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s i
		JOIN %s d ON d.id = i.trip_day_id
		JOIN %s t ON t.id = d.trip_id
		WHERE i.id = $1 AND t.owner_id = $2
	`, itemColumns, r.tables.TripItems, r.tables.TripDays, r.tables.Trips)

	var item models.TripItem
	err := GetExecutor(ctx, r.pool).QueryRow(ctx, query, itemID, ownerID).Scan(
		&item.ID,
		&item.TripDayID,
		&item.ItemType,
		&item.Title,
		&item.Description,
		&item.LocationName,
		&item.Lat,
		&item.Lng,
		&item.StartTime,
		&item.EndTime,
		&item.EstimatedCostVND,
		&item.IsHiddenGem,
		&item.SortOrder,
		&item.CreatedAt,
	)
	if err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("trip item %s: %w", itemID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get trip item: %w", err)
	}
	return &item, nil
}

// ListItemsByTrip returns every item of a trip joined through its days,
// ordered the way the itinerary is displayed.
func (r *PostgresItineraryRepository) ListItemsByTrip(ctx context.Context, tripID string) ([]models.TripItem, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s i
		JOIN %s d ON d.id = i.trip_day_id
		WHERE d.trip_id = $1
		ORDER BY d.day_index ASC, i.sort_order ASC, i.created_at ASC
	`, itemColumns, r.tables.TripItems, r.tables.TripDays)

	rows, err := GetExecutor(ctx, r.pool).Query(ctx, query, tripID)
	if err != nil {
		return nil, fmt.Errorf("list trip items: %w", err)
	}
	defer rows.Close()

	items := []models.TripItem{}
	for rows.Next() {
		var item models.TripItem
		err := rows.Scan(
			&item.ID,
			&item.TripDayID,
			&item.ItemType,
			&item.Title,
			&item.Description,
			&item.LocationName,
			&item.Lat,
			&item.Lng,
			&item.StartTime,
			&item.EndTime,
			&item.EstimatedCostVND,
			&item.IsHiddenGem,
			&item.SortOrder,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trip item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trip items: %w", err)
	}
	return items, nil
}

// UpdateItem updates an item's fields, verifying ownership through the
// day's parent trip.
func (r *PostgresItineraryRepository) UpdateItem(ctx context.Context, item *models.TripItem, ownerID string) error {
	query := fmt.Sprintf(`
		UPDATE %s i
		SET item_type = $1, title = $2, description = $3, location_name = $4,
			lat = $5, lng = $6, start_time = $7, end_time = $8,
			estimated_cost_vnd = $9, is_hidden_gem = $10, sort_order = $11
		FROM %s d
		JOIN %s t ON t.id = d.trip_id
		WHERE i.id = $12 AND i.trip_day_id = d.id AND t.owner_id = $13
	`, r.tables.TripItems, r.tables.TripDays, r.tables.Trips)

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query,
		item.ItemType,
		item.Title,
		item.Description,
		item.LocationName,
		item.Lat,
		item.Lng,
		item.StartTime,
		item.EndTime,
		item.EstimatedCostVND,
		item.IsHiddenGem,
		item.SortOrder,
		item.ID,
		ownerID,
	)
	if err != nil {
		return fmt.Errorf("update trip item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip item %s: %w", item.ID, domain.ErrNotFound)
	}
	return nil
}

// DeleteItem removes one item, verifying ownership through the parent trip.
func (r *PostgresItineraryRepository) DeleteItem(ctx context.Context, itemID, ownerID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s i
		USING %s d, %s t
		WHERE i.id = $1 AND i.trip_day_id = d.id AND d.trip_id = t.id AND t.owner_id = $2
	`, r.tables.TripItems, r.tables.TripDays, r.tables.Trips)

	tag, err := GetExecutor(ctx, r.pool).Exec(ctx, query, itemID, ownerID)
	if err != nil {
		return fmt.Errorf("delete trip item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("trip item %s: %w", itemID, domain.ErrNotFound)
	}
	return nil
}
