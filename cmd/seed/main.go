package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"travelviet/internal/config"
	"travelviet/internal/domain/models"
	"travelviet/internal/domain/services"
	"travelviet/internal/repository/postgres"
	"travelviet/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	dropTables := flag.Bool("drop-tables", false, "Drop all tables before seeding (fresh start)")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't seed demo data")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	// SAFETY: Prevent destructive operations in production
	if cfg.Environment == "prod" && *dropTables {
		log.Fatalf("BLOCKED: cannot run --drop-tables in production environment")
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	log.Printf("Seeding database (environment: %s, prefix: %s)", cfg.Environment, cfg.TablePrefix)

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)

	if *dropTables {
		log.Println("Dropping all tables...")
		if err := dropAllTables(ctx, pool, tables); err != nil {
			log.Fatalf("Failed to drop tables: %v", err)
		}
		log.Println("Tables dropped")
	}

	log.Println("Ensuring database schema is up to date...")
	if err := runSchema(ctx, pool, tables, cfg.TablePrefix); err != nil {
		log.Fatalf("Failed to run schema: %v", err)
	}
	log.Println("Schema ready")

	if *schemaOnly {
		log.Println("Schema setup complete (schema-only mode)")
		return
	}

	// Demo user must exist in Supabase auth; the id here only needs to be a
	// stable UUID for local development.
	seedUserID := os.Getenv("SEED_USER_ID")
	if seedUserID == "" {
		seedUserID = "00000000-0000-0000-0000-000000000001"
	}

	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	tripRepo := postgres.NewTripRepository(repoConfig)
	itineraryRepo := postgres.NewItineraryRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	tripService := service.NewTripService(tripRepo, itineraryRepo, logger)
	itineraryService := service.NewItineraryService(tripRepo, itineraryRepo, txManager, logger)

	log.Println("Creating demo trip...")
	startDate := "2026-09-11"
	endDate := "2026-09-13"
	trip, err := tripService.CreateTrip(ctx, &services.CreateTripRequest{
		OwnerID:              seedUserID,
		Title:                "Đà Lạt cuối tuần",
		DestinationProvinces: []string{"Lâm Đồng"},
		StartDate:            &startDate,
		EndDate:              &endDate,
		TravelersCount:       2,
		Mode:                 models.ModeCouple,
		TotalBudgetVND:       5000000,
	})
	if err != nil {
		log.Fatalf("Failed to create demo trip: %v", err)
	}

	result, err := itineraryService.SaveFromText(ctx, trip.ID, seedUserID, demoItinerary)
	if err != nil {
		log.Fatalf("Failed to seed itinerary: %v", err)
	}

	log.Printf("Seeding complete: trip %s, %d days, %d items", trip.ID, result.DaysSaved, result.ItemsSaved)
}

// demoItinerary goes through the same parser the save endpoint uses, so the
// seeded rows look exactly like a saved assistant reply.
const demoItinerary = `### Ngày 1: 2026-09-11
- **8:00**: Khởi hành từ Sài Gòn, di chuyển bằng xe limousine lên Đà Lạt, vé 350.000đ
- **13:00**: Nhận phòng và nghỉ ngơi tại khách sạn [Dalat Wonder Resort](https://maps.google.com/?q=dalat+wonder+resort) 📍 Xem bản đồ
- **16:00**: Dạo quanh [Hồ Xuân Hương](https://maps.google.com/?q=ho+xuan+huong), thuê xe đạp đôi 50.000 VNĐ
- **19:00**: Ăn tối lẩu gà lá é tại quán Tao Ngộ, khoảng 250.000đ cho hai người

### Ngày 2: 2026-09-12
- **7:30**: Săn mây tại [Đồi chè Cầu Đất](https://maps.google.com/?q=doi+che+cau+dat), đi sớm để kịp bình minh
- **11:30**: Ăn trưa bánh căn và sữa đậu nành ở chợ Đà Lạt, 80.000đ
- **14:00**: Tham quan [Thiền viện Trúc Lâm](https://maps.google.com/?q=thien+vien+truc+lam) và hồ Tuyền Lâm
- **18:00**: Cà phê ngắm hoàng hôn tại quán Túi Mơ To

### Ngày 3: 2026-09-13
- **9:00**: Mua đặc sản tại chợ Đà Lạt: mứt dâu, trà atiso, khoảng 300.000 VNĐ
- **12:00**: Trả phòng, ăn trưa nhẹ rồi di chuyển ra bến xe về lại Sài Gòn
`

// runSchema creates tables if they don't exist.
func runSchema(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames, tablePrefix string) error {
	if _, err := pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`); err != nil {
		return err
	}

	createProfiles := `
		CREATE TABLE IF NOT EXISTS ` + tables.Profiles + ` (
			id UUID PRIMARY KEY,
			full_name TEXT,
			avatar_url TEXT,
			home_city TEXT,
			travel_styles TEXT[] NOT NULL DEFAULT '{}',
			budget_min_vnd BIGINT NOT NULL DEFAULT 0,
			budget_max_vnd BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createProfiles); err != nil {
		return err
	}

	createTrips := `
		CREATE TABLE IF NOT EXISTS ` + tables.Trips + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			owner_id UUID NOT NULL,
			title TEXT NOT NULL,
			destination_provinces TEXT[] NOT NULL DEFAULT '{}',
			start_date DATE,
			end_date DATE,
			travelers_count INTEGER NOT NULL DEFAULT 1,
			mode TEXT NOT NULL DEFAULT 'solo',
			total_budget_vnd BIGINT NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'draft',
			share_slug TEXT UNIQUE,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createTrips); err != nil {
		return err
	}

	createDays := `
		CREATE TABLE IF NOT EXISTS ` + tables.TripDays + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			trip_id UUID NOT NULL REFERENCES ` + tables.Trips + `(id) ON DELETE CASCADE,
			day_index INTEGER NOT NULL,
			date DATE,
			summary TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createDays); err != nil {
		return err
	}

	createItems := `
		CREATE TABLE IF NOT EXISTS ` + tables.TripItems + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			trip_day_id UUID NOT NULL REFERENCES ` + tables.TripDays + `(id) ON DELETE CASCADE,
			item_type TEXT NOT NULL DEFAULT 'visit',
			title TEXT NOT NULL,
			description TEXT,
			location_name TEXT,
			lat DOUBLE PRECISION,
			lng DOUBLE PRECISION,
			start_time TIME,
			end_time TIME,
			estimated_cost_vnd BIGINT NOT NULL DEFAULT 0,
			is_hidden_gem BOOLEAN NOT NULL DEFAULT FALSE,
			sort_order INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createItems); err != nil {
		return err
	}

	createSessions := `
		CREATE TABLE IF NOT EXISTS ` + tables.ChatSessions + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID NOT NULL,
			trip_id UUID REFERENCES ` + tables.Trips + `(id) ON DELETE SET NULL,
			title TEXT,
			created_at TIMESTAMPTZ DEFAULT NOW(),
			updated_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createSessions); err != nil {
		return err
	}

	createMessages := `
		CREATE TABLE IF NOT EXISTS ` + tables.ChatMessages + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			session_id UUID NOT NULL REFERENCES ` + tables.ChatSessions + `(id) ON DELETE CASCADE,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			metadata JSONB,
			created_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createMessages); err != nil {
		return err
	}

	createPublic := `
		CREATE TABLE IF NOT EXISTS ` + tables.PublicItineraries + ` (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			trip_id UUID NOT NULL UNIQUE REFERENCES ` + tables.Trips + `(id) ON DELETE CASCADE,
			owner_id UUID NOT NULL,
			title TEXT NOT NULL,
			summary TEXT,
			tags TEXT[] NOT NULL DEFAULT '{}',
			likes_count INTEGER NOT NULL DEFAULT 0,
			saves_count INTEGER NOT NULL DEFAULT 0,
			published_at TIMESTAMPTZ DEFAULT NOW()
		)
	`
	if _, err := pool.Exec(ctx, createPublic); err != nil {
		return err
	}

	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `trips_owner ON ` + tables.Trips + `(owner_id, updated_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `trip_days_trip ON ` + tables.TripDays + `(trip_id, day_index)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `trip_items_day ON ` + tables.TripItems + `(trip_day_id, sort_order)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `chat_sessions_user ON ` + tables.ChatSessions + `(user_id, updated_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `chat_messages_session ON ` + tables.ChatMessages + `(session_id, created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_` + tablePrefix + `public_itineraries_published ON ` + tables.PublicItineraries + `(published_at DESC)`,
	}
	for _, indexSQL := range indexes {
		if _, err := pool.Exec(ctx, indexSQL); err != nil {
			return err
		}
	}

	return nil
}

// dropAllTables drops all tables in reverse order (to respect foreign keys).
func dropAllTables(ctx context.Context, pool *pgxpool.Pool, tables *postgres.TableNames) error {
	tableNames := []string{
		tables.PublicItineraries,
		tables.ChatMessages,
		tables.ChatSessions,
		tables.TripItems,
		tables.TripDays,
		tables.Trips,
		tables.Profiles,
	}

	for _, table := range tableNames {
		if _, err := pool.Exec(ctx, "DROP TABLE IF EXISTS "+table+" CASCADE"); err != nil {
			return err
		}
		log.Printf("  dropped %s", table)
	}
	return nil
}
