package main

import (
	"log"
	"os"

	"bistro-cms-be/internal/model"
	"bistro-cms-be/pkg/database"

	"github.com/joho/godotenv"
)

func main() {
	// 1. Load Environment Variables
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		log.Fatal("Error: DB_CONNECTION_STRING is not set")
	}

	// 2. Connect to Database using existing GORM helpers
	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		log.Fatal("Error: Failed to connect to database:", err)
	}

	log.Println("Starting GORM Migration...")

	// 3. Pre-Migration: gen_random_uuid() comes from pgcrypto on older Postgres
	log.Println("Step 1: Setting up Extensions...")
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		log.Printf("Warn: Failed to create pgcrypto extension: %v. Continuing...", err)
	}

	// 4. AutoMigrate All Models
	models := []interface{}{
		&model.AdminUser{},
		&model.ActivityLog{},
		&model.BlogPost{},
		&model.LandingMenuItem{},
		&model.MarqueeSlide{},
	}
	log.Printf("Step 2: Running AutoMigrate for %d Tables...", len(models))

	if err := db.AutoMigrate(models...); err != nil {
		log.Fatalf("Error: AutoMigrate failed: %v", err)
	}

	// 5. Post-Migration: Functions & Triggers
	log.Println("Step 3: Creating Functions and Triggers...")

	postMigrationSQL := []string{
		`CREATE OR REPLACE FUNCTION set_current_timestamp_updated_at() RETURNS trigger LANGUAGE plpgsql AS $$
		DECLARE _new_value TIMESTAMP WITH TIME ZONE;
		BEGIN
		  _new_value := now();
		  IF NEW.updated_at IS DISTINCT FROM _new_value THEN NEW.updated_at = _new_value; END IF;
		  RETURN NEW;
		END; $$;`,

		// Slugs stay unique among soft-deleted posts too; the public site may still link them.
		`CREATE INDEX IF NOT EXISTS idx_blog_posts_published_live ON blog_posts (published_at DESC) WHERE status = 'published' AND deleted_at IS NULL;`,
		`CREATE INDEX IF NOT EXISTS idx_activity_logs_type_created ON activity_logs (event_type, created_at DESC);`,
	}
	for _, table := range []string{"blog_posts", "landing_menu_items", "marquee_slides", "admin_users"} {
		postMigrationSQL = append(postMigrationSQL,
			`DROP TRIGGER IF EXISTS set_`+table+`_updated_at ON `+table+`;`,
			`CREATE TRIGGER set_`+table+`_updated_at BEFORE UPDATE ON `+table+` FOR EACH ROW EXECUTE FUNCTION set_current_timestamp_updated_at();`,
		)
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			log.Printf("Warn: Failed to execute post-migration SQL: %v", err)
		}
	}

	log.Println("✅ Success: Database migration completed successfully via GORM.")
}
