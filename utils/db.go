package utils

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

var DB *sql.DB

// DBConfigured reports whether PostgreSQL connection settings are present in
// the environment. Persistence is optional; without it the service only
// returns analysis results, it does not store them.
func DBConfigured() bool {
	return os.Getenv("POSTGRES_HOST") != ""
}

// InitDB initializes the PostgreSQL database connection
func InitDB(logger *zap.Logger) error {
	host := MustGetEnv("POSTGRES_HOST")
	port := GetEnvOrDefault("POSTGRES_PORT", "5432")
	user := MustGetEnv("POSTGRES_USER")
	password := MustGetEnv("POSTGRES_PASSWORD")
	dbname := MustGetEnv("POSTGRES_DB")
	sslmode := GetEnvOrDefault("POSTGRES_SSLMODE", "disable")

	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	var err error
	DB, err = sql.Open("postgres", connStr)
	if err != nil {
		return fmt.Errorf("failed to open database connection: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := DB.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("Database connection established successfully")

	return nil
}

// CreateSchema creates the necessary database tables if they don't exist
func CreateSchema(logger *zap.Logger) error {
	if DB == nil {
		return fmt.Errorf("database connection is nil; call InitDB first")
	}

	ctx := context.Background()

	// The full structured result is kept as JSONB so retrieval returns it
	// verbatim; the scalar columns exist for listing.
	_, err := DB.ExecContext(ctx, `
        CREATE TABLE IF NOT EXISTS meeting_analyses (
            id TEXT PRIMARY KEY,
            file_name VARCHAR(255) NOT NULL,
            mime_type TEXT NOT NULL,
            s3_key TEXT,
            meeting_title TEXT,
            meeting_date TEXT,
            meeting_summary TEXT,
            action_items_count INT NOT NULL DEFAULT 0,
            result JSONB NOT NULL,
            created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
            updated_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP
        )
    `)
	if err != nil {
		return fmt.Errorf("failed to create meeting_analyses table: %w", err)
	}

	_, err = DB.ExecContext(ctx, `
        CREATE INDEX IF NOT EXISTS idx_meeting_analyses_file_name ON meeting_analyses(file_name);
        CREATE INDEX IF NOT EXISTS idx_meeting_analyses_created_at ON meeting_analyses(created_at);
    `)
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	logger.Info("Database schema created successfully")
	return nil
}

// CloseDB closes the database connection
func CloseDB(logger *zap.Logger) error {
	if DB != nil {
		logger.Info("Closing database connection")
		return DB.Close()
	}
	return nil
}
