package utils

import (
	"context"
	"os"
	"testing"
)

func ensureDB(t *testing.T) {
	l := testLogger(t)
	if os.Getenv("POSTGRES_HOST") == "" {
		_ = os.Setenv("POSTGRES_HOST", "localhost")
	}
	if os.Getenv("POSTGRES_PORT") == "" {
		_ = os.Setenv("POSTGRES_PORT", "5432")
	}
	if os.Getenv("POSTGRES_USER") == "" {
		_ = os.Setenv("POSTGRES_USER", "postgres")
	}
	if os.Getenv("POSTGRES_PASSWORD") == "" {
		_ = os.Setenv("POSTGRES_PASSWORD", "postgres")
	}
	if os.Getenv("POSTGRES_DB") == "" {
		_ = os.Setenv("POSTGRES_DB", "transcript_insights")
	}
	if err := InitDB(l); err != nil {
		t.Skip("db not available")
	}
	if err := CreateSchema(l); err != nil {
		t.Fatalf("schema: %v", err)
	}
}

func TestAnalysisUpsert(t *testing.T) {
	ensureDB(t)
	ctx := context.Background()
	_, _ = DB.ExecContext(ctx, `DELETE FROM meeting_analyses WHERE id = $1`, "test-upsert")

	_, err := DB.ExecContext(ctx, `
        INSERT INTO meeting_analyses (id, file_name, mime_type, meeting_summary, action_items_count, result)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO UPDATE SET
            meeting_summary = EXCLUDED.meeting_summary,
            action_items_count = EXCLUDED.action_items_count,
            result = EXCLUDED.result
    `, "test-upsert", "meeting.txt", "text/plain", "first pass", 1, `{"participants":[]}`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	_, err = DB.ExecContext(ctx, `
        INSERT INTO meeting_analyses (id, file_name, mime_type, meeting_summary, action_items_count, result)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (id) DO UPDATE SET
            meeting_summary = EXCLUDED.meeting_summary,
            action_items_count = EXCLUDED.action_items_count,
            result = EXCLUDED.result
    `, "test-upsert", "meeting.txt", "text/plain", "second pass", 2, `{"participants":["Alice"]}`)
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	var summary string
	var count int
	if err := DB.QueryRowContext(ctx,
		`SELECT meeting_summary, action_items_count FROM meeting_analyses WHERE id = $1`,
		"test-upsert").Scan(&summary, &count); err != nil {
		t.Fatalf("select: %v", err)
	}
	if summary != "second pass" || count != 2 {
		t.Fatalf("row = (%q, %d), want (second pass, 2)", summary, count)
	}

	_, _ = DB.ExecContext(ctx, `DELETE FROM meeting_analyses WHERE id = $1`, "test-upsert")
}

func TestAnalysisDelete(t *testing.T) {
	ensureDB(t)
	ctx := context.Background()

	_, err := DB.ExecContext(ctx, `
        INSERT INTO meeting_analyses (id, file_name, mime_type, result)
        VALUES ($1, $2, $3, $4)
        ON CONFLICT (id) DO NOTHING
    `, "test-delete", "meeting.pdf", "application/pdf", `{}`)
	if err != nil {
		t.Fatalf("insert: %v", err)
	}

	res, err := DB.ExecContext(ctx, `DELETE FROM meeting_analyses WHERE id = $1`, "test-delete")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	affected, _ := res.RowsAffected()
	if affected != 1 {
		t.Fatalf("rows affected = %d, want 1", affected)
	}
}
