//go:build integration

package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"

	"github.com/fitlog/fitlog/internal/testutil"
)

func TestIntegrationMigration_ApplyAllTables(t *testing.T) {
	ctx, repo := newTestRepository(t)

	for _, table := range []string{"users", "records"} {
		t.Run(table, func(t *testing.T) {
			exists, err := tableExists(ctx, repo.Pool(), table)
			if err != nil {
				t.Fatalf("tableExists failed: %v", err)
			}
			if !exists {
				t.Errorf("Table %q should exist after migrations", table)
			}
		})
	}
}

func TestIntegrationMigration_RecordsTableSchema(t *testing.T) {
	ctx, repo := newTestRepository(t)

	expectedColumns := []string{
		"id",
		"owner_id",
		"name",
		"img_data",
		"duration",
		"created_time",
	}

	for _, col := range expectedColumns {
		t.Run(col, func(t *testing.T) {
			exists, err := columnExists(ctx, repo.Pool(), "records", col)
			if err != nil {
				t.Fatalf("columnExists failed: %v", err)
			}
			if !exists {
				t.Errorf("Column %q should exist in records table", col)
			}
		})
	}
}

func TestIntegrationMigration_RecordOwnerForeignKey(t *testing.T) {
	ctx, repo := newTestRepository(t)

	_, err := repo.Pool().Exec(ctx, `
		INSERT INTO records (id, owner_id, name, img_data, duration, created_time)
		VALUES ($1, $2, 'Run', '', 60, $3)
	`, ulid.Make().String(), ulid.Make().String(), time.Now().UTC())
	if err == nil {
		t.Error("Expected foreign key violation for unknown owner_id")
	}
}

func TestIntegrationMigration_DeleteUserCascadesRecords(t *testing.T) {
	ctx, repo := newTestRepository(t)

	owner := createTestUser(t, repo)
	rec := testutil.NewTestRecord(t, owner.ID)
	if err := repo.CreateRecord(ctx, rec); err != nil {
		t.Fatalf("CreateRecord failed: %v", err)
	}

	if _, err := repo.Pool().Exec(ctx, `DELETE FROM users WHERE id = $1`, owner.ID); err != nil {
		t.Fatalf("delete user: %v", err)
	}

	var count int
	if err := repo.Pool().QueryRow(ctx, `SELECT COUNT(*) FROM records WHERE owner_id = $1`, owner.ID).Scan(&count); err != nil {
		t.Fatalf("count records: %v", err)
	}
	if count != 0 {
		t.Errorf("expected records to be removed with their owner, got %d", count)
	}
}

func TestIntegrationMigration_Idempotency(t *testing.T) {
	ctx, repo := newTestRepository(t)
	dbURL := testutil.RequireEnv(t, "DATABASE_URL")

	first, err := Migrate(ctx, dbURL)
	if err != nil {
		t.Fatalf("Migrate failed: %v", err)
	}
	second, err := Migrate(ctx, dbURL)
	if err != nil {
		t.Fatalf("second Migrate should not fail: %v", err)
	}
	if first != second {
		t.Errorf("version changed on re-run: %d -> %d", first, second)
	}

	exists, err := tableExists(ctx, repo.Pool(), "records")
	if err != nil || !exists {
		t.Errorf("records table missing after re-run: exists=%v err=%v", exists, err)
	}
}

func tableExists(ctx context.Context, pool *pgxpool.Pool, tableName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.tables
			WHERE table_schema = 'public'
			AND table_name = $1
		)
	`, tableName).Scan(&exists)
	return exists, err
}

func columnExists(ctx context.Context, pool *pgxpool.Pool, tableName, columnName string) (bool, error) {
	var exists bool
	err := pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT FROM information_schema.columns
			WHERE table_schema = 'public'
			AND table_name = $1
			AND column_name = $2
		)
	`, tableName, columnName).Scan(&exists)
	return exists, err
}
