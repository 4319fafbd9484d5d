// Package repotest opens a migrated Postgres and a Redis for integration
// tests. Tests using them are skipped unless DATABASE_URL (and REDIS_ADDR
// for Redis) are set.
package repotest

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/officehours_backend/internal/repo"
	"github.com/Alijeyrad/officehours_backend/migrations"
	"github.com/Alijeyrad/officehours_backend/pkg/database"
)

// migrateLockID serializes migrations when several test packages start at once.
const migrateLockID = 724201

// Open returns a client on a migrated database. Rows are never truncated;
// tests isolate themselves through fresh users.
func Open(t testing.TB) *repo.Client {
	t.Helper()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set, skipping integration test")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := migrate(ctx, dsn); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	return repo.NewClient(pool)
}

func migrate(ctx context.Context, dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	conn, err := db.Conn(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock($1)", migrateLockID); err != nil {
		return fmt.Errorf("acquire migrate lock: %w", err)
	}
	defer func() { _, _ = conn.ExecContext(context.Background(), "SELECT pg_advisory_unlock($1)", migrateLockID) }()

	return database.Migrate(ctx, db, migrations.FS, "up")
}

// CreateUser inserts a user with a unique email and the given role.
func CreateUser(t testing.TB, c *repo.Client, role repo.Role) *repo.User {
	t.Helper()

	id := uuid.New()
	u := &repo.User{
		ID:           id,
		Name:         fmt.Sprintf("%s %s", role, id.String()[:8]),
		Email:        fmt.Sprintf("%s-%s@example.edu", role, id.String()[:8]),
		PasswordHash: "x",
		Role:         role,
		Department:   "Computer Science",
	}
	if err := c.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

// CreateSlot inserts an open slot for professorID starting at start.
func CreateSlot(t testing.TB, c *repo.Client, professorID uuid.UUID, start time.Time) *repo.Availability {
	t.Helper()

	a := &repo.Availability{
		ID:          uuid.New(),
		ProfessorID: professorID,
		StartTime:   start,
		EndTime:     start.Add(30 * time.Minute),
	}
	if err := c.CreateAvailability(context.Background(), a); err != nil {
		t.Fatalf("create slot: %v", err)
	}
	return a
}

// Redis returns a client on REDIS_ADDR. Keys written by tests embed fresh
// uuids, so the database is never flushed.
func Redis(t testing.TB) *redis.Client {
	t.Helper()

	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set, skipping integration test")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("redis ping: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}
