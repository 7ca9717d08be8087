package test_utils

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/teamcal/teamcal/internal/config"
	"github.com/teamcal/teamcal/internal/database"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
)

const (
	dbName     = "teamcal"
	dbUser     = "test_teamcal"
	dbPassword = "test_teamcal"
	dbSchema   = "teamcal"
)

// TestDB is a migrated PostgreSQL container shared by the tests of one package.
type TestDB struct {
	Container *postgres.PostgresContainer
	cfg       config.Database
}

func preparePostgresContainer(ctx context.Context) (*postgres.PostgresContainer, error) {
	projectRoot, err := findProjectRoot()
	if err != nil {
		return nil, fmt.Errorf("failed to find project root: %w", err)
	}

	return postgres.Run(
		ctx, "postgres:18.1-alpine",
		postgres.WithInitScripts(filepath.Join(projectRoot, "dev", "init.sql")),
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPassword),
		postgres.BasicWaitStrategies(),
	)
}

// StartPostgres starts a container, applies all migrations and snapshots the
// result so Restore can bring every test back to the clean schema. An error is
// returned when no container runtime is available.
func StartPostgres() (db *TestDB, err error) {
	ctx := context.Background()
	defer func() {
		if r := recover(); r != nil {
			db, err = nil, fmt.Errorf("container runtime unavailable: %v", r)
		}
	}()

	container, err := preparePostgresContainer(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return nil, err
	}
	port, err := container.MappedPort(ctx, "5432/tcp")
	if err != nil {
		return nil, err
	}
	log.Infof("Postgres container started at %s:%d", host, port.Int())

	cfg := config.Database{
		Host:   host,
		Port:   port.Int(),
		User:   dbUser,
		Pass:   dbPassword,
		Name:   dbName,
		Schema: dbSchema,
	}

	if err := database.Migrate(cfg); err != nil {
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}
	if err := container.Snapshot(ctx, postgres.WithSnapshotName("postgres-test-snapshot")); err != nil {
		return nil, fmt.Errorf("failed to snapshot postgres container: %w", err)
	}

	return &TestDB{Container: container, cfg: cfg}, nil
}

// Open returns a new pool connected to the container database.
func (d *TestDB) Open() (*pgxpool.Pool, error) {
	return database.Open(d.cfg)
}

func (d *TestDB) Restore(ctx context.Context) error {
	return d.Container.Restore(ctx)
}

func (d *TestDB) Terminate() {
	if d == nil {
		return
	}
	if err := testcontainers.TerminateContainer(d.Container); err != nil {
		log.Errorf("failed to terminate container: %s", err)
	}
}

// findProjectRoot walks up from the working directory to the directory holding go.mod.
func findProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		if fileExists(filepath.Join(dir, "go.mod")) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find project root")
		}
		dir = parent
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
