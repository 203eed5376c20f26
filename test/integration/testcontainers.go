package integration

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	postgresrepo "github.com/andrewhigh08/audit-tracker/internal/adapter/repository/postgres"
)

// TestContainers holds references to test containers
type TestContainers struct {
	PostgresContainer testcontainers.Container
	RedisContainer    testcontainers.Container
	DB                *gorm.DB
	Redis             *redis.Client
}

// SetupTestContainers starts PostgreSQL and Redis containers for integration testing
func SetupTestContainers(ctx context.Context) (*TestContainers, error) {
	tc := &TestContainers{}

	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_DB":       "audit_tracker_test",
				"POSTGRES_USER":     "audit_tracker",
				"POSTGRES_PASSWORD": "audit_tracker",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}
	tc.PostgresContainer = pgContainer

	pgHost, err := pgContainer.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get postgres host: %w", err)
	}
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		return nil, fmt.Errorf("failed to get postgres port: %w", err)
	}

	dsn := fmt.Sprintf("host=%s port=%s user=audit_tracker password=audit_tracker dbname=audit_tracker_test sslmode=disable", pgHost, pgPort.Port())
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	tc.DB = db

	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start redis container: %w", err)
	}
	tc.RedisContainer = redisContainer

	redisHost, err := redisContainer.Host(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get redis host: %w", err)
	}
	redisPort, err := redisContainer.MappedPort(ctx, "6379")
	if err != nil {
		return nil, fmt.Errorf("failed to get redis port: %w", err)
	}

	tc.Redis = redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", redisHost, redisPort.Port()),
	})
	if err := tc.Redis.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return tc, nil
}

// Teardown stops and removes all containers
func (tc *TestContainers) Teardown(ctx context.Context) error {
	var errs []error

	if tc.Redis != nil {
		if err := tc.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close redis client: %w", err))
		}
	}

	if tc.DB != nil {
		if sqlDB, err := tc.DB.DB(); err == nil {
			sqlDB.Close()
		}
	}

	if tc.PostgresContainer != nil {
		if err := tc.PostgresContainer.Terminate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to terminate postgres container: %w", err))
		}
	}

	if tc.RedisContainer != nil {
		if err := tc.RedisContainer.Terminate(ctx); err != nil {
			errs = append(errs, fmt.Errorf("failed to terminate redis container: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("teardown errors: %v", errs)
	}

	return nil
}

// RunMigrations applies the embedded goose migrations
func (tc *TestContainers) RunMigrations(ctx context.Context) error {
	return postgresrepo.RunMigrations(ctx, tc.DB)
}

// CleanupData removes all application rows and flushes Redis.
// Role policies in casbin_rule survive, user role bindings do not.
func (tc *TestContainers) CleanupData() error {
	if err := tc.DB.Exec(`TRUNCATE TABLE audit_images, inspection_results, audit_entries, audit_standards, audits,
		standards, activity_logs, users RESTART IDENTITY CASCADE`).Error; err != nil {
		return err
	}
	if tc.DB.Migrator().HasTable("casbin_rule") {
		if err := tc.DB.Exec("DELETE FROM casbin_rule WHERE ptype = 'g'").Error; err != nil {
			return err
		}
	}
	return tc.Redis.FlushDB(context.Background()).Err()
}
