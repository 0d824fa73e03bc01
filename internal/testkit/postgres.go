package testkit

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver registration
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// startPostgres starts a Postgres container for the rate archive and returns
// its DSN, or returns the external DSN when one is configured.
func startPostgres(ctx context.Context, cfg Config) (*container, error) {
	if cfg.PostgresDSN != "" {
		return &container{endpoint: cfg.PostgresDSN}, nil
	}

	ctr, err := postgres.Run(ctx,
		cfg.PostgresImage,
		postgres.WithDatabase(archiveDBName()),
		postgres.WithUsername("rubconv"),
		postgres.WithPassword("rubconv"),
		testcontainers.WithWaitStrategyAndDeadline(cfg.StartupTimeout,
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("start postgres container: %w", err)
	}

	dsn, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = ctr.Terminate(ctx)
		return nil, fmt.Errorf("postgres connection string: %w", err)
	}

	return &container{ctr: ctr, endpoint: dsn}, nil
}

// archiveDBName returns a unique database name such as "ratesdb_1a2b3c4d".
func archiveDBName() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "ratesdb_" + id[:8]
}
