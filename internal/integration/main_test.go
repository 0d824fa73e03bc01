//go:build integration

package integration

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"rubconverter/internal/repository"
	"rubconverter/internal/testkit"
)

func TestMain(m *testing.M) {
	testkit.Run(m, func(s *testkit.Suite) error {
		var err error
		testDB, err = sql.Open("pgx", s.PostgresDSN())
		if err != nil {
			return err
		}
		if err := testDB.Ping(); err != nil {
			return err
		}
		if err := repository.RunMigrations(testDB, zap.NewNop().Sugar()); err != nil {
			return err
		}

		testRedisAddr = s.RedisAddr()
		testRDB = redis.NewClient(&redis.Options{Addr: testRedisAddr, DB: cacheDB})
		return testRDB.Ping(context.Background()).Err()
	})
}
