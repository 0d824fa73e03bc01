package testkit

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"testing"

	"golang.org/x/sync/errgroup"
)

// Suite owns the Postgres and Redis containers of an integration test binary.
type Suite struct {
	mu       sync.Mutex
	cfg      Config
	postgres *container
	redis    *container
}

var (
	global     *Suite
	globalOnce sync.Once
)

// Global returns the process-wide Suite.
func Global() *Suite {
	globalOnce.Do(func() {
		global = &Suite{cfg: LoadConfig()}
	})
	return global
}

// Start brings up Postgres and Redis concurrently.
func (s *Suite) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.postgres != nil || s.redis != nil {
		return errors.New("suite already started")
	}

	var pg, rdb *container
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		pg, err = startPostgres(gctx, s.cfg)
		return err
	})
	g.Go(func() error {
		var err error
		rdb, err = startRedis(gctx, s.cfg)
		return err
	})

	if err := g.Wait(); err != nil {
		_ = pg.terminate(ctx)
		_ = rdb.terminate(ctx)
		return err
	}

	s.postgres, s.redis = pg, rdb
	return nil
}

// Stop terminates the containers unless KeepContainers is set.
func (s *Suite) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cfg.KeepContainers {
		fmt.Printf("keeping containers: postgres=%s redis=%s\n", s.endpoint(s.postgres), s.endpoint(s.redis))
	} else {
		if err := s.redis.terminate(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "warning: terminate redis container:", err)
		}
		if err := s.postgres.terminate(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "warning: terminate postgres container:", err)
		}
	}
	s.postgres, s.redis = nil, nil
}

// PostgresDSN returns the connection string of the rate archive database.
func (s *Suite) PostgresDSN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endpoint(s.postgres)
}

// RedisAddr returns the host:port of the Redis instance.
func (s *Suite) RedisAddr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.endpoint(s.redis)
}

func (s *Suite) endpoint(c *container) string {
	if c == nil {
		return ""
	}
	return c.endpoint
}

// Run starts the suite, runs the setup hooks (migrations, clients), executes
// the tests and exits with their status. Intended for TestMain.
func (s *Suite) Run(m *testing.M, setup ...func(*Suite) error) {
	ctx := context.Background()

	if err := s.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "integration setup failed: %v\n", err)
		os.Exit(1)
	}

	for _, fn := range setup {
		if err := fn(s); err != nil {
			fmt.Fprintf(os.Stderr, "integration setup hook failed: %v\n", err)
			s.Stop(ctx)
			os.Exit(1)
		}
	}

	code := m.Run()

	s.Stop(ctx)
	os.Exit(code)
}

// Run delegates to Global().Run.
func Run(m *testing.M, setup ...func(*Suite) error) {
	Global().Run(m, setup...)
}
