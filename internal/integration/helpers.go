//go:build integration

package integration

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis logical databases used by the tests; the cache and the task queue
// are kept apart the way production runs them on separate instances.
const (
	cacheDB = 0
	queueDB = 1
)

var (
	testDB        *sql.DB
	testRDB       *redis.Client
	testRedisAddr string
)

// resetTestData truncates the rate archive and flushes the cache database.
func resetTestData(t *testing.T) {
	t.Helper()

	_, err := testDB.ExecContext(context.Background(), "TRUNCATE TABLE rate_snapshots RESTART IDENTITY")
	if err != nil {
		t.Fatalf("failed to truncate rate_snapshots: %v", err)
	}

	if err := testRDB.FlushDB(context.Background()).Err(); err != nil {
		t.Fatalf("failed to flush redis: %v", err)
	}
}

// testContext returns a context with a 30-second deadline tied to the test's cleanup.
func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// cbrFeed is a stand-in for cbr-xml-daily.ru serving the daily feed.
type cbrFeed struct {
	*httptest.Server
	hits atomic.Int32
}

// newCBRFeed serves daily_json.js with the given RUB per unit rates.
func newCBRFeed(t *testing.T, usd, eur float64) *cbrFeed {
	t.Helper()
	feed := &cbrFeed{}
	body := fmt.Sprintf(`{"Valute":{"USD":{"Nominal":1,"Value":%g},"EUR":{"Nominal":1,"Value":%g}}}`, usd, eur)
	feed.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/daily_json.js" {
			http.NotFound(w, r)
			return
		}
		feed.hits.Add(1)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(feed.Close)
	return feed
}
