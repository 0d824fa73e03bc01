//go:build integration

package integration

import (
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rubconverter/internal/repository"
	"rubconverter/internal/service"
	"rubconverter/internal/worker"
)

// newQueuedService wires the conversion service to a real queue and starts a worker for it.
func newQueuedService(t *testing.T, feed *cbrFeed) *service.ConversionService {
	t.Helper()

	redisOpt := asynq.RedisClientOpt{Addr: testRedisAddr, DB: queueDB}
	client := asynq.NewClient(redisOpt)
	inspector := asynq.NewInspector(redisOpt)
	t.Cleanup(func() {
		_ = client.Close()
		_ = inspector.Close()
	})

	repo := repository.NewPostgresSnapshotRepository(testDB)
	svc := service.NewConversionService(
		service.NewConverter(newInstance(feed, time.Hour)),
		service.NewHistory(10),
		repo,
		worker.NewAsynqEnqueuer(client, 0, 10*time.Second, time.Hour),
		worker.NewAsynqTaskLookup(inspector),
		nopLogger(),
	)

	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency:       1,
		TaskCheckInterval: 100 * time.Millisecond,
		LogLevel:          asynq.ErrorLevel,
	})
	mux := asynq.NewServeMux()
	mux.HandleFunc(service.TaskTypeConvert, worker.NewConvertHandler(svc, nopLogger()))
	require.NoError(t, srv.Start(mux))
	t.Cleanup(srv.Shutdown)

	return svc
}

func waitForStatus(t *testing.T, svc *service.ConversionService, id string, want service.ConversionStatus) *service.ConversionResult {
	t.Helper()
	ctx := testContext(t)

	var res *service.ConversionResult
	require.Eventually(t, func() bool {
		r, err := svc.GetConversion(ctx, id)
		if err != nil {
			return false
		}
		res = r
		return r.Status == string(want)
	}, 20*time.Second, 100*time.Millisecond, "conversion %s never reached %s", id, want)
	return res
}

func TestAsyncConversion_FullLifecycle(t *testing.T) {
	resetTestData(t)
	ctx := testContext(t)
	feed := newCBRFeed(t, 75, 85)
	svc := newQueuedService(t, feed)

	id, status, err := svc.RequestConversion(ctx, "150", "usd")
	require.NoError(t, err)
	assert.Equal(t, string(service.StatusPending), status)

	res := waitForStatus(t, svc, id, service.StatusSuccess)
	require.NotNil(t, res.Result)
	assert.Equal(t, "2.00 USD", *res.Result)
	assert.NotNil(t, res.CompletedAt)
	assert.Nil(t, res.ErrorMsg)

	assert.Equal(t, []string{"150 RUB → 2.00 USD"}, svc.History())

	latest, err := svc.LatestArchivedRates(ctx)
	require.NoError(t, err)
	assert.Equal(t, 75.0, latest.USDRate)
}

func TestAsyncConversion_UpstreamDownFails(t *testing.T) {
	resetTestData(t)
	ctx := testContext(t)
	feed := newCBRFeed(t, 75, 85)
	feed.Close()
	svc := newQueuedService(t, feed)

	id, _, err := svc.RequestConversion(ctx, "170", "EUR")
	require.NoError(t, err)

	res := waitForStatus(t, svc, id, service.StatusFailed)
	require.NotNil(t, res.ErrorMsg)
	assert.Equal(t, "no data from server", *res.ErrorMsg)
	assert.Nil(t, res.Result)
	assert.Empty(t, svc.History())
}

func TestGetConversion_UnknownID(t *testing.T) {
	ctx := testContext(t)
	svc := newQueuedService(t, newCBRFeed(t, 75, 85))

	_, err := svc.GetConversion(ctx, "7d4f8c3e-1b2a-4c5d-9e8f-0a1b2c3d4e5f")
	assert.ErrorIs(t, err, service.ErrNotFound)
}
