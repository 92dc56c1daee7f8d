package guard

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGuardRejectsSecondWriter(t *testing.T) {
	g := NewMemoryGuard()
	ctx := context.Background()

	release, err := g.Acquire(ctx, Key("booking", "b-1"))
	require.NoError(t, err)

	_, err = g.Acquire(ctx, Key("booking", "b-1"))
	assert.ErrorIs(t, err, ErrBusy)

	// other records are unaffected
	other, err := g.Acquire(ctx, Key("booking", "b-2"))
	require.NoError(t, err)
	other()

	release()
	release() // idempotent

	again, err := g.Acquire(ctx, Key("booking", "b-1"))
	require.NoError(t, err)
	again()
}

func TestMemoryGuardConcurrentAcquire(t *testing.T) {
	g := NewMemoryGuard()
	var wins int32
	var wg sync.WaitGroup
	start := make(chan struct{})

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			if _, err := g.Acquire(context.Background(), "service:s-1"); err == nil {
				atomic.AddInt32(&wins, 1)
			}
		}()
	}
	close(start)
	wg.Wait()
	assert.Equal(t, int32(1), wins)
}

func TestRedisGuard(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	g := NewRedisGuard(rdb, 10*time.Second, "test")
	g.newToken = func() string { return "tok-1" }

	mock.ExpectSetNX("test:booking:b-1", "tok-1", 10*time.Second).SetVal(true)
	mock.ExpectEval(releaseScript, []string{"test:booking:b-1"}, "tok-1").SetVal(int64(1))

	release, err := g.Acquire(context.Background(), "booking:b-1")
	require.NoError(t, err)
	release()

	mock.ExpectSetNX("test:booking:b-1", "tok-1", 10*time.Second).SetVal(false)
	_, err = g.Acquire(context.Background(), "booking:b-1")
	assert.ErrorIs(t, err, ErrBusy)

	mock.ExpectSetNX("test:booking:b-1", "tok-1", 10*time.Second).SetErr(errors.New("connection refused"))
	_, err = g.Acquire(context.Background(), "booking:b-1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrBusy)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisGuardKeyFormat(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	g := NewRedisGuard(rdb, 10*time.Second, "homeclean:guard:")
	g.newToken = func() string { return "tok-1" }

	mock.ExpectSetNX("homeclean:guard:booking:b-1", "tok-1", 10*time.Second).SetVal(true)
	mock.ExpectEval(releaseScript, []string{"homeclean:guard:booking:b-1"}, "tok-1").SetVal(int64(1))

	release, err := g.Acquire(context.Background(), "booking:b-1")
	require.NoError(t, err)
	release()

	assert.NoError(t, mock.ExpectationsWereMet())
}
