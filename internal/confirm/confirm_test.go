package confirm

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSingleUse(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	ticket, err := store.Issue(ctx, "service:s-1", time.Minute)
	require.NoError(t, err)

	assert.ErrorIs(t, store.Redeem(ctx, "service:s-1", "wrong"), ErrNotConfirmed)
	assert.ErrorIs(t, store.Redeem(ctx, "service:s-2", ticket.Token), ErrNotConfirmed)
	require.NoError(t, store.Redeem(ctx, "service:s-1", ticket.Token))
	assert.ErrorIs(t, store.Redeem(ctx, "service:s-1", ticket.Token), ErrNotConfirmed)
}

func TestMemoryStoreExpiry(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	ticket, _ := store.Issue(ctx, "service:s-1", time.Minute)
	now = now.Add(2 * time.Minute)
	assert.ErrorIs(t, store.Redeem(ctx, "service:s-1", ticket.Token), ErrNotConfirmed)
}

func TestMemoryStoreNewTicketReplacesOld(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	first, _ := store.Issue(ctx, "service:s-1", time.Minute)
	second, _ := store.Issue(ctx, "service:s-1", time.Minute)
	assert.ErrorIs(t, store.Redeem(ctx, "service:s-1", first.Token), ErrNotConfirmed)
	assert.NoError(t, store.Redeem(ctx, "service:s-1", second.Token))
}

func TestMemoryStoreSweepsExpiredTickets(t *testing.T) {
	store := NewMemoryStore()
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	_, _ = store.Issue(ctx, "service:s-1", time.Minute)
	_, _ = store.Issue(ctx, "service:s-2", time.Minute)
	now = now.Add(2 * time.Minute)
	live, _ := store.Issue(ctx, "service:s-3", time.Minute)

	assert.Len(t, store.tickets, 1)
	assert.NoError(t, store.Redeem(ctx, "service:s-3", live.Token))
}

func TestRedisStoreRedeem(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisStore(rdb, "")
	ctx := context.Background()

	mock.ExpectEval(redeemScript, []string{"confirm:service:s-1"}, "tok-1").SetVal(int64(1))
	require.NoError(t, store.Redeem(ctx, "service:s-1", "tok-1"))

	mock.ExpectEval(redeemScript, []string{"confirm:service:s-1"}, "tok-1").SetVal(int64(0))
	assert.ErrorIs(t, store.Redeem(ctx, "service:s-1", "tok-1"), ErrNotConfirmed)

	assert.ErrorIs(t, store.Redeem(ctx, "service:s-1", ""), ErrNotConfirmed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisStoreWrongTokenKeepsTicket(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	store := NewRedisStore(rdb, "homeclean:confirm:")
	ctx := context.Background()

	key := "homeclean:confirm:service:s-2"
	mock.ExpectEval(redeemScript, []string{key}, "tok-x").SetVal(int64(0))
	assert.ErrorIs(t, store.Redeem(ctx, "service:s-2", "tok-x"), ErrNotConfirmed)

	mock.ExpectEval(redeemScript, []string{key}, "tok-2").SetVal(int64(1))
	assert.NoError(t, store.Redeem(ctx, "service:s-2", "tok-2"))

	assert.NoError(t, mock.ExpectationsWereMet())
}
