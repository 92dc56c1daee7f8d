// Package confirm issues single-use tokens that confirm a destructive action.
package confirm

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// ErrNotConfirmed is returned when a token is missing, wrong, expired or already used.
var ErrNotConfirmed = errors.New("action was not confirmed")

// Ticket is a pending confirmation handed back to the caller.
type Ticket struct {
	Token     string    `json:"confirmation_token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Store issues and redeems confirmation tokens scoped to a subject, such as
// "service:<id>". A newer ticket for the same subject replaces the older one.
type Store interface {
	Issue(ctx context.Context, subject string, ttl time.Duration) (*Ticket, error)
	Redeem(ctx context.Context, subject, token string) error
}

type memoryTicket struct {
	token     string
	expiresAt time.Time
}

// MemoryStore keeps tickets in process.
type MemoryStore struct {
	mu      sync.Mutex
	tickets map[string]memoryTicket
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tickets: make(map[string]memoryTicket), now: time.Now}
}

func (m *MemoryStore) Issue(_ context.Context, subject string, ttl time.Duration) (*Ticket, error) {
	t := Ticket{Token: uuid.NewString(), ExpiresAt: m.now().Add(ttl)}
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for s, held := range m.tickets {
		if !held.expiresAt.After(now) {
			delete(m.tickets, s)
		}
	}
	m.tickets[subject] = memoryTicket{token: t.Token, expiresAt: t.ExpiresAt}
	return &t, nil
}

func (m *MemoryStore) Redeem(_ context.Context, subject, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tickets[subject]
	if !ok || token == "" || t.token != token {
		return ErrNotConfirmed
	}
	delete(m.tickets, subject)
	if !t.expiresAt.After(m.now()) {
		return ErrNotConfirmed
	}
	return nil
}

// redeemScript deletes the ticket only when the token matches, so a wrong
// token leaves the pending ticket in place.
const redeemScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisStore shares tickets between API replicas.
type RedisStore struct {
	rdb    *redis.Client
	prefix string
	now    func() time.Time
}

func NewRedisStore(rdb *redis.Client, prefix string) *RedisStore {
	prefix = strings.TrimRight(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = "confirm"
	}
	return &RedisStore{rdb: rdb, prefix: prefix, now: time.Now}
}

func (r *RedisStore) Issue(ctx context.Context, subject string, ttl time.Duration) (*Ticket, error) {
	t := Ticket{Token: uuid.NewString(), ExpiresAt: r.now().Add(ttl)}
	if err := r.rdb.Set(ctx, r.prefix+":"+subject, t.Token, ttl).Err(); err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *RedisStore) Redeem(ctx context.Context, subject, token string) error {
	if token == "" {
		return ErrNotConfirmed
	}
	deleted, err := r.rdb.Eval(ctx, redeemScript, []string{r.prefix + ":" + subject}, token).Int()
	if err != nil {
		return err
	}
	if deleted == 0 {
		return ErrNotConfirmed
	}
	return nil
}
