package pending

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibbank/smart-checkout/internal/domain/model"
	"github.com/bibbank/smart-checkout/internal/domain/port"
	"github.com/bibbank/smart-checkout/internal/domain/valueobject"
)

// fakeRedis mimics SETNX and GETDEL on an in-memory map.
type fakeRedis struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	failSet error
	failGet error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: make(map[string]string), ttls: make(map[string]time.Duration)}
}

func (f *fakeRedis) SetNX(_ context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd {
	if f.failSet != nil {
		return redis.NewBoolResult(false, f.failSet)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.data[key]; exists {
		return redis.NewBoolResult(false, nil)
	}
	f.data[key] = string(value.([]byte))
	f.ttls[key] = expiration
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) GetDel(_ context.Context, key string) *redis.StringCmd {
	if f.failGet != nil {
		return redis.NewStringResult("", f.failGet)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	delete(f.data, key)
	return redis.NewStringResult(v, nil)
}

func sampleTxn(t *testing.T) model.Transaction {
	t.Helper()
	txn, err := model.NewTransaction(model.TransactionParams{
		Amount:        decimal.RequireFromString("6000.50"),
		Currency:      "CNY",
		PaymentMethod: "alipay",
		CardNumber:    "6222020000000000",
		CardCountry:   "CN",
		IPCountry:     "US",
	})
	require.NoError(t, err)
	return txn
}

func sampleAssessment() model.RiskAssessment {
	return model.NewRiskAssessment(60, valueobject.RiskLevelMedium,
		[]string{"large transaction", "new user", "cross-border transaction"}, true, "watch this one")
}

func storeContract(t *testing.T, newStore func() port.PendingTransactionStore) {
	ctx := context.Background()

	t.Run("put then take returns the original data", func(t *testing.T) {
		s := newStore()
		id, err := s.Put(ctx, sampleTxn(t), sampleAssessment())
		require.NoError(t, err)
		assert.Len(t, id, 36)

		got, found, err := s.Take(ctx, id)
		require.NoError(t, err)
		require.True(t, found)
		assert.Equal(t, id, got.ID())
		assert.True(t, got.Transaction().Amount().Equal(decimal.RequireFromString("6000.50")))
		assert.Equal(t, "alipay", got.Transaction().PaymentMethod().String())
		assert.Equal(t, "US", got.Transaction().IPCountry())
		assert.Equal(t, 60, got.Assessment().Score())
		assert.True(t, got.Assessment().Level().Equal(valueobject.RiskLevelMedium))
		assert.Equal(t, sampleAssessment().Reasons(), got.Assessment().Reasons())
		assert.True(t, got.Assessment().StepUpRequired())
		assert.Equal(t, "watch this one", got.Assessment().Narrative())
	})

	t.Run("take is at most once", func(t *testing.T) {
		s := newStore()
		id, err := s.Put(ctx, sampleTxn(t), sampleAssessment())
		require.NoError(t, err)

		_, found, err := s.Take(ctx, id)
		require.NoError(t, err)
		require.True(t, found)

		_, found, err = s.Take(ctx, id)
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("unknown id is absent", func(t *testing.T) {
		_, found, err := newStore().Take(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("ids are distinct", func(t *testing.T) {
		s := newStore()
		seen := make(map[string]struct{})
		for i := 0; i < 50; i++ {
			id, err := s.Put(ctx, sampleTxn(t), sampleAssessment())
			require.NoError(t, err)
			_, dup := seen[id]
			require.False(t, dup)
			seen[id] = struct{}{}
		}
	})

	t.Run("concurrent takes succeed once", func(t *testing.T) {
		s := newStore()
		id, err := s.Put(ctx, sampleTxn(t), sampleAssessment())
		require.NoError(t, err)

		var (
			wg    sync.WaitGroup
			found atomic.Int32
		)
		for i := 0; i < 32; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, ok, _ := s.Take(ctx, id); ok {
					found.Add(1)
				}
			}()
		}
		wg.Wait()
		assert.Equal(t, int32(1), found.Load())
	})
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, func() port.PendingTransactionStore { return NewMemoryStore(0) })

	t.Run("expired entries are absent and removed", func(t *testing.T) {
		s := NewMemoryStore(time.Minute)
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		s.now = func() time.Time { return now }

		id, err := s.Put(context.Background(), sampleTxn(t), sampleAssessment())
		require.NoError(t, err)

		now = now.Add(2 * time.Minute)
		_, found, err := s.Take(context.Background(), id)
		require.NoError(t, err)
		assert.False(t, found)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("sweep drops only expired entries", func(t *testing.T) {
		s := NewMemoryStore(time.Minute)
		now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
		s.now = func() time.Time { return now }

		_, err := s.Put(context.Background(), sampleTxn(t), sampleAssessment())
		require.NoError(t, err)
		now = now.Add(90 * time.Second)
		fresh, err := s.Put(context.Background(), sampleTxn(t), sampleAssessment())
		require.NoError(t, err)

		assert.Equal(t, 1, s.Sweep())
		assert.Equal(t, 1, s.Len())
		_, found, _ := s.Take(context.Background(), fresh)
		assert.True(t, found)
	})

	t.Run("no ttl never expires", func(t *testing.T) {
		s := NewMemoryStore(0)
		now := time.Now()
		s.now = func() time.Time { return now }
		id, _ := s.Put(context.Background(), sampleTxn(t), sampleAssessment())
		now = now.Add(24 * 365 * time.Hour)
		assert.Equal(t, 0, s.Sweep())
		_, found, _ := s.Take(context.Background(), id)
		assert.True(t, found)
	})
}

func TestRedisStore(t *testing.T) {
	storeContract(t, func() port.PendingTransactionStore { return NewRedisStore(newFakeRedis(), 0) })

	t.Run("applies ttl and key prefix", func(t *testing.T) {
		fake := newFakeRedis()
		s := NewRedisStore(fake, 10*time.Minute)

		id, err := s.Put(context.Background(), sampleTxn(t), sampleAssessment())
		require.NoError(t, err)
		assert.Equal(t, 10*time.Minute, fake.ttls[KeyPrefix+id])
	})

	t.Run("put surfaces redis errors", func(t *testing.T) {
		fake := newFakeRedis()
		fake.failSet = errors.New("connection refused")

		_, err := NewRedisStore(fake, 0).Put(context.Background(), sampleTxn(t), sampleAssessment())
		assert.ErrorContains(t, err, "connection refused")
	})

	t.Run("take surfaces redis errors", func(t *testing.T) {
		fake := newFakeRedis()
		fake.failGet = errors.New("timeout")

		_, found, err := NewRedisStore(fake, 0).Take(context.Background(), "x")
		assert.Error(t, err)
		assert.False(t, found)
	})

	t.Run("corrupt payload is an error", func(t *testing.T) {
		fake := newFakeRedis()
		fake.data[KeyPrefix+"bad"] = "{not json"

		_, found, err := NewRedisStore(fake, 0).Take(context.Background(), "bad")
		assert.Error(t, err)
		assert.False(t, found)
	})
}
