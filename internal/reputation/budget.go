package reputation

import (
	"sync"
	"time"

	"github.com/Pusher91/urlverdict/internal/domain"
)

// BudgetStore guards a persisted daily request budget. State is reloaded
// on every use so independent processes sharing the KV stay roughly
// honest, and the day rollover happens lazily on first touch.
type BudgetStore struct {
	mu    sync.Mutex
	kv    domain.KV
	key   string
	quota int

	now func() time.Time // test hook
}

func NewBudgetStore(kv domain.KV, key string, quota int) *BudgetStore {
	return &BudgetStore{kv: kv, key: key, quota: quota, now: time.Now}
}

func (b *BudgetStore) Quota() int { return b.quota }

// Remaining reports how many requests are left today.
func (b *BudgetStore) Remaining() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	rb := b.load()
	if left := b.quota - rb.Count; left > 0 {
		return left
	}
	return 0
}

// Reserve claims one request from today's budget before the network call
// is made. Check and spend happen under one mutex hold, so concurrent
// callers can never push Count past the quota.
func (b *BudgetStore) Reserve() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rb := b.load()
	if rb.Count >= b.quota {
		return ErrQuotaExceeded
	}
	rb.Count++
	return b.kv.Put(b.key, rb)
}

// Release returns a reservation that turned out not to count against the
// provider quota, such as a 404 lookup or a request that never got a
// response.
func (b *BudgetStore) Release() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	rb := b.load()
	if rb.Count > 0 {
		rb.Count--
	}
	return b.kv.Put(b.key, rb)
}

func (b *BudgetStore) load() domain.RateBudget {
	today := b.now().UTC().Format("2006-01-02")

	var rb domain.RateBudget
	ok, err := b.kv.Get(b.key, &rb)
	if err != nil || !ok || rb.Day != today {
		return domain.RateBudget{Count: 0, Day: today}
	}
	return rb
}
