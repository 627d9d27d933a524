package domain

import "context"

// HistoryStore is the append-only scan timeline. Append prepends (newest
// first), ReplaceAll swaps the whole log for a fresh snapshot, ReadAll
// returns a copied view. Records are never deleted or mutated in place.
type HistoryStore interface {
	Append(rec VerdictRecord) error
	ReplaceAll(recs []VerdictRecord) error
	ReadAll() []VerdictRecord
}

// KV is the persistence surface for small bits of provider state, such as
// rate budgets. Get reports whether the key existed.
type KV interface {
	Get(key string, dst any) (bool, error)
	Put(key string, v any) error
}

type Resolver interface {
	Resolve(ctx context.Context, hostOrIP string) ResolvedHost
}

type ReputationSource interface {
	DetailedVerdict(ctx context.Context, rawurl string) (ReputationVerdict, error)
}

type HostIntelSource interface {
	Lookup(ctx context.Context, hostOrIP string) (*HostIntel, error)
}

// FlagSource is a binary "is this URL listed as unsafe" signal. Optional:
// a nil source, or any error, contributes nothing to the fused score.
type FlagSource interface {
	Check(ctx context.Context, rawurl string) (bool, error)
}

type Emitter interface {
	Emit(event string, payload any)
}
