// Package aggregate orchestrates the verdict pipeline: heuristic score,
// reputation lookup, resolution, host intelligence and the optional
// safe-browsing flag, fused into one record per URL.
package aggregate

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/Pusher91/urlverdict/internal/domain"
	"github.com/Pusher91/urlverdict/internal/score"
)

const (
	suspiciousThreshold = 3
	maliciousThreshold  = 7
	flagWeight          = 3
)

type Aggregator struct {
	reputation domain.ReputationSource
	resolver   domain.Resolver
	hosts      domain.HostIntelSource
	flags      domain.FlagSource // optional
	history    domain.HistoryStore
	emitter    domain.Emitter
}

func New(
	reputation domain.ReputationSource,
	resolver domain.Resolver,
	hosts domain.HostIntelSource,
	flags domain.FlagSource,
	history domain.HistoryStore,
	emitter domain.Emitter,
) *Aggregator {
	return &Aggregator{
		reputation: reputation,
		resolver:   resolver,
		hosts:      hosts,
		flags:      flags,
		history:    history,
		emitter:    emitter,
	}
}

// ScanOne produces a verdict for a single URL and prepends it to history.
// Only malformed input fails; every provider outage degrades to a neutral
// sub-result so a record is always produced.
func (a *Aggregator) ScanOne(ctx context.Context, rawurl string) (domain.VerdictRecord, error) {
	rawurl = strings.TrimSpace(rawurl)
	if err := domain.ValidateCandidate(rawurl); err != nil {
		return domain.VerdictRecord{}, err
	}

	rec := a.scan(ctx, rawurl)
	err := a.history.Append(rec)
	a.emit("verdict", rec)
	return rec, err
}

// ScanBatch scans a page's links and replaces history with the result set.
// Batch scans snapshot, single scans accumulate; the asymmetry is
// intentional. Invalid entries are skipped rather than failing the sweep.
func (a *Aggregator) ScanBatch(ctx context.Context, rawurls []string) ([]domain.VerdictRecord, error) {
	recs := make([]domain.VerdictRecord, 0, len(rawurls))
	for _, raw := range rawurls {
		raw = strings.TrimSpace(raw)
		if domain.ValidateCandidate(raw) != nil {
			continue
		}
		rec := a.scan(ctx, raw)
		recs = append(recs, rec)
		a.emit("verdict", rec)
	}

	err := a.history.ReplaceAll(recs)
	return recs, err
}

func (a *Aggregator) scan(ctx context.Context, rawurl string) domain.VerdictRecord {
	heuristic := score.Score(rawurl)

	rep, repErr := a.reputation.DetailedVerdict(ctx, rawurl)
	if repErr != nil {
		// Quota exhaustion: the verdict already carries the limit
		// message, surface the condition and keep going.
		a.emit("reputation_unavailable", map[string]any{"url": rawurl, "reason": repErr.Error()})
	}

	resolved := a.resolveHost(ctx, rawurl)

	var intel *domain.HostIntel
	if resolved.IP != "" {
		if hi, err := a.hosts.Lookup(ctx, resolved.IP); err == nil {
			intel = hi
		}
	}

	sbFlag := 0
	if a.flags != nil {
		if listed, err := a.flags.Check(ctx, rawurl); err == nil && listed {
			sbFlag = 1
		}
	}

	repFlag := 0
	if rep.Flagged {
		repFlag = 1
	}
	final := heuristic + flagWeight*repFlag + flagWeight*sbFlag

	return domain.VerdictRecord{
		URL:              rawurl,
		HeuristicScore:   heuristic,
		Reputation:       rep,
		SafeBrowsingFlag: sbFlag,
		HostIntel:        intel,
		FinalScore:       final,
		Status:           Classify(final),
		ScannedAt:        time.Now().UTC().Format(time.RFC3339),
	}
}

func (a *Aggregator) resolveHost(ctx context.Context, rawurl string) domain.ResolvedHost {
	u, err := url.Parse(rawurl)
	if err != nil {
		return domain.ResolvedHost{Source: domain.ResolverNone}
	}
	host := u.Hostname()
	if domain.IsIPv4Literal(host) {
		return domain.ResolvedHost{IP: host, Source: domain.ResolverDirect}
	}
	return a.resolver.Resolve(ctx, host)
}

// Classify maps a fused score onto a verdict; boundaries are
// inclusive-lower at 3 and 7.
func Classify(final int) domain.VerdictStatus {
	switch {
	case final >= maliciousThreshold:
		return domain.VerdictMalicious
	case final >= suspiciousThreshold:
		return domain.VerdictSuspicious
	default:
		return domain.VerdictSafe
	}
}

func (a *Aggregator) emit(event string, payload any) {
	if a != nil && a.emitter != nil {
		a.emitter.Emit(event, payload)
	}
}
