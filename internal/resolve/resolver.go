// Package resolve maps hostnames to IPv4 addresses through an ordered
// provider chain: literal passthrough, then an authoritative lookup API,
// then public DNS over HTTPS. First answer wins.
package resolve

import (
	"context"

	"github.com/Pusher91/urlverdict/internal/domain"
)

// Provider is one step of the chain. Try reports no answer for transport
// failures as well; the chain has no retries and just moves on.
type Provider interface {
	Source() domain.ResolverSource
	Try(ctx context.Context, host string) (ip string, ok bool)
}

type Resolver struct {
	providers []Provider
}

func New(primaryBase, primaryKey, fallbackBase string) *Resolver {
	return NewWithProviders(
		&primaryProvider{base: primaryBase, key: primaryKey},
		&fallbackProvider{base: fallbackBase},
	)
}

func NewWithProviders(ps ...Provider) *Resolver {
	return &Resolver{providers: ps}
}

// Resolve never returns an error; an empty IP means no host intelligence
// is available for this name, which callers must tolerate.
func (r *Resolver) Resolve(ctx context.Context, hostOrIP string) domain.ResolvedHost {
	if domain.IsIPv4Literal(hostOrIP) {
		return domain.ResolvedHost{IP: hostOrIP, Source: domain.ResolverDirect}
	}
	for _, p := range r.providers {
		if ip, ok := p.Try(ctx, hostOrIP); ok {
			return domain.ResolvedHost{IP: ip, Source: p.Source()}
		}
	}
	return domain.ResolvedHost{Source: domain.ResolverNone}
}
