// Package hostintel fetches host metadata and reverse-DNS names for a
// resolved IP from a Shodan-style API. The two lookups run concurrently
// and either failing fails the whole operation: a half-populated host
// record is misleading in a security verdict.
package hostintel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/Pusher91/urlverdict/internal/domain"
)

var ErrUnresolved = errors.New("could not resolve IP")

type Client struct {
	base     string
	apiKey   string
	resolver domain.Resolver
	http     *http.Client
}

func New(base, apiKey string, resolver domain.Resolver) *Client {
	return &Client{
		base:     strings.TrimRight(base, "/"),
		apiKey:   apiKey,
		resolver: resolver,
		http:     &http.Client{},
	}
}

type hostResponse struct {
	Org         string   `json:"org"`
	ISP         string   `json:"isp"`
	CountryName string   `json:"country_name"`
	City        string   `json:"city"`
	Tags        []string `json:"tags"`
	Ports       []int    `json:"ports"`
	Hostnames   []string `json:"hostnames"`
	Vulns       []string `json:"vulns"`
	LastUpdate  string   `json:"last_update"`
}

// Lookup resolves hostOrIP first (literal IPs short-circuit), then merges
// the forward metadata with the reverse-DNS answer. Hostnames prefer the
// reverse-DNS result, falling back to names embedded in the metadata.
func (c *Client) Lookup(ctx context.Context, hostOrIP string) (*domain.HostIntel, error) {
	rh := c.resolver.Resolve(ctx, hostOrIP)
	if rh.IP == "" {
		return nil, ErrUnresolved
	}

	var (
		host    hostResponse
		reverse map[string][]string
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.getJSON(gctx, c.base+"/shodan/host/"+rh.IP+"?key="+url.QueryEscape(c.apiKey), &host)
	})
	g.Go(func() error {
		q := url.Values{}
		q.Set("ips", rh.IP)
		q.Set("key", c.apiKey)
		return c.getJSON(gctx, c.base+"/dns/reverse?"+q.Encode(), &reverse)
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hostnames := reverse[rh.IP]
	if len(hostnames) == 0 {
		hostnames = host.Hostnames
	}

	return &domain.HostIntel{
		IP:         rh.IP,
		Resolver:   rh.Source,
		Org:        host.Org,
		ISP:        host.ISP,
		Country:    host.CountryName,
		City:       host.City,
		Tags:       host.Tags,
		OpenPorts:  host.Ports,
		Hostnames:  hostnames,
		Vulns:      host.Vulns,
		LastUpdate: host.LastUpdate,
	}, nil
}

func (c *Client) getJSON(ctx context.Context, fullURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("host intel: unexpected status %d", resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(dst)
}
