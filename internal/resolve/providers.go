package resolve

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/Pusher91/urlverdict/internal/domain"
)

var httpClient = &http.Client{}

// primaryProvider queries a Shodan-style DNS resolve endpoint returning a
// JSON object keyed by hostname.
type primaryProvider struct {
	base string
	key  string
}

func (p *primaryProvider) Source() domain.ResolverSource { return domain.ResolverPrimary }

func (p *primaryProvider) Try(ctx context.Context, host string) (string, bool) {
	q := url.Values{}
	q.Set("hostnames", host)
	q.Set("key", p.key)

	var mapped map[string]string
	if err := getJSON(ctx, p.base+"/dns/resolve?"+q.Encode(), &mapped); err != nil {
		return "", false
	}
	ip := mapped[host]
	return ip, ip != ""
}

// fallbackProvider queries a DNS-over-HTTPS endpoint; only A records
// (type 1) are eligible and the first one wins.
type fallbackProvider struct {
	base string
}

type dohAnswer struct {
	Type int    `json:"type"`
	Data string `json:"data"`
}

type dohResponse struct {
	Answer []dohAnswer `json:"Answer"`
}

func (p *fallbackProvider) Source() domain.ResolverSource { return domain.ResolverFallback }

func (p *fallbackProvider) Try(ctx context.Context, host string) (string, bool) {
	q := url.Values{}
	q.Set("name", host)
	q.Set("type", "A")

	var resp dohResponse
	if err := getJSON(ctx, p.base+"/resolve?"+q.Encode(), &resp); err != nil {
		return "", false
	}
	for _, a := range resp.Answer {
		if a.Type == 1 && a.Data != "" {
			return a.Data, true
		}
	}
	return "", false
}

func getJSON(ctx context.Context, fullURL string, dst any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return err
	}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	return json.NewDecoder(resp.Body).Decode(dst)
}
