// Package reputation talks to a VirusTotal-style URL reputation database
// under two layers of rate control: a persisted daily budget and an
// optional per-minute pacer for the provider's short-term limit.
package reputation

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"golang.org/x/time/rate"

	"github.com/Pusher91/urlverdict/internal/domain"
)

const providerName = "reputation provider"

type Client struct {
	base   string
	apiKey string
	budget *BudgetStore
	pacer  *rate.Limiter
	http   *http.Client
}

// New builds a client against base (e.g. "https://www.virustotal.com/api/v3").
// perMinute <= 0 disables pacing.
func New(base, apiKey string, budget *BudgetStore, perMinute int) *Client {
	c := &Client{
		base:   strings.TrimRight(base, "/"),
		apiKey: apiKey,
		budget: budget,
		http:   &http.Client{},
	}
	if perMinute > 0 {
		c.pacer = rate.NewLimiter(rate.Limit(float64(perMinute)/60.0), 1)
	}
	return c
}

// Remaining exposes today's unspent budget for user-facing quota views.
func (c *Client) Remaining() int { return c.budget.Remaining() }

func (c *Client) release() {
	_ = c.budget.Release()
}

func (c *Client) pace(ctx context.Context) error {
	if c.pacer == nil {
		return nil
	}
	return c.pacer.Wait(ctx)
}

type submitResponse struct {
	Data struct {
		ID string `json:"id"`
	} `json:"data"`
}

// Submit seeds analysis of a URL the database has not seen yet and returns
// the provider's analysis id. The budget reservation is taken before the
// call and given back if the provider never served the request.
func (c *Client) Submit(ctx context.Context, rawurl string) (string, error) {
	if err := c.budget.Reserve(); err != nil {
		return "", err
	}
	if err := c.pace(ctx); err != nil {
		c.release()
		return "", err
	}

	form := url.Values{}
	form.Set("url", rawurl)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/urls", strings.NewReader(form.Encode()))
	if err != nil {
		c.release()
		return "", err
	}
	req.Header.Set("x-apikey", c.apiKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		c.release()
		return "", err
	}
	defer resp.Body.Close()

	if err := mapStatus(resp.StatusCode, "submit"); err != nil {
		c.release()
		return "", err
	}

	var out submitResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%s submit: decode: %w", providerName, err)
	}
	return out.Data.ID, nil
}

type queryResponse struct {
	Data struct {
		Attributes struct {
			LastAnalysisStats   map[string]int `json:"last_analysis_stats"`
			LastAnalysisResults map[string]struct {
				Category string `json:"category"`
				Result   string `json:"result"`
			} `json:"last_analysis_results"`
			LastAnalysisDate    int64             `json:"last_analysis_date"`
			FirstSubmissionDate int64             `json:"first_submission_date"`
			LastSubmissionDate  int64             `json:"last_submission_date"`
			Reputation          int               `json:"reputation"`
			Tags                []string          `json:"tags"`
			Categories          map[string]string `json:"categories"`
		} `json:"attributes"`
	} `json:"data"`
}

// Query fetches the current verdict for a URL. A 404 is a valid "unknown"
// outcome, not an error, and does not spend budget: the reservation is
// released on the way out.
func (c *Client) Query(ctx context.Context, rawurl string) (domain.ReputationVerdict, error) {
	if err := c.budget.Reserve(); err != nil {
		return domain.ReputationVerdict{}, err
	}
	if err := c.pace(ctx); err != nil {
		c.release()
		return domain.ReputationVerdict{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/urls/"+encodeURLID(rawurl), nil)
	if err != nil {
		c.release()
		return domain.ReputationVerdict{}, err
	}
	req.Header.Set("x-apikey", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.release()
		return domain.ReputationVerdict{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.release()
		return notFoundVerdict(), nil
	}
	if err := mapStatus(resp.StatusCode, "query"); err != nil {
		c.release()
		return domain.ReputationVerdict{}, err
	}

	var out queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return domain.ReputationVerdict{}, fmt.Errorf("%s query: decode: %w", providerName, err)
	}

	attrs := out.Data.Attributes
	stats := attrs.LastAnalysisStats
	v := domain.ReputationVerdict{
		Malicious:  stats["malicious"],
		Suspicious: stats["suspicious"],
		Harmless:   stats["harmless"],
		Undetected: stats["undetected"],
		Reputation: attrs.Reputation,
		Tags:       attrs.Tags,
		Categories: attrs.Categories,
		ScanDate:   attrs.LastAnalysisDate,
		FirstSeen:  attrs.FirstSubmissionDate,
		LastSeen:   attrs.LastSubmissionDate,
	}
	v.Total = v.Malicious + v.Suspicious + v.Harmless + v.Undetected

	flagged := v.Malicious + v.Suspicious
	v.Flagged = flagged > 0
	if v.Flagged {
		v.Status = domain.ReputationFlagged
		v.Message = fmt.Sprintf("%d security vendors flagged this URL", flagged)
	} else {
		v.Status = domain.ReputationClean
		v.Message = "No security vendors flagged this URL"
	}

	v.EngineResults = make([]domain.EngineResult, 0, len(attrs.LastAnalysisResults))
	for engine, res := range attrs.LastAnalysisResults {
		v.EngineResults = append(v.EngineResults, domain.EngineResult{
			Engine:   engine,
			Category: res.Category,
			Result:   res.Result,
		})
	}
	sort.Slice(v.EngineResults, func(i, j int) bool {
		return v.EngineResults[i].Engine < v.EngineResults[j].Engine
	})

	return v, nil
}

// DetailedVerdict composes Query and Submit: an unknown URL is submitted
// so the database has it next time, without blocking this verdict on the
// analysis job. The returned verdict is always usable; the error is
// non-nil only for quota exhaustion, which changes user-visible messaging.
func (c *Client) DetailedVerdict(ctx context.Context, rawurl string) (domain.ReputationVerdict, error) {
	v, err := c.Query(ctx, rawurl)
	if err != nil {
		if errors.Is(err, ErrQuotaExceeded) {
			return unavailableVerdict(fmt.Sprintf("daily limit reached (%d requests/day)", c.budget.Quota())), ErrQuotaExceeded
		}
		return unavailableVerdict(providerName + " error: " + err.Error()), nil
	}

	if v.Status == domain.ReputationNotFound {
		if _, serr := c.Submit(ctx, rawurl); serr != nil {
			v.Status = domain.ReputationError
			v.Message = "URL not found and could not be submitted: " + serr.Error()
			if errors.Is(serr, ErrQuotaExceeded) {
				return v, ErrQuotaExceeded
			}
			return v, nil
		}
		v.Status = domain.ReputationSubmitted
		v.Message = "URL submitted for scanning. Results will be available shortly."
	}
	return v, nil
}

func mapStatus(code int, op string) error {
	switch {
	case code == http.StatusTooManyRequests:
		return &RateLimitedError{Provider: providerName}
	case code == http.StatusUnauthorized:
		return ErrAuth
	case code < 200 || code >= 300:
		return fmt.Errorf("%s %s: unexpected status %d", providerName, op, code)
	}
	return nil
}

// The provider keys URL lookups by the unpadded base64url form of the URL.
func encodeURLID(rawurl string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(rawurl))
}

func notFoundVerdict() domain.ReputationVerdict {
	return domain.ReputationVerdict{
		Status:  domain.ReputationNotFound,
		Message: "URL not found in reputation database",
	}
}

func unavailableVerdict(msg string) domain.ReputationVerdict {
	return domain.ReputationVerdict{
		Status:  domain.ReputationError,
		Message: msg,
	}
}
