// Package score computes a local suspicion score from URL text alone.
// No network I/O; pure and cheap enough to recompute per scan.
package score

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/Pusher91/urlverdict/internal/domain"
)

var suspiciousTLDs = []string{
	".tk", ".xyz", ".top", ".club", ".info", ".work",
	".support", ".loan", ".gq", ".ml", ".cf", ".ga",
}

var phishingKeywords = []string{
	"login", "verify", "update", "secure", "account", "bank", "paypal",
	"signin", "password", "confirm", "security", "webscr", "ebay",
	"appleid", "reset", "unlock", "limited", "urgent", "alert",
	"suspend", "validate",
}

var encodedByteRe = regexp.MustCompile(`%[0-9a-fA-F]{2}`)

const longURLThreshold = 100

// Score sums independent additive signals. It never fails: a URL that does
// not parse scores zero on the structural signals but the text-based ones
// still apply.
func Score(raw string) int {
	s := 0
	host := hostname(raw)

	if domain.IsIPv4Literal(host) {
		s += 2
	}
	if hasSuspiciousTLD(host) {
		s += 2
	}
	s += keywordHits(raw)
	if len(raw) > longURLThreshold {
		s++
	}
	if strings.HasPrefix(raw, "http://") {
		s += 2
	}
	if encodedByteRe.MatchString(raw) {
		s++
	}
	if host != "" && len(strings.Split(host, ".")) > 4 {
		s++
	}
	return s
}

// Hostnames compare case-insensitively, so the TLD check gets a
// lowercased host.
func hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

func hasSuspiciousTLD(host string) bool {
	for _, tld := range suspiciousTLDs {
		if strings.HasSuffix(host, tld) {
			return true
		}
	}
	return false
}

// Each vocabulary word counts once no matter how often it appears.
func keywordHits(raw string) int {
	lower := strings.ToLower(raw)
	n := 0
	for _, w := range phishingKeywords {
		if strings.Contains(lower, w) {
			n++
		}
	}
	return n
}
