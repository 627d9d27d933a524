package domain

import (
	"errors"
	"net/url"
	"regexp"
)

var ErrInvalidURL = errors.New("url must be absolute with an http or https scheme")

var IPv4Re = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}$`)

func IsIPv4Literal(s string) bool { return IPv4Re.MatchString(s) }

// ValidateCandidate rejects anything that may not enter the scan pipeline.
// Everything else about a URL is tolerated; the scorer and providers deal
// with the weird ones.
func ValidateCandidate(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return ErrInvalidURL
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrInvalidURL
	}
	return nil
}
