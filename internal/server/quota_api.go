package server

import (
	"net/http"

	"github.com/Pusher91/urlverdict/internal/server/api"
)

type quotaResp struct {
	Remaining int `json:"remaining"`
}

// quotaAPI reports how many reputation requests are left today, so the
// caller can warn before the daily limit bites.
func (s *Server) quotaAPI(r *http.Request) (any, *api.APIError) {
	return quotaResp{Remaining: s.reputation.Remaining()}, nil
}
