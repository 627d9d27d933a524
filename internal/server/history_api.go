package server

import (
	"net/http"

	"github.com/Pusher91/urlverdict/internal/domain"
	"github.com/Pusher91/urlverdict/internal/server/api"
)

type historyResp struct {
	Items []domain.VerdictRecord `json:"items"`
}

func (s *Server) historyAPI(r *http.Request) (any, *api.APIError) {
	return historyResp{Items: s.history.ReadAll()}, nil
}
