package server

import (
	"net/http"

	"github.com/Pusher91/urlverdict/internal/domain"
	"github.com/Pusher91/urlverdict/internal/server/api"
)

type scanRequest struct {
	URL string `json:"url"`
}

type scanLinksRequest struct {
	URLs []string `json:"urls"`
}

type scanLinksResp struct {
	ScanID  string                 `json:"scanId"`
	Count   int                    `json:"count"`
	Records []domain.VerdictRecord `json:"records"`
}

// scanAPI runs one blocking scan and returns its verdict record. The
// record is also prepended to history and published to SSE subscribers.
func (s *Server) scanAPI(r *http.Request) (any, *api.APIError) {
	var req scanRequest
	if apiErr := api.ReadJSON(r, &req); apiErr != nil {
		return nil, apiErr
	}
	if err := domain.ValidateCandidate(req.URL); err != nil {
		return nil, api.ValidationError(map[string]string{"url": err.Error()})
	}

	scanID := domain.NewScanID()
	s.Emit("scan_started", map[string]any{"scanId": scanID, "url": req.URL})

	rec, err := s.agg.ScanOne(r.Context(), req.URL)
	if err != nil {
		return nil, api.InternalError("failed to record verdict")
	}

	s.Emit("scan_done", map[string]any{"scanId": scanID})
	return rec, nil
}

// scanLinksAPI sweeps a page's links; the result set replaces history
// rather than accumulating, so the view always mirrors the current page.
func (s *Server) scanLinksAPI(r *http.Request) (any, *api.APIError) {
	var req scanLinksRequest
	if apiErr := api.ReadJSON(r, &req); apiErr != nil {
		return nil, apiErr
	}
	if len(req.URLs) == 0 {
		return nil, api.ValidationError(map[string]string{"urls": "required"})
	}

	scanID := domain.NewScanID()
	s.Emit("scan_started", map[string]any{"scanId": scanID, "links": len(req.URLs)})

	recs, err := s.agg.ScanBatch(r.Context(), req.URLs)
	if err != nil {
		return nil, api.InternalError("failed to record verdicts")
	}

	s.Emit("scan_done", map[string]any{"scanId": scanID})
	return scanLinksResp{ScanID: scanID, Count: len(recs), Records: recs}, nil
}
