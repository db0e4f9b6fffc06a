package api

import (
	"net/http"

	"github.com/ecfrdash/ecfr-dashboard/internal/api/respond"
	"github.com/ecfrdash/ecfr-dashboard/internal/services"
	"github.com/ecfrdash/ecfr-dashboard/internal/upstream"
)

// AgencyHandler serves the agency list and the search proxies.
type AgencyHandler struct {
	svc *services.AgencyService
}

func NewAgencyHandler(svc *services.AgencyService) *AgencyHandler { return &AgencyHandler{svc: svc} }

// GetAgencies handles GET /api/agents
func (h *AgencyHandler) GetAgencies(w http.ResponseWriter, r *http.Request) {
	data, err := h.svc.Agencies(r.Context())
	if err != nil {
		writeServiceError(w, r, err, "Failed to fetch agencies from eCFR")
		return
	}
	respond.WriteRaw(w, http.StatusOK, data)
}

// Search returns the handler proxying ep. Query parameters: agency, child, query.
func (h *AgencyHandler) Search(ep upstream.Endpoint, failMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		qs := r.URL.Query()
		q := upstream.SearchQuery{
			Agency: qs.Get("agency"),
			Child:  qs.Get("child"),
			Query:  qs.Get("query"),
		}
		data, err := h.svc.Search(r.Context(), ep, q)
		if err != nil {
			writeServiceError(w, r, err, failMsg)
			return
		}
		respond.WriteRaw(w, http.StatusOK, data)
	}
}
