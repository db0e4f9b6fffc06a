package services

import (
	"context"
	"encoding/json"

	"github.com/ecfrdash/ecfr-dashboard/internal/model"
	"github.com/ecfrdash/ecfr-dashboard/internal/upstream"
)

// AgenciesResource is the cache name of the agencies listing.
const AgenciesResource = "agencies"

// AgencyService serves the cached agency list and relays searches.
type AgencyService struct {
	cache Cache
	up    Upstream
}

func NewAgencyService(cache Cache, up Upstream) *AgencyService {
	return &AgencyService{cache: cache, up: up}
}

// Agencies returns the agency listing, from the local cache when fresh.
func (s *AgencyService) Agencies(ctx context.Context) (json.RawMessage, error) {
	return s.cache.GetOrRefresh(ctx, AgenciesResource, s.up.AgenciesURL())
}

// Search forwards q to ep. Either an agency or a child slug is required.
func (s *AgencyService) Search(ctx context.Context, ep upstream.Endpoint, q upstream.SearchQuery) (json.RawMessage, error) {
	if q.Slug() == "" {
		return nil, model.NewValidationError("agency", "agency or child is required")
	}
	return s.up.Search(ctx, ep, q)
}
