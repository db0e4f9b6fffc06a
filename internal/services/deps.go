package services

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ecfrdash/ecfr-dashboard/internal/collection"
	"github.com/ecfrdash/ecfr-dashboard/internal/upstream"
)

// Collections is the subset of collection.Store used by the services.
type Collections interface {
	ReadAll(ctx context.Context, c collection.Collection) ([]json.RawMessage, error)
	Append(ctx context.Context, c collection.Collection, record any) (json.RawMessage, error)
}

// Images stores uploaded image bytes and returns the generated file name.
type Images interface {
	Save(ctx context.Context, originalName string, r io.Reader) (string, error)
}

// Cache is the freshness-gated fetcher.
type Cache interface {
	GetOrRefresh(ctx context.Context, resource, remoteURL string) (json.RawMessage, error)
}

// Upstream is the eCFR API client.
type Upstream interface {
	AgenciesURL() string
	Search(ctx context.Context, ep upstream.Endpoint, q upstream.SearchQuery) (json.RawMessage, error)
}
