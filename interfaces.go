package client

import "context"

// Pinger checks that the service answers.
type Pinger interface {
	Ping(ctx context.Context) (*PingResult, error)
}

// Info provides metadata about the client and the service.
type Info interface {
	Pinger
	Name() string
	URL() string
	Info(ctx context.Context) (*InfoResponse, error)
}

// Indexer manages indices.
type Indexer interface {
	ListIndices(ctx context.Context, req ListIndicesRequest) ([]IndexEntry, error)
	CreateIndex(ctx context.Context, index string, mappings []FieldMapping) (*CreatedResponse, error)
	DeleteIndex(ctx context.Context, index string) (*DeletedResponse, error)
}

// Loader writes documents in bulk.
type Loader interface {
	Bulk(ctx context.Context, index string, docs []Document) (*BulkSummary, error)
	Load(ctx context.Context, index string, files []string, opts ...ReadOption) (*BulkSummary, error)
}

// Searcher runs queries.
type Searcher interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResponse, error)
}

// Client combines all service operations.
type Client interface {
	Info
	Indexer
	Loader
	Searcher
}
