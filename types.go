package client

import (
	"strconv"
	"time"
)

// Operation names a remote call in errors and logs.
type Operation string

const (
	OperationPing        Operation = "ping"
	OperationInfo        Operation = "info"
	OperationListIndices Operation = "list indices"
	OperationCreateIndex Operation = "create index"
	OperationDeleteIndex Operation = "delete index"
	OperationBulk        Operation = "bulk load"
	OperationSearch      Operation = "search"
)

// PingResult is the outcome of a single HEAD request to the service root.
type PingResult struct {
	StatusCode int
	Status     string
	Elapsed    time.Duration
}

// InfoResponse describes the service behind the endpoint.
type InfoResponse struct {
	Name        string      `json:"name" yaml:"name"`
	ClusterName string      `json:"cluster_name" yaml:"cluster_name"`
	ClusterUUID string      `json:"cluster_uuid" yaml:"cluster_uuid"`
	Version     InfoVersion `json:"version" yaml:"version"`
	Tagline     string      `json:"tagline" yaml:"tagline"`
}

type InfoVersion struct {
	Number                           string `json:"number" yaml:"number"`
	BuildFlavor                      string `json:"build_flavor" yaml:"build_flavor"`
	BuildType                        string `json:"build_type" yaml:"build_type"`
	BuildHash                        string `json:"build_hash" yaml:"build_hash"`
	BuildDate                        string `json:"build_date" yaml:"build_date"`
	BuildSnapshot                    bool   `json:"build_snapshot" yaml:"build_snapshot"`
	LuceneVersion                    string `json:"lucene_version" yaml:"lucene_version"`
	MinimumWireCompatibilityVersion  string `json:"minimum_wire_compatibility_version" yaml:"minimum_wire_compatibility_version"`
	MinimumIndexCompatibilityVersion string `json:"minimum_index_compatibility_version" yaml:"minimum_index_compatibility_version"`
}

// ListIndicesRequest selects which indices to list. With neither Open nor
// Closed set both are listed; All also includes hidden indices.
type ListIndicesRequest struct {
	Pattern string
	All     bool
	Open    bool
	Closed  bool
}

// IndexEntry is one row of the cat indices API. Counts arrive as strings and
// are absent for closed indices.
type IndexEntry struct {
	Health      string `json:"health"`
	Status      string `json:"status"`
	Name        string `json:"index"`
	UUID        string `json:"uuid"`
	DocsCount   string `json:"docs.count"`
	StoreSize   string `json:"store.size"`
	DatasetSize string `json:"dataset.size"`
}

func (e IndexEntry) Docs() uint64 { return parseCount(e.DocsCount) }

// Size prefers the dataset size and falls back to the store size.
func (e IndexEntry) Size() uint64 {
	if e.DatasetSize != "" {
		return parseCount(e.DatasetSize)
	}
	return parseCount(e.StoreSize)
}

func (e IndexEntry) Closed() bool { return e.Status == "close" || e.Status == "closed" }

func parseCount(s string) uint64 {
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// FieldMapping is a field:type pair used when creating an index.
type FieldMapping struct {
	Field string
	Type  string
}

type CreatedResponse struct {
	Acknowledged bool   `json:"acknowledged"`
	Index        string `json:"index"`
}

type DeletedResponse struct {
	Acknowledged bool `json:"acknowledged"`
}

// BulkResponse is the raw bulk API reply. Each item maps the action name to
// its outcome.
type BulkResponse struct {
	Took   int                         `json:"took"`
	Errors bool                        `json:"errors"`
	Items  []map[string]BulkItemResult `json:"items"`
}

type BulkItemResult struct {
	Index   string      `json:"_index"`
	ID      string      `json:"_id"`
	Version int         `json:"_version"`
	Result  string      `json:"result"`
	Status  int         `json:"status"`
	SeqNo   int         `json:"_seq_no"`
	Error   *ErrorCause `json:"error,omitempty"`
}

// BulkFailure is a document the service rejected. Item is its 1-based
// position in the request.
type BulkFailure struct {
	Item   int
	Status int
	Reason string
}

// BulkSummary counts bulk item outcomes per result tag, in first-seen order.
type BulkSummary struct {
	// RequestID is the X-Opaque-Id the bulk request was sent with.
	RequestID string

	tags     []string
	counts   map[string]int
	failures []BulkFailure
}

func (s *BulkSummary) add(tag string) {
	if s.counts == nil {
		s.counts = make(map[string]int)
	}
	if _, ok := s.counts[tag]; !ok {
		s.tags = append(s.tags, tag)
	}
	s.counts[tag]++
}

func (s *BulkSummary) Failures() []BulkFailure {
	return append([]BulkFailure(nil), s.failures...)
}

func (s *BulkSummary) Tags() []string { return append([]string(nil), s.tags...) }

func (s *BulkSummary) Count(tag string) int { return s.counts[tag] }

func (s *BulkSummary) Total() int {
	total := 0
	for _, n := range s.counts {
		total += n
	}
	return total
}

// SearchRequest describes a search. An empty Query matches all documents.
// Sort is a comma separated list of field:direction pairs.
type SearchRequest struct {
	Index string
	Query string
	Sort  string
	Limit int
}

type SearchResponse struct {
	Took     int        `json:"took"`
	TimedOut bool       `json:"timed_out"`
	Hits     SearchHits `json:"hits"`
}

type SearchHits struct {
	Total    *SearchTotal `json:"total,omitempty"`
	MaxScore *float64     `json:"max_score"`
	Hits     []SearchHit  `json:"hits"`
}

type SearchTotal struct {
	Value    int    `json:"value"`
	Relation string `json:"relation"`
}

type SearchHit struct {
	Index  string   `json:"_index" yaml:"_index"`
	ID     string   `json:"_id" yaml:"_id"`
	Score  *float64 `json:"_score" yaml:"_score"`
	Source Document `json:"_source" yaml:"_source"`
}

// Documents returns the source document of each hit.
func (r *SearchResponse) Documents() []Document {
	docs := make([]Document, 0, len(r.Hits.Hits))
	for _, hit := range r.Hits.Hits {
		docs = append(docs, hit.Source)
	}
	return docs
}
