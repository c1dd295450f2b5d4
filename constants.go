package client

import "time"

const (
	ServiceName    = "elasticsearch"
	DefaultTimeout = 30 * time.Second
	OpaqueIDHeader = "X-Opaque-Id"

	// NullPlaceholder is rendered for fields a document does not carry.
	NullPlaceholder = "null"

	// FailedResultTag tags bulk items the service did not index.
	FailedResultTag = "failed"
)

// Environment variables consulted by the configuration resolver.
const (
	EnvURL      = "ESCLI_URL"
	EnvAPIKey   = "ESCLI_API_KEY"
	EnvUser     = "ESCLI_USER"
	EnvPassword = "ESCLI_PASSWORD"

	DefaultUser = "elastic"
)

// Keys and locations of the start-local settings file.
const (
	SettingsFileName   = ".env"
	StartLocalDir      = "elastic-start-local"
	SettingsKeyPort    = "ES_LOCAL_PORT"
	SettingsKeyAPIKey  = "ES_LOCAL_API_KEY"
	DefaultLocalPort   = "9200"
	localURLTemplate   = "http://localhost:%s"
	bulkContentType    = "application/x-ndjson"
	jsonContentType    = "application/json"
	defaultCSVComma    = ','
	expandAll          = "all"
	expandOpen         = "open"
	expandClosed       = "closed"
	hiddenIndexPrefix  = "."
	refreshWaitFor     = "wait_for"
	catIndicesFormat   = "json"
	catIndicesByteUnit = "b"
)

// API endpoints
const (
	EndpointRoot       = "/"
	EndpointCatIndices = "/_cat/indices"
	EndpointIndex      = "/{index}"
	EndpointBulk       = "/{index}/_bulk"
	EndpointSearch     = "/{index}/_search"
)
