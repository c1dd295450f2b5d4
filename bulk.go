package client

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
)

type readConfig struct {
	comma rune
}

// ReadOption customizes how source files are decoded.
type ReadOption func(*readConfig)

// WithDelimiter sets the field delimiter of source files (default ',').
func WithDelimiter(comma rune) ReadOption {
	return func(c *readConfig) {
		if comma != 0 {
			c.comma = comma
		}
	}
}

// ReadDocuments decodes every data row of files, in order, into documents keyed
// by each file's header row. Rows shorter than the header leave the trailing
// fields out; a longer row fails the whole read with *MalformedRowError.
func ReadDocuments(files []string, opts ...ReadOption) ([]Document, error) {
	if len(files) == 0 {
		return nil, ErrNoSourceFiles
	}

	cfg := readConfig{comma: defaultCSVComma}
	for _, opt := range opts {
		opt(&cfg)
	}

	var docs []Document
	for _, file := range files {
		fileDocs, err := readFile(file, cfg)
		if err != nil {
			return nil, err
		}
		docs = append(docs, fileDocs...)
	}
	return docs, nil
}

func readFile(path string, cfg readConfig) ([]Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source file: %w", err)
	}
	defer f.Close()

	return decodeRows(path, f, cfg)
}

func decodeRows(name string, r io.Reader, cfg readConfig) ([]Document, error) {
	reader := csv.NewReader(r)
	reader.Comma = cfg.comma
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, &MalformedRowError{File: name}
	}
	if err != nil {
		return nil, fmt.Errorf("read header of %s: %w", name, err)
	}

	var docs []Document
	for row := 1; ; row++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read %s row %d: %w", name, row, err)
		}

		if len(record) > len(header) {
			return nil, &MalformedRowError{File: name, Row: row, Fields: len(record), Header: len(header)}
		}

		fields := make([]Field, len(record))
		for i, cell := range record {
			fields[i] = Field{Name: header[i], Value: inferValue(cell)}
		}
		docs = append(docs, NewDocument(fields...))
	}
}

// Load reads files and submits all of their documents to index in one bulk
// request. Nothing is sent unless every file decodes cleanly.
func (c *client) Load(ctx context.Context, index string, files []string, opts ...ReadOption) (*BulkSummary, error) {
	if index == "" {
		return nil, ErrEmptyIndex
	}

	docs, err := ReadDocuments(files, opts...)
	if err != nil {
		return nil, err
	}

	return c.Bulk(ctx, index, docs)
}

// Bulk indexes docs into index in a single request and waits until they are
// searchable before returning.
func (c *client) Bulk(ctx context.Context, index string, docs []Document) (*BulkSummary, error) {
	if index == "" {
		return nil, ErrEmptyIndex
	}

	summary := &BulkSummary{}
	if len(docs) == 0 {
		return summary, nil
	}

	body, err := encodeBulkBody(docs)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query.Set("refresh", refreshWaitFor)

	var result BulkResponse
	resp, err := c.execute(ctx, call{
		op:          OperationBulk,
		method:      http.MethodPost,
		path:        EndpointBulk,
		pathParams:  map[string]string{"index": index},
		query:       query,
		body:        body,
		contentType: bulkContentType,
		result:      &result,
	})
	if err != nil {
		return nil, err
	}
	summary.RequestID = resp.Request.Header.Get(OpaqueIDHeader)

	for i, item := range result.Items {
		for _, outcome := range item {
			tag := outcome.Result
			if tag == "" || outcome.Error != nil {
				tag = FailedResultTag
			}
			summary.add(tag)

			if tag != FailedResultTag {
				continue
			}
			failure := BulkFailure{Item: i + 1, Status: outcome.Status, Reason: "no result"}
			if outcome.Error != nil {
				failure.Reason = outcome.Error.DisplayReason()
			}
			summary.failures = append(summary.failures, failure)
			c.logger.WarnContext(ctx, "document rejected",
				"index", index, "item", failure.Item, "status", failure.Status, "reason", failure.Reason)
		}
	}

	return summary, nil
}

// encodeBulkBody renders docs as newline delimited index actions.
func encodeBulkBody(docs []Document) ([]byte, error) {
	var buf bytes.Buffer
	for i, doc := range docs {
		data, err := doc.MarshalJSON()
		if err != nil {
			return nil, fmt.Errorf("encode document %d: %w", i+1, err)
		}
		buf.WriteString(`{"index":{}}`)
		buf.WriteByte('\n')
		buf.Write(data)
		buf.WriteByte('\n')
	}
	return buf.Bytes(), nil
}
