package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	client "github.com/hsn0918/escli-client"
)

// logRejections appends one line per rejected document to path.
func logRejections(path, index string, summary *client.BulkSummary) error {
	failures := summary.Failures()
	if path == "" || len(failures) == 0 {
		return nil
	}

	requestID := summary.RequestID
	if requestID == "" {
		requestID = "unknown"
	}
	timestamp := time.Now().Format(time.RFC3339)

	var b strings.Builder
	for _, f := range failures {
		fmt.Fprintf(&b, "%s\tlevel=ERROR\trequest-id=%s\tindex=%s\titem=%d\tstatus=%d\tmessage=%s\n",
			timestamp, requestID, index, f.Item, f.Status, f.Reason)
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer file.Close()

	_, err = file.WriteString(b.String())
	return err
}
