package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	client "github.com/hsn0918/escli-client"
)

func fakeService(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("HEAD /{$}", func(w http.ResponseWriter, r *http.Request) {})
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"name":"node-1","cluster_name":"docker-cluster","version":{"number":"8.15.0"},"tagline":"You Know, for Search"}`)
	})
	mux.HandleFunc("GET /_cat/indices/{pattern}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"health":"green","status":"open","index":"books","uuid":"u1","docs.count":"42","store.size":"1024"}]`)
	})
	mux.HandleFunc("PUT /{index}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("index") == "taken" {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":{"root_cause":[{"type":"resource_already_exists_exception","reason":"index [taken] already exists"}],"type":"resource_already_exists_exception","reason":"index [taken] already exists"},"status":400}`)
			return
		}
		fmt.Fprintf(w, `{"acknowledged":true,"index":%q}`, r.PathValue("index"))
	})
	mux.HandleFunc("DELETE /{index}", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"acknowledged":true}`)
	})
	mux.HandleFunc("POST /{index}/_bulk", func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		n := strings.Count(string(body), "\n") / 2
		items := make([]string, n)
		for i := range items {
			items[i] = `{"index":{"result":"created","status":201}}`
		}
		fmt.Fprintf(w, `{"took":1,"errors":false,"items":[%s]}`, strings.Join(items, ","))
	})
	mux.HandleFunc("POST /{index}/_search", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") == "nothing" {
			fmt.Fprint(w, `{"hits":{"hits":[]}}`)
			return
		}
		fmt.Fprint(w, `{"hits":{"hits":[
			{"_index":"books","_id":"1","_score":1.0,"_source":{"title":"Dune","year":1965}},
			{"_index":"books","_id":"2","_score":1.0,"_source":{"title":"Emma","author":"Austen"}}
		]}}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func runCLI(t *testing.T, serviceURL string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	t.Setenv(client.EnvURL, serviceURL)
	t.Setenv(client.EnvAPIKey, "test-key")

	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPingCommand(t *testing.T) {
	server := fakeService(t)

	out, err := runCLI(t, server.URL, "ping", "-c", "2", "-i", "0.001")
	if err != nil {
		t.Fatalf("ping error = %v", err)
	}
	if !strings.HasPrefix(out, "HEAD "+server.URL) {
		t.Errorf("output = %q", out)
	}
	if strings.Count(out, "200 OK: seq=") != 2 {
		t.Errorf("output = %q, want two successful pings", out)
	}
}

func TestPingCommandFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	out, err := runCLI(t, server.URL, "ping", "-c", "1")
	if err == nil {
		t.Fatal("ping against an unavailable service should fail")
	}
	if !strings.Contains(out, "503") {
		t.Errorf("output = %q", out)
	}
}

func TestInfoCommand(t *testing.T) {
	server := fakeService(t)

	out, err := runCLI(t, server.URL, "info")
	if err != nil {
		t.Fatalf("info error = %v", err)
	}
	for _, want := range []string{"Name: node-1", "Cluster Name: docker-cluster", "  Number: 8.15.0", "Tagline: You Know, for Search"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	out, err = runCLI(t, server.URL, "info", "-f", "yaml")
	if err != nil {
		t.Fatalf("info yaml error = %v", err)
	}
	if !strings.Contains(out, "cluster_name: docker-cluster") {
		t.Errorf("yaml output = %s", out)
	}
}

func TestListCommand(t *testing.T) {
	server := fakeService(t)

	out, err := runCLI(t, server.URL, "ls")
	if err != nil {
		t.Fatalf("ls error = %v", err)
	}
	for _, want := range []string{"green", "u1", "books", "42 docs", "1.0 kB"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCreateAndDeleteCommands(t *testing.T) {
	server := fakeService(t)

	out, err := runCLI(t, server.URL, "mk", "books", "-m", "title:text", "-m", "year:integer")
	if err != nil {
		t.Fatalf("mk error = %v", err)
	}
	if out != "Created index books (acknowledged)\n" {
		t.Errorf("output = %q", out)
	}

	_, err = runCLI(t, server.URL, "mk", "taken")
	var svcErr *client.ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("mk taken error = %v, want *ServiceError", err)
	}
	if got := client.Describe(err); got != "Error: create index failed with status 400: index [taken] already exists" {
		t.Errorf("Describe() = %q", got)
	}

	if _, err := runCLI(t, server.URL, "mk", "books", "-m", "title"); !errors.Is(err, client.ErrInvalidMapping) {
		t.Errorf("bad mapping error = %v, want ErrInvalidMapping", err)
	}

	out, err = runCLI(t, server.URL, "rm", "books")
	if err != nil {
		t.Fatalf("rm error = %v", err)
	}
	if out != "Deleted index books (acknowledged)\n" {
		t.Errorf("output = %q", out)
	}
}

func TestLoadCommand(t *testing.T) {
	server := fakeService(t)

	dir := t.TempDir()
	a := filepath.Join(dir, "a.csv")
	b := filepath.Join(dir, "b.csv")
	if err := os.WriteFile(a, []byte("title,year\nDune,1965\nEmma,1815\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(b, []byte("title;year\nUlysses;1922\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, server.URL, "load", "books", "-c", a)
	if err != nil {
		t.Fatalf("load error = %v", err)
	}
	if out != "Successfully created 2 documents\n" {
		t.Errorf("output = %q", out)
	}

	out, err = runCLI(t, server.URL, "load", "books", "-c", b, "--delimiter", ";")
	if err != nil {
		t.Fatalf("load with delimiter error = %v", err)
	}
	if out != "Successfully created 1 documents\n" {
		t.Errorf("output = %q", out)
	}

	if _, err := runCLI(t, server.URL, "load", "books", "-c", a, "--delimiter", ";;"); err == nil {
		t.Error("multi-character delimiter should fail")
	}
}

func TestSearchCommand(t *testing.T) {
	server := fakeService(t)

	out, err := runCLI(t, server.URL, "search", "books")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	for _, want := range []string{"title", "year", "author", "Dune", "1965", "Austen", client.NullPlaceholder} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q:\n%s", want, out)
		}
	}

	out, err = runCLI(t, server.URL, "search", "books", "nothing")
	if err != nil {
		t.Fatalf("empty search error = %v", err)
	}
	if out != client.NoRows+"\n" {
		t.Errorf("empty output = %q, want %q", out, client.NoRows)
	}

	out, err = runCLI(t, server.URL, "search", "books", "-f", "raw", "-l", "2", "-o", "year:desc")
	if err != nil {
		t.Fatalf("raw search error = %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 2 || !strings.Contains(lines[0], `"_source":{"title":"Dune","year":1965}`) {
		t.Errorf("raw output = %q", out)
	}

	if _, err := runCLI(t, server.URL, "search", "books", "-f", "csv"); err == nil {
		t.Error("unsupported format should fail")
	}
}

func TestMissingConfiguration(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv(client.EnvURL, "")
	t.Setenv(client.EnvAPIKey, "")
	t.Setenv(client.EnvPassword, "")

	cmd := newRootCmd()
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs([]string{"info"})

	err := cmd.ExecuteContext(context.Background())
	var cfgErr *client.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("error = %v, want *ConfigurationError", err)
	}
}

func TestPreferencesFile(t *testing.T) {
	server := fakeService(t)

	prefs := filepath.Join(t.TempDir(), "prefs.yaml")
	if err := os.WriteFile(prefs, []byte("search:\n  format: raw\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	out, err := runCLI(t, server.URL, "--config", prefs, "search", "books")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	if !strings.HasPrefix(out, `{"_index":"books"`) {
		t.Errorf("output = %q, want raw hits", out)
	}

	if _, err := runCLI(t, server.URL, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "info"); err == nil {
		t.Error("explicit missing preferences file should fail")
	}
}

func TestLoadCommandLogsRejections(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"took":1,"errors":true,"items":[
			{"index":{"result":"created","status":201}},
			{"index":{"status":400,"error":{"type":"mapper_parsing_exception","reason":"failed to parse field [year]"}}}
		]}`)
	}))
	defer server.Close()

	dir := t.TempDir()
	src := filepath.Join(dir, "a.csv")
	if err := os.WriteFile(src, []byte("year\n1965\nsoon\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	rejections := filepath.Join(dir, "logs", "rejected.log")

	out, err := runCLI(t, server.URL, "load", "books", "-c", src, "--failures", rejections)
	if err != nil {
		t.Fatalf("load error = %v", err)
	}
	if out != "Successfully created 1 documents\nFailed to index 1 documents\n" {
		t.Errorf("output = %q", out)
	}

	data, err := os.ReadFile(rejections)
	if err != nil {
		t.Fatalf("read rejections: %v", err)
	}
	line := string(data)
	if !strings.Contains(line, "item=2") || !strings.Contains(line, "message=failed to parse field [year]") {
		t.Errorf("rejections = %q", line)
	}
}
