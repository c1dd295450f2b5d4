package client

import (
	"bufio"
	"bytes"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/joho/godotenv"
)

// Credential authenticates requests. It is implemented only by EncodedKey and
// BasicAuth.
type Credential interface {
	apply(r *resty.Client)
	Kind() string
}

// EncodedKey is a base64 encoded API key sent as "ApiKey <key>".
type EncodedKey string

func (k EncodedKey) apply(r *resty.Client) {
	r.SetHeader("Authorization", "ApiKey "+string(k))
}

func (EncodedKey) Kind() string { return "api key" }

type BasicAuth struct {
	User     string
	Password string
}

func (b BasicAuth) apply(r *resty.Client) {
	r.SetBasicAuth(b.User, b.Password)
}

func (BasicAuth) Kind() string { return "basic auth" }

// Endpoint is the resolved service location and credential.
type Endpoint struct {
	url        *url.URL
	credential Credential
}

// NewEndpoint validates rawURL and pairs it with cred.
func NewEndpoint(rawURL string, cred Credential) (Endpoint, error) {
	if cred == nil {
		return Endpoint{}, ErrNilCredential
	}

	u, err := parseServiceURL(rawURL)
	if err != nil {
		return Endpoint{}, err
	}

	return Endpoint{url: u, credential: cred}, nil
}

// URL returns the base url of the service.
func (e Endpoint) URL() string {
	if e.url == nil {
		return ""
	}
	return e.url.String()
}

func (e Endpoint) Credential() Credential { return e.credential }

func parseServiceURL(rawURL string) (*url.URL, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("parse url %q: %w", rawURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidEndpoint, rawURL)
	}
	return u, nil
}

// Resolver locates an Endpoint from, in order: environment variables, a
// start-local .env file in Dir, and the same file under Dir/elastic-start-local.
type Resolver struct {
	// LookupEnv defaults to os.LookupEnv.
	LookupEnv func(key string) (string, bool)
	// Dir defaults to the current directory.
	Dir    string
	Logger *slog.Logger
}

// Resolve runs the default Resolver.
func Resolve() (Endpoint, error) {
	return Resolver{}.Resolve()
}

func (r Resolver) Resolve() (Endpoint, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	dir := r.Dir
	if dir == "" {
		dir = "."
	}

	sources := []struct {
		name string
		load func() (Endpoint, error)
	}{
		{"environment", r.fromEnv},
		{filepath.Join(dir, SettingsFileName), func() (Endpoint, error) {
			return fromSettingsFile(dir)
		}},
		{filepath.Join(dir, StartLocalDir, SettingsFileName), func() (Endpoint, error) {
			return fromSettingsFile(filepath.Join(dir, StartLocalDir))
		}},
	}

	tried := make([]string, 0, len(sources))
	for _, src := range sources {
		endpoint, err := src.load()
		if err == nil {
			logger.Debug("resolved endpoint", slog.String("source", src.name), slog.String("url", endpoint.URL()),
				slog.String("auth", endpoint.credential.Kind()))
			return endpoint, nil
		}
		logger.Debug("configuration source failed", slog.String("source", src.name), slog.Any("error", err))
		tried = append(tried, src.name)
	}

	return Endpoint{}, &ConfigurationError{Sources: tried}
}

func (r Resolver) lookup(key string) (string, bool) {
	lookupEnv := r.LookupEnv
	if lookupEnv == nil {
		lookupEnv = os.LookupEnv
	}
	v, ok := lookupEnv(key)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

func (r Resolver) fromEnv() (Endpoint, error) {
	rawURL, ok := r.lookup(EnvURL)
	if !ok {
		return Endpoint{}, fmt.Errorf("%s is not set", EnvURL)
	}

	var cred Credential
	if key, ok := r.lookup(EnvAPIKey); ok {
		cred = EncodedKey(key)
	} else if password, ok := r.lookup(EnvPassword); ok {
		user, ok := r.lookup(EnvUser)
		if !ok {
			user = DefaultUser
		}
		cred = BasicAuth{User: user, Password: password}
	} else {
		return Endpoint{}, fmt.Errorf("neither %s nor %s/%s is set", EnvAPIKey, EnvUser, EnvPassword)
	}

	endpoint, err := NewEndpoint(rawURL, cred)
	if err != nil {
		return Endpoint{}, fmt.Errorf("%s: %w", EnvURL, err)
	}
	return endpoint, nil
}

func fromSettingsFile(dir string) (Endpoint, error) {
	path := filepath.Join(dir, SettingsFileName)
	settings, err := readSettingsFile(path)
	if err != nil {
		return Endpoint{}, err
	}

	port := settings[SettingsKeyPort]
	if port == "" {
		port = DefaultLocalPort
	}

	rawURL := fmt.Sprintf(localURLTemplate, port)
	if _, err := parseServiceURL(rawURL); err != nil {
		return Endpoint{}, fmt.Errorf("%s: %w", path, err)
	}

	key := settings[SettingsKeyAPIKey]
	if key == "" {
		return Endpoint{}, fmt.Errorf("%s: %s not found", path, SettingsKeyAPIKey)
	}

	return NewEndpoint(rawURL, EncodedKey(key))
}

// readSettingsFile parses KEY=VALUE lines. Lines without '=' are skipped
// before the remainder is handed to godotenv.
func readSettingsFile(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	var kept bytes.Buffer
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, "=") {
			continue
		}
		kept.WriteString(line)
		kept.WriteByte('\n')
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan settings file %s: %w", path, err)
	}

	settings, err := godotenv.Parse(&kept)
	if err != nil {
		return nil, fmt.Errorf("parse settings file %s: %w", path, err)
	}
	return settings, nil
}
