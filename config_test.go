package client

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func envFrom(vars map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	}
}

func writeSettings(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	if err := os.WriteFile(filepath.Join(dir, SettingsFileName), []byte(content), 0o600); err != nil {
		t.Fatalf("write settings: %v", err)
	}
}

func TestResolveFromEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		env      map[string]string
		wantURL  string
		wantCred Credential
	}{
		{
			name:     "api key",
			env:      map[string]string{EnvURL: "http://es:9200", EnvAPIKey: "abc"},
			wantURL:  "http://es:9200",
			wantCred: EncodedKey("abc"),
		},
		{
			name:     "api key wins over basic auth",
			env:      map[string]string{EnvURL: "https://es", EnvAPIKey: "abc", EnvUser: "bob", EnvPassword: "pw"},
			wantURL:  "https://es",
			wantCred: EncodedKey("abc"),
		},
		{
			name:     "basic auth",
			env:      map[string]string{EnvURL: "http://es:9200", EnvUser: "bob", EnvPassword: "pw"},
			wantURL:  "http://es:9200",
			wantCred: BasicAuth{User: "bob", Password: "pw"},
		},
		{
			name:     "default user",
			env:      map[string]string{EnvURL: "http://es:9200", EnvPassword: "pw"},
			wantURL:  "http://es:9200",
			wantCred: BasicAuth{User: DefaultUser, Password: "pw"},
		},
		{
			name:     "empty api key is unset",
			env:      map[string]string{EnvURL: "http://es:9200", EnvAPIKey: "", EnvPassword: "pw"},
			wantURL:  "http://es:9200",
			wantCred: BasicAuth{User: DefaultUser, Password: "pw"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			endpoint, err := Resolver{LookupEnv: envFrom(tt.env), Dir: t.TempDir()}.Resolve()
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if endpoint.URL() != tt.wantURL {
				t.Errorf("URL() = %q, want %q", endpoint.URL(), tt.wantURL)
			}
			if endpoint.Credential() != tt.wantCred {
				t.Errorf("Credential() = %#v, want %#v", endpoint.Credential(), tt.wantCred)
			}
		})
	}
}

func TestResolveFromSettingsFile(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "# start-local\nES_LOCAL_PORT=9201\nnot a setting\nES_LOCAL_API_KEY=secret\n")

	endpoint, err := Resolver{LookupEnv: envFrom(nil), Dir: dir}.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if endpoint.URL() != "http://localhost:9201" {
		t.Errorf("URL() = %q, want %q", endpoint.URL(), "http://localhost:9201")
	}
	if endpoint.Credential() != EncodedKey("secret") {
		t.Errorf("Credential() = %#v, want api key", endpoint.Credential())
	}
}

func TestResolveDefaultPort(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "ES_LOCAL_API_KEY=secret\n")

	endpoint, err := Resolver{LookupEnv: envFrom(nil), Dir: dir}.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if endpoint.URL() != "http://localhost:"+DefaultLocalPort {
		t.Errorf("URL() = %q", endpoint.URL())
	}
}

func TestResolveStartLocalSubdirectory(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, filepath.Join(dir, StartLocalDir), "ES_LOCAL_PORT=9300\nES_LOCAL_API_KEY=sub\n")

	endpoint, err := Resolver{LookupEnv: envFrom(nil), Dir: dir}.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if endpoint.URL() != "http://localhost:9300" {
		t.Errorf("URL() = %q, want %q", endpoint.URL(), "http://localhost:9300")
	}
	if endpoint.Credential() != EncodedKey("sub") {
		t.Errorf("Credential() = %#v, want api key", endpoint.Credential())
	}
}

func TestResolveSettingsFileWithoutKeyFallsThrough(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "ES_LOCAL_PORT=9201\n")
	writeSettings(t, filepath.Join(dir, StartLocalDir), "ES_LOCAL_API_KEY=sub\n")

	endpoint, err := Resolver{LookupEnv: envFrom(nil), Dir: dir}.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if endpoint.Credential() != EncodedKey("sub") {
		t.Errorf("Credential() = %#v, want key from subdirectory", endpoint.Credential())
	}
}

func TestResolveEnvironmentWinsOverSettingsFile(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, "ES_LOCAL_API_KEY=file\n")

	env := envFrom(map[string]string{EnvURL: "http://remote:9200", EnvAPIKey: "env"})
	endpoint, err := Resolver{LookupEnv: env, Dir: dir}.Resolve()
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if endpoint.URL() != "http://remote:9200" {
		t.Errorf("URL() = %q", endpoint.URL())
	}
}

func TestResolveNoConfiguration(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"nothing set", nil},
		{"url without credentials", map[string]string{EnvURL: "http://es:9200"}},
		{"credentials without url", map[string]string{EnvAPIKey: "abc"}},
		{"invalid url", map[string]string{EnvURL: "es:9200", EnvAPIKey: "abc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Resolver{LookupEnv: envFrom(tt.env), Dir: t.TempDir()}.Resolve()

			var cfgErr *ConfigurationError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("Resolve() error = %v, want *ConfigurationError", err)
			}
			if len(cfgErr.Sources) != 3 {
				t.Errorf("Sources = %v, want 3 entries", cfgErr.Sources)
			}
			if !strings.Contains(err.Error(), "no usable configuration") {
				t.Errorf("Error() = %q", err.Error())
			}
		})
	}
}

func TestNewEndpoint(t *testing.T) {
	if _, err := NewEndpoint("http://es:9200", nil); !errors.Is(err, ErrNilCredential) {
		t.Errorf("nil credential error = %v, want ErrNilCredential", err)
	}
	if _, err := NewEndpoint("ftp://es", EncodedKey("k")); !errors.Is(err, ErrInvalidEndpoint) {
		t.Errorf("ftp scheme error = %v, want ErrInvalidEndpoint", err)
	}
	if _, err := NewEndpoint("http://", EncodedKey("k")); !errors.Is(err, ErrInvalidEndpoint) {
		t.Errorf("missing host error = %v, want ErrInvalidEndpoint", err)
	}
}

func TestReadSettingsFileDotenvSyntax(t *testing.T) {
	dir := t.TempDir()
	writeSettings(t, dir, `ES_LOCAL_PORT="9201"
PREFIX=xyz
EXPANDED=a${PREFIX}b
UNKNOWN=a$HOMEb
COMMENTED=abc #tail
LITERAL='a${PREFIX}b'
garbage line
`)

	settings, err := readSettingsFile(filepath.Join(dir, SettingsFileName))
	if err != nil {
		t.Fatalf("readSettingsFile() error = %v", err)
	}

	tests := []struct {
		key  string
		want string
	}{
		{SettingsKeyPort, "9201"},
		{"EXPANDED", "axyzb"},
		{"UNKNOWN", "ab"},
		{"COMMENTED", "abc"},
		{"LITERAL", "a${PREFIX}b"},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			if got := settings[tt.key]; got != tt.want {
				t.Errorf("settings[%s] = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
	if _, ok := settings["garbage line"]; ok {
		t.Error("lines without '=' should be skipped")
	}
}
