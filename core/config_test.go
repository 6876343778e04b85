package core

import (
	"errors"
	"testing"
	"time"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DECART_BASE_URL", "")
	t.Setenv("STATIC_FILES_DIR", t.TempDir())
	t.Setenv("STATIC_BASE_URL", "")
	t.Setenv("STATIC_DB_PATH", "")
	t.Setenv("GENERATION_TIMEOUT_SECONDS", "")
	t.Setenv("ALLOW_SELF_SIGNED_CERTS", "")
	t.Setenv("LOG_FILE", "")
	t.Setenv("DEV_MODE", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.DecartBaseURL != DefaultBaseURL {
		t.Errorf("DecartBaseURL = %q, want %q", cfg.DecartBaseURL, DefaultBaseURL)
	}
	if cfg.GenerationTimeout != 0 {
		t.Errorf("GenerationTimeout = %v, want no timeout by default", cfg.GenerationTimeout)
	}
	if cfg.StaticDBPath != "" {
		t.Errorf("StaticDBPath = %q, want empty (index disabled)", cfg.StaticDBPath)
	}
	if cfg.AllowSelfSignedCerts {
		t.Error("AllowSelfSignedCerts = true, want false by default")
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("DECART_BASE_URL", "https://proxy.internal/generate/")
	t.Setenv("STATIC_FILES_DIR", t.TempDir())
	t.Setenv("GENERATION_TIMEOUT_SECONDS", "120")
	t.Setenv("DEV_MODE", "true")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.DecartBaseURL != "https://proxy.internal/generate/" {
		t.Errorf("DecartBaseURL = %q, want override", cfg.DecartBaseURL)
	}
	if cfg.GenerationTimeout != 120*time.Second {
		t.Errorf("GenerationTimeout = %v, want 120s", cfg.GenerationTimeout)
	}
	if !cfg.DevMode {
		t.Error("DevMode = false, want true")
	}
}

func TestConfigValidate_BaseURL(t *testing.T) {
	testCases := []struct {
		name    string
		baseURL string
		valid   bool
	}{
		{name: "default", baseURL: DefaultBaseURL, valid: true},
		{name: "http allowed", baseURL: "http://localhost:9000/gen/", valid: true},
		{name: "missing trailing slash", baseURL: "https://api.decart.ai/v1/generate", valid: false},
		{name: "wrong scheme", baseURL: "ftp://api.decart.ai/v1/generate/", valid: false},
		{name: "not a url", baseURL: "://nope", valid: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{
				DecartBaseURL:  tc.baseURL,
				StaticFilesDir: t.TempDir(),
			}
			err := cfg.Validate()
			if tc.valid && err != nil {
				t.Errorf("Validate() error = %v, want nil", err)
			}
			if !tc.valid {
				if err == nil {
					t.Fatal("Validate() = nil, want error")
				}
				var cfgErr *ConfigError
				if !errors.As(err, &cfgErr) || cfgErr.Code != ErrCodeInvalidBaseURL {
					t.Errorf("Validate() error = %v, want ConfigError with code %s", err, ErrCodeInvalidBaseURL)
				}
			}
		})
	}
}

func TestConfigValidate_StaticDir(t *testing.T) {
	cfg := &Config{DecartBaseURL: DefaultBaseURL, StaticFilesDir: ""}
	err := cfg.Validate()
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) || cfgErr.Code != ErrCodeInvalidDir {
		t.Errorf("Validate() error = %v, want ConfigError with code %s", err, ErrCodeInvalidDir)
	}
}

func TestGetHTTPClient(t *testing.T) {
	cfg := &Config{}

	client := cfg.GetHTTPClient(30 * time.Second)
	if client.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", client.Timeout)
	}
	if client.Transport != nil {
		t.Error("Transport should be default when self-signed certs are not allowed")
	}

	noLimit := cfg.GetHTTPClient(0)
	if noLimit.Timeout != 0 {
		t.Errorf("Timeout = %v, want 0 (no deadline)", noLimit.Timeout)
	}

	cfg.AllowSelfSignedCerts = true
	insecure := cfg.GetHTTPClient(0)
	if insecure.Transport == nil {
		t.Error("Transport should be customized when self-signed certs are allowed")
	}
}

func TestSecretResolvers(t *testing.T) {
	t.Setenv("LUCY_TEST_SECRET", "sk-value")

	env := EnvSecretResolver{}
	if value, ok := env.GetSecret("LUCY_TEST_SECRET"); !ok || value != "sk-value" {
		t.Errorf("EnvSecretResolver.GetSecret = (%q, %v), want (sk-value, true)", value, ok)
	}
	if _, ok := env.GetSecret("LUCY_TEST_SECRET_UNSET"); ok {
		t.Error("EnvSecretResolver should report absent secret as not found")
	}

	static := StaticSecretResolver{"KEY": "v", "EMPTY": ""}
	if value, ok := static.GetSecret("KEY"); !ok || value != "v" {
		t.Errorf("StaticSecretResolver.GetSecret = (%q, %v), want (v, true)", value, ok)
	}
	if _, ok := static.GetSecret("EMPTY"); ok {
		t.Error("StaticSecretResolver should treat empty values as absent")
	}
}
