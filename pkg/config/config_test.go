package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// clearEnv removes keys for the duration of the test. t.Setenv registers the
// restore; godotenv only fills keys absent from the environment, so an empty
// value is not enough.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("LEDGERPORT_CLIENT_ID", "client-id")
	t.Setenv("LEDGERPORT_CLIENT_SECRET", "client-secret")
	t.Setenv("LEDGERPORT_REDIRECT_URI", "http://localhost:8080/callback")
	t.Setenv("LEDGERPORT_ACCESS_TOKEN", "token-123")
	t.Setenv("LEDGERPORT_API_URL", "https://sandbox.ledgerport.com/v2")
	t.Setenv("LEDGER_ROOT", "/ledger")
	t.Setenv("LEDGER_DB_PATH", "/ledger/.sync/sync.db")
	t.Setenv("LEDGER_ATTACHMENTS_DIR", "/ledger/attachments")
	t.Setenv("DEBUG", "true")

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if config.Ledgerport.ClientID != "client-id" {
		t.Errorf("ClientID = %q, expected client-id", config.Ledgerport.ClientID)
	}
	if config.Ledgerport.ClientSecret != "client-secret" {
		t.Errorf("ClientSecret = %q, expected client-secret", config.Ledgerport.ClientSecret)
	}
	if config.Ledgerport.RedirectURI != "http://localhost:8080/callback" {
		t.Errorf("RedirectURI = %q, expected the callback URL", config.Ledgerport.RedirectURI)
	}
	if config.Ledgerport.AccessToken != "token-123" {
		t.Errorf("AccessToken = %q, expected token-123", config.Ledgerport.AccessToken)
	}
	if config.Ledgerport.APIURL != "https://sandbox.ledgerport.com/v2" {
		t.Errorf("APIURL = %q, expected the sandbox URL", config.Ledgerport.APIURL)
	}
	if config.Ledger.Root != "/ledger" {
		t.Errorf("Root = %q, expected /ledger", config.Ledger.Root)
	}
	if config.Ledger.DBPath != "/ledger/.sync/sync.db" {
		t.Errorf("DBPath = %q, expected the sync db path", config.Ledger.DBPath)
	}
	if config.Ledger.AttachmentsDir != "/ledger/attachments" {
		t.Errorf("AttachmentsDir = %q, expected /ledger/attachments", config.Ledger.AttachmentsDir)
	}
	if !config.Debug {
		t.Error("Debug = false, expected true")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t,
		"LEDGERPORT_CLIENT_ID", "LEDGERPORT_CLIENT_SECRET", "LEDGERPORT_REDIRECT_URI",
		"LEDGERPORT_ACCESS_TOKEN", "LEDGERPORT_API_URL",
		"LEDGER_ROOT", "LEDGER_DB_PATH", "LEDGER_ATTACHMENTS_DIR", "DEBUG")

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if config.Ledgerport.APIURL != "https://api.ledgerport.com/v2" {
		t.Errorf("APIURL = %q, expected the production default", config.Ledgerport.APIURL)
	}
	if config.Ledger.Root != "./ledger" {
		t.Errorf("Root = %q, expected ./ledger", config.Ledger.Root)
	}
	if config.Ledger.DBPath != "" {
		t.Errorf("DBPath = %q, expected empty", config.Ledger.DBPath)
	}
	if config.Debug {
		t.Error("Debug = true, expected false")
	}
}

func TestDebugRequiresExactTrue(t *testing.T) {
	t.Setenv("DEBUG", "1")

	config, err := Load()
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if config.Debug {
		t.Error("Debug = true for DEBUG=1, expected false")
	}
}

func TestLoadEnvFile(t *testing.T) {
	clearEnv(t, "LEDGERPORT_ACCESS_TOKEN", "LEDGERPORT_API_URL", "LEDGER_ROOT")

	envPath := filepath.Join(t.TempDir(), ".env")
	contents := "LEDGERPORT_ACCESS_TOKEN=file-token\nLEDGER_ROOT=/from/file\n"
	if err := os.WriteFile(envPath, []byte(contents), 0644); err != nil {
		t.Fatalf("WriteFile() returned error: %v", err)
	}

	config, err := Load(envPath)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if config.Ledgerport.AccessToken != "file-token" {
		t.Errorf("AccessToken = %q, expected file-token", config.Ledgerport.AccessToken)
	}
	if config.Ledger.Root != "/from/file" {
		t.Errorf("Root = %q, expected /from/file", config.Ledger.Root)
	}
}

func TestLoadMissingEnvFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("Load() expected error for a missing .env file")
	}
}

func TestValidate(t *testing.T) {
	config := &Config{
		Ledgerport: LedgerportConfig{
			AccessToken: "token-123",
			APIURL:      "https://api.ledgerport.com/v2",
		},
		Ledger: LedgerConfig{Root: "/ledger"},
	}

	tests := []struct {
		name     string
		required [][]string
		wantErr  bool
	}{
		{
			name:     "all present",
			required: [][]string{{"ledgerport", "accessToken"}, {"ledger", "root"}},
			wantErr:  false,
		},
		{
			name:     "missing client credentials",
			required: [][]string{{"ledgerport", "clientId"}, {"ledgerport", "clientSecret"}},
			wantErr:  true,
		},
		{
			name:     "missing ledger db path",
			required: [][]string{{"ledger", "dbPath"}},
			wantErr:  true,
		},
		{
			name:     "empty path is skipped",
			required: [][]string{{}},
			wantErr:  false,
		},
		{
			name:     "nothing required",
			required: nil,
			wantErr:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := config.Validate(tt.required...)
			if tt.wantErr && err == nil {
				t.Error("Validate() expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Validate() returned error: %v", err)
			}
		})
	}
}

func TestValidateNamesMissingKeys(t *testing.T) {
	config := &Config{}

	err := config.Validate([]string{"ledgerport", "accessToken"}, []string{"ledger", "root"})
	if err == nil {
		t.Fatal("Validate() expected error for an empty config")
	}
	if !strings.Contains(err.Error(), "ledgerport.accessToken") {
		t.Errorf("error %q should name ledgerport.accessToken", err)
	}
	if !strings.Contains(err.Error(), "ledger.root") {
		t.Errorf("error %q should name ledger.root", err)
	}
}
