package library

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-git/go-git/v5/plumbing/transport/http"

	"weftworks/weft/pkg/config"
)

func TestNewAuthProvider(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *config.GitAuthConfig
		wantType string
		wantErr  bool
	}{
		{
			name:     "nil config",
			cfg:      nil,
			wantType: "none",
		},
		{
			name:     "empty type",
			cfg:      &config.GitAuthConfig{},
			wantType: "none",
		},
		{
			name:     "none",
			cfg:      &config.GitAuthConfig{Type: "none"},
			wantType: "none",
		},
		{
			name:     "token",
			cfg:      &config.GitAuthConfig{Type: "token", Token: "ghp_example"},
			wantType: "token",
		},
		{
			name:    "token without token",
			cfg:     &config.GitAuthConfig{Type: "token"},
			wantErr: true,
		},
		{
			name:     "ssh",
			cfg:      &config.GitAuthConfig{Type: "ssh", SSHKeyPath: "/home/user/.ssh/id_ed25519"},
			wantType: "ssh",
		},
		{
			name:    "ssh without key path",
			cfg:     &config.GitAuthConfig{Type: "ssh"},
			wantErr: true,
		},
		{
			name:    "unsupported type",
			cfg:     &config.GitAuthConfig{Type: "kerberos"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewAuthProvider(tt.cfg)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewAuthProvider() failed: %v", err)
			}
			if provider.Type() != tt.wantType {
				t.Errorf("Type() = %q, want %q", provider.Type(), tt.wantType)
			}
		})
	}
}

func TestTokenAuth(t *testing.T) {
	auth, err := NewTokenAuth("ghp_example").GetAuth()
	if err != nil {
		t.Fatalf("GetAuth() failed: %v", err)
	}

	basic, ok := auth.(*http.BasicAuth)
	if !ok {
		t.Fatalf("GetAuth() returned %T, want *http.BasicAuth", auth)
	}
	if basic.Username != "git" {
		t.Errorf("Username = %q, want git", basic.Username)
	}
	if basic.Password != "ghp_example" {
		t.Errorf("Password = %q, want the token", basic.Password)
	}
}

func TestTokenAuth_Empty(t *testing.T) {
	if _, err := NewTokenAuth("").GetAuth(); err == nil {
		t.Fatal("GetAuth() with empty token succeeded, want error")
	}
}

func TestNoAuth(t *testing.T) {
	auth, err := (&NoAuth{}).GetAuth()
	if err != nil {
		t.Fatalf("GetAuth() failed: %v", err)
	}
	if auth != nil {
		t.Errorf("GetAuth() = %v, want nil", auth)
	}
}

func TestSSHAuth_MissingKey(t *testing.T) {
	auth := NewSSHAuth(filepath.Join(t.TempDir(), "no-such-key"), "")
	if _, err := auth.GetAuth(); err == nil {
		t.Fatal("GetAuth() with missing key succeeded, want error")
	}
}

func TestSSHAuth_PermissionsTooOpen(t *testing.T) {
	keyPath := filepath.Join(t.TempDir(), "id_ed25519")
	if err := os.WriteFile(keyPath, []byte("not a real key"), 0o644); err != nil {
		t.Fatalf("WriteFile() failed: %v", err)
	}

	_, err := NewSSHAuth(keyPath, "").GetAuth()
	if err == nil {
		t.Fatal("GetAuth() with world-readable key succeeded, want error")
	}
	if !strings.Contains(err.Error(), "permissions too open") {
		t.Errorf("error = %v, want permissions complaint", err)
	}
}
