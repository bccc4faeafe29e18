package library

import (
	"fmt"
	"os"

	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/plumbing/transport/http"
	"github.com/go-git/go-git/v5/plumbing/transport/ssh"

	"weftworks/weft/pkg/config"
)

// AuthProvider supplies Git transport credentials for library operations.
type AuthProvider interface {
	// GetAuth returns the authentication method for Git operations.
	GetAuth() (transport.AuthMethod, error)

	// Type returns the authentication type name.
	Type() string
}

// TokenAuth authenticates over HTTPS with a personal access token.
type TokenAuth struct {
	token string
}

// NewTokenAuth creates token-based authentication.
func NewTokenAuth(token string) *TokenAuth {
	return &TokenAuth{token: token}
}

// GetAuth returns HTTP basic auth with the token as password. Most Git
// hosts accept any non-empty username when a token is supplied.
func (t *TokenAuth) GetAuth() (transport.AuthMethod, error) {
	if t.token == "" {
		return nil, fmt.Errorf("token cannot be empty")
	}
	return &http.BasicAuth{
		Username: "git",
		Password: t.token,
	}, nil
}

// Type returns "token".
func (t *TokenAuth) Type() string {
	return "token"
}

// SSHAuth authenticates with an SSH private key.
type SSHAuth struct {
	keyPath    string
	passphrase string
}

// NewSSHAuth creates SSH key-based authentication.
func NewSSHAuth(keyPath, passphrase string) *SSHAuth {
	return &SSHAuth{
		keyPath:    keyPath,
		passphrase: passphrase,
	}
}

// GetAuth loads the private key. The key file must exist and must not be
// readable by group or others.
func (s *SSHAuth) GetAuth() (transport.AuthMethod, error) {
	if s.keyPath == "" {
		return nil, fmt.Errorf("SSH key path cannot be empty")
	}

	info, err := os.Stat(s.keyPath)
	if err != nil {
		return nil, fmt.Errorf("SSH key file not accessible: %w", err)
	}

	if info.Mode().Perm()&0077 != 0 {
		return nil, fmt.Errorf("SSH key file permissions too open (%o), should be 0600", info.Mode().Perm())
	}

	auth, err := ssh.NewPublicKeysFromFile("git", s.keyPath, s.passphrase)
	if err != nil {
		return nil, fmt.Errorf("failed to load SSH key: %w", err)
	}

	return auth, nil
}

// Type returns "ssh".
func (s *SSHAuth) Type() string {
	return "ssh"
}

// NoAuth performs unauthenticated operations, for public repositories and
// local paths.
type NoAuth struct{}

// GetAuth returns nil, meaning no authentication.
func (n *NoAuth) GetAuth() (transport.AuthMethod, error) {
	return nil, nil
}

// Type returns "none".
func (n *NoAuth) Type() string {
	return "none"
}

// NewAuthProvider builds the auth provider named by the config.
func NewAuthProvider(cfg *config.GitAuthConfig) (AuthProvider, error) {
	if cfg == nil {
		return &NoAuth{}, nil
	}

	switch cfg.Type {
	case "token":
		if cfg.Token == "" {
			return nil, fmt.Errorf("token auth requires a token")
		}
		return NewTokenAuth(cfg.Token), nil
	case "ssh":
		if cfg.SSHKeyPath == "" {
			return nil, fmt.Errorf("ssh auth requires a key path")
		}
		return NewSSHAuth(cfg.SSHKeyPath, cfg.SSHKeyPassphrase), nil
	case "none", "":
		return &NoAuth{}, nil
	default:
		return nil, fmt.Errorf("unsupported auth type: %s", cfg.Type)
	}
}
