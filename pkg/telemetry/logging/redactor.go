package logging

import (
	"regexp"
	"strings"
)

// Redactor scrubs secrets from log fields: provider API keys, bearer
// tokens, Git access tokens, and key=value password forms.
type Redactor struct {
	patterns map[string]*redactPattern
}

// redactPattern contains a compiled regex and replacement string.
type redactPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
}

// Built-in secret pattern names.
const (
	PatternAPIKey      = "api_key"
	PatternBearerToken = "bearer_token"
	PatternGitToken    = "git_token"
	PatternPassword    = "password"
)

// NewRedactor creates a Redactor with the built-in secret patterns.
func NewRedactor() *Redactor {
	r := &Redactor{patterns: make(map[string]*redactPattern)}

	patterns := map[string]struct {
		regex       string
		replacement string
	}{
		// Provider API keys: both the bare sk- form and key=value forms.
		PatternAPIKey: {
			regex:       `(sk-[a-zA-Z0-9_-]+|api[-_]?key[=:]\s*[^\s",]+)`,
			replacement: "sk-***",
		},

		// Authorization headers.
		PatternBearerToken: {
			regex:       `Bearer\s+[a-zA-Z0-9\-._~+/]+=*`,
			replacement: "Bearer ***",
		},

		// GitHub-style access tokens, as configured for library auth.
		PatternGitToken: {
			regex:       `\b(?:ghp|gho|ghu|ghs|ghr)_[A-Za-z0-9]{16,}\b|\bgithub_pat_[A-Za-z0-9_]+\b`,
			replacement: "gh-***",
		},

		// Generic password/token key-value forms.
		PatternPassword: {
			regex:       `(password|passwd|pwd|secret|token)[=:]\s*[^\s",]+`,
			replacement: "$1: ***",
		},
	}

	for name, p := range patterns {
		r.patterns[name] = &redactPattern{
			name:        name,
			regex:       regexp.MustCompile(p.regex),
			replacement: p.replacement,
		}
	}

	return r
}

// RedactString scrubs secret patterns from a string value.
func (r *Redactor) RedactString(value string) string {
	if value == "" {
		return value
	}

	redacted := value
	for _, pattern := range r.patterns {
		redacted = pattern.regex.ReplaceAllString(redacted, pattern.replacement)
	}

	return redacted
}

// IsSensitiveKey checks if an attribute key indicates a secret value that
// should be masked regardless of its content.
func (r *Redactor) IsSensitiveKey(key string) bool {
	lowerKey := strings.ToLower(key)

	sensitiveKeys := []string{
		"password", "passwd", "pwd",
		"secret", "token", "api_key", "apikey",
		"auth", "authorization",
		"private_key", "privatekey", "passphrase",
	}

	for _, sensitive := range sensitiveKeys {
		if strings.Contains(lowerKey, sensitive) {
			return true
		}
	}

	return false
}

// MaskValue masks a secret value, keeping a short prefix as a debugging
// hint when the value is long enough for the hint to give nothing away.
func (r *Redactor) MaskValue(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 8 {
		return "***"
	}
	return value[:4] + "***"
}

// RedactAPIKey redacts an API key, keeping only a short prefix.
func RedactAPIKey(apiKey string) string {
	if len(apiKey) <= 8 {
		return "***"
	}
	return apiKey[:4] + "***"
}
