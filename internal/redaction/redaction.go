// redaction.go — Secret scrubbing for captured traffic and assembled documents.
// Captured headers and bodies can carry credentials; they are scrubbed before
// they are stored or handed to the assistant.
// Uses RE2 regex (Go's regexp package) for linear-time matching.
// Thread-safe: a Redactor is immutable after construction.
package redaction

import (
	"fmt"
	"regexp"
	"strings"
)

// Pattern is a single custom redaction rule from configuration.
type Pattern struct {
	Name        string `yaml:"name" toml:"name"`
	Pattern     string `yaml:"pattern" toml:"pattern"`
	Replacement string `yaml:"replacement,omitempty" toml:"replacement"`
}

type compiledPattern struct {
	name        string
	regex       *regexp.Regexp
	replacement string
	validate    func(match string) bool
}

// Redactor applies a set of compiled patterns to text.
type Redactor struct {
	patterns []compiledPattern
}

var builtinPatterns = []struct {
	name     string
	pattern  string
	validate func(string) bool
}{
	{name: "bearer-token", pattern: `Bearer [A-Za-z0-9\-._~+/]+=*`},
	{name: "basic-auth", pattern: `Basic [A-Za-z0-9+/]+=*`},
	{name: "jwt", pattern: `eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]+`},
	{name: "aws-key", pattern: `AKIA[0-9A-Z]{16}`},
	{name: "github-pat", pattern: `(ghp_[A-Za-z0-9]{36,}|github_pat_[A-Za-z0-9_]{36,})`},
	{name: "private-key", pattern: `-----BEGIN [A-Z ]*PRIVATE KEY-----[\s\S]*?-----END [A-Z ]*PRIVATE KEY-----`},
	{name: "credit-card", pattern: `\b([0-9]{4}[- ]?[0-9]{4}[- ]?[0-9]{4}[- ]?[0-9]{4})\b`, validate: luhnValid},
	{name: "api-key", pattern: `(?i)(api[_-]?key|apikey|secret[_-]?key)\s*[:=]\s*\S+`},
	{name: "password-field", pattern: `(?i)"(password|passwd|secret)"\s*:\s*"[^"]*"`},
}

// sensitiveHeaders are masked entirely regardless of value.
var sensitiveHeaders = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"x-csrf-token":        true,
}

// New creates a Redactor with the built-in patterns plus custom ones.
// An invalid custom pattern is an error naming the pattern.
func New(custom []Pattern) (*Redactor, error) {
	r := &Redactor{}
	for _, bp := range builtinPatterns {
		r.patterns = append(r.patterns, compiledPattern{
			name:        bp.name,
			regex:       regexp.MustCompile(bp.pattern),
			replacement: "[REDACTED:" + bp.name + "]",
			validate:    bp.validate,
		})
	}
	for _, p := range custom {
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("redaction pattern %q: %w", p.Name, err)
		}
		replacement := p.Replacement
		if replacement == "" {
			replacement = "[REDACTED:" + p.Name + "]"
		}
		r.patterns = append(r.patterns, compiledPattern{name: p.Name, regex: re, replacement: replacement})
	}
	return r, nil
}

// Default returns a Redactor with only the built-in patterns.
func Default() *Redactor {
	r, _ := New(nil)
	return r
}

// Redact applies all patterns to input. A nil Redactor returns input unchanged.
func (r *Redactor) Redact(input string) string {
	if r == nil || input == "" {
		return input
	}
	result := input
	for _, p := range r.patterns {
		if p.validate != nil {
			result = p.regex.ReplaceAllStringFunc(result, func(match string) string {
				if p.validate(match) {
					return p.replacement
				}
				return match
			})
			continue
		}
		result = p.regex.ReplaceAllString(result, p.replacement)
	}
	return result
}

// RedactHeaders returns a copy of headers with sensitive header values masked
// and the remaining values scrubbed by pattern.
func (r *Redactor) RedactHeaders(headers map[string]string) map[string]string {
	if len(headers) == 0 {
		return headers
	}
	out := make(map[string]string, len(headers))
	for k, v := range headers {
		if sensitiveHeaders[strings.ToLower(k)] {
			out[k] = "[REDACTED]"
			continue
		}
		out[k] = r.Redact(v)
	}
	return out
}

// luhnValid reports whether the digits of number (separators ignored) form
// a 13 to 19 digit Luhn-valid card number.
func luhnValid(number string) bool {
	var sum, count int
	for i := len(number) - 1; i >= 0; i-- {
		c := number[i]
		if c < '0' || c > '9' {
			continue
		}
		d := int(c - '0')
		if count%2 == 1 {
			if d *= 2; d > 9 {
				d -= 9
			}
		}
		sum += d
		count++
	}
	return count >= 13 && count <= 19 && sum%10 == 0
}
