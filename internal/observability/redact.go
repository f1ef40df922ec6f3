package observability

import (
	"regexp"
	"strings"
)

// Redactor masks credentials in log output.
type Redactor struct {
	patterns []redactPattern
}

type redactPattern struct {
	regex       *regexp.Regexp
	replacement string
}

// NewRedactor creates a redactor with patterns for the supported vendors' keys.
func NewRedactor() *Redactor {
	r := &Redactor{}
	// OpenAI-style keys (SiliconFlow, DeepSeek, Moonshot, OpenRouter, OpenAI).
	r.AddPattern(`sk-or-v1-[a-zA-Z0-9]{20,}`, "[REDACTED_OPENROUTER_KEY]")
	r.AddPattern(`sk-[a-zA-Z0-9\-_]{20,}`, "[REDACTED_KEY]")
	r.AddPattern(`AIza[a-zA-Z0-9\-_]{35}`, "[REDACTED_GOOGLE_KEY]")
	// Zhipu keys are "<32 hex id>.<secret>".
	r.AddPattern(`[a-f0-9]{32}\.[a-zA-Z0-9]{10,}`, "[REDACTED_ZHIPU_KEY]")
	r.AddPattern(`Bearer\s+[a-zA-Z0-9\-_\.]+`, "Bearer [REDACTED]")
	r.AddPattern(`([?&]key=)[^&\s"]+`, "${1}[REDACTED]")
	return r
}

// AddPattern adds a custom redaction pattern. Invalid patterns are ignored.
func (r *Redactor) AddPattern(pattern, replacement string) {
	regex, err := regexp.Compile(pattern)
	if err != nil {
		return
	}
	r.patterns = append(r.patterns, redactPattern{regex: regex, replacement: replacement})
}

// Redact applies all redaction patterns to the input string.
func (r *Redactor) Redact(input string) string {
	result := input
	for _, p := range r.patterns {
		result = p.regex.ReplaceAllString(result, p.replacement)
	}
	return result
}

// MaskKey shortens a key to "first5...last3" so rotations can be told apart
// in logs without exposing the key.
func MaskKey(key string) string {
	key = strings.TrimSpace(key)
	if len(key) <= 8 {
		return "***"
	}
	return key[:5] + "..." + key[len(key)-3:]
}
