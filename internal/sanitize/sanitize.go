// Package sanitize applies regex-based scrubbing to result record field
// values before they reach a response envelope. JSONB and array fields are
// sanitized recursively down to their primitive string values.
package sanitize

import (
	"fmt"
	"regexp"
)

// Rule is one pattern/replacement pair.
type Rule struct {
	Pattern     string
	Replacement string
}

type compiledRule struct {
	pattern     *regexp.Regexp
	replacement string
}

// Sanitizer scrubs string field values. Safe for concurrent use.
type Sanitizer struct {
	rules []compiledRule
}

// New compiles the rules. Returns an error on invalid regex patterns.
func New(rules []Rule) (*Sanitizer, error) {
	compiled := make([]compiledRule, len(rules))
	for i, r := range rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("sanitize: invalid regex pattern %q: %v", r.Pattern, err)
		}
		compiled[i] = compiledRule{pattern: re, replacement: r.Replacement}
	}
	return &Sanitizer{rules: compiled}, nil
}

// Apply sanitizes every field value in the given records in place and
// returns the slice for chaining. With no rules it is a no-op.
func (s *Sanitizer) Apply(records []map[string]any) []map[string]any {
	if len(s.rules) == 0 {
		return records
	}
	for _, record := range records {
		for k, v := range record {
			record[k] = s.sanitizeValue(v)
		}
	}
	return records
}

func (s *Sanitizer) sanitizeValue(v any) any {
	switch val := v.(type) {
	case string:
		result := val
		for _, rule := range s.rules {
			result = rule.pattern.ReplaceAllString(result, rule.replacement)
		}
		return result
	case map[string]any:
		for k, v := range val {
			val[k] = s.sanitizeValue(v)
		}
		return val
	case []any:
		for i, item := range val {
			val[i] = s.sanitizeValue(item)
		}
		return val
	default:
		// Numeric, bool, nil — nothing to scrub.
		return v
	}
}
