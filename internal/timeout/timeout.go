// Package timeout resolves per-statement execution timeouts. A resolver
// holds an ordered list of regex rules; the first rule matching the SQL text
// wins, otherwise the default applies.
package timeout

import (
	"fmt"
	"regexp"
	"time"
)

// Rule maps a SQL regex pattern to a timeout.
type Rule struct {
	Pattern string
	Timeout time.Duration
}

// Config configures a Resolver.
type Config struct {
	DefaultTimeout time.Duration
	Rules          []Rule
}

type compiledRule struct {
	pattern *regexp.Regexp
	timeout time.Duration
}

// Resolver picks the timeout for a statement. Safe for concurrent use.
type Resolver struct {
	rules          []compiledRule
	defaultTimeout time.Duration
}

// NewResolver compiles the rules. Panics on invalid regex patterns.
func NewResolver(config Config) *Resolver {
	compiled := make([]compiledRule, len(config.Rules))
	for i, r := range config.Rules {
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			panic(fmt.Sprintf("timeout: invalid regex pattern %q: %v", r.Pattern, err))
		}
		compiled[i] = compiledRule{pattern: re, timeout: r.Timeout}
	}
	return &Resolver{rules: compiled, defaultTimeout: config.DefaultTimeout}
}

// Resolve returns the timeout for the given SQL. First matching rule wins.
func (r *Resolver) Resolve(sql string) time.Duration {
	for _, rule := range r.rules {
		if rule.pattern.MatchString(sql) {
			return rule.timeout
		}
	}
	return r.defaultTimeout
}
