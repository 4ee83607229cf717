package ratelimit

import (
	"strings"
)

// MatchEndpoint returns the rule for a request, or nil when no rule applies.
// Rule paths are ServeMux-style patterns: "{name}" matches one segment and a
// trailing "/" matches any suffix. Exact patterns win over prefixes; earlier
// rules win among equals.
func MatchEndpoint(path string, method string, configs []EndpointConfig) *EndpointConfig {
	// Health checks are never limited
	if path == "/health" && method == "GET" {
		return &EndpointConfig{Path: "/health", Method: "GET"}
	}

	for i := range configs {
		if configs[i].Method == method && !isPrefixPattern(configs[i].Path) && matchPattern(configs[i].Path, path) {
			return &configs[i]
		}
	}
	for i := range configs {
		if configs[i].Method == method && isPrefixPattern(configs[i].Path) && matchPattern(configs[i].Path, path) {
			return &configs[i]
		}
	}
	return nil
}

func isPrefixPattern(pattern string) bool {
	return len(pattern) > 1 && strings.HasSuffix(pattern, "/")
}

// matchPattern matches path against pattern segment by segment
func matchPattern(pattern, path string) bool {
	prefix := isPrefixPattern(pattern)
	patSegs := strings.Split(strings.Trim(pattern, "/"), "/")
	pathSegs := strings.Split(strings.Trim(path, "/"), "/")

	if prefix {
		if len(pathSegs) < len(patSegs) {
			return false
		}
	} else if len(pathSegs) != len(patSegs) {
		return false
	}

	for i, seg := range patSegs {
		if isWildcard(seg) {
			if pathSegs[i] == "" {
				return false
			}
			continue
		}
		if seg != pathSegs[i] {
			return false
		}
	}
	return true
}

func isWildcard(seg string) bool {
	return len(seg) > 2 && seg[0] == '{' && seg[len(seg)-1] == '}'
}
