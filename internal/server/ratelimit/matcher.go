package ratelimit

import (
	"strings"
)

// openPaths are GET endpoints that never count against a bucket.
var openPaths = map[string]bool{
	"/health":               true,
	"/metrics":              true,
	"/notifications/stream": true,
}

// MatchEndpoint returns the tier for a request. Open paths come first, then
// exact and wildcard patterns, then prefix patterns, so "/candidates/*/offer"
// beats "/candidates/". Anything unmatched is TierRead.
func MatchEndpoint(path string, method string, configs []EndpointConfig) Tier {
	if method == "GET" && openPaths[path] {
		return TierOpen
	}

	for _, config := range configs {
		if config.Method == method && segmentsMatch(config.Path, path) {
			return config.Tier
		}
	}

	for _, config := range configs {
		if config.Method == method && strings.HasSuffix(config.Path, "/") && strings.HasPrefix(path, config.Path) {
			return config.Tier
		}
	}

	return TierRead
}

// segmentsMatch compares pattern and path segment by segment; "*" matches
// any single non-empty segment.
func segmentsMatch(pattern, path string) bool {
	if pattern == path {
		return true
	}
	if !strings.Contains(pattern, "*") {
		return false
	}
	want := strings.Split(strings.Trim(pattern, "/"), "/")
	got := strings.Split(strings.Trim(path, "/"), "/")
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if want[i] == "*" {
			if got[i] == "" {
				return false
			}
			continue
		}
		if want[i] != got[i] {
			return false
		}
	}
	return true
}
