package ratelimit

import (
	"strings"
	"time"
)

// Tier groups endpoints that draw from one allowance per client.
type Tier string

const (
	// TierAgent covers every endpoint that calls the model.
	TierAgent Tier = "agent"
	// TierWrite covers requests that change jobs or candidates.
	TierWrite Tier = "write"
	// TierRead is everything without a more specific tier.
	TierRead Tier = "read"
	// TierOpen is never limited: health, metrics, the event stream.
	TierOpen Tier = "open"
	// TierBlocked is reported for blacklisted clients.
	TierBlocked Tier = "blocked"
)

// TierLimit is the allowance of one tier.
type TierLimit struct {
	Limit  int           // Requests per window
	Window time.Duration // Refill window
	Burst  int           // Bucket capacity, defaults to Limit
}

func (tl TierLimit) capacity() int {
	if tl.Burst > 0 {
		return tl.Burst
	}
	return tl.Limit
}

// EndpointConfig assigns a route to a tier.
type EndpointConfig struct {
	Path   string // exact, prefix when ending in "/", "*" matches one segment
	Method string
	Tier   Tier
}

// Settings are the operator-facing limiter knobs. Zero agent or write values
// fall back to the defaults.
type Settings struct {
	Enabled         bool
	DefaultLimit    int
	DefaultWindow   time.Duration
	AgentLimit      int
	AgentWindow     time.Duration
	WriteLimit      int
	WriteWindow     time.Duration
	CleanupInterval time.Duration
	Whitelist       string // comma-separated IPs
	Blacklist       string // comma-separated IPs
}

// Default tier allowances.
var (
	DefaultAgentLimit = TierLimit{Limit: 30, Window: time.Hour, Burst: 5}
	DefaultWriteLimit = TierLimit{Limit: 100, Window: time.Minute, Burst: 10}
)

// FromSettings builds a limiter Config with the SmartHire routes.
func FromSettings(s Settings) *Config {
	if !s.Enabled {
		return &Config{Enabled: false}
	}

	agent := DefaultAgentLimit
	if s.AgentLimit > 0 {
		agent.Limit = s.AgentLimit
		agent.Burst = min(agent.Burst, s.AgentLimit)
	}
	if s.AgentWindow > 0 {
		agent.Window = s.AgentWindow
	}
	write := DefaultWriteLimit
	if s.WriteLimit > 0 {
		write.Limit = s.WriteLimit
		write.Burst = min(write.Burst, s.WriteLimit)
	}
	if s.WriteWindow > 0 {
		write.Window = s.WriteWindow
	}

	return &Config{
		Enabled:         true,
		CleanupInterval: s.CleanupInterval,
		Whitelist:       parseIPList(s.Whitelist),
		Blacklist:       parseIPList(s.Blacklist),
		Tiers: map[Tier]TierLimit{
			TierAgent: agent,
			TierWrite: write,
			TierRead:  {Limit: s.DefaultLimit, Window: s.DefaultWindow},
		},
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs maps the API routes to tiers. Reads are left to
// TierRead and the open GET endpoints are handled by MatchEndpoint.
func DefaultEndpointConfigs() []EndpointConfig {
	agent := func(path string) EndpointConfig {
		return EndpointConfig{Path: path, Method: "POST", Tier: TierAgent}
	}
	write := func(path, method string) EndpointConfig {
		return EndpointConfig{Path: path, Method: method, Tier: TierWrite}
	}

	return []EndpointConfig{
		agent("/jobs/description"),
		agent("/sourcing"),
		agent("/candidates/screen"),
		agent("/candidates/*/interview-questions"),
		agent("/candidates/*/background-check"),
		agent("/candidates/*/salary-estimate"),
		agent("/candidates/*/offer"),

		write("/jobs", "POST"),
		write("/jobs/", "DELETE"),
		write("/candidates", "POST"),
		write("/candidates/", "POST"),
		write("/candidates/", "PATCH"),
		write("/candidates/", "DELETE"),
		write("/demo", "POST"),
	}
}

// parseIPList parses a comma-separated list of IP addresses into a map.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
