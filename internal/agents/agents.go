// Package agents implements the recruiting assistants. Each agent renders a
// prompt, asks the model for JSON matching its output schema and decodes the
// validated result into a typed value. Calls are single-shot.
package agents

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jonathan/smarthire/internal/llm"
	"github.com/jonathan/smarthire/internal/metrics"
	"github.com/jonathan/smarthire/internal/prompts"
	"github.com/jonathan/smarthire/internal/schemas"
	"go.uber.org/zap"
)

// Agent names, used for metrics labels and error messages.
const (
	AgentJobDescription = "job_description"
	AgentScreener       = "screener"
	AgentInterview      = "interview"
	AgentSourcing       = "sourcing"
	AgentOffer          = "offer"
	AgentBackground     = "background_check"
	AgentSalary         = "salary"
)

// Call outcomes recorded in smarthire_agent_calls_total.
const (
	outcomeOK       = "ok"
	outcomeAPIError = "api_error"
	outcomeParse    = "parse_error"
	outcomeInvalid  = "invalid"
)

// Options configures New.
type Options struct {
	// Tier selects the model; defaults to llm.TierStandard.
	Tier   llm.ModelTier
	Logger *zap.Logger
}

// Agents runs the recruiting agents against one model client.
type Agents struct {
	client llm.Client
	tier   llm.ModelTier
	log    *zap.Logger
}

// New returns the agents backed by client. A nil client is allowed: every
// call then fails with ErrMissingAPIKey.
func New(client llm.Client, opts Options) *Agents {
	a := &Agents{client: client, tier: opts.Tier, log: opts.Logger}
	if a.tier == "" {
		a.tier = llm.TierStandard
	}
	if a.log == nil {
		a.log = zap.NewNop()
	}
	return a
}

// Available reports whether a model client is configured.
func (a *Agents) Available() bool {
	return a.client != nil
}

type call struct {
	agent  string
	prompt string
	schema string
	data   map[string]string
}

// generate runs one structured generation and decodes the result into out.
func (a *Agents) generate(ctx context.Context, c call, out any) (err error) {
	if a.client == nil {
		metrics.AgentCalls.WithLabelValues(c.agent, outcomeAPIError).Inc()
		return ErrMissingAPIKey
	}

	prompt, err := prompts.Render(c.prompt, c.data)
	if err != nil {
		return &APICallError{Agent: c.agent, Message: "failed to build prompt", Cause: err}
	}
	schema, err := schemas.Load(c.schema)
	if err != nil {
		return &APICallError{Agent: c.agent, Message: "failed to load output schema", Cause: err}
	}

	metrics.AgentCallsActive.Inc()
	start := time.Now()
	defer func() {
		metrics.AgentCallsActive.Dec()
		metrics.AgentCallDuration.WithLabelValues(c.agent).Observe(time.Since(start).Seconds())
		metrics.AgentCalls.WithLabelValues(c.agent, outcomeOf(err)).Inc()
	}()

	a.log.Debug("agent call", zap.String("agent", c.agent), zap.String("model", a.client.GetModel(a.tier)))

	text, err := a.client.GenerateJSON(ctx, prompt, a.tier, schema)
	if err != nil {
		return &APICallError{Agent: c.agent, Message: "failed to generate content", Cause: err}
	}
	text = llm.CleanJSONBlock(text)

	if !json.Valid([]byte(text)) {
		return &ParseError{Agent: c.agent, Message: "response is not valid JSON"}
	}
	if err := schemas.Validate(c.schema, text); err != nil {
		verr := &ValidationError{Agent: c.agent, Message: "response does not match schema", Cause: err}
		var sv *schemas.ValidationError
		if errors.As(err, &sv) && len(sv.Errors) > 0 {
			verr.Field = sv.Errors[0].Field
			verr.Message = sv.Errors[0].Message
		}
		return verr
	}
	if err := json.Unmarshal([]byte(text), out); err != nil {
		return &ParseError{Agent: c.agent, Message: "failed to decode response", Cause: err}
	}
	return nil
}

func outcomeOf(err error) string {
	var (
		parseErr *ParseError
		validErr *ValidationError
	)
	switch {
	case err == nil:
		return outcomeOK
	case errors.As(err, &parseErr):
		return outcomeParse
	case errors.As(err, &validErr):
		return outcomeInvalid
	default:
		return outcomeAPIError
	}
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}

func joinList(items []string) string {
	return strings.Join(items, ", ")
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return items
}
