// Package recruiting implements the recruiter's actions on top of the entity
// store, the notification emitter and the agents. Every HTTP handler and CLI
// command goes through a Service.
package recruiting

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/smarthire/internal/agents"
	"github.com/jonathan/smarthire/internal/notify"
	"github.com/jonathan/smarthire/internal/store"
	"github.com/jonathan/smarthire/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

var (
	// ErrNotFound is returned when a job or candidate id does not resolve.
	ErrNotFound = errors.New("not found")
	// ErrInFlight is returned when the same action is already running for the same target.
	ErrInFlight = errors.New("action already in progress")
	// ErrInvalidInput wraps request validation failures.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotScreened is returned by actions that need a screening analysis first.
	ErrNotScreened = errors.New("candidate has not been screened")
	// ErrNoNextStage is returned when advancing a candidate already at offer or rejected.
	ErrNoNextStage = errors.New("candidate has no next stage")
)

// Action names a long-running agent action.
type Action string

const (
	ActionDescription Action = "job_description"
	ActionSourcing    Action = "sourcing"
	ActionScreen      Action = "screen"
	ActionInterview   Action = "interview_questions"
	ActionSalary      Action = "salary_estimate"
	ActionBackground  Action = "background_check"
	ActionOffer       Action = "offer"
)

// Defaults used when Options leaves a field zero.
const (
	DefaultAgentTimeout  = 60 * time.Second
	DefaultMaxConcurrent = 4
	DefaultUsageLimit    = 30
)

// Options configures New.
type Options struct {
	Logger        *zap.Logger
	AgentTimeout  time.Duration
	MaxConcurrent int64
	UsageLimit    int
	// NewID generates record ids; defaults to uuid.NewString.
	NewID func() string
}

type flightKey struct {
	action Action
	target string
}

// Service is the application root: it owns the store, the emitter and the agents.
type Service struct {
	store  *store.Store
	notify *notify.Emitter
	agents *agents.Agents
	sem    *semaphore.Weighted
	log    *zap.Logger

	timeout    time.Duration
	usageLimit int
	newID      func() string

	mu       sync.Mutex
	inFlight map[flightKey]bool
}

// New wires a Service.
func New(st *store.Store, emitter *notify.Emitter, ag *agents.Agents, opts Options) *Service {
	s := &Service{
		store:      st,
		notify:     emitter,
		agents:     ag,
		log:        opts.Logger,
		timeout:    opts.AgentTimeout,
		usageLimit: opts.UsageLimit,
		newID:      opts.NewID,
		inFlight:   make(map[flightKey]bool),
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.timeout <= 0 {
		s.timeout = DefaultAgentTimeout
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrent
	}
	s.sem = semaphore.NewWeighted(opts.MaxConcurrent)
	if s.usageLimit <= 0 {
		s.usageLimit = DefaultUsageLimit
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	return s
}

// Notifier exposes the notification log and toasts.
func (s *Service) Notifier() *notify.Emitter {
	return s.notify
}

// AgentsAvailable reports whether a model credential is configured.
func (s *Service) AgentsAvailable() bool {
	return s.agents.Available()
}

// InFlight reports which actions are running for target (a candidate id,
// a job id, or "" for actions without one).
func (s *Service) InFlight(target string) map[Action]bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[Action]bool{
		ActionScreen:     false,
		ActionInterview:  false,
		ActionSalary:     false,
		ActionBackground: false,
		ActionOffer:      false,
	}
	for k := range s.inFlight {
		if k.target == target {
			out[k.action] = true
		}
	}
	return out
}

func (s *Service) begin(action Action, target string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := flightKey{action, target}
	if s.inFlight[k] {
		return false
	}
	s.inFlight[k] = true
	return true
}

func (s *Service) end(action Action, target string) {
	s.mu.Lock()
	delete(s.inFlight, flightKey{action, target})
	s.mu.Unlock()
}

// runAgent executes fn as action on target. The caller's cancellation is not
// propagated; the call is bounded by the agent timeout and the concurrency limit.
func (s *Service) runAgent(ctx context.Context, action Action, target string, fn func(context.Context) error) error {
	if !s.begin(action, target) {
		return fmt.Errorf("%w: %s", ErrInFlight, action)
	}
	defer s.end(action, target)

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
	defer cancel()

	if err := s.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("waiting for an agent slot: %w", err)
	}
	defer s.sem.Release(1)

	start := time.Now()
	err := fn(ctx)
	s.log.Info("agent action finished",
		zap.String("action", string(action)),
		zap.String("target", target),
		zap.Duration("duration", time.Since(start)),
		zap.Error(err))
	return err
}

// failed reports an agent failure to the user and returns err unchanged.
func (s *Service) failed(action Action, toast string, err error) error {
	s.log.Warn("agent action failed", zap.String("action", string(action)), zap.Error(err))
	s.notify.AddToast(toast, types.SeverityError)
	return err
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}

// Dashboard is the landing page summary.
type Dashboard struct {
	Stats      store.Stats           `json:"stats"`
	Usage      int                   `json:"usage"`
	UsageLimit int                   `json:"usage_limit"`
	Onboarding store.OnboardingState `json:"onboarding"`
	Unread     int                   `json:"unread_notifications"`
}

// Dashboard returns the landing page summary.
func (s *Service) Dashboard() Dashboard {
	return Dashboard{
		Stats:      s.store.Stats(),
		Usage:      s.store.Usage(),
		UsageLimit: s.usageLimit,
		Onboarding: s.store.Onboarding(),
		Unread:     s.notify.UnreadCount(),
	}
}

// Search matches jobs and candidates.
func (s *Service) Search(q string) store.SearchResult {
	return s.store.Search(q)
}

// UsageState is the AI usage counter against its displayed allowance.
type UsageState struct {
	Used  int `json:"used"`
	Limit int `json:"limit"`
}

// Usage returns the AI usage counter.
func (s *Service) Usage() UsageState {
	return UsageState{Used: s.store.Usage(), Limit: s.usageLimit}
}

// ResetUsage zeroes the AI usage counter.
func (s *Service) ResetUsage() UsageState {
	s.store.ResetUsage()
	return s.Usage()
}

// Onboarding returns the onboarding walkthrough state.
func (s *Service) Onboarding() store.OnboardingState {
	return s.store.Onboarding()
}

// SetOnboardingStep jumps the walkthrough to step.
func (s *Service) SetOnboardingStep(req types.OnboardingRequest) (store.OnboardingState, error) {
	if err := req.Validate(); err != nil {
		return store.OnboardingState{}, invalid(err)
	}
	st, err := s.store.SetOnboardingStep(req.Step)
	if err != nil {
		return st, invalid(err)
	}
	return st, nil
}

// NextOnboardingStep advances the walkthrough by one manual step.
func (s *Service) NextOnboardingStep() store.OnboardingState {
	return s.store.NextOnboardingStep()
}

// SkipOnboarding dismisses the walkthrough for good.
func (s *Service) SkipOnboarding() store.OnboardingState {
	return s.store.SkipOnboarding()
}

// LoadDemo merges the demo snapshot into the store.
func (s *Service) LoadDemo() (jobsAdded, candidatesAdded int) {
	jobsAdded, candidatesAdded = s.store.LoadDemoSnapshot()
	s.notify.AddToast(fmt.Sprintf("Demo data loaded: %d jobs, %d candidates", jobsAdded, candidatesAdded), types.SeverityInfo)
	return jobsAdded, candidatesAdded
}
