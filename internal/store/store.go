// Package store is the single authoritative collection of jobs and candidates.
//
// Every mutation goes through a Store method, is applied under one lock, and is
// followed by a wholesale snapshot write to the backing kv.Store. The backing
// store is only read once, in Open.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/jonathan/smarthire/internal/kv"
	"github.com/jonathan/smarthire/internal/metrics"
	"github.com/jonathan/smarthire/internal/pipeline"
	"github.com/jonathan/smarthire/internal/types"
	"go.uber.org/zap"
)

// Persisted keys.
const (
	KeyJobs                = "smarthire_jobs"
	KeyCandidates          = "smarthire_candidates"
	KeyUsage               = "smarthire_usage"
	KeyOnboardingCompleted = "smarthire_onboarding_completed"
)

var (
	// ErrDuplicateID is returned when an id is already present in the collection.
	ErrDuplicateID = errors.New("duplicate id")
	// ErrMissingID is returned when a record has no id.
	ErrMissingID = errors.New("id is required")
	// ErrUnknownJob is returned when a candidate references a job that does not exist.
	ErrUnknownJob = errors.New("unknown job")
)

// Options configures Open.
type Options struct {
	Logger       *zap.Logger
	WriteTimeout time.Duration
	Now          func() time.Time
}

// Store holds jobs, candidates, the usage counter and onboarding progress.
type Store struct {
	mu  sync.Mutex
	kv  kv.Store
	log *zap.Logger
	now func() time.Time

	writeTimeout time.Duration

	jobs       []types.Job
	candidates []types.Candidate
	usage      int

	onboardingStep      int
	onboardingCompleted bool
}

// Open restores state from backend. Missing or malformed entries are logged
// and treated as empty; Open never fails because of stored data.
func Open(ctx context.Context, backend kv.Store, opts Options) *Store {
	s := &Store{
		kv:           backend,
		log:          opts.Logger,
		now:          opts.Now,
		writeTimeout: opts.WriteTimeout,
	}
	if s.log == nil {
		s.log = zap.NewNop()
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.writeTimeout <= 0 {
		s.writeTimeout = 5 * time.Second
	}

	s.jobs = loadJSON[[]types.Job](ctx, s, KeyJobs)
	s.candidates = loadJSON[[]types.Candidate](ctx, s, KeyCandidates)
	s.usage = s.loadUsage(ctx)
	s.onboardingCompleted = s.loadFlag(ctx, KeyOnboardingCompleted)

	if !s.onboardingCompleted && len(s.jobs) == 0 {
		s.onboardingStep = 1
	}

	s.log.Info("store restored",
		zap.Int("jobs", len(s.jobs)),
		zap.Int("candidates", len(s.candidates)),
		zap.Int("usage", s.usage),
		zap.Int("onboarding_step", s.onboardingStep))
	return s
}

func (s *Store) read(ctx context.Context, key string) ([]byte, bool) {
	data, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		s.log.Warn("failed to read persisted state, starting empty", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return data, true
}

func loadJSON[T any](ctx context.Context, s *Store, key string) T {
	var out T
	data, ok := s.read(ctx, key)
	if !ok {
		return out
	}
	if err := json.Unmarshal(data, &out); err != nil {
		s.log.Warn("malformed persisted state, starting empty", zap.String("key", key), zap.Error(err))
		var zero T
		return zero
	}
	return out
}

func (s *Store) loadUsage(ctx context.Context) int {
	data, ok := s.read(ctx, KeyUsage)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(string(data))
	if err != nil || n < 0 {
		s.log.Warn("malformed usage counter, resetting", zap.String("value", string(data)))
		return 0
	}
	return n
}

func (s *Store) loadFlag(ctx context.Context, key string) bool {
	data, ok := s.read(ctx, key)
	if !ok {
		return false
	}
	v, err := strconv.ParseBool(string(data))
	return err == nil && v
}

// persistLocked writes the full snapshot. Failures are logged and counted;
// the in-memory state stays authoritative.
func (s *Store) persistLocked(op string) {
	metrics.StoreMutations.WithLabelValues(op).Inc()

	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()

	entries := []struct {
		key   string
		value any
	}{
		{KeyJobs, nonNil(s.jobs)},
		{KeyCandidates, nonNil(s.candidates)},
	}
	for _, e := range entries {
		data, err := json.Marshal(e.value)
		if err != nil {
			s.persistFailed(e.key, err)
			continue
		}
		if err := s.kv.Set(ctx, e.key, data); err != nil {
			s.persistFailed(e.key, err)
		}
	}
	if err := s.kv.Set(ctx, KeyUsage, []byte(strconv.Itoa(s.usage))); err != nil {
		s.persistFailed(KeyUsage, err)
	}
}

func (s *Store) persistFailed(key string, err error) {
	metrics.PersistFailures.Inc()
	s.log.Error("failed to persist snapshot", zap.String("key", key), zap.Error(err))
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}

// AddJob inserts job at the head of the collection.
func (s *Store) AddJob(job types.Job) error {
	if job.ID == "" {
		return ErrMissingID
	}
	if job.Status == "" {
		job.Status = types.JobActive
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.jobIndexLocked(job.ID) >= 0 {
		return fmt.Errorf("%w: job %s", ErrDuplicateID, job.ID)
	}
	s.jobs = append([]types.Job{job.Clone()}, s.jobs...)
	if s.onboardingStep == 1 {
		s.setStepLocked(2)
	}
	s.persistLocked("add_job")
	return nil
}

// DeleteJob removes the job and every candidate that references it.
// It reports whether a job was removed.
func (s *Store) DeleteJob(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.jobIndexLocked(jobID)
	if i < 0 {
		return false
	}
	s.jobs = append(s.jobs[:i:i], s.jobs[i+1:]...)

	kept := make([]types.Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		if c.JobID != jobID {
			kept = append(kept, c)
		}
	}
	removed := len(s.candidates) - len(kept)
	s.candidates = kept

	s.log.Debug("job deleted", zap.String("job_id", jobID), zap.Int("candidates_removed", removed))
	s.persistLocked("delete_job")
	return true
}

// AddCandidate inserts candidate at the head of the collection. An empty
// status becomes new. The job reference is not checked; see AddCandidateToJob.
func (s *Store) AddCandidate(c types.Candidate) error {
	return s.addCandidate(c, false)
}

// AddCandidateToJob is AddCandidate that fails with ErrUnknownJob unless the
// referenced job exists at the moment of insertion.
func (s *Store) AddCandidateToJob(c types.Candidate) error {
	return s.addCandidate(c, true)
}

func (s *Store) addCandidate(c types.Candidate, requireJob bool) error {
	if c.ID == "" {
		return ErrMissingID
	}
	status, err := pipeline.Initial(c.Status)
	if err != nil {
		return err
	}
	c.Status = status
	if c.CreatedAt.IsZero() {
		c.CreatedAt = s.now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if requireJob && s.jobIndexLocked(c.JobID) < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownJob, c.JobID)
	}
	if s.candidateIndexLocked(c.ID) >= 0 {
		return fmt.Errorf("%w: candidate %s", ErrDuplicateID, c.ID)
	}
	s.candidates = append([]types.Candidate{c.Clone()}, s.candidates...)
	if s.onboardingStep == 2 {
		s.setStepLocked(3)
	}
	s.persistLocked("add_candidate")
	return nil
}

// UpdateCandidate merges patch into the candidate. An unknown id is a silent
// no-op and returns false.
func (s *Store) UpdateCandidate(id string, patch types.CandidatePatch) (types.Candidate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.candidateIndexLocked(id)
	if i < 0 {
		return types.Candidate{}, false
	}
	// Cloning after the merge detaches the stored record from the patch pointers.
	s.candidates[i] = types.ApplyPatch(s.candidates[i], patch).Clone()
	if s.onboardingStep == 4 && patch.InterviewQuestions != nil {
		s.setStepLocked(5)
	}
	s.persistLocked("update_candidate")
	return s.candidates[i].Clone(), true
}

// DeleteCandidate removes the candidate. It reports whether one was removed.
func (s *Store) DeleteCandidate(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.candidateIndexLocked(id)
	if i < 0 {
		return false
	}
	s.candidates = append(s.candidates[:i:i], s.candidates[i+1:]...)
	s.persistLocked("delete_candidate")
	return true
}

// IncrementUsage bumps the AI usage counter and returns the new value.
func (s *Store) IncrementUsage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage++
	s.persistLocked("increment_usage")
	return s.usage
}

// ResetUsage sets the usage counter to zero.
func (s *Store) ResetUsage() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.usage = 0
	s.persistLocked("reset_usage")
}

// Usage returns the AI usage counter.
func (s *Store) Usage() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.usage
}

func (s *Store) jobIndexLocked(id string) int {
	for i := range s.jobs {
		if s.jobs[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) candidateIndexLocked(id string) int {
	for i := range s.candidates {
		if s.candidates[i].ID == id {
			return i
		}
	}
	return -1
}
