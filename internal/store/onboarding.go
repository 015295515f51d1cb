package store

import (
	"context"
	"errors"
	"fmt"
)

// Onboarding steps. 0 means the guide is not shown.
const (
	StepInactive     = 0
	StepCreateJob    = 1
	StepAddCandidate = 2
	StepReview       = 3
	StepInterview    = 4
	StepDone         = 5
)

// ErrInvalidStep is returned for steps outside 0..5.
var ErrInvalidStep = errors.New("onboarding step must be between 0 and 5")

// OnboardingState is the guided-setup progress.
type OnboardingState struct {
	Step      int  `json:"step"`
	Completed bool `json:"completed"`
}

// Onboarding returns the current onboarding state.
func (s *Store) Onboarding() OnboardingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return OnboardingState{Step: s.onboardingStep, Completed: s.onboardingCompleted}
}

// SetOnboardingStep jumps to step.
func (s *Store) SetOnboardingStep(step int) (OnboardingState, error) {
	if step < StepInactive || step > StepDone {
		return OnboardingState{}, fmt.Errorf("%w: %d", ErrInvalidStep, step)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setStepLocked(step)
	return OnboardingState{Step: s.onboardingStep, Completed: s.onboardingCompleted}, nil
}

// NextOnboardingStep handles the guide's "next" button: review moves on to
// interview prep and the final card closes the guide. Other steps wait for
// their triggering action.
func (s *Store) NextOnboardingStep() OnboardingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.onboardingStep {
	case StepReview:
		s.setStepLocked(StepInterview)
	case StepDone:
		s.skipLocked()
	}
	return OnboardingState{Step: s.onboardingStep, Completed: s.onboardingCompleted}
}

// SkipOnboarding closes the guide and records it as completed.
func (s *Store) SkipOnboarding() OnboardingState {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skipLocked()
	return OnboardingState{Step: s.onboardingStep, Completed: s.onboardingCompleted}
}

func (s *Store) skipLocked() {
	s.onboardingStep = StepInactive
	s.markCompletedLocked()
}

// setStepLocked moves the guide. Reaching the final step records completion.
func (s *Store) setStepLocked(step int) {
	s.onboardingStep = step
	if step == StepDone {
		s.markCompletedLocked()
	}
}

func (s *Store) markCompletedLocked() {
	if s.onboardingCompleted {
		return
	}
	s.onboardingCompleted = true

	ctx, cancel := context.WithTimeout(context.Background(), s.writeTimeout)
	defer cancel()
	if err := s.kv.Set(ctx, KeyOnboardingCompleted, []byte("true")); err != nil {
		s.persistFailed(KeyOnboardingCompleted, err)
	}
}
