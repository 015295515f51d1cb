// Package pipeline defines the candidate status pipeline and its transitions.
//
// The pipeline is permissive: any known status can be reached from any other.
// Only unknown statuses are rejected.
package pipeline

import (
	"errors"
	"fmt"

	"github.com/jonathan/smarthire/internal/types"
)

// ErrUnknownStatus is returned for a status outside the pipeline.
var ErrUnknownStatus = errors.New("unknown candidate status")

// StageDefinition describes one pipeline stage for display.
type StageDefinition struct {
	Status types.CandidateStatus `json:"status"`
	Label  string                `json:"label"`
	Order  int                   `json:"order"`
}

// stageOrder is the forward path. Rejected sits outside it.
var stageOrder = []types.CandidateStatus{
	types.StatusNew,
	types.StatusScreened,
	types.StatusInterviewing,
	types.StatusOffer,
}

// StageRegistry holds all stage definitions
var StageRegistry = map[types.CandidateStatus]StageDefinition{
	types.StatusNew:          {Status: types.StatusNew, Label: "Applied", Order: 0},
	types.StatusScreened:     {Status: types.StatusScreened, Label: "Screened", Order: 1},
	types.StatusInterviewing: {Status: types.StatusInterviewing, Label: "Interview", Order: 2},
	types.StatusOffer:        {Status: types.StatusOffer, Label: "Offer", Order: 3},
	types.StatusRejected:     {Status: types.StatusRejected, Label: "Rejected", Order: -1},
}

// Stages returns the forward stages in order.
func Stages() []StageDefinition {
	out := make([]StageDefinition, 0, len(stageOrder))
	for _, s := range stageOrder {
		out = append(out, StageRegistry[s])
	}
	return out
}

// Valid reports whether s is a pipeline status.
func Valid(s types.CandidateStatus) bool {
	_, ok := StageRegistry[s]
	return ok
}

// Initial returns the status a new candidate starts in. An explicit status wins.
func Initial(requested types.CandidateStatus) (types.CandidateStatus, error) {
	if requested == "" {
		return types.StatusNew, nil
	}
	if !Valid(requested) {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, requested)
	}
	return requested, nil
}

// Transition validates a move from one status to another.
func Transition(from, to types.CandidateStatus) (types.CandidateStatus, error) {
	if !Valid(from) {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, from)
	}
	if !Valid(to) {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, to)
	}
	return to, nil
}

// Next returns the next forward stage. ok is false at offer and rejected.
func Next(s types.CandidateStatus) (next types.CandidateStatus, ok bool) {
	for i, stage := range stageOrder {
		if stage == s && i+1 < len(stageOrder) {
			return stageOrder[i+1], true
		}
	}
	return s, false
}

// Reject moves any candidate to rejected.
func Reject(s types.CandidateStatus) (types.CandidateStatus, error) {
	return Transition(s, types.StatusRejected)
}

// Restore returns a rejected candidate to new. Other statuses are returned unchanged.
func Restore(s types.CandidateStatus) (types.CandidateStatus, error) {
	if !Valid(s) {
		return "", fmt.Errorf("%w: %q", ErrUnknownStatus, s)
	}
	if s != types.StatusRejected {
		return s, nil
	}
	return types.StatusNew, nil
}
