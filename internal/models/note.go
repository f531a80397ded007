package models

import "fmt"

// NoteCreationRequest is built up by the orchestrator for one invocation
type NoteCreationRequest struct {
	Template    *Template
	Values      map[string]string
	Destination string
	Content     []byte
}

// OutcomeKind identifies the terminal state of a creation invocation
type OutcomeKind int

const (
	OutcomeCreated OutcomeKind = iota
	OutcomeCancelled
	OutcomeFailed
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeCreated:
		return "created"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// CreationOutcome is exactly one of Created(path), Cancelled or Failed(reason)
type CreationOutcome struct {
	Kind OutcomeKind `json:"kind"`
	Path string      `json:"path,omitempty"`
	Err  error       `json:"-"`
}

// Created returns a successful outcome for path
func Created(path string) CreationOutcome {
	return CreationOutcome{Kind: OutcomeCreated, Path: path}
}

// Cancelled returns the outcome for a user-initiated cancellation
func Cancelled() CreationOutcome {
	return CreationOutcome{Kind: OutcomeCancelled}
}

// Failed returns a failed outcome carrying the reason
func Failed(err error) CreationOutcome {
	return CreationOutcome{Kind: OutcomeFailed, Err: err}
}

func (o CreationOutcome) IsCreated() bool   { return o.Kind == OutcomeCreated }
func (o CreationOutcome) IsCancelled() bool { return o.Kind == OutcomeCancelled }
func (o CreationOutcome) IsFailed() bool    { return o.Kind == OutcomeFailed }

func (o CreationOutcome) String() string {
	switch o.Kind {
	case OutcomeCreated:
		return fmt.Sprintf("created %s", o.Path)
	case OutcomeFailed:
		return fmt.Sprintf("failed: %v", o.Err)
	default:
		return o.Kind.String()
	}
}
