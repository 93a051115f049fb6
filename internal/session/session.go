// Package session holds the per-user edit dialogue state.
//
// An edit walks a fixed sequence of steps, one free-text input each:
// amount, then performer, then beneficiary. Each input either records a
// new value for the field, skips it, or fails validation and repeats the
// step. Sessions are keyed by the user's external id and a user has at
// most one; starting another edit supersedes the unfinished one.
package session

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Svyat-tmn/workledger/internal/models"
)

// Step identifies which field the dialogue currently expects.
type Step int

const (
	StepAmount Step = iota
	StepWho
	StepFor
)

// String returns the step name for logging and prompts.
func (s Step) String() string {
	switch s {
	case StepAmount:
		return "amount"
	case StepWho:
		return "who"
	case StepFor:
		return "for"
	default:
		return "unknown"
	}
}

// Outcome reports what an input did to the dialogue.
type Outcome int

const (
	// Reprompt means the input failed validation; the step is unchanged
	// and must be asked again.
	Reprompt Outcome = iota
	// Advanced means the input was accepted (or skipped) and the dialogue
	// moved to the next step.
	Advanced
	// Done means the final step was answered; the collected update is
	// ready to commit.
	Done
)

// Session tracks one user's progress through an edit dialogue.
type Session struct {
	ExternalID string
	RecordID   string
	Step       Step

	update models.RecordUpdate
}

// skip tokens accepted at every step to keep a field unchanged.
func isSkip(input string) bool {
	switch strings.ToLower(input) {
	case "skip", "-":
		return true
	}
	return false
}

// Apply feeds one piece of user input to the dialogue.
//
// At the amount step, input must parse as a finite non-negative decimal;
// anything else yields Reprompt without advancing. Name steps accept any
// non-empty text. A skip token advances without recording a value.
func (s *Session) Apply(input string) Outcome {
	input = strings.TrimSpace(input)

	if !isSkip(input) {
		switch s.Step {
		case StepAmount:
			amount, err := decimal.NewFromString(input)
			if err != nil || amount.IsNegative() {
				return Reprompt
			}
			s.update.Amount = &amount
		case StepWho:
			if input == "" {
				return Reprompt
			}
			s.update.WhoDid = &input
		case StepFor:
			if input == "" {
				return Reprompt
			}
			s.update.ForWhom = &input
		}
	}

	if s.Step == StepFor {
		return Done
	}
	s.Step++
	return Advanced
}

// Update returns the fields collected so far.
func (s *Session) Update() models.RecordUpdate {
	return s.update
}
