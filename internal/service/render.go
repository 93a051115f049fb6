package service

import (
	"fmt"
	"strings"

	"github.com/Svyat-tmn/workledger/internal/models"
	"github.com/Svyat-tmn/workledger/internal/session"
)

// greeting mirrors the classic /start reply: it tells the user the next
// setup step they are missing, or welcomes them into their group.
func greeting(profile *models.Profile, groupName string) string {
	switch {
	case profile.DisplayName == "":
		return "Hi! You have no name set yet. Pick one with /set_name Ivan"
	case groupName == "":
		return fmt.Sprintf("Hi, %s! You are not in a group yet. Create one with /new_group or /join an existing one.", profile.DisplayName)
	default:
		return fmt.Sprintf("Hi, %s! You are in the group %q.", profile.DisplayName, groupName)
	}
}

// FormatRecord renders one record as a single listing line.
func FormatRecord(rec *models.Record) string {
	return fmt.Sprintf("ID %s | %s | %s did %s → %s | %s",
		rec.ID, rec.Date, rec.WhoDid, rec.Description, rec.ForWhom,
		rec.Amount.StringFixed(2))
}

// FormatRecords renders the month's listing, one record per line.
func FormatRecords(records []models.Record) string {
	if len(records) == 0 {
		return "No records for this month."
	}
	lines := make([]string, len(records))
	for i := range records {
		lines[i] = FormatRecord(&records[i])
	}
	return strings.Join(lines, "\n")
}

// promptFor asks for the field the dialogue has advanced to.
func promptFor(step session.Step) string {
	switch step {
	case session.StepAmount:
		return "New amount, or 'skip' to keep it:"
	case session.StepWho:
		return "New performer, or 'skip' to keep them:"
	default:
		return "New beneficiary, or 'skip' to keep them:"
	}
}

// repromptFor re-asks the same field after rejected input.
func repromptFor(step session.Step) string {
	if step == session.StepAmount {
		return "That is not a valid amount. Enter a non-negative number, or 'skip':"
	}
	return "A name must not be empty. Try again, or 'skip':"
}
