// Package intent turns raw inbound text into typed intents.
//
// The ledger core never inspects free-form text itself; everything a
// user can ask for is one of the tagged variants below. Slash commands
// cover the explicit operations, and the one free-form sentence the
// system understands is the entry form
//
//	<who> did <description> for <whom> worth <amount>
package intent

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Svyat-tmn/workledger/internal/models"
)

// Intent is one parsed inbound request. Concrete types below are the
// only implementations.
type Intent interface {
	// Kind returns the intent's stable name, used for logging and
	// metrics labels.
	Kind() string
}

// Start greets the user and lazily creates their profile.
type Start struct{}

// SetName sets the user's display name.
type SetName struct{ Name string }

// AddEntry logs a new work record.
type AddEntry struct {
	Who         string
	Description string
	ForWhom     string
	Amount      decimal.Decimal
}

// ListRecords asks for the group's records of one month.
// An empty Month means the current month.
type ListRecords struct{ Month string }

// ComputeBalance asks for the group's net balance of one month.
// An empty Month means the current month.
type ComputeBalance struct{ Month string }

// StartEdit begins the field-by-field edit dialogue on a record.
type StartEdit struct{ RecordID string }

// DeleteRecord permanently removes a record.
type DeleteRecord struct{ RecordID string }

// CreateGroup creates a group and joins the caller to it.
type CreateGroup struct{ Name string }

// JoinGroup joins the caller to an existing group.
type JoinGroup struct{ GroupID string }

// Cancel discards the caller's unfinished edit dialogue.
type Cancel struct{}

// Unknown carries text that matched no command and no entry sentence.
type Unknown struct{ Text string }

func (Start) Kind() string          { return "start" }
func (SetName) Kind() string        { return "set_name" }
func (AddEntry) Kind() string       { return "add_entry" }
func (ListRecords) Kind() string    { return "list_records" }
func (ComputeBalance) Kind() string { return "compute_balance" }
func (StartEdit) Kind() string      { return "start_edit" }
func (DeleteRecord) Kind() string   { return "delete_record" }
func (CreateGroup) Kind() string    { return "create_group" }
func (JoinGroup) Kind() string      { return "join_group" }
func (Cancel) Kind() string         { return "cancel" }
func (Unknown) Kind() string        { return "unknown" }

var (
	entryRe = regexp.MustCompile(`(?i)^(.+?)\s+did\s+(.+)\s+for\s+(.+?)\s+worth\s+(\S+)$`)
	monthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
)

// Parse maps one line of inbound text to an intent. Recognized commands
// with malformed arguments return a ValidationError; text that matches
// nothing returns Unknown, never an error.
func Parse(text string) (Intent, error) {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "/") {
		return parseCommand(text)
	}

	if m := entryRe.FindStringSubmatch(text); m != nil {
		amount, err := decimal.NewFromString(m[4])
		if err != nil {
			return nil, models.Validationf("amount %q is not a number", m[4])
		}
		if amount.IsNegative() {
			return nil, models.Validationf("amount must not be negative")
		}
		return AddEntry{
			Who:         strings.TrimSpace(m[1]),
			Description: strings.TrimSpace(m[2]),
			ForWhom:     strings.TrimSpace(m[3]),
			Amount:      amount,
		}, nil
	}

	return Unknown{Text: text}, nil
}

func parseCommand(text string) (Intent, error) {
	cmd, arg, _ := strings.Cut(text, " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "/start":
		return Start{}, nil
	case "/cancel":
		return Cancel{}, nil
	case "/set_name":
		if arg == "" {
			return nil, models.Validationf("usage: /set_name <name>")
		}
		return SetName{Name: arg}, nil
	case "/records":
		month, err := parseMonth(arg)
		if err != nil {
			return nil, err
		}
		return ListRecords{Month: month}, nil
	case "/balance":
		month, err := parseMonth(arg)
		if err != nil {
			return nil, err
		}
		return ComputeBalance{Month: month}, nil
	case "/edit":
		if arg == "" {
			return nil, models.Validationf("usage: /edit <record id>")
		}
		return StartEdit{RecordID: arg}, nil
	case "/delete":
		if arg == "" {
			return nil, models.Validationf("usage: /delete <record id>")
		}
		return DeleteRecord{RecordID: arg}, nil
	case "/new_group":
		if arg == "" {
			return nil, models.Validationf("usage: /new_group <name>")
		}
		return CreateGroup{Name: arg}, nil
	case "/join":
		if arg == "" {
			return nil, models.Validationf("usage: /join <group id>")
		}
		return JoinGroup{GroupID: arg}, nil
	}
	return Unknown{Text: text}, nil
}

// parseMonth validates an optional YYYY-MM argument. Empty stays empty;
// the caller substitutes the current month.
func parseMonth(arg string) (string, error) {
	if arg == "" {
		return "", nil
	}
	if !monthRe.MatchString(arg) {
		return "", models.Validationf("month %q must look like 2026-08", arg)
	}
	return arg, nil
}
