package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/Svyat-tmn/workledger/internal/balance"
	"github.com/Svyat-tmn/workledger/internal/intent"
	"github.com/Svyat-tmn/workledger/internal/models"
)

// Dispatch is the single text entry point for the chat transport: it
// routes one inbound message to the matching operation and renders the
// reply.
//
// While the user has a live edit dialogue, plain text feeds the
// dialogue; slash commands still parse normally so /cancel works and a
// fresh /edit supersedes the unfinished one.
//
// User-level failures (validation, missing group, denied mutation,
// unknown record) come back as the reply text with a nil error; only
// persistence failures surface as errors.
func (l *Ledger) Dispatch(ctx context.Context, externalID, text string) (string, error) {
	l.metrics.RecordMessage()

	if l.sessions.Get(externalID) != nil && !isCommand(text) {
		reply, err := l.OnSupplyEditField(ctx, externalID, text)
		if err != nil {
			return l.renderError(err)
		}
		return reply.Prompt, nil
	}

	in, err := intent.Parse(text)
	if err != nil {
		return l.renderError(err)
	}
	l.metrics.RecordIntent(in.Kind())

	switch in := in.(type) {
	case intent.Start:
		return l.OnStart(ctx, externalID)

	case intent.SetName:
		if err := l.OnSetDisplayName(ctx, externalID, in.Name); err != nil {
			return l.renderError(err)
		}
		return fmt.Sprintf("Name set: %s", in.Name), nil

	case intent.CreateGroup:
		group, err := l.OnCreateGroup(ctx, externalID, in.Name)
		if err != nil {
			return l.renderError(err)
		}
		return fmt.Sprintf("Group %q created. Others can join with /join %s", group.Name, group.ID), nil

	case intent.JoinGroup:
		if err := l.OnJoinGroup(ctx, externalID, in.GroupID); err != nil {
			return l.renderError(err)
		}
		return "You joined the group.", nil

	case intent.AddEntry:
		recordID, err := l.OnAddEntry(ctx, externalID, in.Who, in.Description, in.ForWhom, in.Amount)
		if err != nil {
			return l.renderError(err)
		}
		return fmt.Sprintf("Recorded under ID %s.", recordID), nil

	case intent.ListRecords:
		records, err := l.OnListRecords(ctx, externalID, in.Month)
		if err != nil {
			return l.renderError(err)
		}
		return FormatRecords(records), nil

	case intent.ComputeBalance:
		balances, err := l.OnComputeBalance(ctx, externalID, in.Month)
		if err != nil {
			return l.renderError(err)
		}
		return balance.Report(balances, monthOrCurrent(in.Month)), nil

	case intent.StartEdit:
		if err := l.OnStartEdit(ctx, externalID, in.RecordID); err != nil {
			return l.renderError(err)
		}
		return promptFor(l.sessions.Get(externalID).Step), nil

	case intent.DeleteRecord:
		if err := l.OnDeleteRecord(ctx, externalID, in.RecordID); err != nil {
			return l.renderError(err)
		}
		return "Record deleted.", nil

	case intent.Cancel:
		l.OnCancelEdit(externalID)
		return "Edit cancelled.", nil

	default:
		return "I did not understand that. Log work as: Ivan did the website for Olga worth 5000", nil
	}
}

func isCommand(text string) bool {
	for _, r := range text {
		if r == ' ' || r == '\t' {
			continue
		}
		return r == '/'
	}
	return false
}

// renderError turns domain failures into user-facing reply text.
// Anything else is a persistence failure: the caller gets a generic
// line plus the error itself.
func (l *Ledger) renderError(err error) (string, error) {
	category, reply := classify(err)
	l.metrics.RecordIntentError(category)
	if category == "store" {
		return "Something went wrong, try again later.", err
	}
	return reply, nil
}

func classify(err error) (category, reply string) {
	var ve *models.ValidationError
	switch {
	case errors.As(err, &ve):
		return "validation", ve.Error()
	case errors.Is(err, models.ErrNotInGroup):
		return "not_in_group", "You are not in a group. Create one with /new_group or /join an existing one."
	case errors.Is(err, models.ErrPermissionDenied):
		return "permission_denied", "Only the creator of a record can change it."
	case errors.Is(err, models.ErrRecordNotFound):
		return "record_not_found", "There is no record with that ID."
	case errors.Is(err, models.ErrGroupNotFound):
		return "group_not_found", "There is no group with that ID."
	default:
		return "store", ""
	}
}
