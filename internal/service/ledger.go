// Package service implements the ledger's boundary operations: entry
// logging, listing, balance reports, the guided edit dialogue, and the
// creator-only mutation policy.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Svyat-tmn/workledger/internal/balance"
	"github.com/Svyat-tmn/workledger/internal/metrics"
	"github.com/Svyat-tmn/workledger/internal/models"
	"github.com/Svyat-tmn/workledger/internal/session"
	"github.com/Svyat-tmn/workledger/internal/storage"
)

// Ledger exposes the core operations to the transport layer.
type Ledger struct {
	store    storage.Store
	sessions *session.Manager
	metrics  metrics.Recorder
}

// NewLedger creates a Ledger with the given storage backend, session
// manager and metrics recorder.
func NewLedger(store storage.Store, sessions *session.Manager, rec metrics.Recorder) *Ledger {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &Ledger{store: store, sessions: sessions, metrics: rec}
}

// canMutate is the single authorization policy for record mutation:
// only the record's creator may update or delete it. Every mutating
// path goes through this check before touching the store.
func canMutate(actorExternalID string, rec *models.Record) bool {
	return rec.CreatorExternalID == actorExternalID
}

// OnStart ensures a profile exists for the external id and returns the
// greeting reflecting how far the user has set themselves up.
func (l *Ledger) OnStart(ctx context.Context, externalID string) (string, error) {
	if err := l.store.EnsureProfile(ctx, externalID); err != nil {
		return "", l.storeFailure("ensure profile", err)
	}

	profile, err := l.store.GetProfile(ctx, externalID)
	if err != nil {
		return "", l.storeFailure("get profile", err)
	}

	var groupName string
	if profile.GroupID != "" {
		group, err := l.store.GetGroup(ctx, profile.GroupID)
		if err != nil {
			return "", l.storeFailure("get group", err)
		}
		groupName = group.Name
	}

	return greeting(profile, groupName), nil
}

// OnSetDisplayName sets the user's display name, creating the profile
// on first contact.
func (l *Ledger) OnSetDisplayName(ctx context.Context, externalID, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Validationf("name must not be empty")
	}
	if err := l.store.EnsureProfile(ctx, externalID); err != nil {
		return l.storeFailure("ensure profile", err)
	}
	if err := l.store.SetDisplayName(ctx, externalID, name); err != nil {
		return l.storeFailure("set display name", err)
	}
	return nil
}

// OnCreateGroup creates a group and joins the caller to it.
func (l *Ledger) OnCreateGroup(ctx context.Context, externalID, name string) (*models.Group, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, models.Validationf("group name must not be empty")
	}
	if err := l.store.EnsureProfile(ctx, externalID); err != nil {
		return nil, l.storeFailure("ensure profile", err)
	}

	group, err := l.store.CreateGroup(ctx, name)
	if err != nil {
		return nil, l.storeFailure("create group", err)
	}
	if err := l.store.JoinGroup(ctx, externalID, group.ID); err != nil {
		return nil, l.storeFailure("join group", err)
	}

	slog.Info("Group created", "group_id", group.ID, "creator", externalID)
	return group, nil
}

// OnJoinGroup joins the caller to an existing group, replacing any
// previous membership.
func (l *Ledger) OnJoinGroup(ctx context.Context, externalID, groupID string) error {
	if err := l.store.EnsureProfile(ctx, externalID); err != nil {
		return l.storeFailure("ensure profile", err)
	}
	if err := l.store.JoinGroup(ctx, externalID, groupID); err != nil {
		if isDomainErr(err) {
			return err
		}
		return l.storeFailure("join group", err)
	}
	return nil
}

// OnAddEntry validates and logs a new work record. The record is
// stamped with the current calendar day and owned by the caller's
// group; the caller becomes its creator.
func (l *Ledger) OnAddEntry(ctx context.Context, externalID, who, description, forWhom string, amount decimal.Decimal) (string, error) {
	if strings.TrimSpace(who) == "" || strings.TrimSpace(forWhom) == "" {
		return "", models.Validationf("performer and beneficiary must not be empty")
	}
	if amount.IsNegative() {
		return "", models.Validationf("amount must not be negative")
	}

	profile, err := l.memberProfile(ctx, externalID)
	if err != nil {
		return "", err
	}

	rec := &models.Record{
		WhoDid:            strings.TrimSpace(who),
		ForWhom:           strings.TrimSpace(forWhom),
		Description:       strings.TrimSpace(description),
		Amount:            amount,
		GroupID:           profile.GroupID,
		CreatorExternalID: externalID,
		CreatorName:       profile.DisplayName,
	}
	if err := l.store.AddRecord(ctx, rec); err != nil {
		return "", l.storeFailure("add record", err)
	}

	slog.Info("Record added", "record_id", rec.ID, "group_id", rec.GroupID, "amount", amount)
	return rec.ID, nil
}

// OnListRecords returns the caller's group records for the month,
// ordered by date. An empty yearMonth means the current month.
func (l *Ledger) OnListRecords(ctx context.Context, externalID, yearMonth string) ([]models.Record, error) {
	profile, err := l.memberProfile(ctx, externalID)
	if err != nil {
		return nil, err
	}

	records, err := l.store.ListRecordsByMonth(ctx, profile.GroupID, monthOrCurrent(yearMonth))
	if err != nil {
		return nil, l.storeFailure("list records", err)
	}
	return records, nil
}

// OnComputeBalance aggregates the month's records into net per-person
// balances for the caller's group.
func (l *Ledger) OnComputeBalance(ctx context.Context, externalID, yearMonth string) (map[string]decimal.Decimal, error) {
	records, err := l.OnListRecords(ctx, externalID, yearMonth)
	if err != nil {
		return nil, err
	}
	return balance.Compute(records), nil
}

// OnStartEdit begins the field-by-field edit dialogue on a record.
// Any unfinished dialogue of the same user is silently superseded.
func (l *Ledger) OnStartEdit(ctx context.Context, externalID, recordID string) error {
	rec, err := l.store.GetRecord(ctx, recordID)
	if err != nil {
		if isDomainErr(err) {
			return err
		}
		return l.storeFailure("get record", err)
	}
	if !canMutate(externalID, rec) {
		return fmt.Errorf("%w: record %s", models.ErrPermissionDenied, recordID)
	}

	l.sessions.Start(externalID, recordID)
	l.metrics.SetEditSessions(l.sessions.Len())
	slog.Info("Edit started", "record_id", recordID, "external_id", externalID)
	return nil
}

// EditReply is the outcome of feeding one input to the edit dialogue.
type EditReply struct {
	// Prompt is the next question, or the closing confirmation when
	// Committed is set.
	Prompt string
	// Committed reports that the dialogue finished and the record was
	// updated.
	Committed bool
}

// OnSupplyEditField feeds one piece of raw text to the caller's live
// edit dialogue. With no live dialogue it fails validation.
func (l *Ledger) OnSupplyEditField(ctx context.Context, externalID, rawText string) (EditReply, error) {
	s := l.sessions.Get(externalID)
	if s == nil {
		return EditReply{}, models.Validationf("no edit in progress")
	}

	switch s.Apply(rawText) {
	case session.Reprompt:
		return EditReply{Prompt: repromptFor(s.Step)}, nil
	case session.Advanced:
		return EditReply{Prompt: promptFor(s.Step)}, nil
	}

	// Dialogue complete: commit exactly the collected fields.
	defer func() {
		l.sessions.End(externalID)
		l.metrics.SetEditSessions(l.sessions.Len())
	}()

	upd := s.Update()
	if upd.Empty() {
		return EditReply{Prompt: "Nothing changed.", Committed: true}, nil
	}

	rec, err := l.store.GetRecord(ctx, s.RecordID)
	if err != nil {
		if isDomainErr(err) {
			return EditReply{}, err
		}
		return EditReply{}, l.storeFailure("get record", err)
	}
	if !canMutate(externalID, rec) {
		return EditReply{}, fmt.Errorf("%w: record %s", models.ErrPermissionDenied, s.RecordID)
	}

	if err := l.store.UpdateRecord(ctx, s.RecordID, upd); err != nil {
		if isDomainErr(err) {
			return EditReply{}, err
		}
		return EditReply{}, l.storeFailure("update record", err)
	}

	slog.Info("Record updated", "record_id", s.RecordID, "external_id", externalID)
	return EditReply{Prompt: "Record updated.", Committed: true}, nil
}

// OnCancelEdit discards the caller's unfinished edit dialogue, if any.
func (l *Ledger) OnCancelEdit(externalID string) {
	l.sessions.End(externalID)
	l.metrics.SetEditSessions(l.sessions.Len())
}

// OnDeleteRecord permanently removes a record after the creator check.
func (l *Ledger) OnDeleteRecord(ctx context.Context, externalID, recordID string) error {
	rec, err := l.store.GetRecord(ctx, recordID)
	if err != nil {
		if isDomainErr(err) {
			return err
		}
		return l.storeFailure("get record", err)
	}
	if !canMutate(externalID, rec) {
		return fmt.Errorf("%w: record %s", models.ErrPermissionDenied, recordID)
	}

	if err := l.store.DeleteRecord(ctx, recordID); err != nil {
		return l.storeFailure("delete record", err)
	}
	slog.Info("Record deleted", "record_id", recordID, "external_id", externalID)
	return nil
}

// memberProfile loads the caller's profile and requires group
// membership.
func (l *Ledger) memberProfile(ctx context.Context, externalID string) (*models.Profile, error) {
	if err := l.store.EnsureProfile(ctx, externalID); err != nil {
		return nil, l.storeFailure("ensure profile", err)
	}
	profile, err := l.store.GetProfile(ctx, externalID)
	if err != nil {
		return nil, l.storeFailure("get profile", err)
	}
	if profile.GroupID == "" {
		return nil, fmt.Errorf("%w: %s", models.ErrNotInGroup, externalID)
	}
	return profile, nil
}

// storeFailure logs a persistence failure and wraps it for the caller.
// Store failures abort the single request; they are never fatal to the
// process and are not retried.
func (l *Ledger) storeFailure(op string, err error) error {
	l.metrics.RecordStoreError()
	slog.Error("Store operation failed", "op", op, "error", err)
	return fmt.Errorf("%s: %w", op, err)
}

// isDomainErr reports whether err is one of the conditions callers
// branch on, as opposed to a persistence failure.
func isDomainErr(err error) bool {
	for _, sentinel := range []error{
		models.ErrRecordNotFound,
		models.ErrPermissionDenied,
		models.ErrNotInGroup,
		models.ErrProfileNotFound,
		models.ErrGroupNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return models.IsValidation(err)
}

// monthOrCurrent substitutes the current calendar month for an empty
// period argument.
func monthOrCurrent(yearMonth string) string {
	if yearMonth == "" {
		return time.Now().Format(models.MonthLayout)
	}
	return yearMonth
}
