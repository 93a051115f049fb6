package models

import "github.com/shopspring/decimal"

// DateLayout is the calendar-day format records are stamped with.
// Records carry a day, not a timestamp.
const DateLayout = "2006-01-02"

// MonthLayout is the calendar-month format used for period filtering.
const MonthLayout = "2006-01"

// Record represents one logged unit of work: WhoDid performed Description
// for ForWhom, worth Amount, on Date. Amount is a debt magnitude from
// WhoDid to ForWhom.
//
// A record belongs to exactly one group and has exactly one creator. Only
// Amount, WhoDid and ForWhom may change after creation, and only through
// the explicit update operation; identity fields (ID, Date, GroupID,
// creator) are fixed for the record's lifetime.
type Record struct {
	// ID is the unique identifier for the record (UUID format).
	ID string

	// Date is the calendar day the record was logged, in DateLayout.
	// Stamped server-side at creation; never client-supplied.
	Date string

	// WhoDid is the display name of the person who performed the work.
	WhoDid string

	// ForWhom is the display name of the beneficiary.
	ForWhom string

	// Description is optional free text describing the work.
	Description string

	// Amount is the non-negative value of the work.
	Amount decimal.Decimal

	// GroupID is the owning group (UUID format). Required.
	GroupID string

	// CreatorExternalID identifies the profile that logged the record.
	// Only this actor may update or delete it.
	CreatorExternalID string

	// CreatorName is the creator's display name at creation time.
	CreatorName string
}

// Month returns the record's calendar month in MonthLayout.
func (r *Record) Month() string {
	if len(r.Date) < len(MonthLayout) {
		return r.Date
	}
	return r.Date[:len(MonthLayout)]
}

// RecordUpdate carries the optional replacement values for an update.
// Nil fields keep their prior values; an update with all fields nil is a
// no-op.
type RecordUpdate struct {
	Amount  *decimal.Decimal
	WhoDid  *string
	ForWhom *string
}

// Empty reports whether the update carries no field at all.
func (u RecordUpdate) Empty() bool {
	return u.Amount == nil && u.WhoDid == nil && u.ForWhom == nil
}
