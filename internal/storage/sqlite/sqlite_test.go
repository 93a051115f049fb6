package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Svyat-tmn/workledger/internal/models"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func strPtr(s string) *string { return &s }

func TestProfiles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("GetProfile on unknown id", func(t *testing.T) {
		_, err := store.GetProfile(ctx, "nobody")
		if !errors.Is(err, models.ErrProfileNotFound) {
			t.Errorf("expected ErrProfileNotFound, got %v", err)
		}
	})

	t.Run("EnsureProfile is idempotent", func(t *testing.T) {
		if err := store.EnsureProfile(ctx, "u1"); err != nil {
			t.Fatalf("EnsureProfile failed: %v", err)
		}
		if err := store.SetDisplayName(ctx, "u1", "Ivan"); err != nil {
			t.Fatalf("SetDisplayName failed: %v", err)
		}
		// A second ensure must not reset the name
		if err := store.EnsureProfile(ctx, "u1"); err != nil {
			t.Fatalf("second EnsureProfile failed: %v", err)
		}

		profile, err := store.GetProfile(ctx, "u1")
		if err != nil {
			t.Fatalf("GetProfile failed: %v", err)
		}
		if profile.DisplayName != "Ivan" {
			t.Errorf("DisplayName = %q, want Ivan", profile.DisplayName)
		}
		if profile.GroupID != "" {
			t.Errorf("new profile has GroupID %q", profile.GroupID)
		}
	})

	t.Run("JoinGroup assigns membership", func(t *testing.T) {
		group, err := store.CreateGroup(ctx, "Flatmates")
		if err != nil {
			t.Fatalf("CreateGroup failed: %v", err)
		}
		if group.ID == "" || group.CreatedAt == 0 {
			t.Fatal("group identity not populated")
		}

		if err := store.JoinGroup(ctx, "u1", group.ID); err != nil {
			t.Fatalf("JoinGroup failed: %v", err)
		}
		profile, err := store.GetProfile(ctx, "u1")
		if err != nil {
			t.Fatalf("GetProfile failed: %v", err)
		}
		if profile.GroupID != group.ID {
			t.Errorf("GroupID = %q, want %q", profile.GroupID, group.ID)
		}
	})

	t.Run("JoinGroup rejects missing group", func(t *testing.T) {
		err := store.JoinGroup(ctx, "u1", "no-such-group")
		if !errors.Is(err, models.ErrGroupNotFound) {
			t.Errorf("expected ErrGroupNotFound, got %v", err)
		}
	})
}

func TestRecords(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	group, err := store.CreateGroup(ctx, "Flatmates")
	if err != nil {
		t.Fatalf("CreateGroup failed: %v", err)
	}

	addRecord := func(t *testing.T, date, who, forWhom, amount string) *models.Record {
		t.Helper()
		rec := &models.Record{
			Date:              date,
			WhoDid:            who,
			ForWhom:           forWhom,
			Description:       "some work",
			Amount:            dec(amount),
			GroupID:           group.ID,
			CreatorExternalID: "u1",
			CreatorName:       "Ivan",
		}
		if err := store.AddRecord(ctx, rec); err != nil {
			t.Fatalf("AddRecord failed: %v", err)
		}
		return rec
	}

	t.Run("AddRecord stamps identity and today", func(t *testing.T) {
		rec := addRecord(t, "", "Ivan", "Olga", "100")
		if rec.ID == "" {
			t.Error("expected record ID to be generated")
		}
		if rec.Date != time.Now().Format(models.DateLayout) {
			t.Errorf("Date = %q, want today", rec.Date)
		}

		got, err := store.GetRecord(ctx, rec.ID)
		if err != nil {
			t.Fatalf("GetRecord failed: %v", err)
		}
		if !got.Amount.Equal(dec("100")) {
			t.Errorf("Amount = %s, want 100", got.Amount)
		}
		if got.CreatorExternalID != "u1" {
			t.Errorf("CreatorExternalID = %q, want u1", got.CreatorExternalID)
		}
	})

	t.Run("ListRecordsByMonth filters and orders", func(t *testing.T) {
		later := addRecord(t, "2030-05-20", "Ivan", "Olga", "1")
		earlier := addRecord(t, "2030-05-03", "Olga", "Ivan", "2")
		addRecord(t, "2030-06-01", "Ivan", "Olga", "3") // other month

		records, err := store.ListRecordsByMonth(ctx, group.ID, "2030-05")
		if err != nil {
			t.Fatalf("ListRecordsByMonth failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("got %d records, want 2", len(records))
		}
		if records[0].ID != earlier.ID || records[1].ID != later.ID {
			t.Errorf("records not ordered by date: %s then %s", records[0].Date, records[1].Date)
		}
		for _, r := range records {
			if r.Month() != "2030-05" {
				t.Errorf("record %s has month %q, want 2030-05", r.ID, r.Month())
			}
		}
	})

	t.Run("ListRecordsByMonth ties break by insertion order", func(t *testing.T) {
		first := addRecord(t, "2031-01-15", "A", "B", "1")
		second := addRecord(t, "2031-01-15", "B", "A", "2")

		records, err := store.ListRecordsByMonth(ctx, group.ID, "2031-01")
		if err != nil {
			t.Fatalf("ListRecordsByMonth failed: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("got %d records, want 2", len(records))
		}
		if records[0].ID != first.ID || records[1].ID != second.ID {
			t.Error("same-day records not in insertion order")
		}
	})

	t.Run("ListRecordsByMonth empty month yields empty slice", func(t *testing.T) {
		records, err := store.ListRecordsByMonth(ctx, group.ID, "1999-01")
		if err != nil {
			t.Fatalf("ListRecordsByMonth failed: %v", err)
		}
		if len(records) != 0 {
			t.Errorf("got %d records, want 0", len(records))
		}
	})

	t.Run("UpdateRecord with one field changes only that field", func(t *testing.T) {
		rec := addRecord(t, "2032-03-10", "Ivan", "Olga", "50")

		amount := dec("75.25")
		if err := store.UpdateRecord(ctx, rec.ID, models.RecordUpdate{Amount: &amount}); err != nil {
			t.Fatalf("UpdateRecord failed: %v", err)
		}

		got, err := store.GetRecord(ctx, rec.ID)
		if err != nil {
			t.Fatalf("GetRecord failed: %v", err)
		}
		if !got.Amount.Equal(amount) {
			t.Errorf("Amount = %s, want 75.25", got.Amount)
		}
		if got.WhoDid != "Ivan" || got.ForWhom != "Olga" || got.Date != "2032-03-10" {
			t.Errorf("untouched fields changed: %+v", got)
		}
	})

	t.Run("UpdateRecord with no fields is a no-op", func(t *testing.T) {
		rec := addRecord(t, "2032-04-01", "Ivan", "Olga", "10")

		if err := store.UpdateRecord(ctx, rec.ID, models.RecordUpdate{}); err != nil {
			t.Fatalf("UpdateRecord failed: %v", err)
		}

		got, err := store.GetRecord(ctx, rec.ID)
		if err != nil {
			t.Fatalf("GetRecord failed: %v", err)
		}
		if !got.Amount.Equal(rec.Amount) || got.WhoDid != rec.WhoDid || got.ForWhom != rec.ForWhom {
			t.Errorf("no-op update changed the record: %+v", got)
		}
	})

	t.Run("UpdateRecord on missing id reports not found", func(t *testing.T) {
		who := "Ivan"
		err := store.UpdateRecord(ctx, "no-such-id", models.RecordUpdate{WhoDid: strPtr(who)})
		if !errors.Is(err, models.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound, got %v", err)
		}
	})

	t.Run("DeleteRecord is idempotent", func(t *testing.T) {
		rec := addRecord(t, "2032-05-01", "Ivan", "Olga", "10")

		if err := store.DeleteRecord(ctx, rec.ID); err != nil {
			t.Fatalf("DeleteRecord failed: %v", err)
		}
		if _, err := store.GetRecord(ctx, rec.ID); !errors.Is(err, models.ErrRecordNotFound) {
			t.Errorf("record still readable after delete: %v", err)
		}
		// Deleting a missing id twice stays a no-op
		if err := store.DeleteRecord(ctx, rec.ID); err != nil {
			t.Errorf("second DeleteRecord failed: %v", err)
		}
		if err := store.DeleteRecord(ctx, rec.ID); err != nil {
			t.Errorf("third DeleteRecord failed: %v", err)
		}
	})

	t.Run("cent amounts survive a round trip exactly", func(t *testing.T) {
		rec := addRecord(t, "2032-06-01", "Ivan", "Olga", "0.10")
		got, err := store.GetRecord(ctx, rec.ID)
		if err != nil {
			t.Fatalf("GetRecord failed: %v", err)
		}
		if got.Amount.String() != "0.1" {
			t.Errorf("Amount = %s, want 0.1", got.Amount)
		}
	})
}
