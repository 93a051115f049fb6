package balance

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/Svyat-tmn/workledger/internal/models"
)

func rec(who, forWhom, amount string) models.Record {
	return models.Record{
		WhoDid:  who,
		ForWhom: forWhom,
		Amount:  decimal.RequireFromString(amount),
	}
}

func TestCompute(t *testing.T) {
	tests := []struct {
		name    string
		records []models.Record
		want    map[string]string
	}{
		{
			name: "two-person scenario",
			records: []models.Record{
				rec("B", "A", "100"),
				rec("A", "B", "40"),
			},
			// A: +100 as beneficiary, -40 as performer = +60
			// B: +40 as beneficiary, -100 as performer = -60
			want: map[string]string{"A": "60", "B": "-60"},
		},
		{
			name: "self-record cancels out",
			records: []models.Record{
				rec("A", "A", "25"),
			},
			want: map[string]string{"A": "0"},
		},
		{
			name:    "no records",
			records: nil,
			want:    map[string]string{},
		},
		{
			name: "cent-level amounts stay exact",
			records: []models.Record{
				rec("A", "B", "0.10"),
				rec("A", "B", "0.10"),
				rec("A", "B", "0.10"),
				rec("B", "A", "0.30"),
			},
			want: map[string]string{"A": "0", "B": "0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Compute(tt.records)
			if len(got) != len(tt.want) {
				t.Fatalf("Compute returned %d entries, want %d", len(got), len(tt.want))
			}
			for name, want := range tt.want {
				if !got[name].Equal(decimal.RequireFromString(want)) {
					t.Errorf("balance[%s] = %s, want %s", name, got[name], want)
				}
			}
		})
	}
}

func TestComputeOrderInvariant(t *testing.T) {
	records := []models.Record{
		rec("A", "B", "100"),
		rec("B", "C", "33.33"),
		rec("C", "A", "12.50"),
		rec("A", "C", "7"),
	}
	reversed := make([]models.Record, len(records))
	for i, r := range records {
		reversed[len(records)-1-i] = r
	}

	forward := Compute(records)
	backward := Compute(reversed)

	for name, val := range forward {
		if !backward[name].Equal(val) {
			t.Errorf("order changed balance[%s]: %s vs %s", name, val, backward[name])
		}
	}
}

func TestComputeConservation(t *testing.T) {
	records := []models.Record{
		rec("A", "B", "19.99"),
		rec("B", "C", "0.01"),
		rec("C", "A", "123.45"),
		rec("D", "A", "5"),
	}

	total := decimal.Zero
	for _, val := range Compute(records) {
		total = total.Add(val)
	}
	if !total.IsZero() {
		t.Errorf("balances sum to %s, want 0", total)
	}
}

func TestReport(t *testing.T) {
	t.Run("positive entries only", func(t *testing.T) {
		balances := Compute([]models.Record{
			rec("B", "A", "100"),
			rec("A", "B", "40"),
		})
		got := Report(balances, "2026-08")

		if !strings.Contains(got, "A is owed 60") {
			t.Errorf("report missing owed line: %q", got)
		}
		if strings.Contains(got, "B") {
			t.Errorf("negative balance rendered: %q", got)
		}
	})

	t.Run("all zero yields sentinel", func(t *testing.T) {
		balances := Compute([]models.Record{
			rec("A", "B", "50"),
			rec("B", "A", "50"),
		})
		got := Report(balances, "2026-08")

		if !strings.Contains(got, NobodyOwes) {
			t.Errorf("report = %q, want sentinel %q", got, NobodyOwes)
		}
	})

	t.Run("names sorted", func(t *testing.T) {
		balances := map[string]decimal.Decimal{
			"Zoe": decimal.RequireFromString("5"),
			"Amy": decimal.RequireFromString("3"),
		}
		got := Report(balances, "2026-08")
		if strings.Index(got, "Amy") > strings.Index(got, "Zoe") {
			t.Errorf("report not sorted by name: %q", got)
		}
	})
}
