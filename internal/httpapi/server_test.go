package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Svyat-tmn/workledger/internal/metrics"
	"github.com/Svyat-tmn/workledger/internal/service"
	"github.com/Svyat-tmn/workledger/internal/session"
	"github.com/Svyat-tmn/workledger/internal/storage/sqlite"
)

func setupServer(t *testing.T) *httptest.Server {
	t.Helper()
	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	reg := prometheus.NewRegistry()
	ledger := service.NewLedger(store, session.NewManager(0), metrics.NewCollector(reg))

	ts := httptest.NewServer(NewRouter(ledger, reg))
	t.Cleanup(ts.Close)
	return ts
}

func postMessage(t *testing.T, ts *httptest.Server, externalID, text string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"external_id": externalID, "text": text})
	resp, err := http.Post(ts.URL+"/v1/messages", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST /v1/messages failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("POST /v1/messages status = %d", resp.StatusCode)
	}

	var out struct {
		Reply string `json:"reply"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("failed to decode reply: %v", err)
	}
	return out.Reply
}

func TestMessagesEndpoint(t *testing.T) {
	ts := setupServer(t)

	postMessage(t, ts, "u1", "/set_name Ivan")
	postMessage(t, ts, "u1", "/new_group Flatmates")
	reply := postMessage(t, ts, "u1", "Ivan did the website for Olga worth 100")

	if !strings.Contains(reply, "Recorded under ID") {
		t.Errorf("reply = %q", reply)
	}
}

func TestMessagesEndpointRejectsBadRequests(t *testing.T) {
	ts := setupServer(t)

	t.Run("missing external id", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/v1/messages", "application/json",
			bytes.NewReader([]byte(`{"text":"/start"}`)))
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		resp, err := http.Post(ts.URL+"/v1/messages", "application/json",
			bytes.NewReader([]byte(`not json`)))
		if err != nil {
			t.Fatalf("POST failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", resp.StatusCode)
		}
	})
}

func TestRecordsEndpoint(t *testing.T) {
	ts := setupServer(t)

	postMessage(t, ts, "u1", "/set_name Ivan")
	postMessage(t, ts, "u1", "/new_group Flatmates")
	postMessage(t, ts, "u1", "Ivan did the website for Olga worth 100")

	resp, err := http.Get(ts.URL + "/v1/records?external_id=u1")
	if err != nil {
		t.Fatalf("GET /v1/records failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	var records []struct {
		WhoDid  string `json:"who_did"`
		ForWhom string `json:"for_whom"`
		Amount  string `json:"amount"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		t.Fatalf("failed to decode records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records, want 1", len(records))
	}
	if records[0].WhoDid != "Ivan" || records[0].Amount != "100" {
		t.Errorf("record = %+v", records[0])
	}
}

func TestStatusMapping(t *testing.T) {
	ts := setupServer(t)
	postMessage(t, ts, "grouped", "/new_group Flatmates")

	tests := []struct {
		name string
		url  string
		want int
	}{
		{name: "groupless user is forbidden", url: "/v1/records?external_id=loner", want: http.StatusForbidden},
		{name: "missing external id", url: "/v1/records", want: http.StatusBadRequest},
		{name: "balance for groupless user", url: "/v1/balance?external_id=loner", want: http.StatusForbidden},
		{name: "balance ok", url: "/v1/balance?external_id=grouped", want: http.StatusOK},
		{name: "health", url: "/healthz", want: http.StatusOK},
		{name: "metrics", url: "/metrics", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + tt.url)
			if err != nil {
				t.Fatalf("GET %s failed: %v", tt.url, err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("GET %s status = %d, want %d", tt.url, resp.StatusCode, tt.want)
			}
		})
	}
}
