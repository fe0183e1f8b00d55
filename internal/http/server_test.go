package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"catty/internal/core"
	"catty/internal/services"
	"catty/internal/storage"
)

type noopPublisher struct{}

func (noopPublisher) PublishTransactionSync(context.Context, int64) error   { return nil }
func (noopPublisher) PublishTransactionDelete(context.Context, int64) error { return nil }

type stubChat struct {
	reply string
}

func (s stubChat) Reply(context.Context, string, string) string { return s.reply }

// newTestServer runs against a real temp database with today pinned to
// 2024-11-17.
func newTestServer(t *testing.T) *Server {
	t.Helper()

	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "catty.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	settings := services.NewSettingsService(repo)
	if _, err := settings.Load(context.Background(), core.NewDate(2024, 11, 17)); err != nil {
		t.Fatalf("load settings: %v", err)
	}

	srv := NewServer(":0", Deps{
		Transactions: services.NewTransactionService(repo, noopPublisher{}),
		Settings:     settings,
		Categories:   services.NewCategoryService(repo),
		Chat:         stubChat{reply: "You're doing great!"},
	})
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	})
	srv.now = func() time.Time {
		return time.Date(2024, time.November, 17, 12, 0, 0, 0, time.UTC)
	}
	return srv
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	srv.Server.Handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func TestHealthEndpoints(t *testing.T) {
	srv := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		if rec := doJSON(t, srv, http.MethodGet, path, ""); rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d", path, rec.Code)
		}
	}
}

func TestTransactionLifecycle(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/transactions",
		`{"kind":"expense","amount":"40.00","category":"shopping","mood":"sad","occurredOn":"Nov 4"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
	}
	var created transactionJSON
	decodeBody(t, rec, &created)
	if created.Amount != "-40.00" {
		t.Errorf("created amount = %q, want -40.00", created.Amount)
	}
	if created.Category != "shopping" {
		t.Errorf("created category = %q", created.Category)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/transactions", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("list = %d", rec.Code)
	}
	var listed struct {
		Transactions []transactionJSON `json:"transactions"`
	}
	decodeBody(t, rec, &listed)
	if len(listed.Transactions) != 1 {
		t.Fatalf("listed %d transactions, want 1", len(listed.Transactions))
	}

	rec = doJSON(t, srv, http.MethodDelete, "/api/transactions/1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("delete = %d", rec.Code)
	}
	rec = doJSON(t, srv, http.MethodDelete, "/api/transactions/1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete = %d, want 404", rec.Code)
	}
}

func TestCreateTransactionRejectsBadInput(t *testing.T) {
	srv := newTestServer(t)

	cases := []struct {
		name string
		body string
		want int
	}{
		{"bad amount", `{"kind":"expense","amount":"forty","category":"food"}`, http.StatusUnprocessableEntity},
		{"zero amount", `{"kind":"expense","amount":"0","category":"food"}`, http.StatusUnprocessableEntity},
		{"bad kind", `{"kind":"transfer","amount":"4.00","category":"food"}`, http.StatusUnprocessableEntity},
		{"bad mood", `{"kind":"expense","amount":"4.00","category":"food","mood":"angry"}`, http.StatusUnprocessableEntity},
		{"not json", `not json`, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := doJSON(t, srv, http.MethodPost, "/api/transactions", tc.body); rec.Code != tc.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestSummaryEndpoint(t *testing.T) {
	srv := newTestServer(t)

	// Pin the goal so percentages are known.
	rec := doJSON(t, srv, http.MethodPut, "/api/settings",
		`{"target":"100.00","periodDays":30,"startDate":"2024-11-01"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put settings = %d: %s", rec.Code, rec.Body.String())
	}

	for _, body := range []string{
		`{"kind":"income","amount":"1000.00","category":"income","occurredOn":"Nov 1"}`,
		`{"kind":"expense","amount":"40.00","category":"shopping","mood":"sad","occurredOn":"Nov 4"}`,
		`{"kind":"expense","amount":"15.50","category":"food","mood":"happy","occurredOn":"Nov 2"}`,
	} {
		if rec := doJSON(t, srv, http.MethodPost, "/api/transactions", body); rec.Code != http.StatusCreated {
			t.Fatalf("create = %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/analytics/summary?year=2024&month=11", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("summary = %d", rec.Code)
	}
	var got summaryResponse
	decodeBody(t, rec, &got)

	if got.TotalExpense != "55.50" {
		t.Errorf("totalExpense = %q, want 55.50", got.TotalExpense)
	}
	if got.Balance != "944.50" {
		t.Errorf("balance = %q, want 944.50", got.Balance)
	}
	if got.SpendingPercentage != 56 {
		t.Errorf("spendingPercentage = %d, want 56", got.SpendingPercentage)
	}
	if got.Remaining != "44.50" {
		t.Errorf("remaining = %q, want 44.50", got.Remaining)
	}
	if got.DailyGoal != "3.33" {
		t.Errorf("dailyGoal = %q, want 3.33", got.DailyGoal)
	}
	if len(got.Categories) != 2 || got.Categories[0].Name != "shopping" {
		t.Errorf("categories = %+v", got.Categories)
	}

	// Served from cache on repeat.
	rec = doJSON(t, srv, http.MethodGet, "/api/analytics/summary?year=2024&month=11", "")
	var again summaryResponse
	decodeBody(t, rec, &again)
	if again.TotalExpense != got.TotalExpense {
		t.Errorf("cached summary differs: %+v vs %+v", again, got)
	}
}

func TestActivityEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPut, "/api/settings",
		`{"target":"100.00","periodDays":30,"startDate":"2024-11-01"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put settings = %d", rec.Code)
	}
	// 40.00 on Nov 4 exceeds the 3.33 daily goal.
	rec = doJSON(t, srv, http.MethodPost, "/api/transactions",
		`{"kind":"expense","amount":"40.00","category":"shopping","occurredOn":"Nov 4"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create = %d", rec.Code)
	}

	rec = doJSON(t, srv, http.MethodGet, "/api/analytics/activity?year=2024&month=11", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("activity = %d", rec.Code)
	}
	var got activityResponse
	decodeBody(t, rec, &got)

	if got.Offset != 5 {
		t.Errorf("offset = %d, want 5 (November 2024 starts on Friday)", got.Offset)
	}
	if len(got.Days) != 30 {
		t.Fatalf("days = %d, want 30", len(got.Days))
	}
	byDay := make(map[int]dayJSON, len(got.Days))
	for _, d := range got.Days {
		byDay[d.Day] = d
	}
	if byDay[4].Status != "exceeded" {
		t.Errorf("day 4 = %q, want exceeded", byDay[4].Status)
	}
	if byDay[2].Status != "good" {
		t.Errorf("day 2 = %q, want good", byDay[2].Status)
	}
	if byDay[18].Status != "future" {
		t.Errorf("day 18 = %q, want future", byDay[18].Status)
	}
	if got.PrevMonth != 10 || got.NextMonth != 12 {
		t.Errorf("nav = prev %d next %d", got.PrevMonth, got.NextMonth)
	}
}

func TestSettingsEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/settings", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("get settings = %d", rec.Code)
	}
	var got settingsJSON
	decodeBody(t, rec, &got)
	if got.Target != "5000.00" || got.PeriodDays != 30 {
		t.Errorf("default settings = %+v", got)
	}

	cases := []struct {
		name string
		body string
		want int
	}{
		{"valid", `{"target":"250.00","periodDays":14,"startDate":"2024-11-05"}`, http.StatusOK},
		{"bad target", `{"target":"-5","periodDays":30}`, http.StatusUnprocessableEntity},
		{"bad period", `{"target":"100.00","periodDays":10}`, http.StatusUnprocessableEntity},
		{"bad date", `{"target":"100.00","periodDays":30,"startDate":"Nov 5"}`, http.StatusUnprocessableEntity},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if rec := doJSON(t, srv, http.MethodPut, "/api/settings", tc.body); rec.Code != tc.want {
				t.Errorf("status = %d, want %d: %s", rec.Code, tc.want, rec.Body.String())
			}
		})
	}
}

func TestSettingsSaveWhileLoadingConflicts(t *testing.T) {
	srv := newTestServer(t)

	// Fresh service that has not loaded yet.
	repo, err := storage.NewSQLiteRepository(filepath.Join(t.TempDir(), "other.db"))
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	srv.settings = services.NewSettingsService(repo)

	rec := doJSON(t, srv, http.MethodPut, "/api/settings",
		`{"target":"100.00","periodDays":30,"startDate":"2024-11-01"}`)
	if rec.Code != http.StatusConflict {
		t.Errorf("save while loading = %d, want 409", rec.Code)
	}
}

func TestCategoryEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/categories", "")
	var listed struct {
		Categories []string `json:"categories"`
	}
	decodeBody(t, rec, &listed)
	if len(listed.Categories) != 4 {
		t.Fatalf("seed categories = %v", listed.Categories)
	}

	if rec := doJSON(t, srv, http.MethodPost, "/api/categories", `{"name":"coffee"}`); rec.Code != http.StatusCreated {
		t.Fatalf("add = %d", rec.Code)
	}
	if rec := doJSON(t, srv, http.MethodPost, "/api/categories", `{"name":"coffee"}`); rec.Code != http.StatusConflict {
		t.Errorf("duplicate add = %d, want 409", rec.Code)
	}
	if rec := doJSON(t, srv, http.MethodDelete, "/api/categories/food", ""); rec.Code != http.StatusConflict {
		t.Errorf("baseline delete = %d, want 409", rec.Code)
	}
	if rec := doJSON(t, srv, http.MethodPut, "/api/categories/coffee", `{"newName":"caffeine"}`); rec.Code != http.StatusOK {
		t.Errorf("rename = %d", rec.Code)
	}
	if rec := doJSON(t, srv, http.MethodDelete, "/api/categories/missing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("delete unknown = %d, want 404", rec.Code)
	}
	if rec := doJSON(t, srv, http.MethodDelete, "/api/categories/caffeine", ""); rec.Code != http.StatusNoContent {
		t.Errorf("delete custom = %d", rec.Code)
	}
}

func TestChatEndpoint(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodPost, "/api/chat", `{"message":"how am I doing?"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("chat = %d", rec.Code)
	}
	var got chatResponse
	decodeBody(t, rec, &got)
	if got.Reply != "You're doing great!" {
		t.Errorf("reply = %q", got.Reply)
	}

	if rec := doJSON(t, srv, http.MethodPost, "/api/chat", `{"message":"  "}`); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("empty message = %d, want 422", rec.Code)
	}
}

func TestSecurityHeadersApplied(t *testing.T) {
	srv := newTestServer(t)

	rec := doJSON(t, srv, http.MethodGet, "/api/transactions", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("X-Frame-Options"); got != "DENY" {
		t.Errorf("X-Frame-Options = %q", got)
	}
}

func TestRateLimitOnWrites(t *testing.T) {
	srv := newTestServer(t)

	limited := false
	for i := 0; i < 70; i++ {
		rec := doJSON(t, srv, http.MethodPost, "/api/categories", `{"name":"dup"}`)
		if rec.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("write requests were never rate limited")
	}

	// Reads stay unthrottled.
	if rec := doJSON(t, srv, http.MethodGet, "/api/transactions", ""); rec.Code != http.StatusOK {
		t.Errorf("read after limit = %d", rec.Code)
	}
}
