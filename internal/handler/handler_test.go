package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/anil1907/fidi-api/internal/auth"
	"github.com/anil1907/fidi-api/internal/middleware"
	"github.com/anil1907/fidi-api/internal/model"
	"github.com/anil1907/fidi-api/internal/schedule"
	"github.com/anil1907/fidi-api/internal/store"
)

type testAPI struct {
	t       *testing.T
	handler http.Handler
	token   string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	loc, err := time.LoadLocation("Europe/Istanbul")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	h := New(store.NewMemory(), auth.NewTokens("test-secret"), schedule.DefaultHours(loc), zerolog.Nop())
	// pin the clock to a Wednesday morning
	h.Now = func() time.Time {
		return time.Date(2024, 3, 6, 10, 0, 0, 0, loc)
	}

	api := &testAPI{
		t:       t,
		handler: h.Routes(middleware.NewRateLimiter(1000, 1000), nil),
	}

	resp := api.do("POST", "/api/auth/register", map[string]any{
		"email":    "dyt@example.com",
		"password": "secret-pass",
		"name":     "Dyt. Elif",
	}, http.StatusCreated)
	api.token = resp["token"].(string)
	return api
}

// do issues a request and decodes the JSON body into a generic map,
// failing the test when the status differs from want.
func (a *testAPI) do(method, path string, body any, want int) map[string]any {
	a.t.Helper()
	rec := a.raw(method, path, body)
	if rec.Code != want {
		a.t.Fatalf("%s %s: status = %d, want %d (body %s)", method, path, rec.Code, want, rec.Body.String())
	}
	var out map[string]any
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			a.t.Fatalf("%s %s: decode response: %v", method, path, err)
		}
	}
	return out
}

func (a *testAPI) raw(method, path string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthFlow(t *testing.T) {
	api := newTestAPI(t)

	// duplicate registration is rejected without leaking the reason
	api.token = ""
	api.do("POST", "/api/auth/register", map[string]any{
		"email":    "dyt@example.com",
		"password": "another-pass",
		"name":     "Imposter",
	}, http.StatusConflict)

	api.do("POST", "/api/auth/login", map[string]any{
		"email":    "dyt@example.com",
		"password": "wrong",
	}, http.StatusUnauthorized)

	resp := api.do("POST", "/api/auth/login", map[string]any{
		"email":    "dyt@example.com",
		"password": "secret-pass",
	}, http.StatusOK)
	refresh := resp["refreshToken"].(string)

	// protected surface requires a bearer token
	api.do("GET", "/api/clients", nil, http.StatusUnauthorized)

	resp = api.do("POST", "/api/auth/refresh", map[string]any{"refreshToken": refresh}, http.StatusOK)
	if resp["token"].(string) == "" {
		t.Fatal("refresh returned empty access token")
	}

	// rotation: the consumed refresh token no longer works
	api.do("POST", "/api/auth/refresh", map[string]any{"refreshToken": refresh}, http.StatusUnauthorized)

	// logout revokes every outstanding refresh token
	resp = api.do("POST", "/api/auth/login", map[string]any{
		"email":    "dyt@example.com",
		"password": "secret-pass",
	}, http.StatusOK)
	refresh = resp["refreshToken"].(string)
	api.token = resp["token"].(string)
	api.do("POST", "/api/auth/logout", nil, http.StatusOK)
	api.do("POST", "/api/auth/refresh", map[string]any{"refreshToken": refresh}, http.StatusUnauthorized)
}

func TestClientCRUD(t *testing.T) {
	api := newTestAPI(t)

	created := api.do("POST", "/api/clients", map[string]any{
		"firstName": "Ayşe",
		"lastName":  "Yılmaz",
		"email":     "ayse@example.com",
		"goals":     []string{"kilo verme"},
	}, http.StatusCreated)
	id := created["id"].(string)

	api.do("POST", "/api/clients", map[string]any{
		"firstName": "Mehmet",
		"lastName":  "Şahin",
	}, http.StatusCreated)

	got := api.do("GET", "/api/clients/"+id, nil, http.StatusOK)
	if got["firstName"] != "Ayşe" {
		t.Fatalf("firstName = %v, want Ayşe", got["firstName"])
	}

	// partial update leaves untouched fields alone
	updated := api.do("PUT", "/api/clients/"+id, map[string]any{"phone": "+90 555 111 22 33"}, http.StatusOK)
	if updated["firstName"] != "Ayşe" || updated["phone"] != "+90 555 111 22 33" {
		t.Fatalf("partial update clobbered fields: %v", updated)
	}

	list := api.do("GET", "/api/clients?search=ayşe", nil, http.StatusOK)
	if total := list["total"].(float64); total != 1 {
		t.Fatalf("search total = %v, want 1", total)
	}

	list = api.do("GET", "/api/clients?page=1&pageSize=1", nil, http.StatusOK)
	if n := len(list["clients"].([]any)); n != 1 {
		t.Fatalf("page size 1 returned %d clients", n)
	}
	if total := list["total"].(float64); total != 2 {
		t.Fatalf("paged total = %v, want 2", total)
	}

	api.do("DELETE", "/api/clients/"+id, nil, http.StatusOK)
	api.do("GET", "/api/clients/"+id, nil, http.StatusNotFound)
}

func TestPlanSnapshotsTemplateSections(t *testing.T) {
	api := newTestAPI(t)

	client := api.do("POST", "/api/clients", map[string]any{
		"firstName": "Zeynep", "lastName": "Kaya",
	}, http.StatusCreated)

	tpl := api.do("POST", "/api/templates", map[string]any{
		"name": "Akdeniz",
		"sections": []map[string]any{
			{
				"title": "Kahvaltı",
				"items": []map[string]any{{"label": "Yulaf", "amount": "40g", "calories": 150}},
			},
		},
	}, http.StatusCreated)

	plan := api.do("POST", "/api/plans", map[string]any{
		"clientId":   client["id"],
		"templateId": tpl["id"],
		"name":       "Mart planı",
		"dateStart":  "2024-03-01",
		"dateEnd":    "2024-03-31",
	}, http.StatusCreated)

	sections := plan["sections"].([]any)
	if len(sections) != 1 {
		t.Fatalf("plan sections = %d, want 1 from template", len(sections))
	}

	// mutate the template; the issued plan must not move
	api.do("PUT", "/api/templates/"+tpl["id"].(string), map[string]any{
		"sections": []map[string]any{
			{"title": "Akşam", "items": []map[string]any{{"label": "Çorba"}}},
		},
	}, http.StatusOK)

	got := api.do("GET", "/api/plans/"+plan["id"].(string), nil, http.StatusOK)
	sec := got["sections"].([]any)[0].(map[string]any)
	if sec["title"] != "Kahvaltı" {
		t.Fatalf("plan section title = %v, want snapshot Kahvaltı", sec["title"])
	}
	item := sec["items"].([]any)[0].(map[string]any)
	if item["calories"].(float64) != 150 {
		t.Fatalf("plan item calories = %v, want 150", item["calories"])
	}
}

func TestTemplateSectionTitleRejected(t *testing.T) {
	api := newTestAPI(t)
	rec := api.raw("POST", "/api/templates", map[string]any{
		"name":     "Bozuk",
		"sections": []map[string]any{{"title": "Brunch", "items": []map[string]any{}}},
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("invalid section title: status = %d, want 400", rec.Code)
	}
}

func TestAppointmentRules(t *testing.T) {
	api := newTestAPI(t)
	client := api.do("POST", "/api/clients", map[string]any{
		"firstName": "Can", "lastName": "Demir",
	}, http.StatusCreated)
	cid := client["id"].(string)

	tests := []struct {
		name     string
		startsAt string
		endsAt   string
		status   int
		code     string
	}{
		{"opening boundary", "2024-03-06T09:00", "2024-03-06T09:30", http.StatusCreated, ""},
		{"closing boundary", "2024-03-06T17:30", "2024-03-06T18:00", http.StatusCreated, ""},
		{"before opening", "2024-03-06T08:30", "2024-03-06T09:00", http.StatusUnprocessableEntity, "start_outside_business_hours"},
		{"after last start", "2024-03-06T17:45", "2024-03-06T18:00", http.StatusUnprocessableEntity, "start_outside_business_hours"},
		{"runs past closing", "2024-03-06T17:00", "2024-03-06T18:15", http.StatusUnprocessableEntity, "end_outside_business_hours"},
		{"too short", "2024-03-06T10:00", "2024-03-06T10:15", http.StatusUnprocessableEntity, "duration_too_short"},
		{"end before start", "2024-03-06T11:00", "2024-03-06T10:00", http.StatusUnprocessableEntity, "end_before_start"},
		{"crosses midnight", "2024-03-06T16:00", "2024-03-07T09:00", http.StatusUnprocessableEntity, "crosses_midnight"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rec := api.raw("POST", "/api/appointments", map[string]any{
				"clientId": cid,
				"title":    "Kontrol",
				"startsAt": tc.startsAt,
				"endsAt":   tc.endsAt,
			})
			if rec.Code != tc.status {
				t.Fatalf("status = %d, want %d (body %s)", rec.Code, tc.status, rec.Body.String())
			}
			if tc.code != "" {
				var resp map[string]any
				if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
					t.Fatalf("decode: %v", err)
				}
				if resp["code"] != tc.code {
					t.Fatalf("code = %v, want %s", resp["code"], tc.code)
				}
			}
		})
	}
}

func TestAppointmentDefaultEnd(t *testing.T) {
	api := newTestAPI(t)
	client := api.do("POST", "/api/clients", map[string]any{
		"firstName": "Can", "lastName": "Demir",
	}, http.StatusCreated)

	created := api.do("POST", "/api/appointments", map[string]any{
		"clientId": client["id"],
		"title":    "İlk görüşme",
		"startsAt": "2024-03-06T10:15",
	}, http.StatusCreated)
	if ends := created["endsAt"].(string); ends[11:16] != "10:45" {
		t.Fatalf("default end = %s, want 10:45", ends)
	}
	if created["status"] != "scheduled" {
		t.Fatalf("default status = %v, want scheduled", created["status"])
	}

	// near closing the default end clamps to 18:00
	created = api.do("POST", "/api/appointments", map[string]any{
		"clientId": client["id"],
		"title":    "Son randevu",
		"startsAt": "2024-03-06T17:30",
	}, http.StatusCreated)
	if ends := created["endsAt"].(string); ends[11:16] != "18:00" {
		t.Fatalf("clamped end = %s, want 18:00", ends)
	}
}

func TestAppointmentRescheduleValidated(t *testing.T) {
	api := newTestAPI(t)
	client := api.do("POST", "/api/clients", map[string]any{
		"firstName": "Can", "lastName": "Demir",
	}, http.StatusCreated)

	created := api.do("POST", "/api/appointments", map[string]any{
		"clientId": client["id"],
		"title":    "Kontrol",
		"startsAt": "2024-03-06T10:00",
		"endsAt":   "2024-03-06T10:30",
	}, http.StatusCreated)
	id := created["id"].(string)

	// moving the start outside hours is rejected even though the stored
	// appointment was valid
	rec := api.raw("PUT", "/api/appointments/"+id, map[string]any{"startsAt": "2024-03-06T08:00"})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("reschedule status = %d, want 422", rec.Code)
	}

	// status-only updates skip the time rules
	api.do("PUT", "/api/appointments/"+id, map[string]any{"status": "done"}, http.StatusOK)

	rec = api.raw("PUT", "/api/appointments/"+id, map[string]any{"status": "no-show"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad status: status = %d, want 400", rec.Code)
	}
}

func TestCalendarGrid(t *testing.T) {
	api := newTestAPI(t)
	client := api.do("POST", "/api/clients", map[string]any{
		"firstName": "Can", "lastName": "Demir",
	}, http.StatusCreated)
	cid := client["id"].(string)

	// Wednesday 2024-03-06 (same day as the pinned clock) and Friday
	api.do("POST", "/api/appointments", map[string]any{
		"clientId": cid, "title": "Sabah", "startsAt": "2024-03-06T09:15", "endsAt": "2024-03-06T09:45",
	}, http.StatusCreated)
	api.do("POST", "/api/appointments", map[string]any{
		"clientId": cid, "title": "Cuma", "startsAt": "2024-03-08T14:00", "endsAt": "2024-03-08T14:30",
	}, http.StatusCreated)

	grid := api.do("GET", "/api/appointments/calendar?anchor=2024-03-06", nil, http.StatusOK)

	if grid["weekStart"] != "2024-03-04" {
		t.Fatalf("weekStart = %v, want Monday 2024-03-04", grid["weekStart"])
	}
	days := grid["days"].([]any)
	if len(days) != 7 || days[0] != "2024-03-04" || days[6] != "2024-03-10" {
		t.Fatalf("days = %v", days)
	}
	slots := grid["slots"].([]any)
	if len(slots) != 10 || slots[0] != "09:00" || slots[9] != "18:00" {
		t.Fatalf("slots = %v", slots)
	}

	cells := grid["cells"].([]any)
	// Wednesday is column 2, 09:xx is row 0
	wedNine := cells[2].([]any)[0].([]any)
	if len(wedNine) != 1 || wedNine[0].(map[string]any)["title"] != "Sabah" {
		t.Fatalf("cells[2][0] = %v", wedNine)
	}
	friTwo := cells[4].([]any)[5].([]any)
	if len(friTwo) != 1 || friTwo[0].(map[string]any)["title"] != "Cuma" {
		t.Fatalf("cells[4][5] = %v", friTwo)
	}

	today := grid["today"].([]any)
	if len(today) != 1 || today[0].(map[string]any)["title"] != "Sabah" {
		t.Fatalf("today = %v", today)
	}

	// a different anchor shows an empty week but the same today list
	grid = api.do("GET", "/api/appointments/calendar?anchor=2024-03-13", nil, http.StatusOK)
	if grid["weekStart"] != "2024-03-11" {
		t.Fatalf("weekStart = %v, want 2024-03-11", grid["weekStart"])
	}
	if today := grid["today"].([]any); len(today) != 1 {
		t.Fatalf("today across weeks = %v, want the pinned day's appointment", today)
	}
}

func TestAppointmentListFilters(t *testing.T) {
	api := newTestAPI(t)
	c1 := api.do("POST", "/api/clients", map[string]any{"firstName": "A", "lastName": "B"}, http.StatusCreated)
	c2 := api.do("POST", "/api/clients", map[string]any{"firstName": "C", "lastName": "D"}, http.StatusCreated)

	api.do("POST", "/api/appointments", map[string]any{
		"clientId": c1["id"], "title": "x", "startsAt": "2024-03-06T10:00", "endsAt": "2024-03-06T10:30",
	}, http.StatusCreated)
	api.do("POST", "/api/appointments", map[string]any{
		"clientId": c2["id"], "title": "y", "startsAt": "2024-03-07T11:00", "endsAt": "2024-03-07T11:30",
	}, http.StatusCreated)

	rec := api.raw("GET", "/api/appointments?clientId="+c1["id"].(string), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("list status = %d", rec.Code)
	}
	var appts []model.Appointment
	if err := json.Unmarshal(rec.Body.Bytes(), &appts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(appts) != 1 || appts[0].Title != "x" {
		t.Fatalf("clientId filter = %v", appts)
	}

	rec = api.raw("GET", "/api/appointments?from=2024-03-07T00:00&to=2024-03-08T00:00", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &appts); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(appts) != 1 || appts[0].Title != "y" {
		t.Fatalf("range filter = %v", appts)
	}
}
