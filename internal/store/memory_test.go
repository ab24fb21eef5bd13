package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/anil1907/fidi-api/internal/model"
)

func newClient(first, last, email, phone string) *model.Client {
	return &model.Client{
		ID:        uuid.New().String(),
		FirstName: first,
		LastName:  last,
		Email:     email,
		Phone:     phone,
	}
}

func TestClientSearch(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	seed := []*model.Client{
		newClient("Ayşe", "Yılmaz", "ayse@example.com", "05321234567"),
		newClient("Mehmet", "Öztürk", "mehmet@example.com", "05337654321"),
		newClient("Fatma", "Şahin", "", ""),
	}
	for _, c := range seed {
		if err := m.CreateClient(ctx, c); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	tests := []struct {
		name   string
		search string
		want   int
	}{
		{"no filter", "", 3},
		{"first name", "ayşe", 1},
		{"case insensitive", "MEHMET", 1},
		{"turkish letters", "şahin", 1},
		{"full name", "ayşe yılmaz", 1},
		{"email", "mehmet@", 1},
		{"phone", "0533", 1},
		{"no match", "zeynep", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, err := m.ListClients(ctx, ClientFilter{Search: tt.search})
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(got) != tt.want || total != tt.want {
				t.Errorf("expected %d, got %d (total %d)", tt.want, len(got), total)
			}
		})
	}
}

func TestClientPagination(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		c := newClient("Client", "Num", "", "")
		if err := m.CreateClient(ctx, c); err != nil {
			t.Fatalf("create: %v", err)
		}
		// Map ordering is random; CreatedAt drives list order.
		time.Sleep(time.Millisecond)
	}

	page1, total, err := m.ListClients(ctx, ClientFilter{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if total != 5 || len(page1) != 2 {
		t.Fatalf("page 1: total %d len %d", total, len(page1))
	}
	page3, total, _ := m.ListClients(ctx, ClientFilter{Page: 3, PageSize: 2})
	if total != 5 || len(page3) != 1 {
		t.Fatalf("page 3: total %d len %d", total, len(page3))
	}
	empty, _, _ := m.ListClients(ctx, ClientFilter{Page: 9, PageSize: 2})
	if len(empty) != 0 {
		t.Fatalf("page past end should be empty, got %d", len(empty))
	}
}

func TestPlanSnapshotIsolation(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	cal := 320
	tpl := &model.Template{
		ID:   uuid.New().String(),
		Name: "Standart",
		Sections: []model.TemplateSection{{
			ID:    uuid.New().String(),
			Title: model.SectionBreakfast,
			Items: []model.TemplateItem{{ID: uuid.New().String(), Label: "Yulaf", Calories: &cal}},
		}},
	}
	if err := m.CreateTemplate(ctx, tpl); err != nil {
		t.Fatalf("create template: %v", err)
	}

	plan := &model.DietPlan{
		ID:         uuid.New().String(),
		ClientID:   uuid.New().String(),
		TemplateID: tpl.ID,
		Name:       "Mart planı",
		DateStart:  "2024-03-01",
		DateEnd:    "2024-03-31",
		Sections:   model.CopySections(tpl.Sections),
	}
	if err := m.CreatePlan(ctx, plan); err != nil {
		t.Fatalf("create plan: %v", err)
	}

	// Mutate the template after the plan was issued.
	tpl.Sections[0].Items[0].Label = "Değişti"
	*tpl.Sections[0].Items[0].Calories = 999
	if err := m.UpdateTemplate(ctx, tpl); err != nil {
		t.Fatalf("update template: %v", err)
	}

	got, err := m.GetPlan(ctx, plan.ID)
	if err != nil {
		t.Fatalf("get plan: %v", err)
	}
	item := got.Sections[0].Items[0]
	if item.Label != "Yulaf" {
		t.Errorf("plan label changed with template: %s", item.Label)
	}
	if *item.Calories != 320 {
		t.Errorf("plan calories changed with template: %d", *item.Calories)
	}
}

func TestAppointmentFilterAndSort(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	clientA := uuid.New().String()
	clientB := uuid.New().String()
	day := time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)

	mk := func(client string, hour int) *model.Appointment {
		return &model.Appointment{
			ID:       uuid.New().String(),
			ClientID: client,
			Title:    "Kontrol",
			StartsAt: day.Add(time.Duration(hour) * time.Hour),
			EndsAt:   day.Add(time.Duration(hour)*time.Hour + 30*time.Minute),
			Status:   model.StatusScheduled,
		}
	}
	for _, a := range []*model.Appointment{mk(clientA, 15), mk(clientA, 9), mk(clientB, 11)} {
		if err := m.CreateAppointment(ctx, a); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	all, err := m.ListAppointments(ctx, AppointmentFilter{})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i].StartsAt.Before(all[i-1].StartsAt) {
			t.Fatal("appointments not sorted ascending by start")
		}
	}

	byClient, _ := m.ListAppointments(ctx, AppointmentFilter{ClientID: clientA})
	if len(byClient) != 2 {
		t.Errorf("client filter: expected 2, got %d", len(byClient))
	}

	from := day.Add(10 * time.Hour)
	to := day.Add(16 * time.Hour)
	ranged, _ := m.ListAppointments(ctx, AppointmentFilter{From: &from, To: &to})
	if len(ranged) != 2 {
		t.Errorf("range filter: expected 2, got %d", len(ranged))
	}
}

func TestUpdateRefreshesTimestampAndKeepsCreatedAt(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	c := newClient("Ali", "Veli", "", "")
	if err := m.CreateClient(ctx, c); err != nil {
		t.Fatalf("create: %v", err)
	}
	created := c.CreatedAt

	time.Sleep(time.Millisecond)
	c.Notes = "güncellendi"
	if err := m.UpdateClient(ctx, c); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, _ := m.GetClient(ctx, c.ID)
	if !got.CreatedAt.Equal(created) {
		t.Error("update must not touch createdAt")
	}
	if !got.UpdatedAt.After(created) {
		t.Error("update must refresh updatedAt")
	}
}

func TestNotFoundErrors(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if _, err := m.GetClient(ctx, "missing"); err != ErrNotFound {
		t.Errorf("get client: expected ErrNotFound, got %v", err)
	}
	if err := m.DeleteTemplate(ctx, "missing"); err != ErrNotFound {
		t.Errorf("delete template: expected ErrNotFound, got %v", err)
	}
	if err := m.UpdateAppointment(ctx, &model.Appointment{ID: "missing"}); err != ErrNotFound {
		t.Errorf("update appointment: expected ErrNotFound, got %v", err)
	}
}

func TestDuplicateUserEmail(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	u := &model.User{ID: uuid.New().String(), Email: "diyetisyen@example.com", PasswordHash: "x", Name: "Anıl"}
	if err := m.CreateUser(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	dup := &model.User{ID: uuid.New().String(), Email: "diyetisyen@example.com", PasswordHash: "y", Name: "Other"}
	if err := m.CreateUser(ctx, dup); err != ErrDuplicateEmail {
		t.Errorf("expected ErrDuplicateEmail, got %v", err)
	}
}
