package model

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Name         string    `json:"name"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type Client struct {
	ID        string    `json:"id"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	BirthDate string    `json:"birthDate,omitempty"` // YYYY-MM-DD
	Notes     string    `json:"notes,omitempty"`
	Goals     []string  `json:"goals,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SectionTitle is one of the four fixed meal headings.
type SectionTitle string

const (
	SectionBreakfast SectionTitle = "Kahvaltı"
	SectionLunch     SectionTitle = "Öğle"
	SectionDinner    SectionTitle = "Akşam"
	SectionSnack     SectionTitle = "Ara Öğün"
)

func (s SectionTitle) Valid() bool {
	switch s {
	case SectionBreakfast, SectionLunch, SectionDinner, SectionSnack:
		return true
	}
	return false
}

type TemplateItem struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Amount   string `json:"amount,omitempty"`
	Note     string `json:"note,omitempty"`
	Calories *int   `json:"calories,omitempty"`
}

type TemplateSection struct {
	ID    string         `json:"id"`
	Title SectionTitle   `json:"title"`
	Items []TemplateItem `json:"items"`
}

type Template struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Sections    []TemplateSection `json:"sections"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// DietPlan owns its sections: they are copied from the template at creation
// time, so later template edits never change an issued plan.
type DietPlan struct {
	ID         string            `json:"id"`
	ClientID   string            `json:"clientId"`
	TemplateID string            `json:"templateId"`
	Name       string            `json:"name"`
	DateStart  string            `json:"dateStart"` // YYYY-MM-DD
	DateEnd    string            `json:"dateEnd"`   // YYYY-MM-DD
	Notes      string            `json:"notes,omitempty"`
	Sections   []TemplateSection `json:"sections"`
	CreatedAt  time.Time         `json:"createdAt"`
	UpdatedAt  time.Time         `json:"updatedAt"`
}

type AppointmentStatus string

const (
	StatusScheduled AppointmentStatus = "scheduled"
	StatusDone      AppointmentStatus = "done"
	StatusCanceled  AppointmentStatus = "canceled"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case StatusScheduled, StatusDone, StatusCanceled:
		return true
	}
	return false
}

type Appointment struct {
	ID          string            `json:"id"`
	ClientID    string            `json:"clientId"`
	Title       string            `json:"title"`
	Description string            `json:"description,omitempty"`
	StartsAt    time.Time         `json:"startsAt"`
	EndsAt      time.Time         `json:"endsAt"`
	Status      AppointmentStatus `json:"status"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// CopySections deep-copies sections so a plan never aliases the template it
// was created from.
func CopySections(src []TemplateSection) []TemplateSection {
	if src == nil {
		return nil
	}
	out := make([]TemplateSection, len(src))
	for i, sec := range src {
		cp := sec
		cp.Items = make([]TemplateItem, len(sec.Items))
		for j, it := range sec.Items {
			itCp := it
			if it.Calories != nil {
				v := *it.Calories
				itCp.Calories = &v
			}
			cp.Items[j] = itCp
		}
		out[i] = cp
	}
	return out
}
