// Package store defines the persistence contract and its in-memory
// implementation. Entities are owned by the store; callers always get and
// give full snapshots keyed by opaque UUIDs.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/anil1907/fidi-api/internal/model"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEmail = errors.New("email already registered")
)

// ClientFilter narrows ListClients. Page/PageSize of zero disables paging.
type ClientFilter struct {
	Search   string
	Page     int
	PageSize int
}

// AppointmentFilter narrows ListAppointments. Nil bounds are open-ended;
// the range applies to StartsAt.
type AppointmentFilter struct {
	ClientID string
	From     *time.Time
	To       *time.Time
}

type RefreshToken struct {
	ID         string
	UserID     string
	TokenHash  string
	ExpiresAt  time.Time
	Revoked    bool
	ReplacedBy *string
	CreatedAt  time.Time
}

type Store interface {
	CreateUser(ctx context.Context, u *model.User) error
	UserByEmail(ctx context.Context, email string) (*model.User, error)

	CreateRefreshToken(ctx context.Context, userID, tokenHash string, expiresAt time.Time) (string, error)
	GetRefreshTokenByHash(ctx context.Context, tokenHash string) (*RefreshToken, error)
	RotateRefreshToken(ctx context.Context, oldID, newID, userID, newHash string, newExpiry time.Time) error
	RevokeAllRefreshTokens(ctx context.Context, userID string) error

	ListClients(ctx context.Context, f ClientFilter) ([]model.Client, int, error)
	GetClient(ctx context.Context, id string) (*model.Client, error)
	CreateClient(ctx context.Context, c *model.Client) error
	UpdateClient(ctx context.Context, c *model.Client) error
	DeleteClient(ctx context.Context, id string) error

	ListTemplates(ctx context.Context) ([]model.Template, error)
	GetTemplate(ctx context.Context, id string) (*model.Template, error)
	CreateTemplate(ctx context.Context, t *model.Template) error
	UpdateTemplate(ctx context.Context, t *model.Template) error
	DeleteTemplate(ctx context.Context, id string) error

	ListPlans(ctx context.Context, clientID string) ([]model.DietPlan, error)
	GetPlan(ctx context.Context, id string) (*model.DietPlan, error)
	CreatePlan(ctx context.Context, p *model.DietPlan) error
	UpdatePlan(ctx context.Context, p *model.DietPlan) error
	DeletePlan(ctx context.Context, id string) error

	ListAppointments(ctx context.Context, f AppointmentFilter) ([]model.Appointment, error)
	GetAppointment(ctx context.Context, id string) (*model.Appointment, error)
	CreateAppointment(ctx context.Context, a *model.Appointment) error
	UpdateAppointment(ctx context.Context, a *model.Appointment) error
	DeleteAppointment(ctx context.Context, id string) error
}
