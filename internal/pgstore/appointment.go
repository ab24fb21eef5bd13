package pgstore

import (
	"context"

	"github.com/anil1907/fidi-api/internal/model"
	"github.com/anil1907/fidi-api/internal/store"
)

const apptCols = `id, client_id, title, description, starts_at, ends_at, status, created_at, updated_at`

func (s *Store) ListAppointments(ctx context.Context, f store.AppointmentFilter) ([]model.Appointment, error) {
	q := `SELECT ` + apptCols + ` FROM appointments WHERE 1=1`
	args := []any{}
	if f.ClientID != "" {
		args = append(args, f.ClientID)
		q += ` AND client_id = ` + placeholder(len(args))
	}
	if f.From != nil {
		args = append(args, *f.From)
		q += ` AND starts_at >= ` + placeholder(len(args))
	}
	if f.To != nil {
		args = append(args, *f.To)
		q += ` AND starts_at <= ` + placeholder(len(args))
	}
	q += ` ORDER BY starts_at`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Appointment{}
	for rows.Next() {
		var a model.Appointment
		if err := rows.Scan(&a.ID, &a.ClientID, &a.Title, &a.Description,
			&a.StartsAt, &a.EndsAt, &a.Status, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (s *Store) GetAppointment(ctx context.Context, id string) (*model.Appointment, error) {
	a := &model.Appointment{}
	err := s.pool.QueryRow(ctx,
		`SELECT `+apptCols+` FROM appointments WHERE id = $1`, id,
	).Scan(&a.ID, &a.ClientID, &a.Title, &a.Description,
		&a.StartsAt, &a.EndsAt, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return a, nil
}

func (s *Store) CreateAppointment(ctx context.Context, a *model.Appointment) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO appointments (id, client_id, title, description, starts_at, ends_at, status)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)
		 RETURNING created_at, updated_at`,
		a.ID, a.ClientID, a.Title, a.Description, a.StartsAt, a.EndsAt, a.Status,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
}

func (s *Store) UpdateAppointment(ctx context.Context, a *model.Appointment) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE appointments
		 SET client_id=$1, title=$2, description=$3, starts_at=$4, ends_at=$5, status=$6, updated_at=NOW()
		 WHERE id=$7
		 RETURNING created_at, updated_at`,
		a.ClientID, a.Title, a.Description, a.StartsAt, a.EndsAt, a.Status, a.ID,
	).Scan(&a.CreatedAt, &a.UpdatedAt)
	return wrapNotFound(err)
}

// Hard delete: no tombstones, the row is gone.
func (s *Store) DeleteAppointment(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	return rowsAffected(tag.RowsAffected(), err)
}
