package pgstore

import (
	"context"

	"github.com/anil1907/fidi-api/internal/model"
)

const planCols = `id, client_id, template_id, name, date_start, date_end, notes, sections, created_at, updated_at`

func (s *Store) ListPlans(ctx context.Context, clientID string) ([]model.DietPlan, error) {
	q := `SELECT ` + planCols + ` FROM diet_plans`
	args := []any{}
	if clientID != "" {
		q += ` WHERE client_id = $1`
		args = append(args, clientID)
	}
	q += ` ORDER BY created_at`

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.DietPlan{}
	for rows.Next() {
		var p model.DietPlan
		var raw []byte
		if err := rows.Scan(&p.ID, &p.ClientID, &p.TemplateID, &p.Name, &p.DateStart,
			&p.DateEnd, &p.Notes, &raw, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		if p.Sections, err = decodeSections(raw); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *Store) GetPlan(ctx context.Context, id string) (*model.DietPlan, error) {
	p := &model.DietPlan{}
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT `+planCols+` FROM diet_plans WHERE id = $1`, id,
	).Scan(&p.ID, &p.ClientID, &p.TemplateID, &p.Name, &p.DateStart,
		&p.DateEnd, &p.Notes, &raw, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	if p.Sections, err = decodeSections(raw); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *Store) CreatePlan(ctx context.Context, p *model.DietPlan) error {
	raw, err := encodeSections(p.Sections)
	if err != nil {
		return err
	}
	return s.pool.QueryRow(ctx,
		`INSERT INTO diet_plans (id, client_id, template_id, name, date_start, date_end, notes, sections)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING created_at, updated_at`,
		p.ID, p.ClientID, p.TemplateID, p.Name, p.DateStart, p.DateEnd, p.Notes, raw,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (s *Store) UpdatePlan(ctx context.Context, p *model.DietPlan) error {
	raw, err := encodeSections(p.Sections)
	if err != nil {
		return err
	}
	err = s.pool.QueryRow(ctx,
		`UPDATE diet_plans
		 SET client_id=$1, template_id=$2, name=$3, date_start=$4, date_end=$5, notes=$6, sections=$7, updated_at=NOW()
		 WHERE id=$8
		 RETURNING created_at, updated_at`,
		p.ClientID, p.TemplateID, p.Name, p.DateStart, p.DateEnd, p.Notes, raw, p.ID,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return wrapNotFound(err)
}

func (s *Store) DeletePlan(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM diet_plans WHERE id = $1`, id)
	return rowsAffected(tag.RowsAffected(), err)
}
