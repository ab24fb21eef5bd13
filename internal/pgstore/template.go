package pgstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/anil1907/fidi-api/internal/model"
)

// Sections live in a jsonb column; the document is the single source of
// truth for section/item structure, matching the snapshot ownership model.
func encodeSections(sections []model.TemplateSection) ([]byte, error) {
	if sections == nil {
		sections = []model.TemplateSection{}
	}
	b, err := json.Marshal(sections)
	if err != nil {
		return nil, fmt.Errorf("encode sections: %w", err)
	}
	return b, nil
}

func decodeSections(raw []byte) ([]model.TemplateSection, error) {
	var sections []model.TemplateSection
	if err := json.Unmarshal(raw, &sections); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	return sections, nil
}

func (s *Store) ListTemplates(ctx context.Context) ([]model.Template, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, name, description, sections, created_at, updated_at
		 FROM templates ORDER BY created_at`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Template{}
	for rows.Next() {
		var t model.Template
		var raw []byte
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &raw, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		if t.Sections, err = decodeSections(raw); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) GetTemplate(ctx context.Context, id string) (*model.Template, error) {
	t := &model.Template{}
	var raw []byte
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, description, sections, created_at, updated_at
		 FROM templates WHERE id = $1`, id,
	).Scan(&t.ID, &t.Name, &t.Description, &raw, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, wrapNotFound(err)
	}
	if t.Sections, err = decodeSections(raw); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Store) CreateTemplate(ctx context.Context, t *model.Template) error {
	raw, err := encodeSections(t.Sections)
	if err != nil {
		return err
	}
	return s.pool.QueryRow(ctx,
		`INSERT INTO templates (id, name, description, sections)
		 VALUES ($1,$2,$3,$4)
		 RETURNING created_at, updated_at`,
		t.ID, t.Name, t.Description, raw,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
}

func (s *Store) UpdateTemplate(ctx context.Context, t *model.Template) error {
	raw, err := encodeSections(t.Sections)
	if err != nil {
		return err
	}
	err = s.pool.QueryRow(ctx,
		`UPDATE templates SET name=$1, description=$2, sections=$3, updated_at=NOW()
		 WHERE id=$4
		 RETURNING created_at, updated_at`,
		t.Name, t.Description, raw, t.ID,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	return wrapNotFound(err)
}

func (s *Store) DeleteTemplate(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
	return rowsAffected(tag.RowsAffected(), err)
}
