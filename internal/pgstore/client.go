package pgstore

import (
	"context"

	"github.com/anil1907/fidi-api/internal/model"
	"github.com/anil1907/fidi-api/internal/store"
)

const clientCols = `id, first_name, last_name, email, phone, birth_date, notes, goals, created_at, updated_at`

func scanClient(row interface{ Scan(...any) error }) (*model.Client, error) {
	c := &model.Client{}
	err := row.Scan(&c.ID, &c.FirstName, &c.LastName, &c.Email, &c.Phone,
		&c.BirthDate, &c.Notes, &c.Goals, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *Store) ListClients(ctx context.Context, f store.ClientFilter) ([]model.Client, int, error) {
	// ILIKE over a normalized concatenation covers name, email and phone the
	// same way the in-memory search does.
	where := ``
	args := []any{}
	if f.Search != "" {
		where = `WHERE lower(first_name || ' ' || last_name || ' ' || email || ' ' || phone) LIKE '%' || lower($1) || '%'`
		args = append(args, f.Search)
	}

	var total int
	if err := s.pool.QueryRow(ctx, `SELECT count(*) FROM clients `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + clientCols + ` FROM clients ` + where + ` ORDER BY created_at`
	if f.Page > 0 && f.PageSize > 0 {
		q += ` LIMIT ` + placeholder(len(args)+1) + ` OFFSET ` + placeholder(len(args)+2)
		args = append(args, f.PageSize, (f.Page-1)*f.PageSize)
	}

	rows, err := s.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []model.Client{}
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, *c)
	}
	return out, total, rows.Err()
}

func (s *Store) GetClient(ctx context.Context, id string) (*model.Client, error) {
	c, err := scanClient(s.pool.QueryRow(ctx,
		`SELECT `+clientCols+` FROM clients WHERE id = $1`, id))
	if err != nil {
		return nil, wrapNotFound(err)
	}
	return c, nil
}

func (s *Store) CreateClient(ctx context.Context, c *model.Client) error {
	return s.pool.QueryRow(ctx,
		`INSERT INTO clients (id, first_name, last_name, email, phone, birth_date, notes, goals)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 RETURNING created_at, updated_at`,
		c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.BirthDate, c.Notes, c.Goals,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
}

func (s *Store) UpdateClient(ctx context.Context, c *model.Client) error {
	err := s.pool.QueryRow(ctx,
		`UPDATE clients
		 SET first_name=$1, last_name=$2, email=$3, phone=$4, birth_date=$5, notes=$6, goals=$7, updated_at=NOW()
		 WHERE id=$8
		 RETURNING created_at, updated_at`,
		c.FirstName, c.LastName, c.Email, c.Phone, c.BirthDate, c.Notes, c.Goals, c.ID,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	return wrapNotFound(err)
}

func (s *Store) DeleteClient(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	return rowsAffected(tag.RowsAffected(), err)
}
