package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"time"
)

type SQLStore struct {
	db     *sql.DB
	driver string // "sqlite" or "postgres"
}

func NewSQLStore(db *sql.DB, driver string) *SQLStore {
	return &SQLStore{db: db, driver: driver}
}

func (s *SQLStore) PutBank(ctx context.Context, b Bank) error {
	qj, err := json.Marshal(b.Questions)
	if err != nil {
		return err
	}
	created := b.CreatedAt
	if created == 0 {
		created = time.Now().Unix()
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO banks (id,title,questions_json,question_count,created_at)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, questions_json=EXCLUDED.questions_json, question_count=EXCLUDED.question_count`,
		b.ID, b.Title, string(qj), len(b.Questions), created)
	return err
}

func (s *SQLStore) GetBank(ctx context.Context, id string) (Bank, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id,title,questions_json,created_at FROM banks WHERE id=$1`, id)
	var b Bank
	var qjson string
	if err := row.Scan(&b.ID, &b.Title, &qjson, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Bank{}, ErrNotFound
		}
		return Bank{}, err
	}
	if err := json.Unmarshal([]byte(qjson), &b.Questions); err != nil {
		return Bank{}, err
	}
	return b, nil
}

func (s *SQLStore) ListBanks(ctx context.Context, opts ListOpts) ([]BankSummary, error) {
	limit := opts.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	q := `SELECT id,title,question_count,created_at FROM banks`
	args := []any{}
	if opts.Q != "" {
		q += ` WHERE title LIKE $1`
		args = append(args, "%"+opts.Q+"%")
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}
	q += ` ORDER BY created_at DESC LIMIT ` + strconv.Itoa(limit) + ` OFFSET ` + strconv.Itoa(offset)
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []BankSummary
	for rows.Next() {
		var b BankSummary
		if err := rows.Scan(&b.ID, &b.Title, &b.QuestionCount, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (s *SQLStore) DeleteBank(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM banks WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
