package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"

	"prospector/internal/model"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Save(search *model.SavedSearch) error {
	if search.ID == "" {
		search.ID = uuid.NewString()
	}
	if search.CreatedAt.IsZero() {
		search.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.Exec(`
		INSERT INTO saved_search(id, location, category, result_count, response, created_at)
		VALUES($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO NOTHING
	`, search.ID, search.Location, search.Category, search.ResultCount, search.Response, search.CreatedAt)
	return err
}

func (s *PostgresStore) List(limit int) ([]model.SavedSearch, error) {
	rows, err := s.db.Query(`
		SELECT id, location, category, result_count, response, created_at
		FROM saved_search
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var searches []model.SavedSearch
	for rows.Next() {
		var s model.SavedSearch
		if err := rows.Scan(&s.ID, &s.Location, &s.Category, &s.ResultCount, &s.Response, &s.CreatedAt); err != nil {
			return nil, err
		}
		searches = append(searches, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return searches, nil
}

func (s *PostgresStore) Delete(id string) (bool, error) {
	res, err := s.db.Exec(`DELETE FROM saved_search WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
