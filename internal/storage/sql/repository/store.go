// Package repository implements the material repository on database/sql.
// Queries are written with PostgreSQL placeholders and rebound for SQLite.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rezkam/cardfile/internal/domain"
)

// Store implements material.Repository.
type Store struct {
	db     *sql.DB
	driver string
}

// NewStore creates a store on top of an open database handle.
func NewStore(db *sql.DB, driver string) *Store {
	return &Store{db: db, driver: driver}
}

// DB returns the underlying database connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// rebind rewrites $N placeholders to ? for SQLite. Arguments are always
// passed in placeholder order, so a plain substitution is enough.
func (s *Store) rebind(query string) string {
	if s.driver != "sqlite" {
		return query
	}
	var b strings.Builder
	for i := 0; i < len(query); i++ {
		if query[i] == '$' {
			j := i + 1
			for j < len(query) && query[j] >= '0' && query[j] <= '9' {
				j++
			}
			if j > i+1 {
				b.WriteByte('?')
				i = j - 1
				continue
			}
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

const selectMaterials = `
SELECT m.id, m.title, m.content, m.author_id, u.user_name,
       m.category_id, c.title, m.approval_status, m.date_published,
       m.reject_reason, m.version
FROM text_materials m
JOIN users u ON u.id = m.author_id
LEFT JOIN text_material_categories c ON c.id = m.category_id`

// Fetch loads every text material joined with author and category data,
// ordered by id. Filtering, sorting and pagination happen in the service.
func (s *Store) Fetch(ctx context.Context) ([]domain.TextMaterial, error) {
	rows, err := s.db.QueryContext(ctx, selectMaterials+" ORDER BY m.id")
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query text materials: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var out []domain.TextMaterial
	for rows.Next() {
		m, err := scanMaterial(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate text materials: %v", domain.ErrStorage, err)
	}
	return out, nil
}

// FindByID loads a single text material by id.
func (s *Store) FindByID(ctx context.Context, id int64) (*domain.TextMaterial, error) {
	row := s.db.QueryRowContext(ctx, s.rebind(selectMaterials+" WHERE m.id = $1"), id)
	m, err := scanMaterial(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: text material %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a new text material and returns it fully joined.
func (s *Store) Create(ctx context.Context, m *domain.TextMaterial) (*domain.TextMaterial, error) {
	if m.CategoryID != nil {
		if err := s.categoryExists(ctx, *m.CategoryID); err != nil {
			return nil, err
		}
	}

	var id int64
	err := s.db.QueryRowContext(ctx, s.rebind(`
INSERT INTO text_materials (title, content, author_id, category_id, approval_status, date_published, version)
VALUES ($1, $2, $3, $4, $5, $6, 1)
RETURNING id`),
		m.Title, m.Content, m.AuthorID, m.CategoryID, string(m.Status), m.DatePublished,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to insert text material: %v", domain.ErrStorage, err)
	}

	return s.FindByID(ctx, id)
}

// Update persists the material with optimistic concurrency control: the
// update only applies when the stored version matches the one the caller
// read. A version bump makes concurrent writers fail instead of silently
// overwriting each other.
func (s *Store) Update(ctx context.Context, m *domain.TextMaterial) (*domain.TextMaterial, error) {
	if m.CategoryID != nil {
		if err := s.categoryExists(ctx, *m.CategoryID); err != nil {
			return nil, err
		}
	}

	res, err := s.db.ExecContext(ctx, s.rebind(`
UPDATE text_materials
SET title = $1, content = $2, category_id = $3, approval_status = $4,
    reject_reason = $5, version = version + 1
WHERE id = $6 AND version = $7`),
		m.Title, m.Content, m.CategoryID, string(m.Status), m.RejectReason, m.ID, m.Version,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to update text material: %v", domain.ErrStorage, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read update result: %v", domain.ErrStorage, err)
	}
	if affected == 0 {
		// Either the row is gone or someone else bumped the version.
		if _, err := s.FindByID(ctx, m.ID); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: text material %d version %d", domain.ErrConcurrencyConflict, m.ID, m.Version)
	}

	return s.FindByID(ctx, m.ID)
}

// Delete removes a text material by id.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, s.rebind(`DELETE FROM text_materials WHERE id = $1`), id)
	if err != nil {
		return fmt.Errorf("%w: failed to delete text material: %v", domain.ErrStorage, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: failed to read delete result: %v", domain.ErrStorage, err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: text material %d", domain.ErrNotFound, id)
	}
	return nil
}

// FindUserByID loads a user by id.
func (s *Store) FindUserByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT id, user_name, email FROM users WHERE id = $1`), id,
	).Scan(&u.ID, &u.UserName, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user %s", domain.ErrUserNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query user: %v", domain.ErrStorage, err)
	}
	return &u, nil
}

// CreateUser inserts a user. Users normally come from the identity
// provider; this is used by seeding and tests.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	_, err := s.db.ExecContext(ctx,
		s.rebind(`INSERT INTO users (id, user_name, email) VALUES ($1, $2, $3)`),
		u.ID, u.UserName, u.Email,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to insert user: %v", domain.ErrStorage, err)
	}
	return nil
}

// ListCategories returns all categories ordered by id.
func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title FROM text_material_categories ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query categories: %v", domain.ErrStorage, err)
	}
	defer rows.Close()

	var out []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Title); err != nil {
			return nil, fmt.Errorf("%w: failed to scan category: %v", domain.ErrStorage, err)
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to iterate categories: %v", domain.ErrStorage, err)
	}
	return out, nil
}

func (s *Store) categoryExists(ctx context.Context, id int64) error {
	var one int
	err := s.db.QueryRowContext(ctx,
		s.rebind(`SELECT 1 FROM text_material_categories WHERE id = $1`), id,
	).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: category %s", domain.ErrCategoryNotFound, strconv.FormatInt(id, 10))
	}
	if err != nil {
		return fmt.Errorf("%w: failed to query category: %v", domain.ErrStorage, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMaterial(row rowScanner) (domain.TextMaterial, error) {
	var (
		m             domain.TextMaterial
		status        string
		categoryID    sql.NullInt64
		categoryTitle sql.NullString
		rejectReason  sql.NullString
	)
	err := row.Scan(&m.ID, &m.Title, &m.Content, &m.AuthorID, &m.AuthorName,
		&categoryID, &categoryTitle, &status, &m.DatePublished,
		&rejectReason, &m.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.TextMaterial{}, err
	}
	if err != nil {
		return domain.TextMaterial{}, fmt.Errorf("%w: failed to scan text material: %v", domain.ErrStorage, err)
	}

	m.Status = domain.ApprovalStatus(status)
	if categoryID.Valid {
		m.CategoryID = &categoryID.Int64
	}
	if categoryTitle.Valid {
		m.CategoryTitle = &categoryTitle.String
	}
	if rejectReason.Valid {
		m.RejectReason = &rejectReason.String
	}
	return m, nil
}
