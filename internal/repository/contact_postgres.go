package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/pyrex41/o-email-schedule/internal/domain"
)

type contactRepository struct {
	db *sql.DB
}

// NewContactRepository creates a new PostgreSQL contact repository.
func NewContactRepository(db *sql.DB) domain.ContactRepository {
	return &contactRepository{db: db}
}

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

func (r *contactRepository) CountEligible(ctx context.Context) (int, error) {
	query, args, err := psql.Select("COUNT(*)").
		From("contacts").
		Where(sq.NotEq{"email": ""}).
		Where(sq.NotEq{"state": ""}).
		Where(sq.NotEq{"zip_code": ""}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build count query: %w", err)
	}

	var count int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count eligible contacts: %w", err)
	}
	return count, nil
}

func (r *contactRepository) FetchEligibleBatch(ctx context.Context, offset, limit int) ([]*domain.Contact, error) {
	query, args, err := psql.Select("id", "email", "state", "zip_code", "birth_date", "effective_date").
		From("contacts").
		Where(sq.NotEq{"email": ""}).
		Where(sq.NotEq{"state": ""}).
		Where(sq.NotEq{"zip_code": ""}).
		OrderBy("id ASC").
		Limit(uint64(limit)).
		Offset(uint64(offset)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build fetch query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch eligible batch: %w", err)
	}
	defer rows.Close()

	var contacts []*domain.Contact
	for rows.Next() {
		c, err := scanContact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contacts: %w", err)
	}
	return contacts, nil
}

func (r *contactRepository) GetByID(ctx context.Context, id int64) (*domain.Contact, error) {
	query, args, err := psql.Select("id", "email", "state", "zip_code", "birth_date", "effective_date").
		From("contacts").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	c, err := scanContact(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, &domain.ErrNotFound{Entity: "contact", ID: fmt.Sprintf("%d", id)}
		}
		return nil, fmt.Errorf("failed to get contact: %w", err)
	}
	return c, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanContact(row rowScanner) (*domain.Contact, error) {
	var c domain.Contact
	var birthDate, effectiveDate sql.NullTime
	if err := row.Scan(&c.ID, &c.Email, &c.State, &c.ZipCode, &birthDate, &effectiveDate); err != nil {
		return nil, err
	}
	if birthDate.Valid {
		c.BirthDate = &birthDate.Time
	}
	if effectiveDate.Valid {
		c.EffectiveDate = &effectiveDate.Time
	}
	return &c, nil
}
