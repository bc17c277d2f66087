package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"communityadmin/internal/domain"
)

const contentColumns = `c.id, c.owner_id, c.event_id, c.title, c.description, c.kind, c.object_key, c.url, c.visibility, c.created_at, c.updated_at`

type contentRepository struct {
	DB *sql.DB
}

// NewContentRepository returns a domain.ContentRepository implemented with Postgres.
func NewContentRepository(db *sql.DB) domain.ContentRepository {
	return &contentRepository{DB: db}
}

func scanContent(s rowScanner) (*domain.ContentItem, error) {
	item := &domain.ContentItem{}
	var eventID, objectKey sql.NullString
	var kind, visibility string
	err := s.Scan(&item.ID, &item.OwnerID, &eventID, &item.Title, &item.Description, &kind,
		&objectKey, &item.URL, &visibility, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if eventID.Valid {
		item.EventID = &eventID.String
	}
	item.ObjectKey = objectKey.String
	item.Kind = domain.ContentKind(kind)
	item.Visibility = domain.Visibility(visibility)
	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()
	return item, nil
}

func (r *contentRepository) Create(ctx context.Context, item *domain.ContentItem) error {
	query := `
		INSERT INTO content_items (owner_id, event_id, title, description, kind, object_key, url, visibility)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.DB.QueryRowContext(ctx, query,
		item.OwnerID, nullStringPtr(item.EventID), item.Title, item.Description, string(item.Kind),
		nullString(item.ObjectKey), item.URL, string(item.Visibility),
	).Scan(&item.ID, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		return err
	}
	item.CreatedAt = item.CreatedAt.UTC()
	item.UpdatedAt = item.UpdatedAt.UTC()
	return nil
}

func (r *contentRepository) GetByID(ctx context.Context, id string) (*domain.ContentItem, error) {
	query := `SELECT ` + contentColumns + ` FROM content_items c WHERE c.id = $1`
	item, err := scanContent(r.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

// List returns content newest first. Visibility is not applied here.
func (r *contentRepository) List(ctx context.Context, q domain.ContentQuery) ([]*domain.ContentItem, error) {
	query := `SELECT ` + contentColumns + ` FROM content_items c`
	var where []string
	var args []any
	if q.Tag != "" {
		args = append(args, q.Tag)
		query += fmt.Sprintf(` JOIN content_tags ct ON ct.content_id = c.id JOIN tags t ON t.id = ct.tag_id AND t.name = $%d`, len(args))
	}
	if q.EventID != "" {
		args = append(args, q.EventID)
		where = append(where, fmt.Sprintf("c.event_id = $%d", len(args)))
	}
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY c.created_at DESC, c.id ASC`

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.ContentItem, 0)
	for rows.Next() {
		item, err := scanContent(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *contentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM content_items WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
