package postgres

import (
	"context"
	"database/sql"

	"communityadmin/internal/domain"

	"github.com/lib/pq"
)

type tagRepository struct {
	DB *sql.DB
}

// NewTagRepository returns a domain.TagRepository implemented with Postgres.
func NewTagRepository(db *sql.DB) domain.TagRepository {
	return &tagRepository{DB: db}
}

// EnsureTag upserts by name so concurrent callers converge on one row.
func (r *tagRepository) EnsureTag(ctx context.Context, name string) (string, error) {
	var tagID string
	err := r.DB.QueryRowContext(ctx,
		`INSERT INTO tags (name) VALUES ($1)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`, name).Scan(&tagID)
	if err != nil {
		return "", err
	}
	return tagID, nil
}

func (r *tagRepository) SetContentTags(ctx context.Context, contentID string, tagIDs []string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM content_tags WHERE content_id = $1`, contentID); err != nil {
		return err
	}
	if len(tagIDs) > 0 {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO content_tags (content_id, tag_id)
			 SELECT $1, unnest($2::uuid[])
			 ON CONFLICT (content_id, tag_id) DO NOTHING`,
			contentID, pq.Array(tagIDs))
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *tagRepository) ListTagNamesByContentIDs(ctx context.Context, contentIDs []string) (map[string][]string, error) {
	out := make(map[string][]string, len(contentIDs))
	if len(contentIDs) == 0 {
		return out, nil
	}
	rows, err := r.DB.QueryContext(ctx,
		`SELECT ct.content_id, t.name FROM content_tags ct
		 JOIN tags t ON t.id = ct.tag_id
		 WHERE ct.content_id = ANY($1)
		 ORDER BY ct.content_id, t.name`, pq.Array(contentIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var contentID, name string
		if err := rows.Scan(&contentID, &name); err != nil {
			return nil, err
		}
		out[contentID] = append(out[contentID], name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *tagRepository) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*domain.Tag
	for rows.Next() {
		var tag domain.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, err
		}
		tags = append(tags, &tag)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return tags, nil
}
