package domain

import "context"

// Tag represents a named tag shared across content items.
// swagger:model Tag
type Tag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TagRepository defines storage for tags and content–tag links.
type TagRepository interface {
	// EnsureTag resolves a tag by name, creating it if missing, and returns its ID.
	EnsureTag(ctx context.Context, name string) (tagID string, err error)
	// SetContentTags replaces all tag links for the given content item with the given tag IDs.
	SetContentTags(ctx context.Context, contentID string, tagIDs []string) error
	// ListTagNamesByContentIDs returns tag names per content ID, sorted by name.
	ListTagNamesByContentIDs(ctx context.Context, contentIDs []string) (map[string][]string, error)
	// ListTags returns every tag, sorted by name.
	ListTags(ctx context.Context) ([]*Tag, error)
}
