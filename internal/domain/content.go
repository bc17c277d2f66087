package domain

import (
	"context"
	"time"
)

// ContentKind is the type of a content-library item.
type ContentKind string

const (
	ContentKindDocument ContentKind = "document"
	ContentKindVideo    ContentKind = "video"
	ContentKindImage    ContentKind = "image"
	ContentKindLink     ContentKind = "link"
)

// Valid reports whether k is a known kind.
func (k ContentKind) Valid() bool {
	switch k {
	case ContentKindDocument, ContentKindVideo, ContentKindImage, ContentKindLink:
		return true
	}
	return false
}

// Visibility decides who may see a content item.
type Visibility string

const (
	// VisibilityPublic items are visible to anyone, including anonymous viewers.
	VisibilityPublic Visibility = "public"
	// VisibilityMembers items are visible to any authenticated user.
	VisibilityMembers Visibility = "members"
	// VisibilityEventAttendees items are visible to the owner and to users registered for the linked event.
	VisibilityEventAttendees Visibility = "event_attendees"
)

// Valid reports whether v is a known visibility.
func (v Visibility) Valid() bool {
	switch v {
	case VisibilityPublic, VisibilityMembers, VisibilityEventAttendees:
		return true
	}
	return false
}

// MaxContentTags bounds the number of tags on one content item.
const MaxContentTags = 10

// ContentItem is an entry of the content library.
// swagger:model ContentItem
type ContentItem struct {
	ID          string      `json:"id"`
	OwnerID     string      `json:"owner_id"`
	EventID     *string     `json:"event_id,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Kind        ContentKind `json:"kind"`
	ObjectKey   string      `json:"object_key,omitempty"`
	URL         string      `json:"url"`
	Visibility  Visibility  `json:"visibility"`
	Tags        []string    `json:"tags"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// ContentQuery narrows content loaded by the repository. Empty fields mean no constraint.
type ContentQuery struct {
	Tag     string
	EventID string
}

// ContentRepository defines storage for content items.
type ContentRepository interface {
	Create(ctx context.Context, item *ContentItem) error
	GetByID(ctx context.Context, id string) (*ContentItem, error)
	List(ctx context.Context, q ContentQuery) ([]*ContentItem, error)
	Delete(ctx context.Context, id string) error
}

// UploadTicket is a presigned upload destination for a content file.
// swagger:model UploadTicket
type UploadTicket struct {
	ObjectKey string    `json:"object_key"`
	UploadURL string    `json:"upload_url"`
	Method    string    `json:"method"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ObjectStorage issues upload URLs for files stored outside the database.
type ObjectStorage interface {
	PresignUpload(ctx context.Context, key, contentType string) (url string, expiresAt time.Time, err error)
	PublicURL(key string) string
}

// ContentService defines content-library management.
type ContentService interface {
	RequestUpload(ctx context.Context, ownerID, filename, contentType string) (*UploadTicket, error)
	CreateContent(ctx context.Context, item *ContentItem) error
	GetContent(ctx context.Context, id, viewerID string) (*ContentItem, error)
	ListContent(ctx context.Context, viewerID string, q ContentQuery, page PaginationParams) ([]*ContentItem, int, error)
	SetContentTags(ctx context.Context, id, ownerID string, tags []string) (*ContentItem, error)
	DeleteContent(ctx context.Context, id, ownerID string) error
	ListTags(ctx context.Context) ([]*Tag, error)
}

// VisibleTo reports whether viewerID may see the item. viewerID is empty for
// anonymous viewers; registered tells whether the viewer is registered for the
// linked event and only matters for VisibilityEventAttendees.
func (c *ContentItem) VisibleTo(viewerID string, registered bool) bool {
	if viewerID != "" && viewerID == c.OwnerID {
		return true
	}
	switch c.Visibility {
	case VisibilityPublic:
		return true
	case VisibilityMembers:
		return viewerID != ""
	case VisibilityEventAttendees:
		return viewerID != "" && registered
	}
	return false
}
