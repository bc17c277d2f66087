package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"communityadmin/internal/domain"
)

const (
	maxTagLen       = 50
	maxTitleLen     = 200
	contentKeyRoot  = "content"
	uploadMethodPut = "PUT"
)

type contentService struct {
	contentRepo      domain.ContentRepository
	tagRepo          domain.TagRepository
	eventRepo        domain.EventRepository
	registrationRepo domain.EventRegistrationRepository
	storage          domain.ObjectStorage
	contextTimeout   time.Duration
}

// NewContentService returns a ContentService backed by the given repositories and object storage.
func NewContentService(
	contentRepo domain.ContentRepository,
	tagRepo domain.TagRepository,
	eventRepo domain.EventRepository,
	registrationRepo domain.EventRegistrationRepository,
	storage domain.ObjectStorage,
	timeout time.Duration,
) domain.ContentService {
	return &contentService{
		contentRepo:      contentRepo,
		tagRepo:          tagRepo,
		eventRepo:        eventRepo,
		registrationRepo: registrationRepo,
		storage:          storage,
		contextTimeout:   timeout,
	}
}

// objectKeyPrefix is the key prefix under which ownerID may upload.
func objectKeyPrefix(ownerID string) string {
	return contentKeyRoot + "/" + ownerID + "/"
}

// RequestUpload returns a presigned PUT for a new object under content/<owner>/.
func (s *contentService) RequestUpload(ctx context.Context, ownerID, filename, contentType string) (*domain.UploadTicket, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	filename = strings.TrimSpace(filename)
	contentType = strings.TrimSpace(contentType)
	if ownerID == "" || filename == "" || contentType == "" {
		return nil, fmt.Errorf("%w: filename and content_type are required", domain.ErrInvalidInput)
	}

	ext := strings.ToLower(path.Ext(filename))
	base := slug.Make(strings.TrimSuffix(filename, path.Ext(filename)))
	if base == "" {
		base = "file"
	}
	key := objectKeyPrefix(ownerID) + uuid.NewString() + "-" + base + ext

	uploadURL, expiresAt, err := s.storage.PresignUpload(ctx, key, contentType)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return &domain.UploadTicket{
		ObjectKey: key,
		UploadURL: uploadURL,
		Method:    uploadMethodPut,
		PublicURL: s.storage.PublicURL(key),
		ExpiresAt: expiresAt,
	}, nil
}

func (s *contentService) CreateContent(ctx context.Context, item *domain.ContentItem) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.validateContent(ctx, item); err != nil {
		return err
	}
	tags, err := normalizeTags(item.Tags)
	if err != nil {
		return err
	}

	if item.Kind != domain.ContentKindLink {
		item.URL = s.storage.PublicURL(item.ObjectKey)
	}
	if err := s.contentRepo.Create(ctx, item); err != nil {
		return fmt.Errorf("create content: %w", err)
	}
	if err := s.applyTags(ctx, item.ID, tags); err != nil {
		// The row must not outlive a failed create, even once ctx is done.
		cleanupCtx, cleanupCancel := context.WithTimeout(context.WithoutCancel(ctx), s.contextTimeout)
		defer cleanupCancel()
		if delErr := s.contentRepo.Delete(cleanupCtx, item.ID); delErr != nil {
			return errors.Join(err, fmt.Errorf("remove untagged content %s: %w", item.ID, delErr))
		}
		item.ID = ""
		return err
	}
	item.Tags = tags
	return nil
}

func (s *contentService) validateContent(ctx context.Context, item *domain.ContentItem) error {
	item.Title = strings.TrimSpace(item.Title)
	if item.OwnerID == "" {
		return fmt.Errorf("%w: owner is required", domain.ErrInvalidInput)
	}
	if item.Title == "" || len(item.Title) > maxTitleLen {
		return fmt.Errorf("%w: title is required and must be at most %d characters", domain.ErrInvalidInput, maxTitleLen)
	}
	if !item.Kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", domain.ErrInvalidInput, item.Kind)
	}
	if item.Visibility == "" {
		item.Visibility = domain.VisibilityMembers
	}
	if !item.Visibility.Valid() {
		return fmt.Errorf("%w: unknown visibility %q", domain.ErrInvalidInput, item.Visibility)
	}

	if item.Kind == domain.ContentKindLink {
		u, err := url.Parse(strings.TrimSpace(item.URL))
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("%w: link content needs an absolute http(s) url", domain.ErrInvalidInput)
		}
		item.URL = u.String()
		item.ObjectKey = ""
	} else if !strings.HasPrefix(item.ObjectKey, objectKeyPrefix(item.OwnerID)) {
		return fmt.Errorf("%w: object_key must come from an upload request", domain.ErrInvalidInput)
	}

	if item.EventID != nil && *item.EventID == "" {
		item.EventID = nil
	}
	if item.Visibility == domain.VisibilityEventAttendees && item.EventID == nil {
		return fmt.Errorf("%w: event_attendees visibility requires event_id", domain.ErrInvalidInput)
	}
	if item.EventID != nil {
		if _, err := s.eventRepo.GetByID(ctx, *item.EventID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return fmt.Errorf("%w: event %s does not exist", domain.ErrInvalidInput, *item.EventID)
			}
			return fmt.Errorf("get event: %w", err)
		}
	}
	return nil
}

// normalizeTags trims, lower-cases and dedupes tags, keeping first-seen order.
func normalizeTags(tags []string) ([]string, error) {
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if len(t) > maxTagLen {
			return nil, fmt.Errorf("%w: tag %q is longer than %d characters", domain.ErrInvalidInput, t, maxTagLen)
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) > domain.MaxContentTags {
		return nil, fmt.Errorf("%w: at most %d tags allowed", domain.ErrInvalidInput, domain.MaxContentTags)
	}
	return out, nil
}

func (s *contentService) applyTags(ctx context.Context, contentID string, tags []string) error {
	ids := make([]string, 0, len(tags))
	for _, name := range tags {
		id, err := s.tagRepo.EnsureTag(ctx, name)
		if err != nil {
			return fmt.Errorf("ensure tag %q: %w", name, err)
		}
		ids = append(ids, id)
	}
	if err := s.tagRepo.SetContentTags(ctx, contentID, ids); err != nil {
		return fmt.Errorf("set content tags: %w", err)
	}
	return nil
}

func (s *contentService) GetContent(ctx context.Context, id, viewerID string) (*domain.ContentItem, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	item, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get content: %w", err)
	}
	visible, err := s.visible(ctx, item, viewerID, nil)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, domain.ErrForbidden
	}
	if err := s.fillTags(ctx, []*domain.ContentItem{item}); err != nil {
		return nil, err
	}
	return item, nil
}

// visible resolves registration for event-scoped items. cache, when non-nil,
// memoizes registration lookups per event across a listing.
func (s *contentService) visible(ctx context.Context, item *domain.ContentItem, viewerID string, cache map[string]bool) (bool, error) {
	registered := false
	if item.Visibility == domain.VisibilityEventAttendees && item.EventID != nil && viewerID != "" && viewerID != item.OwnerID {
		eventID := *item.EventID
		cached, ok := cache[eventID]
		if ok {
			registered = cached
		} else {
			_, err := s.registrationRepo.GetByEventAndUser(ctx, eventID, viewerID)
			switch {
			case err == nil:
				registered = true
			case errors.Is(err, domain.ErrNotFound):
			default:
				return false, fmt.Errorf("get event registration: %w", err)
			}
			if cache != nil {
				cache[eventID] = registered
			}
		}
	}
	return item.VisibleTo(viewerID, registered), nil
}

func (s *contentService) fillTags(ctx context.Context, items []*domain.ContentItem) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	byID, err := s.tagRepo.ListTagNamesByContentIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("list content tags: %w", err)
	}
	for _, it := range items {
		it.Tags = byID[it.ID]
		if it.Tags == nil {
			it.Tags = []string{}
		}
	}
	return nil
}

func (s *contentService) ListContent(ctx context.Context, viewerID string, q domain.ContentQuery, page domain.PaginationParams) ([]*domain.ContentItem, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	q.Tag = strings.ToLower(strings.TrimSpace(q.Tag))
	items, err := s.contentRepo.List(ctx, q)
	if err != nil {
		return nil, 0, fmt.Errorf("list content: %w", err)
	}

	cache := make(map[string]bool)
	visibleItems := make([]*domain.ContentItem, 0, len(items))
	for _, it := range items {
		ok, err := s.visible(ctx, it, viewerID, cache)
		if err != nil {
			return nil, 0, err
		}
		if ok {
			visibleItems = append(visibleItems, it)
		}
	}

	start, end := page.Bounds(len(visibleItems))
	pageItems := visibleItems[start:end]
	if err := s.fillTags(ctx, pageItems); err != nil {
		return nil, 0, err
	}
	return pageItems, len(visibleItems), nil
}

func (s *contentService) SetContentTags(ctx context.Context, id, ownerID string, tags []string) (*domain.ContentItem, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	item, err := s.ownedContent(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}
	normalized, err := normalizeTags(tags)
	if err != nil {
		return nil, err
	}
	if err := s.applyTags(ctx, item.ID, normalized); err != nil {
		return nil, err
	}
	item.Tags = normalized
	return item, nil
}

func (s *contentService) DeleteContent(ctx context.Context, id, ownerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedContent(ctx, id, ownerID); err != nil {
		return err
	}
	if err := s.contentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete content: %w", err)
	}
	return nil
}

func (s *contentService) ownedContent(ctx context.Context, id, ownerID string) (*domain.ContentItem, error) {
	item, err := s.contentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get content: %w", err)
	}
	if item.OwnerID != ownerID {
		return nil, domain.ErrForbidden
	}
	return item, nil
}

func (s *contentService) ListTags(ctx context.Context) ([]*domain.Tag, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	tags, err := s.tagRepo.ListTags(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	if tags == nil {
		tags = []*domain.Tag{}
	}
	return tags, nil
}
