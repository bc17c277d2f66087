package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentItem_VisibleTo(t *testing.T) {
	tests := []struct {
		name       string
		visibility Visibility
		viewer     string
		registered bool
		want       bool
	}{
		{"public anonymous", VisibilityPublic, "", false, true},
		{"members anonymous", VisibilityMembers, "", false, false},
		{"members signed in", VisibilityMembers, "u2", false, true},
		{"attendees not registered", VisibilityEventAttendees, "u2", false, false},
		{"attendees registered", VisibilityEventAttendees, "u2", true, true},
		{"attendees anonymous even if flagged", VisibilityEventAttendees, "", true, false},
		{"owner always", VisibilityEventAttendees, "owner", false, true},
		{"unknown visibility", Visibility("secret"), "u2", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := &ContentItem{OwnerID: "owner", Visibility: tt.visibility}
			assert.Equal(t, tt.want, item.VisibleTo(tt.viewer, tt.registered))
		})
	}
}

func TestContentKindAndVisibility_Valid(t *testing.T) {
	assert.True(t, ContentKindVideo.Valid())
	assert.False(t, ContentKind("audio").Valid())
	assert.True(t, VisibilityMembers.Valid())
	assert.False(t, Visibility("").Valid())
}
