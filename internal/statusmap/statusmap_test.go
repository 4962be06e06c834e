package statusmap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pressdesk/internal/models"
)

func TestUnknownFallsBack(t *testing.T) {
	assert.Equal(t, "UNKNOWN_STATUS", PostStatus.Label("UNKNOWN_STATUS"))
	assert.Equal(t, Neutral, PostStatus.Color("UNKNOWN_STATUS"))
	assert.False(t, PostStatus.Has("UNKNOWN_STATUS"))
}

func TestKnownValues(t *testing.T) {
	assert.Equal(t, "Published", PostStatus.Label(models.PostStatusPublished))
	assert.Equal(t, Success, PostStatus.Color(models.PostStatusPublished))
	assert.Equal(t, "Administrator", UserRole.Label(models.RoleAdmin))
	assert.Equal(t, Danger, CustomerStatus.Color(models.CustomerStatusChurned))
}

func TestOptionsOrder(t *testing.T) {
	assert.Equal(t, []Option{
		{Value: "DRAFT", Label: "Draft", Color: Neutral},
		{Value: "PUBLISHED", Label: "Published", Color: Success},
		{Value: "SCHEDULED", Label: "Scheduled", Color: Info},
		{Value: "ARCHIVED", Label: "Archived", Color: Warning},
	}, PostStatus.Options())
	assert.Equal(t, []string{"ADMIN", "EDITOR", "AUTHOR"}, UserRole.Values())
}

func TestEmptyEntryFieldsFallBack(t *testing.T) {
	type tag string
	m := New(Entry[tag]{Value: "x"}, Entry[tag]{Value: "x", Label: "dup"})

	assert.Equal(t, "x", m.Label("x"))
	assert.Equal(t, Neutral, m.Color("x"))
	assert.Len(t, m.Options(), 1)
}

func TestWithFallback(t *testing.T) {
	m := PostStatus.WithFallback(Danger)
	assert.Equal(t, Danger, m.Color("???"))
	assert.Equal(t, Neutral, PostStatus.Color("???"))
}

// Every model enum value must have a configured entry.
func TestMapsCoverModelEnums(t *testing.T) {
	for _, s := range models.PostStatuses {
		assert.True(t, PostStatus.Has(s), s)
	}
	for _, r := range models.Roles {
		assert.True(t, UserRole.Has(r), r)
	}
	for _, s := range models.CustomerStatuses {
		assert.True(t, CustomerStatus.Has(s), s)
	}
}
