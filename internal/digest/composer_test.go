package digest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"techupnext/internal/domain"
)

func TestCompose_EmptyItems(t *testing.T) {
	html, err := NewComposer().Compose(nil, []string{"ai"})

	require.NoError(t, err)
	assert.Empty(t, html)
}

func TestCompose_GroupsAndOrdersSections(t *testing.T) {
	items := []domain.NewsItem{
		{Title: "Model release", Link: "https://a.example/1", Summary: "New model.", Category: "AI"},
		{Title: "Funding round", Link: "https://b.example/1", Summary: "Series A.", Category: "startups"},
		{Title: "Another model", Link: "https://a.example/2", Summary: "Also AI.", Category: "ai"},
	}

	html, err := NewComposer().Compose(items, []string{"ai", "startups"})
	require.NoError(t, err)

	assert.Contains(t, html, "<h2>Tech-UpNext Daily Digest</h2>")
	assert.Contains(t, html, `<a href="https://a.example/1">Read More</a>`)
	assert.Contains(t, html, "You are receiving this email because you subscribed to Tech-UpNext.")

	// "AI" and "ai" land in one section.
	assert.Equal(t, 1, strings.Count(html, "<h3>Ai</h3>"))
	assert.Equal(t, 1, strings.Count(html, "<h3>Startups</h3>"))

	// Section order follows categoryOrder; items keep insertion order.
	aiIdx := strings.Index(html, "<h3>Ai</h3>")
	startupsIdx := strings.Index(html, "<h3>Startups</h3>")
	assert.Less(t, aiIdx, startupsIdx)
	assert.Less(t, strings.Index(html, "Model release"), strings.Index(html, "Another model"))
}

func TestCompose_UnorderedCategoriesAppendedLast(t *testing.T) {
	items := []domain.NewsItem{
		{Title: "Breach report", Link: "https://c.example/1", Summary: "A breach.", Category: "cybersecurity"},
		{Title: "Model release", Link: "https://a.example/1", Summary: "New model.", Category: "ai"},
	}

	html, err := NewComposer().Compose(items, []string{"ai"})
	require.NoError(t, err)

	assert.Less(t, strings.Index(html, "<h3>Ai</h3>"), strings.Index(html, "<h3>Cybersecurity</h3>"))
}

func TestCompose_Deterministic(t *testing.T) {
	items := []domain.NewsItem{
		{Title: "One", Link: "https://a.example/1", Summary: "s1", Category: "ai"},
		{Title: "Two", Link: "https://b.example/1", Summary: "s2", Category: "startups"},
		{Title: "Three", Link: "https://c.example/1", Summary: "s3", Category: "technology"},
	}
	order := []string{"technology", "ai", "startups"}

	composer := NewComposer()
	first, err := composer.Compose(items, order)
	require.NoError(t, err)

	for range 10 {
		again, err := composer.Compose(items, order)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestCompose_EscapesItemContent(t *testing.T) {
	items := []domain.NewsItem{
		{
			Title:    "<script>alert(1)</script>",
			Link:     "https://a.example/1",
			Summary:  "a & b",
			Category: "ai",
		},
	}

	html, err := NewComposer().Compose(items, []string{"ai"})
	require.NoError(t, err)

	assert.NotContains(t, html, "<script>alert(1)</script>")
	assert.Contains(t, html, "&lt;script&gt;")
}
