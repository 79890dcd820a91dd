package hotspot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GREENPATH_BACK-END/internal/models"
)

func post(title, location string) models.WastePost {
	return models.WastePost{Title: title, Location: location}
}

func TestAreaOf(t *testing.T) {
	tests := map[string]string{
		"Andheri West, Mumbai":     "Andheri West",
		"  Koramangala ,Bengaluru": "Koramangala",
		"Connaught Place":          "Connaught Place",
		"":                         UnknownArea,
		" , Pune":                  UnknownArea,
	}
	for in, want := range tests {
		assert.Equal(t, want, AreaOf(in), in)
	}
}

func TestGroup(t *testing.T) {
	posts := []models.WastePost{
		post("a", "Bandra, Mumbai"),
		post("b", "Powai, Mumbai"),
		post("c", "Bandra West"),
		post("d", "Powai"),
		post("e", "Bandra, Mumbai"),
		post("f", "Juhu"),
	}

	got := Group(posts)

	require.Len(t, got, 4)
	assert.Equal(t, "Bandra", got[0].Area)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, []string{"a", "e"}, titles(got[0].Items))
	assert.Equal(t, "Powai", got[1].Area)
	assert.Equal(t, []string{"b", "d"}, titles(got[1].Items))
	// ties keep first appearance
	assert.Equal(t, "Bandra West", got[2].Area)
	assert.Equal(t, "Juhu", got[3].Area)
}

func TestGroup_Empty(t *testing.T) {
	got := Group(nil)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func titles(posts []models.WastePost) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.Title)
	}
	return out
}
