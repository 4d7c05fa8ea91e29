package query

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/appdex/internal/apps"
)

func ids(rs []apps.Record) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestSearch_Ranking(t *testing.T) {
	records := []apps.Record{
		{ID: "1", Name: "Code", AccessCount: 0},
		{ID: "2", Name: "Visual Studio Code", AccessCount: 50},
		{ID: "3", Name: "CodeLite", AccessCount: 5},
		{ID: "4", Name: "Firefox", AccessCount: 100},
	}

	got := Search(records, "code")
	assert.Equal(t, []string{"1", "2", "3"}, ids(got), "exact match first, then by access count")
}

func TestSearch_CaseInsensitiveAndTies(t *testing.T) {
	records := []apps.Record{
		{ID: "b", Name: "beta player"},
		{ID: "a2", Name: "Alpha Player"},
		{ID: "a1", Name: "alpha player"},
	}
	assert.Equal(t, []string{"a1", "a2", "b"}, ids(Search(records, "PLAYER")))
}

func TestSearch_CapAndEmpty(t *testing.T) {
	var records []apps.Record
	for i := 0; i < 25; i++ {
		records = append(records, apps.Record{ID: fmt.Sprintf("%02d", i), Name: fmt.Sprintf("Tool %02d", i), AccessCount: uint32(i)})
	}
	got := Search(records, "tool")
	require.Len(t, got, MaxResults)
	assert.Equal(t, "24", got[0].ID)

	assert.Empty(t, Search(records, "nothing matches"))
	assert.NotNil(t, Search(nil, "x"))
}

func TestSearch_BlankQueryRanksByUsage(t *testing.T) {
	var records []apps.Record
	for i := 0; i < 25; i++ {
		records = append(records, apps.Record{ID: fmt.Sprintf("%02d", i), Name: fmt.Sprintf("Tool %02d", i), AccessCount: uint32(i)})
	}
	got := Search(records, "")
	require.Len(t, got, MaxResults)
	assert.Equal(t, []string{"24", "23", "22", "21", "20", "19", "18", "17", "16", "15"}, ids(got))
	assert.Equal(t, ids(got), ids(Search(records, "   ")))
}

func TestRecent_OrderedByLastAccess(t *testing.T) {
	var records []apps.Record
	for i := 1; i <= 12; i++ {
		records = append(records, apps.Record{ID: fmt.Sprintf("r%02d", i), Name: fmt.Sprintf("App %02d", i), LastAccessed: int64(1000 + i), AccessCount: 1})
	}
	records = append(records, apps.Record{ID: "never", Name: "Never", AccessCount: 99})

	got := Recent(records)
	require.Len(t, got, MaxResults)
	assert.Equal(t, "r12", got[0].ID)
	assert.Equal(t, "r03", got[9].ID)
	for _, r := range got {
		assert.NotEqual(t, "never", r.ID, "no backfill when enough recent launches")
	}
}

func TestRecent_Backfill(t *testing.T) {
	records := []apps.Record{
		{ID: "x", Name: "X", LastAccessed: 100, AccessCount: 1},
		{ID: "y", Name: "Y", LastAccessed: 200, AccessCount: 1},
		{ID: "p1", Name: "Popular", AccessCount: 30},
		{ID: "p2", Name: "Also Popular", AccessCount: 30},
		{ID: "p3", Name: "Less", AccessCount: 2},
	}
	got := Recent(records)
	assert.Equal(t, []string{"y", "x", "p2", "p1", "p3"}, ids(got))
}

func TestRecent_Empty(t *testing.T) {
	assert.Empty(t, Recent(nil))
	assert.NotNil(t, Recent(nil))

	// Nothing ever launched: the list is the most popular apps.
	got := Recent([]apps.Record{{ID: "a", Name: "A"}, {ID: "b", Name: "B", AccessCount: 3}})
	assert.Equal(t, []string{"b", "a"}, ids(got))
}
