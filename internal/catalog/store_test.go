package catalog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/competitor-analysis/internal/analysis"
)

func openTestStore(t *testing.T, path string, seed bool) *Store {
	t.Helper()
	s, err := Open("sqlite", path, seed)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenSeedsBuiltins(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "catalog.db"), true)

	list := s.List()
	want := analysis.KnownCompetitors()
	require.Len(t, list, len(want))
	assert.Equal(t, want, list)

	c, ok := s.Lookup("cisco webex")
	require.True(t, ok)
	assert.Equal(t, "webex", c.ID)
	c, ok = s.Lookup("Microsoft-Teams")
	require.True(t, ok)
	assert.Equal(t, "$4.00", c.Pricing.StartingPrice)

	_, ok = s.Lookup("Myspace")
	assert.False(t, ok)
}

func TestOpenWithoutSeedIsEmpty(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "empty.db"), false)
	assert.Empty(t, s.List())
}

func TestAddPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	s1, err := Open("sqlite", path, true)
	require.NoError(t, err)

	rocket := analysis.Competitor{
		ID:      "rocket-chat",
		Name:    "Rocket.Chat",
		URL:     "https://rocket.chat",
		Pricing: analysis.Pricing{Model: "Open Source", StartingPrice: "Free", Currency: "USD"},
		KeyInfo: analysis.KeyInfo{Headquarters: "Porto Alegre, BR"},
	}
	require.NoError(t, s1.Add(rocket))

	updated := analysis.KnownCompetitors()[0]
	updated.Pricing.StartingPrice = "$8.75"
	require.NoError(t, s1.Add(updated))
	require.NoError(t, s1.Close())

	s2 := openTestStore(t, path, true)
	list := s2.List()
	require.Len(t, list, 8)
	assert.Equal(t, "slack", list[0].ID)
	assert.Equal(t, "$8.75", list[0].Pricing.StartingPrice, "seeding must not overwrite edits")
	assert.Equal(t, rocket, list[7])

	got, ok := s2.Lookup("rocket.chat")
	require.True(t, ok)
	assert.Equal(t, "Porto Alegre, BR", got.KeyInfo.Headquarters)
}

func TestAddRejectsIncompleteRecord(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "catalog.db"), false)
	assert.ErrorIs(t, s.Add(analysis.Competitor{Name: "No ID"}), ErrInvalidRecord)
	assert.ErrorIs(t, s.Add(analysis.Competitor{ID: "no-name"}), ErrInvalidRecord)
}

func TestStoreServesEngine(t *testing.T) {
	s := openTestStore(t, filepath.Join(t.TempDir(), "catalog.db"), true)
	engine := analysis.NewEngine(analysis.Options{Catalog: s})
	reply, err := engine.Respond("Compare Zoom vs Mattermost", analysis.State{}, analysis.NewRandom(1))
	require.NoError(t, err)
	require.Len(t, reply.Competitors, 2)
	assert.Equal(t, "$14.99", reply.Competitors[0].Pricing.StartingPrice)
	assert.False(t, reply.Competitors[1].IsCustom)
}
