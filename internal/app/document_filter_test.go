package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowledgevault/internal/model"
)

func fixtureDocs() []model.Document {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	catFinance, catHR := uint(1), uint(2)

	docs := []model.Document{
		{ID: 1, Name: "budget", CategoryID: &catFinance, Size: 300, CreatedAt: base},
		{ID: 2, Name: "onboarding", CategoryID: &catHR, Size: 100, CreatedAt: base.Add(time.Hour)},
		{ID: 3, Name: "Forecast", CategoryID: &catFinance, Size: 200, CreatedAt: base.Add(2 * time.Hour)},
		{ID: 4, Name: "notes", Size: 400, CreatedAt: base.Add(3 * time.Hour)},
	}
	docs[0].SetTags([]string{"finance", "q1"})
	docs[1].SetTags([]string{"hr"})
	docs[2].SetTags([]string{"finance", "q2"})
	docs[3].SetTags(nil)
	return docs
}

func ids(docs []model.Document) []uint {
	out := make([]uint, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}

func TestFilterDocuments_EmptyFilterImposesNoConstraint(t *testing.T) {
	docs := fixtureDocs()
	out := FilterDocuments(docs, DocumentFilter{})
	assert.Equal(t, []uint{1, 2, 3, 4}, ids(out))
}

func TestFilterDocuments_IntersectionAcrossDimensions(t *testing.T) {
	docs := fixtureDocs()

	// OR within a dimension
	out := FilterDocuments(docs, DocumentFilter{CategoryIDs: []uint{1, 2}})
	assert.Equal(t, []uint{1, 2, 3}, ids(out))

	// AND across dimensions
	out = FilterDocuments(docs, DocumentFilter{
		CategoryIDs: []uint{1, 2},
		Tags:        []string{"q2"},
	})
	assert.Equal(t, []uint{3}, ids(out))

	// favorites dimension intersects too
	out = FilterDocuments(docs, DocumentFilter{
		CategoryIDs:   []uint{1},
		FavoritesOnly: true,
		FavoriteIDs:   []uint{1, 4},
	})
	assert.Equal(t, []uint{1}, ids(out))
}

func TestFilterDocuments_FreeText(t *testing.T) {
	docs := fixtureDocs()
	out := FilterDocuments(docs, DocumentFilter{Text: "fore"})
	assert.Equal(t, []uint{3}, ids(out))
}

func TestSortDocuments_Orders(t *testing.T) {
	docs := fixtureDocs()

	assert.Equal(t, []uint{4, 3, 2, 1}, ids(SortDocuments(docs, SortNewest)))
	assert.Equal(t, []uint{1, 2, 3, 4}, ids(SortDocuments(docs, SortOldest)))
	assert.Equal(t, []uint{4, 1, 3, 2}, ids(SortDocuments(docs, SortSize)))

	// byte-wise order is case-sensitive: "Forecast" sorts before lower-case names
	assert.Equal(t, []uint{3, 1, 4, 2}, ids(SortDocuments(docs, SortName)))
}

func TestSortDocuments_Idempotent(t *testing.T) {
	docs := fixtureDocs()
	once := SortDocuments(docs, SortNewest)
	twice := SortDocuments(once, SortNewest)
	require.Equal(t, ids(once), ids(twice))
}

func TestSortDocuments_DoesNotMutateInput(t *testing.T) {
	docs := fixtureDocs()
	_ = SortDocuments(docs, SortSize)
	assert.Equal(t, []uint{1, 2, 3, 4}, ids(docs))
}
