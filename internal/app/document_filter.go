package app

import (
	"sort"
	"strings"

	"knowledgevault/internal/model"
)

// Sort orders over a document collection.
const (
	SortNewest = "newest"
	SortOldest = "oldest"
	SortName   = "name"
	SortSize   = "size"
)

// DocumentFilter is the derived-view input: AND semantics across dimensions,
// OR semantics within a dimension's selected values. An empty dimension
// imposes no constraint.
type DocumentFilter struct {
	CategoryIDs   []uint
	Tags          []string
	FavoriteIDs   []uint // document ids the user favorited; nil disables the dimension
	FavoritesOnly bool
	Text          string
}

// FilterDocuments computes the intersection of per-dimension matches.
func FilterDocuments(docs []model.Document, filter DocumentFilter) []model.Document {
	categories := make(map[uint]bool, len(filter.CategoryIDs))
	for _, id := range filter.CategoryIDs {
		categories[id] = true
	}
	tags := make(map[string]bool, len(filter.Tags))
	for _, tag := range filter.Tags {
		tags[strings.ToLower(tag)] = true
	}
	favorites := make(map[uint]bool, len(filter.FavoriteIDs))
	for _, id := range filter.FavoriteIDs {
		favorites[id] = true
	}
	text := strings.ToLower(strings.TrimSpace(filter.Text))

	out := make([]model.Document, 0, len(docs))
	for _, doc := range docs {
		if len(categories) > 0 {
			if doc.CategoryID == nil || !categories[*doc.CategoryID] {
				continue
			}
		}
		if len(tags) > 0 && !matchesAnyTag(&doc, tags) {
			continue
		}
		if filter.FavoritesOnly && !favorites[doc.ID] {
			continue
		}
		if text != "" && !matchesText(&doc, text) {
			continue
		}
		out = append(out, doc)
	}
	return out
}

func matchesAnyTag(doc *model.Document, tags map[string]bool) bool {
	for _, tag := range doc.TagList() {
		if tags[strings.ToLower(tag)] {
			return true
		}
	}
	return false
}

func matchesText(doc *model.Document, text string) bool {
	if strings.Contains(strings.ToLower(doc.Name), text) {
		return true
	}
	if strings.Contains(strings.ToLower(doc.OriginalName), text) {
		return true
	}
	return strings.Contains(strings.ToLower(doc.Summary), text)
}

// SortDocuments applies one of the four total orderings. The sort is stable,
// so applying the same order twice yields the same sequence.
func SortDocuments(docs []model.Document, order string) []model.Document {
	out := append([]model.Document(nil), docs...)
	switch order {
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		})
	case SortName:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Name < out[j].Name
		})
	case SortSize:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].Size > out[j].Size
		})
	default: // SortNewest
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		})
	}
	return out
}
