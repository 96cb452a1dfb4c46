package service

// drawRank indexes each category into the fixed total draw order. Boundaries
// draw first, then unclassified blobs, then resource and claim polygons,
// with individual claims last so they win clicks on overlap.
var drawRank = func() map[Category]int {
	rank := make(map[Category]int, len(Categories))
	for i, c := range Categories {
		rank[c] = i
	}
	return rank
}()

// DrawOrder returns the fixed draw order filtered to the categories present.
// It is a function of the present set only: input order, duplicates, and
// insertion order have no effect, so re-renders are stable and hit-testing
// precedence always matches visual stacking.
func DrawOrder(present []Category) []Category {
	seen := make(map[Category]bool, len(present))
	for _, c := range present {
		if _, known := drawRank[c]; !known {
			c = CategoryUnknown
		}
		seen[c] = true
	}
	ordered := make([]Category, 0, len(seen))
	for _, c := range Categories {
		if seen[c] {
			ordered = append(ordered, c)
		}
	}
	return ordered
}

// PresentCategories returns the distinct categories of a feature set.
func PresentCategories(features []Feature) []Category {
	seen := make(map[Category]bool)
	var present []Category
	for _, f := range features {
		if !seen[f.Category] {
			seen[f.Category] = true
			present = append(present, f.Category)
		}
	}
	return present
}
