package service

// Summarize computes the aggregate view of a feature set in one linear pass.
// Every feature lands in exactly one category bucket and one status bucket,
// so the category counts always sum to TotalFeatures. An empty set is a
// valid input and yields all-zero statistics.
func Summarize(features []Feature) Statistics {
	stats := Statistics{
		CountByCategory: map[Category]int{},
		CountByStatus:   map[Status]int{},
	}
	for _, f := range features {
		stats.CountByCategory[f.Category]++
		stats.CountByStatus[f.Status]++
		stats.TotalFeatures++
		stats.TotalAreaHectares += f.AreaHectares
	}
	return stats
}
