// Package progress derives completion counters for a filtered item
// set against the current check state.
package progress

import (
	"math"

	"popcheck/models"
)

// Summary is the completion state of one filtered item set.
type Summary struct {
	Count      int  `json:"count"`
	Total      int  `json:"total"`
	Percent    int  `json:"percent"`
	IsComplete bool `json:"isComplete"`
}

// Compute counts checked items in the given set. Percent is the
// rounded integer percentage; an empty set is never complete.
func Compute(items []models.CatalogItem, checked func(id string) bool) Summary {
	s := Summary{Total: len(items)}
	if s.Total == 0 {
		return s
	}
	for _, item := range items {
		if checked(item.ID) {
			s.Count++
		}
	}
	s.Percent = int(math.Round(float64(s.Count) / float64(s.Total) * 100))
	s.IsComplete = s.Count == s.Total
	return s
}
