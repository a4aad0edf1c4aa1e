package service

import (
	"sort"

	"github.com/MKhiriev/quote-admin/models"
)

// FindDuplicateQuotes clusters the given quotes by their normalized
// text|author key and returns every cluster of two or more, ignoring
// singletons. Members are ordered by creation time, oldest first; groups are
// ordered by key, so the result is deterministic for a given input set.
//
// The detector operates only over already-fetched quotes — it is not a
// server-side scan of the full collection.
func FindDuplicateQuotes(quotes []models.Quote) []models.DuplicateGroup {
	byKey := make(map[string][]models.Quote)
	for _, q := range quotes {
		key := q.NormalizedKey()
		byKey[key] = append(byKey[key], q)
	}

	groups := make([]models.DuplicateGroup, 0, len(byKey))
	for key, members := range byKey {
		if len(members) < 2 {
			continue
		}
		sort.SliceStable(members, func(i, j int) bool {
			return members[i].CreatedAt.Before(members[j].CreatedAt)
		})
		groups = append(groups, models.DuplicateGroup{Key: key, Members: members})
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i].Key < groups[j].Key })
	return groups
}

// DefaultCleanupSelection returns the quotes pre-selected for deletion from
// the given duplicate groups: within each group every member except the
// oldest. The caller may override any individual selection before running a
// cleanup batch.
func DefaultCleanupSelection(groups []models.DuplicateGroup) []models.Quote {
	var selected []models.Quote
	for _, g := range groups {
		if len(g.Members) < 2 {
			continue
		}
		selected = append(selected, g.Members[1:]...)
	}
	return selected
}
