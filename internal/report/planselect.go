package report

import (
	"sort"
	"time"
)

// PlanHeader identifies one named sales plan for a year.
type PlanHeader struct {
	PlanID    int64
	PlanYear  int
	Version   string
	Status    string
	Remarks   string
	UpdatedAt time.Time
}

// SelectPlanIDs resolves which plan headers apply, in precedence order:
//
//  1. explicit plan id, only if it belongs to the year;
//  2. every header matching a version label, most recently updated first;
//  3. every header matching a status, most recently updated first;
//  4. otherwise the single FINAL header if one exists, else the most
//     recently updated header of any status.
//
// When several ids are returned their lines are aggregated together; a
// pipeline present in two matching headers is summed, not de-duplicated.
func SelectPlanIDs(headers []PlanHeader, year int, sel PlanSelector) []int64 {
	if sel.PlanID != nil {
		for _, h := range headers {
			if h.PlanID == *sel.PlanID && h.PlanYear == year {
				return []int64{h.PlanID}
			}
		}
		return nil
	}

	if sel.Version != "" {
		return matchingIDs(headers, year, func(h PlanHeader) bool { return h.Version == sel.Version })
	}
	if sel.Status != "" {
		return matchingIDs(headers, year, func(h PlanHeader) bool { return h.Status == sel.Status })
	}

	// No selector: FINAL wins, else the latest plan regardless of status.
	// A lone DRAFT plan is therefore selectable; preserved as observed.
	candidates := matchingIDsOrdered(headers, year, func(h PlanHeader) bool { return true }, true)
	if len(candidates) == 0 {
		return nil
	}
	return candidates[:1]
}

func matchingIDs(headers []PlanHeader, year int, match func(PlanHeader) bool) []int64 {
	return matchingIDsOrdered(headers, year, match, false)
}

func matchingIDsOrdered(headers []PlanHeader, year int, match func(PlanHeader) bool, finalFirst bool) []int64 {
	selected := make([]PlanHeader, 0, len(headers))
	for _, h := range headers {
		if h.PlanYear == year && match(h) {
			selected = append(selected, h)
		}
	}
	sort.SliceStable(selected, func(i, j int) bool {
		a, b := selected[i], selected[j]
		if finalFirst {
			aFinal, bFinal := a.Status == PlanStatusFinal, b.Status == PlanStatusFinal
			if aFinal != bFinal {
				return aFinal
			}
		}
		if !a.UpdatedAt.Equal(b.UpdatedAt) {
			return a.UpdatedAt.After(b.UpdatedAt)
		}
		return a.PlanID > b.PlanID
	})
	ids := make([]int64, 0, len(selected))
	for _, h := range selected {
		ids = append(ids, h.PlanID)
	}
	return ids
}
