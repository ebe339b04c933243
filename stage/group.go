package stage

import "sort"

// GroupEvents sorts the events by position and gathers those sharing a
// position into groups. The order of events at the same position is kept.
// The returned slice always ends with a sentinel group.
func GroupEvents(events []Event) []Group {
	sorted := make([]Event, len(events))
	copy(sorted, events)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].X < sorted[j].X
	})

	var (
		groups []Group
		last   int
	)
	for _, e := range sorted {
		if n := len(groups); n == 0 || e.X > groups[n-1].X {
			groups = append(groups, Group{X: e.X, Delta: int64(e.X - last)})
			last = e.X
		}
		g := &groups[len(groups)-1]
		g.Events = append(g.Events, e)
	}

	return append(groups, Group{X: last, Delta: -1})
}
