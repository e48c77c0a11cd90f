package telink

// DiffSRLG returns the SRLGs of old that new no longer carries, in the order
// they appear in old.
func DiffSRLG(old, new []uint32) []uint32 {
	keep := make(map[uint32]struct{}, len(new))
	for _, s := range new {
		keep[s] = struct{}{}
	}
	removed := []uint32{}
	for _, s := range old {
		if _, ok := keep[s]; !ok {
			removed = append(removed, s)
		}
	}
	return removed
}

// DiffCalendar returns the events of old with no exact match, same time and
// same bandwidth for every priority, in new.
func DiffCalendar(old, new []CalendarEvent) []CalendarEvent {
	keep := make(map[CalendarEvent]struct{}, len(new))
	for _, e := range new {
		keep[e] = struct{}{}
	}
	removed := []CalendarEvent{}
	for _, e := range old {
		if _, ok := keep[e]; !ok {
			removed = append(removed, e)
		}
	}
	return removed
}

// DiffISCs returns the descriptors of old that no descriptor of new matches
// on every field relevant to its switching capability.
func DiffISCs(old, new []ISCD) []ISCD {
	removed := []ISCD{}
	for _, o := range old {
		found := false
		for _, n := range new {
			if o.Matches(n) {
				found = true
				break
			}
		}
		if !found {
			removed = append(removed, o)
		}
	}
	return removed
}

// UniqueSRLGs drops repeated SRLGs, keeping the first occurrence.
func UniqueSRLGs(srlgs []uint32) []uint32 {
	seen := make(map[uint32]struct{}, len(srlgs))
	out := make([]uint32, 0, len(srlgs))
	for _, s := range srlgs {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

// UniqueISCs keeps one descriptor per (switching capability, encoding). A
// later descriptor replaces an earlier one with the same key in place.
func UniqueISCs(iscs []ISCD) []ISCD {
	idx := make(map[ISCKey]int, len(iscs))
	out := make([]ISCD, 0, len(iscs))
	for _, d := range iscs {
		if i, ok := idx[d.Key()]; ok {
			out[i] = d
			continue
		}
		idx[d.Key()] = len(out)
		out = append(out, d)
	}
	return out
}
