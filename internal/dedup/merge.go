package dedup

// MergeGroup collapses a group of records that share one identity into a
// single representative. The representative is the most complete member of
// the group, judged by description length, then venue presence, then URL
// presence; ties keep the earlier record. Only provenance (Sources, URLs,
// DuplicateCount) is merged here; scalar fields are not backfilled from
// siblings, that decision belongs to the persistence layer.
func MergeGroup(group []Event) Event {
	if len(group) == 0 {
		return Event{}
	}
	if len(group) == 1 {
		return group[0]
	}

	best := group[0]
	for _, candidate := range group[1:] {
		if moreComplete(candidate, best) {
			best = candidate
		}
	}

	merged := best
	merged.Sources = collectDistinct(group, func(e Event) (string, []string) { return e.Source, e.Sources })
	merged.URLs = collectDistinct(group, func(e Event) (string, []string) { return e.URL, e.URLs })
	merged.DuplicateCount = groupSize(group)
	return merged
}

func moreComplete(candidate, current Event) bool {
	if len(candidate.Description) != len(current.Description) {
		return len(candidate.Description) > len(current.Description)
	}
	if (candidate.Venue != "") != (current.Venue != "") {
		return candidate.Venue != ""
	}
	if (candidate.URL != "") != (current.URL != "") {
		return candidate.URL != ""
	}
	return false
}

// collectDistinct gathers one provenance dimension across the group in
// first-seen order. Members that are themselves merge results contribute
// their accumulated list, so provenance survives a second merge pass.
func collectDistinct(group []Event, field func(Event) (string, []string)) []string {
	var out []string
	seen := make(map[string]struct{})
	add := func(value string) {
		if value == "" {
			return
		}
		if _, ok := seen[value]; ok {
			return
		}
		seen[value] = struct{}{}
		out = append(out, value)
	}
	for _, event := range group {
		scalar, list := field(event)
		if len(list) > 0 {
			for _, value := range list {
				add(value)
			}
			continue
		}
		add(scalar)
	}
	return out
}

// groupSize counts the underlying raw records, so a merge of already-merged
// members reports the true duplicate count.
func groupSize(group []Event) int {
	total := 0
	for _, event := range group {
		if event.DuplicateCount > 1 {
			total += event.DuplicateCount
			continue
		}
		total++
	}
	return total
}
