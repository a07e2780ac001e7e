package report

import (
	"sort"
	"time"
)

// SelectForDeletion picks the reports a retention policy discards: every
// report older than olderThanDays (when positive) and every report beyond
// the newest keepLast (when positive). Each report appears at most once.
func SelectForDeletion(infos []Info, keepLast, olderThanDays int, now time.Time) []Info {
	var toDelete []Info
	seen := make(map[string]bool)

	add := func(info Info) {
		if !seen[info.ID] {
			seen[info.ID] = true
			toDelete = append(toDelete, info)
		}
	}

	if olderThanDays > 0 {
		cutoff := now.AddDate(0, 0, -olderThanDays)
		for _, info := range infos {
			if info.Timestamp.Before(cutoff) {
				add(info)
			}
		}
	}

	if keepLast > 0 && len(infos) > keepLast {
		sorted := make([]Info, len(infos))
		copy(sorted, infos)
		sort.SliceStable(sorted, func(i, j int) bool {
			return sorted[i].Timestamp.After(sorted[j].Timestamp)
		})
		for _, info := range sorted[keepLast:] {
			add(info)
		}
	}

	return toDelete
}
