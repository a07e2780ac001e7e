package report

import (
	"testing"
	"time"
)

func testInfos(now time.Time) []Info {
	return []Info{
		{ID: "r1", Timestamp: now.AddDate(0, 0, -10)},
		{ID: "r2", Timestamp: now.AddDate(0, 0, -5)},
		{ID: "r3", Timestamp: now.AddDate(0, 0, -1)},
		{ID: "r4", Timestamp: now.AddDate(0, 0, -30)},
	}
}

func ids(infos []Info) map[string]bool {
	out := make(map[string]bool, len(infos))
	for _, info := range infos {
		out[info.ID] = true
	}
	return out
}

func TestSelectForDeletionByAge(t *testing.T) {
	now := time.Now()
	toDelete := SelectForDeletion(testInfos(now), 0, 7, now)

	got := ids(toDelete)
	if len(toDelete) != 2 || !got["r1"] || !got["r4"] {
		t.Errorf("Expected r1 and r4, got %v", toDelete)
	}
}

func TestSelectForDeletionByCount(t *testing.T) {
	now := time.Now()
	toDelete := SelectForDeletion(testInfos(now), 2, 0, now)

	got := ids(toDelete)
	if len(toDelete) != 2 || !got["r1"] || !got["r4"] {
		t.Errorf("Expected the two oldest (r1, r4), got %v", toDelete)
	}
}

func TestSelectForDeletionCombinedNoDuplicates(t *testing.T) {
	now := time.Now()
	infos := append(testInfos(now), Info{ID: "r5", Timestamp: now.AddDate(0, 0, -2)})

	toDelete := SelectForDeletion(infos, 3, 7, now)

	got := ids(toDelete)
	if len(toDelete) != len(got) {
		t.Errorf("Duplicate entries in %v", toDelete)
	}
	if len(toDelete) != 2 || !got["r1"] || !got["r4"] {
		t.Errorf("Expected r1 and r4, got %v", toDelete)
	}
}

func TestSelectForDeletionNoPolicy(t *testing.T) {
	now := time.Now()
	if toDelete := SelectForDeletion(testInfos(now), 0, 0, now); len(toDelete) != 0 {
		t.Errorf("Expected nothing selected, got %v", toDelete)
	}
	if toDelete := SelectForDeletion(testInfos(now), 10, 0, now); len(toDelete) != 0 {
		t.Errorf("Expected nothing selected when under the limit, got %v", toDelete)
	}
}
