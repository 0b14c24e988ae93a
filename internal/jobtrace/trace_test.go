package jobtrace

import "testing"

func TestTraceIDDeterminism(t *testing.T) {
	first := New("UCchannel", "video-a")
	second := New("UCchannel", "video-a")
	if first.TraceID != second.TraceID {
		t.Fatalf("expected deterministic trace id, got %q and %q", first.TraceID, second.TraceID)
	}

	different := New("UCchannel", "video-b")
	if first.TraceID == different.TraceID {
		t.Fatalf("expected different trace id when video changes")
	}
}

func TestStageCounters(t *testing.T) {
	trace := New("UCchannel", "video-a")

	if count := trace.Add(StageObjectsListed, 3); count != 3 {
		t.Fatalf("expected objects_listed to be 3, got %d", count)
	}

	if count := trace.Add(StageItemsMapped, 10); count != 10 {
		t.Fatalf("expected items_mapped to be 10, got %d", count)
	}

	if count := trace.Add(StageItemsMapped, 5); count != 15 {
		t.Fatalf("expected items_mapped to be 15 after second add, got %d", count)
	}

	if got := trace.Count(StageOutputWritten); got != 0 {
		t.Fatalf("expected untouched stage to read 0, got %d", got)
	}
}
