package index

import (
	"fmt"
	"testing"
)

func TestInsertAndSearch(t *testing.T) {
	tree := New[string]()
	tree.Insert(Entry[string]{Key: "a", Rect: PointRect(-71.0, 42.0), Value: "a"})
	tree.Insert(Entry[string]{Key: "b", Rect: PointRect(-71.5, 42.5), Value: "b"})
	tree.Insert(Entry[string]{Key: "c", Rect: PointRect(-75.0, 45.0), Value: "c"})

	if tree.Len() != 3 {
		t.Fatalf("Expected 3 entries, got %d", tree.Len())
	}

	hits := tree.Search(Rect{MinX: -72, MinY: 41, MaxX: -70, MaxY: 43})
	if len(hits) != 2 {
		t.Fatalf("Expected 2 hits, got %d", len(hits))
	}
	found := map[string]bool{}
	for _, h := range hits {
		found[h.Key] = true
	}
	if !found["a"] || !found["b"] {
		t.Errorf("Expected entries a and b, got %v", found)
	}
}

func TestSearchIsExact(t *testing.T) {
	tree := New[string]()
	// Entry just outside the query rectangle. The R-tree stores point
	// entries with inflated boxes; the query must still be exact.
	tree.Insert(Entry[string]{Key: "out", Rect: PointRect(10.0, 10.0), Value: "out"})
	tree.Insert(Entry[string]{Key: "edge", Rect: PointRect(5.0, 5.0), Value: "edge"})

	hits := tree.Search(Rect{MinX: 0, MinY: 0, MaxX: 5, MaxY: 5})
	if len(hits) != 1 {
		t.Fatalf("Expected 1 hit, got %d", len(hits))
	}
	if hits[0].Key != "edge" {
		t.Errorf("Expected edge entry (inclusive boundary), got %s", hits[0].Key)
	}
}

func TestRemoveByKey(t *testing.T) {
	tree := New[string]()
	// Two entries at the identical position; only the keyed one goes.
	tree.Insert(Entry[string]{Key: "a", Rect: PointRect(1, 1), Value: "a"})
	tree.Insert(Entry[string]{Key: "b", Rect: PointRect(1, 1), Value: "b"})

	if !tree.Remove("a", PointRect(1, 1)) {
		t.Fatal("Expected Remove to find entry a")
	}
	if tree.Len() != 1 {
		t.Fatalf("Expected 1 entry after removal, got %d", tree.Len())
	}
	hits := tree.Search(Rect{MinX: 0, MinY: 0, MaxX: 2, MaxY: 2})
	if len(hits) != 1 || hits[0].Key != "b" {
		t.Errorf("Expected only entry b to remain, got %v", hits)
	}

	if tree.Remove("a", PointRect(1, 1)) {
		t.Error("Expected Remove of missing key to return false")
	}
}

func TestBulkLoadMatchesInsert(t *testing.T) {
	bulk := New[int]()
	incremental := New[int]()

	var entries []Entry[int]
	for i := 0; i < 200; i++ {
		e := Entry[int]{
			Key:   fmt.Sprintf("e%d", i),
			Rect:  PointRect(float64(i%20), float64(i/20)),
			Value: i,
		}
		entries = append(entries, e)
		incremental.Insert(e)
	}
	bulk.Load(entries)

	if bulk.Len() != incremental.Len() {
		t.Fatalf("Bulk len %d != incremental len %d", bulk.Len(), incremental.Len())
	}

	query := Rect{MinX: 3, MinY: 3, MaxX: 8, MaxY: 6}
	b := bulk.Search(query)
	inc := incremental.Search(query)
	if len(b) != len(inc) {
		t.Fatalf("Bulk search returned %d, incremental %d", len(b), len(inc))
	}
	got := map[string]bool{}
	for _, e := range b {
		got[e.Key] = true
	}
	for _, e := range inc {
		if !got[e.Key] {
			t.Errorf("Entry %s missing from bulk-loaded tree results", e.Key)
		}
	}
}

func TestAtPointQuery(t *testing.T) {
	tree := New[string]()
	tree.Insert(Entry[string]{Key: "box", Rect: Rect{MinX: 10, MinY: 10, MaxX: 42, MaxY: 42}, Value: "box"})

	if e, ok := tree.At(20, 20); !ok || e.Key != "box" {
		t.Errorf("Expected point inside box to hit, got ok=%v key=%q", ok, e.Key)
	}
	if _, ok := tree.At(10, 10); !ok {
		t.Error("Expected point on the box's min corner to hit")
	}
	if _, ok := tree.At(42, 42); !ok {
		t.Error("Expected point on the box's max corner to hit")
	}
	if _, ok := tree.At(50, 50); ok {
		t.Error("Expected point outside all boxes to miss")
	}
}

func TestClear(t *testing.T) {
	tree := New[string]()
	tree.Insert(Entry[string]{Key: "a", Rect: PointRect(0, 0), Value: "a"})
	tree.Clear()

	if tree.Len() != 0 {
		t.Errorf("Expected empty tree after Clear, got %d entries", tree.Len())
	}
	if hits := tree.Search(Rect{MinX: -1, MinY: -1, MaxX: 1, MaxY: 1}); len(hits) != 0 {
		t.Errorf("Expected no hits after Clear, got %d", len(hits))
	}

	// Load after Clear uses the bulk path again.
	tree.Load([]Entry[string]{{Key: "b", Rect: PointRect(2, 2), Value: "b"}})
	if tree.Len() != 1 {
		t.Errorf("Expected 1 entry after Load, got %d", tree.Len())
	}
}

func TestSearchEmpty(t *testing.T) {
	tree := New[string]()
	if hits := tree.Search(Rect{MinX: 0, MinY: 0, MaxX: 100, MaxY: 100}); len(hits) != 0 {
		t.Errorf("Expected no hits on empty tree, got %d", len(hits))
	}
}
