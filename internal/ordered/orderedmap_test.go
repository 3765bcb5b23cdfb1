package ordered

import "testing"

func intLess(a, b int) bool { return a < b }

func TestOrderedMap_HeadTailReflectExtremes(t *testing.T) {
	m := New(intLess)
	for _, v := range []int{5, 1, 9, 3, 7} {
		m.Insert(v)
	}
	if head, ok := m.Head(); !ok || head != 1 {
		t.Errorf("Head(): got (%v,%v), want (1,true)", head, ok)
	}
	if tail, ok := m.Tail(); !ok || tail != 9 {
		t.Errorf("Tail(): got (%v,%v), want (9,true)", tail, ok)
	}
	if m.Size() != 5 {
		t.Errorf("Size(): got %d, want 5", m.Size())
	}
}

func TestOrderedMap_PopHeadDrainsAscending(t *testing.T) {
	m := New(intLess)
	values := []int{5, 1, 9, 3, 7, 2, 8}
	for _, v := range values {
		m.Insert(v)
	}
	var got []int
	for m.Size() > 0 {
		v, ok := m.PopHead()
		if !ok {
			t.Fatal("PopHead: expected a value while Size() > 0")
		}
		got = append(got, v)
	}
	want := []int{1, 2, 3, 5, 7, 8, 9}
	if len(got) != len(want) {
		t.Fatalf("PopHead sequence length: got %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PopHead sequence[%d]: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestOrderedMap_PopTailDrainsDescending(t *testing.T) {
	m := New(intLess)
	for _, v := range []int{4, 2, 6, 1, 5} {
		m.Insert(v)
	}
	var got []int
	for m.Size() > 0 {
		v, _ := m.PopTail()
		got = append(got, v)
	}
	want := []int{6, 5, 4, 2, 1}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("PopTail sequence[%d]: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestOrderedMap_RemoveAtByPosition(t *testing.T) {
	m := New(intLess)
	m.Insert(1)
	posMid := m.Insert(2)
	m.Insert(3)

	m.RemoveAt(posMid)
	if m.Size() != 2 {
		t.Errorf("Size() after RemoveAt: got %d, want 2", m.Size())
	}
	var got []int
	m.InOrder(func(v int) { got = append(got, v) })
	if len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("InOrder after removal: got %v, want [1 3]", got)
	}
}

func TestOrderedMap_InOrderIsSorted(t *testing.T) {
	m := New(intLess)
	values := []int{8, 3, 6, 1, 9, 2, 7, 4, 5}
	for _, v := range values {
		m.Insert(v)
	}
	var prev int
	first := true
	m.InOrder(func(v int) {
		if !first && v < prev {
			t.Errorf("InOrder not sorted: %d came after %d", v, prev)
		}
		prev, first = v, false
	})
}

func TestOrderedMap_EmptyHeadTailOK(t *testing.T) {
	m := New(intLess)
	if _, ok := m.Head(); ok {
		t.Error("Head() on empty map: expected ok=false")
	}
	if _, ok := m.Tail(); ok {
		t.Error("Tail() on empty map: expected ok=false")
	}
	if _, ok := m.PopHead(); ok {
		t.Error("PopHead() on empty map: expected ok=false")
	}
}

func TestOrderedMap_HandlesDuplicateKeys(t *testing.T) {
	m := New(intLess)
	for i := 0; i < 5; i++ {
		m.Insert(3)
	}
	if m.Size() != 5 {
		t.Errorf("Size() with duplicates: got %d, want 5", m.Size())
	}
	for i := 0; i < 5; i++ {
		if v, ok := m.PopHead(); !ok || v != 3 {
			t.Errorf("PopHead with duplicates: got (%v,%v), want (3,true)", v, ok)
		}
	}
}

func TestOrderedMap_FreePoolReusedAcrossPopInsert(t *testing.T) {
	m := New(intLess)
	for i := 0; i < 10; i++ {
		m.Insert(i)
	}
	for i := 0; i < 8; i++ {
		m.PopHead()
	}
	if len(m.free) != freePoolCap {
		t.Errorf("free pool after pops: got %d nodes, want %d", len(m.free), freePoolCap)
	}
	for i := 100; i < 120; i++ {
		m.Insert(i)
	}
	if len(m.free) != 0 {
		t.Errorf("free pool after inserts: got %d nodes, want 0 (pooled nodes reused)", len(m.free))
	}
	if m.Size() != 22 {
		t.Errorf("Size() after churn: got %d, want 22", m.Size())
	}
}
