package cancel

import "testing"

func TestMapGetSetDelete(t *testing.T) {
	m := NewMap[string, int]()
	if _, ok := m.Get("a"); ok {
		t.Fatalf("Get on empty map returned ok=true")
	}

	m.Set("a", 1)
	v, ok := m.Get("a")
	if !ok || v != 1 {
		t.Errorf("Get(a) = (%d, %v), want (1, true)", v, ok)
	}

	m.Delete("a")
	if _, ok := m.Get("a"); ok {
		t.Errorf("Get(a) after Delete still ok")
	}
}

func TestMapUpdate(t *testing.T) {
	m := NewMap[string, int]()
	m.Update("count", func(v int) int { return v + 1 })
	m.Update("count", func(v int) int { return v + 1 })

	v, _ := m.Get("count")
	if v != 2 {
		t.Errorf("count = %d, want 2", v)
	}
}

func TestMapKeysAndCopyAreSnapshots(t *testing.T) {
	m := NewMap[string, int]()
	m.Set("a", 1)
	m.Set("b", 2)

	keys := m.Keys()
	if len(keys) != 2 {
		t.Fatalf("len(Keys()) = %d, want 2", len(keys))
	}

	snapshot := m.Copy()
	m.Set("c", 3)
	if len(snapshot) != 2 {
		t.Errorf("Copy() snapshot mutated after later Set, len = %d, want 2", len(snapshot))
	}
	if m.Len() != 3 {
		t.Errorf("Len() = %d, want 3", m.Len())
	}
}

func TestMapAtomic(t *testing.T) {
	m := NewMap[string, int]()
	m.Set("a", 1)
	m.Atomic(func(data map[string]int) {
		data["b"] = 2
	})
	if v, ok := m.Get("b"); !ok || v != 2 {
		t.Errorf("Get(b) = (%d, %v) after Atomic insert, want (2, true)", v, ok)
	}
}

func TestListAppendCopyLen(t *testing.T) {
	l := NewList[int]()
	l.Append(1)
	l.Append(2)
	l.Append(3)

	if l.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", l.Len())
	}
	snapshot := l.Copy()
	l.Append(4)
	if len(snapshot) != 3 {
		t.Errorf("Copy() snapshot mutated after later Append, len = %d, want 3", len(snapshot))
	}
}

func TestListRemoveFunc(t *testing.T) {
	l := NewList[int]()
	l.Append(1)
	l.Append(2)
	l.Append(3)

	removed := l.RemoveFunc(func(v int) bool { return v == 2 })
	if !removed {
		t.Fatalf("RemoveFunc did not report removal")
	}
	if got := l.Copy(); len(got) != 2 || got[0] != 1 || got[1] != 3 {
		t.Errorf("Copy() after removal = %v, want [1 3]", got)
	}

	if l.RemoveFunc(func(v int) bool { return v == 99 }) {
		t.Errorf("RemoveFunc reported removal for absent value")
	}
}

func TestListReverseCopy(t *testing.T) {
	l := NewList[int]()
	l.Append(1)
	l.Append(2)
	l.Append(3)

	rev := l.ReverseCopy()
	if len(rev) != 3 || rev[0] != 3 || rev[1] != 2 || rev[2] != 1 {
		t.Errorf("ReverseCopy() = %v, want [3 2 1]", rev)
	}
}
