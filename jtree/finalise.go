package jtree

// Finalise releases a Tree's backing storage: every Array/Object slice
// reachable from the root is walked post-order and cleared so the
// garbage collector can reclaim it independently of whatever source
// buffer the tree's string slices still alias. Finalise is idempotent —
// calling it twice is a no-op — and after it returns, Tree.Root fails
// with ErrFinalised.
func Finalise(t *Tree) {
	if t.finalised {
		return
	}
	if t.hasRoot {
		releaseValue(&t.root)
	}
	t.finalised = true
}

func releaseValue(v *Value) {
	switch v.Kind {
	case KindArray:
		for i := range v.Array {
			releaseValue(&v.Array[i])
		}
		v.Array = nil
	case KindObject:
		for i := range v.Object {
			releaseValue(&v.Object[i].Value)
		}
		v.Object = nil
	}
}
