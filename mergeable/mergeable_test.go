package mergeable

import "testing"

// memCtx is an in-memory map-backed context used in tests, as an alternative to the store-backed one production uses.
type memCtx struct {
	nodes map[string]Node[string, int]
}

func newMemCtx() *memCtx {
	return &memCtx{nodes: make(map[string]Node[string, int])}
}

func (c *memCtx) GetNode(index string) (Node[string, int], bool) {
	n, ok := c.nodes[index]
	return n, ok
}

func (c *memCtx) SetNode(index string, node Node[string, int]) {
	c.nodes[index] = node
}

func sumMerge(child int, parent *int) {
	*parent += child
}

func TestFindNotFound(t *testing.T) {
	ctx := newMemCtx()
	_, err := Find[string, int](ctx, "missing")
	if _, ok := err.(NotFoundError[string]); !ok {
		t.Errorf("expected NotFoundError, got %v (%T)", err, err)
	}
}

func TestFindRoot(t *testing.T) {
	ctx := newMemCtx()
	ctx.SetNode("a", New("a", 10))

	v, err := Find[string, int](ctx, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 10 {
		t.Errorf("Find = %v, want 10", v)
	}
}

func TestFindIdempotentAndCompresses(t *testing.T) {
	ctx := newMemCtx()
	ctx.SetNode("root", New("root", 1))
	ctx.SetNode("mid", Node[string, int]{V0: NodeV0[string, int]{ParentIndex: "root", Rank: 0, Item: 0}})
	ctx.SetNode("leaf", Node[string, int]{V0: NodeV0[string, int]{ParentIndex: "mid", Rank: 0, Item: 0}})

	v1, err := Find[string, int](ctx, "leaf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v2, err := Find[string, int](ctx, "leaf")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v1 != v2 {
		t.Errorf("consecutive Find calls disagree: %v vs %v", v1, v2)
	}

	leaf, _ := ctx.GetNode("leaf")
	if leaf.V0.ParentIndex != "root" {
		t.Errorf("path halving should have repointed leaf directly at root, got parent %v", leaf.V0.ParentIndex)
	}
}

func TestSet(t *testing.T) {
	ctx := newMemCtx()
	ctx.SetNode("a", New("a", 1))

	if err := Set[string, int](ctx, "a", 99); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, err := Find[string, int](ctx, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 99 {
		t.Errorf("Set then Find = %v, want 99", v)
	}
}

func TestMergeUnionByRankAndFuse(t *testing.T) {
	ctx := newMemCtx()
	ctx.SetNode("a", New("a", 10))
	ctx.SetNode("b", New("b", 20))

	merged, err := Merge[string, int](ctx, "a", "b", sumMerge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if merged != 30 {
		t.Errorf("Merge result = %v, want 30 (10+20 fused into survivor)", merged)
	}

	va, err := Find[string, int](ctx, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vb, err := Find[string, int](ctx, "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if va != vb {
		t.Errorf("a and b should resolve to the same root after merge: %v vs %v", va, vb)
	}
}

func TestMergeSameRootIsNoop(t *testing.T) {
	ctx := newMemCtx()
	ctx.SetNode("a", New("a", 5))

	called := false
	noopMerge := func(child int, parent *int) { called = true }

	v, err := Merge[string, int](ctx, "a", "a", noopMerge)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 5 {
		t.Errorf("Merge(a,a) = %v, want 5", v)
	}
	if called {
		t.Error("mergeOp should not be invoked when both indices already share a root")
	}
}

func TestFindNoParent(t *testing.T) {
	ctx := newMemCtx()
	ctx.SetNode("orphan", Node[string, int]{V0: NodeV0[string, int]{ParentIndex: "ghost", Rank: 0, Item: 0}})

	_, err := Find[string, int](ctx, "orphan")
	if _, ok := err.(NoParentError[string]); !ok {
		t.Errorf("expected NoParentError, got %v (%T)", err, err)
	}
}
