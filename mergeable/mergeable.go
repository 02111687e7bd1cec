// Package mergeable implements a generic union-find forest: find/merge/set
// over an abstract node store. It has no I/O of its own — it is parameterized
// by a Ctx that knows how to load and save nodes by index, so the same
// find/merge/set functions run against a Redis-backed context in production
// and an in-memory map in tests.
//
// Representing entities as forest nodes lets a future "alias A to B"
// operation merge two histories by combining their items via MergeOp; the
// current callers only ever exercise the single-node case (every entity's
// root is itself), but the primitive is fully general.
package mergeable

import "fmt"

// NodeV0 is the version-0 shape of a mergeable node: a parent pointer, the
// rank this node would have if it were the root, and the wrapped item.
type NodeV0[K comparable, V any] struct {
	ParentIndex K      `json:"parent_index"`
	Rank        uint64 `json:"rank"`
	Item        V      `json:"item"`
}

// Node is a versioned wrapper around NodeV0, tagged the way spec.md §9 asks
// for so a future V1 shape can be added without invalidating stored data.
type Node[K comparable, V any] struct {
	V0 NodeV0[K, V] `json:"V0"`
}

// New wraps item as a fresh root node: its own parent, rank 0.
func New[K comparable, V any](index K, item V) Node[K, V] {
	return Node[K, V]{V0: NodeV0[K, V]{ParentIndex: index, Rank: 0, Item: item}}
}

func (n Node[K, V]) isRoot(index K) bool {
	return n.V0.ParentIndex == index
}

// Ctx is implemented by any backing store that can load and save nodes by
// index. Implementations are free to cache reads and defer writes — the
// store-backed implementation in package store does both, buffering writes
// until a transaction commits.
type Ctx[K comparable, V any] interface {
	GetNode(index K) (Node[K, V], bool)
	SetNode(index K, node Node[K, V])
}

// NotFoundError is returned when the starting index of a Find has no node at
// all — as opposed to NoParentError, which means a node exists but its
// parent link is broken.
type NotFoundError[K any] struct{ Index K }

func (e NotFoundError[K]) Error() string {
	return fmt.Sprintf("mergeable: no entry with index %v", e.Index)
}

// NoParentError indicates forest corruption: a node names a parent index
// that does not resolve to any stored node.
type NoParentError[K any] struct{ Index K }

func (e NoParentError[K]) Error() string {
	return fmt.Sprintf("mergeable: missing parent for node with index %v", e.Index)
}

// findNode walks parent links from index to the root, halving the path as
// it goes: each visited node's parent is rewritten to its grandparent before
// advancing. It returns the root's index and its node.
func findNode[K comparable, V any](ctx Ctx[K, V], index K) (K, Node[K, V], error) {
	node, ok := ctx.GetNode(index)
	if !ok {
		return index, Node[K, V]{}, NotFoundError[K]{Index: index}
	}

	cur := index
	for !node.isRoot(cur) {
		parentIndex := node.V0.ParentIndex
		parent, ok := ctx.GetNode(parentIndex)
		if !ok {
			return cur, Node[K, V]{}, NoParentError[K]{Index: cur}
		}

		node.V0.ParentIndex = parent.V0.ParentIndex
		ctx.SetNode(cur, node)

		cur = parentIndex
		node = parent
	}
	return cur, node, nil
}

// Find resolves index to its root's item, applying path halving along the
// way. Two consecutive calls to Find on an unchanged store return the same
// value, and after the first call the tree depth from index to its root is
// at most 2.
func Find[K comparable, V any](ctx Ctx[K, V], index K) (V, error) {
	_, node, err := findNode(ctx, index)
	if err != nil {
		var zero V
		return zero, err
	}
	return node.V0.Item, nil
}

// Set replaces the item at index's root with item.
func Set[K comparable, V any](ctx Ctx[K, V], index K, item V) error {
	rootIndex, node, err := findNode(ctx, index)
	if err != nil {
		return err
	}
	node.V0.Item = item
	ctx.SetNode(rootIndex, node)
	return nil
}

// MergeOp fuses child into parent in place when two trees are unioned.
type MergeOp[V any] func(child V, parent *V)

// Merge unions the trees rooted at a and b by rank, invoking mergeOp to fuse
// the absorbed root's item into the surviving root's item, and returns the
// surviving root's item. If a and b already share a root, it is returned
// unchanged and mergeOp is not called.
func Merge[K comparable, V any](ctx Ctx[K, V], a, b K, mergeOp MergeOp[V]) (V, error) {
	aRoot, aNode, err := findNode(ctx, a)
	if err != nil {
		var zero V
		return zero, err
	}
	bRoot, bNode, err := findNode(ctx, b)
	if err != nil {
		var zero V
		return zero, err
	}

	if aRoot == bRoot {
		return aNode.V0.Item, nil
	}

	if aNode.V0.Rank < bNode.V0.Rank {
		mergeOp(aNode.V0.Item, &bNode.V0.Item)
		ctx.SetNode(bRoot, bNode)
		aNode.V0.ParentIndex = bRoot
		ctx.SetNode(aRoot, aNode)
		return bNode.V0.Item, nil
	}

	mergeOp(bNode.V0.Item, &aNode.V0.Item)
	if aNode.V0.Rank == bNode.V0.Rank {
		aNode.V0.Rank++
	}
	ctx.SetNode(aRoot, aNode)
	bNode.V0.ParentIndex = aRoot
	ctx.SetNode(bRoot, bNode)
	return aNode.V0.Item, nil
}
