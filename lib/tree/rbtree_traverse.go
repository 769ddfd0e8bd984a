package tree

import (
	"iter"
	"strconv"

	"github.com/benz9527/xrbtree/lib/infra"
)

// Recursive DFS. The recursion depth is bounded by the tree height.
// Returns false once yield asks to stop.
func preOrder(node *rbNode, yield func(int, RBColor) bool) bool {
	if node == nil {
		return true
	}
	return yield(node.key, node.color) &&
		preOrder(node.children[Left], yield) &&
		preOrder(node.children[Right], yield)
}

func inOrder(node *rbNode, yield func(int, RBColor) bool) bool {
	if node == nil {
		return true
	}
	return inOrder(node.children[Left], yield) &&
		yield(node.key, node.color) &&
		inOrder(node.children[Right], yield)
}

func postOrder(node *rbNode, yield func(int, RBColor) bool) bool {
	if node == nil {
		return true
	}
	return postOrder(node.children[Left], yield) &&
		postOrder(node.children[Right], yield) &&
		yield(node.key, node.color)
}

// Traverse returns a lazy sequence of (key, color) pairs. Every range
// over the sequence walks the tree again from the current root.
// The tree must not be mutated while ranging over it.
func (tree *rbTree) Traverse(order TraverseOrder) (iter.Seq2[int, RBColor], error) {
	var walk func(*rbNode, func(int, RBColor) bool) bool
	switch order {
	case PreOrder:
		walk = preOrder
	case InOrder:
		walk = inOrder
	case PostOrder:
		walk = postOrder
	default:
		return nil, infra.WrapErrorStackWithMessage(ErrUnsupportedTraverseOrder, "traverse order "+strconv.Itoa(int(order)))
	}
	return func(yield func(int, RBColor) bool) {
		walk(tree.root, yield)
	}, nil
}

func (tree *rbTree) Foreach(order TraverseOrder, action func(idx int64, color RBColor, key int) bool) error {
	seq, err := tree.Traverse(order)
	if err != nil {
		return err
	}
	idx := int64(0)
	for key, color := range seq {
		if !action(idx, color, key) {
			break
		}
		idx++
	}
	return nil
}
