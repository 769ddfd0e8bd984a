package tree

import (
	"strconv"

	"go.uber.org/multierr"

	"github.com/benz9527/xrbtree/lib/infra"
)

func isBlack(node RBNode) bool {
	return node == nil || node.Color() == Black
}

func isRed(node RBNode) bool {
	return node != nil && node.Color() == Red
}

// rbtree rule validation utilities.

// References:
// https://github1s.com/minghu6/rust-minghu6/blob/master/coll_st/src/bst/rb.rs

func RootViolationValidate(tree RBTree) error {
	if !tree.IsRootBlack() {
		return infra.NewErrorStack("rbtree root violation")
	}
	if root := tree.Root(); root != nil && root.Parent() != nil {
		return infra.NewErrorStack("rbtree root has a parent")
	}
	return nil
}

// Inorder traversal to validate the rbtree properties.
func RedViolationValidate(tree RBTree) error {
	aux := tree.Root()
	if aux == nil {
		return nil
	}

	stack := make([]RBNode, 0, tree.Len()>>1)
	defer func() {
		clear(stack)
	}()

	for ; aux != nil; aux = aux.Left() {
		stack = append(stack, aux)
	}

	for size := len(stack); size > 0; size = len(stack) {
		if aux = stack[size-1]; isRed(aux) {
			if isRed(aux.Left()) || isRed(aux.Right()) {
				return infra.NewErrorStack("rbtree red violation at key " + strconv.Itoa(aux.Key()))
			}
		}

		stack = stack[:size-1]
		for aux = aux.Right(); aux != nil; aux = aux.Left() {
			stack = append(stack, aux)
		}
	}
	return nil
}

// Returns the black height of node, or -1 if the two sides disagree.
func blackHeight(node RBNode) int {
	if node == nil {
		return 0
	}
	l, r := blackHeight(node.Left()), blackHeight(node.Right())
	if l < 0 || r < 0 || l != r {
		return -1
	}
	if isBlack(node) {
		return l + 1
	}
	return l
}

/*
<X> is a RED node.
[X] is a BLACK node (or empty).

	        [13]
			/  \
		 <8>    [15]
		 / \    /  \
	  [6] [11] [14] [17]
	  /              /
	<1>            <16>

2-3-4 tree like:

	       <8> --- [13] --- <15>
		  /  \             /    \
		 /    \           /      \
	  <1>-[6][11]      [14] <16>-[17]

Each empty slot to root node black depth are equal.
*/
func BlackViolationValidate(tree RBTree) error {
	if blackHeight(tree.Root()) < 0 {
		return infra.NewErrorStack("rbtree black violation")
	}
	return nil
}

// Inorder keys must be non-decreasing. Rotations keep the inorder
// sequence, so duplicated keys may end up on both sides of an equal
// key. Parent links must mirror child links.
func OrderViolationValidate(tree RBTree) error {
	var (
		prev  int
		count int64
		err   error
	)
	var walk func(node RBNode) bool
	walk = func(node RBNode) bool {
		if node == nil {
			return true
		}
		for _, child := range []RBNode{node.Left(), node.Right()} {
			if child != nil && child.Parent() != node {
				err = infra.NewErrorStack("rbtree parent link violation at key " + strconv.Itoa(child.Key()))
				return false
			}
		}
		if !walk(node.Left()) {
			return false
		}
		if count > 0 && node.Key() < prev {
			err = infra.NewErrorStack("rbtree inorder violation at key " + strconv.Itoa(node.Key()))
			return false
		}
		prev = node.Key()
		count++
		return walk(node.Right())
	}
	if walk(tree.Root()); err != nil {
		return err
	}
	if count != tree.Len() {
		return infra.NewErrorStack("rbtree size violation, counted " + strconv.FormatInt(count, 10) +
			" but len is " + strconv.FormatInt(tree.Len(), 10))
	}
	return nil
}

// Validate checks all the rbtree properties and combines the violations.
func Validate(tree RBTree) error {
	return multierr.Combine(
		RootViolationValidate(tree),
		RedViolationValidate(tree),
		BlackViolationValidate(tree),
		OrderViolationValidate(tree),
	)
}
