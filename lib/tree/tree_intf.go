package tree

import (
	"errors"
	"iter"
	"strings"
)

// go install golang.org/x/tools/cmd/stringer@latest

//go:generate stringer -type=RBColor -linecomment
type RBColor uint8

const (
	Black RBColor = iota // BLACK
	Red                  // RED
)

// RBDirection is also the index of the child slot.
type RBDirection int8

const (
	Left RBDirection = iota
	Right
	Root
)

func (dir RBDirection) opposite() RBDirection {
	switch dir {
	case Left:
		return Right
	case Right:
		return Left
	default:
	}
	// impossible run to here
	panic( /* debug assertion */ "[rbtree] root direction has no opposite")
}

type TraverseOrder uint8

const (
	PreOrder TraverseOrder = iota
	InOrder
	PostOrder
	_orderMax
)

func (order TraverseOrder) String() string {
	switch order {
	case PreOrder:
		return "PreOrder"
	case InOrder:
		return "InOrder"
	case PostOrder:
		return "PostOrder"
	default:
	}
	return "Unknown"
}

var (
	ErrKeyNotFound              = errors.New("[rbtree] key not found")
	ErrUnsupportedTraverseOrder = errors.New("[rbtree] unsupported traverse order")
)

func ParseTraverseOrder(order string) (TraverseOrder, error) {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "pre", "preorder":
		return PreOrder, nil
	case "in", "inorder":
		return InOrder, nil
	case "post", "postorder":
		return PostOrder, nil
	default:
	}
	return _orderMax, ErrUnsupportedTraverseOrder
}

type RBNode interface {
	Key() int
	Color() RBColor
	Left() RBNode
	Right() RBNode
	Parent() RBNode
}

// RBTree is not thread-safe. Callers must serialize the access
// if the tree is shared between goroutines.
type RBTree interface {
	Len() int64
	Root() RBNode
	IsRootBlack() bool
	Height() int
	Insert(key int)
	Delete(key int) error
	Contains(key int) bool
	Min() (int, bool)
	Max() (int, bool)
	Traverse(order TraverseOrder) (iter.Seq2[int, RBColor], error)
	Foreach(order TraverseOrder, action func(idx int64, color RBColor, key int) bool) error
	Release()
}
