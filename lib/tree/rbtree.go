package tree

import (
	"strconv"

	"go.uber.org/zap"

	"github.com/benz9527/xrbtree/lib/infra"
	"github.com/benz9527/xrbtree/xlog"
)

// The parent link is a back reference for navigation only.
// Children are owned top-down and released root to leaf.
type rbNode struct {
	parent   *rbNode
	children [2]*rbNode
	key      int
	color    RBColor
}

func (node *rbNode) Key() int {
	return node.key
}

func (node *rbNode) Color() RBColor {
	if node == nil {
		return Black
	}
	return node.color
}

func (node *rbNode) Left() RBNode {
	if node == nil || node.children[Left] == nil {
		return nil
	}
	return node.children[Left]
}

func (node *rbNode) Right() RBNode {
	if node == nil || node.children[Right] == nil {
		return nil
	}
	return node.children[Right]
}

func (node *rbNode) Parent() RBNode {
	if node == nil || node.parent == nil {
		return nil
	}
	return node.parent
}

// Empty child slots are black leaves.
func (node *rbNode) isBlack() bool {
	return node == nil || node.color == Black
}

func (node *rbNode) isRed() bool {
	return node != nil && node.color == Red
}

func (node *rbNode) direction() RBDirection {
	if node == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] nil leaf node without direction")
	}

	if node.parent == nil {
		return Root
	}
	if node == node.parent.children[Left] {
		return Left
	}
	return Right
}

func (node *rbNode) minimum() *rbNode {
	aux := node
	for ; aux != nil && aux.children[Left] != nil; aux = aux.children[Left] {
	}
	return aux
}

func (node *rbNode) maximum() *rbNode {
	aux := node
	for ; aux != nil && aux.children[Right] != nil; aux = aux.children[Right] {
	}
	return aux
}

func (node *rbNode) height() int {
	if node == nil {
		return 0
	}
	return 1 + max(node.children[Left].height(), node.children[Right].height())
}

// Keys less than the node key go left, the others (duplicates included) go right.
func keyDirection(key, nodeKey int) RBDirection {
	if key < nodeKey {
		return Left
	}
	return Right
}

type rbTree struct {
	root   *rbNode
	count  int64
	stats  *rbTreeStats
	logger xlog.XLogger
}

func (tree *rbTree) Len() int64 {
	return tree.count
}

func (tree *rbTree) Root() RBNode {
	if tree.root == nil {
		return nil
	}
	return tree.root
}

func (tree *rbTree) IsRootBlack() bool {
	return tree.root.isBlack()
}

func (tree *rbTree) Height() int {
	return tree.root.height()
}

// References:
// Introduction to Algorithms (CLRS), chapter 13.
// rbtree properties:
// https://en.wikipedia.org/wiki/Red%E2%80%93black_tree#Properties
// p1. Every node is either red or black.
// p2. The root is black.
// p3. All empty child slots are considered black.
// p4. A red node does not have a red child. (red-violation)
// p5. Every path from a given node to any of its descendant
//   empty slots goes through the same number of black nodes. (black-violation)
// So the longest path nodes' number is at most 2 * shortest path nodes' number,
// and the height is bounded by 2*log2(n+1).

// transplant replaces u by v in u's parent slot (or the root).
// The children of u and v are left untouched.
func (tree *rbTree) transplant(u, v *rbNode) {
	switch dir := u.direction(); dir {
	case Root:
		tree.root = v
	case Left, Right:
		u.parent.children[dir] = v
	default:
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] unknown node direction to transplant")
	}
	if v != nil {
		v.parent = u.parent
	}
}

// rotate moves x down to the dir side, and x's child on
// the opposite side takes x's position.
func (tree *rbTree) rotate(x *rbNode, dir RBDirection) {
	opp := dir.opposite()
	if x == nil || x.children[opp] == nil {
		// impossible run to here
		panic( /* debug assertion */ "[rbtree] rotate node x is nil or x's rising child is nil")
	}

	y := x.children[opp]
	x.children[opp] = y.children[dir]
	if y.children[dir] != nil {
		y.children[dir].parent = x
	}
	tree.transplant(x, y)
	y.children[dir] = x
	x.parent = y
	tree.stats.IncreaseRotateCount(dir)
}

/*
		 |                         |
		 X                         Y
		/ \     leftRotate(X)     / \
	   L   Y    ============>    X   Yr
		  / \                   / \
		Yl   Yr                L   Yl
*/
func (tree *rbTree) leftRotate(x *rbNode) {
	tree.rotate(x, Left)
}

/*
		   |                         |
		   Y                         X
		  / \     rightRotate(Y)    / \
		 X   R    ============>   Xl   Y
		/ \                           / \
	  Xl   Xr                       Xr   R
*/
func (tree *rbTree) rightRotate(y *rbNode) {
	tree.rotate(y, Right)
}

// i1: Empty rbtree, the new node becomes the root and is painted black
// by the rebalance.
func (tree *rbTree) Insert(key int) {
	var parent *rbNode
	dir := Root
	for aux := tree.root; aux != nil; aux = aux.children[dir] {
		parent = aux
		dir = keyDirection(key, aux.key)
	}

	z := &rbNode{
		key:    key,
		color:  Red,
		parent: parent,
	}
	if /* i1 */ parent == nil {
		tree.root = z
	} else {
		parent.children[dir] = z
	}

	tree.count++
	tree.stats.RecordNodeCount(1)
	tree.insertRebalance(z)
}

/*
New node X is red by default.

<X> is a RED node.
[X] is a BLACK node (or empty).

The loop runs while X's parent P is red. The root is black,
so a red P always has a grandpa G.

im1: The uncle U is red. Repaint P and U into black, G into red.
G may be red-violation now, move X up to G.

	    [G]             <G>
	    / \             / \
	  <P> <U>  ====>  [P] [U]
	  /               /
	<X>             <X>

im2: The uncle U is black and X is the inner grandchild.
Rotate P away from X, then P is the outer grandchild. Enter im3.

	  [G]                 [G]
	  / \    rotate(P)    / \
	<P> [U]  ========>  <X> [U]
	  \                 /
	  <X>             <P>

im3: The uncle U is black and X is the outer grandchild.
Repaint P into black, G into red, rotate G to U's side.

	    [G]                 <P>               [P]
	    / \    rotate(G)    / \    repaint    / \
	  <P> [U]  ========>  <X> [G]  ======>  <X> <G>
	  /                         \                 \
	<X>                         [U]               [U]
*/
func (tree *rbTree) insertRebalance(x *rbNode) {
	for x.parent.isRed() {
		p := x.parent
		gp := p.parent
		if gp == nil {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] red parent without grandpa, violate (im)")
		}

		dir := p.direction()
		uncle := gp.children[dir.opposite()]
		if /* im1 */ uncle.isRed() {
			p.color = Black
			uncle.color = Black
			gp.color = Red
			x = gp
			tree.stats.IncreaseInsertFixUpCount("im1")
			continue
		}

		if /* im2 */ x == p.children[dir.opposite()] {
			x = p
			tree.rotate(x, dir)
			p = x.parent
			tree.stats.IncreaseInsertFixUpCount("im2")
		}

		/* im3 */
		p.color = Black
		gp.color = Red
		tree.rotate(gp, dir.opposite())
		tree.stats.IncreaseInsertFixUpCount("im3")
	}
	tree.root.color = Black
}

func (tree *rbTree) search(key int) *rbNode {
	for aux := tree.root; aux != nil; aux = aux.children[keyDirection(key, aux.key)] {
		if aux.key == key {
			return aux
		}
	}
	return nil
}

func (tree *rbTree) Contains(key int) bool {
	return tree.search(key) != nil
}

func (tree *rbTree) Min() (int, bool) {
	if tree.root == nil {
		return 0, false
	}
	return tree.root.minimum().key, true
}

func (tree *rbTree) Max() (int, bool) {
	if tree.root == nil {
		return 0, false
	}
	return tree.root.maximum().key, true
}

func (tree *rbTree) Delete(key int) error {
	z := tree.search(key)
	if z == nil {
		tree.stats.IncreaseNotFoundCount()
		if tree.logger != nil {
			tree.logger.Warn("[rbtree] delete a key not found", zap.Int("key", key))
		}
		return infra.WrapErrorStackWithMessage(ErrKeyNotFound, "delete key "+strconv.Itoa(key))
	}
	tree.removeNode(z)
	return nil
}

/*
r1: Z has at most one child. The child (maybe empty) X takes Z's position.

r2: Z has both children. Y is the minimum of Z's right subtree (succ).
Y has no left child. X is Y's right child (maybe empty).
(1) Y is Z's right child, X stays under Y.
(2) Otherwise X takes Y's position and Y adopts Z's right subtree.
Then Y takes Z's position, adopts Z's left subtree and Z's color.

	  |                    |
	  Z                    Y
	 / \                  / \
	L   R   remove(Z)    L   R
	   / \  =========>      / \
	  Y  ..                X  ..
	   \
	    X

If the removed (r1) or moved (r2) node was black, the position of X
lost one black node. Rebalance from X.
*/
func (tree *rbTree) removeNode(z *rbNode) {
	var x, xParent *rbNode
	y, originalColor := z, z.color
	switch {
	case /* r1 */ z.children[Left] == nil:
		x, xParent = z.children[Right], z.parent
		tree.transplant(z, x)
	case /* r1 */ z.children[Right] == nil:
		x, xParent = z.children[Left], z.parent
		tree.transplant(z, x)
	default:
		y = z.children[Right].minimum()
		originalColor = y.color
		x = y.children[Right]
		if /* r2 (1) */ y.parent == z {
			xParent = y
		} else /* r2 (2) */ {
			xParent = y.parent
			tree.transplant(y, x)
			y.children[Right] = z.children[Right]
			y.children[Right].parent = y
		}
		tree.transplant(z, y)
		y.children[Left] = z.children[Left]
		y.children[Left].parent = y
		y.color = z.color
	}

	// Unlink node
	z.parent = nil
	z.children = [2]*rbNode{}
	tree.count--
	tree.stats.RecordNodeCount(-1)

	if originalColor == Black {
		tree.removeRebalance(x, xParent)
	}
}

/*
<X> is a RED node.
[X] is a BLACK node (or empty).
{X} is either a RED node or a BLACK node.

X carries an extra black (double black). X may be an empty slot,
so its parent P is tracked alongside. S is X's sibling. Sn is the
nephew on X's side, Sf is the nephew on the far side.
S is never empty here: P's subtree on S's side has a black height
of at least one, otherwise the removal did not unbalance P.

rm1: S is red, so P, Sn and Sf are black.
Repaint S into black, P into red, rotate P to X's side.
X gets a black sibling, enter rm2-rm4.

	  [P]                   [S]
	  / \    rotate(P)      / \
	[X] <S>  ==========>  <P> [Sf]
	    / \               / \
	 [Sn] [Sf]          [X] [Sn]

rm2: S, Sn and Sf are black. Repaint S into red, move the extra
black up to P. A red P absorbs it at the loop exit.

	  {P}             {P}
	  / \             / \
	[X] [S]  ====>  [X] <S>
	    / \             / \
	 [Sn] [Sf]       [Sn] [Sf]

rm3: S is black, Sn is red and Sf is black.
Repaint Sn into black, S into red, rotate S away from X.
X gets a black sibling with a red far nephew, enter rm4.

	  {P}                   {P}
	  / \    rotate(S)      / \
	[X] [S]  ==========>  [X] [Sn]
	    / \                     \
	  <Sn> [Sf]                 <S>
	                              \
	                              [Sf]

rm4: S is black and Sf is red.
Paint S with P's color, P and Sf into black, rotate P to X's side.
The extra black is resolved.

	  {P}                   {S}
	  / \    rotate(P)      / \
	[X] [S]  ==========>  [P] [Sf]
	    / \               / \
	 {Sn} <Sf>          [X] {Sn}
*/
func (tree *rbTree) removeRebalance(x, parent *rbNode) {
	for x != tree.root && x.isBlack() {
		dir := Left
		if x != parent.children[Left] {
			dir = Right
		}

		sibling := parent.children[dir.opposite()]
		if /* rm1 */ sibling.isRed() {
			sibling.color = Black
			parent.color = Red
			tree.rotate(parent, dir)
			sibling = parent.children[dir.opposite()]
			tree.stats.IncreaseRemoveFixUpCount("rm1")
		}

		if sibling == nil {
			// impossible run to here
			panic( /* debug assertion */ "[rbtree] double black node without sibling, violate (rm)")
		}

		near, far := sibling.children[dir], sibling.children[dir.opposite()]
		if /* rm2 */ near.isBlack() && far.isBlack() {
			sibling.color = Red
			x, parent = parent, parent.parent
			tree.stats.IncreaseRemoveFixUpCount("rm2")
			continue
		}

		if /* rm3 */ far.isBlack() {
			near.color = Black
			sibling.color = Red
			tree.rotate(sibling, dir.opposite())
			sibling = parent.children[dir.opposite()]
			far = sibling.children[dir.opposite()]
			tree.stats.IncreaseRemoveFixUpCount("rm3")
		}

		/* rm4 */
		sibling.color = parent.color
		parent.color = Black
		far.color = Black
		tree.rotate(parent, dir)
		x, parent = tree.root, nil
		tree.stats.IncreaseRemoveFixUpCount("rm4")
	}

	if x != nil {
		x.color = Black
	}
}

func release(node *rbNode) int64 {
	if node == nil {
		return 0
	}
	n := release(node.children[Left]) + release(node.children[Right]) + 1
	node.parent = nil
	node.children = [2]*rbNode{}
	return n
}

// Release tears the whole tree down in post-order.
func (tree *rbTree) Release() {
	aux := tree.root
	tree.root = nil
	n := release(aux)
	tree.count -= n
	tree.stats.RecordNodeCount(-n)
	if tree.logger != nil {
		tree.logger.Debug("[rbtree] released", zap.Int64("nodes", n))
	}
}

type RBTreeOpt func(*rbTree)

// WithRBTreeStats enables the otel metrics of the tree.
func WithRBTreeStats(name string) RBTreeOpt {
	return func(tree *rbTree) {
		tree.stats = newRBTreeStats(name)
	}
}

func WithRBTreeLogger(logger xlog.XLogger) RBTreeOpt {
	return func(tree *rbTree) {
		tree.logger = logger
	}
}

func newRBTree(opts ...RBTreeOpt) *rbTree {
	tree := &rbTree{}
	for _, o := range opts {
		if o != nil {
			o(tree)
		}
	}
	return tree
}

func NewRBTree(opts ...RBTreeOpt) RBTree {
	return newRBTree(opts...)
}

// NewRBTreeWithRoot seeds the tree with a single black root.
func NewRBTreeWithRoot(key int, opts ...RBTreeOpt) RBTree {
	tree := newRBTree(opts...)
	tree.root = &rbNode{
		key:   key,
		color: Black,
	}
	tree.count = 1
	tree.stats.RecordNodeCount(1)
	return tree
}
