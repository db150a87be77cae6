package searcher

import (
	"connectfour/game"
	"math"
)

// handle indexes a node in its tree's arena.
type handle int32

const nilHandle handle = -1

const root handle = 0

type node struct {
	board    game.Board
	player   game.Player // Player to move
	move     int         // Column played into this node, -1 at the root
	outcome  game.Outcome
	parent   handle
	children []handle // Ascending column order
	untried  []int    // Legal moves without a child, ascending
	visits   int
	rewards  float64 // Credited to player.Opponent(), who moved into this node
}

// mover is the player whose move led into the node.
func (n *node) mover() game.Player {
	return n.player.Opponent()
}

// tree owns its nodes. Parents hold child handles and children point back
// with a plain handle, so there are no pointer cycles to manage.
type tree struct {
	nodes []node
}

func newTree(board game.Board, player game.Player) *tree {
	t := &tree{nodes: make([]node, 0, 1024)}
	t.add(nilHandle, -1, board, player, board.Evaluate())
	return t
}

func (t *tree) add(parent handle, move int, board game.Board, player game.Player, outcome game.Outcome) handle {
	n := node{
		board:   board,
		player:  player,
		move:    move,
		outcome: outcome,
		parent:  parent,
	}
	if !outcome.Terminal() {
		n.untried = board.LegalMoves()
	}

	h := handle(len(t.nodes))
	t.nodes = append(t.nodes, n)
	if parent != nilHandle {
		t.nodes[parent].children = append(t.nodes[parent].children, h)
	}
	return h
}

func (t *tree) size() int {
	return len(t.nodes)
}

// selectThenExpand descends from the root through fully expanded nodes and
// expands the first node with an untried move. It returns the node to
// simulate from and its depth.
func (t *tree) selectThenExpand(cSquared float64) (handle, int) {
	h := root
	depth := 0
	for {
		n := &t.nodes[h]
		if n.outcome.Terminal() {
			return h, depth
		}
		if len(n.untried) > 0 {
			return t.expand(h), depth + 1
		}
		h = t.pickChild(h, cSquared)
		depth++
	}
}

// expand adds a child for the lowest untried column.
func (t *tree) expand(h handle) handle {
	n := &t.nodes[h]
	if len(n.untried) == 0 {
		panic("expanding a node without untried moves")
	}

	move := n.untried[0]
	n.untried = n.untried[1:]
	board := n.board.Play(move, n.player)
	return t.add(h, move, board, n.player.Opponent(), board.EvaluateMove(move))
}

// pickChild returns the child with the highest UCB1 score. Unvisited children
// come first and ties go to the lower column.
func (t *tree) pickChild(h handle, cSquared float64) handle {
	n := &t.nodes[h]
	if len(n.children) == 0 {
		panic("node has no children")
	}
	if n.visits == 0 {
		panic("node has children but no visits")
	}

	policy := newUCB1(cSquared, n.visits)
	best := nilHandle
	bestScore := math.Inf(-1)
	for _, c := range n.children {
		child := &t.nodes[c]
		if child.visits == 0 {
			return c
		}
		score := policy.score(child.rewards, child.visits)
		if score > bestScore {
			bestScore = score
			best = c
		}
	}
	return best
}

// backup credits the winner to every node from h up to the root. A draw is
// passed as game.None.
func (t *tree) backup(h handle, winner game.Player) {
	for h != nilHandle {
		n := &t.nodes[h]
		n.visits++
		n.rewards += reward(winner, n.mover())
		h = n.parent
	}
}

// bestChild returns the root child with the most visits, then the higher
// reward ratio, then the lower column.
func (t *tree) bestChild() handle {
	children := t.nodes[root].children
	if len(children) == 0 {
		panic("root has no children")
	}

	best := children[0]
	for _, c := range children[1:] {
		if better(&t.nodes[c], &t.nodes[best]) {
			best = c
		}
	}
	return best
}

func better(a, b *node) bool {
	if a.visits != b.visits {
		return a.visits > b.visits
	}
	return ratio(a) > ratio(b)
}

func ratio(n *node) float64 {
	if n.visits == 0 {
		return math.Inf(-1)
	}
	return n.rewards / float64(n.visits)
}

// find looks for a node holding board with player to move, at most depth
// plies below the root.
func (t *tree) find(board game.Board, player game.Player, depth int) handle {
	level := []handle{root}
	for d := 0; d <= depth && len(level) > 0; d++ {
		next := []handle{}
		for _, h := range level {
			n := &t.nodes[h]
			if n.board == board && n.player == player {
				return h
			}
			next = append(next, n.children...)
		}
		level = next
	}
	return nilHandle
}

// subtree copies the nodes below h into a new arena rooted at h. Handles are
// renumbered breadth first so children keep their column order.
func (t *tree) subtree(h handle) *tree {
	type item struct {
		old    handle
		parent handle
	}

	sub := &tree{nodes: make([]node, 0, len(t.nodes))}
	queue := []item{{old: h, parent: nilHandle}}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]

		n := t.nodes[it.old]
		children := n.children
		n.parent = it.parent
		n.children = make([]handle, 0, len(children))

		current := handle(len(sub.nodes))
		sub.nodes = append(sub.nodes, n)
		if it.parent != nilHandle {
			sub.nodes[it.parent].children = append(sub.nodes[it.parent].children, current)
		}
		for _, c := range children {
			queue = append(queue, item{old: c, parent: current})
		}
	}
	sub.nodes[root].move = -1
	return sub
}
