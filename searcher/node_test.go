package searcher

import (
	"connectfour/game"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

/*
Arena tree:
- expansion: one child per call, lowest untried column first, players alternate
- selection: unvisited child first, max UCB1 child, ties to the lower column,
  terminal nodes are returned as they are
- backup: +1/-1/0 for the player who moved into each node, up to the root
- best child: most visits, then reward ratio, then lower column
- reuse: find a descendant by board and copy its subtree into a new arena
*/

func TestTreeExpand(t *testing.T) {
	t.Run("new tree holds the root with every legal move untried", func(t *testing.T) {
		tr := newTree(game.NewBoard(), game.PlayerX)

		require.Equal(t, 1, tr.size())
		require.Equal(t, nilHandle, tr.nodes[root].parent)
		require.Equal(t, -1, tr.nodes[root].move)
		require.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, tr.nodes[root].untried)
		require.Equal(t, game.PlayerO, tr.nodes[root].mover())
	})

	t.Run("expanding adds the lowest untried column", func(t *testing.T) {
		tr := newTree(game.NewBoard(), game.PlayerX)

		first := tr.expand(root)
		second := tr.expand(root)

		require.Equal(t, []handle{first, second}, tr.nodes[root].children)
		require.Equal(t, 0, tr.nodes[first].move)
		require.Equal(t, 1, tr.nodes[second].move)
		require.Equal(t, []int{2, 3, 4, 5, 6}, tr.nodes[root].untried)
		require.Equal(t, game.PlayerO, tr.nodes[first].player, "Player to move should alternate")
		require.Equal(t, game.PlayerX, tr.nodes[first].board.At(0, 0))
		require.Equal(t, root, tr.nodes[first].parent)
	})

	t.Run("expanding a node without untried moves panics", func(t *testing.T) {
		tr := &tree{nodes: []node{{parent: nilHandle}}}
		require.Panics(t, func() { tr.expand(root) })
	})

	t.Run("winning move creates a terminal child", func(t *testing.T) {
		b := game.MustParseBoard(
			".......",
			".......",
			".......",
			".......",
			"OOO....",
			"XXX....",
		)
		tr := newTree(b, game.PlayerX)
		for i := 0; i < 4; i++ {
			tr.expand(root)
		}
		winning := tr.nodes[root].children[3]

		require.Equal(t, game.XWins, tr.nodes[winning].outcome)
		require.Empty(t, tr.nodes[winning].untried)
	})
}

func TestTreeSelectThenExpand(t *testing.T) {
	t.Run("fresh tree expands the first column", func(t *testing.T) {
		tr := newTree(game.NewBoard(), game.PlayerX)

		leaf, depth := tr.selectThenExpand(2.0)

		require.Equal(t, 1, depth)
		require.Equal(t, 0, tr.nodes[leaf].move)
	})

	t.Run("terminal root is returned as the leaf", func(t *testing.T) {
		b := game.MustParseBoard(
			".......",
			".......",
			".......",
			".......",
			"OOO....",
			"XXXX...",
		)
		tr := newTree(b, game.PlayerO)

		leaf, depth := tr.selectThenExpand(2.0)

		require.Equal(t, root, leaf)
		require.Equal(t, 0, depth)
	})

	t.Run("fully expanded root descends into the best child", func(t *testing.T) {
		tr := newTree(game.NewBoard(), game.PlayerX)
		for i := 0; i < game.Columns; i++ {
			child := tr.expand(root)
			winner := game.None
			if i == 4 { // Column 4 looks best for X
				winner = game.PlayerX
			}
			tr.backup(child, winner)
			tr.backup(child, winner)
		}

		leaf, depth := tr.selectThenExpand(2.0)

		require.Equal(t, 2, depth)
		require.Equal(t, tr.nodes[root].children[4], tr.nodes[leaf].parent)
		require.Equal(t, 0, tr.nodes[leaf].move)
	})
}

func TestTreePickChild(t *testing.T) {
	t.Run("unvisited child is picked before any visited child", func(t *testing.T) {
		tr := &tree{nodes: []node{
			{parent: nilHandle, visits: 3, children: []handle{1, 2, 3}},
			{parent: root, move: 0, visits: 2, rewards: 2},
			{parent: root, move: 1, visits: 0},
			{parent: root, move: 2, visits: 0},
		}}

		require.Equal(t, handle(2), tr.pickChild(root, 2.0))
	})

	t.Run("child with the max UCB1 score is picked", func(t *testing.T) {
		tr := &tree{nodes: []node{
			{parent: nilHandle, visits: 4, children: []handle{1, 2}},
			{parent: root, move: 0, visits: 2, rewards: -2},
			{parent: root, move: 1, visits: 2, rewards: 2},
		}}

		require.Equal(t, handle(2), tr.pickChild(root, 2.0))
	})

	t.Run("ties go to the lower column", func(t *testing.T) {
		tr := &tree{nodes: []node{
			{parent: nilHandle, visits: 6, children: []handle{1, 2, 3}},
			{parent: root, move: 1, visits: 2, rewards: 1},
			{parent: root, move: 3, visits: 2, rewards: 1},
			{parent: root, move: 5, visits: 2, rewards: 1},
		}}

		require.Equal(t, handle(1), tr.pickChild(root, 2.0))
	})

	t.Run("panics when a node has children but no visits", func(t *testing.T) {
		tr := &tree{nodes: []node{
			{parent: nilHandle, children: []handle{1}},
			{parent: root},
		}}

		require.Panics(t, func() { tr.pickChild(root, 2.0) })
	})
}

func TestTreeBackup(t *testing.T) {
	t.Run("rewards alternate with the player who moved into each node", func(t *testing.T) {
		tr := newTree(game.NewBoard(), game.PlayerX)
		child := tr.expand(root)       // X moved into it
		grandchild := tr.expand(child) // O moved into it

		tr.backup(grandchild, game.PlayerX)

		for _, h := range []handle{root, child, grandchild} {
			require.Equal(t, 1, tr.nodes[h].visits)
		}
		require.Equal(t, Win, tr.nodes[child].rewards)
		require.Equal(t, Loss, tr.nodes[grandchild].rewards)
		require.Equal(t, Loss, tr.nodes[root].rewards)
	})

	t.Run("draws only add visits", func(t *testing.T) {
		tr := newTree(game.NewBoard(), game.PlayerX)
		child := tr.expand(root)

		tr.backup(child, game.None)
		tr.backup(child, game.None)

		require.Equal(t, 2, tr.nodes[child].visits)
		require.Equal(t, 0.0, tr.nodes[child].rewards)
		require.Equal(t, 2, tr.nodes[root].visits)
	})
}

func TestTreeBestChild(t *testing.T) {
	tests := []struct {
		name     string
		children []node
		want     handle
	}{
		{
			name: "most visited child wins over a better ratio",
			children: []node{
				{move: 0, visits: 3, rewards: 3},
				{move: 1, visits: 10, rewards: 0},
			},
			want: 2,
		},
		{
			name: "equal visits are broken by the reward ratio",
			children: []node{
				{move: 0, visits: 5, rewards: -1},
				{move: 1, visits: 5, rewards: 2},
				{move: 2, visits: 5, rewards: 1},
			},
			want: 2,
		},
		{
			name: "equal visits and ratios are broken by the lower column",
			children: []node{
				{move: 2, visits: 5, rewards: 1},
				{move: 4, visits: 5, rewards: 1},
			},
			want: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := &tree{nodes: []node{{parent: nilHandle}}}
			for i, child := range tt.children {
				child.parent = root
				tr.nodes = append(tr.nodes, child)
				tr.nodes[root].children = append(tr.nodes[root].children, handle(i+1))
			}

			require.Equal(t, tt.want, tr.bestChild())
		})
	}

	t.Run("panics without children", func(t *testing.T) {
		tr := newTree(game.NewBoard(), game.PlayerX)
		require.Panics(t, func() { tr.bestChild() })
	})
}

func TestTreeReuse(t *testing.T) {
	tr := newTree(game.NewBoard(), game.PlayerX)
	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		leaf, _ := tr.selectThenExpand(2.0)
		n := &tr.nodes[leaf]
		tr.backup(leaf, rollout(n.board, n.player, n.outcome, UniformRollout{}, rng).Winner())
	}
	best := tr.bestChild()
	reply := tr.nodes[best].children[0]
	target := tr.nodes[reply]

	t.Run("finds the node two plies below the root", func(t *testing.T) {
		require.Equal(t, reply, tr.find(target.board, target.player, maxReuseDepth))
		require.Equal(t, root, tr.find(game.NewBoard(), game.PlayerX, maxReuseDepth))
	})

	t.Run("misses boards that were never expanded or lie too deep", func(t *testing.T) {
		require.Equal(t, nilHandle, tr.find(target.board, target.player, 1))

		b := game.NewBoard().Play(0, game.PlayerX).Play(0, game.PlayerO).Play(0, game.PlayerX)
		require.Equal(t, nilHandle, tr.find(b, game.PlayerO, maxReuseDepth))
	})

	t.Run("subtree keeps statistics and renumbers handles", func(t *testing.T) {
		sub := tr.subtree(reply)

		require.Equal(t, countNodes(tr, reply), sub.size())
		require.Equal(t, target.board, sub.nodes[root].board)
		require.Equal(t, target.visits, sub.nodes[root].visits)
		require.Equal(t, target.rewards, sub.nodes[root].rewards)
		require.Equal(t, nilHandle, sub.nodes[root].parent)
		require.Equal(t, -1, sub.nodes[root].move)

		require.Len(t, sub.nodes[root].children, len(target.children))
		for i, c := range sub.nodes[root].children {
			old := tr.nodes[target.children[i]]
			require.Equal(t, root, sub.nodes[c].parent)
			require.Equal(t, old.move, sub.nodes[c].move)
			require.Equal(t, old.visits, sub.nodes[c].visits)
		}
	})
}

func countNodes(tr *tree, h handle) int {
	n := 1
	for _, c := range tr.nodes[h].children {
		n += countNodes(tr, c)
	}
	return n
}
