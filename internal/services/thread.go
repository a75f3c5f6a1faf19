package services

import (
	"github.com/anonto42/microblog/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BuildTree turns a flat, creation-ordered comment list into a reply forest.
//
// Nodes live in one arena slice. The first pass indexes them by id, the
// second links each node under its parent. A comment whose parent is not in
// the list becomes a root. Siblings keep their input order. Every input
// comment appears exactly once in the result.
func BuildTree(comments []models.Comment) []*models.CommentNode {
	nodes := make([]models.CommentNode, len(comments))
	index := make(map[primitive.ObjectID]int, len(comments))
	for i := range comments {
		nodes[i] = models.CommentNode{
			Comment:   comments[i],
			LikeCount: len(comments[i].Likes),
			Children:  []*models.CommentNode{},
		}
		if _, dup := index[comments[i].ID]; !dup {
			index[comments[i].ID] = i
		}
	}

	parent := make([]int, len(nodes))
	for i := range nodes {
		parent[i] = -1
		c := &nodes[i].Comment
		if !c.IsReply() {
			continue
		}
		if p, ok := index[*c.ParentCommentID]; ok && p != i {
			parent[i] = p
		}
	}
	breakCycles(parent)

	roots := make([]*models.CommentNode, 0, len(nodes))
	for i := range nodes {
		if parent[i] < 0 {
			roots = append(roots, &nodes[i])
			continue
		}
		p := &nodes[parent[i]]
		p.Children = append(p.Children, &nodes[i])
	}
	return roots
}

// breakCycles promotes the earliest member of any parent cycle to a root so
// no node becomes unreachable. Stored data cannot form cycles, since a parent
// must exist before its reply, but the builder does not trust its input.
func breakCycles(parent []int) {
	const (
		unseen = iota
		onPath
		done
	)
	state := make([]int, len(parent))
	path := make([]int, 0, 8)
	for start := range parent {
		path = path[:0]
		cur := start
		for cur >= 0 && state[cur] == unseen {
			state[cur] = onPath
			path = append(path, cur)
			cur = parent[cur]
		}
		if cur >= 0 && state[cur] == onPath {
			earliest := cur
			for next := parent[cur]; next != cur; next = parent[next] {
				if next < earliest {
					earliest = next
				}
			}
			parent[earliest] = -1
		}
		for _, n := range path {
			state[n] = done
		}
	}
}

// walkTree visits every node of the forest, parents before children.
func walkTree(roots []*models.CommentNode, visit func(*models.CommentNode)) {
	stack := make([]*models.CommentNode, 0, len(roots))
	for i := len(roots) - 1; i >= 0; i-- {
		stack = append(stack, roots[i])
	}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		visit(n)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
}
