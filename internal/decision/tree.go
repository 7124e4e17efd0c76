// Package decision builds and walks the binary decision tree that guesses an
// entity by asking yes/no questions about its characteristics.
//
// The tree is rebuilt from the whole knowledge base at the start of every
// round and discarded afterwards:
//
//	root := decision.Build(kb.Entities())
//	res, err := decision.NewWalker(nil).Walk(root, answers)
//
// Each split asks about the characteristic with the highest binomial variance
// over the candidates that reached it, so the questions divide the candidates
// as evenly as possible.
package decision

import "github.com/ShayCichocki/adivina/pkg/models"

// Node is a decision tree node: either a *Leaf or a *Split.
type Node interface {
	node()
}

// Leaf ends a walk. Known is false when no candidate reached this point.
type Leaf struct {
	Answer string
	Known  bool
}

// Split asks about Characteristic and continues on Yes or No.
// Both children are always non-nil.
type Split struct {
	Characteristic string
	Yes            Node
	No             Node
}

func (*Leaf) node()  {}
func (*Split) node() {}

// Build constructs a decision tree over the candidates.
//
// Candidates that cannot be told apart (identical characteristic sets)
// collapse into a single leaf naming the last of them. Partitions keep the
// input order, so the same input always yields the same tree.
func Build(candidates []models.Entity) Node {
	switch len(candidates) {
	case 0:
		return &Leaf{}
	case 1:
		return &Leaf{Answer: candidates[0].Name, Known: true}
	}

	characteristic, ok := SelectSplit(candidates)
	if !ok {
		return &Leaf{Answer: candidates[len(candidates)-1].Name, Known: true}
	}

	var with, without []models.Entity
	for _, e := range candidates {
		if e.Has(characteristic) {
			with = append(with, e)
		} else {
			without = append(without, e)
		}
	}

	return &Split{
		Characteristic: characteristic,
		Yes:            Build(with),
		No:             Build(without),
	}
}

// TreeStats summarizes the shape of a tree.
type TreeStats struct {
	Splits        int
	Leaves        int
	UnknownLeaves int
	// Depth is the largest number of questions asked on any path.
	Depth int
}

// Stats walks the whole tree and reports its shape.
func Stats(root Node) TreeStats {
	var st TreeStats
	var visit func(n Node, depth int)
	visit = func(n Node, depth int) {
		switch n := n.(type) {
		case *Leaf:
			st.Leaves++
			if !n.Known {
				st.UnknownLeaves++
			}
			if depth > st.Depth {
				st.Depth = depth
			}
		case *Split:
			st.Splits++
			visit(n.Yes, depth+1)
			visit(n.No, depth+1)
		}
	}
	visit(root, 0)
	return st
}

// Step is one answered question on a path through the tree.
type Step struct {
	Characteristic string
	Answer         bool
}

// Path is a complete root-to-leaf route.
type Path struct {
	Steps []Step
	Leaf  *Leaf
}

// Answers returns the yes/no answers of the path in order.
func (p Path) Answers() []bool {
	out := make([]bool, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.Answer
	}
	return out
}

// Paths enumerates every root-to-leaf path, yes branches first.
func Paths(root Node) []Path {
	var out []Path
	var visit func(n Node, steps []Step)
	visit = func(n Node, steps []Step) {
		switch n := n.(type) {
		case *Leaf:
			out = append(out, Path{Steps: append([]Step(nil), steps...), Leaf: n})
		case *Split:
			visit(n.Yes, append(steps, Step{Characteristic: n.Characteristic, Answer: true}))
			visit(n.No, append(steps, Step{Characteristic: n.Characteristic, Answer: false}))
		}
	}
	visit(root, nil)
	return out
}
