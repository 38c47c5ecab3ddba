// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package dag resolves a plan's require/required_by relationships into a
// directed acyclic graph of step handles, keyed by stable index into a flat
// arena (see spec.md §9 "DAG as arena + indices").
package dag

import (
	"fmt"

	lkerrors "github.com/lorikeet-run/lorikeet/pkg/errors"

	"github.com/lorikeet-run/lorikeet/internal/plan"
)

// Node is one step's graph handle: its definition plus the indices of its
// parents and children in the owning Graph's Nodes slice.
type Node struct {
	Index int
	Def   plan.Step

	// Parents must all reach a terminal state before this node may start.
	Parents []int
	// Children are signalled once this node reaches a terminal state.
	Children []int
}

// Graph is the flat arena of step nodes produced by Build, in plan
// declaration order.
type Graph struct {
	Nodes []Node

	// byName maps a step name to its index in Nodes.
	byName map[string]int
}

// IndexOf returns the node index for a step name.
func (g *Graph) IndexOf(name string) (int, bool) {
	idx, ok := g.byName[name]
	return idx, ok
}

// Build constructs a Graph from a parsed plan, performing the steps of
// spec.md §4.3: node table construction, require/required_by unification,
// step-reference implicit dependencies, existence checks (which populate
// parents), cycle detection over those parent edges, and finally children.
func Build(p *plan.Plan) (*Graph, error) {
	g := &Graph{
		Nodes:  make([]Node, len(p.Steps)),
		byName: make(map[string]int, len(p.Steps)),
	}

	for i, step := range p.Steps {
		if _, dup := g.byName[step.Name]; dup {
			return nil, &lkerrors.ValidationError{Field: "name", Message: fmt.Sprintf("duplicate step name %q", step.Name)}
		}
		g.byName[step.Name] = i
		g.Nodes[i] = Node{Index: i, Def: step}
	}

	require := make([]map[string]struct{}, len(g.Nodes))
	for i := range require {
		require[i] = make(map[string]struct{})
	}

	for i, node := range g.Nodes {
		for _, name := range node.Def.Require {
			require[i][name] = struct{}{}
		}
	}

	// Unify required_by into the counterpart's require set.
	for _, node := range g.Nodes {
		for _, name := range node.Def.RequiredBy {
			j, ok := g.byName[name]
			if !ok {
				return nil, &lkerrors.ValidationError{Field: "required_by", Message: fmt.Sprintf("step %q: references unknown step %q", node.Def.Name, name)}
			}
			require[j][node.Def.Name] = struct{}{}
		}
	}

	// A step-reference probe implies require on the referent.
	for i, node := range g.Nodes {
		if node.Def.ProbeKind == plan.ProbeStepRef {
			require[i][node.Def.StepRef] = struct{}{}
		}
	}

	// Verify every referenced name exists and materialize parents.
	for i, node := range g.Nodes {
		for name := range require[i] {
			j, ok := g.byName[name]
			if !ok {
				return nil, &lkerrors.ValidationError{Field: "require", Message: fmt.Sprintf("step %q: references unknown step %q", node.Def.Name, name)}
			}
			g.Nodes[i].Parents = append(g.Nodes[i].Parents, j)
		}
	}

	if err := detectCycle(g); err != nil {
		return nil, err
	}

	for i, node := range g.Nodes {
		for _, parent := range node.Parents {
			g.Nodes[parent].Children = append(g.Nodes[parent].Children, i)
		}
	}

	return g, nil
}

// color tags a node's DFS visitation state for cycle detection.
type color int

const (
	white color = iota // unvisited
	gray               // on the current DFS stack
	black              // fully explored
)

// detectCycle runs a depth-first traversal with visiting/visited coloring;
// a back-edge into a gray node is a cycle.
func detectCycle(g *Graph) error {
	colors := make([]color, len(g.Nodes))

	var visit func(i int) error
	visit = func(i int) error {
		colors[i] = gray
		for _, p := range g.Nodes[i].Parents {
			switch colors[p] {
			case gray:
				return &lkerrors.ValidationError{
					Field:   "require",
					Message: fmt.Sprintf("dependency cycle detected involving step %q", g.Nodes[i].Def.Name),
				}
			case white:
				if err := visit(p); err != nil {
					return err
				}
			}
		}
		colors[i] = black
		return nil
	}

	for i := range g.Nodes {
		if colors[i] == white {
			if err := visit(i); err != nil {
				return err
			}
		}
	}
	return nil
}
