// Package graphir implements the Graph IR spec §4.8 (component C9)
// builds up: instructions over live tensor variables, with a
// placeholder pool that gets resolved to graph inputs or constants at
// finalisation time.
package graphir

import (
	"fmt"
	"sort"

	"github.com/gitrdm/autoinfer/internal/tensor"
)

// VarKind tags what role a Var currently plays in the graph.
type VarKind int

const (
	// VarPlaceholder is a live, not-yet-finalised variable: it leaves
	// this state when a backward insertion retires it, or when graph
	// finalisation promotes it to a graph input or a constant.
	VarPlaceholder VarKind = iota
	// VarInput is a graph input, fed at execution time.
	VarInput
	// VarConst is a graph constant, baked into the IR.
	VarConst
	// VarComputed is an instruction's output, produced by the graph
	// itself.
	VarComputed
)

// Var is one tensor-valued variable in the graph: either a live
// placeholder, a finalised input/constant, or an instruction's
// output.
type Var struct {
	ID     int
	Kind   VarKind
	Tensor tensor.AbsTensor
}

func (v Var) String() string {
	return fmt.Sprintf("v%d<%s>", v.ID, v.Tensor)
}

// Instruction is one operator application recorded by a forward or
// backward insertion (spec §4.8).
type Instruction struct {
	Op      string
	Inputs  []int // Var IDs, use sites
	Outputs []int // Var IDs, def sites
	Attrs   map[string]any
}

// Graph is the growing IR spec §4.8 describes: the ordered
// instruction list plus every variable ever introduced, keyed by ID.
type Graph struct {
	vars         map[int]*Var
	nextVarID    int
	Instructions []Instruction
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{vars: make(map[int]*Var)}
}

// NewPlaceholder introduces a fresh live placeholder variable of the
// given abstract tensor shape and returns its ID.
func (g *Graph) NewPlaceholder(t tensor.AbsTensor) int {
	id := g.nextVarID
	g.nextVarID++
	g.vars[id] = &Var{ID: id, Kind: VarPlaceholder, Tensor: t}
	return id
}

// Var looks up a variable by ID.
func (g *Graph) Var(id int) (*Var, bool) {
	v, ok := g.vars[id]
	return v, ok
}

// VarIDs returns every variable ID introduced so far, in ascending
// order, regardless of kind.
func (g *Graph) VarIDs() []int {
	out := make([]int, 0, len(g.vars))
	for id := range g.vars {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}

// Placeholders returns the IDs of every variable still in
// VarPlaceholder state, in ascending ID order.
func (g *Graph) Placeholders() []int {
	var out []int
	for id, v := range g.vars {
		if v.Kind == VarPlaceholder {
			out = append(out, id)
		}
	}
	sort.Ints(out)
	return out
}

// AppendForward records a forward-insertion instruction: op consumes
// inputIDs and produces fresh VarComputed outputs of the given
// tensors, returning their new IDs.
func (g *Graph) AppendForward(op string, inputIDs []int, outputs []tensor.AbsTensor, attrs map[string]any) []int {
	outIDs := make([]int, len(outputs))
	for i, t := range outputs {
		id := g.nextVarID
		g.nextVarID++
		g.vars[id] = &Var{ID: id, Kind: VarComputed, Tensor: t}
		outIDs[i] = id
	}
	g.Instructions = append(g.Instructions, Instruction{Op: op, Inputs: inputIDs, Outputs: outIDs, Attrs: attrs})
	return outIDs
}

// AppendBackward records a backward-insertion instruction: op
// produces the already-live placeholder outputs named by
// placeholderIDs, consuming freshly created VarPlaceholder inputs of the
// given tensors (which the op's own inputs then become, per spec
// §4.8's "create fresh placeholder variables sized to the op's
// inferred input ranks"). The satisfied placeholders are retired
// (promoted out of VarPlaceholder) by the caller via RetirePlaceholder.
func (g *Graph) AppendBackward(op string, inputs []tensor.AbsTensor, placeholderIDs []int, attrs map[string]any) []int {
	inIDs := make([]int, len(inputs))
	for i, t := range inputs {
		id := g.nextVarID
		g.nextVarID++
		g.vars[id] = &Var{ID: id, Kind: VarPlaceholder, Tensor: t}
		inIDs[i] = id
	}
	g.Instructions = append(g.Instructions, Instruction{Op: op, Inputs: inIDs, Outputs: placeholderIDs, Attrs: attrs})
	return inIDs
}

// RetirePlaceholder reassigns a placeholder's kind to VarComputed,
// marking it as satisfied by a backward insertion's output.
func (g *Graph) RetirePlaceholder(id int) {
	if v, ok := g.vars[id]; ok && v.Kind == VarPlaceholder {
		v.Kind = VarComputed
	}
}

// PromoteInput reassigns a still-live placeholder to VarInput.
func (g *Graph) PromoteInput(id int) {
	if v, ok := g.vars[id]; ok {
		v.Kind = VarInput
	}
}

// PromoteConst reassigns a still-live placeholder to VarConst.
func (g *Graph) PromoteConst(id int) {
	if v, ok := g.vars[id]; ok {
		v.Kind = VarConst
	}
}

// NodeCount returns the number of instructions appended so far, the
// quantity spec §4.8's max_nodes termination bound counts against.
func (g *Graph) NodeCount() int { return len(g.Instructions) }

