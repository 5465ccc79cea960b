// Package graphgen implements the graph generator of spec §4.8
// (component C9): grows a graphir.Graph by repeatedly inserting
// operator instructions — forward from existing variables, backward
// from a live placeholder, matched against recorded invocations, or
// picked from the dialect-rule registry — until a node-count or
// wall-clock bound is reached, then finalises every remaining
// placeholder as a graph input or constant.
//
// Grounded on pkg/minikanren/search.go/strategy.go/labeling.go in the
// teacher: the teacher's depth-bounded goal search with a
// variable-ordering heuristic becomes this package's node-count-bounded
// instruction search with a method-selection heuristic (spec §4.8's
// ⅓/⅓/⅓ hybrid split plays the role the teacher's labeling strategy
// plays for variable selection).
//
// Scope note (see DESIGN.md): this implementation resolves every
// tensor dimension to a concrete value at the moment it is
// introduced, validated through the bounded-domain C2 adapter (the
// size-cap and positivity constraints of spec §4.8 are genuine
// smt.Engine.CheckSat calls). A fully deferred symbolic mode that
// keeps dimensions unresolved across many chained insertions would
// need an SMT adapter that accumulates an unbounded conjunction
// across the whole graph; C2's bounded-domain adapter is documented
// as not attempting that (internal/smt's package doc), so "symbolic"
// and "concolic" generation converge on immediate concretisation here
// — spec §4.8 already permits this for concolic mode explicitly.
package graphgen

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/gitrdm/autoinfer/internal/config"
	"github.com/gitrdm/autoinfer/internal/dialect"
	"github.com/gitrdm/autoinfer/internal/errs"
	"github.com/gitrdm/autoinfer/internal/graphir"
	"github.com/gitrdm/autoinfer/internal/smt"
	"github.com/gitrdm/autoinfer/internal/symbol"
	"github.com/gitrdm/autoinfer/internal/tensor"
)

// Method selects the insertion strategy Generate uses at each step
// (spec §4.8, "Generation modes").
type Method int

const (
	Symbolic Method = iota
	Concolic
	RecordMatchedForward
	RecordMatchedBackward
	Hybrid
)

func (m Method) String() string {
	switch m {
	case Symbolic:
		return "symbolic"
	case Concolic:
		return "concolic"
	case RecordMatchedForward:
		return "record-matched-forward"
	case RecordMatchedBackward:
		return "record-matched-backward"
	default:
		return "hybrid"
	}
}

// RecordFinder is the collaborator spec §4.8's record-matched mode
// scans: an operator whose exact input tuple appears in the graph
// (forward), or whose output tuple matches a live placeholder
// (backward). A nil RecordFinder disables record-matched attempts
// (spec §4.8's "record_finder | ⊥").
type RecordFinder interface {
	MatchForward(inputs []tensor.AbsTensor) (op string, outputs []tensor.AbsTensor, ok bool)
	MatchBackward(target tensor.AbsTensor) (op string, inputs []tensor.AbsTensor, ok bool)
}

// Generator holds one C9 run's mutable state: the growing graph, the
// symbol->value model accumulated so far, and a seeded RNG (spec §5:
// "no shared mutable state across generators").
type Generator struct {
	cfg    *config.Config
	engine *smt.Engine
	rng    *rand.Rand
	finder RecordFinder

	graph     *graphir.Graph
	model     map[int]int
	resolved  map[int]bool
	dimSeq    int
}

// New builds a Generator seeded for reproducibility (spec §5:
// "given the same seed, the graph generator produces the same
// sequence of insertions").
func New(cfg *config.Config, seed int64, finder RecordFinder) *Generator {
	return &Generator{
		cfg:      cfg,
		engine:   smt.NewEngine(1<<6, 8, cfg.SolverTimeout),
		rng:      rand.New(rand.NewSource(seed)),
		finder:   finder,
		graph:    graphir.New(),
		model:    make(map[int]int),
		resolved: make(map[int]bool),
	}
}

func (g *Generator) newDim() symbol.Symbol {
	s := symbol.New(symbol.Output, g.dimSeq)
	g.dimSeq++
	return s
}

// Generate runs the insertion loop for the given method until
// maxNodes, timeout, or maxNodes consecutive failed attempts (spec
// §4.8, "Termination"), then finalises the graph.
func (g *Generator) Generate(ctx context.Context, method Method, maxNodes int, timeout time.Duration) (*graphir.Graph, error) {
	deadline := time.Now().Add(timeout)
	g.seed()

	consecutiveFails := 0
	for g.graph.NodeCount() < maxNodes {
		select {
		case <-ctx.Done():
			return g.finalize(), nil
		default:
		}
		if time.Now().After(deadline) {
			break
		}

		ok := g.attempt(ctx, g.pick(method))
		if ok {
			consecutiveFails = 0
		} else {
			consecutiveFails++
			if consecutiveFails >= maxNodes {
				break
			}
		}
	}
	return g.finalize(), nil
}

// pick resolves a method to a concrete insertion strategy for one
// step, applying the hybrid ⅓/⅓/⅓ split of spec §4.8.
func (g *Generator) pick(method Method) Method {
	if method != Hybrid {
		return method
	}
	switch g.rng.Intn(3) {
	case 0:
		return RecordMatchedForward
	case 1:
		return Symbolic
	default:
		return Concolic
	}
}

func (g *Generator) attempt(ctx context.Context, method Method) bool {
	switch method {
	case RecordMatchedForward:
		if g.finder != nil && g.forwardRecordMatched(ctx) {
			return true
		}
		return g.forwardDialect(ctx)
	case RecordMatchedBackward:
		if g.finder != nil && g.backwardRecordMatched(ctx) {
			return true
		}
		return g.backwardDialect(ctx)
	case Concolic, Symbolic:
		if g.rng.Intn(2) == 0 {
			return g.forwardDialect(ctx)
		}
		return g.backwardDialect(ctx)
	default:
		return g.forwardDialect(ctx)
	}
}

// seed ensures the graph starts with at least one variable so forward
// insertion has something to consume.
func (g *Generator) seed() {
	if len(g.graph.Placeholders()) > 0 || g.dimSeq > 0 {
		return
	}
	rank := 1 + g.rng.Intn(3)
	shape := make([]symbol.Symbol, rank)
	for i := range shape {
		shape[i] = g.newDim()
	}
	g.graph.NewPlaceholder(tensor.NewAbsTensor(shape, tensor.Float32))
}

// capFormula builds the size-cap/positivity formula of spec §4.8 over
// every dimension symbol of tensors, honoring any value already fixed
// in g.model.
func (g *Generator) capFormula(tensors ...tensor.AbsTensor) smt.Formula {
	var free []int
	for _, t := range tensors {
		for _, s := range t.Shape {
			if !g.resolved[s.Index] {
				free = append(free, s.Index)
			}
		}
	}
	cap := g.cfg.MaxElemPerTensor
	lookup := func(values map[int]int, idx int) int {
		if v, ok := g.model[idx]; ok {
			return v
		}
		return values[idx]
	}
	return smt.Formula{
		FreeVars: free,
		Eval: func(values map[int]int) bool {
			for _, t := range tensors {
				product := 1
				for _, s := range t.Shape {
					v := lookup(values, s.Index)
					if v <= 0 {
						return false
					}
					product *= v
				}
				if product > cap {
					return false
				}
			}
			return true
		},
	}
}

// resolve runs capFormula through the C2 adapter and merges the
// resulting model into g.model, returning an error wrapping
// errs.ConstraintError if no satisfying assignment was found.
func (g *Generator) resolve(ctx context.Context, tensors ...tensor.AbsTensor) error {
	formula := g.capFormula(tensors...)
	if len(formula.FreeVars) == 0 {
		return nil
	}
	result, model, err := g.engine.CheckSat(ctx, formula)
	if err != nil {
		return err
	}
	if result != smt.Sat {
		return fmt.Errorf("graphgen: insertion unsatisfiable under size cap: %w", errs.ConstraintError)
	}
	for idx, v := range model {
		g.model[idx] = v
		g.resolved[idx] = true
	}
	return nil
}

// Model returns the symbol->value assignment accumulated so far,
// keyed by symbol.Symbol.Index (every dimension Generate introduces
// lives in the Output namespace, per newDim).
func (g *Generator) Model() map[int]int {
	out := make(map[int]int, len(g.model))
	for k, v := range g.model {
		out[k] = v
	}
	return out
}

// ConcreteShape resolves an abstract tensor's shape against the
// generator's accumulated model, for callers serialising the finished
// graph (spec §6's generated-graph file has no use for symbolic
// shapes once Generate has finalised every dimension).
func (g *Generator) ConcreteShape(t tensor.AbsTensor) []int {
	shape := make([]int, len(t.Shape))
	for i, s := range t.Shape {
		shape[i] = g.model[s.Index]
	}
	return shape
}

func (g *Generator) concreteOf(t tensor.AbsTensor) dialect.ConcreteTensor {
	shape := make([]int, len(t.Shape))
	for i, s := range t.Shape {
		shape[i] = g.model[s.Index]
	}
	return dialect.ConcreteTensor{Shape: shape, DType: t.DType}
}

// forwardDialect picks a random dialect-registry class and existing
// variables to feed it, validates the result via C2, and appends a
// forward instruction on success (spec §4.8, "Forward insert").
func (g *Generator) forwardDialect(ctx context.Context) bool {
	ids := g.liveVarIDs()
	if len(ids) == 0 {
		return false
	}
	classes := g.rng.Perm(len(dialect.Registry))
	for _, ci := range classes {
		class := dialect.Registry[ci]
		n := class.NInput()
		if n > len(ids) {
			continue
		}
		chosen := g.chooseVars(ids, n)
		tensors := make([]tensor.AbsTensor, n)
		for i, id := range chosen {
			v, _ := g.graph.Var(id)
			tensors[i] = v.Tensor
		}
		if err := g.resolve(ctx, tensors...); err != nil {
			continue
		}
		inputs := make([]dialect.ConcreteTensor, n)
		for i, t := range tensors {
			inputs[i] = g.concreteOf(t)
		}
		rejected := false
		for _, req := range class.Requires(inputs) {
			if !req {
				rejected = true
				break
			}
		}
		if rejected {
			continue
		}
		outputs, err := class.TypeTransfer(inputs)
		if err != nil {
			continue
		}
		outTensors := make([]tensor.AbsTensor, len(outputs))
		for i, out := range outputs {
			shape := make([]symbol.Symbol, len(out.Shape))
			for j, dim := range out.Shape {
				s := g.newDim()
				g.model[s.Index] = dim
				g.resolved[s.Index] = true
				shape[j] = s
			}
			outTensors[i] = tensor.NewAbsTensor(shape, out.DType)
		}
		g.graph.AppendForward(class.Name(), chosen, outTensors, nil)
		return true
	}
	return false
}

// backwardDialect picks a live placeholder and a dialect class whose
// (heuristic) inverse shape function can explain it, then appends a
// backward instruction (spec §4.8, "Backward insert").
func (g *Generator) backwardDialect(ctx context.Context) bool {
	placeholders := g.graph.Placeholders()
	if len(placeholders) == 0 {
		return false
	}
	targetID := placeholders[g.rng.Intn(len(placeholders))]
	target, _ := g.graph.Var(targetID)
	if err := g.resolve(ctx, target.Tensor); err != nil {
		return false
	}
	concreteTarget := g.concreteOf(target.Tensor)

	classes := g.rng.Perm(len(dialect.Registry))
	for _, ci := range classes {
		class := dialect.Registry[ci]
		if class.NOutput() != 1 {
			continue
		}
		inputShapes := inverseShapes(class, concreteTarget)
		if inputShapes == nil {
			continue
		}
		inputTensors := make([]tensor.AbsTensor, len(inputShapes))
		for i, shape := range inputShapes {
			syms := make([]symbol.Symbol, len(shape))
			for j, dim := range shape {
				s := g.newDim()
				g.model[s.Index] = dim
				g.resolved[s.Index] = true
				syms[j] = s
			}
			inputTensors[i] = tensor.NewAbsTensor(syms, target.Tensor.DType)
		}
		g.graph.AppendBackward(class.Name(), inputTensors, []int{targetID}, nil)
		g.graph.RetirePlaceholder(targetID)
		return true
	}
	return false
}

// inverseShapes returns plausible concrete input shapes a dialect
// class could have produced the given concrete output from. This is
// a heuristic: the registry's RuleClass interface only exposes the
// forward TypeTransfer direction, so backward insertion picks the
// simplest input shape(s) consistent with each class's known shape
// relationship rather than inverting TypeTransfer in general.
func inverseShapes(class dialect.RuleClass, target dialect.ConcreteTensor) [][]int {
	switch class.(type) {
	case dialect.ElementWiseUnary, dialect.Triu, dialect.Tril:
		if target.Rank() < 1 {
			return nil
		}
		return [][]int{append([]int(nil), target.Shape...)}
	case dialect.Transpose2D:
		if target.Rank() < 2 {
			return nil
		}
		shape := append([]int(nil), target.Shape...)
		n := len(shape)
		shape[n-1], shape[n-2] = shape[n-2], shape[n-1]
		return [][]int{shape}
	case dialect.BcastBinary:
		return [][]int{append([]int(nil), target.Shape...), append([]int(nil), target.Shape...)}
	default:
		return nil
	}
}

// forwardRecordMatched attempts the record-matched forward insertion
// of spec §4.8 using g.finder.
func (g *Generator) forwardRecordMatched(ctx context.Context) bool {
	ids := g.liveVarIDs()
	if len(ids) == 0 {
		return false
	}
	n := 1 + g.rng.Intn(min(2, len(ids)))
	chosen := g.chooseVars(ids, n)
	tensors := make([]tensor.AbsTensor, n)
	for i, id := range chosen {
		v, _ := g.graph.Var(id)
		tensors[i] = v.Tensor
	}
	op, outputs, ok := g.finder.MatchForward(tensors)
	if !ok {
		return false
	}
	if err := g.resolve(ctx, outputs...); err != nil {
		return false
	}
	g.graph.AppendForward(op, chosen, outputs, nil)
	return true
}

// backwardRecordMatched attempts the record-matched backward
// insertion of spec §4.8 using g.finder.
func (g *Generator) backwardRecordMatched(ctx context.Context) bool {
	placeholders := g.graph.Placeholders()
	if len(placeholders) == 0 {
		return false
	}
	targetID := placeholders[g.rng.Intn(len(placeholders))]
	target, _ := g.graph.Var(targetID)
	op, inputs, ok := g.finder.MatchBackward(target.Tensor)
	if !ok {
		return false
	}
	if err := g.resolve(ctx, inputs...); err != nil {
		return false
	}
	g.graph.AppendBackward(op, inputs, []int{targetID}, nil)
	g.graph.RetirePlaceholder(targetID)
	return true
}

// liveVarIDs returns every variable ID introduced so far.
func (g *Generator) liveVarIDs() []int {
	return g.graph.VarIDs()
}

func (g *Generator) chooseVars(ids []int, n int) []int {
	if n >= len(ids) {
		out := append([]int(nil), ids...)
		for len(out) < n {
			out = append(out, ids[g.rng.Intn(len(ids))])
		}
		return out
	}
	perm := g.rng.Perm(len(ids))
	out := make([]int, n)
	for i := 0; i < n; i++ {
		out[i] = ids[perm[i]]
	}
	return out
}

// finalize promotes at least one placeholder to a graph input (spec
// §4.8, "Graph finalisation"), independently designates every other
// remaining placeholder as an input or a constant, and assigns any
// still-unresolved dimension a small positive random value.
func (g *Generator) finalize() *graphir.Graph {
	placeholders := g.graph.Placeholders()
	for i, id := range placeholders {
		if i == 0 {
			g.graph.PromoteInput(id)
			continue
		}
		if g.rng.Intn(2) == 0 {
			g.graph.PromoteInput(id)
		} else {
			g.graph.PromoteConst(id)
		}
	}
	for idx := 0; idx < g.dimSeq; idx++ {
		if !g.resolved[idx] {
			g.model[idx] = 1 + g.rng.Intn(8)
			g.resolved[idx] = true
		}
	}
	return g.graph
}
