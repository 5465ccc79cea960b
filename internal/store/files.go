package store

import (
	"github.com/gitrdm/autoinfer/internal/constraintrules"
	"github.com/gitrdm/autoinfer/internal/graphir"
	"github.com/gitrdm/autoinfer/internal/invocdb"
	"github.com/gitrdm/autoinfer/internal/oi"
	"github.com/gitrdm/autoinfer/internal/shaperules"
	"github.com/gitrdm/autoinfer/internal/tensor"
)

// RecordFile is the decoded form of spec §6's "Record file": one
// traced operator invocation, the source oi.Builder.Build consumes.
type RecordFile struct {
	Name    string
	Args    []oi.RawArg
	Outputs []oi.RawArg
}

func WriteRecordFile(path string, rec RecordFile) error {
	data, err := Encode(KindRecord, rec)
	if err != nil {
		return err
	}
	return WriteAtomic(path, data)
}

func ReadRecordFile(data []byte) (RecordFile, error) {
	var rec RecordFile
	err := Decode(data, KindRecord, &rec)
	return rec, err
}

// InvocationDBFile is the wire form of spec §6's "Invocation DB
// file": `success: set of (input_tuple, output_tuple)`, `fail: set of
// input_tuple`.
type InvocationDBFile struct {
	Success [][2][]*int // [i] = {inputs, outputs}
	Fail    [][]*int
}

// ToDB rebuilds an invocdb.DB from the decoded file.
func (f InvocationDBFile) ToDB() *invocdb.DB {
	db := invocdb.New()
	for _, pair := range f.Success {
		db.Add(pair[0], pair[1])
	}
	for _, inputs := range f.Fail {
		db.Add(inputs, nil)
	}
	return db
}

// InvocationDBFileOf encodes the given database's current success/fail
// sets into the §6 wire form.
func InvocationDBFileOf(db *invocdb.DB) InvocationDBFile {
	var f InvocationDBFile
	for _, r := range db.Success() {
		f.Success = append(f.Success, [2][]*int{r.Inputs, r.Outputs})
	}
	for _, r := range db.Fail() {
		f.Fail = append(f.Fail, r.Inputs)
	}
	return f
}

func WriteInvocationDBFile(path string, db *invocdb.DB) error {
	data, err := Encode(KindInvocationDB, InvocationDBFileOf(db))
	if err != nil {
		return err
	}
	return WriteAtomic(path, data)
}

func ReadInvocationDBFile(data []byte) (*invocdb.DB, error) {
	var f InvocationDBFile
	if err := Decode(data, KindInvocationDB, &f); err != nil {
		return nil, err
	}
	return f.ToDB(), nil
}

// WriteShapeRuleFile persists C6's result verbatim (its fields already
// match spec §6's "Shape-rule file" layout field-for-field).
func WriteShapeRuleFile(path string, result *shaperules.Result) error {
	data, err := Encode(KindShapeRule, result)
	if err != nil {
		return err
	}
	return WriteAtomic(path, data)
}

func ReadShapeRuleFile(data []byte) (*shaperules.Result, error) {
	var res shaperules.Result
	err := Decode(data, KindShapeRule, &res)
	return &res, err
}

// constraintRuleFile is the wire form of spec §6's "Input-constraint
// file": `{ rules: [(string, relation)], tree_tried, time }`, where
// relation is rendered as its external "=", ">", "≥" string rather
// than constraintrules.Rule's internal smt.Relation enum.
type constraintRuleFile struct {
	Rules     [][2]string // [expression, relation]
	TreeTried int
	Time      float64 // seconds
}

func WriteConstraintRuleFile(path string, result *constraintrules.Result) error {
	file := constraintRuleFile{TreeTried: result.TreeTried, Time: result.Time.Seconds()}
	for _, r := range result.Rules {
		file.Rules = append(file.Rules, [2]string{r.Expression, r.Relation.String()})
	}
	data, err := Encode(KindInputConstraint, file)
	if err != nil {
		return err
	}
	return WriteAtomic(path, data)
}

// DialectMatchFile is spec §6's "Dialect-match file": a list of
// integer indices into the dialect-rule registry.
type DialectMatchFile struct {
	Matches []int
}

func WriteDialectMatchFile(path string, matches []int) error {
	data, err := Encode(KindDialectMatch, DialectMatchFile{Matches: matches})
	if err != nil {
		return err
	}
	return WriteAtomic(path, data)
}

func ReadDialectMatchFile(data []byte) (DialectMatchFile, error) {
	var f DialectMatchFile
	err := Decode(data, KindDialectMatch, &f)
	return f, err
}

// ValidityFile is spec §6's "Validity file": `(inference_ok,
// shape_transfer_valid, constraint_valid)`. InferenceFailed implements
// SPEC_FULL.md §C.2's restored two-source failure judgement: an
// operator counts as failed only when no dialect rule matched *and*
// InferenceOK is false.
type ValidityFile struct {
	InferenceOK        bool
	ShapeTransferValid bool
	ConstraintValid    bool
}

// InferenceFailed reports whether the operator should be treated as
// having failed inference entirely, combining this file's
// InferenceOK bit with whether C8 found any dialect match at all.
func (v ValidityFile) InferenceFailed(dialectMatches []int) bool {
	return len(dialectMatches) == 0 && !v.InferenceOK
}

func WriteValidityFile(path string, v ValidityFile) error {
	data, err := Encode(KindValidity, v)
	if err != nil {
		return err
	}
	return WriteAtomic(path, data)
}

func ReadValidityFile(data []byte) (ValidityFile, error) {
	var v ValidityFile
	err := Decode(data, KindValidity, &v)
	return v, err
}

// VarFile is the wire form of one graphir.Var: its shape and dtype
// concretised (generation always finalises every dimension before a
// graph reaches disk, per internal/graphgen's Generate).
type VarFile struct {
	ID    int
	Kind  graphir.VarKind
	Shape []int
	DType tensor.DType
}

// InstructionFile is the wire form of one graphir.Instruction.
type InstructionFile struct {
	Op      string
	Inputs  []int
	Outputs []int
	Attrs   map[string]any
}

// GraphFile is the on-disk form of one generated graph: the finalised
// variable table plus the ordered instruction list component C9
// produced.
type GraphFile struct {
	Vars         []VarFile
	Instructions []InstructionFile
}

// BuildGraphFile flattens a finished graphir.Graph into its wire form,
// resolving each variable's abstract shape to concrete dimensions via
// concreteShape (graphgen.Generator.ConcreteShape).
func BuildGraphFile(g *graphir.Graph, concreteShape func(t tensor.AbsTensor) []int) GraphFile {
	var file GraphFile
	for _, id := range g.VarIDs() {
		v, _ := g.Var(id)
		file.Vars = append(file.Vars, VarFile{
			ID:    v.ID,
			Kind:  v.Kind,
			Shape: concreteShape(v.Tensor),
			DType: v.Tensor.DType,
		})
	}
	for _, inst := range g.Instructions {
		file.Instructions = append(file.Instructions, InstructionFile{
			Op:      inst.Op,
			Inputs:  append([]int(nil), inst.Inputs...),
			Outputs: append([]int(nil), inst.Outputs...),
			Attrs:   inst.Attrs,
		})
	}
	return file
}

func WriteGraphFile(path string, file GraphFile) error {
	data, err := Encode(KindGraph, file)
	if err != nil {
		return err
	}
	return WriteAtomic(path, data)
}

func ReadGraphFile(data []byte) (GraphFile, error) {
	var file GraphFile
	err := Decode(data, KindGraph, &file)
	return file, err
}
