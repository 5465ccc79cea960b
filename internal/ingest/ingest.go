// Package ingest turns a directory of traced per-invocation record
// files (spec §6, "Record file") into one operator instance's
// structural template plus the concrete invocation-DB seed records
// every invocation of that instance contributes, per spec §3's model:
// an OpInstance is built once per concrete invocation, but many
// invocations of the same call site ("name_index") share the same
// I/A/O structure, which this package exposes via a single template
// instance plus the per-invocation value tuples.
package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gitrdm/autoinfer/internal/invocdb"
	"github.com/gitrdm/autoinfer/internal/oi"
	"github.com/gitrdm/autoinfer/internal/store"
)

// Instance is one operator instance's loaded structural template
// (Inst) and the invocation database seeded from every record file
// found in its directory.
type Instance struct {
	NameIndex string
	Inst      *oi.OpInstance
	DB        *invocdb.DB
}

// LoadDir loads every "*.rec" record file directly under dir (one
// operator instance's raw invocations) into an Instance. dir's base
// name becomes the instance's name_index (spec §6, "<name_index>.<ext>").
func LoadDir(dir string, policy oi.IntPolicy) (*Instance, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*.rec"))
	if err != nil {
		return nil, fmt.Errorf("ingest: glob %s: %w", dir, err)
	}
	sort.Strings(matches)
	if len(matches) == 0 {
		return nil, fmt.Errorf("ingest: no record files under %s", dir)
	}

	builder := oi.NewBuilder(policy)
	nameIndex := filepath.Base(dir)
	db := invocdb.New()
	var template *oi.OpInstance

	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("ingest: read %s: %w", path, err)
		}
		rec, err := store.ReadRecordFile(data)
		if err != nil {
			return nil, fmt.Errorf("ingest: decode %s: %w", path, err)
		}
		inst, err := builder.Build(nameIndex, oi.RawRecord{Name: rec.Name, Args: rec.Args, Outputs: rec.Outputs})
		if err != nil {
			return nil, fmt.Errorf("ingest: build %s: %w", path, err)
		}
		if template == nil {
			template = inst
		}

		inputs := make([]*int, 0, len(inst.IA()))
		for _, s := range inst.IA() {
			v, ok := inst.InputSymbToValue[s]
			if !ok {
				inputs = append(inputs, nil)
				continue
			}
			vv := v
			inputs = append(inputs, &vv)
		}
		outputs := make([]*int, 0, len(inst.O()))
		for _, s := range inst.O() {
			v, ok := inst.OutputSymbToValue[s]
			if !ok {
				outputs = append(outputs, nil)
				continue
			}
			vv := v
			outputs = append(outputs, &vv)
		}
		db.Add(inputs, outputs)
	}

	return &Instance{NameIndex: nameIndex, Inst: template, DB: db}, nil
}

// Dirs lists every immediate subdirectory of root — one per operator
// instance — honoring an optional onlyInstance allow-list (spec §6,
// "--only-instance").
func Dirs(root string, onlyInstance []string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("ingest: read dir %s: %w", root, err)
	}
	allow := make(map[string]bool, len(onlyInstance))
	for _, n := range onlyInstance {
		allow[n] = true
	}
	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if len(allow) > 0 && !allow[e.Name()] {
			continue
		}
		dirs = append(dirs, filepath.Join(root, e.Name()))
	}
	sort.Strings(dirs)
	return dirs, nil
}
