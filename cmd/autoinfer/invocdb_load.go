package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/gitrdm/autoinfer/internal/ingest"
	"github.com/gitrdm/autoinfer/internal/invocdb"
	"github.com/gitrdm/autoinfer/internal/oi"
	"github.com/gitrdm/autoinfer/internal/store"
)

// loadedInstance pairs a decoded invocation database with the
// structural template C6/C7/C8 need (the instance's I/A/O shape).
type loadedInstance struct {
	NameIndex string
	Inst      *oi.OpInstance
	DB        *invocdb.DB
}

// loadInvocationDBs reads every "<name_index>.invocdb" file directly
// under dir, honoring --only-instance, and rebuilds each instance's
// structural template from the matching records-dir subdirectory (the
// invocdb file alone has no I/A/O tensor-shape structure — only
// concrete value tuples, per spec §6).
func loadInvocationDBs(dir, recordsDir string, onlyInstance []string) ([]*loadedInstance, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("loadInvocationDBs: read dir %s: %w", dir, err)
	}
	allow := make(map[string]bool, len(onlyInstance))
	for _, n := range onlyInstance {
		allow[n] = true
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".invocdb" {
			continue
		}
		nameIndex := e.Name()[:len(e.Name())-len(".invocdb")]
		if len(allow) > 0 && !allow[nameIndex] {
			continue
		}
		names = append(names, nameIndex)
	}
	sort.Strings(names)

	var out []*loadedInstance
	for _, nameIndex := range names {
		data, err := os.ReadFile(filepath.Join(dir, nameIndex+".invocdb"))
		if err != nil {
			return nil, err
		}
		db, err := store.ReadInvocationDBFile(data)
		if err != nil {
			return nil, err
		}
		db.Analyse()

		template, err := ingest.LoadDir(filepath.Join(recordsDir, nameIndex), oi.IntPolicyFixDim)
		if err != nil {
			return nil, fmt.Errorf("loadInvocationDBs: load template for %s: %w", nameIndex, err)
		}
		out = append(out, &loadedInstance{NameIndex: nameIndex, Inst: template.Inst, DB: db})
	}
	return out, nil
}
