// Command autoinfer runs the shape/constraint rule-mining and graph-
// generation pipeline of spec §6: augment, infer-shapes,
// infer-constraints, match-dialect, and generate.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
