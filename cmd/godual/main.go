// Command godual cross-validates GO annotations from a sequence-based and a
// structure-based predictor.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}
