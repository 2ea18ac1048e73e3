// Command ledgerctl administers ledgers directly against the configured
// backend, without going through the API server.
package main

import (
	"fmt"
	"os"
)

func main() {
	root, closeBackend := newRootCmd(openFromEnv)
	err := root.Execute()
	if cerr := closeBackend(); cerr != nil {
		fmt.Fprintln(os.Stderr, "Error: close backend:", cerr)
		if err == nil {
			err = cerr
		}
	}
	if err != nil {
		os.Exit(1)
	}
}
