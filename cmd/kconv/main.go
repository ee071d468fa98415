// Command kconv convolves an image with a kernel and benchmarks the chosen
// execution strategy.
//
// Usage:
//
//	kconv --image in.png --kernel gaussian-blur --execution parallel --memory shared \
//	    --output out.png --results results.csv -v
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
