//go:build !unix

package main

import "os"

// makeExecutable is a no-op where files carry no execute permission.
func makeExecutable(f *os.File) error {
	return nil
}
