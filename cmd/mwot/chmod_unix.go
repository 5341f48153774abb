//go:build unix

package main

import (
	"os"

	"golang.org/x/sys/unix"
)

// makeExecutable adds execute permission to a regular file for everyone
// the umask allows.
func makeExecutable(f *os.File) error {
	info, err := f.Stat()
	if err != nil {
		return err
	}
	if !info.Mode().IsRegular() {
		return nil
	}
	mask := unix.Umask(0o077)
	unix.Umask(mask)
	return f.Chmod(info.Mode().Perm() | (0o111 &^ os.FileMode(mask)))
}
