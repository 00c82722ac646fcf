//go:build unix

package rawalloc

import (
	"os"

	"golang.org/x/sys/unix"
)

// createUnlinked creates a uniquely named file in dir and unlinks it right
// away, leaving a descriptor to a file nothing else can open by name.
func createUnlinked(dir string) (int, error) {
	f, err := os.CreateTemp(dir, ".rawalloc-*")
	if err != nil {
		return -1, err
	}
	defer f.Close()

	if err := os.Remove(f.Name()); err != nil {
		return -1, err
	}
	return unix.FcntlInt(f.Fd(), unix.F_DUPFD_CLOEXEC, 0)
}
