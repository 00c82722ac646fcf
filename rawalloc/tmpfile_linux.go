//go:build linux

package rawalloc

import (
	"errors"

	"golang.org/x/sys/unix"
)

// openUnnamed opens an anonymous file in dir. O_TMPFILE gives it no
// directory entry at all, and O_EXCL keeps it from ever being linked.
// Filesystems without O_TMPFILE support get a create-and-unlink file.
func openUnnamed(dir string) (int, error) {
	fd, err := unix.Open(dir, unix.O_TMPFILE|unix.O_RDWR|unix.O_EXCL|unix.O_CLOEXEC, 0o600)
	if errors.Is(err, unix.EOPNOTSUPP) || errors.Is(err, unix.EISDIR) {
		return createUnlinked(dir)
	}
	return fd, err
}
