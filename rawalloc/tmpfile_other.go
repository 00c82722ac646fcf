//go:build unix && !linux

package rawalloc

func openUnnamed(dir string) (int, error) {
	return createUnlinked(dir)
}
