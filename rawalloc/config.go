//go:build unix

package rawalloc

import (
	"log/slog"

	"github.com/mitchellh/go-homedir"
)

// Config configures an Allocator.
type Config struct {
	// Path is the directory the unnamed backing files are created in. On
	// filesystems without O_TMPFILE a named file is created and unlinked
	// straight away.
	Path string

	// Logger receives allocation failures at debug level and fatal unmap
	// failures at error level. Nil discards everything.
	Logger *slog.Logger
}

func (c Config) withDefaults() Config {
	if c.Path == "" {
		c.Path = DefaultPath()
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	return c
}

// DefaultPath returns the user's home directory, or "." when it cannot be
// resolved.
func DefaultPath() string {
	dir, err := homedir.Dir()
	if err != nil || dir == "" {
		return "."
	}
	return dir
}
