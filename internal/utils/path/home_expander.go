// Package pathutils resolves user-supplied inventory and output paths.
package pathutils

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const tildeConstant = "~"

// HomeDirectoryProvider resolves the current user's home directory path.
type HomeDirectoryProvider func() (string, error)

// HomeExpander replaces a leading "~" with the user's home directory. The home
// directory is resolved once per expander.
type HomeExpander struct {
	provider      HomeDirectoryProvider
	homeDirectory string
	resolveOnce   sync.Once
}

// NewHomeExpander constructs a HomeExpander using the operating system lookup.
func NewHomeExpander() *HomeExpander {
	return NewHomeExpanderWithProvider(os.UserHomeDir)
}

// NewHomeExpanderWithProvider constructs a HomeExpander with a custom provider.
func NewHomeExpanderWithProvider(provider HomeDirectoryProvider) *HomeExpander {
	if provider == nil {
		provider = os.UserHomeDir
	}
	return &HomeExpander{provider: provider}
}

// Expand resolves "~", "~/..." and "~\..." (on Windows) against the home
// directory. Other paths, including "~user", are returned unchanged, as is
// every path when the home directory cannot be resolved.
func (expander *HomeExpander) Expand(candidatePath string) string {
	if expander == nil || !strings.HasPrefix(candidatePath, tildeConstant) {
		return candidatePath
	}

	remainder := strings.TrimPrefix(candidatePath, tildeConstant)
	if len(remainder) > 0 && remainder[0] != '/' && remainder[0] != os.PathSeparator {
		return candidatePath
	}

	homeDirectory := expander.resolveHomeDirectory()
	if len(homeDirectory) == 0 {
		return candidatePath
	}
	return filepath.Join(homeDirectory, remainder)
}

func (expander *HomeExpander) resolveHomeDirectory() string {
	expander.resolveOnce.Do(func() {
		homeDirectory, homeDirectoryError := expander.provider()
		if homeDirectoryError == nil {
			expander.homeDirectory = homeDirectory
		}
	})
	return expander.homeDirectory
}
