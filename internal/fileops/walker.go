package fileops

import (
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/litescript/ls-media-shuttle/internal/logger"
)

// IsDir reports whether path exists and is a directory.
func IsDir(fs afero.Fs, path string) bool {
	ok, err := afero.IsDir(fs, path)
	return err == nil && ok
}

// ListFiles returns every file under dir, recursing into subdirectories.
// The result is built eagerly so callers get a stable count.
// A directory that cannot be read contributes nothing; the walk carries on
// with its siblings.
func ListFiles(fs afero.Fs, dir string) []string {
	var out []string
	listFiles(fs, dir, &out)
	return out
}

func listFiles(fs afero.Fs, dir string, out *[]string) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		logger.Debug().Err(err).Str("path", dir).Msg("skipping unreadable directory")
		return
	}

	var dirs []string
	for _, e := range entries {
		p := filepath.Join(dir, e.Name())
		if e.IsDir() {
			dirs = append(dirs, p)
			continue
		}
		*out = append(*out, p)
	}
	for _, d := range dirs {
		listFiles(fs, d, out)
	}
}

// PruneEmpty removes path if it is an empty directory and repeats on each
// parent. It stops at the first non-empty directory, the first removal
// failure, a non-directory, or the filesystem root. A directory that no
// longer exists counts as removed and the walk continues upward.
// It returns the directories it removed.
func PruneEmpty(fs afero.Fs, path string) []string {
	var removed []string
	path = filepath.Clean(path)

	for {
		parent := filepath.Dir(path)
		if parent == path {
			// filesystem root
			return removed
		}

		exists, err := afero.Exists(fs, path)
		if err != nil {
			return removed
		}
		if exists {
			if !IsDir(fs, path) {
				return removed
			}
			empty, err := afero.IsEmpty(fs, path)
			if err != nil || !empty {
				return removed
			}
			if err := fs.Remove(path); err != nil {
				if stillThere, _ := afero.Exists(fs, path); stillThere {
					logger.Debug().Err(err).Str("path", path).Msg("stop pruning")
					return removed
				}
			}
			removed = append(removed, path)
		}

		path = parent
	}
}
