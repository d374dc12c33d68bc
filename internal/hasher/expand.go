package hasher

import (
	"io/fs"
	"path/filepath"

	"github.com/spf13/afero"
)

// Expand resolves the list of paths to hash. With recursive set, directories
// are replaced by the regular files beneath them in lexical order. Symlinks
// to files are kept, dangling links are kept so the hasher reports them, and
// links to directories are not followed. Otherwise paths pass through
// untouched so directories surface as per-path errors.
func Expand(fsys afero.Fs, paths []string, recursive bool) ([]string, error) {
	if !recursive {
		return append([]string(nil), paths...), nil
	}

	var out []string
	for _, path := range paths {
		info, err := fsys.Stat(path)
		if err != nil || !info.IsDir() {
			// Missing paths are reported by the hasher alongside the rest.
			out = append(out, path)
			continue
		}
		err = afero.Walk(fsys, path, func(p string, info fs.FileInfo, err error) error {
			if err != nil {
				return err
			}
			switch {
			case info.Mode().IsRegular():
				out = append(out, filepath.Clean(p))
			case info.Mode()&fs.ModeSymlink != 0:
				target, statErr := fsys.Stat(p)
				if statErr != nil || !target.IsDir() {
					out = append(out, filepath.Clean(p))
				}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
