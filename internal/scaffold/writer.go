package scaffold

import (
	"os"
	"path/filepath"
	"sort"
)

const (
	dirPerm        os.FileMode = 0o755
	filePerm       os.FileMode = 0o644
	executablePerm os.FileMode = 0o755
)

// Writer materializes a ProjectStructure on a Filesystem. Directories
// are written before files, lexicographically within each group. A
// failure mid-write leaves earlier entries in place and reports the
// failing path.
type Writer struct {
	FS Filesystem
}

func NewWriter(fs Filesystem) Writer {
	return Writer{FS: fs}
}

func (w Writer) Write(ps ProjectStructure, force bool) error {
	if w.FS.Exists(ps.Root) && !force {
		return &ProjectExistsError{Path: ps.Root}
	}
	if err := w.FS.MkdirAll(ps.Root, dirPerm); err != nil {
		return &WriteError{Path: ps.Root, Err: err}
	}

	entries := make([]Entry, len(ps.Entries))
	copy(entries, ps.Entries)
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Dir != entries[j].Dir {
			return entries[i].Dir
		}
		return entries[i].Path < entries[j].Path
	})

	for _, e := range entries {
		if e.Dir {
			if err := w.FS.MkdirAll(e.Path, dirPerm); err != nil {
				return &WriteError{Path: e.Path, Err: err}
			}
			continue
		}
		if parent := filepath.Dir(e.Path); !w.FS.Exists(parent) {
			if err := w.FS.MkdirAll(parent, dirPerm); err != nil {
				return &WriteError{Path: parent, Err: err}
			}
		}
		perm := filePerm
		if e.Executable {
			perm = executablePerm
		}
		if err := w.FS.WriteFile(e.Path, e.Content, perm); err != nil {
			return &WriteError{Path: e.Path, Err: err}
		}
	}
	return nil
}
