package scaffold

import "fmt"

// Entry is one filesystem object to materialize. Path is already
// joined under the project root.
type Entry struct {
	Path       string
	Dir        bool
	Content    []byte
	Executable bool
}

// ProjectStructure is a fully rendered project tree, ready to write.
type ProjectStructure struct {
	Root    string
	Entries []Entry
}

// InvalidTemplateError reports a template node that cannot be
// rendered, such as an absolute path.
type InvalidTemplateError struct {
	TemplateID string
	Path       string
	Reason     string
}

func (e *InvalidTemplateError) Error() string {
	return fmt.Sprintf("template %s: node %q: %s", e.TemplateID, e.Path, e.Reason)
}

// ProjectExistsError reports a project root that already exists.
type ProjectExistsError struct {
	Path string
}

func (e *ProjectExistsError) Error() string {
	return fmt.Sprintf("project directory %s already exists", e.Path)
}

// WriteError reports the first path that failed during writing.
// Earlier entries stay on disk; the filesystem is not transactional.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
