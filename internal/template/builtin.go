package template

import (
	"embed"
	"fmt"
	"io/fs"
)

//go:embed templates/*.yaml
var builtinFS embed.FS

// BuiltIn parses the bundled template manifests.
func BuiltIn() ([]Template, error) {
	entries, err := fs.ReadDir(builtinFS, "templates")
	if err != nil {
		return nil, err
	}
	var res []Template
	for _, e := range entries {
		data, err := builtinFS.ReadFile("templates/" + e.Name())
		if err != nil {
			return nil, err
		}
		t, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("builtin %s: %w", e.Name(), err)
		}
		res = append(res, t)
	}
	return res, nil
}

// DefaultStore loads the built-ins plus, when templateDir is set, the
// user manifests found there.
func DefaultStore(templateDir string) (*MemoryStore, error) {
	store := NewStore()
	builtins, err := BuiltIn()
	if err != nil {
		return nil, err
	}
	for _, t := range builtins {
		if err := store.Add(t); err != nil {
			return nil, err
		}
	}
	if templateDir != "" {
		users, err := LoadDir(templateDir)
		if err != nil {
			return nil, err
		}
		for _, t := range users {
			if err := store.Add(t); err != nil {
				return nil, err
			}
		}
	}
	return store, nil
}
