package template

import (
	"fmt"
	"strconv"
	"strings"

	"verbline/internal/target"
)

// Node is one entry of a template tree: a directory, or a file with
// content. Paths are relative; both paths and file contents may carry
// {{VAR}} placeholders.
type Node struct {
	Path       string `yaml:"path"`
	Dir        bool   `yaml:"dir,omitempty"`
	Content    string `yaml:"content,omitempty"`
	Executable bool   `yaml:"executable,omitempty"`
}

// Metadata names and versions a template.
type Metadata struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description,omitempty"`
}

// Template is a declarative project recipe.
type Template struct {
	Metadata Metadata
	Matcher  TargetMatcher
	Tree     []Node
}

// ID is the template's stable identity, name@version.
func (t Template) ID() string {
	return fmt.Sprintf("%s@%s", t.Metadata.Name, t.Metadata.Version)
}

// TargetMatcher is a partial pattern over targets. A nil field matches
// anything. Framework is three-valued: nil matches any, a pointer to
// the empty framework requires the target to have none, and a concrete
// value requires that exact framework.
type TargetMatcher struct {
	Language     *target.Language
	Kind         *target.ProjectKind
	Framework    *target.Framework
	Architecture *target.Architecture
}

// Matches reports whether every set field agrees with the target.
func (m TargetMatcher) Matches(t target.Target) bool {
	return m.Distance(t) == 0
}

// Distance counts the set fields that disagree with the target.
func (m TargetMatcher) Distance(t target.Target) int {
	d := 0
	if m.Language != nil && *m.Language != t.Language {
		d++
	}
	if m.Kind != nil && *m.Kind != t.Kind {
		d++
	}
	if m.Framework != nil && !frameworkMatches(*m.Framework, t.Framework) {
		d++
	}
	if m.Architecture != nil && *m.Architecture != t.Architecture {
		d++
	}
	return d
}

func frameworkMatches(want target.Framework, have *target.Framework) bool {
	if want == "" {
		return have == nil
	}
	return have != nil && *have == want
}

// Specificity is the number of set fields. More specific matchers win
// resolution.
func (m TargetMatcher) Specificity() int {
	n := 0
	if m.Language != nil {
		n++
	}
	if m.Kind != nil {
		n++
	}
	if m.Framework != nil {
		n++
	}
	if m.Architecture != nil {
		n++
	}
	return n
}

// compareVersions orders dotted version strings, numeric per part with
// a lexicographic fallback for parts that are not numbers.
func compareVersions(a, b string) int {
	as := strings.Split(a, ".")
	bs := strings.Split(b, ".")
	for i := 0; i < len(as) || i < len(bs); i++ {
		var ap, bp string
		if i < len(as) {
			ap = as[i]
		}
		if i < len(bs) {
			bp = bs[i]
		}
		an, aerr := strconv.Atoi(ap)
		bn, berr := strconv.Atoi(bp)
		if aerr == nil && berr == nil {
			if an != bn {
				if an < bn {
					return -1
				}
				return 1
			}
			continue
		}
		if ap != bp {
			if ap < bp {
				return -1
			}
			return 1
		}
	}
	return 0
}
