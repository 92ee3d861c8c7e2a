package scaffold

import (
	"log"
	"path/filepath"
	"regexp"
	"strings"

	"verbline/internal/template"
)

var placeholderRe = regexp.MustCompile(`\{\{([A-Za-z0-9_]+)\}\}`)

// Renderer turns a template plus a render context into a concrete
// ProjectStructure. Unknown placeholders are kept verbatim and logged.
type Renderer struct {
	Logger *log.Logger
}

// Render substitutes placeholders in every node path and file content
// and roots the tree at outputDir/<PROJECT_NAME_KEBAB>.
func (r Renderer) Render(tmpl template.Template, ctx template.RenderContext, outputDir string) (ProjectStructure, error) {
	root := filepath.Join(outputDir, ctx["PROJECT_NAME_KEBAB"])
	ps := ProjectStructure{Root: root}
	for _, node := range tmpl.Tree {
		if node.Path == "" {
			return ProjectStructure{}, &InvalidTemplateError{TemplateID: tmpl.ID(), Path: node.Path, Reason: "empty path"}
		}
		rendered := r.substitute(tmpl.ID(), node.Path, ctx)
		if filepath.IsAbs(node.Path) || filepath.IsAbs(rendered) {
			return ProjectStructure{}, &InvalidTemplateError{TemplateID: tmpl.ID(), Path: node.Path, Reason: "absolute path"}
		}
		if strings.HasPrefix(filepath.Clean(rendered), "..") {
			return ProjectStructure{}, &InvalidTemplateError{TemplateID: tmpl.ID(), Path: node.Path, Reason: "path escapes project root"}
		}
		entry := Entry{
			Path:       filepath.Join(root, rendered),
			Dir:        node.Dir,
			Executable: node.Executable,
		}
		if !node.Dir {
			entry.Content = []byte(r.substitute(tmpl.ID(), node.Content, ctx))
		}
		ps.Entries = append(ps.Entries, entry)
	}
	return ps, nil
}

func (r Renderer) substitute(templateID, s string, ctx template.RenderContext) string {
	return placeholderRe.ReplaceAllStringFunc(s, func(m string) string {
		key := placeholderRe.FindStringSubmatch(m)[1]
		if v, ok := ctx[key]; ok {
			return v
		}
		if r.Logger != nil {
			r.Logger.Printf("template %s: unknown variable %s left as-is", templateID, key)
		}
		return m
	})
}
