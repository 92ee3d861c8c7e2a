package scaffold

import (
	"time"

	"verbline/internal/target"
	"verbline/internal/template"
)

// Options select what to scaffold and where.
type Options struct {
	Name      string
	Target    target.Target
	OutputDir string
	Force     bool
	DryRun    bool
}

// Result reports what the engine resolved and rendered. Written is
// false for dry runs.
type Result struct {
	Template  template.Template
	Structure ProjectStructure
	Written   bool
}

// Engine runs resolve, render, write as one use case.
type Engine struct {
	Resolver template.Resolver
	Renderer Renderer
	Writer   Writer
	Now      func() time.Time
}

func NewEngine(resolver template.Resolver, renderer Renderer, writer Writer) Engine {
	return Engine{
		Resolver: resolver,
		Renderer: renderer,
		Writer:   writer,
		Now:      time.Now,
	}
}

func (e Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e Engine) Scaffold(opts Options) (Result, error) {
	tmpl, err := e.Resolver.Resolve(opts.Target)
	if err != nil {
		return Result{}, err
	}
	ctx := template.NewRenderContext(opts.Name, e.now())
	structure, err := e.Renderer.Render(tmpl, ctx, opts.OutputDir)
	if err != nil {
		return Result{}, err
	}
	res := Result{Template: tmpl, Structure: structure}
	if opts.DryRun {
		return res, nil
	}
	if err := e.Writer.Write(structure, opts.Force); err != nil {
		return res, err
	}
	res.Written = true
	return res, nil
}
