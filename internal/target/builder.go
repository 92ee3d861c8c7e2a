package target

// Target is a fully validated project configuration. Framework is nil
// for kinds that need none.
type Target struct {
	Language     Language
	Kind         ProjectKind
	Framework    *Framework
	Architecture Architecture
}

// Validate runs every pair-wise compatibility predicate. Calling it on
// an already-valid target is a no-op.
func (t Target) Validate() error {
	if !t.Language.Supports(t.Kind) {
		return &IncompatibleKindError{Language: t.Language, Kind: t.Kind}
	}
	if t.Framework != nil {
		if t.Framework.Language() != t.Language {
			return &FrameworkLanguageMismatchError{Framework: *t.Framework, Language: t.Language}
		}
		if !t.Framework.IsCompatibleWith(t.Language, t.Kind) {
			return &IncompatibleFrameworkError{Framework: *t.Framework, Kind: t.Kind}
		}
	} else if t.Kind.RequiresFramework() {
		return &FrameworkRequiredError{Language: t.Language, Kind: t.Kind}
	}
	if !t.Architecture.IsCompatibleWith(t.Language, t.Kind, t.Framework) {
		return &IncompatibleArchitectureError{Architecture: t.Architecture, Kind: t.Kind}
	}
	return nil
}

// Builder is the first builder phase. It only accepts a language; the
// remaining fields become reachable on the phase it returns, so a
// target cannot be assembled language-last.
type Builder struct{}

func NewBuilder() *Builder { return &Builder{} }

// Language moves the builder to its second phase.
func (b *Builder) Language(l Language) *BuilderWithLanguage {
	return &BuilderWithLanguage{language: l}
}

// BuilderWithLanguage is the second builder phase. Unset fields are
// inferred in Build.
type BuilderWithLanguage struct {
	language     Language
	kind         *ProjectKind
	framework    *Framework
	architecture *Architecture
}

func (b *BuilderWithLanguage) Kind(k ProjectKind) *BuilderWithLanguage {
	b.kind = &k
	return b
}

func (b *BuilderWithLanguage) Framework(f Framework) *BuilderWithLanguage {
	b.framework = &f
	return b
}

func (b *BuilderWithLanguage) Architecture(a Architecture) *BuilderWithLanguage {
	b.architecture = &a
	return b
}

// Build infers the absent fields and validates the result.
//
// Inference order: kind defaults per language, then framework per
// (language, kind) when the kind requires one, then architecture per
// (language, kind, framework).
func (b *BuilderWithLanguage) Build() (Target, error) {
	kind := b.language.DefaultKind()
	if b.kind != nil {
		kind = *b.kind
	}
	framework := b.framework
	if framework == nil && kind.RequiresFramework() {
		if f, ok := inferFramework(b.language, kind); ok {
			framework = &f
		} else {
			return Target{}, &FrameworkRequiredError{Language: b.language, Kind: kind}
		}
	}
	architecture := inferArchitecture(b.language, kind, framework)
	if b.architecture != nil {
		architecture = *b.architecture
	}
	t := Target{
		Language:     b.language,
		Kind:         kind,
		Framework:    framework,
		Architecture: architecture,
	}
	if err := t.Validate(); err != nil {
		return Target{}, err
	}
	return t, nil
}

func inferFramework(l Language, k ProjectKind) (Framework, bool) {
	switch {
	case l == LanguageRust && k == KindWebBackend:
		return FrameworkAxum, true
	case l == LanguagePython && k == KindWebBackend:
		return FrameworkFastAPI, true
	case l == LanguagePython && k == KindFullstack:
		return FrameworkDjango, true
	case l == LanguageTypeScript && k == KindWebFrontend:
		return FrameworkReact, true
	case l == LanguageTypeScript && k == KindWebBackend:
		return FrameworkExpress, true
	case l == LanguageTypeScript && k == KindFullstack:
		return FrameworkNext, true
	case l == LanguageGo && k == KindWebBackend:
		return FrameworkGin, true
	}
	return "", false
}

func inferArchitecture(l Language, k ProjectKind, f *Framework) Architecture {
	if f != nil && *f == FrameworkDjango && k == KindFullstack {
		return ArchitectureMVC
	}
	if l == LanguageTypeScript && (k == KindWebBackend || k == KindFullstack) {
		return ArchitectureFeatureModule
	}
	return ArchitectureLayered
}
