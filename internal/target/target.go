package target

import "strings"

// Language is a supported project language.
type Language string

const (
	LanguageRust       Language = "rust"
	LanguagePython     Language = "python"
	LanguageTypeScript Language = "typescript"
	LanguageGo         Language = "go"
)

// Languages lists every supported language.
var Languages = []Language{LanguageRust, LanguagePython, LanguageTypeScript, LanguageGo}

func (l Language) String() string { return string(l) }

// ParseLanguage parses a language name or alias, case-insensitively.
func ParseLanguage(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rust", "rs":
		return LanguageRust, nil
	case "python", "py":
		return LanguagePython, nil
	case "typescript", "ts":
		return LanguageTypeScript, nil
	case "go", "golang":
		return LanguageGo, nil
	}
	return "", &UnsupportedLanguageError{Value: s}
}

// DefaultKind is the kind assumed when none is supplied.
func (l Language) DefaultKind() ProjectKind {
	switch l {
	case LanguagePython:
		return KindWebBackend
	case LanguageTypeScript:
		return KindWebFrontend
	default:
		return KindCLI
	}
}

// Supports reports whether l can host a project of the given kind.
func (l Language) Supports(k ProjectKind) bool {
	switch k {
	case KindCLI, KindWorker, KindLibrary, KindWebBackend:
		return true
	case KindWebFrontend:
		return l == LanguageTypeScript
	case KindFullstack:
		return l == LanguagePython || l == LanguageTypeScript
	}
	return false
}

// ProjectKind is the shape of the project being scaffolded.
type ProjectKind string

const (
	KindCLI         ProjectKind = "cli"
	KindWebBackend  ProjectKind = "web-backend"
	KindWebFrontend ProjectKind = "web-frontend"
	KindFullstack   ProjectKind = "fullstack"
	KindWorker      ProjectKind = "worker"
	KindLibrary     ProjectKind = "library"
)

// Kinds lists every project kind.
var Kinds = []ProjectKind{KindCLI, KindWebBackend, KindWebFrontend, KindFullstack, KindWorker, KindLibrary}

func (k ProjectKind) String() string { return string(k) }

// ParseProjectKind parses a kind name or alias, case-insensitively.
func ParseProjectKind(s string) (ProjectKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cli":
		return KindCLI, nil
	case "web-backend", "api", "backend":
		return KindWebBackend, nil
	case "web-frontend", "frontend":
		return KindWebFrontend, nil
	case "fullstack":
		return KindFullstack, nil
	case "worker":
		return KindWorker, nil
	case "library", "lib":
		return KindLibrary, nil
	}
	return "", &UnsupportedProjectKindError{Value: s}
}

// RequiresFramework reports whether projects of this kind need one.
func (k ProjectKind) RequiresFramework() bool {
	switch k {
	case KindWebBackend, KindWebFrontend, KindFullstack:
		return true
	}
	return false
}

// Framework is a web or application framework tied to one language.
type Framework string

const (
	FrameworkAxum    Framework = "axum"
	FrameworkActix   Framework = "actix"
	FrameworkRocket  Framework = "rocket"
	FrameworkFastAPI Framework = "fastapi"
	FrameworkDjango  Framework = "django"
	FrameworkFlask   Framework = "flask"
	FrameworkExpress Framework = "express"
	FrameworkNest    Framework = "nest"
	FrameworkReact   Framework = "react"
	FrameworkVue     Framework = "vue"
	FrameworkNext    Framework = "next"
	FrameworkSvelte  Framework = "svelte"
	FrameworkGin     Framework = "gin"
	FrameworkEcho    Framework = "echo"
)

var frameworkLanguages = map[Framework]Language{
	FrameworkAxum:    LanguageRust,
	FrameworkActix:   LanguageRust,
	FrameworkRocket:  LanguageRust,
	FrameworkFastAPI: LanguagePython,
	FrameworkDjango:  LanguagePython,
	FrameworkFlask:   LanguagePython,
	FrameworkExpress: LanguageTypeScript,
	FrameworkNest:    LanguageTypeScript,
	FrameworkReact:   LanguageTypeScript,
	FrameworkVue:     LanguageTypeScript,
	FrameworkNext:    LanguageTypeScript,
	FrameworkSvelte:  LanguageTypeScript,
	FrameworkGin:     LanguageGo,
	FrameworkEcho:    LanguageGo,
}

var frameworkKinds = map[Framework][]ProjectKind{
	FrameworkAxum:    {KindWebBackend},
	FrameworkActix:   {KindWebBackend},
	FrameworkRocket:  {KindWebBackend},
	FrameworkFastAPI: {KindWebBackend},
	FrameworkDjango:  {KindWebBackend, KindFullstack},
	FrameworkFlask:   {KindWebBackend},
	FrameworkExpress: {KindWebBackend, KindFullstack},
	FrameworkNest:    {KindWebBackend, KindFullstack},
	FrameworkReact:   {KindWebFrontend, KindFullstack},
	FrameworkVue:     {KindWebFrontend, KindFullstack},
	FrameworkNext:    {KindWebFrontend, KindFullstack},
	FrameworkSvelte:  {KindWebFrontend, KindFullstack},
	FrameworkGin:     {KindWebBackend},
	FrameworkEcho:    {KindWebBackend},
}

func (f Framework) String() string { return string(f) }

// ParseFramework parses a framework name, case-insensitively.
func ParseFramework(s string) (Framework, error) {
	name := Framework(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := frameworkLanguages[name]; ok {
		return name, nil
	}
	return "", &UnsupportedFrameworkError{Value: s}
}

// Language returns the language family the framework belongs to.
func (f Framework) Language() Language { return frameworkLanguages[f] }

// IsCompatibleWith reports whether the framework serves the given
// language and kind.
func (f Framework) IsCompatibleWith(l Language, k ProjectKind) bool {
	if frameworkLanguages[f] != l {
		return false
	}
	for _, kind := range frameworkKinds[f] {
		if kind == k {
			return true
		}
	}
	return false
}

// Architecture is the structural style of the scaffolded project.
type Architecture string

const (
	ArchitectureLayered       Architecture = "layered"
	ArchitectureMVC           Architecture = "mvc"
	ArchitectureClean         Architecture = "clean"
	ArchitectureFeatureModule Architecture = "feature-modular"
)

// Architectures lists every architecture.
var Architectures = []Architecture{ArchitectureLayered, ArchitectureMVC, ArchitectureClean, ArchitectureFeatureModule}

func (a Architecture) String() string { return string(a) }

// ParseArchitecture parses an architecture name, case-insensitively.
func ParseArchitecture(s string) (Architecture, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "layered":
		return ArchitectureLayered, nil
	case "mvc":
		return ArchitectureMVC, nil
	case "clean":
		return ArchitectureClean, nil
	case "feature-modular", "feature":
		return ArchitectureFeatureModule, nil
	}
	return "", &UnsupportedArchitectureError{Value: s}
}

// IsCompatibleWith reports whether the architecture fits the language,
// kind and framework. MVC presumes a framework that renders views.
func (a Architecture) IsCompatibleWith(l Language, k ProjectKind, f *Framework) bool {
	if a == ArchitectureMVC {
		return f != nil
	}
	return true
}
