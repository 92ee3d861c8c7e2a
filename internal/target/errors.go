package target

import "fmt"

type UnsupportedLanguageError struct {
	Value string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language %q", e.Value)
}

type UnsupportedProjectKindError struct {
	Value string
}

func (e *UnsupportedProjectKindError) Error() string {
	return fmt.Sprintf("unsupported project kind %q", e.Value)
}

type UnsupportedFrameworkError struct {
	Value string
}

func (e *UnsupportedFrameworkError) Error() string {
	return fmt.Sprintf("unsupported framework %q", e.Value)
}

type UnsupportedArchitectureError struct {
	Value string
}

func (e *UnsupportedArchitectureError) Error() string {
	return fmt.Sprintf("unsupported architecture %q", e.Value)
}

// FrameworkLanguageMismatchError reports a framework that belongs to a
// different language family than the target's.
type FrameworkLanguageMismatchError struct {
	Framework Framework
	Language  Language
}

func (e *FrameworkLanguageMismatchError) Error() string {
	return fmt.Sprintf("framework %s is not available for language %s", e.Framework, e.Language)
}

// FrameworkRequiredError reports a kind that needs a framework when
// none was supplied and none could be inferred.
type FrameworkRequiredError struct {
	Language Language
	Kind     ProjectKind
}

func (e *FrameworkRequiredError) Error() string {
	return fmt.Sprintf("kind %s requires a framework and none is known for language %s", e.Kind, e.Language)
}

// IncompatibleKindError reports a kind the language does not support.
type IncompatibleKindError struct {
	Language Language
	Kind     ProjectKind
}

func (e *IncompatibleKindError) Error() string {
	return fmt.Sprintf("language %s does not support kind %s", e.Language, e.Kind)
}

// IncompatibleFrameworkError reports a framework that does not serve
// the target's kind.
type IncompatibleFrameworkError struct {
	Framework Framework
	Kind      ProjectKind
}

func (e *IncompatibleFrameworkError) Error() string {
	return fmt.Sprintf("framework %s does not serve kind %s", e.Framework, e.Kind)
}

// IncompatibleArchitectureError reports an architecture that does not
// fit the rest of the target.
type IncompatibleArchitectureError struct {
	Architecture Architecture
	Kind         ProjectKind
}

func (e *IncompatibleArchitectureError) Error() string {
	return fmt.Sprintf("architecture %s does not fit kind %s", e.Architecture, e.Kind)
}
