package target

import (
	"errors"
	"testing"
)

func TestParseAliases(t *testing.T) {
	if l, err := ParseLanguage("TS"); err != nil || l != LanguageTypeScript {
		t.Fatalf("ParseLanguage(TS) = %v, %v", l, err)
	}
	if l, err := ParseLanguage("py"); err != nil || l != LanguagePython {
		t.Fatalf("ParseLanguage(py) = %v, %v", l, err)
	}
	if k, err := ParseProjectKind("api"); err != nil || k != KindWebBackend {
		t.Fatalf("ParseProjectKind(api) = %v, %v", k, err)
	}
	var ule *UnsupportedLanguageError
	if _, err := ParseLanguage("cobol"); !errors.As(err, &ule) {
		t.Fatalf("expected UnsupportedLanguageError, got %v", err)
	}
}

func TestParseFormatRoundTrip(t *testing.T) {
	for _, l := range Languages {
		got, err := ParseLanguage(l.String())
		if err != nil || got != l {
			t.Fatalf("language %s round trip: %v, %v", l, got, err)
		}
	}
	for _, k := range Kinds {
		got, err := ParseProjectKind(k.String())
		if err != nil || got != k {
			t.Fatalf("kind %s round trip: %v, %v", k, got, err)
		}
	}
	for _, a := range Architectures {
		got, err := ParseArchitecture(a.String())
		if err != nil || got != a {
			t.Fatalf("architecture %s round trip: %v, %v", a, got, err)
		}
	}
	for f := range frameworkLanguages {
		got, err := ParseFramework(f.String())
		if err != nil || got != f {
			t.Fatalf("framework %s round trip: %v, %v", f, got, err)
		}
	}
}

func TestInferenceFromLanguageAlone(t *testing.T) {
	cases := []struct {
		language  Language
		kind      ProjectKind
		framework *Framework
		arch      Architecture
	}{
		{LanguageRust, KindCLI, nil, ArchitectureLayered},
		{LanguagePython, KindWebBackend, ptr(FrameworkFastAPI), ArchitectureLayered},
		{LanguageTypeScript, KindWebFrontend, ptr(FrameworkReact), ArchitectureLayered},
		{LanguageGo, KindCLI, nil, ArchitectureLayered},
	}
	for _, tc := range cases {
		got, err := NewBuilder().Language(tc.language).Build()
		if err != nil {
			t.Fatalf("%s: %v", tc.language, err)
		}
		if got.Kind != tc.kind || got.Architecture != tc.arch {
			t.Errorf("%s: built %+v", tc.language, got)
		}
		if (got.Framework == nil) != (tc.framework == nil) {
			t.Errorf("%s: framework = %v, want %v", tc.language, got.Framework, tc.framework)
		} else if got.Framework != nil && *got.Framework != *tc.framework {
			t.Errorf("%s: framework = %s, want %s", tc.language, *got.Framework, *tc.framework)
		}
	}
}

func TestArchitectureInference(t *testing.T) {
	django, err := NewBuilder().Language(LanguagePython).Kind(KindFullstack).Build()
	if err != nil {
		t.Fatal(err)
	}
	if django.Framework == nil || *django.Framework != FrameworkDjango || django.Architecture != ArchitectureMVC {
		t.Fatalf("python fullstack built %+v", django)
	}

	tsBackend, err := NewBuilder().Language(LanguageTypeScript).Kind(KindWebBackend).Build()
	if err != nil {
		t.Fatal(err)
	}
	if *tsBackend.Framework != FrameworkExpress || tsBackend.Architecture != ArchitectureFeatureModule {
		t.Fatalf("ts backend built %+v", tsBackend)
	}
}

func TestFrameworkLanguageMismatch(t *testing.T) {
	_, err := NewBuilder().Language(LanguageRust).Framework(FrameworkDjango).Build()
	var mismatch *FrameworkLanguageMismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("err = %v, want FrameworkLanguageMismatchError", err)
	}
	if mismatch.Framework != FrameworkDjango || mismatch.Language != LanguageRust {
		t.Fatalf("error carries %s/%s", mismatch.Framework, mismatch.Language)
	}
}

func TestUnsupportedKindForLanguage(t *testing.T) {
	_, err := NewBuilder().Language(LanguageGo).Kind(KindWebFrontend).Build()
	var incompatible *IncompatibleKindError
	if !errors.As(err, &incompatible) {
		t.Fatalf("err = %v, want IncompatibleKindError", err)
	}
}

func TestExplicitFieldsOverrideInference(t *testing.T) {
	got, err := NewBuilder().
		Language(LanguageRust).
		Kind(KindWebBackend).
		Framework(FrameworkActix).
		Architecture(ArchitectureClean).
		Build()
	if err != nil {
		t.Fatal(err)
	}
	if *got.Framework != FrameworkActix || got.Architecture != ArchitectureClean {
		t.Fatalf("built %+v", got)
	}
}

func TestValidateIdempotent(t *testing.T) {
	got, err := NewBuilder().Language(LanguagePython).Build()
	if err != nil {
		t.Fatal(err)
	}
	if err := got.Validate(); err != nil {
		t.Fatalf("revalidation failed: %v", err)
	}
}

func ptr(f Framework) *Framework { return &f }
