package template

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"verbline/internal/target"
)

type manifest struct {
	Name        string `yaml:"name"`
	Version     string `yaml:"version"`
	Description string `yaml:"description"`
	Matcher     struct {
		Language     string `yaml:"language"`
		Kind         string `yaml:"kind"`
		Framework    string `yaml:"framework"`
		Architecture string `yaml:"architecture"`
	} `yaml:"matcher"`
	Tree []Node `yaml:"tree"`
}

// Parse decodes a YAML template manifest. Matcher fields are optional;
// an absent field matches any target. framework accepts the sentinel
// "none" to require a framework-less target.
func Parse(data []byte) (Template, error) {
	var m manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Template{}, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Name == "" {
		return Template{}, fmt.Errorf("manifest missing name")
	}
	if m.Version == "" {
		m.Version = "1.0.0"
	}
	t := Template{
		Metadata: Metadata{Name: m.Name, Version: m.Version, Description: m.Description},
		Tree:     m.Tree,
	}
	if m.Matcher.Language != "" {
		l, err := target.ParseLanguage(m.Matcher.Language)
		if err != nil {
			return Template{}, fmt.Errorf("manifest %s: %w", m.Name, err)
		}
		t.Matcher.Language = &l
	}
	if m.Matcher.Kind != "" {
		k, err := target.ParseProjectKind(m.Matcher.Kind)
		if err != nil {
			return Template{}, fmt.Errorf("manifest %s: %w", m.Name, err)
		}
		t.Matcher.Kind = &k
	}
	if m.Matcher.Framework != "" {
		if strings.EqualFold(m.Matcher.Framework, "none") {
			var none target.Framework
			t.Matcher.Framework = &none
		} else {
			f, err := target.ParseFramework(m.Matcher.Framework)
			if err != nil {
				return Template{}, fmt.Errorf("manifest %s: %w", m.Name, err)
			}
			t.Matcher.Framework = &f
		}
	}
	if m.Matcher.Architecture != "" {
		a, err := target.ParseArchitecture(m.Matcher.Architecture)
		if err != nil {
			return Template{}, fmt.Errorf("manifest %s: %w", m.Name, err)
		}
		t.Matcher.Architecture = &a
	}
	return t, nil
}

// LoadDir parses every .yaml/.yml manifest in dir. A missing dir is
// not an error; users are not required to keep one.
func LoadDir(dir string) ([]Template, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var res []Template
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		t, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		res = append(res, t)
	}
	return res, nil
}
