package template

import (
	"fmt"
	"sync"

	"verbline/internal/target"
)

// Store holds templates and answers match queries. Find returns every
// template whose matcher accepts the target; ranking is the resolver's
// job.
type Store interface {
	Find(t target.Target) []Template
	All() []Template
}

// MemoryStore is a read-mostly Store safe for concurrent readers.
type MemoryStore struct {
	mu        sync.RWMutex
	templates []Template
}

func NewStore() *MemoryStore {
	return &MemoryStore{}
}

// Add registers a template. IDs must be unique.
func (s *MemoryStore) Add(t Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.templates {
		if existing.ID() == t.ID() {
			return fmt.Errorf("template %s already registered", t.ID())
		}
	}
	s.templates = append(s.templates, t)
	return nil
}

func (s *MemoryStore) Find(t target.Target) []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []Template
	for _, tmpl := range s.templates {
		if tmpl.Matcher.Matches(t) {
			res = append(res, tmpl)
		}
	}
	return res
}

func (s *MemoryStore) All() []Template {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]Template, len(s.templates))
	copy(res, s.templates)
	return res
}
