package template

import (
	"fmt"
	"sort"
	"strings"

	"verbline/internal/target"
)

// NoMatchError reports a target no template matches, along with the
// ids of the nearest misses.
type NoMatchError struct {
	Target      target.Target
	Suggestions []string
}

func (e *NoMatchError) Error() string {
	msg := fmt.Sprintf("no template matches target (%s, %s, %s)", e.Target.Language, e.Target.Kind, e.Target.Architecture)
	if len(e.Suggestions) > 0 {
		msg += "; closest: " + strings.Join(e.Suggestions, ", ")
	}
	return msg
}

// Resolver ranks store matches by specificity.
type Resolver struct {
	Store Store
}

func NewResolver(store Store) Resolver {
	return Resolver{Store: store}
}

// Resolve returns the best template for the target. Ranking: higher
// specificity first, then higher version, then lexicographic id. With
// no match it fails with suggestions at matcher distance one.
func (r Resolver) Resolve(t target.Target) (Template, error) {
	matches := r.Store.Find(t)
	if len(matches) == 0 {
		return Template{}, &NoMatchError{Target: t, Suggestions: r.suggestions(t)}
	}
	sort.Slice(matches, func(i, j int) bool {
		si, sj := matches[i].Matcher.Specificity(), matches[j].Matcher.Specificity()
		if si != sj {
			return si > sj
		}
		if c := compareVersions(matches[i].Metadata.Version, matches[j].Metadata.Version); c != 0 {
			return c > 0
		}
		return matches[i].ID() < matches[j].ID()
	})
	return matches[0], nil
}

func (r Resolver) suggestions(t target.Target) []string {
	var ids []string
	for _, tmpl := range r.Store.All() {
		if tmpl.Matcher.Distance(t) == 1 {
			ids = append(ids, tmpl.ID())
		}
	}
	sort.Strings(ids)
	return ids
}
