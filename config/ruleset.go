package config

import (
	"fmt"
	"log"

	"github.com/pkg/errors"
)

// ProfileRule binds a Profile to the glob pattern of document paths/URIs it
// applies to.
type ProfileRule struct {
	Name    string  `yaml:"name"`
	Pattern string  `yaml:"pattern"`
	Profile Profile `yaml:"profile"`
}

// ProfileSet is an ordered set of profile rules. When multiple rules match
// a document, they are applied in order, each overriding the last.
type ProfileSet struct {
	Rules []ProfileRule `yaml:"rules"`
}

// Validate reports a descriptive error if any rule's pattern or namespace
// bindings are malformed.
func (ps *ProfileSet) Validate() error {
	for _, rule := range ps.Rules {
		for prefix, ns := range rule.Profile.Namespaces {
			if ns == "" {
				return errors.Errorf("config rule %q: namespace %q has an empty IRI", rule.Name, prefix)
			}
		}
		if rule.Pattern == "" {
			msg := fmt.Sprintf("config rule %s has an empty pattern", rule.Name)
			return errors.New(msg)
		}
	}
	return nil
}

// ProfileForPath returns the profile that applies to a document path/URI,
// folding in every rule whose pattern matches, in order.
func (ps *ProfileSet) ProfileForPath(path string) Profile {
	profile := DefaultProfile()
	for _, rule := range ps.Rules {
		if GlobMatch(rule.Pattern, path) {
			log.Printf("applying config rule %q with pattern %q for path %q\n", rule.Name, rule.Pattern, path)
			profile.Apply(rule.Profile)
		}
	}
	return profile
}
