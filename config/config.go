// Package config locates and merges the namespace/base-IRI profiles a
// query document is interpreted under, keyed by a glob pattern over the
// document's path or source URI.
package config

// Profile is a configuration applied when parsing a document: the
// namespace prefixes and default base IRI assumed for documents matching
// the profile's pattern.
type Profile struct {
	Namespaces map[string]string `yaml:"namespaces"`
	BaseIRI    string             `yaml:"baseIRI"`
}

// DefaultProfile constructs a profile with no prefixes and no base IRI,
// matching the grammar's own defaults when BASE/PREFIX are never written.
func DefaultProfile() Profile {
	return Profile{Namespaces: map[string]string{}}
}

// Apply overrides base's values with overlay's, merging namespace maps
// (overlay entries win on key collision) and replacing BaseIRI only when
// overlay sets one.
func (p *Profile) Apply(overlay Profile) {
	if p.Namespaces == nil {
		p.Namespaces = map[string]string{}
	}
	for k, v := range overlay.Namespaces {
		p.Namespaces[k] = v
	}
	if overlay.BaseIRI != "" {
		p.BaseIRI = overlay.BaseIRI
	}
}
