package gazetteer

import (
	"crypto/sha256"
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/bosun-marine/bosun-engine/pkg/models"
)

//go:embed data/gazetteer.yaml
var builtinSource []byte

// sourceFile mirrors the YAML layout of the gazetteer source.
type sourceFile struct {
	Types map[string]sourceType `yaml:"types"`
}

type sourceType struct {
	Phrases []sourcePhrase `yaml:"phrases"`
}

type sourcePhrase struct {
	Phrase    string   `yaml:"phrase"`
	Canonical string   `yaml:"canonical"`
	Synonyms  []string `yaml:"synonyms"`
}

// Load builds a Store from the embedded gazetteer source with the given
// precedence overrides merged onto the built-in defaults.
func Load(overrides map[models.EntityType]int) (*Store, error) {
	return LoadSource(builtinSource, overrides)
}

// LoadSource builds a Store from raw YAML. Synonyms are indexed as phrases
// in their own right, carrying the parent phrase's canonical value, so a
// query hitting any variant resolves to one value with its siblings
// available for OR-expansion.
func LoadSource(source []byte, overrides map[models.EntityType]int) (*Store, error) {
	var file sourceFile
	if err := yaml.Unmarshal(source, &file); err != nil {
		return nil, fmt.Errorf("failed to parse gazetteer source: %w", err)
	}
	if len(file.Types) == 0 {
		return nil, fmt.Errorf("gazetteer source defines no entity types")
	}

	precedence := MergePrecedence(overrides)

	var entries []Entry
	for typeName, st := range file.Types {
		entityType := models.EntityType(typeName)
		for _, p := range st.Phrases {
			canonical := p.Canonical
			if canonical == "" {
				canonical = Normalize(p.Phrase)
			} else {
				canonical = Normalize(canonical)
			}

			// variants lists every surface form sharing this canonical
			// value, so each indexed form can carry its siblings.
			variants := make([]string, 0, 1+len(p.Synonyms))
			variants = append(variants, Normalize(p.Phrase))
			for _, syn := range p.Synonyms {
				variants = append(variants, Normalize(syn))
			}

			for _, form := range variants {
				siblings := make([]string, 0, len(variants)-1)
				for _, v := range variants {
					if v != form {
						siblings = append(siblings, v)
					}
				}
				entries = append(entries, Entry{
					EntityType: entityType,
					Phrase:     form,
					Canonical:  canonical,
					Synonyms:   siblings,
				})
			}
		}
	}

	version := fmt.Sprintf("%x", sha256.Sum256(source))[:12]
	return build(entries, precedence, version)
}
