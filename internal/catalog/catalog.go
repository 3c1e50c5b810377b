// Package catalog holds the static library of outreach sequences, indexed
// by context and priority. Definitions are read-only at runtime.
package catalog

import (
	"os"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/outreach-cli/internal/model"
)

// Catalog is an ordered, queryable collection of sequence definitions.
// Iteration order is definition order; recommendation tie-breaks rely on it.
type Catalog struct {
	sequences []model.SequenceDefinition
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{sequences: builtinSequences()}
}

// catalogFile is the YAML shape of an overlay file.
type catalogFile struct {
	Sequences []model.SequenceDefinition `yaml:"sequences"`
}

// LoadFile returns the built-in catalog overlaid with sequences from a YAML
// file. Overlay entries with a known ID replace the built-in in place;
// unknown IDs are appended in file order.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "catalog: read file")
	}

	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, eris.Wrap(err, "catalog: parse yaml")
	}

	c := Default()
	for _, seq := range f.Sequences {
		if seq.ID == "" {
			return nil, eris.Errorf("catalog: sequence %q has no id", seq.Name)
		}
		c.upsert(seq)
	}
	return c, nil
}

func (c *Catalog) upsert(seq model.SequenceDefinition) {
	for i, existing := range c.sequences {
		if existing.ID == seq.ID {
			c.sequences[i] = seq
			return
		}
	}
	c.sequences = append(c.sequences, seq)
}

// All returns every sequence in catalog order.
func (c *Catalog) All() []model.SequenceDefinition {
	out := make([]model.SequenceDefinition, len(c.sequences))
	copy(out, c.sequences)
	return out
}

// ByContext returns all sequences for an outreach context, in catalog order.
func (c *Catalog) ByContext(context string) []model.SequenceDefinition {
	var out []model.SequenceDefinition
	for _, seq := range c.sequences {
		if seq.Context == context {
			out = append(out, seq)
		}
	}
	return out
}

// ByContextAndPriority narrows ByContext to one priority bucket.
func (c *Catalog) ByContextAndPriority(context string, priority model.Classification) []model.SequenceDefinition {
	var out []model.SequenceDefinition
	for _, seq := range c.sequences {
		if seq.Context == context && seq.Priority == priority {
			out = append(out, seq)
		}
	}
	return out
}

// Get looks up a sequence by ID.
func (c *Catalog) Get(id string) (model.SequenceDefinition, bool) {
	for _, seq := range c.sequences {
		if seq.ID == id {
			return seq, true
		}
	}
	return model.SequenceDefinition{}, false
}
