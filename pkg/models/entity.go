package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidEntity is returned when an entity fails validation.
var ErrInvalidEntity = errors.New("invalid entity")

// Entity is a named thing described by a sparse set of characteristics.
// A characteristic that is present is true for the entity; an absent one is
// unknown, not a confirmed negative.
type Entity struct {
	// Name is the display name of the entity (e.g. "Gato").
	Name string `json:"name" yaml:"name"`
	// Characteristics lists the labels asserted true, in the order they were learned.
	Characteristics []string `json:"characteristics" yaml:"characteristics"`
}

// NewEntity builds an entity with the name trimmed and duplicate or blank
// characteristics dropped. The first occurrence of a characteristic wins.
func NewEntity(name string, characteristics ...string) Entity {
	seen := make(map[string]struct{}, len(characteristics))
	kept := make([]string, 0, len(characteristics))
	for _, c := range characteristics {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		kept = append(kept, c)
	}
	return Entity{
		Name:            strings.TrimSpace(name),
		Characteristics: kept,
	}
}

// Has reports whether the characteristic is asserted for the entity.
func (e Entity) Has(characteristic string) bool {
	for _, c := range e.Characteristics {
		if c == characteristic {
			return true
		}
	}
	return false
}

// Validate checks the entity invariants.
func (e Entity) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("%w: name is empty", ErrInvalidEntity)
	}
	return nil
}

// Clone returns a copy that shares no memory with e.
func (e Entity) Clone() Entity {
	return Entity{
		Name:            e.Name,
		Characteristics: append([]string(nil), e.Characteristics...),
	}
}

// KnowledgeBase is the ordered collection of known entities.
// Order does not affect correctness but keeps tree construction reproducible.
type KnowledgeBase struct {
	entities []Entity
}

// NewKnowledgeBase creates a knowledge base from the given entities.
// Invalid entities are rejected.
func NewKnowledgeBase(entities []Entity) (*KnowledgeBase, error) {
	kb := &KnowledgeBase{entities: make([]Entity, 0, len(entities))}
	for _, e := range entities {
		if err := kb.Append(e); err != nil {
			return nil, err
		}
	}
	return kb, nil
}

// Append adds an entity to the end of the knowledge base.
func (kb *KnowledgeBase) Append(e Entity) error {
	if err := e.Validate(); err != nil {
		return err
	}
	kb.entities = append(kb.entities, e.Clone())
	return nil
}

// Entities returns a copy of the entities in insertion order.
func (kb *KnowledgeBase) Entities() []Entity {
	out := make([]Entity, len(kb.entities))
	for i, e := range kb.entities {
		out[i] = e.Clone()
	}
	return out
}

// Len returns the number of entities.
func (kb *KnowledgeBase) Len() int {
	return len(kb.entities)
}

// Find returns the first entity with the given name.
func (kb *KnowledgeBase) Find(name string) (Entity, bool) {
	for _, e := range kb.entities {
		if e.Name == name {
			return e.Clone(), true
		}
	}
	return Entity{}, false
}

// Characteristics returns every distinct characteristic in first-seen order.
func (kb *KnowledgeBase) Characteristics() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range kb.entities {
		for _, c := range e.Characteristics {
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// DefaultEntities returns the seed animals the game ships with.
func DefaultEntities() []Entity {
	return []Entity{
		NewEntity("Gato", "Es una mascota", "Ronronea"),
		NewEntity("Perro", "Es una mascota", "Ladra"),
		NewEntity("León", "Es un animal salvaje", "Ruge", "Tiene melena"),
		NewEntity("Tigre", "Es un animal salvaje", "Ruge", "Tiene manchas"),
	}
}
