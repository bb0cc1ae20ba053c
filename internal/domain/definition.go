package domain

import (
	"strings"

	"github.com/google/uuid"
)

// DefinitionKind distinguishes catalog entries
type DefinitionKind string

const (
	DefinitionKindSignal DefinitionKind = "SIGNAL"
	DefinitionKindRule   DefinitionKind = "RULE"
	DefinitionKindStage  DefinitionKind = "STAGE"
)

// Definition describes one signal, rule or stage known to the system
type Definition struct {
	ID          uuid.UUID
	Kind        DefinitionKind
	Name        string
	Type        string // signal category, rule type or stage order
	Description string
}

// Validate ensures the definition adheres to domain rules
func (d *Definition) Validate() error {
	switch d.Kind {
	case DefinitionKindSignal, DefinitionKindRule, DefinitionKindStage:
	default:
		return NewInvalidInputError("kind", "unknown definition kind "+string(d.Kind))
	}
	if strings.TrimSpace(d.Name) == "" {
		return NewInvalidInputError("name", "definition name cannot be empty")
	}
	if d.ID == uuid.Nil {
		return NewInvalidInputError("id", "definition ID is required")
	}
	return nil
}
