// Package graph answers traversal queries over the ontology: bounded
// neighborhoods, module graphs and transitive closures. Traversals are
// cycle-safe; a cycle surfaces as a flag on the result, never as an error or
// a hang.
package graph

import (
	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/domain/overlay"
)

// Node is one entity in a traversal result, decorated with its module
// memberships and, under a draft, its overlay change status.
type Node struct {
	EntityType   catalog.EntityType   `json:"entity_type"`
	EntityKey    string               `json:"entity_key"`
	Label        string               `json:"label,omitempty"`
	Depth        int                  `json:"depth"`
	Modules      []string             `json:"modules,omitempty"`
	ChangeStatus overlay.ChangeStatus `json:"change_status,omitempty"`
}

// Edge is one relationship between two result nodes.
type Edge struct {
	FromKey string `json:"from_key"`
	ToKey   string `json:"to_key"`
	// Kind is "parent" for inheritance, "member" for module membership.
	Kind string `json:"kind"`
}

// Neighborhood is the bounded bidirectional expansion around one entity.
type Neighborhood struct {
	Nodes     []*Node `json:"nodes"`
	Edges     []*Edge `json:"edges"`
	HasCycles bool    `json:"has_cycles"`
	Truncated bool    `json:"truncated"`
}

// ModuleGraph is the direct members of one module plus the edges among them.
type ModuleGraph struct {
	ModuleKey string  `json:"module_key"`
	Nodes     []*Node `json:"nodes"`
	Edges     []*Edge `json:"edges"`
}

// Closure is a transitive set of category keys.
type Closure struct {
	EntityType catalog.EntityType `json:"entity_type"`
	EntityKey  string             `json:"entity_key"`
	Categories []string           `json:"categories"`
}
