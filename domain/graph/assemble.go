package graph

import (
	"encoding/json"
	"sort"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/domain/overlay"
)

// labelOf pulls the display label out of an entity body. Bodies are free-form
// JSON; a missing or malformed label just renders empty.
func labelOf(body json.RawMessage) string {
	var b struct {
		Label string `json:"label"`
	}
	if err := json.Unmarshal(body, &b); err != nil {
		return ""
	}
	return b.Label
}

// AssembleNeighborhood builds the neighborhood result from traversal rows and
// the relationship data fetched for the visited keys. Edges are kept only
// when both endpoints were visited. withStatus controls whether overlay change
// statuses decorate the nodes (only meaningful under a draft).
func AssembleNeighborhood(
	rows []*TraversalRow,
	edges []*catalog.ParentEdge,
	members []*catalog.ModuleMember,
	entities map[string]*overlay.EffectiveEntity,
	withStatus bool,
	maxNodes int,
) *Neighborhood {
	visited := make(map[string]bool, len(rows))
	modulesByKey := map[string][]string{}
	for _, m := range members {
		modulesByKey[m.MemberKey] = append(modulesByKey[m.MemberKey], m.ModuleKey)
	}

	result := &Neighborhood{
		Nodes:     make([]*Node, 0, len(rows)),
		Edges:     []*Edge{},
		Truncated: len(rows) >= maxNodes,
	}

	for _, row := range rows {
		visited[row.Key] = true
		if row.Cycle {
			result.HasCycles = true
		}

		node := &Node{
			EntityType: catalog.TypeCategory,
			EntityKey:  row.Key,
			Depth:      row.Depth,
			Modules:    modulesByKey[row.Key],
		}
		if eff, ok := entities[row.Key]; ok {
			node.EntityType = eff.EntityType
			node.Label = labelOf(eff.Body)
			if withStatus {
				node.ChangeStatus = eff.Status
			}
		}
		result.Nodes = append(result.Nodes, node)
	}

	for _, e := range edges {
		if visited[e.ChildKey] && visited[e.ParentKey] {
			result.Edges = append(result.Edges, &Edge{
				FromKey: e.ChildKey,
				ToKey:   e.ParentKey,
				Kind:    "parent",
			})
		}
	}
	sort.Slice(result.Edges, func(i, j int) bool {
		if result.Edges[i].FromKey != result.Edges[j].FromKey {
			return result.Edges[i].FromKey < result.Edges[j].FromKey
		}
		return result.Edges[i].ToKey < result.Edges[j].ToKey
	})

	return result
}

// ParentEdgesAmong derives the inheritance edges that stay inside a node set,
// reading parents from effective category bodies.
func ParentEdgesAmong(keys []string, parentsOf func(key string) []string) []*Edge {
	inSet := make(map[string]bool, len(keys))
	for _, k := range keys {
		inSet[k] = true
	}

	var out []*Edge
	for _, k := range keys {
		for _, parent := range parentsOf(k) {
			if inSet[parent] {
				out = append(out, &Edge{FromKey: k, ToKey: parent, Kind: "parent"})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].FromKey != out[j].FromKey {
			return out[i].FromKey < out[j].FromKey
		}
		return out[i].ToKey < out[j].ToKey
	})
	return out
}
