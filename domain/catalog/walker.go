package catalog

import "sort"

// ParentsFunc resolves the direct parent keys of a category.
type ParentsFunc func(key string) []string

// DirectPropsFunc resolves the directly attached property refs of a category.
type DirectPropsFunc func(key string) []PropertyRef

// EffectivePropertyEntry is one inherited (or direct) property of a category,
// with provenance: the nearest ancestor that contributed it and its distance.
type EffectivePropertyEntry struct {
	PropertyKey       string `json:"property_key"`
	SourceCategoryKey string `json:"source_category_key"`
	Required          bool   `json:"required"`
	Depth             int    `json:"depth"`
}

// ComputeEffectiveProperties walks the parent chain of categoryKey breadth-first
// and collects the union of direct properties along the way. The nearest
// contributor wins when the same property arrives on multiple paths; ties at
// equal depth resolve to the lexicographically smallest source key so the
// result is deterministic. Already-visited categories are never expanded
// again, so cyclic parent graphs terminate. maxDepth <= 0 means unbounded.
func ComputeEffectiveProperties(categoryKey string, parents ParentsFunc, props DirectPropsFunc, maxDepth int) []EffectivePropertyEntry {
	type frame struct {
		key   string
		depth int
	}

	best := map[string]EffectivePropertyEntry{}
	visited := map[string]bool{categoryKey: true}
	queue := []frame{{key: categoryKey, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, ref := range props(cur.key) {
			entry := EffectivePropertyEntry{
				PropertyKey:       ref.Key,
				SourceCategoryKey: cur.key,
				Required:          ref.Required,
				Depth:             cur.depth,
			}
			prev, ok := best[ref.Key]
			if !ok || entry.Depth < prev.Depth ||
				(entry.Depth == prev.Depth && entry.SourceCategoryKey < prev.SourceCategoryKey) {
				best[ref.Key] = entry
			}
		}

		if maxDepth > 0 && cur.depth >= maxDepth {
			continue
		}

		for _, parent := range parents(cur.key) {
			if visited[parent] {
				continue
			}
			visited[parent] = true
			queue = append(queue, frame{key: parent, depth: cur.depth + 1})
		}
	}

	entries := make([]EffectivePropertyEntry, 0, len(best))
	for _, e := range best {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].PropertyKey < entries[j].PropertyKey
	})
	return entries
}

// CollectAncestors returns every ancestor key reachable from start over the
// parent relation, cycle-safe, excluding start itself. maxDepth <= 0 means
// unbounded.
func CollectAncestors(start string, parents ParentsFunc, maxDepth int) []string {
	type frame struct {
		key   string
		depth int
	}

	visited := map[string]bool{start: true}
	var out []string
	queue := []frame{{key: start, depth: 0}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if maxDepth > 0 && cur.depth >= maxDepth {
			continue
		}

		for _, parent := range parents(cur.key) {
			if visited[parent] {
				continue
			}
			visited[parent] = true
			out = append(out, parent)
			queue = append(queue, frame{key: parent, depth: cur.depth + 1})
		}
	}

	sort.Strings(out)
	return out
}
