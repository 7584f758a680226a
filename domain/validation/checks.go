package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/domain/overlay"
)

// CheckReferences resolves every reference in the effective view: category
// parents and property attachments, subobject properties, template targets,
// module members and bundle modules. A reference to a missing or deleted
// entity is an error.
func CheckReferences(snap *Snapshot) []Message {
	var out []Message

	unresolved := func(key, fieldPath, refKind, refKey string) Message {
		return Message{
			EntityKey: key,
			FieldPath: fieldPath,
			Severity:  SeverityError,
			Code:      CodeUnresolvedReference,
			Message:   fmt.Sprintf("%s %q does not resolve", refKind, refKey),
		}
	}

	for _, key := range sortedKeys(snap.Categories) {
		body := snap.Categories[key]
		for i, parent := range body.Parents {
			if _, ok := snap.Categories[parent]; !ok {
				out = append(out, unresolved(key, fmt.Sprintf("parents/%d", i), "parent category", parent))
			}
		}
		for i, ref := range body.Properties {
			if _, ok := snap.Properties[ref.Key]; !ok {
				out = append(out, unresolved(key, fmt.Sprintf("properties/%d", i), "property", ref.Key))
			}
		}
	}

	for _, key := range sortedKeys(snap.Subobjects) {
		body := snap.Subobjects[key]
		for i, ref := range body.Properties {
			if _, ok := snap.Properties[ref.Key]; !ok {
				out = append(out, unresolved(key, fmt.Sprintf("properties/%d", i), "property", ref.Key))
			}
		}
	}

	for _, key := range sortedKeys(snap.Templates) {
		body := snap.Templates[key]
		for i, target := range body.AppliesTo {
			if _, ok := snap.Categories[target]; !ok {
				out = append(out, unresolved(key, fmt.Sprintf("applies_to/%d", i), "category", target))
			}
		}
	}

	for _, key := range sortedKeys(snap.Modules) {
		body := snap.Modules[key]
		for i, member := range body.Members {
			fieldPath := fmt.Sprintf("members/%d", i)
			memberType, err := catalog.ParseEntityType(member.Type)
			if err != nil {
				out = append(out, Message{
					EntityKey: key,
					FieldPath: fieldPath,
					Severity:  SeverityError,
					Code:      CodeUnresolvedReference,
					Message:   fmt.Sprintf("member type %q is not an entity type", member.Type),
				})
				continue
			}
			if !snap.has(memberType, member.Key) {
				out = append(out, unresolved(key, fieldPath, string(memberType), member.Key))
			}
		}
	}

	for _, key := range sortedKeys(snap.Bundles) {
		body := snap.Bundles[key]
		for i, moduleKey := range body.Modules {
			if _, ok := snap.Modules[moduleKey]; !ok {
				out = append(out, unresolved(key, fmt.Sprintf("modules/%d", i), "module", moduleKey))
			}
		}
	}

	return out
}

func (s *Snapshot) has(entityType catalog.EntityType, key string) bool {
	switch entityType {
	case catalog.TypeCategory:
		_, ok := s.Categories[key]
		return ok
	case catalog.TypeProperty:
		_, ok := s.Properties[key]
		return ok
	case catalog.TypeSubobject:
		_, ok := s.Subobjects[key]
		return ok
	case catalog.TypeModule:
		_, ok := s.Modules[key]
		return ok
	case catalog.TypeBundle:
		_, ok := s.Bundles[key]
		return ok
	case catalog.TypeTemplate:
		_, ok := s.Templates[key]
		return ok
	}
	return false
}

// CheckCycles runs Kahn's topological sort over the effective inheritance
// edges. Every cycle is reported with its complete ordered path, smallest
// member first, e.g. "a, b, c, a". Edges to unresolved parents are skipped;
// CheckReferences already covers those.
func CheckCycles(snap *Snapshot) []Message {
	adj := map[string][]string{}
	indegree := map[string]int{}
	for key := range snap.Categories {
		indegree[key] = 0
	}
	for key, body := range snap.Categories {
		for _, parent := range body.Parents {
			if _, ok := snap.Categories[parent]; !ok {
				continue
			}
			adj[key] = append(adj[key], parent)
			indegree[parent]++
		}
	}

	queue := []string{}
	for key, deg := range indegree {
		if deg == 0 {
			queue = append(queue, key)
		}
	}
	processed := 0
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		processed++
		for _, next := range adj[cur] {
			indegree[next]--
			if indegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if processed == len(indegree) {
		return nil
	}

	// Leftover nodes all sit on or downstream of a cycle; walk them to
	// extract each distinct cycle path.
	leftover := map[string]bool{}
	for key, deg := range indegree {
		if deg > 0 {
			leftover[key] = true
		}
	}

	var out []Message
	reported := map[string]bool{}
	for _, start := range sortedKeySet(leftover) {
		if reported[start] {
			continue
		}
		cycle := findCycle(start, adj, leftover)
		if cycle == nil {
			continue
		}
		for _, member := range cycle[:len(cycle)-1] {
			reported[member] = true
		}
		out = append(out, Message{
			EntityKey: cycle[0],
			FieldPath: "parents",
			Severity:  SeverityError,
			Code:      CodeInheritanceCycle,
			Message:   fmt.Sprintf("inheritance cycle: %s", strings.Join(cycle, ", ")),
		})
	}
	return out
}

// findCycle walks parent edges from start until a node repeats, then returns
// the closed path rotated so its smallest member leads: [a b c a].
func findCycle(start string, adj map[string][]string, leftover map[string]bool) []string {
	pos := map[string]int{}
	var path []string

	cur := start
	for {
		if at, seen := pos[cur]; seen {
			cycle := path[at:]
			return rotateCycle(cycle)
		}
		pos[cur] = len(path)
		path = append(path, cur)

		next := ""
		for _, candidate := range adj[cur] {
			if leftover[candidate] {
				next = candidate
				break
			}
		}
		if next == "" {
			return nil
		}
		cur = next
	}
}

// rotateCycle rotates a cycle so the smallest key starts, and closes it by
// repeating that key at the end.
func rotateCycle(cycle []string) []string {
	smallest := 0
	for i, key := range cycle {
		if key < cycle[smallest] {
			smallest = i
		}
	}
	out := make([]string, 0, len(cycle)+1)
	out = append(out, cycle[smallest:]...)
	out = append(out, cycle[:smallest]...)
	out = append(out, cycle[smallest])
	return out
}

// CheckBreaking classifies changes that would break consumers of the
// ontology. All findings are warnings: they inform the semver suggestion and
// the reviewer, never block submission.
func CheckBreaking(snap *Snapshot) []Message {
	var out []Message

	// property shape changes
	for _, key := range sortedKeys(snap.Properties) {
		if snap.Status[catalog.TypeProperty][key] != overlay.StatusModified {
			continue
		}
		prev, ok := snap.CanonicalProperties[key]
		if !ok {
			continue
		}
		cur := snap.Properties[key]

		if prev.Datatype != "" && cur.Datatype != prev.Datatype {
			out = append(out, Message{
				EntityKey: key,
				FieldPath: "datatype",
				Severity:  SeverityWarning,
				Code:      CodeDatatypeChange,
				Message:   fmt.Sprintf("datatype changed from %q to %q", prev.Datatype, cur.Datatype),
			})
		}
		if narrowsCardinality(prev.Cardinality, cur.Cardinality) {
			out = append(out, Message{
				EntityKey: key,
				FieldPath: "cardinality",
				Severity:  SeverityWarning,
				Code:      CodeCardinalityNarrowed,
				Message:   fmt.Sprintf("cardinality narrowed from %q to %q", prev.Cardinality, cur.Cardinality),
			})
		}
	}

	// removal of entities something still points at
	refs := collectReferences(snap)
	for _, entityType := range catalog.AllEntityTypes {
		for _, key := range sortedKeySet(snap.Deleted[entityType]) {
			if referrers := refs[refKey(entityType, key)]; len(referrers) > 0 {
				out = append(out, Message{
					EntityKey: key,
					Severity:  SeverityWarning,
					Code:      CodeReferencedRemoved,
					Message: fmt.Sprintf("removed %s is still referenced by %s",
						entityType, strings.Join(referrers, ", ")),
				})
			}
		}
	}

	// members dropped from modules and bundles
	for _, key := range sortedKeys(snap.Modules) {
		if snap.Status[catalog.TypeModule][key] != overlay.StatusModified {
			continue
		}
		prev, ok := snap.CanonicalModules[key]
		if !ok {
			continue
		}
		kept := map[string]bool{}
		for _, m := range snap.Modules[key].Members {
			kept[m.Type+"/"+m.Key] = true
		}
		for _, m := range prev.Members {
			if !kept[m.Type+"/"+m.Key] {
				out = append(out, Message{
					EntityKey: key,
					FieldPath: "members",
					Severity:  SeverityWarning,
					Code:      CodeMemberRemoved,
					Message:   fmt.Sprintf("member %s %q removed from module", m.Type, m.Key),
				})
			}
		}
	}
	for _, key := range sortedKeys(snap.Bundles) {
		if snap.Status[catalog.TypeBundle][key] != overlay.StatusModified {
			continue
		}
		prev, ok := snap.CanonicalBundles[key]
		if !ok {
			continue
		}
		kept := map[string]bool{}
		for _, m := range snap.Bundles[key].Modules {
			kept[m] = true
		}
		for _, m := range prev.Modules {
			if !kept[m] {
				out = append(out, Message{
					EntityKey: key,
					FieldPath: "modules",
					Severity:  SeverityWarning,
					Code:      CodeMemberRemoved,
					Message:   fmt.Sprintf("module %q removed from bundle", m),
				})
			}
		}
	}

	return out
}

func narrowsCardinality(prev, cur string) bool {
	rank := func(c string) int {
		switch c {
		case "many":
			return 2
		case "one":
			return 1
		}
		return 0
	}
	p, c := rank(prev), rank(cur)
	return p > 0 && c > 0 && c < p
}

func refKey(entityType catalog.EntityType, key string) string {
	return string(entityType) + "/" + key
}

// collectReferences maps every referenced entity to the keys that reference
// it in the effective view.
func collectReferences(snap *Snapshot) map[string][]string {
	refs := map[string][]string{}
	add := func(entityType catalog.EntityType, target, from string) {
		k := refKey(entityType, target)
		refs[k] = append(refs[k], from)
	}

	for _, key := range sortedKeys(snap.Categories) {
		body := snap.Categories[key]
		for _, parent := range body.Parents {
			add(catalog.TypeCategory, parent, key)
		}
		for _, ref := range body.Properties {
			add(catalog.TypeProperty, ref.Key, key)
		}
	}
	for _, key := range sortedKeys(snap.Subobjects) {
		for _, ref := range snap.Subobjects[key].Properties {
			add(catalog.TypeProperty, ref.Key, key)
		}
	}
	for _, key := range sortedKeys(snap.Templates) {
		for _, target := range snap.Templates[key].AppliesTo {
			add(catalog.TypeCategory, target, key)
		}
	}
	for _, key := range sortedKeys(snap.Modules) {
		for _, m := range snap.Modules[key].Members {
			if memberType, err := catalog.ParseEntityType(m.Type); err == nil {
				add(memberType, m.Key, key)
			}
		}
	}
	for _, key := range sortedKeys(snap.Bundles) {
		for _, m := range snap.Bundles[key].Modules {
			add(catalog.TypeModule, m, key)
		}
	}
	return refs
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedKeySet(m map[string]bool) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
