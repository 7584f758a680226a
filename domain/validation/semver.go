package validation

import (
	"fmt"

	"github.com/Masterminds/semver/v3"

	"github.com/ontocraft/ontocraft/domain/catalog"
	"github.com/ontocraft/ontocraft/domain/overlay"
)

// BumpLevel is the magnitude of a suggested version bump.
type BumpLevel string

const (
	BumpMajor BumpLevel = "major"
	BumpMinor BumpLevel = "minor"
	BumpPatch BumpLevel = "patch"
)

// SemverSuggestion proposes a version bump for one module or bundle touched
// by the draft, with the reasons that drove the level.
type SemverSuggestion struct {
	EntityType catalog.EntityType `json:"entity_type"`
	EntityKey  string             `json:"entity_key"`
	Current    string             `json:"current"`
	Suggested  string             `json:"suggested"`
	Level      BumpLevel          `json:"level"`
	Reasons    []string           `json:"reasons"`
}

// SuggestSemver computes a bump per touched module and bundle: breaking
// changes force major, pure additions minor, anything else that moved patch.
// Untouched modules get no suggestion.
func SuggestSemver(snap *Snapshot, breaking []Message) []SemverSuggestion {
	breakingByKey := map[string][]string{}
	for _, m := range breaking {
		breakingByKey[m.EntityKey] = append(breakingByKey[m.EntityKey], m.Message)
	}

	var out []SemverSuggestion

	for _, key := range sortedKeys(snap.Modules) {
		members := append([]catalog.MemberRef{}, snap.Modules[key].Members...)
		if s := suggestFor(snap, breakingByKey, catalog.TypeModule, key, snap.Modules[key].Version, members); s != nil {
			out = append(out, *s)
		}
	}

	for _, key := range sortedKeys(snap.Bundles) {
		// A bundle is touched through its modules' members too.
		var members []catalog.MemberRef
		for _, moduleKey := range snap.Bundles[key].Modules {
			members = append(members, catalog.MemberRef{Type: string(catalog.TypeModule), Key: moduleKey})
			if mod, ok := snap.Modules[moduleKey]; ok {
				members = append(members, mod.Members...)
			}
		}
		if s := suggestFor(snap, breakingByKey, catalog.TypeBundle, key, snap.Bundles[key].Version, members); s != nil {
			out = append(out, *s)
		}
	}

	return out
}

func suggestFor(
	snap *Snapshot,
	breakingByKey map[string][]string,
	entityType catalog.EntityType,
	key, currentVersion string,
	members []catalog.MemberRef,
) *SemverSuggestion {
	var majors, minors, patches []string

	consider := func(t catalog.EntityType, k string) {
		for _, msg := range breakingByKey[k] {
			majors = append(majors, msg)
		}
		if snap.Deleted[t][k] {
			majors = append(majors, fmt.Sprintf("%s %q removed", t, k))
			return
		}
		switch snap.Status[t][k] {
		case overlay.StatusAdded:
			minors = append(minors, fmt.Sprintf("%s %q added", t, k))
		case overlay.StatusModified:
			patches = append(patches, fmt.Sprintf("%s %q modified", t, k))
		}
	}

	consider(entityType, key)
	for _, m := range members {
		memberType, err := catalog.ParseEntityType(m.Type)
		if err != nil {
			continue
		}
		consider(memberType, m.Key)
	}

	var (
		level   BumpLevel
		reasons []string
	)
	switch {
	case len(majors) > 0:
		level = BumpMajor
		reasons = append(append(append(reasons, majors...), minors...), patches...)
	case len(minors) > 0:
		level = BumpMinor
		reasons = append(append(reasons, minors...), patches...)
	case len(patches) > 0:
		level = BumpPatch
		reasons = patches
	default:
		return nil
	}

	return &SemverSuggestion{
		EntityType: entityType,
		EntityKey:  key,
		Current:    currentVersion,
		Suggested:  bump(currentVersion, level),
		Level:      level,
		Reasons:    reasons,
	}
}

// bump applies a level to a semver string. An absent or unparsable current
// version starts from 0.0.0.
func bump(current string, level BumpLevel) string {
	v, err := semver.NewVersion(current)
	if err != nil {
		v = semver.New(0, 0, 0, "", "")
	}

	var next semver.Version
	switch level {
	case BumpMajor:
		next = v.IncMajor()
	case BumpMinor:
		next = v.IncMinor()
	default:
		next = v.IncPatch()
	}
	return next.String()
}
