package drafts

import (
	"encoding/json"
	"fmt"

	jsonpatch "github.com/evanphx/json-patch/v5"
)

// ApplyPatch applies an RFC 6902 patch to a JSON document and returns the
// result. The input document is cloned first, so callers can hand in
// canonical bytes without risking mutation. Operations apply in stored order;
// any failing operation fails the whole patch.
func ApplyPatch(doc, patch json.RawMessage) (json.RawMessage, error) {
	p, err := jsonpatch.DecodePatch(patch)
	if err != nil {
		return nil, fmt.Errorf("decode patch: %w", err)
	}

	work := make(json.RawMessage, len(doc))
	copy(work, doc)

	out, err := p.Apply(work)
	if err != nil {
		return nil, fmt.Errorf("apply patch: %w", err)
	}
	return out, nil
}

// CombinePatches concatenates two RFC 6902 patch arrays, preserving operation
// order: all of a, then all of b.
func CombinePatches(a, b json.RawMessage) (json.RawMessage, error) {
	var opsA, opsB []json.RawMessage
	if len(a) > 0 {
		if err := json.Unmarshal(a, &opsA); err != nil {
			return nil, fmt.Errorf("decode first patch: %w", err)
		}
	}
	if len(b) > 0 {
		if err := json.Unmarshal(b, &opsB); err != nil {
			return nil, fmt.Errorf("decode second patch: %w", err)
		}
	}

	ops := append(opsA, opsB...)
	if ops == nil {
		ops = []json.RawMessage{}
	}
	combined, err := json.Marshal(ops)
	if err != nil {
		return nil, err
	}
	return combined, nil
}

// ValidatePatch checks that a patch is a well-formed RFC 6902 array without
// applying it.
func ValidatePatch(patch json.RawMessage) error {
	if _, err := jsonpatch.DecodePatch(patch); err != nil {
		return fmt.Errorf("invalid patch: %w", err)
	}
	return nil
}
