package versions

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ontocraft/ontocraft/domain/catalog"
)

func TestBuildEntities(t *testing.T) {
	tests := []struct {
		name    string
		req     *IngestRequest
		wantErr string
		wantLen int
	}{
		{
			name: "valid payload",
			req: &IngestRequest{
				SourceRef: "repo@main",
				Entities: []IngestEntity{
					{Type: "category", Key: "person", Body: json.RawMessage(`{"label":"Person"}`)},
					{Type: "property", Key: "name", Body: json.RawMessage(`{"label":"Name","datatype":"string"}`)},
				},
			},
			wantLen: 2,
		},
		{
			name:    "missing source ref",
			req:     &IngestRequest{Entities: []IngestEntity{{Type: "category", Key: "a"}}},
			wantErr: "source_ref is required",
		},
		{
			name:    "empty entities",
			req:     &IngestRequest{SourceRef: "repo@main"},
			wantErr: "at least one entity",
		},
		{
			name: "unknown type",
			req: &IngestRequest{
				SourceRef: "repo@main",
				Entities:  []IngestEntity{{Type: "widget", Key: "a"}},
			},
			wantErr: "unknown entity type",
		},
		{
			name: "missing key",
			req: &IngestRequest{
				SourceRef: "repo@main",
				Entities:  []IngestEntity{{Type: "category"}},
			},
			wantErr: "key is required",
		},
		{
			name: "duplicate type+key",
			req: &IngestRequest{
				SourceRef: "repo@main",
				Entities: []IngestEntity{
					{Type: "category", Key: "person"},
					{Type: "category", Key: "person"},
				},
			},
			wantErr: "duplicate entity category/person",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildEntities(tt.req)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func TestBuildEntitiesDefaultsEmptyBody(t *testing.T) {
	got, err := buildEntities(&IngestRequest{
		SourceRef: "repo@main",
		Entities:  []IngestEntity{{Type: "category", Key: "person"}},
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.JSONEq(t, `{}`, string(got[0].Body))
	assert.Equal(t, catalog.TypeCategory, got[0].EntityType)
}

// Duplicate keys are allowed across types: the same key can name a category
// and a property.
func TestBuildEntitiesSameKeyDifferentTypes(t *testing.T) {
	got, err := buildEntities(&IngestRequest{
		SourceRef: "repo@main",
		Entities: []IngestEntity{
			{Type: "category", Key: "name"},
			{Type: "property", Key: "name"},
		},
	})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
