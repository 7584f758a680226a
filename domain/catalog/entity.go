package catalog

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// EntityType is the closed set of ontology entity kinds.
type EntityType string

const (
	TypeCategory  EntityType = "category"
	TypeProperty  EntityType = "property"
	TypeSubobject EntityType = "subobject"
	TypeModule    EntityType = "module"
	TypeBundle    EntityType = "bundle"
	TypeTemplate  EntityType = "template"
)

// AllEntityTypes lists every entity type in canonical order.
var AllEntityTypes = []EntityType{
	TypeCategory,
	TypeProperty,
	TypeSubobject,
	TypeModule,
	TypeBundle,
	TypeTemplate,
}

// ParseEntityType parses a string into an EntityType, rejecting unknown values.
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(s)
	if !t.Valid() {
		return "", fmt.Errorf("unknown entity type %q", s)
	}
	return t, nil
}

// Valid reports whether t is one of the known entity types.
func (t EntityType) Valid() bool {
	switch t {
	case TypeCategory, TypeProperty, TypeSubobject, TypeModule, TypeBundle, TypeTemplate:
		return true
	}
	return false
}

func (t EntityType) String() string { return string(t) }

// Entity is a canonical ontology entity row in ont.entities.
// The body holds the full definition as loaded from source; relationship
// tables are derived from it at ingest time.
type Entity struct {
	bun.BaseModel `bun:"table:ont.entities,alias:e"`

	ID         string          `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	VersionID  string          `bun:"version_id,notnull,type:uuid"`
	EntityType EntityType      `bun:"entity_type,notnull"`
	EntityKey  string          `bun:"entity_key,notnull"`
	Body       json.RawMessage `bun:"body,notnull,type:jsonb"`
	CreatedAt  time.Time       `bun:"created_at,notnull,default:now()"`
}

// ParentEdge is a category inheritance edge in ont.parent_edges.
type ParentEdge struct {
	bun.BaseModel `bun:"table:ont.parent_edges,alias:pe"`

	VersionID string `bun:"version_id,notnull,type:uuid"`
	ChildKey  string `bun:"child_key,notnull"`
	ParentKey string `bun:"parent_key,notnull"`
}

// PropertyLink attaches a property to a category or subobject.
type PropertyLink struct {
	bun.BaseModel `bun:"table:ont.property_links,alias:pl"`

	VersionID   string `bun:"version_id,notnull,type:uuid"`
	CategoryKey string `bun:"category_key,notnull"`
	PropertyKey string `bun:"property_key,notnull"`
	Required    bool   `bun:"required,notnull"`
	Origin      string `bun:"origin,notnull"`
}

// ModuleMember is a module membership row.
type ModuleMember struct {
	bun.BaseModel `bun:"table:ont.module_members,alias:mm"`

	VersionID  string `bun:"version_id,notnull,type:uuid"`
	ModuleKey  string `bun:"module_key,notnull"`
	MemberType string `bun:"member_type,notnull"`
	MemberKey  string `bun:"member_key,notnull"`
}

// BundleModule links a bundle to one of its modules.
type BundleModule struct {
	bun.BaseModel `bun:"table:ont.bundle_modules,alias:bm"`

	VersionID string `bun:"version_id,notnull,type:uuid"`
	BundleKey string `bun:"bundle_key,notnull"`
	ModuleKey string `bun:"module_key,notnull"`
}

// EffectiveProperty is a materialized inherited-property row with provenance.
type EffectiveProperty struct {
	bun.BaseModel `bun:"table:ont.category_properties_effective,alias:cpe"`

	VersionID         string `bun:"version_id,notnull,type:uuid"`
	CategoryKey       string `bun:"category_key,notnull"`
	PropertyKey       string `bun:"property_key,notnull"`
	SourceCategoryKey string `bun:"source_category_key,notnull"`
	Required          bool   `bun:"required,notnull"`
	Depth             int    `bun:"depth,notnull"`
}

// PropertyRef is a property attachment inside a category or subobject body.
type PropertyRef struct {
	Key      string `json:"key"`
	Required bool   `json:"required,omitempty"`
}

// MemberRef is a module member reference inside a module body.
type MemberRef struct {
	Type string `json:"type"`
	Key  string `json:"key"`
}

// CategoryBody is the JSON shape of a category entity body.
type CategoryBody struct {
	Label       string        `json:"label"`
	Description string        `json:"description,omitempty"`
	Parents     []string      `json:"parents,omitempty"`
	Properties  []PropertyRef `json:"properties,omitempty"`
}

// PropertyBody is the JSON shape of a property entity body.
type PropertyBody struct {
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
	Datatype    string `json:"datatype"`
	Cardinality string `json:"cardinality,omitempty"`
}

// SubobjectBody is the JSON shape of a subobject entity body.
type SubobjectBody struct {
	Label      string        `json:"label"`
	Properties []PropertyRef `json:"properties,omitempty"`
}

// ModuleBody is the JSON shape of a module entity body.
type ModuleBody struct {
	Label   string      `json:"label"`
	Version string      `json:"version,omitempty"`
	Members []MemberRef `json:"members,omitempty"`
}

// BundleBody is the JSON shape of a bundle entity body.
type BundleBody struct {
	Label   string   `json:"label"`
	Version string   `json:"version,omitempty"`
	Modules []string `json:"modules,omitempty"`
}

// TemplateBody is the JSON shape of a template entity body.
type TemplateBody struct {
	Label     string          `json:"label"`
	AppliesTo []string        `json:"applies_to,omitempty"`
	Body      json.RawMessage `json:"body,omitempty"`
}

// DecodeCategoryBody unmarshals a category body, tolerating extra fields.
func DecodeCategoryBody(raw json.RawMessage) (*CategoryBody, error) {
	var b CategoryBody
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decode category body: %w", err)
	}
	return &b, nil
}

// DecodePropertyBody unmarshals a property body.
func DecodePropertyBody(raw json.RawMessage) (*PropertyBody, error) {
	var b PropertyBody
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decode property body: %w", err)
	}
	return &b, nil
}

// DecodeSubobjectBody unmarshals a subobject body.
func DecodeSubobjectBody(raw json.RawMessage) (*SubobjectBody, error) {
	var b SubobjectBody
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decode subobject body: %w", err)
	}
	return &b, nil
}

// DecodeModuleBody unmarshals a module body.
func DecodeModuleBody(raw json.RawMessage) (*ModuleBody, error) {
	var b ModuleBody
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decode module body: %w", err)
	}
	return &b, nil
}

// DecodeBundleBody unmarshals a bundle body.
func DecodeBundleBody(raw json.RawMessage) (*BundleBody, error) {
	var b BundleBody
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decode bundle body: %w", err)
	}
	return &b, nil
}

// DecodeTemplateBody unmarshals a template body.
func DecodeTemplateBody(raw json.RawMessage) (*TemplateBody, error) {
	var b TemplateBody
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, fmt.Errorf("decode template body: %w", err)
	}
	return &b, nil
}
