package catalog

import "strings"

// Entity kinds used by the aggregation pipelines.
const (
	KindAPI       = "API"
	KindComponent = "Component"
	KindSystem    = "System"
	KindGroup     = "Group"
	KindUser      = "User"
)

// Relation types emitted by the catalog.
const (
	RelationOwnedBy       = "ownedBy"
	RelationHasPart       = "hasPart"
	RelationAPIProvidedBy = "apiProvidedBy"
)

// SourceLocationAnnotation points at the entity's directory inside the
// monorepo, e.g. url:https://github.com/acme/protocol/tree/main/contracts/bridge
const SourceLocationAnnotation = "backstage.io/source-location"

const DefaultNamespace = "default"

// Relation is a directed typed edge to another entity, by reference.
type Relation struct {
	Type      string `json:"type"`
	TargetRef string `json:"targetRef"`
}

type Metadata struct {
	Name        string            `json:"name"`
	Namespace   string            `json:"namespace,omitempty"`
	Title       string            `json:"title,omitempty"`
	Tags        []string          `json:"tags,omitempty"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

type Spec struct {
	Type   string `json:"type,omitempty"`
	Owner  string `json:"owner,omitempty"`
	System string `json:"system,omitempty"`
}

// Entity is one catalog node. Entities are loaded once per run and never
// mutated afterwards; cross-entity links are reference strings resolved
// through an Index.
type Entity struct {
	Kind      string     `json:"kind"`
	Metadata  Metadata   `json:"metadata"`
	Spec      Spec       `json:"spec,omitempty"`
	Relations []Relation `json:"relations,omitempty"`
}

// Ref returns the entity's canonical reference: kind:namespace/name with a
// lowercased kind and the default namespace filled in.
func (e Entity) Ref() string {
	ns := e.Metadata.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	return strings.ToLower(e.Kind) + ":" + ns + "/" + e.Metadata.Name
}

// DisplayTitle prefers the title and falls back to the name.
func (e Entity) DisplayTitle() string {
	if e.Metadata.Title != "" {
		return e.Metadata.Title
	}
	return e.Metadata.Name
}

// RefKind returns the kind segment of a reference string, lowercased.
func RefKind(ref string) string {
	if idx := strings.Index(ref, ":"); idx != -1 {
		return strings.ToLower(ref[:idx])
	}
	return ""
}

// QualifyRef expands a bare name or namespace/name into a full reference of
// the given kind. Full references pass through unchanged.
func QualifyRef(ref, kind string) string {
	if ref == "" || strings.Contains(ref, ":") {
		return ref
	}
	if strings.Contains(ref, "/") {
		return strings.ToLower(kind) + ":" + ref
	}
	return strings.ToLower(kind) + ":" + DefaultNamespace + "/" + ref
}
