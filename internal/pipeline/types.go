package pipeline

import (
	"fmt"
	"time"
)

// EntityType identifies one migrated record collection. The value doubles as
// the destination table name and the stem of the unit file name.
type EntityType string

const (
	Authors      EntityType = "authors"
	Categories   EntityType = "categories"
	Tags         EntityType = "tags"
	Posts        EntityType = "posts"
	Pages        EntityType = "pages"
	Comments     EntityType = "comments"
	Media        EntityType = "media"
	SEOMetadata  EntityType = "seo_metadata"
	CustomFields EntityType = "custom_fields"
	Redirects    EntityType = "redirects"
)

// UnitSuffix is appended to the entity type name to form the unit file name.
const UnitSuffix = ".sql"

// dependencies declares, per entity type, the parent entity types whose unit
// must be loaded first. Adding a new entity type requires an entry here and a
// slot in loadOrder; VerifyLoadOrder catches a missing or inconsistent entry.
var dependencies = map[EntityType][]EntityType{
	Authors:      nil,
	Categories:   nil,
	Tags:         nil,
	Posts:        {Authors},
	Pages:        {Authors},
	Comments:     {Posts},
	Media:        {Posts},
	SEOMetadata:  {Posts, Pages},
	CustomFields: {Posts},
	Redirects:    nil,
}

// loadOrder is the fixed total order units execute in. Independent and parent
// entities come first, then their dependents, then redirects.
var loadOrder = []EntityType{
	Authors,
	Categories,
	Tags,
	Posts,
	Pages,
	Comments,
	Media,
	SEOMetadata,
	CustomFields,
	Redirects,
}

// Dependencies returns the declared parent entity types for the given type.
func Dependencies(e EntityType) []EntityType {
	return dependencies[e]
}

// LoadOrder returns the fixed unit execution order.
func LoadOrder() []EntityType {
	out := make([]EntityType, len(loadOrder))
	copy(out, loadOrder)
	return out
}

// VerifyLoadOrder checks that loadOrder covers every declared entity type
// exactly once and never places a child before one of its parents.
func VerifyLoadOrder() error {
	position := make(map[EntityType]int, len(loadOrder))
	for i, e := range loadOrder {
		if _, dup := position[e]; dup {
			return fmt.Errorf("entity type %q listed twice in load order", e)
		}
		position[e] = i
	}
	if len(position) != len(dependencies) {
		return fmt.Errorf("load order has %d entity types, dependency graph has %d", len(position), len(dependencies))
	}
	for e, deps := range dependencies {
		pos, ok := position[e]
		if !ok {
			return fmt.Errorf("entity type %q missing from load order", e)
		}
		for _, dep := range deps {
			depPos, ok := position[dep]
			if !ok {
				return fmt.Errorf("entity type %q depends on undeclared type %q", e, dep)
			}
			if depPos > pos {
				return fmt.Errorf("entity type %q loads before its dependency %q", e, dep)
			}
		}
	}
	return nil
}

// Statement is a single idempotent upsert, without the terminating semicolon.
type Statement string

// Unit is the statement batch for one entity type, executed in one
// transaction by the destination store.
type Unit struct {
	Entity     EntityType
	Statements []Statement
}

// Name returns the unit file name, e.g. "posts.sql".
func (u *Unit) Name() string {
	return string(u.Entity) + UnitSuffix
}

// Run records one invocation of the migration pipeline in the destination
// store, so an operator can see what ran and how it ended.
type Run struct {
	ID          string
	Operation   string
	StartedAt   time.Time
	FinishedAt  *time.Time
	Status      string // "success" or "error"
	FailedUnits string // comma-separated unit names, empty when none failed
}
