// Package capability declares which tables and columns each entity type can
// drive a search against, and composes per-query plans (tiers of waves)
// from the entities actually present.
package capability

import (
	"fmt"

	"github.com/bosun-marine/bosun-engine/pkg/models"
	enginesql "github.com/bosun-marine/bosun-engine/pkg/sql"
)

// Capability binds one table to the entity types that can search it. It is
// a static catalog entry; per-query selection happens in the composer.
type Capability struct {
	Table string
	// Domain is the business domain that owns the table. Capabilities of
	// the detected domain form Tier 1; everything else triggered is Tier 2.
	Domain models.Domain
	// EntityColumns maps each triggering entity type to the columns its
	// value is matched against.
	EntityColumns map[models.EntityType][]string
	// TitleColumn supplies NormalizedResult.Title.
	TitleColumn string
	// DisplayFields are the columns carried into result metadata.
	DisplayFields []string
}

// Triggers reports whether the capability reacts to the entity type.
func (c Capability) Triggers(t models.EntityType) bool {
	_, ok := c.EntityColumns[t]
	return ok
}

// Validate enforces catalog contracts at startup: legal identifiers
// everywhere, a title column, and at least one trigger. Generated SQL
// unconditionally scopes by yacht_id, so that column must not be shadowed
// by a display field.
func (c Capability) Validate() error {
	if err := enginesql.ValidateIdentifier(c.Table); err != nil {
		return fmt.Errorf("capability %s: %w", c.Table, err)
	}
	if c.TitleColumn == "" {
		return fmt.Errorf("capability %s: missing title column", c.Table)
	}
	if len(c.EntityColumns) == 0 {
		return fmt.Errorf("capability %s: no entity triggers", c.Table)
	}
	cols := []string{c.TitleColumn}
	cols = append(cols, c.DisplayFields...)
	for _, cc := range c.EntityColumns {
		cols = append(cols, cc...)
	}
	for _, col := range cols {
		if err := enginesql.ValidateIdentifier(col); err != nil {
			return fmt.Errorf("capability %s: %w", c.Table, err)
		}
		if col == "yacht_id" {
			return fmt.Errorf("capability %s: yacht_id may not be a match or display column", c.Table)
		}
	}
	return nil
}

// Catalog returns the built-in capability set. Tables mirror the migrations
// in migrations/.
func Catalog() []Capability {
	return []Capability{
		{
			Table:  "equipment",
			Domain: models.DomainEquipment,
			EntityColumns: map[models.EntityType][]string{
				models.EntityEquipmentName: {"name"},
				models.EntityEquipmentType: {"category"},
				models.EntityBrand:         {"manufacturer"},
				models.EntityLocation:      {"location"},
				models.EntityName:          {"name", "manufacturer"},
			},
			TitleColumn:   "name",
			DisplayFields: []string{"manufacturer", "model", "location", "status"},
		},
		{
			Table:  "parts",
			Domain: models.DomainParts,
			EntityColumns: map[models.EntityType][]string{
				models.EntityPartName:    {"name", "description"},
				models.EntityBrand:       {"manufacturer"},
				models.EntityStockStatus: {"stock_status"},
				models.EntityCode:        {"part_number"},
				models.EntityName:        {"name", "manufacturer"},
			},
			TitleColumn:   "name",
			DisplayFields: []string{"part_number", "manufacturer", "quantity", "min_quantity", "stock_status"},
		},
		{
			Table:  "work_orders",
			Domain: models.DomainWorkOrder,
			EntityColumns: map[models.EntityType][]string{
				models.EntityWorkOrderRef:  {"status"},
				models.EntityEquipmentName: {"title", "description"},
				models.EntitySymptom:       {"title", "description"},
				models.EntityUrgency:       {"priority"},
				models.EntityPartName:      {"description"},
			},
			TitleColumn:   "title",
			DisplayFields: []string{"status", "priority", "due_date"},
		},
		{
			Table:  "faults",
			Domain: models.DomainFault,
			EntityColumns: map[models.EntityType][]string{
				models.EntityFaultCode:     {"code"},
				models.EntitySymptom:       {"description"},
				models.EntityEquipmentName: {"equipment_name", "description"},
				models.EntitySeverity:      {"severity"},
			},
			TitleColumn:   "code",
			DisplayFields: []string{"severity", "description", "status", "equipment_name"},
		},
		{
			Table:  "documents",
			Domain: models.DomainDocument,
			EntityColumns: map[models.EntityType][]string{
				models.EntityDocumentType:  {"doc_type"},
				models.EntityEquipmentName: {"title", "description"},
				models.EntityBrand:         {"title"},
				models.EntityName:          {"title"},
			},
			TitleColumn:   "title",
			DisplayFields: []string{"doc_type", "description"},
		},
		{
			Table:  "suppliers",
			Domain: models.DomainSupplier,
			EntityColumns: map[models.EntityType][]string{
				models.EntityBrand:    {"name", "brands"},
				models.EntityPartName: {"categories"},
				models.EntityName:     {"name"},
			},
			TitleColumn:   "name",
			DisplayFields: []string{"contact_email", "phone", "brands"},
		},
	}
}

// ValidateCatalog checks every entry. Called at startup; a defective
// catalog is a deploy blocker, not a per-request condition.
func ValidateCatalog(catalog []Capability) error {
	seen := make(map[string]struct{}, len(catalog))
	for _, c := range catalog {
		if err := c.Validate(); err != nil {
			return err
		}
		if _, dup := seen[c.Table]; dup {
			return fmt.Errorf("capability %s: duplicate table", c.Table)
		}
		seen[c.Table] = struct{}{}
	}
	return nil
}

// ownsDomain reports whether a capability's table belongs to the domain's
// Tier 1. The inventory domain maps onto the parts table: stock questions
// are answered by parts rows and their stock columns.
func ownsDomain(c Capability, d models.Domain) bool {
	if c.Domain == d {
		return true
	}
	return d == models.DomainInventory && c.Table == "parts"
}
