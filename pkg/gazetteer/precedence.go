package gazetteer

import "github.com/bosun-marine/bosun-engine/pkg/models"

// defaultPrecedence is the built-in tie-break weight per entity type.
// Higher wins when the same span matches more than one type.
var defaultPrecedence = map[models.EntityType]int{
	models.EntityStockStatus:   95,
	models.EntityFaultCode:     92,
	models.EntityEquipmentName: 90,
	models.EntityEquipmentType: 88,
	models.EntityBrand:         85,
	models.EntityPartName:      80,
	models.EntityDocumentType:  75,
	models.EntityWorkOrderRef:  74,
	models.EntitySymptom:       70,
	models.EntityLocation:      60,
	models.EntitySeverity:      50,
	models.EntityUrgency:       45,
	models.EntityCode:          20,
	models.EntityName:          10,
}

// DefaultPrecedence returns a copy of the built-in precedence table.
func DefaultPrecedence() map[models.EntityType]int {
	out := make(map[models.EntityType]int, len(defaultPrecedence))
	for k, v := range defaultPrecedence {
		out[k] = v
	}
	return out
}

// MergePrecedence applies overrides on top of the built-in defaults.
// The merge is per-key: a partial override adjusts only the types it names
// and every other type keeps its default weight. Never replace the table
// wholesale; that erases the high-weight types a partial override does not
// mention.
func MergePrecedence(overrides map[models.EntityType]int) map[models.EntityType]int {
	merged := DefaultPrecedence()
	for k, v := range overrides {
		merged[k] = v
	}
	return merged
}
