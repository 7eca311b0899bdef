// Package classify decides which business domain and intent a query
// expresses, from its extracted entities plus anchor words in the raw text.
// Ambiguity is a value here, never an error: low confidence downgrades the
// plan to explore mode instead of guessing.
package classify

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/bosun-marine/bosun-engine/pkg/models"
)

// DomainConfidenceThreshold is the floor under which domain detection is
// abandoned: the domain becomes nil and the search runs in explore mode.
// This constant and DomainPriority are the precision/recall tuning levers.
const DomainConfidenceThreshold = 0.6

// IntentDefaultConfidence is assigned when no verb anchor matched and the
// intent defaulted to READ.
const IntentDefaultConfidence = 0.7

// DomainPriority is the fixed, documented tie-break order. When two domains
// score identically, the earlier entry wins, never whichever happened to
// accumulate its score last.
var DomainPriority = []models.Domain{
	models.DomainEquipment,
	models.DomainFault,
	models.DomainWorkOrder,
	models.DomainParts,
	models.DomainInventory,
	models.DomainDocument,
	models.DomainSupplier,
}

// domainVote weights how strongly an entity type pulls toward a domain.
type domainVote struct {
	domain models.Domain
	weight float64
}

// entityVotes maps each entity type to the domains it argues for. An entity
// can vote for more than one domain with different strengths.
var entityVotes = map[models.EntityType][]domainVote{
	models.EntityEquipmentName: {{models.DomainEquipment, 1.0}},
	models.EntityEquipmentType: {{models.DomainEquipment, 0.9}},
	models.EntityFaultCode:     {{models.DomainFault, 1.0}},
	models.EntitySymptom:       {{models.DomainFault, 0.8}, {models.DomainEquipment, 0.4}},
	models.EntityPartName:      {{models.DomainParts, 1.0}},
	models.EntityBrand:         {{models.DomainParts, 0.6}, {models.DomainEquipment, 0.5}},
	models.EntityStockStatus:   {{models.DomainInventory, 1.0}},
	models.EntityDocumentType:  {{models.DomainDocument, 1.0}},
	models.EntityWorkOrderRef:  {{models.DomainWorkOrder, 1.0}},
	models.EntityUrgency:       {{models.DomainWorkOrder, 0.3}},
	models.EntitySeverity:      {{models.DomainFault, 0.3}},
	models.EntityLocation:      {{models.DomainEquipment, 0.3}},
	models.EntityCode:          {{models.DomainFault, 0.2}},
	models.EntityName:          {{models.DomainEquipment, 0.2}},
}

// textAnchors add weight for domain words that are not entities themselves
// ("jobs", "spares", "paperwork").
var textAnchors = map[models.Domain][]string{
	models.DomainWorkOrder: {"work order", "workorder", "job", "jobs", "task", "tasks", "maintenance due"},
	models.DomainParts:     {"part", "parts", "spare", "spares"},
	models.DomainInventory: {"stock", "inventory", "consumable", "consumables"},
	models.DomainDocument:  {"document", "documents", "paperwork"},
	models.DomainSupplier:  {"supplier", "suppliers", "vendor", "vendors"},
	models.DomainFault:     {"fault", "faults", "error", "errors", "breakdown"},
	models.DomainEquipment: {"equipment", "machinery", "system", "systems"},
}

const anchorWeight = 0.5

// intentAnchors map leading verbs to intents. First hit wins, scanning in
// declaration order; default is READ.
var intentAnchors = []struct {
	verbs      []string
	intent     models.Intent
	confidence float64
}{
	{[]string{"create", "add", "new", "raise", "log", "open a", "report"}, models.IntentCreate, 0.9},
	{[]string{"update", "change", "edit", "mark", "complete", "close", "reschedule", "assign"}, models.IntentUpdate, 0.9},
	{[]string{"delete", "remove", "cancel"}, models.IntentDelete, 0.85},
}

// Classifier produces a DetectionContext from extracted entities.
type Classifier interface {
	Classify(ctx context.Context, entities []models.ExtractedEntity, rawText string) models.DetectionContext
}

type classifier struct {
	threshold float64
	logger    *zap.Logger
}

// NewClassifier creates a Classifier. A non-positive threshold falls back
// to DomainConfidenceThreshold.
func NewClassifier(threshold float64, logger *zap.Logger) Classifier {
	if threshold <= 0 {
		threshold = DomainConfidenceThreshold
	}
	return &classifier{threshold: threshold, logger: logger.Named("classifier")}
}

var _ Classifier = (*classifier)(nil)

func (c *classifier) Classify(ctx context.Context, entities []models.ExtractedEntity, rawText string) models.DetectionContext {
	normText := strings.ToLower(rawText)

	scores := make(map[models.Domain]float64)
	// Flagged-ambiguous entities still vote, at their reduced confidence:
	// dropping them would hide the user's topic, trusting them fully would
	// assert the ambiguous reading.
	for _, e := range entities {
		for _, v := range entityVotes[e.Type] {
			scores[v.domain] += v.weight * e.Confidence
		}
	}
	for domain, anchors := range textAnchors {
		for _, a := range anchors {
			if containsWord(normText, a) {
				scores[domain] += anchorWeight
				break
			}
		}
	}

	winner, winnerScore, total := pickDomain(scores)

	intent, intentConf := detectIntent(normText)

	dc := models.DetectionContext{
		Intent:           intent,
		IntentConfidence: intentConf,
		Mode:             models.ModeExplore,
		Entities:         entities,
	}

	if total > 0 {
		// Confidence blends the winner's share of the vote with its
		// absolute strength, so a single feeble fallback entity cannot
		// claim certainty just by being unopposed.
		share := winnerScore / total
		strength := winnerScore
		if strength > 1 {
			strength = 1
		}
		dc.DomainConfidence = share * strength
	}

	if dc.DomainConfidence >= c.threshold {
		d := winner
		dc.Domain = &d
		dc.Mode = models.ModeFocused
	}

	c.logger.Debug("Query classified",
		zap.Any("domain", dc.Domain),
		zap.Float64("domain_confidence", dc.DomainConfidence),
		zap.String("intent", string(dc.Intent)),
		zap.String("mode", string(dc.Mode)))

	return dc
}

// pickDomain returns the highest-scoring domain, ties resolved by
// DomainPriority order, plus the winner's score and the total.
func pickDomain(scores map[models.Domain]float64) (models.Domain, float64, float64) {
	var winner models.Domain
	var winnerScore, total float64
	for _, d := range DomainPriority {
		s := scores[d]
		total += s
		if s > winnerScore {
			winner = d
			winnerScore = s
		}
	}
	return winner, winnerScore, total
}

func detectIntent(normText string) (models.Intent, float64) {
	for _, a := range intentAnchors {
		for _, v := range a.verbs {
			if strings.HasPrefix(normText, v+" ") || containsWord(normText, v) {
				return a.intent, a.confidence
			}
		}
	}
	return models.IntentRead, IntentDefaultConfidence
}

// containsWord reports whether phrase occurs in text on word boundaries.
func containsWord(text, phrase string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], phrase)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(phrase)
		beforeOK := start == 0 || !isWordChar(text[start-1])
		afterOK := end == len(text) || !isWordChar(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordChar(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= '0' && b <= '9' || b == '_'
}
