package search

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jinzhu/inflection"

	"github.com/bosun-marine/bosun-engine/pkg/apperrors"
	"github.com/bosun-marine/bosun-engine/pkg/models"
)

// normalizeRows flattens unioned rows into NormalizedResult. The row shape
// is fixed by the planner: id, _source, title, metadata.
//
// Type is derived strictly from the _source tag each row was unioned with.
// There is no default: a row whose tag is missing or unmapped is a contract
// violation and fails the whole scan loudly. Equipment rows silently coming
// back labeled as documents is precisely the failure this refuses to allow.
func normalizeRows(rows pgx.Rows) ([]models.NormalizedResult, error) {
	var results []models.NormalizedResult
	for rows.Next() {
		var (
			id        uuid.UUID
			source    string
			title     string
			metaBytes []byte
		)
		if err := rows.Scan(&id, &source, &title, &metaBytes); err != nil {
			return nil, fmt.Errorf("failed to scan result row: %w", err)
		}

		resultType, err := typeFromSource(source)
		if err != nil {
			return nil, err
		}

		metadata := map[string]any{}
		if len(metaBytes) > 0 {
			if err := json.Unmarshal(metaBytes, &metadata); err != nil {
				return nil, fmt.Errorf("failed to decode result metadata: %w", err)
			}
		}

		results = append(results, models.NormalizedResult{
			ID:          id,
			SourceTable: source,
			Type:        resultType,
			Title:       title,
			Metadata:    metadata,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating result rows: %w", err)
	}
	return results, nil
}

// typeFromSource maps a union's _source table tag to the result type:
// singularize the table name, then require it to be a known type.
func typeFromSource(source string) (models.ResultType, error) {
	if source == "" {
		return "", fmt.Errorf("%w: result row missing _source tag", apperrors.ErrContractViolation)
	}
	resultType, err := models.ParseResultType(inflection.Singular(source))
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrContractViolation, err)
	}
	return resultType, nil
}

// sortResults orders merged rows deterministically: by source table, then
// title, then id. Wave fan-in must not leak goroutine scheduling into the
// response order.
func sortResults(results []models.NormalizedResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].SourceTable != results[j].SourceTable {
			return results[i].SourceTable < results[j].SourceTable
		}
		if results[i].Title != results[j].Title {
			return results[i].Title < results[j].Title
		}
		return results[i].ID.String() < results[j].ID.String()
	})
}
