// Package search turns composed query waves into parameterized SQL,
// executes them tier by tier with per-table fan-out, and normalizes the
// merged rows into a single result shape.
package search

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/bosun-marine/bosun-engine/pkg/apperrors"
	"github.com/bosun-marine/bosun-engine/pkg/capability"
	enginesql "github.com/bosun-marine/bosun-engine/pkg/sql"
)

// Statement is one parameterized per-table SELECT. Statements of a wave
// share UNION ALL semantics: each carries a literal _source tag and its own
// limit, and the executor merges them under the aggregate limit.
type Statement struct {
	Table string
	SQL   string
	Args  []any
}

// BuildWaveStatements renders every table query of a wave. Each statement
// is fully parameterized and carries `yacht_id = $1` unconditionally: a
// capability that cannot be scoped fails here with a contract violation,
// before anything reaches the database.
//
// Within a statement, distinct entities AND together and one entity's
// variants OR together. A table whose predicates lost all their values to
// the injection screen is dropped from the wave.
func BuildWaveStatements(wave capability.QueryWave, yachtID uuid.UUID, perTableLimit int) ([]Statement, error) {
	if yachtID == uuid.Nil {
		return nil, fmt.Errorf("%w: statement without yacht scope", apperrors.ErrContractViolation)
	}

	statements := make([]Statement, 0, len(wave.Tables))
	for _, tq := range wave.Tables {
		stmt, ok, err := buildTableStatement(tq, wave.Mode, yachtID, perTableLimit)
		if err != nil {
			return nil, err
		}
		if ok {
			statements = append(statements, stmt)
		}
	}
	return statements, nil
}

func buildTableStatement(tq capability.TableQuery, mode capability.PredicateMode, yachtID uuid.UUID, limit int) (Statement, bool, error) {
	c := tq.Capability
	if err := c.Validate(); err != nil {
		return Statement{}, false, fmt.Errorf("%w: %v", apperrors.ErrContractViolation, err)
	}

	args := []any{yachtID}
	conds := []string{"yacht_id = $1"}

	for _, pred := range tq.Predicates {
		clean, _ := enginesql.FilterSearchValues(pred.Values)
		if len(clean) == 0 {
			// An entity with no usable values makes the AND
			// unsatisfiable for this table.
			return Statement{}, false, nil
		}

		var ors []string
		for _, value := range clean {
			for _, col := range pred.Columns {
				switch mode {
				case capability.ModeExact:
					args = append(args, strings.ToLower(value))
					ors = append(ors, fmt.Sprintf("lower(%s) = $%d", col, len(args)))
				case capability.ModeFuzzy:
					args = append(args, "%"+value+"%")
					ors = append(ors, fmt.Sprintf("%s ILIKE $%d", col, len(args)))
				default:
					return Statement{}, false, fmt.Errorf("%w: unknown predicate mode %q", apperrors.ErrContractViolation, mode)
				}
			}
		}
		conds = append(conds, "("+strings.Join(ors, " OR ")+")")
	}

	if len(conds) == 1 {
		// Only the yacht predicate remains: nothing entity-driven to
		// search for on this table.
		return Statement{}, false, nil
	}

	args = append(args, limit)
	sql := fmt.Sprintf(
		"SELECT id, '%s' AS _source, COALESCE(%s::text, '') AS title, %s AS metadata FROM %s WHERE %s LIMIT $%d",
		c.Table,
		c.TitleColumn,
		metadataProjection(c.DisplayFields),
		c.Table,
		strings.Join(conds, " AND "),
		len(args),
	)

	return Statement{Table: c.Table, SQL: sql, Args: args}, true, nil
}

// metadataProjection renders the display fields as a jsonb object so every
// table's rows share one column shape under UNION ALL.
func metadataProjection(fields []string) string {
	if len(fields) == 0 {
		return "'{}'::jsonb"
	}
	pairs := make([]string, 0, len(fields))
	for _, f := range fields {
		pairs = append(pairs, fmt.Sprintf("'%s', %s", f, f))
	}
	return "jsonb_build_object(" + strings.Join(pairs, ", ") + ")"
}
