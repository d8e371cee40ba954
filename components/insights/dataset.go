package insights

import (
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Dataset is an immutable in-memory table: ordered headers, per-header type
// tags, and rows carrying their original import position as identity. Role
// resolution happens once here, never per row.
type Dataset struct {
	ImportID string
	Headers  []string
	Types    map[string]ColumnType
	Rows     []Row

	roles RoleSet
}

// NewDataset builds a dataset from the ingestion contract. Rows get a stable
// integer identity equal to their import position. Headers with no declared
// type default to string.
func NewDataset(input DatasetInput) *Dataset {
	types := make(map[string]ColumnType, len(input.Headers))
	for _, header := range input.Headers {
		if t, ok := input.Types[header]; ok {
			types[header] = t
		} else {
			types[header] = ColumnString
		}
	}
	rows := make([]Row, 0, len(input.Rows))
	for i, cells := range input.Rows {
		copied := make(map[string]any, len(cells))
		for k, v := range cells {
			copied[k] = v
		}
		rows = append(rows, Row{ID: i, Cells: copied})
	}
	return &Dataset{
		ImportID: uuid.NewString(),
		Headers:  append([]string(nil), input.Headers...),
		Types:    types,
		Rows:     rows,
		roles:    ResolveRoles(input.Headers),
	}
}

// Roles returns the role resolution computed at construction.
func (d *Dataset) Roles() RoleSet {
	if d == nil {
		return RoleSet{}
	}
	return d.roles
}

// HasHeader reports whether the dataset declares the header.
func (d *Dataset) HasHeader(name string) bool {
	if d == nil {
		return false
	}
	_, ok := d.Types[name]
	return ok
}

// cellString coerces an arbitrary cell value to its display string.
func cellString(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case nil:
		return ""
	default:
		return ""
	}
}

// cellNumber coerces a metric cell to float64; anything non-numeric
// contributes zero. Decimal commas are tolerated because exported
// spreadsheets frequently carry them.
func cellNumber(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int:
		return float64(val)
	case int64:
		return float64(val)
	case string:
		trimmed := strings.TrimSpace(val)
		if trimmed == "" {
			return 0
		}
		if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return f
		}
		if strings.Count(trimmed, ",") == 1 && !strings.Contains(trimmed, ".") {
			if f, err := strconv.ParseFloat(strings.Replace(trimmed, ",", ".", 1), 64); err == nil {
				return f
			}
		}
		return 0
	default:
		return 0
	}
}
