package seed

import (
	"fmt"
	"sort"
)

// ContribSet is one contribution's assembled record set, tagged with its
// name so concatenation errors can identify the offender.
type ContribSet struct {
	Name    string
	Records []Record
}

// columnKind is the coarse type lattice used for conflict detection. JSON
// is schemaless, so only scalar-versus-composite mismatches are treated as
// irreconcilable.
type columnKind int

const (
	kindUnknown columnKind = iota
	kindScalar
	kindArray
	kindObject
)

func kindOf(v any) columnKind {
	switch v.(type) {
	case nil:
		return kindUnknown
	case []any:
		return kindArray
	case map[string]any:
		return kindObject
	default:
		return kindScalar
	}
}

func (k columnKind) String() string {
	switch k {
	case kindScalar:
		return "scalar"
	case kindArray:
		return "array"
	case kindObject:
		return "object"
	default:
		return "unknown"
	}
}

// Concat merges per-contribution record sets, in the given order, into one
// dataset. The output rows carry the union of all columns; values absent
// from a row are filled with an explicit null. No row is ever dropped. A
// column whose kind is irreconcilable across contributions (scalar in one,
// array or object in another) fails with the offending contribution named.
func Concat(sets []ContribSet) ([]Record, error) {
	type colInfo struct {
		kind  columnKind
		first string // contribution that established the kind
	}
	columns := make(map[string]colInfo)
	total := 0

	for _, set := range sets {
		total += len(set.Records)
		for _, rec := range set.Records {
			for col, val := range rec {
				k := kindOf(val)
				info, seen := columns[col]
				if !seen {
					// A column joins the union even when its value is
					// null; nulls just never establish a kind.
					columns[col] = colInfo{kind: k, first: set.Name}
					continue
				}
				if k == kindUnknown {
					continue
				}
				if info.kind == kindUnknown {
					columns[col] = colInfo{kind: k, first: set.Name}
					continue
				}
				if info.kind != k {
					return nil, fmt.Errorf(
						"concat: column %q is %s in contribution %q but %s in contribution %q",
						col, info.kind, info.first, k, set.Name)
				}
			}
		}
	}

	// Stable column set for null filling.
	names := make([]string, 0, len(columns))
	for col := range columns {
		names = append(names, col)
	}
	sort.Strings(names)

	out := make([]Record, 0, total)
	for _, set := range sets {
		for _, rec := range set.Records {
			row := make(Record, len(names))
			for _, col := range names {
				if v, ok := rec[col]; ok {
					row[col] = v
				} else {
					row[col] = nil
				}
			}
			out = append(out, row)
		}
	}
	return out, nil
}
