package mapping

import (
	"slices"
	"strings"

	"github.com/OpenTraceLab/fdtshim-mapping/pkg/dtbdata"
)

// Group is a set of records sharing one primary compatible.
type Group struct {
	Compatible string
	Records    []*dtbdata.Record
}

// Partition splits records into those whose primary compatible is unique
// (Valid) and those that collide (Invalid).
type Partition struct {
	// Valid is ordered by path.
	Valid []*dtbdata.Record
	// Invalid is ordered by compatible; members within a group by path.
	Invalid []Group
}

// PartitionRecords groups records by primary compatible. Every input record
// ends up in exactly one of Valid or Invalid. The input slice is not
// modified.
func PartitionRecords(records []*dtbdata.Record) Partition {
	sorted := slices.Clone(records)
	slices.SortStableFunc(sorted, func(a, b *dtbdata.Record) int {
		if c := strings.Compare(a.Compatible(), b.Compatible()); c != 0 {
			return c
		}
		return dtbdata.ComparePath(a, b)
	})

	var p Partition
	for start := 0; start < len(sorted); {
		end := start + 1
		for end < len(sorted) && sorted[end].Compatible() == sorted[start].Compatible() {
			end++
		}
		if end-start == 1 {
			p.Valid = append(p.Valid, sorted[start])
		} else {
			p.Invalid = append(p.Invalid, Group{
				Compatible: sorted[start].Compatible(),
				Records:    sorted[start:end:end],
			})
		}
		start = end
	}

	slices.SortStableFunc(p.Valid, dtbdata.ComparePath)
	return p
}
