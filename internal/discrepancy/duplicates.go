package discrepancy

import (
	"strings"

	"github.com/temirov/itamaudit/internal/inventory"
)

// KeyField names a record field usable in a duplicate key.
type KeyField string

// Supported key fields.
const (
	KeyFieldDesignator   KeyField = "designator"
	KeyFieldFloorPlanNew KeyField = "floor_plan_new"
	KeyFieldFloorPlanOld KeyField = "floor_plan_old"
	KeyFieldDepartment   KeyField = "department"
)

// Key scheme names.
const (
	SchemeDesignatorFloorPlanNew = "designator+floor_plan_new"
	SchemeDesignatorFloorPlanOld = "designator+floor_plan_old"
	SchemeDesignatorDepartment   = "designator+department"
)

const keyValueSeparatorConstant = "\x1f"

// KeyScheme is a named composite key used to bucket records.
type KeyScheme struct {
	Name   string
	Fields []KeyField
}

// DefaultKeySchemes returns the three schemes in partner-resolution priority order.
func DefaultKeySchemes() []KeyScheme {
	return []KeyScheme{
		{Name: SchemeDesignatorFloorPlanNew, Fields: []KeyField{KeyFieldDesignator, KeyFieldFloorPlanNew}},
		{Name: SchemeDesignatorFloorPlanOld, Fields: []KeyField{KeyFieldDesignator, KeyFieldFloorPlanOld}},
		{Name: SchemeDesignatorDepartment, Fields: []KeyField{KeyFieldDesignator, KeyFieldDepartment}},
	}
}

// DuplicateGroupKey identifies one bucket: the scheme plus the shared values.
type DuplicateGroupKey struct {
	Scheme string
	Values []string
}

// DuplicateGroup is a bucket of two or more records sharing a fully present key.
type DuplicateGroup struct {
	Key       DuplicateGroupKey
	Members   []int
	MemberIDs []string
}

// Membership is the set of scheme names under which a record is duplicated.
type Membership map[string]struct{}

// Has reports whether the record is duplicated under the named scheme.
func (membership Membership) Has(schemeName string) bool {
	_, exists := membership[schemeName]
	return exists
}

// DuplicateGroups holds the grouping result for one record set.
type DuplicateGroups struct {
	schemes       []KeyScheme
	groups        []DuplicateGroup
	schemeMembers map[string][]int
	groupByRecord map[string]map[int]int
	identifiers   map[int]string
}

// FindDuplicateGroups buckets records under every scheme independently and
// keeps buckets with at least two members. A key with any absent or empty
// value never matches.
func FindDuplicateGroups(records []inventory.Record, schemes []KeyScheme) DuplicateGroups {
	result := DuplicateGroups{
		schemes:       append([]KeyScheme{}, schemes...),
		schemeMembers: make(map[string][]int, len(schemes)),
		groupByRecord: make(map[string]map[int]int, len(schemes)),
		identifiers:   make(map[int]string, len(records)),
	}

	for _, record := range records {
		result.identifiers[record.Index] = record.ID
	}

	for _, scheme := range schemes {
		bucketPositions := make(map[string]int)
		var buckets []DuplicateGroup

		for _, record := range records {
			values, complete := keyValues(record, scheme.Fields)
			if !complete {
				continue
			}
			bucketKey := strings.Join(values, keyValueSeparatorConstant)
			position, exists := bucketPositions[bucketKey]
			if !exists {
				position = len(buckets)
				bucketPositions[bucketKey] = position
				buckets = append(buckets, DuplicateGroup{Key: DuplicateGroupKey{Scheme: scheme.Name, Values: values}})
			}
			buckets[position].Members = append(buckets[position].Members, record.Index)
			buckets[position].MemberIDs = append(buckets[position].MemberIDs, record.ID)
		}

		recordGroups := make(map[int]int)
		for _, bucket := range buckets {
			if len(bucket.Members) < 2 {
				continue
			}
			groupPosition := len(result.groups)
			result.groups = append(result.groups, bucket)
			for _, member := range bucket.Members {
				recordGroups[member] = groupPosition
			}
		}
		result.groupByRecord[scheme.Name] = recordGroups

		for _, record := range records {
			if _, grouped := recordGroups[record.Index]; grouped {
				result.schemeMembers[scheme.Name] = append(result.schemeMembers[scheme.Name], record.Index)
			}
		}
	}

	return result
}

// Groups returns every retained group, scheme by scheme.
func (groups DuplicateGroups) Groups() []DuplicateGroup {
	return append([]DuplicateGroup{}, groups.groups...)
}

// Members returns the record indexes duplicated under the scheme, in record order.
func (groups DuplicateGroups) Members(schemeName string) []int {
	return append([]int{}, groups.schemeMembers[schemeName]...)
}

// Membership returns the schemes under which the record is duplicated.
func (groups DuplicateGroups) Membership(recordIndex int) Membership {
	membership := Membership{}
	for _, scheme := range groups.schemes {
		if _, grouped := groups.groupByRecord[scheme.Name][recordIndex]; grouped {
			membership[scheme.Name] = struct{}{}
		}
	}
	return membership
}

// PartnerOf resolves the ID of the record that makes this one a duplicate:
// the lowest-index partner under the first scheme, in priority order, that
// has one. It reports false when no partner resolves.
func (groups DuplicateGroups) PartnerOf(recordIndex int) (string, bool) {
	for _, scheme := range groups.schemes {
		groupPosition, grouped := groups.groupByRecord[scheme.Name][recordIndex]
		if !grouped {
			continue
		}
		for _, member := range groups.groups[groupPosition].Members {
			if member == recordIndex {
				continue
			}
			identifier, known := groups.identifiers[member]
			if !known {
				continue
			}
			return identifier, true
		}
	}
	return "", false
}

func keyValues(record inventory.Record, fields []KeyField) ([]string, bool) {
	values := make([]string, 0, len(fields))
	for _, field := range fields {
		value, present := keyField(record, field).Value()
		if !present || len(value) == 0 {
			return nil, false
		}
		values = append(values, value)
	}
	return values, len(values) > 0
}

func keyField(record inventory.Record, field KeyField) inventory.Field {
	switch field {
	case KeyFieldDesignator:
		return record.Designator
	case KeyFieldFloorPlanNew:
		return record.FloorPlanNew
	case KeyFieldFloorPlanOld:
		return record.FloorPlanOld
	case KeyFieldDepartment:
		return record.Department
	default:
		return inventory.Absent()
	}
}
