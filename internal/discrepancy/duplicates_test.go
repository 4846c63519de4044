package discrepancy_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/temirov/itamaudit/internal/discrepancy"
	"github.com/temirov/itamaudit/internal/inventory"
)

func TestFindDuplicateGroupsSharedNewFloorPlanAndDepartment(testInstance *testing.T) {
	first := inventory.Record{Index: 0, ID: "A", Designator: inventory.Present("W204"), FloorPlanNew: inventory.Present("FP1"), Department: inventory.Present("IT")}
	second := inventory.Record{Index: 1, ID: "B", Designator: inventory.Present("W204"), FloorPlanNew: inventory.Present("FP1"), Department: inventory.Present("IT")}

	groups := discrepancy.FindDuplicateGroups([]inventory.Record{first, second}, discrepancy.DefaultKeySchemes())

	require.Equal(testInstance, []discrepancy.DuplicateGroup{
		{
			Key:       discrepancy.DuplicateGroupKey{Scheme: discrepancy.SchemeDesignatorFloorPlanNew, Values: []string{"W204", "FP1"}},
			Members:   []int{0, 1},
			MemberIDs: []string{"A", "B"},
		},
		{
			Key:       discrepancy.DuplicateGroupKey{Scheme: discrepancy.SchemeDesignatorDepartment, Values: []string{"W204", "IT"}},
			Members:   []int{0, 1},
			MemberIDs: []string{"A", "B"},
		},
	}, groups.Groups())

	for _, record := range []inventory.Record{first, second} {
		reasons := discrepancy.Evaluate(record, groups.Membership(record.Index))
		require.True(testInstance, reasons.Contains(discrepancy.ReasonDuplicateDesignatorNewFloorPlan))
		require.True(testInstance, reasons.Contains(discrepancy.ReasonDuplicateDesignatorDepartment))
		require.False(testInstance, reasons.Contains(discrepancy.ReasonDuplicateDesignatorOldFloorPlan))
	}

	firstPartner, firstResolved := groups.PartnerOf(0)
	require.True(testInstance, firstResolved)
	require.Equal(testInstance, "B", firstPartner)

	secondPartner, secondResolved := groups.PartnerOf(1)
	require.True(testInstance, secondResolved)
	require.Equal(testInstance, "A", secondPartner)
}

func TestFindDuplicateGroupsIgnoresAbsentKeyValues(testInstance *testing.T) {
	records := []inventory.Record{
		{Index: 0, ID: "A", Designator: inventory.Absent(), FloorPlanNew: inventory.Present("FP1"), Department: inventory.Present("IT")},
		{Index: 1, ID: "B", Designator: inventory.Absent(), FloorPlanNew: inventory.Present("FP1"), Department: inventory.Present("IT")},
		{Index: 2, ID: "C", Designator: inventory.Present("W1"), FloorPlanOld: inventory.Absent()},
		{Index: 3, ID: "D", Designator: inventory.Present("W1"), FloorPlanOld: inventory.Absent()},
		{Index: 4, ID: "E", Designator: inventory.Present(""), Department: inventory.Present("IT")},
		{Index: 5, ID: "F", Designator: inventory.Present(""), Department: inventory.Present("IT")},
	}

	groups := discrepancy.FindDuplicateGroups(records, discrepancy.DefaultKeySchemes())
	require.Empty(testInstance, groups.Groups())
	for _, record := range records {
		require.Empty(testInstance, groups.Membership(record.Index))
		_, resolved := groups.PartnerOf(record.Index)
		require.False(testInstance, resolved)
	}
}

func TestFindDuplicateGroupsIsSymmetric(testInstance *testing.T) {
	records := []inventory.Record{
		{Index: 0, ID: "A", Designator: inventory.Present("W1"), FloorPlanOld: inventory.Present("L1"), Department: inventory.Present("IT")},
		{Index: 1, ID: "B", Designator: inventory.Present("W2"), FloorPlanOld: inventory.Present("L1"), Department: inventory.Present("IT")},
		{Index: 2, ID: "C", Designator: inventory.Present("W1"), FloorPlanOld: inventory.Present("L1"), Department: inventory.Present("HR")},
		{Index: 3, ID: "D", Designator: inventory.Present("W1"), FloorPlanOld: inventory.Present("L2"), Department: inventory.Present("IT")},
	}

	groups := discrepancy.FindDuplicateGroups(records, discrepancy.DefaultKeySchemes())
	for _, group := range groups.Groups() {
		for _, member := range group.Members {
			require.True(testInstance, groups.Membership(member).Has(group.Key.Scheme))
		}
	}

	require.Equal(testInstance, []int{0, 2}, groups.Members(discrepancy.SchemeDesignatorFloorPlanOld))
	require.Equal(testInstance, []int{0, 3}, groups.Members(discrepancy.SchemeDesignatorDepartment))
	require.Empty(testInstance, groups.Members(discrepancy.SchemeDesignatorFloorPlanNew))
	require.Empty(testInstance, groups.Membership(1))
}

func TestPartnerOfFollowsSchemePriority(testInstance *testing.T) {
	records := []inventory.Record{
		{Index: 0, ID: "A", Designator: inventory.Present("W1"), Department: inventory.Present("IT")},
		{Index: 1, ID: "B", Designator: inventory.Present("W1"), FloorPlanOld: inventory.Present("L1")},
		{Index: 2, ID: "C", Designator: inventory.Present("W1"), FloorPlanOld: inventory.Present("L1"), Department: inventory.Present("IT")},
	}

	groups := discrepancy.FindDuplicateGroups(records, discrepancy.DefaultKeySchemes())

	partner, resolved := groups.PartnerOf(2)
	require.True(testInstance, resolved)
	require.Equal(testInstance, "B", partner)

	partner, resolved = groups.PartnerOf(0)
	require.True(testInstance, resolved)
	require.Equal(testInstance, "C", partner)
}
