package discrepancy

import "github.com/temirov/itamaudit/internal/inventory"

const (
	laptopDesignatorPrefixConstant      = "L"
	workstationDesignatorPrefixConstant = "W"
)

type printerRequirement struct {
	field PrinterField
	value func(record inventory.Record) inventory.Field
}

var printerRequirements = []printerRequirement{
	{field: PrinterFieldType, value: func(record inventory.Record) inventory.Field { return record.PrinterType }},
	{field: PrinterFieldIP, value: func(record inventory.Record) inventory.Field { return record.PrinterIP }},
	{field: PrinterFieldQueueName, value: func(record inventory.Record) inventory.Field { return record.PrinterQueueName }},
	{field: PrinterFieldMake, value: func(record inventory.Record) inventory.Field { return record.PrinterMake }},
	{field: PrinterFieldModel, value: func(record inventory.Record) inventory.Field { return record.PrinterModel }},
}

// Evaluate runs every defect rule against the record in a fixed order and
// returns the triggered reasons. An empty set means no rule matched.
func Evaluate(record inventory.Record, membership Membership) ReasonSet {
	reasons := ReasonSet{}

	if record.FloorPlanNew.IsAbsent() {
		reasons.Add(ReasonMissingNewFloorPlan)
	}
	if record.FloorPlanOld.IsAbsent() {
		reasons.Add(ReasonMissingOldFloorPlan)
	}
	if membership.Has(SchemeDesignatorDepartment) {
		reasons.Add(ReasonDuplicateDesignatorDepartment)
	}
	if membership.Has(SchemeDesignatorFloorPlanOld) {
		reasons.Add(ReasonDuplicateDesignatorOldFloorPlan)
	}
	if membership.Has(SchemeDesignatorFloorPlanNew) {
		reasons.Add(ReasonDuplicateDesignatorNewFloorPlan)
	}
	if record.Designator.HasPrefix(laptopDesignatorPrefixConstant, workstationDesignatorPrefixConstant) &&
		(record.MonitorMake.IsAbsent() || record.MonitorModel.IsAbsent()) {
		reasons.Add(ReasonMissingMonitorInfo)
	}
	if !IsValidDesignator(record) {
		reasons.Add(ReasonInvalidDesignator)
	}
	if record.DeviceType == inventory.DeviceTypePrinter {
		for _, requirement := range printerRequirements {
			if requirement.value(record).IsAbsent() {
				reasons.Add(MissingPrinterField(requirement.field))
			}
		}
	}

	return reasons
}
