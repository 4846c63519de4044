package discrepancy

import (
	"fmt"
	"strings"
)

// ReasonTag names one defect classification attached to a flagged record.
type ReasonTag string

// Reason tags in evaluation order.
const (
	ReasonMissingNewFloorPlan             ReasonTag = "MISSING_NEW_FLOORPLAN"
	ReasonMissingOldFloorPlan             ReasonTag = "MISSING_OLD_FLOORPLAN"
	ReasonDuplicateDesignatorDepartment   ReasonTag = "DUPLICATE_DESIGNATOR_DEPARTMENT"
	ReasonDuplicateDesignatorOldFloorPlan ReasonTag = "DUPLICATE_DESIGNATOR_OLD_FLOORPLAN"
	ReasonDuplicateDesignatorNewFloorPlan ReasonTag = "DUPLICATE_DESIGNATOR_NEW_FLOORPLAN"
	ReasonMissingMonitorInfo              ReasonTag = "MISSING_MONITOR_INFO"
	ReasonInvalidDesignator               ReasonTag = "INVALID_DESIGNATOR"
	ReasonUnknown                         ReasonTag = "UNKNOWN_REASON"
)

// PrinterField identifies a printer column required for printer records.
type PrinterField string

// Printer fields in evaluation order.
const (
	PrinterFieldType      PrinterField = "TYPE"
	PrinterFieldIP        PrinterField = "IP"
	PrinterFieldQueueName PrinterField = "QUEUE_NAME"
	PrinterFieldMake      PrinterField = "MAKE"
	PrinterFieldModel     PrinterField = "MODEL"
)

const (
	missingPrinterFieldTemplateConstant      = "MISSING_PRINTER_FIELD(%s)"
	missingPrinterFieldLabelTemplateConstant = "Missing printer %s"
	reasonSeparatorConstant                  = ", "
	reasonFormatCodeConstant                 = "code"
	reasonFormatLabelConstant                = "label"
	unsupportedReasonFormatTemplateConstant  = "unsupported reason format: %s"
)

var reasonLabels = map[ReasonTag]string{
	ReasonMissingNewFloorPlan:             "Missing New Floor Plan",
	ReasonMissingOldFloorPlan:             "Missing Old Floor Plan",
	ReasonDuplicateDesignatorDepartment:   "Duplicate based on Designator and Department",
	ReasonDuplicateDesignatorOldFloorPlan: "Duplicate based on Designator and Old Floor Plan",
	ReasonDuplicateDesignatorNewFloorPlan: "Duplicate based on Designator and New Floor Plan",
	ReasonMissingMonitorInfo:              "Incorrect Monitor Info",
	ReasonInvalidDesignator:               "Incorrect Designator Info",
	ReasonUnknown:                         "Unknown Reason",
}

var printerFieldLabels = map[PrinterField]string{
	PrinterFieldType:      "Type",
	PrinterFieldIP:        "IP",
	PrinterFieldQueueName: "Queue Name",
	PrinterFieldMake:      "Make",
	PrinterFieldModel:     "Model",
}

// MissingPrinterField returns the reason tag for one missing printer field.
func MissingPrinterField(field PrinterField) ReasonTag {
	return ReasonTag(fmt.Sprintf(missingPrinterFieldTemplateConstant, field))
}

// String returns the machine-readable tag.
func (tag ReasonTag) String() string {
	return string(tag)
}

// Label returns a human-readable description of the tag.
func (tag ReasonTag) Label() string {
	if label, exists := reasonLabels[tag]; exists {
		return label
	}
	for field, fieldLabel := range printerFieldLabels {
		if tag == MissingPrinterField(field) {
			return fmt.Sprintf(missingPrinterFieldLabelTemplateConstant, fieldLabel)
		}
	}
	return string(tag)
}

// ReasonFormat selects how reason tags are serialized at the output boundary.
type ReasonFormat string

// Supported reason formats.
const (
	ReasonFormatCode  ReasonFormat = ReasonFormat(reasonFormatCodeConstant)
	ReasonFormatLabel ReasonFormat = ReasonFormat(reasonFormatLabelConstant)
)

// ReasonFormatChoices lists the accepted reason format values.
func ReasonFormatChoices() []string {
	return []string{reasonFormatCodeConstant, reasonFormatLabelConstant}
}

// ParseReasonFormat validates a reason format value. Blank selects the code format.
func ParseReasonFormat(raw string) (ReasonFormat, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", reasonFormatCodeConstant:
		return ReasonFormatCode, nil
	case reasonFormatLabelConstant:
		return ReasonFormatLabel, nil
	default:
		return "", fmt.Errorf(unsupportedReasonFormatTemplateConstant, raw)
	}
}

// ReasonSet is an insertion-ordered set of reason tags. The zero value is empty and ready to use.
type ReasonSet struct {
	tags []ReasonTag
	seen map[ReasonTag]struct{}
}

// NewReasonSet builds a set from the provided tags, dropping repeats.
func NewReasonSet(tags ...ReasonTag) ReasonSet {
	set := ReasonSet{}
	for _, tag := range tags {
		set.Add(tag)
	}
	return set
}

// Add appends the tag unless it is already present and reports whether it was added.
func (set *ReasonSet) Add(tag ReasonTag) bool {
	if set.seen == nil {
		set.seen = make(map[ReasonTag]struct{})
	}
	if _, exists := set.seen[tag]; exists {
		return false
	}
	set.seen[tag] = struct{}{}
	set.tags = append(set.tags, tag)
	return true
}

// Contains reports whether the tag is in the set.
func (set ReasonSet) Contains(tag ReasonTag) bool {
	_, exists := set.seen[tag]
	return exists
}

// Len returns the number of tags.
func (set ReasonSet) Len() int {
	return len(set.tags)
}

// Tags returns a copy of the tags in insertion order.
func (set ReasonSet) Tags() []ReasonTag {
	return append([]ReasonTag{}, set.tags...)
}

// Join serializes the tags with a comma separator.
func (set ReasonSet) Join(format ReasonFormat) string {
	parts := make([]string, 0, len(set.tags))
	for _, tag := range set.tags {
		if format == ReasonFormatLabel {
			parts = append(parts, tag.Label())
			continue
		}
		parts = append(parts, tag.String())
	}
	return strings.Join(parts, reasonSeparatorConstant)
}
