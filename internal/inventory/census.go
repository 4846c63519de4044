package inventory

import "strings"

const (
	censusLaptopPrefixConstant              = "l"
	censusWorkstationOnWheelsPrefixConstant = "wow"
	censusWorkstationPrefixConstant         = "w"
	censusPrinterPrefixConstant             = "p"
	censusSpecialtyPrinterPrefixConstant    = "s"
)

// DeviceCensus counts devices by designator family.
type DeviceCensus struct {
	Laptops              int `yaml:"laptops"`
	WorkstationsOnWheels int `yaml:"workstations_on_wheels"`
	Workstations         int `yaml:"workstations"`
	Printers             int `yaml:"printers"`
	SpecialtyPrinters    int `yaml:"specialty_printers"`
}

// Census counts workstation-typed records by designator family (L, WOW, W)
// and printer-typed records by P and S prefixes.
func Census(records []Record) DeviceCensus {
	census := DeviceCensus{}
	for _, record := range records {
		designator := strings.ToLower(record.Designator.String())
		if len(designator) == 0 {
			continue
		}
		switch record.DeviceType {
		case DeviceTypeWorkstation, DeviceTypeLaptop:
			switch {
			case strings.HasPrefix(designator, censusLaptopPrefixConstant):
				census.Laptops++
			case strings.HasPrefix(designator, censusWorkstationOnWheelsPrefixConstant):
				census.WorkstationsOnWheels++
			case strings.HasPrefix(designator, censusWorkstationPrefixConstant):
				census.Workstations++
			}
		case DeviceTypePrinter:
			switch {
			case strings.HasPrefix(designator, censusPrinterPrefixConstant):
				census.Printers++
			case strings.HasPrefix(designator, censusSpecialtyPrinterPrefixConstant):
				census.SpecialtyPrinters++
			}
		}
	}
	return census
}
