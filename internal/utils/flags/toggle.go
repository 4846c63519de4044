package flags

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/pflag"
)

const (
	toggleTrueValueConstant           = "true"
	toggleFalseValueConstant          = "false"
	toggleTypeConstant                = "bool"
	toggleLongPrefixConstant          = "--"
	toggleAssignmentConstant          = "="
	toggleInvalidValueTemplate        = "invalid toggle value %q"
	toggleEnabledPlaceholderConstant  = "<YES|no>"
	toggleDisabledPlaceholderConstant = "<yes|NO>"
)

var (
	toggleLiterals = map[string]bool{
		"true": true, "yes": true, "on": true, "1": true, "y": true,
		"false": false, "no": false, "off": false, "0": false, "n": false,
	}

	toggleRegistryMutex sync.RWMutex
	toggleRegistry      = map[string]struct{}{}
)

// AddToggleFlag registers a boolean flag accepting yes/no style values, either
// as --name=value or as --name value once arguments pass through
// NormalizeToggleArguments.
func AddToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || len(name) == 0 {
		return
	}

	flagSet.Var(newToggleValue(target, defaultValue), name, usage)
	flag := flagSet.Lookup(name)
	flag.NoOptDefVal = toggleTrueValueConstant
	flag.Usage = toggleUsage(usage, defaultValue)

	toggleRegistryMutex.Lock()
	toggleRegistry[name] = struct{}{}
	toggleRegistryMutex.Unlock()
}

// NormalizeToggleArguments joins "--toggle value" pairs into "--toggle=value"
// for registered toggles. Arguments after "--" are left untouched.
func NormalizeToggleArguments(arguments []string) []string {
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		current := arguments[index]
		if current == toggleLongPrefixConstant {
			return append(normalized, arguments[index:]...)
		}
		if isBareToggle(current) && index+1 < len(arguments) {
			if _, literal := toggleLiterals[strings.ToLower(arguments[index+1])]; literal {
				normalized = append(normalized, current+toggleAssignmentConstant+arguments[index+1])
				index++
				continue
			}
		}
		normalized = append(normalized, current)
	}
	return normalized
}

func isBareToggle(argument string) bool {
	if !strings.HasPrefix(argument, toggleLongPrefixConstant) || strings.Contains(argument, toggleAssignmentConstant) {
		return false
	}
	toggleRegistryMutex.RLock()
	defer toggleRegistryMutex.RUnlock()
	_, registered := toggleRegistry[strings.TrimPrefix(argument, toggleLongPrefixConstant)]
	return registered
}

func toggleUsage(description string, defaultValue bool) string {
	placeholder := toggleDisabledPlaceholderConstant
	if defaultValue {
		placeholder = toggleEnabledPlaceholderConstant
	}
	trimmedDescription := strings.TrimSpace(description)
	if len(trimmedDescription) == 0 {
		return fmt.Sprintf(choiceUsageEmptyTemplate, placeholder)
	}
	return fmt.Sprintf(choiceUsageFullTemplate, placeholder, trimmedDescription)
}

type toggleValue struct {
	target *bool
}

func newToggleValue(target *bool, defaultValue bool) *toggleValue {
	if target == nil {
		target = new(bool)
	}
	*target = defaultValue
	return &toggleValue{target: target}
}

func (value *toggleValue) Set(rawValue string) error {
	trimmedValue := strings.ToLower(strings.TrimSpace(rawValue))
	if len(trimmedValue) == 0 {
		trimmedValue = toggleTrueValueConstant
	}
	parsedValue, known := toggleLiterals[trimmedValue]
	if !known {
		return fmt.Errorf(toggleInvalidValueTemplate, rawValue)
	}
	*value.target = parsedValue
	return nil
}

func (value *toggleValue) String() string {
	if value == nil || value.target == nil || !*value.target {
		return toggleFalseValueConstant
	}
	return toggleTrueValueConstant
}

func (value *toggleValue) Type() string {
	return toggleTypeConstant
}
