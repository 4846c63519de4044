package audit

import (
	"strings"

	"github.com/temirov/itamaudit/internal/discrepancy"
)

const (
	defaultHeaderRowConstant                 = 2
	configurationHeaderRowKeyConstant        = "header_row"
	configurationSheetKeyConstant            = "sheet"
	configurationOutputDirectoryKeyConstant  = "output_directory"
	configurationReasonFormatKeyConstant     = "reason_format"
	configurationReservedPrefixesKeyConstant = "reserved_prefixes"
	configurationWriteSummaryKeyConstant     = "write_summary"
	configurationKeySeparatorConstant        = "."
)

// CommandConfiguration captures persistent settings for the audit command.
type CommandConfiguration struct {
	HeaderRow        int      `mapstructure:"header_row"`
	Sheet            string   `mapstructure:"sheet"`
	OutputDirectory  string   `mapstructure:"output_directory"`
	ReasonFormat     string   `mapstructure:"reason_format"`
	ReservedPrefixes []string `mapstructure:"reserved_prefixes"`
	WriteSummary     bool     `mapstructure:"write_summary"`
}

// DefaultCommandConfiguration returns baseline configuration values for the audit command.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		HeaderRow:        defaultHeaderRowConstant,
		ReasonFormat:     string(discrepancy.ReasonFormatCode),
		ReservedPrefixes: discrepancy.DefaultReservedPrefixes(),
		WriteSummary:     true,
	}
}

// DefaultConfigurationValues exposes the defaults keyed under prefix for Viper.
func DefaultConfigurationValues(prefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		joinConfigurationKey(prefix, configurationHeaderRowKeyConstant):        defaults.HeaderRow,
		joinConfigurationKey(prefix, configurationSheetKeyConstant):            defaults.Sheet,
		joinConfigurationKey(prefix, configurationOutputDirectoryKeyConstant):  defaults.OutputDirectory,
		joinConfigurationKey(prefix, configurationReasonFormatKeyConstant):     defaults.ReasonFormat,
		joinConfigurationKey(prefix, configurationReservedPrefixesKeyConstant): defaults.ReservedPrefixes,
		joinConfigurationKey(prefix, configurationWriteSummaryKeyConstant):     defaults.WriteSummary,
	}
}

// sanitize trims whitespace and applies defaults to unset configuration values.
func (configuration CommandConfiguration) sanitize() CommandConfiguration {
	defaults := DefaultCommandConfiguration()
	sanitized := configuration

	if sanitized.HeaderRow <= 0 {
		sanitized.HeaderRow = defaults.HeaderRow
	}
	sanitized.Sheet = strings.TrimSpace(configuration.Sheet)
	sanitized.OutputDirectory = strings.TrimSpace(configuration.OutputDirectory)
	sanitized.ReasonFormat = strings.TrimSpace(configuration.ReasonFormat)
	if len(sanitized.ReasonFormat) == 0 {
		sanitized.ReasonFormat = defaults.ReasonFormat
	}
	sanitized.ReservedPrefixes = sanitizePrefixes(configuration.ReservedPrefixes)
	if len(sanitized.ReservedPrefixes) == 0 {
		sanitized.ReservedPrefixes = defaults.ReservedPrefixes
	}

	return sanitized
}

func sanitizePrefixes(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for index := range raw {
		trimmed := strings.TrimSpace(raw[index])
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}

func joinConfigurationKey(prefix string, key string) string {
	trimmedPrefix := strings.TrimSpace(prefix)
	if len(trimmedPrefix) == 0 {
		return key
	}
	return trimmedPrefix + configurationKeySeparatorConstant + key
}
