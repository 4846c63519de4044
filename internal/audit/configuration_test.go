package audit

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCommandConfigurationSanitize(testInstance *testing.T) {
	sanitized := CommandConfiguration{
		HeaderRow:        0,
		Sheet:            "  Floor 3 ",
		OutputDirectory:  " ~/reports ",
		ReasonFormat:     "  ",
		ReservedPrefixes: []string{" ", " Q ", ""},
		WriteSummary:     false,
	}.sanitize()

	require.Equal(testInstance, CommandConfiguration{
		HeaderRow:        defaultHeaderRowConstant,
		Sheet:            "Floor 3",
		OutputDirectory:  "~/reports",
		ReasonFormat:     "code",
		ReservedPrefixes: []string{"Q"},
		WriteSummary:     false,
	}, sanitized)

	require.Equal(testInstance, DefaultCommandConfiguration().ReservedPrefixes, CommandConfiguration{}.sanitize().ReservedPrefixes)
}

func TestDefaultConfigurationValuesUsePrefix(testInstance *testing.T) {
	values := DefaultConfigurationValues("tools.audit")

	require.Equal(testInstance, defaultHeaderRowConstant, values["tools.audit.header_row"])
	require.Equal(testInstance, "code", values["tools.audit.reason_format"])
	require.Equal(testInstance, true, values["tools.audit.write_summary"])
	require.Equal(testInstance, []string{"P", "S"}, values["tools.audit.reserved_prefixes"])
	require.Contains(testInstance, DefaultConfigurationValues(""), "header_row")
}
