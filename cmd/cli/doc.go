// Package cli constructs the itam-audit command-line interface. It wires the
// Cobra root command, the Viper-backed configuration loader with its embedded
// defaults, and the zap logger shared by the audit command.
package cli
