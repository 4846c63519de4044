// Package audit runs facility inventory discrepancy audits for the itam-audit CLI.
//
// It exposes CommandBuilder for wiring the audit Cobra command and Service for
// driving a run programmatically: load the export, build records, assemble the
// discrepancy report, and write the annotated CSV with its YAML run summary.
package audit
