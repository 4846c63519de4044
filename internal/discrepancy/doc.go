// Package discrepancy detects data-quality defects in inventory records.
//
// IsValidDesignator checks asset codes, FindDuplicateGroups buckets records by
// composite keys, Evaluate produces ordered reason tags for one record, Tally
// escalates severity per run, and Assembler merges every selection pass into
// an annotated Report.
package discrepancy
