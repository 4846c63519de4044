// Package spreadsheet reads inventory exports into rows and writes annotated
// discrepancy reports.
//
// CSVLoader and XLSXLoader implement Loader; LoaderForPath picks one by file
// extension. AnnotatedCSVWriter serializes a discrepancy.Report next to the
// original columns.
package spreadsheet
