// Package inventory models facility asset inventory rows.
//
// It maps loosely ordered spreadsheet rows onto typed Record values through a
// HeaderIndex, represents blank cells explicitly as absent Field values, and
// reports structural problems through SchemaError and MalformedRowError.
package inventory
