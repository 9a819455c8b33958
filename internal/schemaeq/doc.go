// Package schemaeq decides when two schemas are the same.
//
// A Comparator is a strategy; two are built in. CanonicalFormEq compares
// Parsing Canonical Forms. StructFieldEq walks both schemas and ignores
// names of record fields, defaults and documentation.
//
// Components that compare schemas take a Comparator as configuration.
// Callers that never configure one use the process-wide slot through
// Compare, which installs StructFieldEq on first use unless SetComparator
// ran earlier.
package schemaeq
