// Package domain models the curated units-of-measurement reference dataset.
//
// # Dataset shape
//
// One UnitRecord per unit and physical quantity. The pair (unit, property)
// is the primary key of every dataset file. Each record carries a canonical
// symbolic name built from `·` (product) and `/` (quotient) delimiters with
// superscript exponents, a dimension vector over the seven SI base
// quantities, and a multiplicative (optionally affine) conversion to the
// SI-coherent reference unit of its quantity.
//
// # Conventions
//
// Names use US spelling (meter, liter). The `property` and `quantity`
// fields always hold the same value; both exist because the two upstream
// source listings named the column differently and downstream consumers
// depend on each. Dimensionless quantities (angle, solid angle, ratio,
// logarithmic ratio, information) carry an empty dimension object rather
// than omitting the field.
//
// The quantity-to-dimension mapping is authoritative reference data, not a
// computation: it lives in quantities.yaml, and adding a physical quantity
// means adding a table row there, not changing code.
package domain
