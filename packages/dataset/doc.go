// Package dataset loads parameterizations from YAML and JSON data files.
//
// A data file maps test full names to named parameterizations:
//
//	math_test.add:
//	  1_1_2: {x: 1, y: 1, total: 2}
//	  neg:   {x: -1, y: 1, total: 0, test_suites: [negative]}
//
// Document order is kept, so cases are generated in the order they are
// written. JSON files may be narrowed with a gjson path after a '#', as in
// fixtures.json#datasets.math. Every document is validated against a JSON
// schema before use.
package dataset
