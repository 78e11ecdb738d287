// Package io reads and writes stakeholder sets as JSON or YAML.
//
// # Format
//
// A set is an array of records, one per stakeholder, in listing order:
//
//	[
//	  {
//	    "name": "CEO",
//	    "role": "Chief Executive Officer",
//	    "division": "Executive",
//	    "reportsTo": "None",
//	    "relationshipScore": 8,
//	    "decisionWeighting": 95
//	  }
//	]
//
// Every field is required on import. "None" marks a stakeholder without a
// manager. YAML uses the same field names.
//
// # Import
//
// Use [Import] to read a file (format chosen by extension) or [Read] to read
// from any io.Reader:
//
//	set, err := io.Import("team.json")
//
// Any problem with the payload (malformed syntax, a non-array document, a
// missing field, a wrong type, an out-of-range score or a duplicate name)
// returns an IMPORT_PARSE error and no partial set. Reporting references and
// cycles are not checked here; the session runs the cycle guard and the
// hierarchy builder on the imported set.
//
// # Export
//
// Use [Export] to write a file or [Write] to write to any io.Writer. JSON is
// indented with two spaces.
package io
