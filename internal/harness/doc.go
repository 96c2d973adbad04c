// Package harness runs notebook scenarios as executable contract tests.
//
// A scenario is a YAML file describing a sequence of notebook operations
// against a manual clock, with per-step expectations and final assertions.
// Each run uses a fresh in-memory store: every step is journaled, and the
// resulting trace can be compared byte-for-byte against a golden file.
//
// # Scenario Format
//
//	name: karting
//	description: "Cause written right after the name is accepted"
//	start_ms: 0
//	steps:
//	  - write: Danilo Pianini
//	  - cause: karting accident
//	    expect: { accepted: true }
//	  - advance: 100ms
//	  - cause: fell down the stairs
//	    expect: { accepted: false }
//	  - cause_of: Danilo Pianini
//	    expect: { value: karting accident }
//	assertions:
//	  - type: final_state
//	    name: Danilo Pianini
//	    expect: { written: true, cause: karting accident }
//	  - type: trace_count
//	    action: cause
//	    count: 2
//
// Every step sets exactly one action:
//   - write: name to write
//   - cause, details: amendment for the most recently written name
//   - cause_of, details_of, written: reads for a name
//   - rule: 1-based rule index
//   - advance: Go duration added to the manual clock
//
// A step's expect may set accepted (cause and details only), value (reads
// only) and error (invalid_argument or invalid_state). A step whose outcome
// is an error fails the scenario unless expect.error names that error.
//
// # Trace
//
// Each step produces one trace event:
//
//	{"action":"cause","arg":"karting accident","at_ms":0,"outcome":"accepted","seq":2}
//
// seq is the journal sequence number assigned by the store; at_ms is the
// manual clock after the step ran.
package harness
