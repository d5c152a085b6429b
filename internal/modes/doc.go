// Package modes holds the analysis mode registry: each mode's instructional
// texts, the inputs it consumes, and the label used when reporting elapsed
// time.
//
// Lookups are case-insensitive and never fail; unknown identifiers fall back
// to the checker mode. [Load] extends the built-in set with a YAML file:
//
//	modes:
//	  - id: go_review
//	    input: files
//	    requiresQuestion: false
//	    doneLabel: Reviewed
//	    prompts:
//	      - You are a Go reviewer...
package modes
