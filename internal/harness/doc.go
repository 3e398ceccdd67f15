// Package harness runs YAML conformance scenarios against the scriptlet
// engine.
//
// # Scenario Format
//
//	name: cookie_consent
//	description: "set-cookie.js writes a consent cookie"
//	page:
//	  html: '<div id="banner" class="cmp">Accept</div>'
//	  url: https://example.com/
//	  script: 'window.analytics = {};'
//	steps:
//	  - invoke: set-cookie.js
//	    args: [consent, "true", "86400"]
//	    expect:
//	      outcome: ok
//	assertions:
//	  - type: cookie
//	    name: consent
//	    value: "true"
//	  - type: attr
//	    selector: "#banner"
//	    attr: class
//	    value: cmp
//
// # Assertion Types
//
//   - cookie: a live cookie has the expected value
//   - attr: every element matching selector has attr equal to value
//   - absent: no element matching selector carries attr
//   - style: every element matching selector has a style containing text
//   - global: a JS expression evaluates to value, or throws
//   - result: a step returned the expected transformed payload
//   - console: a console entry at level contains message
//
// # Deterministic Testing
//
// Every scenario runs on a fresh page with a fresh engine. Invocation IDs
// come from engine.SequentialGenerator and seq starts at 1, so the same
// scenario always produces a byte-identical trace. RunWithGolden compares
// that trace, rendered as canonical JSON, with testdata/golden/<name>.golden.
package harness
