// Package scriptlet implements the built-in behaviors and the registry
// that maps canonical template names to them.
//
// A Behavior receives the host page and a bound argument record. It never
// sees raw argument text, so no argument value is ever spliced into
// executable source. A behavior whose binding is unsatisfied (a required
// position left absent) returns ir.NoResult without touching the page.
package scriptlet
