// Package host models the page environment a scriptlet mutates.
//
// A Page bundles the capabilities behaviors are allowed to touch: the
// JavaScript global scope (a goja runtime whose global object doubles as
// window), the parsed HTML document, the cookie jar and the console.
// Behaviors receive the Page explicitly; nothing in this module reaches
// for ambient globals.
//
// A Page is not safe for concurrent use. Like a browser page it has one
// evaluation thread; callers serialize access.
package host
