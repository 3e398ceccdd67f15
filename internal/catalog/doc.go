// Package catalog holds the set of known scriptlet templates and resolves
// filter-rule names to them.
//
// Templates are declared in CUE. The built-in catalog is embedded
// (builtin.cue); additional catalogs are loaded from a directory holding
// CUE files and optional *.js resources whose comment header declares the
// template metadata:
//
//	// Name: set-cookie.js
//	// Aliases: sc.js
//	// Purpose: Writes a cookie.
//	// {{1}}: Cookie name
//
// Resolution is exact: a name is either a canonical template name or a
// declared alias. Nothing else resolves.
package catalog
