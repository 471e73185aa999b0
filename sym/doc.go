// Package sym interns every identifier that appears in geoscript source
// text into a small integer Sym key, with a reversible table back to the
// original string.
//
// All scope lookups and AST name fields use Sym
// rather than string: identifiers recur constantly, and comparing or
// hashing a small integer beats re-hashing the same string at every
// lookup.
package sym
