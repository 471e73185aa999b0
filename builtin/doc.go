// Package builtin implements the signature registry and argument
// dispatch for geoscript's builtin function library: a
// static table of FnDef/FnSignature/ArgDef entries keyed by canonical
// name, an alias table mapping synonyms to canonical names, the
// get_args resolution algorithm, and the
// example-value machinery the optimizer's dispatch pre-resolution
// pass needs.
//
// builtin knows the shape of a builtin's signature but nothing about
// any builtin's actual implementation; package builtins registers the
// concrete Go functions against the names this package defines.
package builtin
