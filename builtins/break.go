package builtins

import "github.com/katalvlaran/geoscript/value"

// BreakSignal is how the Invoker (eval's closure-invocation entry
// point) reports a `break` reached inside a callback body, so a
// sequence-consuming builtin can stop its underlying Go loop and
// recover the break's value instead of treating it as an ordinary
// error: loops introduced via builtins over sequences catch Break.
type BreakSignal struct {
	Value value.Value
}

func (b BreakSignal) Error() string { return "break" }
