package builtins

import (
	"math/rand"
	"sync"

	"github.com/katalvlaran/geoscript/sym"
	"github.com/katalvlaran/geoscript/value"
)

// Invoker is the capability a handful of builtins need to re-enter the
// evaluator: invoking an already-resolved Callable value with arguments
// (invoke_callable), used by map/filter/fold/for_each/
// trace_path's callback/call/compose. It is a plain function value
// rather than an interface specifically so this package never imports
// package eval (eval imports builtins, not the reverse).
type Invoker func(c *value.Callable, args []value.Value, kwargs map[string]value.Value) (value.Value, error)

// Context is the per-evaluation state builtins close over, such as the
// rendered-meshes list render appends to.
// One Context belongs to exactly one EvalCtx.
type Context struct {
	Invoke Invoker

	// Symbols is the interner trace_path's recorder scope binds its
	// move/line/bezier/... identifiers through.
	Symbols *sym.Table

	// LogFn receives print's formatted output; nil means discard (an
	// embedder installs one via EvalCtx.SetLogFn).
	LogFn func(string)

	Rendered       []value.Value
	RenderedLights []*value.Light
}

// NewContext returns a Context ready for NewRegistry, with Invoke wired
// to invoke and table used to intern the path-recorder's bindings.
func NewContext(invoke Invoker, table *sym.Table) *Context {
	return &Context{Invoke: invoke, Symbols: table}
}

// --- Process-wide state ---

var processMu sync.Mutex

// rng is the process-wide PRNG backing randi/randf/randv/fbm.
var rng = rand.New(rand.NewSource(1))

// SetRNGSeed reseeds the process-wide PRNG (the set_rng_seed builtin),
// making any subsequent randi/randf/randv/fbm call deterministic for a
// given seed and call sequence.
func SetRNGSeed(seed int64) {
	processMu.Lock()
	defer processMu.Unlock()
	rng = rand.New(rand.NewSource(seed))
}

func rngFloat64() float64 {
	processMu.Lock()
	defer processMu.Unlock()
	return rng.Float64()
}

func rngInt63n(n int64) int64 {
	processMu.Lock()
	defer processMu.Unlock()
	if n <= 0 {
		return 0
	}
	return rng.Int63n(n)
}

// defaultMaterial is the process-wide material new meshes receive until
// set_default_material overrides it.
var defaultMaterial = value.DefaultMaterial()

func getDefaultMaterial() value.Material {
	processMu.Lock()
	defer processMu.Unlock()
	return defaultMaterial
}

// SetDefaultMaterial overrides the process-wide default material (the
// set_default_material builtin).
func SetDefaultMaterial(m value.Material) {
	processMu.Lock()
	defer processMu.Unlock()
	defaultMaterial = m
}

// sharpAngleThresholdDeg is the process-wide auto-smooth threshold
//, in degrees.
var sharpAngleThresholdDeg = 30.0

// SetSharpAngleThreshold overrides the process-wide sharp-angle
// threshold (the set_sharp_angle_threshold builtin).
func SetSharpAngleThreshold(deg float64) {
	processMu.Lock()
	defer processMu.Unlock()
	sharpAngleThresholdDeg = deg
}

func getSharpAngleThreshold() float64 {
	processMu.Lock()
	defer processMu.Unlock()
	return sharpAngleThresholdDeg
}
