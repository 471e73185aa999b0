package value

import "github.com/katalvlaran/geoscript/geom"

// LightKind distinguishes the two light variants built by dir_light and
// ambient_light.
type LightKind int

const (
	LightDirectional LightKind = iota
	LightAmbient
)

// Light is a descriptor struct, opaque to the core: the
// engine stores it and hands it back via rendered_lights(), but performs
// no lighting computation on it itself.
type Light struct {
	Kind      LightKind
	Direction geom.Vec3 // meaningful only for LightDirectional
	Color     geom.Vec3
	Intensity float64
}

// Material is a descriptor struct, opaque to the core.
type Material struct {
	Color     geom.Vec3
	Roughness float64
	Metallic  float64
	Emissive  geom.Vec3
}

// DefaultMaterial is the material new meshes receive until
// set_default_material overrides it.
func DefaultMaterial() Material {
	return Material{Color: geom.NewVec3(0.8, 0.8, 0.8), Roughness: 0.5}
}
