package builtins

import (
	"math"

	"github.com/katalvlaran/geoscript/builtin"
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/geom"
	"github.com/katalvlaran/geoscript/mesh"
	"github.com/katalvlaran/geoscript/value"
)

// meshFromRaw wraps a flat vertex/index pair into a fresh MeshHandle
// carrying the process-wide default material, the shape every
// primitive-build builtin returns ("Mesh" category).
func meshFromRaw(positions []geom.Vec3, indices []int) (value.Value, error) {
	m, ok := mesh.FromIndexedVertices[value.FaceData](positions, indices, nil, nil)
	if !ok {
		return value.Value{}, errstack.New(errstack.ErrGeometric, "primitive: malformed index buffer")
	}
	mat := getDefaultMaterial()
	h := value.NewMeshHandle(m)
	h.Material = &mat
	return value.MeshValue(h), nil
}

// registerMeshPrimitives defines box/icosphere/cylinder/grid and the two
// named reference-model primitives.
func registerMeshPrimitives(r *builtin.Registry) {
	r.Define(builtin.FnDef{
		Name: "box", Module: "mesh", Pure: true,
		Doc: "a 2-manifold rectangular box; box(s) is a cube of side s, box(sx, sy, sz) an arbitrary cuboid",
		Signatures: []builtin.FnSignature{
			sig(req("s", builtin.TNumeric)),
			sig(req("sx", builtin.TNumeric), req("sy", builtin.TNumeric), req("sz", builtin.TNumeric)),
		},
	}, func(args []value.Value) (value.Value, error) {
		if len(args) == 1 {
			s, err := asFloat("box", args[0])
			if err != nil {
				return value.Value{}, err
			}
			return buildBox(s, s, s)
		}
		sx, sy, sz, err := threeFloats("box", args)
		if err != nil {
			return value.Value{}, err
		}
		return buildBox(sx, sy, sz)
	})

	r.Define(builtin.FnDef{
		Name: "grid", Module: "mesh", Pure: true,
		Doc: "a flat subdivided plane in the XZ plane, centered at the origin",
		Signatures: []builtin.FnSignature{
			sig(req("width", builtin.TNumeric), req("depth", builtin.TNumeric), req("nx", builtin.TInt), req("nz", builtin.TInt)),
		},
	}, func(args []value.Value) (value.Value, error) {
		w, err := asFloat("grid", args[0])
		if err != nil {
			return value.Value{}, err
		}
		d, err := asFloat("grid", args[1])
		if err != nil {
			return value.Value{}, err
		}
		nx, err := asInt("grid", args[2])
		if err != nil {
			return value.Value{}, err
		}
		nz, err := asInt("grid", args[3])
		if err != nil {
			return value.Value{}, err
		}
		if nx < 1 || nz < 1 {
			return value.Value{}, errstack.New(errstack.ErrGeometric, "grid: resolution must be >= 1")
		}
		return buildGrid(w, d, int(nx), int(nz))
	})

	r.Define(builtin.FnDef{
		Name: "cylinder", Module: "mesh", Pure: true,
		Doc: "a capped cylinder about the Y axis",
		Signatures: []builtin.FnSignature{
			sig(req("radius", builtin.TNumeric), req("height", builtin.TNumeric), req("radial_segments", builtin.TInt),
				optDef("capped", constDefault(value.BoolValue(true)), builtin.TBool)),
		},
	}, func(args []value.Value) (value.Value, error) {
		radius, err := asFloat("cylinder", args[0])
		if err != nil {
			return value.Value{}, err
		}
		height, err := asFloat("cylinder", args[1])
		if err != nil {
			return value.Value{}, err
		}
		segs, err := asInt("cylinder", args[2])
		if err != nil {
			return value.Value{}, err
		}
		if segs < 3 {
			return value.Value{}, errstack.New(errstack.ErrGeometric, "cylinder: radial_segments must be >= 3")
		}
		capped, _ := args[3].AsBool()
		return buildCylinder(radius, height, int(segs), capped)
	})

	r.Define(builtin.FnDef{
		Name: "icosphere", Module: "mesh", Pure: true,
		Doc: "a geodesic sphere built by subdividing an icosahedron",
		Signatures: []builtin.FnSignature{
			sig(req("radius", builtin.TNumeric), req("subdivisions", builtin.TInt)),
		},
	}, func(args []value.Value) (value.Value, error) {
		radius, err := asFloat("icosphere", args[0])
		if err != nil {
			return value.Value{}, err
		}
		subs, err := asInt("icosphere", args[1])
		if err != nil {
			return value.Value{}, err
		}
		if subs < 0 {
			return value.Value{}, errstack.New(errstack.ErrGeometric, "icosphere: subdivisions must be >= 0")
		}
		return buildIcosphere(radius, int(subs))
	})

	r.Define(builtin.FnDef{
		Name: "utah_teapot", Module: "mesh", Pure: true,
		Doc: "a lathed approximation of the reference teapot body, since no asset data ships with the core",
		Signatures: []builtin.FnSignature{sig(optDef("scale", constDefault(value.FloatValue(1)), builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		scale, err := asFloat("utah_teapot", args[0])
		if err != nil {
			return value.Value{}, err
		}
		return buildLathedTeapot(scale)
	})

	r.Define(builtin.FnDef{
		Name: "stanford_bunny", Module: "mesh", Pure: true,
		Doc: "a low-poly ellipsoid silhouette approximation, since no asset data ships with the core",
		Signatures: []builtin.FnSignature{sig(optDef("scale", constDefault(value.FloatValue(1)), builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		scale, err := asFloat("stanford_bunny", args[0])
		if err != nil {
			return value.Value{}, err
		}
		return buildBunnyProxy(scale)
	})
}

func buildBox(sx, sy, sz float64) (value.Value, error) {
	hx, hy, hz := sx/2, sy/2, sz/2
	positions := []geom.Vec3{
		{X: -hx, Y: -hy, Z: -hz}, {X: hx, Y: -hy, Z: -hz}, {X: hx, Y: hy, Z: -hz}, {X: -hx, Y: hy, Z: -hz},
		{X: -hx, Y: -hy, Z: hz}, {X: hx, Y: -hy, Z: hz}, {X: hx, Y: hy, Z: hz}, {X: -hx, Y: hy, Z: hz},
	}
	quads := [][4]int{
		{0, 3, 2, 1}, // -Z
		{4, 5, 6, 7}, // +Z
		{0, 1, 5, 4}, // -Y
		{3, 7, 6, 2}, // +Y
		{0, 4, 7, 3}, // -X
		{1, 2, 6, 5}, // +X
	}
	var indices []int
	for _, q := range quads {
		indices = append(indices, q[0], q[1], q[2], q[0], q[2], q[3])
	}
	return meshFromRaw(positions, indices)
}

func buildGrid(width, depth float64, nx, nz int) (value.Value, error) {
	var positions []geom.Vec3
	for j := 0; j <= nz; j++ {
		for i := 0; i <= nx; i++ {
			x := (float64(i)/float64(nx) - 0.5) * width
			z := (float64(j)/float64(nz) - 0.5) * depth
			positions = append(positions, geom.Vec3{X: x, Y: 0, Z: z})
		}
	}
	var indices []int
	stride := nx + 1
	for j := 0; j < nz; j++ {
		for i := 0; i < nx; i++ {
			a := j*stride + i
			b := a + 1
			c := a + stride
			d := c + 1
			indices = append(indices, a, c, b, b, c, d)
		}
	}
	return meshFromRaw(positions, indices)
}

func buildCylinder(radius, height float64, segs int, capped bool) (value.Value, error) {
	var positions []geom.Vec3
	half := height / 2
	for _, y := range []float64{-half, half} {
		for i := 0; i < segs; i++ {
			a := 2 * math.Pi * float64(i) / float64(segs)
			positions = append(positions, geom.Vec3{X: radius * math.Cos(a), Y: y, Z: radius * math.Sin(a)})
		}
	}
	bottomBase, topBase := 0, segs
	var indices []int
	for i := 0; i < segs; i++ {
		ni := (i + 1) % segs
		b0, b1 := bottomBase+i, bottomBase+ni
		t0, t1 := topBase+i, topBase+ni
		indices = append(indices, b0, t0, t1, b0, t1, b1)
	}
	if capped {
		bottomCenter := len(positions)
		positions = append(positions, geom.Vec3{X: 0, Y: -half, Z: 0})
		topCenter := len(positions)
		positions = append(positions, geom.Vec3{X: 0, Y: half, Z: 0})
		for i := 0; i < segs; i++ {
			ni := (i + 1) % segs
			indices = append(indices, bottomCenter, bottomBase+ni, bottomBase+i)
			indices = append(indices, topCenter, topBase+i, topBase+ni)
		}
	}
	return meshFromRaw(positions, indices)
}

// icosahedron returns the 12 vertices and 20 faces of a unit
// icosahedron, the seed mesh icosphere subdivides.
func icosahedron() ([]geom.Vec3, [][3]int) {
	t := (1 + math.Sqrt(5)) / 2
	raw := []geom.Vec3{
		{X: -1, Y: t, Z: 0}, {X: 1, Y: t, Z: 0}, {X: -1, Y: -t, Z: 0}, {X: 1, Y: -t, Z: 0},
		{X: 0, Y: -1, Z: t}, {X: 0, Y: 1, Z: t}, {X: 0, Y: -1, Z: -t}, {X: 0, Y: 1, Z: -t},
		{X: t, Y: 0, Z: -1}, {X: t, Y: 0, Z: 1}, {X: -t, Y: 0, Z: -1}, {X: -t, Y: 0, Z: 1},
	}
	for i := range raw {
		raw[i] = raw[i].Normalize()
	}
	faces := [][3]int{
		{0, 11, 5}, {0, 5, 1}, {0, 1, 7}, {0, 7, 10}, {0, 10, 11},
		{1, 5, 9}, {5, 11, 4}, {11, 10, 2}, {10, 7, 6}, {7, 1, 8},
		{3, 9, 4}, {3, 4, 2}, {3, 2, 6}, {3, 6, 8}, {3, 8, 9},
		{4, 9, 5}, {2, 4, 11}, {6, 2, 10}, {8, 6, 7}, {9, 8, 1},
	}
	return raw, faces
}

func buildIcosphere(radius float64, subdivisions int) (value.Value, error) {
	positions, faces := icosahedron()
	midpointCache := make(map[[2]int]int)
	midpoint := func(a, b int) int {
		key := [2]int{a, b}
		if a > b {
			key = [2]int{b, a}
		}
		if idx, ok := midpointCache[key]; ok {
			return idx
		}
		mid := positions[a].Add(positions[b]).Scale(0.5).Normalize()
		idx := len(positions)
		positions = append(positions, mid)
		midpointCache[key] = idx
		return idx
	}

	for s := 0; s < subdivisions; s++ {
		var next [][3]int
		for _, f := range faces {
			a := midpoint(f[0], f[1])
			b := midpoint(f[1], f[2])
			c := midpoint(f[2], f[0])
			next = append(next,
				[3]int{f[0], a, c},
				[3]int{f[1], b, a},
				[3]int{f[2], c, b},
				[3]int{a, b, c},
			)
		}
		faces = next
	}

	out := make([]geom.Vec3, len(positions))
	for i, p := range positions {
		out[i] = p.Scale(radius)
	}
	var indices []int
	for _, f := range faces {
		indices = append(indices, f[0], f[1], f[2])
	}
	return meshFromRaw(out, indices)
}

// lathedProfile revolves a 2D (radius, y) polyline profile around the Y
// axis into a triangulated surface of revolution, the shared building
// block behind buildLathedTeapot: no mesh asset data ships with the
// module, so the reference models are lathed from small polylines.
func lathedProfile(profile []geom.Vec2, segs int, scale float64) (value.Value, error) {
	var positions []geom.Vec3
	for _, p := range profile {
		for i := 0; i < segs; i++ {
			a := 2 * math.Pi * float64(i) / float64(segs)
			positions = append(positions, geom.Vec3{
				X: p.X * math.Cos(a) * scale,
				Y: p.Y * scale,
				Z: p.X * math.Sin(a) * scale,
			})
		}
	}
	var indices []int
	rings := len(profile)
	for r := 0; r < rings-1; r++ {
		base0, base1 := r*segs, (r+1)*segs
		for i := 0; i < segs; i++ {
			ni := (i + 1) % segs
			a0, a1 := base0+i, base0+ni
			b0, b1 := base1+i, base1+ni
			indices = append(indices, a0, b0, b1, a0, b1, a1)
		}
	}
	return meshFromRaw(positions, indices)
}

func buildLathedTeapot(scale float64) (value.Value, error) {
	// A coarse body+spout-free silhouette in the spirit of the reference
	// teapot's rounded body and lid, traced by radius at increasing height.
	profile := []geom.Vec2{
		{X: 0.01, Y: 0.0},
		{X: 0.55, Y: 0.05},
		{X: 0.78, Y: 0.25},
		{X: 0.75, Y: 0.55},
		{X: 0.5, Y: 0.78},
		{X: 0.25, Y: 0.85},
		{X: 0.12, Y: 0.92},
		{X: 0.01, Y: 1.0},
	}
	return lathedProfile(profile, 24, scale)
}

func buildBunnyProxy(scale float64) (value.Value, error) {
	// An ellipsoid silhouette loosely tracing the reference bunny's
	// overall body/head proportions, in place of vertex-exact asset data.
	profile := []geom.Vec2{
		{X: 0.01, Y: -1.0},
		{X: 0.5, Y: -0.7},
		{X: 0.62, Y: -0.2},
		{X: 0.55, Y: 0.3},
		{X: 0.32, Y: 0.65},
		{X: 0.2, Y: 0.85},
		{X: 0.01, Y: 1.0},
	}
	return lathedProfile(profile, 20, scale)
}
