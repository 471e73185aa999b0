package builtins

import (
	"math"
	"sort"

	"github.com/katalvlaran/geoscript/builtin"
	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/geom"
	"github.com/katalvlaran/geoscript/mesh"
	"github.com/katalvlaran/geoscript/seq"
	"github.com/katalvlaran/geoscript/value"
)

// registerMeshOps defines the per-mesh transform, boolean, and cleanup
// builtins that mutate or combine already-built meshes,
// as opposed to registerMeshPrimitives' from-scratch constructors.
func registerMeshOps(r *builtin.Registry, ctx *Context) {
	r.Define(builtin.FnDef{
		Name: "set_sharp_angle_threshold", Module: "mesh",
		Doc:        "overrides the process-wide auto-smooth threshold (degrees) smooth-fan normal computation uses",
		Signatures: []builtin.FnSignature{sig(req("degrees", builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		deg, err := asFloat("set_sharp_angle_threshold", args[0])
		if err != nil {
			return value.Value{}, err
		}
		SetSharpAngleThreshold(deg)
		return value.NilValue, nil
	})

	r.Define(builtin.FnDef{
		Name: "translate", Module: "mesh", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh), req("offset", builtin.TVec3))},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("translate", args[0])
		if err != nil {
			return value.Value{}, err
		}
		off, err := asVec3("translate", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return composeTransform(h, geom.Translate4(off)), nil
	})

	r.Define(builtin.FnDef{
		Name: "rot", Module: "mesh", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh), req("axis", builtin.TVec3), req("radians", builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("rot", args[0])
		if err != nil {
			return value.Value{}, err
		}
		axis, err := asVec3("rot", args[1])
		if err != nil {
			return value.Value{}, err
		}
		angle, err := asFloat("rot", args[2])
		if err != nil {
			return value.Value{}, err
		}
		return composeTransform(h, geom.RotateAxis4(axis, angle)), nil
	})

	r.Define(builtin.FnDef{
		Name: "scale", Module: "mesh", Pure: true,
		Signatures: []builtin.FnSignature{
			sig(req("m", builtin.TMesh), req("factor", builtin.TVec3)),
			sig(req("m", builtin.TMesh), req("factor", builtin.TNumeric)),
		},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("scale", args[0])
		if err != nil {
			return value.Value{}, err
		}
		var s geom.Vec3
		if args[1].Kind() == value.KVec3 {
			s, _ = args[1].AsVec3()
		} else {
			f, err := asFloat("scale", args[1])
			if err != nil {
				return value.Value{}, err
			}
			s = geom.Vec3{X: f, Y: f, Z: f}
		}
		return composeTransform(h, geom.Scale4(s)), nil
	})

	r.Define(builtin.FnDef{
		Name: "apply_transforms", Module: "mesh", Pure: true,
		Doc:        "bakes the mesh's accumulated transform into its vertex positions",
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh))},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("apply_transforms", args[0])
		if err != nil {
			return value.Value{}, err
		}
		return applyTransforms(h), nil
	})

	r.Define(builtin.FnDef{
		Name: "origin_to_geometry", Module: "mesh", Pure: true,
		Doc:        "recenters the mesh so its AABB center sits at the origin",
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh))},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("origin_to_geometry", args[0])
		if err != nil {
			return value.Value{}, err
		}
		baked, _ := applyTransforms(h).AsMesh()
		center := baked.AABB().Center()
		return composeTransform(baked, geom.Translate4(center.Neg())), nil
	})

	r.Define(builtin.FnDef{
		Name: "flip_normals", Module: "mesh", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh))},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("flip_normals", args[0])
		if err != nil {
			return value.Value{}, err
		}
		clone := h.Clone()
		clone.Mesh.EachFace(func(_ mesh.FaceKey, f *mesh.Face[value.FaceData]) {
			f.V[1], f.V[2] = f.V[2], f.V[1]
		})
		clone.InvalidateAABB()
		return value.MeshValue(clone), nil
	})

	r.Define(builtin.FnDef{
		Name: "warp", Module: "mesh",
		Doc:        "applies a |p: vec3| -> vec3 callable to every vertex position",
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh), req("fn", builtin.TCallable))},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("warp", args[0])
		if err != nil {
			return value.Value{}, err
		}
		cb, err := asCallable("warp", args[1])
		if err != nil {
			return value.Value{}, err
		}
		clone := h.Clone()
		var werr error
		clone.Mesh.EachVertex(func(_ mesh.VertexKey, v *mesh.Vertex) {
			if werr != nil {
				return
			}
			out, err := ctx.Invoke(cb, []value.Value{value.Vec3Value(v.Position)}, nil)
			if err != nil {
				werr = err
				return
			}
			p, ok := out.AsVec3()
			if !ok {
				werr = errstack.Newf(errstack.ErrType, "warp: callback must return a vec3, found %s", out.Kind())
				return
			}
			v.Position = p
		})
		if werr != nil {
			return value.Value{}, werr
		}
		clone.InvalidateAABB()
		return value.MeshValue(clone), nil
	})

	r.Define(builtin.FnDef{
		Name: "tessellate", Module: "mesh", Pure: true,
		Doc:        "splits every triangle into four at its edge midpoints",
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh))},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("tessellate", args[0])
		if err != nil {
			return value.Value{}, err
		}
		return tessellateMesh(h)
	})

	r.Define(builtin.FnDef{
		Name: "set_material", Module: "mesh", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh), req("material", builtin.TMaterial))},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("set_material", args[0])
		if err != nil {
			return value.Value{}, err
		}
		mat, ok := args[1].AsMaterial()
		if !ok {
			return value.Value{}, errstack.Newf(errstack.ErrType, "set_material: expected a material, found %s", args[1].Kind())
		}
		clone := h.Clone()
		m := *mat
		clone.Material = &m
		return value.MeshValue(clone), nil
	})

	r.Define(builtin.FnDef{
		Name: "set_default_material", Module: "mesh",
		Signatures: []builtin.FnSignature{sig(req("material", builtin.TMaterial))},
	}, func(args []value.Value) (value.Value, error) {
		mat, ok := args[0].AsMaterial()
		if !ok {
			return value.Value{}, errstack.Newf(errstack.ErrType, "set_default_material: expected a material, found %s", args[0].Kind())
		}
		SetDefaultMaterial(*mat)
		return value.NilValue, nil
	})

	r.Define(builtin.FnDef{
		Name: "verts", Module: "mesh", Pure: true,
		Doc:        "a sequence of the mesh's vertex positions, world-transformed",
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh))},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("verts", args[0])
		if err != nil {
			return value.Value{}, err
		}
		raw := h.Mesh.ToRawIndexed(false, false, true)
		out := make([]value.Value, len(raw.Positions))
		for i, p := range raw.Positions {
			if h.Transform != nil {
				p = h.Transform.MulPoint(p)
			}
			out[i] = value.Vec3Value(p)
		}
		return value.SequenceValue(seq.NewSlice(out)), nil
	})

	r.Define(builtin.FnDef{
		Name: "mesh", Module: "mesh", Pure: true,
		Doc:        "builds a mesh from a flat vertex sequence and a flat triangle-index sequence",
		Signatures: []builtin.FnSignature{sig(req("positions", builtin.TSequence), req("indices", builtin.TSequence))},
	}, func(args []value.Value) (value.Value, error) {
		posSeq, err := asSequence("mesh", args[0])
		if err != nil {
			return value.Value{}, err
		}
		idxSeq, err := asSequence("mesh", args[1])
		if err != nil {
			return value.Value{}, err
		}
		posSlice, err := seq.Collect(posSeq)
		if err != nil {
			return value.Value{}, err
		}
		idxSlice, err := seq.Collect(idxSeq)
		if err != nil {
			return value.Value{}, err
		}
		positions := make([]geom.Vec3, posSlice.Len())
		for i := 0; i < posSlice.Len(); i++ {
			v, _ := posSlice.At(i)
			p, err := asVec3("mesh", v)
			if err != nil {
				return value.Value{}, err
			}
			positions[i] = p
		}
		indices := make([]int, idxSlice.Len())
		for i := 0; i < idxSlice.Len(); i++ {
			v, _ := idxSlice.At(i)
			n, err := asInt("mesh", v)
			if err != nil {
				return value.Value{}, err
			}
			indices[i] = int(n)
		}
		return meshFromRaw(positions, indices)
	})

	r.Define(builtin.FnDef{
		Name: "union", Module: "mesh",
		Signatures: []builtin.FnSignature{sig(req("a", builtin.TMesh), req("b", builtin.TMesh))},
	}, func(args []value.Value) (value.Value, error) {
		a, err := asMesh("union", args[0])
		if err != nil {
			return value.Value{}, err
		}
		b, err := asMesh("union", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return meshUnion(a, b)
	})

	r.Define(builtin.FnDef{
		Name: "difference", Module: "mesh",
		Signatures: []builtin.FnSignature{sig(req("a", builtin.TMesh), req("b", builtin.TMesh))},
	}, func(args []value.Value) (value.Value, error) {
		a, err := asMesh("difference", args[0])
		if err != nil {
			return value.Value{}, err
		}
		b, err := asMesh("difference", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return meshDifference(a, b)
	})

	r.Define(builtin.FnDef{
		Name: "intersect", Module: "mesh",
		Signatures: []builtin.FnSignature{sig(req("a", builtin.TMesh), req("b", builtin.TMesh))},
	}, func(args []value.Value) (value.Value, error) {
		a, err := asMesh("intersect", args[0])
		if err != nil {
			return value.Value{}, err
		}
		b, err := asMesh("intersect", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return meshIntersect(a, b)
	})

	r.Define(builtin.FnDef{
		Name: "join", Module: "mesh", Pure: true,
		Doc:        "a disjoint union of two meshes' geometry, with no boolean dedup at the seam",
		Signatures: []builtin.FnSignature{sig(req("a", builtin.TMesh), req("b", builtin.TMesh))},
	}, func(args []value.Value) (value.Value, error) {
		a, err := asMesh("join", args[0])
		if err != nil {
			return value.Value{}, err
		}
		b, err := asMesh("join", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return meshJoin(a, b)
	})

	r.Define(builtin.FnDef{
		Name: "convex_hull", Module: "mesh",
		Signatures: []builtin.FnSignature{sig(req("points", builtin.TSequence))},
	}, func(args []value.Value) (value.Value, error) {
		s, err := asSequence("convex_hull", args[0])
		if err != nil {
			return value.Value{}, err
		}
		slice, err := seq.Collect(s)
		if err != nil {
			return value.Value{}, err
		}
		pts := make([]value.Value, slice.Len())
		for i := 0; i < slice.Len(); i++ {
			pts[i], _ = slice.At(i)
		}
		if backends.Hull == nil {
			return value.Value{}, errBackendNotConfigured("convex_hull")
		}
		h, err := backends.Hull.ConvexHull(pts)
		if err != nil {
			return value.Value{}, err
		}
		return value.MeshValue(h), nil
	})

	r.Define(builtin.FnDef{
		Name: "alpha_wrap", Module: "mesh",
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh), req("offset", builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("alpha_wrap", args[0])
		if err != nil {
			return value.Value{}, err
		}
		offset, err := asFloat("alpha_wrap", args[1])
		if err != nil {
			return value.Value{}, err
		}
		if backends.Remesh == nil {
			return value.Value{}, errBackendNotConfigured("alpha_wrap")
		}
		out, err := backends.Remesh.AlphaWrap(h, offset)
		if err != nil {
			return value.Value{}, err
		}
		return value.MeshValue(out), nil
	})

	r.Define(builtin.FnDef{
		Name: "isotropic_remesh", Module: "mesh",
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh), req("target_edge_length", builtin.TNumeric), req("iterations", builtin.TInt))},
	}, func(args []value.Value) (value.Value, error) {
		return remeshVia("isotropic_remesh", args, func(h *value.MeshHandle, l float64, it int) (*value.MeshHandle, error) {
			return backends.Remesh.IsotropicRemesh(h, l, it)
		})
	})

	r.Define(builtin.FnDef{
		Name: "remesh_planar_patches", Module: "mesh",
		Doc:        "uses the same isotropic-remesh backend, since the core defines no separate planar-patch algorithm",
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh), req("target_edge_length", builtin.TNumeric), req("iterations", builtin.TInt))},
	}, func(args []value.Value) (value.Value, error) {
		return remeshVia("remesh_planar_patches", args, func(h *value.MeshHandle, l float64, it int) (*value.MeshHandle, error) {
			return backends.Remesh.IsotropicRemesh(h, l, it)
		})
	})

	r.Define(builtin.FnDef{
		Name: "delaunay_remesh", Module: "mesh",
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh))},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("delaunay_remesh", args[0])
		if err != nil {
			return value.Value{}, err
		}
		if backends.Remesh == nil {
			return value.Value{}, errBackendNotConfigured("delaunay_remesh")
		}
		out, err := backends.Remesh.DelaunayRemesh(h)
		if err != nil {
			return value.Value{}, err
		}
		return value.MeshValue(out), nil
	})

	r.Define(builtin.FnDef{
		Name: "smooth", Module: "mesh", Pure: true,
		Doc:        "Laplacian smoothing: each vertex moves toward the average of its edge-neighbors",
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh), req("iterations", builtin.TInt), optDef("factor", constDefault(value.FloatValue(0.5)), builtin.TNumeric))},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("smooth", args[0])
		if err != nil {
			return value.Value{}, err
		}
		iterations, err := asInt("smooth", args[1])
		if err != nil {
			return value.Value{}, err
		}
		factor, err := asFloat("smooth", args[2])
		if err != nil {
			return value.Value{}, err
		}
		return laplacianSmooth(h, int(iterations), factor)
	})

	r.Define(builtin.FnDef{
		Name: "split_by_plane", Module: "mesh", Pure: true,
		Doc:        "partitions the mesh's faces by which side of a plane their centroid lies on",
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh), req("point", builtin.TVec3), req("normal", builtin.TVec3))},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("split_by_plane", args[0])
		if err != nil {
			return value.Value{}, err
		}
		pt, err := asVec3("split_by_plane", args[1])
		if err != nil {
			return value.Value{}, err
		}
		n, err := asVec3("split_by_plane", args[2])
		if err != nil {
			return value.Value{}, err
		}
		return splitByPlane(h, pt, n)
	})

	r.Define(builtin.FnDef{
		Name: "subdivide_by_plane", Module: "mesh", Pure: true,
		Doc:        "marks edges crossing a plane as sharp, so downstream shading follows the cut",
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh), req("point", builtin.TVec3), req("normal", builtin.TVec3))},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("subdivide_by_plane", args[0])
		if err != nil {
			return value.Value{}, err
		}
		pt, err := asVec3("subdivide_by_plane", args[1])
		if err != nil {
			return value.Value{}, err
		}
		n, err := asVec3("subdivide_by_plane", args[2])
		if err != nil {
			return value.Value{}, err
		}
		return subdivideByPlane(h, pt, n)
	})

	r.Define(builtin.FnDef{
		Name: "connected_components", Module: "mesh", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh))},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("connected_components", args[0])
		if err != nil {
			return value.Value{}, err
		}
		comps, err := connectedComponents(h)
		if err != nil {
			return value.Value{}, err
		}
		return value.SequenceValue(seq.NewSlice(comps)), nil
	})

	r.Define(builtin.FnDef{
		Name: "intersects", Module: "mesh", Pure: true,
		Doc:        "broad-phase AABB overlap test between two meshes' world-space bounds",
		Signatures: []builtin.FnSignature{sig(req("a", builtin.TMesh), req("b", builtin.TMesh))},
	}, func(args []value.Value) (value.Value, error) {
		a, err := asMesh("intersects", args[0])
		if err != nil {
			return value.Value{}, err
		}
		b, err := asMesh("intersects", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.BoolValue(aabbOverlap(a.AABB(), b.AABB())), nil
	})

	r.Define(builtin.FnDef{
		Name: "intersects_ray", Module: "mesh", Pure: true,
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh), req("origin", builtin.TVec3), req("direction", builtin.TVec3))},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("intersects_ray", args[0])
		if err != nil {
			return value.Value{}, err
		}
		origin, err := asVec3("intersects_ray", args[1])
		if err != nil {
			return value.Value{}, err
		}
		dir, err := asVec3("intersects_ray", args[2])
		if err != nil {
			return value.Value{}, err
		}
		hit, ok := rayMeshIntersect(h, origin, dir)
		if !ok {
			return value.NilValue, nil
		}
		return value.Vec3Value(hit), nil
	})

	r.Define(builtin.FnDef{
		Name: "simplify", Module: "mesh",
		Doc:        "collapses the shortest edges first until the face count reaches target_faces",
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh), req("target_faces", builtin.TInt))},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("simplify", args[0])
		if err != nil {
			return value.Value{}, err
		}
		target, err := asInt("simplify", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return simplifyMesh(h, int(target))
	})

	r.Define(builtin.FnDef{
		Name: "point_distribute", Module: "mesh",
		Doc:        "samples count points on the mesh surface, weighted by triangle area",
		Signatures: []builtin.FnSignature{sig(req("m", builtin.TMesh), req("count", builtin.TInt))},
	}, func(args []value.Value) (value.Value, error) {
		h, err := asMesh("point_distribute", args[0])
		if err != nil {
			return value.Value{}, err
		}
		count, err := asInt("point_distribute", args[1])
		if err != nil {
			return value.Value{}, err
		}
		return value.SequenceValue(seq.NewSlice(pointDistribute(h, int(count)))), nil
	})
}

func remeshVia(name string, args []value.Value, fn func(*value.MeshHandle, float64, int) (*value.MeshHandle, error)) (value.Value, error) {
	h, err := asMesh(name, args[0])
	if err != nil {
		return value.Value{}, err
	}
	length, err := asFloat(name, args[1])
	if err != nil {
		return value.Value{}, err
	}
	iterations, err := asInt(name, args[2])
	if err != nil {
		return value.Value{}, err
	}
	if backends.Remesh == nil {
		return value.Value{}, errBackendNotConfigured(name)
	}
	out, err := fn(h, length, int(iterations))
	if err != nil {
		return value.Value{}, err
	}
	return value.MeshValue(out), nil
}

func composeTransform(h *value.MeshHandle, m geom.Mat4) value.Value {
	clone := h.Clone()
	if clone.Transform == nil {
		t := geom.Identity4()
		clone.Transform = &t
	}
	composed := m.Mul(*clone.Transform)
	clone.Transform = &composed
	clone.InvalidateAABB()
	return value.MeshValue(clone)
}

func applyTransforms(h *value.MeshHandle) value.Value {
	if h.Transform == nil {
		return value.MeshValue(h.Clone())
	}
	clone := h.Clone()
	t := *clone.Transform
	clone.Mesh.EachVertex(func(_ mesh.VertexKey, v *mesh.Vertex) {
		v.Position = t.MulPoint(v.Position)
	})
	clone.Transform = nil
	clone.InvalidateAABB()
	return value.MeshValue(clone)
}

func tessellateMesh(h *value.MeshHandle) (value.Value, error) {
	raw := h.Mesh.ToRawIndexed(false, false, true)
	midCache := make(map[[2]int]int)
	positions := append([]geom.Vec3(nil), raw.Positions...)
	midpoint := func(a, b int) int {
		key := [2]int{a, b}
		if a > b {
			key = [2]int{b, a}
		}
		if idx, ok := midCache[key]; ok {
			return idx
		}
		mid := positions[a].Lerp(positions[b], 0.5)
		idx := len(positions)
		positions = append(positions, mid)
		midCache[key] = idx
		return idx
	}
	var indices []int
	for i := 0; i+2 < len(raw.Indices); i += 3 {
		a, b, c := raw.Indices[i], raw.Indices[i+1], raw.Indices[i+2]
		ab, bc, ca := midpoint(a, b), midpoint(b, c), midpoint(c, a)
		indices = append(indices,
			a, ab, ca,
			b, bc, ab,
			c, ca, bc,
			ab, bc, ca,
		)
	}
	out, err := meshFromRaw(positions, indices)
	if err != nil {
		return value.Value{}, err
	}
	if mh, ok := out.AsMesh(); ok {
		mh.Transform = h.Transform
	}
	return out, nil
}

func meshUnion(a, b *value.MeshHandle) (value.Value, error) {
	if backends.Boolean == nil {
		return value.Value{}, errBackendNotConfigured("union")
	}
	out, err := backends.Boolean.Union(a, b)
	if err != nil {
		return value.Value{}, err
	}
	return value.MeshValue(out), nil
}

func meshDifference(a, b *value.MeshHandle) (value.Value, error) {
	if backends.Boolean == nil {
		return value.Value{}, errBackendNotConfigured("difference")
	}
	out, err := backends.Boolean.Difference(a, b)
	if err != nil {
		return value.Value{}, err
	}
	return value.MeshValue(out), nil
}

func meshIntersect(a, b *value.MeshHandle) (value.Value, error) {
	if backends.Boolean == nil {
		return value.Value{}, errBackendNotConfigured("intersect")
	}
	out, err := backends.Boolean.Intersect(a, b)
	if err != nil {
		return value.Value{}, err
	}
	return value.MeshValue(out), nil
}

func meshJoin(a, b *value.MeshHandle) (value.Value, error) {
	ra := a.Mesh.ToRawIndexed(false, false, true)
	rb := b.Mesh.ToRawIndexed(false, false, true)
	positions := append([]geom.Vec3(nil), ra.Positions...)
	if a.Transform != nil {
		for i, p := range positions {
			positions[i] = a.Transform.MulPoint(p)
		}
	}
	offset := len(positions)
	for _, p := range rb.Positions {
		if b.Transform != nil {
			p = b.Transform.MulPoint(p)
		}
		positions = append(positions, p)
	}
	indices := append([]int(nil), ra.Indices...)
	for _, idx := range rb.Indices {
		indices = append(indices, idx+offset)
	}
	return meshFromRaw(positions, indices)
}

func laplacianSmooth(h *value.MeshHandle, iterations int, factor float64) (value.Value, error) {
	clone := h.Clone()
	for it := 0; it < iterations; it++ {
		targets := make(map[mesh.VertexKey]geom.Vec3)
		clone.Mesh.EachVertex(func(vk mesh.VertexKey, v *mesh.Vertex) {
			var sum geom.Vec3
			n := 0
			for _, ek := range v.Edges {
				e, ok := clone.Mesh.Edge(ek)
				if !ok {
					continue
				}
				other, ok := e.OtherEndpoint(vk)
				if !ok {
					continue
				}
				ov, ok := clone.Mesh.Vertex(other)
				if !ok {
					continue
				}
				sum = sum.Add(ov.Position)
				n++
			}
			if n == 0 {
				targets[vk] = v.Position
				return
			}
			avg := sum.Scale(1 / float64(n))
			targets[vk] = v.Position.Lerp(avg, factor)
		})
		for vk, pos := range targets {
			if v, ok := clone.Mesh.Vertex(vk); ok {
				v.Position = pos
			}
		}
	}
	clone.InvalidateAABB()
	return value.MeshValue(clone), nil
}

func planeSide(p, point, normal geom.Vec3) float64 {
	return p.Sub(point).Dot(normal)
}

func splitByPlane(h *value.MeshHandle, point, normal geom.Vec3) (value.Value, error) {
	raw := h.Mesh.ToRawIndexed(false, false, true)
	var posIdx, negIdx []int
	for i := 0; i+2 < len(raw.Indices); i += 3 {
		a, b, c := raw.Indices[i], raw.Indices[i+1], raw.Indices[i+2]
		centroid := raw.Positions[a].Add(raw.Positions[b]).Add(raw.Positions[c]).Scale(1.0 / 3.0)
		if planeSide(centroid, point, normal) >= 0 {
			posIdx = append(posIdx, a, b, c)
		} else {
			negIdx = append(negIdx, a, b, c)
		}
	}
	posMesh, err := meshFromRaw(raw.Positions, posIdx)
	if err != nil {
		return value.Value{}, err
	}
	negMesh, err := meshFromRaw(raw.Positions, negIdx)
	if err != nil {
		return value.Value{}, err
	}
	out := value.NewMap()
	out = out.With("positive", posMesh)
	out = out.With("negative", negMesh)
	return value.MapValue(out), nil
}

func subdivideByPlane(h *value.MeshHandle, point, normal geom.Vec3) (value.Value, error) {
	clone := h.Clone()
	clone.Mesh.EachEdge(func(_ mesh.EdgeKey, e *mesh.Edge) {
		va, ok0 := clone.Mesh.Vertex(e.V[0])
		vb, ok1 := clone.Mesh.Vertex(e.V[1])
		if !ok0 || !ok1 {
			return
		}
		sa := planeSide(va.Position, point, normal)
		sb := planeSide(vb.Position, point, normal)
		if (sa >= 0) != (sb >= 0) {
			e.Sharp = true
		}
	})
	return value.MeshValue(clone), nil
}

func connectedComponents(h *value.MeshHandle) ([]value.Value, error) {
	visited := make(map[mesh.FaceKey]bool)
	var faceKeys []mesh.FaceKey
	h.Mesh.EachFace(func(fk mesh.FaceKey, _ *mesh.Face[value.FaceData]) { faceKeys = append(faceKeys, fk) })

	raw := h.Mesh.ToRawIndexed(false, false, true)
	var out []value.Value
	for _, start := range faceKeys {
		if visited[start] {
			continue
		}
		var component []mesh.FaceKey
		queue := []mesh.FaceKey{start}
		visited[start] = true
		for len(queue) > 0 {
			fk := queue[0]
			queue = queue[1:]
			component = append(component, fk)
			f, ok := h.Mesh.Face(fk)
			if !ok {
				continue
			}
			for _, ek := range f.E {
				e, ok := h.Mesh.Edge(ek)
				if !ok {
					continue
				}
				for _, nfk := range e.Faces {
					if !visited[nfk] {
						visited[nfk] = true
						queue = append(queue, nfk)
					}
				}
			}
		}
		sort.Slice(component, func(i, j int) bool { return component[i].Index < component[j].Index })

		var indices []int
		compSet := make(map[mesh.FaceKey]bool, len(component))
		for _, fk := range component {
			compSet[fk] = true
		}
		idx := 0
		h.Mesh.EachFace(func(fk mesh.FaceKey, _ *mesh.Face[value.FaceData]) {
			if compSet[fk] {
				indices = append(indices, raw.Indices[idx*3], raw.Indices[idx*3+1], raw.Indices[idx*3+2])
			}
			idx++
		})
		sub, err := meshFromRaw(raw.Positions, indices)
		if err != nil {
			return nil, err
		}
		out = append(out, sub)
	}
	return out, nil
}

func aabbOverlap(a, b geom.AABB) bool {
	return a.Min.X <= b.Max.X && a.Max.X >= b.Min.X &&
		a.Min.Y <= b.Max.Y && a.Max.Y >= b.Min.Y &&
		a.Min.Z <= b.Max.Z && a.Max.Z >= b.Min.Z
}

// rayMeshIntersect finds the closest Moller-Trumbore ray-triangle hit
// across every face of h, in world space.
func rayMeshIntersect(h *value.MeshHandle, origin, dir geom.Vec3) (geom.Vec3, bool) {
	raw := h.Mesh.ToRawIndexed(false, false, true)
	positions := raw.Positions
	if h.Transform != nil {
		positions = append([]geom.Vec3(nil), raw.Positions...)
		for i, p := range positions {
			positions[i] = h.Transform.MulPoint(p)
		}
	}
	const eps = 1e-9
	bestT := math.Inf(1)
	var bestHit geom.Vec3
	found := false
	for i := 0; i+2 < len(raw.Indices); i += 3 {
		v0 := positions[raw.Indices[i]]
		v1 := positions[raw.Indices[i+1]]
		v2 := positions[raw.Indices[i+2]]
		edge1 := v1.Sub(v0)
		edge2 := v2.Sub(v0)
		h2 := dir.Cross(edge2)
		a := edge1.Dot(h2)
		if math.Abs(a) < eps {
			continue
		}
		f := 1 / a
		s := origin.Sub(v0)
		u := f * s.Dot(h2)
		if u < 0 || u > 1 {
			continue
		}
		q := s.Cross(edge1)
		v := f * dir.Dot(q)
		if v < 0 || u+v > 1 {
			continue
		}
		t := f * edge2.Dot(q)
		if t > eps && t < bestT {
			bestT = t
			bestHit = origin.Add(dir.Scale(t))
			found = true
		}
	}
	return bestHit, found
}

func simplifyMesh(h *value.MeshHandle, targetFaces int) (value.Value, error) {
	clone := h.Clone()
	for clone.Mesh.FaceCount() > targetFaces {
		shortest, ok := shortestEdge(clone.Mesh)
		if !ok {
			break
		}
		e, ok := clone.Mesh.Edge(shortest)
		if !ok {
			break
		}
		v0, v1 := e.V[0], e.V[1]
		before := clone.Mesh.FaceCount()
		collapseSafely(clone.Mesh, v0, v1)
		if clone.Mesh.FaceCount() >= before {
			break
		}
	}
	clone.InvalidateAABB()
	return value.MeshValue(clone), nil
}

func shortestEdge(m *mesh.LinkedMesh[value.FaceData]) (mesh.EdgeKey, bool) {
	best := math.Inf(1)
	var bestKey mesh.EdgeKey
	found := false
	m.EachEdge(func(ek mesh.EdgeKey, e *mesh.Edge) {
		va, ok0 := m.Vertex(e.V[0])
		vb, ok1 := m.Vertex(e.V[1])
		if !ok0 || !ok1 {
			return
		}
		d := va.Position.DistanceSq(vb.Position)
		if d < best {
			best = d
			bestKey = ek
			found = true
		}
	})
	return bestKey, found
}

// collapseSafely removes any face that would become degenerate by
// sharing both v0 and v1 before calling MergeVertices, matching
// merge_vertices_by_distance's documented precondition.
func collapseSafely(m *mesh.LinkedMesh[value.FaceData], v0, v1 mesh.VertexKey) {
	var toRemove []mesh.FaceKey
	m.EachFace(func(fk mesh.FaceKey, f *mesh.Face[value.FaceData]) {
		has0, has1 := false, false
		for _, v := range f.V {
			if v == v0 {
				has0 = true
			}
			if v == v1 {
				has1 = true
			}
		}
		if has0 && has1 {
			toRemove = append(toRemove, fk)
		}
	})
	for _, fk := range toRemove {
		m.RemoveFace(fk)
	}
	m.MergeVertices(v0, v1)
}

func pointDistribute(h *value.MeshHandle, count int) []value.Value {
	raw := h.Mesh.ToRawIndexed(false, false, true)
	triCount := len(raw.Indices) / 3
	if triCount == 0 || count <= 0 {
		return nil
	}
	areas := make([]float64, triCount)
	total := 0.0
	for i := 0; i < triCount; i++ {
		a := raw.Positions[raw.Indices[i*3]]
		b := raw.Positions[raw.Indices[i*3+1]]
		c := raw.Positions[raw.Indices[i*3+2]]
		area := b.Sub(a).Cross(c.Sub(a)).Len() * 0.5
		areas[i] = area
		total += area
	}
	out := make([]value.Value, 0, count)
	for i := 0; i < count; i++ {
		r := rngFloat64() * total
		acc := 0.0
		tri := triCount - 1
		for j, area := range areas {
			acc += area
			if r <= acc {
				tri = j
				break
			}
		}
		a := raw.Positions[raw.Indices[tri*3]]
		b := raw.Positions[raw.Indices[tri*3+1]]
		c := raw.Positions[raw.Indices[tri*3+2]]
		u := rngFloat64()
		v := rngFloat64()
		if u+v > 1 {
			u, v = 1-u, 1-v
		}
		p := a.Add(b.Sub(a).Scale(u)).Add(c.Sub(a).Scale(v))
		if h.Transform != nil {
			p = h.Transform.MulPoint(p)
		}
		out = append(out, value.Vec3Value(p))
	}
	return out
}
