package models

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/qmuntal/gltf"
	"github.com/taigrr/tesseract/pkg/math4d"
	"github.com/taigrr/tesseract/pkg/raytrace"
)

// Node kinds recognized in node extras.
const (
	KindHyperSphere = "hypersphere"
	KindHyperPlane  = "hyperplane"
	KindCamera      = "camera"
)

// nodeExtras is the 4D data carried by a glTF node's extras.
type nodeExtras struct {
	Kind     string      `json:"kind,omitempty"`
	W        float64     `json:"w,omitempty"`
	Radius   *float64    `json:"radius,omitempty"`
	Normal   *[4]float64 `json:"normal,omitempty"`
	Material *int        `json:"material,omitempty"`
}

// LoadScene reads a glTF 2.0 file (.gltf or .glb) into a scene.
//
// Nodes whose extras name a kind become objects: the node translation
// gives x, y and z and extras.w gives w. Mesh nodes without a kind become
// hyperspheres enclosing their vertices. A node of kind "camera" sets the
// start position. Parent translations are applied; rotation and scale are
// ignored.
func LoadScene(path string) (*Scene, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	s, err := sceneFromDocument(doc)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	s.Name = filepath.Base(path)
	return s, nil
}

func sceneFromDocument(doc *gltf.Document) (*Scene, error) {
	s := &Scene{Start: DefaultStart}
	for _, m := range doc.Materials {
		s.Materials = append(s.Materials, materialFromGLTF(m))
	}

	visited := make([]bool, len(doc.Nodes))
	var visit func(i int, offset mgl64.Vec3) error
	visit = func(i int, offset mgl64.Vec3) error {
		if i < 0 || i >= len(doc.Nodes) {
			return fmt.Errorf("node index %d out of range", i)
		}
		if visited[i] {
			return nil
		}
		visited[i] = true

		n := doc.Nodes[i]
		offset = offset.Add(mgl64.Vec3(n.Translation))
		if err := s.addNode(doc, n, offset); err != nil {
			return fmt.Errorf("node %d %q: %w", i, n.Name, err)
		}
		for _, child := range n.Children {
			if err := visit(child, offset); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range sceneRoots(doc) {
		if err := visit(root, mgl64.Vec3{}); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// sceneRoots returns the root nodes of the default scene, or of every
// scene when no default is set. Documents without scenes use all nodes.
func sceneRoots(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	var roots []int
	for _, sc := range doc.Scenes {
		roots = append(roots, sc.Nodes...)
	}
	if len(doc.Scenes) == 0 {
		for i := range doc.Nodes {
			roots = append(roots, i)
		}
	}
	return roots
}

func (s *Scene) addNode(doc *gltf.Document, n *gltf.Node, translation mgl64.Vec3) error {
	ex, err := decodeExtras(n.Extras)
	if err != nil {
		return err
	}
	position := math4d.V4(translation[0], translation[1], translation[2], ex.W)

	switch ex.Kind {
	case KindHyperSphere:
		radius := 1.0
		if ex.Radius != nil {
			radius = *ex.Radius
		}
		if !(radius > 0) || math.IsInf(radius, 0) {
			return fmt.Errorf("radius must be positive, got %v", radius)
		}
		material, err := s.nodeMaterial(doc, n, ex)
		if err != nil {
			return err
		}
		s.Objects = append(s.Objects, raytrace.NewHyperSphere(position, radius, material))

	case KindHyperPlane:
		normal := math4d.UnitY()
		if ex.Normal != nil {
			normal = math4d.V4(ex.Normal[0], ex.Normal[1], ex.Normal[2], ex.Normal[3])
		}
		if !(normal.Len() > 0) || !normal.IsFinite() {
			return fmt.Errorf("invalid hyperplane normal %v", normal)
		}
		material, err := s.nodeMaterial(doc, n, ex)
		if err != nil {
			return err
		}
		s.Objects = append(s.Objects, raytrace.NewHyperPlane(position, normal, material))

	case KindCamera:
		s.Start = position

	case "":
		if n.Mesh == nil {
			return nil
		}
		center, radius, err := meshBounds(doc, *n.Mesh)
		if err != nil {
			return err
		}
		if radius == 0 {
			return nil
		}
		material, err := s.nodeMaterial(doc, n, ex)
		if err != nil {
			return err
		}
		center = center.Add(translation)
		s.Objects = append(s.Objects, raytrace.NewHyperSphere(
			math4d.V4(center[0], center[1], center[2], ex.W), radius, material))

	default:
		return fmt.Errorf("unknown kind %q", ex.Kind)
	}
	return nil
}

// nodeMaterial picks extras.material, then the first primitive material of
// the node's mesh, then material 0.
func (s *Scene) nodeMaterial(doc *gltf.Document, n *gltf.Node, ex nodeExtras) (uint32, error) {
	if ex.Material != nil {
		if *ex.Material < 0 {
			return 0, fmt.Errorf("negative material index %d", *ex.Material)
		}
		return uint32(*ex.Material), nil
	}
	if n.Mesh != nil && *n.Mesh >= 0 && *n.Mesh < len(doc.Meshes) {
		for _, prim := range doc.Meshes[*n.Mesh].Primitives {
			if prim.Material != nil {
				return uint32(*prim.Material), nil
			}
		}
	}
	return 0, nil
}

func decodeExtras(extras any) (nodeExtras, error) {
	var ex nodeExtras
	if extras == nil {
		return ex, nil
	}
	raw, err := json.Marshal(extras)
	if err != nil {
		return ex, fmt.Errorf("encode extras: %w", err)
	}
	// Extras that are not objects belong to some other tool.
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return ex, nil
	}
	if err := json.Unmarshal(raw, &ex); err != nil {
		return ex, fmt.Errorf("decode extras: %w", err)
	}
	return ex, nil
}

func materialFromGLTF(m *gltf.Material) Material {
	mat := Material{
		Name:      m.Name,
		BaseColor: [4]float64{1, 1, 1, 1},
		Metallic:  1,
		Roughness: 1,
	}
	if pbr := m.PBRMetallicRoughness; pbr != nil {
		mat.BaseColor = pbr.BaseColorFactorOrDefault()
		mat.Metallic = pbr.MetallicFactorOrDefault()
		mat.Roughness = pbr.RoughnessFactorOrDefault()
	}
	return mat
}

// meshBounds returns the center of the bounding box of every triangle
// primitive's positions and the radius of the sphere around it that
// encloses them all.
func meshBounds(doc *gltf.Document, meshIdx int) (mgl64.Vec3, float64, error) {
	if meshIdx < 0 || meshIdx >= len(doc.Meshes) {
		return mgl64.Vec3{}, 0, fmt.Errorf("mesh index %d out of range", meshIdx)
	}
	m := doc.Meshes[meshIdx]

	var positions []mgl64.Vec3
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		p, err := readVec3Accessor(doc, posIdx)
		if err != nil {
			return mgl64.Vec3{}, 0, fmt.Errorf("mesh %q: read positions: %w", m.Name, err)
		}
		positions = append(positions, p...)
	}
	if len(positions) == 0 {
		return mgl64.Vec3{}, 0, nil
	}

	lo, hi := positions[0], positions[0]
	for _, p := range positions[1:] {
		for i := range 3 {
			lo[i] = math.Min(lo[i], p[i])
			hi[i] = math.Max(hi[i], p[i])
		}
	}
	center := lo.Add(hi).Mul(0.5)

	var radius float64
	for _, p := range positions {
		radius = math.Max(radius, p.Sub(center).Len())
	}
	return center, radius, nil
}

// readVec3Accessor reads a float VEC3 accessor.
func readVec3Accessor(doc *gltf.Document, accessorIdx int) ([]mgl64.Vec3, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor index %d out of range", accessorIdx)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorVec3 {
		return nil, fmt.Errorf("expected VEC3, got %v", accessor.Type)
	}
	if accessor.ComponentType != gltf.ComponentFloat {
		return nil, fmt.Errorf("expected float components, got %v", accessor.ComponentType)
	}

	data, stride, err := accessorBytes(doc, accessor, 12)
	if err != nil {
		return nil, err
	}

	result := make([]mgl64.Vec3, accessor.Count)
	for i := range result {
		offset := i * stride
		for j := range 3 {
			bits := binary.LittleEndian.Uint32(data[offset+j*4:])
			result[i][j] = float64(math.Float32frombits(bits))
		}
	}
	return result, nil
}

// accessorBytes returns the accessor's bytes starting at its first element
// and the stride between elements.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor, elemSize int) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, errors.New("accessor has no buffer view")
	}
	if *accessor.BufferView < 0 || *accessor.BufferView >= len(doc.BufferViews) {
		return nil, 0, fmt.Errorf("buffer view %d out of range", *accessor.BufferView)
	}
	view := doc.BufferViews[*accessor.BufferView]
	if view.Buffer < 0 || view.Buffer >= len(doc.Buffers) {
		return nil, 0, fmt.Errorf("buffer %d out of range", view.Buffer)
	}
	buf := doc.Buffers[view.Buffer].Data
	if buf == nil {
		return nil, 0, errors.New("buffer has no data")
	}

	stride := view.ByteStride
	if stride == 0 {
		stride = elemSize
	}
	start := view.ByteOffset + accessor.ByteOffset
	if accessor.Count == 0 {
		return nil, stride, nil
	}
	end := start + (accessor.Count-1)*stride + elemSize
	if start < 0 || end > len(buf) || end > view.ByteOffset+view.ByteLength {
		return nil, 0, fmt.Errorf("accessor reads bytes [%d, %d) past its buffer view", start, end)
	}
	return buf[start:end], stride, nil
}

// SaveScene writes s as glTF: binary when path ends in .glb, JSON
// otherwise. Objects and the start position become nodes of the default
// scene.
func SaveScene(path string, s *Scene) error {
	doc := documentFromScene(s)
	var err error
	if strings.EqualFold(filepath.Ext(path), ".glb") {
		err = gltf.SaveBinary(doc, path)
	} else {
		err = gltf.Save(doc, path)
	}
	if err != nil {
		return fmt.Errorf("save gltf: %w", err)
	}
	return nil
}

func documentFromScene(s *Scene) *gltf.Document {
	doc := &gltf.Document{
		Asset: gltf.Asset{Version: "2.0", Generator: "tesseract"},
	}

	for _, m := range s.Materials {
		baseColor, metallic, roughness := m.BaseColor, m.Metallic, m.Roughness
		doc.Materials = append(doc.Materials, &gltf.Material{
			Name: m.Name,
			PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
				BaseColorFactor: &baseColor,
				MetallicFactor:  &metallic,
				RoughnessFactor: &roughness,
			},
		})
	}

	var roots []int
	addNode := func(name string, p math4d.Vec4, ex nodeExtras) {
		ex.W = p.W
		roots = append(roots, len(doc.Nodes))
		doc.Nodes = append(doc.Nodes, &gltf.Node{
			Name:        name,
			Translation: [3]float64{p.X, p.Y, p.Z},
			Extras:      ex,
		})
	}

	for i, o := range s.Objects {
		material := int(o.Material())
		ex := nodeExtras{Kind: o.Kind.String(), Material: &material}
		switch o.Kind {
		case raytrace.KindHyperSphere:
			radius := o.Sphere.Radius
			ex.Radius = &radius
		case raytrace.KindHyperPlane:
			n := o.Plane.Normal
			ex.Normal = &[4]float64{n.X, n.Y, n.Z, n.W}
		}
		addNode(fmt.Sprintf("%s.%d", o.Kind, i), o.Position(), ex)
	}
	addNode("start", s.Start, nodeExtras{Kind: KindCamera})

	scene := 0
	doc.Scene = &scene
	doc.Scenes = []*gltf.Scene{{Name: s.Name, Nodes: roots}}
	return doc
}
