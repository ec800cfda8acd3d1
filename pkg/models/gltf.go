package models

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/pcrender/pkg/math3d"
)

// Geometry errors returned by Load.
var (
	ErrNoGeometry    = errors.New("no triangle or point primitives")
	ErrMixedGeometry = errors.New("both triangle and point primitives")
)

// GLTFLoader loads GLTF/GLB files into scene objects.
type GLTFLoader struct {
	// Options
	CalculateNormals bool // Compute seamless normals for meshes without NORMAL
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
	}
}

// LoadGLTF loads a GLTF or GLB file with default options.
func LoadGLTF(path string) (Object, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file. Triangle primitives become one Mesh each
// inside a MeshObject; point primitives are merged into one PointCloud. A
// file cannot hold both.
func (l *GLTFLoader) Load(path string) (Object, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	name := filepath.Base(path)
	obj := NewMeshObject(name)
	var positions, colors []math3d.Vec3

	for _, m := range doc.Meshes {
		for i, prim := range m.Primitives {
			switch prim.Mode {
			case gltf.PrimitiveTriangles:
				mesh, err := l.readTriangles(doc, prim, filepath.Dir(path))
				if err != nil {
					return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, i, err)
				}
				if mesh == nil {
					continue
				}
				mesh.Name = fmt.Sprintf("%s/%d", m.Name, i)
				obj.Meshes = append(obj.Meshes, mesh)
			case gltf.PrimitivePoints:
				p, c, err := readPoints(doc, prim)
				if err != nil {
					return nil, fmt.Errorf("mesh %q primitive %d: %w", m.Name, i, err)
				}
				positions = append(positions, p...)
				colors = append(colors, c...)
			default:
				// Skip lines and strips
			}
		}
	}

	switch {
	case len(obj.Meshes) > 0 && len(positions) > 0:
		return nil, fmt.Errorf("%s: %w", path, ErrMixedGeometry)
	case len(obj.Meshes) > 0:
		return obj, nil
	case len(positions) > 0:
		pc, err := NewPointCloud(name, positions, colors)
		if err != nil {
			return nil, err
		}
		return pc, nil
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrNoGeometry)
	}
}

// readTriangles extracts one triangle primitive. It returns nil for a
// primitive without positions.
func (l *GLTFLoader) readTriangles(doc *gltf.Document, prim *gltf.Primitive, dir string) (*Mesh, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil
	}

	positions, err := readVectors(doc, posIdx)
	if err != nil {
		return nil, fmt.Errorf("read positions: %w", err)
	}

	var normals, uvs, colors [][4]float64
	if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
		if normals, err = readVectors(doc, idx); err != nil {
			return nil, fmt.Errorf("read normals: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
		if uvs, err = readVectors(doc, idx); err != nil {
			return nil, fmt.Errorf("read uvs: %w", err)
		}
	}
	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		if colors, err = readVectors(doc, idx); err != nil {
			return nil, fmt.Errorf("read colors: %w", err)
		}
	}

	base := [4]float64{1, 1, 1, 1}
	var tex *Texture
	if prim.Material != nil {
		mat := doc.Materials[*prim.Material]
		if pbr := mat.PBRMetallicRoughness; pbr != nil {
			if pbr.BaseColorFactor != nil {
				base = *pbr.BaseColorFactor
			}
			if pbr.BaseColorTexture != nil && len(uvs) == len(positions) {
				tex, err = readTexture(doc, pbr.BaseColorTexture.Index, dir)
				if err != nil {
					return nil, fmt.Errorf("read texture: %w", err)
				}
			}
		}
	}

	mesh := NewMesh("")
	mesh.Texture = tex
	mesh.UseColorPerVertex = tex == nil
	mesh.Vertices = make([]Vertex, len(positions))

	for i, p := range positions {
		v := Vertex{
			Position: math3d.V3(p[0], p[1], p[2]),
			Color:    math3d.V4(base[0], base[1], base[2], base[3]),
		}
		if i < len(normals) {
			v.Normal = math3d.V3(normals[i][0], normals[i][1], normals[i][2])
		}
		if i < len(uvs) {
			// GLTF uses top-left origin (V=0 at top), flip V for bottom-left origin
			v.UV = math3d.V2(uvs[i][0], 1.0-uvs[i][1])
		}
		if i < len(colors) {
			v.Color = math3d.V4(colors[i][0]*base[0], colors[i][1]*base[1], colors[i][2]*base[2], colors[i][3]*base[3])
		}
		mesh.Vertices[i] = v
	}

	if prim.Indices != nil {
		indices, err := readIndices(doc, *prim.Indices)
		if err != nil {
			return nil, fmt.Errorf("read indices: %w", err)
		}
		for _, ix := range indices {
			if int(ix) >= len(positions) {
				return nil, fmt.Errorf("index %d out of range (%d vertices)", ix, len(positions))
			}
		}
		mesh.Indices = indices[:len(indices)/3*3]
	} else {
		// No indices, assume sequential triangles
		n := len(positions) / 3 * 3
		mesh.Indices = make([]uint32, n)
		for i := range n {
			mesh.Indices[i] = uint32(i)
		}
	}

	if l.CalculateNormals && len(normals) == 0 {
		mesh.CalculateSmoothNormals()
	}
	mesh.CalculateBounds()

	return mesh, nil
}

// readPoints extracts the positions and RGB colors of a point primitive.
// Points without COLOR_0 are white.
func readPoints(doc *gltf.Document, prim *gltf.Primitive) ([]math3d.Vec3, []math3d.Vec3, error) {
	posIdx, ok := prim.Attributes[gltf.POSITION]
	if !ok {
		return nil, nil, nil
	}
	raw, err := readVectors(doc, posIdx)
	if err != nil {
		return nil, nil, fmt.Errorf("read positions: %w", err)
	}

	var rawColors [][4]float64
	if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
		if rawColors, err = readVectors(doc, idx); err != nil {
			return nil, nil, fmt.Errorf("read colors: %w", err)
		}
	}

	positions := make([]math3d.Vec3, len(raw))
	colors := make([]math3d.Vec3, len(raw))
	for i, p := range raw {
		positions[i] = math3d.V3(p[0], p[1], p[2])
		colors[i] = math3d.V3(1, 1, 1)
		if i < len(rawColors) {
			colors[i] = math3d.V3(rawColors[i][0], rawColors[i][1], rawColors[i][2])
		}
	}
	return positions, colors, nil
}

// readTexture decodes the image behind a glTF texture, embedded or external.
func readTexture(doc *gltf.Document, texIdx int, dir string) (*Texture, error) {
	if texIdx < 0 || texIdx >= len(doc.Textures) || doc.Textures[texIdx].Source == nil {
		return nil, fmt.Errorf("texture %d has no image", texIdx)
	}
	img := doc.Images[*doc.Textures[texIdx].Source]

	switch {
	case img.BufferView != nil:
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer]
		if buf.Data == nil || bv.ByteOffset+bv.ByteLength > len(buf.Data) {
			return nil, fmt.Errorf("image buffer view out of range")
		}
		return DecodeTexture(buf.Data[bv.ByteOffset : bv.ByteOffset+bv.ByteLength])
	case img.URI != "":
		data, err := os.ReadFile(filepath.Join(dir, img.URI))
		if err != nil {
			return nil, err
		}
		return DecodeTexture(data)
	default:
		return nil, fmt.Errorf("image has no data")
	}
}

// componentCount returns the number of components of an accessor type.
func componentCount(t gltf.AccessorType) int {
	switch t {
	case gltf.AccessorScalar:
		return 1
	case gltf.AccessorVec2:
		return 2
	case gltf.AccessorVec3:
		return 3
	case gltf.AccessorVec4:
		return 4
	}
	return 0
}

// componentSize returns the byte size of one component.
func componentSize(t gltf.ComponentType) int {
	switch t {
	case gltf.ComponentUbyte:
		return 1
	case gltf.ComponentUshort:
		return 2
	case gltf.ComponentUint, gltf.ComponentFloat:
		return 4
	}
	return 0
}

// accessorBytes returns the buffer backing an accessor along with the offset
// of its first element and the stride between elements.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor) (data []byte, start, stride int, err error) {
	if accessor.BufferView == nil {
		return nil, 0, 0, fmt.Errorf("accessor has no buffer view")
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.Data == nil {
		return nil, 0, 0, fmt.Errorf("buffer has no data")
	}

	elem := componentCount(accessor.Type) * componentSize(accessor.ComponentType)
	if elem == 0 {
		return nil, 0, 0, fmt.Errorf("unsupported accessor type: %v / %v", accessor.Type, accessor.ComponentType)
	}

	start = bufferView.ByteOffset + accessor.ByteOffset
	stride = bufferView.ByteStride
	if stride == 0 {
		stride = elem
	}
	if accessor.Count > 0 && start+(accessor.Count-1)*stride+elem > len(buffer.Data) {
		return nil, 0, 0, fmt.Errorf("accessor exceeds buffer (%d bytes)", len(buffer.Data))
	}
	return buffer.Data, start, stride, nil
}

// readVectors reads a float or normalized-integer accessor of up to four
// components. Missing components are zero, except alpha which is one.
func readVectors(doc *gltf.Document, accessorIdx int) ([][4]float64, error) {
	accessor := doc.Accessors[accessorIdx]
	data, start, stride, err := accessorBytes(doc, accessor)
	if err != nil {
		return nil, err
	}

	n := componentCount(accessor.Type)
	size := componentSize(accessor.ComponentType)
	result := make([][4]float64, accessor.Count)
	for i := range accessor.Count {
		result[i][3] = 1
		offset := start + i*stride
		for j := range n {
			b := data[offset+j*size:]
			switch accessor.ComponentType {
			case gltf.ComponentFloat:
				result[i][j] = float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
			case gltf.ComponentUbyte:
				result[i][j] = float64(b[0]) / math.MaxUint8
			case gltf.ComponentUshort:
				result[i][j] = float64(binary.LittleEndian.Uint16(b)) / math.MaxUint16
			default:
				return nil, fmt.Errorf("unsupported component type for vectors: %v", accessor.ComponentType)
			}
		}
	}

	return result, nil
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]uint32, error) {
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("expected SCALAR indices, got %v", accessor.Type)
	}

	data, start, stride, err := accessorBytes(doc, accessor)
	if err != nil {
		return nil, err
	}

	result := make([]uint32, accessor.Count)
	for i := range accessor.Count {
		offset := start + i*stride
		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			result[i] = uint32(data[offset])
		case gltf.ComponentUshort:
			result[i] = uint32(binary.LittleEndian.Uint16(data[offset:]))
		case gltf.ComponentUint:
			result[i] = binary.LittleEndian.Uint32(data[offset:])
		default:
			return nil, fmt.Errorf("unexpected index type: %v", accessor.ComponentType)
		}
	}
	return result, nil
}
