package loaders

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/anthropics/go-tracer-core/pkg/shapes"
)

// plyHeader is the parsed PLY header: element counts and the property
// layout needed to decode the binary vertex/face blocks that follow it.
type plyHeader struct {
	Format      string
	VertexCount int
	FaceCount   int
	VertexProps []plyProperty
	FaceProps   []plyProperty

	HasNormals bool
	HasUVs     bool
}

type plyProperty struct {
	Name     string
	Type     string
	IsList   bool
	ListType string
	DataType string
}

// LoadPLYMesh reads a binary-little-endian PLY file and returns an
// indexed triangle mesh, per spec §3's mesh data model. Per-vertex
// normals are read from the file when present and otherwise left zero
// for the caller to face-average.
func LoadPLYMesh(filename string) (*shapes.Mesh, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "opening PLY file %q", filename)
	}
	defer f.Close()

	header, headerSize, err := parsePLYHeader(f)
	if err != nil {
		return nil, errors.Wrap(err, "parsing PLY header")
	}
	if header.Format != "binary_little_endian" {
		return nil, errors.Errorf("unsupported PLY format %q (only binary_little_endian is implemented)", header.Format)
	}

	if _, err := f.Seek(int64(headerSize), io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "seeking to PLY binary data")
	}

	vertices, faces, err := readPLYBody(f, header)
	if err != nil {
		return nil, errors.Wrap(err, "reading PLY body")
	}
	return shapes.NewMesh(vertices, faces), nil
}

func parsePLYHeader(r io.Reader) (*plyHeader, int, error) {
	header := &plyHeader{}
	scanner := bufio.NewScanner(r)
	var bytesRead int
	var currentElement string

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		bytesRead += len(scanner.Bytes()) + 1
		if line == "end_header" {
			break
		}

		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}

		switch parts[0] {
		case "format":
			if len(parts) >= 2 {
				header.Format = parts[1]
			}
		case "element":
			if len(parts) < 3 {
				continue
			}
			count, err := strconv.Atoi(parts[2])
			if err != nil {
				return nil, 0, errors.Wrapf(err, "invalid element count %q", parts[2])
			}
			currentElement = parts[1]
			switch currentElement {
			case "vertex":
				header.VertexCount = count
			case "face":
				header.FaceCount = count
			}
		case "property":
			prop, err := parsePLYProperty(parts[1:])
			if err != nil {
				return nil, 0, err
			}
			switch currentElement {
			case "vertex":
				header.VertexProps = append(header.VertexProps, prop)
				switch prop.Name {
				case "nx", "ny", "nz":
					header.HasNormals = true
				case "u", "v", "s", "t", "texture_u", "texture_v":
					header.HasUVs = true
				}
			case "face":
				header.FaceProps = append(header.FaceProps, prop)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, 0, err
	}
	return header, bytesRead, nil
}

func parsePLYProperty(parts []string) (plyProperty, error) {
	if len(parts) < 2 {
		return plyProperty{}, errors.New("invalid property definition")
	}
	if parts[0] == "list" {
		if len(parts) < 4 {
			return plyProperty{}, errors.New("invalid list property definition")
		}
		return plyProperty{IsList: true, ListType: parts[1], DataType: parts[2], Name: parts[3]}, nil
	}
	return plyProperty{Type: parts[0], Name: parts[1]}, nil
}

func plyTypeSize(dataType string) int {
	switch dataType {
	case "float", "float32", "int", "int32", "uint", "uint32":
		return 4
	case "double", "float64":
		return 8
	case "short", "int16", "ushort", "uint16":
		return 2
	case "char", "int8", "uchar", "uint8":
		return 1
	default:
		return 4
	}
}

func plyVertexSize(props []plyProperty) int {
	size := 0
	for _, p := range props {
		if !p.IsList {
			size += plyTypeSize(p.Type)
		}
	}
	return size
}

// readPLYBody decodes the vertex and face blocks into mesh buffers.
func readPLYBody(f *os.File, header *plyHeader) ([]shapes.Vertex, []int32, error) {
	vertexSize := plyVertexSize(header.VertexProps)
	raw := make([]byte, vertexSize*header.VertexCount)
	if _, err := io.ReadFull(f, raw); err != nil {
		return nil, nil, errors.Wrap(err, "reading vertex block")
	}

	vertices := make([]shapes.Vertex, header.VertexCount)
	for i := 0; i < header.VertexCount; i++ {
		vertices[i] = decodePLYVertex(raw[i*vertexSize:(i+1)*vertexSize], header.VertexProps)
	}

	buf := bufio.NewReaderSize(f, 1<<20)
	indices := make([]int32, 0, header.FaceCount*3)
	for i := 0; i < header.FaceCount; i++ {
		for _, prop := range header.FaceProps {
			if prop.IsList && prop.Name == "vertex_indices" {
				tri, err := readPLYFaceIndices(buf, prop)
				if err != nil {
					return nil, nil, errors.Wrapf(err, "reading face %d indices", i)
				}
				indices = append(indices, tri[:]...)
			} else if err := skipPLYProperty(buf, prop); err != nil {
				return nil, nil, errors.Wrapf(err, "skipping face %d property %s", i, prop.Name)
			}
		}
	}
	return vertices, indices, nil
}

func readPLYFaceIndices(r io.Reader, prop plyProperty) ([3]int32, error) {
	var count int
	switch prop.ListType {
	case "uchar", "uint8":
		var c uint8
		if err := binary.Read(r, binary.LittleEndian, &c); err != nil {
			return [3]int32{}, err
		}
		count = int(c)
	case "int", "int32":
		var c int32
		if err := binary.Read(r, binary.LittleEndian, &c); err != nil {
			return [3]int32{}, err
		}
		count = int(c)
	default:
		return [3]int32{}, errors.Errorf("unsupported list count type %q", prop.ListType)
	}
	if count != 3 {
		return [3]int32{}, errors.Errorf("only triangular faces are supported, got %d indices", count)
	}

	var tri [3]int32
	switch prop.DataType {
	case "int", "int32":
		if err := binary.Read(r, binary.LittleEndian, &tri); err != nil {
			return [3]int32{}, err
		}
	case "uint", "uint32":
		var u [3]uint32
		if err := binary.Read(r, binary.LittleEndian, &u); err != nil {
			return [3]int32{}, err
		}
		tri = [3]int32{int32(u[0]), int32(u[1]), int32(u[2])}
	default:
		return [3]int32{}, errors.Errorf("unsupported face index type %q", prop.DataType)
	}
	return tri, nil
}

func skipPLYProperty(r io.Reader, prop plyProperty) error {
	if !prop.IsList {
		return skipPLYValue(r, prop.Type)
	}
	var count uint8
	if prop.ListType != "uchar" && prop.ListType != "uint8" {
		return errors.Errorf("unsupported list count type %q", prop.ListType)
	}
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return err
	}
	for i := 0; i < int(count); i++ {
		if err := skipPLYValue(r, prop.DataType); err != nil {
			return err
		}
	}
	return nil
}

func skipPLYValue(r io.Reader, dataType string) error {
	var dummy [8]byte
	size := plyTypeSize(dataType)
	_, err := io.ReadFull(r, dummy[:size])
	return err
}

// decodePLYVertex extracts position, normal and UV fields from one
// vertex's raw bytes according to the header's property layout.
func decodePLYVertex(data []byte, props []plyProperty) shapes.Vertex {
	var v shapes.Vertex
	offset := 0
	for _, prop := range props {
		size := plyTypeSize(prop.Type)
		if offset+size > len(data) {
			break
		}
		value := decodePLYFloat(data[offset:offset+size], prop.Type)
		offset += size

		switch prop.Name {
		case "x":
			v.Position.X = value
		case "y":
			v.Position.Y = value
		case "z":
			v.Position.Z = value
		case "nx":
			v.Normal.X = value
		case "ny":
			v.Normal.Y = value
		case "nz":
			v.Normal.Z = value
		case "u", "s", "texture_u":
			v.UV.X = value
		case "v", "t", "texture_v":
			v.UV.Y = value
		}
	}
	return v
}

func decodePLYFloat(data []byte, dataType string) float64 {
	r := bytes.NewReader(data)
	switch dataType {
	case "float", "float32":
		var f float32
		_ = binary.Read(r, binary.LittleEndian, &f)
		return float64(f)
	case "double", "float64":
		var f float64
		_ = binary.Read(r, binary.LittleEndian, &f)
		return f
	case "int", "int32":
		var i int32
		_ = binary.Read(r, binary.LittleEndian, &i)
		return float64(i)
	case "uint", "uint32":
		var i uint32
		_ = binary.Read(r, binary.LittleEndian, &i)
		return float64(i)
	default:
		return 0
	}
}
