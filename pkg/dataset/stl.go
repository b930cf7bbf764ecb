package dataset

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

const (
	stlHeaderSize = 80
	stlRecordSize = 50
)

// ReadSTL parses an ASCII or binary STL stream and returns the solid's name
// and its faces.
func ReadSTL(r io.Reader) (string, []Triangle, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", nil, fmt.Errorf("failed to read STL: %w", err)
	}
	if isASCIISTL(data) {
		return parseASCIISTL(data)
	}
	return parseBinarySTL(data)
}

// isASCIISTL checks the "solid" keyword, but binary exporters sometimes write
// it into the header too, so a size that matches the binary layout wins.
func isASCIISTL(data []byte) bool {
	if !bytes.HasPrefix(data, []byte("solid")) {
		return false
	}
	if len(data) >= stlHeaderSize+4 {
		count := binary.LittleEndian.Uint32(data[stlHeaderSize:])
		if uint64(len(data)) == stlHeaderSize+4+uint64(count)*stlRecordSize {
			return false
		}
	}
	return true
}

func parseASCIISTL(data []byte) (string, []Triangle, error) {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	var name string
	var triangles []Triangle
	var current Triangle
	var vertices int

	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "solid":
			if len(fields) > 1 {
				name = strings.Join(fields[1:], " ")
			}

		case "facet":
			current = Triangle{}
			vertices = 0
			if len(fields) >= 5 && fields[1] == "normal" {
				n, err := parseVec3(fields[2:5])
				if err != nil {
					return "", nil, fmt.Errorf("line %d: bad normal: %w", lineNumber, err)
				}
				current.Normal = n
			}

		case "vertex":
			if len(fields) < 4 {
				return "", nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNumber)
			}
			v, err := parseVec3(fields[1:4])
			if err != nil {
				return "", nil, fmt.Errorf("line %d: bad vertex: %w", lineNumber, err)
			}
			if vertices < 3 {
				current.V[vertices] = v
			}
			vertices++

		case "endfacet":
			if vertices != 3 {
				return "", nil, fmt.Errorf("line %d: facet has %d vertices", lineNumber, vertices)
			}
			triangles = append(triangles, current)
		}
	}

	if err := scanner.Err(); err != nil {
		return "", nil, fmt.Errorf("error reading ASCII STL: %w", err)
	}
	return name, triangles, nil
}

type stlRecord struct {
	Normal    [3]float32
	V         [3][3]float32
	Attribute uint16
}

func parseBinarySTL(data []byte) (string, []Triangle, error) {
	if len(data) < stlHeaderSize+4 {
		return "", nil, fmt.Errorf("binary STL too short: %d bytes", len(data))
	}
	name := strings.TrimSpace(string(bytes.TrimRight(data[:stlHeaderSize], "\x00")))
	count := binary.LittleEndian.Uint32(data[stlHeaderSize:])

	body := data[stlHeaderSize+4:]
	if uint64(len(body)) < uint64(count)*stlRecordSize {
		return "", nil, fmt.Errorf("binary STL declares %d triangles but holds %d", count, len(body)/stlRecordSize)
	}

	reader := bytes.NewReader(body)
	triangles := make([]Triangle, 0, count)
	for i := uint32(0); i < count; i++ {
		var rec stlRecord
		if err := binary.Read(reader, binary.LittleEndian, &rec); err != nil {
			return "", nil, fmt.Errorf("failed to read triangle %d: %w", i, err)
		}
		tri := Triangle{Normal: vec3f(rec.Normal)}
		for j := range rec.V {
			tri.V[j] = vec3f(rec.V[j])
		}
		triangles = append(triangles, tri)
	}
	return name, triangles, nil
}

func vec3f(v [3]float32) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func parseVec3(fields []string) (mgl64.Vec3, error) {
	var v mgl64.Vec3
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 64)
		if err != nil {
			return mgl64.Vec3{}, err
		}
		v[i] = f
	}
	return v, nil
}
