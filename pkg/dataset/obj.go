package dataset

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// ReadOBJ reads the geometric vertices and faces of a Wavefront OBJ stream.
// Polygons are split into triangle fans; texture and normal indices are ignored.
func ReadOBJ(r io.Reader) ([]Triangle, error) {
	scanner := bufio.NewScanner(r)
	var vertices []mgl64.Vec3
	var triangles []Triangle

	for lineNumber := 1; scanner.Scan(); lineNumber++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		fields := strings.Fields(line)

		switch fields[0] {
		case "v":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: vertex needs 3 coordinates", lineNumber)
			}
			v, err := parseVec3(fields[1:4])
			if err != nil {
				return nil, fmt.Errorf("line %d: bad vertex: %w", lineNumber, err)
			}
			vertices = append(vertices, v)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 vertices", lineNumber)
			}
			face := make([]mgl64.Vec3, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				idx, err := objIndex(ref, len(vertices))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNumber, err)
				}
				face = append(face, vertices[idx])
			}
			for i := 1; i+1 < len(face); i++ {
				triangles = append(triangles, Triangle{V: [3]mgl64.Vec3{face[0], face[i], face[i+1]}})
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading OBJ: %w", err)
	}
	return triangles, nil
}

// objIndex resolves a 1-based or negative (relative) vertex reference such as "3/1/2"
func objIndex(ref string, count int) (int, error) {
	if slash := strings.IndexByte(ref, '/'); slash >= 0 {
		ref = ref[:slash]
	}
	n, err := strconv.Atoi(ref)
	if err != nil {
		return 0, fmt.Errorf("bad vertex reference %q: %w", ref, err)
	}
	idx := n - 1
	if n < 0 {
		idx = count + n
	}
	if n == 0 || idx < 0 || idx >= count {
		return 0, fmt.Errorf("vertex reference %d out of range (%d vertices)", n, count)
	}
	return idx, nil
}
