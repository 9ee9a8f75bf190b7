package models

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/tymcgee/console-3d/pkg/math3d"
)

// maxLineLength bounds a single OBJ line.
const maxLineLength = 1 << 20

// FormatError reports a malformed line in a mesh file.
type FormatError struct {
	Line int    // 1-based line number, 0 when not tied to a line
	Text string // offending line, trimmed
	Msg  string
}

func (e *FormatError) Error() string {
	if e.Line == 0 {
		return "mesh format: " + e.Msg
	}
	return fmt.Sprintf("mesh format: line %d: %s: %q", e.Line, e.Msg, e.Text)
}

// OBJLoader reads the OBJ subset used by console-3d:
//
//	v x y z
//	vn x y z
//	f v1//n1 v2//n2 v3//n3
//
// Indices are 1-based and refer to the vertices and normals declared so far.
type OBJLoader struct {
	// Lenient skips lines with unknown tags (comments, groups, materials)
	// instead of rejecting them.
	Lenient bool
}

// NewOBJLoader creates a strict OBJ loader.
func NewOBJLoader() *OBJLoader {
	return &OBJLoader{}
}

// LoadOBJ loads an OBJ file with a strict loader.
func LoadOBJ(path string) (*Mesh, error) {
	return NewOBJLoader().Load(path)
}

// ParseOBJ parses OBJ data from r with a strict loader.
func ParseOBJ(r io.Reader, name string) (*Mesh, error) {
	return NewOBJLoader().Parse(r, name)
}

// Load opens path and parses it.
func (l *OBJLoader) Load(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open obj: %w", err)
	}
	defer f.Close()

	return l.Parse(f, filepath.Base(path))
}

// Parse reads a mesh from r. The first malformed line aborts parsing with a
// *FormatError.
func (l *OBJLoader) Parse(r io.Reader, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	var verts, norms []math3d.Vec4

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		text := strings.TrimSpace(sc.Text())
		if text == "" {
			continue
		}
		fields := strings.Fields(text)
		bad := func(msg string) error {
			return &FormatError{Line: lineNo, Text: text, Msg: msg}
		}

		switch fields[0] {
		case "v":
			v, err := parseVec(fields[1:])
			if err != nil {
				return nil, bad("vertex: " + err.Error())
			}
			verts = append(verts, v)

		case "vn":
			n, err := parseVec(fields[1:])
			if err != nil {
				return nil, bad("vertex normal: " + err.Error())
			}
			norms = append(norms, n)

		case "f":
			if len(fields) != 4 {
				return nil, bad(fmt.Sprintf("face needs 3 vertices, got %d", len(fields)-1))
			}
			var idx [3]int
			var normal math3d.Vec4
			for i, tok := range fields[1:] {
				vi, ni, err := parseFaceToken(tok)
				if err != nil {
					return nil, bad(err.Error())
				}
				if vi < 1 || vi > len(verts) {
					return nil, bad(fmt.Sprintf("vertex index %d out of range [1,%d]", vi, len(verts)))
				}
				if ni < 1 || ni > len(norms) {
					return nil, bad(fmt.Sprintf("normal index %d out of range [1,%d]", ni, len(norms)))
				}
				idx[i] = vi - 1
				if i == 0 {
					normal = norms[ni-1]
				}
			}
			mesh.Triangles = append(mesh.Triangles, Triangle{
				P1:     verts[idx[0]],
				P2:     verts[idx[1]],
				P3:     verts[idx[2]],
				Normal: normal,
			})

		default:
			if l.Lenient {
				continue
			}
			return nil, bad(fmt.Sprintf("unknown tag %q", fields[0]))
		}
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &FormatError{
				Line: lineNo + 1,
				Msg:  fmt.Sprintf("line longer than %d bytes", maxLineLength),
			}
		}
		return nil, fmt.Errorf("read obj: %w", err)
	}

	return mesh, nil
}

// parseVec parses exactly three finite decimal numbers into a point with
// W = 1.
func parseVec(fields []string) (math3d.Vec4, error) {
	if len(fields) != 3 {
		return math3d.Vec4{}, fmt.Errorf("want 3 components, got %d", len(fields))
	}
	var c [3]float64
	for i, f := range fields {
		if !isDecimal(f) {
			return math3d.Vec4{}, fmt.Errorf("bad number %q", f)
		}
		x, err := strconv.ParseFloat(f, 64)
		if err != nil || math.IsInf(x, 0) {
			return math3d.Vec4{}, fmt.Errorf("bad number %q", f)
		}
		c[i] = x
	}
	return math3d.Point(c[0], c[1], c[2]), nil
}

// isDecimal reports whether s only holds the characters of a plain decimal
// number. ParseFloat alone also takes NaN, Inf, hex floats and underscores.
func isDecimal(s string) bool {
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
		case r == '.', r == '+', r == '-', r == 'e', r == 'E':
		default:
			return false
		}
	}
	return true
}

// parseFaceToken splits "v//n" into its two indices.
func parseFaceToken(tok string) (vi, ni int, err error) {
	vs, ns, ok := strings.Cut(tok, "//")
	if !ok {
		return 0, 0, fmt.Errorf("face token %q is not v//n", tok)
	}
	vi, err = strconv.Atoi(vs)
	if err != nil {
		return 0, 0, fmt.Errorf("bad vertex index in %q", tok)
	}
	ni, err = strconv.Atoi(ns)
	if err != nil {
		return 0, 0, fmt.Errorf("bad normal index in %q", tok)
	}
	return vi, ni, nil
}
