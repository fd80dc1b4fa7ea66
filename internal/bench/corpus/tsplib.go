package corpus

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Supported TSPLIB subset: EDGE_WEIGHT_TYPE EUC_2D, CEIL_2D, ATT and
// EXPLICIT with EDGE_WEIGHT_FORMAT FULL_MATRIX, UPPER_ROW, LOWER_DIAG_ROW.
// Anything else is a load failure for that instance.

type tsplibHeader struct {
	Name       string
	Type       string
	Dimension  int
	WeightType string
	WeightFmt  string
}

// ParseTSPLIB reads a problem file and returns the normalized instance.
// All distance-convention rounding happens here; downstream code only ever
// sees the square matrix.
func ParseTSPLIB(name string, r io.Reader) (*Instance, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	var hdr tsplibHeader
	var section string
	var coords [][2]float64
	var weights []float64

	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		if line == "EOF" {
			break
		}
		// Section markers can follow any data section, e.g. a
		// DISPLAY_DATA_SECTION after the weights in bays29.
		if isSectionMarker(line) {
			section = line
			continue
		}

		switch section {
		case "":
			key, value, isHeader := splitHeader(line)
			if !isHeader {
				return nil, fmt.Errorf("unexpected line %q", line)
			}
			switch key {
			case "NAME":
				hdr.Name = value
			case "TYPE":
				hdr.Type = value
			case "DIMENSION":
				d, err := strconv.Atoi(value)
				if err != nil {
					return nil, fmt.Errorf("bad DIMENSION %q: %w", value, err)
				}
				hdr.Dimension = d
			case "EDGE_WEIGHT_TYPE":
				hdr.WeightType = value
			case "EDGE_WEIGHT_FORMAT":
				hdr.WeightFmt = value
			}
			// Other headers (COMMENT, DISPLAY_DATA_TYPE, ...) are ignored.

		case "NODE_COORD_SECTION":
			fields := strings.Fields(line)
			if len(fields) < 3 {
				return nil, fmt.Errorf("bad coord line %q", line)
			}
			x, errX := strconv.ParseFloat(fields[1], 64)
			y, errY := strconv.ParseFloat(fields[2], 64)
			if errX != nil || errY != nil {
				return nil, fmt.Errorf("bad coord line %q", line)
			}
			coords = append(coords, [2]float64{x, y})

		case "EDGE_WEIGHT_SECTION":
			for _, f := range strings.Fields(line) {
				w, err := strconv.ParseFloat(f, 64)
				if err != nil {
					return nil, fmt.Errorf("bad weight %q: %w", f, err)
				}
				weights = append(weights, w)
			}

		default:
			// Display/depot data is irrelevant to benchmarking.
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read problem file: %w", err)
	}

	if hdr.Dimension <= 0 {
		return nil, fmt.Errorf("missing or invalid DIMENSION")
	}

	matrix, err := buildMatrix(hdr, coords, weights)
	if err != nil {
		return nil, err
	}

	instName := hdr.Name
	if instName == "" {
		instName = name
	}
	return &Instance{Name: instName, Dimension: hdr.Dimension, Matrix: matrix}, nil
}

// isSectionMarker reports whether a line opens a TSPLIB data section.
// Header lines carry a colon and data lines are numeric, so neither can
// match.
func isSectionMarker(line string) bool {
	return strings.HasSuffix(line, "_SECTION") && len(strings.Fields(line)) == 1
}

func splitHeader(line string) (key, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}

func buildMatrix(hdr tsplibHeader, coords [][2]float64, weights []float64) ([][]float64, error) {
	n := hdr.Dimension

	switch hdr.WeightType {
	case "EUC_2D", "CEIL_2D", "ATT":
		if len(coords) != n {
			return nil, fmt.Errorf("have %d coordinates, want %d", len(coords), n)
		}
		return coordMatrix(hdr.WeightType, coords), nil

	case "EXPLICIT":
		return explicitMatrix(hdr.WeightFmt, n, weights)

	default:
		return nil, fmt.Errorf("unsupported EDGE_WEIGHT_TYPE %q", hdr.WeightType)
	}
}

func coordMatrix(weightType string, coords [][2]float64) [][]float64 {
	n := len(coords)
	m := newSquare(n)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			d := coordDistance(weightType, coords[i], coords[j])
			m[i][j] = d
			m[j][i] = d
		}
	}
	return m
}

// coordDistance applies the TSPLIB rounding convention for the given type.
func coordDistance(weightType string, a, b [2]float64) float64 {
	xd := a[0] - b[0]
	yd := a[1] - b[1]
	switch weightType {
	case "CEIL_2D":
		return math.Ceil(math.Sqrt(xd*xd + yd*yd))
	case "ATT":
		r := math.Sqrt((xd*xd + yd*yd) / 10.0)
		t := math.Floor(r + 0.5)
		if t < r {
			t++
		}
		return t
	default: // EUC_2D
		return math.Floor(math.Sqrt(xd*xd+yd*yd) + 0.5)
	}
}

func explicitMatrix(format string, n int, weights []float64) ([][]float64, error) {
	m := newSquare(n)
	switch format {
	case "FULL_MATRIX":
		if len(weights) != n*n {
			return nil, fmt.Errorf("FULL_MATRIX has %d weights, want %d", len(weights), n*n)
		}
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i != j {
					m[i][j] = weights[i*n+j]
				}
			}
		}

	case "UPPER_ROW":
		want := n * (n - 1) / 2
		if len(weights) != want {
			return nil, fmt.Errorf("UPPER_ROW has %d weights, want %d", len(weights), want)
		}
		k := 0
		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				m[i][j] = weights[k]
				m[j][i] = weights[k]
				k++
			}
		}

	case "LOWER_DIAG_ROW":
		want := n * (n + 1) / 2
		if len(weights) != want {
			return nil, fmt.Errorf("LOWER_DIAG_ROW has %d weights, want %d", len(weights), want)
		}
		k := 0
		for i := 0; i < n; i++ {
			for j := 0; j <= i; j++ {
				if i != j {
					m[i][j] = weights[k]
					m[j][i] = weights[k]
				}
				k++
			}
		}

	default:
		return nil, fmt.Errorf("unsupported EDGE_WEIGHT_FORMAT %q", format)
	}
	return m, nil
}

func newSquare(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
	}
	return m
}
