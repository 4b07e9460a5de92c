package strokefit

import (
	"fmt"
	"strconv"
)

// argCounts is the number of numbers each path command consumes.
var argCounts = map[byte]int{
	'M': 2,
	'Z': 0,
	'L': 2,
	'H': 1,
	'V': 1,
	'C': 6,
	'S': 4,
	'Q': 4,
	'T': 2,
	'A': 7,
}

func skipCommaWhitespace(path string) int {
	i := 0
	for i < len(path) && (path[i] == ' ' || path[i] == ',' || path[i] == '\n' || path[i] == '\r' || path[i] == '\t') {
		i++
	}
	return i
}

// scanNumber returns the length of the number at the start of s, or 0.
// Numbers may run into each other as in "10-5" or ".5.5".
func scanNumber(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && s[k] >= '0' && s[k] <= '9' {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

func isNumberStart(c byte) bool {
	return c >= '0' && c <= '9' || c == '.' || c == '-' || c == '+'
}

// ParseSVG parses SVG path data into a [BezPath]. Relative commands are made
// absolute and H, V, S and T are expanded to their general forms. Elliptical
// arcs are not supported and result in [ErrUnsupportedCommand].
func ParseSVG(d string) (BezPath, error) {
	var p BezPath
	i := skipCommaWhitespace(d)
	if i == len(d) {
		return p, nil
	}
	if c := d[i] | 0x20; c != 'm' {
		return nil, fmt.Errorf("%w: path should start with a move command, found %q", ErrSyntax, d[i])
	}

	var f [7]float64
	// cur is the pen, start the current subpath's first point; c and q are
	// the last cubic and quadratic control points for reflection.
	var cur, start, c, q Point
	prevCmd := byte('z')
	for {
		i += skipCommaWhitespace(d[i:])
		if i >= len(d) {
			break
		}

		cmd := prevCmd
		if cmd == 'z' || cmd == 'Z' || !isNumberStart(d[i]) {
			cmd = d[i]
			i++
			i += skipCommaWhitespace(d[i:])
		}

		CMD := cmd
		if 'a' <= cmd && cmd <= 'z' {
			CMD -= 'a' - 'A'
		}
		n, ok := argCounts[CMD]
		if !ok {
			return nil, fmt.Errorf("%w: unknown command %q at position %d", ErrSyntax, cmd, i)
		}
		if CMD == 'A' {
			return nil, fmt.Errorf("%w: arc command %q at position %d", ErrUnsupportedCommand, cmd, i)
		}
		for j := range n {
			l := scanNumber(d[i:])
			if l == 0 {
				return nil, fmt.Errorf("%w: command %q needs %d numbers, found %d at position %d", ErrSyntax, cmd, n, j, i+1)
			}
			v, err := strconv.ParseFloat(d[i:i+l], 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
			}
			f[j] = v
			i += l
			i += skipCommaWhitespace(d[i:])
		}

		rel := cmd != CMD
		abs := func(x, y float64) Point {
			if rel {
				return Pt(cur.X+x, cur.Y+y)
			}
			return Pt(x, y)
		}

		switch CMD {
		case 'M':
			cur = abs(f[0], f[1])
			start = cur
			p.MoveTo(cur)
			// subsequent pairs are implicit line commands
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}
		case 'Z':
			p.ClosePath()
			cur = start
		case 'L':
			cur = abs(f[0], f[1])
			p.LineTo(cur)
		case 'H':
			if rel {
				cur.X += f[0]
			} else {
				cur.X = f[0]
			}
			p.LineTo(cur)
		case 'V':
			if rel {
				cur.Y += f[0]
			} else {
				cur.Y = f[0]
			}
			p.LineTo(cur)
		case 'C':
			cp1 := abs(f[0], f[1])
			cp2 := abs(f[2], f[3])
			cur = abs(f[4], f[5])
			p.CubicTo(cp1, cp2, cur)
			c = cp2
		case 'S':
			cp1 := cur
			if pc := prevCmd | 0x20; pc == 'c' || pc == 's' {
				cp1 = cur.Translate(cur.Sub(c))
			}
			cp2 := abs(f[0], f[1])
			cur = abs(f[2], f[3])
			p.CubicTo(cp1, cp2, cur)
			c = cp2
		case 'Q':
			cp := abs(f[0], f[1])
			cur = abs(f[2], f[3])
			p.QuadTo(cp, cur)
			q = cp
		case 'T':
			cp := cur
			if pc := prevCmd | 0x20; pc == 'q' || pc == 't' {
				cp = cur.Translate(cur.Sub(q))
			}
			cur = abs(f[0], f[1])
			p.QuadTo(cp, cur)
			q = cp
		}
		prevCmd = cmd
	}
	return p, nil
}

// MustParseSVG is like [ParseSVG] but panics on error.
func MustParseSVG(d string) BezPath {
	p, err := ParseSVG(d)
	if err != nil {
		panic(err)
	}
	return p
}
