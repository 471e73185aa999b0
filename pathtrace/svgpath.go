package pathtrace

import (
	"strconv"

	"github.com/katalvlaran/geoscript/errstack"
	"github.com/katalvlaran/geoscript/geom"
)

// svgArgCounts is the number of numeric arguments each SVG path command
// letter consumes per repetition, keyed by its uppercase form. "Z"/"z"
// take none and are not subject to implicit repetition.
var svgArgCounts = map[byte]int{
	'M': 2, 'L': 2, 'H': 1, 'V': 1,
	'C': 6, 'S': 4, 'Q': 4, 'T': 2,
	'A': 7,
}

// parseSVGPath turns an SVG path `d` attribute into the same
// draw-command stream a trace_path callback would have produced,
// following the subset of SVG 1.1 path syntax trace_svg_path accepts:
// M/m, L/l, H/h, V/v, C/c, S/s, Q/q, T/t, A/a, Z/z, with implicit
// command repetition for trailing coordinate groups and implicit "L"
// after a leading "M" moveto's extra coordinate pairs.
func parseSVGPath(d string) ([]Command, error) {
	toks, err := tokenizeSVGPath(d)
	if err != nil {
		return nil, err
	}

	var cmds []Command
	var cur, start geom.Vec2
	var haveStart bool
	var lastCmd byte
	var lastCubicCtrl2, lastQuadCtrl *geom.Vec2

	i := 0
	for i < len(toks.entries) {
		entry := toks.entries[i]
		i++

		letter := entry.letter
		upper := byte(0)
		if letter >= 'a' && letter <= 'z' {
			upper = letter - ('a' - 'A')
		} else {
			upper = letter
		}
		relative := letter >= 'a' && letter <= 'z'

		if upper == 'Z' {
			if haveStart {
				cmds = append(cmds, LineTo(start))
				cur = start
			}
			lastCmd = upper
			lastCubicCtrl2, lastQuadCtrl = nil, nil
			continue
		}

		n := svgArgCounts[upper]
		args := entry.args
		if len(args)%n != 0 || len(args) == 0 {
			return nil, errstack.Newf(errstack.ErrType, "SVG path command %q expects a multiple of %d numeric arguments, found %d", string(letter), n, len(args))
		}

		for off := 0; off < len(args); off += n {
			group := args[off: off+n]
			switch upper {
			case 'M':
				p := point(group[0], group[1], cur, relative)
				if off == 0 {
					cmds = append(cmds, MoveTo(p))
					start = p
					haveStart = true
				} else {
					// Subsequent coordinate pairs after an initial M/m are
					// implicit linetos.
					cmds = append(cmds, LineTo(p))
				}
				cur = p
				lastCmd = 'M'

			case 'L':
				p := point(group[0], group[1], cur, relative)
				cmds = append(cmds, LineTo(p))
				cur = p
				lastCmd = 'L'

			case 'H':
				x := group[0]
				if relative {
					x += cur.X
				}
				p := geom.Vec2{X: x, Y: cur.Y}
				cmds = append(cmds, LineTo(p))
				cur = p
				lastCmd = 'H'

			case 'V':
				y := group[0]
				if relative {
					y += cur.Y
				}
				p := geom.Vec2{X: cur.X, Y: y}
				cmds = append(cmds, LineTo(p))
				cur = p
				lastCmd = 'V'

			case 'C':
				c1 := point(group[0], group[1], cur, relative)
				c2 := point(group[2], group[3], cur, relative)
				to := point(group[4], group[5], cur, relative)
				cmds = append(cmds, CubicBezierTo(c1, c2, to))
				cur = to
				lastCubicCtrl2 = &c2
				lastQuadCtrl = nil
				lastCmd = 'C'

			case 'S':
				c1 := cur
				if lastCubicCtrl2 != nil && (lastCmd == 'C' || lastCmd == 'S') {
					c1 = cur.Add(cur.Sub(*lastCubicCtrl2))
				}
				c2 := point(group[0], group[1], cur, relative)
				to := point(group[2], group[3], cur, relative)
				cmds = append(cmds, CubicBezierTo(c1, c2, to))
				cur = to
				lastCubicCtrl2 = &c2
				lastQuadCtrl = nil
				lastCmd = 'S'

			case 'Q':
				ctrl := point(group[0], group[1], cur, relative)
				to := point(group[2], group[3], cur, relative)
				cmds = append(cmds, QuadraticBezierTo(ctrl, to))
				cur = to
				lastQuadCtrl = &ctrl
				lastCubicCtrl2 = nil
				lastCmd = 'Q'

			case 'T':
				ctrl := cur
				if lastQuadCtrl != nil && (lastCmd == 'Q' || lastCmd == 'T') {
					ctrl = cur.Add(cur.Sub(*lastQuadCtrl))
				}
				to := point(group[0], group[1], cur, relative)
				cmds = append(cmds, QuadraticBezierTo(ctrl, to))
				cur = to
				lastQuadCtrl = &ctrl
				lastCubicCtrl2 = nil
				lastCmd = 'T'

			case 'A':
				rx, ry, rot := group[0], group[1], group[2]
				largeArc, sweep := group[3] != 0, group[4] != 0
				to := point(group[5], group[6], cur, relative)
				cmds = append(cmds, ArcTo(rx, ry, rot, largeArc, sweep, to))
				cur = to
				lastCubicCtrl2, lastQuadCtrl = nil, nil
				lastCmd = 'A'
			}
		}
	}

	return cmds, nil
}

func point(x, y float64, cur geom.Vec2, relative bool) geom.Vec2 {
	if relative {
		return geom.Vec2{X: cur.X + x, Y: cur.Y + y}
	}

	return geom.Vec2{X: x, Y: y}
}

type svgEntry struct {
	letter byte
	args   []float64
}

type svgTokens struct {
	entries []svgEntry
}

// tokenizeSVGPath splits d into command letters with their associated
// numeric argument run. Arc flags (the two boolean arguments of an
// A/a command) are a single digit with no separator required, e.g.
// "A 5 5 0 1 0 10 10" and "A5 5 0 1010 10" (flags "1" "0") are both
// accepted.
func tokenizeSVGPath(d string) (svgTokens, error) {
	var entries []svgEntry
	i := 0
	n := len(d)

	isCmdLetter := func(c byte) bool {
		switch c {
		case 'M', 'm', 'L', 'l', 'H', 'h', 'V', 'v', 'C', 'c', 'S', 's', 'Q', 'q', 'T', 't', 'A', 'a', 'Z', 'z':
			return true
		default:
			return false
		}
	}

	for i < n {
		for i < n && isSVGSep(d[i]) {
			i++
		}
		if i >= n {
			break
		}
		if !isCmdLetter(d[i]) {
			return svgTokens{}, errstack.Newf(errstack.ErrType, "unexpected character %q in SVG path data", d[i])
		}
		letter := d[i]
		i++

		upper := letter
		if upper >= 'a' && upper <= 'z' {
			upper -= 'a' - 'A'
		}
		if upper == 'Z' {
			entries = append(entries, svgEntry{letter: letter})
			continue
		}

		argCount := svgArgCounts[upper]
		var args []float64
		for {
			for i < n && isSVGSep(d[i]) {
				i++
			}
			if i >= n || isCmdLetter(d[i]) {
				break
			}

			// Arc flag slots (indices 3 and 4 within a 7-number group)
			// are single-character booleans and may run directly into
			// the next number without a separator.
			isFlagSlot := upper == 'A' && len(args)%7 == 3 || upper == 'A' && len(args)%7 == 4
			var numEnd int
			var err error
			if isFlagSlot {
				numEnd = i + 1
			} else {
				numEnd, err = scanSVGNumber(d, i)
			}
			if err != nil {
				return svgTokens{}, err
			}
			val, perr := strconv.ParseFloat(d[i:numEnd], 64)
			if perr != nil {
				return svgTokens{}, errstack.Newf(errstack.ErrType, "invalid number %q in SVG path data", d[i:numEnd])
			}
			args = append(args, val)
			i = numEnd
		}

		if argCount == 0 {
			return svgTokens{}, errstack.Newf(errstack.ErrType, "command %q has no defined argument count", string(letter))
		}
		if len(args) == 0 || len(args)%argCount != 0 {
			return svgTokens{}, errstack.Newf(errstack.ErrType, "command %q expects a multiple of %d arguments, found %d", string(letter), argCount, len(args))
		}
		entries = append(entries, svgEntry{letter: letter, args: args})
	}

	return svgTokens{entries: entries}, nil
}

func isSVGSep(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == ','
}

// scanSVGNumber returns the index just past the number starting at i,
// accepting an optional sign, digits, a decimal point, and exponent.
func scanSVGNumber(d string, i int) (int, error) {
	start := i
	n := len(d)
	if i < n && (d[i] == '+' || d[i] == '-') {
		i++
	}
	digitsBefore := 0
	for i < n && d[i] >= '0' && d[i] <= '9' {
		i++
		digitsBefore++
	}
	digitsAfter := 0
	if i < n && d[i] == '.' {
		i++
		for i < n && d[i] >= '0' && d[i] <= '9' {
			i++
			digitsAfter++
		}
	}
	if digitsBefore == 0 && digitsAfter == 0 {
		return i, errstack.Newf(errstack.ErrType, "expected a number in SVG path data at %q", d[start:])
	}
	if i < n && (d[i] == 'e' || d[i] == 'E') {
		j := i + 1
		if j < n && (d[j] == '+' || d[j] == '-') {
			j++
		}
		expDigits := 0
		for j < n && d[j] >= '0' && d[j] <= '9' {
			j++
			expDigits++
		}
		if expDigits > 0 {
			i = j
		}
	}

	return i, nil
}
