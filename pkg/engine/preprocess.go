package engine

import (
	"strconv"
	"strings"
)

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// lineKW is the keyword preprocessSource adds to toggle calls to carry
// their source line.
const lineKW = "line"

// preprocessSource rewrites Lattice Lisp into something zygomys accepts:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords never
//     collide with user variables.
//  2. Kebab-case identifiers become snake_case (zygomys reads the hyphen as
//     subtraction). A hyphen only counts when it sits between identifier
//     characters, so (- 10 5) and -5 are left alone.
//  3. ; line comments become // comments.
//  4. (on ...) and (off ...) calls gain a leading :line N argument holding
//     the 1-based line of the call.
//
// String literals (double-quoted and backtick) pass through untouched.
func preprocessSource(source string) string {
	var out strings.Builder
	out.Grow(len(source) + len(source)/4)

	b := source
	line, counted := 1, 0
	for i := 0; i < len(b); {
		c := b[i]
		if end := toggleCallEnd(b, i); end > 0 {
			line += strings.Count(b[counted:i], "\n")
			counted = i
			out.WriteString(b[i:end])
			out.WriteString(` "` + kwPrefix + lineKW + `" `)
			out.WriteString(strconv.Itoa(line))
			i = end
			continue
		}

		switch {
		case c == '"':
			j := i + 1
			for j < len(b) && b[j] != '"' {
				if b[j] == '\\' && j+1 < len(b) {
					j++
				}
				j++
			}
			j = min(j+1, len(b))
			out.WriteString(b[i:j])
			i = j

		case c == '`':
			j := i + 1
			for j < len(b) && b[j] != '`' {
				j++
			}
			j = min(j+1, len(b))
			out.WriteString(b[i:j])
			i = j

		case c == ';':
			out.WriteString("//")
			for i < len(b) && b[i] == ';' {
				i++
			}
			j := i
			for j < len(b) && b[j] != '\n' {
				j++
			}
			out.WriteString(b[i:j])
			i = j

		case c == ':' && i+1 < len(b) && b[i+1] == '=':
			out.WriteString(":=")
			i += 2

		case c == ':' && i+1 < len(b) && isLetter(b[i+1]):
			j := i + 1
			for j < len(b) && isKWChar(b[j]) {
				j++
			}
			out.WriteByte('"')
			out.WriteString(kwPrefix)
			out.WriteString(b[i+1 : j])
			out.WriteByte('"')
			i = j

		case c == '-' && i > 0 && i+1 < len(b) && isIdentChar(b[i-1]) && isLetter(b[i+1]):
			out.WriteByte('_')
			i++

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.String()
}

// toggleCallEnd reports where the head symbol ends when b[open] starts an
// (on ...) or (off ...) form, or 0 otherwise.
func toggleCallEnd(b string, open int) int {
	if b[open] != '(' {
		return 0
	}
	j := open + 1
	for j < len(b) && (b[j] == ' ' || b[j] == '\t') {
		j++
	}
	k := j
	for k < len(b) && isIdentChar(b[k]) {
		k++
	}
	if w := b[j:k]; w != "on" && w != "off" {
		return 0
	}
	if k < len(b) && !strings.ContainsRune(" \t\r\n()", rune(b[k])) {
		return 0
	}
	return k
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isKWChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || (c >= '0' && c <= '9') || c == '_'
}
