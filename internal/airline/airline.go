// Package airline maps IATA airline codes to display names and normalises
// user-typed airline lists.
package airline

import (
	"sort"
	"strings"
)

var names = map[string]string{
	"QR": "Qatar Airways",
	"QF": "Qantas",
	"BA": "British Airways",
	"EK": "Emirates",
	"SK": "SAS",
	"SQ": "Singapore Airlines",
	"AY": "Finnair",
}

// Name returns the airline's display name, or the code itself when unknown.
func Name(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if n, ok := names[code]; ok {
		return n
	}
	return code
}

// Codes lists the known airline codes in alphabetical order.
func Codes() []string {
	out := make([]string, 0, len(names))
	for code := range names {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// Normalize turns "QR, emirates ,ba" into [QR EK BA]. Two-character entries
// are always codes, known or not. Longer entries are matched as a code, then
// as a substring of a known airline name; anything else is kept upper-cased.
// Blank input yields nil.
func Normalize(list string) []string {
	var out []string
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, resolve(part))
	}
	return out
}

func resolve(s string) string {
	code := strings.ToUpper(s)
	if _, ok := names[code]; ok || len(code) <= 2 {
		return code
	}
	needle := strings.ToLower(s)
	for _, c := range Codes() {
		if strings.Contains(strings.ToLower(names[c]), needle) {
			return c
		}
	}
	return code
}
