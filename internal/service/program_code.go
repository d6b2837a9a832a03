package service

import (
	"strings"
	"time"
	"unicode"
)

// programCodePrefixLen bounds the name-derived prefix so the full code never
// exceeds 10 characters (prefix + "-" + YYMMDD).
const programCodePrefixLen = 3

// GenerateProgramCode derives a program code from the program name and the
// creation time: the first three letters of the lowercased name followed by a
// YYMMDD suffix, e.g. "Bachelor Of Science" at 2026-08-30 -> "bac-260830".
// Pure function of its inputs; codes are immutable after creation.
func GenerateProgramCode(name string, now time.Time) string {
	var letters []rune
	for _, r := range strings.ToLower(name) {
		if !unicode.IsLetter(r) {
			continue
		}
		letters = append(letters, r)
		if len(letters) == programCodePrefixLen {
			break
		}
	}
	prefix := string(letters)
	if prefix == "" {
		prefix = "prg"
	}
	return prefix + "-" + now.Format("060102")
}
