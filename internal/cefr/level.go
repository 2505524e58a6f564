package cefr

import "strings"

// Level is a CEFR proficiency band used as the content-difficulty ordinal.
type Level int

const (
	A0 Level = iota
	A1
	A2
	B1
	B2
	C1
	C2
)

var levelNames = [...]string{A0: "A0", A1: "A1", A2: "A2", B1: "B1", B2: "B2", C1: "C1", C2: "C2"}

// All returns every level from easiest to hardest.
func All() []Level {
	return []Level{A0, A1, A2, B1, B2, C1, C2}
}

// Parse converts a level name such as "b1" into a Level.
// Returns false when the name is not a recognized CEFR band.
func Parse(s string) (Level, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	for i, name := range levelNames {
		if name == s {
			return Level(i), true
		}
	}
	return 0, false
}

// String returns the canonical level name.
func (l Level) String() string {
	if l.IsValid() {
		return levelNames[l]
	}
	return "unknown"
}

// IsValid reports whether l is within A0..C2.
func (l Level) IsValid() bool {
	return l >= A0 && l <= C2
}

// Adjacent returns the level immediately below, the level itself and the
// level immediately above. Levels past the floor or ceiling are omitted.
func (l Level) Adjacent() []Level {
	out := make([]Level, 0, 3)
	if l > A0 {
		out = append(out, l-1)
	}
	out = append(out, l)
	if l < C2 {
		out = append(out, l+1)
	}
	return out
}

// AdjacentNames expands a raw level name to the adjacent level names used
// to pre-filter feed candidates. An unrecognized or missing level is not
// expanded: the raw value is returned as the only entry.
func AdjacentNames(raw string) []string {
	l, ok := Parse(raw)
	if !ok {
		return []string{raw}
	}
	adj := l.Adjacent()
	names := make([]string, len(adj))
	for i, a := range adj {
		names[i] = a.String()
	}
	return names
}
