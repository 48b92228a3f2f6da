package snap

import (
	"fmt"
	"strings"
)

// Kind identifies what sort of geometric reference a candidate is
type Kind int

const (
	KindNone Kind = iota
	KindPoint
	KindEdge
	KindFace
	KindCenter
	KindIntersection
)

var kindNames = map[Kind]string{
	KindNone:         "none",
	KindPoint:        "point",
	KindEdge:         "edge",
	KindFace:         "face",
	KindCenter:       "center",
	KindIntersection: "intersection",
}

// String returns the lower-case name of the kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind converts a kind name (case-insensitive) into a Kind.
// An empty string parses as KindNone.
func ParseKind(s string) (Kind, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return KindNone, nil
	}
	for k, n := range kindNames {
		if n == name {
			return k, nil
		}
	}
	return KindNone, fmt.Errorf("unknown snap kind %q", s)
}
