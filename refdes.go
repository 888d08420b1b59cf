package uframe

import "strings"

// Subsite returns the first hyphen-delimited token of a reference designator.
func Subsite(refdes string) string {
	subsite, _, _ := strings.Cut(refdes, "-")
	return subsite
}

// ReferenceDesignatorParts is a reference designator split for request paths.
type ReferenceDesignatorParts struct {
	Subsite      string
	Node         string
	SensorPrefix string
	SensorSuffix string
}

// SplitReferenceDesignator splits refdes on "-" into the four tokens of the
// SUBSITE-NODE-PORT-INSTRUMENT shape. Tokens past the fourth are ignored.
// The boolean is false when fewer than four non-empty tokens are present, in
// which case the missing parts are empty.
func SplitReferenceDesignator(refdes string) (ReferenceDesignatorParts, bool) {
	tokens := strings.Split(refdes, "-")
	for len(tokens) < 4 {
		tokens = append(tokens, "")
	}
	parts := ReferenceDesignatorParts{
		Subsite:      tokens[0],
		Node:         tokens[1],
		SensorPrefix: tokens[2],
		SensorSuffix: tokens[3],
	}
	ok := parts.Subsite != "" && parts.Node != "" && parts.SensorPrefix != "" && parts.SensorSuffix != ""
	return parts, ok
}
