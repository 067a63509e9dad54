package registry

import (
	"fmt"
	"regexp"
)

// MatchFlags alter how a Pattern expression is compiled.
type MatchFlags uint

const (
	// MatchPOSIX compiles the expression with POSIX ERE leftmost-longest semantics.
	MatchPOSIX MatchFlags = 1 << iota
	// MatchIgnoreCase makes the match case-insensitive.
	MatchIgnoreCase
	// MatchLiteral treats the expression as a literal string.
	MatchLiteral
	// MatchWhole anchors the expression to the entire line.
	MatchWhole
)

// Pattern selects registry lines. The expression uses Go regexp syntax and
// is unanchored unless MatchWhole is set.
type Pattern struct {
	Expr  string
	Flags MatchFlags
}

// MatchAll selects every non-blank line.
func MatchAll() Pattern {
	return Pattern{Expr: ".*"}
}

// Exact selects lines equal to name.
func Exact(name string) Pattern {
	return Pattern{Expr: name, Flags: MatchLiteral | MatchWhole}
}

// Regex builds a pattern from a user supplied expression.
func Regex(expr string, flags MatchFlags) Pattern {
	return Pattern{Expr: expr, Flags: flags}
}

func (p Pattern) String() string {
	return p.Expr
}

func (p Pattern) compile() (*regexp.Regexp, error) {
	expr := p.Expr
	if p.Flags&MatchLiteral != 0 {
		expr = regexp.QuoteMeta(expr)
	}
	if p.Flags&MatchWhole != 0 {
		if p.Flags&MatchPOSIX != 0 {
			expr = "^(" + expr + ")$"
		} else {
			expr = "^(?:" + expr + ")$"
		}
	}
	if p.Flags&MatchIgnoreCase != 0 {
		if p.Flags&MatchPOSIX != 0 {
			// CompilePOSIX rejects inline flags.
			return nil, fmt.Errorf("pattern %q: case-insensitive matching is not available in POSIX mode", p.Expr)
		}
		expr = "(?i)" + expr
	}
	var (
		re  *regexp.Regexp
		err error
	)
	if p.Flags&MatchPOSIX != 0 {
		re, err = regexp.CompilePOSIX(expr)
	} else {
		re, err = regexp.Compile(expr)
	}
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w", p.Expr, err)
	}
	return re, nil
}
