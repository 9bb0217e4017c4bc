// Package csv implements parsing, in-memory modeling, mutation, and
// serialization of CSV tables, per spec §3.2/§4.3.
package csv

// EscapeMode selects how an embedded quote is represented inside a quoted
// field.
type EscapeMode int

const (
	DoubledQuote EscapeMode = iota
	Backslash
	NoEscape
)

// HeaderDupMode controls how repeated header names are resolved when
// treat_first_row_as_header is set.
type HeaderDupMode int

const (
	HeaderDupError HeaderDupMode = iota
	HeaderDupFirstWins
	HeaderDupLastWins
	HeaderDupCollect
)

// Dialect is the full set of recognized CSV parse/write options (spec
// §4.3's option table).
type Dialect struct {
	Delimiter byte
	Quote     byte
	Escape    EscapeMode

	AcceptLF   bool
	AcceptCRLF bool
	AcceptCR   bool

	NewlineInQuotes bool

	TrimUnquotedFields        bool
	AllowSpaceAfterDelimiter  bool
	AllowUnquotedQuotes       bool
	AllowUnquotedNewlines     bool

	AllowComments bool
	CommentPrefix string

	TreatFirstRowAsHeader bool
	HeaderDupMode         HeaderDupMode

	// Writer-only options (spec §4.3 "Writer contract").
	QuoteAllFields          bool
	QuoteIfNeeded           bool
	QuoteEmptyFields        bool
	AlwaysEscapeQuotes      bool
	TrimTrailingEmptyFields bool
	// TrailingNewline is not read by Writer: WriteRow ends every record,
	// the last one included, with the dialect's line break.
	TrailingNewline bool

	// AllowIrregularRows permits rows of differing lengths (spec §3.2).
	AllowIrregularRows bool
}

// DefaultDialect returns the conventional comma-delimited, double-quote
// dialect: LF and CRLF accepted, quote-if-needed, header dup ERROR.
func DefaultDialect() Dialect {
	return Dialect{
		Delimiter:        ',',
		Quote:            '"',
		Escape:           DoubledQuote,
		AcceptLF:         true,
		AcceptCRLF:       true,
		QuoteIfNeeded:    true,
		QuoteEmptyFields: true,
		TrailingNewline:  true,
	}
}
