package json

import (
	"math"
	"strconv"
	"unicode/utf8"

	"github.com/willabides/texty/internal/breader"
)

// Parse parses buf as a complete JSON document under opts, producing a
// Value DOM rooted at the top-level value.
func Parse(buf []byte, opts ParseOptions) (*Value, error) {
	r := breader.New(buf)
	p := &parser{r: r, opts: opts, final: true}
	if opts.AllowLeadingBOM {
		p.skipBOM()
	}
	p.skipSpace()
	v, err := p.parseValue(0)
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if !p.r.AtEOF() {
		return nil, p.errorf(EInvalid, "trailing garbage after top-level value")
	}
	return v, nil
}

type parser struct {
	r     *breader.Reader
	opts  ParseOptions
	final bool // false while Scanner.Feed is still accumulating input
}

func (p *parser) errorf(code Status, msg string) *Error {
	return &Error{Code: code, Message: msg, Offset: p.r.Offset(), Line: p.r.Line(), Col: p.r.Column()}
}

// tokErr reports a syntax error, except that hitting end-of-input while
// !p.final is reported as EIncomplete: the caller may still be mid-feed.
func (p *parser) tokErr(msg string) *Error {
	if p.r.Peek() == breader.EOF && !p.final {
		return p.errorf(EIncomplete, "more input needed: "+msg)
	}
	return p.errorf(EBadToken, msg)
}

func (p *parser) skipBOM() {
	if p.r.HasPrefix("\xEF\xBB\xBF") {
		p.r.Consume()
		p.r.Consume()
		p.r.Consume()
	}
}

func (p *parser) skipSpace() {
	for {
		b := p.r.Peek()
		switch b {
		case ' ', '\t', '\n', '\r':
			p.r.Consume()
			continue
		case '/':
			if p.opts.AllowComments && p.skipComment() {
				continue
			}
		}
		return
	}
}

func (p *parser) skipComment() bool {
	if p.r.PeekAt(1) == '/' {
		p.r.Consume()
		p.r.Consume()
		for p.r.Peek() != '\n' && p.r.Peek() != breader.EOF {
			p.r.Consume()
		}
		return true
	}
	if p.r.PeekAt(1) == '*' {
		p.r.Consume()
		p.r.Consume()
		for {
			if p.r.Peek() == breader.EOF {
				return true
			}
			if p.r.Peek() == '*' && p.r.PeekAt(1) == '/' {
				p.r.Consume()
				p.r.Consume()
				return true
			}
			p.r.Consume()
		}
	}
	return false
}

func (p *parser) parseValue(depth int) (*Value, error) {
	if depth >= p.opts.maxDepth() {
		return nil, p.errorf(EDepth, "maximum nesting depth exceeded")
	}
	p.skipSpace()
	switch b := p.r.Peek(); {
	case b == 'n':
		return p.parseLiteral("null", &Value{Type: NullValue})
	case b == 't':
		return p.parseLiteral("true", &Value{Type: BoolValue, Bool: true})
	case b == 'f':
		return p.parseLiteral("false", &Value{Type: BoolValue, Bool: false})
	case b == '"':
		s, err := p.parseString()
		if err != nil {
			return nil, err
		}
		return &Value{Type: StringValue, Str: s}, nil
	case b == '\'' && p.opts.AllowSingleQuotes:
		s, err := p.parseQuotedString('\'')
		if err != nil {
			return nil, err
		}
		return &Value{Type: StringValue, Str: s}, nil
	case b == '[':
		return p.parseArray(depth)
	case b == '{':
		return p.parseObject(depth)
	case b == '-' || (b >= '0' && b <= '9'):
		return p.parseNumber()
	case b == 'N' && p.opts.AllowNonfiniteNumbers:
		return p.parseLiteral("NaN", &Value{Type: NumberValue, Num: Number{Lexeme: "NaN", HasDouble: true, Double: math.NaN()}})
	case b == 'I' && p.opts.AllowNonfiniteNumbers:
		return p.parseLiteral("Infinity", &Value{Type: NumberValue, Num: Number{Lexeme: "Infinity", HasDouble: true, Double: math.Inf(1)}})
	case b == '-' && p.opts.AllowNonfiniteNumbers && p.r.PeekAt(1) == 'I':
		p.r.Consume()
		return p.parseLiteral("Infinity", &Value{Type: NumberValue, Num: Number{Lexeme: "-Infinity", HasDouble: true, Double: math.Inf(-1)}})
	default:
		if b == breader.EOF && !p.final {
			return nil, p.errorf(EIncomplete, "more input needed: value")
		}
		return nil, p.errorf(EBadToken, "unexpected character")
	}
}

func (p *parser) parseLiteral(lit string, v *Value) (*Value, error) {
	for i := 0; i < len(lit); i++ {
		if p.r.Peek() != int(lit[i]) {
			return nil, p.tokErr("invalid literal")
		}
		p.r.Consume()
	}
	return v, nil
}

func (p *parser) parseString() (string, error) {
	return p.parseQuotedString('"')
}

func (p *parser) parseQuotedString(quote byte) (string, error) {
	if p.r.Peek() != int(quote) {
		return "", p.tokErr("expected string")
	}
	p.r.Consume()
	var out []byte
	for {
		b := p.r.Peek()
		switch {
		case b == breader.EOF:
			return "", p.errorf(EIncomplete, "unterminated string")
		case b == int(quote):
			p.r.Consume()
			if p.opts.maxStringBytes() > 0 && len(out) > p.opts.maxStringBytes() {
				return "", p.errorf(ELimit, "string exceeds max_string_bytes")
			}
			return string(out), nil
		case b == '\\':
			p.r.Consume()
			esc := p.r.Peek()
			switch esc {
			case '"', '\\', '/':
				out = append(out, byte(esc))
				p.r.Consume()
			case '\'':
				out = append(out, '\'')
				p.r.Consume()
			case 'b':
				out = append(out, '\b')
				p.r.Consume()
			case 'f':
				out = append(out, '\f')
				p.r.Consume()
			case 'n':
				out = append(out, '\n')
				p.r.Consume()
			case 'r':
				out = append(out, '\r')
				p.r.Consume()
			case 't':
				out = append(out, '\t')
				p.r.Consume()
			case 'u':
				p.r.Consume()
				r, err := p.parseUnicodeEscape()
				if err != nil {
					return "", err
				}
				out = appendRune(out, r)
			default:
				return "", p.errorf(EBadEscape, "invalid escape sequence")
			}
		case b < 0x20 && !p.opts.AllowUnescapedControls:
			return "", p.errorf(EBadToken, "unescaped control character in string")
		default:
			out = append(out, byte(p.r.Consume()))
		}
	}
}

func (p *parser) parseUnicodeEscape() (rune, error) {
	hi, err := p.hex4()
	if err != nil {
		return 0, err
	}
	if hi >= 0xD800 && hi <= 0xDBFF {
		if p.r.Peek() == '\\' && p.r.PeekAt(1) == 'u' {
			p.r.Consume()
			p.r.Consume()
			lo, err := p.hex4()
			if err != nil {
				return 0, err
			}
			if lo >= 0xDC00 && lo <= 0xDFFF {
				return ((rune(hi)-0xD800)<<10 | (rune(lo) - 0xDC00)) + 0x10000, nil
			}
			return 0, p.errorf(EBadUnicode, "invalid low surrogate")
		}
		return 0, p.errorf(EBadUnicode, "unpaired high surrogate")
	}
	if hi >= 0xDC00 && hi <= 0xDFFF {
		return 0, p.errorf(EBadUnicode, "unpaired low surrogate")
	}
	return rune(hi), nil
}

func (p *parser) hex4() (int, error) {
	n := 0
	for i := 0; i < 4; i++ {
		b := p.r.Peek()
		var d int
		switch {
		case b >= '0' && b <= '9':
			d = b - '0'
		case b >= 'a' && b <= 'f':
			d = b - 'a' + 10
		case b >= 'A' && b <= 'F':
			d = b - 'A' + 10
		default:
			return 0, p.errorf(EBadUnicode, "invalid \\u escape")
		}
		n = n*16 + d
		p.r.Consume()
	}
	return n, nil
}

func appendRune(buf []byte, r rune) []byte {
	var tmp [4]byte
	n := utf8.EncodeRune(tmp[:], r)
	return append(buf, tmp[:n]...)
}

func (p *parser) parseNumber() (*Value, error) {
	var lex []byte
	if p.r.Peek() == '-' {
		lex = append(lex, byte(p.r.Consume()))
	}
	if p.r.Peek() == '0' {
		lex = append(lex, byte(p.r.Consume()))
	} else if p.r.Peek() >= '1' && p.r.Peek() <= '9' {
		for p.r.Peek() >= '0' && p.r.Peek() <= '9' {
			lex = append(lex, byte(p.r.Consume()))
		}
	} else {
		return nil, p.tokErr("invalid number")
	}
	isFloat := false
	if p.r.Peek() == '.' {
		isFloat = true
		lex = append(lex, byte(p.r.Consume()))
		if !(p.r.Peek() >= '0' && p.r.Peek() <= '9') {
			return nil, p.tokErr("invalid number: missing fraction digits")
		}
		for p.r.Peek() >= '0' && p.r.Peek() <= '9' {
			lex = append(lex, byte(p.r.Consume()))
		}
	}
	if p.r.Peek() == 'e' || p.r.Peek() == 'E' {
		isFloat = true
		lex = append(lex, byte(p.r.Consume()))
		if p.r.Peek() == '+' || p.r.Peek() == '-' {
			lex = append(lex, byte(p.r.Consume()))
		}
		if !(p.r.Peek() >= '0' && p.r.Peek() <= '9') {
			return nil, p.tokErr("invalid number: missing exponent digits")
		}
		for p.r.Peek() >= '0' && p.r.Peek() <= '9' {
			lex = append(lex, byte(p.r.Consume()))
		}
	}
	lexeme := string(lex)
	num := Number{Lexeme: lexeme}
	if !isFloat {
		if p.opts.ComputeInt {
			if n, err := strconv.ParseInt(lexeme, 10, 64); err == nil {
				num.HasInt = true
				num.Int = n
			}
		}
		if p.opts.ComputeUint {
			if n, err := strconv.ParseUint(lexeme, 10, 64); err == nil {
				num.HasUint = true
				num.Uint = n
			}
		}
	}
	if (isFloat || !num.HasInt) && p.opts.ComputeDouble {
		if f, err := strconv.ParseFloat(lexeme, 64); err == nil {
			num.HasDouble = true
			num.Double = f
		}
	}
	computed := p.opts.ComputeInt || p.opts.ComputeUint || p.opts.ComputeDouble
	if computed && !num.HasInt && !num.HasUint && !num.HasDouble {
		return nil, p.errorf(EInvalid, "number has no derivable representation")
	}
	if p.r.Peek() == breader.EOF && !p.final {
		// More digits may follow in the next feed; don't commit yet.
		return nil, p.errorf(EIncomplete, "more input needed: number")
	}
	return &Value{Type: NumberValue, Num: num}, nil
}

func (p *parser) parseArray(depth int) (*Value, error) {
	p.r.Consume() // '['
	v := &Value{Type: ArrayValue}
	p.skipSpace()
	if p.r.Peek() == ']' {
		p.r.Consume()
		return v, nil
	}
	for {
		elem, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		v.Array = append(v.Array, elem)
		if p.opts.maxContainerElems() > 0 && len(v.Array) > p.opts.maxContainerElems() {
			return nil, p.errorf(ELimit, "array exceeds max_container_elems")
		}
		p.skipSpace()
		switch p.r.Peek() {
		case ',':
			p.r.Consume()
			p.skipSpace()
			if p.r.Peek() == ']' && p.opts.AllowTrailingCommas {
				p.r.Consume()
				return v, nil
			}
		case ']':
			p.r.Consume()
			return v, nil
		default:
			return nil, p.tokErr("expected ',' or ']' in array")
		}
	}
}

func (p *parser) parseObject(depth int) (*Value, error) {
	p.r.Consume() // '{'
	v := &Value{Type: ObjectValue}
	seen := map[string]int{}
	p.skipSpace()
	if p.r.Peek() == '}' {
		p.r.Consume()
		return v, nil
	}
	for {
		p.skipSpace()
		var key string
		var err error
		if p.r.Peek() == '\'' && p.opts.AllowSingleQuotes {
			key, err = p.parseQuotedString('\'')
		} else {
			key, err = p.parseString()
		}
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if p.r.Peek() != ':' {
			return nil, p.tokErr("expected ':' after object key")
		}
		p.r.Consume()
		val, err := p.parseValue(depth + 1)
		if err != nil {
			return nil, err
		}
		if err := p.putMember(v, seen, key, val); err != nil {
			return nil, err
		}
		if p.opts.maxContainerElems() > 0 && len(v.Object) > p.opts.maxContainerElems() {
			return nil, p.errorf(ELimit, "object exceeds max_container_elems")
		}
		p.skipSpace()
		switch p.r.Peek() {
		case ',':
			p.r.Consume()
			p.skipSpace()
			if p.r.Peek() == '}' && p.opts.AllowTrailingCommas {
				p.r.Consume()
				return v, nil
			}
		case '}':
			p.r.Consume()
			return v, nil
		default:
			return nil, p.tokErr("expected ',' or '}' in object")
		}
	}
}

func (p *parser) putMember(v *Value, seen map[string]int, key string, val *Value) error {
	idx, dup := seen[key]
	if !dup {
		seen[key] = len(v.Object)
		v.Object = append(v.Object, Member{Key: key, Value: val})
		return nil
	}
	switch p.opts.Dupkeys {
	case DupkeyError:
		return p.errorf(EDupKey, "duplicate object key: "+key)
	case DupkeyFirstWins:
		return nil
	case DupkeyLastWins:
		v.Object[idx].Value = val
		return nil
	case DupkeyCollect:
		if v.DupKeys == nil {
			v.DupKeys = map[string][]int{}
		}
		if len(v.DupKeys[key]) == 0 {
			v.DupKeys[key] = []int{idx}
		}
		v.DupKeys[key] = append(v.DupKeys[key], len(v.Object))
		v.Object = append(v.Object, Member{Key: key, Value: val})
	}
	return nil
}
