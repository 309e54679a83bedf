package extract

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

// ErrMalformedRecord is reported for a line that is not a well-formed JSON
// object or array.
var ErrMalformedRecord = errors.New("extract: malformed record")

// MalformedError locates the first syntax error in a line.
type MalformedError struct {
	Offset int
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("extract: malformed record at byte %d: %s", e.Offset, e.Reason)
}

// Unwrap returns ErrMalformedRecord.
func (e *MalformedError) Unwrap() error { return ErrMalformedRecord }

// Kind tells how the content of an Outcome was obtained.
type Kind uint8

const (
	// Parsed means Content holds the record's string values.
	Parsed Kind = iota
	// Raw means Content is the whole line.
	Raw
)

func (k Kind) String() string {
	if k == Parsed {
		return "parsed"
	}
	return "raw"
}

// Outcome is the result of extracting one line.
type Outcome struct {
	Content []byte
	Kind    Kind
	// Err is non-nil (matching ErrMalformedRecord) when the line fell back to
	// Raw because it is malformed. A well-formed record without any non-empty
	// string value is also Raw, with a nil Err.
	Err error
}

// Extract scans line once and appends every non-empty string value (object
// values and array elements at any depth, never keys) to dst[:0], separated
// by single spaces, with escapes decoded. On any syntax error, or when there
// is nothing to extract, the whole line is returned as Raw content.
//
// Parsed content aliases dst's backing array; Raw content aliases line.
func Extract(line, dst []byte) Outcome {
	s := scanner{data: line, out: dst[:0]}
	if err := s.record(); err != nil {
		return Outcome{Content: line, Kind: Raw, Err: err}
	}
	if s.values == 0 {
		return Outcome{Content: line, Kind: Raw}
	}
	return Outcome{Content: s.out, Kind: Parsed}
}

type scanner struct {
	data   []byte
	pos    int
	out    []byte
	values int
	stack  []byte
	buf    [32]byte
}

func (s *scanner) fail(reason string) error {
	return &MalformedError{Offset: s.pos, Reason: reason}
}

func (s *scanner) skipWS() {
	for s.pos < len(s.data) {
		switch s.data[s.pos] {
		case ' ', '\t', '\n', '\r':
			s.pos++
		default:
			return
		}
	}
}

func (s *scanner) peek() byte {
	if s.pos < len(s.data) {
		return s.data[s.pos]
	}
	return 0
}

func (s *scanner) record() error {
	s.skipWS()
	if c := s.peek(); c != '{' && c != '[' {
		return s.fail("expected object or array")
	}
	s.stack = s.buf[:0]
	for {
		opened, err := s.value()
		if err != nil {
			return err
		}
		if opened {
			continue
		}
		more, err := s.next()
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}
	s.skipWS()
	if s.pos != len(s.data) {
		return s.fail("trailing data after record")
	}
	return nil
}

// value consumes one value. opened reports that a non-empty container was
// entered and its first element (after the key, for objects) comes next.
func (s *scanner) value() (opened bool, err error) {
	s.skipWS()
	if s.pos >= len(s.data) {
		return false, s.fail("unexpected end of record")
	}
	switch c := s.data[s.pos]; {
	case c == '{':
		s.pos++
		s.skipWS()
		if s.peek() == '}' {
			s.pos++
			return false, nil
		}
		s.stack = append(s.stack, '{')
		return true, s.key()
	case c == '[':
		s.pos++
		s.skipWS()
		if s.peek() == ']' {
			s.pos++
			return false, nil
		}
		s.stack = append(s.stack, '[')
		return true, nil
	case c == '"':
		return false, s.str(true)
	case c == 't':
		return false, s.literal("true")
	case c == 'f':
		return false, s.literal("false")
	case c == 'n':
		return false, s.literal("null")
	case c == '-' || (c >= '0' && c <= '9'):
		return false, s.number()
	default:
		return false, s.fail("unexpected character")
	}
}

// next closes finished containers and positions on the next element.
// It returns false once the outermost container is closed.
func (s *scanner) next() (bool, error) {
	for len(s.stack) > 0 {
		s.skipWS()
		if s.pos >= len(s.data) {
			return false, s.fail("unexpected end of record")
		}
		top := s.stack[len(s.stack)-1]
		switch c := s.data[s.pos]; {
		case c == ',':
			s.pos++
			if top == '{' {
				return true, s.key()
			}
			return true, nil
		case top == '{' && c == '}', top == '[' && c == ']':
			s.pos++
			s.stack = s.stack[:len(s.stack)-1]
		default:
			return false, s.fail("expected ',' or closing bracket")
		}
	}
	return false, nil
}

func (s *scanner) key() error {
	s.skipWS()
	if s.peek() != '"' {
		return s.fail("expected object key")
	}
	if err := s.str(false); err != nil {
		return err
	}
	s.skipWS()
	if s.peek() != ':' {
		return s.fail("expected ':' after key")
	}
	s.pos++
	return nil
}

func (s *scanner) literal(word string) error {
	if !bytes.HasPrefix(s.data[s.pos:], []byte(word)) {
		return s.fail("invalid literal")
	}
	s.pos += len(word)
	return nil
}

func (s *scanner) digits() int {
	start := s.pos
	for s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '9' {
		s.pos++
	}
	return s.pos - start
}

func (s *scanner) number() error {
	if s.peek() == '-' {
		s.pos++
	}
	switch c := s.peek(); {
	case c == '0':
		s.pos++
	case c >= '1' && c <= '9':
		s.digits()
	default:
		return s.fail("invalid number")
	}
	if s.peek() == '.' {
		s.pos++
		if s.digits() == 0 {
			return s.fail("invalid number fraction")
		}
	}
	if c := s.peek(); c == 'e' || c == 'E' {
		s.pos++
		if c := s.peek(); c == '+' || c == '-' {
			s.pos++
		}
		if s.digits() == 0 {
			return s.fail("invalid number exponent")
		}
	}
	return nil
}

// str consumes a string starting at the opening quote. When emit is set the
// decoded text is appended to out; empty strings leave out untouched.
func (s *scanner) str(emit bool) error {
	s.pos++
	mark := len(s.out)
	if emit && s.values > 0 {
		s.out = append(s.out, ' ')
	}
	body := len(s.out)

	for {
		start := s.pos
		for s.pos < len(s.data) {
			c := s.data[s.pos]
			if c == '"' || c == '\\' || c < 0x20 {
				break
			}
			s.pos++
		}
		if emit {
			s.out = append(s.out, s.data[start:s.pos]...)
		}
		if s.pos >= len(s.data) {
			return s.fail("unterminated string")
		}

		switch c := s.data[s.pos]; {
		case c == '"':
			s.pos++
			if emit {
				if len(s.out) == body {
					s.out = s.out[:mark]
				} else {
					s.values++
				}
			}
			return nil
		case c == '\\':
			if err := s.escape(emit); err != nil {
				return err
			}
		default:
			return s.fail("control character in string")
		}
	}
}

func (s *scanner) escape(emit bool) error {
	s.pos++
	if s.pos >= len(s.data) {
		return s.fail("unterminated escape")
	}
	var b byte
	switch c := s.data[s.pos]; c {
	case '"', '\\', '/':
		b = c
	case 'b':
		b = '\b'
	case 'f':
		b = '\f'
	case 'n':
		b = '\n'
	case 'r':
		b = '\r'
	case 't':
		b = '\t'
	case 'u':
		r, err := s.unicode()
		if err != nil {
			return err
		}
		if emit {
			s.out = utf8.AppendRune(s.out, r)
		}
		return nil
	default:
		return s.fail("invalid escape")
	}
	s.pos++
	if emit {
		s.out = append(s.out, b)
	}
	return nil
}

// unicode decodes \uXXXX (s.pos at 'u'), joining surrogate pairs.
// Lone surrogates decode to U+FFFD.
func (s *scanner) unicode() (rune, error) {
	r, ok := hex4(s.data, s.pos+1)
	if !ok {
		return 0, s.fail("invalid unicode escape")
	}
	s.pos += 5
	if !utf16.IsSurrogate(r) {
		return r, nil
	}
	if s.pos+1 < len(s.data) && s.data[s.pos] == '\\' && s.data[s.pos+1] == 'u' {
		if r2, ok := hex4(s.data, s.pos+2); ok {
			if dec := utf16.DecodeRune(r, r2); dec != utf8.RuneError {
				s.pos += 6
				return dec, nil
			}
		}
	}
	return utf8.RuneError, nil
}

func hex4(data []byte, at int) (rune, bool) {
	if at+4 > len(data) {
		return 0, false
	}
	var r rune
	for _, c := range data[at : at+4] {
		r <<= 4
		switch {
		case c >= '0' && c <= '9':
			r |= rune(c - '0')
		case c >= 'a' && c <= 'f':
			r |= rune(c-'a') + 10
		case c >= 'A' && c <= 'F':
			r |= rune(c-'A') + 10
		default:
			return 0, false
		}
	}
	return r, true
}
