// Copyright 2026 The rql Authors.
// Licensed under Apache 2.0, see LICENCE file for details.

// Package parse turns RQL text into a syntax tree of calls, lists and
// scalars.
package parse

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

func NewParser() *Parser {
	return &Parser{}
}

type Parser struct {
	input string
	pos   int
	// nextPos is start of the next char.
	nextPos int
	// char is the rune starting at pos. char is set to 0 when pos reaches the
	// end of input.
	char rune
}

// Parse parses a single top level call. The whole input must be consumed.
func (p *Parser) Parse(input string) (*Call, error) {
	p.init(input)

	call, ok, err := p.parseCall()
	if err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrorAt(p.pos, "expected function call")
	}
	if p.pos < len(p.input) {
		return nil, ErrorAt(p.pos, "unexpected %q after expression", p.char)
	}
	return call, nil
}

// ErrorAt returns an error located at the byte offset pos of the input.
func ErrorAt(pos int, format string, args ...any) error {
	return fmt.Errorf("column %d: %s", pos+1, fmt.Sprintf(format, args...))
}

// init resets the state of the parser and sets the input string.
func (p *Parser) init(input string) {
	p.input = input
	p.pos = 0
	p.nextPos = 0
	p.char = 0
	p.advanceChar()
}

// advanceChar moves the parser to the next character in the input.
func (p *Parser) advanceChar() bool {
	if p.nextPos >= len(p.input) {
		p.char = 0
		p.pos = p.nextPos
		return false
	}
	var size int
	p.char, size = utf8.DecodeRuneInString(p.input[p.nextPos:])
	p.pos = p.nextPos
	p.nextPos += size
	return true
}

// A checkpoint struct for saving parser state to restore later.
type checkpoint struct {
	parser  *Parser
	pos     int
	nextPos int
	char    rune
}

// save takes a snapshot of the state of the parser and returns a pointer to a
// checkpoint that represents it.
func (p *Parser) save() *checkpoint {
	return &checkpoint{
		parser:  p,
		pos:     p.pos,
		nextPos: p.nextPos,
		char:    p.char,
	}
}

// restore sets the internal state of the parser to the values stored in the
// checkpoint.
func (cp *checkpoint) restore() {
	cp.parser.pos = cp.pos
	cp.parser.nextPos = cp.nextPos
	cp.parser.char = cp.char
}

// peekChar returns true if the current char equals the one passed as parameter.
func (p *Parser) peekChar(c rune) bool {
	return p.pos < len(p.input) && p.char == c
}

// skipChar jumps over the current char if it matches the char passed as a
// parameter. Returns true in that case, false otherwise.
func (p *Parser) skipChar(c rune) bool {
	if p.pos < len(p.input) && p.char == c {
		p.advanceChar()
		return true
	}
	return false
}

// atEnd reports whether the whole input has been consumed.
func (p *Parser) atEnd() bool {
	return p.pos >= len(p.input)
}

// isIdentChar returns true if the given char can be part of a function name.
func isIdentChar(c rune) bool {
	return unicode.IsLetter(c) || unicode.IsDigit(c) || c == '_' || c == '.'
}

// isDelimiter returns true for the chars that end a bare token.
func isDelimiter(c rune) bool {
	return c == ',' || c == '(' || c == ')'
}

// Functions with the prefix parse attempt to parse some construct. They return
// the construct, and an error and/or a bool that indicates if the construct
// was successfully parsed.
//
// Return cases:
//  - bool == true, err == nil
//		The construct was successfully parsed
//  - bool == false, err != nil
//		The construct was recognised but was not correctly formatted
//  - bool == false, err == nil
//		The construct was not the one we are looking for

// parseIdent parses a letter followed by letters, digits, underscores and
// dots.
func (p *Parser) parseIdent() (string, bool) {
	mark := p.pos
	if p.atEnd() || !unicode.IsLetter(p.char) {
		return "", false
	}
	p.advanceChar()
	for !p.atEnd() && isIdentChar(p.char) {
		p.advanceChar()
	}
	return p.input[mark:p.pos], true
}

// parseCall parses "ident(arg,...)" and "ident()".
func (p *Parser) parseCall() (*Call, bool, error) {
	cp := p.save()
	start := p.pos

	name, ok := p.parseIdent()
	if !ok {
		return nil, false, nil
	}
	if !p.skipChar('(') {
		cp.restore()
		return nil, false, nil
	}

	call := &Call{Name: name, pos: start}
	if p.skipChar(')') {
		return call, true, nil
	}
	for {
		arg, err := p.parseArg()
		if err != nil {
			return nil, false, err
		}
		call.Args = append(call.Args, arg)

		if p.skipChar(')') {
			return call, true, nil
		}
		if p.skipChar(',') {
			continue
		}
		if p.atEnd() {
			return nil, false, ErrorAt(start, "missing closing parenthesis in call to %q", name)
		}
		return nil, false, ErrorAt(p.pos, "unexpected %q in arguments of %q", p.char, name)
	}
}

// parseArg parses a call, a list or a scalar.
func (p *Parser) parseArg() (Node, error) {
	if call, ok, err := p.parseCall(); err != nil {
		return nil, err
	} else if ok {
		return call, nil
	}

	if list, ok, err := p.parseList(); err != nil {
		return nil, err
	} else if ok {
		return list, nil
	}

	if s, ok, err := p.parseScalar(); err != nil {
		return nil, err
	} else if ok {
		return s, nil
	}

	if p.atEnd() {
		return nil, ErrorAt(p.pos, "unexpected end of input")
	}
	return nil, ErrorAt(p.pos, "missing argument")
}

// parseList parses "(scalar,...)". The empty list "()" is accepted.
func (p *Parser) parseList() (*List, bool, error) {
	start := p.pos
	if !p.skipChar('(') {
		return nil, false, nil
	}

	list := &List{pos: start}
	if p.skipChar(')') {
		return list, true, nil
	}
	for {
		s, ok, err := p.parseScalar()
		if err != nil {
			return nil, false, err
		} else if !ok {
			if p.atEnd() {
				return nil, false, ErrorAt(start, "missing closing parenthesis in list")
			}
			return nil, false, ErrorAt(p.pos, "invalid item in list")
		}
		list.Items = append(list.Items, s)

		if p.skipChar(')') {
			return list, true, nil
		}
		if p.skipChar(',') {
			continue
		}
		if p.atEnd() {
			return nil, false, ErrorAt(start, "missing closing parenthesis in list")
		}
		return nil, false, ErrorAt(p.pos, "invalid item in list")
	}
}

// parseScalar parses a quoted or a bare token.
func (p *Parser) parseScalar() (*Scalar, bool, error) {
	if s, ok, err := p.parseQuoted(); err != nil {
		return nil, false, err
	} else if ok {
		return s, true, nil
	}

	start := p.pos
	for !p.atEnd() && !isDelimiter(p.char) {
		p.advanceChar()
	}
	if p.pos == start {
		return nil, false, nil
	}
	return &Scalar{Text: p.input[start:p.pos], pos: start}, true, nil
}

// parseQuoted parses a token between single quotes. Quotes are not escaped:
// a quote only closes the token when it is followed by ',', ')' or the end of
// the input.
func (p *Parser) parseQuoted() (*Scalar, bool, error) {
	cp := p.save()
	start := p.pos
	if !p.skipChar('\'') {
		return nil, false, nil
	}

	for !p.atEnd() {
		if p.char == '\'' {
			end := p.pos
			p.advanceChar()
			if p.atEnd() || p.peekChar(',') || p.peekChar(')') {
				return &Scalar{Text: p.input[start+1 : end], Quoted: true, pos: start}, true, nil
			}
			continue
		}
		p.advanceChar()
	}

	cp.restore()
	return nil, false, ErrorAt(start, "missing closing quote")
}
