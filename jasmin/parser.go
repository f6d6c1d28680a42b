// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package jasmin

import "fmt"

// ParseError is a syntax failure citing the offending lexeme's position.
type ParseError struct {
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s on line %d col %d", e.Message, e.Line, e.Column)
}

// Parser turns a lexeme sequence into a syntax tree.
type Parser struct {
	lexemes []Lexeme
	pos     int
}

func NewParser(lexemes []Lexeme) *Parser {
	return &Parser{lexemes: lexemes}
}

// Parse tokenizes and parses a whole Jasmin source.
func Parse(src []byte) ([]Node, error) {
	lexemes, err := LexAll(src)
	if err != nil {
		return nil, err
	}
	return NewParser(lexemes).ParseAll()
}

func (p *Parser) ParseAll() ([]Node, error) {
	var nodes []Node
	for p.hasMoreAfterSkip() {
		node, err := p.parseNext()
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

// hasMoreAfterSkip discards newline separators, which carry meaning only
// inside statements, and reports whether a statement remains.
func (p *Parser) hasMoreAfterSkip() bool {
	for p.pos < len(p.lexemes) && p.lexemes[p.pos].Type == TokenNewline {
		p.pos++
	}
	return p.pos < len(p.lexemes)
}

func (p *Parser) parseNext() (Node, error) {
	if !p.hasMoreAfterSkip() {
		return nil, &ParseError{Message: "unexpected end of input"}
	}

	if p.peek().Type == TokenDirective {
		return p.parseDirective()
	}

	first := p.pop()
	if p.pos < len(p.lexemes) && p.peek().Type == TokenColon {
		return p.parseLabel(first)
	}
	return p.parseInstruction(first)
}

func (p *Parser) parseDirective() (Node, error) {
	name := p.pop()
	directive := &Directive{Name: name.Value, Line: name.Line, Column: name.Column}

	for p.pos < len(p.lexemes) && p.peek().Type != TokenNewline {
		directive.Params = append(directive.Params, p.pop().Value)
	}
	p.popNewline()
	return directive, nil
}

func (p *Parser) parseLabel(name Lexeme) (Node, error) {
	p.pop() // colon

	if p.pos < len(p.lexemes) && p.peek().Type != TokenNewline {
		lexeme := p.peek()
		return nil, &ParseError{
			Line:    lexeme.Line,
			Column:  lexeme.Column,
			Message: fmt.Sprintf("expected newline after label %q, got %s", name.Value, lexeme.Type),
		}
	}
	p.popNewline()

	label := &Label{Name: name.Value, Line: name.Line, Column: name.Column}

	// The body runs until a blank separator line or end of input.
	for p.pos < len(p.lexemes) && p.peek().Type != TokenNewline {
		node, err := p.parseNext()
		if err != nil {
			return nil, err
		}
		label.Body = append(label.Body, node)
	}
	p.popNewline()
	return label, nil
}

func (p *Parser) parseInstruction(name Lexeme) (Node, error) {
	instruction := &Instruction{Name: name.Value, Line: name.Line, Column: name.Column}

	for p.pos < len(p.lexemes) && p.peek().Type != TokenNewline {
		arg, err := p.parseInstructionArg()
		if err != nil {
			return nil, err
		}
		instruction.Args = append(instruction.Args, arg)
	}
	p.popNewline()
	return instruction, nil
}

func (p *Parser) parseInstructionArg() (Arg, error) {
	lexeme := p.peek()

	switch lexeme.Type {
	case TokenIdentifier, TokenStringLiteral, TokenKeyword:
		return StringArg(p.pop().Value), nil

	case TokenNumericLiteral:
		value, err := p.pop().NumericValue()
		if err != nil {
			return nil, &ParseError{
				Line:    lexeme.Line,
				Column:  lexeme.Column,
				Message: fmt.Sprintf("bad numeric literal %q: %v", lexeme.Value, err),
			}
		}
		return NumberArg(value), nil

	case TokenArithmeticOperator:
		if lexeme.Value == "-" {
			p.pop()
			if p.pos >= len(p.lexemes) || p.peek().Type != TokenNumericLiteral {
				return nil, &ParseError{
					Line:    lexeme.Line,
					Column:  lexeme.Column,
					Message: "expected numeric literal after '-'",
				}
			}
			value, err := p.pop().NumericValue()
			if err != nil {
				return nil, &ParseError{
					Line:    lexeme.Line,
					Column:  lexeme.Column,
					Message: fmt.Sprintf("bad numeric literal: %v", err),
				}
			}
			return NumberArg(-value), nil
		}
	}

	return nil, &ParseError{
		Line:    lexeme.Line,
		Column:  lexeme.Column,
		Message: fmt.Sprintf("cannot parse instruction argument starting with %s", lexeme.Type),
	}
}

func (p *Parser) peek() Lexeme {
	return p.lexemes[p.pos]
}

func (p *Parser) pop() Lexeme {
	lexeme := p.lexemes[p.pos]
	p.pos++
	return lexeme
}

// popNewline consumes the statement terminator; end of input counts as one.
func (p *Parser) popNewline() {
	if p.pos < len(p.lexemes) && p.lexemes[p.pos].Type == TokenNewline {
		p.pos++
	}
}
