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

import (
	"errors"
	"testing"
)

type tokenWant struct {
	t     TokenType
	value string
}

func checkTokens(t *testing.T, src string, want []tokenWant) []Lexeme {
	t.Helper()
	lexemes, err := LexAll([]byte(src))
	if err != nil {
		t.Fatalf("LexAll() error = %v", err)
	}
	if len(lexemes) != len(want) {
		t.Fatalf("LexAll() produced %d lexemes, want %d:\n%v", len(lexemes), len(want), lexemes)
	}
	for i, w := range want {
		if lexemes[i].Type != w.t || lexemes[i].Value != w.value {
			t.Errorf("lexeme %d = (%s, %q), want (%s, %q)",
				i, lexemes[i].Type, lexemes[i].Value, w.t, w.value)
		}
	}
	return lexemes
}

func TestLexDirectiveLine(t *testing.T) {
	checkTokens(t, ".class public HelloWorld\n", []tokenWant{
		{TokenDirective, "class"},
		{TokenKeyword, "public"},
		{TokenIdentifier, "HelloWorld"},
		{TokenNewline, "\n"},
	})
}

func TestLexMethodSpec(t *testing.T) {
	// Parens inside an identifier-led run belong to the identifier, so a
	// method spec with its descriptor is one token.
	checkTokens(t, ".method public static main([Ljava/lang/String;)V\n", []tokenWant{
		{TokenDirective, "method"},
		{TokenKeyword, "public"},
		{TokenKeyword, "static"},
		{TokenIdentifier, "main([Ljava/lang/String;)V"},
		{TokenNewline, "\n"},
	})
}

func TestLexInstructionWithNegativeNumber(t *testing.T) {
	checkTokens(t, "\tbipush -42\n", []tokenWant{
		{TokenIdentifier, "bipush"},
		{TokenArithmeticOperator, "-"},
		{TokenNumericLiteral, "42"},
		{TokenNewline, "\n"},
	})
}

func TestLexLabelAndBrackets(t *testing.T) {
	checkTokens(t, "loop:\n ( ) [ ] { }\n", []tokenWant{
		{TokenIdentifier, "loop"},
		{TokenColon, ":"},
		{TokenNewline, "\n"},
		{TokenParen, "("},
		{TokenParen, ")"},
		{TokenBracket, "["},
		{TokenBracket, "]"},
		{TokenBrace, "{"},
		{TokenBrace, "}"},
		{TokenNewline, "\n"},
	})
}

func TestLexStringLiteralAndComment(t *testing.T) {
	checkTokens(t, `.source "Hello.j" ; trailing comment`+"\n", []tokenWant{
		{TokenDirective, "source"},
		{TokenStringLiteral, "Hello.j"},
		{TokenNewline, "\n"},
	})
}

func TestLexPositions(t *testing.T) {
	lexemes, err := LexAll([]byte("nop\n  iadd\n"))
	if err != nil {
		t.Fatalf("LexAll() error = %v", err)
	}

	nop := lexemes[0]
	if nop.Line != 1 || nop.Column != 1 || nop.Offset != 0 {
		t.Errorf("nop position = %d:%d@%d, want 1:1@0", nop.Line, nop.Column, nop.Offset)
	}
	iadd := lexemes[2]
	if iadd.Line != 2 || iadd.Column != 3 || iadd.Offset != 6 {
		t.Errorf("iadd position = %d:%d@%d, want 2:3@6", iadd.Line, iadd.Column, iadd.Offset)
	}
}

func TestLexUnterminatedString(t *testing.T) {
	_, err := LexAll([]byte(".source \"Hello"))
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("LexAll() error = %v, want *LexError", err)
	}
	if lexErr.Line != 1 {
		t.Errorf("error line = %d, want 1", lexErr.Line)
	}
}

func TestLexBadDirective(t *testing.T) {
	_, err := LexAll([]byte(".bogus\n"))
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("LexAll() error = %v, want *LexError", err)
	}
}

func TestLexDotWithoutName(t *testing.T) {
	_, err := LexAll([]byte(". 5\n"))
	var lexErr *LexError
	if !errors.As(err, &lexErr) {
		t.Fatalf("LexAll() error = %v, want *LexError", err)
	}
}
