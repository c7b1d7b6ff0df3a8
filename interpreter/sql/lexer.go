package sql

import (
	"fmt"

	"github.com/truora/minisql/types"
)

// Lexer SQL statement lexer. Tokens are produced on demand; a failed
// NextToken leaves the cursor on the offending token.
type Lexer struct {
	input    string
	position int
	// current position in input (points to current char)
	readPosition int
	// current reading position in input (after current char)
	ch byte // current char under examination
}

// NewLexer creates a new lexer
func NewLexer(input string) *Lexer {
	l := &Lexer{input: input}
	l.readChar()

	return l
}

// Tokenize returns every token of the input, the trailing EOF excluded
func Tokenize(input string) ([]Token, error) {
	l := NewLexer(input)
	tokens := []Token{}

	for {
		tok, err := l.NextToken()
		if err != nil {
			return nil, err
		}

		if tok.Type == EOF {
			return tokens, nil
		}

		tokens = append(tokens, tok)
	}
}

// Peek returns the k-th token ahead without moving the cursor. Peek(0) and
// any lookahead past the end of the input return EOF.
func (l *Lexer) Peek(k int) (Token, error) {
	position, readPosition, ch := l.position, l.readPosition, l.ch
	defer func() {
		l.position, l.readPosition, l.ch = position, readPosition, ch
	}()

	tok := Token{Type: EOF, Pos: l.position}

	for i := 0; i < k; i++ {
		var err error

		tok, err = l.NextToken()
		if err != nil {
			return Token{}, err
		}

		if tok.Type == EOF {
			break
		}
	}

	return tok, nil
}

// NextToken consumes and returns the next token
func (l *Lexer) NextToken() (Token, error) {
	l.skipWhitespace()

	start := l.position
	if l.atEnd() {
		return Token{Type: EOF, Pos: start}, nil
	}

	if single, ok := singleChar[l.ch]; ok {
		tok := Token{Type: single, Literal: string(l.ch), Pos: start}
		l.readChar()

		return tok, nil
	}

	if kw, ok := keywords[l.ch]; ok {
		return l.readKeyword(kw)
	}

	switch {
	case l.ch == '\'' || l.ch == '"':
		return l.readString()
	case isDigit(l.ch):
		return Token{Type: NUMBER, Literal: l.readNumber(), Pos: start}, nil
	case isLetter(l.ch) || l.ch == '_':
		return Token{Type: IDENT, Literal: l.readIdentifier(), Pos: start}, nil
	}

	return Token{}, types.NewLexError(start, fmt.Sprintf("unexpected character %q", l.ch))
}

func (l *Lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
	} else {
		l.ch = l.input[l.readPosition]
	}

	l.position = l.readPosition
	l.readPosition++
}

func (l *Lexer) reset(position int) {
	l.readPosition = position
	l.readChar()
}

func (l *Lexer) atEnd() bool {
	return l.position >= len(l.input)
}

func (l *Lexer) readKeyword(kw TokenType) (Token, error) {
	start := l.position
	word := string(kw)

	for i := 0; i < len(word); i++ {
		if l.atEnd() {
			pos := l.position
			l.reset(start)

			return Token{}, types.NewLexError(pos, fmt.Sprintf("unexpected end of input in keyword %s", word))
		}

		if l.ch != word[i] {
			pos, found := l.position, l.ch
			l.reset(start)

			return Token{}, types.NewLexError(pos, fmt.Sprintf("expected %q of keyword %s, found %q", word[i], word, found))
		}

		l.readChar()
	}

	return Token{Type: kw, Literal: word, Pos: start}, nil
}

func (l *Lexer) readString() (Token, error) {
	start := l.position
	quote := l.ch

	l.readChar()

	begin := l.position
	for !l.atEnd() && l.ch != quote {
		l.readChar()
	}

	if l.atEnd() {
		l.reset(start)

		return Token{}, types.NewLexError(start, "unterminated string literal")
	}

	literal := l.input[begin:l.position]
	l.readChar()

	return Token{Type: STRING, Literal: literal, Pos: start}, nil
}

func (l *Lexer) readNumber() string {
	position := l.position

	// a leading zero is a number on its own
	if l.ch == '0' {
		l.readChar()

		return l.input[position:l.position]
	}

	for !l.atEnd() && isDigit(l.ch) {
		l.readChar()
	}

	return l.input[position:l.position]
}

func (l *Lexer) readIdentifier() string {
	position := l.position

	for !l.atEnd() && isIdentifierLetter(l.ch) {
		l.readChar()
	}

	return l.input[position:l.position]
}

func (l *Lexer) skipWhitespace() {
	for !l.atEnd() && isWhitespace(l.ch) {
		l.readChar()
	}
}

func isIdentifierLetter(ch byte) bool {
	return isLetter(ch) || isDigit(ch) || ch == '_'
}

func isLetter(ch byte) bool {
	return 'a' <= ch && ch <= 'z' || 'A' <= ch && ch <= 'Z'
}

func isDigit(ch byte) bool {
	return '0' <= ch && ch <= '9'
}

func isWhitespace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\v' || ch == '\f'
}
