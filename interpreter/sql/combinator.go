package sql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/truora/minisql/types"
)

// parser is a grammar rule over raw text. On success it returns the value and
// leaves the cursor after the consumed text. On failure the cursor position is
// unspecified; choice, optional, repeated and the lookaheads restore it.
type parser[T any] func(c *cursor) (T, bool)

type pair[A, B any] struct {
	first  A
	second B
}

// cursor is the per call parsing state.
type cursor struct {
	input string
	pos   int

	depth    int
	maxDepth int

	// furthest failure seen so far and what was expected there
	furthest int
	expected []string

	// fatal aborts the whole parse, no alternative is tried after it is set
	fatal error
}

func newCursor(input string, maxDepth int) *cursor {
	return &cursor{input: input, maxDepth: maxDepth}
}

func (c *cursor) rest() string {
	return c.input[c.pos:]
}

func (c *cursor) atEnd() bool {
	return c.pos >= len(c.input)
}

func (c *cursor) skipWhitespace() {
	for !c.atEnd() && isWhitespace(c.input[c.pos]) {
		c.pos++
	}
}

func (c *cursor) fail(pos int, expected string) {
	switch {
	case pos > c.furthest:
		c.furthest = pos
		c.expected = []string{expected}
	case pos == c.furthest:
		for _, e := range c.expected {
			if e == expected {
				return
			}
		}

		c.expected = append(c.expected, expected)
	}
}

func (c *cursor) abort(err error) {
	if c.fatal == nil {
		c.fatal = err
	}
}

// enter reserves n nesting levels, aborting the parse past maxDepth.
func (c *cursor) enter(n int) bool {
	if c.maxDepth > 0 && c.depth+n > c.maxDepth {
		c.abort(types.NewParseError(c.pos,
			fmt.Sprintf("expression nesting exceeds maximum depth of %d", c.maxDepth), nil))

		return false
	}

	c.depth += n

	return true
}

func (c *cursor) leave(n int) {
	c.depth -= n
}

// err describes the furthest failure.
func (c *cursor) err() types.PositionError {
	if c.fatal != nil {
		if posErr, ok := c.fatal.(types.PositionError); ok {
			return posErr
		}

		return types.NewParseError(c.furthest, c.fatal.Error(), []error{c.fatal})
	}

	msg := "unexpected " + c.found(c.furthest)
	if len(c.expected) > 0 {
		msg += ", expected " + joinAlternatives(c.expected)
	}

	return types.NewParseError(c.furthest, msg, nil)
}

func (c *cursor) found(pos int) string {
	if pos >= len(c.input) {
		return "end of input"
	}

	end := pos
	for end < len(c.input) && isIdentifierLetter(c.input[end]) {
		end++
	}

	if end > pos {
		return strconv.Quote(c.input[pos:end])
	}

	return strconv.Quote(c.input[pos : pos+1])
}

func joinAlternatives(alternatives []string) string {
	if len(alternatives) == 1 {
		return alternatives[0]
	}

	return strings.Join(alternatives[:len(alternatives)-1], ", ") + " or " + alternatives[len(alternatives)-1]
}

// just matches the literal text s.
func just(s string) parser[string] {
	label := strconv.Quote(s)

	return func(c *cursor) (string, bool) {
		if strings.HasPrefix(c.rest(), s) {
			c.pos += len(s)

			return s, true
		}

		c.fail(c.pos, label)

		return "", false
	}
}

// padded skips whitespace around p.
func padded[T any](p parser[T]) parser[T] {
	return func(c *cursor) (T, bool) {
		c.skipWhitespace()

		v, ok := p(c)
		if ok {
			c.skipWhitespace()
		}

		return v, ok
	}
}

// symbol matches the punctuation s with surrounding whitespace.
func symbol(s string) parser[string] {
	return padded(just(s))
}

// choice returns the first alternative that matches.
func choice[T any](alternatives ...parser[T]) parser[T] {
	return func(c *cursor) (T, bool) {
		start := c.pos

		for _, p := range alternatives {
			v, ok := p(c)
			if ok {
				return v, true
			}

			if c.fatal != nil {
				break
			}

			c.pos = start
		}

		var zero T

		return zero, false
	}
}

// repeated matches p as many times as possible, and at least atLeast times.
func repeated[T any](p parser[T], atLeast int) parser[[]T] {
	return func(c *cursor) ([]T, bool) {
		start := c.pos
		values := []T{}

		for {
			before := c.pos

			v, ok := p(c)
			if c.fatal != nil {
				return nil, false
			}

			if !ok {
				c.pos = before

				break
			}

			values = append(values, v)

			// a match that consumed nothing would match forever
			if c.pos == before {
				break
			}
		}

		if len(values) < atLeast {
			c.pos = start

			return nil, false
		}

		return values, true
	}
}

// optional returns nil when p does not match.
func optional[T any](p parser[T]) parser[*T] {
	return func(c *cursor) (*T, bool) {
		start := c.pos

		v, ok := p(c)
		if c.fatal != nil {
			return nil, false
		}

		if !ok {
			c.pos = start

			return nil, true
		}

		return &v, true
	}
}

func then[A, B any](a parser[A], b parser[B]) parser[pair[A, B]] {
	return func(c *cursor) (pair[A, B], bool) {
		first, ok := a(c)
		if !ok {
			return pair[A, B]{}, false
		}

		second, ok := b(c)
		if !ok {
			return pair[A, B]{}, false
		}

		return pair[A, B]{first: first, second: second}, true
	}
}

// skipThen matches a then b, keeping b.
func skipThen[A, B any](a parser[A], b parser[B]) parser[B] {
	return mapValue(then(a, b), func(v pair[A, B]) B { return v.second })
}

// thenSkip matches a then b, keeping a.
func thenSkip[A, B any](a parser[A], b parser[B]) parser[A] {
	return mapValue(then(a, b), func(v pair[A, B]) A { return v.first })
}

func delimited[O, T, C any](open parser[O], p parser[T], closing parser[C]) parser[T] {
	return skipThen(open, thenSkip(p, closing))
}

func mapValue[A, B any](p parser[A], f func(A) B) parser[B] {
	return func(c *cursor) (B, bool) {
		v, ok := p(c)
		if !ok {
			var zero B

			return zero, false
		}

		return f(v), true
	}
}

// foldl folds the repeated tail into the head from the left.
func foldl[T, R any](head parser[T], tail parser[[]R], f func(T, R) T) parser[T] {
	return func(c *cursor) (T, bool) {
		acc, ok := head(c)
		if !ok {
			return acc, false
		}

		rest, ok := tail(c)
		if !ok {
			var zero T

			return zero, false
		}

		for _, r := range rest {
			acc = f(acc, r)
		}

		return acc, true
	}
}

// foldr folds the repeated prefixes into the body from the right. Every
// prefix nests the body one level deeper.
func foldr[P, T any](prefixes parser[[]P], body parser[T], f func(P, T) T) parser[T] {
	return func(c *cursor) (T, bool) {
		var zero T

		ps, ok := prefixes(c)
		if !ok {
			return zero, false
		}

		if !c.enter(len(ps)) {
			return zero, false
		}
		defer c.leave(len(ps))

		acc, ok := body(c)
		if !ok {
			return zero, false
		}

		for i := len(ps) - 1; i >= 0; i-- {
			acc = f(ps[i], acc)
		}

		return acc, true
	}
}

// recursive ties the knot for self referencing rules.
func recursive[T any](build func(self parser[T]) parser[T]) parser[T] {
	var p parser[T]

	self := func(c *cursor) (T, bool) {
		return p(c)
	}
	p = build(self)

	return p
}

// nested counts one nesting level against the depth budget while p runs.
func nested[T any](p parser[T]) parser[T] {
	return func(c *cursor) (T, bool) {
		if !c.enter(1) {
			var zero T

			return zero, false
		}
		defer c.leave(1)

		return p(c)
	}
}

// lookahead matches p without consuming input.
func lookahead[T any](p parser[T]) parser[T] {
	return func(c *cursor) (T, bool) {
		start := c.pos

		v, ok := p(c)
		c.pos = start

		return v, ok
	}
}

// notFollowedBy succeeds without consuming input when p does not match here.
func notFollowedBy[T any](p parser[T], label string) parser[struct{}] {
	return func(c *cursor) (struct{}, bool) {
		start, furthest, expected := c.pos, c.furthest, c.expected

		_, ok := p(c)
		c.pos, c.furthest, c.expected = start, furthest, expected

		if c.fatal != nil {
			return struct{}{}, false
		}

		if ok {
			c.fail(start, label)

			return struct{}{}, false
		}

		return struct{}{}, true
	}
}

func end() parser[struct{}] {
	return func(c *cursor) (struct{}, bool) {
		if c.atEnd() {
			return struct{}{}, true
		}

		c.fail(c.pos, "end of input")

		return struct{}{}, false
	}
}

// ident matches [a-zA-Z_][a-zA-Z0-9_]*.
func ident() parser[string] {
	return func(c *cursor) (string, bool) {
		start := c.pos
		if c.atEnd() || !(isLetter(c.input[c.pos]) || c.input[c.pos] == '_') {
			c.fail(start, "identifier")

			return "", false
		}

		for !c.atEnd() && isIdentifierLetter(c.input[c.pos]) {
			c.pos++
		}

		return c.input[start:c.pos], true
	}
}

// integer matches 0 or [1-9][0-9]* and requires it to fit an int64.
func integer() parser[int64] {
	return func(c *cursor) (int64, bool) {
		start := c.pos
		if c.atEnd() || !isDigit(c.input[c.pos]) {
			c.fail(start, "integer")

			return 0, false
		}

		if c.input[c.pos] == '0' {
			c.pos++

			return 0, true
		}

		for !c.atEnd() && isDigit(c.input[c.pos]) {
			c.pos++
		}

		literal := c.input[start:c.pos]

		n, err := strconv.ParseInt(literal, 10, 64)
		if err != nil {
			c.abort(types.NewParseError(start, fmt.Sprintf("integer literal %s is out of range", literal), nil))

			return 0, false
		}

		return n, true
	}
}

// quoted matches a string between matching single or double quotes.
func quoted() parser[string] {
	return func(c *cursor) (string, bool) {
		start := c.pos
		if c.atEnd() || (c.input[c.pos] != '\'' && c.input[c.pos] != '"') {
			c.fail(start, "string literal")

			return "", false
		}

		quote := c.input[c.pos]

		closing := strings.IndexByte(c.input[start+1:], quote)
		if closing < 0 {
			c.fail(len(c.input), "closing "+strconv.Quote(string(quote)))

			return "", false
		}

		c.pos = start + 1 + closing + 1

		return c.input[start+1 : start+1+closing], true
	}
}

// keyword matches the whole word kw in upper or lower case, padded.
func keyword(kw string) parser[string] {
	lower := strings.ToLower(kw)
	word := ident()

	return padded(func(c *cursor) (string, bool) {
		start, furthest, expected := c.pos, c.furthest, c.expected

		// a missing word is reported as the keyword, not as an identifier
		w, ok := word(c)
		c.furthest, c.expected = furthest, expected

		if ok && (w == kw || w == lower) {
			return w, true
		}

		c.pos = start
		c.fail(start, kw)

		return "", false
	})
}

// phrase matches a multi word keyword in a single case. Any whitespace run
// separates the words.
func phrase(words string) parser[string] {
	variants := [][]string{
		strings.Fields(strings.ToUpper(words)),
		strings.Fields(strings.ToLower(words)),
	}

	return padded(func(c *cursor) (string, bool) {
		start := c.pos

		for _, variant := range variants {
			if matchWords(c, variant) {
				return words, true
			}

			c.pos = start
		}

		c.fail(start, words)

		return "", false
	})
}

func matchWords(c *cursor, words []string) bool {
	for i, w := range words {
		if i > 0 {
			before := c.pos

			c.skipWhitespace()

			if c.pos == before {
				return false
			}
		}

		if !strings.HasPrefix(c.rest(), w) {
			return false
		}

		c.pos += len(w)
	}

	return c.atEnd() || !isIdentifierLetter(c.input[c.pos])
}
