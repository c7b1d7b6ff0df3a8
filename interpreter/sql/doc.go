// Package sql implements the lexer and the grammar of the supported SQL
// statements: CREATE TABLE, INSERT INTO and SELECT.
//
// The Lexer classifies tokens one at a time with arbitrary lookahead. Its
// keywords are case sensitive and it commits to a keyword on its uppercase
// initial, so "Select" is a lexical error rather than an identifier.
//
// The Parser works on the raw text with a small combinator library. Keywords
// match all uppercase or all lowercase. Expressions follow the usual
// precedence, from lowest to highest: equality, sum, product, negation.
//
//	stmt, err := sql.Parse("SELECT name, hobby AS like FROM user WHERE age = 1;")
package sql
