package sql

// skip runs every parser in order, discarding the values.
func skip(c *cursor, ps ...parser[string]) bool {
	for _, p := range ps {
		if _, ok := p(c); !ok {
			return false
		}
	}

	return true
}

// separatedList matches elements each followed by a comma or, without
// consuming it, by the terminator. A comma before the terminator is allowed.
func separatedList[T any](elem parser[T], terminator parser[string]) parser[[]T] {
	return repeated(thenSkip(elem, choice(symbol(","), lookahead(terminator))), 0)
}

// createTableRule matches
//
//	CREATE TABLE name ( column, ... ) ;
func createTableRule() parser[Statement] {
	create, table := keyword("CREATE"), keyword("TABLE")
	name := padded(ident())
	lparen, rparen, semicolon := symbol("("), symbol(")"), symbol(";")
	columns := separatedList(columnRule(), rparen)

	return func(c *cursor) (Statement, bool) {
		if !skip(c, create, table) {
			return nil, false
		}

		tableName, ok := name(c)
		if !ok || !skip(c, lparen) {
			return nil, false
		}

		cols, ok := columns(c)
		if !ok || !skip(c, rparen, semicolon) {
			return nil, false
		}

		return &CreateTableStatement{TableName: tableName, Columns: cols}, true
	}
}

// columnRule matches a column definition, the modifiers must keep this order
//
//	name type [NOT NULL] [AUTO_INCREMENT] [PRIMARY KEY]
func columnRule() parser[Column] {
	word := padded(ident())
	notNull := optional(phrase("NOT NULL"))
	autoIncrement := optional(keyword("AUTO_INCREMENT"))
	primaryKey := optional(phrase("PRIMARY KEY"))

	return func(c *cursor) (Column, bool) {
		var col Column

		name, ok := word(c)
		if !ok {
			return col, false
		}

		typ, ok := word(c)
		if !ok {
			return col, false
		}

		col.Name, col.Type = name, typ

		for _, modifier := range []struct {
			p   parser[*string]
			set *bool
		}{
			{notNull, &col.NotNull},
			{autoIncrement, &col.AutoIncrement},
			{primaryKey, &col.PrimaryKey},
		} {
			v, ok := modifier.p(c)
			if !ok {
				return Column{}, false
			}

			*modifier.set = v != nil
		}

		return col, true
	}
}

// insertRule matches
//
//	INSERT INTO name ( field, ... ) VALUES ( expression, ... ) ;
func insertRule(expr parser[Expression]) parser[Statement] {
	insertInto, valuesKeyword := phrase("INSERT INTO"), keyword("VALUES")
	name := padded(ident())
	lparen, rparen, semicolon := symbol("("), symbol(")"), symbol(";")
	fields := separatedList(padded(ident()), rparen)
	values := separatedList(expr, rparen)

	return func(c *cursor) (Statement, bool) {
		if !skip(c, insertInto) {
			return nil, false
		}

		tableName, ok := name(c)
		if !ok || !skip(c, lparen) {
			return nil, false
		}

		fieldNames, ok := fields(c)
		if !ok || !skip(c, rparen, valuesKeyword, lparen) {
			return nil, false
		}

		vals, ok := values(c)
		if !ok || !skip(c, rparen, semicolon) {
			return nil, false
		}

		return &InsertStatement{TableName: tableName, FieldNames: fieldNames, Values: vals}, true
	}
}

// selectRule matches
//
//	SELECT selector, ... FROM name [WHERE expression ...] ;
//
// WHERE takes expressions without connectors, so AND and OR written between
// conditions are kept as identifiers.
func selectRule(expr parser[Expression]) parser[Statement] {
	selectKeyword, from := keyword("SELECT"), keyword("FROM")
	selectors := separatedList(selectorRule(), from)
	name := padded(ident())
	where := optional(skipThen(keyword("WHERE"), repeated(expr, 1)))
	semicolon := symbol(";")

	return func(c *cursor) (Statement, bool) {
		if !skip(c, selectKeyword) {
			return nil, false
		}

		sels, ok := selectors(c)
		if !ok || !skip(c, from) {
			return nil, false
		}

		tableName, ok := name(c)
		if !ok {
			return nil, false
		}

		conditions, ok := where(c)
		if !ok || !skip(c, semicolon) {
			return nil, false
		}

		stmt := &SelectStatement{TableName: tableName, Selectors: sels}
		if conditions != nil {
			stmt.Where = *conditions
		}

		return stmt, true
	}
}

// selectorRule matches a column, or *, that is not the FROM keyword with an
// optional alias.
func selectorRule() parser[Selector] {
	column := skipThen(
		notFollowedBy(keyword("FROM"), "column"),
		padded(choice(just("*"), ident())),
	)
	alias := optional(skipThen(keyword("AS"), padded(ident())))

	return mapValue(then(column, alias), func(v pair[string, *string]) Selector {
		s := Selector{Column: v.first}
		if v.second != nil {
			s.Alias = *v.second
		}

		return s
	})
}
