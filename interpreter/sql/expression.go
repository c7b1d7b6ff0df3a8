package sql

type binaryBuilder func(left, right Expression) Expression

type operand struct {
	build binaryBuilder
	right Expression
}

// expressionRule is the expression grammar, lowest precedence first:
//
//	equality = sum (("==" | "=") sum)*
//	sum      = product (("+" | "-") product)*
//	product  = unary (("*" | "/") unary)*
//	unary    = "-"* atom
//	atom     = integer | "(" equality ")" | identifier | string
func expressionRule() parser[Expression] {
	return recursive(func(expr parser[Expression]) parser[Expression] {
		atom := atomRule(expr)
		unary := unaryRule(atom)
		product := productRule(unary)
		sum := sumRule(product)

		return equalityRule(sum)
	})
}

func atomRule(expr parser[Expression]) parser[Expression] {
	return padded(choice(
		mapValue(integer(), Num),
		nested(delimited(just("("), expr, just(")"))),
		mapValue(ident(), Var),
		mapValue(quoted(), Str),
	))
}

func unaryRule(atom parser[Expression]) parser[Expression] {
	return foldr(repeated(symbol("-"), 0), atom, func(_ string, right Expression) Expression {
		return Neg(right)
	})
}

func productRule(unary parser[Expression]) parser[Expression] {
	return binaryRule(unary, map[string]binaryBuilder{"*": Mul, "/": Div}, "*", "/")
}

func sumRule(product parser[Expression]) parser[Expression] {
	return binaryRule(product, map[string]binaryBuilder{"+": Add, "-": Sub}, "+", "-")
}

// equalityRule tries "==" before "=" so the longer operator wins.
func equalityRule(sum parser[Expression]) parser[Expression] {
	return binaryRule(sum, map[string]binaryBuilder{"==": Equal, "=": Equal}, "==", "=")
}

// binaryRule folds left associative operators of one precedence level.
// ops lists the operator symbols in the order they are tried.
func binaryRule(next parser[Expression], builders map[string]binaryBuilder, ops ...string) parser[Expression] {
	symbols := make([]parser[string], 0, len(ops))
	for _, op := range ops {
		symbols = append(symbols, symbol(op))
	}

	tail := repeated(mapValue(then(choice(symbols...), next), func(v pair[string, Expression]) operand {
		return operand{build: builders[v.first], right: v.second}
	}), 0)

	return foldl(next, tail, func(left Expression, op operand) Expression {
		return op.build(left, op.right)
	})
}
