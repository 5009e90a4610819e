package helium

// operatorPrecedence orders the binary operators; higher binds tighter.
var operatorPrecedence = map[string]int{
	"||":  1,
	"??":  1,
	"&&":  2,
	"==":  3,
	"!=":  3,
	"<":   3,
	">":   3,
	"<=":  3,
	">=":  3,
	"|":   4,
	"^":   5,
	"&":   6,
	"<<":  7,
	">>":  7,
	">>>": 7,
	"+":   8,
	"-":   8,
	"*":   9,
	"/":   9,
	"//":  9,
	"%":   9,
	"**":  10,
}

func rightAssociative(op string) bool {
	return op == "**"
}

// isValueNode reports whether n can stand as an operand.
func isValueNode(n Node) bool {
	switch node := n.(type) {
	case *Token:
		switch node.Kind {
		case TokenNumber, TokenString:
			return true
		case TokenWord:
			return !isKeyword(node.Literal)
		}
		return false
	case *Return:
		return false
	}
	return true
}

func isBinaryOperator(n Node) bool {
	tok, ok := asToken(n)
	if !ok || tok.Kind != TokenOperator || tok.Unary {
		return false
	}
	_, known := operatorPrecedence[tok.Literal]
	return known
}

// findEOE returns the end (exclusive) of the longest run starting at start
// that alternates value and binary operator and ends on a value.
func findEOE(nodes []Node, start int) int {
	expectValue := true
	i := start
	for ; i < len(nodes); i++ {
		if expectValue && !isValueNode(nodes[i]) {
			break
		}
		if !expectValue && !isBinaryOperator(nodes[i]) {
			break
		}
		expectValue = !expectValue
	}
	if i > start && expectValue {
		i--
	}
	return i
}

// toPostfix reorders an alternating value/operator run so a stack machine
// can evaluate it left to right.
func toPostfix(run []Node) []Node {
	out := make([]Node, 0, len(run))
	var ops []*Token
	for i, n := range run {
		if i%2 == 0 {
			out = append(out, n)
			continue
		}
		op := n.(*Token)
		prec := operatorPrecedence[op.Literal]
		for len(ops) > 0 {
			top := ops[len(ops)-1]
			topPrec := operatorPrecedence[top.Literal]
			if topPrec > prec || (topPrec == prec && !rightAssociative(op.Literal)) {
				out = append(out, top)
				ops = ops[:len(ops)-1]
				continue
			}
			break
		}
		ops = append(ops, op)
	}
	for i := len(ops) - 1; i >= 0; i-- {
		out = append(out, ops[i])
	}
	return out
}
