package expr

import "fmt"

type node interface {
	eval(scope map[string]any) (any, error)
}

type (
	literal struct{ value any }
	ident   struct{ name string }
	unary   struct {
		op      string
		operand node
	}
	binary struct {
		op          string
		left, right node
	}
	logical struct {
		op          string
		left, right node
	}
)

// Precedence from loosest to tightest binding.
var binaryLevels = [][]string{
	{"||"},
	{"&&"},
	{"===", "!==", "==", "!="},
	{"<", "<=", ">", ">="},
}

type parser struct {
	toks []token
	pos  int
}

func parse(src string) (node, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	if p.peek().kind == tokEOF {
		return nil, &SyntaxError{Pos: 0, Msg: "empty expression"}
	}
	n, err := p.parseLevel(0)
	if err != nil {
		return nil, err
	}
	if tok := p.peek(); tok.kind != tokEOF {
		return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %s", tok)}
	}
	return n, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) parseLevel(level int) (node, error) {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}
	left, err := p.parseLevel(level + 1)
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if tok.kind != tokOp || !contains(binaryLevels[level], tok.text) {
			return left, nil
		}
		p.next()
		right, err := p.parseLevel(level + 1)
		if err != nil {
			return nil, err
		}
		if tok.text == "&&" || tok.text == "||" {
			left = &logical{op: tok.text, left: left, right: right}
		} else {
			left = &binary{op: tok.text, left: left, right: right}
		}
	}
}

func (p *parser) parseUnary() (node, error) {
	tok := p.peek()
	if tok.kind == tokOp && (tok.text == "!" || tok.text == "-") {
		p.next()
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unary{op: tok.text, operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (node, error) {
	tok := p.next()
	switch tok.kind {
	case tokNumber:
		return &literal{value: tok.num}, nil
	case tokString:
		return &literal{value: tok.text}, nil
	case tokIdent:
		switch tok.text {
		case "true":
			return &literal{value: true}, nil
		case "false":
			return &literal{value: false}, nil
		case "null":
			return &literal{value: nil}, nil
		case "undefined":
			return &literal{value: Undefined}, nil
		}
		return &ident{name: tok.text}, nil
	case tokLParen:
		inner, err := p.parseLevel(0)
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, &SyntaxError{Pos: closing.pos, Msg: fmt.Sprintf("expected \")\", got %s", closing)}
		}
		return inner, nil
	default:
		return nil, &SyntaxError{Pos: tok.pos, Msg: fmt.Sprintf("unexpected %s", tok)}
	}
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
