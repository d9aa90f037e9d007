// Package parser builds the ast.Program the compiler consumes, from
// the token stream lexer.Tokenize produces.
//
// Precedence, high to low: call/member, unary, `**` (right-assoc),
// `* / %`, `+ -`, `<< >> >>>`, `< > <= >=`, `== != === !==`, `&`, `^`,
// `|`, `&&`, `||`, assignment. This is the standard JS-family table;
// `**` is wired in as right-associative, one notch above the rest of
// arithmetic.
package parser

import (
	"fmt"

	"emberscript/ast"
	"emberscript/lexer"
)

type SyntaxError struct {
	Message string
	Line    int
	Column  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("SyntaxError: %s at %d:%d", e.Message, e.Line, e.Column)
}

type Parser struct {
	tokens []lexer.Token
	pos    int
}

func New(tokens []lexer.Token) *Parser {
	return &Parser{tokens: tokens}
}

// Parse lexes then parses source in one call.
func Parse(source string) (*ast.Program, error) {
	tokens, err := lexer.Tokenize(source)
	if err != nil {
		return nil, err
	}
	return New(tokens).ParseProgram()
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) consume() lexer.Token {
	tok := p.tokens[p.pos]
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *Parser) check(tt lexer.TokenType) bool {
	return p.peek().Type == tt
}

func (p *Parser) expect(tt lexer.TokenType, msg string) (lexer.Token, error) {
	tok := p.peek()
	if tok.Type != tt {
		return tok, &SyntaxError{Message: msg, Line: tok.Line, Column: tok.Column}
	}
	return p.consume(), nil
}

// consumeSemicolon implements a minimal automatic-semicolon rule: an
// optional `;` is consumed if present, never required.
func (p *Parser) consumeSemicolon() {
	if p.check(lexer.Semicolon) {
		p.consume()
	}
}

func (p *Parser) ParseProgram() (*ast.Program, error) {
	prog := &ast.Program{}
	for !p.check(lexer.EOF) {
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		prog.Body = append(prog.Body, stmt)
	}
	return prog, nil
}

func (p *Parser) parseStmt() (ast.Stmt, error) {
	switch p.peek().Type {
	case lexer.KwLet, lexer.KwConst, lexer.KwVar:
		return p.parseVarDecl()
	case lexer.KwReturn:
		return p.parseReturn()
	case lexer.KwFunction:
		return p.parseFunctionDecl()
	default:
		return p.parseExpressionStmt()
	}
}

func (p *Parser) parseVarDecl() (ast.Stmt, error) {
	kindTok := p.consume()
	var kind ast.DeclarationKind
	switch kindTok.Type {
	case lexer.KwLet:
		kind = ast.KindLet
	case lexer.KwConst:
		kind = ast.KindConst
	default:
		kind = ast.KindVar
	}
	nameTok, err := p.expect(lexer.Identifier, "expected identifier after declaration keyword")
	if err != nil {
		return nil, err
	}
	decl := &ast.VariableDeclaration{Kind: kind, Name: nameTok.Value}
	if p.check(lexer.Assign) {
		p.consume()
		init, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		decl.Init = init
	}
	p.consumeSemicolon()
	return decl, nil
}

func (p *Parser) parseReturn() (ast.Stmt, error) {
	p.consume()
	if p.check(lexer.Semicolon) || p.check(lexer.RBrace) || p.check(lexer.EOF) {
		p.consumeSemicolon()
		return &ast.ReturnStatement{}, nil
	}
	val, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.consumeSemicolon()
	return &ast.ReturnStatement{Value: val}, nil
}

func (p *Parser) parseFunctionDecl() (ast.Stmt, error) {
	p.consume()
	nameTok, err := p.expect(lexer.Identifier, "expected function name after 'function'")
	if err != nil {
		return nil, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionDeclaration{Name: nameTok.Value, Params: params, Body: body}, nil
}

func (p *Parser) parseParamList() ([]string, error) {
	if _, err := p.expect(lexer.LParen, "expected '(' after function name"); err != nil {
		return nil, err
	}
	var params []string
	for !p.check(lexer.RParen) {
		tok, err := p.expect(lexer.Identifier, "expected parameter name")
		if err != nil {
			return nil, err
		}
		params = append(params, tok.Value)
		if p.check(lexer.Comma) {
			p.consume()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RParen, "expected ')' after parameter list"); err != nil {
		return nil, err
	}
	return params, nil
}

func (p *Parser) parseBlock() ([]ast.Stmt, error) {
	if _, err := p.expect(lexer.LBrace, "expected '{' to start a block"); err != nil {
		return nil, err
	}
	var stmts []ast.Stmt
	for !p.check(lexer.RBrace) {
		if p.check(lexer.EOF) {
			tok := p.peek()
			return nil, &SyntaxError{Message: "unterminated block", Line: tok.Line, Column: tok.Column}
		}
		stmt, err := p.parseStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	p.consume() // '}'
	return stmts, nil
}

func (p *Parser) parseExpressionStmt() (ast.Stmt, error) {
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.consumeSemicolon()
	return &ast.ExpressionStatement{Expr: expr}, nil
}

func (p *Parser) parseExpr() (ast.Expr, error) {
	return p.parseAssignment()
}

func (p *Parser) parseAssignment() (ast.Expr, error) {
	left, err := p.parseLogicalOr()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.Assign) {
		switch left.(type) {
		case *ast.Identifier, *ast.MemberExpr:
		default:
			tok := p.peek()
			return nil, &SyntaxError{Message: "invalid assignment target", Line: tok.Line, Column: tok.Column}
		}
		p.consume()
		right, err := p.parseAssignment()
		if err != nil {
			return nil, err
		}
		return &ast.Assignment{Left: left, Right: right}, nil
	}
	return left, nil
}

// binaryLevel parses a left-associative chain at one precedence
// level: `next` parses the tighter-binding level beneath it, and ops
// maps accepted token types to their operator text.
func (p *Parser) binaryLevel(next func() (ast.Expr, error), ops map[lexer.TokenType]string) (ast.Expr, error) {
	left, err := next()
	if err != nil {
		return nil, err
	}
	for {
		op, ok := ops[p.peek().Type]
		if !ok {
			return left, nil
		}
		p.consume()
		right, err := next()
		if err != nil {
			return nil, err
		}
		left = &ast.BinaryExpr{Operator: op, Left: left, Right: right}
	}
}

func (p *Parser) parseLogicalOr() (ast.Expr, error) {
	return p.binaryLevel(p.parseLogicalAnd, map[lexer.TokenType]string{lexer.OrOr: "||"})
}

func (p *Parser) parseLogicalAnd() (ast.Expr, error) {
	return p.binaryLevel(p.parseBitOr, map[lexer.TokenType]string{lexer.AndAnd: "&&"})
}

func (p *Parser) parseBitOr() (ast.Expr, error) {
	return p.binaryLevel(p.parseBitXor, map[lexer.TokenType]string{lexer.Pipe: "|"})
}

func (p *Parser) parseBitXor() (ast.Expr, error) {
	return p.binaryLevel(p.parseBitAnd, map[lexer.TokenType]string{lexer.Caret: "^"})
}

func (p *Parser) parseBitAnd() (ast.Expr, error) {
	return p.binaryLevel(p.parseEquality, map[lexer.TokenType]string{lexer.Amp: "&"})
}

func (p *Parser) parseEquality() (ast.Expr, error) {
	return p.binaryLevel(p.parseRelational, map[lexer.TokenType]string{
		lexer.EqEq: "==", lexer.NotEq: "!=", lexer.EqEqEq: "===", lexer.NotEqEq: "!==",
	})
}

func (p *Parser) parseRelational() (ast.Expr, error) {
	return p.binaryLevel(p.parseShift, map[lexer.TokenType]string{
		lexer.Lt: "<", lexer.Gt: ">", lexer.LtEq: "<=", lexer.GtEq: ">=",
	})
}

func (p *Parser) parseShift() (ast.Expr, error) {
	return p.binaryLevel(p.parseAdditive, map[lexer.TokenType]string{
		lexer.Shl: "<<", lexer.Shr: ">>", lexer.UShr: ">>>",
	})
}

func (p *Parser) parseAdditive() (ast.Expr, error) {
	return p.binaryLevel(p.parseMultiplicative, map[lexer.TokenType]string{
		lexer.Plus: "+", lexer.Minus: "-",
	})
}

func (p *Parser) parseMultiplicative() (ast.Expr, error) {
	return p.binaryLevel(p.parsePower, map[lexer.TokenType]string{
		lexer.Star: "*", lexer.Slash: "/", lexer.Percent: "%",
	})
}

// parsePower is right-associative: 2 ** 3 ** 2 == 2 ** (3 ** 2).
func (p *Parser) parsePower() (ast.Expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.check(lexer.StarStar) {
		p.consume()
		right, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		return &ast.BinaryExpr{Operator: "**", Left: left, Right: right}, nil
	}
	return left, nil
}

var unaryOps = map[lexer.TokenType]string{
	lexer.Plus:    "+",
	lexer.Minus:   "-",
	lexer.Bang:    "!",
	lexer.Tilde:   "~",
	lexer.KwTypeof: "typeof",
	lexer.KwVoid:  "void",
	lexer.KwDelete: "delete",
}

func (p *Parser) parseUnary() (ast.Expr, error) {
	if op, ok := unaryOps[p.peek().Type]; ok {
		p.consume()
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &ast.UnaryExpr{Operator: op, Arg: arg}, nil
	}
	return p.parseCallOrMember()
}

func (p *Parser) parseCallOrMember() (ast.Expr, error) {
	expr, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.check(lexer.Dot):
			p.consume()
			nameTok, err := p.expect(lexer.Identifier, "expected property name after '.'")
			if err != nil {
				return nil, err
			}
			expr = &ast.MemberExpr{Object: expr, Name: nameTok.Value}
		case p.check(lexer.LBracket):
			p.consume()
			key, err := p.parseExpr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expect(lexer.RBracket, "expected ']' after computed member key"); err != nil {
				return nil, err
			}
			expr = &ast.MemberExpr{Object: expr, Property: key, Computed: true}
		case p.check(lexer.LParen):
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}
			expr = &ast.CallExpr{Callee: expr, Args: args}
		default:
			return expr, nil
		}
	}
}

func (p *Parser) parseArgs() ([]ast.Expr, error) {
	p.consume() // '('
	var args []ast.Expr
	for !p.check(lexer.RParen) {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.check(lexer.Comma) {
			p.consume()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RParen, "expected ')' after argument list"); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *Parser) parsePrimary() (ast.Expr, error) {
	tok := p.peek()
	switch tok.Type {
	case lexer.Number:
		p.consume()
		var n float64
		if _, err := fmt.Sscanf(tok.Value, "%g", &n); err != nil {
			return nil, &SyntaxError{Message: "malformed number literal: " + tok.Value, Line: tok.Line, Column: tok.Column}
		}
		return &ast.Literal{Kind: ast.LitNumber, Number: n}, nil
	case lexer.String:
		p.consume()
		return &ast.Literal{Kind: ast.LitString, Str: tok.Value}, nil
	case lexer.KwTrue:
		p.consume()
		return &ast.Literal{Kind: ast.LitBoolean, Bool: true}, nil
	case lexer.KwFalse:
		p.consume()
		return &ast.Literal{Kind: ast.LitBoolean, Bool: false}, nil
	case lexer.KwNull:
		p.consume()
		return &ast.Literal{Kind: ast.LitNull}, nil
	case lexer.KwUndefined:
		p.consume()
		return &ast.Literal{Kind: ast.LitUndefined}, nil
	case lexer.Identifier:
		p.consume()
		return &ast.Identifier{Name: tok.Value}, nil
	case lexer.LParen:
		p.consume()
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen, "expected ')' after parenthesized expression"); err != nil {
			return nil, err
		}
		return expr, nil
	case lexer.LBracket:
		return p.parseArrayLiteral()
	case lexer.LBrace:
		return p.parseObjectLiteral()
	case lexer.KwFunction:
		return p.parseFunctionExpr()
	default:
		return nil, &SyntaxError{Message: fmt.Sprintf("unexpected token %q", tok.Value), Line: tok.Line, Column: tok.Column}
	}
}

func (p *Parser) parseFunctionExpr() (ast.Expr, error) {
	p.consume() // 'function'
	if p.check(lexer.Identifier) {
		p.consume() // optional name, discarded: function expressions bind no name
	}
	params, err := p.parseParamList()
	if err != nil {
		return nil, err
	}
	body, err := p.parseBlock()
	if err != nil {
		return nil, err
	}
	return &ast.FunctionExpr{Params: params, Body: body}, nil
}

func (p *Parser) parseArrayLiteral() (ast.Expr, error) {
	p.consume() // '['
	var elems []ast.Expr
	for !p.check(lexer.RBracket) {
		el, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		elems = append(elems, el)
		if p.check(lexer.Comma) {
			p.consume()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBracket, "expected ']' to end array literal"); err != nil {
		return nil, err
	}
	return &ast.ArrayLiteral{Elements: elems}, nil
}

func (p *Parser) parseObjectLiteral() (ast.Expr, error) {
	p.consume() // '{'
	var props []ast.ObjectProperty
	for !p.check(lexer.RBrace) {
		var key string
		switch p.peek().Type {
		case lexer.Identifier:
			key = p.consume().Value
		case lexer.String:
			key = p.consume().Value
		default:
			tok := p.peek()
			return nil, &SyntaxError{Message: "expected property key in object literal", Line: tok.Line, Column: tok.Column}
		}
		if _, err := p.expect(lexer.Colon, "expected ':' after object literal key"); err != nil {
			return nil, err
		}
		val, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		props = append(props, ast.ObjectProperty{Key: key, Value: val})
		if p.check(lexer.Comma) {
			p.consume()
			continue
		}
		break
	}
	if _, err := p.expect(lexer.RBrace, "expected '}' to end object literal"); err != nil {
		return nil, err
	}
	return &ast.ObjectLiteral{Properties: props}, nil
}
