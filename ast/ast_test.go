package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDeclarationKindString(t *testing.T) {
	require.Equal(t, "var", KindVar.String())
	require.Equal(t, "let", KindLet.String())
	require.Equal(t, "const", KindConst.String())
}

func TestNodeInterfacesAreSatisfied(t *testing.T) {
	var stmts []Stmt = []Stmt{
		&ExpressionStatement{Expr: &Literal{Kind: LitNumber, Number: 1}},
		&VariableDeclaration{Kind: KindLet, Name: "x"},
		&ReturnStatement{},
		&FunctionDeclaration{Name: "f", Params: []string{"a"}},
	}
	require.Len(t, stmts, 4)

	var exprs []Expr = []Expr{
		&Literal{Kind: LitString, Str: "hi"},
		&Identifier{Name: "x"},
		&BinaryExpr{Operator: "+"},
		&UnaryExpr{Operator: "-"},
		&Assignment{},
		&ArrayLiteral{},
		&ObjectLiteral{},
		&MemberExpr{},
		&CallExpr{},
		&FunctionExpr{},
	}
	require.Len(t, exprs, 10)
}
