package lexer

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func tokenTypes(tokens []Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, tok := range tokens {
		types[i] = tok.Type
	}
	return types
}

func TestTokenizePunctuationAndOperators(t *testing.T) {
	tokens, err := Tokenize("let x = 1 + 2 === 3 >>> 1")
	require.NoError(t, err)
	require.Equal(t, []TokenType{
		KwLet, Identifier, Assign, Number, Plus, Number, EqEqEq, Number, UShr, Number, EOF,
	}, tokenTypes(tokens))
}

func TestTokenizeStringEscapes(t *testing.T) {
	tokens, err := Tokenize(`"a\nb\"c"`)
	require.NoError(t, err)
	require.Equal(t, String, tokens[0].Type)
	require.Equal(t, "a\nb\"c", tokens[0].Value)
}

func TestTokenizeNumberForms(t *testing.T) {
	cases := []struct {
		src  string
		want string
	}{
		{"42", "42"},
		{"3.14", "3.14"},
		{".5", ".5"},
		{"1e3", "1e3"},
		{"2.5e-2", "2.5e-2"},
	}
	for _, c := range cases {
		tokens, err := Tokenize(c.src)
		require.NoError(t, err)
		require.Equal(t, Number, tokens[0].Type)
		require.Equal(t, c.want, tokens[0].Value)
	}
}

func TestTokenizeKeywords(t *testing.T) {
	tokens, err := Tokenize("function return true false null undefined typeof void delete")
	require.NoError(t, err)
	require.Equal(t, []TokenType{
		KwFunction, KwReturn, KwTrue, KwFalse, KwNull, KwUndefined, KwTypeof, KwVoid, KwDelete, EOF,
	}, tokenTypes(tokens))
}

func TestTokenizeComments(t *testing.T) {
	tokens, err := Tokenize("1 // trailing\n/* block */ 2")
	require.NoError(t, err)
	require.Equal(t, []TokenType{Number, Number, EOF}, tokenTypes(tokens))
}

func TestTokenizeUnterminatedString(t *testing.T) {
	_, err := Tokenize(`"abc`)
	require.Error(t, err)
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
}

func TestTokenizeNewlineInStringIsSyntaxError(t *testing.T) {
	_, err := Tokenize("\"abc\ndef\"")
	require.Error(t, err)
}

func TestTokenizeUnterminatedBlockComment(t *testing.T) {
	_, err := Tokenize("/* never closes")
	require.Error(t, err)
}

func TestTokenizeUnrecognizedCharacter(t *testing.T) {
	_, err := Tokenize("let x = 1 @ 2")
	require.Error(t, err)
}

func TestTokenizeLineAndColumnTracking(t *testing.T) {
	tokens, err := Tokenize("let a\nlet b")
	require.NoError(t, err)
	// second "let" begins line 2, column 1
	var secondLet Token
	for _, tok := range tokens {
		if tok.Type == KwLet {
			secondLet = tok
		}
	}
	require.Equal(t, 2, secondLet.Line)
	require.Equal(t, 1, secondLet.Column)
}
