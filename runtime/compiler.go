package runtime

import "emberscript/ast"

var binaryOps = map[string]OpCode{
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv, "%": OpMod, "**": OpPower,
	"==": OpEq, "!=": OpNotEq, "===": OpStrictEq, "!==": OpStrictNotEq,
	"<": OpLt, ">": OpGt, "<=": OpLtEq, ">=": OpGtEq,
	"&&": OpAnd, "||": OpOr,
	"&": OpBitAnd, "|": OpBitOr, "^": OpBitXor,
	"<<": OpLeftShift, ">>": OpRightShift, ">>>": OpUnsignedRightShift,
}

var unaryOps = map[string]OpCode{
	"-": OpNeg, "!": OpNot, "~": OpBitNot, "typeof": OpTypeof, "void": OpVoid,
}

// Compiler lowers a single Program or function body into one Chunk.
// Compilation is one recursive walk: no symbol table, no separate
// passes, no optimization beyond the constant interning Chunk.addConst
// already performs.
type Compiler struct {
	chunk *Chunk
}

// Compile lowers a top-level Program. The Program's last statement, if
// an ExpressionStatement or VariableDeclaration, leaves a value on the
// stack for the engine's REPL-style result; a trailing
// FunctionDeclaration leaves the stack empty, so the VM's
// empty-stack-returns-Undefined rule applies, and a top-level Return
// yields its own value.
func Compile(prog *ast.Program) (*Chunk, error) {
	c := &Compiler{chunk: NewChunk()}
	for i, stmt := range prog.Body {
		if err := c.compileStmt(stmt, i == len(prog.Body)-1); err != nil {
			return nil, err
		}
	}
	return c.chunk, nil
}

// compileBody lowers a function body as its own Chunk. Statements
// inside a function body never get the Program-tail treatment: a
// function's result comes from an explicit Return, or Undefined if
// execution falls off the end.
func compileBody(body []ast.Stmt) (*Chunk, error) {
	c := &Compiler{chunk: NewChunk()}
	for _, stmt := range body {
		if err := c.compileStmt(stmt, false); err != nil {
			return nil, err
		}
	}
	return c.chunk, nil
}

func (c *Compiler) compileStmt(stmt ast.Stmt, programTail bool) error {
	switch s := stmt.(type) {
	case *ast.ExpressionStatement:
		if err := c.compileExpr(s.Expr); err != nil {
			return err
		}
		if !programTail {
			c.chunk.emit(OpPop, 0, "", 0)
		}
		return nil

	case *ast.VariableDeclaration:
		if s.Init != nil {
			if err := c.compileExpr(s.Init); err != nil {
				return err
			}
		} else {
			c.chunk.emit(OpLoadConst, c.chunk.addConst(Undefined{}), "", 0)
		}
		c.chunk.emit(OpStoreVar, 0, s.Name, 0)
		if programTail {
			c.chunk.emit(OpLoadConst, c.chunk.addConst(Undefined{}), "", 0)
		}
		return nil

	case *ast.ReturnStatement:
		if s.Value != nil {
			if err := c.compileExpr(s.Value); err != nil {
				return err
			}
		} else {
			c.chunk.emit(OpLoadConst, c.chunk.addConst(Undefined{}), "", 0)
		}
		c.chunk.emit(OpReturn, 0, "", 0)
		return nil

	case *ast.FunctionDeclaration:
		bodyChunk, err := compileBody(s.Body)
		if err != nil {
			return err
		}
		fn := &Function{Chunk: bodyChunk, Params: s.Params}
		idx := c.chunk.addConst(fn)
		c.chunk.emit(OpCreateFunction, idx, "", 0)
		c.chunk.emit(OpStoreVar, 0, s.Name, 0)
		return nil

	default:
		return NewInternalError("unsupported statement node", 0, 0)
	}
}

func (c *Compiler) compileExpr(expr ast.Expr) error {
	switch e := expr.(type) {
	case *ast.Literal:
		return c.compileLiteral(e)

	case *ast.Identifier:
		c.chunk.emit(OpLoadVar, 0, e.Name, 0)
		return nil

	case *ast.BinaryExpr:
		op, ok := binaryOps[e.Operator]
		if !ok {
			return NewInternalError("unknown binary operator "+e.Operator, 0, 0)
		}
		if err := c.compileExpr(e.Left); err != nil {
			return err
		}
		if err := c.compileExpr(e.Right); err != nil {
			return err
		}
		c.chunk.emit(op, 0, "", 0)
		return nil

	case *ast.UnaryExpr:
		return c.compileUnary(e)

	case *ast.Assignment:
		return c.compileAssignment(e)

	case *ast.ArrayLiteral:
		c.chunk.emit(OpNewArray, len(e.Elements), "", 0)
		for i, el := range e.Elements {
			if err := c.compileExpr(el); err != nil {
				return err
			}
			c.chunk.emit(OpLoadConst, c.chunk.addConst(Number(i)), "", 0)
			c.chunk.emit(OpArrayPush, 0, "", 0)
		}
		return nil

	case *ast.ObjectLiteral:
		c.chunk.emit(OpNewObject, 0, "", 0)
		for _, prop := range e.Properties {
			if err := c.compileExpr(prop.Value); err != nil {
				return err
			}
			c.chunk.emit(OpLoadConst, c.chunk.addConst(String(prop.Key)), "", 0)
			c.chunk.emit(OpObjectSetProperty, 0, "", 0)
		}
		return nil

	case *ast.MemberExpr:
		if err := c.compileExpr(e.Object); err != nil {
			return err
		}
		if err := c.compileMemberKey(e); err != nil {
			return err
		}
		c.chunk.emit(OpGetProperty, 0, "", 0)
		return nil

	case *ast.CallExpr:
		if err := c.compileExpr(e.Callee); err != nil {
			return err
		}
		for _, arg := range e.Args {
			if err := c.compileExpr(arg); err != nil {
				return err
			}
		}
		c.chunk.emit(OpCallFunction, len(e.Args), "", 0)
		return nil

	case *ast.FunctionExpr:
		bodyChunk, err := compileBody(e.Body)
		if err != nil {
			return err
		}
		fn := &Function{Chunk: bodyChunk, Params: e.Params}
		idx := c.chunk.addConst(fn)
		c.chunk.emit(OpCreateFunction, idx, "", 0)
		return nil

	default:
		return NewInternalError("unsupported expression node", 0, 0)
	}
}

func (c *Compiler) compileLiteral(lit *ast.Literal) error {
	var v Value
	switch lit.Kind {
	case ast.LitUndefined:
		v = Undefined{}
	case ast.LitNull:
		v = Null{}
	case ast.LitBoolean:
		v = Boolean(lit.Bool)
	case ast.LitNumber:
		v = Number(lit.Number)
	case ast.LitString:
		v = String(lit.Str)
	default:
		return NewInternalError("unknown literal kind", 0, 0)
	}
	c.chunk.emit(OpLoadConst, c.chunk.addConst(v), "", 0)
	return nil
}

func (c *Compiler) compileUnary(e *ast.UnaryExpr) error {
	if e.Operator == "+" {
		// unary plus elides to identity
		return c.compileExpr(e.Arg)
	}
	if e.Operator == "delete" {
		return NewInternalError("delete operator is unimplemented", 0, 0)
	}
	op, ok := unaryOps[e.Operator]
	if !ok {
		return NewInternalError("unknown unary operator "+e.Operator, 0, 0)
	}
	if err := c.compileExpr(e.Arg); err != nil {
		return err
	}
	c.chunk.emit(op, 0, "", 0)
	return nil
}

func (c *Compiler) compileAssignment(e *ast.Assignment) error {
	switch target := e.Left.(type) {
	case *ast.Identifier:
		if err := c.compileExpr(e.Right); err != nil {
			return err
		}
		c.chunk.emit(OpStoreVar, 0, target.Name, 0)
		c.chunk.emit(OpLoadVar, 0, target.Name, 0)
		return nil

	case *ast.MemberExpr:
		if err := c.compileExpr(target.Object); err != nil {
			return err
		}
		if err := c.compileMemberKey(target); err != nil {
			return err
		}
		if err := c.compileExpr(e.Right); err != nil {
			return err
		}
		c.chunk.emit(OpSetProperty, 0, "", 0)
		return nil

	default:
		return NewSyntaxError("invalid assignment target", 0, 0)
	}
}

// compileMemberKey emits the property key half of a MemberExpr: a
// string constant for `.name` access, or the compiled key expression
// for `[expr]` access.
func (c *Compiler) compileMemberKey(e *ast.MemberExpr) error {
	if e.Computed {
		return c.compileExpr(e.Property)
	}
	c.chunk.emit(OpLoadConst, c.chunk.addConst(String(e.Name)), "", 0)
	return nil
}
