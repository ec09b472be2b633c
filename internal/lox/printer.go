package lox

import "strings"

// PrintAst renders decls as an s-expression-ish tree, one line per
// declaration, intended for `glox parse`'s debug output rather than for
// round-tripping back through the parser.
func PrintAst(decls []Declaration) string {
	var sb strings.Builder
	for _, d := range decls {
		sb.WriteString(printDecl(d))
		sb.WriteString("\n")
	}
	return sb.String()
}

func printDecl(d Declaration) string {
	switch decl := d.(type) {
	case *VarDecl:
		if decl.Initializer == nil {
			return "(var " + decl.Name.Lexeme + ")"
		}
		return "(var " + decl.Name.Lexeme + " " + printExpr(decl.Initializer) + ")"

	case *FunDecl:
		var sb strings.Builder
		sb.WriteString("(fun " + decl.Name.Lexeme + " (")
		for i, p := range decl.Params {
			if i > 0 {
				sb.WriteString(" ")
			}
			sb.WriteString(p.Lexeme)
		}
		sb.WriteString(") ")
		sb.WriteString(printBlock(decl.Body))
		sb.WriteString(")")
		return sb.String()

	case *ClassDecl:
		var sb strings.Builder
		sb.WriteString("(class " + decl.Name.Lexeme)
		if decl.Superclass != nil {
			sb.WriteString(" < " + decl.Superclass.Name.Lexeme)
		}
		for _, name := range decl.MethodOrder {
			sb.WriteString(" " + printDecl(decl.Methods[name]))
		}
		sb.WriteString(")")
		return sb.String()

	case *Block:
		return printBlock(decl.Decls)

	case *ExprStmt:
		return printExpr(decl.Expr)

	case *If:
		s := "(if " + printExpr(decl.Cond) + " " + printDecl(decl.Then)
		if decl.Else != nil {
			s += " " + printDecl(decl.Else)
		}
		return s + ")"

	case *While:
		return "(while " + printExpr(decl.Cond) + " " + printDecl(decl.Body) + ")"

	case *Print:
		return "(print " + printExpr(decl.Expr) + ")"

	case *Return:
		if decl.Expr == nil {
			return "(return)"
		}
		return "(return " + printExpr(decl.Expr) + ")"

	default:
		return "(?)"
	}
}

func printBlock(decls []Declaration) string {
	var sb strings.Builder
	sb.WriteString("(block")
	for _, d := range decls {
		sb.WriteString(" " + printDecl(d))
	}
	sb.WriteString(")")
	return sb.String()
}

func printExpr(e Expr) string {
	switch expr := e.(type) {
	case *Literal:
		if expr.Token.Type == String {
			return "\"" + expr.Token.Lexeme + "\""
		}
		if expr.Token.Lexeme == "" {
			return "nil"
		}
		return expr.Token.Lexeme

	case *VariableExpr:
		return expr.Name.Lexeme

	case *AssignExpr:
		return "(= " + expr.Name.Lexeme + " " + printExpr(expr.Value) + ")"

	case *BinaryExpr:
		return parenthesize(expr.Operator.Lexeme, expr.Left, expr.Right)

	case *LogicalExpr:
		return parenthesize(expr.Operator.Lexeme, expr.Left, expr.Right)

	case *UnaryExpr:
		return parenthesize(expr.Operator.Lexeme, expr.Right)

	case *GroupingExpr:
		return parenthesize("group", expr.Inner)

	case *CallExpr:
		var sb strings.Builder
		sb.WriteString("(call " + printExpr(expr.Callee))
		for _, a := range expr.Args {
			sb.WriteString(" " + printExpr(a))
		}
		sb.WriteString(")")
		return sb.String()

	case *GetExpr:
		return "(get " + printExpr(expr.Object) + " " + expr.Name.Lexeme + ")"

	case *SetExpr:
		return "(set " + printExpr(expr.Object) + " " + expr.Name.Lexeme + " " + printExpr(expr.Value) + ")"

	case *ThisExpr:
		return "this"

	case *SuperExpr:
		return "(super " + expr.Method.Lexeme + ")"

	default:
		return "?"
	}
}

func parenthesize(name string, exprs ...Expr) string {
	var sb strings.Builder
	sb.WriteString("(" + name)
	for _, e := range exprs {
		sb.WriteString(" " + printExpr(e))
	}
	sb.WriteString(")")
	return sb.String()
}
