package lox

import (
	"fmt"
	"io"
	"strconv"
	"time"
)

// Interpreter walks a resolved Ast, evaluating expressions and executing
// statements against a chain of Environment frames. It holds the single
// global Environment for the lifetime of a REPL session, so top-level
// declarations made on one line remain visible to the next.
type Interpreter struct {
	globals *Environment
	env     *Environment
	out     io.Writer
	start   time.Time
}

// NewInterpreter creates an Interpreter writing `print` output to out and
// seeds the global scope with the builtins. start is captured here, not at
// clock()'s first call, so clock() measures elapsed time since the
// Interpreter itself came up rather than since the first time a script
// happened to call it.
func NewInterpreter(out io.Writer) *Interpreter {
	in := &Interpreter{globals: NewEnvironment(), out: out, start: time.Now()}
	in.env = in.globals
	in.globals.Define("clock", &NativeFunction{
		Name: "clock",
		Arr:  0,
		Fn: func(interp *Interpreter, _ []Value) (Value, error) {
			return Number(float64(time.Since(interp.start).Milliseconds())), nil
		},
	})
	return in
}

// Interpret executes decls in the global environment, stopping at the first
// RuntimeError and reporting it through reporter. Parse/resolve errors are
// assumed already handled by the caller; Interpret only runs what successfully
// resolved.
func (in *Interpreter) Interpret(decls []Declaration, reporter Reporter) {
	for _, d := range decls {
		if err := in.execute(d); err != nil {
			if rerr, ok := err.(*RuntimeError); ok {
				reporter.RuntimeError(rerr)
				return
			}
			// A returnSignal escaping top-level code would be a resolver
			// bug (resolver rejects top-level return); surface it as a
			// runtime error rather than silently dropping it.
			if _, ok := asReturn(err); ok {
				reporter.RuntimeError(&RuntimeError{Message: "return outside of function"})
				return
			}
			reporter.RuntimeError(&RuntimeError{Message: err.Error()})
			return
		}
	}
}

func (in *Interpreter) execute(d Declaration) error {
	switch decl := d.(type) {
	case *VarDecl:
		var value Value = Nil{}
		if decl.Initializer != nil {
			v, err := in.eval(decl.Initializer)
			if err != nil {
				return err
			}
			value = v
		}
		in.env.Define(decl.Name.Lexeme, value)
		return nil

	case *FunDecl:
		fn := &LoxFunction{Decl: decl, Closure: in.env}
		in.env.Define(decl.Name.Lexeme, fn)
		return nil

	case *ClassDecl:
		return in.executeClass(decl)

	case *Block:
		return in.executeBlock(decl.Decls, in.env.NewBlock())

	case *ExprStmt:
		_, err := in.eval(decl.Expr)
		return err

	case *If:
		cond, err := in.eval(decl.Cond)
		if err != nil {
			return err
		}
		if Truthy(cond) {
			return in.execute(decl.Then)
		} else if decl.Else != nil {
			return in.execute(decl.Else)
		}
		return nil

	case *While:
		for {
			cond, err := in.eval(decl.Cond)
			if err != nil {
				return err
			}
			if !Truthy(cond) {
				return nil
			}
			if err := in.execute(decl.Body); err != nil {
				return err
			}
		}

	case *Print:
		v, err := in.eval(decl.Expr)
		if err != nil {
			return err
		}
		fmt.Fprintln(in.out, Stringify(v))
		return nil

	case *Return:
		var value Value = Nil{}
		if decl.Expr != nil {
			v, err := in.eval(decl.Expr)
			if err != nil {
				return err
			}
			value = v
		}
		return &returnSignal{value: value}

	default:
		return nil
	}
}

// executeClass constructs a *LoxClass from a ClassDecl, resolving its
// superclass and materializing every method into a LoxFunction closed over a
// dedicated "super"-frame (present only when there is a superclass) nested
// inside the class's own environment.
func (in *Interpreter) executeClass(decl *ClassDecl) error {
	var superclass *LoxClass
	if decl.Superclass != nil {
		v, err := in.evalVariable(decl.Superclass)
		if err != nil {
			return err
		}
		sc, ok := v.(*LoxClass)
		if !ok {
			return &RuntimeError{Token: decl.Superclass.Name, Message: "Superclass must be a class."}
		}
		superclass = sc
	}

	in.env.Define(decl.Name.Lexeme, Nil{})

	classEnv := in.env
	if superclass != nil {
		classEnv = in.env.NewBlock()
		classEnv.Define("super", superclass)
	}

	methods := make(map[string]*LoxFunction)
	for _, name := range decl.MethodOrder {
		m := decl.Methods[name]
		methods[name] = &LoxFunction{Decl: m, Closure: classEnv, IsInitializer: m.Name.Lexeme == "init"}
	}

	class := &LoxClass{Name: decl.Name.Lexeme, Superclass: superclass, Methods: methods}
	return in.env.Assign(decl.Name, class)
}

// executeBlock runs decls in env, always restoring the interpreter's prior
// environment before returning — including when a statement returns an
// error or a returnSignal — so a non-local exit out of a nested block never
// leaves the interpreter pointed at a discarded frame.
func (in *Interpreter) executeBlock(decls []Declaration, env *Environment) error {
	previous := in.env
	in.env = env
	defer func() { in.env = previous }()

	for _, d := range decls {
		if err := in.execute(d); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) eval(e Expr) (Value, error) {
	switch expr := e.(type) {
	case *Literal:
		return literalValue(expr.Token), nil

	case *VariableExpr:
		return in.evalVariable(expr)

	case *AssignExpr:
		value, err := in.eval(expr.Value)
		if err != nil {
			return nil, err
		}
		if expr.Depth != nil {
			in.env.AssignAt(*expr.Depth, expr.Name.Lexeme, value)
		} else if err := in.globals.Assign(expr.Name, value); err != nil {
			return nil, err
		}
		return value, nil

	case *BinaryExpr:
		return in.evalBinary(expr)

	case *LogicalExpr:
		return in.evalLogical(expr)

	case *UnaryExpr:
		return in.evalUnary(expr)

	case *GroupingExpr:
		return in.eval(expr.Inner)

	case *CallExpr:
		return in.evalCall(expr)

	case *GetExpr:
		obj, err := in.eval(expr.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*LoxInstance)
		if !ok {
			return nil, &RuntimeError{Token: expr.Name, Message: "Only instances have properties."}
		}
		return inst.Get(expr.Name)

	case *SetExpr:
		obj, err := in.eval(expr.Object)
		if err != nil {
			return nil, err
		}
		inst, ok := obj.(*LoxInstance)
		if !ok {
			return nil, &RuntimeError{Token: expr.Name, Message: "Only instances have fields."}
		}
		value, err := in.eval(expr.Value)
		if err != nil {
			return nil, err
		}
		inst.Set(expr.Name, value)
		return value, nil

	case *ThisExpr:
		return in.lookupVariable(expr.Keyword, expr.Depth)

	case *SuperExpr:
		return in.evalSuper(expr)

	default:
		return nil, &RuntimeError{Token: e.Tok(), Message: "unknown expression node"}
	}
}

func (in *Interpreter) evalVariable(expr *VariableExpr) (Value, error) {
	return in.lookupVariable(expr.Name, expr.Depth)
}

func (in *Interpreter) lookupVariable(name Token, depth *int) (Value, error) {
	if depth != nil {
		return in.env.GetAt(*depth, name.Lexeme), nil
	}
	return in.globals.Get(name)
}

func (in *Interpreter) evalSuper(expr *SuperExpr) (Value, error) {
	distance := *expr.Depth
	superclass := in.env.GetAt(distance, "super").(*LoxClass)
	instance := in.env.GetAt(distance-1, "this").(*LoxInstance)

	method := superclass.FindMethod(expr.Method.Lexeme)
	if method == nil {
		return nil, &RuntimeError{Token: expr.Method, Message: "Undefined property '" + expr.Method.Lexeme + "'."}
	}
	return method.bind(instance), nil
}

func (in *Interpreter) evalCall(expr *CallExpr) (Value, error) {
	callee, err := in.eval(expr.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]Value, 0, len(expr.Args))
	for _, a := range expr.Args {
		v, err := in.eval(a)
		if err != nil {
			return nil, err
		}
		args = append(args, v)
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, &RuntimeError{Token: expr.Paren, Message: "Can only call functions and classes."}
	}
	if len(args) != callable.Arity() {
		return nil, &RuntimeError{Token: expr.Paren, Message: fmt.Sprintf("Expected %d arguments but got %d.", callable.Arity(), len(args))}
	}
	return callable.Call(in, args)
}

func (in *Interpreter) evalLogical(expr *LogicalExpr) (Value, error) {
	left, err := in.eval(expr.Left)
	if err != nil {
		return nil, err
	}
	if expr.Operator.Type == Or {
		if Truthy(left) {
			return left, nil
		}
	} else if !Truthy(left) {
		return left, nil
	}
	return in.eval(expr.Right)
}

func (in *Interpreter) evalUnary(expr *UnaryExpr) (Value, error) {
	right, err := in.eval(expr.Right)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Type {
	case Minus:
		n, ok := right.(Number)
		if !ok {
			return nil, &RuntimeError{Token: expr.Operator, Message: "Operand must be a number, got " + TypeName(right) + "."}
		}
		return -n, nil
	case Bang:
		return Boolean(!Truthy(right)), nil
	default:
		return nil, &RuntimeError{Token: expr.Operator, Message: "Unknown unary operator."}
	}
}

func (in *Interpreter) evalBinary(expr *BinaryExpr) (Value, error) {
	left, err := in.eval(expr.Left)
	if err != nil {
		return nil, err
	}
	right, err := in.eval(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Type {
	case Plus:
		if ln, lok := left.(Number); lok {
			if rn, rok := right.(Number); rok {
				return ln + rn, nil
			}
		}
		if ls, lok := left.(String); lok {
			if rs, rok := right.(String); rok {
				return ls + rs, nil
			}
		}
		return nil, &RuntimeError{Token: expr.Operator, Message: "Operands must be two numbers or two strings."}
	case Minus:
		l, r, err := numberOperands(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return l - r, nil
	case Slash:
		l, r, err := numberOperands(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return l / r, nil
	case Star:
		l, r, err := numberOperands(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return l * r, nil
	case Greater:
		l, r, err := numberOperands(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return Boolean(l > r), nil
	case GreaterEqual:
		l, r, err := numberOperands(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return Boolean(l >= r), nil
	case Less:
		l, r, err := numberOperands(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return Boolean(l < r), nil
	case LessEqual:
		l, r, err := numberOperands(expr.Operator, left, right)
		if err != nil {
			return nil, err
		}
		return Boolean(l <= r), nil
	case BangEqual:
		return Boolean(!Equal(left, right)), nil
	case EqualEqual:
		return Boolean(Equal(left, right)), nil
	default:
		return nil, &RuntimeError{Token: expr.Operator, Message: "Unknown binary operator."}
	}
}

func numberOperands(op Token, left, right Value) (Number, Number, error) {
	l, lok := left.(Number)
	r, rok := right.(Number)
	if !lok || !rok {
		bad := left
		if lok {
			bad = right
		}
		return 0, 0, &RuntimeError{Token: op, Message: "Operands must be numbers, got " + TypeName(bad) + "."}
	}
	return l, r, nil
}

func literalValue(t Token) Value {
	switch t.Type {
	case Number:
		f, _ := strconv.ParseFloat(t.Lexeme, 64)
		return Number(f)
	case String:
		return String(t.Lexeme)
	case True:
		return Boolean(true)
	case False:
		return Boolean(false)
	default:
		return Nil{}
	}
}
