package lox

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is any runtime Lox value: Nil, Boolean, Number, String, *LoxFunction,
// *NativeFunction, *LoxClass, or *LoxInstance. The interpreter type-switches
// on it rather than forcing a single Go type to represent every case.
type Value interface{}

// Nil is the Lox nil value — a concrete, comparable placeholder rather than
// a bare Go nil, so a Value holding "no value" is never confused with an
// absent interface.
type Nil struct{}

// Boolean is a Lox true/false value.
type Boolean bool

// Number is a Lox numeric value; Lox has one numeric type, float64.
type Number float64

// String is a Lox string value.
type String string

// Callable is implemented by anything that can appear on the left of a call
// expression: user-defined functions, methods, classes (as constructors),
// and native functions like clock().
type Callable interface {
	Arity() int
	Call(interp *Interpreter, args []Value) (Value, error)
	String() string
}

// LoxFunction is a user-defined function or method, closed over the
// Environment active at the point of declaration. IsInitializer marks a
// class's init method, which always returns the bound instance regardless
// of what its body returns.
type LoxFunction struct {
	Decl          *FunDecl
	Closure       *Environment
	IsInitializer bool
}

// Arity is the declared parameter count.
func (f *LoxFunction) Arity() int { return len(f.Decl.Params) }

// Call runs the function body in a fresh frame nested in its closure, binds
// each parameter, and executes the body as a block. A returnSignal raised by
// the body is caught here and converted into this call's result; any other
// error propagates to the caller unchanged.
func (f *LoxFunction) Call(interp *Interpreter, args []Value) (Value, error) {
	env := f.Closure.NewBlock()
	for i, param := range f.Decl.Params {
		env.Define(param.Lexeme, args[i])
	}

	err := interp.executeBlock(f.Decl.Body, env)
	if val, ok := asReturn(err); ok {
		if f.IsInitializer {
			return f.Closure.GetAt(0, "this"), nil
		}
		return val, nil
	}
	if err != nil {
		return nil, err
	}
	if f.IsInitializer {
		return f.Closure.GetAt(0, "this"), nil
	}
	return Nil{}, nil
}

func (f *LoxFunction) String() string {
	return "<fn " + f.Decl.Name.Lexeme + ">"
}

// bind returns a copy of f whose closure has "this" bound to instance. Each
// bind call creates a fresh one-entry frame, so extracting the same method
// off two different instances (obj1.method, obj2.method) produces two
// distinct functions that close over different receivers, while repeatedly
// extracting it off the same instance keeps producing functions that share
// a receiver — this is what makes method values behave like late-bound
// closures instead of plain function pointers.
func (f *LoxFunction) bind(instance *LoxInstance) *LoxFunction {
	env := f.Closure.NewBlock()
	env.Define("this", instance)
	return &LoxFunction{Decl: f.Decl, Closure: env, IsInitializer: f.IsInitializer}
}

// NativeFunction wraps a Go function as a Lox callable, used for builtins
// like clock().
type NativeFunction struct {
	Name string
	Arr  int
	Fn   func(interp *Interpreter, args []Value) (Value, error)
}

func (n *NativeFunction) Arity() int { return n.Arr }

func (n *NativeFunction) Call(interp *Interpreter, args []Value) (Value, error) {
	return n.Fn(interp, args)
}

func (n *NativeFunction) String() string { return "<native fn " + n.Name + ">" }

// LoxClass is a class object: a name, its own method table, and an optional
// superclass link. Classes are themselves Callable — calling one constructs
// a new instance.
type LoxClass struct {
	Name       string
	Superclass *LoxClass
	Methods    map[string]*LoxFunction
}

// FindMethod looks up name in this class's own method table, then walks the
// superclass chain. It returns the unbound *LoxFunction; callers needing a
// bound method (i.e. anything invoking it on an instance) must call bind.
func (c *LoxClass) FindMethod(name string) *LoxFunction {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Arity is the arity of the init method found on the class or an ancestor,
// or 0 if neither declares one.
func (c *LoxClass) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call constructs a new instance and, if the class (or an ancestor) defines
// init, runs it bound to that instance before returning it.
func (c *LoxClass) Call(interp *Interpreter, args []Value) (Value, error) {
	instance := &LoxInstance{Class: c, Fields: make(map[string]Value)}
	if init := c.FindMethod("init"); init != nil {
		if _, err := init.bind(instance).Call(interp, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (c *LoxClass) String() string { return c.Name }

// LoxInstance is an object of some LoxClass: a mutable field table plus a
// back-reference to its class for method lookup.
type LoxInstance struct {
	Class  *LoxClass
	Fields map[string]Value
}

// Get reads a field if one is set, otherwise looks up and binds a method.
// Fields shadow methods, matching the book's property-resolution order.
func (i *LoxInstance) Get(name Token) (Value, error) {
	if v, ok := i.Fields[name.Lexeme]; ok {
		return v, nil
	}
	if m := i.Class.FindMethod(name.Lexeme); m != nil {
		return m.bind(i), nil
	}
	return nil, &RuntimeError{Token: name, Message: "Undefined property '" + name.Lexeme + "'."}
}

// Set assigns a field, creating it if absent. Lox instances have no notion
// of a fixed field set declared up front.
func (i *LoxInstance) Set(name Token, value Value) {
	i.Fields[name.Lexeme] = value
}

func (i *LoxInstance) String() string { return i.Class.Name + " instance" }

// Truthy implements Lox's truthiness rule: nil and false are falsy,
// everything else — including 0 and "" — is truthy.
func Truthy(v Value) bool {
	switch vv := v.(type) {
	case Nil:
		return false
	case Boolean:
		return bool(vv)
	default:
		return true
	}
}

// Equal implements Lox's == operator. Values of different underlying types
// are never equal (no implicit coercion), matching the book's semantics.
func Equal(a, b Value) bool {
	switch av := a.(type) {
	case Nil:
		_, ok := b.(Nil)
		return ok
	case Boolean:
		bv, ok := b.(Boolean)
		return ok && av == bv
	case Number:
		bv, ok := b.(Number)
		return ok && av == bv
	case String:
		bv, ok := b.(String)
		return ok && av == bv
	default:
		return a == b
	}
}

// Stringify renders a Value the way `print` displays it.
func Stringify(v Value) string {
	switch vv := v.(type) {
	case Nil:
		return "nil"
	case Boolean:
		if vv {
			return "true"
		}
		return "false"
	case Number:
		s := strconv.FormatFloat(float64(vv), 'f', -1, 64)
		return s
	case String:
		return string(vv)
	case *LoxFunction:
		return "FUNCTION"
	case *NativeFunction:
		return "FUNCTION"
	case fmt.Stringer:
		return vv.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

// TypeName names v's dynamic type for error messages, e.g. "number",
// "string", "Foo instance".
func TypeName(v Value) string {
	switch vv := v.(type) {
	case Nil:
		return "nil"
	case Boolean:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case *LoxInstance:
		return vv.Class.Name + " instance"
	case *LoxClass:
		return "class"
	case Callable:
		return "function"
	default:
		return strings.ToLower(fmt.Sprintf("%T", v))
	}
}
