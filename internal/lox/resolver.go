package lox

// varStatus tracks a local binding's lifecycle within its scope: declared
// (name reserved, initializer not yet evaluated — reading it now is an
// error, per "var a = a;") then defined (initializer evaluated, safe to
// read).
type varStatus int

const (
	declared varStatus = iota
	defined
)

type functionType int

const (
	noFunction functionType = iota
	inFunction
	inInitializer
	inMethod
)

type classType int

const (
	noClass classType = iota
	inClass
	inSubclass
)

// Resolver performs a single static pass over the Ast between parsing and
// evaluation. Its only externally visible effect is annotating each
// VariableExpr/AssignExpr/ThisExpr/SuperExpr's Depth field in place; it
// reports scope errors (self-referential initializers, top-level return,
// "this" outside a method, a class inheriting from itself) through the same
// Reporter the scanner and parser use.
type Resolver struct {
	reporter   Reporter
	scopes     []map[string]varStatus
	currentFn  functionType
	currentCls classType
}

// NewResolver prepares a Resolver reporting through reporter.
func NewResolver(reporter Reporter) *Resolver {
	return &Resolver{reporter: reporter}
}

// Resolve walks every top-level declaration. Call this once per program
// before interpreting it. Resolution aborts at the first static error: the
// error is reported through the Reporter and Resolve returns immediately
// rather than continuing to walk (and possibly mis-report) the rest of the
// Ast, matching the original resolver's `?`-propagated Result.
func (r *Resolver) Resolve(decls []Declaration) {
	defer func() {
		if rec := recover(); rec != nil {
			if _, ok := rec.(*ResolveError); ok {
				return
			}
			panic(rec)
		}
	}()
	r.resolveDecls(decls)
}

// error reports a static error through the Reporter, then aborts the
// resolution pass by panicking with a ResolveError caught in Resolve.
func (r *Resolver) error(token Token, message string) {
	r.reporter.ErrorAt(token, message)
	panic(&ResolveError{Token: token, Message: message})
}

func (r *Resolver) resolveDecls(decls []Declaration) {
	for _, d := range decls {
		r.resolveDecl(d)
	}
}

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, make(map[string]varStatus))
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

func (r *Resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.error(name, "Already a variable with this name in this scope.")
	}
	scope[name.Lexeme] = declared
}

func (r *Resolver) define(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = defined
}

// resolveLocal walks the scope stack from innermost to outermost and, on the
// FIRST match, records that distance and stops. Stopping at the first match
// is what makes shadowing work: an inner redeclaration of a name must win
// over an outer one, and once the innermost binding is found there is no
// reason — and no correct result — in letting an outer scope's stale match
// overwrite it.
func (r *Resolver) resolveLocal(name Token) *int {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			depth := len(r.scopes) - 1 - i
			return &depth
		}
	}
	return nil
}

func (r *Resolver) resolveDecl(d Declaration) {
	switch decl := d.(type) {
	case *VarDecl:
		r.declare(decl.Name)
		if decl.Initializer != nil {
			r.resolveExpr(decl.Initializer)
		}
		r.define(decl.Name)

	case *FunDecl:
		r.declare(decl.Name)
		r.define(decl.Name)
		r.resolveFunction(decl, inFunction)

	case *ClassDecl:
		r.resolveClass(decl)

	case *Block:
		r.beginScope()
		r.resolveDecls(decl.Decls)
		r.endScope()

	case *ExprStmt:
		r.resolveExpr(decl.Expr)

	case *If:
		r.resolveExpr(decl.Cond)
		r.resolveDecl(decl.Then)
		if decl.Else != nil {
			r.resolveDecl(decl.Else)
		}

	case *While:
		r.resolveExpr(decl.Cond)
		r.resolveDecl(decl.Body)

	case *Print:
		r.resolveExpr(decl.Expr)

	case *Return:
		if r.currentFn == noFunction {
			r.error(decl.Keyword, "Can't return from top-level code.")
		}
		if decl.Expr != nil {
			if r.currentFn == inInitializer {
				r.error(decl.Keyword, "Can't return a value from an initializer.")
			}
			r.resolveExpr(decl.Expr)
		}
	}
}

func (r *Resolver) resolveClass(decl *ClassDecl) {
	enclosingCls := r.currentCls
	r.currentCls = inClass
	defer func() { r.currentCls = enclosingCls }()

	r.declare(decl.Name)
	r.define(decl.Name)

	if decl.Superclass != nil {
		if decl.Superclass.Name.Lexeme == decl.Name.Lexeme {
			r.error(decl.Superclass.Name, "A class can't inherit from itself.")
		}
		r.currentCls = inSubclass
		r.resolveExpr(decl.Superclass)

		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = defined
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = defined

	for _, name := range decl.MethodOrder {
		method := decl.Methods[name]
		ft := inMethod
		if method.Name.Lexeme == "init" {
			ft = inInitializer
		}
		r.resolveFunction(method, ft)
	}

	r.endScope()

	if decl.Superclass != nil {
		r.endScope()
	}
}

func (r *Resolver) resolveFunction(decl *FunDecl, ft functionType) {
	enclosingFn := r.currentFn
	r.currentFn = ft
	defer func() { r.currentFn = enclosingFn }()

	r.beginScope()
	for _, param := range decl.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveDecls(decl.Body)
	r.endScope()
}

func (r *Resolver) resolveExpr(e Expr) {
	switch expr := e.(type) {
	case *VariableExpr:
		if len(r.scopes) > 0 {
			if status, ok := r.scopes[len(r.scopes)-1][expr.Name.Lexeme]; ok && status == declared {
				r.error(expr.Name, "Can't read local variable in its own initializer.")
			}
		}
		expr.Depth = r.resolveLocal(expr.Name)

	case *AssignExpr:
		r.resolveExpr(expr.Value)
		expr.Depth = r.resolveLocal(expr.Name)

	case *BinaryExpr:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)

	case *LogicalExpr:
		r.resolveExpr(expr.Left)
		r.resolveExpr(expr.Right)

	case *UnaryExpr:
		r.resolveExpr(expr.Right)

	case *GroupingExpr:
		r.resolveExpr(expr.Inner)

	case *CallExpr:
		r.resolveExpr(expr.Callee)
		for _, a := range expr.Args {
			r.resolveExpr(a)
		}

	case *GetExpr:
		r.resolveExpr(expr.Object)

	case *SetExpr:
		r.resolveExpr(expr.Value)
		r.resolveExpr(expr.Object)

	case *ThisExpr:
		if r.currentCls == noClass {
			r.error(expr.Keyword, "Can't use 'this' outside of a class.")
		}
		expr.Depth = r.resolveLocal(expr.Keyword)

	case *SuperExpr:
		if r.currentCls == noClass {
			r.error(expr.Keyword, "Can't use 'super' outside of a class.")
		} else if r.currentCls != inSubclass {
			r.error(expr.Keyword, "Can't use 'super' in a class with no superclass.")
		}
		expr.Depth = r.resolveLocal(expr.Keyword)

	case *Literal:
		// no identifiers to resolve
	}
}
