// Package ast implements Expression, the parsed-expression tree used for
// module arguments, production conditions, and successor arguments (spec
// §3/§4.3). Expressions are evaluated against a symbol table of bound
// values; unbound names or failed built-ins evaluate to an undefined
// Value rather than panicking, matching the original's error-tolerant
// evaluator (original_source/src/expression.cpp, Expression::Evaluate).
package ast

import (
	"fmt"
	"math"

	"github.com/lsysgo/lsys/internal/diag"
	"github.com/lsysgo/lsys/internal/engine"
	"github.com/lsysgo/lsys/internal/names"
	"github.com/lsysgo/lsys/internal/symbols"
	"github.com/lsysgo/lsys/internal/values"
)

// Op identifies the operation an Expression node performs.
type Op uint8

const (
	OpValue Op = iota
	OpName
	OpFunction
	OpNeg    // unary -
	OpNot    // unary ~ (bitwise complement)
	OpLNot   // unary ! (logical complement)
	OpAnd    // &
	OpOr     // |
	OpLAnd   // &&
	OpLOr    // ||
	OpEq     // ==
	OpNe     // !=
	OpLt     // <
	OpLe     // <=
	OpGe     // >=
	OpGt     // >
	OpAdd    // +
	OpSub    // -
	OpMul    // *
	OpDiv    // /
	OpMod    // %
	OpPow    // ^ (power, not XOR)
)

// Expression is a node in a parsed expression tree. Exactly one of the
// kind-specific fields is meaningful, selected by Op; a zero Expression
// is never constructed directly, only via the New* constructors.
type Expression struct {
	op Op

	value values.Value  // OpValue
	name  names.ID      // OpName, OpFunction (function name)
	args  []*Expression // OpFunction call arguments

	left  *Expression // unary/binary operators
	right *Expression // binary operators
}

// NewValue returns a leaf node wrapping a bound value.
func NewValue(v values.Value) *Expression {
	return &Expression{op: OpValue, value: v}
}

// NewName returns a leaf node referring to a symbol-table variable.
func NewName(id names.ID) *Expression {
	return &Expression{op: OpName, name: id}
}

// NewFunction returns a function-call node.
func NewFunction(id names.ID, args []*Expression) *Expression {
	return &Expression{op: OpFunction, name: id, args: args}
}

// NewUnary returns a unary-operator node. op must be OpNeg, OpNot, or
// OpLNot.
func NewUnary(op Op, operand *Expression) *Expression {
	return &Expression{op: op, left: operand}
}

// NewBinary returns a binary-operator node.
func NewBinary(op Op, left, right *Expression) *Expression {
	return &Expression{op: op, left: left, right: right}
}

// Op reports the node's operation.
func (e *Expression) Op() Op { return e.op }

// IsName reports whether e is a bare variable reference, and if so its
// interned name id.
func (e *Expression) IsName() (names.ID, bool) {
	if e.op == OpName {
		return e.name, true
	}
	return 0, false
}

// Env is the evaluation context an Expression is evaluated against: a
// symbol table of bound values plus the engine-scoped random source used
// by rand/srand.
type Env struct {
	Symbols *symbols.Table[values.Value]
	Engine  *engine.Engine
	Diag    diag.Sink
}

// Evaluate walks the expression tree, returning values.Undef for any
// unresolved name, unimplemented function, or operator type mismatch —
// mirroring the original's tolerant-with-a-warning evaluator.
func (e *Expression) Evaluate(env Env) values.Value {
	switch e.op {
	case OpValue:
		return e.value

	case OpName:
		if v, ok := env.Symbols.Lookup(e.name); ok {
			return v
		}
		env.warnf("unbound variable %q", env.nameStr(e.name))
		return values.Undef

	case OpFunction:
		fn, ok := builtins[env.nameStr(e.name)]
		if !ok {
			env.warnf("unimplemented function %q", env.nameStr(e.name))
			return values.Undef
		}
		return fn(env, e.args)

	case OpNeg:
		return e.left.Evaluate(env).Neg()
	case OpNot:
		return e.left.Evaluate(env).Not()
	case OpLNot:
		return e.left.Evaluate(env).LogicalNot()

	case OpAnd:
		return e.left.Evaluate(env).And(e.right.Evaluate(env))
	case OpOr:
		return e.left.Evaluate(env).Or(e.right.Evaluate(env))
	case OpLAnd:
		return e.left.Evaluate(env).LogicalAnd(e.right.Evaluate(env))
	case OpLOr:
		return e.left.Evaluate(env).LogicalOr(e.right.Evaluate(env))
	case OpEq:
		return e.left.Evaluate(env).Eq(e.right.Evaluate(env))
	case OpNe:
		return e.left.Evaluate(env).Ne(e.right.Evaluate(env))
	case OpLt:
		return e.left.Evaluate(env).Lt(e.right.Evaluate(env))
	case OpLe:
		return e.left.Evaluate(env).Le(e.right.Evaluate(env))
	case OpGe:
		return e.left.Evaluate(env).Ge(e.right.Evaluate(env))
	case OpGt:
		return e.left.Evaluate(env).Gt(e.right.Evaluate(env))
	case OpAdd:
		return e.left.Evaluate(env).Add(e.right.Evaluate(env))
	case OpSub:
		return e.left.Evaluate(env).Sub(e.right.Evaluate(env))
	case OpMul:
		return e.left.Evaluate(env).Mul(e.right.Evaluate(env))
	case OpDiv:
		return e.left.Evaluate(env).Div(e.right.Evaluate(env))
	case OpMod:
		return e.left.Evaluate(env).Mod(e.right.Evaluate(env))
	case OpPow:
		return e.left.Evaluate(env).Pow(e.right.Evaluate(env))

	default:
		env.warnf("unrecognized operator %d", e.op)
		return values.Undef
	}
}

func (env Env) warnf(format string, args ...any) {
	if env.Diag != nil {
		env.Diag.Warnf(format, args...)
	}
}

func (env Env) nameStr(id names.ID) string {
	if env.Engine == nil {
		return fmt.Sprintf("#%d", id)
	}
	return env.Engine.Names.Lookup(id)
}

// builtinFunc evaluates a function-call node's already-parsed argument
// expressions against env.
type builtinFunc func(env Env, args []*Expression) values.Value

// arg evaluates the i'th argument as a float, reporting ok=false if
// there is no such argument or it is undefined.
func arg(env Env, args []*Expression, i int) (float64, bool) {
	if i >= len(args) {
		return 0, false
	}
	return args[i].Evaluate(env).Float()
}

func toRadians(deg float64) float64 { return deg * math.Pi / 180.0 }
func toDegrees(rad float64) float64 { return rad * 180.0 / math.Pi }

// builtinTable is the fixed built-in function table (original_source's
// GetFunctionSymbolTable). Trig functions take/return degrees, matching
// the L-system convention of degree-valued turtle angles.
var builtinTable = map[string]builtinFunc{
	"sin": func(env Env, args []*Expression) values.Value {
		if x, ok := arg(env, args, 0); ok {
			return values.NewFloat(math.Sin(toRadians(x)))
		}
		return values.Undef
	},
	"cos": func(env Env, args []*Expression) values.Value {
		if x, ok := arg(env, args, 0); ok {
			return values.NewFloat(math.Cos(toRadians(x)))
		}
		return values.Undef
	},
	"tan": func(env Env, args []*Expression) values.Value {
		if x, ok := arg(env, args, 0); ok {
			return values.NewFloat(math.Tan(toRadians(x)))
		}
		return values.Undef
	},
	"asin": func(env Env, args []*Expression) values.Value {
		if x, ok := arg(env, args, 0); ok {
			return values.NewFloat(toDegrees(math.Asin(x)))
		}
		return values.Undef
	},
	"acos": func(env Env, args []*Expression) values.Value {
		if x, ok := arg(env, args, 0); ok {
			return values.NewFloat(toDegrees(math.Acos(x)))
		}
		return values.Undef
	},
	"atan": func(env Env, args []*Expression) values.Value {
		if x, ok := arg(env, args, 0); ok {
			return values.NewFloat(toDegrees(math.Atan(x)))
		}
		return values.Undef
	},
	"atan2": func(env Env, args []*Expression) values.Value {
		y, okY := arg(env, args, 0)
		x, okX := arg(env, args, 1)
		if okY && okX {
			return values.NewFloat(toDegrees(math.Atan2(y, x)))
		}
		return values.Undef
	},
	"abs": func(env Env, args []*Expression) values.Value {
		if len(args) < 1 {
			return values.Undef
		}
		return args[0].Evaluate(env).Abs()
	},
	"ceil": func(env Env, args []*Expression) values.Value {
		if x, ok := arg(env, args, 0); ok {
			return values.NewInt(int(math.Ceil(x)))
		}
		return values.Undef
	},
	"floor": func(env Env, args []*Expression) values.Value {
		if x, ok := arg(env, args, 0); ok {
			return values.NewInt(int(math.Floor(x)))
		}
		return values.Undef
	},
	"exp": func(env Env, args []*Expression) values.Value {
		if x, ok := arg(env, args, 0); ok {
			return values.NewFloat(math.Exp(x))
		}
		return values.Undef
	},
	"log": func(env Env, args []*Expression) values.Value {
		if x, ok := arg(env, args, 0); ok {
			return values.NewFloat(math.Log(x))
		}
		return values.Undef
	},
	"log10": func(env Env, args []*Expression) values.Value {
		if x, ok := arg(env, args, 0); ok {
			return values.NewFloat(math.Log10(x))
		}
		return values.Undef
	},
	// rand() returns [0,1); rand(n) returns [0,n).
	"rand": func(env Env, args []*Expression) values.Value {
		r := env.Engine.Float64()
		if x, ok := arg(env, args, 0); ok {
			return values.NewFloat(x * r)
		}
		return values.NewFloat(r)
	},
	// srand() reseeds from the current time; srand(n) reseeds with n.
	// Returns the seed used, as an int.
	"srand": func(env Env, args []*Expression) values.Value {
		var seed int64
		if x, ok := arg(env, args, 0); ok {
			seed = int64(x)
		} else {
			seed = env.Engine.TimeSeed()
		}
		env.Engine.Reseed(seed)
		return values.NewInt(int(seed))
	},
}

// builtins is filled in by init from builtinTable: the table's entries
// call Evaluate, which looks names up here, so a direct initializer
// would be an initialization cycle.
var builtins map[string]builtinFunc

func init() { builtins = builtinTable }

// Bind evaluates each expression in args against env and enters the
// result into symbolTable under the corresponding formal's name. formals
// and args must Conform; either being nil is a no-op success, matching the original's
// "no binding need be done if one list is NULL" shortcut.
func Bind(formals, args []*Expression, symbolTable *symbols.Table[values.Value], env Env) bool {
	if formals == nil || args == nil {
		return true
	}
	if !Conforms(formals, args) {
		env.warnf("formal and value argument lists are not the same length")
		return false
	}
	for i, formal := range formals {
		id, ok := formal.IsName()
		if !ok {
			env.warnf("left expression is not a formal parameter")
			return false
		}
		if args[i].op != OpValue {
			env.warnf("right expression is not a bound value")
			return false
		}
		symbolTable.Enter(id, args[i].Evaluate(env))
	}
	return true
}

// Conforms reports whether formals and args have the same length.
func Conforms(formals, args []*Expression) bool {
	return len(formals) == len(args)
}

// Instantiate returns a copy of exprs with every element evaluated
// against env and replaced by an OpValue leaf — the step that turns a
// production successor's argument expressions into a new module's
// concrete arguments.
func Instantiate(exprs []*Expression, env Env) []*Expression {
	if exprs == nil {
		return nil
	}
	out := make([]*Expression, len(exprs))
	for i, e := range exprs {
		out[i] = NewValue(e.Evaluate(env))
	}
	return out
}
