// Package codegen translates an AST into a C++ translation unit that links against the Aurora runtime.
//
// Every source value becomes an AuroraObject. Declarations are tracked with an explicit Scope
// so that the first assignment to a name declares it and later ones mutate it.
package codegen

import (
	"fmt"
	"strings"

	"github.com/xyproto/aurora/internal/ast"
)

// Header is the first line of every generated unit
const Header = "#include <AuroraRuntime.h>"

const indentUnit = "    "

var stringEscaper = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)

// Generator emits C++ for one program at a time
type Generator struct {
	out    strings.Builder
	indent int
	seq    int // numbers closures so that redeclarations in one C++ block stay distinct
}

func New() *Generator {
	return &Generator{}
}

// Generate translates a parsed program. It cannot fail on a well-formed tree.
func Generate(program *ast.Program) string {
	return New().Generate(program)
}

// Generate resets the generator and returns the translation unit for program
func (g *Generator) Generate(program *ast.Program) string {
	g.out.Reset()
	g.indent = 0
	g.seq = 0

	g.line(Header)
	g.line("int main() {")
	g.indent++
	g.statements(NewScope(), program.Statements)
	g.indent--
	g.line("}")
	return g.out.String()
}

func (g *Generator) line(format string, args ...any) {
	g.out.WriteString(strings.Repeat(indentUnit, g.indent))
	if len(args) == 0 {
		g.out.WriteString(format)
	} else {
		fmt.Fprintf(&g.out, format, args...)
	}
	g.out.WriteByte('\n')
}

func (g *Generator) statements(scope *Scope, stmts []ast.Stmt) {
	for _, stmt := range stmts {
		g.statement(scope, stmt)
	}
}

// block emits a nested block in its own declaration frame, with names pre-declared in it
func (g *Generator) block(scope *Scope, stmts []ast.Stmt, names ...string) {
	scope.Push()
	defer scope.Pop()
	for _, name := range names {
		scope.Declare(name)
	}
	g.indent++
	g.statements(scope, stmts)
	g.indent--
}

func (g *Generator) statement(scope *Scope, stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.EmptyStmt:
	case *ast.AssignStmt:
		if scope.Declared(s.Name) {
			g.line("%s %s %s;", s.Name, s.Operator, g.value(s.Value))
			return
		}
		g.line("auto %s = %s;", s.Name, g.value(s.Value))
		scope.Declare(s.Name)
	case *ast.IndexAssignStmt:
		// the runtime mutator takes the index as a double, so numerals stay bare
		g.line("%s.set(%s, %s);", s.Name, g.expr(s.Index), g.value(s.Value))
	case *ast.CallStmt:
		g.line("%s;", g.call(s.Name, s.Args, false))
	case *ast.IfStmt:
		g.line("if (%s) {", g.expr(s.Condition))
		g.block(scope, s.Then)
		if len(s.Else) > 0 {
			g.line("} else {")
			g.block(scope, s.Else)
		}
		g.line("}")
	case *ast.WhileStmt:
		g.line("while (%s) {", g.expr(s.Condition))
		g.block(scope, s.Body)
		g.line("}")
	case *ast.ForStmt:
		g.line("for (auto& %s : %s) {", s.Variable, g.expr(s.Iterable))
		g.block(scope, s.Body, s.Variable)
		g.line("}")
	case *ast.ReturnStmt:
		if s.Value == nil {
			g.line("return;")
			return
		}
		g.line("return %s;", g.value(s.Value))
	case *ast.BreakStmt:
		g.line("break;")
	case *ast.ContinueStmt:
		g.line("continue;")
	case *ast.FuncStmt:
		g.routine(scope, funcKind{}, s.Name, s.Params, s.Body)
	case *ast.SubStmt:
		g.routine(scope, subKind{}, s.Name, s.Params, s.Body)
	default:
		panic(fmt.Sprintf("codegen: unhandled statement %T", stmt))
	}
}

// routine emits a capture lambda, its trampoline and the binding that pairs them
func (g *Generator) routine(scope *Scope, kind callable, name string, params []string, body []ast.Stmt) {
	rebind := scope.Declared(name)
	capture := fmt.Sprintf("_CAPTURE_%d_%s", g.seq, name)
	wrap := fmt.Sprintf("_PTR_WRAP_%d_%s", g.seq, name)
	g.seq++

	g.line("auto %s = [&](const AuroraObject& %s, int _FN_ARG_COUNT, AuroraObject* _FN_ARGS) -> %s {",
		capture, name, kind.returnType())
	g.indent++
	g.line(`if (_FN_ARG_COUNT != %d) error("incorrect number of args");`, len(params))
	for i, param := range params {
		g.line("auto& %s = _FN_ARGS[%d];", param, i)
	}
	g.indent--
	g.block(scope, body, append([]string{name}, params...)...)
	if guard, ok := kind.guard(); ok {
		g.indent++
		g.line("%s", guard)
		g.indent--
	}
	g.line("};")

	g.line("auto %s = [](void* _LAMBDA_PTR, int _FN_ARG_COUNT, AuroraObject* _FN_ARGS, AuroraObject& _SELF) -> %s {",
		wrap, kind.returnType())
	g.indent++
	g.line("%s", kind.forward(fmt.Sprintf("(*(decltype(%s)*) _LAMBDA_PTR)(_SELF, _FN_ARG_COUNT, _FN_ARGS)", capture)))
	g.indent--
	g.line("};")

	binding := fmt.Sprintf("AuroraObject(%s(%s), &%s)", kind.wrapperType(), wrap, capture)
	if rebind {
		g.line("%s = %s;", name, binding)
		return
	}
	g.line("auto %s = %s;", name, binding)
	scope.Declare(name)
}

// call marshals args into a fixed-size array of dynamic values
func (g *Generator) call(callee string, args []ast.Expr, yieldsValue bool) string {
	if len(args) == 0 {
		return fmt.Sprintf("%s(0, nullptr, %t)", callee, yieldsValue)
	}
	return fmt.Sprintf("%s(%d, std::move((AuroraObject[%d]){%s}), %t)",
		callee, len(args), len(args), g.values(args), yieldsValue)
}

func (g *Generator) values(exprs []ast.Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = g.value(e)
	}
	return strings.Join(parts, ", ")
}

// value generates e where a dynamic value is required, wrapping bare numerals
func (g *Generator) value(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.NumberExpr:
		return "AuroraObject(" + number(v.Value) + ")"
	case *ast.UnaryExpr:
		if n, ok := v.Operand.(*ast.NumberExpr); ok && v.Operator == ast.Neg {
			return "AuroraObject(-" + number(n.Value) + ")"
		}
	}
	return g.expr(e)
}

func (g *Generator) expr(e ast.Expr) string {
	switch v := e.(type) {
	case *ast.NumberExpr:
		return number(v.Value)
	case *ast.BoolExpr:
		return fmt.Sprintf("AuroraObject(%t)", v.Value)
	case *ast.StringExpr:
		return `AuroraObject("` + stringEscaper.Replace(v.Value) + `")`
	case *ast.VariableExpr:
		return v.Name
	case *ast.BinaryExpr:
		return fmt.Sprintf("(%s %s %s)", g.value(v.Left), binaryOperator(v.Operator), g.value(v.Right))
	case *ast.UnaryExpr:
		op := "-"
		if v.Operator == ast.Not {
			op = "!"
		}
		return "(" + op + g.expr(v.Operand) + ")"
	case *ast.ListExpr:
		if len(v.Elements) == 0 {
			return "AuroraObject(std::vector<AuroraObject>{})"
		}
		return "AuroraObject({ " + g.values(v.Elements) + " })"
	case *ast.CallExpr:
		return g.call(g.expr(v.Callee), v.Args, true)
	case *ast.IndexExpr:
		return g.expr(v.Target) + "[" + g.expr(v.Index) + "]"
	}
	panic(fmt.Sprintf("codegen: unhandled expression %T", e))
}

func number(f float64) string {
	return fmt.Sprintf("%.8f", f)
}

func binaryOperator(op ast.BinOp) string {
	switch op {
	case ast.And:
		return "&&"
	case ast.Or:
		return "||"
	}
	return op.String()
}
