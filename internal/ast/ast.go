// Package ast defines the syntax tree shared by the parser and the code generator
package ast

import (
	"strconv"
	"strings"
)

type Node interface {
	String() string
}

type Expr interface {
	Node
	exprNode()
}

type Stmt interface {
	Node
	stmtNode()
}

// Program is an ordered sequence of top-level statements
type Program struct {
	Statements []Stmt
}

func (p *Program) String() string {
	var out strings.Builder
	for _, stmt := range p.Statements {
		out.WriteString(stmt.String())
		out.WriteString("\n")
	}
	return out.String()
}

// BinOp is a binary operator
type BinOp int

const (
	Add BinOp = iota
	Sub
	Mul
	Div
	Mod
	Less
	LessEq
	Greater
	GreaterEq
	Eq
	NotEq
	And
	Or
)

func (op BinOp) String() string {
	switch op {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	case Mod:
		return "%"
	case Less:
		return "<"
	case LessEq:
		return "<="
	case Greater:
		return ">"
	case GreaterEq:
		return ">="
	case Eq:
		return "=="
	case NotEq:
		return "!="
	case And:
		return "and"
	case Or:
		return "or"
	default:
		return "?"
	}
}

// UnaryOp is a prefix operator
type UnaryOp int

const (
	Neg UnaryOp = iota
	Not
)

func (op UnaryOp) String() string {
	if op == Not {
		return "not"
	}
	return "-"
}

// AssignOp is a plain or compound assignment operator
type AssignOp int

const (
	Assign AssignOp = iota
	AddAssign
	SubAssign
	MulAssign
	DivAssign
	ModAssign
)

func (op AssignOp) String() string {
	switch op {
	case AddAssign:
		return "+="
	case SubAssign:
		return "-="
	case MulAssign:
		return "*="
	case DivAssign:
		return "/="
	case ModAssign:
		return "%="
	default:
		return "="
	}
}

// Expressions

type NumberExpr struct {
	Value float64
}

func (n *NumberExpr) String() string { return strconv.FormatFloat(n.Value, 'f', -1, 64) }
func (n *NumberExpr) exprNode()      {}

type BoolExpr struct {
	Value bool
}

func (b *BoolExpr) String() string { return strconv.FormatBool(b.Value) }
func (b *BoolExpr) exprNode()      {}

type StringExpr struct {
	Value string
}

func (s *StringExpr) String() string { return "\"" + s.Value + "\"" }
func (s *StringExpr) exprNode()      {}

type VariableExpr struct {
	Name string
}

func (v *VariableExpr) String() string { return v.Name }
func (v *VariableExpr) exprNode()      {}

type BinaryExpr struct {
	Left     Expr
	Operator BinOp
	Right    Expr
}

func (b *BinaryExpr) String() string {
	return "(" + b.Left.String() + " " + b.Operator.String() + " " + b.Right.String() + ")"
}
func (b *BinaryExpr) exprNode() {}

type UnaryExpr struct {
	Operator UnaryOp
	Operand  Expr
}

func (u *UnaryExpr) String() string {
	if u.Operator == Not {
		return "(not " + u.Operand.String() + ")"
	}
	return "(-" + u.Operand.String() + ")"
}
func (u *UnaryExpr) exprNode() {}

type ListExpr struct {
	Elements []Expr
}

func (l *ListExpr) String() string {
	return "[" + joinExprs(l.Elements) + "]"
}
func (l *ListExpr) exprNode() {}

type CallExpr struct {
	Callee Expr
	Args   []Expr
}

func (c *CallExpr) String() string {
	return c.Callee.String() + "(" + joinExprs(c.Args) + ")"
}
func (c *CallExpr) exprNode() {}

type IndexExpr struct {
	Target Expr
	Index  Expr
}

func (i *IndexExpr) String() string {
	return i.Target.String() + "[" + i.Index.String() + "]"
}
func (i *IndexExpr) exprNode() {}

// Statements

type IfStmt struct {
	Condition Expr
	Then      []Stmt
	Else      []Stmt
}

func (i *IfStmt) String() string {
	s := "if " + i.Condition.String() + " " + block(i.Then)
	if len(i.Else) > 0 {
		s += " else " + block(i.Else)
	}
	return s + " end"
}
func (i *IfStmt) stmtNode() {}

type WhileStmt struct {
	Condition Expr
	Body      []Stmt
}

func (w *WhileStmt) String() string {
	return "while " + w.Condition.String() + " " + block(w.Body) + " end"
}
func (w *WhileStmt) stmtNode() {}

type ForStmt struct {
	Variable string
	Iterable Expr
	Body     []Stmt
}

func (f *ForStmt) String() string {
	return "for " + f.Variable + " " + f.Iterable.String() + " " + block(f.Body) + " end"
}
func (f *ForStmt) stmtNode() {}

type AssignStmt struct {
	Name     string
	Operator AssignOp
	Value    Expr
}

func (a *AssignStmt) String() string {
	return a.Name + " " + a.Operator.String() + " " + a.Value.String()
}
func (a *AssignStmt) stmtNode() {}

// FuncStmt declares a function; its body is expected to return a value
type FuncStmt struct {
	Name   string
	Params []string
	Body   []Stmt
}

func (f *FuncStmt) String() string {
	return "fn " + f.Name + "(" + strings.Join(f.Params, ", ") + ") " + block(f.Body) + " end"
}
func (f *FuncStmt) stmtNode() {}

// SubStmt declares a subroutine, which returns nothing
type SubStmt struct {
	Name   string
	Params []string
	Body   []Stmt
}

func (s *SubStmt) String() string {
	return "sub " + s.Name + "(" + strings.Join(s.Params, ", ") + ") " + block(s.Body) + " end"
}
func (s *SubStmt) stmtNode() {}

// ReturnStmt returns from the enclosing function. Value is nil for a bare return.
type ReturnStmt struct {
	Value Expr
}

func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "return"
	}
	return "return " + r.Value.String()
}
func (r *ReturnStmt) stmtNode() {}

type BreakStmt struct{}

func (b *BreakStmt) String() string { return "break" }
func (b *BreakStmt) stmtNode()      {}

type ContinueStmt struct{}

func (c *ContinueStmt) String() string { return "continue" }
func (c *ContinueStmt) stmtNode()      {}

type IndexAssignStmt struct {
	Name  string
	Index Expr
	Value Expr
}

func (i *IndexAssignStmt) String() string {
	return i.Name + "[" + i.Index.String() + "] = " + i.Value.String()
}
func (i *IndexAssignStmt) stmtNode() {}

// CallStmt is a call whose result is discarded
type CallStmt struct {
	Name string
	Args []Expr
}

func (c *CallStmt) String() string {
	return c.Name + "(" + joinExprs(c.Args) + ")"
}
func (c *CallStmt) stmtNode() {}

// EmptyStmt comes from a blank line
type EmptyStmt struct{}

func (e *EmptyStmt) String() string { return "" }
func (e *EmptyStmt) stmtNode()      {}

func joinExprs(exprs []Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}

func block(stmts []Stmt) string {
	var parts []string
	for _, s := range stmts {
		if _, ok := s.(*EmptyStmt); ok {
			continue
		}
		parts = append(parts, s.String())
	}
	if len(parts) == 0 {
		return "{ }"
	}
	return "{ " + strings.Join(parts, "; ") + " }"
}
