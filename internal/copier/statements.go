package copier

import (
	"github.com/cwbudde/go-jiyu/internal/ast"
	"github.com/cwbudde/go-jiyu/internal/atom"
)

// CopyStatement deep-clones a single statement node, including
// declaration-shaped statements (Declaration, Function, Struct, Enum,
// TypeAlias, Library), which are all Statements in this AST.
func (c *Copier) CopyStatement(s ast.Statement) ast.Statement {
	if s == nil {
		return nil
	}
	switch n := s.(type) {
	case *ast.Declaration:
		return c.copyDeclaration(n)

	case *ast.Function:
		return c.copyFunction(n)

	case *ast.Struct:
		return c.copyStruct(n)

	case *ast.Enum:
		return c.copyEnum(n)

	case *ast.TypeAlias:
		clone := &ast.TypeAlias{Name: n.Name, TypeExpr: c.CopyExpression(n.TypeExpr)}
		clone.SetSpan(n.Span())
		return clone

	case *ast.Library:
		clone := &ast.Library{Path: n.Path, Framework: n.Framework}
		clone.SetSpan(n.Span())
		return clone

	case *ast.ExpressionStatement:
		clone := &ast.ExpressionStatement{Expr: c.CopyExpression(n.Expr)}
		clone.SetSpan(n.Span())
		return clone

	case *ast.If:
		clone := &ast.If{
			Cond: c.CopyExpression(n.Cond),
			Then: c.CopyScope(n.Then, c.curScope()),
		}
		if n.Else != nil {
			clone.Else = c.CopyStatement(n.Else)
		}
		clone.SetSpan(n.Span())
		return clone

	case *ast.While:
		clone := &ast.While{Cond: c.CopyExpression(n.Cond), Body: c.CopyScope(n.Body, c.curScope())}
		clone.SetSpan(n.Span())
		return clone

	case *ast.For:
		clone := &ast.For{
			Kind:       n.Kind,
			RangeStart: c.CopyExpression(n.RangeStart),
			RangeEnd:   c.CopyExpression(n.RangeEnd),
			Collection: c.CopyExpression(n.Collection),
		}
		if n.IndexVar != nil {
			clone.IndexVar = c.copyDeclaration(n.IndexVar)
		}
		if n.ValueVar != nil {
			clone.ValueVar = c.copyDeclaration(n.ValueVar)
		}
		clone.Body = c.CopyScope(n.Body, c.curScope())
		clone.SetSpan(n.Span())
		return clone

	case *ast.Switch:
		clone := &ast.Switch{Subject: c.CopyExpression(n.Subject)}
		for _, cs := range n.Cases {
			clone.Cases = append(clone.Cases, c.copyCase(cs))
		}
		clone.SetSpan(n.Span())
		return clone

	case *ast.Return:
		clone := &ast.Return{Value: c.CopyExpression(n.Value)}
		clone.SetSpan(n.Span())
		return clone

	case *ast.ControlFlow:
		clone := &ast.ControlFlow{Kind: n.Kind}
		clone.SetSpan(n.Span())
		return clone

	case *ast.Load:
		clone := &ast.Load{Path: n.Path}
		clone.SetSpan(n.Span())
		return clone

	case *ast.Import:
		clone := &ast.Import{Module: n.Module}
		clone.SetSpan(n.Span())
		return clone

	case *ast.StaticIf:
		clone := &ast.StaticIf{Cond: c.CopyExpression(n.Cond), Then: c.CopyScope(n.Then, c.curScope())}
		if n.Else != nil {
			clone.Else = c.CopyScope(n.Else, c.curScope())
		}
		clone.SetSpan(n.Span())
		return clone

	case *ast.ScopeExpansion:
		clone := &ast.ScopeExpansion{Source: c.CopyScope(n.Source, c.curScope())}
		clone.SetSpan(n.Span())
		return clone

	default:
		return s
	}
}

func (c *Copier) copyCase(n *ast.Case) *ast.Case {
	clone := &ast.Case{Body: c.CopyScope(n.Body, c.curScope())}
	for _, v := range n.Values {
		clone.Values = append(clone.Values, c.CopyExpression(v))
	}
	clone.SetSpan(n.Span())
	return clone
}

func (c *Copier) copyDeclaration(n *ast.Declaration) *ast.Declaration {
	clone := &ast.Declaration{
		Kind:               n.Kind,
		Name:               n.Name,
		TypeExpr:           c.CopyExpression(n.TypeExpr),
		Initializer:        c.CopyExpression(n.Initializer),
		IsReadonlyVariable: n.IsReadonlyVariable,
	}
	clone.SetSpan(n.Span())
	c.declMap[n] = clone
	return clone
}

func (c *Copier) copyFunction(n *ast.Function) *ast.Function {
	clone := &ast.Function{
		Name:          n.Name,
		PolyParams:    append([]atom.Atom(nil), n.PolyParams...),
		ReturnType:    c.CopyExpression(n.ReturnType),
		IsCFunction:   n.IsCFunction,
		IsCVarargs:    n.IsCVarargs,
		IsExported:    n.IsExported,
		IsMetaprogram: n.IsMetaprogram,
		Template:      n,
	}
	for _, param := range n.Params {
		clone.Params = append(clone.Params, c.copyDeclaration(param))
	}
	if n.Body != nil {
		clone.Body = c.CopyScope(n.Body, c.curScope())
		for _, param := range clone.Params {
			clone.Body.Declare(param.Name, param)
		}
	}
	clone.SetSpan(n.Span())
	return clone
}

func (c *Copier) copyStruct(n *ast.Struct) *ast.Struct {
	clone := &ast.Struct{
		Name:    n.Name,
		IsUnion: n.IsUnion,
		Parent:  c.CopyExpression(n.Parent),
	}
	if n.Members != nil {
		clone.Members = c.CopyScope(n.Members, c.curScope())
	}
	clone.SetSpan(n.Span())
	return clone
}

func (c *Copier) copyEnum(n *ast.Enum) *ast.Enum {
	clone := &ast.Enum{Name: n.Name, Base: c.CopyExpression(n.Base)}
	if n.Members != nil {
		clone.Members = c.CopyScope(n.Members, c.curScope())
	}
	clone.SetSpan(n.Span())
	return clone
}
