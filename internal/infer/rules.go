package infer

import (
	"fmt"

	"github.com/vela-lang/typecore/internal/astir"
	"github.com/vela-lang/typecore/internal/diagnostic"
	"github.com/vela-lang/typecore/internal/ids"
	"github.com/vela-lang/typecore/internal/symtab"
	"github.com/vela-lang/typecore/internal/typeterm"
	"github.com/vela-lang/typecore/internal/unify"
)

func (c *Context) inferLiteral(lit *astir.Literal) typeterm.Type {
	if lit.TypeHint != nil {
		return c.write(lit, lit.TypeHint)
	}

	switch lit.Kind {
	case astir.LitBool:
		return c.write(lit, &typeterm.Primitive{PKind: typeterm.Bool})
	case astir.LitString:
		return c.write(lit, &typeterm.Primitive{PKind: typeterm.CString})
	case astir.LitChar:
		return c.write(lit, &typeterm.Primitive{PKind: typeterm.Char})
	case astir.LitNumber:
		if lit.IsReal {
			return c.write(lit, &typeterm.Primitive{PKind: typeterm.Real, Width: c.cfg.DefaultRealWidth})
		}
		return c.write(lit, &typeterm.Primitive{PKind: typeterm.Integer, Width: c.cfg.DefaultIntWidth, Signed: true})
	case astir.LitNullptr:
		return c.write(lit, &typeterm.Pointer{Inner: c.createTypeVariable("nullptr")})
	default:
		panic(fmt.Sprintf("infer: unknown literal kind %v", lit.Kind))
	}
}

func (c *Context) inferParameter(p *astir.Parameter) typeterm.Type {
	if p.TypeHint != nil {
		return c.write(p, p.TypeHint)
	}
	return c.write(p, c.createTypeVariable(p.Name))
}

func (c *Context) inferBinding(b *astir.Binding) typeterm.Type {
	valueType := c.Visit(b.Value)
	if b.TypeHint != nil {
		c.addConstraint(b.TypeHint, valueType, fmt.Sprintf("binding %q", b.Name))
		return c.write(b, b.TypeHint)
	}
	return c.write(b, valueType)
}

// inferReference implements spec §4.2's "not cached, crucial for
// polymorphic fns" rule: every use re-derives the target's type rather
// than reading a memoized one, so distinct call sites of the same
// unannotated function each get their own fresh type variables.
func (c *Context) inferReference(ref *astir.Reference) typeterm.Type {
	item, ok := c.symtab.Resolve(ref.Link)
	if !ok {
		c.addError(diagnostic.NewUnboundVariable(ref.Name, ref.Name))
		return c.write(ref, c.createTypeVariable(ref.Name))
	}

	switch v := item.(type) {
	case symtab.FunctionItem:
		return c.write(ref, c.transient(v.Node))

	case symtab.ForeignFunctionItem:
		return c.write(ref, v.Signature)

	case symtab.ForeignVarItem:
		return c.write(ref, v.Type)

	case symtab.ParameterItem:
		return c.write(ref, c.lookupDecl(v.DeclTypeID, ref))
	case symtab.BindingItem:
		return c.write(ref, c.lookupDecl(v.DeclTypeID, ref))
	case symtab.ConstantItem:
		return c.write(ref, c.lookupDecl(v.DeclTypeID, ref))
	case symtab.ClosureCaptureItem:
		return c.write(ref, c.lookupDecl(v.DeclTypeID, ref))

	default:
		c.addError(diagnostic.NewUnboundVariable(ref.Name, ref.Name))
		return c.write(ref, c.createTypeVariable(ref.Name))
	}
}

// lookupDecl reads the type the walker already wrote for a
// non-function declaration (parameters, bindings, constants, closure
// captures aren't re-walked on reference — only Function references
// get a fresh transient walk, per spec §4.2).
func (c *Context) lookupDecl(declTypeID ids.TypeID, ref *astir.Reference) typeterm.Type {
	ty, ok := c.typeEnv[declTypeID]
	if !ok {
		c.addError(diagnostic.NewMissingSymbolTableEntry(declTypeID, fmt.Sprintf("reference %q", ref.Name)))
		return c.createTypeVariable(ref.Name)
	}
	return ty
}

// --- Closure / Function ---

func (c *Context) inferFunction(fn *astir.Function) typeterm.Type {
	if sig, ok := c.inProgress[fn.TypeID()]; ok {
		return sig
	}

	paramTypes := make([]typeterm.Type, len(fn.Signature.Parameters))
	for i, p := range fn.Signature.Parameters {
		paramTypes[i] = c.Visit(p)
	}

	var returnType typeterm.Type
	if fn.Signature.ReturnTypeHint != nil {
		returnType = fn.Signature.ReturnTypeHint
	} else {
		returnType = c.createTypeVariable(fn.Name + ".return")
	}

	arity := typeterm.Fixed()
	if fn.Signature.Variadic {
		arity = typeterm.VariadicMin(len(paramTypes))
	}
	sig := &typeterm.Signature{ParameterTypes: paramTypes, ReturnType: returnType, Arity: arity}

	// Registered before the body walk so self-references resolve
	// through inProgress above instead of looping (spec §4.2: "enables
	// recursion").
	c.inProgress[fn.TypeID()] = sig
	defer delete(c.inProgress, fn.TypeID())
	c.write(fn, sig)

	if fn.Body != nil {
		c.constrain(fn.Body, returnType, fmt.Sprintf("function %q body", fn.Name))
	}

	return sig
}

func (c *Context) inferForeignFunction(ff *astir.ForeignFunction) typeterm.Type {
	paramTypes := make([]typeterm.Type, len(ff.Signature.Parameters))
	for i, p := range ff.Signature.Parameters {
		if p.TypeHint == nil {
			c.addError(diagnostic.NewTypeResolutionFailure(ff.Name,
				fmt.Sprintf("foreign function parameter %d has no type hint", i)))
			paramTypes[i] = c.createTypeVariable(p.Name)
			continue
		}
		paramTypes[i] = p.TypeHint
	}

	returnType := ff.Signature.ReturnTypeHint
	if returnType == nil {
		c.addError(diagnostic.NewTypeResolutionFailure(ff.Name, "foreign function has no return type hint"))
		returnType = &typeterm.Unit{}
	}

	arity := typeterm.Fixed()
	if ff.Signature.Variadic {
		arity = typeterm.VariadicMin(len(paramTypes))
	}
	return c.write(ff, &typeterm.Signature{ParameterTypes: paramTypes, ReturnType: returnType, Arity: arity})
}

// --- Call site ---

func (c *Context) inferCallSite(call *astir.CallSite) typeterm.Type {
	calleeType := c.Visit(call.Callee)

	argTypes := make([]typeterm.Type, len(call.Arguments))
	for i, arg := range call.Arguments {
		argTypes[i] = c.Visit(arg)
	}

	calleeSig, ok := calleeType.(*typeterm.Signature)
	if !ok && !typeterm.IsMeta(calleeType) {
		c.addError(diagnostic.NewInvalidCallable(calleeType.String(), "call site"))
		return c.write(call, c.createTypeVariable("call_result"))
	}

	returnType := c.createTypeVariable("call_result")
	arity := typeterm.Fixed()
	if ok && calleeSig.Arity.Variadic {
		arity = calleeSig.Arity
	}
	synthesized := &typeterm.Signature{ParameterTypes: argTypes, ReturnType: returnType, Arity: arity}

	c.typeEnv[call.CalleeTypeID] = synthesized
	c.addConstraint(calleeType, synthesized, "call site")

	return c.write(call, returnType)
}

// --- Operators ---

func (c *Context) inferBinaryOp(b *astir.BinaryOp) typeterm.Type {
	switch b.Op {
	case astir.OpAdd, astir.OpSub, astir.OpMul, astir.OpDiv:
		operand := c.createTypeVariable("binop_operand")
		c.constrain(b.Left, operand, "binary operator operand")
		c.constrain(b.Right, operand, "binary operator operand")
		return c.write(b, operand)

	case astir.OpMod:
		result := &typeterm.Primitive{PKind: typeterm.Integer, Width: 64, Signed: true}
		c.constrain(b.Left, result, "modulo operand")
		c.constrain(b.Right, result, "modulo operand")
		return c.write(b, result)

	case astir.OpEq, astir.OpNeq, astir.OpLt, astir.OpLte, astir.OpGt, astir.OpGte, astir.OpAnd, astir.OpOr:
		operand := c.createTypeVariable("binop_operand")
		c.constrain(b.Left, operand, "comparison/logic operand")
		c.constrain(b.Right, operand, "comparison/logic operand")
		return c.write(b, &typeterm.Primitive{PKind: typeterm.Bool})

	default:
		panic(fmt.Sprintf("infer: unknown binary operator %v", b.Op))
	}
}

func (c *Context) inferUnaryOp(u *astir.UnaryOp) typeterm.Type {
	switch u.Op {
	case astir.OpNot:
		c.constrain(u.Operand, &typeterm.Primitive{PKind: typeterm.Bool}, "logical not operand")
		return c.write(u, &typeterm.Primitive{PKind: typeterm.Bool})

	case astir.OpNegate:
		operandType := c.Visit(u.Operand)
		return c.write(u, operandType)

	case astir.OpRefOf:
		operandType := c.Visit(u.Operand)
		return c.write(u, &typeterm.Reference{Inner: operandType})

	case astir.OpDeref:
		inner := c.createTypeVariable("deref_target")
		c.constrain(u.Operand, &typeterm.Pointer{Inner: inner}, "dereference operand")
		return c.write(u, inner)

	default:
		panic(fmt.Sprintf("infer: unknown unary operator %v", u.Op))
	}
}

// --- Control flow ---

func (c *Context) inferIf(ifExpr *astir.If) typeterm.Type {
	c.constrain(ifExpr.Condition, &typeterm.Primitive{PKind: typeterm.Bool}, "if condition")

	if ifExpr.Else == nil {
		c.constrain(ifExpr.Then, &typeterm.Unit{}, "if branch without else")
		return c.write(ifExpr, &typeterm.Unit{})
	}

	result := c.createTypeVariable("if_result")
	c.constrain(ifExpr.Then, result, "if then-branch")
	c.constrain(ifExpr.Else, result, "if else-branch")
	return c.write(ifExpr, result)
}

func (c *Context) inferMatch(m *astir.Match) typeterm.Type {
	subjectType := c.Visit(m.Subject)
	result := c.createTypeVariable("match_result")

	for _, arm := range m.Arms {
		c.constrain(arm.Pattern, subjectType, "match arm pattern")
		c.constrain(arm.Body, result, "match arm body")
	}
	if m.Default != nil {
		c.constrain(m.Default, result, "match default arm")
	}

	return c.write(m, result)
}

func (c *Context) inferBlock(blk *astir.Block) typeterm.Type {
	for _, stmt := range blk.Statements {
		c.Visit(stmt)
	}
	yieldType := c.Visit(blk.Yield)
	return c.write(blk, yieldType)
}

// --- Objects ---

func (c *Context) inferObjectLiteral(obj *astir.ObjectLiteral) typeterm.Type {
	fields := make(map[string]typeterm.Type, len(obj.FieldNames))
	for _, name := range obj.FieldNames {
		valueExpr := obj.FieldValues[name]
		fieldVar := c.createTypeVariable(name)
		c.constrain(valueExpr, fieldVar, fmt.Sprintf("object field %q", name))
		fields[name] = fieldVar
	}
	return c.write(obj, &typeterm.Object{Fields: fields, ObjKind: typeterm.Closed()})
}

// inferObjectAccess implements the row-polymorphic field-access rule
// (spec §4.2 table): the base expression is constrained to an open
// object carrying exactly the field being accessed, so that accessing
// one field never forces the base to be a closed record with only
// that field.
func (c *Context) inferObjectAccess(acc *astir.ObjectAccess) typeterm.Type {
	fieldVar := c.createTypeVariable(acc.FieldName)
	openID := c.gen.NextSubstitutionID()
	c.subst[openID] = &typeterm.Variable{SubstitutionID: openID}

	expectedBase := &typeterm.Object{
		Fields:  map[string]typeterm.Type{acc.FieldName: fieldVar},
		ObjKind: typeterm.Open(openID),
	}
	c.constrain(acc.Object, expectedBase, fmt.Sprintf("object access .%s", acc.FieldName))

	// Dual type-id registration (spec §9 Open Question / SPEC_FULL.md
	// supplemented feature): the base expression's synthesized open
	// type is recorded under a type id distinct from this node's own,
	// mirroring original_source/src/inference.rs's ObjectAccess rule.
	c.typeEnv[acc.BaseTypeID] = expectedBase

	return c.write(acc, fieldVar)
}

// inferObjectUpdate implements the `with` expression via the
// ObjectUpdate deferred constraint (spec §9 Open Question 1).
func (c *Context) inferObjectUpdate(upd *astir.ObjectUpdate) typeterm.Type {
	baseType := c.Visit(upd.BaseExpr)

	deltas := make(map[string]typeterm.Type, len(upd.DeltaNames))
	for _, name := range upd.DeltaNames {
		valueExpr := upd.DeltaValues[name]
		deltaVar := c.createTypeVariable(name)
		c.constrain(valueExpr, deltaVar, fmt.Sprintf("with-update field %q", name))
		deltas[name] = deltaVar
	}

	result := c.createTypeVariable("with_result")
	c.cons = append(c.cons, unify.ObjectUpdate{
		Base:    baseType,
		Deltas:  deltas,
		Result:  result,
		Context: "with expression",
	})

	return c.write(upd, result)
}

// --- Tuples ---

func (c *Context) inferTuple(t *astir.Tuple) typeterm.Type {
	elems := make([]typeterm.Type, len(t.Elements))
	for i, e := range t.Elements {
		elems[i] = c.Visit(e)
	}
	return c.write(t, &typeterm.Tuple{Elements: elems})
}

// inferTupleIndexing implements tuple indexing via the dedicated
// ElementOf deferred constraint (spec §9 Open Question 2).
func (c *Context) inferTupleIndexing(idx *astir.TupleIndexing) typeterm.Type {
	tupleType := c.Visit(idx.TupleExpr)
	elem := c.createTypeVariable("tuple_element")

	c.cons = append(c.cons, unify.ElementOf{
		Tuple:   tupleType,
		Index:   idx.Index,
		Elem:    elem,
		Context: fmt.Sprintf("tuple index %d", idx.Index),
	})

	return c.write(idx, elem)
}

// --- Pointers ---

func (c *Context) inferPointerIndexing(pi *astir.PointerIndexing) typeterm.Type {
	c.constrain(pi.Index, integer64Unsigned(), "pointer index")
	pointerType := c.Visit(pi.Pointer)
	return c.write(pi, pointerType)
}

func (c *Context) inferPointerAssignment(pa *astir.PointerAssignment) typeterm.Type {
	value := c.createTypeVariable("pointer_assign_value")
	c.constrain(pa.Pointer, &typeterm.Pointer{Inner: value}, "pointer assignment target")
	c.constrain(pa.Value, value, "pointer assignment value")
	return c.write(pa, &typeterm.Unit{})
}

// --- Misc ---

func (c *Context) inferCast(cast *astir.Cast) typeterm.Type {
	c.Visit(cast.Operand)
	return c.write(cast, cast.TargetType)
}

func (c *Context) inferSizeof(sz *astir.Sizeof) typeterm.Type {
	return c.write(sz, integer64Unsigned())
}

func (c *Context) inferStatement(stmt *astir.Statement) typeterm.Type {
	if stmt.Inner != nil {
		c.Visit(stmt.Inner)
	}
	return c.write(stmt, &typeterm.Unit{})
}

// inferUnionVariantInstance resolves the union declaration through the
// symbol table and constrains the payload per spec §9 Open Question 3:
// String/Singleton variants get an Unconstrained (always-satisfied)
// constraint rather than an inference rule that would otherwise fire
// on their underspecified payload shape.
func (c *Context) inferUnionVariantInstance(u *astir.UnionVariantInstance) typeterm.Type {
	item, ok := c.symtab.Resolve(u.Link)
	if !ok {
		c.addError(diagnostic.NewMissingSymbolTableEntry(u.TypeID(), "union variant instance"))
		return c.write(u, c.createTypeVariable("union_instance"))
	}
	unionItem, ok := item.(symtab.UnionItem)
	if !ok {
		c.addError(diagnostic.NewMissingSymbolTableEntry(u.TypeID(), "union variant instance: link does not target a union"))
		return c.write(u, c.createTypeVariable("union_instance"))
	}

	var variant *typeterm.UnionVariant
	for i := range unionItem.Decl.Variants {
		if unionItem.Decl.Variants[i].Name == u.VariantName {
			variant = &unionItem.Decl.Variants[i]
			break
		}
	}
	if variant == nil {
		c.addError(diagnostic.NewMissingSymbolTableEntry(u.TypeID(),
			fmt.Sprintf("union %q has no variant %q", unionItem.Decl.Name, u.VariantName)))
		return c.write(u, c.createTypeVariable("union_instance"))
	}

	switch {
	case u.VariantName == "String" || u.VariantName == "Singleton":
		c.cons = append(c.cons, unify.Unconstrained{})
		if u.Payload != nil {
			c.Visit(u.Payload)
		}
	case variant.Payload != nil && u.Payload != nil:
		c.constrain(u.Payload, variant.Payload, fmt.Sprintf("union variant %q payload", u.VariantName))
	case u.Payload != nil:
		c.Visit(u.Payload)
	}

	return c.write(u, &typeterm.Union{Decl: unionItem.Decl})
}
