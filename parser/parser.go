package parser

import (
	"iter"

	"github.com/ucclang/ucc/tokenizer"
)

// Parse drains the token sequence exactly once and returns the parsed
// compilation unit. A lexical error surfacing mid-stream aborts parsing and
// propagates unchanged; a grammar violation aborts with a *ParseError.
func Parse(tokens tokenizer.TokenIterator) (*Program, error) {
	next, stop := iter.Pull2(iter.Seq2[tokenizer.Token, error](tokens))
	defer stop()

	p := &parser{next: next, lastLine: 1}
	if err := p.prime(); err != nil {
		return nil, err
	}

	return p.parseProgram()
}

// parser holds the single-token lookahead over the pulled token stream.
type parser struct {
	next     func() (tokenizer.Token, error, bool)
	tok      tokenizer.Token // lookahead
	lastLine int
}

func (p *parser) prime() error {
	_, err := p.advance()
	return err
}

// advance consumes the lookahead token and pulls the next one. Sequence
// exhaustion synthesizes an end-of-source token carrying the last seen line.
func (p *parser) advance() (tokenizer.Token, error) {
	current := p.tok

	tok, err, ok := p.next()
	switch {
	case !ok:
		p.tok = tokenizer.Token{Kind: tokenizer.EOF, Line: p.lastLine}
	case err != nil:
		return tokenizer.Token{}, err
	default:
		p.tok = tok
		p.lastLine = tok.Line
	}

	return current, nil
}

// expect consumes exactly one token and returns it if its kind is among the
// accepted set.
func (p *parser) expect(kinds ...tokenizer.Kind) (tokenizer.Token, error) {
	t, err := p.advance()
	if err != nil {
		return t, err
	}

	if !t.Is(kinds...) {
		return t, unexpected(t.Line, kinds...)
	}

	return t, nil
}

func (p *parser) parseProgram() (*Program, error) {
	prog := &Program{}

	for p.tok.Kind != tokenizer.EOF {
		if p.tok.Kind == kindStruct {
			s, err := p.parseStruct()
			if err != nil {
				return nil, err
			}

			prog.Structs = append(prog.Structs, s)
		} else {
			f, err := p.parseFunc()
			if err != nil {
				return nil, err
			}

			prog.Funcs = append(prog.Funcs, f)
		}
	}

	return prog, nil
}

// parseStruct parses: struct name { (type name ;)* }
func (p *parser) parseStruct() (*StructDecl, error) {
	t, err := p.expect(kindStruct)
	if err != nil {
		return nil, err
	}

	name, err := p.expect(tokenizer.IDENT)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(kindLBrace); err != nil {
		return nil, err
	}

	var members []*VarDeclStmt

	for p.tok.Kind == tokenizer.IDENT {
		member, err := p.parseVarDecl()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(kindSemi); err != nil {
			return nil, err
		}

		members = append(members, member)
	}

	if _, err := p.expect(kindRBrace); err != nil {
		return nil, err
	}

	return &StructDecl{Line: t.Line, Name: name.Text, Members: members}, nil
}

// parseFunc parses: type name ( params ) statement
func (p *parser) parseFunc() (*FuncDecl, error) {
	head, err := p.parseVarDecl() // return type and function name
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(kindLParen); err != nil {
		return nil, err
	}

	var params []*VarDeclStmt

	if p.tok.Kind == kindRParen {
		if _, err := p.advance(); err != nil {
			return nil, err
		}
	} else {
		for {
			param, err := p.parseVarDecl()
			if err != nil {
				return nil, err
			}

			params = append(params, param)

			t, err := p.expect(kindComma, kindRParen)
			if err != nil {
				return nil, err
			}

			if t.Kind == kindRParen {
				break
			}
		}
	}

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}

	return &FuncDecl{Line: head.Line, Ret: head.Type, Name: head.Name, Params: params, Body: body}, nil
}

// parseVarDecl parses: typename '*'* name
func (p *parser) parseVarDecl() (*VarDeclStmt, error) {
	t, err := p.expect(tokenizer.IDENT)
	if err != nil {
		return nil, err
	}

	return p.parseVarDeclFrom(t)
}

// parseVarDeclFrom continues a declaration whose type name token is already
// consumed.
func (p *parser) parseVarDeclFrom(t tokenizer.Token) (*VarDeclStmt, error) {
	indirection := 0

	for p.tok.Kind == kindStar {
		if _, err := p.advance(); err != nil {
			return nil, err
		}

		indirection++
	}

	name, err := p.expect(tokenizer.IDENT)
	if err != nil {
		return nil, err
	}

	return &VarDeclStmt{
		Line: t.Line,
		Type: TypeRef{Base: t.Text, Indirection: indirection},
		Name: name.Text,
	}, nil
}

// parseBody parses the single statement of a function, if, else or while
// body. A declaration with an initializer desugars to two statements, so in
// this position the pair is wrapped into a block.
func (p *parser) parseBody() (Stmt, error) {
	stmts, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	if len(stmts) == 1 {
		return stmts[0], nil
	}

	return &BlockStmt{Line: stmts[0].Pos(), Stmts: stmts}, nil
}

// parseStatement dispatches on the lookahead token. It returns one
// statement, except for a declaration with an initializer which yields the
// VarDeclStmt and the desugared AssignStmt as two adjacent statements.
func (p *parser) parseStatement() ([]Stmt, error) {
	switch p.tok.Kind {
	case kindLBrace:
		block, err := p.parseBlock()
		if err != nil {
			return nil, err
		}

		return []Stmt{block}, nil

	case kindIf:
		stmt, err := p.parseIf()
		if err != nil {
			return nil, err
		}

		return []Stmt{stmt}, nil

	case kindWhile:
		stmt, err := p.parseWhile()
		if err != nil {
			return nil, err
		}

		return []Stmt{stmt}, nil

	case kindBreak, kindContinue:
		t, err := p.advance()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(kindSemi); err != nil {
			return nil, err
		}

		op := OpBreak
		if t.Kind == kindContinue {
			op = OpContinue
		}

		return []Stmt{&CtrlStmt{Line: t.Line, Op: op}}, nil

	case kindReturn:
		t, err := p.advance()
		if err != nil {
			return nil, err
		}

		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(kindSemi); err != nil {
			return nil, err
		}

		return []Stmt{&ReturnStmt{Line: t.Line, Value: value}}, nil

	case kindStar:
		return p.parseStore()
	}

	return p.parseSimpleStatement()
}

func (p *parser) parseBlock() (*BlockStmt, error) {
	t, err := p.expect(kindLBrace)
	if err != nil {
		return nil, err
	}

	block := &BlockStmt{Line: t.Line}

	for p.tok.Kind != kindRBrace {
		if p.tok.Kind == tokenizer.EOF {
			return nil, unexpected(p.tok.Line, kindRBrace)
		}

		stmts, err := p.parseStatement()
		if err != nil {
			return nil, err
		}

		block.Stmts = append(block.Stmts, stmts...)
	}

	if _, err := p.advance(); err != nil { // skip }
		return nil, err
	}

	return block, nil
}

func (p *parser) parseIf() (Stmt, error) {
	t, err := p.expect(kindIf)
	if err != nil {
		return nil, err
	}

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}

	then, err := p.parseBody()
	if err != nil {
		return nil, err
	}

	var elseStmt Stmt

	if p.tok.Kind == kindElse {
		if _, err := p.advance(); err != nil {
			return nil, err
		}

		elseStmt, err = p.parseBody()
		if err != nil {
			return nil, err
		}
	}

	return &IfStmt{Line: t.Line, Cond: cond, Then: then, Else: elseStmt}, nil
}

func (p *parser) parseWhile() (Stmt, error) {
	t, err := p.expect(kindWhile)
	if err != nil {
		return nil, err
	}

	cond, err := p.parseCondition()
	if err != nil {
		return nil, err
	}

	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}

	return &WhileStmt{Line: t.Line, Cond: cond, Body: body}, nil
}

// parseStore parses a write through a dereferenced pointer: '*'+ factor =
// expression ;
func (p *parser) parseStore() ([]Stmt, error) {
	first := p.tok
	count := 0

	for p.tok.Kind == kindStar {
		if _, err := p.advance(); err != nil {
			return nil, err
		}

		count++
	}

	dest, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(kindAssign); err != nil {
		return nil, err
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(kindSemi); err != nil {
		return nil, err
	}

	return []Stmt{&StoreStmt{Line: first.Line, Count: count, Dest: dest, Value: value}}, nil
}

// parseSimpleStatement handles the statements that start with an identifier:
// variable declaration, function call, struct member store or assignment,
// disambiguated by the token after the identifier.
func (p *parser) parseSimpleStatement() ([]Stmt, error) {
	ident, err := p.expect(tokenizer.IDENT)
	if err != nil {
		return nil, err
	}

	switch {
	case p.tok.Is(tokenizer.IDENT, kindStar):
		return p.parseDeclaration(ident)

	case p.tok.Kind == kindLParen:
		call, err := p.parseFCall(ident)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(kindSemi); err != nil {
			return nil, err
		}

		return []Stmt{call}, nil

	case p.tok.Kind == kindDot:
		access, err := p.parseStructAccess(ident)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(kindAssign); err != nil {
			return nil, err
		}

		value, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(kindSemi); err != nil {
			return nil, err
		}

		return []Stmt{&StructStoreStmt{Line: ident.Line, Target: access, Value: value}}, nil
	}

	if _, err := p.expect(kindAssign); err != nil {
		return nil, err
	}

	value, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(kindSemi); err != nil {
		return nil, err
	}

	return []Stmt{&AssignStmt{Line: ident.Line, Name: ident.Text, Value: value}}, nil
}

// parseDeclaration parses a local declaration whose type name token is
// already consumed. "u8 x = 5;" desugars into the declaration and a
// separate assignment so that later stages never see the initializer as
// part of the declaration.
func (p *parser) parseDeclaration(typeName tokenizer.Token) ([]Stmt, error) {
	decl, err := p.parseVarDeclFrom(typeName)
	if err != nil {
		return nil, err
	}

	if p.tok.Kind != kindAssign {
		if _, err := p.expect(kindSemi); err != nil {
			return nil, err
		}

		return []Stmt{decl}, nil
	}

	if _, err := p.advance(); err != nil { // skip =
		return nil, err
	}

	init, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(kindSemi); err != nil {
		return nil, err
	}

	return []Stmt{decl, &AssignStmt{Line: decl.Line, Name: decl.Name, Value: init}}, nil
}

var condOps = map[tokenizer.Kind]Op{
	kindEq: OpEq,
	kindNe: OpNe,
	kindLt: OpLt,
	kindGt: OpGt,
	kindLe: OpLe,
	kindGe: OpGe,
}

// parseCondition parses exactly one comparison. Conditions are not
// composable with boolean connectives.
func (p *parser) parseCondition() (*Condition, error) {
	left, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	op, err := p.expect(kindEq, kindNe, kindLt, kindGt, kindLe, kindGe)
	if err != nil {
		return nil, err
	}

	right, err := p.parseExpression()
	if err != nil {
		return nil, err
	}

	return &Condition{Line: left.Pos(), Op: condOps[op.Kind], Left: left, Right: right}, nil
}

// The binary levels below are iterative rather than recursive so that long
// operator chains cannot exhaust the stack. Each level is left-associative.

func (p *parser) parseBinaryLevel(ops map[tokenizer.Kind]Op, operand func() (Expr, error)) (Expr, error) {
	left, err := operand()
	if err != nil {
		return nil, err
	}

	for {
		op, found := ops[p.tok.Kind]
		if !found {
			return left, nil
		}

		if _, err := p.advance(); err != nil {
			return nil, err
		}

		right, err := operand()
		if err != nil {
			return nil, err
		}

		left = &BinaryOp{Line: left.Pos(), Op: op, Left: left, Right: right}
	}
}

var (
	additiveOps       = map[tokenizer.Kind]Op{kindPlus: OpAdd, kindMinus: OpSub}
	multiplicativeOps = map[tokenizer.Kind]Op{kindStar: OpMul, kindSlash: OpDiv}
	shiftOps          = map[tokenizer.Kind]Op{kindSra: OpSra, kindSrl: OpSrl, kindSll: OpSll}
	bitwiseOps        = map[tokenizer.Kind]Op{kindAmp: OpAnd, kindPipe: OpOr, kindCaret: OpXor}
)

// parseExpression is the additive level, the loosest-binding one.
func (p *parser) parseExpression() (Expr, error) {
	return p.parseBinaryLevel(additiveOps, p.parseMultiplicative)
}

func (p *parser) parseMultiplicative() (Expr, error) {
	return p.parseBinaryLevel(multiplicativeOps, p.parseShift)
}

func (p *parser) parseShift() (Expr, error) {
	return p.parseBinaryLevel(shiftOps, p.parseBitwise)
}

func (p *parser) parseBitwise() (Expr, error) {
	return p.parseBinaryLevel(bitwiseOps, p.parseUnary)
}

// parseUnary recognizes a run of one repeated unary operator. Runs of - or ~
// cancel pairwise at parse time; runs of * and & keep their length as the
// indirection count; sizeof may not repeat or nest.
func (p *parser) parseUnary() (Expr, error) {
	if !p.tok.Is(kindMinus, kindTilde, kindStar, kindAmp, kindSizeof) {
		return p.parseFactor()
	}

	t, err := p.advance()
	if err != nil {
		return nil, err
	}

	count := 1

	for p.tok.Kind == t.Kind {
		if t.Kind == kindSizeof {
			return nil, &ParseError{Line: t.Line, Err: ErrNestedSizeof}
		}

		if _, err := p.advance(); err != nil {
			return nil, err
		}

		count++
	}

	if (t.Kind == kindMinus || t.Kind == kindTilde) && count%2 == 0 {
		return p.parseFactor()
	}

	operand, err := p.parseFactor()
	if err != nil {
		return nil, err
	}

	switch t.Kind {
	case kindMinus:
		return &UnaryOp{Line: t.Line, Op: OpNeg, Operand: operand}, nil
	case kindTilde:
		return &UnaryOp{Line: t.Line, Op: OpInv, Operand: operand}, nil
	case kindStar:
		return &PointerOp{Line: t.Line, Op: OpDeref, Operand: operand, Count: count}, nil
	case kindAmp:
		return &PointerOp{Line: t.Line, Op: OpAddrOf, Operand: operand, Count: count}, nil
	default:
		return &PointerOp{Line: t.Line, Op: OpSizeOf, Operand: operand, Count: 1}, nil
	}
}

// parseFactor parses a parenthesized expression, a literal, or an
// identifier optionally continued as a call or a member access chain.
func (p *parser) parseFactor() (Expr, error) {
	t, err := p.advance()
	if err != nil {
		return nil, err
	}

	switch t.Kind {
	case kindLParen:
		expr, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(kindRParen); err != nil {
			return nil, err
		}

		return expr, nil

	case tokenizer.INT:
		return &IntLit{Line: t.Line, Value: t.Int}, nil

	case tokenizer.STRING:
		return &StrLit{Line: t.Line, Value: t.Text}, nil

	case tokenizer.IDENT:
		if p.tok.Kind == kindLParen {
			return p.parseFCall(t)
		}

		if p.tok.Kind == kindDot {
			return p.parseStructAccess(t)
		}

		return &VarRef{Line: t.Line, Name: t.Text}, nil
	}

	return nil, unexpected(t.Line, kindLParen, tokenizer.INT, tokenizer.STRING, tokenizer.IDENT)
}

// parseFCall continues a call whose name token is consumed and whose
// lookahead is the opening parenthesis.
func (p *parser) parseFCall(name tokenizer.Token) (*FCall, error) {
	if _, err := p.advance(); err != nil { // skip (
		return nil, err
	}

	call := &FCall{Line: name.Line, Name: name.Text}

	if p.tok.Kind == kindRParen {
		if _, err := p.advance(); err != nil {
			return nil, err
		}

		return call, nil
	}

	for {
		arg, err := p.parseExpression()
		if err != nil {
			return nil, err
		}

		call.Args = append(call.Args, arg)

		t, err := p.expect(kindRParen, kindComma)
		if err != nil {
			return nil, err
		}

		if t.Kind == kindRParen {
			return call, nil
		}
	}
}

// parseStructAccess continues a member access chain whose base identifier is
// consumed and whose lookahead is a dot. The chain is left-associative, so
// the leftmost access becomes the innermost node.
func (p *parser) parseStructAccess(base tokenizer.Token) (*StructAccess, error) {
	var left Expr = &VarRef{Line: base.Line, Name: base.Text}

	for p.tok.Kind == kindDot {
		if _, err := p.advance(); err != nil {
			return nil, err
		}

		field, err := p.expect(tokenizer.IDENT)
		if err != nil {
			return nil, err
		}

		left = &StructAccess{Line: base.Line, Left: left, Field: field.Text}
	}

	return left.(*StructAccess), nil
}
