package lang

import (
	"context"
	"io"
	"log/slog"
	"strconv"

	"github.com/ardnew/fala/lang/lexer"
	"github.com/ardnew/fala/lang/token"
)

// ParseReader reads all of r and parses it with [ParseString].
func ParseReader(ctx context.Context, r io.Reader, opts ...Option) (*Program, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, ErrReadInput.Wrap(err)
	}

	return ParseString(ctx, string(data), opts...)
}

// ParseString tokenizes and parses src. Illegal lexemes are reported as
// [ErrIllegalToken] before any parsing takes place.
func ParseString(ctx context.Context, src string, opts ...Option) (*Program, error) {
	toks, err := lexer.Tokenize(src)
	if err != nil {
		return nil, ErrIllegalToken.Wrap(err)
	}

	return Parse(ctx, toks, append([]Option{WithSource(src)}, opts...)...)
}

// Parse builds the parse tree of one source unit. The statement count of the
// returned program equals the number of top-level statement terminators.
// The first token that does not fit the grammar yields a *[SyntaxError] and
// no tree.
func Parse(ctx context.Context, toks []token.Token, opts ...Option) (*Program, error) {
	prog := new(Program)
	applyOptions(prog, opts...)

	if n := len(toks); n == 0 || toks[n-1].Kind != token.EOF {
		var end Position
		if n > 0 {
			end = toks[n-1].Pos
		}

		toks = append(toks[:n:n], token.Token{Kind: token.EOF, Pos: end})
	}

	prog.logger.TraceContext(ctx, "parse start", slog.Int("tokens", len(toks)))

	p := &parser{toks: toks, source: prog.source}

	stmts, err := p.parseProgram()
	if err != nil {
		prog.logger.DebugContext(ctx, "parse failed", slog.Any("error", err))

		return nil, err
	}

	prog.Stmts = stmts

	prog.logger.TraceContext(ctx, "parse complete", slog.Int("statements", len(stmts)))

	return prog, nil
}

// Precedence levels, loosest to tightest. Prefix "não" binds its operand
// at levelCompare, so "não a e b" is "(não a) e b" while "não a é igual a b"
// negates the comparison. Prefix increment and decrement bind at levelPow.
const (
	levelLogical = 1 + iota
	levelCompare
	levelAdd
	levelMul
	levelPrefix
	levelPow
)

type parser struct {
	toks   []token.Token
	pos    int
	source string
}

func (p *parser) peek() token.Token { return p.peekAt(0) }

func (p *parser) peekAt(n int) token.Token {
	if i := p.pos + n; i < len(p.toks) {
		return p.toks[i]
	}

	return p.toks[len(p.toks)-1]
}

func (p *parser) at(kinds ...token.Kind) bool {
	k := p.peek().Kind
	for _, want := range kinds {
		if k == want {
			return true
		}
	}

	return false
}

func (p *parser) next() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
	}

	return tok
}

func (p *parser) expect(kind token.Kind) (token.Token, error) {
	if !p.at(kind) {
		return p.peek(), p.fail(kind.String())
	}

	return p.next(), nil
}

func (p *parser) fail(expected ...string) *SyntaxError {
	tok := p.peek()

	return &SyntaxError{
		Pos:      tok.Pos,
		Found:    tok,
		Expected: expected,
		Source:   p.source,
	}
}

// atEndDone reports whether the next tokens are the "e deu" terminator.
func (p *parser) atEndDone() bool {
	return p.at(token.And) && p.peekAt(1).Kind == token.Done
}

func (p *parser) parseProgram() ([]Stmt, error) {
	if p.at(token.EOF) {
		return nil, p.fail("statement")
	}

	var stmts []Stmt

	for !p.at(token.EOF) {
		s, err := p.parseTerminated()
		if err != nil {
			return nil, err
		}

		stmts = append(stmts, s)
	}

	return stmts, nil
}

func (p *parser) parseTerminated() (Stmt, error) {
	s, err := p.parseStatement()
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Period); err != nil {
		return nil, err
	}

	return s, nil
}

// parseBody parses one or more terminated statements until stop reports
// true.
func (p *parser) parseBody(stop func() bool) ([]Stmt, error) {
	var body []Stmt

	for {
		s, err := p.parseTerminated()
		if err != nil {
			return nil, err
		}

		body = append(body, s)

		if stop() || p.at(token.EOF) {
			return body, nil
		}
	}
}

func (p *parser) parseStatement() (Stmt, error) {
	tok := p.peek()

	switch {
	case tok.Kind.IsType():
		return p.parseDeclaration()
	case tok.Kind == token.Define:
		return p.parseFuncDef()
	case tok.Kind == token.If:
		return p.parseIf()
	case tok.Kind == token.While:
		return p.parseWhile()
	case tok.Kind == token.For:
		return p.parseForEach()
	case tok.Kind == token.Put:
		return p.parsePut()
	case tok.Kind == token.Return:
		p.next()

		value, err := p.parseExpr(levelLogical)
		if err != nil {
			return nil, err
		}

		return &Return{ReturnPos: tok.Pos, Value: value}, nil
	case tok.Kind == token.Ident:
		return p.parseIdentStatement()
	}

	x, err := p.parseExpr(levelLogical)
	if err != nil {
		return nil, err
	}

	return &ExprStmt{X: x}, nil
}

// comparisonAt reports whether the token n ahead opens the remainder of a
// comparison phrase after "é".
func (p *parser) comparisonAt(n int) bool {
	switch p.peekAt(n).Kind {
	case token.Greater, token.Less, token.Equal, token.Diff:
		return true
	case token.Not:
		return p.peekAt(n+1).Kind == token.Equal
	default:
		return false
	}
}

// parseIdentStatement resolves the statement forms that begin with a name.
// "x é v" is an assignment and "x[i] é v" an indexed assignment unless a
// comparison phrase follows "é"; otherwise the statement is an expression
// whose left operand has already been consumed.
func (p *parser) parseIdentStatement() (Stmt, error) {
	if p.peekAt(1).Kind == token.Is && !p.comparisonAt(2) {
		name := p.ident(p.next())
		p.next()

		value, err := p.parseExpr(levelLogical)
		if err != nil {
			return nil, err
		}

		return &Assign{StmtPos: name.NamePos, Target: name, Value: value}, nil
	}

	if p.peekAt(1).Kind != token.LBracket {
		x, err := p.parseExpr(levelLogical)
		if err != nil {
			return nil, err
		}

		return &ExprStmt{X: x}, nil
	}

	index, err := p.parseIndex(p.ident(p.next()))
	if err != nil {
		return nil, err
	}

	if p.at(token.Is) && !p.comparisonAt(1) {
		p.next()

		value, err := p.parseExpr(levelLogical)
		if err != nil {
			return nil, err
		}

		return &IndexAssign{Target: index.Name, Index: index.Index, Value: value}, nil
	}

	x, err := p.parseBinary(index, levelLogical)
	if err != nil {
		return nil, err
	}

	return &ExprStmt{X: x}, nil
}

func (p *parser) parseDeclaration() (Stmt, error) {
	tok := p.next()
	decl := &Declaration{TypePos: tok.Pos, Type: declaredTypes[tok.Kind]}

	for {
		nameTok, err := p.expect(token.Ident)
		if err != nil {
			return nil, err
		}

		b := &Binding{Name: p.ident(nameTok)}

		if p.at(token.Is) {
			p.next()

			if b.Value, err = p.parseExpr(levelLogical); err != nil {
				return nil, err
			}

			if p.at(token.To) {
				p.next()

				high, err := p.parseExpr(levelLogical)
				if err != nil {
					return nil, err
				}

				b.Value = &Range{Low: b.Value, High: high}
			}
		}

		decl.Bindings = append(decl.Bindings, b)

		if !p.at(token.Comma) {
			return decl, nil
		}

		p.next()
	}
}

func (p *parser) parseFuncDef() (Stmt, error) {
	def := &FuncDef{DefinePos: p.next().Pos}

	nameTok, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	def.Name = p.ident(nameTok)

	if p.at(token.With) {
		p.next()

		for {
			typeTok := p.peek()
			if !typeTok.Kind.IsType() {
				return nil, p.fail("int", "real", "texto", "lista")
			}

			p.next()

			nameTok, err := p.expect(token.Ident)
			if err != nil {
				return nil, err
			}

			def.Params = append(def.Params, &Param{
				TypePos: typeTok.Pos,
				Type:    declaredTypes[typeTok.Kind],
				Name:    p.ident(nameTok),
			})

			if !p.at(token.Comma) {
				break
			}

			p.next()
		}
	}

	if _, err := p.expect(token.As); err != nil {
		return nil, err
	}

	if def.Body, err = p.parseBody(p.atEndDone); err != nil {
		return nil, err
	}

	return def, p.expectEndDone()
}

func (p *parser) expectEndDone() error {
	if _, err := p.expect(token.And); err != nil {
		return err
	}

	_, err := p.expect(token.Done)

	return err
}

func (p *parser) parseIf() (*If, error) {
	stmt := &If{IfPos: p.next().Pos}

	var err error
	if stmt.Cond, err = p.parseExpr(levelLogical); err != nil {
		return nil, err
	}

	if _, err := p.expect(token.Then); err != nil {
		return nil, err
	}

	if stmt.Body, err = p.parseBody(p.atElse); err != nil {
		return nil, err
	}

	if stmt.Else, err = p.parseElse(); err != nil {
		return nil, err
	}

	return stmt, nil
}

func (p *parser) atElse() bool {
	return p.at(token.Else, token.Its) || p.atEndDone()
}

func (p *parser) parseElse() (ElseClause, error) {
	tok := p.peek()

	switch {
	case tok.Kind == token.Else:
		p.next()

		if !p.at(token.If) {
			return nil, p.fail(token.If.String())
		}

		nested, err := p.parseIf()
		if err != nil {
			return nil, err
		}

		return &ElseIf{ElsePos: tok.Pos, If: nested}, nil

	case tok.Kind == token.Its:
		p.next()

		for _, kind := range []token.Kind{token.Ok, token.Then} {
			if _, err := p.expect(kind); err != nil {
				return nil, err
			}
		}

		body, err := p.parseBody(p.atElse)
		if err != nil {
			return nil, err
		}

		next, err := p.parseElse()
		if err != nil {
			return nil, err
		}

		return &ElseBlock{ItsPos: tok.Pos, Body: body, Next: next}, nil

	case p.atEndDone():
		p.next()
		p.next()

		return &EndIf{AndPos: tok.Pos}, nil
	}

	return nil, p.fail("senão", "tá bom", "e deu")
}

func (p *parser) parseWhile() (Stmt, error) {
	stmt := &While{WhilePos: p.next().Pos}

	var err error
	if stmt.Cond, err = p.parseExpr(levelLogical); err != nil {
		return nil, err
	}

	if stmt.Body, err = p.parseLoopBody(); err != nil {
		return nil, err
	}

	return stmt, nil
}

func (p *parser) parseForEach() (Stmt, error) {
	stmt := &ForEach{ForPos: p.next().Pos}

	varTok, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.In); err != nil {
		return nil, err
	}

	seqTok, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	stmt.Var, stmt.Seq = p.ident(varTok), p.ident(seqTok)

	if stmt.Body, err = p.parseLoopBody(); err != nil {
		return nil, err
	}

	return stmt, nil
}

// parseLoopBody parses "faça body e deu".
func (p *parser) parseLoopBody() ([]Stmt, error) {
	if _, err := p.expect(token.Do); err != nil {
		return nil, err
	}

	body, err := p.parseBody(p.atEndDone)
	if err != nil {
		return nil, err
	}

	return body, p.expectEndDone()
}

func (p *parser) parsePut() (Stmt, error) {
	pos := p.next().Pos

	value, err := p.parseExpr(levelLogical)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.In); err != nil {
		return nil, err
	}

	nameTok, err := p.expect(token.Ident)
	if err != nil {
		return nil, err
	}

	return &Assign{StmtPos: pos, Target: p.ident(nameTok), Value: value, Put: true}, nil
}

// parseExpr parses an expression whose binary operators all bind at least
// as tightly as minLevel.
func (p *parser) parseExpr(minLevel int) (Expr, error) {
	x, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	return p.parseBinary(x, minLevel)
}

// binaryLevel returns the precedence of the operator at the current token,
// or 0 when the token does not continue an expression.
func (p *parser) binaryLevel() int {
	switch p.peek().Kind {
	case token.Or:
		return levelLogical
	case token.And:
		if p.atEndDone() {
			return 0
		}

		return levelLogical
	case token.Is:
		return levelCompare
	case token.Add, token.Sub:
		return levelAdd
	case token.Mul, token.Div:
		return levelMul
	case token.Pow:
		return levelPow
	default:
		return 0
	}
}

func (p *parser) parseBinary(x Expr, minLevel int) (Expr, error) {
	for {
		level := p.binaryLevel()
		if level == 0 || level < minLevel {
			return x, nil
		}

		opTok := p.next()

		var (
			cmp ComparisonKind
			err error
		)

		switch opTok.Kind {
		case token.Is:
			if cmp, err = p.parseComparison(); err != nil {
				return nil, err
			}
		case token.Div:
			if _, err := p.expect(token.By); err != nil {
				return nil, err
			}
		}

		// All binary operators are left-associative.
		y, err := p.parseExpr(level + 1)
		if err != nil {
			return nil, err
		}

		switch opTok.Kind {
		case token.Or:
			x = &Logical{OpPos: opTok.Pos, Op: OpOr, X: x, Y: y}
		case token.And:
			x = &Logical{OpPos: opTok.Pos, Op: OpAnd, X: x, Y: y}
		case token.Is:
			x = &Compare{OpPos: opTok.Pos, Op: cmp, X: x, Y: y}
		case token.Add:
			x = &Binary{OpPos: opTok.Pos, Op: OpAdd, X: x, Y: y}
		case token.Sub:
			x = &Binary{OpPos: opTok.Pos, Op: OpSub, X: x, Y: y}
		case token.Mul:
			x = &Binary{OpPos: opTok.Pos, Op: OpMul, X: x, Y: y}
		case token.Div:
			x = &Binary{OpPos: opTok.Pos, Op: OpDiv, X: x, Y: y}
		case token.Pow:
			x = &Binary{OpPos: opTok.Pos, Op: OpPow, X: x, Y: y}
		}
	}
}

// parseComparison reads the words of a comparison phrase that follow "é".
func (p *parser) parseComparison() (ComparisonKind, error) {
	switch p.peek().Kind {
	case token.Greater, token.Less:
		strict, orEqual := CmpGt, CmpGtE
		if p.next().Kind == token.Less {
			strict, orEqual = CmpLt, CmpLtE
		}

		switch p.peek().Kind {
		case token.Than:
			p.next()

			return strict, nil
		case token.Or:
			p.next()

			return orEqual, p.expectEqualTo()
		default:
			return 0, p.fail(token.Than.String(), "ou igual a")
		}

	case token.Equal:
		return CmpEq, p.expectEqualTo()

	case token.Diff:
		p.next()

		return CmpNotEq, nil

	case token.Not:
		if p.peekAt(1).Kind == token.Equal {
			p.next()

			return CmpNotEq, p.expectEqualTo()
		}
	}

	return CmpEq, nil
}

func (p *parser) expectEqualTo() error {
	if _, err := p.expect(token.Equal); err != nil {
		return err
	}

	_, err := p.expect(token.To)

	return err
}

func (p *parser) parseUnary() (Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case token.Not:
		p.next()

		x, err := p.parseExpr(levelCompare)
		if err != nil {
			return nil, err
		}

		return &Not{NotPos: tok.Pos, X: x}, nil

	case token.Inc, token.Dec:
		p.next()

		x, err := p.parseExpr(levelPow)
		if err != nil {
			return nil, err
		}

		op := OpInc
		if tok.Kind == token.Dec {
			op = OpDec
		}

		return &Step{OpPos: tok.Pos, Op: op, X: x}, nil
	}

	return p.parsePrimary()
}

func (p *parser) parsePrimary() (Expr, error) {
	tok := p.peek()

	switch tok.Kind {
	case token.Int:
		v, err := strconv.ParseInt(tok.Value, 10, 64)
		if err != nil {
			return nil, p.fail("integer within 64 bits")
		}

		p.next()

		return &IntLit{ValuePos: tok.Pos, Value: v}, nil

	case token.Real:
		v, err := strconv.ParseFloat(tok.Value, 64)
		if err != nil {
			return nil, p.fail("real number")
		}

		p.next()

		return &RealLit{ValuePos: tok.Pos, Value: v}, nil

	case token.Text:
		p.next()

		return &TextLit{ValuePos: tok.Pos, Value: tok.Value}, nil

	case token.True, token.False:
		p.next()

		return &BoolLit{ValuePos: tok.Pos, Value: tok.Kind == token.True}, nil

	case token.LParen:
		p.next()

		x, err := p.parseExpr(levelLogical)
		if err != nil {
			return nil, err
		}

		if _, err := p.expect(token.RParen); err != nil {
			return nil, err
		}

		return &Paren{Lparen: tok.Pos, X: x}, nil

	case token.Ident:
		name := p.ident(p.next())

		switch p.peek().Kind {
		case token.LBracket:
			return p.parseIndex(name)
		case token.With:
			p.next()

			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}

			return &Call{Name: name, Args: args}, nil
		}

		return name, nil

	case token.Print, token.Read:
		p.next()

		call := &BuiltinCall{FnPos: tok.Pos, Fn: BuiltinPrint}
		if tok.Kind == token.Read {
			call.Fn = BuiltinRead
		}

		if p.startsExpr() {
			args, err := p.parseArgs()
			if err != nil {
				return nil, err
			}

			call.Args = args
		}

		return call, nil
	}

	return nil, p.fail("expression")
}

func (p *parser) parseIndex(name *Ident) (*Index, error) {
	if _, err := p.expect(token.LBracket); err != nil {
		return nil, err
	}

	x, err := p.parseExpr(levelLogical)
	if err != nil {
		return nil, err
	}

	if _, err := p.expect(token.RBracket); err != nil {
		return nil, err
	}

	return &Index{Name: name, Index: x}, nil
}

// parseArgs parses a comma-separated argument list. Each argument is a full
// expression, so a nested call consumes the remaining arguments.
func (p *parser) parseArgs() ([]Expr, error) {
	var args []Expr

	for {
		x, err := p.parseExpr(levelLogical)
		if err != nil {
			return nil, err
		}

		args = append(args, x)

		if !p.at(token.Comma) {
			return args, nil
		}

		p.next()
	}
}

func (p *parser) startsExpr() bool {
	return p.at(
		token.Int, token.Real, token.Text, token.True, token.False,
		token.LParen, token.Ident, token.Print, token.Read,
		token.Not, token.Inc, token.Dec,
	)
}

func (p *parser) ident(tok token.Token) *Ident {
	return &Ident{NamePos: tok.Pos, Name: tok.Value}
}
