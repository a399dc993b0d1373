// Package parser turns lsys source text into a model.Model. Hand-written
// recursive descent over internal/lexer's token stream, in the style of
// the teacher's internal/parser (no parser generator), grounded on
// original_source/src/parsed_model.cpp for what a source file contains
// (a header comment, #define/#ignore directives, an axiom line, then
// production lines) even though no original grammar file survived into
// the retrieved sources to port literally — see DESIGN.md.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/lsysgo/lsys/internal/ast"
	"github.com/lsysgo/lsys/internal/diag"
	"github.com/lsysgo/lsys/internal/engine"
	"github.com/lsysgo/lsys/internal/lexer"
	"github.com/lsysgo/lsys/internal/model"
	"github.com/lsysgo/lsys/internal/modules"
	"github.com/lsysgo/lsys/internal/names"
	"github.com/lsysgo/lsys/internal/productions"
	"github.com/lsysgo/lsys/internal/symbols"
	"github.com/lsysgo/lsys/internal/token"
	"github.com/lsysgo/lsys/internal/values"
)

// Parser holds the token stream and parse state for one source file.
type Parser struct {
	toks []token.Token
	pos  int

	in   *names.Interner
	eng  *engine.Engine
	diag diag.Sink
	m    *model.Model
}

// Parse reads src as an lsys source file and returns the Model it
// describes. eng supplies the name interner productions and modules are
// built against (and the PRNG used to evaluate any #define expression
// that happens to call rand()); sink receives non-fatal diagnostics.
func Parse(src string, eng *engine.Engine, sink diag.Sink) (*model.Model, error) {
	p := &Parser{in: eng.Names, eng: eng, diag: sink, m: model.New()}
	p.m.Header = extractHeader(src)
	p.tokenize(src)

	// Pass 1: collect every #define/#ignore directive regardless of
	// where it sits in the file, so Pass 2 can stamp Module.Ignore
	// correctly on every module it builds, including ones that precede
	// the directive that ignores them.
	if err := p.collectDirectives(); err != nil {
		return nil, err
	}

	p.pos = 0
	if err := p.parseBody(); err != nil {
		return nil, err
	}
	return p.m, nil
}

func (p *Parser) tokenize(src string) {
	lx := lexer.New(src)
	for {
		tok := lx.NextToken()
		p.toks = append(p.toks, tok)
		if tok.Type == token.EOF {
			return
		}
	}
}

// extractHeader collects a leading run of blank or ";"/"//"-commented
// lines, stripped of their comment markers, as the file's header text —
// carried through to a Generator's SetHeader.
func extractHeader(src string) string {
	var lines []string
	for _, line := range strings.Split(src, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			continue
		case strings.HasPrefix(trimmed, ";"):
			lines = append(lines, strings.TrimSpace(trimmed[1:]))
		case strings.HasPrefix(trimmed, "//"):
			lines = append(lines, strings.TrimSpace(trimmed[2:]))
		default:
			return strings.TrimSpace(strings.Join(lines, "\n"))
		}
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// --- token-stream helpers ---

func (p *Parser) cur() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Type: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) advance() token.Token {
	t := p.cur()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return t
}

func (p *Parser) atEOF() bool {
	return p.cur().Type == token.EOF
}

func (p *Parser) expect(tt token.Type, what string) (token.Token, error) {
	t := p.cur()
	if t.Type != tt {
		return t, fmt.Errorf("line %d: expected %s, found %q", t.Line, what, t.Lexeme)
	}
	return p.advance(), nil
}

// skipBlankLines consumes any run of bare NEWLINE tokens (empty lines).
func (p *Parser) skipBlankLines() {
	for p.cur().Type == token.NEWLINE {
		p.advance()
	}
}

// skipLine discards everything up to and including the next NEWLINE (or
// EOF), used to skip over a line this pass doesn't care about.
func (p *Parser) skipLine() {
	for p.cur().Type != token.NEWLINE && p.cur().Type != token.EOF {
		p.advance()
	}
	if p.cur().Type == token.NEWLINE {
		p.advance()
	}
}

func (p *Parser) expectLineEnd() error {
	t := p.cur()
	if t.Type != token.NEWLINE && t.Type != token.EOF {
		return fmt.Errorf("line %d: unexpected %q at end of line", t.Line, t.Lexeme)
	}
	if t.Type == token.NEWLINE {
		p.advance()
	}
	return nil
}

// skipDirectiveOrBlankLines skips blank lines and directive lines
// (already applied by collectDirectives), leaving the cursor at the
// next axiom/production line or EOF.
func (p *Parser) skipDirectiveOrBlankLines() {
	for {
		p.skipBlankLines()
		switch p.cur().Type {
		case token.HASH_DEFINE, token.HASH_IGNORE:
			p.skipLine()
		default:
			return
		}
	}
}

// --- pass 1: directives ---

func (p *Parser) collectDirectives() error {
	for !p.atEOF() {
		p.skipBlankLines()
		switch p.cur().Type {
		case token.HASH_DEFINE:
			if err := p.collectDefine(); err != nil {
				return err
			}
		case token.HASH_IGNORE:
			if err := p.collectIgnore(); err != nil {
				return err
			}
		case token.EOF:
			return nil
		default:
			p.skipLine()
		}
	}
	return nil
}

func (p *Parser) collectDefine() error {
	p.advance() // #define
	nameTok, err := p.expect(token.IDENT, "a name")
	if err != nil {
		return err
	}
	expr, err := p.parseExpression()
	if err != nil {
		return err
	}
	if err := p.expectLineEnd(); err != nil {
		return err
	}
	id := p.in.Intern(nameTok.Lexeme)
	env := ast.Env{Symbols: p.m.Globals, Engine: p.eng, Diag: p.diag}
	p.m.Globals.Enter(id, expr.Evaluate(env))
	return nil
}

func (p *Parser) collectIgnore() error {
	p.advance() // #ignore
	for isModuleStart(p.cur().Type) {
		name, err := p.resolveModuleName()
		if err != nil {
			return err
		}
		symbols.Add(p.m.Ignore, p.in.Intern(name))
	}
	return p.expectLineEnd()
}

// --- pass 2: axiom + productions ---

func (p *Parser) parseBody() error {
	p.skipDirectiveOrBlankLines()
	if p.atEOF() {
		return fmt.Errorf("lsys source has no axiom")
	}
	axiom, err := p.readModuleList()
	if err != nil {
		return err
	}
	if len(axiom) == 0 {
		return fmt.Errorf("line %d: empty axiom", p.cur().Line)
	}
	p.m.Start = axiom
	if err := p.expectLineEnd(); err != nil {
		return err
	}

	for {
		p.skipDirectiveOrBlankLines()
		if p.atEOF() {
			return nil
		}
		prod, err := p.parseProduction()
		if err != nil {
			return err
		}
		p.m.Rules = append(p.m.Rules, prod)
	}
}

// parseProduction parses one production line:
//
//	[ moduleList "<" ] module [ ">" moduleList ] [ ":" expr ] "->" successors
func (p *Parser) parseProduction() (productions.Production, error) {
	first, err := p.readModuleList()
	if err != nil {
		return productions.Production{}, err
	}
	if len(first) == 0 {
		t := p.cur()
		return productions.Production{}, fmt.Errorf("line %d: expected a production, found %q", t.Line, t.Lexeme)
	}

	var left modules.List
	var center modules.Module
	if p.cur().Type == token.LT {
		p.advance()
		left = first
		center, err = p.readModule()
		if err != nil {
			return productions.Production{}, err
		}
	} else {
		if len(first) != 1 {
			t := p.cur()
			return productions.Production{}, fmt.Errorf("line %d: expected a single predecessor module before %q", t.Line, t.Lexeme)
		}
		center = first[0]
	}

	var right modules.List
	if p.cur().Type == token.GT {
		p.advance()
		right, err = p.readModuleList()
		if err != nil {
			return productions.Production{}, err
		}
	}

	var cond *ast.Expression
	if p.cur().Type == token.COLON {
		p.advance()
		cond, err = p.parseExpression()
		if err != nil {
			return productions.Production{}, err
		}
	}

	if _, err := p.expect(token.ARROW, `"->"`); err != nil {
		return productions.Production{}, err
	}

	successors, err := p.parseSuccessors()
	if err != nil {
		return productions.Production{}, err
	}
	if err := p.expectLineEnd(); err != nil {
		return productions.Production{}, err
	}

	return productions.Production{
		Name: center.Name,
		Predecessor: productions.Predecessor{
			Left:   left,
			Center: center,
			Right:  right,
		},
		Condition:  cond,
		Successors: successors,
	}, nil
}

// parseSuccessors parses a comma-separated list of
// [ "(" NUMBER ")" ] moduleList alternatives. A bare (unweighted)
// successor carries an implicit probability of 1.
func (p *Parser) parseSuccessors() ([]productions.Successor, error) {
	var out []productions.Successor
	for {
		prob := 1.0
		if p.cur().Type == token.LPAREN {
			p.advance()
			numTok, err := p.expect(token.NUMBER, "a probability")
			if err != nil {
				return nil, err
			}
			f, err := strconv.ParseFloat(numTok.Lexeme, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid probability %q: %w", numTok.Line, numTok.Lexeme, err)
			}
			prob = f
			if _, err := p.expect(token.RPAREN, `")"`); err != nil {
				return nil, err
			}
		}
		mods, err := p.readModuleList()
		if err != nil {
			return nil, err
		}
		out = append(out, productions.Successor{Probability: prob, Modules: mods})

		if p.cur().Type == token.COMMA {
			p.advance()
			continue
		}
		return out, nil
	}
}

// --- module lists ---

// moduleStartTokens are the token types that can begin a module name:
// plain identifiers, "@"-prefixed action names, and every single-
// character symbol the interpreter's action table recognizes as a
// module rather than (only) an arithmetic operator.
func isModuleStart(tt token.Type) bool {
	switch tt {
	case token.IDENT, token.AT,
		token.PLUS, token.MINUS, token.AMP, token.CARET, token.SLASH, token.BACKSLASH,
		token.PIPE, token.BANG, token.TILDE, token.QUOTE, token.DOLLAR, token.DOT,
		token.LBRACKET, token.RBRACKET, token.LBRACE, token.RBRACE, token.PERCENT:
		return true
	}
	return false
}

// readModuleList reads a maximal run of modules, stopping at the first
// token that cannot start one (end of line, "<", ">", ":", "->", ",",
// ")").
func (p *Parser) readModuleList() (modules.List, error) {
	var out modules.List
	for isModuleStart(p.cur().Type) {
		m, err := p.readModule()
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// resolveModuleName consumes the token(s) that name one module ("F",
// "+", "@md", ...) without touching any following parameter list.
func (p *Parser) resolveModuleName() (string, error) {
	t := p.cur()
	switch t.Type {
	case token.AT:
		p.advance()
		ident, err := p.expect(token.IDENT, "an action name after \"@\"")
		if err != nil {
			return "", err
		}
		return "@" + ident.Lexeme, nil
	case token.ILLEGAL:
		return "", fmt.Errorf("line %d: illegal token %q", t.Line, t.Lexeme)
	default:
		if !isModuleStart(t.Type) {
			return "", fmt.Errorf("line %d: expected a module, found %q", t.Line, t.Lexeme)
		}
		p.advance()
		return t.Lexeme, nil
	}
}

// readModule reads one module: its name, then an optional
// "(" expr ("," expr)* ")" parameter list.
func (p *Parser) readModule() (modules.Module, error) {
	name, err := p.resolveModuleName()
	if err != nil {
		return modules.Module{}, err
	}
	id := p.in.Intern(name)

	var params []*ast.Expression
	if p.cur().Type == token.LPAREN {
		p.advance()
		if p.cur().Type != token.RPAREN {
			for {
				e, err := p.parseExpression()
				if err != nil {
					return modules.Module{}, err
				}
				params = append(params, e)
				if p.cur().Type == token.COMMA {
					p.advance()
					continue
				}
				break
			}
		}
		if _, err := p.expect(token.RPAREN, `")"`); err != nil {
			return modules.Module{}, err
		}
	}

	ignore := symbols.Contains(p.m.Ignore, id)
	return modules.New(id, params, ignore), nil
}

// --- expressions ---
//
// Standard precedence climbing, loosest to tightest: || && | & == !=
// relational + - * / % then unary -/~/! then ^ (power, right-
// associative, binding tighter than unary so "-2^2" reads as "-(2^2)"
// but "2^-2" still parses its exponent).

func (p *Parser) parseExpression() (*ast.Expression, error) {
	return p.parseLogicalOr()
}

func (p *Parser) parseLogicalOr() (*ast.Expression, error) {
	left, err := p.parseLogicalAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.LOR {
		p.advance()
		right, err := p.parseLogicalAnd()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(ast.OpLOr, left, right)
	}
	return left, nil
}

func (p *Parser) parseLogicalAnd() (*ast.Expression, error) {
	left, err := p.parseBitOr()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.LAND {
		p.advance()
		right, err := p.parseBitOr()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(ast.OpLAnd, left, right)
	}
	return left, nil
}

func (p *Parser) parseBitOr() (*ast.Expression, error) {
	left, err := p.parseBitAnd()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.PIPE {
		p.advance()
		right, err := p.parseBitAnd()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(ast.OpOr, left, right)
	}
	return left, nil
}

func (p *Parser) parseBitAnd() (*ast.Expression, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.cur().Type == token.AMP {
		p.advance()
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(ast.OpAnd, left, right)
	}
	return left, nil
}

func (p *Parser) parseEquality() (*ast.Expression, error) {
	left, err := p.parseRelational()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Op
		switch p.cur().Type {
		case token.EQ:
			op = ast.OpEq
		case token.NE:
			op = ast.OpNe
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseRelational()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(op, left, right)
	}
}

func (p *Parser) parseRelational() (*ast.Expression, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Op
		switch p.cur().Type {
		case token.LT:
			op = ast.OpLt
		case token.LE:
			op = ast.OpLe
		case token.GT:
			op = ast.OpGt
		case token.GE:
			op = ast.OpGe
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(op, left, right)
	}
}

func (p *Parser) parseAdditive() (*ast.Expression, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Op
		switch p.cur().Type {
		case token.PLUS:
			op = ast.OpAdd
		case token.MINUS:
			op = ast.OpSub
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(op, left, right)
	}
}

func (p *Parser) parseMultiplicative() (*ast.Expression, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for {
		var op ast.Op
		switch p.cur().Type {
		case token.STAR:
			op = ast.OpMul
		case token.SLASH:
			op = ast.OpDiv
		case token.PERCENT:
			op = ast.OpMod
		default:
			return left, nil
		}
		p.advance()
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = ast.NewBinary(op, left, right)
	}
}

func (p *Parser) parseUnary() (*ast.Expression, error) {
	var op ast.Op
	switch p.cur().Type {
	case token.MINUS:
		op = ast.OpNeg
	case token.TILDE:
		op = ast.OpNot
	case token.BANG:
		op = ast.OpLNot
	default:
		return p.parsePower()
	}
	p.advance()
	operand, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	return ast.NewUnary(op, operand), nil
}

func (p *Parser) parsePower() (*ast.Expression, error) {
	base, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	if p.cur().Type == token.CARET {
		p.advance()
		exp, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return ast.NewBinary(ast.OpPow, base, exp), nil
	}
	return base, nil
}

func (p *Parser) parsePrimary() (*ast.Expression, error) {
	t := p.cur()
	switch t.Type {
	case token.NUMBER:
		p.advance()
		return ast.NewValue(parseNumber(t.Lexeme)), nil

	case token.LPAREN:
		p.advance()
		e, err := p.parseExpression()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(token.RPAREN, `")"`); err != nil {
			return nil, err
		}
		return e, nil

	case token.IDENT:
		p.advance()
		id := p.in.Intern(t.Lexeme)
		if p.cur().Type != token.LPAREN {
			return ast.NewName(id), nil
		}
		p.advance()
		var args []*ast.Expression
		if p.cur().Type != token.RPAREN {
			for {
				a, err := p.parseExpression()
				if err != nil {
					return nil, err
				}
				args = append(args, a)
				if p.cur().Type == token.COMMA {
					p.advance()
					continue
				}
				break
			}
		}
		if _, err := p.expect(token.RPAREN, `")"`); err != nil {
			return nil, err
		}
		return ast.NewFunction(id, args), nil

	default:
		return nil, fmt.Errorf("line %d: expected an expression, found %q", t.Line, t.Lexeme)
	}
}

func parseNumber(lexeme string) values.Value {
	if strings.ContainsAny(lexeme, ".eE") {
		f, _ := strconv.ParseFloat(lexeme, 64)
		return values.NewFloat(f)
	}
	i, err := strconv.Atoi(lexeme)
	if err != nil {
		f, _ := strconv.ParseFloat(lexeme, 64)
		return values.NewFloat(f)
	}
	return values.NewInt(i)
}
