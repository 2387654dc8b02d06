package rdf

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Parse reads a Turtle document into a new graph. The supported subset
// covers prefix declarations, prefixed names, IRIs, the "a" keyword,
// language-tagged and datatyped literals, numeric and boolean shorthand,
// blank node property lists, collections and comments. N-Triples input is
// accepted as a degenerate case.
func Parse(input string) (*Graph, error) {
	p := &parser{src: input, graph: NewGraph()}
	if err := p.run(); err != nil {
		return nil, err
	}
	return p.graph, nil
}

type parser struct {
	src   string
	pos   int
	line  int
	graph *Graph
}

func (p *parser) run() error {
	p.line = 1
	for {
		p.skipWhitespace()
		if p.eof() {
			return nil
		}
		if err := p.statement(); err != nil {
			return fmt.Errorf("line %d: %w", p.line, err)
		}
	}
}

func (p *parser) statement() error {
	if p.peekString("@prefix") || p.peekString("PREFIX") {
		return p.prefixDecl()
	}
	if p.peekString("@base") || p.peekString("BASE") {
		return fmt.Errorf("base declarations are not supported")
	}

	subject, err := p.subject()
	if err != nil {
		return err
	}
	if err := p.predicateObjectList(subject); err != nil {
		return err
	}
	return p.expect('.')
}

func (p *parser) prefixDecl() error {
	sparqlStyle := p.peekString("PREFIX")
	if sparqlStyle {
		p.pos += len("PREFIX")
	} else {
		p.pos += len("@prefix")
	}
	p.skipWhitespace()

	name, err := p.readUntil(':')
	if err != nil {
		return fmt.Errorf("prefix name: %w", err)
	}
	p.pos++ // consume ':'
	p.skipWhitespace()

	iri, err := p.iriRef()
	if err != nil {
		return fmt.Errorf("prefix IRI: %w", err)
	}
	p.graph.Bind(strings.TrimSpace(name), string(iri))

	if !sparqlStyle {
		p.skipWhitespace()
		return p.expect('.')
	}
	return nil
}

func (p *parser) predicateObjectList(subject Term) error {
	for {
		p.skipWhitespace()
		predicate, err := p.predicate()
		if err != nil {
			return err
		}
		for {
			p.skipWhitespace()
			object, err := p.object()
			if err != nil {
				return err
			}
			p.graph.Add(subject, predicate, object)
			p.skipWhitespace()
			if p.peek() == ',' {
				p.pos++
				continue
			}
			break
		}
		if p.peek() == ';' {
			p.pos++
			p.skipWhitespace()
			// trailing ";" before "." or "]" is legal
			if c := p.peek(); c == '.' || c == ']' {
				return nil
			}
			continue
		}
		return nil
	}
}

func (p *parser) subject() (Term, error) {
	p.skipWhitespace()
	switch c := p.peek(); {
	case c == '<':
		return p.iriRef()
	case c == '_':
		return p.bnodeLabel()
	case c == '[':
		return p.bnodePropertyList()
	default:
		return p.prefixedName()
	}
}

func (p *parser) predicate() (IRI, error) {
	if p.peek() == 'a' && isTerminator(p.peekAt(1)) {
		p.pos++
		return RDFType, nil
	}
	if p.peek() == '<' {
		return p.iriRef()
	}
	term, err := p.prefixedName()
	if err != nil {
		return "", err
	}
	iri, ok := term.(IRI)
	if !ok {
		return "", fmt.Errorf("predicate must be an IRI")
	}
	return iri, nil
}

func (p *parser) object() (Term, error) {
	switch c := p.peek(); {
	case c == '<':
		return p.iriRef()
	case c == '"' || c == '\'':
		return p.literal()
	case c == '_':
		return p.bnodeLabel()
	case c == '[':
		return p.bnodePropertyList()
	case c == '(':
		return p.collection()
	case c == '+' || c == '-' || (c >= '0' && c <= '9'):
		return p.numericLiteral()
	case p.peekKeyword("true"):
		p.pos += 4
		return Boolean(true), nil
	case p.peekKeyword("false"):
		p.pos += 5
		return Boolean(false), nil
	default:
		return p.prefixedName()
	}
}

func (p *parser) iriRef() (IRI, error) {
	if p.peek() != '<' {
		return "", fmt.Errorf("expected '<'")
	}
	p.pos++
	start := p.pos
	for !p.eof() && p.peek() != '>' {
		if p.peek() == '\n' {
			return "", fmt.Errorf("unterminated IRI")
		}
		p.pos++
	}
	if p.eof() {
		return "", fmt.Errorf("unterminated IRI")
	}
	iri := p.src[start:p.pos]
	p.pos++ // consume '>'
	return IRI(iri), nil
}

func (p *parser) bnodeLabel() (Term, error) {
	if !p.peekString("_:") {
		return nil, fmt.Errorf("expected blank node label")
	}
	p.pos += 2
	start := p.pos
	for !p.eof() && isNameChar(p.peekRune()) {
		p.advanceRune()
	}
	if p.pos == start {
		return nil, fmt.Errorf("empty blank node label")
	}
	return BNode(p.src[start:p.pos]), nil
}

func (p *parser) bnodePropertyList() (Term, error) {
	p.pos++ // consume '['
	node := p.graph.NewBNode()
	p.skipWhitespace()
	if p.peek() == ']' {
		p.pos++
		return node, nil
	}
	if err := p.predicateObjectList(node); err != nil {
		return nil, err
	}
	p.skipWhitespace()
	if p.peek() != ']' {
		return nil, fmt.Errorf("expected ']'")
	}
	p.pos++
	return node, nil
}

func (p *parser) collection() (Term, error) {
	p.pos++ // consume '('
	var items []Term
	for {
		p.skipWhitespace()
		if p.eof() {
			return nil, fmt.Errorf("unterminated collection")
		}
		if p.peek() == ')' {
			p.pos++
			break
		}
		item, err := p.object()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return RDFNil, nil
	}

	head := p.graph.NewBNode()
	cur := head
	for i, item := range items {
		p.graph.Add(cur, RDFFirst, item)
		if i == len(items)-1 {
			p.graph.Add(cur, RDFRest, RDFNil)
		} else {
			next := p.graph.NewBNode()
			p.graph.Add(cur, RDFRest, next)
			cur = next
		}
	}
	return head, nil
}

func (p *parser) literal() (Term, error) {
	value, err := p.quotedString()
	if err != nil {
		return nil, err
	}
	lit := Literal{Value: value}
	if p.peek() == '@' {
		p.pos++
		start := p.pos
		for !p.eof() && (isAlphaNum(p.peek()) || p.peek() == '-') {
			p.pos++
		}
		lit.Lang = p.src[start:p.pos]
	} else if p.peekString("^^") {
		p.pos += 2
		var dt IRI
		if p.peek() == '<' {
			dt, err = p.iriRef()
		} else {
			var term Term
			term, err = p.prefixedName()
			if err == nil {
				dt = term.(IRI)
			}
		}
		if err != nil {
			return nil, fmt.Errorf("literal datatype: %w", err)
		}
		lit.Datatype = dt
	}
	return lit, nil
}

func (p *parser) quotedString() (string, error) {
	quote := p.peek()
	long := p.peekString(string([]byte{quote, quote, quote}))
	if long {
		p.pos += 3
	} else {
		p.pos++
	}

	var sb strings.Builder
	for {
		if p.eof() {
			return "", fmt.Errorf("unterminated string")
		}
		c := p.peek()
		if c == '\n' {
			if !long {
				return "", fmt.Errorf("unterminated string")
			}
			p.line++
		}
		if c == quote {
			if !long {
				p.pos++
				return sb.String(), nil
			}
			if p.peekString(string([]byte{quote, quote, quote})) {
				p.pos += 3
				return sb.String(), nil
			}
		}
		if c == '\\' {
			p.pos++
			if p.eof() {
				return "", fmt.Errorf("unterminated escape")
			}
			switch p.peek() {
			case 't':
				sb.WriteByte('\t')
			case 'n':
				sb.WriteByte('\n')
			case 'r':
				sb.WriteByte('\r')
			case '"':
				sb.WriteByte('"')
			case '\'':
				sb.WriteByte('\'')
			case '\\':
				sb.WriteByte('\\')
			default:
				return "", fmt.Errorf("unsupported escape \\%c", p.peek())
			}
			p.pos++
			continue
		}
		sb.WriteByte(c)
		p.pos++
	}
}

func (p *parser) numericLiteral() (Term, error) {
	start := p.pos
	if c := p.peek(); c == '+' || c == '-' {
		p.pos++
	}
	digits := false
	decimal := false
	for !p.eof() {
		c := p.peek()
		if c >= '0' && c <= '9' {
			digits = true
			p.pos++
			continue
		}
		if c == '.' && !decimal && p.peekAt(1) >= '0' && p.peekAt(1) <= '9' {
			decimal = true
			p.pos++
			continue
		}
		break
	}
	if !digits {
		return nil, fmt.Errorf("malformed number")
	}
	value := p.src[start:p.pos]
	if decimal {
		return Literal{Value: value, Datatype: XSDDecimal}, nil
	}
	return Literal{Value: value, Datatype: XSDInteger}, nil
}

func (p *parser) prefixedName() (Term, error) {
	start := p.pos
	for !p.eof() && isNameChar(p.peekRune()) {
		p.advanceRune()
	}
	if p.eof() || p.peek() != ':' {
		return nil, fmt.Errorf("expected prefixed name near %q", p.context())
	}
	prefix := p.src[start:p.pos]
	p.pos++ // consume ':'
	localStart := p.pos
	for !p.eof() && isLocalChar(p.peekRune()) {
		p.advanceRune()
	}
	local := p.src[localStart:p.pos]
	// a trailing dot terminates the statement, not the name
	for strings.HasSuffix(local, ".") {
		local = local[:len(local)-1]
		p.pos--
	}

	ns, ok := p.graph.prefixes[prefix]
	if !ok {
		return nil, fmt.Errorf("undeclared prefix %q", prefix)
	}
	return IRI(ns + local), nil
}

// --- lexer helpers ---

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) peek() byte {
	if p.eof() {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) peekAt(offset int) byte {
	if p.pos+offset >= len(p.src) {
		return 0
	}
	return p.src[p.pos+offset]
}

func (p *parser) peekRune() rune {
	if p.eof() {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(p.src[p.pos:])
	return r
}

func (p *parser) advanceRune() {
	_, size := utf8.DecodeRuneInString(p.src[p.pos:])
	p.pos += size
}

func (p *parser) peekString(s string) bool {
	return strings.HasPrefix(p.src[p.pos:], s)
}

// peekKeyword matches a bare keyword followed by a terminator.
func (p *parser) peekKeyword(kw string) bool {
	if !p.peekString(kw) {
		return false
	}
	return isTerminator(p.peekAt(len(kw)))
}

func (p *parser) expect(c byte) error {
	p.skipWhitespace()
	if p.peek() != c {
		return fmt.Errorf("expected %q near %q", string(c), p.context())
	}
	p.pos++
	return nil
}

func (p *parser) skipWhitespace() {
	for !p.eof() {
		c := p.peek()
		if c == '#' {
			for !p.eof() && p.peek() != '\n' {
				p.pos++
			}
			continue
		}
		if c == '\n' {
			p.line++
			p.pos++
			continue
		}
		if c == ' ' || c == '\t' || c == '\r' {
			p.pos++
			continue
		}
		return
	}
}

func (p *parser) readUntil(c byte) (string, error) {
	start := p.pos
	for !p.eof() && p.peek() != c {
		if p.peek() == '\n' {
			return "", fmt.Errorf("unexpected newline")
		}
		p.pos++
	}
	if p.eof() {
		return "", fmt.Errorf("unexpected end of input")
	}
	return p.src[start:p.pos], nil
}

func (p *parser) context() string {
	end := p.pos + 20
	if end > len(p.src) {
		end = len(p.src)
	}
	return p.src[p.pos:end]
}

func isTerminator(c byte) bool {
	switch c {
	case 0, ' ', '\t', '\r', '\n', '<', '"', '\'', '[', '(', ';', ',', '.':
		return true
	}
	return false
}

func isAlphaNum(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func isNameChar(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-'
}

func isLocalChar(r rune) bool {
	return isNameChar(r) || r == '.'
}
