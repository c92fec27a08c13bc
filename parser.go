package iniconf

import (
	"bufio"
	"io"
	"iter"
	"path/filepath"
	"strings"

	"github.com/gopasspw/gopass/pkg/debug"
)

// UnknownSource is used as file name for inputs without a name.
const UnknownSource = "<unknown>"

// maxLineLength bounds a single physical line.
const maxLineLength = 1 << 20

// parser holds the state while consuming the lines of one input.
//
// section is the node keys are currently assigned to, either the root or a
// child of the root. key is the last assigned key, continuation lines extend
// it. There is no nested section syntax: every header opens a child of the
// root.
type parser struct {
	r       *Reader
	name    string
	root    *Node
	section *Node
	key     string
	lineno  int
	line    string
}

// Parse consumes the lines of in and returns the resulting tree. name is
// used for diagnostics and to resolve relative include paths; pass "" for
// inputs that are not backed by a file.
func (r *Reader) Parse(name string, in io.Reader) (*Node, error) {
	s := bufio.NewScanner(in)
	s.Buffer(make([]byte, 0, 4096), maxLineLength)

	cfg, err := r.ParseLines(name, func(yield func(string) bool) {
		for s.Scan() {
			if !yield(s.Text()) {
				return
			}
		}
	})
	if err != nil {
		return nil, err
	}
	if err := s.Err(); err != nil {
		return nil, &ResourceError{Path: displayName(name), Err: err}
	}

	return cfg, nil
}

// ParseLines builds a tree from a sequence of lines without line
// terminators.
func (r *Reader) ParseLines(name string, lines iter.Seq[string]) (*Node, error) {
	root := New()
	p := &parser{
		r:       r,
		name:    displayName(name),
		root:    root,
		section: root,
	}

	for line := range lines {
		p.line = line
		if err := p.consume(line); err != nil {
			return nil, err
		}
		p.lineno++
	}

	debug.V(3).Log("parsed %d lines from %s", p.lineno, p.name)

	return root, nil
}

func displayName(name string) string {
	if name == "" {
		return UnknownSource
	}

	return name
}

func (p *parser) here() Origin {
	return At(p.name, p.lineno+1)
}

func (p *parser) syntaxError(err error) error {
	return &SyntaxError{
		Filename: p.name,
		Lineno:   p.lineno,
		Text:     p.line,
		Err:      err,
	}
}

func (p *parser) consume(line string) error {
	tok := classify(line)
	switch tok.kind {
	case tokBlank:
		return nil
	case tokSection:
		return p.openSection(tok.name)
	case tokKey:
		return p.assign(tok.name, tok.value)
	case tokContinuation:
		return p.continueValue(tok.value)
	case tokInclude:
		return p.include(tok.name)
	case tokInvalid:
		return p.syntaxError(ErrSyntax)
	}

	return p.syntaxError(ErrSyntax)
}

func (p *parser) openSection(name string) error {
	name = p.r.sectionTransform(name)

	section, created, err := p.root.findOrCreateSection(name)
	if err != nil {
		return &NamespaceConflictError{Key: name, Origin: p.here()}
	}
	if created {
		debug.V(3).Log("recording source of section %q as %s", name, p.here())
		p.root.SetOrigin(name, p.here())
	}
	p.section = section
	p.key = ""

	return nil
}

func (p *parser) assign(key, raw string) error {
	key = p.r.keyTransform(key)
	value, err := p.r.valueTransform(raw)
	if err != nil {
		return p.syntaxError(err)
	}

	if cur, found := p.section.Lookup(key); found && cur.IsSection() {
		return &NamespaceConflictError{Key: key, Origin: p.here()}
	}

	p.section.Set(key, value)
	p.section.SetOrigin(key, p.here())
	p.key = key
	debug.V(3).Log("recording source of key %q as %s", key, p.here())

	return nil
}

func (p *parser) continueValue(fragment string) error {
	if p.key == "" {
		return p.syntaxError(ErrUnexpectedContinuation)
	}

	value, _ := p.section.Get(p.key)
	p.section.Set(p.key, value+strings.TrimSpace(fragment))

	o, found := p.section.Origin(p.key)
	if !found {
		o = p.here()
	}
	o = o.Extend(p.lineno + 1)
	p.section.SetOrigin(p.key, o)
	debug.V(3).Log("recording source of key %q as %s", p.key, o)

	return nil
}

// include reads path and merges it into the whole tree built so far.
// Relative paths are resolved against the directory of the current input.
// Include cycles are not detected.
func (p *parser) include(path string) error {
	if !filepath.IsAbs(path) {
		base := "."
		if p.name != UnknownSource {
			base = filepath.Dir(p.name)
		}
		path = filepath.Join(base, path)
	}

	debug.V(2).Log("including %s from %s", path, p.here())

	sub, err := p.r.Read(path)
	if err != nil {
		return err
	}

	return p.root.Merge(sub)
}
