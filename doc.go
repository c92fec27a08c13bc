// Package iniconf implements a parser for a hierarchical, INI-like config
// format. Every value remembers the file and line(s) it came from, trees can
// be combined with overwrite (Merge) or fill-only (Meld) semantics and
// rendered back to text.
//
// # Syntax
//
// The format is line oriented. Each line is, in this order of precedence:
//
//   - blank or a comment starting with '#' or ';'
//   - a section header: [name] with an optional trailing comment
//   - an assignment: key = value
//   - a continuation: an indented line extending the previous value
//   - an include: %include path
//
// Anything else is a syntax error.
//
//	# global settings
//	plugins = mysqldump
//
//	[mysqldump]
//	user = backup       ; inline comment
//	password = "p#ss"   # quoted values may contain comment characters
//	options = --single-transaction
//	    --routines
//
//	%include /etc/holland/local.conf
//
// Continuation text is appended without a separator, so "options" above is
// "--single-transaction--routines". Sections are always children of the
// root; there is no nested section syntax.
//
// An included file is read when the directive is reached and merged into
// the whole tree parsed so far. Relative include paths are resolved against
// the directory of the including file. Include cycles are not detected.
//
// # Usage
//
//	cfg, err := iniconf.Read("/etc/holland/holland.conf", "/etc/holland/local.conf")
//	if err != nil { ... }
//	user, _ := cfg.GetPath("mysqldump.user")
//	origin, _ := cfg.OriginPath("mysqldump.user") // e.g. /etc/holland/holland.conf:6
//
// Later files take precedence. Use a Reader to customize encoding, key
// transforms or how files are opened (see the stream subpackage).
//
// # Combining trees
//
// Merge copies all keys of the source and overwrites existing ones. Meld
// only adds keys that are missing, which is useful for defaults:
//
//	if err := cfg.Meld(defaults); err != nil { ... }
//
// A key that is a section on one side and a value on the other returns a
// *NamespaceConflictError. The destination may be partially modified in
// that case.
//
// # Error Handling
//
// Use errors.Is to detect error categories:
//
//	if errors.Is(err, iniconf.ErrSyntax) {
//		var se *iniconf.SyntaxError
//		errors.As(err, &se) // se.Filename, se.Lineno, se.Text
//	}
//	if errors.Is(err, iniconf.ErrResource) && errors.Is(err, fs.ErrNotExist) {
//		// missing file
//	}
//
// # Known limitations
//
// * Writing does not preserve comments, blank lines or continuation splits
// * Only one level of sections can be expressed in the text format, deeper
//   sections built in code are left out when writing
// * Include cycles recurse until the stack is exhausted
package iniconf
