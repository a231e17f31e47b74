// Package preprocessor implements the assembler's source normalization
// pass: comment stripping, #include inlining, .define substitution, and
// .ifdef/.ifndef/.else/.endif conditional filtering (spec §4.1).
package preprocessor

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Preprocessor tracks macro definitions and the conditional-assembly
// stack across a single run. A fresh Preprocessor is created per file so
// no state leaks between assembler invocations.
type Preprocessor struct {
	Defines map[string]string

	defineOrder []string // .define names in first-seen order, for deterministic substitution
	conditions  []bool   // one entry per open .ifdef/.ifndef, true = branch is live
	visited     map[string]bool
}

// New returns an empty Preprocessor.
func New() *Preprocessor {
	return &Preprocessor{
		Defines: make(map[string]string),
		visited: make(map[string]bool),
	}
}

// Run preprocesses the named source file and returns the normalized
// line sequence: comments stripped, conditionals filtered, defines
// substituted, and #include files inlined.
func (p *Preprocessor) Run(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading source %q: %w", path, err)
	}
	return p.process(strings.Split(string(data), "\n"), filepath.Dir(path))
}

// process implements the line-by-line preprocessing contract described
// in spec §4.1. dir is the directory #include paths are resolved
// relative to.
func (p *Preprocessor) process(lines []string, dir string) ([]string, error) {
	var included []string
	var out []string

	for _, raw := range lines {
		line := stripComment(raw)
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		directive := fields[0]

		switch {
		case directive == "#include":
			incLines, err := p.include(fields, dir)
			if err != nil {
				return nil, err
			}
			included = append(included, incLines...)
			continue

		case directive == ".ifdef":
			if len(fields) < 2 {
				return nil, fmt.Errorf(".ifdef requires a macro name")
			}
			_, defined := p.Defines[fields[1]]
			p.conditions = append(p.conditions, defined)
			continue

		case directive == ".ifndef":
			if len(fields) < 2 {
				return nil, fmt.Errorf(".ifndef requires a macro name")
			}
			_, defined := p.Defines[fields[1]]
			p.conditions = append(p.conditions, !defined)
			continue

		case directive == ".else":
			if len(p.conditions) == 0 {
				return nil, fmt.Errorf(".else without matching .ifdef or .ifndef")
			}
			p.conditions[len(p.conditions)-1] = !p.conditions[len(p.conditions)-1]
			continue

		case directive == ".endif":
			if len(p.conditions) == 0 {
				return nil, fmt.Errorf(".endif without matching .ifdef or .ifndef")
			}
			p.conditions = p.conditions[:len(p.conditions)-1]
			continue
		}

		if !p.emitting() {
			continue
		}

		if directive == ".define" {
			if len(fields) < 3 {
				return nil, fmt.Errorf(".define requires a name and a value")
			}
			if _, exists := p.Defines[fields[1]]; !exists {
				p.defineOrder = append(p.defineOrder, fields[1])
			}
			p.Defines[fields[1]] = fields[2]
			continue
		}

		out = append(out, p.substitute(line))
	}

	return append(included, out...), nil
}

// emitting recomputes whether the current line should be emitted as the
// conjunction over the whole conditional stack. Recomputing from scratch
// on every query (rather than threading a single running flag through
// pushes, flips, and pops) is what spec §9's "Preprocessor conditional
// stack semantics" note asks for: a .else or .endif anywhere in the
// stack always yields the correct AND of everything still open.
func (p *Preprocessor) emitting() bool {
	for _, c := range p.conditions {
		if !c {
			return false
		}
	}
	return true
}

// substitute textually replaces every defined macro name with its
// substitution text. Names are substituted longest-first (ties broken
// by .define order) so that one macro name being a prefix of another
// doesn't shadow it, and so the result is deterministic — ranging over
// p.Defines directly would iterate in Go's randomized map order.
func (p *Preprocessor) substitute(line string) string {
	names := make([]string, len(p.defineOrder))
	copy(names, p.defineOrder)
	sort.SliceStable(names, func(i, j int) bool {
		return len(names[i]) > len(names[j])
	})
	for _, name := range names {
		line = strings.ReplaceAll(line, name, p.Defines[name])
	}
	return line
}

// include inlines the named file's lines. Paths are resolved relative
// to the including file's directory; a visited-path guard rejects
// self-inclusion cycles.
func (p *Preprocessor) include(fields []string, dir string) ([]string, error) {
	if len(fields) < 2 {
		return nil, fmt.Errorf("#include requires a quoted path")
	}
	name := strings.Trim(fields[1], `"`)
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(dir, name)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving #include %q: %w", name, err)
	}
	if p.visited[abs] {
		return nil, fmt.Errorf("#include cycle detected at %q", name)
	}
	p.visited[abs] = true

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("#include %q not found: %w", name, err)
	}

	return p.process(strings.Split(string(data), "\n"), filepath.Dir(path))
}

// stripComment removes anything from ';' onward and trims surrounding
// whitespace, per spec §4.1.
func stripComment(line string) string {
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = line[:idx]
	}
	return strings.TrimSpace(line)
}
