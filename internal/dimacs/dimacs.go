// Package dimacs parses the DIMACS CNF input format at the solver's input
// boundary: it is deliberately separate from package sat, since parsing is
// an external collaborator to the CDCL core, not part of it.
package dimacs

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"

	extdimacs "github.com/rhartert/dimacs"

	"github.com/mkg33/sat2/internal/sat"
)

// Builder receives the problem size and clauses parsed from a DIMACS file.
// *sat.Solver satisfies this interface directly: AddVariable and AddClause
// are exactly its clause-loading API.
type Builder interface {
	AddVariable() int
	AddClause([]sat.Literal) error
}

func open(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("dimacs: opening %q: %w", filename, err)
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("dimacs: %q is not a valid gzip stream: %w", filename, err)
		}
	}
	return rc, nil
}

// LoadFile parses filename as DIMACS CNF (optionally gzip-compressed) and
// loads its variables and clauses into b, in declaration order. Clause
// literals are mapped to the solver's internal 0-based, sign-encoded
// representation: a DIMACS literal l > 0 becomes sat.PositiveLiteral(l-1),
// l < 0 becomes sat.NegativeLiteral(-l-1).
func LoadFile(filename string, gzipped bool, b Builder) error {
	r, err := open(filename, gzipped)
	if err != nil {
		return err
	}
	defer r.Close()

	bb := &builder{b: b}
	if err := extdimacs.ReadBuilder(r, bb); err != nil {
		return fmt.Errorf("dimacs: parsing %q: %w", filename, err)
	}
	return nil
}

// builder adapts a Builder to the external parser's dimacs.Builder
// interface, translating its signed-integer literals to sat.Literal.
type builder struct {
	b Builder
}

func (bb *builder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("dimacs: problem type %q is not supported, only \"cnf\"", problem)
	}
	for i := 0; i < nVars; i++ {
		bb.b.AddVariable()
	}
	return nil
}

func (bb *builder) Clause(lits []int) error {
	clause := make([]sat.Literal, len(lits))
	for i, l := range lits {
		if l < 0 {
			clause[i] = sat.NegativeLiteral(-l - 1)
		} else {
			clause[i] = sat.PositiveLiteral(l - 1)
		}
	}
	return bb.b.AddClause(clause)
}

func (bb *builder) Comment(_ string) error {
	return nil
}
