package dimacs

import (
	"fmt"
	"os"

	extdimacs "github.com/rhartert/dimacs"
)

// ReadModels parses a test-fixture file of expected models: each non-comment
// line is a DIMACS-style clause-shaped listing of signed literals terminated
// by 0, one line per model, read as a boolean vector (positive literal ->
// true) in variable order. It is used only by this package's tests and by
// the end-to-end test driving testdata/, never by the solver itself.
func ReadModels(filename string) ([][]bool, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("dimacs: opening %q: %w", filename, err)
	}
	defer file.Close()

	b := &modelBuilder{}
	if err := extdimacs.ReadBuilder(file, b); err != nil {
		return nil, fmt.Errorf("dimacs: parsing models from %q: %w", filename, err)
	}
	return b.models, nil
}

// modelBuilder collects each "clause" line of a model file as a model; it
// rejects an actual problem header, since model files carry none.
type modelBuilder struct {
	models [][]bool
}

func (b *modelBuilder) Problem(problem string, nVars int, nClauses int) error {
	return fmt.Errorf("dimacs: model files must not contain a problem line")
}

func (b *modelBuilder) Comment(_ string) error {
	return nil
}

func (b *modelBuilder) Clause(lits []int) error {
	model := make([]bool, len(lits))
	for i, l := range lits {
		model[i] = l > 0
	}
	b.models = append(b.models, model)
	return nil
}
