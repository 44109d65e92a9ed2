package sat

import "testing"

func newTestSolver(nVars int) *Solver {
	s := NewDefaultSolver()
	for i := 0; i < nVars; i++ {
		s.AddVariable()
	}
	return s
}

func TestNewClause_unitPropagates(t *testing.T) {
	s := newTestSolver(1)
	if err := s.AddClause([]Literal{PositiveLiteral(0)}); err != nil {
		t.Fatalf("AddClause: %s", err)
	}
	if got := s.LitValue(PositiveLiteral(0)); got != True {
		t.Errorf("LitValue(0) = %s, want true", got)
	}
}

func TestNewClause_tautologyIsDropped(t *testing.T) {
	s := newTestSolver(1)
	if err := s.AddClause([]Literal{PositiveLiteral(0), NegativeLiteral(0)}); err != nil {
		t.Fatalf("AddClause: %s", err)
	}
	if s.unsat {
		t.Errorf("a tautology must not mark the solver unsat")
	}
	if s.NumConstraints() != 0 {
		t.Errorf("NumConstraints() = %d, want 0 (tautology should not be stored)", s.NumConstraints())
	}
}

func TestNewClause_emptyClauseIsUnsat(t *testing.T) {
	s := newTestSolver(1)
	if err := s.AddClause([]Literal{}); err != nil {
		t.Fatalf("AddClause: %s", err)
	}
	if !s.unsat {
		t.Errorf("an empty clause must mark the solver unsat")
	}
}

func TestNewClause_conflictingUnitsIsUnsat(t *testing.T) {
	s := newTestSolver(1)
	if err := s.AddClause([]Literal{PositiveLiteral(0)}); err != nil {
		t.Fatalf("AddClause: %s", err)
	}
	if err := s.AddClause([]Literal{NegativeLiteral(0)}); err != nil {
		t.Fatalf("AddClause: %s", err)
	}
	if !s.unsat {
		t.Errorf("asserting a literal and its negation must mark the solver unsat")
	}
}

func TestClause_propagate_forcesLastLiteral(t *testing.T) {
	s := newTestSolver(3)
	if err := s.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)}); err != nil {
		t.Fatalf("AddClause: %s", err)
	}

	s.assume(NegativeLiteral(0))
	if conflict := s.Propagate(); conflict != nil {
		t.Fatalf("Propagate: unexpected conflict %s", conflict)
	}
	s.assume(NegativeLiteral(1))
	if conflict := s.Propagate(); conflict != nil {
		t.Fatalf("Propagate: unexpected conflict %s", conflict)
	}

	if got := s.LitValue(PositiveLiteral(2)); got != True {
		t.Errorf("LitValue(2) = %s, want true (forced by the watched clause)", got)
	}
}

func TestClause_propagate_detectsConflict(t *testing.T) {
	s := newTestSolver(3)
	if err := s.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)}); err != nil {
		t.Fatalf("AddClause: %s", err)
	}
	if err := s.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(1), NegativeLiteral(2)}); err != nil {
		t.Fatalf("AddClause: %s", err)
	}

	s.assume(NegativeLiteral(0))
	if conflict := s.Propagate(); conflict != nil {
		t.Fatalf("Propagate: unexpected conflict %s", conflict)
	}
	// Both clauses become unit, on x2 and on !x2 respectively.
	s.assume(NegativeLiteral(1))
	if conflict := s.Propagate(); conflict == nil {
		t.Fatalf("Propagate: expected a conflict, got none")
	}
}

func TestClause_IsLearnt(t *testing.T) {
	s := newTestSolver(2)
	c, ok := newClause(s, []Literal{PositiveLiteral(0), PositiveLiteral(1)}, false)
	if !ok || c == nil {
		t.Fatalf("newClause: unexpected (%v, %v)", c, ok)
	}
	if c.IsLearnt() {
		t.Errorf("IsLearnt() = true, want false for an original clause")
	}

	s2 := newTestSolver(2)
	s2.assume(NegativeLiteral(0))
	s2.assume(NegativeLiteral(1))
	learnt, ok := newClause(s2, []Literal{PositiveLiteral(0), PositiveLiteral(1)}, true)
	if !ok || learnt == nil {
		t.Fatalf("newClause (learnt): unexpected (%v, %v)", learnt, ok)
	}
	if !learnt.IsLearnt() {
		t.Errorf("IsLearnt() = false, want true for a learnt clause")
	}
}

func TestClause_String(t *testing.T) {
	s := newTestSolver(2)
	c, _ := newClause(s, []Literal{PositiveLiteral(0), NegativeLiteral(1)}, false)
	if got, want := c.String(), "Clause[0 !1]"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
