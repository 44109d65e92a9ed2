package sat

import "testing"

func TestParseHeuristic(t *testing.T) {
	cases := map[string]Heuristic{
		"without": HeuristicFirst,
		"first":   HeuristicFirst,
		"yesno":   HeuristicRandom,
		"random":  HeuristicRandom,
		"dlis":    HeuristicDLIS,
		"rdlis":   HeuristicRDLIS,
		"dlcs":    HeuristicDLCS,
		"rdlcs":   HeuristicRDLCS,
		"jw":      HeuristicJW,
		"rjw":     HeuristicRJW,
		"moms":    HeuristicMOMS,
		"rmoms":   HeuristicRMOMS,
		"lucky":   HeuristicLucky,
	}
	for name, want := range cases {
		got, err := ParseHeuristic(name)
		if err != nil {
			t.Errorf("ParseHeuristic(%q): unexpected error %s", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseHeuristic(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestParseHeuristic_unknown(t *testing.T) {
	if _, err := ParseHeuristic("not-a-heuristic"); err == nil {
		t.Errorf("ParseHeuristic(unknown): want error, got none")
	}
}

func TestSelectFirst(t *testing.T) {
	s := newTestSolver(3)
	s.AddClause([]Literal{NegativeLiteral(0), PositiveLiteral(1)})

	got := s.selectFirst()
	want := NegativeLiteral(0)
	if got != want {
		t.Errorf("selectFirst() = %v, want %v", got, want)
	}
}

func TestSelectFirst_noCandidates(t *testing.T) {
	s := newTestSolver(1)
	s.assume(PositiveLiteral(0))
	if got := s.selectFirst(); got != -1 {
		t.Errorf("selectFirst() = %v, want -1 (fully assigned)", got)
	}
}

func TestSelectRandom_alwaysPositive(t *testing.T) {
	s := newTestSolver(4)
	s.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2), PositiveLiteral(3)})

	for i := 0; i < 20; i++ {
		l := s.selectRandom()
		if !l.IsPositive() {
			t.Fatalf("selectRandom() = %v, want a positive literal", l)
		}
	}
}

func TestSelectDLIS_picksMostFrequentLiteral(t *testing.T) {
	s := newTestSolver(3)
	s.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(1)})
	s.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(2)})
	s.AddClause([]Literal{PositiveLiteral(0), NegativeLiteral(1)})

	got := s.selectDLIS(false)
	want := PositiveLiteral(0)
	if got != want {
		t.Errorf("selectDLIS() = %v, want %v (appears 3 times)", got, want)
	}
}

func TestSelectDLCS_picksMaxCombinedVariable(t *testing.T) {
	s := newTestSolver(3)
	s.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(1)})
	s.AddClause([]Literal{NegativeLiteral(0), PositiveLiteral(2)})
	s.AddClause([]Literal{PositiveLiteral(0), NegativeLiteral(1)})

	got := s.selectDLCS(false)
	want := PositiveLiteral(0) // var 0 occurs 3 times total, the most
	if got != want {
		t.Errorf("selectDLCS() = %v, want %v", got, want)
	}
}

func TestSelectJW_prefersShorterClauseLiteral(t *testing.T) {
	s := newTestSolver(3)
	s.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)})
	s.AddClause([]Literal{NegativeLiteral(0), PositiveLiteral(1)})

	got := s.selectJW(false)
	want := PositiveLiteral(1) // appears both in a pair (weight 1/4) and in a triple (1/8)
	if got != want {
		t.Errorf("selectJW() = %v, want %v", got, want)
	}
}

func TestSelectMOMS_fallsBackToFirstWhenNoClauses(t *testing.T) {
	s := newTestSolver(1)
	s.constraints = nil // no clauses at all: mean length is undefined

	got := s.selectMOMS(false)
	want := s.selectFirst()
	if got != want {
		t.Errorf("selectMOMS() = %v, want %v (fallback to FIRST)", got, want)
	}
}

func TestEliminatePureLiterals(t *testing.T) {
	s := newTestSolver(2)
	s.AddClause([]Literal{PositiveLiteral(0), PositiveLiteral(1)})
	s.AddClause([]Literal{PositiveLiteral(0), NegativeLiteral(1)})
	// variable 0 is pure positive; variable 1 appears both ways.

	if conflict := s.eliminatePureLiterals(); conflict {
		t.Fatalf("eliminatePureLiterals(): unexpected conflict")
	}
	if got := s.LitValue(PositiveLiteral(0)); got != True {
		t.Errorf("LitValue(0) = %s, want true (pure positive)", got)
	}
	if got := s.LitValue(PositiveLiteral(1)); got != Unknown {
		t.Errorf("LitValue(1) = %s, want unknown (not pure)", got)
	}
}

func TestEliminatePureLiterals_unitConflictCaughtByAddClause(t *testing.T) {
	s := newTestSolver(1)
	s.AddClause([]Literal{PositiveLiteral(0)})
	s.AddClause([]Literal{NegativeLiteral(0)})
	// Both clauses are units, simplified directly at AddClause time: the
	// solver is already unsat before pure-literal elimination even runs.
	if !s.unsat {
		t.Fatalf("expected AddClause to detect the unit conflict directly")
	}
}
