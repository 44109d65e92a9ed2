// Package sat implements a conflict-driven clause-learning (CDCL) decision
// procedure for propositional satisfiability in conjunctive normal form: the
// two-watched-literal propagation engine, 1-UIP conflict analysis and
// clause learning, non-chronological backjumping, and a family of decision
// heuristics. Parsing DIMACS input and driving the solver from a CLI are
// deliberately out of scope for this package; see internal/dimacs and the
// root command for those.
package sat

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"
)

// Solver is a CDCL SAT solver. Use NewSolver (or NewDefaultSolver) to
// construct one; the zero value is not usable.
type Solver struct {
	// Clause database. Grows monotonically: no deletion policy is
	// implemented.
	constraints []*Clause
	learnts     []*Clause

	// Propagation and watchers. watchers[l] holds the clauses that must be
	// re-examined when l is asserted true, i.e. the clauses watching l's
	// negation.
	watchers  [][]watcher
	propQueue *Queue[Literal]

	// Value assigned to each literal (indexed the same way as watchers).
	assigns []LBool

	// Trail.
	trail    []Literal
	trailLim []int
	reason   []*Clause
	level    []int

	// Whether the problem has been found to be unsatisfiable at the root
	// level (an empty clause was ever derived).
	unsat bool

	// Decision heuristic, selected once at construction.
	heuristic Heuristic
	momsK     int
	rng       *rand.Rand

	// Search statistics, formatted and printed only by the driver.
	TotalConflicts  int64
	TotalDecisions  int64
	TotalIterations int64

	// Model produced by a successful Solve, valid only once Solve returned
	// True.
	Model []bool

	// seenVar is reused across calls to analyze to avoid reallocating a
	// bitset for every conflict.
	seenVar *ResetSet

	// Reusable scratch buffers, shared across calls to avoid unnecessary
	// allocation on the hot path.
	tmpWatchers []watcher
	tmpLearnts  []Literal
	tmpReason   []Literal
}

// watcher is an entry in a literal's watch list: the clause watching it, and
// a guard literal (another literal of the clause) whose truth lets
// Propagate skip re-examining the clause entirely. The guard is a pure
// performance optimization of the watch-rescan step: it never changes what
// is found to be satisfied, unit, or conflicting.
type watcher struct {
	clause *Clause
	guard  Literal
}

// Options configures a Solver at construction time.
type Options struct {
	// Heuristic selects the decision heuristic used throughout the search.
	// The zero value is HeuristicFirst.
	Heuristic Heuristic

	// MOMSK is the constant k used by the MOMS/RMOMS score. Zero means
	// "use the default of 10", matching the historical source this
	// solver's heuristics are grounded on.
	MOMSK int

	// Seed seeds the solver's random source, used by the RANDOM, RDLIS,
	// RDLCS, RJW, RMOMS, and LUCKY heuristics. Zero means "seed from the
	// current time", i.e. non-deterministic; tests should set a fixed seed.
	Seed int64
}

// DefaultOptions is the configuration used by NewDefaultSolver.
var DefaultOptions = Options{
	Heuristic: HeuristicFirst,
	MOMSK:     10,
}

// NewDefaultSolver returns a solver configured with DefaultOptions.
func NewDefaultSolver() *Solver {
	return NewSolver(DefaultOptions)
}

// NewSolver returns a new, empty Solver. Variables must be declared with
// AddVariable and clauses with AddClause before calling Solve.
func NewSolver(opts Options) *Solver {
	k := opts.MOMSK
	if k <= 0 {
		k = 10
	}

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	h := opts.Heuristic
	if h == HeuristicLucky {
		h = Heuristic(rng.Intn(int(HeuristicLucky)))
	}

	return &Solver{
		propQueue: NewQueue[Literal](128),
		heuristic: h,
		momsK:     k,
		rng:       rng,
		seenVar:   &ResetSet{},
	}
}

// NumVariables returns the number of variables declared so far.
func (s *Solver) NumVariables() int {
	return len(s.assigns) / 2
}

// NumAssigns returns the number of variables currently assigned.
func (s *Solver) NumAssigns() int {
	return len(s.trail)
}

// NumConstraints returns the number of original (non-learnt) clauses.
func (s *Solver) NumConstraints() int {
	return len(s.constraints)
}

// NumLearnts returns the number of learnt clauses.
func (s *Solver) NumLearnts() int {
	return len(s.learnts)
}

// VarValue returns the current value of variable x (0-based).
func (s *Solver) VarValue(x int) LBool {
	return s.assigns[PositiveLiteral(x)]
}

// LitValue returns the current value of literal l.
func (s *Solver) LitValue(l Literal) LBool {
	return s.assigns[l]
}

// AddVariable declares a new variable and returns its 0-based id.
func (s *Solver) AddVariable() int {
	id := s.NumVariables()
	s.watchers = append(s.watchers, nil, nil)
	s.reason = append(s.reason, nil)
	s.level = append(s.level, -1)
	s.assigns = append(s.assigns, Unknown, Unknown)
	s.seenVar.Expand()
	return id
}

// watch registers clause c to be re-examined when literal w is asserted
// true, using g (another literal of c) as the propagate-skipping guard.
func (s *Solver) watch(c *Clause, w Literal, g Literal) {
	s.watchers[w] = append(s.watchers[w], watcher{clause: c, guard: g})
}

// AddClause adds an original clause to the problem. It can only be called
// at decision level 0: the core never receives clauses mid-search, since
// incremental solving across formulas is out of scope.
func (s *Solver) AddClause(lits []Literal) error {
	if s.decisionLevel() != 0 {
		return fmt.Errorf("sat: AddClause called at decision level %d, clauses can only be added at the root level", s.decisionLevel())
	}
	c, ok := newClause(s, lits, false)
	if c != nil {
		s.constraints = append(s.constraints, c)
	}
	if !ok {
		s.unsat = true
	}
	return nil
}

// enqueue records l as true, with from as its reason (nil for a decision),
// unless it is already assigned. It reports whether the assignment is
// consistent: false means l was already false, i.e. a conflict.
func (s *Solver) enqueue(l Literal, from *Clause) bool {
	switch s.LitValue(l) {
	case False:
		return false
	case True:
		return true
	default:
		v := l.VarID()
		s.assigns[l] = True
		s.assigns[l.Opposite()] = False
		s.level[v] = s.decisionLevel()
		s.reason[v] = from
		s.trail = append(s.trail, l)
		s.propQueue.Push(l)
		return true
	}
}

// assume pushes a new decision level and asserts l as a decision literal.
func (s *Solver) assume(l Literal) bool {
	s.trailLim = append(s.trailLim, len(s.trail))
	s.TotalDecisions++
	return s.enqueue(l, nil)
}

// Propagate drains the unit queue, asserting forced literals and relocating
// watches as each newly-true literal's watch list is rescanned, until the
// queue is empty or a clause is found fully falsified. It returns the
// conflicting clause, or nil if propagation completed without conflict.
func (s *Solver) Propagate() *Clause {
	for s.propQueue.Size() > 0 {
		l := s.propQueue.Pop()

		s.tmpWatchers = append(s.tmpWatchers[:0], s.watchers[l]...)
		s.watchers[l] = s.watchers[l][:0]

		for i, w := range s.tmpWatchers {
			// Skip clauses we already know are satisfied through the
			// guard literal, without touching the clause itself.
			if s.LitValue(w.guard) == True {
				s.watchers[l] = append(s.watchers[l], w)
				continue
			}
			if w.clause.propagate(s, l) {
				continue
			}

			// w.clause is conflicting: put back the watchers we have not
			// looked at yet and abandon the rest of this pop, since the
			// search driver will backjump before propagation resumes.
			s.watchers[l] = append(s.watchers[l], s.tmpWatchers[i+1:]...)
			s.clearQueue()
			return w.clause
		}
	}
	return nil
}

// clearQueue empties the unit queue, used when a conflict makes the
// remaining queued literals moot.
func (s *Solver) clearQueue() {
	s.propQueue.Clear()
}

// analyze implements 1-UIP conflict analysis: it resolves the conflicting
// clause against reasons, walking the trail backwards, until
// exactly one literal of the current decision level remains. It returns the
// learned clause (UIP's negation in slot 0) and the backjump level.
func (s *Solver) analyze(conflict *Clause) ([]Literal, int) {
	// Number of not-yet-resolved literals at the current decision level;
	// reaching 0 means the remaining frontier is the 1-UIP.
	pending := 0

	s.tmpLearnts = append(s.tmpLearnts[:0], 0) // slot 0 reserved for the UIP
	s.seenVar.Clear()
	backjumpLevel := 0

	nextPos := len(s.trail) - 1
	var uip Literal
	first := true
	reasonBuf := s.tmpReason[:0]

	for {
		var explanation []Literal
		if first {
			explanation = conflict.explainFailure(reasonBuf)
			first = false
		} else {
			explanation = conflict.explainAssign(reasonBuf)
		}
		reasonBuf = explanation

		for _, q := range explanation {
			v := q.VarID()
			if s.seenVar.Contains(v) {
				continue
			}
			s.seenVar.Add(v)

			if s.levelOf(v) == s.decisionLevel() {
				pending++
				continue
			}
			s.tmpLearnts = append(s.tmpLearnts, q.Opposite())
			if lvl := s.levelOf(v); lvl > backjumpLevel {
				backjumpLevel = lvl
			}
		}

		// Find the next seen literal walking the trail backwards.
		for {
			uip = s.trail[nextPos]
			nextPos--
			if s.seenVar.Contains(uip.VarID()) {
				break
			}
		}
		conflict = s.reason[uip.VarID()]

		pending--
		if pending <= 0 {
			break
		}
	}

	s.tmpReason = reasonBuf
	s.tmpLearnts[0] = uip.Opposite()
	return s.tmpLearnts, backjumpLevel
}

// analyzeToEmpty handles a conflict found at decision level 0: there is no
// level above 0 to defer literals to, so every literal the resolution
// would fold in is already part of the empty-clause derivation. An empty
// clause cannot be represented as a watched Clause and carries no further
// search information, so the verdict is simply UNSAT.
func (s *Solver) analyzeToEmpty() {
	s.unsat = true
}

// record appends a learned clause to the database and asserts its UIP
// literal as forced, with the clause itself as the reason.
func (s *Solver) record(lits []Literal) {
	c, _ := newClause(s, lits, true)
	s.enqueue(lits[0], c)
	if c != nil {
		s.learnts = append(s.learnts, c)
	}
}

// Solve runs the search to completion and returns True (SAT), False
// (UNSAT), or Unknown if ctx is cancelled before a verdict is reached. A nil
// ctx is treated as context.Background (no cancellation); this is the only
// point at which the core consults a context, and only as a polling point
// between top-level iterations — it never changes propagation or analysis
// semantics.
func (s *Solver) Solve(ctx context.Context) LBool {
	if ctx == nil {
		ctx = context.Background()
	}

	if s.unsat {
		return False
	}
	if conflict := s.eliminatePureLiterals(); conflict {
		s.unsat = true
		return False
	}

	for {
		select {
		case <-ctx.Done():
			return Unknown
		default:
		}

		s.TotalIterations++

		if conflict := s.Propagate(); conflict != nil {
			s.TotalConflicts++

			if s.decisionLevel() == 0 {
				s.analyzeToEmpty()
				return False
			}

			learnt, backjumpLevel := s.analyze(conflict)
			s.undoAbove(backjumpLevel)
			s.record(learnt)
			continue
		}

		if s.NumAssigns() == s.NumVariables() {
			s.saveModel()
			s.undoAbove(0)
			return True
		}

		l := s.decide()
		if l < 0 {
			// Every heuristic reports "no unassigned literal" only when
			// the trail is full, so this mirrors the branch above.
			s.saveModel()
			s.undoAbove(0)
			return True
		}
		s.assume(l)
	}
}

// saveModel records the current total assignment as the solver's Model.
func (s *Solver) saveModel() {
	model := make([]bool, s.NumVariables())
	for i := range model {
		lb := s.VarValue(i)
		if lb == Unknown {
			panic("sat: saveModel called on a partial assignment")
		}
		model[i] = lb == True
	}
	s.Model = model
}

// SortedModel returns the final model as DIMACS-style signed integers
// (1-based, ascending |literal|). It must only be called after Solve has
// returned True.
func (s *Solver) SortedModel() []int {
	out := make([]int, len(s.Model))
	for i, v := range s.Model {
		if v {
			out[i] = i + 1
		} else {
			out[i] = -(i + 1)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return abs(out[i]) < abs(out[j])
	})
	return out
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
