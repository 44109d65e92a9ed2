package sat

import (
	"fmt"

	"github.com/rhartert/yagh"
)

// This file implements the decision heuristic family: the closed set of
// literal-scoring strategies the search driver consults once propagation has
// stabilized, plus the one-time pure-literal elimination pass that runs
// before the first decision. None of these heuristics retain state across
// decisions: every score is recomputed from the current clause database and
// trail. There is no activity-based (VSIDS) variable ordering here.

// Heuristic identifies a decision strategy. The zero value is HeuristicFirst.
type Heuristic int

const (
	HeuristicFirst Heuristic = iota
	HeuristicRandom
	HeuristicDLIS
	HeuristicRDLIS
	HeuristicDLCS
	HeuristicRDLCS
	HeuristicJW
	HeuristicRJW
	HeuristicMOMS
	HeuristicRMOMS
	// HeuristicLucky must stay last: NewSolver picks a replacement among
	// [0, HeuristicLucky) uniformly at random.
	HeuristicLucky
)

func (h Heuristic) String() string {
	switch h {
	case HeuristicFirst:
		return "first"
	case HeuristicRandom:
		return "random"
	case HeuristicDLIS:
		return "dlis"
	case HeuristicRDLIS:
		return "rdlis"
	case HeuristicDLCS:
		return "dlcs"
	case HeuristicRDLCS:
		return "rdlcs"
	case HeuristicJW:
		return "jw"
	case HeuristicRJW:
		return "rjw"
	case HeuristicMOMS:
		return "moms"
	case HeuristicRMOMS:
		return "rmoms"
	case HeuristicLucky:
		return "lucky"
	default:
		return fmt.Sprintf("heuristic(%d)", int(h))
	}
}

// ParseHeuristic maps a CLI-supplied name (case already normalized by the
// caller) to a Heuristic. "without" and "yesno" are accepted as the
// historical aliases for first and random, respectively.
func ParseHeuristic(name string) (Heuristic, error) {
	switch name {
	case "without", "first":
		return HeuristicFirst, nil
	case "yesno", "random":
		return HeuristicRandom, nil
	case "dlis":
		return HeuristicDLIS, nil
	case "rdlis":
		return HeuristicRDLIS, nil
	case "dlcs":
		return HeuristicDLCS, nil
	case "rdlcs":
		return HeuristicRDLCS, nil
	case "jw":
		return HeuristicJW, nil
	case "rjw":
		return HeuristicRJW, nil
	case "moms":
		return HeuristicMOMS, nil
	case "rmoms":
		return HeuristicRMOMS, nil
	case "lucky":
		return HeuristicLucky, nil
	default:
		return 0, fmt.Errorf("sat: unknown heuristic %q", name)
	}
}

// unassignedVar reports whether v has neither of its literals on the trail.
func (s *Solver) unassignedVar(v int) bool {
	return s.assigns[PositiveLiteral(v)] == Unknown
}

// decide picks the next decision literal according to s.heuristic, or
// returns -1 if every variable is already assigned.
func (s *Solver) decide() Literal {
	switch s.heuristic {
	case HeuristicFirst:
		return s.selectFirst()
	case HeuristicRandom:
		return s.selectRandom()
	case HeuristicDLIS:
		return s.selectDLIS(false)
	case HeuristicRDLIS:
		return s.selectDLIS(true)
	case HeuristicDLCS:
		return s.selectDLCS(false)
	case HeuristicRDLCS:
		return s.selectDLCS(true)
	case HeuristicJW:
		return s.selectJW(false)
	case HeuristicRJW:
		return s.selectJW(true)
	case HeuristicMOMS:
		return s.selectMOMS(false)
	case HeuristicRMOMS:
		return s.selectMOMS(true)
	default:
		// LUCKY is resolved once in NewSolver into one of the above; the
		// field should never hold HeuristicLucky itself by the time decide
		// is called.
		panic(fmt.Sprintf("sat: decide called with unresolved heuristic %v", s.heuristic))
	}
}

// selectFirst returns the first unassigned literal encountered in clause
// iteration order, with the polarity it has in that clause. If no clause
// holds an unassigned literal, it returns the positive literal of the
// lowest-numbered unassigned variable.
func (s *Solver) selectFirst() Literal {
	for _, c := range s.constraints {
		for _, l := range c.literals {
			if s.unassignedVar(l.VarID()) {
				return l
			}
		}
	}
	for v := 0; v < s.NumVariables(); v++ {
		if s.unassignedVar(v) {
			return PositiveLiteral(v)
		}
	}
	return -1
}

// selectRandom collects every occurrence of an unassigned literal across all
// clauses (original and learnt), picks one uniformly at random, and returns
// the positive literal of its variable; the sign is always discarded. If no
// clause holds an unassigned literal, it falls back to FIRST.
func (s *Solver) selectRandom() Literal {
	var candidates []int
	for _, cs := range [][]*Clause{s.constraints, s.learnts} {
		for _, c := range cs {
			for _, l := range c.literals {
				if s.unassignedVar(l.VarID()) {
					candidates = append(candidates, l.VarID())
				}
			}
		}
	}
	if len(candidates) == 0 {
		return s.selectFirst()
	}
	return PositiveLiteral(candidates[s.rng.Intn(len(candidates))])
}

// litOccurrenceCounts returns, for every literal index, the number of
// clauses (original and learnt) containing it, counting a clause whether or
// not it is currently satisfied but skipping literals whose variable is
// already assigned.
func (s *Solver) litOccurrenceCounts() []int {
	counts := make([]int, len(s.assigns))
	for _, cs := range [][]*Clause{s.constraints, s.learnts} {
		for _, c := range cs {
			for _, l := range c.literals {
				if s.unassignedVar(l.VarID()) {
					counts[l]++
				}
			}
		}
	}
	return counts
}

// selectDLIS picks the unassigned literal with the maximum occurrence count
// across all clauses.
func (s *Solver) selectDLIS(randomized bool) Literal {
	counts := s.litOccurrenceCounts()
	scores := make([]float64, len(counts))
	var idx []int
	for l, c := range counts {
		if c > 0 {
			scores[l] = float64(c)
			idx = append(idx, l)
		}
	}
	if len(idx) == 0 {
		return s.selectFirst()
	}
	return Literal(s.pick(idx, scores, randomized))
}

// selectDLCS picks the unassigned variable whose positive and negative
// literal counts sum to the maximum, returning its positive form.
func (s *Solver) selectDLCS(randomized bool) Literal {
	counts := s.litOccurrenceCounts()
	var idx []int
	scores := make([]float64, s.NumVariables())
	for v := 0; v < s.NumVariables(); v++ {
		if !s.unassignedVar(v) {
			continue
		}
		p, n := counts[PositiveLiteral(v)], counts[NegativeLiteral(v)]
		if p+n > 0 {
			scores[v] = float64(p + n)
			idx = append(idx, v)
		}
	}
	if len(idx) == 0 {
		return s.selectFirst()
	}
	return PositiveLiteral(s.pick(idx, scores, randomized))
}

// selectJW computes the Jeroslow-Wang score of every unassigned literal,
// Σ 2^(-|C|) over clauses C containing it, and returns the maximum.
func (s *Solver) selectJW(randomized bool) Literal {
	scores := make([]float64, len(s.assigns))
	for _, cs := range [][]*Clause{s.constraints, s.learnts} {
		for _, c := range cs {
			weight := jwWeight(len(c.literals))
			for _, l := range c.literals {
				if s.unassignedVar(l.VarID()) {
					scores[l] += weight
				}
			}
		}
	}
	var idx []int
	for l, sc := range scores {
		if sc > 0 {
			idx = append(idx, l)
		}
	}
	if len(idx) == 0 {
		return s.selectFirst()
	}
	return Literal(s.pick(idx, scores, randomized))
}

func jwWeight(clauseLen int) float64 {
	w := 1.0
	for i := 0; i < clauseLen; i++ {
		w /= 2
	}
	return w
}

// selectMOMS restricts occurrence counting to clauses no longer than
// max(mean length - 1, 1) and scores each unassigned variable as
// (p+n)·2^k + p·n, falling back to FIRST if nothing scores above zero.
// k is s.momsK, 10 by default.
func (s *Solver) selectMOMS(randomized bool) Literal {
	total, count := 0, 0
	for _, cs := range [][]*Clause{s.constraints, s.learnts} {
		for _, c := range cs {
			total += len(c.literals)
			count++
		}
	}
	if count == 0 {
		return s.selectFirst()
	}
	mean := float64(total) / float64(count)
	cutoff := mean - 1
	if cutoff < 1 {
		cutoff = 1
	}

	p := make([]int, s.NumVariables())
	n := make([]int, s.NumVariables())
	for _, cs := range [][]*Clause{s.constraints, s.learnts} {
		for _, c := range cs {
			if float64(len(c.literals)) > cutoff {
				continue
			}
			for _, l := range c.literals {
				v := l.VarID()
				if !s.unassignedVar(v) {
					continue
				}
				if l.IsPositive() {
					p[v]++
				} else {
					n[v]++
				}
			}
		}
	}

	bonus := 1 << uint(s.momsK)
	var idx []int
	scores := make([]float64, s.NumVariables())
	for v := 0; v < s.NumVariables(); v++ {
		if !s.unassignedVar(v) {
			continue
		}
		score := float64((p[v]+n[v])*bonus + p[v]*n[v])
		if score > 0 {
			scores[v] = score
			idx = append(idx, v)
		}
	}
	if len(idx) == 0 {
		return s.selectFirst()
	}
	return PositiveLiteral(s.pick(idx, scores, randomized))
}

// pick selects among idx by scores[idx[i]], using a transient max-priority
// heap built fresh for this single decision and discarded afterward: no
// priority state survives past the call. The deterministic variants return
// the heap's first pop, i.e. the maximum
// score tie-broken by insertion order (idx's own order, which is ascending
// literal or variable index); the randomized variants keep popping while the
// popped score stays equal to the maximum and return one of those uniformly
// at random.
func (s *Solver) pick(idx []int, scores []float64, randomized bool) int {
	h := newScoreHeap(idx, scores)

	first, ok := h.Pop()
	if !ok {
		panic("sat: pick called with no candidates")
	}
	if !randomized {
		return first.Elem
	}

	best := scores[first.Elem]
	tied := []int{first.Elem}
	for {
		next, ok := h.Pop()
		if !ok || scores[next.Elem] != best {
			break
		}
		tied = append(tied, next.Elem)
	}
	return tied[s.rng.Intn(len(tied))]
}

// newScoreHeap builds a yagh.IntMap keyed by the entries of idx, prioritized
// by -scores[i] so that Pop yields the maximum score first (yagh is a
// min-heap, so maximizing requires negating the priority).
func newScoreHeap(idx []int, scores []float64) *yagh.IntMap[float64] {
	size := 0
	for _, i := range idx {
		if i+1 > size {
			size = i + 1
		}
	}
	h := yagh.New[float64](0)
	h.GrowBy(size)
	for _, i := range idx {
		h.Put(i, -scores[i])
	}
	return h
}

// eliminatePureLiterals runs once before search: any variable not yet
// assigned at the root that appears only positively or only negatively
// across the stored original clauses is enqueued as a forced, non-decision
// unit. (Unit clauses and clauses already satisfied at the root are not
// stored; their literals are assigned or irrelevant.) It reports true if
// propagating the queued root-level units yields a conflict, which makes
// the formula immediately UNSAT.
func (s *Solver) eliminatePureLiterals() bool {
	pos := make([]bool, s.NumVariables())
	neg := make([]bool, s.NumVariables())
	for _, c := range s.constraints {
		for _, l := range c.literals {
			if l.IsPositive() {
				pos[l.VarID()] = true
			} else {
				neg[l.VarID()] = true
			}
		}
	}

	conflict := false
	for v := 0; v < s.NumVariables(); v++ {
		if !s.unassignedVar(v) {
			continue
		}
		switch {
		case pos[v] && !neg[v]:
			if !s.enqueue(PositiveLiteral(v), nil) {
				conflict = true
			}
		case neg[v] && !pos[v]:
			if !s.enqueue(NegativeLiteral(v), nil) {
				conflict = true
			}
		}
	}

	if conflict {
		return true
	}
	return s.Propagate() != nil
}
