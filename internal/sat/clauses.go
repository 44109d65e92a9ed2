package sat

import "strings"

// Clause is a disjunction of literals. Original clauses come from the
// problem; learned clauses are produced by conflict analysis. The first two
// slots of literals are always the clause's two watched positions: either
// the clause is satisfied by the trail, or neither of those two literals is
// falsified by it. No deletion policy is implemented: the clause database
// only grows.
type Clause struct {
	literals []Literal
	learnt   bool
}

// newClause builds a Clause from the given literals, deduplicating repeated
// literals and detecting tautologies and already-satisfied or already-false
// literals against the solver's current (root-level) assignment. The second
// return value is false iff the clause is unsatisfiable (an empty clause was
// derived); a nil Clause with a true second value means the clause was
// trivially true and nothing needs to be stored.
//
// Simplifying against the trail is only sound at decision level 0: callers
// must never invoke this for a learnt clause added mid-search without the
// learnt flag set, since non-learnt simplification assumes root-level facts.
func newClause(s *Solver, lits []Literal, learnt bool) (*Clause, bool) {
	size := len(lits)

	if !learnt {
		seen := map[Literal]struct{}{}
		for i := size - 1; i >= 0; i-- {
			// The opposite literal already appeared: the clause is a
			// tautology and trivially true.
			if _, ok := seen[lits[i].Opposite()]; ok {
				return nil, true
			}
			if _, ok := seen[lits[i]]; ok {
				size--
				lits[i], lits[size] = lits[size], lits[i]
				continue
			}
			seen[lits[i]] = struct{}{}

			switch s.LitValue(lits[i]) {
			case True:
				return nil, true // clause already satisfied at root level
			case False:
				size--
				lits[i], lits[size] = lits[size], lits[i]
			}
		}
		lits = lits[:size]
	}

	switch size {
	case 0:
		return nil, false // empty clause: the formula is unsatisfiable
	case 1:
		return nil, s.enqueue(lits[0], nil)
	default:
		c := &Clause{
			learnt:   learnt,
			literals: append(make([]Literal, 0, size), lits...),
		}

		if learnt {
			// Move the literal asserted at the highest decision level
			// (other than the UIP in slot 0) into slot 1, so that
			// backjumping to backjumpLevel makes the clause immediately
			// unit on slot 0.
			maxLevel, at := -1, -1
			for i := 1; i < len(c.literals); i++ {
				if lvl := s.levelOf(c.literals[i].VarID()); lvl > maxLevel {
					maxLevel, at = lvl, i
				}
			}
			c.literals[at], c.literals[1] = c.literals[1], c.literals[at]
		}

		s.watch(c, c.literals[0].Opposite(), c.literals[1])
		s.watch(c, c.literals[1].Opposite(), c.literals[0])

		return c, true
	}
}

// propagate is the per-clause step of watch relocation. l is the literal
// that was just asserted true; c is in l's watch list because it watches
// l's opposite, which is now false. It returns true if c remains satisfied,
// has a new watch, or became unit and its slot 0 was enqueued; false if c
// became unit with slot 0 itself falsified (a conflict).
func (c *Clause) propagate(s *Solver, l Literal) bool {
	opp := l.Opposite()
	if c.literals[0] == opp {
		c.literals[0], c.literals[1] = c.literals[1], c.literals[0]
	}

	if s.LitValue(c.literals[0]) == True {
		s.watch(c, l, c.literals[0])
		return true
	}

	for i := 2; i < len(c.literals); i++ {
		if s.LitValue(c.literals[i]) != False {
			c.literals[1], c.literals[i] = c.literals[i], c.literals[1]
			s.watch(c, c.literals[1].Opposite(), c.literals[0])
			return true
		}
	}

	s.watch(c, l, c.literals[0])
	return s.enqueue(c.literals[0], c)
}

// IsLearnt reports whether c was derived by conflict analysis rather than
// being part of the original problem.
func (c *Clause) IsLearnt() bool {
	return c.learnt
}

// explainFailure returns the literals that must be false for c to be the
// conflicting clause: the negation of every literal in c.
func (c *Clause) explainFailure(out []Literal) []Literal {
	out = out[:0]
	for _, l := range c.literals {
		out = append(out, l.Opposite())
	}
	return out
}

// explainAssign returns the reason c gives for asserting c.literals[0]: the
// negation of every other literal in c.
func (c *Clause) explainAssign(out []Literal) []Literal {
	out = out[:0]
	for _, l := range c.literals[1:] {
		out = append(out, l.Opposite())
	}
	return out
}

func (c *Clause) String() string {
	if len(c.literals) == 0 {
		return "Clause[]"
	}
	sb := strings.Builder{}
	sb.WriteString("Clause[")
	sb.WriteString(c.literals[0].String())
	for _, l := range c.literals[1:] {
		sb.WriteByte(' ')
		sb.WriteString(l.String())
	}
	sb.WriteByte(']')
	return sb.String()
}
