package knowledge

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

/*
Close runs the inference rules until none of them changes anything.

Each iteration harvests the facts every sentence implies on its own,
propagates all known facts back into the sentences, and derives new
sentences from pairs where one cell set contains the other. The number of
distinct sentences over a finite board is finite and the fact sets only
grow, so the loop reaches a fixed point; the iteration cap exists to turn a
logic error into an [InvariantError] instead of a hang.

On error the base is left as it was before the call.
*/
func (b *Base) Close() error {
	next := b.clone()
	if err := next.closure(); err != nil {
		return err
	}
	*b = *next
	return nil
}

func (b *Base) closure() error {
	stats := Stats{}
	for {
		if stats.Iterations >= b.maxIterations {
			return &InvariantError{
				Op:  "closure",
				Msg: fmt.Sprintf("no fixed point after %d iterations", stats.Iterations),
				Err: ErrIterationLimit,
			}
		}
		stats.Iterations++

		learned, err := b.harvest()
		if err != nil {
			return err
		}
		pruned, err := b.propagate()
		if err != nil {
			return err
		}
		derived, err := b.resolve()
		if err != nil {
			return err
		}
		stats.Derived += derived

		Log.WithFields(logrus.Fields{
			"iteration": stats.Iterations,
			"learned":   learned,
			"pruned":    pruned,
			"derived":   derived,
			"sentences": len(b.sentences),
		}).Debug("closure")

		if learned == 0 && pruned == 0 && derived == 0 {
			break
		}
	}
	stats.Sentences = len(b.sentences)
	b.stats = stats
	return nil
}

// harvest moves the facts implied by single sentences into the global sets.
func (b *Base) harvest() (learned int, err error) {
	for _, s := range b.sentences {
		for _, c := range s.KnownMines() {
			if b.safes.has(c) {
				return learned, invariant("harvest", "%s proven both safe and mined", c)
			}
			if b.mines.add(c) {
				learned++
			}
		}
		for _, c := range s.KnownSafes() {
			if b.mines.has(c) {
				return learned, invariant("harvest", "%s proven both safe and mined", c)
			}
			if b.safes.add(c) {
				learned++
			}
		}
	}
	return learned, nil
}

// propagate strips every known cell out of the sentences and drops the
// sentences left empty.
func (b *Base) propagate() (pruned int, err error) {
	kept := b.sentences[:0]
	for _, s := range b.sentences {
		for _, c := range s.Cells() {
			if b.mines.has(c) {
				if err := s.MarkMine(c); err != nil {
					return 0, err
				}
			}
		}
		for _, c := range s.Cells() {
			if b.safes.has(c) {
				if err := s.MarkSafe(c); err != nil {
					return 0, err
				}
			}
		}
		if s.Empty() {
			pruned++
			continue
		}
		kept = append(kept, s)
	}
	clear(b.sentences[len(kept):])
	b.sentences = kept
	return pruned, nil
}

// resolve applies the subset rule to every ordered pair of sentences: when
// A is a proper subset of B, the cells of B outside A hold B.count-A.count
// mines.
func (b *Base) resolve() (derived int, err error) {
	n := len(b.sentences)
	keys := make(map[string]struct{}, n)
	for _, s := range b.sentences {
		keys[s.Key()] = struct{}{}
	}

	for i := range n {
		sub := b.sentences[i]
		if sub.Empty() {
			continue
		}
		for j := range n {
			sup := b.sentences[j]
			if i == j || sup.Empty() || !sub.SubsetOf(sup) {
				continue
			}
			if sub.Len() == sup.Len() {
				if sub.count != sup.count {
					return derived, invariant("resolve",
						"%s contradicts %s", sub, sup)
				}
				continue
			}
			s, err := sup.difference(sub)
			if err != nil {
				return derived, err
			}
			key := s.Key()
			if _, ok := keys[key]; ok {
				continue
			}
			keys[key] = struct{}{}
			b.sentences = append(b.sentences, s)
			derived++
		}
	}
	return derived, nil
}
