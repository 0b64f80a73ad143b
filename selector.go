package activator

import (
	"github.com/viant/activator/entry"
)

// Select matches every candidate constructor and returns the best ranked satisfiable one.
// Ranking: most params bound from entries, then fewest params, then declaration order.
// A descriptor without constructors uses implicit zero argument constructor.
func (a *Activator) Select(desc TypeDescriptor, set entry.Set) (*Constructor, *Binding, error) {
	candidates := desc.Constructors()
	if len(candidates) == 0 {
		candidates = []*Constructor{implicitConstructor()}
	}
	var best *Binding
	var tied []*Constructor
	bindings := make([]*Binding, 0, len(candidates))
	for i, candidate := range candidates {
		binding := a.Match(set, candidate)
		bindings = append(bindings, binding)
		a.options.logger.Debug("constructor candidate",
			"type", typeName(desc.Type()),
			"candidate", i,
			"constructor", candidate.String(),
			"bound", binding.Bound,
			"defaulted", binding.Defaulted,
			"satisfiable", binding.Satisfiable())
		if !binding.Satisfiable() {
			continue
		}
		switch {
		case best == nil || outranks(binding, best):
			best = binding
			tied = nil
		case !outranks(best, binding):
			tied = append(tied, candidate)
		}
	}
	if best == nil {
		return nil, nil, &NoViableConstructorError{Type: desc.Type(), Candidates: bindings}
	}
	if a.options.strict && len(tied) > 0 {
		return nil, nil, &AmbiguousSelectionError{Type: desc.Type(), Candidates: append([]*Constructor{best.Constructor}, tied...)}
	}
	a.options.logger.Debug("constructor selected", "type", typeName(desc.Type()), "constructor", best.Constructor.String())
	return best.Constructor, best, nil
}

func outranks(candidate, other *Binding) bool {
	if candidate.Bound != other.Bound {
		return candidate.Bound > other.Bound
	}
	return len(candidate.Constructor.Params) < len(other.Constructor.Params)
}
