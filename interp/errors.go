/*
File    : golox/interp/errors.go
*/
package interp

import (
	"fmt"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// suggestionDistance is the maximum Levenshtein distance (as returned by
// fuzzy.RankFind) at which an undeclared name's closest match is worth
// suggesting. Beyond this the candidate is probably unrelated noise.
const suggestionDistance = 2

// undefinedVariableMessage builds the "Undefined variable 'NAME'."
// diagnostic, optionally appending a "Did you mean 'OTHER'?" suggestion
// when a currently-visible binding is a close typo distance away. The
// suggestion is purely cosmetic: it never changes what fails, only how
// the failure reads.
func (in *Interpreter) undefinedVariableMessage(name string) string {
	base := fmt.Sprintf("Undefined variable '%s'.", name)

	candidates := in.env.Names()
	if len(candidates) == 0 {
		return base
	}

	ranks := fuzzy.RankFindFold(name, candidates)
	if len(ranks) == 0 {
		return base
	}

	best := ranks[0]
	for _, r := range ranks[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	if best.Distance > suggestionDistance {
		return base
	}
	return fmt.Sprintf("%s Did you mean '%s'?", base, best.Target)
}
