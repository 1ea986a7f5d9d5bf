// Homewatch - Presence-Aware Home Automation
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/homewatch/homewatch

package recognition

// voteWinner tallies one vote per matched reference embedding and
// returns the name with the most votes. Ties resolve to the name whose
// first matched embedding appears earliest in artifact order, keeping
// the outcome deterministic across runs. Returns Unknown when nothing
// matched.
func voteWinner(set *KnownFaceSet, matches []bool) string {
	counts := make(map[string]int)
	var order []string

	for i, matched := range matches {
		if !matched || i >= set.Len() {
			continue
		}
		name := set.Name(i)
		if counts[name] == 0 {
			order = append(order, name)
		}
		counts[name]++
	}

	winner := Unknown
	best := 0
	for _, name := range order {
		if counts[name] > best {
			best = counts[name]
			winner = name
		}
	}
	return winner
}
