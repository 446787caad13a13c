package engine

// Ranges computes the open ends of every suit on the table. Ranks 1 and 13
// close a run and never open one, so they are ignored here. Suits without a
// qualifying card get no range. Order follows the first appearance of each
// suit on the table.
func Ranges(table []Card) []SuitRange {
	var out []SuitRange
	idx := map[Suit]int{}
	for _, c := range table {
		if c.Number == MinNumber || c.Number == MaxNumber {
			continue
		}
		i, ok := idx[c.Suit]
		if !ok {
			idx[c.Suit] = len(out)
			out = append(out, SuitRange{Suit: c.Suit, Low: c.Number - 1, High: c.Number + 1})
			continue
		}
		if c.Number-1 < out[i].Low {
			out[i].Low = c.Number - 1
		}
		if c.Number+1 > out[i].High {
			out[i].High = c.Number + 1
		}
	}
	return out
}

// Playable filters hand, keeping its order, to the cards that fit a range.
func Playable(table, hand []Card) []Card {
	ranges := Ranges(table)
	var out []Card
	for _, c := range hand {
		for _, r := range ranges {
			if r.Fits(c) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

// SelectMove picks the first playable card in hand order, or passes.
//
// Cards are assumed valid (see Card.Validate); nothing is coerced. The inputs
// are never modified and the result depends on nothing else, so concurrent
// calls need no coordination.
func SelectMove(table, hand []Card) Decision {
	playable := Playable(table, hand)
	if len(playable) == 0 {
		return Decision{Pass: true}
	}
	c := playable[0]
	return Decision{Suit: c.Suit, Number: c.Number}
}
