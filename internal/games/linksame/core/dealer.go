package core

import (
	"fmt"
	"math"
	"math/rand"
)

// DefaultMaxRedeals bounds how many reshuffles Redeal tries before giving up.
const DefaultMaxRedeals = 10

// Dealer builds and rearranges boards. All randomness comes from its RNG,
// so two dealers with the same seed produce the same boards.
type Dealer struct {
	rng        *rand.Rand
	MaxRedeals int
}

// NewDealer creates a dealer seeded with seed.
func NewDealer(seed int64) *Dealer {
	return &Dealer{
		rng:        rand.New(rand.NewSource(seed)),
		MaxRedeals: DefaultMaxRedeals,
	}
}

// NewDealerWithRand creates a dealer that draws from an existing RNG.
func NewDealerWithRand(rng *rand.Rand) *Dealer {
	return &Dealer{rng: rng, MaxRedeals: DefaultMaxRedeals}
}

func checkDimensions(w, h int) error {
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: %dx%d is not a positive size", ErrInvalidDimensions, w, h)
	}
	if w > math.MaxInt/h {
		return fmt.Errorf("%w: %dx%d overflows the cell count", ErrInvalidDimensions, w, h)
	}
	if (w*h)%2 != 0 {
		return fmt.Errorf("%w: %dx%d has an odd number of cells", ErrInvalidDimensions, w, h)
	}
	return nil
}

// Deal fills a w×h board with pairs sampled from pool. Every kind is used
// before any kind repeats; the order of the pool is randomized first. The
// pairs are placed with a uniform random permutation. Solvability is not
// guaranteed.
func (d *Dealer) Deal(w, h int, pool []Kind) (*Grid, error) {
	if err := checkDimensions(w, h); err != nil {
		return nil, err
	}
	kinds := make([]Kind, 0, len(pool))
	for _, k := range pool {
		if k != Empty {
			kinds = append(kinds, k)
		}
	}
	if len(kinds) == 0 {
		return nil, fmt.Errorf("%w: empty kind pool", ErrInvalidDimensions)
	}

	pairs := w * h / 2
	deck := make([]Kind, 0, w*h)
	for len(deck) < w*h {
		d.shuffleKinds(kinds)
		for _, k := range kinds {
			if len(deck) == pairs*2 {
				break
			}
			deck = append(deck, k, k)
		}
	}
	return d.place(w, h, deck), nil
}

// DealDeck places an explicit deck on a w×h board in random order. The deck
// must hold exactly w*h tiles and every kind an even number of times.
func (d *Dealer) DealDeck(w, h int, deck []Kind) (*Grid, error) {
	if err := checkDimensions(w, h); err != nil {
		return nil, err
	}
	if len(deck) != w*h {
		return nil, fmt.Errorf("%w: deck of %d tiles for %d cells", ErrInvalidDimensions, len(deck), w*h)
	}
	counts := make(map[Kind]int)
	for _, k := range deck {
		if k == Empty {
			return nil, fmt.Errorf("%w: deck contains an empty tile", ErrInvalidDimensions)
		}
		counts[k]++
	}
	for k, n := range counts {
		if n%2 != 0 {
			return nil, fmt.Errorf("%w: kind %q appears %d times", ErrInvalidDimensions, k, n)
		}
	}
	cards := make([]Kind, len(deck))
	copy(cards, deck)
	return d.place(w, h, cards), nil
}

// BuildDeck returns the full-game deck for a w×h board: four of each basic
// kind, then four of each additional kind until the board is covered.
func BuildDeck(w, h int, basic, additional []Kind) ([]Kind, error) {
	if err := checkDimensions(w, h); err != nil {
		return nil, err
	}
	cells := w * h
	if cells%4 != 0 {
		return nil, fmt.Errorf("%w: %d cells is not a multiple of 4", ErrInvalidDimensions, cells)
	}
	quads := cells / 4
	if quads > len(basic)+len(additional) {
		return nil, fmt.Errorf("%w: need %d kinds, style has %d", ErrInvalidDimensions, quads, len(basic)+len(additional))
	}
	deck := make([]Kind, 0, cells)
	for i := 0; i < quads; i++ {
		var k Kind
		if i < len(basic) {
			k = basic[i]
		} else {
			k = additional[i-len(basic)]
		}
		deck = append(deck, k, k, k, k)
	}
	return deck, nil
}

func (d *Dealer) place(w, h int, deck []Kind) *Grid {
	d.shuffleKinds(deck)
	g := NewGrid(w, h)
	copy(g.Cells, deck)
	return g
}

// shuffleKinds is a Fisher-Yates shuffle driven by the dealer's RNG.
func (d *Dealer) shuffleKinds(ks []Kind) {
	for i := len(ks) - 1; i > 0; i-- {
		j := d.rng.Intn(i + 1)
		ks[i], ks[j] = ks[j], ks[i]
	}
}

// Reshuffle permutes the remaining tiles among the occupied cells.
// Empty cells stay empty and the multiset of kinds is unchanged.
func (d *Dealer) Reshuffle(g *Grid) {
	cells := g.Occupied()
	kinds := make([]Kind, len(cells))
	for i, c := range cells {
		kinds[i], _ = g.Get(c)
	}
	d.shuffleKinds(kinds)
	for i, c := range cells {
		g.Set(c, kinds[i])
	}
}

// Redeal reshuffles until some pair can be connected, trying at most
// MaxRedeals times. It reports whether the final arrangement has a move.
// An empty board is reported as playable.
func (d *Dealer) Redeal(g *Grid) bool {
	if g.OccupiedCount() == 0 {
		return true
	}
	tries := d.MaxRedeals
	if tries < 1 {
		tries = 1
	}
	for i := 0; i < tries; i++ {
		d.Reshuffle(g)
		if _, _, ok := FindAnyPair(g); ok {
			return true
		}
	}
	return false
}
