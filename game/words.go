package game

import (
	"math/rand"
	"strings"

	"github.com/MrAsnssr/Fraud/domain"
)

// wordPair is the hidden pair for one round.
type wordPair struct {
	Civilian string
	Imposter string
}

// pickWords draws the round's word pair from a category according to the
// room's game mode.
//
// Relative mode draws one curated pair and flips a coin for direction.
// A category with no usable pairs falls back to the random draw, so a
// words-only category still works in relative mode. Random mode draws
// two distinct words from the flat list, so the imposter's word has no
// guaranteed relation to the civilian one.
func pickWords(rng *rand.Rand, category domain.WordCategory, mode domain.GameMode) (wordPair, error) {
	switch mode {
	case domain.ModeRelative:
		pairs := validPairs(category.RelativePairs)
		if len(pairs) == 0 {
			return randomPair(rng, category)
		}
		p := pairs[rng.Intn(len(pairs))]
		if rng.Intn(2) == 0 {
			return wordPair{Civilian: p[0], Imposter: p[1]}, nil
		}
		return wordPair{Civilian: p[1], Imposter: p[0]}, nil

	case domain.ModeRandom:
		return randomPair(rng, category)

	default:
		return wordPair{}, domain.ErrInvalidGameMode
	}
}

func randomPair(rng *rand.Rand, category domain.WordCategory) (wordPair, error) {
	words := dedupeWords(category.Words)
	if len(words) < 2 {
		return wordPair{}, domain.ErrInsufficientWords
	}
	i := rng.Intn(len(words))
	j := rng.Intn(len(words) - 1)
	if j >= i {
		j++
	}
	return wordPair{Civilian: words[i], Imposter: words[j]}, nil
}

func validPairs(pairs [][2]string) [][2]string {
	out := make([][2]string, 0, len(pairs))
	for _, p := range pairs {
		a := strings.TrimSpace(p[0])
		b := strings.TrimSpace(p[1])
		if a == "" || b == "" || a == b {
			continue
		}
		out = append(out, [2]string{a, b})
	}
	return out
}

func dedupeWords(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// categoryPlayable reports whether a category can sustain at least one
// round in the given mode. Relative mode accepts a words-only category
// because pickWords falls back to the random draw.
func categoryPlayable(category domain.WordCategory, mode domain.GameMode) bool {
	switch mode {
	case domain.ModeRelative:
		return len(validPairs(category.RelativePairs)) > 0 || len(dedupeWords(category.Words)) >= 2
	case domain.ModeRandom:
		return len(dedupeWords(category.Words)) >= 2
	default:
		return false
	}
}
