package seed

import (
	"hash/fnv"

	"github.com/prody-app/prody/internal/domain"
)

// Built-in content pools the daily seed is drawn from. The selection is a
// deterministic hash of (user, day): re-opening the app never reshuffles
// the day's seed.

type wordSeed struct {
	word       string
	variations []string
}

var wordPool = []wordSeed{
	{"serendipity", []string{"serendipitous"}},
	{"resilience", []string{"resilient", "resiliency"}},
	{"equanimity", []string{"equanimous"}},
	{"gratitude", []string{"grateful", "gratefulness"}},
	{"clarity", []string{"clear-minded", "lucidity"}},
	{"perseverance", []string{"persevere", "persevering"}},
	{"solitude", []string{"solitary"}},
	{"fortitude", nil},
	{"compassion", []string{"compassionate"}},
	{"intention", []string{"intentional", "intentionality"}},
}

type quoteSeed struct {
	quote     string
	keyPhrase string
}

var quotePool = []quoteSeed{
	{"The obstacle is the way.", "obstacle is the way"},
	{"We suffer more often in imagination than in reality.", "suffer more often in imagination"},
	{"What you do every day matters more than what you do once in a while.", "every day matters"},
	{"The quieter you become, the more you can hear.", "quieter you become"},
	{"No man steps in the same river twice.", "same river twice"},
	{"Knowing yourself is the beginning of all wisdom.", "knowing yourself"},
	{"A journey of a thousand miles begins with a single step.", "single step"},
	{"Between stimulus and response there is a space.", "stimulus and response"},
}

type proverbSeed struct {
	proverb  string
	keywords []string
}

var proverbPool = []proverbSeed{
	{"Fall seven times, stand up eight.", []string{"fall seven", "stand up eight", "stand up"}},
	{"The best time to plant a tree was twenty years ago. The second best time is now.", []string{"plant a tree", "second best time"}},
	{"A smooth sea never made a skilled sailor.", []string{"smooth sea", "skilled sailor"}},
	{"Still waters run deep.", []string{"still waters", "run deep"}},
	{"Little by little, one travels far.", []string{"little by little", "travels far"}},
	{"When the winds of change blow, some build walls and others build windmills.", []string{"winds of change", "windmills"}},
	{"He who asks is a fool for five minutes.", nil}, // keyword-less: content-word fallback
	{"The bamboo that bends is stronger than the oak that resists.", []string{"bamboo", "bends", "resists"}},
}

var phrasePool = []string{
	"one day at a time",
	"begin again",
	"less but better",
	"this too shall pass",
	"trust the process",
	"slow is smooth",
}

// seedForDay deterministically picks the day's seed for a user.
func seedForDay(userID, day string) domain.Seed {
	h := fnv.New32a()
	h.Write([]byte(userID))
	h.Write([]byte("/"))
	h.Write([]byte(day))
	n := h.Sum32()

	seed := domain.Seed{
		UserID: userID,
		Day:    day,
		State:  domain.SeedPlanted,
	}

	switch n % 4 {
	case 0:
		w := wordPool[int(n/4)%len(wordPool)]
		seed.Type = domain.SeedWord
		seed.Content = w.word
		seed.Match = domain.MatchData{Variations: w.variations}
	case 1:
		q := quotePool[int(n/4)%len(quotePool)]
		seed.Type = domain.SeedQuote
		seed.Content = q.quote
		seed.Match = domain.MatchData{KeyPhrase: q.keyPhrase}
	case 2:
		p := proverbPool[int(n/4)%len(proverbPool)]
		seed.Type = domain.SeedProverb
		seed.Content = p.proverb
		seed.Match = domain.MatchData{Keywords: p.keywords}
	default:
		seed.Type = domain.SeedPhrase
		seed.Content = phrasePool[int(n/4)%len(phrasePool)]
	}

	return seed
}
