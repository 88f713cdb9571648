package ref

import (
	"sort"
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	gkerrors "github.com/FocuswithJustin/gutenkjv/core/errors"
	"github.com/FocuswithJustin/gutenkjv/core/scripture"
)

// maxTypoDistance is the largest edit distance accepted when nothing else
// matched ("Genisis", "Levitcus").
const maxTypoDistance = 2

// aliases are alternate names in common use that no other rule reaches.
var aliases = map[string]string{
	"psalm":         "Psalms",
	"song of songs": "Song of Solomon",
	"canticles":     "Song of Solomon",
	"qoheleth":      "Ecclesiastes",
	"revelations":   "Revelation",
	"apocalypse":    "Revelation",
}

var (
	foldedNames []string
	foldedOSIS  = make(map[string]scripture.CanonBook)
	foldedCanon = make(map[string]scripture.CanonBook)
)

func init() {
	for _, b := range scripture.Canon() {
		name := strings.ToLower(b.Name)
		foldedNames = append(foldedNames, name)
		foldedCanon[name] = b
		foldedOSIS[strings.ToLower(b.OSIS)] = b
	}
}

// ResolveBook maps a user-written book name to its canonical entry. It tries,
// in order: the canonical name, the OSIS id, a known alias, a unique prefix,
// a subsequence match and finally a small edit distance. An OSIS id always
// wins, so "Phil" is Philippians even though it also prefixes Philemon. Names
// several books match equally well return an *errors.AmbiguousError.
func ResolveBook(name string) (scripture.CanonBook, error) {
	q := strings.ToLower(strings.Join(strings.Fields(name), " "))
	if q == "" {
		return scripture.CanonBook{}, gkerrors.NewValidation("book", name, "empty book name")
	}

	if b, ok := foldedCanon[q]; ok {
		return b, nil
	}
	if b, ok := foldedOSIS[strings.ReplaceAll(q, " ", "")]; ok {
		return b, nil
	}
	if canonical, ok := aliases[q]; ok {
		b, _ := scripture.LookupCanon(canonical)
		return b, nil
	}

	var prefixed []string
	for _, n := range foldedNames {
		if strings.HasPrefix(n, q) {
			prefixed = append(prefixed, n)
		}
	}
	switch len(prefixed) {
	case 0:
	case 1:
		return foldedCanon[prefixed[0]], nil
	default:
		return scripture.CanonBook{}, ambiguous(name, prefixed)
	}

	if ranks := fuzzy.RankFindFold(q, foldedNames); len(ranks) > 0 {
		sort.Sort(ranks)
		if len(ranks) > 1 && ranks[0].Distance == ranks[1].Distance {
			return scripture.CanonBook{}, ambiguous(name, []string{ranks[0].Target, ranks[1].Target})
		}
		return foldedCanon[ranks[0].Target], nil
	}

	var closest []string
	bestDist := maxTypoDistance + 1
	for _, n := range foldedNames {
		d := fuzzy.LevenshteinDistance(q, n)
		if d > maxTypoDistance {
			continue
		}
		switch {
		case d < bestDist:
			closest, bestDist = []string{n}, d
		case d == bestDist:
			closest = append(closest, n)
		}
	}
	switch len(closest) {
	case 0:
	case 1:
		return foldedCanon[closest[0]], nil
	default:
		return scripture.CanonBook{}, ambiguous(name, closest)
	}

	return scripture.CanonBook{}, gkerrors.NewNotFound("book", name)
}

func ambiguous(input string, folded []string) error {
	names := make([]string, len(folded))
	for i, f := range folded {
		names[i] = foldedCanon[f].Name
	}
	return gkerrors.NewAmbiguous(input, names...)
}
