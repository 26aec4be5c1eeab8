// Package distance implements the metric family: Levenshtein, Soundex,
// Jaccard, Temporal, Geographical, and Euclidean, as enumerated in the
// record-linkage toolkit's Metric set. Each function is total and
// non-negative; callers that cannot coerce their inputs get an
// InputCoercion error rather than a panic, per the §7 error-kind contract.
package distance

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/fulmenhq/nazgo/foundry/similarity"
	"github.com/fulmenhq/nazgo/telemetry"
	"github.com/fulmenhq/nazgo/telemetry/metrics"
)

// ErrInputCoercion is returned when a metric cannot coerce one of its
// arguments into the shape it needs.
var ErrInputCoercion = errors.New("distance: input coercion failed")

func recordCompute(name string) func() {
	start := time.Now()
	return func() {
		telemetry.EmitCounter(metrics.DistanceComputeTotal, 1, map[string]string{metrics.TagMetric: name})
		telemetry.EmitHistogram(metrics.DistanceComputeMs, time.Since(start), map[string]string{metrics.TagMetric: name})
	}
}

// Levenshtein computes the edit distance between a and b. If either input
// contains a space, it switches to the token-matrix reduction: both strings
// are split on spaces, a matrix of per-token Levenshtein distances is built,
// and the result is the max of the row-minima and column-minima — the
// classical way of scoring "did every token on either side find a good
// match" rather than an ordinary whole-string edit distance.
func Levenshtein(a, b string) int {
	defer recordCompute("levenshtein")()
	if strings.Contains(a, " ") || strings.Contains(b, " ") {
		return tokenMatrixReduce(a, b, similarity.Distance)
	}
	return similarity.Distance(a, b)
}

func tokenMatrixReduce(a, b string, dist func(string, string) int) int {
	if !strings.Contains(a, " ") {
		a += " "
	}
	if !strings.Contains(b, " ") {
		b += " "
	}
	toksA := strings.Split(a, " ")
	toksB := strings.Split(b, " ")

	m := make([][]int, len(toksA))
	for i := range toksA {
		m[i] = make([]int, len(toksB))
		for j := range toksB {
			m[i][j] = dist(toksA[i], toksB[j])
		}
	}

	best := 0
	for i := range m {
		rowMin := m[i][0]
		for _, v := range m[i] {
			if v < rowMin {
				rowMin = v
			}
		}
		if rowMin > best {
			best = rowMin
		}
	}
	for j := range toksB {
		colMin := m[0][j]
		for i := range toksA {
			if m[i][j] < colMin {
				colMin = m[i][j]
			}
		}
		if colMin > best {
			best = colMin
		}
	}
	return best
}

// Language selects the consonant-code table used by SoundexCode/Soundex.
type Language int

const (
	French Language = iota
	English
)

var frenchCodes = map[byte]byte{
	'B': '1', 'P': '1',
	'C': '2', 'K': '2', 'Q': '2',
	'D': '3', 'T': '3',
	'L': '4',
	'M': '5', 'N': '5',
	'R': '6',
	'G': '7', 'J': '7',
	'X': '8', 'Z': '8', 'S': '8',
	'F': '9', 'V': '9',
}

var englishCodes = map[byte]byte{
	'B': '1', 'F': '1', 'P': '1', 'V': '1',
	'C': '2', 'G': '2', 'J': '2', 'K': '2', 'Q': '2', 'S': '2', 'X': '2', 'Z': '2',
	'D': '3', 'T': '3',
	'L': '4',
	'M': '5', 'N': '5',
	'R': '6',
}

const vowels = "AEHIOUWY"

func codeTable(lang Language) map[byte]byte {
	if lang == English {
		return englishCodes
	}
	return frenchCodes
}

// SoundexCode returns the 4-character Soundex code of word in the given
// language: the first letter followed by the consonant codes of the
// remaining letters (collapsing consecutive identical codes, and collapsing
// identical codes separated by a single W or H), truncated or zero-padded to
// length 4.
func SoundexCode(word string, lang Language) string {
	defer recordCompute("soundex_code")()
	word = strings.ToUpper(strings.TrimSpace(word))
	if word == "" {
		return "0000"
	}
	codes := codeTable(lang)

	code := []byte{word[0]}
	for i := 1; i < len(word); i++ {
		c := word[i]
		if strings.IndexByte(vowels, c) >= 0 {
			continue
		}
		prev := word[i-1]
		if strings.IndexByte(vowels, prev) < 0 && codes[c] == codes[code[len(code)-1]] {
			continue
		}
		if i+2 < len(word) && (word[i+1] == 'W' || word[i+1] == 'H') && codes[c] == codes[word[i+2]] {
			continue
		}
		code = append(code, c)
	}

	out := make([]byte, 1, 4)
	out[0] = code[0]
	for _, c := range code[1:] {
		out = append(out, codes[c])
	}
	for len(out) < 4 {
		out = append(out, '0')
	}
	return string(out[:4])
}

// Soundex returns 0 if a and b share a Soundex code, 1 otherwise. As with
// Levenshtein, whitespace in either input switches to the token-matrix
// reduction over the per-token 0/1 indicator.
func Soundex(a, b string, lang Language) int {
	defer recordCompute("soundex")()
	if strings.Contains(a, " ") || strings.Contains(b, " ") {
		return tokenMatrixReduce(a, b, func(x, y string) int {
			return soundex1(x, y, lang)
		})
	}
	return soundex1(a, b, lang)
}

func soundex1(a, b string, lang Language) int {
	if SoundexCode(a, lang) == SoundexCode(b, lang) {
		return 0
	}
	return 1
}

// Jaccard returns 1 − |charset(a) ∩ charset(b)| / |charset(a) ∪ charset(b)|.
func Jaccard(a, b string) float64 {
	defer recordCompute("jaccard")()
	setA := map[rune]struct{}{}
	for _, r := range a {
		setA[r] = struct{}{}
	}
	setB := map[rune]struct{}{}
	for _, r := range b {
		setB[r] = struct{}{}
	}
	union := map[rune]struct{}{}
	for r := range setA {
		union[r] = struct{}{}
	}
	for r := range setB {
		union[r] = struct{}{}
	}
	if len(union) == 0 {
		return 0
	}
	inter := 0
	for r := range setA {
		if _, ok := setB[r]; ok {
			inter++
		}
	}
	return 1.0 - float64(inter)/float64(len(union))
}

// Granularity selects the unit Temporal reports its distance in.
type Granularity int

const (
	Days Granularity = iota
	Months
	Years
)

// Temporal parses a and b as dates (a permissive layout list is tried in
// order) and returns the absolute difference, scaled by granularity:
// 1 day, 30.5 days per month, 365.25 days per year.
func Temporal(a, b string, granularity Granularity, dayFirst bool) (float64, error) {
	defer recordCompute("temporal")()
	da, err := parseDate(a, dayFirst)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInputCoercion, err)
	}
	db, err := parseDate(b, dayFirst)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInputCoercion, err)
	}
	days := da.Sub(db).Hours() / 24
	if days < 0 {
		days = -days
	}
	switch granularity {
	case Months:
		return days / 30.5, nil
	case Years:
		return days / 365.25, nil
	default:
		return days, nil
	}
}

var dayFirstLayouts = []string{"02/01/2006", "2006-01-02", "02-01-2006", "02.01.2006", "January 2, 2006", "2 January 2006"}
var monthFirstLayouts = []string{"01/02/2006", "2006-01-02", "01-02-2006", "01.02.2006", "January 2, 2006", "2 January 2006"}

func parseDate(s string, dayFirst bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	layouts := monthFirstLayouts
	if dayFirst {
		layouts = dayFirstLayouts
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}

// Units selects meters or kilometers for Geographical's result.
type Units int

const (
	Meters Units = iota
	Kilometers
)

// EarthRadiusMeters is the planet radius used by Geographical when the
// caller does not supply one.
const EarthRadiusMeters = 6371009.0

// Geographical returns the equirectangular-approximation great-circle
// distance between two (lat, lon) points. Inputs are in degrees unless
// inRadians is set.
func Geographical(a, b [2]float64, inRadians bool, planetRadius float64, units Units) float64 {
	defer recordCompute("geographical")()
	latA, lonA := a[0], a[1]
	latB, lonB := b[0], b[1]

	diffLat := latA - latB
	diffLon := lonA - lonB
	meanLat := (latA + latB) / 2.0

	if !inRadians {
		const deg2rad = 3.141592653589793 / 180.0
		diffLat *= deg2rad
		diffLon *= deg2rad
		meanLat *= deg2rad
	}

	coef := 1.0
	if units == Kilometers {
		coef = 0.001
	}
	term := math.Cos(meanLat) * diffLon
	return coef * planetRadius * math.Sqrt(diffLat*diffLat+term*term)
}

// Euclidean returns |a − b|, coercing strings to float64 if necessary.
func Euclidean(a, b interface{}) (float64, error) {
	defer recordCompute("euclidean")()
	fa, err := toFloat(a)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInputCoercion, err)
	}
	fb, err := toFloat(b)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInputCoercion, err)
	}
	d := fa - fb
	if d < 0 {
		d = -d
	}
	return d, nil
}

func toFloat(v interface{}) (float64, error) {
	switch t := v.(type) {
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(t), 64)
	default:
		return 0, fmt.Errorf("cannot coerce %T to float64", v)
	}
}
