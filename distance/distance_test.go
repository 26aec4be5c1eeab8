package distance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fulmenhq/nazgo/distance"
)

func TestLevenshteinLiterals(t *testing.T) {
	assert.Equal(t, 5, distance.Levenshtein("niche", "chiens"))
	assert.Equal(t, 2, distance.Levenshtein("bonjour", "bonjour !"))
	assert.Equal(t, 4, distance.Levenshtein("bon", "bonjour"))
}

func TestLevenshteinSymmetry(t *testing.T) {
	assert.Equal(t, distance.Levenshtein("kitten", "sitting"), distance.Levenshtein("sitting", "kitten"))
	assert.Equal(t, 0, distance.Levenshtein("same", "same"))
}

func TestSoundexCodeLiterals(t *testing.T) {
	assert.Equal(t, "A261", distance.SoundexCode("Ashcraft", distance.English))
	assert.Equal(t, "T522", distance.SoundexCode("Tymczak", distance.English))
}

func TestSoundexLiteral(t *testing.T) {
	assert.Equal(t, 1, distance.Soundex("Rubin", "Robert", distance.English))
}

func TestJaccard(t *testing.T) {
	assert.InDelta(t, 0.0, distance.Jaccard("abc", "abc"), 1e-9)
	d := distance.Jaccard("abc", "abd")
	assert.True(t, d > 0 && d < 1)
}

func TestEuclidean(t *testing.T) {
	d, err := distance.Euclidean(3.0, 5.0)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, d, 1e-9)

	d, err = distance.Euclidean("3", "5.5")
	require.NoError(t, err)
	assert.InDelta(t, 2.5, d, 1e-9)

	_, err = distance.Euclidean("abc", 1.0)
	assert.ErrorIs(t, err, distance.ErrInputCoercion)
}

func TestGeographicalFranceCities(t *testing.T) {
	// Approximate (lat, lon) for four reference and three target French cities.
	paris := [2]float64{48.8566, 2.3522}
	lyon := [2]float64{45.7640, 4.8357}
	marseille := [2]float64{43.2965, 5.3698}
	lille := [2]float64{50.6292, 3.0573}

	targetParis := [2]float64{48.8566, 2.3522}
	targetLyon := [2]float64{45.7640, 4.8357}
	targetToulouse := [2]float64{43.6047, 1.4442}

	d := distance.Geographical(paris, targetParis, false, distance.EarthRadiusMeters, distance.Kilometers)
	assert.InDelta(t, 0.0, d, 1e-6)

	d = distance.Geographical(lyon, targetLyon, false, distance.EarthRadiusMeters, distance.Kilometers)
	assert.InDelta(t, 0.0, d, 1e-6)

	// distinct cities are far apart relative to the 30km threshold
	d = distance.Geographical(marseille, targetToulouse, false, distance.EarthRadiusMeters, distance.Kilometers)
	assert.True(t, d > 30)

	d = distance.Geographical(lille, targetParis, false, distance.EarthRadiusMeters, distance.Kilometers)
	assert.True(t, d > 30)
}

func TestTemporalGranularity(t *testing.T) {
	days, err := distance.Temporal("01/01/2020", "11/01/2020", distance.Days, true)
	require.NoError(t, err)
	assert.InDelta(t, 10, days, 1e-6)

	months, err := distance.Temporal("01/01/2020", "31/03/2020", distance.Months, true)
	require.NoError(t, err)
	assert.True(t, months > 2.9 && months < 3.1)
}

func TestTemporalInputCoercion(t *testing.T) {
	_, err := distance.Temporal("not-a-date", "01/01/2020", distance.Days, true)
	assert.ErrorIs(t, err, distance.ErrInputCoercion)
}
