package factengine

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"Jaffer/backend/go/internal/chat_service/service"
	"Jaffer/backend/go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectMood(t *testing.T) {
	cases := map[string]models.Mood{
		"I feel GREAT today":   models.MoodPositive,
		"happy but also sad":   models.MoodPositive,
		"that was a bad trade": models.MoodNegative,
		"price of gold":        models.MoodNeutral,
		"":                     models.MoodNeutral,
	}
	for msg, want := range cases {
		assert.Equal(t, want, DetectMood(msg), msg)
	}
}

func TestLookup(t *testing.T) {
	knowledge := "\nSilver closed at ₹92,000\nGold is ₹15,791 per gram\ngold futures are up\n"

	fact, err := Lookup(strings.NewReader(knowledge), "Gold price")
	require.NoError(t, err)
	assert.Equal(t, "Gold is ₹15,791 per gram", fact, "first match wins, case-insensitive")

	fact, err = Lookup(strings.NewReader(knowledge), "bitcoin")
	require.NoError(t, err)
	assert.Equal(t, models.NoDataFact, fact)

	fact, err = Lookup(strings.NewReader(knowledge), "   ")
	require.NoError(t, err)
	assert.Equal(t, models.NoDataFact, fact)
}

func TestAnswer(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultKnowledgeFile)
	require.NoError(t, os.WriteFile(path, []byte("Gold is ₹15,791\n"), 0o644))

	out, err := Answer(path, "gold makes me happy")
	require.NoError(t, err)
	assert.Equal(t, "Gold is ₹15,791 | POSITIVE", out)

	fact := service.ParseFeed(out)
	assert.Equal(t, models.LocalFact{Fact: "Gold is ₹15,791", Mood: models.MoodPositive}, fact)
}

func TestAnswer_MissingFileYieldsNoData(t *testing.T) {
	out, err := Answer(filepath.Join(t.TempDir(), "absent.txt"), "gold")
	assert.Error(t, err)
	assert.Equal(t, "No data found. | NEUTRAL", out)
	assert.Equal(t, service.DefaultRawFeed, out)
}

func TestFormat_SingleLine(t *testing.T) {
	assert.Equal(t, "a b | CALM", Format("a\nb", models.MoodCalm))
}
