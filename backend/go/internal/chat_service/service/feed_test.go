package service

import (
	"testing"

	"Jaffer/backend/go/internal/models"

	"github.com/stretchr/testify/assert"
)

func TestParseFeed(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want models.LocalFact
	}{
		{"fact and mood", "Gold is ₹15,791 | CALM", models.LocalFact{Fact: "Gold is ₹15,791", Mood: models.MoodCalm}},
		{"extra whitespace", "   ₹15,791    |   POSITIVE  ", models.LocalFact{Fact: "₹15,791", Mood: models.MoodPositive}},
		{"no delimiter", "  just a fact \n", models.LocalFact{Fact: "just a fact", Mood: models.MoodNeutral}},
		{"bare pipe is not the delimiter", "a|b", models.LocalFact{Fact: "a|b", Mood: models.MoodNeutral}},
		{"empty input", "", models.LocalFact{Fact: models.NoDataFact, Mood: models.MoodNeutral}},
		{"whitespace only", " \t ", models.LocalFact{Fact: models.NoDataFact, Mood: models.MoodNeutral}},
		{"empty fact segment", " | NEGATIVE", models.LocalFact{Fact: models.NoDataFact, Mood: models.MoodNegative}},
		{"empty mood segment", "fact |  ", models.LocalFact{Fact: "fact", Mood: models.MoodNeutral}},
		{"third segment ignored", "fact | CALM | extra", models.LocalFact{Fact: "fact", Mood: models.MoodCalm}},
		{"unknown mood kept", "fact | ANXIOUS", models.LocalFact{Fact: "fact", Mood: models.Mood("ANXIOUS")}},
		{"default raw feed", DefaultRawFeed, models.LocalFact{Fact: models.NoDataFact, Mood: models.MoodNeutral}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFeed(tt.raw))
		})
	}
}

func TestParseFeed_NeverReturnsEmptyFields(t *testing.T) {
	inputs := []string{"", " | ", " |  | ", "|", "\x00", " |", "| ", "\n | \n"}
	for _, raw := range inputs {
		got := ParseFeed(raw)
		assert.NotEmpty(t, got.Fact, "raw=%q", raw)
		assert.NotEmpty(t, got.Mood, "raw=%q", raw)
	}
}
