package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"wisdomwealth-lab/internal/domain/models"
)

func TestDetectIntents(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []models.Intent
	}{
		{
			name: "ambiguous input defaults to fraud",
			text: "hello there, how are you today",
			want: []models.Intent{models.IntentFraud},
		},
		{
			name: "healthcare only",
			text: "My doctor sent me a bill for the treatment",
			want: []models.Intent{models.IntentHealthcare},
		},
		{
			name: "estate only",
			text: "I want to update my will and power of attorney",
			want: []models.Intent{models.IntentEstate},
		},
		{
			name: "fraud and healthcare overlap",
			text: "Someone called about my medicare and asked for my social security number",
			want: []models.Intent{models.IntentFraud, models.IntentHealthcare},
		},
		{
			name: "pressure language appends family",
			text: "I won a prize but they want gift cards to release the money",
			want: []models.Intent{models.IntentFraud, models.IntentFamily},
		},
		{
			name: "family not appended twice",
			text: "My family has an emergency and needs money urgently",
			want: []models.Intent{models.IntentFraud, models.IntentFamily},
		},
		{
			name: "canonical activation order",
			text: "A suspicious call about my medical bill, my will, and my family",
			want: []models.Intent{
				models.IntentFraud, models.IntentHealthcare,
				models.IntentEstate, models.IntentFamily,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectIntents(tt.text))
		})
	}
}

func TestDetectIntentsDeterministic(t *testing.T) {
	text := "urgent wire transfer for my grandson in the hospital"
	first := DetectIntents(text)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, DetectIntents(text))
	}
}

func TestDetectIntentsNeverEmpty(t *testing.T) {
	for _, text := range []string{"", "   ", "xyzzy", "the weather is nice"} {
		assert.NotEmpty(t, DetectIntents(text), "input %q", text)
	}
}
