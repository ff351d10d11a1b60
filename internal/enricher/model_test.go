package enricher

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeStrict_RejectsUnknownFields(t *testing.T) {
	t.Parallel()

	raw := json.RawMessage(`{"etymology": "x", "surprise": true}`)
	_, err := decodeStrict[CoreLanguageDetailsOutput](raw)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "surprise")
}

func TestDecodeStrict_RunsValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		raw     string
		wantErr string
	}{
		{
			"no senses",
			`{"headword": "makan", "language": "id", "senses": []}`,
			"no senses",
		},
		{
			"blank part of speech",
			`{"headword": "makan", "language": "id", "senses": [{"part_of_speech": " ", "brief_description": "x"}]}`,
			"part_of_speech",
		},
		{
			"non-positive frequency rank",
			`{"headword": "makan", "language": "id", "frequency_rank": 0, "senses": [{"part_of_speech": "verb", "brief_description": "x"}]}`,
			"frequency_rank",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := decodeStrict[CoreDetailsOutput](json.RawMessage(tt.raw))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSchemaCheckFor(t *testing.T) {
	t.Parallel()

	check := schemaCheckFor[LinkChainsOutput]()
	assert.NoError(t, check(json.RawMessage(`{"link_chains": [{"narrative": "story"}]}`)))
	assert.Error(t, check(json.RawMessage(`{"link_chains": [{"narrative": ""}]}`)))
	assert.Error(t, check(json.RawMessage(`{"bogus": 1}`)))
}
