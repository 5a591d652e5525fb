// internal/core/server/dto_test.go
package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalyzeRequest_Validate(t *testing.T) {
	valid := AnalyzeRequest{
		Messages:        []string{"quiero parar el reparto"},
		CustomerContext: map[string]any{"plan": "Ahorro"},
	}
	require.NoError(t, valid.Validate())

	noContext := AnalyzeRequest{Messages: []string{"hola"}}
	assert.Error(t, noContext.Validate(), "absent customer context must be rejected")

	emptyContext := AnalyzeRequest{
		Messages:        []string{"hola"},
		CustomerContext: map[string]any{},
	}
	assert.Error(t, emptyContext.Validate(), "empty customer context must be rejected")

	empty := AnalyzeRequest{Messages: []string{}, CustomerContext: map[string]any{"plan": "Ahorro"}}
	assert.Error(t, empty.Validate(), "empty messages must be rejected")

	var nilMessages AnalyzeRequest
	assert.Error(t, nilMessages.Validate(), "nil messages must be rejected")
}

func TestTTSRequest_Validate(t *testing.T) {
	assert.NoError(t, TTSRequest{Text: "hola"}.Validate())
	assert.NoError(t, TTSRequest{Text: "hola", VoiceID: "custom"}.Validate())
	assert.Error(t, TTSRequest{}.Validate(), "empty text must be rejected")
}
