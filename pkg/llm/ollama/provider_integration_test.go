package ollama

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"ai-docchat/pkg/llm"
	"ai-docchat/pkg/rag/prompt"
	"ai-docchat/pkg/rag/retrieval"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Talks to a real Ollama server. Set OLLAMA_TEST_URL (and optionally OLLAMA_TEST_MODEL) to run.
func TestLiveGroundedAnswer(t *testing.T) {
	baseURL := os.Getenv("OLLAMA_TEST_URL")
	if baseURL == "" {
		t.Skip("OLLAMA_TEST_URL not set")
	}
	model := os.Getenv("OLLAMA_TEST_MODEL")
	if model == "" {
		model = "llama3"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	p := prompt.NewDocumentBuilder("handbook.txt",
		[]retrieval.ScoredChunk{{Index: 0, Text: "The office closes at 6 pm on Fridays."}},
		"When does the office close on Fridays?").Build()

	provider := NewOllamaProvider(baseURL, model)
	answer, err := provider.Generate(ctx, p, llm.WithMaxTokens(64))
	require.NoError(t, err)
	assert.NotEmpty(t, strings.TrimSpace(answer))
	t.Logf("answer: %s", answer)
}
