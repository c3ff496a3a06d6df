package integration

import (
	"context"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuryaSekhar14/s3rd-chat/pkg/llm"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/llm/ollama"
)

func ollamaBaseURL() string {
	if url := os.Getenv("OLLAMA_BASE_URL"); url != "" {
		return url
	}
	return "http://localhost:11434"
}

func ollamaModel() string {
	if m := os.Getenv("OLLAMA_MODEL"); m != "" {
		return m
	}
	return "llama3"
}

func requireOllama(t *testing.T) {
	client := http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(ollamaBaseURL() + "/api/tags")
	if err != nil {
		t.Skipf("Skipping integration test: Ollama not reachable at %s", ollamaBaseURL())
	}
	resp.Body.Close()
}

func TestOllamaChat(t *testing.T) {
	requireOllama(t)

	provider := ollama.NewOllamaProvider(ollamaBaseURL(), ollamaModel())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	reply, err := provider.Chat(ctx, []llm.Message{
		{Role: "user", Content: "Reply with the single word: pong"},
	}, llm.WithTemperature(0))
	require.NoError(t, err)
	assert.NotEmpty(t, reply)
	t.Logf("Ollama reply: %q", reply)
}

func TestOllamaChatStream(t *testing.T) {
	requireOllama(t)

	provider := ollama.NewOllamaProvider(ollamaBaseURL(), ollamaModel())

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var deltas []string
	result, err := provider.ChatStream(ctx, []llm.Message{
		{Role: "user", Content: "Count from 1 to 5, digits only."},
	}, func(delta string) {
		deltas = append(deltas, delta)
	}, llm.WithTemperature(0))
	require.NoError(t, err)

	assert.NotEmpty(t, result.Content)
	assert.NotEmpty(t, deltas)
	// The assembled content must equal the concatenated deltas.
	assert.Equal(t, result.Content, strings.Join(deltas, ""))
}
