package service_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuryaSekhar14/s3rd-chat/internal/config"
	"github.com/SuryaSekhar14/s3rd-chat/internal/service"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
)

func newKeyCheckServer(t *testing.T, validKey string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)

		if r.Header.Get("Authorization") != "Bearer "+validKey {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"content":"pong"}}],"usage":{"prompt_tokens":1,"completion_tokens":1}}`))
	}))
}

func TestVerifyAcceptsWorkingKey(t *testing.T) {
	srv := newKeyCheckServer(t, "sk-good")
	defer srv.Close()

	verifier := service.NewKeyVerifier(config.AIConfig{OpenAIBaseURL: srv.URL})
	assert.NoError(t, verifier.Verify(context.Background(), "openai", "sk-good"))
}

func TestVerifyClassifiesRejectedKey(t *testing.T) {
	srv := newKeyCheckServer(t, "sk-good")
	defer srv.Close()

	verifier := service.NewKeyVerifier(config.AIConfig{OpenAIBaseURL: srv.URL})
	err := verifier.Verify(context.Background(), "openai", "sk-stale")

	require.Error(t, err)
	assert.Equal(t, 401, chat.StatusCode(err))
}

func TestVerifyRejectsUnknownProvider(t *testing.T) {
	verifier := service.NewKeyVerifier(config.AIConfig{})
	err := verifier.Verify(context.Background(), "mystery", "sk-anything")

	require.Error(t, err)
	assert.Equal(t, 400, chat.StatusCode(err))
}
