package service

import (
	"context"
	"errors"
	"net"

	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/llm/openai"
)

// MapProviderError collapses a provider failure into the status taxonomy
// the client keys its copy off. Upstream 4xx codes pass through where
// they carry meaning; transport failures become 503.
func MapProviderError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return chat.NewStatusError(408, "provider request timed out")
	}
	if errors.Is(err, context.Canceled) {
		return err
	}

	switch status := openai.StatusFromError(err); {
	case status == 429:
		return chat.NewStatusError(429, "provider rate limit exceeded")
	case status == 401 || status == 403:
		return chat.NewStatusError(401, "provider rejected credentials")
	case status == 402:
		// Out of quota behaves like throttling from the user's side.
		return chat.NewStatusError(429, "provider quota exhausted")
	case status >= 500:
		return chat.NewStatusError(503, "provider unavailable")
	case status >= 400:
		return chat.NewStatusError(500, err.Error())
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return chat.NewStatusError(408, "provider request timed out")
		}
		return chat.NewStatusError(503, "provider unreachable")
	}

	return chat.NewStatusError(500, err.Error())
}
