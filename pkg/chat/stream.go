package chat

import "context"

// StreamRequest is the hand-off from the controller to the streaming
// channel: full history, model, persona, and any attachment context the
// provider needs. PDFContext holds text extracted from attached
// documents, ready to fold into the system prompt.
type StreamRequest struct {
	ConversationID string
	Messages       []Message
	Model          string
	Persona        string
	ImageURL       string
	PDFContext     []string
}

// Streamer is the external streaming channel. Dispatch returns once the
// request is in flight; the channel renders tokens itself and reports
// the outcome back through the controller's OnStreamFinished /
// OnStreamError callbacks exactly once per request. After Stop, no
// finish callback fires for that request.
type Streamer interface {
	Dispatch(ctx context.Context, req StreamRequest) error
	Stop(conversationID string)
}

// Assist is the text-in/text-out AI collaborator behind title
// suggestions and prompt enhancement. Failures surface as classified
// errors (see StatusError).
type Assist interface {
	SuggestTitle(ctx context.Context, conversationID string, history []Message) (string, error)
	EnhancePrompt(ctx context.Context, conversationID, prompt string) (string, error)
}

// Revalidator lets the controller nudge the sidebar cache after a
// mutation changed ordering or titles. There is deliberately no push
// mechanism; this is the only signal.
type Revalidator interface {
	Revalidate(ctx context.Context)
}
