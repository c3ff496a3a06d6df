package chatstore

import (
	"github.com/google/uuid"

	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/logger"
	"github.com/SuryaSekhar14/s3rd-chat/internal/service"
	"github.com/SuryaSekhar14/s3rd-chat/internal/websocket"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
)

// Session is the per-user wiring of the conversation state machine:
// the controller and sidebar bound to service-backed adapters.
type Session struct {
	Controller *chat.Controller
	Sidebar    *chat.Sidebar
	Streamer   *Streamer
}

// NewSession composes a controller and sidebar for one user on top of
// the shared services. The streamer is bound back to the controller so
// stream outcomes land in its callbacks.
func NewSession(
	userID uuid.UUID,
	conversations service.IConversationService,
	assist service.IAssistService,
	resolver service.IProviderResolver,
	hub *websocket.Hub,
	defaultModel string,
	log logger.ILogger,
) *Session {
	store := NewStore(conversations, userID, log)
	streamer := NewStreamer(resolver, hub, userID, log)
	sidebar := chat.NewSidebar(store, log)
	controller := chat.NewController(store, streamer, NewAssist(assist, userID), sidebar, log, defaultModel)
	streamer.Bind(controller)

	return &Session{
		Controller: controller,
		Sidebar:    sidebar,
		Streamer:   streamer,
	}
}
