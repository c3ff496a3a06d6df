package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/SuryaSekhar14/s3rd-chat/internal/dto"
	"github.com/SuryaSekhar14/s3rd-chat/internal/entity"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/logger"
	"github.com/SuryaSekhar14/s3rd-chat/internal/repository/specification"
	"github.com/SuryaSekhar14/s3rd-chat/internal/repository/unitofwork"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/chat"
	"github.com/SuryaSekhar14/s3rd-chat/pkg/events"
	pktNats "github.com/SuryaSekhar14/s3rd-chat/pkg/nats"
)

type IConversationService interface {
	Create(ctx context.Context, userID uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationSummaryResponse, error)
	List(ctx context.Context, userID uuid.UUID) ([]*dto.ConversationSummaryResponse, error)
	Get(ctx context.Context, userID, conversationID uuid.UUID) (*dto.ConversationDetailResponse, error)
	UpdateTitle(ctx context.Context, userID, conversationID uuid.UUID, title string) error
	Delete(ctx context.Context, userID, conversationID uuid.UUID) error
	DeleteMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error
	ReplaceMessages(ctx context.Context, userID, conversationID uuid.UUID, messages []dto.MessageDTO) error
	AppendMessage(ctx context.Context, userID, conversationID uuid.UUID, message dto.MessageDTO) error
	Preview(ctx context.Context, conversationID uuid.UUID) (*dto.PreviewResponse, error)
}

type conversationService struct {
	uowFactory     unitofwork.RepositoryFactory
	eventPublisher *pktNats.Publisher
	previewCache   *gocache.Cache
	log            logger.ILogger
}

func NewConversationService(uowFactory unitofwork.RepositoryFactory, eventPublisher *pktNats.Publisher, log logger.ILogger) IConversationService {
	return &conversationService{
		uowFactory:     uowFactory,
		eventPublisher: eventPublisher,
		previewCache:   gocache.New(5*time.Minute, 10*time.Minute),
		log:            log,
	}
}

// Create persists a conversation stub under a client-generated id.
// Re-creating an id the user already owns returns the existing row, so
// retries after a dropped response are safe.
func (s *conversationService) Create(ctx context.Context, userID uuid.UUID, req *dto.CreateConversationRequest) (*dto.ConversationSummaryResponse, error) {
	id, err := uuid.Parse(req.Id)
	if err != nil {
		return nil, chat.NewStatusError(400, "invalid conversation id")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if existing != nil {
		if existing.UserId != userID {
			// Someone else owns this id; the client must regenerate.
			return nil, chat.NewStatusError(403, "conversation id already in use")
		}
		return summaryFromEntity(existing), nil
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = chat.DefaultTitle
	}

	conversation := &entity.Conversation{
		Id:        id,
		UserId:    userID,
		Title:     title,
		Persona:   "none",
		CreatedAt: time.Now(),
	}
	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, err
	}

	s.publishEvent(ctx, events.NewConversationCreated(userID.String(), id.String()))
	return summaryFromEntity(conversation), nil
}

// List returns the user's summaries ordered by recency; this ordering
// is the contract behind the sidebar.
func (s *conversationService) List(ctx context.Context, userID uuid.UUID) ([]*dto.ConversationSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userID},
		specification.OrderBy{Field: "updated_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	out := make([]*dto.ConversationSummaryResponse, len(conversations))
	for i, c := range conversations {
		out[i] = summaryFromEntity(c)
	}
	return out, nil
}

func (s *conversationService) Get(ctx context.Context, userID, conversationID uuid.UUID) (*dto.ConversationDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := s.findOwned(ctx, uow, userID, conversationID)
	if err != nil {
		return nil, err
	}

	messages, err := uow.MessageRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationID},
		specification.OrderBy{Field: "seq", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	detail := &dto.ConversationDetailResponse{
		Id:        conversation.Id.String(),
		Title:     conversation.Title,
		Persona:   conversation.Persona,
		Messages:  make([]dto.MessageDTO, len(messages)),
		CreatedAt: conversation.CreatedAt,
		UpdatedAt: updatedOrCreated(conversation),
	}
	for i, m := range messages {
		detail.Messages[i] = messageDTOFromEntity(m)
	}
	return detail, nil
}

func (s *conversationService) UpdateTitle(ctx context.Context, userID, conversationID uuid.UUID, title string) error {
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return chat.NewStatusError(400, "Title cannot be empty")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := s.findOwned(ctx, uow, userID, conversationID)
	if err != nil {
		return err
	}

	conversation.Title = trimmed
	now := time.Now()
	conversation.UpdatedAt = &now
	if err := uow.ConversationRepository().Update(ctx, conversation); err != nil {
		return err
	}

	s.previewCache.Delete(conversationID.String())
	s.publishEvent(ctx, events.NewTitleUpdated(userID.String(), conversationID.String(), trimmed))
	return nil
}

func (s *conversationService) Delete(ctx context.Context, userID, conversationID uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.findOwned(ctx, uow, userID, conversationID); err != nil {
		return err
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().DeleteAllByConversationId(ctx, conversationID); err != nil {
		return err
	}
	if err := uow.ConversationRepository().Delete(ctx, conversationID); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.previewCache.Delete(conversationID.String())
	s.publishEvent(ctx, events.NewConversationDeleted(userID.String(), conversationID.String()))
	return nil
}

func (s *conversationService) DeleteMany(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) error {
	for _, id := range ids {
		if err := s.Delete(ctx, userID, id); err != nil {
			return fmt.Errorf("delete %s: %w", id, err)
		}
	}
	return nil
}

// ReplaceMessages rewrites the whole message list in one transaction.
// CreatedAt is spaced per position so insertion order survives
// timestamp-based reads.
func (s *conversationService) ReplaceMessages(ctx context.Context, userID, conversationID uuid.UUID, messages []dto.MessageDTO) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.findOwned(ctx, uow, userID, conversationID); err != nil {
		return err
	}

	base := time.Now()
	rows := make([]*entity.ConversationMessage, len(messages))
	for i, m := range messages {
		rows[i] = messageEntityFromDTO(conversationID, m)
		rows[i].CreatedAt = base.Add(time.Duration(i) * time.Millisecond)
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().DeleteAllByConversationId(ctx, conversationID); err != nil {
		return err
	}
	if err := uow.MessageRepository().CreateMany(ctx, rows); err != nil {
		return err
	}
	if err := uow.ConversationRepository().Touch(ctx, conversationID); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.previewCache.Delete(conversationID.String())
	return nil
}

// AppendMessage adds a single message and bumps the conversation's
// recency so the sidebar reorders.
func (s *conversationService) AppendMessage(ctx context.Context, userID, conversationID uuid.UUID, message dto.MessageDTO) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if _, err := s.findOwned(ctx, uow, userID, conversationID); err != nil {
		return err
	}

	row := messageEntityFromDTO(conversationID, message)
	row.CreatedAt = time.Now()

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.MessageRepository().Create(ctx, row); err != nil {
		return err
	}
	if err := uow.ConversationRepository().Touch(ctx, conversationID); err != nil {
		return err
	}
	if err := uow.Commit(); err != nil {
		return err
	}

	s.previewCache.Delete(conversationID.String())
	return nil
}

// Preview serves a lightweight snapshot from cache when warm; previews
// are public-ish surfaces hit far more often than they change.
func (s *conversationService) Preview(ctx context.Context, conversationID uuid.UUID) (*dto.PreviewResponse, error) {
	if cached, found := s.previewCache.Get(conversationID.String()); found {
		return cached.(*dto.PreviewResponse), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversationID})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, chat.NewStatusError(404, "conversation not found")
	}

	count, err := uow.MessageRepository().Count(ctx, specification.ByConversationID{ConversationID: conversationID})
	if err != nil {
		return nil, err
	}

	first, err := uow.MessageRepository().FindOne(ctx,
		specification.ByConversationID{ConversationID: conversationID},
		specification.OrderBy{Field: "seq", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	preview := &dto.PreviewResponse{
		Id:           conversation.Id.String(),
		Title:        conversation.Title,
		MessageCount: int(count),
		UpdatedAt:    updatedOrCreated(conversation),
	}
	if first != nil {
		preview.FirstMessage = truncate(first.Content, 200)
	}

	s.previewCache.Set(conversationID.String(), preview, gocache.DefaultExpiration)
	return preview, nil
}

// --- helpers ---

func (s *conversationService) findOwned(ctx context.Context, uow unitofwork.UnitOfWork, userID, conversationID uuid.UUID) (*entity.Conversation, error) {
	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversationID})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, chat.NewStatusError(404, "conversation not found")
	}
	if conversation.UserId != userID {
		return nil, chat.NewStatusError(403, "not your conversation")
	}
	return conversation, nil
}

func (s *conversationService) publishEvent(ctx context.Context, event events.Event) {
	if s.eventPublisher == nil {
		return
	}
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		s.log.Warn("conversation", "event publish failed", map[string]interface{}{
			"type":  event.EventType(),
			"error": err.Error(),
		})
	}
}

func summaryFromEntity(c *entity.Conversation) *dto.ConversationSummaryResponse {
	return &dto.ConversationSummaryResponse{
		Id:        c.Id.String(),
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedOrCreated(c),
	}
}

func updatedOrCreated(c *entity.Conversation) time.Time {
	if c.UpdatedAt != nil {
		return *c.UpdatedAt
	}
	return c.CreatedAt
}

func messageDTOFromEntity(m *entity.ConversationMessage) dto.MessageDTO {
	out := dto.MessageDTO{
		Id:               m.Seq,
		Content:          m.Content,
		IsUser:           m.IsUser,
		AiModel:          m.AiModel,
		PromptTokens:     m.PromptTokens,
		CompletionTokens: m.CompletionTokens,
	}
	for _, a := range m.Attachments {
		out.Attachments = append(out.Attachments, dto.AttachmentDTO{
			Type:     a.Type,
			URL:      a.URL,
			Filename: a.Filename,
		})
	}
	return out
}

func messageEntityFromDTO(conversationID uuid.UUID, m dto.MessageDTO) *entity.ConversationMessage {
	row := &entity.ConversationMessage{
		Id:               uuid.New(),
		ConversationId:   conversationID,
		Seq:              m.Id,
		Content:          m.Content,
		IsUser:           m.IsUser,
		PromptTokens:     m.PromptTokens,
		CompletionTokens: m.CompletionTokens,
	}
	if !m.IsUser {
		row.AiModel = m.AiModel
	}
	for _, a := range m.Attachments {
		row.Attachments = append(row.Attachments, entity.Attachment{
			Type:     a.Type,
			URL:      a.URL,
			Filename: a.Filename,
		})
	}
	return row
}

func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
