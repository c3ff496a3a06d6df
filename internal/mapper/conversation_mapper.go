package mapper

import (
	"encoding/json"
	"path"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/SuryaSekhar14/s3rd-chat/internal/entity"
	"github.com/SuryaSekhar14/s3rd-chat/internal/model"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

func (m *ConversationMapper) ConversationToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Conversation{
		Id:        c.Id,
		UserId:    c.UserId,
		Title:     c.Title,
		Persona:   c.Persona,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
		IsDeleted: c.DeletedAt.Valid,
	}
}

func (m *ConversationMapper) ConversationToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Conversation{
		Id:        c.Id,
		UserId:    c.UserId,
		Title:     c.Title,
		Persona:   c.Persona,
		CreatedAt: c.CreatedAt,
		UpdatedAt: updatedAt,
		DeletedAt: deletedAt,
	}
}

func (m *ConversationMapper) MessageToEntity(msg *model.ConversationMessage) *entity.ConversationMessage {
	if msg == nil {
		return nil
	}

	var deletedAt *time.Time
	if msg.DeletedAt.Valid {
		t := msg.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !msg.UpdatedAt.IsZero() {
		t := msg.UpdatedAt
		updatedAt = &t
	}

	return &entity.ConversationMessage{
		Id:               msg.Id,
		ConversationId:   msg.ConversationId,
		Seq:              msg.Seq,
		Content:          msg.Content,
		IsUser:           msg.IsUser,
		AiModel:          msg.AiModel,
		PromptTokens:     msg.PromptTokens,
		CompletionTokens: msg.CompletionTokens,
		Attachments:      NormalizeAttachments(msg.Attachments),
		CreatedAt:        msg.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
		IsDeleted:        msg.DeletedAt.Valid,
	}
}

func (m *ConversationMapper) MessageToModel(msg *entity.ConversationMessage) *model.ConversationMessage {
	if msg == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if msg.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *msg.DeletedAt, Valid: true}
	} else if msg.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if msg.UpdatedAt != nil {
		updatedAt = *msg.UpdatedAt
	}

	var attachments datatypes.JSON
	if len(msg.Attachments) > 0 {
		raw, err := json.Marshal(msg.Attachments)
		if err == nil {
			attachments = datatypes.JSON(raw)
		}
	}

	return &model.ConversationMessage{
		Id:               msg.Id,
		ConversationId:   msg.ConversationId,
		Seq:              msg.Seq,
		Content:          msg.Content,
		IsUser:           msg.IsUser,
		AiModel:          msg.AiModel,
		PromptTokens:     msg.PromptTokens,
		CompletionTokens: msg.CompletionTokens,
		Attachments:      attachments,
		CreatedAt:        msg.CreatedAt,
		UpdatedAt:        updatedAt,
		DeletedAt:        deletedAt,
	}
}

// NormalizeAttachments upgrades the three historical storage shapes to
// the canonical list: a bare URL string, a single object, or an array of
// either. Unparseable payloads normalize to nil rather than failing the
// whole row.
func NormalizeAttachments(raw datatypes.JSON) []entity.Attachment {
	if len(raw) == 0 {
		return nil
	}

	var url string
	if err := json.Unmarshal(raw, &url); err == nil {
		if url == "" {
			return nil
		}
		return []entity.Attachment{attachmentFromURL(url)}
	}

	var single entity.Attachment
	if err := json.Unmarshal(raw, &single); err == nil && single.URL != "" {
		if single.Type == "" {
			single.Type = attachmentTypeFromURL(single.URL)
		}
		return []entity.Attachment{single}
	}

	var list []json.RawMessage
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil
	}
	out := make([]entity.Attachment, 0, len(list))
	for _, item := range list {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s != "" {
				out = append(out, attachmentFromURL(s))
			}
			continue
		}
		var a entity.Attachment
		if err := json.Unmarshal(item, &a); err == nil && a.URL != "" {
			if a.Type == "" {
				a.Type = attachmentTypeFromURL(a.URL)
			}
			out = append(out, a)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func attachmentFromURL(url string) entity.Attachment {
	return entity.Attachment{
		Type:     attachmentTypeFromURL(url),
		URL:      url,
		Filename: path.Base(url),
	}
}

func attachmentTypeFromURL(url string) string {
	trimmed := url
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	if strings.EqualFold(path.Ext(trimmed), ".pdf") {
		return "pdf"
	}
	return "image"
}
