package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/SuryaSekhar14/s3rd-chat/internal/dto"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/logger"
	"github.com/SuryaSekhar14/s3rd-chat/internal/pkg/mailer"
)

type IExportService interface {
	// ExportToEmail renders a conversation as a Markdown document and
	// mails it as an attachment.
	ExportToEmail(ctx context.Context, userID, conversationID uuid.UUID, toEmail string) error
}

type exportService struct {
	conversationService IConversationService
	emailService        mailer.IEmailService
	log                 logger.ILogger
}

func NewExportService(conversationService IConversationService, emailService mailer.IEmailService, log logger.ILogger) IExportService {
	return &exportService{
		conversationService: conversationService,
		emailService:        emailService,
		log:                 log,
	}
}

func (s *exportService) ExportToEmail(ctx context.Context, userID, conversationID uuid.UUID, toEmail string) error {
	detail, err := s.conversationService.Get(ctx, userID, conversationID)
	if err != nil {
		return err
	}

	markdown := RenderMarkdown(detail)
	if err := s.emailService.SendConversationExport(toEmail, detail.Title, markdown); err != nil {
		return fmt.Errorf("send export email: %w", err)
	}

	s.log.Info("export", "conversation exported", map[string]interface{}{
		"conversation_id": conversationID.String(),
		"messages":        len(detail.Messages),
	})
	return nil
}

// RenderMarkdown flattens a conversation into a readable transcript.
// Assistant turns carry the model that produced them.
func RenderMarkdown(detail *dto.ConversationDetailResponse) string {
	var b strings.Builder

	b.WriteString("# ")
	b.WriteString(detail.Title)
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("_Exported %s, %d messages_\n\n", detail.UpdatedAt.Format("2006-01-02 15:04"), len(detail.Messages)))

	for _, m := range detail.Messages {
		if m.IsUser {
			b.WriteString("## You\n\n")
		} else {
			label := "Assistant"
			if m.AiModel != nil && *m.AiModel != "" {
				label = fmt.Sprintf("Assistant (%s)", *m.AiModel)
			}
			b.WriteString("## " + label + "\n\n")
		}
		b.WriteString(m.Content)
		b.WriteString("\n\n")

		for _, a := range m.Attachments {
			name := a.Filename
			if name == "" {
				name = a.URL
			}
			b.WriteString(fmt.Sprintf("> Attachment (%s): [%s](%s)\n\n", a.Type, name, a.URL))
		}
	}

	return b.String()
}
