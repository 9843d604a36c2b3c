package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/lancerhq/workspace-service/internal/fieldval"
	"github.com/lancerhq/workspace-service/internal/models"
)

const messagePreviewRunes = 300

func messagePreview(body string) string {
	runes := []rune(body)
	if len(runes) <= messagePreviewRunes {
		return body
	}
	return string(runes[:messagePreviewRunes])
}

// CreateConversationMessage appends a message and refreshes the parent
// conversation's denormalized preview, timestamp, and read state.
func (s *Service) CreateConversationMessage(ctx context.Context, projectID, conversationID string, payload map[string]any, actorID string) (*models.Message, error) {
	var message models.Message
	err := s.mutate(ctx, projectID, actorID, func(tx *gorm.DB, ws *models.Workspace) error {
		conversation, err := findOwned[models.Conversation](s.lockForUpdate(tx), "conversation", conversationID, ws.ID)
		if err != nil {
			return err
		}
		body, err := fieldval.RequireText(payload["body"], "body")
		if err != nil {
			return err
		}
		postedAt := time.Now().UTC()
		if v, ok := payload["postedAt"]; ok {
			parsed, err := fieldval.ParseDate(v, "postedAt", true)
			if err != nil {
				return err
			}
			if parsed != nil {
				postedAt = *parsed
			}
		}
		message = models.Message{
			ConversationID: conversation.ID,
			WorkspaceID:    ws.ID,
			AuthorName:     textOrEmpty(payload["authorName"]),
			Body:           body,
			PostedAt:       postedAt,
		}
		if err := tx.Create(&message).Error; err != nil {
			return err
		}
		return tx.Model(conversation).Updates(map[string]any{
			"last_message_preview": messagePreview(body),
			"last_message_at":      postedAt,
			"unread_count":         0,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	s.finishMutation(ctx, projectID, "message", "created", actorID)
	return &message, nil
}
