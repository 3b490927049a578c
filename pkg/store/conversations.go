package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"MindWell/models"
	utils "MindWell/pkg/utills"
)

// createdAtLayout matches the reference store's UTC text instants and sorts
// lexicographically in chronological order.
const createdAtLayout = "2006-01-02T15:04:05.000000"

// ErrCompletion marks a failure of the external completion collaborator, as
// opposed to a storage failure.
var ErrCompletion = errors.New("completion failed")

// Completer is the text-completion collaborator as the store consumes it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// CompleterFunc adapts a plain function to the Completer interface.
type CompleterFunc func(ctx context.Context, prompt string) (string, error)

func (f CompleterFunc) Complete(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// ConversationStore owns conversations and their messages. Every operation
// is scoped to an owning user; foreign conversations read as not found.
type ConversationStore struct {
	db *gorm.DB
}

func NewConversationStore(db *gorm.DB) *ConversationStore {
	return &ConversationStore{db: db}
}

// List returns the user's conversations, most recent first.
func (s *ConversationStore) List(userID uint) ([]models.Conversation, error) {
	var convs []models.Conversation
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&convs).Error
	return convs, err
}

// Messages returns all messages of an owned conversation in insertion
// order. ErrNotFound covers both missing ids and ids owned by someone else.
func (s *ConversationStore) Messages(userID uint, convID string) ([]models.Message, error) {
	var conv models.Conversation
	if err := s.db.Where("id = ? AND user_id = ?", convID, userID).First(&conv).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	var msgs []models.Message
	err := s.db.Where("conversation_id = ?", convID).Order("id ASC").Find(&msgs).Error
	return msgs, err
}

// Delete removes an owned conversation and its messages in one transaction.
// Missing or foreign ids are a silent no-op; delete is always safe.
func (s *ConversationStore) Delete(userID uint, convID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var conv models.Conversation
		err := tx.Where("id = ? AND user_id = ?", convID, userID).First(&conv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		if err := tx.Where("conversation_id = ?", convID).Delete(&models.Message{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", convID, userID).Delete(&models.Conversation{}).Error
	})
}

// RecordExchange is the create-on-demand append path: ensure the owned
// conversation exists (deriving its title from the first prompt), append the
// user message, obtain the completion, and append the assistant message.
// Everything commits as a single unit; a collaborator failure rolls the
// whole exchange back.
func (s *ConversationStore) RecordExchange(ctx context.Context, userID uint, convID, prompt, timestamp string, ai Completer) (string, error) {
	var result string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conv models.Conversation
		err := tx.Where("id = ? AND user_id = ?", convID, userID).First(&conv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			conv = models.Conversation{
				ID:        convID,
				UserID:    userID,
				Title:     utils.TitleFromPrompt(prompt),
				CreatedAt: time.Now().UTC().Format(createdAtLayout),
			}
			// id is a global primary key: reusing another user's id fails
			// here instead of touching their thread
			if err := tx.Create(&conv).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		userMsg := models.Message{
			ConversationID: convID,
			Sender:         models.SenderUser,
			Text:           prompt,
			Timestamp:      timestamp,
		}
		if err := tx.Create(&userMsg).Error; err != nil {
			return err
		}

		text, err := ai.Complete(ctx, prompt)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrCompletion, err)
		}

		assistantMsg := models.Message{
			ConversationID: convID,
			Sender:         models.SenderAssistant,
			Text:           text,
			Timestamp:      timestamp,
		}
		if err := tx.Create(&assistantMsg).Error; err != nil {
			return err
		}
		result = text
		return nil
	})
	return result, err
}
