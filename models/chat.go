package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Conversation représente une conversation entre deux adhérents
type Conversation struct {
	ID            primitive.ObjectID   `json:"id" bson:"_id,omitempty"`
	Participants  []primitive.ObjectID `json:"participants" bson:"participants"`
	CreatedBy     primitive.ObjectID   `json:"created_by" bson:"created_by"`
	CreatedAt     time.Time            `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time            `json:"updated_at" bson:"updated_at"`
	LastMessageAt *time.Time           `json:"last_message_at,omitempty" bson:"last_message_at,omitempty"`
}

// IsParticipant vérifie qu'un adhérent appartient à la conversation
func (c *Conversation) IsParticipant(userID primitive.ObjectID) bool {
	for _, p := range c.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// ChatMessage représente un message dans une conversation
type ChatMessage struct {
	ID             primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ConversationID primitive.ObjectID `json:"conversation_id" bson:"conversation_id"`
	SenderID       primitive.ObjectID `json:"sender_id" bson:"sender_id"`
	Content        string             `json:"content" bson:"content"`
	IsRead         bool               `json:"is_read" bson:"is_read"`
	CreatedAt      time.Time          `json:"created_at" bson:"created_at"`
}

// UserInfo représente les informations publiques d'un adhérent
type UserInfo struct {
	ID        string `json:"id"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	Email     string `json:"email"`
	IsOnline  bool   `json:"is_online"`
}

// MessageInfo résume le dernier message d'une conversation
type MessageInfo struct {
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	IsRead    bool      `json:"is_read"`
}

// ConversationResponse représente une conversation dans la liste
type ConversationResponse struct {
	ID          string       `json:"id"`
	Participant UserInfo     `json:"participant"`
	LastMessage *MessageInfo `json:"last_message,omitempty"`
	UnreadCount int          `json:"unread_count"`
}

// StartConversationRequest représente la demande d'ouverture de conversation
type StartConversationRequest struct {
	RecipientID string `json:"recipient_id" validate:"required"`
	Message     string `json:"message"`
}

// SendMessageRequest représente la requête d'envoi de message
type SendMessageRequest struct {
	Content string `json:"content" validate:"required"`
}
