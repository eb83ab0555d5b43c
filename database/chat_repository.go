package database

import (
	"context"
	"fmt"
	"time"

	"association-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ChatRepository gère les conversations et les messages du chat
type ChatRepository struct {
	conversations *mongo.Collection
	messages      *mongo.Collection
	users         *mongo.Collection
}

// NewChatRepository crée une nouvelle instance
func NewChatRepository(db *mongo.Database) *ChatRepository {
	return &ChatRepository{
		conversations: db.Collection("conversations"),
		messages:      db.Collection("chat_messages"),
		users:         db.Collection("users"),
	}
}

// FindOrCreateConversation retourne la conversation entre deux adhérents,
// en la créant si elle n'existe pas encore
func (r *ChatRepository) FindOrCreateConversation(userA, userB primitive.ObjectID) (*models.Conversation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var conversation models.Conversation
	err := r.conversations.FindOne(ctx, bson.M{
		"participants": bson.M{"$all": []primitive.ObjectID{userA, userB}},
	}).Decode(&conversation)

	if err == nil {
		return &conversation, nil
	}

	if err != mongo.ErrNoDocuments {
		return nil, fmt.Errorf("erreur lors de la recherche de la conversation: %w", err)
	}

	conversation = models.Conversation{
		ID:           primitive.NewObjectID(),
		Participants: []primitive.ObjectID{userA, userB},
		CreatedBy:    userA,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if _, err := r.conversations.InsertOne(ctx, conversation); err != nil {
		return nil, fmt.Errorf("erreur lors de la création de la conversation: %w", err)
	}

	return &conversation, nil
}

// FindConversationByID recherche une conversation par ID
func (r *ChatRepository) FindConversationByID(id primitive.ObjectID) (*models.Conversation, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var conversation models.Conversation
	err := r.conversations.FindOne(ctx, bson.M{"_id": id}).Decode(&conversation)

	if err == mongo.ErrNoDocuments {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche de la conversation: %w", err)
	}

	return &conversation, nil
}

// CreateMessage persiste un message et met à jour la conversation
func (r *ChatRepository) CreateMessage(message *models.ChatMessage) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	message.ID = primitive.NewObjectID()
	message.CreatedAt = time.Now()

	if _, err := r.messages.InsertOne(ctx, message); err != nil {
		return fmt.Errorf("erreur lors de la création du message: %w", err)
	}

	now := time.Now()
	_, err := r.conversations.UpdateOne(
		ctx,
		bson.M{"_id": message.ConversationID},
		bson.M{"$set": bson.M{"last_message_at": now, "updated_at": now}},
	)
	if err != nil {
		return fmt.Errorf("erreur lors de la mise à jour de la conversation: %w", err)
	}

	return nil
}

// FindMessages retourne les messages d'une conversation, du plus ancien au plus récent
func (r *ChatRepository) FindMessages(conversationID primitive.ObjectID, limit int64) ([]models.ChatMessage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.messages.Find(ctx, bson.M{"conversation_id": conversationID}, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des messages: %w", err)
	}
	defer cursor.Close(ctx)

	var messages []models.ChatMessage
	if err = cursor.All(ctx, &messages); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des messages: %w", err)
	}

	return messages, nil
}

// MarkConversationAsRead marque comme lus les messages reçus par un adhérent
func (r *ChatRepository) MarkConversationAsRead(conversationID, readerID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := r.messages.UpdateMany(
		ctx,
		bson.M{
			"conversation_id": conversationID,
			"sender_id":       bson.M{"$ne": readerID},
			"is_read":         false,
		},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return fmt.Errorf("erreur lors du marquage des messages: %w", err)
	}

	return nil
}

// GetConversations retourne les conversations d'un adhérent avec le dernier
// message et le nombre de messages non lus
func (r *ChatRepository) GetConversations(ctx context.Context, userID primitive.ObjectID) ([]models.ConversationResponse, error) {
	opts := options.Find().SetSort(bson.D{{Key: "last_message_at", Value: -1}})
	cursor, err := r.conversations.Find(ctx, bson.M{"participants": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la recherche des conversations: %w", err)
	}
	defer cursor.Close(ctx)

	var conversations []models.Conversation
	if err = cursor.All(ctx, &conversations); err != nil {
		return nil, fmt.Errorf("erreur lors du décodage des conversations: %w", err)
	}

	responses := make([]models.ConversationResponse, 0, len(conversations))
	for _, conv := range conversations {
		// Identifier l'autre participant
		var otherID primitive.ObjectID
		for _, p := range conv.Participants {
			if p != userID {
				otherID = p
				break
			}
		}

		var other models.User
		if err := r.users.FindOne(ctx, bson.M{"_id": otherID}).Decode(&other); err != nil {
			continue // Participant supprimé, on ignore la conversation
		}

		response := models.ConversationResponse{
			ID: conv.ID.Hex(),
			Participant: models.UserInfo{
				ID:        other.ID.Hex(),
				Firstname: other.Firstname,
				Lastname:  other.Lastname,
				Email:     other.Email,
				IsOnline:  other.LastSeen != nil && time.Since(*other.LastSeen) < 2*time.Minute,
			},
		}

		// Dernier message
		var last models.ChatMessage
		err := r.messages.FindOne(
			ctx,
			bson.M{"conversation_id": conv.ID},
			options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}}),
		).Decode(&last)
		if err == nil {
			response.LastMessage = &models.MessageInfo{
				Content:   last.Content,
				Timestamp: last.CreatedAt,
				IsRead:    last.IsRead,
			}
		}

		// Messages non lus
		unread, err := r.messages.CountDocuments(ctx, bson.M{
			"conversation_id": conv.ID,
			"sender_id":       bson.M{"$ne": userID},
			"is_read":         false,
		})
		if err == nil {
			response.UnreadCount = int(unread)
		}

		responses = append(responses, response)
	}

	return responses, nil
}
