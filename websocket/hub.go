package websocket

import (
	"context"
	"log"
	"sync"
	"time"

	"association-backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRepository limite la dépendance du hub au strict nécessaire
type UserRepository interface {
	UpdateLastSeen(userID primitive.ObjectID) error
	FindByID(userID primitive.ObjectID) (*models.User, error)
}

// ChatRepository liste les conversations d'un adhérent pour l'auto-join
type ChatRepository interface {
	GetConversations(ctx context.Context, userID primitive.ObjectID) ([]models.ConversationResponse, error)
}

// Hub gère les connexions WebSocket actives.
// Les identifiants de clients sont les ObjectID hex des adhérents.
type Hub struct {
	connections map[string]*Client

	// Rooms de conversations (conversation_id -> [user_id])
	rooms map[string]map[string]bool

	mu sync.RWMutex

	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message

	userRepo UserRepository
	chatRepo ChatRepository
}

// Message représente un message WebSocket à diffuser
type Message struct {
	ConversationID string
	UserIDs        []string // Si vide, envoyer à toute la conversation
	ExcludeUserID  string   // Ne pas envoyer à cet adhérent
	Payload        interface{}
}

// NewHub crée un nouveau hub WebSocket
func NewHub(userRepo UserRepository, chatRepo ChatRepository) *Hub {
	return &Hub{
		connections: make(map[string]*Client),
		rooms:       make(map[string]map[string]bool),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		broadcast:   make(chan *Message, 256),
		userRepo:    userRepo,
		chatRepo:    chatRepo,
	}
}

// Run démarre la boucle principale du hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.connections[client.UserID] = client
			h.mu.Unlock()
			log.Printf("🔌 Client connecté: %s (total: %d)", client.UserID, len(h.connections))

			go h.autoJoinConversations(client.UserID)
			h.touchLastSeen(client.UserID)
			h.notifyPresence(client.UserID, true)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.connections[client.UserID]; ok {
				delete(h.connections, client.UserID)
				close(client.send)

				for roomID, members := range h.rooms {
					delete(members, client.UserID)
					if len(members) == 0 {
						delete(h.rooms, roomID)
					}
				}
			}
			h.mu.Unlock()
			log.Printf("👋 Client déconnecté: %s (total: %d)", client.UserID, len(h.connections))

			h.touchLastSeen(client.UserID)
			h.notifyPresence(client.UserID, false)

		case message := <-h.broadcast:
			h.mu.Lock()
			h.deliver(message)
			h.mu.Unlock()
		}
	}
}

// deliver envoie un message aux destinataires. Appelé avec le verrou tenu.
func (h *Hub) deliver(message *Message) {
	if len(message.UserIDs) > 0 {
		for _, userID := range message.UserIDs {
			if userID == message.ExcludeUserID {
				continue
			}
			h.sendLocked(userID, message.Payload)
		}
		return
	}

	if message.ConversationID == "" {
		return
	}

	members, ok := h.rooms[message.ConversationID]
	if !ok {
		log.Printf("⚠️  Conversation %s n'a aucun membre dans les rooms", message.ConversationID)
		return
	}

	for userID := range members {
		if userID == message.ExcludeUserID {
			continue
		}
		h.sendLocked(userID, message.Payload)
	}
}

// sendLocked pousse le payload au client s'il est connecté. Un canal plein
// signifie un client bloqué : la connexion est abandonnée.
func (h *Hub) sendLocked(userID string, payload interface{}) {
	client, ok := h.connections[userID]
	if !ok {
		return
	}
	select {
	case client.send <- payload:
	default:
		log.Printf("❌ Canal plein pour %s", userID)
		close(client.send)
		delete(h.connections, userID)
	}
}

// JoinConversation ajoute un adhérent à une room de conversation
func (h *Hub) JoinConversation(userID, conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rooms[conversationID] == nil {
		h.rooms[conversationID] = make(map[string]bool)
	}
	h.rooms[conversationID][userID] = true
	log.Printf("✅ User %s a rejoint la conversation %s", userID, conversationID)
}

// LeaveConversation retire un adhérent d'une room de conversation
func (h *Hub) LeaveConversation(userID, conversationID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if members, ok := h.rooms[conversationID]; ok {
		delete(members, userID)
		if len(members) == 0 {
			delete(h.rooms, conversationID)
		}
		log.Printf("👋 User %s a quitté la conversation %s", userID, conversationID)
	}
}

// SendToUser envoie un message à un adhérent spécifique
func (h *Hub) SendToUser(userID string, payload interface{}) {
	h.broadcast <- &Message{
		UserIDs: []string{userID},
		Payload: payload,
	}
}

// SendToConversation envoie un message à tous les membres d'une conversation
func (h *Hub) SendToConversation(conversationID string, payload interface{}, excludeUserID string) {
	h.broadcast <- &Message{
		ConversationID: conversationID,
		ExcludeUserID:  excludeUserID,
		Payload:        payload,
	}
}

// IsUserOnline vérifie si un adhérent est actuellement connecté
func (h *Hub) IsUserOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()

	_, online := h.connections[userID]
	return online
}

// HandleTyping relaie l'indicateur de saisie aux autres participants
func (h *Hub) HandleTyping(userID, conversationID string, isTyping bool) {
	username := "Quelqu'un"
	if h.userRepo != nil {
		if objID, err := primitive.ObjectIDFromHex(userID); err == nil {
			if user, err := h.userRepo.FindByID(objID); err == nil && user != nil {
				username = user.Firstname
			}
		}
	}

	payload := map[string]interface{}{
		"type":            "user_typing",
		"conversation_id": conversationID,
		"user_id":         userID,
		"username":        username,
		"is_typing":       isTyping,
	}

	h.SendToConversation(conversationID, payload, userID)
}

// autoJoinConversations ajoute l'adhérent à toutes ses rooms de conversation
func (h *Hub) autoJoinConversations(userID string) {
	if h.chatRepo == nil {
		return
	}

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		log.Printf("❌ Identifiant invalide pour auto-join: %s", userID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conversations, err := h.chatRepo.GetConversations(ctx, objID)
	if err != nil {
		log.Printf("❌ Erreur récupération conversations pour auto-join: %v", err)
		return
	}

	for _, conv := range conversations {
		if conv.ID != "" {
			h.JoinConversation(userID, conv.ID)
		}
	}
}

// touchLastSeen enregistre l'instant de dernière activité en base
func (h *Hub) touchLastSeen(userID string) {
	if h.userRepo == nil {
		return
	}
	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return
	}
	if err := h.userRepo.UpdateLastSeen(objID); err != nil {
		log.Printf("⚠️  Erreur mise à jour last_seen: %v", err)
	}
}

// notifyPresence diffuse l'état de présence aux contacts de l'adhérent
func (h *Hub) notifyPresence(userID string, isOnline bool) {
	if h.chatRepo == nil {
		return
	}

	objID, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conversations, err := h.chatRepo.GetConversations(ctx, objID)
	if err != nil {
		log.Printf("❌ Erreur récupération conversations pour présence: %v", err)
		return
	}

	payload := map[string]interface{}{
		"type":      "user_presence",
		"user_id":   userID,
		"is_online": isOnline,
		"last_seen": time.Now().Format(time.RFC3339),
	}

	sentTo := make(map[string]bool)
	for _, conv := range conversations {
		otherID := conv.Participant.ID
		if otherID != userID && !sentTo[otherID] {
			h.SendToUser(otherID, payload)
			sentTo[otherID] = true
		}
	}
}

// Shutdown ferme toutes les connexions actives
func (h *Hub) Shutdown() {
	log.Printf("🔄 Arrêt du hub WebSocket...")

	h.mu.Lock()
	for userID, client := range h.connections {
		close(client.send)
		client.conn.Close()
		log.Printf("🔌 Connexion fermée pour %s", userID)
	}
	h.connections = make(map[string]*Client)
	h.mu.Unlock()

	log.Printf("✅ Hub WebSocket arrêté")
}
