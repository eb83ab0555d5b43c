package websocket

import (
	"encoding/json"
	"log"
	"net/http"

	"association-backend/utils"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Le filtrage d'origine est assuré par le middleware CORS en amont
		return true
	},
}

// Handler gère les connexions WebSocket
type Handler struct {
	hub       *Hub
	jwtSecret string
}

// NewHandler crée un nouveau handler WebSocket
func NewHandler(hub *Hub, jwtSecret string) *Handler {
	return &Handler{
		hub:       hub,
		jwtSecret: jwtSecret,
	}
}

// ServeWS gère les requêtes WebSocket.
// Le premier message du client doit être {"type":"authenticate","token":...}.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("❌ Erreur upgrade WebSocket: %v", err)
		return
	}

	client := &Client{
		hub:  h.hub,
		conn: conn,
		send: make(chan interface{}, 256),
	}

	go func() {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Printf("❌ Erreur lecture auth: %v", err)
			conn.Close()
			return
		}

		var authMsg map[string]interface{}
		if err := json.Unmarshal(message, &authMsg); err != nil {
			log.Printf("❌ Erreur parsing auth: %v", err)
			conn.Close()
			return
		}

		if authMsg["type"] != "authenticate" {
			_ = conn.WriteJSON(map[string]interface{}{
				"type":    "error",
				"message": "Authentification requise",
			})
			conn.Close()
			return
		}

		token, ok := authMsg["token"].(string)
		if !ok || token == "" {
			_ = conn.WriteJSON(map[string]interface{}{
				"type":    "error",
				"message": "Token requis",
			})
			conn.Close()
			return
		}

		claims, err := utils.ValidateToken(token, h.jwtSecret)
		if err != nil {
			log.Printf("❌ Token invalide: %v", err)
			_ = conn.WriteJSON(map[string]interface{}{
				"type":    "error",
				"message": "Token invalide ou expiré",
			})
			conn.Close()
			return
		}

		client.UserID = claims.UserID

		_ = conn.WriteJSON(map[string]interface{}{
			"type":    "authenticated",
			"user_id": client.UserID,
		})

		h.hub.register <- client

		go client.writePump()
		go client.readPump()
	}()
}
