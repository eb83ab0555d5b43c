package models

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestConversation_IsParticipant(t *testing.T) {
	userA := primitive.NewObjectID()
	userB := primitive.NewObjectID()
	autre := primitive.NewObjectID()

	conv := Conversation{Participants: []primitive.ObjectID{userA, userB}}

	if !conv.IsParticipant(userA) {
		t.Error("userA devrait être participant")
	}
	if !conv.IsParticipant(userB) {
		t.Error("userB devrait être participant")
	}
	if conv.IsParticipant(autre) {
		t.Error("un tiers ne doit pas être participant")
	}
}
