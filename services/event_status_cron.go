package services

import (
	"fmt"
	"log"
	"time"

	"association-backend/database"
	"association-backend/models"

	"github.com/robfig/cron/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// EventStatusCron recalcule périodiquement le statut dérivé des événements.
// Le statut dépend de l'horloge (date passée, deadline atteinte) : une
// mutation seule ne suffit pas à le maintenir à jour.
type EventStatusCron struct {
	eventRepo    *database.EventRepository
	fcmTokenRepo *database.FCMTokenRepository
	fcmService   *FCMService
	cron         *cron.Cron
}

// NewEventStatusCron crée une nouvelle instance.
// fcmService peut être nil : les notifications d'ouverture sont alors ignorées.
func NewEventStatusCron(db *mongo.Database, fcmService *FCMService) *EventStatusCron {
	return &EventStatusCron{
		eventRepo:    database.NewEventRepository(db),
		fcmTokenRepo: database.NewFCMTokenRepository(db),
		fcmService:   fcmService,
		cron:         cron.New(),
	}
}

// Start démarre le cron job
func (ec *EventStatusCron) Start() {
	ec.cron.AddFunc("@every 1m", ec.refreshStatuses)
	ec.cron.Start()
	log.Println("✓ Cron job statuts événements démarré (vérification toutes les minutes)")
}

// Stop arrête le cron job
func (ec *EventStatusCron) Stop() {
	ec.cron.Stop()
}

// refreshStatuses recalcule le statut des événements actifs et persiste
// uniquement ceux qui ont changé
func (ec *EventStatusCron) refreshStatuses() {
	events, err := ec.eventRepo.FindStatusCandidates()
	if err != nil {
		log.Printf("Erreur recherche événements à recalculer: %v", err)
		return
	}

	now := time.Now()
	for _, event := range events {
		newStatus := event.ComputeStatus(now)
		if newStatus == event.EventStatus {
			continue
		}

		if err := ec.eventRepo.Update(event.ID, bson.M{"event_status": newStatus}); err != nil {
			log.Printf("Erreur mise à jour statut de l'événement %s: %v", event.ID.Hex(), err)
			continue
		}

		log.Printf("🔔 Événement '%s': %s → %s", event.Title, event.EventStatus, newStatus)

		if newStatus == models.EventStatusRegistrationOpen {
			ec.notifyRegistrationOpening(event)
		}
	}
}

// notifyRegistrationOpening prévient tous les appareils enregistrés que les
// inscriptions d'un événement viennent d'ouvrir
func (ec *EventStatusCron) notifyRegistrationOpening(event models.Event) {
	if ec.fcmService == nil {
		return
	}

	allFCMTokens, err := ec.fcmTokenRepo.FindAll()
	if err != nil {
		log.Printf("Erreur récupération tokens FCM: %v", err)
		return
	}

	if len(allFCMTokens) == 0 {
		log.Println("⚠️  Aucun token FCM enregistré")
		return
	}

	var tokens []string
	for _, t := range allFCMTokens {
		tokens = append(tokens, t.Token)
	}

	title := "🎉 Inscriptions ouvertes !"
	message := fmt.Sprintf("Les inscriptions pour '%s' sont maintenant ouvertes !", event.Title)
	data := map[string]string{
		"action":   "event_opening",
		"url":      "/#evenements",
		"event_id": event.ID.Hex(),
	}

	success, failed, _ := ec.fcmService.SendToAll(tokens, title, message, data)
	log.Printf("📧 Notification ouverture '%s' envoyée: %d succès, %d échecs", event.Title, success, failed)
}
