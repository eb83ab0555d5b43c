package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"association-backend/config"
	"association-backend/database"
	"association-backend/handlers"
	"association-backend/middleware"
	"association-backend/services"
	"association-backend/utils"
	"association-backend/websocket"

	"github.com/gorilla/mux"
)

func main() {
	// Charger la configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Erreur lors du chargement de la configuration: %v", err)
	}

	// Connexion à MongoDB : le handle est injecté partout, pas de global
	db, err := database.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("❌ Erreur de connexion à MongoDB: %v", err)
	}
	defer database.Close(db)

	// Initialiser Firebase Cloud Messaging (optionnel)
	fcmService, err := services.NewFCMService(cfg.FirebaseCredentialsFile)
	if err != nil {
		log.Printf("⚠️  Erreur d'initialisation Firebase: %v", err)
		log.Println("⚠️  Le serveur démarre SANS notifications push")
		fcmService = nil
	} else {
		log.Println("✓ Firebase Cloud Messaging initialisé")
	}

	// Service email (optionnel)
	var emailSender services.EmailSender
	if cfg.EmailAPIURL != "" {
		emailSender = services.NewEmailService(cfg.EmailAPIURL, cfg.EmailAPIKey, cfg.EmailSender)
		log.Println("✓ Service email initialisé")
	} else {
		log.Println("⚠️  EMAIL_API_URL absent : envoi d'emails désactivé")
	}

	// Service de paiement Stripe (optionnel)
	paymentService := services.NewPaymentService(cfg.StripeSecretKey, cfg.StripeCurrency)
	if paymentService.Enabled() {
		log.Println("✓ Service de paiement Stripe initialisé")
	} else {
		log.Println("⚠️  STRIPE_SECRET_KEY absent : paiements désactivés")
	}

	// Notifications Slack pour les erreurs critiques
	slackService := services.NewSlackService(cfg.SlackWebhookURL, cfg.Environment)

	// Cron de recalcul des statuts d'événements
	statusCron := services.NewEventStatusCron(db, fcmService)
	statusCron.Start()
	defer statusCron.Stop()

	// Créer le routeur
	router := mux.NewRouter()

	// Créer un routeur sans middleware pour WebSocket
	rawRouter := mux.NewRouter()

	// Appliquer les middlewares globaux (SAUF pour WebSocket)
	router.Use(middleware.Logging(slackService))
	router.Use(middleware.CORS(cfg.CORSOrigins))

	// Créer les repositories partagés
	userRepo := database.NewUserRepository(db)
	chatRepo := database.NewChatRepository(db)

	// Initialiser le hub WebSocket pour le chat
	wsHub := websocket.NewHub(userRepo, chatRepo)
	go wsHub.Run()
	log.Println("✓ Hub WebSocket initialisé et en cours d'exécution")

	// Créer les handlers
	healthHandler := handlers.NewHealthHandler(cfg.Environment, db)
	authHandler := handlers.NewAuthHandler(db, cfg.JWTSecret)
	adminHandler := handlers.NewAdminHandler(db)
	eventHandler := handlers.NewEventHandler(db, fcmService)
	eventRegistrationHandler := handlers.NewEventRegistrationHandler(db, cfg.PublicBaseURL)
	registrationHandler := handlers.NewRegistrationHandler(db, paymentService, emailSender)
	paymentHandler := handlers.NewPaymentHandler(db, emailSender, cfg.StripeWebhookSecret)
	articleHandler := handlers.NewArticleHandler(db)
	jobHandler := handlers.NewJobHandler(db)
	courseHandler := handlers.NewCourseHandler(db)
	chatHandler := handlers.NewChatHandler(db, wsHub, fcmService)
	fcmHandler := handlers.NewFCMHandler(db, fcmService)
	notificationHandler := handlers.NewNotificationHandler(
		db,
		cfg.VAPIDPublicKey,
		cfg.VAPIDPrivateKey,
		cfg.VAPIDSubject,
	)
	wsHandler := websocket.NewHandler(wsHub, cfg.JWTSecret)

	// Middleware Guest pour empêcher l'accès si déjà connecté
	guestMiddleware := middleware.Guest(cfg.JWTSecret)

	// OptionalAuth : l'inscription publique reconnaît les adhérents connectés
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret)

	// Routes d'authentification (refusent les utilisateurs déjà connectés)
	router.Handle("/api/inscription", guestMiddleware(http.HandlerFunc(authHandler.Register))).Methods("POST", "OPTIONS")
	router.Handle("/api/connexion", guestMiddleware(http.HandlerFunc(authHandler.Login))).Methods("POST", "OPTIONS")
	router.Handle("/api/auth/register", guestMiddleware(http.HandlerFunc(authHandler.Register))).Methods("POST", "OPTIONS")
	router.Handle("/api/auth/login", guestMiddleware(http.HandlerFunc(authHandler.Login))).Methods("POST", "OPTIONS")

	// Route de santé (health check)
	router.HandleFunc("/api/health", healthHandler.Health).Methods("GET", "OPTIONS")

	// Routes publiques des événements
	router.HandleFunc("/api/evenements/public", eventHandler.GetPublicEvents).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/evenements/bandeau", eventHandler.GetBannerEvents).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/evenements/{event_id}", eventHandler.GetPublicEvent).Methods("GET", "OPTIONS")

	// Page publique d'une offre d'inscription
	router.HandleFunc("/api/event-registration/{registration_id}", eventRegistrationHandler.GetPublicEventRegistration).Methods("GET", "OPTIONS")

	// Inscription publique à une offre (les adhérents connectés sont reconnus)
	router.Handle("/api/registrations", optionalAuth(http.HandlerFunc(registrationHandler.CreateRegistration))).Methods("POST", "OPTIONS")

	// Webhook Stripe (authentifié par signature, PAS par JWT)
	router.HandleFunc("/api/stripe/webhook", paymentHandler.StripeWebhook).Methods("POST")

	// Routes publiques des articles
	router.HandleFunc("/api/articles", articleHandler.GetPublicArticles).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/articles/{slug}", articleHandler.GetPublicArticle).Methods("GET", "OPTIONS")

	// Routes publiques des offres d'emploi
	router.HandleFunc("/api/emplois", jobHandler.GetPublicJobs).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/emplois/{job_id}", jobHandler.GetPublicJob).Methods("GET", "OPTIONS")

	// Routes de notifications webpush (publiques)
	router.HandleFunc("/api/notifications/vapid-public-key", notificationHandler.GetVAPIDPublicKey).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/notifications/subscribe", notificationHandler.Subscribe).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/notifications/unsubscribe", notificationHandler.Unsubscribe).Methods("POST", "OPTIONS")

	// Routes FCM (Firebase Cloud Messaging) - Publiques
	router.HandleFunc("/api/fcm/vapid-key", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"vapidKey": cfg.FCMVAPIDKey,
		})
	}).Methods("GET", "OPTIONS")
	router.HandleFunc("/api/fcm/subscribe", fcmHandler.Subscribe).Methods("POST", "OPTIONS")
	router.HandleFunc("/api/fcm/unsubscribe", fcmHandler.Unsubscribe).Methods("POST", "OPTIONS")

	// Routes protégées (JWT requis)
	protected := router.PathPrefix("/api").Subrouter()
	protected.Use(middleware.Auth(cfg.JWTSecret))

	protected.HandleFunc("/me", authHandler.Me).Methods("GET", "OPTIONS")
	protected.HandleFunc("/mes-inscriptions", registrationHandler.GetMyRegistrations).Methods("GET", "OPTIONS")

	// Espace formation (réservé aux adhérents connectés)
	protected.HandleFunc("/formations", courseHandler.GetCourses).Methods("GET", "OPTIONS")
	protected.HandleFunc("/formations/{course_id}", courseHandler.GetCourse).Methods("GET", "OPTIONS")
	protected.HandleFunc("/quiz/{quiz_id}", courseHandler.GetQuiz).Methods("GET", "OPTIONS")
	protected.HandleFunc("/quiz/{quiz_id}/submit", courseHandler.SubmitQuiz).Methods("POST", "OPTIONS")

	// Messagerie entre adhérents
	protected.HandleFunc("/chat/conversations", chatHandler.GetConversations).Methods("GET", "OPTIONS")
	protected.HandleFunc("/chat/conversations", chatHandler.StartConversation).Methods("POST", "OPTIONS")
	protected.HandleFunc("/chat/conversations/{conversation_id}/messages", chatHandler.GetMessages).Methods("GET", "OPTIONS")
	protected.HandleFunc("/chat/conversations/{conversation_id}/messages", chatHandler.SendMessage).Methods("POST", "OPTIONS")

	// 🔌 Route WebSocket chat (SANS middleware, le ResponseWriter ne doit pas être wrappé)
	rawRouter.HandleFunc("/ws/chat", wsHandler.ServeWS).Methods("GET")

	// Routes Admin (protégées par Auth + RequireAdmin)
	adminRouter := protected.PathPrefix("/admin").Subrouter()
	adminRouter.Use(middleware.RequireAdmin(db))

	// Gestion des adhérents
	adminRouter.HandleFunc("/utilisateurs", adminHandler.GetUsers).Methods("GET", "OPTIONS")
	adminRouter.HandleFunc("/utilisateurs/{user_id}", adminHandler.UpdateUser).Methods("PUT", "OPTIONS")
	adminRouter.HandleFunc("/utilisateurs/{user_id}", adminHandler.DeleteUser).Methods("DELETE", "OPTIONS")

	// Gestion des événements
	adminRouter.HandleFunc("/evenements", eventHandler.GetAllEvents).Methods("GET", "OPTIONS")
	adminRouter.HandleFunc("/evenements", eventHandler.CreateEvent).Methods("POST", "OPTIONS")
	adminRouter.HandleFunc("/evenements/{event_id}", eventHandler.UpdateEvent).Methods("PUT", "OPTIONS")
	adminRouter.HandleFunc("/evenements/{event_id}", eventHandler.DeleteEvent).Methods("DELETE", "OPTIONS")

	// Offres d'inscription aux événements
	adminRouter.HandleFunc("/event-registrations", eventRegistrationHandler.GetEventRegistrations).Methods("GET", "OPTIONS")
	adminRouter.HandleFunc("/event-registrations", eventRegistrationHandler.CreateEventRegistration).Methods("POST", "OPTIONS")
	adminRouter.HandleFunc("/event-registrations/{registration_id}", eventRegistrationHandler.GetEventRegistration).Methods("GET", "OPTIONS")
	adminRouter.HandleFunc("/event-registrations/{registration_id}", eventRegistrationHandler.UpdateEventRegistration).Methods("PUT", "OPTIONS")
	adminRouter.HandleFunc("/event-registrations/{registration_id}", eventRegistrationHandler.DeleteEventRegistration).Methods("DELETE", "OPTIONS")

	// Inscriptions des participants
	adminRouter.HandleFunc("/event-registrations/{registration_id}/registrations", registrationHandler.GetRegistrations).Methods("GET", "OPTIONS")
	adminRouter.HandleFunc("/registrations/payment-status", registrationHandler.UpdatePaymentStatus).Methods("PUT", "OPTIONS")
	adminRouter.HandleFunc("/registrations/{registration_id}/notes", registrationHandler.UpdateAdminNotes).Methods("PUT", "OPTIONS")
	adminRouter.HandleFunc("/registrations/send-confirmation", registrationHandler.SendConfirmation).Methods("POST", "OPTIONS")
	adminRouter.HandleFunc("/registrations/send-reminders", registrationHandler.SendReminders).Methods("POST", "OPTIONS")

	// Gestion des articles
	adminRouter.HandleFunc("/articles", articleHandler.GetAllArticles).Methods("GET", "OPTIONS")
	adminRouter.HandleFunc("/articles", articleHandler.CreateArticle).Methods("POST", "OPTIONS")
	adminRouter.HandleFunc("/articles/{article_id}", articleHandler.UpdateArticle).Methods("PUT", "OPTIONS")
	adminRouter.HandleFunc("/articles/{article_id}", articleHandler.DeleteArticle).Methods("DELETE", "OPTIONS")

	// Gestion des offres d'emploi
	adminRouter.HandleFunc("/emplois", jobHandler.GetAllJobs).Methods("GET", "OPTIONS")
	adminRouter.HandleFunc("/emplois", jobHandler.CreateJob).Methods("POST", "OPTIONS")
	adminRouter.HandleFunc("/emplois/{job_id}", jobHandler.UpdateJob).Methods("PUT", "OPTIONS")
	adminRouter.HandleFunc("/emplois/{job_id}", jobHandler.DeleteJob).Methods("DELETE", "OPTIONS")

	// Gestion des formations et quiz
	adminRouter.HandleFunc("/formations", courseHandler.CreateCourse).Methods("POST", "OPTIONS")
	adminRouter.HandleFunc("/formations/{course_id}", courseHandler.UpdateCourse).Methods("PUT", "OPTIONS")
	adminRouter.HandleFunc("/formations/{course_id}", courseHandler.DeleteCourse).Methods("DELETE", "OPTIONS")
	adminRouter.HandleFunc("/formations/{course_id}/quiz/import", courseHandler.ImportQuiz).Methods("POST", "OPTIONS")
	adminRouter.HandleFunc("/quiz/{quiz_id}", courseHandler.DeleteQuiz).Methods("DELETE", "OPTIONS")

	// Statistiques
	adminRouter.HandleFunc("/stats", adminHandler.GetStats).Methods("GET", "OPTIONS")

	// Notifications admin
	adminRouter.HandleFunc("/fcm/send", fcmHandler.SendNotification).Methods("POST", "OPTIONS")
	adminRouter.HandleFunc("/notifications/send", notificationHandler.SendNotification).Methods("POST", "OPTIONS")

	// Multiplexeur : la route WebSocket contourne les middlewares
	mainHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/ws/chat" {
			rawRouter.ServeHTTP(w, r)
		} else {
			router.ServeHTTP(w, r)
		}
	})

	// Démarrer le serveur
	addr := fmt.Sprintf("%s:%s", cfg.Host, cfg.Port)
	server := &http.Server{
		Addr:    addr,
		Handler: mainHandler,
	}

	go func() {
		log.Printf("🚀 Serveur démarré sur http://%s", addr)
		log.Printf("📝 Environnement: %s", cfg.Environment)
		log.Printf("🗄️  Base de données: MongoDB (%s)", cfg.MongoDB)
		log.Println("✨ Le serveur est prêt à recevoir des requêtes!")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Erreur du serveur: %v", err)
		}
	}()

	// Attendre le signal d'arrêt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Arrêt du serveur...")

	wsHub.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Erreur lors de l'arrêt du serveur: %v", err)
	}

	log.Println("✓ Serveur arrêté proprement")
}
