package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Connect établit la connexion à MongoDB et retourne la base de données.
// Le handle est injecté dans les handlers et services : aucun état de
// connexion n'est conservé au niveau du package.
func Connect(uri, dbName string) (*mongo.Database, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("erreur lors de la connexion à MongoDB: %w", err)
	}

	// Vérifier la connexion
	if err = client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("erreur lors du ping MongoDB: %w", err)
	}

	db := client.Database(dbName)

	log.Println("✓ Connexion à MongoDB établie")

	if err = createIndexes(db); err != nil {
		return nil, fmt.Errorf("erreur lors de la création des index: %w", err)
	}

	return db, nil
}

// Ping vérifie que la connexion MongoDB est active
func Ping(db *mongo.Database) error {
	if db == nil {
		return fmt.Errorf("base de données non initialisée")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return db.Client().Ping(ctx, nil)
}

// Close ferme la connexion à la base de données
func Close(db *mongo.Database) error {
	if db == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return db.Client().Disconnect(ctx)
}

// createIndexes crée les index nécessaires
func createIndexes(db *mongo.Database) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Index unique sur l'email des adhérents
	_, err := db.Collection("users").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("erreur lors de la création de l'index email: %w", err)
	}

	// Index pour le comptage en direct des participants
	// (filtre systématique offre + statut de paiement)
	_, err = db.Collection("registrations").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "event_registration_id", Value: 1},
			{Key: "payment_status", Value: 1},
		},
	})
	if err != nil {
		return fmt.Errorf("erreur lors de la création de l'index inscriptions: %w", err)
	}

	// Index unique sur le slug des articles du blog
	_, err = db.Collection("articles").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "slug", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("erreur lors de la création de l'index slug: %w", err)
	}

	log.Println("✓ Index MongoDB créés")
	return nil
}
