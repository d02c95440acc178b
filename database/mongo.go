package database

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names in the tracking document store.
const (
	CollUserSessions   = "user_sessions"
	CollUserActivities = "user_activities"
	CollUserSettings   = "user_settings"
)

type MongoClient struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// NewMongoDB connects to the document store backing session and activity
// tracking.
func NewMongoDB() (*MongoClient, error) {
	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		log.Println("MONGO_URI environment variable not set. Using default for local development.")
		uri = "mongodb://localhost:27017"
	}

	dbName := os.Getenv("MONGO_DB_NAME")
	if dbName == "" {
		dbName = "terravista"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	log.Printf("Successfully connected to MongoDB document store (db=%s)!", dbName)
	return &MongoClient{Client: client, DB: client.Database(dbName)}, nil
}

func (c *MongoClient) Close() {
	if c.Client != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.Client.Disconnect(ctx); err != nil {
			log.Printf("Error closing MongoDB connection: %v", err)
		} else {
			log.Println("MongoDB connection closed.")
		}
	}
}
