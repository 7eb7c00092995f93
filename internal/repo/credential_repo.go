package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Credential is the identity-provider side of a user: the record that holds
// the password hash. Profile rows live in a separate collection keyed by the
// same ID.
type Credential struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (s *Store) EnsureCredentialIndexes(ctx context.Context) error {
	_, err := s.DB.Collection("credentials").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *Store) CreateCredential(ctx context.Context, c *Credential) error {
	c.CreatedAt = time.Now().UTC()
	_, err := s.DB.Collection("credentials").InsertOne(ctx, c)
	return err
}

func (s *Store) FindCredentialByEmail(ctx context.Context, email string) (*Credential, error) {
	var c Credential
	err := s.DB.Collection("credentials").FindOne(ctx, bson.M{"email": email}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) FindCredentialByID(ctx context.Context, id string) (*Credential, error) {
	var c Credential
	err := s.DB.Collection("credentials").FindOne(ctx, bson.M{"_id": id}).Decode(&c)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *Store) UpdateCredentialPassword(ctx context.Context, id, hash string) error {
	_, err := s.DB.Collection("credentials").
		UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"password_hash": hash}})
	return err
}
