package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/WalesndWebs/project-prodigyloan/internal/domain"
)

func (s *Store) ProfileByID(ctx context.Context, id string) (*domain.Profile, error) {
	var p domain.Profile
	err := s.DB.Collection("profiles").FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProfile writes the profile row for an identity, creating it on first
// sign-up. Sign-up and invite flows may race or retry, so this is a merge
// rather than a strict insert: created_at is only set on insert.
func (s *Store) UpsertProfile(ctx context.Context, p *domain.Profile) error {
	set := bson.M{
		"email":       p.Email,
		"role":        p.Role,
		"is_borrower": p.IsBorrower,
		"is_investor": p.IsInvestor,
	}
	if p.FullName != "" {
		set["full_name"] = p.FullName
	}
	if p.Phone != "" {
		set["phone"] = p.Phone
	}
	if p.Department != "" {
		set["department"] = p.Department
	}
	_, err := s.DB.Collection("profiles").UpdateOne(ctx,
		bson.M{"_id": p.ID},
		bson.M{
			"$set":         set,
			"$setOnInsert": bson.M{"created_at": time.Now().UTC()},
		},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *Store) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	cur, err := s.DB.Collection("profiles").Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []domain.Profile
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
