package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/WalesndWebs/project-prodigyloan/internal/domain"
)

func (s *Store) EnsureInviteIndexes(ctx context.Context) error {
	coll := s.DB.Collection("admin_invites")
	// expired invites age out of the collection on their own
	if _, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}); err != nil {
		return err
	}
	_, err := coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "token", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (s *Store) CreateInvite(ctx context.Context, inv *domain.AdminInvite) error {
	inv.CreatedAt = time.Now().UTC()
	inv.ExpiresAt = inv.CreatedAt.Add(domain.InviteTTL)
	_, err := s.DB.Collection("admin_invites").InsertOne(ctx, inv)
	return err
}

func (s *Store) ListInvites(ctx context.Context) ([]domain.AdminInvite, error) {
	cur, err := s.DB.Collection("admin_invites").Find(ctx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []domain.AdminInvite
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) DeleteInvite(ctx context.Context, id string) error {
	res, err := s.DB.Collection("admin_invites").DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (s *Store) FindInviteByToken(ctx context.Context, token string) (*domain.AdminInvite, error) {
	var inv domain.AdminInvite
	err := s.DB.Collection("admin_invites").FindOne(ctx, bson.M{"token": token}).Decode(&inv)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ConsumeInvite atomically marks an unexpired, unused invite as used and
// returns it. The filter binds the invited email, so a token presented with
// the wrong email fails without burning the invite. At most one caller can
// win; everyone else gets ErrInviteInvalid.
func (s *Store) ConsumeInvite(ctx context.Context, token, email string) (*domain.AdminInvite, error) {
	now := time.Now().UTC()
	res := s.DB.Collection("admin_invites").FindOneAndUpdate(
		ctx,
		bson.M{"token": token, "email": email, "used": false, "expires_at": bson.M{"$gt": now}},
		bson.M{"$set": bson.M{"used": true, "used_at": now}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)
	var inv domain.AdminInvite
	if err := res.Decode(&inv); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, domain.ErrInviteInvalid
		}
		return nil, err
	}
	return &inv, nil
}

// ReleaseInvite puts a consumed invite back into circulation. Used when the
// signup that consumed it could not complete, so the invitee can retry.
func (s *Store) ReleaseInvite(ctx context.Context, id string) error {
	_, err := s.DB.Collection("admin_invites").UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"used": false}, "$unset": bson.M{"used_at": ""}})
	return err
}
