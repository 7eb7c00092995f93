package repo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/WalesndWebs/project-prodigyloan/internal/domain"
)

func (s *Store) ListLoanProducts(ctx context.Context) ([]domain.LoanProduct, error) {
	cur, err := s.DB.Collection("loan_products").Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []domain.LoanProduct
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CreateLoanApplication(ctx context.Context, app *domain.LoanApplication) error {
	now := time.Now().UTC()
	app.Status = domain.LoanPending
	app.CreatedAt = now
	app.UpdatedAt = now
	_, err := s.DB.Collection("loan_applications").InsertOne(ctx, app)
	return err
}

func (s *Store) ListLoanApplications(ctx context.Context, userID string) ([]domain.LoanApplication, error) {
	filter := bson.M{}
	if userID != "" {
		filter["user_id"] = userID
	}
	cur, err := s.DB.Collection("loan_applications").Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []domain.LoanApplication
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) LoanApplicationByID(ctx context.Context, id string) (*domain.LoanApplication, error) {
	var app domain.LoanApplication
	err := s.DB.Collection("loan_applications").FindOne(ctx, bson.M{"_id": id}).Decode(&app)
	if err == mongo.ErrNoDocuments {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// UpdateLoanStatus moves an application to status, but only from one of the
// statuses the progression allows. The current status sits in the update
// filter, so a concurrent second disbursement matches nothing.
func (s *Store) UpdateLoanStatus(ctx context.Context, id string, status domain.LoanStatus) error {
	froms := domain.LoanStatusPrecursors(status)
	if len(froms) == 0 {
		return domain.ErrBadTransition
	}
	res, err := s.DB.Collection("loan_applications").UpdateOne(ctx,
		bson.M{"_id": id, "status": bson.M{"$in": froms}},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		if _, err := s.LoanApplicationByID(ctx, id); err != nil {
			return err
		}
		return domain.ErrBadTransition
	}
	return nil
}

func (s *Store) ListInvestmentProducts(ctx context.Context) ([]domain.InvestmentProduct, error) {
	cur, err := s.DB.Collection("investment_products").Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []domain.InvestmentProduct
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CreateInvestment(ctx context.Context, inv *domain.Investment) error {
	inv.Status = domain.InvestmentActive
	inv.CreatedAt = time.Now().UTC()
	_, err := s.DB.Collection("investments").InsertOne(ctx, inv)
	return err
}

func (s *Store) ListInvestments(ctx context.Context, userID string) ([]domain.Investment, error) {
	cur, err := s.DB.Collection("investments").Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []domain.Investment
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CreateTransaction(ctx context.Context, tx *domain.Transaction) error {
	tx.CreatedAt = time.Now().UTC()
	_, err := s.DB.Collection("transactions").InsertOne(ctx, tx)
	return err
}

func (s *Store) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	cur, err := s.DB.Collection("transactions").Find(ctx, bson.M{"user_id": userID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []domain.Transaction
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
