// seedadmin ensures the department admin test accounts exist. Safe to re-run:
// existing credentials are kept, profiles are merged.
package main

import (
	"context"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/WalesndWebs/project-prodigyloan/internal/config"
	"github.com/WalesndWebs/project-prodigyloan/internal/domain"
	"github.com/WalesndWebs/project-prodigyloan/internal/log"
	"github.com/WalesndWebs/project-prodigyloan/internal/repo"
	"github.com/WalesndWebs/project-prodigyloan/internal/security"
)

type testAccount struct {
	email      string
	fullName   string
	department domain.Department
}

var accounts = []testAccount{
	{"admin.dashboard@loanapp.com", "Admin - Dashboard", domain.DepartmentDashboard},
	{"admin.users@loanapp.com", "Admin - Users", domain.DepartmentUsers},
	{"admin.loans@loanapp.com", "Admin - Loans", domain.DepartmentLoans},
	{"admin.business@loanapp.com", "Admin - Business", domain.DepartmentBusiness},
	{"admin.cs@loanapp.com", "Admin - Customer Service", domain.DepartmentCustomer},
	{"admin.risk@loanapp.com", "Admin - Risk Management", domain.DepartmentRisk},
	{"admin.compliance@loanapp.com", "Admin - Compliance", domain.DepartmentComply},
	{"admin.tech@loanapp.com", "Admin - Technical Support", domain.DepartmentTech},
	{"admin.invites@loanapp.com", "Admin - Invites", domain.DepartmentInvites},
}

func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Prod)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	password := os.Getenv("TEST_ADMIN_PASSWORD")
	if password == "" {
		password = "Admin#2025!"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	store, err := repo.NewStore(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		logger.Fatal("mongo connect", zap.Error(err))
	}
	defer store.Close(context.Background())

	if err := store.EnsureIndexes(ctx); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}

	for _, acc := range accounts {
		if err := ensure(ctx, store, acc, password); err != nil {
			logger.Fatal("seed failed", zap.String("email", acc.email), zap.Error(err))
		}
		logger.Info("ready", zap.String("email", acc.email), zap.String("department", string(acc.department)))
	}
}

func ensure(ctx context.Context, store *repo.Store, acc testAccount, password string) error {
	cred, err := store.FindCredentialByEmail(ctx, acc.email)
	if err != nil {
		return err
	}
	if cred == nil {
		hash, err := security.HashPassword(password)
		if err != nil {
			return err
		}
		cred = &repo.Credential{ID: uuid.NewString(), Email: acc.email, PasswordHash: hash}
		if err := store.CreateCredential(ctx, cred); err != nil {
			return err
		}
	}

	return store.UpsertProfile(ctx, &domain.Profile{
		ID:         cred.ID,
		Email:      acc.email,
		FullName:   acc.fullName,
		Role:       domain.RoleAdmin,
		Department: acc.department,
	})
}
