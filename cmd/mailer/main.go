// mailer consumes loan.applied events and sends the application-received
// notification to the loans desk.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/WalesndWebs/project-prodigyloan/internal/config"
	"github.com/WalesndWebs/project-prodigyloan/internal/log"
	"github.com/WalesndWebs/project-prodigyloan/internal/mail"
	"github.com/WalesndWebs/project-prodigyloan/internal/queue"
)

const loansDesk = "loans@loanapp.com"

func main() {
	cfg := config.Load()

	logger, err := log.Init(cfg.Prod)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	if cfg.RabbitURL == "" {
		logger.Fatal("RABBIT_URL is required")
	}

	consumer, err := queue.NewConsumer(cfg.RabbitURL, cfg.EventsExchange,
		"mailer.loan-applied", queue.KeyLoanApplied)
	if err != nil {
		logger.Fatal("rabbit connect", zap.Error(err))
	}
	defer consumer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sender := &mail.Sender{}
	logger.Info("mailer consuming", zap.String("key", queue.KeyLoanApplied))

	err = consumer.Consume(ctx, 4, func(body []byte) error {
		var ev queue.LoanApplied
		if err := json.Unmarshal(body, &ev); err != nil {
			logger.Error("bad loan.applied payload", zap.Error(err))
			return nil // drop, a requeue will never parse either
		}
		return sender.SendLoanApplied(loansDesk, ev)
	})
	if err != nil {
		logger.Error("consumer stopped", zap.Error(err))
	}
}
