// Command cleanup-payments hard-deletes PENDING payments of named users in one academy.
//
//	cleanup-payments -academy global-jiu-jitsu -users "Agustin,Lucia"
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"academy-service/internal/config"
	"academy-service/internal/db"
	"academy-service/internal/repository/postgres"
	"academy-service/internal/service/maintenance"
	"academy-service/internal/service/tenant"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	academySlug := flag.String("academy", "", "academy slug")
	users := flag.String("users", "", "comma separated user names")
	timeout := flag.Duration("timeout", time.Minute, "overall deadline")
	flag.Parse()

	_ = godotenv.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to create logger: %v", err)
	}
	defer logger.Sync()

	if err := run(*academySlug, strings.Split(*users, ","), *timeout, logger); err != nil {
		logger.Error("payment cleanup failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(academySlug string, names []string, timeout time.Duration, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := config.Load()
	pool, err := db.ConnectDB(ctx, db.PostgresConfig{URL: cfg.DatabaseURL, MaxConns: 2})
	if err != nil {
		return err
	}
	defer pool.Close()

	svc := maintenance.NewService(
		postgres.NewDB(pool),
		tenant.NewService(postgres.NewAcademyRepository(pool), logger),
		postgres.NewUserRepository(pool),
		postgres.NewMembershipRepository(pool),
		postgres.NewPaymentRepository(pool),
		logger,
	)

	report, err := svc.CleanupPendingPayments(ctx, academySlug, names)
	if err != nil {
		return err
	}

	for name, n := range report.PerUser {
		fmt.Printf("%s: %d pending payment(s) deleted\n", name, n)
	}
	for _, name := range report.Unmatched {
		fmt.Printf("%s: no such user in %s\n", name, academySlug)
	}
	fmt.Printf("total deleted: %d\n", report.Deleted)
	return nil
}
