// Package main provides the seed CLI that loads the policy catalogue and
// serial number stock into the submission database.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"submission-service/internal/config"
	"submission-service/internal/database/postgres"
	"submission-service/internal/models"
	"submission-service/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "seed",
		Short:         "Seed reference data for the submission service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newPoliciesCmd())
	rootCmd.AddCommand(newSerialsCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func connect() (*sqlx.DB, error) {
	cfg := config.New()
	db, err := postgres.ConnectAndCreateDB(cfg.PostgresCfg)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

// ============================================================================
// POLICIES
// ============================================================================

func newPoliciesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "policies",
		Short: "Register the default policy catalogue",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := connect()
			if err != nil {
				return err
			}
			defer db.Close()
			return seedPolicies(cmd.Context(), repository.NewPolicyRepository(db))
		},
	}
}

type policyUpserter interface {
	Upsert(ctx context.Context, policy models.Policy) (bool, error)
}

func defaultPolicies() []models.Policy {
	system := []string{"Allianz Well", "AZpire Growth", "Single Pay/Optimal"}
	manual := []string{"Eazy Health", "Allianz Fundamental Cover", "Allianz Secure Pro"}

	policies := make([]models.Policy, 0, len(system)+len(manual))
	for _, name := range system {
		policies = append(policies, models.Policy{Name: name, Type: name, Category: models.PolicyCategorySystem})
	}
	for _, name := range manual {
		policies = append(policies, models.Policy{Name: name, Type: name, Category: models.PolicyCategoryManual})
	}
	return policies
}

func seedPolicies(ctx context.Context, repo policyUpserter) error {
	added := 0
	for _, policy := range defaultPolicies() {
		ok, err := repo.Upsert(ctx, policy)
		if err != nil {
			return err
		}
		if ok {
			added++
		}
	}
	slog.Info("Seed: policies", "added", added, "total", len(defaultPolicies()))
	return nil
}

// ============================================================================
// SERIALS
// ============================================================================

func newSerialsCmd() *cobra.Command {
	var (
		pool  string
		start int
		count int
	)

	cmd := &cobra.Command{
		Use:   "serials",
		Short: "Generate a consecutive block of serial numbers",
		Long: `Generate --count consecutive serial numbers for a pool. Without --start
the block begins at 50000001 for Allianz Well and 20000001 otherwise.
Serials that already exist are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			serialPool := models.SerialPool(pool)
			if serialPool != models.PoolDefault && serialPool != models.PoolAllianzWell {
				return fmt.Errorf("pool must be %q or %q", models.PoolDefault, models.PoolAllianzWell)
			}
			if count <= 0 {
				return fmt.Errorf("count must be positive")
			}
			if start == 0 {
				start = defaultSerialStart(serialPool)
			}

			db, err := connect()
			if err != nil {
				return err
			}
			defer db.Close()

			values := generateSerials(start, count)
			inserted, err := repository.NewSerialRepository(db).InsertIgnoringDuplicates(cmd.Context(), values, serialPool)
			if err != nil {
				return err
			}
			slog.Info("Seed: serials", "pool", serialPool, "from", values[0], "to", values[len(values)-1], "inserted", inserted)
			return nil
		},
	}

	cmd.Flags().StringVar(&pool, "pool", string(models.PoolDefault), "Serial pool (Default or Allianz Well)")
	cmd.Flags().IntVar(&start, "start", 0, "First serial number of the block")
	cmd.Flags().IntVar(&count, "count", 100, "Number of serials to generate")

	return cmd
}

func defaultSerialStart(pool models.SerialPool) int {
	if pool == models.PoolAllianzWell {
		return 50000001
	}
	return 20000001
}

func generateSerials(start, count int) []string {
	values := make([]string, count)
	for i := range values {
		values[i] = strconv.Itoa(start + i)
	}
	return values
}
