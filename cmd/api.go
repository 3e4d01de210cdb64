package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"

	"github.com/opulencedeveloper/hotelsuite/internal/api"
	"github.com/opulencedeveloper/hotelsuite/internal/billing"
	"github.com/opulencedeveloper/hotelsuite/internal/billing/flutterwave"
	"github.com/opulencedeveloper/hotelsuite/internal/config"
	"github.com/opulencedeveloper/hotelsuite/internal/database"
	"github.com/opulencedeveloper/hotelsuite/internal/license"
	"github.com/opulencedeveloper/hotelsuite/internal/plans"
)

// APICommand returns the CLI command for starting the API server
func APICommand() *cli.Command {
	return &cli.Command{
		Name:  "api",
		Usage: "Start the HotelSuite API server",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port for the API server (overrides config)",
			},
		},
		Action: runAPI,
	}
}

func runAPI(c *cli.Context) error {
	cfg, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	port := cfg.Server.Port
	if c.IsSet("port") {
		port = c.Int("port")
	}

	dbURL, err := database.ResolveURL(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to resolve database URL: %w", err)
	}

	db, err := database.NewDB(dbURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	currencies := billing.NewCurrencyTable(
		cfg.Billing.SupportedCurrencies,
		cfg.Billing.ZeroDecimalCurrencies,
	)

	gateway := flutterwave.NewClient(flutterwave.Config{
		BaseURL:         cfg.Flutterwave.BaseURL,
		SecretKey:       cfg.Flutterwave.SecretKey,
		RateTimeout:     cfg.RateTimeout(),
		LinkTimeout:     cfg.LinkTimeout(),
		RedirectURL:     cfg.Flutterwave.RedirectURL,
		CheckoutTitle:   cfg.Flutterwave.CheckoutTitle,
		CheckoutLogoURL: cfg.Flutterwave.CheckoutLogoURL,
	})

	planStore := plans.NewStore(db)
	licenseStore := license.NewStore(db)
	service := billing.NewService(planStore, licenseStore, gateway, currencies)

	sweeper, err := license.NewSweeper(dbURL, licenseStore, cfg.PendingLicenseTTL(), cfg.SweepInterval())
	if err != nil {
		return fmt.Errorf("failed to create license sweeper: %w", err)
	}
	if err := sweeper.Start(context.Background()); err != nil {
		return fmt.Errorf("failed to start license sweeper: %w", err)
	}
	defer func() {
		stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := sweeper.Stop(stopCtx); err != nil {
			log.Error().Err(err).Msg("Failed to stop license sweeper")
		}
	}()

	log.Info().Int("port", port).Msg("Starting HotelSuite API server")

	handler := api.NewPaymentHandler(service, planStore)
	server := api.NewServer(port, handler)
	return server.Start()
}
