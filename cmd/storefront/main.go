// Command storefront is a terminal client for the Shopifyr backend:
// browse the catalog, manage the cart and wishlist, check out, and
// track orders.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/alienx5499/Shopifyr/internal/api"
	"github.com/alienx5499/Shopifyr/internal/cart"
	"github.com/alienx5499/Shopifyr/internal/config"
	"github.com/alienx5499/Shopifyr/internal/nav"
	"github.com/alienx5499/Shopifyr/internal/notify"
	"github.com/alienx5499/Shopifyr/internal/optimistic"
	"github.com/alienx5499/Shopifyr/internal/session"
)

type app struct {
	cfg       *config.Config
	log       zerolog.Logger
	nav       *nav.Tracker
	sessions  *session.Store
	client    *api.Client
	notifier  notify.Notifier
	syncer    *cart.Syncer
	mutations *optimistic.Coordinator
}

func newApp(cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	level, errLevel := zerolog.ParseLevel(cfg.LogLevel)
	if errLevel != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()

	storage, err := session.OpenFileStorage(cfg.SessionFile())
	if err != nil {
		return nil, err
	}

	tracker := nav.NewTracker(nav.RouteCatalog)
	sessions := session.NewStore(storage, tracker, logger)
	sessions.Initialize()

	client := api.New(api.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.RequestTimeout,
		Tokens:  sessions,
		Session: sessions,
		Logger:  logger,
	})

	notifier := notify.NewLogNotifier(logger)
	syncer := cart.NewSyncer(client, sessions, notifier, logger)
	sessions.Subscribe(func(e session.Event) {
		if e == session.EventLogout {
			syncer.Reset()
		}
	})

	return &app{
		cfg:       cfg,
		log:       logger,
		nav:       tracker,
		sessions:  sessions,
		client:    client,
		notifier:  notifier,
		syncer:    syncer,
		mutations: optimistic.NewCoordinator(notifier, logger),
	}, nil
}

func newRootCmd() *cobra.Command {
	var cfgPath string
	var a *app

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Terminal client for the Shopifyr store",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			a, err = newApp(cfgPath)
			return err
		},
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", "", "path to a YAML config file")

	root.AddCommand(
		newLoginCmd(&a),
		newRegisterCmd(&a),
		newLogoutCmd(&a),
		newProductsCmd(&a),
		newProductCmd(&a),
		newCartCmd(&a),
		newCheckoutCmd(&a),
		newOrdersCmd(&a),
		newOrderCmd(&a),
		newProfileCmd(&a),
		newWishlistCmd(&a),
	)
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
