package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/axellelanca/creatorverse/cmd"
	"github.com/axellelanca/creatorverse/internal/api"
	"github.com/axellelanca/creatorverse/internal/forms"
	"github.com/axellelanca/creatorverse/internal/monitor"
	"github.com/axellelanca/creatorverse/internal/repository"
	"github.com/axellelanca/creatorverse/internal/services"
	"github.com/axellelanca/creatorverse/internal/store"
)

// RunServerCmd représente la commande 'run-server' de Cobra.
// C'est le point d'entrée pour lancer le serveur de l'application.
var RunServerCmd = &cobra.Command{
	Use:   "run-server",
	Short: "Lance le serveur du catalogue de créateurs et le moniteur de liens.",
	Long: `Cette commande ouvre le record store configuré, crée la table creators si besoin,
démarre le moniteur de liens des créateurs, puis lance le serveur HTTP.`,
	RunE: func(c *cobra.Command, args []string) error {
		cfg := cmd.Cfg
		logger := cmd.Logger

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		// Ouvrir le record store
		backend, err := store.Open(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("échec de l'ouverture du record store : %w", err)
		}
		defer backend.Close()

		if err := backend.Migrate(ctx); err != nil {
			return fmt.Errorf("échec de la migration : %w", err)
		}

		// Repositories et services
		creatorService := services.NewCreatorService(repository.NewCreatorRepository(backend))
		logger.Info().Msg("Services métiers initialisés.")

		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		// Moniteur de liens
		if cfg.Monitor.Enabled {
			urlMonitor := monitor.NewUrlMonitor(
				creatorService,
				time.Duration(cfg.Monitor.IntervalMinutes)*time.Minute,
				cfg.Monitor.WorkerCount,
				time.Duration(cfg.Monitor.RequestTimeoutSeconds)*time.Second,
				logger,
			)
			defer urlMonitor.Close()
			go urlMonitor.Start(ctx)
		}

		// Routeur Gin
		gin.SetMode(gin.ReleaseMode)
		router, err := api.NewRouter(api.Dependencies{
			Store:    backend,
			Creators: creatorService,
			Metrics:  forms.NewMetrics(registry),
			Gatherer: registry,
			Logger:   logger,
		})
		if err != nil {
			return fmt.Errorf("échec du chargement des templates : %w", err)
		}

		serverAddr := fmt.Sprintf(":%d", cfg.Server.Port)
		srv := &http.Server{
			Addr:    serverAddr,
			Handler: router,
		}

		serveErr := make(chan error, 1)
		go func() {
			logger.Info().Str("addr", serverAddr).Msg("Démarrage du serveur")
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				serveErr <- err
			}
			close(serveErr)
		}()

		// Attendre Ctrl+C, un signal d'arrêt ou l'échec du serveur.
		select {
		case err := <-serveErr:
			if err != nil {
				return fmt.Errorf("échec du démarrage du serveur : %w", err)
			}
		case <-ctx.Done():
		}
		logger.Info().Msg("Signal d'arrêt reçu. Arrêt du serveur...")

		// Arrêt propre du serveur HTTP avec un timeout.
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("arrêt forcé du serveur")
			return err
		}

		logger.Info().Msg("Serveur arrêté proprement.")
		return nil
	},
}

func init() {
	cmd.RootCmd.AddCommand(RunServerCmd)
}
