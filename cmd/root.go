package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/gss/competition-registration/pkg/api"
	"github.com/gss/competition-registration/pkg/clients/competition"
	"github.com/gss/competition-registration/pkg/clipboard"
	"github.com/gss/competition-registration/pkg/config"
	"github.com/gss/competition-registration/pkg/logger"
	"github.com/gss/competition-registration/pkg/services"
	"github.com/gss/competition-registration/pkg/session"
	"github.com/gss/competition-registration/pkg/workflow"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "competition",
	Short: "Registration page for the GSS Eco News Competition",
	Long: `Serves the competition registration form. Registrants receive a referral
link to share, and the leaderboard ranks referrers by sign-ups.`,
	SilenceUsage: true,
	RunE:         runServer,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "",
		"config file (default: ./config.yaml or ./config/config.yaml)")
	rootCmd.Flags().StringP("port", "p", "", "port to listen on (overrides APP_PORT)")
	rootCmd.Flags().String("api", "", "competition backend base url (overrides API_BASE_URL)")

	_ = viper.BindPFlag("APP_PORT", rootCmd.Flags().Lookup("port"))
	_ = viper.BindPFlag("API_BASE_URL", rootCmd.Flags().Lookup("api"))
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// app bundles what every command needs
type app struct {
	cfg          *config.Config
	logger       *zap.Logger
	registration services.RegistrationService
	leaderboard  services.LeaderboardService
}

func newApp() (*app, error) {
	cfg, err := config.LoadConfig(viper.GetViper(), cfgFile)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error building logger: %w", err)
	}
	zap.ReplaceGlobals(log)

	client := competition.NewClient(cfg.APIBaseURL, cfg.RequestTimeout, log.Named("backend"))
	return &app{
		cfg:          cfg,
		logger:       log,
		registration: services.NewRegistrationService(client, log.Named("registration")),
		leaderboard:  services.NewLeaderboardService(client, log.Named("leaderboard")),
	}, nil
}

func runServer(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.logger.Sync() //nolint:errcheck

	if a.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	reporter := logger.NewReporter(a.logger.Named("workflow"))
	newWorkflow := func(clip workflow.Clipboard) *workflow.Workflow {
		return workflow.New(a.registration, a.leaderboard,
			workflow.WithClipboard(clip),
			workflow.WithReporter(reporter),
		)
	}

	var sessions *session.Store
	if a.cfg.ClipboardMode == clipboard.ModeSystem {
		sessions = session.NewStore(a.cfg.SessionTTL, newWorkflow, clipboard.System{}, a.logger.Named("session"))
	} else {
		sessions = session.NewStore(a.cfg.SessionTTL, newWorkflow, nil, a.logger.Named("session"))
	}

	router := api.NewRouter(api.RouterConfig{
		Sessions:          sessions,
		PublicURL:         a.cfg.PublicURL,
		SecureCookies:     a.cfg.IsProduction(),
		AllowedOrigins:    a.cfg.AllowedOrigins,
		MaxRequestsPerMin: a.cfg.MaxRequestsPerMin,
		Logger:            a.logger,
	})

	srv := &http.Server{
		Addr:              ":" + a.cfg.AppPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("server starting",
			zap.String("addr", srv.Addr),
			zap.String("backend", a.cfg.APIBaseURL),
			zap.String("clipboard", a.cfg.ClipboardMode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-quit:
	}

	a.logger.Info("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), a.cfg.RequestTimeout+5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	a.logger.Info("server stopped")
	return nil
}
