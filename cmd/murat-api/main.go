package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	openai "github.com/sashabaranov/go-openai"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/kryptomurat/backend/internal/aigen"
	"github.com/kryptomurat/backend/internal/auth"
	"github.com/kryptomurat/backend/internal/claims"
	"github.com/kryptomurat/backend/internal/config"
	"github.com/kryptomurat/backend/internal/database"
	"github.com/kryptomurat/backend/internal/logging"
	"github.com/kryptomurat/backend/internal/metaverse"
	"github.com/kryptomurat/backend/internal/server"
	"github.com/kryptomurat/backend/internal/story"
	"github.com/kryptomurat/backend/internal/streaming"
)

var (
	cfgFile string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "murat-api",
		Short: "KryptoMurat backend service",
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context())
		},
	}

	setupFlags(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setupFlags(cmd *cobra.Command) {
	config.ApplyDefaults(viper.GetViper())
	defaults := config.NewViper()
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to configuration file")
	cmd.PersistentFlags().String("http-address", defaults.GetString("http.address"), "HTTP listen address")
	cmd.PersistentFlags().String("database-path", defaults.GetString("database.path"), "SQLite database path")
	cmd.PersistentFlags().String("redis-url", defaults.GetString("redis.url"), "Redis URL for login nonces")
	cmd.PersistentFlags().String("wallet-verify-url", defaults.GetString("wallet.verify_url"), "Wallet-linking service verify endpoint")
	cmd.PersistentFlags().Int("token-ttl-minutes", defaults.GetInt("token.ttl_minutes"), "Backend token TTL in minutes")
	cmd.PersistentFlags().String("log-level", defaults.GetString("log.level"), "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("signing-secret", "", "Backend signing secret (overrides env)")
	cmd.PersistentFlags().String("openai-model", defaults.GetString("openai.model"), "Completion model for the AI generator")
	cmd.PersistentFlags().String("stream-base-url", defaults.GetString("stream.base_url"), "Playback base URL for the live stream")

	bindFlag(cmd, "http.address", "http-address")
	bindFlag(cmd, "database.path", "database-path")
	bindFlag(cmd, "redis.url", "redis-url")
	bindFlag(cmd, "wallet.verify_url", "wallet-verify-url")
	bindFlag(cmd, "token.ttl_minutes", "token-ttl-minutes")
	bindFlag(cmd, "log.level", "log-level")
	bindFlag(cmd, "auth.signing_secret", "signing-secret")
	bindFlag(cmd, "openai.model", "openai-model")
	bindFlag(cmd, "stream.base_url", "stream-base-url")
}

func bindFlag(cmd *cobra.Command, key, flag string) {
	if err := viper.BindPFlag(key, cmd.PersistentFlags().Lookup(flag)); err != nil {
		panic(err)
	}
}

func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}

	if err := viper.ReadInConfig(); err != nil {
		var configNotFound viper.ConfigFileNotFoundError
		if cfgFile != "" && errors.As(err, &configNotFound) {
			return err
		}
	}

	return nil
}

func runServer(ctx context.Context) error {
	appConfig, err := config.Load(viper.GetViper())
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(appConfig.LogLevel)
	if err != nil {
		return err
	}
	defer logger.Sync() //nolint:errcheck

	db, err := database.OpenSQLite(appConfig.DatabasePath, logger)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	catalog, err := story.DefaultCatalog()
	if err != nil {
		return err
	}

	ledger, err := story.NewLedger(story.LedgerConfig{
		Database:     db,
		StartChapter: catalog.StartID(),
		Logger:       logger,
	})
	if err != nil {
		return err
	}

	resolver, err := story.NewResolver(story.ResolverConfig{
		Catalog: catalog,
		Ledger:  ledger,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	claimService, err := claims.NewService(claims.ServiceConfig{
		Database: db,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	metaverseService, err := metaverse.NewService(metaverse.ServiceConfig{
		Database:   db,
		IDProvider: metaverse.NewUUIDProvider(),
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	nonceStore, err := auth.NewRedisNonceStore(appConfig.RedisURL)
	if err != nil {
		return err
	}
	defer nonceStore.Close() //nolint:errcheck

	var verifier auth.SignatureVerifier
	if appConfig.WalletVerifyURL != "" {
		verifier, err = auth.NewHTTPVerifier(auth.HTTPVerifierConfig{VerifyURL: appConfig.WalletVerifyURL})
		if err != nil {
			return err
		}
	} else {
		logger.Warn("no wallet verify url configured, accepting all signatures")
		verifier = auth.InsecureAllowAllVerifier{}
	}

	tokenManager := auth.NewTokenIssuer(auth.TokenIssuerConfig{
		SigningSecret: []byte(appConfig.SigningSecret),
		Issuer:        "murat-auth",
		Audience:      "murat-api",
		TokenTTL:      time.Duration(appConfig.TokenTTLMinutes) * time.Minute,
	})

	authenticator, err := auth.NewWalletAuthenticator(auth.WalletAuthenticatorConfig{
		Nonces:   nonceStore,
		Verifier: verifier,
		Tokens:   tokenManager,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	var completionClient aigen.CompletionClient
	if appConfig.OpenAIAPIKey != "" {
		completionClient = openai.NewClient(appConfig.OpenAIAPIKey)
	} else {
		logger.Warn("no openai api key configured, ai generator serves fallback content")
	}

	generator, err := aigen.NewService(aigen.ServiceConfig{
		Database:   db,
		Client:     completionClient,
		Model:      appConfig.OpenAIModel,
		IDProvider: aigen.NewUUIDProvider(),
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	playbackTokens, err := streaming.NewTokenIssuer(streaming.TokenIssuerConfig{
		SigningSecret: []byte(appConfig.StreamSecret),
		BaseURL:       appConfig.StreamBaseURL,
		TokenTTL:      time.Duration(appConfig.StreamTTLMinutes) * time.Minute,
	})
	if err != nil {
		return err
	}

	handler, err := server.NewHTTPHandler(server.Dependencies{
		Authenticator: authenticator,
		TokenManager:  tokenManager,
		Catalog:       catalog,
		Ledger:        ledger,
		Resolver:      resolver,
		Claims:        claimService,
		Metaverse:     metaverseService,
		AccessPass:    metaverseService,
		AIGen:         generator,
		Streaming:     playbackTokens,
		Logger:        logger,
	})
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    appConfig.HTTPAddress,
		Handler: handler,
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", zap.String("address", appConfig.HTTPAddress))
		err := httpServer.ListenAndServe()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-signalCtx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}
