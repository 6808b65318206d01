package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/penguin/core/internal/adapters/localstore"
	"github.com/penguin/core/internal/adapters/remotestore"
	"github.com/penguin/core/internal/infrastructure/config"
	"github.com/penguin/core/internal/infrastructure/logger"
	"github.com/penguin/core/internal/infrastructure/server"
	"github.com/penguin/core/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Penguin API server",
		Long:  "Start the Penguin API server with the configured storage backend",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewStorageCommand creates the storage management command
func NewStorageCommand() *cobra.Command {
	storageCmd := &cobra.Command{
		Use:   "storage",
		Short: "Storage management commands",
		Long:  "Inspect and reset the persisted snapshot keys",
	}

	storageCmd.AddCommand(&cobra.Command{
		Use:   "inspect",
		Short: "Print each persisted key and its raw snapshot",
		Run: func(cmd *cobra.Command, args []string) {
			inspectStorage()
		},
	})

	storageCmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Delete all persisted snapshot keys",
		Run: func(cmd *cobra.Command, args []string) {
			resetStorage()
		},
	})

	return storageCmd
}

// NewVersionCommand creates the version command
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print Penguin version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("Penguin Core v1.0.0")
		},
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer appLogger.Sync()

	ctx := context.Background()

	backend, err := buildBackend(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize storage backend", "error", err)
	}
	defer backend.Close()

	srv, err := server.New(cfg, backend, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize server", "error", err)
	}

	appLogger.Info("Starting Penguin API server",
		"port", cfg.Server.Port,
		"backend", cfg.Storage.Backend,
		"environment", cfg.App.Environment,
	)

	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
			appLogger.Info("Server stopped", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server shutdown failed", "error", err)
	}
}

// buildBackend assembles the configured persistence variant: a local
// snapshot store over a file or redis KV, or the remote sync store with
// a local KV kept for the private task list and identity.
func buildBackend(ctx context.Context, cfg *config.Config, appLogger *logger.Logger) (ports.Backend, error) {
	kv, err := buildKV(cfg)
	if err != nil {
		return nil, err
	}

	if cfg.Storage.Backend == config.BackendRemote {
		store, err := remotestore.NewFirestoreStore(ctx, cfg.Firebase, appLogger)
		if err != nil {
			kv.Close()
			return nil, err
		}
		backend, err := remotestore.New(ctx, store, kv, appLogger)
		if err != nil {
			store.Close()
			kv.Close()
			return nil, err
		}
		return backend, nil
	}

	backend, err := localstore.New(ctx, kv, appLogger)
	if err != nil {
		kv.Close()
		return nil, err
	}
	return backend, nil
}

func buildKV(cfg *config.Config) (ports.KV, error) {
	if cfg.Storage.KV == config.KVRedis {
		return localstore.NewRedisKV(cfg.Redis)
	}
	return localstore.NewFileKV(cfg.Storage.Dir)
}

var snapshotKeys = []string{
	localstore.KeyGoals,
	localstore.KeyTodos,
	localstore.KeyMessages,
	localstore.KeyRewards,
	localstore.KeyUser,
}

func inspectStorage() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	kv, err := buildKV(cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer kv.Close()

	ctx := context.Background()
	for _, key := range snapshotKeys {
		raw, ok, err := kv.Get(ctx, key)
		if err != nil {
			log.Fatalf("Failed to read %s: %v", key, err)
		}
		if !ok {
			fmt.Printf("%s: <absent>\n", key)
			continue
		}
		fmt.Printf("%s: %s\n", key, raw)
	}
}

func resetStorage() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	kv, err := buildKV(cfg)
	if err != nil {
		log.Fatalf("Failed to open storage: %v", err)
	}
	defer kv.Close()

	ctx := context.Background()
	for _, key := range snapshotKeys {
		if err := kv.Delete(ctx, key); err != nil {
			log.Fatalf("Failed to delete %s: %v", key, err)
		}
	}

	fmt.Println("Snapshot keys cleared")
}
