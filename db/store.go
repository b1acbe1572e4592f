package db

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Dosada05/volleyball-tournament/config"
	"github.com/Dosada05/volleyball-tournament/repositories"
)

const connectTimeout = 5 * time.Second

// OpenStore подключает хранилище, выбранное в STORE_DRIVER.
// Возвращаемая функция закрывает соединение.
func OpenStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*repositories.Store, func(), error) {
	switch cfg.StoreDriver {
	case config.StoreDriverPostgres:
		if err := Migrate(cfg.DatabaseURL, logger); err != nil {
			return nil, nil, err
		}
		conn, err := Connect(cfg.DatabaseURL, connectTimeout)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := conn.Close(); err != nil {
				logger.Error("failed to close database connection", slog.Any("error", err))
			} else {
				logger.Info("database connection closed")
			}
		}
		return repositories.NewPostgresStore(conn), closeFn, nil

	case config.StoreDriverMongo:
		client, err := ConnectMongo(cfg.MongoURI, connectTimeout)
		if err != nil {
			return nil, nil, err
		}
		store, err := repositories.NewMongoStore(ctx, client.Database(cfg.MongoDatabase))
		if err != nil {
			_ = client.Disconnect(context.Background())
			return nil, nil, err
		}
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), connectTimeout)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Error("failed to disconnect from MongoDB", slog.Any("error", err))
			} else {
				logger.Info("MongoDB connection closed")
			}
		}
		return store, closeFn, nil

	case config.StoreDriverMemory:
		logger.Warn("using in-memory store, data is lost on restart")
		return repositories.NewMemoryStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
