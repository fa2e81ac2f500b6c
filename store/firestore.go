// Package store persists the catalog tree and banners in Firestore.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/m3rciful/catalogbot/core/config"
	"github.com/m3rciful/catalogbot/core/logger"

	"log/slog"
)

const connectTimeout = 10 * time.Second

// Connect builds a Firestore client from config. Credentials fall back to
// application default credentials when no file is configured.
func Connect(ctx context.Context, cfg config.FirestoreConfig) (*firestore.Client, error) {
	projectID := strings.TrimSpace(cfg.ProjectID)
	if projectID == "" {
		return nil, fmt.Errorf("store: project id is required")
	}

	var opts []option.ClientOption
	if f := strings.TrimSpace(cfg.CredentialsFile); f != "" {
		opts = append(opts, option.WithCredentialsFile(f))
	}

	dialCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	start := time.Now()
	client, err := firestore.NewClient(dialCtx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("store: create client: %w", err)
	}

	logger.STORE.Info("firestore connected",
		slog.String("event", "connect"),
		slog.String("project_id", projectID),
		slog.Duration("duration", logger.RoundMS(time.Since(start))),
	)
	return client, nil
}
