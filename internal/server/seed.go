package server

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

const demoBoardSlug = "friends"

// SeedDemo creates the "friends" board if no boards exist and logs its
// admin key. Does nothing otherwise.
func SeedDemo(ctx context.Context, logger *slog.Logger, store Store) error {
	existing, err := store.ListBoards(ctx)
	if err != nil {
		return fmt.Errorf("listing boards: %w", err)
	}
	if len(existing) > 0 {
		return nil
	}

	key := newAdminKey()
	hash, err := bcrypt.GenerateFromPassword([]byte(key), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing admin key: %w", err)
	}
	if _, err := store.CreateBoard(ctx, demoBoardSlug, "Friends", string(hash)); err != nil {
		return fmt.Errorf("creating demo board: %w", err)
	}

	logger.Info("demo board created", "slug", demoBoardSlug, "admin_key", key)
	return nil
}
