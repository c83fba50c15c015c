// internal/app/system/seeding/seeding.go
package seeding

import (
	"context"
	"fmt"

	"github.com/dalemusser/stratawell/internal/app/store/admins"
	"github.com/dalemusser/stratawell/internal/app/store/content"
	settingsstore "github.com/dalemusser/stratawell/internal/app/store/settings"
	"github.com/dalemusser/stratawell/internal/app/system/authutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// AdminSeed is the optional first admin created at startup. Both fields
// empty means no seeding.
type AdminSeed struct {
	Email    string
	Password string
}

// SeedAll seeds default data if not already present.
func SeedAll(ctx context.Context, db *mongo.Database, admin AdminSeed, logger *zap.Logger) error {
	if err := seedContent(ctx, db, logger); err != nil {
		return err
	}
	if err := seedSettings(ctx, db, logger); err != nil {
		return err
	}
	return seedAdmin(ctx, db, admin, logger)
}

// seedContent creates the homepage and about singletons with defaults.
func seedContent(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	if _, err := content.NewHomepage(db).Get(ctx); err != nil {
		logger.Error("failed to seed homepage content", zap.Error(err))
		return err
	}
	if _, err := content.NewAbout(db).Get(ctx); err != nil {
		logger.Error("failed to seed about content", zap.Error(err))
		return err
	}
	logger.Debug("site content singletons ready")
	return nil
}

func seedSettings(ctx context.Context, db *mongo.Database, logger *zap.Logger) error {
	added, err := settingsstore.New(db).SeedDefaults(ctx)
	if err != nil {
		logger.Error("failed to seed default settings", zap.Error(err))
		return err
	}
	if added > 0 {
		logger.Info("seeded default settings", zap.Int("count", added))
	}
	return nil
}

// seedAdmin creates the first admin from config when no admin exists yet.
func seedAdmin(ctx context.Context, db *mongo.Database, seed AdminSeed, logger *zap.Logger) error {
	if seed.Email == "" && seed.Password == "" {
		return nil
	}
	store := admins.New(db)
	n, err := store.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		logger.Debug("admin exists; skipping admin seed")
		return nil
	}

	creds := authutil.Credentials{Email: seed.Email, Password: seed.Password}.Normalized()
	if err := creds.CheckPresent(); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	if err := authutil.ValidatePassword(creds.Password); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}
	hash, err := authutil.HashPassword(creds.Password)
	if err != nil {
		return err
	}
	if _, err := store.Create(ctx, creds.Email, hash); err != nil {
		if err == admins.ErrDuplicateEmail {
			return nil
		}
		return err
	}
	logger.Info("seeded admin account", zap.String("email", creds.Email))
	return nil
}
