// Package testutil holds database, HTTP, and asset fixtures shared by the
// package tests.
package testutil

import (
	"context"
	"fmt"
	"hash/fnv"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dalemusser/stratawell/internal/app/system/indexes"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	// DefaultMongoURI is used unless STRATAWELL_TEST_MONGO_URI is set.
	DefaultMongoURI = "mongodb://localhost:27017"
	// DBPrefix starts every per-test database name.
	DBPrefix = "stratawell_test"

	// Mongo caps database names at 63 bytes.
	maxDBName = 63
)

var (
	sharedOnce   sync.Once
	sharedClient *mongo.Client
	sharedErr    error
)

func mongoClient() (*mongo.Client, error) {
	sharedOnce.Do(func() {
		uri := os.Getenv("STRATAWELL_TEST_MONGO_URI")
		if uri == "" {
			uri = DefaultMongoURI
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// packages run in parallel, so the pool is sized above the default
		opts := options.Client().
			ApplyURI(uri).
			SetMaxPoolSize(200).
			SetMinPoolSize(10).
			SetMaxConnIdleTime(30 * time.Second).
			SetServerSelectionTimeout(10 * time.Second)

		sharedClient, sharedErr = mongo.Connect(ctx, opts)
		if sharedErr == nil {
			sharedErr = sharedClient.Ping(ctx, nil)
		}
	})
	return sharedClient, sharedErr
}

// SetupTestDB gives the test its own empty database carrying the production
// indexes, dropped again on cleanup. Without a reachable MongoDB the test is
// skipped, unless STRATAWELL_TEST_REQUIRE_MONGO is set.
func SetupTestDB(t *testing.T) *mongo.Database {
	t.Helper()

	client, err := mongoClient()
	if err != nil {
		if os.Getenv("STRATAWELL_TEST_REQUIRE_MONGO") != "" {
			t.Fatalf("test MongoDB unavailable: %v", err)
		}
		t.Skipf("test MongoDB unavailable: %v", err)
	}

	db := client.Database(DBName(t.Name()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Drop(ctx); err != nil {
		t.Fatalf("drop %s: %v", db.Name(), err)
	}
	if err := indexes.EnsureAll(ctx, db); err != nil {
		t.Fatalf("ensure indexes: %v", err)
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := db.Drop(ctx); err != nil {
			t.Logf("cleanup drop %s: %v", db.Name(), err)
		}
	})
	return db
}

// DBName maps a test name to a legal, unique database name. Long names are
// cut and suffixed with a hash so subtests never share a database.
func DBName(testName string) string {
	clean := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			return r
		}
		return '_'
	}, testName)

	name := DBPrefix + "_" + clean
	if len(name) <= maxDBName {
		return name
	}
	h := fnv.New32a()
	h.Write([]byte(testName))
	suffix := fmt.Sprintf("_%08x", h.Sum32())
	return name[:maxDBName-len(suffix)] + suffix
}

// TestContext bounds a test's database calls.
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 30*time.Second)
}
