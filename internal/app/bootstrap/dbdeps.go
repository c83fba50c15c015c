// internal/app/bootstrap/dbdeps.go
package bootstrap

import (
	"time"

	"github.com/dalemusser/stratawell/internal/app/system/mailer"
	"github.com/dalemusser/waffle/pantry/storage"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBDeps holds database and backend dependencies for this WAFFLE app.
//
// It is created in ConnectDB and passed to EnsureSchema, Startup,
// BuildHandler, and Shutdown. Shutdown closes what needs closing.
type DBDeps struct {
	// MongoDB client and database
	MongoClient   *mongo.Client
	MongoDatabase *mongo.Database

	// FileStorage holds uploaded images (local disk or S3/CloudFront)
	FileStorage storage.Store

	// Mailer sends business notifications; nil when mail is not configured
	Mailer *mailer.Mailer

	// Location is the business time zone
	Location *time.Location
}
