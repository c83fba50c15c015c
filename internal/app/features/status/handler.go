// internal/app/features/status/handler.go
package status

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/dalemusser/stratawell/internal/app/system/jsonutil"
	"github.com/dalemusser/stratawell/internal/app/system/timeouts"
	"github.com/dalemusser/stratawell/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

var startTime = time.Now()

// Handler serves the admin system status report.
type Handler struct {
	db     *mongo.Database
	config []ConfigGroup
	log    *zap.Logger
}

// NewHandler creates a status Handler. config is reported as given, so
// secrets must already be masked (see Mask).
func NewHandler(db *mongo.Database, config []ConfigGroup, logger *zap.Logger) *Handler {
	return &Handler{db: db, config: config, log: logger}
}

// ConfigItem is one reported configuration value.
type ConfigItem struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ConfigGroup is a titled set of configuration values.
type ConfigGroup struct {
	Name  string       `json:"name"`
	Items []ConfigItem `json:"items"`
}

// Database describes the document store.
type Database struct {
	Connected bool   `json:"connected"`
	Error     string `json:"error,omitempty"`
	PingMS    int64  `json:"pingMs"`
	Version   string `json:"version,omitempty"`
}

// Runtime describes the running process.
type Runtime struct {
	GoVersion    string `json:"goVersion"`
	Uptime       string `json:"uptime"`
	NumGoroutine int    `json:"goroutines"`
	MemAlloc     string `json:"memAlloc"`
}

// Report is the body of GET /api/admin/status.
type Report struct {
	Database Database         `json:"database"`
	Runtime  Runtime          `json:"runtime"`
	Counts   map[string]int64 `json:"counts,omitempty"`
	Config   []ConfigGroup    `json:"config"`
}

// counters are the dashboard tallies: name, collection, filter.
var counters = []struct {
	name   string
	coll   string
	filter bson.M
}{
	{"bookingsPending", "bookings", bson.M{"status": models.BookingPending}},
	{"bookingsTotal", "bookings", bson.M{}},
	{"registrationsPending", "member_registrations", bson.M{"status": models.RegistrationPending}},
	{"registrationsTotal", "member_registrations", bson.M{}},
	{"articlesPublished", "articles", bson.M{"published": true}},
	{"articlesDraft", "articles", bson.M{"published": bson.M{"$ne": true}}},
	{"services", "services", bson.M{}},
	{"galleryImages", "gallery_images", bson.M{}},
	{"testimonials", "testimonials", bson.M{}},
}

// Serve reports database reachability, process stats, content tallies, and
// the masked configuration. A failed ping still answers 200; the report
// says the database is down.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	rep := Report{
		Runtime: Runtime{
			GoVersion:    runtime.Version(),
			Uptime:       formatDuration(time.Since(startTime)),
			NumGoroutine: runtime.NumGoroutine(),
			MemAlloc:     formatBytes(m.Alloc),
		},
		Config: h.config,
	}
	if rep.Config == nil {
		rep.Config = []ConfigGroup{}
	}

	pingStart := time.Now()
	if err := h.db.Client().Ping(ctx, readpref.Primary()); err != nil {
		rep.Database.Error = err.Error()
		h.log.Warn("status: database ping failed", zap.Error(err))
		jsonutil.OK(w, rep)
		return
	}
	rep.Database.Connected = true
	rep.Database.PingMS = time.Since(pingStart).Milliseconds()

	var info bson.M
	if err := h.db.Client().Database("admin").RunCommand(ctx, bson.D{{Key: "buildInfo", Value: 1}}).Decode(&info); err == nil {
		if v, ok := info["version"].(string); ok {
			rep.Database.Version = v
		}
	}

	rep.Counts = make(map[string]int64, len(counters))
	for _, c := range counters {
		n, err := h.db.Collection(c.coll).CountDocuments(ctx, c.filter)
		if err != nil {
			h.log.Warn("status: count failed", zap.String("counter", c.name), zap.Error(err))
			continue
		}
		rep.Counts[c.name] = n
	}

	jsonutil.OK(w, rep)
}

// Mask hides all but the first and last two characters of a secret.
func Mask(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return s[:2] + strings.Repeat("*", len(s)-4) + s[len(s)-2:]
}

func formatDuration(d time.Duration) string {
	days := int(d.Hours() / 24)
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60

	if days > 0 {
		return plural(days, "day") + " " + plural(hours, "hour")
	}
	if hours > 0 {
		return plural(hours, "hour") + " " + plural(minutes, "min")
	}
	return plural(minutes, "min")
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return fmt.Sprintf("%d %ss", n, unit)
}

func formatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
