package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/database"
)

// HealthController reports whether the pieces this service depends on are
// usable: the application database, the session store table inside it, and
// the optional table-admin local target.
type HealthController struct {
	db       *database.Database
	dbConfig config.Database
	version  string
}

type healthReport struct {
	Status  string            `json:"status"`
	Time    string            `json:"time"`
	Version string            `json:"version,omitempty"`
	Checks  map[string]string `json:"checks"`
}

func NewHealthController(db *database.Database, dbConfig config.Database, version string) *HealthController {
	return &HealthController{
		db:       db,
		dbConfig: dbConfig,
		version:  version,
	}
}

// Status runs the dependency checks. Degraded optional pieces (an
// unconfigured local admin target) are reported but do not flip the status;
// a failing database or missing session store does.
// GET /health
func (h *HealthController) Status(c *gin.Context) {
	checks := make(map[string]string)
	healthy := true

	if h.db == nil {
		checks["database"] = "not configured"
		healthy = false
	} else {
		sqlDB, err := h.db.DB.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			checks["database"] = "error: " + err.Error()
			healthy = false
		} else {
			checks["database"] = "ok"
		}

		// Sessions live in the same database; without the table every
		// login fails even though the store itself pings fine.
		if h.db.DB.Migrator().HasTable("sessions") {
			checks["sessions"] = "ok"
		} else {
			checks["sessions"] = "error: sessions table missing"
			healthy = false
		}
	}

	if h.dbConfig.PathForTarget(config.TargetLocal) == "" {
		checks["admin_local_target"] = "not configured"
	} else {
		checks["admin_local_target"] = "ok"
	}

	report := healthReport{
		Status:  "healthy",
		Time:    time.Now().Format(time.RFC3339),
		Version: h.version,
		Checks:  checks,
	}

	statusCode := http.StatusOK
	if !healthy {
		report.Status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.IndentedJSON(statusCode, report)
}
