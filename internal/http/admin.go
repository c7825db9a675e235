package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/bookstore/internal/config"
	"github.com/mrlokans/bookstore/internal/database"
	"github.com/mrlokans/bookstore/internal/database/admin"
)

// AdminController exposes the generic table viewer. Every endpoint takes a
// dbType query parameter selecting the configured database target; the
// non-default target gets a connection scoped to the request and released
// when the request completes.
type AdminController struct {
	defaultDB *gorm.DB
	dbConfig  config.Database
}

func NewAdminController(defaultDB *gorm.DB, dbConfig config.Database) *AdminController {
	return &AdminController{defaultDB: defaultDB, dbConfig: dbConfig}
}

// RegisterRoutes attaches the table-admin endpoints to a router group.
func (ac *AdminController) RegisterRoutes(group *gin.RouterGroup) {
	group.GET("/tables", ac.ListTables)
	group.GET("/table/:tableName", ac.ListRecords)
	group.POST("/table/:tableName/create", ac.CreateRecord)
	group.PUT("/table/:tableName/update", ac.UpdateRecord)
	group.DELETE("/table/:tableName/delete", ac.DeleteRecord)
}

// withRepository resolves the requested target, builds a record repository
// over it and guarantees the scoped connection is released afterwards. When
// the target is not usable it writes the error response and never calls fn.
func (ac *AdminController) withRepository(c *gin.Context, fn func(*admin.Repository) error) {
	target := config.DatabaseTarget(c.DefaultQuery("dbType", string(config.TargetProduction)))

	db := ac.defaultDB
	if target != config.TargetProduction {
		path := ac.dbConfig.PathForTarget(target)
		if path == "" {
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "database not configured for target " + string(target)})
			return
		}

		scoped, err := database.Open(path)
		if err != nil {
			log.Printf("Failed to open %s database at %s: %v", target, path, err)
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to open database"})
			return
		}
		defer func() {
			if err := database.Release(scoped); err != nil {
				log.Printf("Failed to release %s database connection: %v", target, err)
			}
		}()
		db = scoped
	}

	if err := fn(admin.NewRepository(db)); err != nil {
		ac.respondRepositoryError(c, err)
	}
}

// respondRepositoryError maps record service errors to HTTP statuses.
func (ac *AdminController) respondRepositoryError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, admin.ErrModelNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "table not found"})
	case errors.Is(err, admin.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "record not found"})
	case errors.Is(err, admin.ErrValidation):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		respondInternalError(c, err, "table admin")
	}
}

// ListTables returns every known table with its record count.
// GET /api/db/tables?dbType=
func (ac *AdminController) ListTables(c *gin.Context) {
	ac.withRepository(c, func(repo *admin.Repository) error {
		tables, err := repo.Tables()
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{"tables": tables})
		return nil
	})
}

// ListRecords returns one page of rows from a table.
// GET /api/db/table/:tableName?dbType=&page=&pageSize=
func (ac *AdminController) ListRecords(c *gin.Context) {
	modelName := admin.ResolveModel(c.Param("tableName"))
	page, pageSize := parsePagination(c, 20)

	ac.withRepository(c, func(repo *admin.Repository) error {
		rows, totalCount, err := repo.List(modelName, page, pageSize)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{
			"data":       rows,
			"pagination": NewPagination(page, pageSize, totalCount),
		})
		return nil
	})
}

// CreateRecord inserts a row from a JSON field map.
// POST /api/db/table/:tableName/create?dbType=
func (ac *AdminController) CreateRecord(c *gin.Context) {
	modelName := admin.ResolveModel(c.Param("tableName"))

	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	ac.withRepository(c, func(repo *admin.Repository) error {
		record, err := repo.Create(modelName, fields)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{"record": record})
		return nil
	})
}

// UpdateRecord merges a JSON field map onto the row named by body id.
// PUT /api/db/table/:tableName/update?dbType=
func (ac *AdminController) UpdateRecord(c *gin.Context) {
	modelName := admin.ResolveModel(c.Param("tableName"))

	var body map[string]any
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	id, ok := popRecordID(body)
	if !ok {
		respondBadRequest(c, "record ID is required")
		return
	}

	ac.withRepository(c, func(repo *admin.Repository) error {
		record, err := repo.Update(modelName, id, body)
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{"record": record})
		return nil
	})
}

// DeleteRecord removes the row named by the id query parameter.
// DELETE /api/db/table/:tableName/delete?dbType=&id=
func (ac *AdminController) DeleteRecord(c *gin.Context) {
	modelName := admin.ResolveModel(c.Param("tableName"))

	idStr := c.Query("id")
	if idStr == "" {
		respondBadRequest(c, "record ID is required")
		return
	}
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid record ID")
		return
	}

	ac.withRepository(c, func(repo *admin.Repository) error {
		record, err := repo.Delete(modelName, uint(id))
		if err != nil {
			return err
		}
		c.JSON(http.StatusOK, gin.H{"record": record})
		return nil
	})
}

// popRecordID extracts and removes the id key from an update body. JSON
// numbers arrive as float64; string ids are accepted too.
func popRecordID(body map[string]any) (uint, bool) {
	raw, ok := body["id"]
	if !ok {
		return 0, false
	}
	delete(body, "id")

	switch v := raw.(type) {
	case float64:
		if v < 1 {
			return 0, false
		}
		return uint(v), true
	case string:
		id, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return 0, false
		}
		return uint(id), true
	default:
		return 0, false
	}
}
