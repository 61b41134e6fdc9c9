package dashboard

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/driveline/placetrack/internal/analytics"
	"github.com/driveline/placetrack/internal/store"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// registerRoutes sets up all dashboard routes on the gin router.
func registerRoutes(router *gin.Engine, db *gorm.DB) {
	router.GET("/healthz", handleHealth(db))
	router.GET("/api/drives", handleDriveList(db))
	router.GET("/api/drives/:id", handleDriveDetail(db))
	router.GET("/api/analytics", handleAnalytics(db))
}

func handleHealth(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

func handleDriveList(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		drives, err := store.ListDrives(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"drives": drives})
	}
}

func handleDriveDetail(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid drive id"})
			return
		}
		d, err := store.GetDrive(db, uint(id))
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "drive not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		rounds, err := store.ListRounds(db, d.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"drive":    d,
			"rounds":   rounds,
			"messages": d.Messages(),
		})
	}
}

func handleAnalytics(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		drives, err := store.ListDrives(db)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, analytics.Summarize(drives))
	}
}
