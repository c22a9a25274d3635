package controllers

import (
	"net/http"
	"strconv"
	"taskflow/analytics"
	"taskflow/constants"
	"taskflow/logging"
	"taskflow/middleware"
	"time"

	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	Service *analytics.Service
}

// orgScope reads the optional organization filter. Absent or the ALL
// sentinel means no restriction; anything else must be a numeric id.
func orgScope(c *gin.Context) (*uint, bool) {
	raw := c.Query("organization_id")
	if raw == "" || raw == constants.OrgScopeAll {
		return nil, true
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil, false
	}
	v := uint(id)
	return &v, true
}

func windowParam(c *gin.Context, name string) int {
	n, _ := strconv.Atoi(c.Query(name))
	return n
}

func projectScope(c *gin.Context) *uint {
	raw := c.Query("project_id")
	if raw == "" {
		return nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return nil
	}
	v := uint(id)
	return &v
}

func (ac *AnalyticsController) GetTaskAnalytics(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	orgID, ok := orgScope(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization_id"})
		return
	}

	scope := analytics.Scope{UserID: identity.UserID, OrganizationID: orgID, ProjectID: projectScope(c)}
	result, err := ac.Service.ComputeTaskAnalytics(scope, windowParam(c, "months"))
	if err != nil {
		logging.Logger.WithField("error", err).Error("task analytics failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ac *AnalyticsController) GetProductivityAnalytics(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	orgID, ok := orgScope(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization_id"})
		return
	}

	scope := analytics.Scope{UserID: identity.UserID, OrganizationID: orgID, ProjectID: projectScope(c)}
	result, err := ac.Service.ComputeProductivityAnalytics(scope, windowParam(c, "weeks"))
	if err != nil {
		logging.Logger.WithField("error", err).Error("productivity analytics failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (ac *AnalyticsController) GetTeamAnalytics(c *gin.Context) {
	orgID, ok := orgScope(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization_id"})
		return
	}

	result, err := ac.Service.ComputeTeamAnalytics(orgID)
	if err != nil {
		logging.Logger.WithField("error", err).Error("team analytics failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExportCSV serializes one analytics tab as a CSV download.
func (ac *AnalyticsController) ExportCSV(c *gin.Context) {
	identity := middleware.GetIdentity(c)

	orgID, ok := orgScope(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid organization_id"})
		return
	}
	scope := analytics.Scope{UserID: identity.UserID, OrganizationID: orgID}

	tab := c.Query("tab")
	var body string
	var err error

	switch tab {
	case analytics.TabTasks:
		var result *analytics.TaskAnalytics
		result, err = ac.Service.ComputeTaskAnalytics(scope, windowParam(c, "months"))
		if err == nil {
			body = analytics.ExportTasksCSV(result)
		}

	case analytics.TabProductivity:
		var result *analytics.ProductivityAnalytics
		result, err = ac.Service.ComputeProductivityAnalytics(scope, windowParam(c, "weeks"))
		if err == nil {
			body = analytics.ExportProductivityCSV(result)
		}

	case analytics.TabTeam:
		if identity.Role != constants.RoleManager && identity.Role != constants.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "You do not have permission to access this resource"})
			return
		}
		var result *analytics.TeamAnalytics
		result, err = ac.Service.ComputeTeamAnalytics(orgID)
		if err == nil {
			body = analytics.ExportTeamCSV(result)
		}

	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown tab"})
		return
	}

	if err != nil {
		logging.Logger.WithField("error", err).Error("analytics export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	filename := analytics.ExportFilename(tab, time.Now())
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", []byte(body))
}
