package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/mealflow/demandplan/internal/domain"
	"github.com/mealflow/demandplan/internal/engine"
	"github.com/mealflow/demandplan/internal/service"
)

type OptimizationHandler struct {
	service *service.OptimizationService
}

func NewOptimizationHandler(service *service.OptimizationService) *OptimizationHandler {
	return &OptimizationHandler{service: service}
}

// parseParams starts from the configured defaults and applies query-string
// overrides. Invalid combinations are rejected before any computation runs.
func (h *OptimizationHandler) parseParams(c *gin.Context) (engine.Params, error) {
	params := h.service.DefaultParams()

	overrides := map[string]*float64{
		"service_level_z":         &params.ServiceLevelZ,
		"safety_buffer_days":      &params.SafetyBufferDays,
		"abc_cutoff_a":            &params.ABCCutoffA,
		"abc_cutoff_b":            &params.ABCCutoffB,
		"xyz_cutoff_x":            &params.XYZCutoffX,
		"xyz_cutoff_y":            &params.XYZCutoffY,
		"excess_coverage_days":    &params.ExcessCoverageDays,
		"projection_horizon_days": &params.ProjectionHorizonDays,
	}

	for name, target := range overrides {
		raw := strings.TrimSpace(c.Query(name))
		if raw == "" {
			continue
		}
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return params, err
		}
		*target = value
	}

	return params, params.Validate()
}

func (h *OptimizationHandler) report(c *gin.Context) (*domain.OptimizationReport, bool) {
	params, err := h.parseParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	refresh := strings.EqualFold(c.Query("refresh"), "true")
	report, err := h.service.BuildReport(c.Request.Context(), params, refresh)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}

	return report, true
}

// GetReport returns the full optimization report, optionally filtering the
// trajectory table by status and/or category.
func (h *OptimizationHandler) GetReport(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}

	category := strings.TrimSpace(c.Query("category"))
	statusQuery := strings.TrimSpace(c.Query("status"))
	if category != "" || statusQuery != "" {
		var status domain.StockStatus
		if statusQuery != "" {
			parsed, ok := domain.ParseStockStatus(statusQuery)
			if !ok {
				c.JSON(http.StatusBadRequest, gin.H{"error": "unknown stock status: " + statusQuery})
				return
			}
			status = parsed
		}

		filtered := make([]domain.TrajectoryResult, 0, len(report.Trajectories))
		for _, trajectory := range report.Trajectories {
			if category != "" && !strings.EqualFold(trajectory.Category, category) {
				continue
			}
			if status != "" && trajectory.Status != status {
				continue
			}
			filtered = append(filtered, trajectory)
		}

		// Copy before filtering so the cached report stays intact.
		view := *report
		view.Trajectories = filtered
		c.JSON(http.StatusOK, view)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *OptimizationHandler) GetClassification(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"classifications":     report.Classifications,
		"matrix_distribution": report.MatrixDistribution,
	})
}

func (h *OptimizationHandler) GetEOQ(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"eoq_table":         report.EOQTable,
		"potential_savings": report.Summary.PotentialSavings,
	})
}

func (h *OptimizationHandler) GetTrajectory(c *gin.Context) {
	params, err := h.parseParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sku := c.Param("sku")
	trajectories, err := h.service.Trajectory(c.Request.Context(), sku, params)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"trajectories": trajectories})
}

func (h *OptimizationHandler) GetExpiration(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"action_queue":            report.ActionQueue,
		"immediate_value_at_risk": report.Summary.ImmediateValueAtRisk,
		"projected_value_at_risk": report.Summary.ProjectedValueAtRisk,
		"expired_value":           report.Summary.ExpiredValue,
	})
}

func (h *OptimizationHandler) GetSummary(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, report.Summary)
}
