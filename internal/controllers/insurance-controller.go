package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/claim-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
)

// InsuranceController handles HTTP requests related to insurance records
type InsuranceController interface {
	// GetAllInsurances lists every record
	GetAllInsurances(c *gin.Context)
	// CreateInsurance registers a policy with no claim filed
	CreateInsurance(c *gin.Context)
}

type insuranceController struct {
	service services.InsuranceService
}

// NewInsuranceController creates a new instance of InsuranceController
func NewInsuranceController(service services.InsuranceService) InsuranceController {
	return &insuranceController{service: service}
}

// CreateInsuranceRequest is the body of POST /api/insurances
type CreateInsuranceRequest struct {
	Name     string `json:"name"`
	Address  string `json:"address"`
	IMEI     string `json:"imei"`
	Comments string `json:"comments"`
}

// GetAllInsurances godoc
// @Summary Get all insurances
// @Description List every insurance record in insertion order
// @Tags insurances
// @Produce json
// @Success 200 {array} models.InsuranceRecord
// @Failure 401 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/insurances [get]
func (ic *insuranceController) GetAllInsurances(ctx *gin.Context) {
	records, err := ic.service.ListAll(ctx.Request.Context())
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, records)
}

// CreateInsurance godoc
// @Summary Create an insurance
// @Description Register a policy. The new record has no claim status.
// @Tags insurances
// @Accept json
// @Produce json
// @Param insurance body CreateInsuranceRequest true "Policy"
// @Success 201 {object} models.InsuranceRecord
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/insurances [post]
func (ic *insuranceController) CreateInsurance(ctx *gin.Context) {
	var req CreateInsuranceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	record, err := ic.service.Create(ctx.Request.Context(), req.Name, req.Address, req.IMEI, req.Comments)
	if err != nil {
		respondWithError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, record)
}
