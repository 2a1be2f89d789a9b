package controllers

import (
	"net/http"

	"github.com/franciscosanchezn/claim-tracker-api/internal/middleware"
	"github.com/franciscosanchezn/claim-tracker-api/internal/models"
	"github.com/franciscosanchezn/claim-tracker-api/internal/services"
	"github.com/gin-gonic/gin"
)

type ClaimController struct {
	claims services.ClaimService
}

func NewClaimController(claims services.ClaimService) *ClaimController {
	return &ClaimController{claims: claims}
}

// ClaimRequest is the body of POST /api/applyClaim and POST /api/claim
type ClaimRequest struct {
	IMEI     string `json:"imei"`
	Comments string `json:"comments"`
}

// ApplyClaimResponse echoes the request. Status is always null.
type ApplyClaimResponse struct {
	IMEI     string              `json:"imei"`
	Comments string              `json:"comments"`
	Status   *models.ClaimStatus `json:"status"`
}

// UpdateStatusRequest is the body of POST /api/updateStatus
type UpdateStatusRequest struct {
	IMEI     string             `json:"imei"`
	Status   models.ClaimStatus `json:"status"`
	Comments string             `json:"comments"`
}

// IsClaimedResponse carries the ledger's claimed flag
type IsClaimedResponse struct {
	Claimed bool `json:"claimed"`
}

// ApplyClaim godoc
// @Summary Apply for a claim
// @Description Mark every record with the imei as pending. The response echoes the request with a null status.
// @Tags claims
// @Accept json
// @Produce json
// @Param claim body ClaimRequest true "Claim"
// @Success 201 {object} ApplyClaimResponse
// @Failure 401 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/applyClaim [post]
func (cc *ClaimController) ApplyClaim(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if _, err := cc.claims.ApplyClaim(c.Request.Context(), req.IMEI, req.Comments); err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ApplyClaimResponse{IMEI: req.IMEI, Comments: req.Comments})
}

// Claim godoc
// @Summary File a claim
// @Description Record the claim on the ledger, then mark the records pending
// @Tags claims
// @Accept json
// @Produce json
// @Param claim body ClaimRequest true "Claim"
// @Success 200 {object} services.ClaimResult
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/claim [post]
func (cc *ClaimController) Claim(c *gin.Context) {
	var req ClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := cc.claims.Claim(c.Request.Context(), req.IMEI, req.Comments)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateStatus godoc
// @Summary Decide a claim
// @Description Admin only. Accept or reject a claim. Accepting also records it on the ledger, best effort.
// @Tags claims
// @Accept json
// @Produce json
// @Param decision body UpdateStatusRequest true "Decision"
// @Success 200 {object} services.StatusResult
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 403 {object} models.APIError
// @Failure 404 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /api/updateStatus [post]
func (cc *ClaimController) UpdateStatus(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		respondWithError(c, models.NewError(models.ErrUnauthenticated, models.MsgUnauthenticated))
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, models.WrapError(models.ErrValidation, models.MsgInvalidStatus, err))
		return
	}

	actor := services.Actor{UserID: principal.UserID, Role: principal.Role}
	result, err := cc.claims.UpdateStatus(c.Request.Context(), actor, req.IMEI, req.Status, req.Comments)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// IsClaimed godoc
// @Summary Check a claim on the ledger
// @Description Read the claimed flag for an imei from the ledger
// @Tags claims
// @Produce json
// @Param imei path string true "Device IMEI"
// @Success 200 {object} IsClaimedResponse
// @Failure 400 {object} models.APIError
// @Failure 401 {object} models.APIError
// @Failure 500 {object} models.APIError
// @Security BearerAuth
// @Router /isClaimed/{imei} [get]
func (cc *ClaimController) IsClaimed(c *gin.Context) {
	claimed, err := cc.claims.IsClaimed(c.Request.Context(), c.Param("imei"))
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, IsClaimedResponse{Claimed: claimed})
}
