package services

import (
	"context"
	"encoding/json"

	"github.com/franciscosanchezn/claim-tracker-api/internal/ledger"
	"github.com/franciscosanchezn/claim-tracker-api/internal/metrics"
	"github.com/franciscosanchezn/claim-tracker-api/internal/models"
	"github.com/sirupsen/logrus"
)

// LedgerClient is the part of the claim ledger the workflow depends on
type LedgerClient interface {
	RecordClaim(ctx context.Context, imei string) (*ledger.Receipt, error)
	IsClaimed(ctx context.Context, imei string) (bool, error)
}

// Actor is the identity performing a workflow operation
type Actor struct {
	UserID uint
	Role   models.Role
}

// ClaimResult is returned by a successful Claim
type ClaimResult struct {
	IMEI     string             `json:"imei"`
	Status   models.ClaimStatus `json:"status"`
	Comments string             `json:"comments"`
	Tx       json.RawMessage    `json:"tx"`
}

// StatusResult is returned by a successful UpdateStatus
type StatusResult struct {
	IMEI     string             `json:"imei"`
	Status   models.ClaimStatus `json:"status"`
	Comments string             `json:"comments"`
}

// ClaimService drives the claim status workflow:
// unfiled (null) -> pending -> accepted | rejected.
// Transitions are not guarded against the current state.
type ClaimService interface {
	// ApplyClaim marks every record with imei as pending, whatever its current state
	ApplyClaim(ctx context.Context, imei, comments string) (int64, error)
	// Claim records the claim on the ledger, then marks the records pending.
	// A ledger failure leaves the store untouched. A missing record after a
	// successful ledger call is reported as not found and the ledger entry stays.
	Claim(ctx context.Context, imei, comments string) (*ClaimResult, error)
	// UpdateStatus lets an admin accept or reject a claim. Accepting notifies the
	// ledger on a best-effort basis before the local update.
	UpdateStatus(ctx context.Context, actor Actor, imei string, status models.ClaimStatus, comments string) (*StatusResult, error)
	// IsClaimed reads the claimed flag from the ledger
	IsClaimed(ctx context.Context, imei string) (bool, error)
}

type claimService struct {
	insurances InsuranceService
	ledger     LedgerClient
	log        logrus.FieldLogger
}

// NewClaimService creates the claim workflow over the given store and ledger
func NewClaimService(insurances InsuranceService, ledgerClient LedgerClient, log logrus.FieldLogger) ClaimService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &claimService{
		insurances: insurances,
		ledger:     ledgerClient,
		log:        log,
	}
}

func (s *claimService) ApplyClaim(ctx context.Context, imei, comments string) (int64, error) {
	affected, err := s.insurances.SetStatus(ctx, imei, models.StatusPending, comments)
	if err != nil {
		return 0, err
	}
	s.countTransition(models.StatusPending, affected)
	return affected, nil
}

func (s *claimService) Claim(ctx context.Context, imei, comments string) (*ClaimResult, error) {
	if imei == "" {
		return nil, models.NewError(models.ErrValidation, models.MsgIMEIRequired)
	}

	receipt, err := s.ledger.RecordClaim(ctx, imei)
	if err != nil {
		return nil, models.WrapError(models.ErrUpstream, err.Error(), err)
	}

	affected, err := s.insurances.SetStatus(ctx, imei, models.StatusPending, comments)
	if err != nil {
		s.log.WithFields(logrus.Fields{"imei": imei, "error": err.Error()}).
			Error("Claim recorded on ledger but local status update failed")
		return nil, err
	}
	if affected == 0 {
		s.log.WithField("imei", imei).Warn("Claim recorded on ledger for an imei with no insurance record")
		return nil, models.NewError(models.ErrNotFound, models.MsgInsuranceNotFound)
	}
	s.countTransition(models.StatusPending, affected)

	return &ClaimResult{
		IMEI:     imei,
		Status:   models.StatusPending,
		Comments: comments,
		Tx:       receipt.Tx,
	}, nil
}

func (s *claimService) UpdateStatus(ctx context.Context, actor Actor, imei string, status models.ClaimStatus, comments string) (*StatusResult, error) {
	if actor.Role != models.RoleAdmin {
		return nil, models.NewError(models.ErrForbidden, models.MsgAccessDenied)
	}
	if imei == "" || !status.IsDecision() {
		return nil, models.NewError(models.ErrValidation, models.MsgInvalidStatus)
	}

	if status == models.StatusAccepted {
		s.notifyLedger(ctx, imei)
	}

	affected, err := s.insurances.SetStatus(ctx, imei, status, comments)
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, models.NewError(models.ErrNotFound, models.MsgInsuranceNotFound)
	}
	s.countTransition(status, affected)

	s.log.WithFields(logrus.Fields{
		"imei":     imei,
		"status":   status,
		"admin_id": actor.UserID,
		"affected": affected,
	}).Info("Claim status updated")

	return &StatusResult{IMEI: imei, Status: status, Comments: comments}, nil
}

func (s *claimService) IsClaimed(ctx context.Context, imei string) (bool, error) {
	if imei == "" {
		return false, models.NewError(models.ErrValidation, models.MsgIMEIRequired)
	}
	claimed, err := s.ledger.IsClaimed(ctx, imei)
	if err != nil {
		return false, models.WrapError(models.ErrUpstream, err.Error(), err)
	}
	return claimed, nil
}

// notifyLedger records an accepted claim on the ledger. Failures are logged and dropped.
func (s *claimService) notifyLedger(ctx context.Context, imei string) {
	receipt, err := s.ledger.RecordClaim(ctx, imei)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"imei":  imei,
			"error": err.Error(),
		}).Warn("Ledger notification for accepted claim failed, continuing with local update")
		return
	}
	s.log.WithFields(logrus.Fields{
		"imei":    imei,
		"message": receipt.Message,
	}).Debug("Accepted claim recorded on ledger")
}

func (s *claimService) countTransition(status models.ClaimStatus, affected int64) {
	if affected > 0 {
		metrics.ClaimTransitions.WithLabelValues(string(status)).Add(float64(affected))
	}
}
