package models

// ClaimStatus is the lifecycle state of an insurance record. A nil status means no claim was filed.
type ClaimStatus string

const (
	StatusPending  ClaimStatus = "pending"
	StatusAccepted ClaimStatus = "accepted"
	StatusRejected ClaimStatus = "rejected"
)

// IsDecision reports whether the status is one an admin can decide on
func (s ClaimStatus) IsDecision() bool {
	return s == StatusAccepted || s == StatusRejected
}

// InsuranceRecord is a registered device policy and the state of its claim
type InsuranceRecord struct {
	ID       uint         `gorm:"primaryKey" json:"id"`
	Name     string       `gorm:"not null" json:"name"`
	Address  string       `gorm:"not null" json:"address"`
	IMEI     string       `gorm:"column:imei;not null;index" json:"imei"`
	Status   *ClaimStatus `gorm:"type:text;default:null" json:"status"`
	Comments string       `json:"comments"`
}

func (InsuranceRecord) TableName() string {
	return "insurance"
}
