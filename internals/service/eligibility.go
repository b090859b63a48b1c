package service

import "university-library/internals/models"

// Eligibility is the outcome of the borrowing policy for one user and book.
type Eligibility struct {
	IsEligible bool   `json:"is_eligible"`
	Reason     string `json:"reason,omitempty"`
}

// EvaluateEligibility decides whether user may borrow book. Pure function
// over the two snapshots, no side effects.
func EvaluateEligibility(user *models.User, book *models.Book) Eligibility {
	if book.AvailableCopies <= 0 {
		return Eligibility{IsEligible: false, Reason: "no copies available"}
	}
	if user.Status != models.StatusApproved {
		return Eligibility{IsEligible: false, Reason: "account not approved"}
	}
	return Eligibility{IsEligible: true}
}
