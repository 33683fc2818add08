package services

import (
	"strings"
	"time"

	"plmsourcing/internal/common"
	"plmsourcing/internal/models"
)

var allowedQuoteTransitions = map[models.QuoteStatus][]models.QuoteStatus{
	models.QuoteStatusDraft:       {models.QuoteStatusSubmitted},
	models.QuoteStatusSubmitted:   {models.QuoteStatusUnderReview, models.QuoteStatusApproved, models.QuoteStatusRejected},
	models.QuoteStatusUnderReview: {models.QuoteStatusApproved, models.QuoteStatusRejected, models.QuoteStatusSubmitted},
	models.QuoteStatusApproved:    {models.QuoteStatusUnderReview},
	models.QuoteStatusRejected:    {models.QuoteStatusSubmitted, models.QuoteStatusUnderReview},
}

// CanTransition reports whether a quote may move from one status to another.
// Re-asserting the current status is always allowed.
func CanTransition(from, to models.QuoteStatus) bool {
	if from == to {
		return true
	}
	for _, next := range allowedQuoteTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// nextStatuses returns the statuses reachable from status in one step
func nextStatuses(status models.QuoteStatus) []models.QuoteStatus {
	next := allowedQuoteTransitions[status]
	out := make([]models.QuoteStatus, len(next))
	copy(out, next)
	return out
}

// checkTransition validates the move of quote to target as of now
func checkTransition(quote *models.VendorQuote, target models.QuoteStatus, now time.Time) error {
	if !CanTransition(quote.Status, target) {
		allowed := make([]string, 0, 4)
		for _, next := range nextStatuses(quote.Status) {
			allowed = append(allowed, string(next))
		}
		return common.NewInvalidArgument("Invalid quote status transition.").
			WithDetail("current_status", string(quote.Status)).
			WithDetail("allowed_statuses", strings.Join(allowed, ","))
	}
	if target == models.QuoteStatusApproved && quote.ValidTo != nil && quoteExpired(*quote.ValidTo, now) {
		return common.NewInvalidArgument("Expired quote cannot be approved.")
	}
	return nil
}

// quoteExpired compares calendar dates; a quote valid to today is still approvable
func quoteExpired(validTo, now time.Time) bool {
	today := dateOf(now)
	return dateOf(validTo).Before(today)
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// applyTransition sets the status and the workflow fields it implies
func applyTransition(quote *models.VendorQuote, change *models.QuoteStatusChange, now time.Time) {
	actor := change.Actor
	quote.Status = change.Status
	switch change.Status {
	case models.QuoteStatusSubmitted:
		quote.SubmittedBy = &actor
		quote.SubmittedAt = &now
	case models.QuoteStatusUnderReview, models.QuoteStatusApproved, models.QuoteStatusRejected:
		quote.ReviewedBy = &actor
		quote.ReviewedAt = &now
	}
	quote.ApprovalComment = change.Comment
}
