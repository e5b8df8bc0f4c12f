package bot

import (
	"errors"
	"fmt"

	"stayfinder/internal/api"
	"stayfinder/internal/booking"
	"stayfinder/internal/service"
)

func (b *Bot) getErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var guestErr *booking.GuestLimitError
	if errors.As(err, &guestErr) {
		return fmt.Sprintf("⚠️ Maximum guests exceeded. Limit is %d.", guestErr.Limit)
	}

	if errors.Is(err, booking.ErrInvalidDateRange) {
		return "⚠️ Check-out must be after check-in. Pick the dates again."
	}

	if errors.Is(err, service.ErrUnauthenticated) {
		return "🔒 You need to log in first. Use /login."
	}

	if errors.Is(err, service.ErrUnauthorized) {
		return "⛔ Your account is not allowed to do that."
	}

	if errors.Is(err, service.ErrSubmitInProgress) {
		return "⏳ Your reservation is already being submitted. One moment."
	}

	if errors.Is(err, service.ErrDraftNotReady) {
		return "⚠️ The booking is not complete yet. Pick both dates first."
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return "⚠️ " + apiErr.Message
		}
		if apiErr.StatusCode == 0 {
			return "📡 Cannot reach the marketplace right now. Please try again in a minute."
		}
		return "❌ The marketplace rejected the request. Please try again."
	}

	// Default error message
	return "❌ Something went wrong while handling your request. Please try again later."
}
