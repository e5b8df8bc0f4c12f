package bot

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stayfinder/internal/booking"
	"stayfinder/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// startBookingFlow opens a fresh draft for a listing and asks for dates.
func (b *Bot) startBookingFlow(ctx context.Context, chatID int64, listingID string) {
	decision := b.auth.Authorize(chatID, models.RoleUser)
	if !decision.Allowed {
		if b.metrics != nil {
			b.metrics.GuardRedirects.WithLabelValues(decision.Redirect).Inc()
		}
		b.renderRoute(ctx, chatID, decision.Redirect)
		return
	}

	listing, err := b.listings.Listing(ctx, listingID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	draft := booking.NewDraft(chatID, listing)
	if err := b.drafts.SetDraft(ctx, draft); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to store draft")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	now := time.Now()
	text := fmt.Sprintf("📅 Booking *%s*\n\nPick your check-in date:", draft.ListingName)
	keyboard := GenerateCalendarKeyboard(now.Year(), int(now.Month()))
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = models.ParseModeMarkdown
	msg.ReplyMarkup = keyboard
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send calendar")
	}
}

// handleCalendarNav swaps the displayed month in place.
func (b *Bot) handleCalendarNav(ctx context.Context, chatID int64, messageID int, yearMonth string) {
	t, err := time.Parse("2006-01", yearMonth)
	if err != nil {
		return
	}

	draft, err := b.drafts.GetDraft(ctx, chatID)
	if err != nil || draft == nil {
		b.sendMessage(chatID, "That booking has expired. Start again from the listing.")
		return
	}

	prompt := "Pick your check-in date:"
	if !draft.CheckIn.IsZero() && draft.CheckOut.IsZero() {
		prompt = "Pick your check-out date:"
	}
	text := fmt.Sprintf("📅 Booking *%s*\n\n%s", draft.ListingName, prompt)
	keyboard := GenerateCalendarKeyboard(t.Year(), int(t.Month()))
	if _, err := b.tgService.EditMessage(chatID, messageID, text, &keyboard); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to navigate calendar")
	}
}

// handleDateSelected fills check-in first, then check-out.
func (b *Bot) handleDateSelected(ctx context.Context, chatID int64, messageID int, dateStr string) {
	date, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return
	}

	draft, err := b.drafts.GetDraft(ctx, chatID)
	if err != nil || draft == nil {
		b.sendMessage(chatID, "That booking has expired. Start again from the listing.")
		return
	}

	if draft.CheckIn.IsZero() || !draft.CheckOut.IsZero() {
		// First date of a pair, or a restart after both were set.
		draft.CheckOut = time.Time{}
		draft.SetCheckIn(date)

		if err := b.drafts.SetDraft(ctx, draft); err != nil {
			b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to store draft")
		}

		text := fmt.Sprintf("📅 Booking *%s*\n\nCheck-in: %s\nNow pick your check-out date:", draft.ListingName, date.Format("Jan 2, 2006"))
		keyboard := GenerateCalendarKeyboard(date.Year(), int(date.Month()))
		if _, err := b.tgService.EditMessage(chatID, messageID, text, &keyboard); err != nil {
			b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to update calendar")
		}
		return
	}

	if max := b.config.Bot.MaxStayNights; max > 0 && booking.Nights(draft.CheckIn, date) > max {
		b.sendMessage(chatID, fmt.Sprintf("Stays are limited to %d nights. Pick an earlier check-out date.", max))
		return
	}

	draft.SetCheckOut(date)
	if err := b.drafts.SetDraft(ctx, draft); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to store draft")
	}
	b.showDraftSummary(ctx, chatID, messageID, draft)
}

// handleGuestsChange bumps the guest count up or down and re-renders.
func (b *Bot) handleGuestsChange(ctx context.Context, chatID int64, messageID int, delta int) {
	draft, err := b.drafts.GetDraft(ctx, chatID)
	if err != nil || draft == nil {
		b.sendMessage(chatID, "That booking has expired. Start again from the listing.")
		return
	}

	draft.SetGuests(draft.Guests + delta)
	if err := b.drafts.SetDraft(ctx, draft); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to store draft")
	}
	b.showDraftSummary(ctx, chatID, messageID, draft)
}

// handleConfirmReservation submits the draft. The draft state machine and
// the service's in-flight set together make a double tap harmless.
func (b *Bot) handleConfirmReservation(ctx context.Context, chatID int64, messageID int) {
	draft, err := b.drafts.GetDraft(ctx, chatID)
	if err != nil || draft == nil {
		b.sendMessage(chatID, "That booking has expired. Start again from the listing.")
		return
	}

	sess := b.auth.Session(chatID)
	res, err := b.bookings.Submit(ctx, draft, sess)

	// Persist the post-submit state so a retry after failure still works.
	if serr := b.drafts.SetDraft(ctx, draft); serr != nil {
		b.logger.Error().Err(serr).Int64("chat_id", chatID).Msg("Failed to store draft")
	}

	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		b.showDraftSummary(ctx, chatID, messageID, draft)
		return
	}

	if b.metrics != nil {
		b.metrics.ReservationsCreated.WithLabelValues(draft.ListingName).Inc()
	}
	if err := b.drafts.ClearDraft(ctx, chatID); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to clear draft")
	}

	text := fmt.Sprintf(
		"🎉 *Reservation confirmed!*\n\n🏠 %s\n📅 %s → %s\n👥 %d guests\n💵 $%.2f total",
		draft.ListingName,
		res.CheckIn.Format("Jan 2, 2006"),
		res.CheckOut.Format("Jan 2, 2006"),
		res.Guests,
		res.TotalCost,
	)
	if _, err := b.tgService.EditMessage(chatID, messageID, text, nil); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to confirm reservation")
	}
}

// handleCancelBooking drops the draft and returns to the menu.
func (b *Bot) handleCancelBooking(ctx context.Context, chatID int64) {
	if err := b.drafts.ClearDraft(ctx, chatID); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to clear draft")
	}
	b.sendMessage(chatID, "Booking cancelled.")
	b.openRoute(ctx, chatID, models.RouteHome)
}

// showDraftSummary renders the draft with its live quote and actions.
func (b *Bot) showDraftSummary(ctx context.Context, chatID int64, messageID int, draft *booking.Draft) {
	var text strings.Builder
	text.WriteString(fmt.Sprintf("📝 *Booking %s*\n\n", draft.ListingName))
	text.WriteString(fmt.Sprintf("📅 Check-in: %s\n", formatDraftDate(draft.CheckIn)))
	text.WriteString(fmt.Sprintf("📅 Check-out: %s\n", formatDraftDate(draft.CheckOut)))
	text.WriteString(fmt.Sprintf("👥 Guests: %d\n", draft.Guests))

	quote, err := b.bookings.Quote(draft)
	switch {
	case err != nil:
		text.WriteString("\n⚠️ " + b.getErrorMessage(err))
	case quote.Complete:
		text.WriteString(fmt.Sprintf("\n🌙 %d nights × $%.2f × %d guests\n💵 *Total: $%.2f*", quote.Nights, draft.Nightly, draft.Guests, quote.TotalCost))
	default:
		text.WriteString("\nPick both dates to see the total.")
	}

	rows := [][]tgbotapi.InlineKeyboardButton{
		{
			tgbotapi.NewInlineKeyboardButtonData("➖", "guests:dec"),
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("👥 %d", draft.Guests), "noop"),
			tgbotapi.NewInlineKeyboardButtonData("➕", "guests:inc"),
		},
		{
			tgbotapi.NewInlineKeyboardButtonData("📅 Change dates", "change_dates"),
		},
	}
	if draft.State == booking.StateValid || draft.State == booking.StateFailed {
		rows = append(rows, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("✅ Confirm reservation", "confirm_reservation"),
		})
	}
	rows = append(rows, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData("❌ Cancel booking", "cancel_booking"),
	})
	keyboard := tgbotapi.NewInlineKeyboardMarkup(rows...)

	if messageID != 0 {
		if _, err := b.tgService.EditMessage(chatID, messageID, text.String(), &keyboard); err != nil {
			b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to update draft summary")
		}
		return
	}
	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ParseMode = models.ParseModeMarkdown
	msg.ReplyMarkup = keyboard
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send draft summary")
	}
}

// handleChangeDates clears the chosen dates and shows the calendar again.
func (b *Bot) handleChangeDates(ctx context.Context, chatID int64, messageID int) {
	draft, err := b.drafts.GetDraft(ctx, chatID)
	if err != nil || draft == nil {
		b.sendMessage(chatID, "That booking has expired. Start again from the listing.")
		return
	}

	draft.CheckIn = time.Time{}
	draft.CheckOut = time.Time{}
	draft.State = booking.StateEmpty
	draft.Quote = booking.Quote{}
	draft.LastError = ""
	if err := b.drafts.SetDraft(ctx, draft); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to store draft")
	}

	now := time.Now()
	text := fmt.Sprintf("📅 Booking *%s*\n\nPick your check-in date:", draft.ListingName)
	keyboard := GenerateCalendarKeyboard(now.Year(), int(now.Month()))
	if _, err := b.tgService.EditMessage(chatID, messageID, text, &keyboard); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to show calendar")
	}
}

func formatDraftDate(t time.Time) string {
	if t.IsZero() {
		return "not set"
	}
	return t.Format("Jan 2, 2006")
}
