package bot

import (
	"context"
	"strconv"
	"strings"

	"stayfinder/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleCallbackQuery(ctx context.Context, update tgbotapi.Update) {
	callback := update.CallbackQuery
	data := callback.Data
	chatID := callback.Message.Chat.ID
	messageID := callback.Message.MessageID

	// Отвечаем на callback сразу, чтобы убрать "часики"
	if err := b.tgService.AnswerCallback(callback.ID, ""); err != nil {
		b.logger.Error().Err(err).Msg("Failed to answer callback")
	}

	switch {
	case data == "noop":
		return

	case data == "back_to_main":
		b.clearPrompt(chatID)
		b.openRoute(ctx, chatID, models.RouteHome)

	case strings.HasPrefix(data, "listings_page:"):
		page, _ := strconv.Atoi(strings.TrimPrefix(data, "listings_page:"))
		b.sendListingsPage(ctx, chatID, messageID, page)

	case strings.HasPrefix(data, "listing:"):
		b.showListingDetail(ctx, chatID, strings.TrimPrefix(data, "listing:"))

	case strings.HasPrefix(data, "reserve:"):
		b.startBookingFlow(ctx, chatID, strings.TrimPrefix(data, "reserve:"))

	case strings.HasPrefix(data, "cal_nav:"):
		b.handleCalendarNav(ctx, chatID, messageID, strings.TrimPrefix(data, "cal_nav:"))

	case strings.HasPrefix(data, "date:"):
		b.handleDateSelected(ctx, chatID, messageID, strings.TrimPrefix(data, "date:"))

	case data == "guests:inc":
		b.handleGuestsChange(ctx, chatID, messageID, 1)

	case data == "guests:dec":
		b.handleGuestsChange(ctx, chatID, messageID, -1)

	case data == "change_dates":
		b.handleChangeDates(ctx, chatID, messageID)

	case data == "confirm_reservation":
		b.handleConfirmReservation(ctx, chatID, messageID)

	case data == "cancel_booking":
		b.handleCancelBooking(ctx, chatID)

	case strings.HasPrefix(data, "mod_page:"):
		page, _ := strconv.Atoi(strings.TrimPrefix(data, "mod_page:"))
		b.showModerationQueue(ctx, chatID, messageID, page)

	case strings.HasPrefix(data, "all_page:"):
		b.showAllListings(ctx, chatID)

	case strings.HasPrefix(data, "mod:"):
		b.showModerationDetail(ctx, chatID, strings.TrimPrefix(data, "mod:"))

	case strings.HasPrefix(data, "approve:"):
		b.handleApprove(ctx, chatID, strings.TrimPrefix(data, "approve:"))

	case strings.HasPrefix(data, "reject:"):
		listingID := strings.TrimPrefix(data, "reject:")
		b.setPrompt(chatID, promptRejectReason, map[string]string{"listing_id": listingID})
		b.promptText(chatID, "💬 Why is this listing being rejected? The host will see your reason.")

	case strings.HasPrefix(data, "host_listing:"):
		b.showHostListingDetail(ctx, chatID, strings.TrimPrefix(data, "host_listing:"))

	case strings.HasPrefix(data, "host_edit:"):
		b.startEditListingFlow(ctx, chatID, strings.TrimPrefix(data, "host_edit:"))

	case strings.HasPrefix(data, "host_del:"):
		b.handleHostDelete(ctx, chatID, strings.TrimPrefix(data, "host_del:"))
	}
}

func (b *Bot) handleApprove(ctx context.Context, chatID int64, listingID string) {
	sess := b.auth.Session(chatID)

	listing, err := b.listings.Listing(ctx, listingID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	if err := b.listings.Approve(ctx, sess, listing); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	b.sendMessage(chatID, "✅ Approved "+strconv.Quote(listing.Title)+". It is now publicly visible.")
	b.showModerationQueue(ctx, chatID, 0, 0)
}

func (b *Bot) handleHostDelete(ctx context.Context, chatID int64, listingID string) {
	sess := b.auth.Session(chatID)

	listing, err := b.listings.Listing(ctx, listingID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	if err := b.listings.Delete(ctx, sess, listing); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	b.sendMessage(chatID, "🗑 Deleted "+strconv.Quote(listing.Title)+".")
	b.showHostListings(ctx, chatID)
}
