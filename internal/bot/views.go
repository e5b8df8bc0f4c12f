package bot

import (
	"context"
	"fmt"
	"strings"

	"stayfinder/internal/models"
	"stayfinder/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) showMyReservations(ctx context.Context, chatID int64) {
	sess := b.auth.Session(chatID)
	reservations, err := b.bookings.MyReservations(ctx, sess)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	if len(reservations) == 0 {
		b.sendMessage(chatID, "📊 You have no reservations yet. Browse listings to book a stay.")
		return
	}

	var text strings.Builder
	text.WriteString("📊 *Your reservations*\n\n")
	for _, res := range reservations {
		writeReservation(&text, res)
	}

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ParseMode = models.ParseModeMarkdown
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send reservations")
	}
}

func (b *Bot) showHostReservations(ctx context.Context, chatID int64) {
	decision := b.auth.Authorize(chatID, models.RoleHost)
	if !decision.Allowed {
		b.renderRoute(ctx, chatID, decision.Redirect)
		return
	}

	sess := b.auth.Session(chatID)
	reservations, err := b.bookings.HostReservations(ctx, sess)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	if len(reservations) == 0 {
		b.sendMessage(chatID, "📥 No guest reservations on your listings yet.")
		return
	}

	var text strings.Builder
	text.WriteString("📥 *Reservations on your listings*\n\n")
	for _, res := range reservations {
		writeReservation(&text, res)
		if res.CreatedBy.Email != "" {
			text.WriteString(fmt.Sprintf("   👤 %s\n", res.CreatedBy.Email))
		}
		text.WriteString("\n")
	}

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ParseMode = models.ParseModeMarkdown
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send host reservations")
	}
}

func (b *Bot) showHostListings(ctx context.Context, chatID int64) {
	decision := b.auth.Authorize(chatID, models.RoleHost)
	if !decision.Allowed {
		b.renderRoute(ctx, chatID, decision.Redirect)
		return
	}

	sess := b.auth.Session(chatID)
	listings, err := b.listings.HostListings(ctx, sess)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	if len(listings) == 0 {
		b.sendMessage(chatID, "🗂 You have no listings yet. Use "+btnAddListing+" to create one.")
		return
	}

	var text strings.Builder
	var keyboard [][]tgbotapi.InlineKeyboardButton
	text.WriteString("🗂 *Your listings*\n\n")
	for i, listing := range listings {
		text.WriteString(fmt.Sprintf("%d. *%s* %s\n", i+1, listing.Title, statusIcon(listing.EffectiveStatus())))
		text.WriteString(fmt.Sprintf("   📍 %s, $%.2f/night\n", listing.Location, listing.Price))
		if listing.EffectiveStatus() == models.ListingStatusRejected && listing.RejectionReason != "" {
			text.WriteString(fmt.Sprintf("   💬 %s\n", listing.RejectionReason))
		}
		text.WriteString("\n")

		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("%d. %s", i+1, listing.Title), "host_listing:"+listing.ID),
		})
	}

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ParseMode = models.ParseModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send host listings")
	}
}

func (b *Bot) showAllListings(ctx context.Context, chatID int64) {
	decision := b.auth.Authorize(chatID, models.RoleAdmin)
	if !decision.Allowed {
		b.renderRoute(ctx, chatID, decision.Redirect)
		return
	}

	sess := b.auth.Session(chatID)
	listings, err := b.listings.AllListings(ctx, sess)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	if len(listings) == 0 {
		b.sendMessage(chatID, "📋 No listings in the marketplace yet.")
		return
	}

	params := PaginationParams{
		ChatID:       chatID,
		Page:         0,
		Title:        "📋 *All listings*",
		ItemPrefix:   "mod:",
		PagePrefix:   "all_page:",
		BackCallback: "back_to_main",
	}
	b.renderListings(params, listings)
}

func (b *Bot) sendFilteredListings(ctx context.Context, chatID int64, location string) {
	listings, err := b.listings.PublicListings(ctx, location)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	if len(listings) == 0 {
		b.sendMessage(chatID, fmt.Sprintf("📍 Nothing found in %q. Try another location.", location))
		return
	}

	params := PaginationParams{
		ChatID:       chatID,
		Page:         0,
		Title:        fmt.Sprintf("📍 *Places in %s*", location),
		ItemPrefix:   "listing:",
		PagePrefix:   "listings_page:",
		BackCallback: "back_to_main",
	}
	b.renderListings(params, listings)
}

// showListingDetail renders a single listing with role-dependent actions.
func (b *Bot) showListingDetail(ctx context.Context, chatID int64, listingID string) {
	listing, err := b.listings.Listing(ctx, listingID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	sess := b.auth.Session(chatID)

	var text strings.Builder
	text.WriteString(fmt.Sprintf("🏠 *%s*\n\n", listing.Title))
	if listing.Description != "" {
		text.WriteString(listing.Description + "\n\n")
	}
	text.WriteString(fmt.Sprintf("📍 %s\n", listing.Location))
	text.WriteString(fmt.Sprintf("💵 $%.2f per night\n", listing.Price))
	text.WriteString(fmt.Sprintf("👥 Up to %d guests\n", listing.Guests))
	if rating := service.AverageRating(listing.SpecificRatings); rating > 0 {
		text.WriteString(fmt.Sprintf("⭐ %.1f average rating\n", rating))
	}
	if len(listing.Amenities) > 0 {
		text.WriteString("✨ " + strings.Join(listing.Amenities, ", ") + "\n")
	}

	var keyboard [][]tgbotapi.InlineKeyboardButton
	if sess.Role().CanBook() {
		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData("📅 Reserve", "reserve:"+listing.ID),
		})
	} else {
		text.WriteString("\n🔒 Log in to book this place.")
	}
	keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
		tgbotapi.NewInlineKeyboardButtonData(btnBackToMenu, "back_to_main"),
	})

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ParseMode = models.ParseModeMarkdown
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(keyboard...)
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send listing detail")
	}
}

// showModerationDetail renders a pending listing with approve and reject actions.
func (b *Bot) showModerationDetail(ctx context.Context, chatID int64, listingID string) {
	listing, err := b.listings.Listing(ctx, listingID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("🛡 *%s* %s\n\n", listing.Title, statusIcon(listing.EffectiveStatus())))
	if listing.Description != "" {
		text.WriteString(listing.Description + "\n\n")
	}
	text.WriteString(fmt.Sprintf("📍 %s\n💵 $%.2f/night\n👥 Up to %d guests\n", listing.Location, listing.Price, listing.Guests))
	if listing.RejectionReason != "" {
		text.WriteString(fmt.Sprintf("💬 Last rejection: %s\n", listing.RejectionReason))
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Approve", "approve:"+listing.ID),
			tgbotapi.NewInlineKeyboardButtonData("❌ Reject", "reject:"+listing.ID),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnBackToMenu, "back_to_main"),
		),
	)

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ParseMode = models.ParseModeMarkdown
	msg.ReplyMarkup = keyboard
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send moderation detail")
	}
}

// showHostListingDetail renders one of the host's own listings with actions.
func (b *Bot) showHostListingDetail(ctx context.Context, chatID int64, listingID string) {
	listing, err := b.listings.Listing(ctx, listingID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	var text strings.Builder
	text.WriteString(fmt.Sprintf("🗂 *%s* %s\n\n", listing.Title, statusIcon(listing.EffectiveStatus())))
	text.WriteString(fmt.Sprintf("📍 %s\n💵 $%.2f/night\n👥 Up to %d guests\n", listing.Location, listing.Price, listing.Guests))
	if listing.EffectiveStatus() == models.ListingStatusRejected && listing.RejectionReason != "" {
		text.WriteString(fmt.Sprintf("💬 Rejected: %s\n", listing.RejectionReason))
	}

	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✏️ Edit", "host_edit:"+listing.ID),
			tgbotapi.NewInlineKeyboardButtonData("🗑 Delete", "host_del:"+listing.ID),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(btnBackToMenu, "back_to_main"),
		),
	)

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ParseMode = models.ParseModeMarkdown
	msg.ReplyMarkup = keyboard
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send host listing detail")
	}
}

func writeReservation(sb *strings.Builder, res models.Reservation) {
	title := res.Listing.Title
	if title == "" {
		title = res.Listing.ID
	}
	sb.WriteString(fmt.Sprintf("🏠 *%s*\n", title))
	sb.WriteString(fmt.Sprintf("   📅 %s → %s\n", res.CheckIn.Format("Jan 2, 2006"), res.CheckOut.Format("Jan 2, 2006")))
	sb.WriteString(fmt.Sprintf("   👥 %d guests, 💵 $%.2f total\n\n", res.Guests, res.TotalCost))
}

func statusIcon(status string) string {
	switch status {
	case models.ListingStatusApproved:
		return "✅"
	case models.ListingStatusRejected:
		return "❌"
	default:
		return "⏳"
	}
}
