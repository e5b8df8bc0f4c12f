package bot

import (
	"context"
	"fmt"
	"strings"

	"stayfinder/internal/models"
	"stayfinder/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type PaginationParams struct {
	ChatID       int64
	MessageID    int // 0 if new message
	Page         int
	Title        string
	ItemPrefix   string
	PagePrefix   string
	BackCallback string
}

// renderPaginatedList - универсальная функция для отрисовки пагинированного списка
func (b *Bot) renderPaginatedList(params PaginationParams, totalCount int, itemsPerPage int, renderer func(startIdx, endIdx int) (string, [][]tgbotapi.InlineKeyboardButton)) {
	if itemsPerPage <= 0 {
		itemsPerPage = b.config.Bot.PaginationSize
	}
	if itemsPerPage <= 0 {
		itemsPerPage = models.DefaultPaginationSize
	}

	startIdx := params.Page * itemsPerPage
	endIdx := startIdx + itemsPerPage
	if endIdx > totalCount {
		endIdx = totalCount
	}

	totalPages := (totalCount + itemsPerPage - 1) / itemsPerPage
	if params.Page >= totalPages && totalPages > 0 {
		params.Page = totalPages - 1
		startIdx = params.Page * itemsPerPage
		endIdx = totalCount
	}

	content, keyboard := renderer(startIdx, endIdx)

	var message strings.Builder
	message.WriteString(fmt.Sprintf("%s\n\n", params.Title))
	if totalPages > 1 {
		message.WriteString(fmt.Sprintf("Page %d of %d\n\n", params.Page+1, totalPages))
	}
	message.WriteString(content)

	var navButtons []tgbotapi.InlineKeyboardButton
	if params.Page > 0 {
		navButtons = append(navButtons, tgbotapi.NewInlineKeyboardButtonData("⬅️ Prev", fmt.Sprintf("%s%d", params.PagePrefix, params.Page-1)))
	}
	if endIdx < totalCount {
		navButtons = append(navButtons, tgbotapi.NewInlineKeyboardButtonData("Next ➡️", fmt.Sprintf("%s%d", params.PagePrefix, params.Page+1)))
	}
	if len(navButtons) > 0 {
		keyboard = append(keyboard, navButtons)
	}

	if params.BackCallback != "" {
		keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{
			tgbotapi.NewInlineKeyboardButtonData(btnBackToMenu, params.BackCallback),
		})
	}

	markup := tgbotapi.NewInlineKeyboardMarkup(keyboard...)

	if params.MessageID != 0 {
		if _, err := b.tgService.EditMessage(params.ChatID, params.MessageID, message.String(), &markup); err != nil {
			b.logger.Error().Err(err).Int64("chat_id", params.ChatID).Msg("Failed to edit paginated list")
		}
	} else {
		msg := tgbotapi.NewMessage(params.ChatID, message.String())
		msg.ReplyMarkup = markup
		msg.ParseMode = models.ParseModeMarkdown
		if _, err := b.tgService.Send(msg); err != nil {
			b.logger.Error().Err(err).Int64("chat_id", params.ChatID).Msg("Failed to send paginated list")
		}
	}
}

// sendListingsPage renders one page of approved listings.
func (b *Bot) sendListingsPage(ctx context.Context, chatID int64, messageID, page int) {
	listings, err := b.listings.PublicListings(ctx, "")
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	if len(listings) == 0 {
		b.sendMessage(chatID, "No listings available yet. Check back soon!")
		return
	}

	params := PaginationParams{
		ChatID:       chatID,
		MessageID:    messageID,
		Page:         page,
		Title:        "🏠 *Places to stay*",
		ItemPrefix:   "listing:",
		PagePrefix:   "listings_page:",
		BackCallback: "back_to_main",
	}
	b.renderListings(params, listings)
}

// showModerationQueue renders pending listings for review.
func (b *Bot) showModerationQueue(ctx context.Context, chatID int64, messageID, page int) {
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

	pending := service.FilterByStatus(listings, models.ListingStatusPending)
	if len(pending) == 0 {
		b.sendMessage(chatID, "🛡 Nothing awaiting review.")
		return
	}

	params := PaginationParams{
		ChatID:       chatID,
		MessageID:    messageID,
		Page:         page,
		Title:        "🛡 *Awaiting review*",
		ItemPrefix:   "mod:",
		PagePrefix:   "mod_page:",
		BackCallback: "back_to_main",
	}
	b.renderListings(params, pending)
}

func (b *Bot) renderListings(params PaginationParams, listings []models.Listing) {
	b.renderPaginatedList(params, len(listings), b.config.Bot.PaginationSize, func(startIdx, endIdx int) (string, [][]tgbotapi.InlineKeyboardButton) {
		var content strings.Builder
		var keyboard [][]tgbotapi.InlineKeyboardButton

		for i, listing := range listings[startIdx:endIdx] {
			content.WriteString(fmt.Sprintf("%d. *%s*\n", startIdx+i+1, listing.Title))
			content.WriteString(fmt.Sprintf("   📍 %s\n", listing.Location))
			content.WriteString(fmt.Sprintf("   💵 $%.2f/night, up to %d guests\n", listing.Price, listing.Guests))
			if rating := service.AverageRating(listing.SpecificRatings); rating > 0 {
				content.WriteString(fmt.Sprintf("   ⭐ %.1f\n", rating))
			}
			content.WriteString("\n")

			btn := tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("%d. %s", startIdx+i+1, listing.Title),
				params.ItemPrefix+listing.ID,
			)
			keyboard = append(keyboard, []tgbotapi.InlineKeyboardButton{btn})
		}

		return content.String(), keyboard
	})
}
