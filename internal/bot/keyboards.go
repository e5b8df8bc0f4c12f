package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Reply keyboard button labels. The message handler matches on these
// exact strings, so they live in one place.
const (
	btnBrowse       = "🏠 Browse listings"
	btnLogin        = "🔑 Log in"
	btnSignup       = "📝 Sign up"
	btnLogout       = "🚪 Log out"
	btnReservations = "📊 My reservations"
	btnMyListings   = "🗂 My listings"
	btnAddListing   = "➕ Add listing"
	btnHostBookings = "📥 Guest reservations"
	btnModeration   = "🛡 Moderation queue"
	btnAllListings  = "📋 All listings"
	btnExport       = "📤 Export reservations"
	btnCancel       = "❌ Cancel"
	btnBackToMenu   = "⬅️ Back to menu"
)

func guestMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBrowse),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnLogin),
			tgbotapi.NewKeyboardButton(btnSignup),
		),
	)
}

func userMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBrowse),
			tgbotapi.NewKeyboardButton(btnReservations),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnLogout),
		),
	)
}

func hostMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnMyListings),
			tgbotapi.NewKeyboardButton(btnAddListing),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnHostBookings),
			tgbotapi.NewKeyboardButton(btnExport),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnBrowse),
			tgbotapi.NewKeyboardButton(btnLogout),
		),
	)
}

func adminMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnModeration),
			tgbotapi.NewKeyboardButton(btnAllListings),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnExport),
			tgbotapi.NewKeyboardButton(btnLogout),
		),
	)
}

func cancelKeyboard() tgbotapi.ReplyKeyboardMarkup {
	return tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(btnCancel),
		),
	)
}
