package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"stayfinder/internal/models"
	"stayfinder/internal/service"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
)

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID
	text := update.Message.Text
	l := zerolog.Ctx(ctx)

	l.Debug().
		Int64("chat_id", chatID).
		Str("username", update.Message.From.UserName).
		Str("text", text).
		Msg("Handling message")

	if update.Message.IsCommand() {
		b.handleCommand(ctx, update)
		return
	}

	if len(update.Message.Photo) > 0 {
		if prompt := b.getPrompt(chatID); prompt != nil && prompt.Step == promptListingPhotos {
			b.handlePromptPhoto(ctx, chatID, update.Message.Photo, prompt)
		}
		return
	}

	switch text {
	case btnCancel, btnBackToMenu:
		b.clearPrompt(chatID)
		b.openRoute(ctx, chatID, models.RouteHome)
		return
	}

	if prompt := b.getPrompt(chatID); prompt != nil {
		b.handlePromptInput(ctx, chatID, text, prompt)
		return
	}

	switch text {
	case btnBrowse:
		b.sendListingsPage(ctx, chatID, 0, 0)

	case btnLogin:
		b.startLoginFlow(chatID)

	case btnSignup:
		b.startRegisterFlow(chatID)

	case btnLogout:
		b.handleLogout(ctx, chatID)

	case btnReservations:
		b.openRoute(ctx, chatID, models.RouteReservations)

	case btnMyListings:
		b.showHostListings(ctx, chatID)

	case btnAddListing:
		b.startCreateListingFlow(ctx, chatID)

	case btnHostBookings:
		b.showHostReservations(ctx, chatID)

	case btnModeration:
		b.showModerationQueue(ctx, chatID, 0, 0)

	case btnAllListings:
		b.showAllListings(ctx, chatID)

	case btnExport:
		b.handleExport(ctx, chatID)

	default:
		b.openRoute(ctx, chatID, models.RouteHome)
	}
}

func (b *Bot) handleCommand(ctx context.Context, update tgbotapi.Update) {
	chatID := update.Message.Chat.ID
	command := update.Message.Command()

	if b.metrics != nil {
		b.metrics.CommandsProcessed.WithLabelValues(command).Inc()
	}

	switch command {
	case "start", "help":
		b.clearPrompt(chatID)
		b.handleStart(ctx, chatID, update.Message.From.FirstName)

	case "login":
		b.startLoginFlow(chatID)

	case "register":
		b.startRegisterFlow(chatID)

	case "logout":
		b.handleLogout(ctx, chatID)

	case "listings":
		arg := strings.TrimSpace(update.Message.CommandArguments())
		if arg != "" {
			b.sendFilteredListings(ctx, chatID, arg)
			return
		}
		b.sendListingsPage(ctx, chatID, 0, 0)

	case "search":
		b.setPrompt(chatID, promptSearchLocation, nil)
		b.promptText(chatID, "📍 Which location are you looking for?")

	case "reservations":
		b.openRoute(ctx, chatID, models.RouteReservations)

	case "host":
		b.openRoute(ctx, chatID, models.RouteHost)

	case "admin":
		b.openRoute(ctx, chatID, models.RouteAdmin)

	case "export":
		b.handleExport(ctx, chatID)

	default:
		b.sendMessage(chatID, "Unknown command. Use /start to see the menu.")
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64, firstName string) {
	sess := b.auth.Session(chatID)
	if sess == nil {
		greeting := "👋 Welcome to StayFinder!\n\nBrowse places to stay, or log in to book one."
		if firstName != "" {
			greeting = fmt.Sprintf("👋 Hi %s, welcome to StayFinder!\n\nBrowse places to stay, or log in to book one.", firstName)
		}
		if _, err := b.tgService.SendWithKeyboard(chatID, greeting, guestMenuKeyboard()); err != nil {
			b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send greeting")
		}
		return
	}
	b.openRoute(ctx, chatID, models.RouteHome)
}

// requiredRoleFor maps a view to the role it demands. An empty role marks
// a public view that skips the access check entirely.
func requiredRoleFor(route string) (models.Role, bool) {
	switch route {
	case models.RouteAdmin:
		return models.RoleAdmin, true
	case models.RouteHost:
		return models.RoleHost, true
	case models.RouteReservations:
		// Any signed-in account may see its own reservations.
		return models.RoleGuest, true
	default:
		return models.RoleGuest, false
	}
}

// openRoute runs the access check for a view and renders either the view
// itself or the view the check redirects to.
func (b *Bot) openRoute(ctx context.Context, chatID int64, route string) {
	required, protected := requiredRoleFor(route)
	if protected {
		decision := b.auth.Authorize(chatID, required)
		if !decision.Allowed {
			if b.metrics != nil {
				b.metrics.GuardRedirects.WithLabelValues(decision.Redirect).Inc()
			}
			b.renderRoute(ctx, chatID, decision.Redirect)
			return
		}
	}
	b.renderRoute(ctx, chatID, route)
}

func (b *Bot) renderRoute(ctx context.Context, chatID int64, route string) {
	switch route {
	case models.RouteLogin:
		msg := "🔒 You need to log in first."
		if _, err := b.tgService.SendWithKeyboard(chatID, msg, guestMenuKeyboard()); err != nil {
			b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to render login view")
		}

	case models.RouteReservations:
		b.showMyReservations(ctx, chatID)

	case models.RouteHost:
		b.showHostHome(ctx, chatID)

	case models.RouteAdmin:
		b.showAdminHome(ctx, chatID)

	default:
		b.showHome(ctx, chatID)
	}
}

func (b *Bot) showHome(ctx context.Context, chatID int64) {
	sess := b.auth.Session(chatID)

	var text string
	var keyboard tgbotapi.ReplyKeyboardMarkup
	switch sess.Role() {
	case models.RoleAdmin:
		text = fmt.Sprintf("🛡 Signed in as *%s* (admin).", sess.Identity.Name)
		keyboard = adminMenuKeyboard()
	case models.RoleHost:
		text = fmt.Sprintf("🏡 Signed in as *%s* (host).", sess.Identity.Name)
		keyboard = hostMenuKeyboard()
	case models.RoleUser:
		text = fmt.Sprintf("👤 Signed in as *%s*.", sess.Identity.Name)
		keyboard = userMenuKeyboard()
	default:
		text = "🏠 StayFinder. Browse places to stay, or log in to book one."
		keyboard = guestMenuKeyboard()
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = models.ParseModeMarkdown
	msg.ReplyMarkup = keyboard
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to render home view")
	}
}

func (b *Bot) showHostHome(ctx context.Context, chatID int64) {
	sess := b.auth.Session(chatID)
	listings, err := b.listings.HostListings(ctx, sess)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	counts := service.CountByStatus(listings)
	text := fmt.Sprintf(
		"🏡 *Host dashboard*\n\nListings: %d\n✅ Approved: %d\n⏳ Pending: %d\n❌ Rejected: %d",
		len(listings), counts[models.ListingStatusApproved], counts[models.ListingStatusPending], counts[models.ListingStatusRejected],
	)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = models.ParseModeMarkdown
	msg.ReplyMarkup = hostMenuKeyboard()
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to render host view")
	}
}

func (b *Bot) showAdminHome(ctx context.Context, chatID int64) {
	sess := b.auth.Session(chatID)
	listings, err := b.listings.AllListings(ctx, sess)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	counts := service.CountByStatus(listings)
	text := fmt.Sprintf(
		"🛡 *Moderation dashboard*\n\nListings: %d\n⏳ Awaiting review: %d\n✅ Approved: %d\n❌ Rejected: %d",
		len(listings), counts[models.ListingStatusPending], counts[models.ListingStatusApproved], counts[models.ListingStatusRejected],
	)

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = models.ParseModeMarkdown
	msg.ReplyMarkup = adminMenuKeyboard()
	if _, err := b.tgService.Send(msg); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to render admin view")
	}
}

// ---- auth flows ----

func (b *Bot) startLoginFlow(chatID int64) {
	b.setPrompt(chatID, promptLoginEmail, nil)
	b.promptText(chatID, "📧 Enter your email:")
}

func (b *Bot) startRegisterFlow(chatID int64) {
	b.setPrompt(chatID, promptRegisterName, nil)
	b.promptText(chatID, "👤 What name should we use for your account?")
}

func (b *Bot) handleLogout(ctx context.Context, chatID int64) {
	if err := b.auth.Logout(ctx, chatID); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}
	b.clearPrompt(chatID)
	if err := b.drafts.ClearDraft(ctx, chatID); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to clear draft on logout")
	}
	if _, err := b.tgService.SendWithKeyboard(chatID, "👋 You are logged out.", guestMenuKeyboard()); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to confirm logout")
	}
}

func (b *Bot) handlePromptInput(ctx context.Context, chatID int64, text string, prompt *promptState) {
	text = strings.TrimSpace(text)
	if text == "" {
		b.sendMessage(chatID, "Please send a text reply, or tap "+btnCancel+".")
		return
	}

	switch prompt.Step {
	case promptLoginEmail:
		prompt.Fields["email"] = text
		b.setPrompt(chatID, promptLoginPassword, prompt.Fields)
		b.promptText(chatID, "🔑 Enter your password:")

	case promptLoginPassword:
		b.clearPrompt(chatID)
		sess, err := b.auth.Login(ctx, chatID, prompt.Fields["email"], text)
		if err != nil {
			b.sendMessage(chatID, b.getErrorMessage(err))
			b.startLoginFlow(chatID)
			return
		}
		b.sendMessage(chatID, fmt.Sprintf("✅ Welcome back, %s!", sess.Identity.Name))
		b.openRoute(ctx, chatID, models.RouteHome)

	case promptRegisterName:
		if len(text) < 2 {
			b.sendMessage(chatID, "That name is too short. Please use at least 2 characters.")
			return
		}
		prompt.Fields["name"] = text
		b.setPrompt(chatID, promptRegisterEmail, prompt.Fields)
		b.promptText(chatID, "📧 Enter your email:")

	case promptRegisterEmail:
		if !strings.Contains(text, "@") {
			b.sendMessage(chatID, "That does not look like an email address. Try again.")
			return
		}
		prompt.Fields["email"] = text
		b.setPrompt(chatID, promptRegisterPassword, prompt.Fields)
		b.promptText(chatID, "🔑 Choose a password (6+ characters):")

	case promptRegisterPassword:
		if len(text) < 6 {
			b.sendMessage(chatID, "Password must be at least 6 characters.")
			return
		}
		b.clearPrompt(chatID)
		sess, err := b.auth.Register(ctx, chatID, prompt.Fields["email"], text, prompt.Fields["name"])
		if err != nil {
			b.sendMessage(chatID, b.getErrorMessage(err))
			return
		}
		b.sendMessage(chatID, fmt.Sprintf("🎉 Account created. Welcome, %s!", sess.Identity.Name))
		b.openRoute(ctx, chatID, models.RouteHome)

	case promptSearchLocation:
		b.clearPrompt(chatID)
		b.sendFilteredListings(ctx, chatID, text)

	case promptRejectReason:
		b.clearPrompt(chatID)
		b.finishReject(ctx, chatID, prompt.Fields["listing_id"], text)

	case promptListingTitle:
		if !editingSkip(prompt, text) {
			prompt.Fields["title"] = text
		}
		b.setPrompt(chatID, promptListingLocation, prompt.Fields)
		b.promptText(chatID, "📍 Where is it located?"+editHint(prompt))

	case promptListingLocation:
		if !editingSkip(prompt, text) {
			prompt.Fields["location"] = text
		}
		b.setPrompt(chatID, promptListingPrice, prompt.Fields)
		b.promptText(chatID, "💵 Price per night (e.g. 120):"+editHint(prompt))

	case promptListingPrice:
		if !editingSkip(prompt, text) {
			price, err := strconv.ParseFloat(text, 64)
			if err != nil || price <= 0 {
				b.sendMessage(chatID, "Please send a positive number, e.g. 120 or 99.50.")
				return
			}
			prompt.Fields["price"] = text
		}
		b.setPrompt(chatID, promptListingGuests, prompt.Fields)
		b.promptText(chatID, "👥 Maximum number of guests:"+editHint(prompt))

	case promptListingGuests:
		if !editingSkip(prompt, text) {
			guests, err := strconv.Atoi(text)
			if err != nil || guests < 1 {
				b.sendMessage(chatID, "Please send a whole number of at least 1.")
				return
			}
			prompt.Fields["guests"] = text
		}
		b.setPrompt(chatID, promptListingDescription, prompt.Fields)
		b.promptText(chatID, "📝 Add a short description:"+editHint(prompt))

	case promptListingDescription:
		if !editingSkip(prompt, text) {
			prompt.Fields["description"] = text
		}
		b.setPrompt(chatID, promptListingAmenities, prompt.Fields)
		b.promptText(chatID, "✨ List amenities separated by commas, or send `skip`.\nAvailable: "+strings.Join(b.config.Amenities, ", "))

	case promptListingAmenities:
		if !strings.EqualFold(text, "skip") {
			prompt.Fields["amenities"] = text
		}
		b.setPrompt(chatID, promptListingPhotos, prompt.Fields)
		b.promptText(chatID, "📷 Send photos, or paste URLs separated by spaces. Send `skip` if there are none. Photos over 5 MB are dropped.")

	case promptListingPhotos:
		if !strings.EqualFold(text, "skip") && !strings.EqualFold(text, "done") {
			if prompt.Fields["photos"] != "" {
				prompt.Fields["photos"] += " " + text
			} else {
				prompt.Fields["photos"] = text
			}
		}
		b.clearPrompt(chatID)
		if prompt.Fields["listing_id"] != "" {
			b.finishEditListing(ctx, chatID, prompt.Fields)
			return
		}
		b.finishCreateListing(ctx, chatID, prompt.Fields)

	default:
		b.clearPrompt(chatID)
		b.openRoute(ctx, chatID, models.RouteHome)
	}
}

func (b *Bot) promptText(chatID int64, text string) {
	if _, err := b.tgService.SendWithKeyboard(chatID, text, cancelKeyboard()); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send prompt")
	}
}

// ---- host flows ----

func (b *Bot) startCreateListingFlow(ctx context.Context, chatID int64) {
	decision := b.auth.Authorize(chatID, models.RoleHost)
	if !decision.Allowed {
		b.renderRoute(ctx, chatID, decision.Redirect)
		return
	}
	b.setPrompt(chatID, promptListingTitle, nil)
	b.promptText(chatID, "🏠 What is the listing called?")
}

func (b *Bot) finishCreateListing(ctx context.Context, chatID int64, fields map[string]string) {
	sess := b.auth.Session(chatID)

	price, _ := strconv.ParseFloat(fields["price"], 64)
	guests, _ := strconv.Atoi(fields["guests"])

	listing := &models.Listing{
		Title:       fields["title"],
		Location:    fields["location"],
		Price:       price,
		Guests:      guests,
		Description: fields["description"],
	}
	if amenities := fields["amenities"]; amenities != "" {
		listing.Amenities = b.matchAmenities(amenities)
	}
	if photos := strings.Fields(fields["photos"]); len(photos) > 0 {
		listing.Images = b.convertPhotoURLs(ctx, photos)
	}

	if err := b.listings.Create(ctx, sess, listing); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	b.sendMessage(chatID, "✅ Listing submitted. It will appear publicly once approved.")
	b.openRoute(ctx, chatID, models.RouteHost)
}

// startEditListingFlow walks the same prompt chain as creation; `skip`
// keeps the stored value of the field being asked about.
func (b *Bot) startEditListingFlow(ctx context.Context, chatID int64, listingID string) {
	decision := b.auth.Authorize(chatID, models.RoleHost)
	if !decision.Allowed {
		b.renderRoute(ctx, chatID, decision.Redirect)
		return
	}

	listing, err := b.listings.Listing(ctx, listingID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	b.setPrompt(chatID, promptListingTitle, map[string]string{"listing_id": listing.ID})
	b.promptText(chatID, fmt.Sprintf("✏️ Editing %q. Send a new title, or `skip` to keep the current one.", listing.Title))
}

func (b *Bot) finishEditListing(ctx context.Context, chatID int64, fields map[string]string) {
	sess := b.auth.Session(chatID)

	listing, err := b.listings.Listing(ctx, fields["listing_id"])
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	if v := fields["title"]; v != "" {
		listing.Title = v
	}
	if v := fields["location"]; v != "" {
		listing.Location = v
	}
	if v := fields["price"]; v != "" {
		listing.Price, _ = strconv.ParseFloat(v, 64)
	}
	if v := fields["guests"]; v != "" {
		listing.Guests, _ = strconv.Atoi(v)
	}
	if v := fields["description"]; v != "" {
		listing.Description = v
	}
	if v := fields["amenities"]; v != "" {
		listing.Amenities = b.matchAmenities(v)
	}
	if photos := strings.Fields(fields["photos"]); len(photos) > 0 {
		listing.Images = b.convertPhotoURLs(ctx, photos)
	}

	if err := b.listings.Update(ctx, sess, listing); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	b.sendMessage(chatID, "✏️ Listing updated. Changes go through review again before showing publicly.")
	b.openRoute(ctx, chatID, models.RouteHost)
}

// editingSkip reports whether the reply keeps the stored value while an
// existing listing is being edited.
func editingSkip(prompt *promptState, text string) bool {
	return prompt.Fields["listing_id"] != "" && strings.EqualFold(text, "skip")
}

func editHint(prompt *promptState) string {
	if prompt.Fields["listing_id"] == "" {
		return ""
	}
	return " Send `skip` to keep the current value."
}

// handlePromptPhoto turns an uploaded photo into a Telegram file URL so
// the data-URL conversion can fetch it like any pasted link.
func (b *Bot) handlePromptPhoto(ctx context.Context, chatID int64, photos []tgbotapi.PhotoSize, prompt *promptState) {
	// Telegram orders photo sizes smallest first.
	largest := photos[len(photos)-1]
	url, err := b.tgService.FileURL(largest.FileID)
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to resolve photo file")
		b.sendMessage(chatID, "Could not read that photo. Send another one or paste a URL.")
		return
	}

	if prompt.Fields["photos"] != "" {
		prompt.Fields["photos"] += " "
	}
	prompt.Fields["photos"] += url
	b.setPrompt(chatID, promptListingPhotos, prompt.Fields)
	b.promptText(chatID, "📷 Photo added. Send another, or send `done`.")
}

func (b *Bot) finishReject(ctx context.Context, chatID int64, listingID, reason string) {
	sess := b.auth.Session(chatID)

	listing, err := b.listings.Listing(ctx, listingID)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	if err := b.listings.Reject(ctx, sess, listing, reason); err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	b.sendMessage(chatID, fmt.Sprintf("❌ Rejected %q.", listing.Title))
	b.showModerationQueue(ctx, chatID, 0, 0)
}

// matchAmenities keeps only the labels from the configured amenity list,
// matched case-insensitively.
func (b *Bot) matchAmenities(input string) []string {
	var matched []string
	for _, raw := range strings.Split(input, ",") {
		candidate := strings.TrimSpace(raw)
		for _, known := range b.config.Amenities {
			if strings.EqualFold(candidate, known) {
				matched = append(matched, known)
				break
			}
		}
	}
	return matched
}
