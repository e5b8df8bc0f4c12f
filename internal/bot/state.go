package bot

// Prompt steps for multi-message text input. A chat has at most one
// pending prompt; starting a new flow replaces the old one.
const (
	promptLoginEmail         = "login_email"
	promptLoginPassword      = "login_password"
	promptRegisterName       = "register_name"
	promptRegisterEmail      = "register_email"
	promptRegisterPassword   = "register_password"
	promptRejectReason       = "reject_reason"
	promptListingTitle       = "listing_title"
	promptListingLocation    = "listing_location"
	promptListingPrice       = "listing_price"
	promptListingGuests      = "listing_guests"
	promptListingDescription = "listing_description"
	promptListingAmenities   = "listing_amenities"
	promptListingPhotos      = "listing_photos"
	promptSearchLocation     = "search_location"
)

type promptState struct {
	Step   string
	Fields map[string]string
}

func (b *Bot) setPrompt(chatID int64, step string, fields map[string]string) {
	if fields == nil {
		fields = make(map[string]string)
	}
	b.promptsMu.Lock()
	defer b.promptsMu.Unlock()
	b.prompts[chatID] = &promptState{Step: step, Fields: fields}
}

func (b *Bot) getPrompt(chatID int64) *promptState {
	b.promptsMu.Lock()
	defer b.promptsMu.Unlock()
	return b.prompts[chatID]
}

func (b *Bot) clearPrompt(chatID int64) {
	b.promptsMu.Lock()
	defer b.promptsMu.Unlock()
	delete(b.prompts, chatID)
}
