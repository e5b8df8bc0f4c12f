package bot

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stayfinder/internal/models"
	"stayfinder/internal/session"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xuri/excelize/v2"
)

// handleExport builds an Excel file with the reservations the caller is
// allowed to see and sends it back as a document. Hosts get their own
// listings' reservations, admins get every reservation.
func (b *Bot) handleExport(ctx context.Context, chatID int64) {
	decision := b.auth.Authorize(chatID, models.RoleGuest)
	if !decision.Allowed {
		b.renderRoute(ctx, chatID, decision.Redirect)
		return
	}

	sess := b.auth.Session(chatID)
	if !sess.Role().CanExport() {
		b.renderRoute(ctx, chatID, session.HomeRoute(sess))
		return
	}

	reservations, err := b.bookings.HostReservations(ctx, sess)
	if err != nil {
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	if len(reservations) == 0 {
		b.sendMessage(chatID, "📤 Nothing to export yet.")
		return
	}

	filePath, err := b.exportReservationsToExcel(reservations)
	if err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to export reservations")
		b.sendMessage(chatID, b.getErrorMessage(err))
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(filePath))
	doc.Caption = fmt.Sprintf("📤 %d reservations", len(reservations))
	if _, err := b.tgService.Send(doc); err != nil {
		b.logger.Error().Err(err).Int64("chat_id", chatID).Msg("Failed to send export document")
	}
}

// exportReservationsToExcel создает Excel файл с данными о бронированиях
func (b *Bot) exportReservationsToExcel(reservations []models.Reservation) (string, error) {
	// Создаем папку для экспорта, если не существует
	if err := os.MkdirAll(b.config.Exports.Path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Reservations"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{
		"ID", "Listing", "Location", "Check-in", "Check-out",
		"Nights", "Guests", "Total", "Guest Email", "Created At",
	}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for i, res := range reservations {
		row := i + 2
		nights := int(res.CheckOut.Sub(res.CheckIn).Hours() / 24)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), res.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), res.Listing.Title)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), res.Listing.Location)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), res.CheckIn.Format("2006-01-02"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), res.CheckOut.Format("2006-01-02"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), nights)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), res.Guests)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), res.TotalCost)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("I%d", row), res.CreatedBy.Email)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("J%d", row), res.CreatedAt.Format("2006-01-02 15:04"))
	}

	// Настраиваем ширину колонок
	_ = f.SetColWidth(sheetName, "A", "A", 26)
	_ = f.SetColWidth(sheetName, "B", "C", 24)
	_ = f.SetColWidth(sheetName, "D", "E", 12)
	_ = f.SetColWidth(sheetName, "F", "H", 10)
	_ = f.SetColWidth(sheetName, "I", "J", 22)

	// Удаляем стандартный лист
	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("reservations_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(b.config.Exports.Path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	b.logger.Info().Str("file_path", filePath).Msg("Excel file created")
	return filePath, nil
}
