package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"stayfinder/internal/models"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var ErrRowNotFound = errors.New("reservation row not found")

type SheetsService struct {
	service             *sheets.Service
	reservationsSheetID string
	listingsSheetID     string
	rowCache            map[string]int
	cacheMu             sync.RWMutex
}

func NewSheetsService(credentialsFile, reservationsSheetID, listingsSheetID string) (*SheetsService, error) {
	ctx := context.Background()

	// Читаем файл учетных данных сервисного аккаунта
	credentialsJSON, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("unable to read credentials file: %v", err)
	}

	// Создаем JWT конфигурацию
	config, err := google.JWTConfigFromJSON(credentialsJSON, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse credentials: %v", err)
	}

	client := config.Client(ctx)

	srv, err := sheets.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %v", err)
	}

	service := &SheetsService{
		service:             srv,
		reservationsSheetID: reservationsSheetID,
		listingsSheetID:     listingsSheetID,
		rowCache:            make(map[string]int),
	}

	// Warm up cache in background
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		service.WarmUpCache(ctx)
	}()

	// Periodic cache refresh every 1 hour
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			service.WarmUpCache(ctx)
			cancel()
		}
	}()

	return service, nil
}

// TestConnection проверяет подключение к таблице
func (s *SheetsService) TestConnection(ctx context.Context) error {
	_, err := s.service.Spreadsheets.Values.Get(s.reservationsSheetID, "Reservations!A1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("connection test failed: %v", err)
	}
	return nil
}

// GetServiceAccountEmail возвращает email сервисного аккаунта
func (s *SheetsService) GetServiceAccountEmail(credentialsFile string) (string, error) {
	file, err := os.ReadFile(credentialsFile)
	if err != nil {
		return "", err
	}

	var creds struct {
		ClientEmail string `json:"client_email"`
	}

	if err := json.Unmarshal(file, &creds); err != nil {
		return "", err
	}

	return creds.ClientEmail, nil
}

// WarmUpCache populates the row index cache by reading the entire ID column.
func (s *SheetsService) WarmUpCache(ctx context.Context) error {
	resp, err := s.service.Spreadsheets.Values.Get(s.reservationsSheetID, "Reservations!A:A").Context(ctx).Do()
	if err != nil {
		return err
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache = make(map[string]int)

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		id, ok := row[0].(string)
		if !ok || strings.TrimSpace(id) == "" {
			continue
		}
		s.rowCache[id] = i + 1
	}
	return nil
}

// AppendReservation добавляет новое бронирование
func (s *SheetsService) AppendReservation(ctx context.Context, res *models.Reservation) error {
	if res == nil {
		return fmt.Errorf("reservation is nil")
	}

	rangeData := "Reservations!A:A"
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{reservationRowValues(res)},
	}

	_, err := s.service.Spreadsheets.Values.Append(s.reservationsSheetID, rangeData, valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()

	return err
}

// UpsertReservation updates an existing reservation row or appends a new one if not found.
func (s *SheetsService) UpsertReservation(ctx context.Context, res *models.Reservation) error {
	if res == nil {
		return fmt.Errorf("reservation is nil")
	}

	rowIdx, err := s.FindReservationRow(ctx, res.ID)
	if err != nil {
		if errors.Is(err, ErrRowNotFound) {
			return s.AppendReservation(ctx, res)
		}
		return err
	}

	rangeData := fmt.Sprintf("Reservations!A%d:I%d", rowIdx, rowIdx)
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{reservationRowValues(res)},
	}

	_, err = s.service.Spreadsheets.Values.Update(s.reservationsSheetID, rangeData, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	return err
}

// FindReservationRow locates row index (1-based) for a reservation ID in column A with cache.
func (s *SheetsService) FindReservationRow(ctx context.Context, reservationID string) (int, error) {
	if reservationID == "" {
		return 0, fmt.Errorf("reservation id is required")
	}

	if row, ok := s.getCachedRow(reservationID); ok {
		return row, nil
	}

	resp, err := s.service.Spreadsheets.Values.Get(s.reservationsSheetID, "Reservations!A:A").Context(ctx).Do()
	if err != nil {
		return 0, err
	}

	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if id, ok := row[0].(string); ok && id == reservationID {
			rowIdx := i + 1 // Values are zero-based; sheet rows are 1-based
			s.setCachedRow(reservationID, rowIdx)
			return rowIdx, nil
		}
	}

	return 0, ErrRowNotFound
}

func (s *SheetsService) getCachedRow(id string) (int, bool) {
	s.cacheMu.RLock()
	defer s.cacheMu.RUnlock()
	row, ok := s.rowCache[id]
	return row, ok
}

func (s *SheetsService) setCachedRow(id string, row int) {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache[id] = row
}

// ClearCache clears the row index cache.
func (s *SheetsService) ClearCache() {
	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()
	s.rowCache = make(map[string]int)
}

func reservationRowValues(res *models.Reservation) []interface{} {
	return []interface{}{
		res.ID,
		res.Listing.ID,
		res.Listing.Title,
		res.CheckIn.Format("2006-01-02"),
		res.CheckOut.Format("2006-01-02"),
		res.Guests,
		res.TotalCost,
		res.CreatedBy.Email,
		res.CreatedAt.Format("2006-01-02 15:04:05"),
	}
}

// UpdateListingsSheet обновляет всю таблицу объявлений
func (s *SheetsService) UpdateListingsSheet(ctx context.Context, listings []models.Listing) error {
	var values [][]interface{}

	headers := []interface{}{"ID", "Title", "Location", "Price", "Guests", "Status", "Rejection Reason", "Owner", "Created At"}
	values = append(values, headers)

	for _, listing := range listings {
		row := []interface{}{
			listing.ID,
			listing.Title,
			listing.Location,
			listing.Price,
			listing.Guests,
			listing.EffectiveStatus(),
			listing.RejectionReason,
			listing.CreatedBy,
			listing.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		values = append(values, row)
	}

	// Полностью очищаем и перезаписываем лист
	clearRange := "Listings!A:Z"
	_, err := s.service.Spreadsheets.Values.Clear(s.listingsSheetID, clearRange, &sheets.ClearValuesRequest{}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear listings sheet: %v", err)
	}

	rangeData := "Listings!A1:I" + fmt.Sprintf("%d", len(values))
	valueRange := &sheets.ValueRange{
		Values: values,
	}

	_, err = s.service.Spreadsheets.Values.Update(s.listingsSheetID, rangeData, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()

	return err
}
