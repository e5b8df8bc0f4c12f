package bot

import (
	"io"
	"testing"
	"time"

	"stayfinder/internal/config"
	"stayfinder/internal/models"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportReservationsToExcel(t *testing.T) {
	logger := zerolog.New(io.Discard)
	b := &Bot{
		config: &config.Config{Exports: config.ExportConfig{Path: t.TempDir()}},
		logger: &logger,
	}

	reservations := []models.Reservation{
		{
			ID:        "res-1",
			Listing:   models.Listing{Title: "Sea loft", Location: "Porto"},
			CheckIn:   time.Date(2025, 8, 28, 0, 0, 0, 0, time.UTC),
			CheckOut:  time.Date(2025, 8, 30, 0, 0, 0, 0, time.UTC),
			Guests:    2,
			TotalCost: 400,
			CreatedBy: models.ReservationOwner{Email: "a@example.com"},
			CreatedAt: time.Date(2025, 8, 27, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:        "res-2",
			Listing:   models.Listing{Title: "Cabin", Location: "Sintra"},
			CheckIn:   time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
			CheckOut:  time.Date(2025, 9, 5, 0, 0, 0, 0, time.UTC),
			Guests:    3,
			TotalCost: 900,
			CreatedBy: models.ReservationOwner{Email: "b@example.com"},
			CreatedAt: time.Date(2025, 8, 27, 11, 0, 0, 0, time.UTC),
		},
	}

	filePath, err := b.exportReservationsToExcel(reservations)
	require.NoError(t, err)

	f, err := excelize.OpenFile(filePath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Reservations")
	require.NoError(t, err)
	require.Len(t, rows, 3, "header plus two data rows")

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Guest Email", rows[0][8])

	assert.Equal(t, "res-1", rows[1][0])
	assert.Equal(t, "Sea loft", rows[1][1])
	assert.Equal(t, "2025-08-28", rows[1][3])
	assert.Equal(t, "2", rows[1][5], "two nights")
	assert.Equal(t, "a@example.com", rows[1][8])

	assert.Equal(t, "res-2", rows[2][0])
	assert.Equal(t, "4", rows[2][5], "four nights")

	// The default sheet is gone.
	assert.NotContains(t, f.GetSheetList(), "Sheet1")
}
