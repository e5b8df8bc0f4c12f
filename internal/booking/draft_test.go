package booking

import (
	"errors"
	"testing"
	"time"

	"stayfinder/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDraft() *Draft {
	return NewDraft(42, &models.Listing{ID: "l1", Title: "Cabin", Price: 50, Guests: 3})
}

func TestDraftLifecycle(t *testing.T) {
	d := newTestDraft()
	assert.Equal(t, StateEmpty, d.State)
	assert.Equal(t, 1, d.Guests)

	d.SetCheckIn(date("2025-09-01"))
	assert.Equal(t, StatePartiallyFilled, d.State)

	d.SetCheckOut(date("2025-09-04"))
	assert.Equal(t, StateValid, d.State)
	assert.Equal(t, 3, d.Quote.Nights)
	assert.Equal(t, 150.0, d.Quote.TotalCost)

	d.SetGuests(2)
	assert.Equal(t, StateValid, d.State)
	assert.Equal(t, 300.0, d.Quote.TotalCost)
}

func TestDraftInvalidTransitions(t *testing.T) {
	t.Run("ReversedDates", func(t *testing.T) {
		d := newTestDraft()
		d.SetCheckIn(date("2025-09-04"))
		d.SetCheckOut(date("2025-09-01"))
		assert.Equal(t, StateInvalid, d.State)
		assert.NotEmpty(t, d.LastError)
		assert.False(t, d.BeginSubmit())
	})

	t.Run("GuestsOverLimit", func(t *testing.T) {
		d := newTestDraft()
		d.SetCheckIn(date("2025-09-01"))
		d.SetCheckOut(date("2025-09-04"))
		d.SetGuests(4)
		assert.Equal(t, StateInvalid, d.State)

		// Bringing guests back in range clears the error.
		d.SetGuests(3)
		assert.Equal(t, StateValid, d.State)
		assert.Empty(t, d.LastError)
	})

	t.Run("GuestsFloorAtOne", func(t *testing.T) {
		d := newTestDraft()
		d.SetGuests(0)
		assert.Equal(t, 1, d.Guests)
	})
}

func TestDraftSubmit(t *testing.T) {
	t.Run("ValidToConfirmed", func(t *testing.T) {
		d := newTestDraft()
		d.SetCheckIn(date("2025-09-01"))
		d.SetCheckOut(date("2025-09-03"))

		require.True(t, d.BeginSubmit())
		assert.Equal(t, StateSubmitting, d.State)

		// A second tap while submitting is refused.
		assert.False(t, d.BeginSubmit())

		d.FinishSubmit(nil)
		assert.Equal(t, StateConfirmed, d.State)
		assert.False(t, d.BeginSubmit())
	})

	t.Run("FailureKeepsDataAndAllowsRetry", func(t *testing.T) {
		d := newTestDraft()
		d.SetCheckIn(date("2025-09-01"))
		d.SetCheckOut(date("2025-09-03"))

		require.True(t, d.BeginSubmit())
		d.FinishSubmit(errors.New("marketplace unavailable"))
		assert.Equal(t, StateFailed, d.State)
		assert.Equal(t, "marketplace unavailable", d.LastError)
		assert.False(t, d.CheckIn.IsZero())
		assert.Equal(t, 2, d.Quote.Nights)

		// Failed drafts may be submitted again without re-entering dates.
		assert.True(t, d.BeginSubmit())
		d.FinishSubmit(nil)
		assert.Equal(t, StateConfirmed, d.State)
		assert.Empty(t, d.LastError)
	})

	t.Run("NotSubmittableFromEmpty", func(t *testing.T) {
		d := newTestDraft()
		assert.False(t, d.BeginSubmit())
		assert.Equal(t, StateEmpty, d.State)
	})
}

func TestDraftRequest(t *testing.T) {
	d := newTestDraft()
	d.SetCheckIn(time.Date(2025, 9, 1, 15, 0, 0, 0, time.UTC))
	d.SetCheckOut(time.Date(2025, 9, 3, 11, 0, 0, 0, time.UTC))
	d.SetGuests(2)

	req := d.Request("user-1")
	assert.Equal(t, "l1", req.ListingID)
	assert.Equal(t, "2025-09-01", req.CheckIn)
	assert.Equal(t, "2025-09-03", req.CheckOut)
	assert.Equal(t, 2, req.Guests)
	assert.Equal(t, 200.0, req.TotalCost)
	assert.Equal(t, "user-1", req.CreatedBy)
}
