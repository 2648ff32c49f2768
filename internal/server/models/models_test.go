package models

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrijs2005/imunetrack/internal/timex"
)

func TestDoseStatus_Valid(t *testing.T) {
	for _, s := range DoseStatuses {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, DoseStatus("").Valid())
	assert.False(t, DoseStatus("APLICADA").Valid())
}

func TestHistoryEntry_NotificationDate(t *testing.T) {
	applied := timex.NewDate(2024, 3, 1)
	scheduled := timex.NewDate(2024, 6, 1)

	e := &HistoryEntry{AppliedOn: &applied, ScheduledOn: &scheduled}
	d, ok := e.NotificationDate()
	assert.True(t, ok)
	assert.Equal(t, applied, d)

	e.AppliedOn = nil
	d, ok = e.NotificationDate()
	assert.True(t, ok)
	assert.Equal(t, scheduled, d)

	e.ScheduledOn = nil
	_, ok = e.NotificationDate()
	assert.False(t, ok)
}

func TestHistoryFilter_Match(t *testing.T) {
	on := timex.NewDate(2024, 5, 10)
	e := &HistoryEntry{VaccineID: 3, Status: DoseStatusApplied, AppliedOn: &on}

	year, otherYear, month := 2024, 2023, 5
	vid, otherVid := int64(3), int64(4)
	pending := DoseStatusPending

	assert.True(t, HistoryFilter{}.Match(e))
	assert.True(t, HistoryFilter{Year: &year, Month: &month, VaccineID: &vid}.Match(e))
	assert.False(t, HistoryFilter{Year: &otherYear}.Match(e))
	assert.False(t, HistoryFilter{VaccineID: &otherVid}.Match(e))
	assert.False(t, HistoryFilter{Status: &pending}.Match(e))

	undated := &HistoryEntry{Status: DoseStatusPending}
	assert.False(t, HistoryFilter{Month: &month}.Match(undated))
	assert.True(t, HistoryFilter{Status: &pending}.Match(undated))
}
