package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAcquisitionType_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		at       AcquisitionType
		expected bool
	}{
		{name: "physical", at: AcquisitionPhysical, expected: true},
		{name: "digital", at: AcquisitionDigital, expected: true},
		{name: "subscription", at: AcquisitionSubscription, expected: true},
		{name: "borrowed", at: AcquisitionBorrowed, expected: true},
		{name: "rental", at: AcquisitionRental, expected: true},
		{name: "unknown value", at: AcquisitionType("GIFTED"), expected: false},
		{name: "lowercase rejected", at: AcquisitionType("digital"), expected: false},
		{name: "empty", at: AcquisitionType(""), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.at.IsValid())
		})
	}
}

func TestCollectionItem_ToSnippet(t *testing.T) {
	acquired := time.Now().Add(-24 * time.Hour)
	priority := 2
	item := &CollectionItem{
		Platform:        "PC",
		AcquisitionType: AcquisitionDigital,
		AcquiredAt:      &acquired,
		Priority:        &priority,
		IsActive:        true,
		Notes:           strPtr("notes never leave the full view"),
	}

	snippet := item.ToSnippet()

	assert.Equal(t, item.ID.String(), snippet.ID)
	assert.Equal(t, "PC", snippet.Platform)
	assert.Equal(t, AcquisitionDigital, snippet.AcquisitionType)
	assert.Equal(t, &acquired, snippet.AcquiredAt)
	assert.Equal(t, &priority, snippet.Priority)
	assert.True(t, snippet.IsActive)
}
