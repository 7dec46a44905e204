package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlaythroughStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   PlaythroughStatus
		expected bool
	}{
		{name: "planning", status: StatusPlanning, expected: true},
		{name: "playing", status: StatusPlaying, expected: true},
		{name: "completed", status: StatusCompleted, expected: true},
		{name: "dropped", status: StatusDropped, expected: true},
		{name: "on hold", status: StatusOnHold, expected: true},
		{name: "mastered", status: StatusMastered, expected: true},
		{name: "unknown value", status: PlaythroughStatus("FINISHED"), expected: false},
		{name: "lowercase rejected", status: PlaythroughStatus("playing"), expected: false},
		{name: "empty", status: PlaythroughStatus(""), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.status.IsValid())
		})
	}
}

func TestPlaythroughStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    PlaythroughStatus
		to      PlaythroughStatus
		allowed bool
	}{
		{name: "planning to playing", from: StatusPlanning, to: StatusPlaying, allowed: true},
		{name: "planning cannot skip to completed", from: StatusPlanning, to: StatusCompleted, allowed: false},
		{name: "planning cannot skip to mastered", from: StatusPlanning, to: StatusMastered, allowed: false},
		{name: "playing to completed", from: StatusPlaying, to: StatusCompleted, allowed: true},
		{name: "playing to dropped", from: StatusPlaying, to: StatusDropped, allowed: true},
		{name: "playing to on hold", from: StatusPlaying, to: StatusOnHold, allowed: true},
		{name: "playing cannot jump to mastered", from: StatusPlaying, to: StatusMastered, allowed: false},
		{name: "on hold resumes", from: StatusOnHold, to: StatusPlaying, allowed: true},
		{name: "on hold to dropped", from: StatusOnHold, to: StatusDropped, allowed: true},
		{name: "on hold cannot complete directly", from: StatusOnHold, to: StatusCompleted, allowed: false},
		{name: "dropped can restart", from: StatusDropped, to: StatusPlaying, allowed: true},
		{name: "dropped cannot complete directly", from: StatusDropped, to: StatusCompleted, allowed: false},
		{name: "completed to mastered", from: StatusCompleted, to: StatusMastered, allowed: true},
		{name: "completed cannot reopen", from: StatusCompleted, to: StatusPlaying, allowed: false},
		{name: "mastered is terminal", from: StatusMastered, to: StatusPlaying, allowed: false},
		{name: "mastered cannot demote", from: StatusMastered, to: StatusCompleted, allowed: false},
		{name: "same status is a no-op", from: StatusPlaying, to: StatusPlaying, allowed: true},
		{name: "same terminal status is a no-op", from: StatusMastered, to: StatusMastered, allowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestPlaythroughStatus_IsCompletedOrBetter(t *testing.T) {
	assert.True(t, StatusCompleted.IsCompletedOrBetter())
	assert.True(t, StatusMastered.IsCompletedOrBetter())
	assert.False(t, StatusPlanning.IsCompletedOrBetter())
	assert.False(t, StatusPlaying.IsCompletedOrBetter())
	assert.False(t, StatusDropped.IsCompletedOrBetter())
	assert.False(t, StatusOnHold.IsCompletedOrBetter())
}

func TestCompletionType_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		ct       CompletionType
		expected bool
	}{
		{name: "completed", ct: CompletionCompleted, expected: true},
		{name: "mastered", ct: CompletionMastered, expected: true},
		{name: "dropped", ct: CompletionDropped, expected: true},
		{name: "on hold", ct: CompletionOnHold, expected: true},
		{name: "planning is not a completion", ct: CompletionType("PLANNING"), expected: false},
		{name: "playing is not a completion", ct: CompletionType("PLAYING"), expected: false},
		{name: "empty", ct: CompletionType(""), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.ct.IsValid())
		})
	}
}
