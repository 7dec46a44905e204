package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
)

func TestError_Status(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected int
	}{
		{name: "validation", err: Validation(), expected: fiber.StatusUnprocessableEntity},
		{name: "immutable field", err: ImmutableFields("game_id"), expected: fiber.StatusUnprocessableEntity},
		{name: "invalid transition", err: InvalidTransition("PLANNING", "MASTERED"), expected: fiber.StatusUnprocessableEntity},
		{name: "conflict", err: Conflict("duplicate"), expected: fiber.StatusConflict},
		{name: "not found", err: NotFound("Playthrough"), expected: fiber.StatusNotFound},
		{name: "conflicting filters", err: ConflictingFilters("unplayed_only with status"), expected: fiber.StatusBadRequest},
		{name: "authentication", err: Authentication(), expected: fiber.StatusUnauthorized},
		{name: "method not allowed", err: &Error{Kind: KindMethodNotAllowed}, expected: fiber.StatusMethodNotAllowed},
		{name: "internal", err: Internal("boom"), expected: fiber.StatusInternalServerError},
		{name: "unknown kind falls back to 500", err: &Error{Kind: Kind("mystery")}, expected: fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Status())
		})
	}
}

func TestError_Error(t *testing.T) {
	t.Run("Without details", func(t *testing.T) {
		err := NotFound("Game")
		assert.Equal(t, "not_found: Game not found", err.Error())
	})

	t.Run("With details names the fields", func(t *testing.T) {
		err := Validation(
			FieldError{Field: "rating", Message: "rating must be between 1 and 10"},
			FieldError{Field: "platform", Message: "platform is required"},
		)
		assert.Equal(t, "validation_error: Invalid request data (rating, platform)", err.Error())
	})
}

func TestAs(t *testing.T) {
	t.Run("Direct error", func(t *testing.T) {
		original := Conflict("already exists")

		appErr, ok := As(original)

		assert.True(t, ok)
		assert.Equal(t, original, appErr)
	})

	t.Run("Wrapped error", func(t *testing.T) {
		original := NotFound("Collection item")
		wrapped := fmt.Errorf("loading item: %w", original)

		appErr, ok := As(wrapped)

		assert.True(t, ok)
		assert.Equal(t, KindNotFound, appErr.Kind)
	})

	t.Run("Plain error is not an app error", func(t *testing.T) {
		appErr, ok := As(errors.New("plain"))

		assert.False(t, ok)
		assert.Nil(t, appErr)
	})
}

func TestImmutableFields_BuildsDetails(t *testing.T) {
	err := ImmutableFields("game_id", "platform")

	assert.Equal(t, KindImmutableField, err.Kind)
	assert.Len(t, err.Details, 2)
	assert.Equal(t, "game_id", err.Details[0].Field)
	assert.Equal(t, "platform", err.Details[1].Field)
	assert.Equal(t, "field is immutable", err.Details[0].Message)
}
