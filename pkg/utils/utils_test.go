package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppError(t *testing.T) {
	t.Run("error without wrapped error", func(t *testing.T) {
		err := NewError(CodeInvalidParam, "test error")
		assert.Equal(t, CodeInvalidParam, err.Code)
		assert.Contains(t, err.Error(), "test error")
		assert.Nil(t, err.Unwrap())
	})

	t.Run("error with wrapped error", func(t *testing.T) {
		inner := errors.New("db gone")
		err := WrapError(inner, CodeDatabaseError, "database error")
		assert.Equal(t, CodeDatabaseError, err.Code)
		assert.Contains(t, err.Error(), "db gone")
		assert.Equal(t, inner, err.Unwrap())
	})
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, CodeNotFound, GetErrorCode(ErrGoodsNotFound))
	assert.Equal(t, CodeConflict, GetErrorCode(ErrGoodsUnavailable))
	assert.Equal(t, CodeInternalError, GetErrorCode(errors.New("plain error")))
}

func TestGetErrorMessage(t *testing.T) {
	assert.Equal(t, "goods not found", GetErrorMessage(ErrGoodsNotFound))
	assert.Equal(t, "plain error", GetErrorMessage(errors.New("plain error")))
}

func TestResponseCodeIsSuccess(t *testing.T) {
	assert.True(t, CodeSuccess.IsSuccess())
	assert.False(t, CodeInternalError.IsSuccess())
	assert.False(t, CodeNoEffect.IsSuccess())
}

func TestEscapeLike(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "bike", "bike"},
		{"percent", "100%", `100\%`},
		{"underscore", "a_b", `a\_b`},
		{"backslash", `a\b`, `a\\b`},
		{"mixed", `50%_off\`, `50\%\_off\\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeLike(tt.input))
		})
	}
}

func TestBuildSearchPattern(t *testing.T) {
	assert.Equal(t, "%bike%", BuildSearchPattern("  bike "))
	assert.Equal(t, `%100\%%`, BuildSearchPattern("100%"))
}

func TestValidateID(t *testing.T) {
	id, err := ValidateID("42")
	assert.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	_, err = ValidateID("")
	assert.Error(t, err)

	_, err = ValidateID("abc")
	assert.Error(t, err)

	_, err = ValidateID("0")
	assert.Error(t, err)
}

func TestValidatePage(t *testing.T) {
	assert.NoError(t, ValidatePage(1, 10))
	assert.Error(t, ValidatePage(0, 10))
	assert.Error(t, ValidatePage(1, 0))
	assert.Error(t, ValidatePage(1, 101))
}

func TestDayBounds(t *testing.T) {
	ts := time.Date(2024, 5, 17, 13, 45, 12, 0, time.UTC)

	start := StartOfDay(ts)
	assert.Equal(t, 0, start.Hour())
	assert.Equal(t, 0, start.Minute())
	assert.Equal(t, ts.Day(), start.Day())

	end := EndOfDay(ts)
	assert.Equal(t, 23, end.Hour())
	assert.Equal(t, 59, end.Second())
	assert.Equal(t, ts.Day(), end.Day())
}
