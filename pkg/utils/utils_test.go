package utils

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"

	appErrors "cargo-broker/pkg/errors"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestID(t *testing.T) {
	re := regexp.MustCompile(`^req-[0-9a-z]{9}$`)
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		id := NewRequestID()
		assert.Regexp(t, re, id)
		assert.False(t, seen[id], "duplicate id %s", id)
		seen[id] = true
	}
}

func TestNewTrackingID(t *testing.T) {
	assert.Regexp(t, `^CB-[0-9A-Z]{8}$`, NewTrackingID())
}

func TestNewPaymentMethodID(t *testing.T) {
	assert.Regexp(t, `^apple-pay-[0-9a-z]{4}$`, NewPaymentMethodID("  Apple Pay! "))
	assert.Regexp(t, `^method-[0-9a-z]{4}$`, NewPaymentMethodID("💳"))
}

func TestRandomCodeSkipsFixedAndBiasedBytes(t *testing.T) {
	defer func(orig func() uuid.UUID) { entropy = orig }(entropy)

	var id uuid.UUID
	for i := range id {
		id[i] = byte(i)
	}
	id[0] = 255 // past the last multiple of 36
	id[6] = 0x4f
	id[8] = 0xbf
	entropy = func() uuid.UUID { return id }

	assert.Equal(t, "1234579ab", randomCode(9, base36Lower))
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, "O'Brien & Sons <Port>", SanitizeString("  O'Brien & Sons <Port>\n"))
	assert.Equal(t, "Nairobi\tEast", SanitizeText(" Nairobi\tEast\x07 "))
	assert.Equal(t, "ops@example.com", SanitizeEmail(" <i>OPS@Example.com</i> "))
	assert.Equal(t, "+254 700-000 (1)", SanitizePhone("+254 700-000 (1)abc"))
	assert.Equal(t, "line one\nline two", SanitizeText("line one\nline two\x00"))
}

type sample struct {
	Email  string  `json:"clientEmail" validate:"required,email"`
	Weight float64 `json:"weight" validate:"gt=0"`
}

func TestValidateStructReportsJSONFieldNames(t *testing.T) {
	err := ValidateStruct(&sample{Email: "nope", Weight: 0})
	require.Error(t, err)

	fields := appErrors.Fields(err)
	require.NotNil(t, fields)
	assert.Equal(t, "must be a valid email address", fields["clientEmail"])
	assert.Equal(t, "must be greater than 0", fields["weight"])

	assert.NoError(t, ValidateStruct(&sample{Email: "a@b.io", Weight: 1}))
}

func TestIsValidEmail(t *testing.T) {
	assert.True(t, IsValidEmail("Client@Example.org"))
	assert.False(t, IsValidEmail("client@"))
}

func TestResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	ValidationErrorResponse(c, http.StatusBadRequest, "Invalid input", map[string]string{"weight": "must be greater than 0"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"success":false,"message":"Invalid input","errors":{"weight":"must be greater than 0"}}`, w.Body.String())
}
