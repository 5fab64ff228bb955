package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeInputStripsScriptTags(t *testing.T) {
	out := SanitizeInput("  Sea-facing flat <script>alert(1)</script> ")
	assert.NotContains(t, out, "<script>")
	assert.Contains(t, out, "Sea-facing flat")
}

func TestSanitizeEmail(t *testing.T) {
	email, err := SanitizeEmail("  Priya.Shet@Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "priya.shet@example.com", email)

	_, err = SanitizeEmail("not-an-email")
	assert.Error(t, err)
}

func TestSanitizePhoneAddsCountryCode(t *testing.T) {
	phone, err := SanitizePhone("98456 12345")
	require.NoError(t, err)
	assert.Equal(t, "+919845612345", phone)

	phone, err = SanitizePhone("+91 98456-12345")
	require.NoError(t, err)
	assert.Equal(t, "+919845612345", phone)

	phone, err = SanitizePhone("")
	require.NoError(t, err)
	assert.Empty(t, phone)

	_, err = SanitizePhone("12345")
	assert.Error(t, err)
}

func TestGenerateTrackingIDShape(t *testing.T) {
	now := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	id := GenerateTrackingID(now)
	assert.Regexp(t, `^MP-2026-[0-9A-F]{8}$`, id)

	// Two IDs in a row must not collide
	other := GenerateTrackingID(now)
	assert.NotEqual(t, id, other)
}

func TestGenerateTrackingQRReturnsDataURI(t *testing.T) {
	uri, err := GenerateTrackingQR("MP-2026-4F9A21C3")
	require.NoError(t, err)
	assert.Contains(t, uri, "data:image/png;base64,")
}
