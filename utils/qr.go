package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image/png"
	"strings"
	"time"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/google/uuid"
)

// GenerateTrackingID produces a tracking reference like MP-2026-4F9A21C3.
// Submitters quote it to check review status without an account.
func GenerateTrackingID(now time.Time) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))[:8]
	return fmt.Sprintf("MP-%d-%s", now.Year(), suffix)
}

// GenerateTrackingQR encodes the public tracking URL for a submission as a
// QR code and returns it as a base64 PNG data URI.
func GenerateTrackingQR(trackingID string) (string, error) {
	trackingURL := fmt.Sprintf("https://mangaloreproperties.in/track/%s", trackingID)

	qrCode, err := qr.Encode(trackingURL, qr.M, qr.Auto)
	if err != nil {
		return "", fmt.Errorf("failed to generate QR code: %v", err)
	}

	qrCode, err = barcode.Scale(qrCode, 300, 300)
	if err != nil {
		return "", fmt.Errorf("failed to scale QR code: %v", err)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, qrCode); err != nil {
		return "", fmt.Errorf("failed to encode QR code: %v", err)
	}

	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}
