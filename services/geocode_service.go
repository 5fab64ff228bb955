package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/ihexyousex/mangalore-properties-sub000/models"
)

// Mangalore metro area bounding box. Coordinates outside it get flagged so
// reviewers can double-check the address.
const (
	regionMinLat = 12.70
	regionMaxLat = 13.10
	regionMinLng = 74.70
	regionMaxLng = 75.10
)

// GeocodeService resolves free-text locality names to coordinates through a
// Nominatim-compatible geocoding API.
type GeocodeService struct {
	baseURL   string
	userAgent string
	client    *http.Client
	debug     bool
}

// GeocodeResult is a resolved location plus a regional sanity flag.
type GeocodeResult struct {
	Point       models.GeoPoint `json:"point"`
	DisplayName string          `json:"displayName"`
	InRegion    bool            `json:"inRegion"`
}

// NewGeocodeService creates a geocode service from environment configuration
func NewGeocodeService() *GeocodeService {
	baseURL := os.Getenv("GEOCODE_BASE_URL")
	if baseURL == "" {
		baseURL = "https://nominatim.openstreetmap.org"
	}

	return &GeocodeService{
		baseURL:   baseURL,
		userAgent: "mangalore-properties/1.0",
		client:    &http.Client{Timeout: 10 * time.Second},
		debug:     os.Getenv("GEOCODE_DEBUG") == "true",
	}
}

// Resolve geocodes a locality string. The query is biased to Mangalore so
// bare area names like "Kadri" resolve sensibly. A nil result with nil error
// means the geocoder found nothing.
func (s *GeocodeService) Resolve(ctx context.Context, locality string) (*GeocodeResult, error) {
	if locality == "" {
		return nil, fmt.Errorf("locality is required")
	}

	params := url.Values{}
	params.Set("q", locality+", Mangalore, Karnataka")
	params.Set("format", "json")
	params.Set("limit", "1")

	reqURL := fmt.Sprintf("%s/search?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	if s.debug {
		log.Printf("Geocode request: %s", reqURL)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoder returned status %d", resp.StatusCode)
	}

	var hits []struct {
		Lat         string `json:"lat"`
		Lon         string `json:"lon"`
		DisplayName string `json:"display_name"`
	}
	if err := json.Unmarshal(respBody, &hits); err != nil {
		return nil, fmt.Errorf("failed to parse geocoder response: %w", err)
	}
	if len(hits) == 0 {
		return nil, nil
	}

	lat, err := strconv.ParseFloat(hits[0].Lat, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude in geocoder response: %w", err)
	}
	lng, err := strconv.ParseFloat(hits[0].Lon, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude in geocoder response: %w", err)
	}

	result := &GeocodeResult{
		Point:       models.GeoPoint{Lat: lat, Lng: lng},
		DisplayName: hits[0].DisplayName,
		InRegion:    lat >= regionMinLat && lat <= regionMaxLat && lng >= regionMinLng && lng <= regionMaxLng,
	}

	if !result.InRegion {
		log.Printf("Geocode warning: %q resolved outside the Mangalore region (%.4f, %.4f)", locality, lat, lng)
	}

	return result, nil
}
