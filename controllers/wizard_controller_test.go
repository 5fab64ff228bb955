package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihexyousex/mangalore-properties-sub000/models"
	"github.com/ihexyousex/mangalore-properties-sub000/repositories"
	"github.com/ihexyousex/mangalore-properties-sub000/websocket"
	"github.com/ihexyousex/mangalore-properties-sub000/wizard"
)

// newWizardRoutes binds the wizard endpoints for a controller under test.
func newWizardRoutes(sessions *repositories.SessionRepository) *echo.Echo {
	wc := NewWizardController(nil, sessions, websocket.NewHub())

	e := echo.New()
	e.POST("/api/wizard", wc.StartSession)
	e.GET("/api/wizard/:sessionId", wc.GetSession)
	e.POST("/api/wizard/:sessionId/category", wc.SelectCategory)
	e.POST("/api/wizard/:sessionId/next", wc.Next)
	e.POST("/api/wizard/:sessionId/back", wc.Back)
	e.POST("/api/wizard/:sessionId/submit", wc.Submit)
	e.POST("/api/wizard/:sessionId/draft", wc.SaveDraft)
	return e
}

// newWizardEnv wires the wizard endpoints to a miniredis session store and an
// httptest listing API standing in for the persistence boundary.
func newWizardEnv(t *testing.T) (*echo.Echo, *[]map[string]interface{}, *repositories.SessionRepository) {
	t.Helper()

	var received []map[string]interface{}
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		received = append(received, body)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"message":"ok","data":{"trackingId":"MP-2026-TEST0001"}}`)
	}))
	t.Cleanup(sink.Close)
	t.Setenv("LISTING_API_URL", sink.URL)

	mr := miniredis.RunT(t)
	sessions := repositories.NewSessionRepository(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	return newWizardRoutes(sessions), &received, sessions
}

func doJSON(t *testing.T, e *echo.Echo, method, target string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	var resp models.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	data, _ := resp.Data.(map[string]interface{})
	return rec.Code, data
}

func startSession(t *testing.T, e *echo.Echo, flow string) string {
	t.Helper()
	code, data := doJSON(t, e, http.MethodPost, "/api/wizard", map[string]string{"flow": flow})
	require.Equal(t, http.StatusCreated, code)
	sessionID, _ := data["sessionId"].(string)
	require.NotEmpty(t, sessionID)
	return sessionID
}

func TestWizardSessionFullPublicFlow(t *testing.T) {
	e, received, _ := newWizardEnv(t)
	sessionID := startSession(t, e, "public")
	base := "/api/wizard/" + sessionID

	code, data := doJSON(t, e, http.MethodPost, base+"/category", map[string]string{"category": "resale_residential"})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "resale_residential", data["category"])
	assert.EqualValues(t, 1, data["step"])

	steps := []map[string]interface{}{
		{"listingIntent": "sell", "propertyType": "apartment"},
		{"location": "Kadri, Mangalore"},
		{"bhk": "2 BHK", "bathrooms": 2, "propertyAge": "5 years", "ownershipType": "Freehold", "carpetArea": "1100 sqft", "vacancyStatus": "Vacant"},
		{"furnishing": "Semi Furnished", "amenities": []string{"gym"}},
		{"images": []string{"a.jpg"}},
		{"title": "Nice flat", "price": "85 Lakhs", "description": "Spacious 2 BHK near Kadri park"},
	}
	for i, fields := range steps {
		code, data = doJSON(t, e, http.MethodPost, base+"/next", map[string]interface{}{"fields": fields})
		require.Equal(t, http.StatusOK, code)
		require.Nil(t, data["errors"], "step %d", i+1)
		assert.EqualValues(t, i+2, data["step"])
	}

	// Contact screen is the final step
	code, data = doJSON(t, e, http.MethodPost, base+"/next", map[string]interface{}{
		"contact": map[string]string{"name": "Asha Rao", "email": "asha@example.com", "phone": "9876543210"},
	})
	require.Equal(t, http.StatusOK, code)
	require.Nil(t, data["errors"])

	code, data = doJSON(t, e, http.MethodPost, base+"/submit", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "MP-2026-TEST0001", data["trackingId"])
	assert.Contains(t, data["qrCode"], "data:image/png;base64,")

	// The boundary received the flattened listing plus the submitter
	require.Len(t, *received, 1)
	payload := (*received)[0]
	listing, _ := payload["listing"].(map[string]interface{})
	require.NotNil(t, listing)
	assert.Equal(t, "resale_residential", listing["category"])
	assert.Equal(t, "pending", listing["approval_status"])
	submitter, _ := payload["submitter"].(map[string]interface{})
	require.NotNil(t, submitter)
	assert.Equal(t, "Asha Rao", submitter["name"])

	// The session is gone after a successful submit
	code, _ = doJSON(t, e, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestWizardNextReportsFieldErrors(t *testing.T) {
	e, _, _ := newWizardEnv(t)
	sessionID := startSession(t, e, "public")
	base := "/api/wizard/" + sessionID

	// No category picked yet: the first screen refuses to advance
	code, data := doJSON(t, e, http.MethodPost, base+"/next", map[string]interface{}{
		"fields": map[string]interface{}{"listingIntent": "sell"},
	})
	require.Equal(t, http.StatusOK, code)
	errs, _ := data["errors"].(map[string]interface{})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "category")
	assert.EqualValues(t, 1, data["step"])
}

func TestWizardSubmitBeforeFinalStep(t *testing.T) {
	e, _, _ := newWizardEnv(t)
	sessionID := startSession(t, e, "public")

	code, _ := doJSON(t, e, http.MethodPost, "/api/wizard/"+sessionID+"/submit", nil)
	assert.Equal(t, http.StatusConflict, code)
}

func TestWizardBackClearsCategoryGate(t *testing.T) {
	e, _, _ := newWizardEnv(t)
	sessionID := startSession(t, e, "public")
	base := "/api/wizard/" + sessionID

	doJSON(t, e, http.MethodPost, base+"/category", map[string]string{"category": "resale_residential"})
	code, data := doJSON(t, e, http.MethodPost, base+"/next", map[string]interface{}{
		"fields": map[string]interface{}{"listingIntent": "sell", "propertyType": "apartment"},
	})
	require.Equal(t, http.StatusOK, code)
	require.EqualValues(t, 2, data["step"])

	code, data = doJSON(t, e, http.MethodPost, base+"/back", nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, data["step"])
	assert.Equal(t, "", data["category"])
}

func TestWizardDraftRejectedForPublicFlow(t *testing.T) {
	e, _, _ := newWizardEnv(t)
	sessionID := startSession(t, e, "public")

	code, _ := doJSON(t, e, http.MethodPost, "/api/wizard/"+sessionID+"/draft", nil)
	assert.Equal(t, http.StatusForbidden, code)
}

func TestWizardUnknownFlow(t *testing.T) {
	e, _, _ := newWizardEnv(t)
	code, _ := doJSON(t, e, http.MethodPost, "/api/wizard", map[string]string{"flow": "bulk"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestWizardSessionNotFound(t *testing.T) {
	e, _, _ := newWizardEnv(t)
	code, _ := doJSON(t, e, http.MethodGet, "/api/wizard/no-such-session", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestWizardSubmitIncompleteResumedSessionRejected(t *testing.T) {
	e, received, sessions := newWizardEnv(t)

	// A session parked on the terminal admin step with the earlier screens
	// never filled in, the shape a saved draft resumes into.
	require.NoError(t, sessions.Save(context.Background(), "sess-draft", wizard.Snapshot{
		Flow:     "admin",
		Step:     wizard.AdminPlan().Len(),
		Category: wizard.CategoryNewConstruction,
		Fields: map[string]interface{}{
			"description": "Premium flats near the ring road",
			"amenities":   []string{"clubhouse"},
		},
	}))

	code, data := doJSON(t, e, http.MethodPost, "/api/wizard/sess-draft/submit", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, code)
	errs, _ := data["errors"].(map[string]interface{})
	require.NotNil(t, errs)
	assert.Contains(t, errs, "title")
	assert.Contains(t, errs, "price")
	assert.Contains(t, errs, "builderName")
	assert.Empty(t, *received, "nothing reaches the boundary")
}

// completePublicSnapshot is a public session positioned on the contact step
// with every field filled, ready to submit.
func completePublicSnapshot() wizard.Snapshot {
	return wizard.Snapshot{
		Flow:     "public",
		Step:     wizard.PublicPlan().Len(),
		Category: wizard.CategoryResaleResidential,
		Fields: map[string]interface{}{
			"listingIntent": "sell",
			"propertyType":  "apartment",
			"location":      "Kadri, Mangalore",
			"bhk":           "2 BHK",
			"bathrooms":     2,
			"propertyAge":   "5 years",
			"ownershipType": "Freehold",
			"carpetArea":    "1100 sqft",
			"vacancyStatus": "Vacant",
			"amenities":     []string{"gym"},
			"images":        []string{"a.jpg"},
			"title":         "Nice flat",
			"price":         "85 Lakhs",
			"description":   "Spacious 2 BHK near Kadri park",
		},
		Contact: wizard.Contact{Name: "Asha Rao", Email: "asha@example.com", Phone: "9876543210"},
	}
}

func TestWizardConcurrentSubmitSingleDispatch(t *testing.T) {
	var dispatches int32
	entered := make(chan struct{})
	release := make(chan struct{})
	var enteredOnce sync.Once

	// The boundary parks the first dispatch so the second submit arrives
	// while it is still in flight.
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&dispatches, 1)
		enteredOnce.Do(func() { close(entered) })
		<-release
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"message":"ok","data":{"trackingId":"MP-2026-TEST0002"}}`)
	}))
	t.Cleanup(sink.Close)
	t.Setenv("LISTING_API_URL", sink.URL)

	mr := miniredis.RunT(t)
	sessions := repositories.NewSessionRepository(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	e := newWizardRoutes(sessions)

	require.NoError(t, sessions.Save(context.Background(), "sess-live", completePublicSnapshot()))

	firstCode := make(chan int, 1)
	go func() {
		req := httptest.NewRequest(http.MethodPost, "/api/wizard/sess-live/submit", nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		firstCode <- rec.Code
	}()

	<-entered
	code, _ := doJSON(t, e, http.MethodPost, "/api/wizard/sess-live/submit", nil)
	assert.Equal(t, http.StatusConflict, code)

	close(release)
	assert.Equal(t, http.StatusOK, <-firstCode)
	assert.EqualValues(t, 1, atomic.LoadInt32(&dispatches), "one dispatch per session")
}
