// controllers/wizard_controller.go
package controllers

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ihexyousex/mangalore-properties-sub000/models"
	"github.com/ihexyousex/mangalore-properties-sub000/repositories"
	"github.com/ihexyousex/mangalore-properties-sub000/services"
	"github.com/ihexyousex/mangalore-properties-sub000/utils"
	"github.com/ihexyousex/mangalore-properties-sub000/websocket"
	"github.com/ihexyousex/mangalore-properties-sub000/wizard"
)

// repositorySink persists completed wizard sessions straight into MongoDB.
// It is the in-process counterpart of the HTTP dispatcher, used when the
// wizard and the listing store run in the same deployment.
type repositorySink struct {
	listings *repositories.ListingRepository
	drafts   *repositories.DraftRepository
	geocoder *services.GeocodeService
	hub      *websocket.Hub
}

func (s *repositorySink) Submit(ctx context.Context, sub wizard.Submission) (string, error) {
	listing := models.ListingFromRecord(sub.Listing())
	listing.Flow = sub.Flow
	listing.TrackingID = utils.GenerateTrackingID(time.Now())
	if sub.Submitter != nil {
		listing.Submitter = &models.Submitter{
			Name:  sub.Submitter.Name,
			Email: sub.Submitter.Email,
			Phone: sub.Submitter.Phone,
		}
	}

	if listing.Location != "" {
		if result, err := s.geocoder.Resolve(ctx, listing.Location); err != nil {
			log.Printf("Geocoding failed for %q: %v", listing.Location, err)
		} else if result != nil {
			listing.Coordinates = &result.Point
		}
	}

	if _, err := s.listings.Create(ctx, &listing); err != nil {
		return "", err
	}

	if listing.ApprovalStatus == models.ApprovalPending {
		if listing.Submitter != nil {
			go utils.SendSubmissionReceivedEmail(*listing.Submitter, listing.Title, listing.TrackingID)
		}
		s.hub.NotifySubmissionReceived(map[string]interface{}{
			"trackingId": listing.TrackingID,
			"title":      listing.Title,
			"category":   listing.Category,
		})
	}

	return listing.TrackingID, nil
}

func (s *repositorySink) SaveDraft(ctx context.Context, snap wizard.Snapshot) error {
	draft := &models.Draft{
		Flow:     snap.Flow,
		Step:     snap.Step,
		Category: string(snap.Category),
		Fields:   snap.Fields,
	}
	_, err := s.drafts.Save(ctx, draft)
	return err
}

// WizardController exposes server-side wizard sessions over HTTP. Session
// state lives in Redis keyed by a session ID, so any instance can serve any
// step of an in-progress form.
type WizardController struct {
	DB       *mongo.Client
	sessions *repositories.SessionRepository
	sink     wizard.Sink
}

// NewWizardController wires the wizard to its persistence boundary. When
// LISTING_API_URL is set, completed sessions are dispatched to that external
// service; otherwise they are stored directly.
func NewWizardController(db *mongo.Client, sessions *repositories.SessionRepository, hub *websocket.Hub) *WizardController {
	var sink wizard.Sink
	if apiURL := os.Getenv("LISTING_API_URL"); apiURL != "" {
		log.Printf("Wizard submissions will be dispatched to %s", apiURL)
		sink = wizard.NewDispatcher(apiURL)
	} else {
		sink = &repositorySink{
			listings: repositories.NewListingRepository(db),
			drafts:   repositories.NewDraftRepository(db),
			geocoder: services.NewGeocodeService(),
			hub:      hub,
		}
	}

	return &WizardController{
		DB:       db,
		sessions: sessions,
		sink:     sink,
	}
}

// sessionView is what every wizard endpoint answers with: the position, the
// current screen definition and any validation errors from the last action.
func sessionView(sessionID string, ctrl *wizard.Controller, res wizard.Result) map[string]interface{} {
	state := ctrl.State()
	plan := state.Plan()
	step, _ := plan.Step(state.Step())

	view := map[string]interface{}{
		"sessionId":  sessionID,
		"flow":       plan.Name,
		"step":       state.Step(),
		"totalSteps": plan.Len(),
		"screen": map[string]interface{}{
			"kind":   string(step.Kind),
			"title":  step.Title,
			"fields": step.Fields,
		},
		"category": string(state.Category()),
		"fields":   state.Fields(),
	}
	if len(res.Errors) > 0 {
		view["errors"] = res.Errors
	}
	return view
}

func (wc *WizardController) load(ctx context.Context, sessionID string) (*wizard.Controller, error) {
	snap, err := wc.sessions.Load(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	plan, ok := wizard.PlanFor(snap.Flow)
	if !ok {
		return nil, repositories.ErrSessionNotFound
	}
	return wizard.ResumeController(plan, snap, wc.sink), nil
}

func (wc *WizardController) save(ctx context.Context, sessionID string, ctrl *wizard.Controller) error {
	return wc.sessions.Save(ctx, sessionID, ctrl.State().Snapshot())
}

// StartSession opens a new wizard session for the requested flow
func (wc *WizardController) StartSession(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var req struct {
		Flow    string `json:"flow"`
		DraftID string `json:"draftId,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}
	if req.Flow == "" {
		req.Flow = "public"
	}

	plan, ok := wizard.PlanFor(req.Flow)
	if !ok {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Unknown flow",
		})
	}

	ctrl := wizard.NewController(plan, wc.sink)

	// Resume from a saved draft when one is named
	if req.DraftID != "" {
		draftRepo := repositories.NewDraftRepository(wc.DB)
		draftID, err := primitive.ObjectIDFromHex(req.DraftID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, models.Response{
				Status:  http.StatusBadRequest,
				Message: "Invalid draft ID",
			})
		}
		draft, err := draftRepo.FindByID(ctx, draftID)
		if err != nil {
			return c.JSON(http.StatusNotFound, models.Response{
				Status:  http.StatusNotFound,
				Message: "Draft not found",
			})
		}
		ctrl = wizard.ResumeController(plan, wizard.Snapshot{
			Flow:     draft.Flow,
			Step:     draft.Step,
			Category: wizard.Category(draft.Category),
			Fields:   draft.Fields,
		}, wc.sink)
	}

	sessionID := uuid.New().String()
	if err := wc.save(ctx, sessionID, ctrl); err != nil {
		log.Printf("Failed to save wizard session: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to create session",
		})
	}

	return c.JSON(http.StatusCreated, models.Response{
		Status:  http.StatusCreated,
		Message: "Wizard session started",
		Data:    sessionView(sessionID, ctrl, wizard.Result{}),
	})
}

// GetSession returns the current position and screen of a session
func (wc *WizardController) GetSession(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sessionID := c.Param("sessionId")
	ctrl, err := wc.load(ctx, sessionID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Session not found",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Session retrieved",
		Data:    sessionView(sessionID, ctrl, wizard.Result{}),
	})
}

// SelectCategory records the category choice on the first screen
func (wc *WizardController) SelectCategory(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sessionID := c.Param("sessionId")
	ctrl, err := wc.load(ctx, sessionID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Session not found",
		})
	}

	var req struct {
		Category string `json:"category"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	res, err := ctrl.SelectCategory(wizard.Category(req.Category))
	if err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: err.Error(),
		})
	}

	if err := wc.save(ctx, sessionID, ctrl); err != nil {
		log.Printf("Failed to save wizard session: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save session",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Category selected",
		Data:    sessionView(sessionID, ctrl, res),
	})
}

// Next applies the screen's edits and advances when the step validates
func (wc *WizardController) Next(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sessionID := c.Param("sessionId")
	ctrl, err := wc.load(ctx, sessionID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Session not found",
		})
	}

	var req struct {
		Fields  map[string]interface{} `json:"fields"`
		Contact *wizard.Contact        `json:"contact,omitempty"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, models.Response{
			Status:  http.StatusBadRequest,
			Message: "Invalid request body",
		})
	}

	if req.Contact != nil {
		ctrl.State().SetContact(*req.Contact)
	}

	res := ctrl.Advance(req.Fields)

	if err := wc.save(ctx, sessionID, ctrl); err != nil {
		log.Printf("Failed to save wizard session: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save session",
		})
	}

	message := "Step complete"
	if !res.Valid {
		message = "Step has validation errors"
	}
	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: message,
		Data:    sessionView(sessionID, ctrl, res),
	})
}

// Back moves the session one step backwards
func (wc *WizardController) Back(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sessionID := c.Param("sessionId")
	ctrl, err := wc.load(ctx, sessionID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Session not found",
		})
	}

	ctrl.Retreat()

	if err := wc.save(ctx, sessionID, ctrl); err != nil {
		log.Printf("Failed to save wizard session: %v", err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save session",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Moved back",
		Data:    sessionView(sessionID, ctrl, wizard.Result{}),
	})
}

// Submit finishes the session from its final step
func (wc *WizardController) Submit(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sessionID := c.Param("sessionId")
	ctrl, err := wc.load(ctx, sessionID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Session not found",
		})
	}

	// The lock is session-scoped: each request resumes its own controller, so
	// only a shared lock can keep concurrent submits of one session to a
	// single dispatch.
	acquired, err := wc.sessions.AcquireSubmitLock(ctx, sessionID)
	if err != nil {
		log.Printf("Failed to acquire submit lock for session %s: %v", sessionID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to submit listing",
		})
	}
	if !acquired {
		return c.JSON(http.StatusConflict, models.Response{
			Status:  http.StatusConflict,
			Message: wizard.ErrSubmitInFlight.Error(),
		})
	}
	defer func() {
		if err := wc.sessions.ReleaseSubmitLock(ctx, sessionID); err != nil {
			log.Printf("Failed to release submit lock for session %s: %v", sessionID, err)
		}
	}()

	trackingID, res, err := ctrl.Submit(ctx)
	if err != nil {
		status := http.StatusBadGateway
		switch err {
		case wizard.ErrNotFinalStep, wizard.ErrSubmitInFlight:
			status = http.StatusConflict
		}
		return c.JSON(status, models.Response{
			Status:  status,
			Message: err.Error(),
		})
	}
	if !res.Valid {
		return c.JSON(http.StatusUnprocessableEntity, models.Response{
			Status:  http.StatusUnprocessableEntity,
			Message: "Submission has validation errors",
			Data:    sessionView(sessionID, ctrl, res),
		})
	}

	if err := wc.sessions.Delete(ctx, sessionID); err != nil {
		log.Printf("Failed to delete wizard session %s: %v", sessionID, err)
	}

	qrCode, err := utils.GenerateTrackingQR(trackingID)
	if err != nil {
		log.Printf("Failed to generate tracking QR: %v", err)
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Listing submitted",
		Data: map[string]interface{}{
			"trackingId": trackingID,
			"qrCode":     qrCode,
		},
	})
}

// SaveDraft snapshots the session into the draft store
func (wc *WizardController) SaveDraft(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sessionID := c.Param("sessionId")
	ctrl, err := wc.load(ctx, sessionID)
	if err != nil {
		return c.JSON(http.StatusNotFound, models.Response{
			Status:  http.StatusNotFound,
			Message: "Session not found",
		})
	}

	if err := ctrl.SaveDraft(ctx); err != nil {
		if err == wizard.ErrDraftsNotAllowed {
			return c.JSON(http.StatusForbidden, models.Response{
				Status:  http.StatusForbidden,
				Message: "Drafts are not enabled for this flow",
			})
		}
		log.Printf("Failed to save draft for session %s: %v", sessionID, err)
		return c.JSON(http.StatusInternalServerError, models.Response{
			Status:  http.StatusInternalServerError,
			Message: "Failed to save draft",
		})
	}

	return c.JSON(http.StatusOK, models.Response{
		Status:  http.StatusOK,
		Message: "Draft saved",
	})
}
