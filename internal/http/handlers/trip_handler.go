// README: Trip handlers for create/get/complete.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"walkbuddy/internal/http/middleware"
	"walkbuddy/internal/modules/trip"
	"walkbuddy/internal/types"
)

type TripHandler struct {
	trips *trip.Service
}

func NewTripHandler(svc *trip.Service) *TripHandler {
	return &TripHandler{trips: svc}
}

type placeReq struct {
	Text string   `json:"text"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

func (p placeReq) toPlace() trip.Place {
	place := trip.Place{Text: p.Text}
	if p.Lat != nil && p.Lng != nil {
		place.Coord = &types.Point{Lat: *p.Lat, Lng: *p.Lng}
	}
	return place
}

type placeResp struct {
	Text string   `json:"text"`
	Lat  *float64 `json:"lat"`
	Lng  *float64 `json:"lng"`
}

type tripResp struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Origin            placeResp  `json:"origin"`
	Destination       placeResp  `json:"destination"`
	MatchMode         string     `json:"match_mode,omitempty"`
	PlannedStartTime  *time.Time `json:"planned_start_time,omitempty"`
	Status            string     `json:"status"`
	ActiveMatchUserID *string    `json:"active_match_user_id,omitempty"`
	ExcludedUserIDs   []string   `json:"excluded_user_ids"`
	CompletedAt       *time.Time `json:"completed_at,omitempty"`
}

func toPlaceResp(p trip.Place) placeResp {
	r := placeResp{Text: p.Text}
	if p.Coord != nil {
		r.Lat, r.Lng = &p.Coord.Lat, &p.Coord.Lng
	}
	return r
}

func toTripResp(t *trip.Trip) tripResp {
	r := tripResp{
		ID:               string(t.ID),
		UserID:           string(t.UserID),
		Origin:           toPlaceResp(t.Origin),
		Destination:      toPlaceResp(t.Destination),
		MatchMode:        string(t.MatchMode),
		PlannedStartTime: t.PlannedStartTime,
		Status:           string(t.Status),
		CompletedAt:      t.CompletedAt,
		ExcludedUserIDs:  make([]string, len(t.ExcludedUserIDs)),
	}
	for i, id := range t.ExcludedUserIDs {
		r.ExcludedUserIDs[i] = string(id)
	}
	if t.ActiveMatchUserID != nil {
		v := string(*t.ActiveMatchUserID)
		r.ActiveMatchUserID = &v
	}
	return r
}

type createTripReq struct {
	Origin           placeReq `json:"origin"`
	Destination      placeReq `json:"destination"`
	MatchMode        string   `json:"match_mode"`
	PlannedStartTime *string  `json:"planned_start_time"`
}

func (h *TripHandler) Create(c *gin.Context) {
	var req createTripReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}

	var planned *time.Time
	if req.PlannedStartTime != nil {
		ts, err := time.Parse(time.RFC3339, *req.PlannedStartTime)
		if err != nil {
			writeError(c, http.StatusBadRequest, "planned_start_time must be RFC 3339")
			return
		}
		planned = &ts
	}

	t, err := h.trips.Create(c.Request.Context(), trip.CreateCommand{
		UserID:           types.ID(middleware.CallerUID(c)),
		Origin:           req.Origin.toPlace(),
		Destination:      req.Destination.toPlace(),
		MatchMode:        trip.MatchMode(req.MatchMode),
		PlannedStartTime: planned,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toTripResp(t))
}

func (h *TripHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing trip id")
		return
	}
	t, err := h.trips.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toTripResp(t))
}

type completeTripReq struct {
	Rating int `json:"rating"`
}

func (h *TripHandler) Complete(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing trip id")
		return
	}
	// Rating is optional; an empty body means the owner skipped it.
	var req completeTripReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
	}
	t, err := h.trips.Complete(c.Request.Context(), trip.CompleteCommand{
		TripID: types.ID(id),
		Rating: req.Rating,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toTripResp(t))
}
