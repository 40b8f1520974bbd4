// README: Match handlers for search/accept/reject/meeting-point/route.
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"walkbuddy/internal/modules/matching"
	"walkbuddy/internal/modules/route"
	"walkbuddy/internal/modules/safeloc"
	"walkbuddy/internal/modules/trip"
	"walkbuddy/internal/types"
)

type MatchHandler struct {
	trips   *trip.Service
	matches *matching.Service
	meeting *safeloc.Service
	routes  *route.Service
}

func NewMatchHandler(trips *trip.Service, matches *matching.Service, meeting *safeloc.Service, routes *route.Service) *MatchHandler {
	return &MatchHandler{trips: trips, matches: matches, meeting: meeting, routes: routes}
}

type candidateResp struct {
	Trip  tripResp `json:"trip"`
	Score float64  `json:"score"`
}

func toCandidateResps(candidates []matching.Candidate) []candidateResp {
	out := make([]candidateResp, len(candidates))
	for i, cand := range candidates {
		out[i] = candidateResp{Trip: toTripResp(cand.Trip), Score: cand.Score}
	}
	return out
}

type searchReq struct {
	TripID            string  `json:"trip_id"`
	MaxResults        int     `json:"max_results"`
	MinScore          float64 `json:"min_score"`
	TimeWindowMinutes int     `json:"time_window_minutes"`
}

func (h *MatchHandler) Search(c *gin.Context) {
	var req searchReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.TripID == "" {
		writeError(c, http.StatusBadRequest, "missing trip_id")
		return
	}
	my, err := h.trips.Get(c.Request.Context(), types.ID(req.TripID))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	candidates, err := h.matches.FindCandidates(c.Request.Context(), my, matching.Options{
		MaxResults:        req.MaxResults,
		MinScore:          req.MinScore,
		TimeWindowMinutes: req.TimeWindowMinutes,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	// An empty list is "no candidates right now", not an error.
	writeJSON(c, http.StatusOK, gin.H{"candidates": toCandidateResps(candidates)})
}

type matchActionReq struct {
	OtherUserID string `json:"other_user_id"`
}

func (h *MatchHandler) Accept(c *gin.Context) {
	tripID := c.Param("tripId")
	var req matchActionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	t, err := h.trips.Accept(c.Request.Context(), trip.AcceptCommand{
		TripID:      types.ID(tripID),
		OtherUserID: types.ID(req.OtherUserID),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toTripResp(t))
}

// Reject excludes the candidate and immediately re-runs the search so the
// client can show the next best buddy.
func (h *MatchHandler) Reject(c *gin.Context) {
	tripID := c.Param("tripId")
	var req matchActionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	t, err := h.trips.Reject(c.Request.Context(), trip.RejectCommand{
		TripID:      types.ID(tripID),
		OtherUserID: types.ID(req.OtherUserID),
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	candidates, err := h.matches.FindCandidates(c.Request.Context(), t, matching.Options{})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"trip":       toTripResp(t),
		"candidates": toCandidateResps(candidates),
	})
}

// Nearby lists searching trips whose origin falls within radius_km of the
// given point, nearest first, for the map browse view.
func (h *MatchHandler) Nearby(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
	if errLat != nil || errLng != nil {
		writeError(c, http.StatusBadRequest, "lat and lng query parameters are required")
		return
	}
	var radiusKm float64
	if raw := c.Query("radius_km"); raw != "" {
		r, err := strconv.ParseFloat(raw, 64)
		if err != nil || r <= 0 {
			writeError(c, http.StatusBadRequest, "radius_km must be a positive number")
			return
		}
		radiusKm = r
	}

	trips, err := h.matches.NearbyOpen(c.Request.Context(), types.Point{Lat: lat, Lng: lng}, radiusKm)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]tripResp, len(trips))
	for i, t := range trips {
		out[i] = toTripResp(t)
	}
	writeJSON(c, http.StatusOK, gin.H{"trips": out})
}

func (h *MatchHandler) MeetingPoint(c *gin.Context) {
	tripID := c.Param("tripId")
	t, err := h.trips.Get(c.Request.Context(), types.ID(tripID))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	loc, err := h.meeting.ChooseMeetingPoint(c.Request.Context(), t)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	// loc is null for virtual-only trips, missing coordinates, or an empty
	// catalog.
	writeJSON(c, http.StatusOK, gin.H{"meeting_point": loc})
}

func (h *MatchHandler) Route(c *gin.Context) {
	tripID := c.Param("tripId")
	t, err := h.trips.Get(c.Request.Context(), types.ID(tripID))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	var meetingCoord *types.Point
	if t.MatchMode != trip.ModeVirtualOnly {
		loc, err := h.meeting.ChooseMeetingPoint(c.Request.Context(), t)
		if err != nil {
			writeDomainError(c, err)
			return
		}
		if loc != nil {
			meetingCoord = &loc.Coord
		}
	}
	segmented, err := h.routes.Plan(c.Request.Context(), t, meetingCoord)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, segmented)
}
