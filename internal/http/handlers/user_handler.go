// README: User handlers for profile fetch, rating, history, and the video-first picker.
package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"walkbuddy/internal/modules/history"
	"walkbuddy/internal/modules/user"
	"walkbuddy/internal/types"
)

type UserHandler struct {
	users   *user.Service
	history *history.Service
}

func NewUserHandler(users *user.Service, hist *history.Service) *UserHandler {
	return &UserHandler{users: users, history: hist}
}

type userResp struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Phone             string   `json:"phone,omitempty"`
	Bio               string   `json:"bio,omitempty"`
	Pronouns          string   `json:"pronouns,omitempty"`
	Age               *int     `json:"age,omitempty"`
	RatingAverage     *float64 `json:"rating_average"`
	RatingCount       int      `json:"rating_count"`
	PrefersVideoFirst bool     `json:"prefers_video_first"`
}

func toUserResp(u *user.User) userResp {
	return userResp{
		ID:                string(u.ID),
		Name:              u.Name,
		Phone:             u.Phone,
		Bio:               u.Bio,
		Pronouns:          u.Pronouns,
		Age:               u.Age,
		RatingAverage:     u.RatingAverage,
		RatingCount:       u.RatingCount,
		PrefersVideoFirst: u.PrefersVideoFirst,
	}
}

type createUserReq struct {
	Name              string `json:"name"`
	Phone             string `json:"phone"`
	Bio               string `json:"bio"`
	Pronouns          string `json:"pronouns"`
	Age               *int   `json:"age"`
	PrefersVideoFirst bool   `json:"prefers_video_first"`
}

func (h *UserHandler) Create(c *gin.Context) {
	var req createUserReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	u, err := h.users.Create(c.Request.Context(), user.CreateCommand{
		Name:              req.Name,
		Phone:             req.Phone,
		Bio:               req.Bio,
		Pronouns:          req.Pronouns,
		Age:               req.Age,
		PrefersVideoFirst: req.PrefersVideoFirst,
	})
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, toUserResp(u))
}

func (h *UserHandler) Get(c *gin.Context) {
	id := c.Param("id")
	u, err := h.users.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, toUserResp(u))
}

type rateReq struct {
	Rating int `json:"rating"`
}

func (h *UserHandler) Rate(c *gin.Context) {
	id := c.Param("id")
	var req rateReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	r, err := h.users.Rate(c.Request.Context(), types.ID(id), req.Rating)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"rating_average": r.Average,
		"rating_count":   r.Count,
	})
}

type historyResp struct {
	OtherUserID   string    `json:"other_user_id"`
	StartLocation string    `json:"start_location"`
	EndLocation   string    `json:"end_location"`
	TripDate      time.Time `json:"trip_date"`
}

func (h *UserHandler) History(c *gin.Context) {
	id := c.Param("id")
	records, err := h.history.ListByUser(c.Request.Context(), types.ID(id))
	if err != nil {
		writeDomainError(c, err)
		return
	}
	out := make([]historyResp, len(records))
	for i, rec := range records {
		out[i] = historyResp{
			OtherUserID:   string(rec.OtherUserID),
			StartLocation: rec.StartLocation,
			EndLocation:   rec.EndLocation,
			TripDate:      rec.TripDate,
		}
	}
	writeJSON(c, http.StatusOK, gin.H{"trips": out})
}

type videoCandidateReq struct {
	ExcludedUserIDs []string `json:"excluded_user_ids"`
}

// VideoCandidate picks a random video-first user for a virtual walk,
// skipping anyone the caller has already turned down this session.
func (h *UserHandler) VideoCandidate(c *gin.Context) {
	id := c.Param("id")
	var req videoCandidateReq
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			writeError(c, http.StatusBadRequest, "invalid json")
			return
		}
	}
	excluded := make([]types.ID, len(req.ExcludedUserIDs))
	for i, e := range req.ExcludedUserIDs {
		excluded[i] = types.ID(e)
	}
	u, err := h.users.PickVideoCandidate(c.Request.Context(), types.ID(id), excluded)
	if err != nil {
		writeDomainError(c, err)
		return
	}
	if u == nil {
		writeJSON(c, http.StatusOK, gin.H{"candidate": nil})
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"candidate": toUserResp(u)})
}
