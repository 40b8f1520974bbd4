// README: Safe-locations catalog handler.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"walkbuddy/internal/modules/safeloc"
)

type SafeLocationHandler struct {
	catalog safeloc.Catalog
}

func NewSafeLocationHandler(catalog safeloc.Catalog) *SafeLocationHandler {
	return &SafeLocationHandler{catalog: catalog}
}

func (h *SafeLocationHandler) List(c *gin.Context) {
	locs, err := h.catalog.List(c.Request.Context())
	if err != nil {
		writeError(c, http.StatusServiceUnavailable, "safe locations unavailable")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"safe_locations": locs})
}
