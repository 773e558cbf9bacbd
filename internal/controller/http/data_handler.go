package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"daemon/internal/entity"
	"daemon/internal/scope"
	"daemon/internal/usecase"
	"daemon/pkg/logger"

	"github.com/gin-gonic/gin"
)

type DataHandler struct {
	dataUseCase usecase.DataUseCase
	logger      *logger.Logger
}

func NewDataHandler(dataUseCase usecase.DataUseCase, logger *logger.Logger) *DataHandler {
	return &DataHandler{
		dataUseCase: dataUseCase,
		logger:      logger,
	}
}

func identityFromContext(c *gin.Context) entity.Identity {
	userID := c.GetString("user_id")
	if userID == "" {
		return entity.Identity{}
	}
	return entity.Identity{
		UserID:        userID,
		Username:      c.GetString("username"),
		IsAdmin:       c.GetBool("is_admin"),
		Authenticated: true,
	}
}

// parseLevel resolves the requested privacy level. The level and privacy_level
// query parameters are aliases and must agree by construction: level wins when
// both are present, and anything unrecognized falls back to public_full.
func parseLevel(c *gin.Context) entity.PrivacyLevel {
	raw := c.Query("level")
	if raw == "" {
		raw = c.Query("privacy_level")
	}
	return entity.ParsePrivacyLevel(raw)
}

func parsePagination(c *gin.Context) (int, int) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 {
		limit = 50
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

func (h *DataHandler) respondError(c *gin.Context, endpointName string, err error) {
	switch {
	case errors.Is(err, usecase.ErrAmbiguousScope):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":  "multiple users exist; direct endpoint access is ambiguous",
			"detail": scope.AmbiguousScopeGuidance(endpointName),
		})
	case errors.Is(err, usecase.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, usecase.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.Is(err, usecase.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("Request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func listResponse(page *usecase.EntryPage, username string) gin.H {
	return gin.H{
		"endpoint": page.Endpoint,
		"user":     username,
		"entries":  page.Entries,
		"count":    page.Count,
	}
}

// ListDirect godoc
// @Summary      List entries for an endpoint (caller-scoped)
// @Description  In single-user mode the sole user's data is returned. In multi-user mode the caller's own data is returned when authenticated; unauthenticated access is rejected with guidance toward the user-scoped pattern.
// @Tags         data
// @Produce      json
// @Param        endpoint path string true "Endpoint name"
// @Param        level query string false "Privacy level" Enums(business_card, professional, public_full, ai_safe)
// @Param        privacy_level query string false "Alias for level"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /{endpoint} [get]
func (h *DataHandler) ListDirect(c *gin.Context) {
	endpointName := c.Param("endpoint")
	if !scope.ValidSegment(endpointName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path segment"})
		return
	}

	identity := identityFromContext(c)

	username, err := h.dataUseCase.ResolveDirectTarget(identity)
	if err != nil {
		h.respondError(c, endpointName, err)
		return
	}

	h.list(c, endpointName, username, identity)
}

// ListForUser godoc
// @Summary      List a named user's entries for an endpoint
// @Tags         data
// @Produce      json
// @Param        endpoint path string true "Endpoint name"
// @Param        username path string true "Username"
// @Param        level query string false "Privacy level" Enums(business_card, professional, public_full, ai_safe)
// @Param        privacy_level query string false "Alias for level"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /{endpoint}/users/{username} [get]
func (h *DataHandler) ListForUser(c *gin.Context) {
	endpointName := c.Param("endpoint")
	username := c.Param("username")
	if !scope.ValidSegment(endpointName) || !scope.ValidSegment(username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path segment"})
		return
	}

	h.list(c, endpointName, username, identityFromContext(c))
}

// list is the single resolution+filter pipeline both URL shapes funnel into.
func (h *DataHandler) list(c *gin.Context, endpointName, username string, identity entity.Identity) {
	level := parseLevel(c)
	limit, offset := parsePagination(c)

	page, err := h.dataUseCase.ListEntries(endpointName, username, identity, level, limit, offset)
	if err != nil {
		h.respondError(c, endpointName, err)
		return
	}

	c.JSON(http.StatusOK, listResponse(page, username))
}

// LegacyListForUser redirects the legacy /users/{username}/{endpoint} shape to
// the canonical pattern, query string included, so the two shapes cannot
// diverge.
func (h *DataHandler) LegacyListForUser(c *gin.Context) {
	username := c.Param("username")
	endpointName := c.Param("endpoint")
	if !scope.ValidSegment(endpointName) || !scope.ValidSegment(username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path segment"})
		return
	}

	target := fmt.Sprintf("/api/v1/%s/users/%s", endpointName, username)
	if q := c.Request.URL.RawQuery; q != "" {
		target += "?" + q
	}
	c.Redirect(http.StatusMovedPermanently, target)
}

// GetItem godoc
// @Summary      Get a single entry
// @Description  Returns the entry when visible to the caller. A hidden or unknown entry yields HTTP 200 with an explicit no-visible-content payload, never a 404.
// @Tags         data
// @Produce      json
// @Param        endpoint path string true "Endpoint name"
// @Param        id path string true "Entry ID"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /{endpoint}/{id} [get]
func (h *DataHandler) GetItem(c *gin.Context) {
	endpointName := c.Param("endpoint")
	if !scope.ValidSegment(endpointName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path segment"})
		return
	}

	view, err := h.dataUseCase.GetEntry(endpointName, c.Param("id"), identityFromContext(c), parseLevel(c))
	if err != nil {
		h.respondError(c, endpointName, err)
		return
	}

	if !view.Visible {
		c.JSON(http.StatusOK, gin.H{
			"endpoint": view.Endpoint,
			"data":     nil,
			"detail":   "No visible content available",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"endpoint": view.Endpoint,
		"data":     view.Data,
	})
}

// CreateEntry godoc
// @Summary      Create an entry under an endpoint
// @Tags         data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        endpoint path string true "Endpoint name"
// @Param        request body map[string]interface{} true "Entry data"
// @Success      201  {object}  entity.DataEntry
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /{endpoint} [post]
func (h *DataHandler) CreateEntry(c *gin.Context) {
	endpointName := c.Param("endpoint")
	if !scope.ValidSegment(endpointName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path segment"})
		return
	}

	var data map[string]interface{}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.dataUseCase.CreateEntry(endpointName, identityFromContext(c), data)
	if err != nil {
		h.respondError(c, endpointName, err)
		return
	}

	c.JSON(http.StatusCreated, entry)
}

// UpdateEntry godoc
// @Summary      Update an entry
// @Tags         data
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        endpoint path string true "Endpoint name"
// @Param        id path string true "Entry ID"
// @Param        request body map[string]interface{} true "Entry data"
// @Success      200  {object}  entity.DataEntry
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /{endpoint}/{id} [put]
func (h *DataHandler) UpdateEntry(c *gin.Context) {
	endpointName := c.Param("endpoint")
	if !scope.ValidSegment(endpointName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path segment"})
		return
	}

	var data map[string]interface{}
	if err := c.ShouldBindJSON(&data); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.dataUseCase.UpdateEntry(endpointName, c.Param("id"), identityFromContext(c), data)
	if err != nil {
		h.respondError(c, endpointName, err)
		return
	}

	c.JSON(http.StatusOK, entry)
}

// DeleteEntry godoc
// @Summary      Soft-delete an entry
// @Tags         data
// @Produce      json
// @Security     BearerAuth
// @Param        endpoint path string true "Endpoint name"
// @Param        id path string true "Entry ID"
// @Success      200  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /{endpoint}/{id} [delete]
func (h *DataHandler) DeleteEntry(c *gin.Context) {
	endpointName := c.Param("endpoint")
	if !scope.ValidSegment(endpointName) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid path segment"})
		return
	}

	if err := h.dataUseCase.DeleteEntry(endpointName, c.Param("id"), identityFromContext(c)); err != nil {
		h.respondError(c, endpointName, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}

// ListEndpoints godoc
// @Summary      List public endpoints
// @Tags         data
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /endpoints [get]
func (h *DataHandler) ListEndpoints(c *gin.Context) {
	endpoints, err := h.dataUseCase.ListPublicEndpoints()
	if err != nil {
		h.respondError(c, "", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"endpoints": endpoints, "count": len(endpoints)})
}
