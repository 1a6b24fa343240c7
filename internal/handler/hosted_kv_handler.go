package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/dafibh/fintrack/fintrack-backend/internal/domain"
	"github.com/dafibh/fintrack/fintrack-backend/internal/ledger"
	"github.com/dafibh/fintrack/fintrack-backend/internal/service"
	"github.com/labstack/echo/v4"
)

// maxValueBytes caps a single hosted value
const maxValueBytes = 5 << 20

// HostedKVHandler handles the hosted key/value passthrough and bulk save
type HostedKVHandler struct {
	kv     *service.HostedKVService
	ledger *ledger.Store
}

// NewHostedKVHandler creates a new HostedKVHandler
func NewHostedKVHandler(kv *service.HostedKVService, l *ledger.Store) *HostedKVHandler {
	return &HostedKVHandler{kv: kv, ledger: l}
}

// KeysResponse lists hosted keys
type KeysResponse struct {
	Keys     []string   `json:"keys"`
	LastSave *time.Time `json:"lastSave,omitempty"`
}

// ValueResponse holds one hosted value. Values that are not JSON are returned as a string.
type ValueResponse struct {
	Key   string          `json:"key"`
	Value json.RawMessage `json:"value" swaggertype:"object"`
}

// SaveData godoc
// @Summary Bulk save
// @Description Replaces the ledger with the posted snapshot and mirrors every ledger key to the hosted store
// @Tags hosted-kv
// @Accept json
// @Produce json
// @Param request body ledger.Snapshot true "Ledger snapshot"
// @Success 200 {object} service.SaveResult
// @Failure 400 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /save-data [post]
func (h *HostedKVHandler) SaveData(c echo.Context) error {
	snap := ledger.Snapshot{Profile: domain.DefaultUserProfile()}
	if err := c.Bind(&snap); err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	res, err := h.kv.SaveData(c.Request().Context(), h.ledger, snap)
	if err != nil {
		return NewDomainError(c, err, "Failed to save data")
	}
	return c.JSON(http.StatusOK, res)
}

// ListKeys godoc
// @Summary List hosted keys
// @Tags hosted-kv
// @Produce json
// @Param prefix query string false "Key prefix"
// @Success 200 {object} KeysResponse
// @Failure 500 {object} ErrorResponse
// @Router /replit-db [get]
func (h *HostedKVHandler) ListKeys(c echo.Context) error {
	ctx := c.Request().Context()
	keys, err := h.kv.List(ctx, c.QueryParam("prefix"))
	if err != nil {
		return NewDomainError(c, err, "Failed to list keys")
	}
	resp := KeysResponse{Keys: keys}
	if t, ok := h.kv.LastSave(ctx); ok {
		resp.LastSave = &t
	}
	return c.JSON(http.StatusOK, resp)
}

// GetValue godoc
// @Summary Get a hosted value
// @Tags hosted-kv
// @Produce json
// @Param key path string true "Key"
// @Success 200 {object} ValueResponse
// @Failure 404 {object} ErrorResponse
// @Router /replit-db/{key} [get]
func (h *HostedKVHandler) GetValue(c echo.Context) error {
	key := c.Param("key")
	data, err := h.kv.Get(c.Request().Context(), key)
	if err != nil {
		return NewDomainError(c, err, "Failed to get value")
	}
	if !json.Valid(data) {
		data, _ = json.Marshal(string(data))
	}
	return c.JSON(http.StatusOK, ValueResponse{Key: key, Value: data})
}

// SetValue godoc
// @Summary Set a hosted value
// @Description The request body is stored as given
// @Tags hosted-kv
// @Accept json
// @Produce json
// @Param key path string true "Key"
// @Success 200 {object} UpdatedResponse
// @Failure 400 {object} ErrorResponse
// @Router /replit-db/{key} [put]
func (h *HostedKVHandler) SetValue(c echo.Context) error {
	data, err := io.ReadAll(io.LimitReader(c.Request().Body, maxValueBytes+1))
	if err != nil {
		return NewValidationError(c, "Invalid request body")
	}
	if len(data) > maxValueBytes {
		return NewValidationError(c, "Value too large")
	}
	if err := h.kv.Set(c.Request().Context(), c.Param("key"), data); err != nil {
		return NewDomainError(c, err, "Failed to set value")
	}
	return c.JSON(http.StatusOK, UpdatedResponse{Updated: true})
}

// DeleteValue godoc
// @Summary Delete a hosted value
// @Tags hosted-kv
// @Produce json
// @Param key path string true "Key"
// @Success 200 {object} DeletedResponse
// @Failure 400 {object} ErrorResponse
// @Router /replit-db/{key} [delete]
func (h *HostedKVHandler) DeleteValue(c echo.Context) error {
	if err := h.kv.Delete(c.Request().Context(), c.Param("key")); err != nil {
		return NewDomainError(c, err, "Failed to delete value")
	}
	return c.JSON(http.StatusOK, DeletedResponse{Deleted: true})
}
