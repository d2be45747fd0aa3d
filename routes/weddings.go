package routes

import (
	"net/http"
	"time"

	"github.com/kataras/iris/v12"

	"gorm.io/datatypes"

	"wedding-server/models"
	"wedding-server/services"
	"wedding-server/storage"
)

type WeddingHandlers struct {
	Store        storage.Store
	Availability *services.Availability
}

type resourceConfigPayload struct {
	TotalSpots int `json:"totalSpots" validate:"min=0"`
}

type weddingUpdatePayload struct {
	WeddingName    string                 `json:"weddingName"`
	WeddingDate    *time.Time             `json:"weddingDate"`
	Venue          string                 `json:"venue"`
	Theme          string                 `json:"theme"`
	Settings       datatypes.JSON         `json:"settings"`
	Lodging        *resourceConfigPayload `json:"lodging"`
	Transportation *resourceConfigPayload `json:"transportation"`
}

// List returns the weddings associated with the authenticated user.
func (h *WeddingHandlers) List(ctx iris.Context) {
	user := currentUser(ctx)
	weddings, err := h.Store.ListWeddingsForUser(ctx.Request().Context(), user.ID)
	if err != nil {
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Failed to retrieve weddings"})
		return
	}
	ctx.JSON(weddings)
}

// Get returns a wedding the user belongs to, with its availability
// ledgers attached.
func (h *WeddingHandlers) Get(ctx iris.Context) {
	wedding, ok := h.authorizedWedding(ctx)
	if !ok {
		return
	}

	reqCtx := ctx.Request().Context()
	availabilities := iris.Map{}
	for _, resource := range models.ResourceTypes {
		if availability, err := h.Availability.Get(reqCtx, wedding.ID, resource); err == nil {
			availabilities[string(resource)] = availability
		}
	}

	ctx.JSON(iris.Map{"wedding": wedding, "availability": availabilities})
}

// Update edits wedding details. A lodging or transportation block enables
// the resource or resizes its capacity.
func (h *WeddingHandlers) Update(ctx iris.Context) {
	wedding, ok := h.authorizedWedding(ctx)
	if !ok {
		return
	}

	var payload weddingUpdatePayload
	if err := ctx.ReadJSON(&payload); err != nil {
		writeBadRequest(ctx, "Invalid request payload")
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeBadRequest(ctx, err.Error())
		return
	}

	if payload.WeddingName != "" {
		wedding.WeddingName = payload.WeddingName
	}
	if payload.WeddingDate != nil {
		wedding.WeddingDate = payload.WeddingDate
	}
	if payload.Venue != "" {
		wedding.Venue = payload.Venue
	}
	if payload.Theme != "" {
		wedding.Theme = payload.Theme
	}
	if payload.Settings != nil {
		wedding.Settings = payload.Settings
	}

	reqCtx := ctx.Request().Context()
	if err := h.Store.SaveWedding(reqCtx, wedding); err != nil {
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Failed to update wedding"})
		return
	}

	configs := map[models.ResourceType]*resourceConfigPayload{
		models.ResourceLodging:        payload.Lodging,
		models.ResourceTransportation: payload.Transportation,
	}
	for resource, config := range configs {
		if config == nil {
			continue
		}
		if _, err := h.Availability.Configure(reqCtx, wedding.ID, resource, config.TotalSpots); err != nil {
			writeError(ctx, err)
			return
		}
	}

	ctx.JSON(wedding)
}

// authorizedWedding loads the wedding from the path and checks the user
// belongs to it (or is an admin).
func (h *WeddingHandlers) authorizedWedding(ctx iris.Context) (*models.Wedding, bool) {
	id := ctx.Params().GetUintDefault("id", 0)
	if id == 0 {
		writeBadRequest(ctx, "Invalid wedding ID")
		return nil, false
	}

	wedding, err := h.Store.FindWedding(ctx.Request().Context(), id)
	if err != nil {
		ctx.StatusCode(http.StatusNotFound)
		ctx.JSON(iris.Map{"error": "Wedding not found"})
		return nil, false
	}

	user := currentUser(ctx)
	if !wedding.HasUser(user.ID) && !user.IsAdmin {
		ctx.StatusCode(http.StatusForbidden)
		ctx.JSON(iris.Map{"error": "You are not authorized to access this wedding"})
		return nil, false
	}
	return wedding, true
}
