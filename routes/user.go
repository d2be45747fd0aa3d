package routes

import (
	"net/http"

	"github.com/kataras/iris/v12"

	"wedding-server/models"
	"wedding-server/storage"
)

type UserHandlers struct {
	Store storage.Store
}

// Me returns the authenticated user's profile with their weddings attached.
func (h *UserHandlers) Me(ctx iris.Context) {
	user := currentUser(ctx)

	weddings, err := h.Store.ListWeddingsForUser(ctx.Request().Context(), user.ID)
	if err != nil {
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Failed to retrieve user profile"})
		return
	}

	user.Weddings = make([]*models.Wedding, 0, len(weddings))
	for i := range weddings {
		user.Weddings = append(user.Weddings, &weddings[i])
	}
	ctx.JSON(user)
}
