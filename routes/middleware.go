package routes

import (
	"net/http"
	"strings"

	"github.com/kataras/iris/v12"

	"wedding-server/models"
	"wedding-server/storage"
	"wedding-server/utils"
)

const userContextKey = "user"

// Protect rejects requests without a valid Bearer token and stores the
// authenticated user on the request context.
func Protect(store storage.Store) iris.Handler {
	return func(ctx iris.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.StatusCode(http.StatusUnauthorized)
			ctx.JSON(iris.Map{"error": "Not authorized, no token provided"})
			ctx.StopExecution()
			return
		}

		claims, err := utils.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			ctx.StatusCode(http.StatusUnauthorized)
			ctx.JSON(iris.Map{"error": "Not authorized, token failed"})
			ctx.StopExecution()
			return
		}

		user, err := store.FindUserByID(ctx.Request().Context(), claims.UserID)
		if err != nil {
			ctx.StatusCode(http.StatusUnauthorized)
			ctx.JSON(iris.Map{"error": "Not authorized, user not found"})
			ctx.StopExecution()
			return
		}

		ctx.Values().Set(userContextKey, user)
		ctx.Next()
	}
}

func currentUser(ctx iris.Context) *models.User {
	user, _ := ctx.Values().Get(userContextKey).(*models.User)
	return user
}
