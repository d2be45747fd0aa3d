package routes

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/kataras/iris/v12"

	"wedding-server/services"
)

var validate = validator.New()

// writeError renders a service error with its HTTP status. Anything that
// is not a typed service error becomes a generic 500, never a raw error.
func writeError(ctx iris.Context, err error) {
	if svcErr, ok := services.AsError(err); ok {
		ctx.StatusCode(svcErr.StatusCode())
		ctx.JSON(iris.Map{"error": svcErr.Message})
		return
	}
	ctx.StatusCode(http.StatusInternalServerError)
	ctx.JSON(iris.Map{"error": "Internal server error"})
}

func writeBadRequest(ctx iris.Context, message string) {
	ctx.StatusCode(http.StatusBadRequest)
	ctx.JSON(iris.Map{"error": message})
}
