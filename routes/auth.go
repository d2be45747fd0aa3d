package routes

import (
	"errors"
	"net/http"

	"github.com/kataras/iris/v12"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"wedding-server/models"
	"wedding-server/storage"
	"wedding-server/utils"
)

type AuthHandlers struct {
	Store storage.Store
	Log   zerolog.Logger
}

type signupPayload struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	WeddingID   uint   `json:"weddingId"`
	WeddingName string `json:"weddingName"`
}

type loginPayload struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Signup registers a new organizer. Admin and venue privileges are never
// granted here. A weddingName creates a fresh wedding; a weddingId joins
// an existing one.
func (h *AuthHandlers) Signup(ctx iris.Context) {
	var payload signupPayload
	if err := ctx.ReadJSON(&payload); err != nil {
		writeBadRequest(ctx, "Invalid request payload")
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeBadRequest(ctx, err.Error())
		return
	}

	reqCtx := ctx.Request().Context()

	hashed, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Failed to create user"})
		return
	}

	user := &models.User{
		Email:    payload.Email,
		Password: string(hashed),
	}
	if err := h.Store.CreateUser(reqCtx, user); err != nil {
		if errors.Is(err, storage.ErrDuplicate) {
			ctx.StatusCode(http.StatusConflict)
			ctx.JSON(iris.Map{"error": "User already exists"})
			return
		}
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Failed to create user"})
		return
	}

	// The account exists at this point; a failed wedding join or create is
	// reported in the response but does not fail the signup.
	var wedding *models.Wedding
	switch {
	case payload.WeddingID != 0:
		existing, err := h.Store.FindWedding(reqCtx, payload.WeddingID)
		if err != nil {
			h.Log.Warn().Err(err).Uint("weddingId", payload.WeddingID).Msg("signup referenced unknown wedding")
			break
		}
		existing.Users = append(existing.Users, user)
		if err := h.Store.SaveWedding(reqCtx, existing); err != nil {
			h.Log.Error().Err(err).Uint("weddingId", payload.WeddingID).Msg("signup could not join wedding")
			break
		}
		wedding = existing
	case payload.WeddingName != "":
		created := &models.Wedding{
			WeddingName: payload.WeddingName,
			Users:       []*models.User{user},
		}
		if err := h.Store.CreateWedding(reqCtx, created); err != nil {
			h.Log.Error().Err(err).Str("weddingName", payload.WeddingName).Msg("signup could not create wedding")
			break
		}
		wedding = created
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Failed to generate token"})
		return
	}

	response := iris.Map{
		"token":   token,
		"user":    user,
		"wedding": wedding,
	}
	if wedding == nil && (payload.WeddingID != 0 || payload.WeddingName != "") {
		response["weddingError"] = "Account created, but the wedding could not be associated"
	}
	ctx.StatusCode(http.StatusCreated)
	ctx.JSON(response)
}

// Login verifies credentials and issues a token.
func (h *AuthHandlers) Login(ctx iris.Context) {
	var payload loginPayload
	if err := ctx.ReadJSON(&payload); err != nil {
		writeBadRequest(ctx, "Invalid request payload")
		return
	}
	if err := validate.Struct(payload); err != nil {
		writeBadRequest(ctx, err.Error())
		return
	}

	user, err := h.Store.FindUserByEmail(ctx.Request().Context(), payload.Email)
	if err != nil {
		ctx.StatusCode(http.StatusUnauthorized)
		ctx.JSON(iris.Map{"error": "Invalid email or password"})
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(payload.Password)) != nil {
		ctx.StatusCode(http.StatusUnauthorized)
		ctx.JSON(iris.Map{"error": "Invalid email or password"})
		return
	}

	token, err := utils.GenerateToken(user)
	if err != nil {
		ctx.StatusCode(http.StatusInternalServerError)
		ctx.JSON(iris.Map{"error": "Failed to generate token"})
		return
	}

	ctx.JSON(iris.Map{"token": token, "user": user})
}
