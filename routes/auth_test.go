package routes_test

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kataras/iris/v12/httptest"
	"github.com/rs/zerolog"

	"wedding-server/models"
	"wedding-server/routes"
	"wedding-server/services"
	"wedding-server/storage"
)

// weddingFailStore refuses wedding creation while everything else works.
type weddingFailStore struct {
	storage.Store
}

func (s *weddingFailStore) CreateWedding(ctx context.Context, wedding *models.Wedding) error {
	return errors.New("connection reset")
}

func TestSignupReportsFailedWeddingCreate(t *testing.T) {
	var logs bytes.Buffer
	logger := zerolog.New(&logs)
	store := &weddingFailStore{Store: storage.NewMemoryStore()}
	availability := services.NewAvailability(store, nil, zerolog.Nop())

	app := routes.NewApp(routes.Deps{
		Store:        store,
		Availability: availability,
		Reservations: services.NewReservations(store, availability, zerolog.Nop()),
		RSVP:         services.NewRSVP(store, availability, zerolog.Nop()),
		Log:          logger,
	})
	e := httptest.New(t, app)

	response := e.POST("/api/auth/signup").WithJSON(map[string]interface{}{
		"email":       "ana@example.com",
		"password":    "supersecret",
		"weddingName": "Ana & Luis",
	}).Expect().
		Status(httptest.StatusCreated).
		JSON().Object()

	// The account still exists, but the response says the wedding part
	// failed instead of a silent null.
	response.ContainsKey("token")
	response.ValueEqual("wedding", nil)
	response.ContainsKey("weddingError")

	if !strings.Contains(logs.String(), "signup could not create wedding") {
		t.Errorf("expected failed wedding create to be logged, got %q", logs.String())
	}
}

func TestSignupWithWeddingName(t *testing.T) {
	store, app := newTestApp(t)
	e := httptest.New(t, app)

	response := e.POST("/api/auth/signup").WithJSON(map[string]interface{}{
		"email":       "ana@example.com",
		"password":    "supersecret",
		"weddingName": "Ana & Luis",
	}).Expect().
		Status(httptest.StatusCreated).
		JSON().Object()

	response.ContainsKey("token")
	response.NotContainsKey("weddingError")
	response.Value("wedding").Object().ValueEqual("weddingName", "Ana & Luis")

	if _, err := store.FindUserByEmail(context.Background(), "ana@example.com"); err != nil {
		t.Fatalf("FindUserByEmail() error = %v", err)
	}
}
