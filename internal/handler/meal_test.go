package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mealtrack/mealtrack/internal/auth"
	"github.com/mealtrack/mealtrack/internal/handler/dto"
	"github.com/mealtrack/mealtrack/internal/model"
	"github.com/mealtrack/mealtrack/internal/service"
)

// mealTestServer mounts the meal routes behind a middleware that injects a
// fixed identity, standing in for the session middleware.
func mealTestServer(store *fakeStore, user *model.User) http.Handler {
	svc := service.NewMealService(store, nil)
	h := NewMealHandler(svc, discardLogger())

	r := chi.NewRouter()
	r.Route("/api/v1/meals", func(r chi.Router) {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				ctx := auth.ContextWithUser(req.Context(), user)
				next.ServeHTTP(w, req.WithContext(ctx))
			})
		})
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Get("/metrics", h.Metrics)
		r.Get("/{mealID}", h.Get)
		r.Put("/{mealID}", h.Update)
		r.Delete("/{mealID}", h.Delete)
	})
	return r
}

func seedMeal(t *testing.T, store *fakeStore, ownerID, name string, occurredAt time.Time, withinDiet bool) *model.Meal {
	t.Helper()

	svc := service.NewMealService(store, nil)
	meal, err := svc.Create(context.Background(), ownerID, service.CreateMealInput{
		Name:       name,
		OccurredAt: occurredAt,
		WithinDiet: withinDiet,
	})
	if err != nil {
		t.Fatalf("failed to seed meal: %v", err)
	}
	return meal
}

func TestMealHandler_Create(t *testing.T) {
	store := newFakeStore()
	user := &model.User{ID: "user-1"}
	srv := mealTestServer(store, user)

	body := `{"name":"Lunch","description":"Salad","occurred_at":"2024-10-23T12:30:00Z","within_diet":true}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/meals", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.Len() != 0 {
		t.Errorf("expected empty body, got %q", rec.Body.String())
	}

	meals, _ := store.ListMealsByOwner(context.Background(), "user-1")
	if len(meals) != 1 {
		t.Fatalf("expected 1 stored meal, got %d", len(meals))
	}
	if meals[0].Name != "Lunch" || !meals[0].WithinDiet {
		t.Errorf("stored meal does not match request: %+v", meals[0])
	}
}

func TestMealHandler_Create_MissingWithinDiet(t *testing.T) {
	srv := mealTestServer(newFakeStore(), &model.User{ID: "user-1"})

	body := `{"name":"Lunch","occurred_at":"2024-10-23T12:30:00Z"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/meals", strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var response map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response["code"] != "MISSING_WITHIN_DIET" {
		t.Errorf("unexpected error code: %s", response["code"])
	}
}

func TestMealHandler_List(t *testing.T) {
	store := newFakeStore()
	base := time.Date(2024, 10, 1, 8, 0, 0, 0, time.UTC)
	seedMeal(t, store, "user-1", "Breakfast", base, true)
	seedMeal(t, store, "user-1", "Dinner", base.Add(12*time.Hour), false)
	seedMeal(t, store, "user-2", "Other", base, true)

	srv := mealTestServer(store, &model.User{ID: "user-1"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/meals", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var response dto.MealListResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Meals) != 2 {
		t.Fatalf("expected 2 meals, got %d", len(response.Meals))
	}
	if response.Meals[0].Name != "Dinner" || response.Meals[1].Name != "Breakfast" {
		t.Errorf("unexpected listing order: %s, %s", response.Meals[0].Name, response.Meals[1].Name)
	}
}

func TestMealHandler_Get(t *testing.T) {
	store := newFakeStore()
	meal := seedMeal(t, store, "user-1", "Lunch", time.Now().UTC(), true)

	srv := mealTestServer(store, &model.User{ID: "user-1"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/meals/"+meal.ID, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var response dto.MealEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Meal.ID != meal.ID {
		t.Errorf("expected meal %s, got %s", meal.ID, response.Meal.ID)
	}
	if response.Meal.UpdatedAt != nil {
		t.Error("expected null updated_at for a never-updated meal")
	}
}

func TestMealHandler_Get_OtherOwnerLooksNonexistent(t *testing.T) {
	store := newFakeStore()
	meal := seedMeal(t, store, "user-1", "Lunch", time.Now().UTC(), true)

	srv := mealTestServer(store, &model.User{ID: "user-2"})

	otherOwner := httptest.NewRecorder()
	srv.ServeHTTP(otherOwner, httptest.NewRequest(http.MethodGet, "/api/v1/meals/"+meal.ID, nil))

	nonexistent := httptest.NewRecorder()
	srv.ServeHTTP(nonexistent, httptest.NewRequest(http.MethodGet, "/api/v1/meals/01HNONEXISTENT0000000000", nil))

	if otherOwner.Code != http.StatusNotFound {
		t.Errorf("expected status 404 for another owner's meal, got %d", otherOwner.Code)
	}
	if otherOwner.Code != nonexistent.Code || otherOwner.Body.String() != nonexistent.Body.String() {
		t.Error("another owner's meal must be indistinguishable from a nonexistent one")
	}
}

func TestMealHandler_Update(t *testing.T) {
	store := newFakeStore()
	meal := seedMeal(t, store, "user-1", "Lunch", time.Now().UTC(), true)

	srv := mealTestServer(store, &model.User{ID: "user-1"})

	body := `{"name":"Big Lunch","within_diet":false}`
	req := httptest.NewRequest(http.MethodPut, "/api/v1/meals/"+meal.ID, strings.NewReader(body))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d: %s", rec.Code, rec.Body.String())
	}

	got, err := store.GetMealByID(context.Background(), "user-1", meal.ID)
	if err != nil {
		t.Fatalf("failed to fetch updated meal: %v", err)
	}
	if got.Name != "Big Lunch" || got.WithinDiet {
		t.Errorf("update not applied: %+v", got)
	}
	if got.UpdatedAt == nil {
		t.Error("expected updated_at to be set")
	}
}

func TestMealHandler_Update_NotFound(t *testing.T) {
	srv := mealTestServer(newFakeStore(), &model.User{ID: "user-1"})

	req := httptest.NewRequest(http.MethodPut, "/api/v1/meals/01HNONEXISTENT0000000000", strings.NewReader(`{"name":"X"}`))
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestMealHandler_Delete(t *testing.T) {
	store := newFakeStore()
	meal := seedMeal(t, store, "user-1", "Lunch", time.Now().UTC(), true)

	srv := mealTestServer(store, &model.User{ID: "user-1"})

	req := httptest.NewRequest(http.MethodDelete, "/api/v1/meals/"+meal.ID, nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected status 204, got %d", rec.Code)
	}

	if _, err := store.GetMealByID(context.Background(), "user-1", meal.ID); err == nil {
		t.Error("expected the meal to be gone")
	}

	// A second delete reports not found.
	rec = httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/v1/meals/"+meal.ID, nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status 404 on repeat delete, got %d", rec.Code)
	}
}

func TestMealHandler_Metrics(t *testing.T) {
	store := newFakeStore()
	base := time.Date(2024, 10, 1, 12, 0, 0, 0, time.UTC)
	for i, onDiet := range []bool{true, true, false, true, true, true, false} {
		seedMeal(t, store, "user-1", "Meal", base.AddDate(0, 0, i), onDiet)
	}

	srv := mealTestServer(store, &model.User{ID: "user-1"})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/meals/metrics", nil)
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	var response dto.MetricsResponse
	if err := json.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	want := dto.MetricsResponse{Total: 7, OnDiet: 5, OffDiet: 2, BestStreak: 3}
	if response != want {
		t.Errorf("metrics = %+v, want %+v", response, want)
	}
}
