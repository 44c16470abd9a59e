package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"bikerental/internal/database"
	"bikerental/internal/middleware"
	"bikerental/internal/modules/auth"
	"bikerental/internal/modules/booking"
	"bikerental/internal/modules/catalog"
	"bikerental/internal/modules/inventory"
	"bikerental/internal/modules/review"
	jwtsvc "bikerental/internal/pkg/jwt"
	"bikerental/internal/pkg/keylock"
	"bikerental/internal/repository"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testSuite struct {
	router *gin.Engine
	db     *gorm.DB
}

type testResponse struct {
	Success bool                   `json:"success"`
	Data    map[string]interface{} `json:"data,omitempty"`
	Error   *errorDetail           `json:"error,omitempty"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func setupSuite(t *testing.T) *testSuite {
	db, err := database.Connect(fmt.Sprintf("file:e2e_%s?mode=memory&cache=shared", t.Name()))
	require.NoError(t, err, "Failed to connect to test database")
	require.NoError(t, database.Migrate(db), "Failed to migrate schema")

	userRepo := repository.NewUserRepository(db)
	shopRepo := repository.NewShopRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)

	j := jwtsvc.New("test_secret_key_32_characters_min", 24*time.Hour)
	locks := keylock.New(3 * time.Second)

	authHandler := auth.NewHandler(auth.NewService(userRepo, j))
	catalogHandler := catalog.NewHandler(catalog.NewService(shopRepo, vehicleRepo))
	bookingHandler := booking.NewHandler(booking.NewService(bookingRepo, vehicleRepo, shopRepo, nil, locks))
	inventoryHandler := inventory.NewHandler(inventory.NewService(inventoryRepo, vehicleRepo, shopRepo, bookingRepo, locks))
	reviewHandler := review.NewHandler(review.NewService(reviewRepo, shopRepo))

	r := gin.New()
	r.Use(gin.Recovery())

	v1 := r.Group("/api/v1")
	authHandler.RegisterRoutes(v1)
	catalogHandler.RegisterRoutes(v1)
	reviewHandler.RegisterRoutes(v1)
	inventoryHandler.RegisterRoutes(v1)

	protected := v1.Group("/")
	protected.Use(middleware.Auth(j))
	{
		authHandler.RegisterProtectedRoutes(protected)
		catalogHandler.RegisterProtectedRoutes(protected)
		reviewHandler.RegisterProtectedRoutes(protected)
		bookingHandler.RegisterRoutes(protected)
		inventoryHandler.RegisterProtectedRoutes(protected)
	}

	return &testSuite{router: r, db: db}
}

func (s *testSuite) request(t *testing.T, method, path string, body interface{}, token string) (*httptest.ResponseRecorder, *testResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	var resp testResponse
	if len(w.Body.Bytes()) > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "unparseable response: %s", w.Body.String())
	}
	return w, &resp
}

func (s *testSuite) register(t *testing.T, email, role string) string {
	t.Helper()
	w, resp := s.request(t, "POST", "/api/v1/auth/register", map[string]interface{}{
		"email":    email,
		"password": "Password123!",
		"name":     "Test User",
		"role":     role,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, "registration failed: %v", resp.Error)
	return resp.Data["token"].(string)
}

func objID(t *testing.T, resp *testResponse, key string) int64 {
	t.Helper()
	obj, ok := resp.Data[key].(map[string]interface{})
	require.True(t, ok, "response has no %q object: %+v", key, resp.Data)
	id, ok := obj["id"].(float64)
	require.True(t, ok, "%q object has no id", key)
	return int64(id)
}

// setupRentalShop registers an owner, creates a shop with one vehicle and the
// given number of units, and returns the owner token with both IDs.
func (s *testSuite) setupRentalShop(t *testing.T, email string, units int) (ownerToken string, shopID, vehicleID int64) {
	t.Helper()

	ownerToken = s.register(t, email, "shop_owner")

	w, resp := s.request(t, "POST", "/api/v1/shops", map[string]interface{}{
		"name":    "Downtown Bikes",
		"phone":   "+15550100",
		"address": "1 Main St",
		"city":    "Portland",
	}, ownerToken)
	require.Equal(t, http.StatusCreated, w.Code, "shop creation failed: %v", resp.Error)
	shopID = objID(t, resp, "shop")

	w, resp = s.request(t, "POST", "/api/v1/vehicles", map[string]interface{}{
		"shop_id":              shopID,
		"name":                 "City Cruiser",
		"model":                "CR-7",
		"type":                 "hybrid",
		"price_per_hour_cents": 500,
		"price_per_day_cents":  2500,
	}, ownerToken)
	require.Equal(t, http.StatusCreated, w.Code, "vehicle creation failed: %v", resp.Error)
	vehicleID = objID(t, resp, "vehicle")

	w, resp = s.request(t, "POST", "/api/v1/inventory", map[string]interface{}{
		"vehicle_id": vehicleID,
		"total":      units,
	}, ownerToken)
	require.Equal(t, http.StatusCreated, w.Code, "inventory creation failed: %v", resp.Error)

	return ownerToken, shopID, vehicleID
}

func window(hoursFromNow, length int) (string, string) {
	start := time.Now().UTC().Add(time.Duration(hoursFromNow) * time.Hour).Truncate(time.Minute)
	return start.Format(time.RFC3339), start.Add(time.Duration(length) * time.Hour).Format(time.RFC3339)
}

func TestRegistrationAndAuth(t *testing.T) {
	suite := setupSuite(t)

	token := suite.register(t, "rider@test.com", "customer")

	t.Run("POST /auth/login", func(t *testing.T) {
		w, resp := suite.request(t, "POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "rider@test.com",
			"password": "Password123!",
		}, "")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
		assert.NotEmpty(t, resp.Data["token"])
	})

	t.Run("GET /auth/me", func(t *testing.T) {
		w, resp := suite.request(t, "GET", "/api/v1/auth/me", nil, token)
		assert.Equal(t, http.StatusOK, w.Code)
		user := resp.Data["user"].(map[string]interface{})
		assert.Equal(t, "rider@test.com", user["email"])
	})

	t.Run("duplicate email rejected", func(t *testing.T) {
		w, resp := suite.request(t, "POST", "/api/v1/auth/register", map[string]interface{}{
			"email":    "rider@test.com",
			"password": "Password123!",
			"name":     "Someone Else",
			"role":     "customer",
		}, "")
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "EMAIL_TAKEN", resp.Error.Code)
	})

	t.Run("wrong password rejected", func(t *testing.T) {
		w, resp := suite.request(t, "POST", "/api/v1/auth/login", map[string]interface{}{
			"email":    "rider@test.com",
			"password": "nope-nope",
		}, "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.False(t, resp.Success)
	})
}

func TestBookingLifecycle(t *testing.T) {
	suite := setupSuite(t)

	ownerToken, shopID, vehicleID := suite.setupRentalShop(t, "owner@test.com", 2)
	customerToken := suite.register(t, "rider@test.com", "customer")

	start, end := window(24, 3)
	var bookingID int64

	t.Run("POST /bookings", func(t *testing.T) {
		w, resp := suite.request(t, "POST", "/api/v1/bookings", map[string]interface{}{
			"vehicle_id": vehicleID,
			"start_time": start,
			"end_time":   end,
		}, customerToken)
		require.Equal(t, http.StatusCreated, w.Code, "booking failed: %v", resp.Error)
		b := resp.Data["booking"].(map[string]interface{})
		assert.Equal(t, "pending", b["status"])
		assert.Equal(t, float64(3*500), b["total_price_cents"])
		bookingID = objID(t, resp, "booking")
	})

	t.Run("inventory decremented", func(t *testing.T) {
		w, resp := suite.request(t, "GET", fmt.Sprintf("/api/v1/inventory/vehicle/%d", vehicleID), nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(1), resp.Data["available"])
	})

	t.Run("customer cannot confirm", func(t *testing.T) {
		w, _ := suite.request(t, "POST", fmt.Sprintf("/api/v1/bookings/%d/confirm", bookingID), nil, customerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("owner confirms", func(t *testing.T) {
		w, resp := suite.request(t, "POST", fmt.Sprintf("/api/v1/bookings/%d/confirm", bookingID), nil, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, "confirm failed: %v", resp.Error)
		b := resp.Data["booking"].(map[string]interface{})
		assert.Equal(t, "confirmed", b["status"])
		assert.NotEmpty(t, b["confirmed_at"])
	})

	t.Run("confirm twice is rejected", func(t *testing.T) {
		w, resp := suite.request(t, "POST", fmt.Sprintf("/api/v1/bookings/%d/confirm", bookingID), nil, ownerToken)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "INVALID_STATE", resp.Error.Code)
	})

	t.Run("owner completes and the unit returns", func(t *testing.T) {
		w, resp := suite.request(t, "POST", fmt.Sprintf("/api/v1/bookings/%d/complete", bookingID), nil, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, "complete failed: %v", resp.Error)
		b := resp.Data["booking"].(map[string]interface{})
		assert.Equal(t, "completed", b["status"])

		w, resp = suite.request(t, "GET", fmt.Sprintf("/api/v1/inventory/vehicle/%d", vehicleID), nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, float64(2), resp.Data["available"])
	})

	t.Run("completed rental unlocks reviews", func(t *testing.T) {
		w, resp := suite.request(t, "POST", "/api/v1/reviews", map[string]interface{}{
			"shop_id": shopID,
			"rating":  5,
			"comment": "Great bike, smooth pickup.",
		}, customerToken)
		require.Equal(t, http.StatusCreated, w.Code, "review failed: %v", resp.Error)

		w, resp = suite.request(t, "GET", fmt.Sprintf("/api/v1/shops/%d/reviews", shopID), nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		reviews := resp.Data["reviews"].([]interface{})
		assert.Len(t, reviews, 1)
	})

	t.Run("GET /bookings lists the customer's history", func(t *testing.T) {
		w, resp := suite.request(t, "GET", "/api/v1/bookings", nil, customerToken)
		assert.Equal(t, http.StatusOK, w.Code)
		bookings := resp.Data["bookings"].([]interface{})
		assert.Len(t, bookings, 1)
	})
}

func TestOverlapAndInventoryConflicts(t *testing.T) {
	suite := setupSuite(t)

	_, _, vehicleID := suite.setupRentalShop(t, "owner@test.com", 1)
	alice := suite.register(t, "alice@test.com", "customer")
	bob := suite.register(t, "bob@test.com", "customer")

	start, end := window(24, 2)

	w, resp := suite.request(t, "POST", "/api/v1/bookings", map[string]interface{}{
		"vehicle_id": vehicleID,
		"start_time": start,
		"end_time":   end,
	}, alice)
	require.Equal(t, http.StatusCreated, w.Code, "first booking failed: %v", resp.Error)
	aliceBooking := objID(t, resp, "booking")

	t.Run("second booking for the same window conflicts", func(t *testing.T) {
		w, resp := suite.request(t, "POST", "/api/v1/bookings", map[string]interface{}{
			"vehicle_id": vehicleID,
			"start_time": start,
			"end_time":   end,
		}, bob)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.False(t, resp.Success)
	})

	t.Run("back-to-back window also conflicts on the last unit", func(t *testing.T) {
		// Adjacent in time but the single unit is spoken for.
		nextStart, nextEnd := window(26, 2)
		w, _ := suite.request(t, "POST", "/api/v1/bookings", map[string]interface{}{
			"vehicle_id": vehicleID,
			"start_time": nextStart,
			"end_time":   nextEnd,
		}, bob)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("cancel frees the unit for the same window", func(t *testing.T) {
		w, resp := suite.request(t, "POST", fmt.Sprintf("/api/v1/bookings/%d/cancel", aliceBooking), nil, alice)
		require.Equal(t, http.StatusOK, w.Code, "cancel failed: %v", resp.Error)

		w, resp = suite.request(t, "POST", "/api/v1/bookings", map[string]interface{}{
			"vehicle_id": vehicleID,
			"start_time": start,
			"end_time":   end,
		}, bob)
		assert.Equal(t, http.StatusCreated, w.Code, "rebooking failed: %v", resp.Error)
	})

	t.Run("interval ending at another booking's start is accepted", func(t *testing.T) {
		// Bob holds [start, end); [end, end+2h) does not overlap, but the
		// single unit is still out, so the pool rejects it.
		afterStart, afterEnd := end, time.Now().UTC().Add(28*time.Hour).Truncate(time.Minute).Format(time.RFC3339)
		w, _ := suite.request(t, "POST", "/api/v1/bookings", map[string]interface{}{
			"vehicle_id": vehicleID,
			"start_time": afterStart,
			"end_time":   afterEnd,
		}, alice)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("past start time is rejected", func(t *testing.T) {
		w, _ := suite.request(t, "POST", "/api/v1/bookings", map[string]interface{}{
			"vehicle_id": vehicleID,
			"start_time": time.Now().UTC().Add(-2 * time.Hour).Format(time.RFC3339),
			"end_time":   time.Now().UTC().Add(2 * time.Hour).Format(time.RFC3339),
		}, alice)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCapacityManagement(t *testing.T) {
	suite := setupSuite(t)

	ownerToken, shopID, vehicleID := suite.setupRentalShop(t, "owner@test.com", 2)
	customerToken := suite.register(t, "rider@test.com", "customer")

	start, end := window(24, 2)
	w, resp := suite.request(t, "POST", "/api/v1/bookings", map[string]interface{}{
		"vehicle_id": vehicleID,
		"start_time": start,
		"end_time":   end,
	}, customerToken)
	require.Equal(t, http.StatusCreated, w.Code, "booking failed: %v", resp.Error)

	t.Run("raising capacity adds free units", func(t *testing.T) {
		w, resp := suite.request(t, "PUT", fmt.Sprintf("/api/v1/inventory/vehicle/%d", vehicleID), map[string]interface{}{
			"total": 5,
		}, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, "capacity change failed: %v", resp.Error)
		rec := resp.Data["inventory"].(map[string]interface{})
		assert.Equal(t, float64(5), rec["total"])
		assert.Equal(t, float64(4), rec["available"])
		assert.Equal(t, float64(1), rec["rented"])
	})

	t.Run("shrinking below rented is rejected", func(t *testing.T) {
		w, resp := suite.request(t, "PUT", fmt.Sprintf("/api/v1/inventory/vehicle/%d", vehicleID), map[string]interface{}{
			"total": 0,
		}, ownerToken)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.False(t, resp.Success)
	})

	t.Run("shrinking to exactly the rented count is allowed", func(t *testing.T) {
		w, resp := suite.request(t, "PUT", fmt.Sprintf("/api/v1/inventory/vehicle/%d", vehicleID), map[string]interface{}{
			"total": 1,
		}, ownerToken)
		require.Equal(t, http.StatusOK, w.Code, "capacity change failed: %v", resp.Error)
		rec := resp.Data["inventory"].(map[string]interface{})
		assert.Equal(t, float64(0), rec["available"])
		assert.Equal(t, float64(1), rec["rented"])
	})

	t.Run("customer cannot change capacity", func(t *testing.T) {
		w, _ := suite.request(t, "PUT", fmt.Sprintf("/api/v1/inventory/vehicle/%d", vehicleID), map[string]interface{}{
			"total": 10,
		}, customerToken)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("GET /inventory/shop/:id lists the records", func(t *testing.T) {
		w, resp := suite.request(t, "GET", fmt.Sprintf("/api/v1/inventory/shop/%d", shopID), nil, "")
		assert.Equal(t, http.StatusOK, w.Code)
		records := resp.Data["inventory"].([]interface{})
		assert.Len(t, records, 1)
	})

	t.Run("GET /inventory/availability/timerange", func(t *testing.T) {
		qs, qe := window(24, 2)
		w, resp := suite.request(t, "GET",
			fmt.Sprintf("/api/v1/inventory/availability/timerange?shop_id=%d&start_time=%s&end_time=%s", shopID, qs, qe), nil, "")
		require.Equal(t, http.StatusOK, w.Code, "timerange failed: %v", resp.Error)
		items := resp.Data["availability"].([]interface{})
		require.Len(t, items, 1)
		entry := items[0].(map[string]interface{})
		assert.Equal(t, false, entry["is_available"]) // 1 total, 1 overlapping booking
	})
}

func TestReschedule(t *testing.T) {
	suite := setupSuite(t)

	ownerToken, _, vehicleID := suite.setupRentalShop(t, "owner@test.com", 1)
	customerToken := suite.register(t, "rider@test.com", "customer")

	start, end := window(24, 2)
	w, resp := suite.request(t, "POST", "/api/v1/bookings", map[string]interface{}{
		"vehicle_id": vehicleID,
		"start_time": start,
		"end_time":   end,
	}, customerToken)
	require.Equal(t, http.StatusCreated, w.Code)
	bookingID := objID(t, resp, "booking")

	t.Run("pending booking moves to a new window", func(t *testing.T) {
		newStart, newEnd := window(48, 2)
		w, resp := suite.request(t, "PUT", fmt.Sprintf("/api/v1/bookings/%d", bookingID), map[string]interface{}{
			"start_time": newStart,
			"end_time":   newEnd,
		}, customerToken)
		require.Equal(t, http.StatusOK, w.Code, "reschedule failed: %v", resp.Error)
	})

	t.Run("rescheduling onto itself is not a conflict", func(t *testing.T) {
		// Same window again: the booking's own interval is excluded from
		// the overlap check.
		newStart, newEnd := window(48, 2)
		w, _ := suite.request(t, "PUT", fmt.Sprintf("/api/v1/bookings/%d", bookingID), map[string]interface{}{
			"start_time": newStart,
			"end_time":   newEnd,
		}, customerToken)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("confirmed booking cannot be rescheduled", func(t *testing.T) {
		w, _ := suite.request(t, "POST", fmt.Sprintf("/api/v1/bookings/%d/confirm", bookingID), nil, ownerToken)
		require.Equal(t, http.StatusOK, w.Code)

		newStart, newEnd := window(72, 2)
		w, resp := suite.request(t, "PUT", fmt.Sprintf("/api/v1/bookings/%d", bookingID), map[string]interface{}{
			"start_time": newStart,
			"end_time":   newEnd,
		}, customerToken)
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "INVALID_STATE", resp.Error.Code)
	})
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}
