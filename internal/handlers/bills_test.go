package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pragatibook/pragatibook-backend/internal/middleware"
	"github.com/pragatibook/pragatibook-backend/internal/models"
	"github.com/pragatibook/pragatibook-backend/internal/storage"
	"github.com/pragatibook/pragatibook-backend/internal/utils"
)

func newBillApp(t *testing.T) (*fiber.App, *storage.MemoryStore) {
	t.Helper()

	store := storage.NewMemoryStore()
	handler := NewBillHandler(store)

	app := fiber.New()
	bills := app.Group("/api/bills", middleware.RequireAuth(store))
	bills.Get("/", handler.List)
	bills.Post("/", handler.Create)
	bills.Get("/:id", handler.Get)
	bills.Put("/:id", handler.Update)
	bills.Delete("/:id", handler.Delete)

	return app, store
}

func createTestUser(t *testing.T, store *storage.MemoryStore, email string) (uint, string) {
	t.Helper()

	hash, err := utils.HashPassword("secret123")
	require.NoError(t, err)

	user, err := store.CreateUser(&models.User{Name: "Test", Email: email, Password: hash})
	require.NoError(t, err)

	token, err := utils.GenerateToken(user.ID)
	require.NoError(t, err)
	return user.ID, token
}

func billRequest(t *testing.T, app *fiber.App, method, path, token string, body interface{}) *http.Response {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBill(t *testing.T, resp *http.Response) models.BillResponse {
	t.Helper()
	var bill models.BillResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bill))
	return bill
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func validBillPayload() map[string]interface{} {
	return map[string]interface{}{
		"customerName": "Sharma Traders",
		"description":  "June order",
		"date":         "2025-06-01",
		"items": []map[string]interface{}{
			{
				"id":              "item-1",
				"text":            "Steel rod",
				"feet":            2,
				"inches":          6,
				"quantity":        3,
				"defaultValue":    10,
				"calculatedValue": 1, // bogus, must be recomputed
			},
			{
				"id":              "item-2",
				"text":            "Handling",
				"quantity":        5,
				"defaultValue":    20,
				"calculatedValue": 99999,
			},
		},
		"total": 12345.0, // bogus, must be recomputed
	}
}

func TestCreateBillRecomputesDerivedValues(t *testing.T) {
	app, store := newBillApp(t)
	_, token := createTestUser(t, store, "owner@x.com")

	resp := billRequest(t, app, http.MethodPost, "/api/bills/", token, validBillPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	bill := decodeBill(t, resp)
	require.Len(t, bill.Items, 2)
	assert.InDelta(t, 900, bill.Items[0].Amount, 1e-9) // 30in * 10 * 3
	assert.InDelta(t, 100, bill.Items[1].Amount, 1e-9) // 20 * 5
	assert.InDelta(t, 1000, bill.Total, 1e-9)
}

func TestCreateBillValidation(t *testing.T) {
	app, store := newBillApp(t)
	_, token := createTestUser(t, store, "owner@x.com")

	missingName := validBillPayload()
	missingName["customerName"] = "   "
	resp := billRequest(t, app, http.MethodPost, "/api/bills/", token, missingName)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	noItems := validBillPayload()
	noItems["items"] = []map[string]interface{}{}
	resp = billRequest(t, app, http.MethodPost, "/api/bills/", token, noItems)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// rate-only item with no measurement and no quantity fails the save rule
	badItem := validBillPayload()
	badItem["items"] = []map[string]interface{}{
		{"id": "x", "defaultValue": 10},
	}
	resp = billRequest(t, app, http.MethodPost, "/api/bills/", token, badItem)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBillsRequireAuth(t *testing.T) {
	app, _ := newBillApp(t)

	resp := billRequest(t, app, http.MethodGet, "/api/bills/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = billRequest(t, app, http.MethodPost, "/api/bills/", "bad-token", validBillPayload())
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestBillAccessIsOwnerScoped(t *testing.T) {
	app, store := newBillApp(t)
	_, ownerToken := createTestUser(t, store, "owner@x.com")
	_, otherToken := createTestUser(t, store, "other@x.com")

	resp := billRequest(t, app, http.MethodPost, "/api/bills/", ownerToken, validBillPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBill(t, resp)

	// another account sees someone else's bill as not found, on every verb
	path := "/api/bills/" + itoa(created.ID)
	resp = billRequest(t, app, http.MethodGet, path, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = billRequest(t, app, http.MethodPut, path, otherToken, validBillPayload())
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = billRequest(t, app, http.MethodDelete, path, otherToken, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// the owner still can
	resp = billRequest(t, app, http.MethodGet, path, ownerToken, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestUpdateBillReplacesItemsAndRecomputes(t *testing.T) {
	app, store := newBillApp(t)
	_, token := createTestUser(t, store, "owner@x.com")

	resp := billRequest(t, app, http.MethodPost, "/api/bills/", token, validBillPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBill(t, resp)

	update := validBillPayload()
	update["customerName"] = "Sharma & Sons"
	update["items"] = []map[string]interface{}{
		{"id": "item-1", "text": "Steel rod", "feet": 1, "defaultValue": 10, "calculatedValue": 0},
	}

	resp = billRequest(t, app, http.MethodPut, "/api/bills/"+itoa(created.ID), token, update)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	updated := decodeBill(t, resp)
	assert.Equal(t, "Sharma & Sons", updated.CustomerName)
	require.Len(t, updated.Items, 1)
	assert.InDelta(t, 120, updated.Items[0].Amount, 1e-9) // 12in * 10 * 1
	assert.InDelta(t, 120, updated.Total, 1e-9)
}

func TestListBillsReturnsOnlyOwn(t *testing.T) {
	app, store := newBillApp(t)
	_, ownerToken := createTestUser(t, store, "owner@x.com")
	_, otherToken := createTestUser(t, store, "other@x.com")

	resp := billRequest(t, app, http.MethodPost, "/api/bills/", ownerToken, validBillPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp = billRequest(t, app, http.MethodGet, "/api/bills/", otherToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var bills []models.BillResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&bills))
	assert.Empty(t, bills)
}

func TestDeleteBill(t *testing.T) {
	app, store := newBillApp(t)
	_, token := createTestUser(t, store, "owner@x.com")

	resp := billRequest(t, app, http.MethodPost, "/api/bills/", token, validBillPayload())
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBill(t, resp)

	resp = billRequest(t, app, http.MethodDelete, "/api/bills/"+itoa(created.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = billRequest(t, app, http.MethodGet, "/api/bills/"+itoa(created.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
