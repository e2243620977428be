package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadhlanhapp/splitbill-backend/config"
	"github.com/fadhlanhapp/splitbill-backend/logger"
	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/services"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

func TestMain(m *testing.M) {
	logger.IsTest = true
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// memBillStore implements services.BillStore in memory for handler
// tests.
type memBillStore struct {
	bills map[string]*models.Bill
}

func newMemBillStore() *memBillStore {
	return &memBillStore{bills: make(map[string]*models.Bill)}
}

func (s *memBillStore) GetBill(_ context.Context, billID string) (*models.Bill, error) {
	bill, ok := s.bills[billID]
	if !ok {
		return nil, utils.NewNotFoundError(utils.KindBillNotFound, utils.ErrBillNotFound)
	}
	return bill.Clone(), nil
}

func (s *memBillStore) CreateBill(_ context.Context, bill *models.Bill) error {
	s.bills[bill.ID] = bill.Clone()
	return nil
}

func (s *memBillStore) SaveBill(ctx context.Context, bill *models.Bill, expectedVersion int64) error {
	return s.SaveBillWithParticipant(ctx, bill, expectedVersion, "")
}

func (s *memBillStore) SaveBillWithParticipant(_ context.Context, bill *models.Bill, expectedVersion int64, _ string) error {
	current, ok := s.bills[bill.ID]
	if !ok {
		return utils.NewNotFoundError(utils.KindBillNotFound, utils.ErrBillNotFound)
	}
	if current.Version != expectedVersion {
		return utils.NewConflictError("bill was modified concurrently")
	}
	bill.Version = expectedVersion + 1
	s.bills[bill.ID] = bill.Clone()
	return nil
}

func (s *memBillStore) DeleteBill(_ context.Context, bill *models.Bill) error {
	delete(s.bills, bill.ID)
	return nil
}

func (s *memBillStore) ListBillsByCreator(_ context.Context, address string) ([]*models.Bill, error) {
	bills := []*models.Bill{}
	for _, bill := range s.bills {
		if utils.SameAddress(bill.CreatorAddress, address) {
			bills = append(bills, bill.Clone())
		}
	}
	return bills, nil
}

func (s *memBillStore) ListBillsByParticipant(_ context.Context, address string) ([]*models.Bill, error) {
	bills := []*models.Bill{}
	for _, bill := range s.bills {
		for _, participant := range bill.Participants {
			if utils.SameAddress(participant.Address, address) {
				bills = append(bills, bill.Clone())
				break
			}
		}
	}
	return bills, nil
}

// memFriendStore implements services.FriendStore in memory.
type memFriendStore struct {
	lists map[string][]models.Friend
}

func (s *memFriendStore) GetFriends(_ context.Context, owner string) ([]models.Friend, error) {
	return s.lists[utils.NormalizeAddress(owner)], nil
}

func (s *memFriendStore) SaveFriends(_ context.Context, owner string, friends []models.Friend) error {
	s.lists[utils.NormalizeAddress(owner)] = friends
	return nil
}

func newTestRouter() (*gin.Engine, *memBillStore) {
	cfg := &config.BillConfig{
		MinTotalAmount:  "1",
		MaxTotalAmount:  "10000",
		MaxParticipants: 20,
		TokenDecimals:   6,
		ShareBaseURL:    "https://splitbill.app/bill",
		BillCacheSize:   16,
	}

	store := newMemBillStore()
	friendStore := &memFriendStore{lists: make(map[string][]models.Friend)}

	validation := services.NewValidationService(cfg)
	bills := services.NewBillService(store, validation, cfg)
	friends := services.NewFriendService(friendStore)
	ledger := services.NewLedgerService(store, friends)
	payments := services.NewPaymentService(store)
	stats := services.NewStatsService(cfg)
	receipts := services.NewReceiptService()

	router := gin.New()
	handler := NewBillHandler(bills, ledger, payments, stats, receipts)
	router.POST("/api/v1/bills/create", handler.CreateBill)
	router.GET("/api/v1/bills/:id", handler.GetBill)
	router.POST("/api/v1/bills/:id", handler.BillAction)
	router.GET("/api/v1/bills/:id/stats", handler.GetBillStats)
	router.GET("/api/v1/bills/:id/receipt", handler.GetBillReceipt)
	return router, store
}

func postJSON(t *testing.T, router *gin.Engine, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	return recorder
}

func TestBillHandler_CreateBill(t *testing.T) {
	router, _ := newTestRouter()

	recorder := postJSON(t, router, "/api/v1/bills/create", models.CreateBillRequest{
		Title:            "Dinner",
		TotalAmount:      "100.00",
		ParticipantCount: 4,
		CreatorAddress:   "0x1111111111111111111111111111111111111111",
	})

	require.Equal(t, http.StatusCreated, recorder.Code)
	var bill models.Bill
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &bill))
	assert.Equal(t, "25.000000", bill.AmountPerPerson)
	assert.Equal(t, "active", bill.Status)
}

func TestBillHandler_CreateBill_ValidationEnvelope(t *testing.T) {
	router, _ := newTestRouter()

	recorder := postJSON(t, router, "/api/v1/bills/create", models.CreateBillRequest{
		Title:            "x",
		TotalAmount:      "0.10",
		ParticipantCount: 1,
		CreatorAddress:   "bogus",
	})

	require.Equal(t, http.StatusBadRequest, recorder.Code)
	var body struct {
		Kind       string   `json:"kind"`
		Violations []string `json:"violations"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, utils.KindInvalidInput, body.Kind)
	assert.Len(t, body.Violations, 3)
}

func TestBillHandler_JoinAction(t *testing.T) {
	router, _ := newTestRouter()

	created := postJSON(t, router, "/api/v1/bills/create", models.CreateBillRequest{
		Title:            "Dinner",
		TotalAmount:      "100.00",
		ParticipantCount: 4,
		CreatorAddress:   "0x1111111111111111111111111111111111111111",
	})
	require.Equal(t, http.StatusCreated, created.Code)
	var bill models.Bill
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &bill))

	recorder := postJSON(t, router, "/api/v1/bills/"+bill.ID, models.BillActionRequest{
		Action:             "join",
		ParticipantAddress: "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa",
	})

	require.Equal(t, http.StatusOK, recorder.Code)
	var joined models.Bill
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &joined))
	require.Len(t, joined.Participants, 1)

	// Creator joining maps to its distinct 400.
	recorder = postJSON(t, router, "/api/v1/bills/"+bill.ID, models.BillActionRequest{
		Action:             "join",
		ParticipantAddress: bill.CreatorAddress,
	})
	require.Equal(t, http.StatusBadRequest, recorder.Code)
	var errBody struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &errBody))
	assert.Equal(t, utils.KindCreatorCannotJoin, errBody.Kind)
}

func TestBillHandler_UnknownAction(t *testing.T) {
	router, _ := newTestRouter()

	recorder := postJSON(t, router, "/api/v1/bills/bill_x", models.BillActionRequest{Action: "transmogrify"})

	require.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestBillHandler_GetBill_NotFound(t *testing.T) {
	router, _ := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bills/bill_missing", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusNotFound, recorder.Code)
	var body struct {
		Kind string `json:"kind"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, utils.KindBillNotFound, body.Kind)
}

func TestBillHandler_Receipt(t *testing.T) {
	router, _ := newTestRouter()

	created := postJSON(t, router, "/api/v1/bills/create", models.CreateBillRequest{
		Title:            "Dinner",
		TotalAmount:      "50.00",
		ParticipantCount: 2,
		CreatorAddress:   "0x1111111111111111111111111111111111111111",
	})
	var bill models.Bill
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &bill))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bills/"+bill.ID+"/receipt", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "image/png", recorder.Header().Get("Content-Type"))
	assert.NotEmpty(t, recorder.Body.Bytes())
}
