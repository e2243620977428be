package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/splitbill-backend/models"
	"github.com/fadhlanhapp/splitbill-backend/services"
	"github.com/fadhlanhapp/splitbill-backend/utils"
)

// BillHandler exposes the bill lifecycle over HTTP.
type BillHandler struct {
	bills    *services.BillService
	ledger   *services.LedgerService
	payments *services.PaymentService
	stats    *services.StatsService
	receipts *services.ReceiptService
}

// NewBillHandler creates a new bill handler
func NewBillHandler(bills *services.BillService, ledger *services.LedgerService, payments *services.PaymentService, stats *services.StatsService, receipts *services.ReceiptService) *BillHandler {
	return &BillHandler{
		bills:    bills,
		ledger:   ledger,
		payments: payments,
		stats:    stats,
		receipts: receipts,
	}
}

// CreateBill handles the creation of a new bill
func (h *BillHandler) CreateBill(c *gin.Context) {
	var request models.CreateBillRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.KindInvalidInput, utils.ErrInvalidRequest))
		return
	}

	bill, err := h.bills.CreateBill(c.Request.Context(), &request)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, bill)
}

// GetBill handles retrieving a bill by its identifier
func (h *BillHandler) GetBill(c *gin.Context) {
	bill, err := h.bills.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, bill)
}

// BillAction dispatches the join/payment action envelope against an
// existing bill
func (h *BillHandler) BillAction(c *gin.Context) {
	var request models.BillActionRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.KindInvalidInput, utils.ErrInvalidRequest))
		return
	}

	billID := c.Param("id")
	switch request.Action {
	case "join":
		if request.ParticipantAddress == "" {
			utils.HandleError(c, utils.NewBadRequestError(utils.KindInvalidInput, "participantAddress is required"))
			return
		}
		bill, err := h.ledger.JoinBill(c.Request.Context(), billID, request.ParticipantAddress, request.ParticipantBasename, request.DisplayName)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		utils.HandleSuccess(c, bill)

	case "payment":
		if request.ParticipantID == "" {
			utils.HandleError(c, utils.NewBadRequestError(utils.KindInvalidInput, "participantId is required"))
			return
		}
		bill, err := h.payments.RecordBillPayment(c.Request.Context(), billID, request.ParticipantID, request.TransactionHash, request.Status)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		utils.HandleSuccess(c, bill)

	default:
		utils.HandleError(c, utils.NewBadRequestError(utils.KindInvalidInput, "action must be join or payment"))
	}
}

// CancelBill handles a creator cancelling their active bill
func (h *BillHandler) CancelBill(c *gin.Context) {
	var request models.CancelBillRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.KindInvalidInput, utils.ErrInvalidRequest))
		return
	}

	bill, err := h.bills.CancelBill(c.Request.Context(), c.Param("id"), request.CreatorAddress)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, bill)
}

// DeleteBill handles a creator deleting their bill
func (h *BillHandler) DeleteBill(c *gin.Context) {
	var request models.DeleteBillRequest

	if err := c.ShouldBindJSON(&request); err != nil {
		utils.HandleError(c, utils.NewBadRequestError(utils.KindInvalidInput, utils.ErrInvalidRequest))
		return
	}

	if err := h.bills.DeleteBill(c.Request.Context(), c.Param("id"), request.CreatorAddress); err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, gin.H{"deleted": true})
}

// ListBills handles listing bills by creator or by participant
func (h *BillHandler) ListBills(c *gin.Context) {
	creator := c.Query("creator")
	participant := c.Query("participant")

	ctx := c.Request.Context()
	switch {
	case creator != "":
		bills, err := h.bills.ListBillsByCreator(ctx, creator)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		utils.HandleSuccess(c, bills)
	case participant != "":
		bills, err := h.bills.ListBillsByParticipant(ctx, participant)
		if err != nil {
			utils.HandleError(c, err)
			return
		}
		utils.HandleSuccess(c, bills)
	default:
		utils.HandleError(c, utils.NewBadRequestError(utils.KindInvalidInput, "creator or participant query parameter is required"))
	}
}

// GetBillStats handles the payment-progress snapshot for a bill
func (h *BillHandler) GetBillStats(c *gin.Context) {
	bill, err := h.bills.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	stats, err := h.stats.Stats(bill)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	utils.HandleSuccess(c, stats)
}

// GetBillReceipt serves the deterministic receipt art for a bill
func (h *BillHandler) GetBillReceipt(c *gin.Context) {
	bill, err := h.bills.GetBill(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	imageBytes, err := h.receipts.RenderPNG(bill)
	if err != nil {
		utils.HandleError(c, err)
		return
	}

	c.Data(http.StatusOK, "image/png", imageBytes)
}
