package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/fadhlanhapp/splitbill-backend/handlers"
)

// SetupRoutes configures all API routes for the application
func SetupRoutes(router *gin.Engine, bills *handlers.BillHandler, friends *handlers.FriendHandler, health *handlers.HealthHandler) {
	router.GET("/health", health.Health)

	v1 := router.Group("/api/v1")
	{
		// Bill endpoints
		v1.POST("/bills/create", bills.CreateBill)
		v1.GET("/bills", bills.ListBills)
		v1.GET("/bills/:id", bills.GetBill)
		v1.POST("/bills/:id", bills.BillAction)
		v1.POST("/bills/:id/cancel", bills.CancelBill)
		v1.DELETE("/bills/:id", bills.DeleteBill)
		v1.GET("/bills/:id/stats", bills.GetBillStats)
		v1.GET("/bills/:id/receipt", bills.GetBillReceipt)

		// Friend endpoints
		v1.GET("/friends/:address", friends.ListFriends)
		v1.POST("/friends/:address", friends.AddFriend)
		v1.PUT("/friends/:address/:friendId", friends.UpdateFriend)
		v1.DELETE("/friends/:address/:friendId", friends.DeleteFriend)
	}
}
