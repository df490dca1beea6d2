package handler

import (
	"github.com/dafibh/fluxo/fluxo-backend/internal/middleware"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes sets up all API routes
func RegisterRoutes(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, rateLimiter *middleware.RateLimiter, transactionHandler *TransactionHandler, reportHandler *ReportHandler, recurringHandler *RecurringHandler, goalHandler *GoalHandler) {
	// API version 1
	api := e.Group("/api/v1")
	api.Use(authMiddleware.Authenticate())
	api.Use(middleware.RateLimitMiddleware(rateLimiter))

	// Transaction routes
	transactions := api.Group("/transactions")
	transactions.POST("", transactionHandler.CreateTransaction)
	transactions.GET("", transactionHandler.GetTransactions)
	transactions.GET("/:id", transactionHandler.GetTransaction)
	transactions.PUT("/:id", transactionHandler.UpdateTransaction)
	transactions.DELETE("/:id", transactionHandler.DeleteTransaction)

	// Report routes
	reports := api.Group("/reports")
	reports.GET("/dre", reportHandler.GetDRE)
	reports.GET("/cashflow", reportHandler.GetCashFlow)
	reports.GET("/overview", reportHandler.GetOverview)

	// Recurring item routes
	recurring := api.Group("/recurring")
	recurring.POST("", recurringHandler.CreateRecurring)
	recurring.GET("", recurringHandler.GetRecurring)
	recurring.PUT("/:id", recurringHandler.UpdateRecurring)
	recurring.DELETE("/:id", recurringHandler.DeleteRecurring)
	recurring.PATCH("/:id/active", recurringHandler.SetActive)

	// Goal routes
	goals := api.Group("/goals")
	goals.POST("", goalHandler.CreateGoal)
	goals.GET("", goalHandler.GetGoals)
	goals.GET("/:id", goalHandler.GetGoal)
	goals.PUT("/:id", goalHandler.UpdateGoal)
	goals.DELETE("/:id", goalHandler.DeleteGoal)
	goals.PATCH("/:id/progress", goalHandler.UpdateProgress)
}
