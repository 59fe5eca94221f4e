package api

import (
	v1 "github.com/Behyna/streamstore/internal/api/v1"
	"github.com/Behyna/streamstore/internal/api/v1/middleware"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const prefixV1 = "api/v1/"

func SetupRoutes(app *fiber.App, handler *v1.Handler, adminAuth fiber.Handler, gatherer prometheus.Gatherer) {
	app.Get("/ping", handler.Pong)
	app.Get(middleware.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	app.Get("/panel", handler.Panel)

	admin := app.Group(prefixV1, adminAuth)

	admin.Get("items", handler.ListItems)
	admin.Post("items", handler.AddItem)
	admin.Get("items/available", handler.ListAvailableItems)
	admin.Post("items/sweep", handler.SweepItems)
	admin.Post("items/:id/purchase", handler.PurchaseItem)

	admin.Get("users", handler.ListUsers)
	admin.Get("users/:phone/balance", handler.GetUserBalance)
	admin.Get("users/:phone/transactions", handler.ListUserTransactions)
	admin.Get("users/:phone/audit", handler.AuditUser)
	admin.Post("users/balance/increase", handler.IncreaseUserBalance)
	admin.Post("users/balance/decrease", handler.DecreaseUserBalance)

	admin.Post("broadcasts", handler.Broadcast)
	admin.Get("stats", handler.Stats)

	admin.Get("settings/payment-key", handler.GetPaymentKey)
	admin.Post("settings/payment-key", handler.SetPaymentKey)
	admin.Get("settings/greeting", handler.GetGreeting)
	admin.Post("settings/greeting", handler.SetGreeting)

	admin.Get("proofs", handler.ListPendingProofs)
	admin.Post("proofs/upload", handler.UploadProof)
	admin.Post("proofs/:id/approve", handler.ApproveProof)
	admin.Post("proofs/:id/reject", handler.RejectProof)
	admin.Get("proofs/files/:name", handler.ProofFile)
}
