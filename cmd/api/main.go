package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	httpadp "coopfund-service/internal/adapter/http"
	appmw "coopfund-service/internal/adapter/middleware"
	"coopfund-service/internal/adapter/repository/mysql"
	"coopfund-service/internal/config"
	"coopfund-service/internal/infrastructure/cache"
	"coopfund-service/internal/infrastructure/db"
	loanuc "coopfund-service/internal/usecase/loan"
	paymentuc "coopfund-service/internal/usecase/payment"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config: %v", err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatalf("mysql: %v", err)
	}

	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}

	loanRepo := mysql.NewLoanRepository(gdb)
	paymentRepo := mysql.NewPaymentRepository(gdb)
	tx := mysql.NewGormUoW(gdb)

	loans := loanuc.NewUsecase(loanRepo, paymentRepo, tx)
	payments := paymentuc.NewUsecase(loanRepo, paymentRepo, tx)

	h := httpadp.NewHandler()
	lh := httpadp.NewLoanHandler(loans)
	ph := httpadp.NewPaymentHandler(payments)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Logger(), echomw.Recover())

	idemp := appmw.Idempotency(rdb, time.Duration(cfg.IdempTTLSecs)*time.Second)

	// routes
	e.GET("/health", h.Health)

	e.POST("/loans", lh.CreateLoan, idemp)
	e.GET("/loans/:loan_id", lh.GetLoan)
	e.GET("/loans/:loan_id/schedule", lh.GetSchedule)
	e.GET("/loans/:loan_id/debt", lh.GetDebt)
	e.GET("/loans/:loan_id/reconcile", lh.ReconcileLoan)
	e.POST("/loans/:loan_id/approve", lh.ApproveLoan, idemp)
	e.POST("/loans/:loan_id/reject", lh.RejectLoan, idemp)

	e.POST("/loans/:loan_id/payments", ph.CreatePayment, idemp)
	e.GET("/loans/:loan_id/payments", ph.ListPayments)

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
