package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/taqseet/taqseet"
	"github.com/taqseet/taqseet/config"
)

type Api struct {
	taqseet *taqseet.Taqseet
	router  *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router

	router.POST("/imports", a.ImportTransactions)
	router.POST("/imports/file", a.ImportTransactionsFile)
	router.POST("/imports/retry", a.RetryImportRow)
	router.POST("/imports/errors/export", a.ExportImportErrors)

	router.POST("/webhooks/payments", a.PaymentWebhook)
	router.OPTIONS("/webhooks/payments", a.PaymentWebhookPreflight)

	return a.router
}

func NewAPI(t *taqseet.Taqseet) *Api {
	gin.SetMode(gin.ReleaseMode)
	_, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, "server running...")
	})

	return &Api{taqseet: t, router: r}
}
