package controllers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/szymekpro/ztpai-mfs/services"
)

type PaymentController struct {
	Payments *services.PaymentService
}

func NewPaymentController(payments *services.PaymentService) *PaymentController {
	return &PaymentController{Payments: payments}
}

func (pc *PaymentController) List(c *gin.Context) {
	out, err := pc.Payments.List(c.Request.Context(), principal(c), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (pc *PaymentController) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	pay, err := pc.Payments.Get(c.Request.Context(), principal(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pay)
}

func (pc *PaymentController) Create(c *gin.Context) {
	var input services.CreatePaymentInput
	if !bindJSON(c, &input) {
		return
	}
	pay, err := pc.Payments.Create(c.Request.Context(), principal(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, pay)
}

// Patch reads the raw body so the service can tell which keys the caller sent.
func (pc *PaymentController) Patch(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, services.ValidationError("could not read request body"))
		return
	}
	patch, err := services.DecodePaymentPatch(body)
	if err != nil {
		respondError(c, err)
		return
	}
	pay, err := pc.Payments.Patch(c.Request.Context(), principal(c), id, patch)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pay)
}

func (pc *PaymentController) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := pc.Payments.Delete(c.Request.Context(), principal(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
