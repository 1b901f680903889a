package handler

import (
	"atm-server/internal/core/domain"
	"atm-server/internal/core/ports"
	"atm-server/pkg/apperror"
	"atm-server/pkg/response"

	"github.com/gin-gonic/gin"
)

// OpsHandler serves read-only operator views of the running server.
type OpsHandler struct {
	engine      ports.BankingEngine
	metrics     ports.MetricsSource
	minIDLength int
}

func NewOpsHandler(engine ports.BankingEngine, metrics ports.MetricsSource, minIDLength int) *OpsHandler {
	return &OpsHandler{engine: engine, metrics: metrics, minIDLength: minIDLength}
}

type reserveResponse struct {
	Reserve string `json:"reserve"`
}

type balanceResponse struct {
	AccountID string `json:"account_id"`
	Balance   string `json:"balance"`
}

// Metrics handles GET /metrics.
func (h *OpsHandler) Metrics(c *gin.Context) {
	response.OK(c, h.metrics.Snapshot(c.Request.Context()))
}

// Reserve handles GET /reserve.
func (h *OpsHandler) Reserve(c *gin.Context) {
	funds, err := h.engine.Reserve(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, reserveResponse{Reserve: domain.FormatMoney(funds)})
}

// AccountBalance handles GET /accounts/:id/balance.
func (h *OpsHandler) AccountBalance(c *gin.Context) {
	id := c.Param("id")
	if !domain.ValidIdentifier(id, h.minIDLength) {
		response.Error(c, apperror.ErrInvalidIdentifier())
		return
	}

	balance, err := h.engine.Balance(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, balanceResponse{AccountID: id, Balance: domain.FormatMoney(balance)})
}
