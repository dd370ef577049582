package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/dpavlenko/cashcard/internal/server/models"
	"github.com/dpavlenko/cashcard/internal/server/paging"
)

// cardRequest is the write payload. A client may send an owner field, but
// it is never read: the owner is always the authenticated caller.
type cardRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

type cardResponse struct {
	ID     int64           `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Owner  string          `json:"owner"`
}

func toCardResponse(card *models.CashCard) cardResponse {
	return cardResponse{ID: card.ID, Amount: card.Amount, Owner: card.Owner}
}

func cardID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid card id"})
		return 0, false
	}
	return id, true
}

func (s *Server) createCard(c *gin.Context) {
	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	card, err := s.cards.Create(c.Request.Context(), callerIdentity(c), req.Amount)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.Header("Location", "/cashcards/"+strconv.FormatInt(card.ID, 10))
	c.JSON(http.StatusCreated, toCardResponse(card))
}

func (s *Server) getCard(c *gin.Context) {
	id, ok := cardID(c)
	if !ok {
		return
	}

	card, err := s.cards.Get(c.Request.Context(), callerIdentity(c), id)
	if err != nil {
		s.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCardResponse(card))
}

func (s *Server) listCards(c *gin.Context) {
	page, err := paging.Resolve(c.Query("page"), c.Query("size"), c.Query("sort"))
	if err != nil {
		s.respondError(c, err)
		return
	}

	cards, err := s.cards.List(c.Request.Context(), callerIdentity(c), page)
	if err != nil {
		s.respondError(c, err)
		return
	}

	out := make([]cardResponse, 0, len(cards))
	for _, card := range cards {
		out = append(out, toCardResponse(card))
	}

	c.JSON(http.StatusOK, out)
}

func (s *Server) updateCard(c *gin.Context) {
	id, ok := cardID(c)
	if !ok {
		return
	}

	var req cardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "invalid request body"})
		return
	}

	if err := s.cards.Update(c.Request.Context(), callerIdentity(c), id, req.Amount); err != nil {
		s.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (s *Server) deleteCard(c *gin.Context) {
	id, ok := cardID(c)
	if !ok {
		return
	}

	if err := s.cards.Delete(c.Request.Context(), callerIdentity(c), id); err != nil {
		s.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
