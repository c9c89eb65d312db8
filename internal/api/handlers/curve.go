package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/b3data/ettj/internal/store"
	"github.com/b3data/ettj/pkg/logger"
)

// CurveHandler serves stored term structures.
type CurveHandler struct {
	repo   *store.SettlementRepository
	logger *logger.Logger
}

// NewCurveHandler creates a new curve handler
func NewCurveHandler(repo *store.SettlementRepository, log *logger.Logger) *CurveHandler {
	return &CurveHandler{
		repo:   repo,
		logger: log.WithField("handler", "curve"),
	}
}

// CurvePoint is one contract on the curve.
type CurvePoint struct {
	ContractCode string   `json:"contract_code"`
	ExpiryDate   string   `json:"expiry_date"`
	BusinessDays int      `json:"business_days"`
	CalendarDays int      `json:"calendar_days"`
	SettlePrice  float64  `json:"settle_price"`
	Rate         *float64 `json:"rate"`
}

// CurveResponse is the term structure of one product on one trade date.
type CurveResponse struct {
	Product   string       `json:"product"`
	TradeDate string       `json:"trade_date"`
	Points    []CurvePoint `json:"points"`
}

// GetCurve handles GET /api/curve?product=DI1&date=2024-01-02.
// Without a date it serves the latest stored trade date for the product.
func (h *CurveHandler) GetCurve(w http.ResponseWriter, r *http.Request) {
	product := r.URL.Query().Get("product")
	if product == "" {
		writeError(w, http.StatusBadRequest, "product parameter is required")
		return
	}

	var (
		tradeDate time.Time
		err       error
	)
	if dateStr := r.URL.Query().Get("date"); dateStr != "" {
		tradeDate, err = time.Parse("2006-01-02", dateStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
	} else {
		tradeDate, err = h.repo.LatestTradeDate(r.Context(), product)
		if err != nil {
			h.logger.WithError(err).Error("Failed to resolve latest trade date")
			writeError(w, http.StatusNotFound, "no data for product")
			return
		}
	}

	settlements, err := h.repo.GetCurve(r.Context(), product, tradeDate)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load curve")
		writeError(w, http.StatusInternalServerError, "failed to load curve")
		return
	}

	if len(settlements) == 0 {
		writeError(w, http.StatusNotFound, "no curve for product and date")
		return
	}

	resp := CurveResponse{
		Product:   product,
		TradeDate: tradeDate.Format("2006-01-02"),
		Points:    make([]CurvePoint, 0, len(settlements)),
	}
	for _, s := range settlements {
		resp.Points = append(resp.Points, CurvePoint{
			ContractCode: s.ContractCode,
			ExpiryDate:   s.ExpiryDate.Format("2006-01-02"),
			BusinessDays: s.BusinessDays,
			CalendarDays: s.CalendarDays,
			SettlePrice:  s.SettlePrice,
			Rate:         s.Rate,
		})
	}

	writeJSON(w, http.StatusOK, resp)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
