package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tripdesk/tripdesk/internal/domain/currency"
	"github.com/tripdesk/tripdesk/internal/shared/constants"
	"github.com/tripdesk/tripdesk/internal/shared/errors"
	"github.com/tripdesk/tripdesk/internal/shared/logger"
	"github.com/tripdesk/tripdesk/internal/shared/utils"
	"github.com/tripdesk/tripdesk/internal/shared/version"
)

type CurrencyHandler struct {
	service  currencyService
	recorder conversionRecorder
	logger   logger.Interface
}

// NewCurrencyHandler creates the handler. recorder may be nil.
func NewCurrencyHandler(service currencyService, recorder conversionRecorder, log logger.Interface) *CurrencyHandler {
	return &CurrencyHandler{
		service:  service,
		recorder: recorder,
		logger:   log,
	}
}

// ListSupported godoc
// @Summary List supported currencies
// @Description Returns the supported currency table in its fixed order
// @Tags currency
// @Produce json
// @Success 200 {object} utils.APIResponse{data=[]CurrencyInfoResponse} "Supported currencies"
// @Router /currency/supported [get]
func (h *CurrencyHandler) ListSupported(c *gin.Context) {
	infos := h.service.ListSupportedCurrencies()

	result := make([]CurrencyInfoResponse, 0, len(infos))
	for _, info := range infos {
		result = append(result, toCurrencyInfoResponse(info))
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// GetRates godoc
// @Summary Get exchange rates
// @Description Returns the current rate snapshot, optionally re-expressed against another base currency
// @Tags currency
// @Produce json
// @Param base query string false "Base currency code" example(EUR)
// @Success 200 {object} utils.APIResponse{data=RatesResponse} "Rate snapshot"
// @Failure 400 {object} utils.APIResponse "Unknown base currency"
// @Router /currency/rates [get]
func (h *CurrencyHandler) GetRates(c *gin.Context) {
	var query RatesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	snapshot := h.service.GetRates(c.Request.Context())
	if query.Base != "" {
		rebased, err := h.service.RebaseRates(snapshot, query.Base)
		if err != nil {
			h.handleError(c, err)
			return
		}
		snapshot = rebased
	}

	utils.SuccessResponse(c, http.StatusOK, "", toRatesResponse(snapshot))
}

// Convert godoc
// @Summary Convert an amount
// @Description Converts an amount between two currencies. The rate is rounded to 4 decimals and the converted amount to 2.
// @Tags currency
// @Accept json
// @Produce json
// @Param request body ConvertRequest true "Conversion request"
// @Success 200 {object} utils.APIResponse{data=ConvertResponse} "Conversion result"
// @Failure 400 {object} utils.APIResponse "Missing field or unsupported currency"
// @Router /currency/convert [post]
func (h *CurrencyHandler) Convert(c *gin.Context) {
	var req ConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for convert", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	conv, err := h.service.Quote(c.Request.Context(), *req.Amount, req.FromCurrency, req.ToCurrency)
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.recordConversion(req.FromCurrency, req.ToCurrency)

	utils.SuccessResponse(c, http.StatusOK, "", toConvertResponse(conv))
}

// recordConversion counts the pair only when both codes are in the catalog.
// Identity conversions succeed for any string, which must not reach metric labels.
func (h *CurrencyHandler) recordConversion(from, to string) {
	if h.recorder == nil {
		return
	}
	if _, ok := h.service.GetCurrencyInfo(from); !ok {
		return
	}
	if _, ok := h.service.GetCurrencyInfo(to); !ok {
		return
	}
	h.recorder.ObserveConversion(from, to)
}

// GetExchangeRate godoc
// @Summary Get an exchange rate
// @Description Returns how many units of the target currency one unit of the source currency buys, rounded to 4 decimals
// @Tags currency
// @Produce json
// @Param from path string true "Source currency code"
// @Param to path string true "Target currency code"
// @Success 200 {object} utils.APIResponse{data=ExchangeRateResponse} "Exchange rate"
// @Failure 400 {object} utils.APIResponse "Unsupported currency"
// @Router /currency/rate/{from}/{to} [get]
func (h *CurrencyHandler) GetExchangeRate(c *gin.Context) {
	from := c.Param("from")
	to := c.Param("to")

	rate, err := h.service.GetExchangeRate(c.Request.Context(), from, to)
	if err != nil {
		h.handleError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", &ExchangeRateResponse{
		FromCurrency: from,
		ToCurrency:   to,
		Rate:         currency.RoundHalfAwayFromZero(rate, ratePrecision),
	})
}

// RefreshRates godoc
// @Summary Refresh exchange rates
// @Description Clears the rate cache and fetches a new snapshot
// @Security Bearer
// @Tags currency
// @Produce json
// @Success 200 {object} utils.APIResponse{data=RatesResponse} "Exchange rates refreshed"
// @Failure 401 {object} utils.APIResponse "Unauthorized"
// @Failure 403 {object} utils.APIResponse "Forbidden - Requires admin role"
// @Router /currency/refresh [post]
func (h *CurrencyHandler) RefreshRates(c *gin.Context) {
	snapshot := h.service.RefreshRates(c.Request.Context())

	h.logger.Infow("exchange rates refreshed by operator",
		"subject", c.GetString(constants.ContextKeySubject),
		"is_fallback", snapshot.IsFallback,
	)

	utils.SuccessResponse(c, http.StatusOK, "Exchange rates refreshed", toRatesResponse(snapshot))
}

// GetCurrencyInfo godoc
// @Summary Get currency details
// @Tags currency
// @Produce json
// @Param code path string true "Currency code"
// @Success 200 {object} utils.APIResponse{data=CurrencyInfoResponse} "Currency details"
// @Failure 404 {object} utils.APIResponse "Currency not found"
// @Router /currency/info/{code} [get]
func (h *CurrencyHandler) GetCurrencyInfo(c *gin.Context) {
	code := c.Param("code")

	info, ok := h.service.GetCurrencyInfo(code)
	if !ok {
		utils.ErrorResponseWithError(c, errors.NewNotFoundError("Currency not found", code))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", toCurrencyInfoResponse(info))
}

// FormatAmount godoc
// @Summary Format an amount
// @Description Formats an amount with the currency symbol and two decimals. Unsupported codes render as "{amount} {code}".
// @Tags currency
// @Accept json
// @Produce json
// @Param request body FormatRequest true "Format request"
// @Success 200 {object} utils.APIResponse{data=FormatResponse} "Formatted amount"
// @Failure 400 {object} utils.APIResponse "Missing field"
// @Router /currency/format [post]
func (h *CurrencyHandler) FormatAmount(c *gin.Context) {
	var req FormatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warnw("invalid request body for format", "error", err)
		utils.ErrorResponseWithError(c, utils.BindingError(err))
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", &FormatResponse{
		Amount:       *req.Amount,
		CurrencyCode: req.CurrencyCode,
		Formatted:    h.service.FormatAmount(*req.Amount, req.CurrencyCode),
	})
}

// GetCacheStatus godoc
// @Summary Get rate cache status
// @Description Reports whether the rate cache is populated and when it expires. Never contacts the rate source.
// @Tags currency
// @Produce json
// @Success 200 {object} utils.APIResponse{data=CacheStatusResponse} "Cache status"
// @Router /currency/status [get]
func (h *CurrencyHandler) GetCacheStatus(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "", toCacheStatusResponse(h.service.BaseCurrency(), h.service.CacheStatus()))
}

// HealthCheck handles GET /health
func (h *CurrencyHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "tripdesk",
	})
}

// Version handles GET /version to return the current build version
func (h *CurrencyHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"version": version.String(),
	})
}

// handleError maps a missing rate to 400 and passes everything else through.
func (h *CurrencyHandler) handleError(c *gin.Context, err error) {
	var notFound *currency.RateNotFoundError
	if stderrors.As(err, &notFound) {
		utils.ErrorResponseWithError(c, errors.NewBadRequestError(notFound.Error()))
		return
	}

	h.logger.Errorw("currency request failed", "error", err)
	utils.ErrorResponseWithError(c, err)
}
