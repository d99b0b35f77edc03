package handlers_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/stefanache/bnr-fx-pipeline/internal/apperrors"
	"github.com/stefanache/bnr-fx-pipeline/internal/core/domain"
	portssvc "github.com/stefanache/bnr-fx-pipeline/internal/core/ports/services"
	"github.com/stefanache/bnr-fx-pipeline/internal/dto"
	"github.com/stefanache/bnr-fx-pipeline/internal/handlers"
	"github.com/stefanache/bnr-fx-pipeline/internal/platform/config"
)

// --- Mock RateQueryService ---
type MockRateQueryService struct {
	mock.Mock
}

func (m *MockRateQueryService) Rates(ctx context.Context, q domain.RateQuery) (*dto.RatesResponse, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.RatesResponse), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.RateQuerySvc = (*MockRateQueryService)(nil)

// --- Test Suite ---
type RatesHandlerTestSuite struct {
	suite.Suite
	router               *gin.Engine
	mockRateQueryService *MockRateQueryService
}

func (suite *RatesHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.mockRateQueryService = new(MockRateQueryService)

	cfg := &config.Config{
		Port:         "8080",
		BaseCurrency: "RON",
		RateLimit:    "1000-S", // Roomy enough to never trip during tests
	}

	handlers.RegisterRoutes(suite.router, cfg, &portssvc.ServiceContainer{
		RateQuery: suite.mockRateQueryService,
	})
}

func (suite *RatesHandlerTestSuite) serve(path string) *httptest.ResponseRecorder {
	req, err := http.NewRequest(http.MethodGet, path, nil)
	suite.Require().NoError(err)
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Test Cases ---

func (suite *RatesHandlerTestSuite) TestGetRates_ByDate() {
	payload := &dto.RatesResponse{
		Date: "2025-01-15",
		Base: "RON",
		Rates: []dto.RateItem{
			{Currency: "EUR", Value: decimal.RequireFromString("4.9770"), Multiplier: 1, Date: "2025-01-15"},
			{Currency: "JPY", Value: decimal.RequireFromString("2.9456"), Multiplier: 100, Date: "2025-01-15"},
		},
	}
	suite.mockRateQueryService.
		On("Rates", mock.Anything, domain.RateQuery{Mode: domain.QueryByDate, Date: "2025-01-15"}).
		Return(payload, nil).Once()

	w := suite.serve("/rates?date=2025-01-15")

	suite.Equal(http.StatusOK, w.Code)

	var resp dto.RatesResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal("2025-01-15", resp.Date)
	suite.Equal("RON", resp.Base)
	suite.Require().Len(resp.Rates, 2)
	suite.Equal("EUR", resp.Rates[0].Currency)
	suite.True(resp.Rates[0].Value.Equal(decimal.RequireFromString("4.9770")))
	suite.Equal(100, resp.Rates[1].Multiplier)

	suite.mockRateQueryService.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestGetRates_DateWinsOverCurrency() {
	payload := &dto.RatesResponse{Date: "2025-01-15", Base: "RON", Rates: []dto.RateItem{}}
	suite.mockRateQueryService.
		On("Rates", mock.Anything, domain.RateQuery{Mode: domain.QueryByDate, Date: "2025-01-15"}).
		Return(payload, nil).Once()

	w := suite.serve("/rates?date=2025-01-15&currency=EUR")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockRateQueryService.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestGetRates_CurrencyUppercased() {
	payload := &dto.RatesResponse{Currency: "JPY", Base: "RON", History: []dto.RateItem{}}
	suite.mockRateQueryService.
		On("Rates", mock.Anything, domain.RateQuery{
			Mode:     domain.QueryByCurrency,
			Currency: "JPY",
			From:     "2025-01-01",
		}).
		Return(payload, nil).Once()

	w := suite.serve("/rates?currency=jpy&from=2025-01-01")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockRateQueryService.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestGetRates_NoParamsMeansLatest() {
	payload := &dto.RatesResponse{Date: "2025-01-16", Base: "RON", Rates: []dto.RateItem{}}
	suite.mockRateQueryService.
		On("Rates", mock.Anything, domain.RateQuery{Mode: domain.QueryLatest}).
		Return(payload, nil).Once()

	w := suite.serve("/rates")

	suite.Equal(http.StatusOK, w.Code)
	suite.mockRateQueryService.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestGetRates_NotFoundMessages() {
	testCases := []struct {
		name    string
		path    string
		query   domain.RateQuery
		message string
	}{
		{
			name:    "by date",
			path:    "/rates?date=2099-01-01",
			query:   domain.RateQuery{Mode: domain.QueryByDate, Date: "2099-01-01"},
			message: "No rates found for this date",
		},
		{
			name:    "by currency",
			path:    "/rates?currency=XXX",
			query:   domain.RateQuery{Mode: domain.QueryByCurrency, Currency: "XXX"},
			message: "No rates found for this currency",
		},
		{
			name:    "latest",
			path:    "/rates",
			query:   domain.RateQuery{Mode: domain.QueryLatest},
			message: "No rates available",
		},
	}

	for _, tc := range testCases {
		suite.Run(tc.name, func() {
			suite.mockRateQueryService.
				On("Rates", mock.Anything, tc.query).
				Return(nil, fmt.Errorf("nothing stored: %w", apperrors.ErrNotFound)).Once()

			w := suite.serve(tc.path)

			suite.Equal(http.StatusNotFound, w.Code)
			suite.JSONEq(fmt.Sprintf(`{"error":%q}`, tc.message), w.Body.String())
		})
	}

	suite.mockRateQueryService.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestGetRates_StoreErrorIs500() {
	suite.mockRateQueryService.
		On("Rates", mock.Anything, domain.RateQuery{Mode: domain.QueryLatest}).
		Return(nil, errors.New("pool exhausted")).Once()

	w := suite.serve("/rates")

	suite.Equal(http.StatusInternalServerError, w.Code)
	suite.JSONEq(`{"error":"Failed to retrieve rates"}`, w.Body.String())

	suite.mockRateQueryService.AssertExpectations(suite.T())
}

func (suite *RatesHandlerTestSuite) TestHealth() {
	w := suite.serve("/health")

	suite.Equal(http.StatusOK, w.Code)
	suite.JSONEq(`{"status":"healthy","service":"BNR FX Rates API","version":"1.0.0"}`, w.Body.String())
}

func (suite *RatesHandlerTestSuite) TestUnknownRouteIs404() {
	w := suite.serve("/definitely/not/here")

	suite.Equal(http.StatusNotFound, w.Code)
	suite.JSONEq(`{"error":"Not found"}`, w.Body.String())
}

func TestRatesHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(RatesHandlerTestSuite))
}
