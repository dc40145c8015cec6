package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/atlasvoyages/quotation-api/internal/database"
	"github.com/atlasvoyages/quotation-api/internal/domain"
	"github.com/atlasvoyages/quotation-api/internal/repository"
	"github.com/atlasvoyages/quotation-api/internal/service"
)

// testEnv wires the full service stack against an in-memory SQLite database
type testEnv struct {
	db         *gorm.DB
	inquiries  *service.InquiryService
	quotations *service.QuotationService
	itinerary  *service.ItineraryService
	catalog    *service.CatalogService

	quotationRepo *repository.QuotationRepository
	rateRepo      *repository.CatalogRateRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))

	log := zap.NewNop()
	inquiryRepo := repository.NewInquiryRepository(db)
	quotationRepo := repository.NewQuotationRepository(db)
	itineraryRepo := repository.NewItineraryRepository(db)
	rateRepo := repository.NewCatalogRateRepository(db)
	sequenceRepo := repository.NewSequenceRepository(db)

	return &testEnv{
		db:            db,
		inquiries:     service.NewInquiryService(inquiryRepo, quotationRepo, sequenceRepo, log),
		quotations:    service.NewQuotationService(quotationRepo, inquiryRepo, itineraryRepo, log, "INR", 30),
		itinerary:     service.NewItineraryService(quotationRepo, itineraryRepo, rateRepo, log),
		catalog:       service.NewCatalogService(rateRepo, log),
		quotationRepo: quotationRepo,
		rateRepo:      rateRepo,
	}
}

func (env *testEnv) createInquiry(t *testing.T, start, end string) *domain.InquiryDTO {
	t.Helper()
	inquiry, err := env.inquiries.Create(context.Background(), &domain.CreateInquiryRequest{
		ClientName:  "Asha Verma",
		ClientEmail: "asha@example.com",
		Destination: "Rajasthan",
		TravelStart: start,
		TravelEnd:   end,
		PaxAdults:   2,
		PaxChildren: 1,
	})
	require.NoError(t, err)
	return inquiry
}

func (env *testEnv) createDraft(t *testing.T, start, end string) *domain.QuotationDTO {
	t.Helper()
	inquiry := env.createInquiry(t, start, end)
	quotation, err := env.quotations.CreateVersion(context.Background(), inquiry.ID)
	require.NoError(t, err)
	return quotation
}

func (env *testEnv) addManualItem(t *testing.T, q *domain.QuotationDTO, st domain.ServiceType, cost string, basis domain.CostBasis) *domain.LineItemDTO {
	t.Helper()
	unitCost := decimal.RequireFromString(cost)
	item, err := env.itinerary.AttachLineItem(context.Background(), q.ID, 1, &domain.AddLineItemRequest{
		ServiceType: st,
		Description: "test service",
		UnitCost:    &unitCost,
		CostBasis:   basis,
	})
	require.NoError(t, err)
	return item
}

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func (env *testEnv) reload(t *testing.T, id uuid.UUID) *domain.QuotationDTO {
	t.Helper()
	quotation, err := env.quotations.GetByID(context.Background(), id)
	require.NoError(t, err)
	return quotation
}
