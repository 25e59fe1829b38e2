package reports

import (
	"context"
	"math"
	"time"
)

// ProductCounter supplies the aggregate counts reports are computed from.
// catalog.ProductService satisfies it.
type ProductCounter interface {
	TotalCount(ctx context.Context) (int64, error)
	DeletedCount(ctx context.Context) (int64, error)
	CountByPrice(ctx context.Context, hasPrice bool) (int64, error)
	CountByDateRange(ctx context.Context, start, end time.Time) (int64, error)
}

type DeletedProductsReport struct {
	TotalProducts        int64   `json:"totalProducts"`
	DeletedProducts      int64   `json:"deletedProducts"`
	DeletedPercentage    float64 `json:"deletedPercentage"`
	NonDeletedPercentage float64 `json:"nonDeletedPercentage"`
}

type PriceAnalysisReport struct {
	TotalNonDeletedProducts int64   `json:"totalNonDeletedProducts"`
	ProductsWithPrice       int64   `json:"productsWithPrice"`
	ProductsWithoutPrice    int64   `json:"productsWithoutPrice"`
	WithPricePercentage     float64 `json:"withPricePercentage"`
	WithoutPricePercentage  float64 `json:"withoutPricePercentage"`
}

type DateRangeReport struct {
	StartDate         string  `json:"startDate"`
	EndDate           string  `json:"endDate"`
	TotalProducts     int64   `json:"totalProducts"`
	ProductsInRange   int64   `json:"productsInRange"`
	PercentageInRange float64 `json:"percentageInRange"`
}

type CustomReport struct {
	Title                 string  `json:"title"`
	Description           string  `json:"description"`
	TotalProducts         int64   `json:"totalProducts"`
	RecentProducts        int64   `json:"recentProducts"`
	AverageProductsPerDay float64 `json:"averageProductsPerDay"`
	GeneratedAt           string  `json:"generatedAt"`
}

// Service computes derived percentage statistics over store counts.
type Service struct {
	products ProductCounter
}

func NewService(products ProductCounter) *Service {
	return &Service{products: products}
}

func (s *Service) DeletedProductsReport(ctx context.Context) (*DeletedProductsReport, error) {
	total, err := s.products.TotalCount(ctx)
	if err != nil {
		return nil, err
	}
	deleted, err := s.products.DeletedCount(ctx)
	if err != nil {
		return nil, err
	}

	report := &DeletedProductsReport{
		TotalProducts:   total,
		DeletedProducts: deleted,
	}
	if total > 0 {
		report.DeletedPercentage = round2(float64(deleted) / float64(total) * 100)
		report.NonDeletedPercentage = round2(float64(total-deleted) / float64(total) * 100)
	}
	return report, nil
}

func (s *Service) PriceAnalysisReport(ctx context.Context) (*PriceAnalysisReport, error) {
	total, err := s.products.TotalCount(ctx)
	if err != nil {
		return nil, err
	}
	deleted, err := s.products.DeletedCount(ctx)
	if err != nil {
		return nil, err
	}
	withPrice, err := s.products.CountByPrice(ctx, true)
	if err != nil {
		return nil, err
	}
	withoutPrice, err := s.products.CountByPrice(ctx, false)
	if err != nil {
		return nil, err
	}

	active := total - deleted
	report := &PriceAnalysisReport{
		TotalNonDeletedProducts: active,
		ProductsWithPrice:       withPrice,
		ProductsWithoutPrice:    withoutPrice,
	}
	if active > 0 {
		report.WithPricePercentage = round2(float64(withPrice) / float64(active) * 100)
		report.WithoutPricePercentage = round2(float64(withoutPrice) / float64(active) * 100)
	}
	return report, nil
}

func (s *Service) DateRangeReport(ctx context.Context, start, end time.Time) (*DateRangeReport, error) {
	total, err := s.products.TotalCount(ctx)
	if err != nil {
		return nil, err
	}
	deleted, err := s.products.DeletedCount(ctx)
	if err != nil {
		return nil, err
	}
	inRange, err := s.products.CountByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}

	active := total - deleted
	report := &DateRangeReport{
		StartDate:       start.Format("2006-01-02"),
		EndDate:         end.Format("2006-01-02"),
		TotalProducts:   active,
		ProductsInRange: inRange,
	}
	if active > 0 {
		report.PercentageInRange = round2(float64(inRange) / float64(active) * 100)
	}
	return report, nil
}

// CustomReport summarizes creation activity over the trailing 30 days.
func (s *Service) CustomReport(ctx context.Context) (*CustomReport, error) {
	total, err := s.products.TotalCount(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	recent, err := s.products.CountByDateRange(ctx, now.AddDate(0, 0, -30), now)
	if err != nil {
		return nil, err
	}

	return &CustomReport{
		Title:                 "Product Activity Report",
		Description:           "Analysis of product creation activity over the last 30 days",
		TotalProducts:         total,
		RecentProducts:        recent,
		AverageProductsPerDay: round2(float64(recent) / 30),
		GeneratedAt:           now.Format(time.RFC3339),
	}, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
