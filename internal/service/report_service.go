package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"salonpos/internal/dto"
	"salonpos/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

const revenueCacheTTL = 60 * time.Second

// ReportService produces aggregate read models. Results for a given day are
// cached briefly in Redis since the dashboard polls them.
type ReportService interface {
	Revenue(ctx context.Context, restaurantID uuid.UUID, date string) (*dto.RevenueReportResponse, error)
}

type reportService struct {
	orders repository.OrderRepository
	rdb    *redis.Client
}

func NewReportService(orders repository.OrderRepository, rdb *redis.Client) ReportService {
	return &reportService{orders: orders, rdb: rdb}
}

func (s *reportService) Revenue(ctx context.Context, restaurantID uuid.UUID, date string) (*dto.RevenueReportResponse, error) {
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}

	cacheKey := fmt.Sprintf("report:revenue:%s:%s", restaurantID, date)
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var report dto.RevenueReportResponse
			if json.Unmarshal([]byte(cached), &report) == nil {
				return &report, nil
			}
		}
	}

	rows, err := s.orders.RevenueByPayment(ctx, restaurantID, date)
	if err != nil {
		return nil, err
	}
	covers, err := s.orders.DailyCovers(ctx, restaurantID, date)
	if err != nil {
		return nil, err
	}

	report := &dto.RevenueReportResponse{
		Date:   date,
		Lines:  make([]dto.PaymentRevenueLine, 0, len(rows)),
		Total:  decimal.Zero,
		Covers: covers,
	}
	for _, row := range rows {
		report.Lines = append(report.Lines, dto.PaymentRevenueLine{
			PaymentMethod: row.PaymentMethod,
			Orders:        row.Orders,
			Revenue:       row.Revenue,
		})
		report.Total = report.Total.Add(row.Revenue)
		report.Orders += row.Orders
	}

	if s.rdb != nil {
		if encoded, err := json.Marshal(report); err == nil {
			if err := s.rdb.Set(ctx, cacheKey, encoded, revenueCacheTTL).Err(); err != nil {
				log.Warn().Err(err).Msg("revenue report cache write failed")
			}
		}
	}
	return report, nil
}
