package service

import (
	"context"
	"time"

	"hotelcore/internal/domain"
	"hotelcore/internal/repository"
	"hotelcore/internal/utils"
)

type pricingService struct {
	run runner
}

func NewPricingService(txm repository.TxManager) PricingService {
	return &pricingService{run: runner{txm: txm}}
}

func (s *pricingService) PriceStay(ctx context.Context, propertyID, roomID int64, checkIn, checkOut time.Time) (*domain.StayQuote, error) {
	dr, err := utils.NewDateRange(checkIn, checkOut)
	if err != nil {
		return nil, err
	}

	var quote domain.StayQuote
	err = s.run.read(ctx, propertyID, func(ctx context.Context, tx repository.Tx) error {
		room, err := tx.Rooms().GetByID(ctx, roomID)
		if err != nil {
			return err
		}
		quote, err = quoteStay(ctx, tx, room, dr)
		return err
	})
	if err != nil {
		return nil, publicError(ctx, "pricingService.PriceStay", err)
	}
	return &quote, nil
}

func quoteStay(ctx context.Context, tx repository.Tx, room *domain.Room, dr utils.DateRange) (domain.StayQuote, error) {
	rates, err := tx.Rates().ListActive(ctx)
	if err != nil {
		return domain.StayQuote{}, err
	}
	return utils.CalculateStayPrice(room, dr.CheckIn, dr.CheckOut, rates)
}

// uniformRateID returns the rate that priced every night, if there is one.
func uniformRateID(q domain.StayQuote) *int64 {
	if len(q.Breakdown) == 0 || q.Breakdown[0].RateID == nil {
		return nil
	}
	first := *q.Breakdown[0].RateID
	for _, line := range q.Breakdown[1:] {
		if line.RateID == nil || *line.RateID != first {
			return nil
		}
	}
	return &first
}
