package utils

import (
	"sort"
	"time"

	"hotelcore/internal/domain"
)

// Rate precedence for a single night, lowest value wins.
const (
	tierDated   = iota // seasonal/special with a calendar window covering the night
	tierWeekday        // weekend rate matching the night's weekday
	tierRule           // base/longstay rules and undated overrides
	tierRoom           // the room's own base_price
)

// BaseRateName labels nights priced from room.base_price.
const BaseRateName = "base"

type rateCandidate struct {
	rate  *domain.Rate
	tier  int
	span  int
	price int64
}

// CalculateStayPrice prices every night of [checkIn, checkOut) for the room.
// The result depends only on its inputs.
func CalculateStayPrice(room *domain.Room, checkIn, checkOut time.Time, rates []domain.Rate) (domain.StayQuote, error) {
	dr, err := NewDateRange(checkIn, checkOut)
	if err != nil {
		return domain.StayQuote{}, err
	}

	nights := dr.Nights()
	quote := domain.StayQuote{
		RoomID:    room.ID,
		CheckIn:   dr.CheckIn,
		CheckOut:  dr.CheckOut,
		Nights:    nights,
		Breakdown: make([]domain.NightPrice, 0, nights),
	}

	for _, night := range dr.Dates() {
		line := PriceNight(room, night, nights, rates)
		quote.Total += line.Price
		quote.Breakdown = append(quote.Breakdown, line)
	}
	return quote, nil
}

// PriceNight selects the highest-priority rate for one night of a stay of the given length.
func PriceNight(room *domain.Room, night time.Time, stayNights int, rates []domain.Rate) domain.NightPrice {
	var candidates []rateCandidate
	for i := range rates {
		r := &rates[i]
		if !rateMatches(r, room.ID, night, stayNights) {
			continue
		}
		price, ok := ratePrice(r, room.BasePrice)
		if !ok {
			continue
		}
		candidates = append(candidates, rateCandidate{rate: r, tier: rateTier(r), span: windowSpan(r), price: price})
	}

	if len(candidates) == 0 {
		return domain.NightPrice{Date: night, Price: room.BasePrice, RateName: BaseRateName}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.tier != b.tier {
			return a.tier < b.tier
		}
		if a.span != b.span {
			return a.span < b.span
		}
		return a.rate.ID < b.rate.ID
	})

	best := candidates[0]
	id := best.rate.ID
	return domain.NightPrice{Date: night, Price: best.price, RateName: best.rate.Name, RateID: &id}
}

func rateMatches(r *domain.Rate, roomID int64, night time.Time, stayNights int) bool {
	if !r.IsActive {
		return false
	}
	if r.MinStay != nil && stayNights < int(*r.MinStay) {
		return false
	}
	if len(r.RoomIDs) > 0 && !containsInt64(r.RoomIDs, roomID) {
		return false
	}
	if r.DateFrom != nil && night.Before(TruncateDate(*r.DateFrom)) {
		return false
	}
	if r.DateTo != nil && night.After(TruncateDate(*r.DateTo)) {
		return false
	}

	// An empty weekday list matches every night, weekend rates included.
	if len(r.DaysOfWeek) > 0 && !containsInt32(r.DaysOfWeek, int32(night.Weekday())) {
		return false
	}
	return true
}

func rateTier(r *domain.Rate) int {
	switch r.Type {
	case domain.RateTypeSeasonal, domain.RateTypeSpecial:
		if r.Dated() {
			return tierDated
		}
		return tierRule
	case domain.RateTypeWeekend:
		return tierWeekday
	default:
		return tierRule
	}
}

func ratePrice(r *domain.Rate, basePrice int64) (int64, bool) {
	switch {
	case r.Price != nil:
		return *r.Price, true
	case r.DiscountPercent != nil:
		return ApplyDiscountPercent(basePrice, *r.DiscountPercent), true
	default:
		return 0, false
	}
}

// windowSpan ranks narrower windows ahead of wider ones within a tier.
func windowSpan(r *domain.Rate) int {
	const unbounded = 1 << 30
	if r.DateFrom == nil || r.DateTo == nil {
		return unbounded
	}
	return int(TruncateDate(*r.DateTo).Sub(TruncateDate(*r.DateFrom)).Hours() / 24)
}

func containsInt64(xs []int64, v int64) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}

func containsInt32(xs []int32, v int32) bool {
	for _, x := range xs {
		if x == v {
			return true
		}
	}
	return false
}
