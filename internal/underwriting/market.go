package underwriting

// TrendDirection is the direction an indicator is moving, already oriented so
// that up means improving for an investor.
type TrendDirection string

const (
	TrendUp      TrendDirection = "up"
	TrendDown    TrendDirection = "down"
	TrendStable  TrendDirection = "stable"
	TrendUnknown TrendDirection = "unknown"
)

// SignalStrength is the qualitative support an indicator lends a deal.
type SignalStrength string

const (
	SignalStrong   SignalStrength = "strong"
	SignalModerate SignalStrength = "moderate"
	SignalWeak     SignalStrength = "weak"
	SignalNeutral  SignalStrength = "neutral"
	SignalUnknown  SignalStrength = "unknown"
)

// trendBand is the dead zone around zero inside which a trend is stable.
const trendBand = 0.02

// MarketIndicator is one classified market reading. Value is nil when the
// indicator is unknown.
type MarketIndicator struct {
	Value  *float64       `json:"value,omitempty"`
	Trend  TrendDirection `json:"trend"`
	Signal SignalStrength `json:"signal"`
}

// MarketSupport is the set of market indicators backing a deal.
type MarketSupport struct {
	RentGrowth        MarketIndicator `json:"rentGrowth"`
	PriceAppreciation MarketIndicator `json:"priceAppreciation"`
	VacancyTrend      MarketIndicator `json:"vacancyTrend"`
	DaysOnMarket      MarketIndicator `json:"daysOnMarket"`
	SupplyTrend       MarketIndicator `json:"supplyTrend"`
	Demand            MarketIndicator `json:"demand"`
}

// signalBand holds the strong, moderate and acceptable cut points of an
// indicator. Values past the acceptable cut point are weak.
type signalBand struct {
	higherIsBetter bool
	strong         float64
	moderate       float64
	acceptable     float64
	// acceptableSignal is the signal of the third band.
	acceptableSignal SignalStrength
}

var (
	growthSignal  = signalBand{higherIsBetter: true, strong: 0.05, moderate: 0.02, acceptable: 0, acceptableSignal: SignalWeak}
	vacancySignal = signalBand{strong: 0.03, moderate: 0.06, acceptable: 0.10, acceptableSignal: SignalWeak}
	domSignal     = signalBand{strong: 14, moderate: 30, acceptable: 60, acceptableSignal: SignalWeak}
	supplySignal  = signalBand{strong: 2, moderate: 4, acceptable: 6, acceptableSignal: SignalWeak}
	demandSignal  = signalBand{higherIsBetter: true, strong: 0.02, moderate: 0.01, acceptable: 0, acceptableSignal: SignalNeutral}
)

// ComputeMarketSupport classifies each market indicator. A nil snapshot yields
// unknown for every indicator.
func ComputeMarketSupport(market *MarketSnapshot) MarketSupport {
	if market == nil {
		market = &MarketSnapshot{}
	}
	return MarketSupport{
		RentGrowth:        classify(market.RentGrowth, growthSignal),
		PriceAppreciation: classify(market.PriceAppreciation, growthSignal),
		VacancyTrend:      classify(market.VacancyRate, vacancySignal),
		DaysOnMarket:      classify(market.DaysOnMarket, domSignal),
		SupplyTrend:       classify(market.InventoryMonths, supplySignal),
		Demand:            classify(market.PopulationGrowth, demandSignal),
	}
}

func classify(value *float64, band signalBand) MarketIndicator {
	if value == nil {
		return MarketIndicator{Trend: TrendUnknown, Signal: SignalUnknown}
	}
	v := *value
	return MarketIndicator{
		Value:  &v,
		Trend:  classifyTrend(v, band.higherIsBetter),
		Signal: band.classify(v),
	}
}

func classifyTrend(value float64, higherIsBetter bool) TrendDirection {
	switch {
	case value > trendBand:
		if higherIsBetter {
			return TrendUp
		}
		return TrendDown
	case value < -trendBand:
		if higherIsBetter {
			return TrendDown
		}
		return TrendUp
	default:
		return TrendStable
	}
}

func (b signalBand) classify(value float64) SignalStrength {
	if b.higherIsBetter {
		switch {
		case value >= b.strong:
			return SignalStrong
		case value >= b.moderate:
			return SignalModerate
		case value >= b.acceptable:
			return b.acceptableSignal
		default:
			return SignalWeak
		}
	}
	switch {
	case value <= b.strong:
		return SignalStrong
	case value <= b.moderate:
		return SignalModerate
	case value <= b.acceptable:
		return b.acceptableSignal
	default:
		return SignalWeak
	}
}
