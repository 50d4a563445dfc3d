package types

import (
	"testing"
	"time"

	"github.com/moznion/go-optional"
	"github.com/stretchr/testify/suite"
)

type MarketTestSuite struct {
	suite.Suite
}

func TestMarketSuite(t *testing.T) {
	suite.Run(t, new(MarketTestSuite))
}

func (suite *MarketTestSuite) TestPriceBarRoundTrip() {
	ts := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	bar := PriceBar{Symbol: "AAPL", Time: ts, Open: 1, High: 2, Low: 0.5, Close: 1.5, Volume: 1000}

	event := NewEvent(EventTypePriceBar, optional.Some("AAPL"), ts, "test", bar.Payload())
	decoded := PriceBarFromEvent(event)

	suite.Equal(bar, decoded)
}

func (suite *MarketTestSuite) TestPriceBarFromEventWithIntegerVolume() {
	event := NewEvent(EventTypeMarketBar, optional.None[string](), time.Now(), "test", map[string]any{
		"close":  int64(420),
		"volume": 12,
	})

	bar := PriceBarFromEvent(event)
	suite.Equal(420.0, bar.Close)
	suite.Equal(12.0, bar.Volume)
	suite.Equal("", bar.Symbol)
}

func (suite *MarketTestSuite) TestFundamentalFromEvent() {
	event := NewEvent(EventTypeFundamentalData, optional.Some("MSFT"), time.Now(), "test", map[string]any{
		"company_name":       "Microsoft Corp",
		"cik":                "0000789019",
		"employees":          221000.0,
		"shares_outstanding": 7.43e9,
		"float_shares":       nil,
		"industry":           "Technology",
	})

	fundamental := FundamentalFromEvent(event)
	suite.Equal("MSFT", fundamental.Symbol)
	suite.Equal("Microsoft Corp", fundamental.CompanyName)
	suite.Equal("0000789019", fundamental.CIK)
	suite.Equal(int64(221000), fundamental.Employees.Unwrap())
	suite.Equal(7.43e9, fundamental.SharesOutstanding.Unwrap())
	suite.True(fundamental.FloatShares.IsNone())
	suite.Equal("Technology", fundamental.Industry.Unwrap())
	suite.True(fundamental.Category.IsNone())
}

func (suite *MarketTestSuite) TestFundamentalPayloadEncodesNoneAsNil() {
	fundamental := FundamentalData{
		Symbol:            "IBM",
		CompanyName:       "IBM",
		SharesOutstanding: optional.Some(9.1e8),
	}

	payload := fundamental.Payload()
	suite.Equal(9.1e8, payload["shares_outstanding"])
	suite.Nil(payload["industry"])
	suite.Nil(payload["employees"])
}

func (suite *MarketTestSuite) TestNewEventCopiesPayload() {
	payload := map[string]any{"close": 10.0}
	event := NewEvent(EventTypePriceBar, optional.Some("AAPL"), time.Now(), "test", payload)

	payload["close"] = 99.0

	closePrice, ok := event.Float("close")
	suite.True(ok)
	suite.Equal(10.0, closePrice)
	suite.False(event.IngestedAt.IsZero())
}

func (suite *MarketTestSuite) TestFundamentalCloneIsIndependent() {
	original := FundamentalData{
		Symbol:            "AAPL",
		Employees:         optional.Some(int64(160_000)),
		SharesOutstanding: optional.Some(15e9),
		Industry:          optional.Some("Technology"),
		Category:          optional.None[string](),
	}

	clone := original.Clone()
	suite.Equal(original, clone)

	clone.Employees[0] = 1
	clone.SharesOutstanding[0] = 2
	clone.Industry[0] = "Utilities"

	suite.Equal(int64(160_000), original.Employees.Unwrap())
	suite.Equal(15e9, original.SharesOutstanding.Unwrap())
	suite.Equal("Technology", original.Industry.Unwrap())
	suite.True(clone.Category.IsNone())
}
