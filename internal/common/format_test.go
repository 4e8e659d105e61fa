package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatter_Money(t *testing.T) {
	f := NewFormatter("en", "USD")

	assert.Equal(t, "USD 1,234.50", f.Money(1234.5, ""))
	assert.Equal(t, "AUD 50,000.00", f.Money(50000, "AUD"))
}

func TestFormatter_MoneyLocaleGrouping(t *testing.T) {
	f := NewFormatter("de", "EUR")

	// German grouping: dot for thousands, comma for decimals
	assert.Equal(t, "EUR 1.234,50", f.Money(1234.5, ""))
}

func TestFormatter_BadLocaleFallsBack(t *testing.T) {
	f := NewFormatter("no-such-locale!!", "USD")
	assert.Equal(t, "USD 10.00", f.Money(10, ""))
}

func TestFormatter_Percent(t *testing.T) {
	f := NewFormatter("en", "USD")
	assert.Equal(t, "42.5%", f.Percent(42.5))
}

func TestFormatter_Date(t *testing.T) {
	f := NewFormatter("en", "USD")
	dt := time.Date(2030, 6, 1, 15, 4, 0, 0, time.UTC)

	assert.Equal(t, "01 Jun 2030", f.Date(dt))
	assert.Equal(t, "01 Jun 2030 15:04", f.DateTime(dt))
}
