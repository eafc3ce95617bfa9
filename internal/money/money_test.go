package money

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want Amount
	}{
		{"12.34", 1234},
		{"12.345", 1235},
		{"12.344", 1234},
		{"-7.5", -750},
		{"100", 10000},
		{"0.01", 1},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := Parse("abc")
	assert.Error(t, err)

	t.Run("out of range", func(t *testing.T) {
		got, err := Parse("92233720368547758.07")
		require.NoError(t, err)
		assert.Equal(t, Amount(math.MaxInt64), got)

		_, err = Parse("92233720368547758.08")
		assert.ErrorIs(t, err, ErrOutOfRange)
		_, err = Parse("-92233720368547758.09")
		assert.ErrorIs(t, err, ErrOutOfRange)
	})
}

func TestString(t *testing.T) {
	assert.Equal(t, "100.00", Cents(10000).String())
	assert.Equal(t, "-0.05", Cents(-5).String())
	assert.Equal(t, "0.00", Zero.String())
}

func TestJSON(t *testing.T) {
	t.Run("marshals as two-decimal number", func(t *testing.T) {
		data, err := json.Marshal(map[string]Amount{"amount": 7050})
		require.NoError(t, err)
		assert.JSONEq(t, `{"amount":70.50}`, string(data))
	})

	t.Run("accepts numbers and strings", func(t *testing.T) {
		var v struct {
			A Amount `json:"a"`
			B Amount `json:"b"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"a":30,"b":"12.5"}`), &v))
		assert.Equal(t, Amount(3000), v.A)
		assert.Equal(t, Amount(1250), v.B)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		var a Amount
		assert.Error(t, json.Unmarshal([]byte(`"twelve"`), &a))
	})

	t.Run("rejects values beyond int64 cents", func(t *testing.T) {
		a := Amount(77)
		err := json.Unmarshal([]byte(`100000000000000000000`), &a)
		assert.ErrorIs(t, err, ErrOutOfRange)
		assert.Equal(t, Amount(77), a)
		assert.ErrorIs(t, json.Unmarshal([]byte(`"-1e30"`), &a), ErrOutOfRange)
	})
}

func TestRatios(t *testing.T) {
	assert.Equal(t, 25.0, Percent(250, 1000))
	assert.Equal(t, 0.0, Percent(250, 0))
	assert.Equal(t, 0.0, Percent(250, -10))
	assert.Equal(t, 2.5, Ratio(2500, 1000))
	assert.Equal(t, 0.0, Ratio(2500, 0))
	assert.Equal(t, Amount(333), Cents(1000).DivFloat(3))
	assert.Equal(t, Zero, Cents(1000).DivFloat(0))
}

func TestScan(t *testing.T) {
	var a Amount
	require.NoError(t, a.Scan(int64(4200)))
	assert.Equal(t, Amount(4200), a)
	require.NoError(t, a.Scan([]byte("99")))
	assert.Equal(t, Amount(99), a)
	require.NoError(t, a.Scan(nil))
	assert.Equal(t, Zero, a)
	assert.Error(t, a.Scan(true))

	assert.ErrorIs(t, a.Scan("9223372036854775808"), ErrOutOfRange)
	assert.ErrorIs(t, a.Scan([]byte("-9223372036854775809")), ErrOutOfRange)
	assert.ErrorIs(t, a.Scan(float64(1e19)), ErrOutOfRange)
	require.NoError(t, a.Scan("9223372036854775807"))
	assert.Equal(t, Amount(math.MaxInt64), a)
}

func TestFromDecimal(t *testing.T) {
	assert.Equal(t, Amount(-1235), FromDecimal(decimal.RequireFromString("-12.345")))
	assert.Equal(t, Amount(1999), FromFloat(19.99))
	assert.Equal(t, Amount(500), Amount(-500).Abs())
	assert.Equal(t, Amount(-500), Amount(500).Neg())

	huge := decimal.RequireFromString("1e30")
	assert.Equal(t, Amount(math.MaxInt64), FromDecimal(huge))
	assert.Equal(t, Amount(math.MinInt64), FromDecimal(huge.Neg()))
	_, err := NewFromDecimal(huge)
	assert.ErrorIs(t, err, ErrOutOfRange)
}
