package domain

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerRefAcceptsLegacyForms(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want CustomerRef
	}{
		{"number zero", `0`, CustomerRef{}},
		{"string zero", `"0"`, CustomerRef{}},
		{"empty string", `""`, CustomerRef{}},
		{"null", `null`, CustomerRef{}},
		{"numeric id", `7`, CustomerRef{ID: 7}},
		{"numeric string", `"7"`, CustomerRef{ID: 7}},
		{"leading zero string", `"012"`, CustomerRef{ID: 12}},
		{"object with _id", `{"_id": 3, "name": "Budi", "phone": "0812"}`, CustomerRef{ID: 3, Name: "Budi", Phone: "0812"}},
		{"object with id", `{"id": "4", "email": "sari@example.com"}`, CustomerRef{ID: 4, Email: "sari@example.com"}},
		{"bare name", `"Budi Santoso"`, CustomerRef{Name: "Budi Santoso"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var got CustomerRef
			require.NoError(t, json.Unmarshal([]byte(tc.raw), &got))
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCustomerRefEncoding(t *testing.T) {
	cases := []struct {
		name string
		ref  CustomerRef
		want string
	}{
		{"walk-in", CustomerRef{}, `0`},
		{"id only", CustomerRef{ID: 7}, `7`},
		{"full", CustomerRef{ID: 3, Name: "Budi"}, `{"_id":3,"name":"Budi"}`},
		{"name only", CustomerRef{Name: "Budi"}, `{"_id":0,"name":"Budi"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := EncodeCustomer(tc.ref)
			require.NoError(t, err)
			assert.JSONEq(t, tc.want, encoded)

			decoded, err := DecodeCustomer(encoded)
			require.NoError(t, err)
			assert.Equal(t, tc.ref, decoded)
		})
	}

	empty, err := DecodeCustomer("  ")
	require.NoError(t, err)
	assert.True(t, empty.IsZero())
}

func TestDecodeItemsHandlesLegacyBlobs(t *testing.T) {
	for _, raw := range []string{"", "   ", "null", "[]"} {
		items, err := DecodeItems(raw)
		require.NoError(t, err, raw)
		assert.NotNil(t, items, raw)
		assert.Empty(t, items, raw)
	}

	items, err := DecodeItems(`[{"id":"1","product_name":"Kopi","sku":"899","price":"2.50","quantity":"3"},{"id":2,"price":1.5,"quantity":1}]`)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(1), items[0].ID)
	assert.Equal(t, 3, items[0].Quantity)
	assert.Equal(t, "Kopi", items[0].ProductName)
	assert.True(t, decimal.RequireFromString("2.50").Equal(items[0].Price))
	assert.Equal(t, int64(2), items[1].ID)
	assert.True(t, decimal.RequireFromString("1.5").Equal(items[1].Price))

	_, err = DecodeItems(`[{"id":"abc"}]`)
	assert.Error(t, err)

	encoded, err := EncodeItems(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]", encoded)
}

func TestTransactionUnmarshalIsLenient(t *testing.T) {
	var tx Transaction
	require.NoError(t, json.Unmarshal([]byte(`{
		"_id": "t1",
		"order": 42,
		"status": "1",
		"total": "7.50",
		"till": "2",
		"user_id": 5,
		"customer": "0",
		"items": null
	}`), &tx))

	assert.Equal(t, "t1", tx.ID)
	assert.Equal(t, "42", tx.OrderID)
	assert.Equal(t, TxStatusFinalized, tx.Status)
	assert.True(t, decimal.RequireFromString("7.50").Equal(tx.Total))
	assert.Equal(t, int64(2), tx.Till)
	assert.Equal(t, int64(5), tx.UserID)
	assert.True(t, tx.Customer.IsZero())
	assert.NotNil(t, tx.Items)
	assert.Empty(t, tx.Items)

	var explicit Transaction
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"t2","order_id":"A-1","order":"ignored"}`), &explicit))
	assert.Equal(t, "A-1", explicit.OrderID)

	var bad Transaction
	assert.Error(t, json.Unmarshal([]byte(`{"_id":"t3","status":"open"}`), &bad))
}

func TestStatisticUnmarshalReadsStringValue(t *testing.T) {
	var stat Statistic
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"s1","date":"2024-03-01","value":"10.5","description":"sales"}`), &stat))
	assert.Equal(t, "s1", stat.ID)
	assert.True(t, decimal.RequireFromString("10.5").Equal(stat.Value))
}

func TestToInt64ParsesBaseTen(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want int64
	}{
		{"nil", nil, 0},
		{"empty", "", 0},
		{"padded", " 12 ", 12},
		{"leading zero", "010", 10},
		{"leading zero with eight", "08", 8},
		{"fraction string", "1.5", 1},
		{"negative", "-3", -3},
		{"float", 3.9, 3},
		{"int", 5, 5},
		{"json number", json.Number("15"), 15},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ToInt64(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}

	_, err := ToInt64("abc")
	assert.Error(t, err)
}

func TestLineItemQuantityAcceptsFractionString(t *testing.T) {
	var item LineItem
	require.NoError(t, json.Unmarshal([]byte(`{"id":"08","quantity":"1.5"}`), &item))
	assert.Equal(t, int64(8), item.ID)
	assert.Equal(t, 1, item.Quantity)
}
