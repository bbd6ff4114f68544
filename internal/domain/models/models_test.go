package models

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRange(t *testing.T) {
	tests := []struct {
		name    string
		start   string
		end     string
		wantErr error
	}{
		{name: "same day", start: "2024-01-01", end: "2024-01-01"},
		{name: "ordered", start: "2024-02-01", end: "2024-02-10"},
		{name: "inverted", start: "2024-02-10", end: "2024-02-01", wantErr: ErrInvertedDateRange},
		{name: "bad start", start: "2024/02/01", end: "2024-02-10", wantErr: ErrInvalidDate},
		{name: "bad end", start: "2024-02-01", end: "", wantErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRange(tt.start, tt.end)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
}

func TestDateSpan(t *testing.T) {
	days, err := DateSpan("2024-02-27", "2024-03-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-02-27", "2024-02-28", "2024-02-29", "2024-03-01", "2024-03-02"}, days)

	days, err = DateSpan("2024-02-10", "2024-02-01")
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestShortLabel(t *testing.T) {
	assert.Equal(t, "05/03", ShortLabel("2024-03-05"))
	assert.Equal(t, "garbage", ShortLabel("garbage"))
}

func TestPurchaseCostPerUnit(t *testing.T) {
	v, ok := Purchase{Weight: 4, CostPrice: 1000}.CostPerUnit()
	assert.True(t, ok)
	assert.Equal(t, 250.0, v)

	_, ok = Purchase{Weight: 0, CostPrice: 1000}.CostPerUnit()
	assert.False(t, ok)
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		name     string
		message  string
		wantType CommandType
		wantArgs []string
	}{
		{name: "empty", message: "   ", wantType: CommandUnknown},
		{name: "sale", message: "/sale ร้านส้มตำ | หมูสามชั้น | 2.5 | 300 | 360", wantType: CommandSale,
			wantArgs: []string{"ร้านส้มตำ", "หมูสามชั้น", "2.5", "300", "360"}},
		{name: "upper case head", message: "/PURCHASE Farm A|Beef|10|3500", wantType: CommandPurchase,
			wantArgs: []string{"Farm A", "Beef", "10", "3500"}},
		{name: "no slash", message: "today", wantType: CommandToday},
		{name: "summary days", message: "/summary 7", wantType: CommandSummary, wantArgs: []string{"7"}},
		{name: "unknown", message: "/eggs 120", wantType: CommandUnknown, wantArgs: []string{"120"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := ParseCommand(tt.message)
			assert.Equal(t, tt.wantType, cmd.Type)
			assert.Equal(t, tt.wantArgs, cmd.Args)
			assert.Equal(t, tt.message, cmd.Raw)
		})
	}
}

func TestInboundMessageBody(t *testing.T) {
	assert.Equal(t, "/today", InboundMessage{Text: &TextContent{Body: "/today"}}.Body())
	assert.Equal(t, "/summary", InboundMessage{Interactive: &InteractiveContent{ButtonReply: &ReplyItem{ID: "/summary"}}}.Body())
	assert.Equal(t, "", InboundMessage{Type: "image"}.Body())
}

func TestSaleInputNormalize(t *testing.T) {
	in := SaleInput{CustomerName: "  ร้านA ", ProductName: "Beef\t", SaleDate: " 2024-01-01 "}
	in.Normalize()
	assert.Equal(t, "ร้านA", in.CustomerName)
	assert.Equal(t, "Beef", in.ProductName)
	assert.Equal(t, "2024-01-01", in.SaleDate)
}
