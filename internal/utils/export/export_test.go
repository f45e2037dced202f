package export_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/aripa/fish_stats_app/internal/core/domain"
	"github.com/aripa/fish_stats_app/internal/utils/export"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestTableOf_FlattensEmbeddedRecords(t *testing.T) {
	rows := []domain.EntityShare{
		{
			EntityTotal: domain.EntityTotal{Name: "B", TotalAmount: decimal.NewFromInt(300)},
			MarketShare: decimal.NewNullDecimal(decimal.RequireFromString("75.0")),
		},
		{
			EntityTotal: domain.EntityTotal{Name: "Z", TotalAmount: decimal.Zero},
		},
	}

	table, err := export.TableOf("entity-performance", rows)

	require.NoError(t, err)
	assert.Equal(t, []string{"name", "total_amount", "market_share"}, table.Columns)
	assert.Equal(t, [][]string{{"B", "300", "75"}, {"Z", "0", ""}}, table.Rows)
}

func TestTableOf_SingleRecord(t *testing.T) {
	buyer := "Criée"
	table, err := export.TableOf("bill", domain.BoatBill{
		BillID:      7,
		Type:        "validated",
		Total:       decimal.RequireFromString("12.50"),
		BillingDate: time.Date(2024, 5, 3, 0, 0, 0, 0, time.UTC),
		TotalKg:     decimal.NewFromInt(4),
		BuyerName:   &buyer,
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"bill_id", "type", "total", "billing_date", "total_kg", "buyer_name"}, table.Columns)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, []string{"7", "validated", "12.5", "2024-05-03", "4", "Criée"}, table.Rows[0])
}

func TestTableOf_RejectsScalars(t *testing.T) {
	_, err := export.TableOf("x", 42)
	assert.Error(t, err)

	_, err = export.TableOf("x", []string{"a"})
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	f, err := export.ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, export.FormatXLSX, f)

	_, err = export.ParseFormat("docx")
	assert.Error(t, err)
}

func TestRender(t *testing.T) {
	table := export.Table{
		Title:   "by-species",
		Columns: []string{"species", "total_weight"},
		Rows:    [][]string{{"Sole", "12.5"}, {"Bar", "3"}},
	}

	t.Run("csv", func(t *testing.T) {
		out, err := export.Render(table, export.FormatCSV)
		require.NoError(t, err)
		assert.Equal(t, "species,total_weight\nSole,12.5\nBar,3\n", string(out))
	})

	t.Run("xlsx", func(t *testing.T) {
		out, err := export.Render(table, export.FormatXLSX)
		require.NoError(t, err)

		f, err := excelize.OpenReader(bytes.NewReader(out))
		require.NoError(t, err)
		defer f.Close()
		value, err := f.GetCellValue("by-species", "A2")
		require.NoError(t, err)
		assert.Equal(t, "Sole", value)
	})

	t.Run("pdf", func(t *testing.T) {
		out, err := export.Render(table, export.FormatPDF)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	})
}
