package auctionapi

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/hectorportal/auction/core"
)

var generatedAt = time.Date(2026, 1, 20, 18, 30, 0, 0, time.UTC)

func sampleExport() *ResultExport {
	items := []core.Item{
		{ID: "p1", Name: "Young Ace", Age: 24},
		{ID: "p2", Name: "Veteran Bat", Age: 33},
		{ID: "p3", Name: "Spare Arm", Age: 30},
	}
	bidders := []core.Bidder{
		{ID: "A", Budget: 100, RosterMax: 25},
		{ID: "B", Budget: 80, RosterMax: 25},
	}
	results := []core.Result{
		{ItemID: "p1", ItemName: "Young Ace", Winner: "A", Price: 21.5, BidCount: 6, HistoryHash: "h1"},
		{ItemID: "p2", ItemName: "Veteran Bat", Winner: "B", Price: 9.25, BidCount: 2, HistoryHash: "h2"},
		{ItemID: "p3", ItemName: "Spare Arm", Winner: core.Unsold, HistoryHash: "h3"},
	}
	return NewResultExport("run-1", results, items, bidders, generatedAt)
}

func TestNewResultExport(t *testing.T) {
	export := sampleExport()

	assert.Equal(t, 3, len(export.Results))
	check.Equal(t, "run-1", export.RunID)
	check.Equal(t, 7, export.Results[0].ContractYears)
	check.Equal(t, 24, export.Results[0].Age)
	check.Equal(t, 1, export.Results[1].ContractYears)
	check.Equal(t, core.Unsold, export.Results[2].Winner)
	check.Equal(t, 0, export.Results[2].ContractYears)
	check.Equal(t, 0.0, export.Results[2].Price)

	check.Equal(t, ExportSummary{Items: 3, Sold: 2, Unsold: 1, TotalSpend: 30.75}, export.Summary)
	check.Equal(t, 2, len(export.Bidders))
	check.Equal(t, 80.0, export.Bidders[1].Budget)
	check.Equal(t, core.ComputeResultsHash("run-1", export.CoreResults()), export.ResultsHash)
}

func TestNewResultExport_MissingItemUsesDefaultAge(t *testing.T) {
	results := []core.Result{{ItemID: "ghost", Winner: "A", Price: 12}}
	export := NewResultExport("run-2", results, nil, nil, generatedAt)

	check.Equal(t, DefaultAge, export.Results[0].Age)
	check.Equal(t, core.ContractYears(DefaultAge, 12), export.Results[0].ContractYears)
}

func TestResultExport_JSONRoundTrip(t *testing.T) {
	export := sampleExport()

	data, err := export.EncodeJSON()
	assert.NoError(t, err)
	check.True(t, strings.Contains(string(data), `"winner": "unsold"`))

	decoded, err := DecodeJSON(data)
	assert.NoError(t, err)
	check.Equal(t, export.Results, decoded.Results)
	check.Equal(t, export.Summary, decoded.Summary)
	check.True(t, export.GeneratedAt.Equal(decoded.GeneratedAt))
}

func TestResultExport_CBORDeterministic(t *testing.T) {
	first, err := sampleExport().EncodeCBOR()
	assert.NoError(t, err)
	second, err := sampleExport().EncodeCBOR()
	assert.NoError(t, err)
	check.Equal(t, first, second)

	decoded, err := DecodeCBOR(first)
	assert.NoError(t, err)
	check.Equal(t, "run-1", decoded.RunID)
	check.Equal(t, sampleExport().Results, decoded.Results)
	check.Equal(t, sampleExport().Bidders, decoded.Bidders)
	check.True(t, generatedAt.Equal(decoded.GeneratedAt))
}

func TestDecodeCBOR_Garbage(t *testing.T) {
	_, err := DecodeCBOR([]byte{0xff, 0x00})
	check.Error(t, err)
}

// Every age x price cell of the contract table must survive export and re-import.
func TestContractTable_RoundTripThroughExport(t *testing.T) {
	ages := []int{20, 26, 27, 29, 30, 32, 33, 35, 36, 40}
	prices := []float64{0.5, 7.99, 8, 9.99, 10, 14.99, 15, 19.99, 20, 45}

	var items []core.Item
	var results []core.Result
	for _, age := range ages {
		for _, price := range prices {
			id := fmt.Sprintf("p-%d-%.2f", age, price)
			items = append(items, core.Item{ID: id, Age: age})
			results = append(results, core.Result{ItemID: id, Winner: "A", Price: price})
		}
	}

	export := NewResultExport("run-table", results, items, nil, generatedAt)
	data, err := export.EncodeCBOR()
	assert.NoError(t, err)
	decoded, err := DecodeCBOR(data)
	assert.NoError(t, err)
	assert.Equal(t, len(results), len(decoded.Results))

	for i, row := range decoded.Results {
		want := core.ContractYears(items[i].Age, results[i].Price)
		check.Equal(t, want, row.ContractYears)
		check.Equal(t, want, core.ContractYears(row.Age, row.Price))
		check.True(t, row.ContractYears >= 1 && row.ContractYears <= 7)
	}
}

func TestSignedExport_Base64(t *testing.T) {
	signed := SignedExport([]byte("mock-cose-sign1-bytes"))

	encoded := signed.EncodeBase64()
	check.NotEqual(t, "", encoded.String())

	decoded, err := encoded.Decode()
	check.Nil(t, err)
	check.Equal(t, signed, decoded)

	_, err = SignedExportBase64("%%%").Decode()
	check.Error(t, err)
}

func TestSignedExport_Gzip(t *testing.T) {
	signed := SignedExport([]byte("mock-cose-sign1-bytes-for-compression-testing"))

	compressed, err := signed.CompressGzip()
	check.Nil(t, err)

	s := compressed.String()
	check.True(t, !strings.Contains(s, "+"))
	check.True(t, !strings.Contains(s, "/"))
	check.True(t, !strings.Contains(s, "="))

	decompressed, err := compressed.Decompress()
	check.Nil(t, err)
	check.Equal(t, signed, decompressed)
}

func TestSignedExportGzip_Invalid(t *testing.T) {
	_, err := SignedExportGzip("not-gzip").Decompress()
	check.Error(t, err)
}

func TestTimerBandFor(t *testing.T) {
	tests := []struct {
		remaining time.Duration
		expected  TimerBand
	}{
		{60 * time.Second, BandCalm},
		{30*time.Second + time.Millisecond, BandCalm},
		{30 * time.Second, BandWarning},
		{15 * time.Second, BandWarning},
		{15*time.Second - time.Millisecond, BandUrgent},
		{0, BandUrgent},
	}
	for _, tt := range tests {
		check.Equal(t, tt.expected, TimerBandFor(tt.remaining))
	}
}
