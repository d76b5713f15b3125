package auctionapi

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/hectorportal/auction/core"
)

// ItemRecord is the loosely typed player record handed over by the ingestion side.
// Ratings and age stay as text; parsing.ItemFromRecord owns the tolerant conversion.
type ItemRecord struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Position  string            `json:"position"`
	Age       string            `json:"age,omitempty"`       // "27", "27.5", "27 years"
	Quality   string            `json:"quality,omitempty"`   // "65" or "3.5 Stars"
	Potential string            `json:"potential,omitempty"` // same formats as Quality
	Demand    string            `json:"demand,omitempty"`    // "$12.5M", "12.5"
	Stats     map[string]string `json:"stats,omitempty"`
}

// BidderRecord is a team entry from the league configuration. Zero values mean "use the default".
type BidderRecord struct {
	ID               string   `json:"id"`
	Name             string   `json:"name,omitempty"`
	Budget           *float64 `json:"budget,omitempty"` // $M, nil for the league default
	RosterMin        int      `json:"roster_min,omitempty"`
	RosterMax        int      `json:"roster_max,omitempty"`
	MinSpendFraction float64  `json:"min_spend_fraction,omitempty"`
	Control          string   `json:"control,omitempty"`  // "human" or "agent"
	Strategy         string   `json:"strategy,omitempty"` // aggressive, balanced, conservative
	WinPct           float64  `json:"win_pct,omitempty"`
	Mode             string   `json:"mode,omitempty"`
	FanInterest      float64  `json:"fan_interest,omitempty"`
}

// ExportedResult is one row of the result export: the sale (or non-sale) of one item.
type ExportedResult struct {
	ItemID        string  `json:"item_id" cbor:"1,keyasint"`
	ItemName      string  `json:"item_name" cbor:"2,keyasint"`
	Age           int     `json:"age" cbor:"3,keyasint"`
	Winner        string  `json:"winner" cbor:"4,keyasint"` // bidder ID or "unsold"
	Price         float64 `json:"price" cbor:"5,keyasint"`
	ContractYears int     `json:"contract_years" cbor:"6,keyasint"`
	BidCount      int     `json:"bid_count" cbor:"7,keyasint"`
	HistoryHash   string  `json:"history_hash" cbor:"8,keyasint"`
}

// ExportedBidder carries the account bounds a validator needs to replay spend.
type ExportedBidder struct {
	ID        string  `json:"id" cbor:"1,keyasint"`
	Budget    float64 `json:"budget" cbor:"2,keyasint"`
	RosterMax int     `json:"roster_max" cbor:"3,keyasint"`
}

// ExportSummary holds the aggregate counters of a run.
type ExportSummary struct {
	Items      int     `json:"items" cbor:"1,keyasint"`
	Sold       int     `json:"sold" cbor:"2,keyasint"`
	Unsold     int     `json:"unsold" cbor:"3,keyasint"`
	TotalSpend float64 `json:"total_spend" cbor:"4,keyasint"`
}

// ResultExport is the minimal result schema written at the end of a run.
type ResultExport struct {
	RunID       string           `json:"run_id" cbor:"1,keyasint"`
	GeneratedAt time.Time        `json:"generated_at" cbor:"2,keyasint"`
	Results     []ExportedResult `json:"results" cbor:"3,keyasint"`
	Bidders     []ExportedBidder `json:"bidders" cbor:"4,keyasint"`
	Summary     ExportSummary    `json:"summary" cbor:"5,keyasint"`
	ResultsHash string           `json:"results_hash" cbor:"6,keyasint"`
}

// NewResultExport builds the export for a run. items supplies ages for the contract-length
// lookup; a result whose item is missing falls back to the default age.
func NewResultExport(runID string, results []core.Result, items []core.Item, bidders []core.Bidder, generatedAt time.Time) *ResultExport {
	ages := make(map[string]int, len(items))
	for _, item := range items {
		ages[item.ID] = item.Age
	}

	export := &ResultExport{
		RunID:       runID,
		GeneratedAt: generatedAt.UTC(),
		Results:     make([]ExportedResult, 0, len(results)),
		Bidders:     make([]ExportedBidder, 0, len(bidders)),
	}

	for _, r := range results {
		age, ok := ages[r.ItemID]
		if !ok {
			age = DefaultAge
		}
		row := ExportedResult{
			ItemID:      r.ItemID,
			ItemName:    r.ItemName,
			Age:         age,
			Winner:      r.Winner,
			Price:       r.Price,
			BidCount:    r.BidCount,
			HistoryHash: r.HistoryHash,
		}
		if r.Sold() {
			row.ContractYears = core.ContractYears(age, r.Price)
			export.Summary.Sold++
			export.Summary.TotalSpend = core.AddMoney(export.Summary.TotalSpend, r.Price)
		} else {
			row.Winner = core.Unsold
			row.Price = 0
			export.Summary.Unsold++
		}
		export.Results = append(export.Results, row)
	}
	export.Summary.Items = len(results)
	export.ResultsHash = core.ComputeResultsHash(runID, export.CoreResults())

	for _, b := range bidders {
		export.Bidders = append(export.Bidders, ExportedBidder{ID: b.ID, Budget: b.Budget, RosterMax: b.RosterMax})
	}

	return export
}

// CoreResults converts the export rows back into core results.
func (e *ResultExport) CoreResults() []core.Result {
	results := make([]core.Result, 0, len(e.Results))
	for _, row := range e.Results {
		results = append(results, core.Result{
			ItemID:        row.ItemID,
			ItemName:      row.ItemName,
			Winner:        row.Winner,
			Price:         row.Price,
			ContractYears: row.ContractYears,
			BidCount:      row.BidCount,
			HistoryHash:   row.HistoryHash,
		})
	}
	return results
}

// DefaultAge is assumed for players whose age is missing or unreadable.
const DefaultAge = 25

var cborEncMode = mustEncMode()

func mustEncMode() cbor.EncMode {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	mode, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("auctionapi: cbor enc mode: %v", err))
	}
	return mode
}

// EncodeJSON returns the indented JSON form of the export.
func (e *ResultExport) EncodeJSON() ([]byte, error) {
	data, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export json: %w", err)
	}
	return data, nil
}

// EncodeCBOR returns the deterministic CBOR form of the export. This is the payload that
// gets signed, so identical exports always produce identical bytes.
func (e *ResultExport) EncodeCBOR() ([]byte, error) {
	data, err := cborEncMode.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("marshal export cbor: %w", err)
	}
	return data, nil
}

// DecodeJSON parses a JSON export.
func DecodeJSON(data []byte) (*ResultExport, error) {
	var e ResultExport
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal export json: %w", err)
	}
	return &e, nil
}

// DecodeCBOR parses a CBOR export.
func DecodeCBOR(data []byte) (*ResultExport, error) {
	var e ResultExport
	if err := cbor.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("unmarshal export cbor: %w", err)
	}
	return &e, nil
}

// SignedExport holds raw COSE_Sign1 bytes wrapping a CBOR-encoded ResultExport.
type SignedExport []byte

// SignedExportBase64 is the standard base64 form of a SignedExport, used in JSON transport.
type SignedExportBase64 string

// SignedExportGzip is the gzip-compressed, URL-safe base64 form of a SignedExport.
type SignedExportGzip string

// EncodeBase64 encodes the signed export for JSON transport.
func (s SignedExport) EncodeBase64() SignedExportBase64 {
	return SignedExportBase64(base64.StdEncoding.EncodeToString(s))
}

// CompressGzip compresses the signed export and encodes it URL-safe without padding.
func (s SignedExport) CompressGzip() (SignedExportGzip, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(s); err != nil {
		return "", fmt.Errorf("gzip signed export: %w", err)
	}
	if err := gz.Close(); err != nil {
		return "", fmt.Errorf("close gzip writer: %w", err)
	}
	return SignedExportGzip(base64.RawURLEncoding.EncodeToString(buf.Bytes())), nil
}

// Decode returns the raw COSE bytes.
func (s SignedExportBase64) Decode() (SignedExport, error) {
	data, err := base64.StdEncoding.DecodeString(string(s))
	if err != nil {
		return nil, fmt.Errorf("decode signed export: %w", err)
	}
	return SignedExport(data), nil
}

func (s SignedExportBase64) String() string {
	return string(s)
}

// Decompress reverses CompressGzip.
func (s SignedExportGzip) Decompress() (SignedExport, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(string(s))
	if err != nil {
		return nil, fmt.Errorf("decode gzip signed export: %w", err)
	}
	gz, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, fmt.Errorf("open gzip reader: %w", err)
	}
	defer gz.Close()

	data, err := io.ReadAll(gz)
	if err != nil {
		return nil, fmt.Errorf("decompress signed export: %w", err)
	}
	return SignedExport(data), nil
}

func (s SignedExportGzip) String() string {
	return string(s)
}
