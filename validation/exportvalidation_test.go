package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/peterldowns/testy/assert"
	"github.com/peterldowns/testy/check"

	"github.com/hectorportal/auction/attest"
	"github.com/hectorportal/auction/auctionapi"
	"github.com/hectorportal/auction/core"
)

func validExport() *auctionapi.ResultExport {
	return auctionapi.NewResultExport("run-v",
		[]core.Result{
			{ItemID: "p1", ItemName: "Ace", Winner: "A", Price: 21, BidCount: 5, HistoryHash: "h1"},
			{ItemID: "p2", ItemName: "Glove", Winner: "B", Price: 12.5, BidCount: 3, HistoryHash: "h2"},
			{ItemID: "p3", ItemName: "Arm", Winner: core.Unsold, HistoryHash: "h3"},
			{ItemID: "p4", ItemName: "Bat", Winner: "A", Price: 30, BidCount: 8, HistoryHash: "h4"},
		},
		[]core.Item{{ID: "p1", Age: 25}, {ID: "p2", Age: 31}, {ID: "p3", Age: 36}, {ID: "p4", Age: 28}},
		[]core.Bidder{{ID: "A", Budget: 60, RosterMax: 25}, {ID: "B", Budget: 40, RosterMax: 25}},
		time.Date(2026, 1, 20, 9, 0, 0, 0, time.UTC))
}

func signedFixture(t *testing.T) (*attest.KeyManager, string, auctionapi.SignedExport) {
	t.Helper()
	km, err := attest.NewKeyManager()
	assert.NoError(t, err)
	publicPEM, err := km.PublicKeyPEM()
	assert.NoError(t, err)
	signed, err := km.SignExport(validExport())
	assert.NoError(t, err)
	return km, publicPEM, signed
}

func TestValidateExport_Valid(t *testing.T) {
	result := ValidateExport(validExport())

	check.True(t, result.HashValid)
	check.True(t, result.SummaryValid)
	check.True(t, result.ContractsValid)
	check.True(t, result.ItemsUnique)
	check.True(t, result.BudgetsValid)
	check.True(t, result.ConsistencyValid())
	check.False(t, result.IsValid()) // no signature checked
}

func TestValidateExport_TamperedPrice(t *testing.T) {
	export := validExport()
	export.Results[0].Price = 2

	result := ValidateExport(export)
	check.False(t, result.HashValid)
	check.False(t, result.SummaryValid)
	check.False(t, result.ContractsValid)
	check.True(t, result.ItemsUnique)
}

func TestValidateExport_WrongContractYears(t *testing.T) {
	export := validExport()
	export.Results[1].ContractYears = 7
	export.ResultsHash = core.ComputeResultsHash(export.RunID, export.CoreResults())

	result := ValidateExport(export)
	check.True(t, result.HashValid)
	check.False(t, result.ContractsValid)
}

func TestValidateExport_UnsoldWithPrice(t *testing.T) {
	export := validExport()
	export.Results[2].Price = 1
	export.ResultsHash = core.ComputeResultsHash(export.RunID, export.CoreResults())

	result := ValidateExport(export)
	check.False(t, result.ContractsValid)
}

func TestValidateExport_DuplicateItem(t *testing.T) {
	export := validExport()
	export.Results[3].ItemID = "p1"
	export.ResultsHash = core.ComputeResultsHash(export.RunID, export.CoreResults())

	result := ValidateExport(export)
	check.False(t, result.ItemsUnique)
}

func TestValidateExport_BudgetReplay(t *testing.T) {
	export := validExport()
	export.Bidders[0].Budget = 45 // A spent 51

	result := ValidateExport(export)
	check.False(t, result.BudgetsValid)

	export = validExport()
	export.Bidders[0].RosterMax = 1
	result = ValidateExport(export)
	check.False(t, result.BudgetsValid)

	export = validExport()
	export.Results[1].Winner = "Z"
	result = ValidateExport(export)
	check.False(t, result.BudgetsValid)
}

func TestValidateExport_NoBidderBoundsSkipsReplay(t *testing.T) {
	export := validExport()
	export.Bidders = nil

	result := ValidateExport(export)
	check.True(t, result.BudgetsValid)
}

func TestValidateSignedExport_Valid(t *testing.T) {
	_, publicPEM, signed := signedFixture(t)

	result, export, err := ValidateSignedExport(&ExportValidationInput{Signed: signed, PublicKeyPEM: publicPEM})
	assert.NoError(t, err)
	assert.NotNil(t, export)
	check.True(t, result.SignatureValid)
	check.True(t, result.IsValid())
	check.Equal(t, "run-v", export.RunID)
}

func TestValidateSignedExport_WrongKey(t *testing.T) {
	_, _, signed := signedFixture(t)
	other, err := attest.NewKeyManager()
	assert.NoError(t, err)
	otherPEM, err := other.PublicKeyPEM()
	assert.NoError(t, err)

	result, export, err := ValidateSignedExport(&ExportValidationInput{Signed: signed, PublicKeyPEM: otherPEM})
	assert.NoError(t, err)
	check.Nil(t, export)
	check.False(t, result.SignatureValid)
	check.False(t, result.IsValid())
}

func TestValidateSignedExport_TamperedBytes(t *testing.T) {
	_, publicPEM, signed := signedFixture(t)
	tampered := append(auctionapi.SignedExport(nil), signed...)
	tampered[len(tampered)-1] ^= 0x01

	result, _, err := ValidateSignedExport(&ExportValidationInput{Signed: tampered, PublicKeyPEM: publicPEM})
	assert.NoError(t, err)
	check.False(t, result.SignatureValid)
}

func TestValidateSignedExport_BadKey(t *testing.T) {
	_, _, signed := signedFixture(t)

	_, _, err := ValidateSignedExport(&ExportValidationInput{Signed: signed, PublicKeyPEM: "not a key"})
	check.True(t, errors.Is(err, ErrInvalidPublicKey))
}

func TestParsePublicKeyPEM(t *testing.T) {
	km, publicPEM, _ := signedFixture(t)

	key, err := ParsePublicKeyPEM(publicPEM)
	assert.NoError(t, err)
	check.True(t, key.Equal(km.PublicKey))

	privatePEM, err := km.PrivateKeyPEM()
	assert.NoError(t, err)
	_, err = ParsePublicKeyPEM(privatePEM)
	check.True(t, errors.Is(err, ErrInvalidPublicKey))
}
