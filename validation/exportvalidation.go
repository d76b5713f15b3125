package validation

import (
	"fmt"

	"github.com/hectorportal/auction/auctionapi"
	"github.com/hectorportal/auction/core"
)

// ExportValidationInput contains everything needed to validate a signed export.
type ExportValidationInput struct {
	Signed       auctionapi.SignedExport
	PublicKeyPEM string
}

// ValidateSignedExport verifies the signature of a signed export and then runs the
// consistency checks on its payload.
//
// Returns:
//   - ExportValidationResult with detailed results (call result.IsValid() to check overall status)
//   - the decoded export when the signature verified, nil otherwise
//   - error if validation cannot be performed (e.g., malformed key or message)
func ValidateSignedExport(input *ExportValidationInput) (*ExportValidationResult, *auctionapi.ResultExport, error) {
	publicKey, err := ParsePublicKeyPEM(input.PublicKeyPEM)
	if err != nil {
		return nil, nil, err
	}

	export, err := VerifySignedExport(input.Signed, publicKey)
	if err != nil {
		result := &ExportValidationResult{}
		result.addDetail(fmt.Sprintf("Signature verification failed: %v", err))
		return result, nil, nil
	}

	result := ValidateExport(export)
	result.SignatureValid = true
	result.ValidationDetails = append([]string{"COSE_Sign1 signature valid (ES256)"}, result.ValidationDetails...)
	return result, export, nil
}

// ValidateExport runs the consistency checks on an export. SignatureValid is left false.
func ValidateExport(export *auctionapi.ResultExport) *ExportValidationResult {
	result := &ExportValidationResult{}
	result.HashValid = validateResultsHash(export, result)
	result.SummaryValid = validateSummary(export, result)
	result.ContractsValid = validateContracts(export, result)
	result.ItemsUnique = validateUniqueItems(export, result)
	result.BudgetsValid = validateBudgets(export, result)
	return result
}

func validateResultsHash(export *auctionapi.ResultExport, result *ExportValidationResult) bool {
	computed := core.ComputeResultsHash(export.RunID, export.CoreResults())
	if computed == export.ResultsHash {
		result.addDetail(fmt.Sprintf("Results hash validation passed: %s", computed))
		return true
	}
	result.addDetail(fmt.Sprintf("Results hash mismatch: computed %s, export has %s", computed, export.ResultsHash))
	return false
}

func validateSummary(export *auctionapi.ResultExport, result *ExportValidationResult) bool {
	var expected auctionapi.ExportSummary
	expected.Items = len(export.Results)
	for _, row := range export.Results {
		if row.Winner == core.Unsold {
			expected.Unsold++
			continue
		}
		expected.Sold++
		expected.TotalSpend = core.AddMoney(expected.TotalSpend, row.Price)
	}

	got := export.Summary
	if got.Items == expected.Items && got.Sold == expected.Sold && got.Unsold == expected.Unsold &&
		core.AmountAtLeast(got.TotalSpend, expected.TotalSpend) && core.AmountAtMost(got.TotalSpend, expected.TotalSpend) {
		result.addDetail(fmt.Sprintf("Summary validation passed: %d items, %d sold, %.4f spent", expected.Items, expected.Sold, expected.TotalSpend))
		return true
	}
	result.addDetail(fmt.Sprintf("Summary mismatch: expected %d/%d/%d spend %.4f, export has %d/%d/%d spend %.4f",
		expected.Items, expected.Sold, expected.Unsold, expected.TotalSpend,
		got.Items, got.Sold, got.Unsold, got.TotalSpend))
	return false
}

func validateContracts(export *auctionapi.ResultExport, result *ExportValidationResult) bool {
	valid := true
	for _, row := range export.Results {
		if row.Winner == core.Unsold {
			if row.ContractYears != 0 || row.Price != 0 {
				result.addDetail(fmt.Sprintf("Unsold item %s carries price %.4f and %d years", row.ItemID, row.Price, row.ContractYears))
				valid = false
			}
			continue
		}
		want := core.ContractYears(row.Age, row.Price)
		if row.ContractYears != want {
			result.addDetail(fmt.Sprintf("Contract mismatch for %s: age %d at %.4f should be %d years, export has %d",
				row.ItemID, row.Age, row.Price, want, row.ContractYears))
			valid = false
		}
	}
	if valid {
		result.addDetail("Contract lengths validation passed")
	}
	return valid
}

func validateUniqueItems(export *auctionapi.ResultExport, result *ExportValidationResult) bool {
	seen := make(map[string]bool, len(export.Results))
	for _, row := range export.Results {
		if seen[row.ItemID] {
			result.addDetail(fmt.Sprintf("Item %s resolved more than once", row.ItemID))
			return false
		}
		seen[row.ItemID] = true
	}
	result.addDetail("Item uniqueness validation passed")
	return true
}

func validateBudgets(export *auctionapi.ResultExport, result *ExportValidationResult) bool {
	if len(export.Bidders) == 0 {
		result.addDetail("No bidder bounds in export; budget replay skipped")
		return true
	}

	bounds := make(map[string]auctionapi.ExportedBidder, len(export.Bidders))
	for _, b := range export.Bidders {
		bounds[b.ID] = b
	}

	spent := make(map[string]float64, len(bounds))
	roster := make(map[string]int, len(bounds))
	valid := true
	for _, row := range export.Results {
		if row.Winner == core.Unsold {
			continue
		}
		b, ok := bounds[row.Winner]
		if !ok {
			result.addDetail(fmt.Sprintf("Item %s won by unknown bidder %s", row.ItemID, row.Winner))
			valid = false
			continue
		}
		spent[b.ID] = core.AddMoney(spent[b.ID], row.Price)
		roster[b.ID]++
		if !core.AmountAtMost(spent[b.ID], b.Budget) {
			result.addDetail(fmt.Sprintf("Bidder %s exceeds budget after %s: spent %.4f of %.4f", b.ID, row.ItemID, spent[b.ID], b.Budget))
			valid = false
		}
		if b.RosterMax > 0 && roster[b.ID] > b.RosterMax {
			result.addDetail(fmt.Sprintf("Bidder %s exceeds roster max %d after %s", b.ID, b.RosterMax, row.ItemID))
			valid = false
		}
	}
	if valid {
		result.addDetail("Budget replay validation passed")
	}
	return valid
}
