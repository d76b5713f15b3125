package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/hectorportal/auction/auctionapi"
	"github.com/hectorportal/auction/validation"
)

func main() {
	var (
		exportInput  = flag.String("export", "", "Signed export (file path with raw COSE bytes, or inline base64)")
		publicKeyIn  = flag.String("public-key", "", "Signer public key (PEM file path or inline PEM)")
		outputFormat = flag.String("format", "text", "Output format: text or json")
		help         = flag.Bool("help", false, "Show usage information")
	)

	flag.Parse()

	if *help {
		showUsage()
		os.Exit(0)
	}

	if *exportInput == "" || *publicKeyIn == "" {
		showUsage()
		fmt.Fprintf(os.Stderr, "\nError: Both inputs are required (--export, --public-key)\n")
		os.Exit(1)
	}

	signed, err := readSignedExport(*exportInput)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading signed export: %v\n", err)
		os.Exit(2)
	}

	publicKeyPEM, err := readInput(*publicKeyIn)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error reading public key: %v\n", err)
		os.Exit(2)
	}

	result, export, err := validation.ValidateSignedExport(&validation.ExportValidationInput{
		Signed:       signed,
		PublicKeyPEM: string(publicKeyPEM),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Validation error: %v\n", err)
		os.Exit(2)
	}

	if *outputFormat == "json" {
		outputJSON(result, export)
	} else {
		outputText(result, export)
	}

	if !result.IsValid() {
		os.Exit(1)
	}
	os.Exit(0)
}

func showUsage() {
	fmt.Println("Auction Result Validator")
	fmt.Println()
	fmt.Println("Verifies a signed auction result export and checks it for internal consistency.")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  result-validator --export <path|base64> --public-key <path|pem> [options]")
	fmt.Println()
	fmt.Println("Required Flags:")
	fmt.Println("  --export <path|base64>            Signed export written by auctionsim (results.cose)")
	fmt.Println("  --public-key <path|pem>           Signer public key (signing.pub.pem)")
	fmt.Println()
	fmt.Println("Optional Flags:")
	fmt.Println("  --format <text|json>              Output format (default: text)")
	fmt.Println("  --help                            Show this help message")
	fmt.Println()
	fmt.Println("Checks:")
	fmt.Println("  - COSE_Sign1 ES256 signature")
	fmt.Println("  - Results hash over every row")
	fmt.Println("  - Summary counters and total spend")
	fmt.Println("  - Contract years against the age x price table")
	fmt.Println("  - Each item resolved at most once")
	fmt.Println("  - Replayed spend within budget and roster within max")
	fmt.Println()
	fmt.Println("Exit Codes:")
	fmt.Println("  0 - Validation passed")
	fmt.Println("  1 - Validation failed")
	fmt.Println("  2 - Invalid input or runtime error")
}

func readInput(input string) ([]byte, error) {
	// Try reading as file first
	if data, err := os.ReadFile(input); err == nil {
		return data, nil
	}
	return []byte(input), nil
}

func readSignedExport(input string) (auctionapi.SignedExport, error) {
	if data, err := os.ReadFile(input); err == nil {
		return auctionapi.SignedExport(data), nil
	}
	return auctionapi.SignedExportBase64(strings.TrimSpace(input)).Decode()
}

func outputText(result *validation.ExportValidationResult, export *auctionapi.ResultExport) {
	fmt.Println("Auction Result Validator")
	fmt.Println("========================")
	fmt.Println()

	if export != nil {
		fmt.Printf("Run:       %s\n", export.RunID)
		fmt.Printf("Generated: %s\n", export.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Printf("Items:     %d (%d sold, %d unsold)\n", export.Summary.Items, export.Summary.Sold, export.Summary.Unsold)
		fmt.Printf("Spend:     $%.2fM\n", export.Summary.TotalSpend)
		fmt.Println()
	}

	fmt.Println("Summary:")
	fmt.Printf("  Signature Valid:         %v\n", result.SignatureValid)
	fmt.Printf("  Results Hash Valid:      %v\n", result.HashValid)
	fmt.Printf("  Summary Valid:           %v\n", result.SummaryValid)
	fmt.Printf("  Contracts Valid:         %v\n", result.ContractsValid)
	fmt.Printf("  Items Unique:            %v\n", result.ItemsUnique)
	fmt.Printf("  Budgets Valid:           %v\n", result.BudgetsValid)

	fmt.Println()
	fmt.Println("Details:")
	for _, detail := range result.ValidationDetails {
		fmt.Printf("  - %s\n", detail)
	}

	fmt.Println()
	fmt.Println("========================")
	if result.IsValid() {
		fmt.Println("VALIDATION: ✓ PASSED")
	} else {
		fmt.Println("VALIDATION: ✗ FAILED")
	}
}

func outputJSON(result *validation.ExportValidationResult, export *auctionapi.ResultExport) {
	output := map[string]any{
		"valid":           result.IsValid(),
		"signature_valid": result.SignatureValid,
		"hash_valid":      result.HashValid,
		"summary_valid":   result.SummaryValid,
		"contracts_valid": result.ContractsValid,
		"items_unique":    result.ItemsUnique,
		"budgets_valid":   result.BudgetsValid,
		"details":         result.ValidationDetails,
	}
	if export != nil {
		output["run_id"] = export.RunID
		output["summary"] = export.Summary
	}

	data, err := json.MarshalIndent(output, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling JSON: %v\n", err)
		os.Exit(2)
	}
	fmt.Println(string(data))
}
