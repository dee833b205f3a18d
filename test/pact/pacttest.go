//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "product-order-api"
	ConsumerName = "order-portal"

	StateCatalogSeeded  = "the demo catalog is seeded"
	StateOpenOrder      = "pact-user has an open order of product 1"
	StateOrderMissing   = "no order with id 999"
	StateCarrierRejects = "pact-user has an open order and the carrier rejects the destination"
)

const (
	ExistingProductID int64 = 1
	ExistingOrderID   int64 = 1
	MissingOrderID    int64 = 999

	PactUser       = "pact-user"
	PactUserZip    = "01310100"
	QuotedFreight  = "23.40"
	QuotedLeadDays = "6"

	RejectionCode    = "-3"
	RejectionMessage = "CEP de destino invalido."
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the order portal consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProductPayload mirrors the first demo catalog entry.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"id":       ExistingProductID,
		"name":     "produto 1",
		"model":    "MOD1",
		"code":     "COD1",
		"price":    "10",
		"weight":   "1",
		"height":   "10",
		"width":    "10",
		"length":   "10",
		"diameter": "10",
		"url":      "www.site1.com.br",
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
