package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/spec-kit/support-engine/internal/domain"
)

func testRefs() *domain.ReferenceData {
	return &domain.ReferenceData{
		Products: []domain.Product{
			{ProductName: "AeroBook Pro", Aliases: []string{"aerobook", "the laptop"}, Stock: 12},
			{ProductName: "PixelBuds Max", Aliases: []string{"earbuds"}, Stock: 0},
		},
	}
}

func TestOrderIDLabeled(t *testing.T) {
	cases := map[string]string{
		"Where is my order #1001?":   "1001",
		"order: 55523 has not moved": "55523",
		"ref ORD-7788 please":        "ORD-7788",
		"my id: AB-1234":             "AB-1234",
	}
	for text, want := range cases {
		assert.Equal(t, want, OrderID(text), "text %q", text)
	}
}

func TestOrderIDTokenScan(t *testing.T) {
	assert.Equal(t, "12345", OrderID("It is 12345."))
	assert.Equal(t, "A1B2C3", OrderID("package A1B2C3 is late"))
}

func TestOrderIDRejectsPlainWords(t *testing.T) {
	// No digit means no match, no matter the length.
	assert.Empty(t, OrderID("It is ABC"))
	assert.Empty(t, OrderID("Where is my package?"))
	assert.Empty(t, OrderID("ab1"))
}

func TestOrderIDIdempotent(t *testing.T) {
	text := "checking on order #1001 again"
	first := OrderID(text)
	assert.Equal(t, first, OrderID(text))
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "jane.doe@example.com", Email("my address is jane.doe@example.com thanks"))
	assert.Empty(t, Email("no address here"))
}

func TestProductAliasNormalizes(t *testing.T) {
	refs := testRefs()
	assert.Equal(t, "AeroBook Pro", Product("is the aerobook in stock?", refs))
	assert.Equal(t, "AeroBook Pro", Product("tell me about the AeroBook Pro", refs))
	assert.Equal(t, "PixelBuds Max", Product("do you still sell earbuds", refs))
	assert.Empty(t, Product("do you sell couches", refs))
}

func TestExtractOnlyRequestedSlots(t *testing.T) {
	refs := testRefs()
	text := "order #1001, email jane@example.com, about the aerobook"

	found := Extract(text, []string{domain.SlotEmail}, refs)
	assert.Equal(t, map[string]string{"email": "jane@example.com"}, found)

	found = Extract(text, []string{domain.SlotOrderID, domain.SlotProductName}, refs)
	assert.Equal(t, "1001", found[domain.SlotOrderID])
	assert.Equal(t, "AeroBook Pro", found[domain.SlotProductName])
}

func TestExtractOmitsAbsentSlots(t *testing.T) {
	found := Extract("nothing useful here", []string{domain.SlotOrderID, domain.SlotEmail}, testRefs())
	assert.Empty(t, found)
}
