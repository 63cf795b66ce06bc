package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/support-engine/internal/domain"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	r, err := NewRenderer(zap.NewNop())
	require.NoError(t, err)
	return r
}

func TestHasKnownTemplates(t *testing.T) {
	r := newTestRenderer(t)
	for _, name := range []string{
		"request_missing_info",
		"invalid_format",
		"system_error",
		"handoff_ack",
		"order_status_inquiry_success",
		"order_status_inquiry_not_found",
		"generic_success",
		"generic_not_found",
	} {
		assert.True(t, r.Has(name), "template %s", name)
	}
	assert.False(t, r.Has("no_such_template"))
}

func TestRenderOrderStatus(t *testing.T) {
	r := newTestRenderer(t)
	out := r.Render("order_status_inquiry_success", map[string]any{
		"user_name": "Jane",
		"mood":      domain.MoodNeutral,
		"data": map[string]any{
			"order_id": "1001",
			"status":   "Shipped",
		},
	})
	assert.Contains(t, out, "Current status: Shipped")
	assert.NotEqual(t, FailSafe, out)
}

func TestRenderMissingInfoJoinsFields(t *testing.T) {
	r := newTestRenderer(t)
	out := r.Render("request_missing_info", map[string]any{
		"user_name":      "Jane",
		"missing_fields": []string{"your order ID", "your account email address"},
	})
	assert.Contains(t, out, "your order ID, your account email address")
}

func TestRenderUnknownTemplateFailsSafe(t *testing.T) {
	r := newTestRenderer(t)
	assert.Equal(t, FailSafe, r.Render("no_such_template", nil))
}

func TestRenderStockBranchesOnQuantity(t *testing.T) {
	r := newTestRenderer(t)
	inStock := r.Render("inventory_stock_availability_success", map[string]any{
		"data": map[string]any{"product_name": "AeroBook Pro", "stock": 12},
	})
	outOfStock := r.Render("inventory_stock_availability_success", map[string]any{
		"data": map[string]any{"product_name": "PixelBuds Max", "stock": 0},
	})
	assert.NotEqual(t, FailSafe, inStock)
	assert.NotEqual(t, FailSafe, outOfStock)
	assert.NotEqual(t, inStock, outOfStock)
}
