// Package dispatch executes the action configured for an intent once its
// required slots are filled: reference-catalog lookups with format
// validation, producing an outcome state for the orchestrator.
package dispatch

import (
	"strings"

	"github.com/spec-kit/support-engine/internal/domain"
)

// State is the outcome of a dispatch attempt.
type State string

const (
	StateSuccess       State = "success"
	StateNotFound      State = "not_found"
	StateMissingInfo   State = "missing_info"
	StateInvalidFormat State = "invalid_format"
	StateError         State = "error"
)

// Result carries the dispatch outcome and any data fetched for the
// response templates. Missing names the unfilled or rejected fields.
type Result struct {
	State   State
	Data    map[string]any
	Missing []string
}

// Dispatcher resolves intents against the static reference catalogs.
type Dispatcher struct {
	rules map[string]domain.IntentRule
	refs  *domain.ReferenceData
}

// NewDispatcher builds a dispatcher over the injected configuration.
func NewDispatcher(rules map[string]domain.IntentRule, refs *domain.ReferenceData) *Dispatcher {
	return &Dispatcher{rules: rules, refs: refs}
}

// Dispatch looks up the intent's rule, verifies the required slots, and
// executes the configured action. Unknown intents and unknown action
// types yield StateError; all lookups are in-memory linear scans.
func (d *Dispatcher) Dispatch(intent string, entities map[string]string) Result {
	rule, ok := d.rules[intent]
	if !ok {
		return Result{State: StateError, Data: map[string]any{}, Missing: []string{}}
	}

	missing := []string{}
	for _, required := range rule.RequiredEntities {
		if entities[required] == "" {
			missing = append(missing, required)
		}
	}
	if len(missing) > 0 {
		return Result{State: StateMissingInfo, Data: map[string]any{}, Missing: missing}
	}

	switch rule.ActionType {
	case domain.ActionLookupOrder:
		return d.lookupOrder(entities[domain.SlotOrderID])
	case domain.ActionCheckStock, domain.ActionGetProductInfo:
		return d.lookupProduct(entities[domain.SlotProductName])
	case domain.ActionTriggerReset:
		return d.triggerReset(entities[domain.SlotEmail])
	case domain.ActionGeneralReply:
		return Result{State: StateSuccess, Data: map[string]any{}}
	default:
		return Result{State: StateError, Data: map[string]any{}}
	}
}

// validOrderID accepts "#…", "ORD-…" (any case), all-digit values, and
// hash-like values of four or more characters containing a digit.
func validOrderID(orderID string) bool {
	if orderID == "" {
		return false
	}
	if strings.HasPrefix(orderID, "#") || strings.HasPrefix(strings.ToUpper(orderID), "ORD-") {
		return true
	}
	allDigits := true
	hasDigit := false
	for _, r := range orderID {
		if r >= '0' && r <= '9' {
			hasDigit = true
		} else {
			allDigits = false
		}
	}
	if allDigits {
		return true
	}
	return len(orderID) >= 4 && hasDigit
}

func (d *Dispatcher) lookupOrder(orderID string) Result {
	if !validOrderID(orderID) {
		return Result{State: StateInvalidFormat, Data: map[string]any{}, Missing: []string{"Order ID"}}
	}
	order, ok := d.refs.FindOrder(orderID)
	if !ok {
		return Result{State: StateNotFound, Data: map[string]any{"order_id": orderID}}
	}
	return Result{State: StateSuccess, Data: map[string]any{
		"order_id":           order.OrderID,
		"status":             order.Status,
		"carrier":            order.Carrier,
		"estimated_delivery": order.EstimatedDelivery,
	}}
}

func (d *Dispatcher) lookupProduct(name string) Result {
	product, ok := d.refs.FindProduct(name)
	if !ok {
		return Result{State: StateNotFound, Data: map[string]any{"product_name": name}}
	}
	return Result{State: StateSuccess, Data: map[string]any{
		"product_name": product.ProductName,
		"stock":        product.Stock,
		"price":        product.Price,
		"description":  product.Description,
	}}
}

func (d *Dispatcher) triggerReset(email string) Result {
	if _, ok := d.refs.FindUser(email); !ok {
		return Result{State: StateNotFound, Data: map[string]any{"email": email}}
	}
	return Result{State: StateSuccess, Data: map[string]any{"email": email}}
}
