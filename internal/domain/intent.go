package domain

// ActionType is the closed set of actions an intent can dispatch to.
type ActionType string

const (
	ActionLookupOrder    ActionType = "lookup_order"
	ActionCheckStock     ActionType = "check_stock"
	ActionGetProductInfo ActionType = "get_product_info"
	ActionTriggerReset   ActionType = "trigger_reset"
	ActionGeneralReply   ActionType = "general_reply"
)

// Well-known intent labels the orchestrator branches on. Everything else
// is driven purely by the intent rule table.
const (
	IntentUnknown      = "unknown"
	IntentGeneralFAQ   = "general_faq_question"
	IntentHumanHandoff = "human_handoff"
)

// IntentRule configures slot requirements and the dispatch action for one
// intent label.
type IntentRule struct {
	RequiredEntities []string   `json:"required_entities"`
	ActionType       ActionType `json:"action_type"`
}

// Entity slot names understood by the extractor.
const (
	SlotOrderID     = "order_id"
	SlotEmail       = "email"
	SlotProductName = "product_name"
	SlotQuery       = "query"
)

// FAQEntry is one knowledge-base article with its phrasing variants.
type FAQEntry struct {
	ID        string   `json:"id"`
	Questions []string `json:"questions"`
	Answer    string   `json:"answer"`
}

// KnowledgeBase holds the FAQ corpus the semantic matcher searches.
type KnowledgeBase struct {
	Entries []FAQEntry `json:"faq_entries"`
}
