package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTicketSeverityFrozenFromMood(t *testing.T) {
	cases := []struct {
		mood Mood
		want Severity
	}{
		{MoodAngry, SeverityHigh},
		{MoodUrgent, SeverityHigh},
		{MoodConfused, SeverityMedium},
		{MoodHappy, SeverityLow},
		{MoodNeutral, SeverityLow},
	}
	for _, tc := range cases {
		ticket := NewTicket("jane@example.com", "order_status_inquiry", tc.mood, nil, nil)
		assert.Equal(t, tc.want, ticket.Severity, "mood %s", tc.mood)
		assert.Equal(t, TicketStatusOpen, ticket.Status)
		assert.NotEmpty(t, ticket.ID)
	}
}

func TestNewTicketExcludesSeededSlotsFromMissing(t *testing.T) {
	ticket := NewTicket("jane@example.com", "order_status_inquiry", MoodNeutral,
		map[string]string{"order_id": "1001"},
		[]string{"order_id", "email"})

	assert.Equal(t, []string{"email"}, ticket.MissingFields)
	assertDisjoint(t, ticket)
}

func TestMergeEntitiesClearsMissingFields(t *testing.T) {
	ticket := NewTicket("jane@example.com", "order_status_inquiry", MoodNeutral, nil, []string{"order_id", "email"})
	require.False(t, ticket.Complete())

	ticket.MergeEntities(map[string]string{"order_id": "1001"})
	assert.Equal(t, "1001", ticket.Entities["order_id"])
	assert.Equal(t, []string{"email"}, ticket.MissingFields)
	assertDisjoint(t, ticket)

	ticket.MergeEntities(map[string]string{"email": "jane@example.com"})
	assert.True(t, ticket.Complete())
	assert.Empty(t, ticket.MissingFields)
}

func TestMergeEntitiesIgnoresEmptyValues(t *testing.T) {
	ticket := NewTicket("jane@example.com", "order_status_inquiry", MoodNeutral, nil, []string{"order_id"})

	ticket.MergeEntities(map[string]string{"order_id": ""})
	assert.Equal(t, []string{"order_id"}, ticket.MissingFields)
	_, present := ticket.Entities["order_id"]
	assert.False(t, present)
}

func TestTicketJSONRoundTrip(t *testing.T) {
	ticket := NewTicket("jane@example.com", "account_password_reset", MoodAngry, nil, []string{"email"})
	ticket.AddMessage(SenderUser, "reset my password now")
	ticket.AddMessage(SenderBot, "Could you share your account email address?")
	ticket.Status = TicketStatusPendingCustomer

	raw, err := json.Marshal(ticket)
	require.NoError(t, err)

	var decoded Ticket
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, ticket.ID, decoded.ID)
	assert.Equal(t, ticket.Severity, decoded.Severity)
	assert.Equal(t, ticket.Status, decoded.Status)
	assert.Len(t, decoded.History, 2)
	assert.Equal(t, SenderBot, decoded.History[1].Sender)
}

func assertDisjoint(t *testing.T, ticket *Ticket) {
	t.Helper()
	for _, field := range ticket.MissingFields {
		_, present := ticket.Entities[field]
		assert.False(t, present, "field %q both missing and extracted", field)
	}
}
