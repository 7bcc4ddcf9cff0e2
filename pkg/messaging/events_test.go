package messaging_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/craftline/craftline-backend/pkg/messaging"
)

func TestNewEvent_CarriesCorrelationAndPayload(t *testing.T) {
	data := messaging.FlagToggledEvent{FlagID: 7, Key: "beta-exports", Enabled: 1}

	event, err := messaging.NewEvent(messaging.EventFlagToggled, "admin-api", "req-123", data)
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, messaging.EventFlagToggled, event.Type)
	assert.Equal(t, "admin-api", event.Source)
	assert.Equal(t, "req-123", event.CorrelationID)
	assert.False(t, event.Timestamp.IsZero())

	var decoded messaging.FlagToggledEvent
	require.NoError(t, json.Unmarshal(event.Data, &decoded))
	assert.Equal(t, 7, decoded.FlagID)
	assert.Equal(t, "beta-exports", decoded.Key)
	assert.Equal(t, 1, decoded.Enabled)
}

func TestNewEvent_UniqueIDs(t *testing.T) {
	e1, err := messaging.NewEvent(messaging.EventBatchCreated, "admin-api", "", nil)
	require.NoError(t, err)
	e2, err := messaging.NewEvent(messaging.EventBatchCreated, "admin-api", "", nil)
	require.NoError(t, err)

	assert.NotEqual(t, e1.ID, e2.ID)
}
