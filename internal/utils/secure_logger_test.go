package utils

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedact(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			"cnic fully masked",
			"customer cnic 12345-1234567-1 on file",
			"customer cnic XXXXX-XXXXXXX-X on file",
		},
		{
			"local phone keeps first three and last two",
			"call 03001234567 to confirm",
			"call 030*****67 to confirm",
		},
		{
			"canonical phone keeps first three and last two",
			"stored as +923001234567",
			"stored as +923*****67",
		},
		{
			"account number keeps first two and last two",
			"account 123456789012 debited",
			"account 12****12 debited",
		},
		{
			"email keeps first two of local part and the domain",
			"notify john.doe@example.com",
			"notify jo***@example.com",
		},
		{
			"mixed line",
			"txn for 12345-1234567-1 / 03001234567 / john.doe@example.com",
			"txn for XXXXX-XXXXXXX-X / 030*****67 / jo***@example.com",
		},
		{
			"clean text untouched",
			"transaction created",
			"transaction created",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Redact(tc.input))
		})
	}
}

// Phone shapes must be rewritten by the phone rules, not swallowed by the
// broader account-number rule, which keeps fewer leading digits.
func TestRedact_PhoneRuleWinsOverAccountRule(t *testing.T) {
	assert.Equal(t, "030*****67", Redact("03001234567"))
	assert.NotEqual(t, "03****67", Redact("03001234567"))
}

func TestRedactingHandler_ScrubsMessageAndAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewRedactingHandler(slog.NewJSONHandler(&buf, nil)))

	logger.Info("lookup for 03001234567",
		slog.String("email", "john.doe@example.com"),
		slog.Group("customer",
			slog.String("cnic", "12345-1234567-1"),
		),
		slog.Int("attempt", 1),
	)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))

	assert.Equal(t, "lookup for 030*****67", entry["msg"])
	assert.Equal(t, "jo***@example.com", entry["email"])
	customer, ok := entry["customer"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "XXXXX-XXXXXXX-X", customer["cnic"])
	assert.EqualValues(t, 1, entry["attempt"])

	assert.NotContains(t, buf.String(), "03001234567")
	assert.NotContains(t, buf.String(), "12345-1234567-1")
	assert.NotContains(t, buf.String(), "john.doe")
}

func TestRedactingHandler_WithAttrsIsScrubbed(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewRedactingHandler(slog.NewJSONHandler(&buf, nil)))

	logger.With(slog.String("mobile", "+923001234567")).Info("created")

	assert.Contains(t, buf.String(), "+923*****67")
	assert.NotContains(t, buf.String(), "+923001234567")
}
