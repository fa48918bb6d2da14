package kernel_test

import (
	"slices"
	"testing"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const flourID = "550e8400-e29b-41d4-a716-446655440000"

func TestUUIDFromString_AcceptedForms(t *testing.T) {
	tests := map[string]string{
		"canonical":  flourID,
		"braces":     "{" + flourID + "}",
		"urn prefix": "urn:uuid:" + flourID,
		"no hyphens": "550e8400e29b41d4a716446655440000",
		"upper case": "550E8400-E29B-41D4-A716-446655440000",
	}

	for name, input := range tests {
		t.Run(name, func(t *testing.T) {
			id, err := kernel.UUIDFromString(input)

			require.NoError(t, err)
			assert.Equal(t, flourID, id.String())
			assert.NoError(t, id.Validate())
		})
	}
}

func TestUUIDFromString_RejectsMalformedInput(t *testing.T) {
	for _, input := range []string{
		"",
		"flour",
		"550e8400-e29b-41d4-a716",
		flourID + "-extra",
		"550e8400-e29b-41d4-a716-44665544000g",
	} {
		_, err := kernel.UUIDFromString(input)

		require.Error(t, err, "input %q", input)
		assert.Contains(t, err.Error(), "invalid UUID format")
	}
}

func TestUUIDFromString_NilParsesButDoesNotValidate(t *testing.T) {
	id, err := kernel.UUIDFromString(uuid.Nil.String())

	require.NoError(t, err)
	assert.ErrorIs(t, id.Validate(), kernel.ErrUUIDIsNotConstructed)
}

func TestUUID_RoundTripsThroughBytes(t *testing.T) {
	orderID := kernel.NewUUID()
	stored := orderID.Bytes()

	restored, err := kernel.UUIDFromBytes(stored[:])

	require.NoError(t, err)
	assert.True(t, orderID.IsEqual(restored))
	assert.Equal(t, orderID.String(), stored.String())
}

func TestUUIDFromBytes_Errors(t *testing.T) {
	t.Run("short slice", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes([]byte{0x55, 0x0e, 0x84})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid UUID format")
	})

	t.Run("nil uuid", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes(make([]byte, 16))

		assert.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})
}

func TestUUID_ZeroValue(t *testing.T) {
	var zero kernel.UUID

	assert.ErrorIs(t, zero.Validate(), kernel.ErrUUIDIsNotConstructed)
	assert.True(t, zero.IsEqual(kernel.UUID{}))
	assert.False(t, zero.IsEqual(kernel.NewUUID()))
}

func TestNewUUID_IsRandom(t *testing.T) {
	seen := make(map[string]struct{}, 100)
	for range 100 {
		id := kernel.NewUUID()
		require.NoError(t, id.Validate())
		seen[id.String()] = struct{}{}
	}

	assert.Len(t, seen, 100)
}

// Repositories lock rows in Compare order, so sorting must be total and
// stable across calls.
func TestUUID_CompareGivesLockOrder(t *testing.T) {
	first, err := kernel.UUIDFromString("00000000-0000-0000-0000-000000000001")
	require.NoError(t, err)
	second, err := kernel.UUIDFromString("7fffffff-0000-0000-0000-000000000000")
	require.NoError(t, err)
	third, err := kernel.UUIDFromString("ffffffff-0000-0000-0000-000000000000")
	require.NoError(t, err)

	ids := []kernel.UUID{third, first, second}
	slices.SortFunc(ids, kernel.UUID.Compare)

	assert.Equal(t, []kernel.UUID{first, second, third}, ids)
	assert.Zero(t, second.Compare(second))
}

func TestUUID_BytesReturnsCopy(t *testing.T) {
	id, err := kernel.UUIDFromString(flourID)
	require.NoError(t, err)

	raw := id.Bytes()
	for i := range raw {
		raw[i] = 0
	}

	assert.Equal(t, flourID, id.String())
}
