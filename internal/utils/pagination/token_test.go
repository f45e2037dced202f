package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeToken(t *testing.T) {
	// Test case 1: Standard values
	billingDate := time.Date(2023, 5, 15, 0, 0, 0, 0, time.UTC)

	token := EncodeToken(billingDate, 42)
	assert.NotEmpty(t, token, "Token should not be empty")

	decodedDate, decodedID, err := DecodeToken(token)
	assert.NoError(t, err, "Decoding should not return an error")
	assert.Equal(t, billingDate, decodedDate, "Billing date should match after decode")
	assert.Equal(t, int64(42), decodedID, "Bill id should match after decode")

	// Test case 2: Zero values
	zeroToken := EncodeToken(time.Time{}, 0)
	decodedZeroDate, decodedZeroID, err := DecodeToken(zeroToken)
	assert.NoError(t, err, "Decoding zero values should not return an error")
	assert.Equal(t, time.Time{}, decodedZeroDate)
	assert.Equal(t, int64(0), decodedZeroID)

	// Test case 3: Current time
	now := time.Now().UTC()
	decodedNow, _, err := DecodeToken(EncodeToken(now, 7))
	assert.NoError(t, err)
	assert.True(t, now.Equal(decodedNow), "Current time should match after decode")
}

func TestDecodeTokenError(t *testing.T) {
	encode := func(s string) string { return base64.URLEncoding.EncodeToString([]byte(s)) }

	_, _, err := DecodeToken("this is not base64!")
	assert.Error(t, err, "Should return an error for invalid base64")
	assert.Contains(t, err.Error(), "base64 decode")

	_, _, err = DecodeToken(encode("2023-05-15T00:00:00Z"))
	assert.Error(t, err, "Should return an error for a token without separator")
	assert.Contains(t, err.Error(), "split")

	_, _, err = DecodeToken(encode("notadate|12"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "billing date parse")

	_, _, err = DecodeToken(encode("2023-05-15T00:00:00Z|abc"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "bill id parse")
}
