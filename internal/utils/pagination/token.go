package pagination

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const timeFormat = time.RFC3339Nano // Use a precise time format

// EncodeToken creates a base64 encoded keyset token from the billing date and
// bill id of the last row of a page.
func EncodeToken(billingDate time.Time, billID int64) string {
	tokenStr := fmt.Sprintf("%s|%d", billingDate.Format(timeFormat), billID)
	return base64.URLEncoding.EncodeToString([]byte(tokenStr))
}

// DecodeToken parses the token back into billing date and bill id.
func DecodeToken(token string) (time.Time, int64, error) {
	decodedBytes, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (base64 decode): %w", err)
	}
	parts := strings.SplitN(string(decodedBytes), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (split)")
	}

	billingDate, err := time.Parse(timeFormat, parts[0])
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (billing date parse): %w", err)
	}

	billID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid pagination token format (bill id parse): %w", err)
	}

	return billingDate, billID, nil
}
