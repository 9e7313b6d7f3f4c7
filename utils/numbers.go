// utils/numbers.go
package utils

import (
	"fmt"
	"math/rand"
	"time"
)

// GenerateCustomerNumber returns CUST- followed by six digits.
func GenerateCustomerNumber() string {
	return fmt.Sprintf("CUST-%06d", rand.Intn(1000000))
}

// GenerateOrderNumber returns RO followed by an 8-digit timestamp suffix and
// a 3-digit random component, e.g. RO68411235042.
func GenerateOrderNumber() string {
	return fmt.Sprintf("RO%08d%03d", time.Now().Unix()%100000000, rand.Intn(1000))
}

// GenerateSubscriptionNumber returns AMC followed by an 8-digit timestamp
// suffix and a 3-digit random component.
func GenerateSubscriptionNumber() string {
	return fmt.Sprintf("AMC%08d%03d", time.Now().Unix()%100000000, rand.Intn(1000))
}

// GenerateVisitNumber returns VST followed by an 8-digit timestamp suffix and
// a 3-digit random component.
func GenerateVisitNumber() string {
	return fmt.Sprintf("VST%08d%03d", time.Now().Unix()%100000000, rand.Intn(1000))
}
