// Package noteid assigns stable note identifiers.
package noteid

import (
	"strconv"

	"github.com/google/uuid"
)

var namespace = uuid.MustParse("6f1c3b8e-2d4a-4c1e-9b7f-5a0d3e8c2f61")

// For returns a name-based UUID for the n-th note parsed from origin.
// The same input always yields the same ID, so repeated runs agree.
func For(origin string, n int) string {
	return uuid.NewSHA1(namespace, []byte(origin+"#"+strconv.Itoa(n))).String()
}
