// Package snowflake issues the temporary ids given to local placeholders
// before the server assigns a real one.
package snowflake

import (
	"strconv"
	"strings"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// NoncePrefix marks ids that were generated locally.
const NoncePrefix = "nonce_"

var (
	mu   sync.Mutex
	node *snowflake.Node
)

// Init initializes the snowflake node with the given node ID.
// Node ID should be unique across all instances (0-1023).
func Init(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return err
	}
	mu.Lock()
	node = n
	mu.Unlock()
	return nil
}

// NextID generates a new unique snowflake ID. Node 0 is used if Init was never called.
func NextID() int64 {
	mu.Lock()
	if node == nil {
		node, _ = snowflake.NewNode(0)
	}
	n := node
	mu.Unlock()
	return n.Generate().Int64()
}

// NextNonce returns a placeholder id such as "nonce_1790000000000000000".
func NextNonce() string {
	return NoncePrefix + strconv.FormatInt(NextID(), 10)
}

// IsNonce reports whether id was produced by NextNonce.
func IsNonce(id string) bool {
	return strings.HasPrefix(id, NoncePrefix)
}
