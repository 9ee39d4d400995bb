package memory

import (
	"testing"

	"github.com/dmehra2102/prod-golang-projects/zentherapy/internal/kv/kvtest"
)

func TestStore(t *testing.T) {
	kvtest.Run(t, New())
}
