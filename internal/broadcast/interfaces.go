// Package broadcast propagates local mutations to sibling engine instances.
//
// Instances on the same machine coordinate through a shared spool directory:
// every publish drops a one-shot JSON envelope file into the spool, and every
// instance watches the directory with fsnotify. Envelopes carry the sender's
// instance id (so a sender never applies its own broadcast) and a send
// timestamp (so stale envelopes past the freshness window are discarded,
// never applied).
package broadcast

import (
	"context"

	"github.com/MKhiriev/go-ledger-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/broadcaster_mock.go -package=mock

// Broadcaster fans local snapshot changes out to sibling instances and
// delivers theirs back in.
type Broadcaster interface {
	// Publish emits an envelope carrying the given collections to all sibling
	// instances. The publisher's own subscribers are not invoked.
	Publish(ctx context.Context, collections models.Collections) error

	// Subscribe registers fn to be called for every fresh envelope received
	// from a sibling instance. The returned function removes the
	// subscription.
	Subscribe(fn func(models.Envelope)) (unsubscribe func())

	// Start begins watching the spool directory. Stop releases the watcher
	// and blocks until the event loop has exited.
	Start() error
	Stop() error
}
