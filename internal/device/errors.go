package device

import "github.com/goxlr-daemon/goxlrd/internal/xerrors"

// transportFatal reports whether err represents an unrecoverable
// transport failure, the only class of error that ends the actor's Run
// loop (§4.8's "on any error during the main loop, the actor exits").
func transportFatal(err error) bool {
	return xerrors.IsFatal(err)
}
