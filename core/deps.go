package core

import "pkt.systems/pslog"

// SessionDeps captures optional dependencies for an editor session.
type SessionDeps struct {
	Files    FileIO
	Sink     EventSink
	Observer ChangeObserver
	Logger   pslog.Logger
}
