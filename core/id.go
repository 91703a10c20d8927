package core

import (
	"strings"

	"github.com/oklog/ulid/v2"

	"pkt.systems/ctxdesk/schema"
)

func newID() string {
	return strings.ToLower(ulid.Make().String())
}

func newTabID() schema.TabID {
	return schema.TabID("t-" + newID())
}

func newPaneID() schema.PaneID {
	return schema.PaneID("p-" + newID())
}
