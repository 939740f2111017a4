package ports

import "izpack/internal/types"

// PackagerListener receives progress from a running packager.
type PackagerListener interface {
	PackagerStart()
	PackagerMsg(msg string, priority types.MsgPriority)
	PackagerStop()
}
