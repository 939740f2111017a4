package types

type PackCompression string

const (
	PackCompressionDefault PackCompression = "default"
	PackCompressionDeflate PackCompression = "deflate"
	PackCompressionGzip    PackCompression = "gzip"
	PackCompressionBzip2   PackCompression = "bzip2"
	PackCompressionXZ      PackCompression = "xz"
	PackCompressionLZMA    PackCompression = "lzma"
)

// MsgPriority mirrors the priorities a packager listener understands.
type MsgPriority int

const (
	MsgDebug MsgPriority = iota
	MsgErr
	MsgInfo
	MsgVerbose
	MsgWarn
)

func (p MsgPriority) String() string {
	switch p {
	case MsgDebug:
		return "debug"
	case MsgErr:
		return "error"
	case MsgInfo:
		return "info"
	case MsgVerbose:
		return "verbose"
	case MsgWarn:
		return "warn"
	default:
		return "unknown"
	}
}

type CustomDataType int

const (
	CustomDataInstallerListener CustomDataType = iota
	CustomDataUninstallerListener
	CustomDataUninstallerJar
	CustomDataUninstallerLib
)

type ConditionType string

const (
	ConditionTypeVariable      ConditionType = "variable"
	ConditionTypePackSelection ConditionType = "packselection"
	ConditionTypeJava          ConditionType = "java"
	ConditionTypeAnd           ConditionType = "and"
	ConditionTypeOr            ConditionType = "or"
	ConditionTypeNot           ConditionType = "not"
)
