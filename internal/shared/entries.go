package shared

// Installer archive layout.
const (
	ResourcesPath = "resources/"
	PacksInfoPath = ResourcesPath + "packs.info"

	PackStreamPrefix = "packs/pack-"
)

// Metadata record names. Each record lives at ResourcesPath+name and is
// encoded with the name as its record kind.
const (
	RecordInfo                  = "info"
	RecordVariables             = "vars"
	RecordConsolePrefs          = "ConsolePrefs"
	RecordGUIPrefs              = "GUIPrefs"
	RecordPanelsOrder           = "panelsOrder"
	RecordCustomData            = "customData"
	RecordLangPacks             = "langpacks.info"
	RecordRules                 = "rules"
	RecordDynamicVariables      = "dynvariables"
	RecordDynamicConditions     = "dynconditions"
	RecordInstallerRequirements = "installerrequirements"
	RecordPacksInfo             = "packs.info"
)

// MetadataRecords lists the metadata records in the order they are written.
var MetadataRecords = []string{
	RecordInfo,
	RecordVariables,
	RecordConsolePrefs,
	RecordGUIPrefs,
	RecordPanelsOrder,
	RecordCustomData,
	RecordLangPacks,
	RecordRules,
	RecordDynamicVariables,
	RecordDynamicConditions,
	RecordInstallerRequirements,
}

// PackStreamName is the stream resource name of a pack's content. In the
// installer it is stored under ResourcesPath; in a separate pack archive it
// is stored as is.
func PackStreamName(packName string) string {
	return PackStreamPrefix + packName
}
