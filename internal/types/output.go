package types

// BuildResult describes what a successful CreateInstaller produced.
type BuildResult struct {
	Output       string
	PackArchives []string
	Entries      []string
	Index        PackIndex
}

// InstallerContents is an installer archive read back from disk.
type InstallerContents struct {
	Path                         string
	Entries                      []string
	Info                         Info
	Variables                    map[string]string
	ConsolePrefs                 ConsolePrefs
	GUIPrefs                     GUIPrefs
	Panels                       []Panel
	CustomData                   []CustomData
	LangPacks                    []string
	Rules                        map[string]Condition
	DynamicVariables             []DynamicVariable
	DynamicInstallerRequirements []DynamicInstallerRequirementValidator
	InstallerRequirements        []InstallerRequirement
	Packs                        []*PackInfo
}
