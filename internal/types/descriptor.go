package types

// Descriptor is the YAML installation descriptor consumed by the compile
// command. It carries the same information the packager is fed through its
// Add*/Set* operations.
type Descriptor struct {
	Info                         DescriptorInfo                         `yaml:"info"`
	Variables                    map[string]string                      `yaml:"variables,omitempty"`
	GUIPrefs                     GUIPrefsSpec                           `yaml:"gui_prefs,omitempty"`
	ConsolePrefs                 ConsolePrefsSpec                       `yaml:"console_prefs,omitempty"`
	Locales                      []LangPackSpec                         `yaml:"locales,omitempty"`
	Resources                    []ResourceSpec                         `yaml:"resources,omitempty"`
	NativeLibraries              []ResourceSpec                         `yaml:"native_libraries,omitempty"`
	Jars                         []string                               `yaml:"jars,omitempty"`
	Listeners                    []ListenerSpec                         `yaml:"listeners,omitempty"`
	Panels                       []PanelSpec                            `yaml:"panels"`
	Conditions                   []ConditionSpec                        `yaml:"conditions,omitempty"`
	DynamicVariables             []DynamicVariableSpec                  `yaml:"dynamic_variables,omitempty"`
	InstallerRequirements        []InstallerRequirement                 `yaml:"installer_requirements,omitempty"`
	DynamicInstallerRequirements []DynamicInstallerRequirementValidator `yaml:"dynamic_installer_requirements,omitempty"`
	Packs                        []PackSpec                             `yaml:"packs"`
}

type DescriptorInfo struct {
	AppName                    string   `yaml:"app_name"`
	AppVersion                 string   `yaml:"app_version"`
	AppURL                     string   `yaml:"url,omitempty"`
	AppSubpath                 string   `yaml:"app_subpath,omitempty"`
	Authors                    []Author `yaml:"authors,omitempty"`
	JavaVersion                string   `yaml:"java_version,omitempty"`
	JDKRequired                bool     `yaml:"jdk_required,omitempty"`
	WebDirURL                  string   `yaml:"web_dir_url,omitempty"`
	UninstallerName            string   `yaml:"uninstaller_name,omitempty"`
	UninstallerPath            string   `yaml:"uninstaller_path,omitempty"`
	Compression                string   `yaml:"compression,omitempty"`
	RequirePrivilegedExecution bool     `yaml:"require_privileged_execution,omitempty"`
	SummaryLogFilePath         string   `yaml:"summary_log_file_path,omitempty"`
}

type GUIPrefsSpec struct {
	Resizable          bool              `yaml:"resizable,omitempty"`
	Width              int               `yaml:"width,omitempty"`
	Height             int               `yaml:"height,omitempty"`
	LookAndFeelMapping map[string]string `yaml:"laf,omitempty"`
	Modifier           map[string]string `yaml:"modifiers,omitempty"`
}

type ConsolePrefsSpec struct {
	EnableConsoleReader bool `yaml:"enable_console_reader,omitempty"`
}

type LangPackSpec struct {
	ISO3 string `yaml:"iso3"`
	XML  string `yaml:"xml"`
	Flag string `yaml:"flag"`
}

// ResourceSpec names a resource and where to read it from. Src may be a path
// relative to the base directory, a file:// URL or an http(s) URL.
type ResourceSpec struct {
	ID  string `yaml:"id"`
	Src string `yaml:"src"`
}

type ListenerSpec struct {
	Name          string         `yaml:"name"`
	Jar           string         `yaml:"jar,omitempty"`
	Uninstaller   bool           `yaml:"uninstaller,omitempty"`
	OsConstraints []OsConstraint `yaml:"os,omitempty"`
}

type PanelSpec struct {
	ClassName     string            `yaml:"class_name"`
	ID            string            `yaml:"id,omitempty"`
	Condition     string            `yaml:"condition,omitempty"`
	Validators    []string          `yaml:"validators,omitempty"`
	Configuration map[string]string `yaml:"configuration,omitempty"`
	OsConstraints []OsConstraint    `yaml:"os,omitempty"`
}

type ConditionSpec struct {
	ID       string   `yaml:"id"`
	Type     string   `yaml:"type"`
	Variable string   `yaml:"variable,omitempty"`
	Value    string   `yaml:"value,omitempty"`
	Operands []string `yaml:"operands,omitempty"`
}

type DynamicVariableSpec struct {
	Name          string `yaml:"name"`
	Value         string `yaml:"value"`
	Condition     string `yaml:"condition,omitempty"`
	CheckOnce     bool   `yaml:"check_once,omitempty"`
	IgnoreFailure bool   `yaml:"ignore_failure,omitempty"`
	Unset         bool   `yaml:"unset,omitempty"`
}

type PackSpec struct {
	Name          string         `yaml:"name"`
	Description   string         `yaml:"description,omitempty"`
	LangPackID    string         `yaml:"id,omitempty"`
	Size          int64          `yaml:"size,omitempty"`
	Loose         bool           `yaml:"loose,omitempty"`
	Preselected   bool           `yaml:"preselected,omitempty"`
	Required      bool           `yaml:"required,omitempty"`
	Hidden        bool           `yaml:"hidden,omitempty"`
	Condition     string         `yaml:"condition,omitempty"`
	Dependencies  []string       `yaml:"depends,omitempty"`
	OsConstraints []OsConstraint `yaml:"os,omitempty"`
	Files         []FileSource   `yaml:"files"`
}

// FileSource selects files below Src. Includes and Excludes are doublestar
// patterns matched against paths relative to Src.
type FileSource struct {
	Src       string   `yaml:"src"`
	TargetDir string   `yaml:"target_dir"`
	Includes  []string `yaml:"includes,omitempty"`
	Excludes  []string `yaml:"excludes,omitempty"`
	Condition string   `yaml:"condition,omitempty"`
}
