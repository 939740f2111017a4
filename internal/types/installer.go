package types

type Author struct {
	Name  string `json:"name" yaml:"name"`
	Email string `json:"email,omitempty" yaml:"email,omitempty"`
}

// Info is the basic installer information written to resources/info.
type Info struct {
	AppName                    string          `json:"appName"`
	AppVersion                 string          `json:"appVersion"`
	AppURL                     string          `json:"appURL,omitempty"`
	AppSubpath                 string          `json:"appSubpath,omitempty"`
	Authors                    []Author        `json:"authors,omitempty"`
	JavaVersion                string          `json:"javaVersion,omitempty"`
	JDKRequired                bool            `json:"jdkRequired,omitempty"`
	WebDirURL                  string          `json:"webDirURL,omitempty"`
	InstallerBase              string          `json:"installerBase,omitempty"`
	UninstallerName            string          `json:"uninstallerName,omitempty"`
	UninstallerPath            string          `json:"uninstallerPath,omitempty"`
	CompressionFormat          PackCompression `json:"compressionFormat"`
	RequirePrivilegedExecution bool            `json:"requirePrivilegedExecution,omitempty"`
	SummaryLogFilePath         string          `json:"summaryLogFilePath,omitempty"`
}

// PackSeparateArchives reports whether packs are written to one archive each,
// which is the case for web installers.
func (i *Info) PackSeparateArchives() bool {
	return i != nil && i.WebDirURL != ""
}

type GUIPrefs struct {
	Resizable          bool              `json:"resizable"`
	Width              int               `json:"width"`
	Height             int               `json:"height"`
	LookAndFeelMapping map[string]string `json:"lookAndFeelMapping,omitempty"`
	Modifier           map[string]string `json:"modifier,omitempty"`
}

type ConsolePrefs struct {
	EnableConsoleReader bool `json:"enableConsoleReader"`
}

type Panel struct {
	ClassName     string            `json:"className"`
	PanelID       string            `json:"panelId,omitempty"`
	Condition     string            `json:"condition,omitempty"`
	Validators    []string          `json:"validators,omitempty"`
	Configuration map[string]string `json:"configuration,omitempty"`
	OsConstraints []OsConstraint    `json:"osConstraints,omitempty"`
}

// CustomData describes an installer/uninstaller listener or native uninstaller library.
type CustomData struct {
	ListenerName  string         `json:"listenerName,omitempty"`
	Contents      []string       `json:"contents,omitempty"`
	Type          CustomDataType `json:"type"`
	OsConstraints []OsConstraint `json:"osConstraints,omitempty"`
}

// Condition is a static rule. Composite conditions reference other
// conditions by id through Operands.
type Condition struct {
	ID       string        `json:"id"`
	Type     ConditionType `json:"type"`
	Variable string        `json:"variable,omitempty"`
	Value    string        `json:"value,omitempty"`
	Operands []string      `json:"operands,omitempty"`
}

type DynamicVariable struct {
	Name          string `json:"name"`
	Value         string `json:"value"`
	ConditionID   string `json:"conditionId,omitempty"`
	CheckOnce     bool   `json:"checkOnce,omitempty"`
	IgnoreFailure bool   `json:"ignoreFailure,omitempty"`
	Unset         bool   `json:"unset,omitempty"`
}

type DynamicInstallerRequirementValidator struct {
	ConditionID string `json:"conditionId" yaml:"condition"`
	Severity    string `json:"severity" yaml:"severity"`
	MessageID   string `json:"messageId" yaml:"message_id"`
}

type InstallerRequirement struct {
	ConditionID string `json:"conditionId" yaml:"condition"`
	Message     string `json:"message" yaml:"message"`
}
