package app

import "izpack/internal/types"

type CompileRequest struct {
	DescriptorPath  string
	Output          string
	BaseDir         string
	Mkdirs          bool
	Compression     string
	Level           int
	SkeletonPath    string
	ManifestEntries map[string]string
	// Timestamp pins entry times: Unix seconds or RFC 3339.
	Timestamp string
	SBOM      bool
	PackIndex bool
}

type CompileResult struct {
	Output        string
	PackArchives  []string
	EntryCount    int
	PackCount     int
	SBOMPath      string
	PackIndexPath string
}

type ValidateRequest struct {
	DescriptorPath string
}

type ValidateResult struct {
	AppName    string
	AppVersion string
	PackCount  int
	PanelCount int
}

type InspectRequest struct {
	InstallerPath string
	// Verify reads every pack file back and checks its length.
	Verify bool
}

type InspectPackSummary struct {
	Name        string
	Size        int64
	FileSize    int64
	Files       int
	Directories int
	Linked      int
	Required    bool
}

type InspectResult struct {
	Path          string
	AppName       string
	AppVersion    string
	Compression   types.PackCompression
	Separate      bool
	EntryCount    int
	Panels        []string
	LangPacks     []string
	Variables     []string
	Packs         []InspectPackSummary
	VerifiedFiles int
}
