package types

import "encoding/xml"

// OsConstraint restricts a pack, file, panel or listener to matching platforms.
type OsConstraint struct {
	Family  string `json:"family,omitempty" yaml:"family,omitempty"`
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Arch    string `json:"arch,omitempty" yaml:"arch,omitempty"`
}

// Pack is the installable unit as it is serialized into packs.info.
type Pack struct {
	Name          string         `json:"name"`
	Description   string         `json:"description,omitempty"`
	LangPackID    string         `json:"langPackId,omitempty"`
	Size          int64          `json:"size"`
	FileSize      int64          `json:"fileSize"`
	Loose         bool           `json:"loose,omitempty"`
	Preselected   bool           `json:"preselected,omitempty"`
	Required      bool           `json:"required,omitempty"`
	Hidden        bool           `json:"hidden,omitempty"`
	Condition     string         `json:"condition,omitempty"`
	Dependencies  []string       `json:"dependencies,omitempty"`
	OsConstraints []OsConstraint `json:"osConstraints,omitempty"`
}

// AddFileSize adds the declared length of a file to the running file size.
func (p *Pack) AddFileSize(length int64) {
	p.FileSize += length
}

// PackFile locates one file of a pack within its content stream.
//
// A PackFile with LinkedPackFile set has no bytes of its own; its content is
// read from the linked file's stream resource at the linked file's offset.
// SourcePath is only known at build time and is not written to the installer.
type PackFile struct {
	TargetPath         string         `json:"targetPath"`
	SourcePath         string         `json:"-"`
	Length             int64          `json:"length"`
	Size               int64          `json:"size"`
	Directory          bool           `json:"directory,omitempty"`
	StreamResourceName string         `json:"streamResourceName,omitempty"`
	StreamOffset       int64          `json:"streamOffset"`
	LinkedPackFile     *PackFile      `json:"linkedPackFile,omitempty"`
	Condition          string         `json:"condition,omitempty"`
	OsConstraints      []OsConstraint `json:"osConstraints,omitempty"`
}

// IsBackReference reports whether the file content lives in another PackFile.
func (f *PackFile) IsBackReference() bool {
	return f.LinkedPackFile != nil
}

// PackInfo pairs a pack with the files it installs, in declaration order.
type PackInfo struct {
	Pack  Pack        `json:"pack"`
	Files []*PackFile `json:"files"`
}

// PackIndexEntry is one <pack> element of the pack index.
type PackIndexEntry struct {
	Name     string `xml:"name,attr"`
	Size     int64  `xml:"size,attr"`
	FileSize int64  `xml:"fileSize,attr"`
	ID       string `xml:"id,attr,omitempty"`
}

// PackIndex is the descriptive <packs> record built while packs are written.
type PackIndex struct {
	XMLName xml.Name         `xml:"packs"`
	Packs   []PackIndexEntry `xml:"pack"`
}
