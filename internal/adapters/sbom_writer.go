package adapters

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"izpack/internal/ports"
	"izpack/internal/types"
)

type SBOMWriterAdapter struct{}

func NewSBOMWriterAdapter() SBOMWriterAdapter {
	return SBOMWriterAdapter{}
}

// WriteSBOM writes an SPDX 2.3 document describing the installer: one package
// per pack, containing one file per installed regular file.
func (a SBOMWriterAdapter) WriteSBOM(path string, info types.Info, createdAt string, packs []*types.PackInfo) error {
	if strings.TrimSpace(path) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("sbom path is empty")
	}
	if strings.TrimSpace(info.AppName) == "" {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("application name is empty")
	}
	type spdxCreationInfo struct {
		Created  string   `json:"created"`
		Creators []string `json:"creators"`
	}
	type spdxChecksum struct {
		Algorithm     string `json:"algorithm"`
		ChecksumValue string `json:"checksumValue"`
	}
	type spdxPackage struct {
		SPDXID           string `json:"SPDXID"`
		Name             string `json:"name"`
		VersionInfo      string `json:"versionInfo"`
		Description      string `json:"description,omitempty"`
		DownloadLocation string `json:"downloadLocation"`
		FilesAnalyzed    bool   `json:"filesAnalyzed"`
		LicenseConcluded string `json:"licenseConcluded"`
		LicenseDeclared  string `json:"licenseDeclared"`
		Supplier         string `json:"supplier"`
	}
	type spdxFile struct {
		SPDXID           string         `json:"SPDXID"`
		FileName         string         `json:"fileName"`
		Checksums        []spdxChecksum `json:"checksums"`
		LicenseConcluded string         `json:"licenseConcluded"`
	}
	type spdxRelationship struct {
		SpdxElementID      string `json:"spdxElementId"`
		RelationshipType   string `json:"relationshipType"`
		RelatedSpdxElement string `json:"relatedSpdxElement"`
	}
	created := strings.TrimSpace(createdAt)
	if created == "" {
		created = time.Now().UTC().Format(time.RFC3339)
	}
	payload := struct {
		SPDXVersion       string             `json:"SPDXVersion"`
		DataLicense       string             `json:"DataLicense"`
		SPDXID            string             `json:"SPDXID"`
		Name              string             `json:"name"`
		DocumentNamespace string             `json:"documentNamespace"`
		CreationInfo      spdxCreationInfo   `json:"creationInfo"`
		Packages          []spdxPackage      `json:"packages"`
		Files             []spdxFile         `json:"files"`
		Relationships     []spdxRelationship `json:"relationships"`
		DocumentDescribes []string           `json:"documentDescribes"`
	}{
		SPDXVersion:       "SPDX-2.3",
		DataLicense:       "CC0-1.0",
		SPDXID:            "SPDXRef-DOCUMENT",
		Name:              fmt.Sprintf("%s %s installer", info.AppName, info.AppVersion),
		DocumentNamespace: fmt.Sprintf("https://izpack.org/spdx/%s/%s", info.AppName, info.AppVersion),
		CreationInfo: spdxCreationInfo{
			Created:  created,
			Creators: []string{"Tool: izpack"},
		},
		Packages: []spdxPackage{},
		Files:    []spdxFile{},
	}
	for _, packInfo := range packs {
		pack := packInfo.Pack
		packID := spdxPackageID(pack.Name, info.AppVersion)
		payload.Packages = append(payload.Packages, spdxPackage{
			SPDXID:           packID,
			Name:             pack.Name,
			VersionInfo:      info.AppVersion,
			Description:      pack.Description,
			DownloadLocation: "NOASSERTION",
			FilesAnalyzed:    true,
			LicenseConcluded: "NOASSERTION",
			LicenseDeclared:  "NOASSERTION",
			Supplier:         "NOASSERTION",
		})
		payload.DocumentDescribes = append(payload.DocumentDescribes, packID)
		payload.Relationships = append(payload.Relationships, spdxRelationship{
			SpdxElementID:      "SPDXRef-DOCUMENT",
			RelationshipType:   "DESCRIBES",
			RelatedSpdxElement: packID,
		})
		for _, file := range packInfo.Files {
			if file.Directory {
				continue
			}
			digest, err := fileSHA256(file.SourcePath)
			if err != nil {
				return err
			}
			fileID := spdxFileID(pack.Name, file.TargetPath)
			payload.Files = append(payload.Files, spdxFile{
				SPDXID:           fileID,
				FileName:         file.TargetPath,
				Checksums:        []spdxChecksum{{Algorithm: "SHA256", ChecksumValue: digest}},
				LicenseConcluded: "NOASSERTION",
			})
			payload.Relationships = append(payload.Relationships, spdxRelationship{
				SpdxElementID:      packID,
				RelationshipType:   "CONTAINS",
				RelatedSpdxElement: fileID,
			})
		}
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to marshal sbom payload").
			WithCause(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create sbom directory").
			WithCause(err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write sbom file").
			WithCause(err)
	}
	return nil
}

func fileSHA256(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", notFoundOrInternal(err, "sbom source not found: "+path)
	}
	defer file.Close()
	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to hash " + path).
			WithCause(err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

func spdxPackageID(name string, version string) string {
	seed := fmt.Sprintf("%s@%s", name, version)
	hash := sha256.Sum256([]byte(seed))
	return "SPDXRef-Package-" + hex.EncodeToString(hash[:8])
}

func spdxFileID(packName string, target string) string {
	hash := sha256.Sum256([]byte(packName + "\x00" + target))
	return "SPDXRef-File-" + hex.EncodeToString(hash[:8])
}

var _ ports.SBOMPort = SBOMWriterAdapter{}
