package adapters

import (
	"archive/zip"
	"fmt"
	"io"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"izpack/internal/ports"
	"izpack/internal/shared"
	"izpack/internal/streams"
	"izpack/internal/types"
)

type InstallerReaderAdapter struct{}

func NewInstallerReaderAdapter() InstallerReaderAdapter {
	return InstallerReaderAdapter{}
}

// Read opens an installer archive and decodes its metadata records and pack
// list. Entries are listed in archive order.
func (a InstallerReaderAdapter) Read(path string) (types.InstallerContents, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return types.InstallerContents{}, notFoundOrInternal(err, "failed to open installer "+path)
	}
	defer reader.Close()

	files := map[string]*zip.File{}
	contents := types.InstallerContents{Path: path}
	for _, file := range reader.File {
		files[file.Name] = file
		contents.Entries = append(contents.Entries, file.Name)
	}

	records := []struct {
		name  string
		value any
	}{
		{shared.RecordInfo, &contents.Info},
		{shared.RecordVariables, &contents.Variables},
		{shared.RecordConsolePrefs, &contents.ConsolePrefs},
		{shared.RecordGUIPrefs, &contents.GUIPrefs},
		{shared.RecordPanelsOrder, &contents.Panels},
		{shared.RecordCustomData, &contents.CustomData},
		{shared.RecordLangPacks, &contents.LangPacks},
		{shared.RecordRules, &contents.Rules},
		{shared.RecordDynamicVariables, &contents.DynamicVariables},
		{shared.RecordDynamicConditions, &contents.DynamicInstallerRequirements},
		{shared.RecordInstallerRequirements, &contents.InstallerRequirements},
		{shared.RecordPacksInfo, &contents.Packs},
	}
	for _, record := range records {
		if err := decodeEntry(files, shared.ResourcesPath+record.name, record.name, record.value); err != nil {
			return types.InstallerContents{}, err
		}
	}
	return contents, nil
}

// ReadPackFile returns the uncompressed content of a pack file, following
// back references and separate pack archives.
func (a InstallerReaderAdapter) ReadPackFile(contents types.InstallerContents, file *types.PackFile) ([]byte, error) {
	source := file
	if file.IsBackReference() {
		source = file.LinkedPackFile
	}
	if source.Directory {
		return nil, nil
	}
	if source.StreamResourceName == "" {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("pack file %s has no embedded content", file.TargetPath))
	}

	archivePath := contents.Path
	entryName := shared.ResourcesPath + source.StreamResourceName
	if contents.Info.PackSeparateArchives() {
		packName := strings.TrimPrefix(source.StreamResourceName, shared.PackStreamPrefix)
		archivePath = shared.PackArchivePath(shared.InstallerBase(contents.Path), packName)
		entryName = source.StreamResourceName
	}

	reader, err := zip.OpenReader(archivePath)
	if err != nil {
		return nil, notFoundOrInternal(err, "failed to open pack archive "+archivePath)
	}
	defer reader.Close()
	var entry *zip.File
	for _, candidate := range reader.File {
		if candidate.Name == entryName {
			entry = candidate
			break
		}
	}
	if entry == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("entry %s not found in %s", entryName, archivePath))
	}
	stream, err := entry.Open()
	if err != nil {
		return nil, readFailure(entryName, err)
	}
	defer stream.Close()
	if _, err := io.CopyN(io.Discard, stream, source.StreamOffset); err != nil {
		return nil, readFailure(entryName, err)
	}
	decompressed, err := streams.NewDecompressedReader(contents.Info.CompressionFormat, io.LimitReader(stream, source.Size))
	if err != nil {
		return nil, readFailure(entryName, err)
	}
	defer decompressed.Close()
	data, err := io.ReadAll(decompressed)
	if err != nil {
		return nil, readFailure(entryName, err)
	}
	if int64(len(data)) != source.Length {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("pack file %s has %d bytes, expected %d", file.TargetPath, len(data), source.Length))
	}
	return data, nil
}

func decodeEntry(files map[string]*zip.File, name string, kind string, v any) error {
	file, ok := files[name]
	if !ok {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("installer entry not found: " + name)
	}
	rc, err := file.Open()
	if err != nil {
		return readFailure(name, err)
	}
	defer rc.Close()
	if err := shared.DecodeRecord(rc, kind, v); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid installer record " + name).
			WithCause(err)
	}
	return nil
}

func readFailure(name string, err error) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to read " + name).
		WithCause(err)
}

var _ ports.InstallerReaderPort = InstallerReaderAdapter{}
