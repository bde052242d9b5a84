package blag

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/klauspost/compress/zip"
)

// Extract returns the blocklist-entries text and the ASN-mapping text from a BLAG archive.
// Members are picked by position, not by name.
func Extract(r io.ReaderAt, size int64) (blocklist, mapping string, err error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return "", "", &ArchiveFormatError{Reason: err.Error()}
	}
	if len(zr.File) <= MappingMember {
		return "", "", &ArchiveFormatError{
			Reason: fmt.Sprintf("expected at least %d members, found %d", MappingMember+1, len(zr.File)),
		}
	}

	if blocklist, err = readMember(zr.File[BlocklistMember]); err != nil {
		return "", "", err
	}
	if mapping, err = readMember(zr.File[MappingMember]); err != nil {
		return "", "", err
	}
	return blocklist, mapping, nil
}

// ExtractBytes is Extract over an in-memory archive.
func ExtractBytes(b []byte) (blocklist, mapping string, err error) {
	return Extract(bytes.NewReader(b), int64(len(b)))
}

// ExtractFile is Extract over an archive on disk.
func ExtractFile(path string) (blocklist, mapping string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", "", err
	}
	return Extract(f, info.Size())
}

func readMember(f *zip.File) (string, error) {
	rc, err := f.Open()
	if err != nil {
		return "", &ArchiveFormatError{Member: f.Name, Reason: err.Error()}
	}
	defer rc.Close()

	b, err := io.ReadAll(rc)
	if err != nil {
		return "", &ArchiveFormatError{Member: f.Name, Reason: err.Error()}
	}
	if !utf8.Valid(b) {
		return "", &ArchiveFormatError{Member: f.Name, Reason: "not valid utf-8 text"}
	}
	return string(b), nil
}
