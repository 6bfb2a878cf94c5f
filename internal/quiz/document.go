package quiz

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// Accepted document media types.
const (
	MIMEPDF  = "application/pdf"
	MIMEDOC  = "application/msword"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
)

// MaxDocumentSize is the largest document sent inline to the model.
const MaxDocumentSize = 20 << 20

var extensionTypes = map[string]string{
	".pdf":  MIMEPDF,
	".doc":  MIMEDOC,
	".docx": MIMEDOCX,
}

// IsAcceptedType reports whether mimeType is PDF, DOC or DOCX.
// Parameters such as "; charset=binary" are ignored.
func IsAcceptedType(mimeType string) bool {
	base, _, _ := strings.Cut(mimeType, ";")
	switch strings.TrimSpace(strings.ToLower(base)) {
	case MIMEPDF, MIMEDOC, MIMEDOCX:
		return true
	}
	return false
}

// DetectType returns the media type of a document. A known extension
// wins; otherwise the content is sniffed.
func DetectType(name string, data []byte) string {
	if t, ok := extensionTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	mt := mimetype.Detect(data)
	for m := mt; m != nil; m = m.Parent() {
		if IsAcceptedType(m.String()) {
			base, _, _ := strings.Cut(m.String(), ";")
			return base
		}
	}
	return mt.String()
}

// NewDocument checks name and data and returns a Document. A declared
// type decides acceptance on its own; only an empty or
// application/octet-stream declaration falls back to DetectType.
func NewDocument(name, declaredType string, data []byte) (*Document, error) {
	if len(data) == 0 {
		return nil, inputError("The provided file is empty.", ErrNoSource)
	}
	if len(data) > MaxDocumentSize {
		return nil, inputError(
			fmt.Sprintf("The file is larger than %d MB.", MaxDocumentSize>>20), ErrNoSource)
	}

	mimeType := declaredType
	if undeclared(mimeType) {
		mimeType = DetectType(name, data)
	}
	if !IsAcceptedType(mimeType) {
		return nil, inputError("Please upload a valid file type: PDF, DOC, or DOCX.",
			fmt.Errorf("%w: %q", ErrUnsupportedType, mimeType))
	}
	base, _, _ := strings.Cut(mimeType, ";")

	return &Document{Name: filepath.Base(name), MIMEType: strings.TrimSpace(base), Data: data}, nil
}

func undeclared(mimeType string) bool {
	base, _, _ := strings.Cut(mimeType, ";")
	switch strings.TrimSpace(strings.ToLower(base)) {
	case "", "application/octet-stream":
		return true
	}
	return false
}

// LoadDocument reads the file at path fully into memory.
func LoadDocument(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, inputError(fmt.Sprintf("Could not open %s.", filepath.Base(path)), err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxDocumentSize+1))
	if err != nil {
		return nil, inputError(fmt.Sprintf("Could not read %s.", filepath.Base(path)), err)
	}
	return NewDocument(path, "", data)
}
