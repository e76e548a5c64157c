package filetype

import (
	"fmt"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog/log"
)

// Detector verifies downloaded payloads by magic bytes, not by URL suffix
// or Content-Type header.
type Detector struct{}

// New creates a new file type detector.
func New() *Detector {
	return &Detector{}
}

// DetectMIME returns the MIME type of the file at path.
func (d *Detector) DetectMIME(path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to detect file type: %w", err)
	}
	log.Debug().Str("mime", mtype.String()).Str("file", path).Msg("detected file type")
	return mtype.String(), nil
}

// VerifyPDF returns an error when the file at path is not a PDF.
func (d *Detector) VerifyPDF(path string) error {
	mime, err := d.DetectMIME(path)
	if err != nil {
		return err
	}
	if mime != "application/pdf" {
		return fmt.Errorf("not a PDF document (detected %s)", mime)
	}
	return nil
}
