package pdf

import (
	fitz "github.com/gen2brain/go-fitz"
)

// fitzOpener implements Opener using github.com/gen2brain/go-fitz.
type fitzOpener struct{}

func (fitzOpener) Open(path string) (Doc, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	return fitzDoc{doc}, nil
}

type fitzDoc struct{ *fitz.Document }

func (d fitzDoc) PageSVG(i int) (string, error) {
	return d.Document.SVG(i)
}

func (d fitzDoc) PageText(i int) (string, error) {
	return d.Document.Text(i)
}
