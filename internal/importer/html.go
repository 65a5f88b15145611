package importer

import "io"

// HTMLImporter handles HTML files.
type HTMLImporter struct{}

func (p *HTMLImporter) Import(r io.Reader, filename string) (Draft, error) {
	title, body, err := Sanitize(r)
	if err != nil {
		return Draft{}, err
	}
	if title == "" {
		title = titleFrom(filename)
	}
	return Draft{Title: title, Markup: body}, nil
}
