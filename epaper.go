/*
Package epaper converts rendered dashboard images into the packed 4-bit
framebuffer consumed by 7-color e-paper panels, and decodes such frames back
into viewable images for verification.
*/
package epaper

import "log"

type Epaper struct {
	db     *FrameDB
	logger *log.Logger
}

func New(db string, logger *log.Logger) (*Epaper, error) {
	frameDB, err := NewFrameDB(db)
	if err != nil {
		return nil, err
	}

	return &Epaper{
		db:     frameDB,
		logger: logger,
	}, nil
}

func (e *Epaper) Close() error {
	return e.db.Close()
}
