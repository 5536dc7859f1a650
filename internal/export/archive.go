package export

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"time"

	ioutils "github.com/handiism/f1rdf/internal/io"
	"github.com/handiism/f1rdf/internal/section"
	"github.com/handiism/f1rdf/internal/session"
)

// archiveEpoch stamps every archive entry so archives are reproducible.
var archiveEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

// Archive is a ZIP bundle of exported sections.
type Archive struct {
	// Data is the encoded ZIP file.
	Data []byte

	// Files lists the entry names in archive order.
	Files []string

	// Report describes every cached section.
	Report Report
}

// MIMEType returns the archive content type.
func (a *Archive) MIMEType() string {
	return MIMEZIP
}

// SerializeArchive packages every successful section in cache into one
// Deflate-compressed ZIP archive, in registry order.
//
// Empty and failed sections contribute no entry and never stop the
// remaining sections from being packaged. A cache with nothing exportable
// yields a valid empty archive.
func SerializeArchive(cache *session.Cache, reg *section.Registry) (*Archive, error) {
	files, report := SerializeAll(cache, reg)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	names := make([]string, 0, len(files))
	for _, f := range files {
		w, err := zw.CreateHeader(&zip.FileHeader{
			Name:     f.Name,
			Method:   zip.Deflate,
			Modified: archiveEpoch,
		})
		if err != nil {
			return nil, fmt.Errorf("add %s to archive: %w", f.Name, err)
		}
		if _, err := w.Write(f.Data); err != nil {
			return nil, fmt.Errorf("write %s to archive: %w", f.Name, err)
		}
		names = append(names, f.Name)
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("finish archive: %w", err)
	}

	return &Archive{Data: buf.Bytes(), Files: names, Report: report}, nil
}

// SerializeAll encodes every exportable section in cache, in registry
// order, and reports the sections that produced no file. A section that
// cannot be encoded is listed in Report.Failed and the rest are still
// encoded.
func SerializeAll(cache *session.Cache, reg *section.Registry) ([]*File, Report) {
	var (
		files  []*File
		report Report
	)
	ids, _ := reg.Ordered(cache.IDs())
	for _, id := range ids {
		o, _ := cache.Get(id)
		desc, _ := reg.Get(id)
		if !report.add(id, o, desc) {
			continue
		}
		f, err := SerializeOne(id, o, desc)
		if err != nil {
			report.Failed = append(report.Failed, Failed{ID: id, Message: err.Error()})
			continue
		}
		files = append(files, f)
		report.Exported = append(report.Exported, id)
	}
	return files, report
}

// ArchiveName returns the suggested file name for an event's archive:
// F1_Data_{season}_{event label with spaces replaced by underscores}.zip.
func ArchiveName(season int, eventLabel string) string {
	label := ioutils.SanitizeFileName(strings.ReplaceAll(strings.TrimSpace(eventLabel), " ", "_"))
	if label == "" {
		return fmt.Sprintf("F1_Data_%d.zip", season)
	}
	return fmt.Sprintf("F1_Data_%d_%s.zip", season, label)
}
