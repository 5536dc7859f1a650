package export

import (
	"context"
	"path/filepath"
	"strings"

	ioutils "github.com/handiism/f1rdf/internal/io"
	"github.com/handiism/f1rdf/internal/section"
	"github.com/handiism/f1rdf/internal/session"
)

// SaveOptions selects the artifacts Save writes besides the archive.
type SaveOptions struct {
	// SectionFiles also writes each exported section as its own file.
	SectionFiles bool

	// Workbook also writes the tabular sections as one workbook.
	Workbook bool
}

// Saved lists the paths Save wrote.
type Saved struct {
	Archive  string
	Sections []string
	Workbook string
	Report   Report
}

// Save writes the archive for cache into dir as archiveName, plus the
// artifacts enabled in opts. Per-section files go to a subdirectory named
// after the archive.
func Save(ctx context.Context, dir, archiveName string, cache *session.Cache, reg *section.Registry, opts SaveOptions) (*Saved, error) {
	archive, err := SerializeArchive(cache, reg)
	if err != nil {
		return nil, err
	}

	saved := &Saved{Report: archive.Report}
	saved.Archive, err = ioutils.WriteFile(ctx, dir, archiveName, archive.Data)
	if err != nil {
		return nil, err
	}

	base := strings.TrimSuffix(archiveName, ".zip")

	if opts.SectionFiles {
		files, _ := SerializeAll(cache, reg)
		sub := filepath.Join(dir, base)
		for _, f := range files {
			path, err := ioutils.WriteFile(ctx, sub, f.Name, f.Data)
			if err != nil {
				return nil, err
			}
			saved.Sections = append(saved.Sections, path)
		}
	}

	if opts.Workbook {
		wb, _, err := SerializeWorkbook(cache, reg)
		if err != nil {
			return nil, err
		}
		if wb != nil {
			saved.Workbook, err = ioutils.WriteFile(ctx, dir, base+WorkbookExtension, wb.Data)
			if err != nil {
				return nil, err
			}
		}
	}

	return saved, nil
}
