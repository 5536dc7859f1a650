// Package export serializes fetched sections into downloadable files.
//
// Each successful section becomes one file in the format matching its
// shape: tabular sections are written as CSV, structured sections as
// indented JSON. SerializeArchive bundles every exportable section into
// one ZIP archive; Failure and Empty outcomes are never written but are
// listed in the archive's Report so callers can still acknowledge them.
//
//	archive, err := export.SerializeArchive(sess.Cache(), section.Default())
//	if err != nil {
//	    return err
//	}
//	name := export.ArchiveName(2024, "Monaco Grand Prix")
//	// F1_Data_2024_Monaco_Grand_Prix.zip
//
// All output is deterministic: serializing the same outcome twice yields
// byte-identical data.
package export
