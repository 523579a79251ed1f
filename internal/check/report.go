package check

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/iancoleman/strcase"
)

// reportHeader matches the downstream import contract; column names are
// the registry's Portuguese terms.
var reportHeader = []string{
	"cnpj", "razao_social", "situacao", "cnae_principal",
	"http_status", "ok", "url", "erro",
}

// ReportWriter streams lookup results into a per-provider CSV file.
// Rows are flushed as they arrive, so an interrupted run keeps every
// completed row on disk and a dying destination surfaces at the row
// that hit it.
type ReportWriter struct {
	out  io.WriteCloser
	csv  *csv.Writer
	path string
	rows int
}

// NewReportWriter creates dir when needed and opens the report file.
// The filename is derived from the provider name, e.g. "CNPJBiz" →
// cnpj-biz-report.csv.
func NewReportWriter(dir, providerName string) (*ReportWriter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, NewErrReportFailed(err, dir)
	}

	path := filepath.Join(dir, strcase.ToKebab(providerName)+"-report.csv")
	file, err := os.Create(path)
	if err != nil {
		return nil, NewErrReportFailed(err, path)
	}

	w := &ReportWriter{
		out:  file,
		csv:  csv.NewWriter(file),
		path: path,
	}
	if err := w.writeRow(reportHeader); err != nil {
		_ = file.Close()
		return nil, err
	}

	return w, nil
}

func (w *ReportWriter) writeRow(row []string) error {
	if err := w.csv.Write(row); err != nil {
		return NewErrReportFailed(err, w.path)
	}
	w.csv.Flush()
	if err := w.csv.Error(); err != nil {
		return NewErrReportFailed(err, w.path)
	}
	return nil
}

// Path returns the report file location.
func (w *ReportWriter) Path() string {
	return w.path
}

// Rows returns the number of result rows written so far.
func (w *ReportWriter) Rows() int {
	return w.rows
}

// Write appends one result row.
func (w *ReportWriter) Write(r Result) error {
	httpStatus := ""
	if r.HTTPStatus != 0 {
		httpStatus = strconv.Itoa(r.HTTPStatus)
	}
	errText := ""
	if r.Err != nil {
		errText = r.Err.Error()
	}

	row := []string{
		r.Identifier.String(),
		r.Name,
		r.Status,
		r.PrimaryCNAE,
		httpStatus,
		strconv.FormatBool(r.OK),
		r.SourceURL,
		errText,
	}
	if err := w.writeRow(row); err != nil {
		return err
	}
	w.rows++
	return nil
}

// Close flushes the CSV buffer and closes the file; the first error
// wins.
func (w *ReportWriter) Close() error {
	w.csv.Flush()
	firstErr := w.csv.Error()

	if err := w.out.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	if firstErr != nil {
		return NewErrReportFailed(firstErr, w.path)
	}
	return nil
}
