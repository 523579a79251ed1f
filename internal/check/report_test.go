package check

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/geradorbr/cnpj-tools/internal/cnpj"
	apperrors "github.com/geradorbr/cnpj-tools/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportWriter_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "reports")

	w, err := NewReportWriter(dir, "CNPJBiz")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "cnpj-biz-report.csv"), w.Path())

	ok := Result{
		Identifier:  cnpj.New(cnpj.Base12(1)),
		Name:        "BANCO DO BRASIL SA",
		Status:      "ATIVA",
		PrimaryCNAE: "64.21-2-00",
		HTTPStatus:  200,
		OK:          true,
		SourceURL:   "https://cnpj.biz/00000000000191",
	}
	failed := Result{
		Identifier: cnpj.New(cnpj.Base12(123_456_780_001)),
		SourceURL:  "https://cnpj.biz/12345678000195",
		Err:        apperrors.New(apperrors.Unavailable, "connection refused"),
	}
	require.NoError(t, w.Write(ok))
	require.NoError(t, w.Write(failed))
	assert.Equal(t, 2, w.Rows())
	require.NoError(t, w.Close())

	f, err := os.Open(w.Path())
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, reportHeader, rows[0])
	assert.Equal(t, []string{
		"00000000000191", "BANCO DO BRASIL SA", "ATIVA", "64.21-2-00",
		"200", "true", "https://cnpj.biz/00000000000191", "",
	}, rows[1])

	assert.Equal(t, "12345678000195", rows[2][0])
	assert.Equal(t, "", rows[2][4], "no HTTP status on transport failure")
	assert.Equal(t, "false", rows[2][5])
	assert.Equal(t, "connection refused", rows[2][7])
}

func TestNewReportWriter_UnwritableDirectory(t *testing.T) {
	blocking := filepath.Join(t.TempDir(), "taken")
	require.NoError(t, os.WriteFile(blocking, []byte("x"), 0644))

	_, err := NewReportWriter(filepath.Join(blocking, "reports"), "CNPJBiz")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.System))
}
