package check

import (
	"context"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/geradorbr/cnpj-tools/internal/cnpj"
	"github.com/geradorbr/cnpj-tools/internal/config"
	apperrors "github.com/geradorbr/cnpj-tools/internal/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

// mixedProvider alternates active, missing and failing answers.
type mixedProvider struct{}

func (mixedProvider) Name() string { return "Mixed" }

func (mixedProvider) Lookup(_ context.Context, c cnpj.CNPJ) Result {
	r := Result{Identifier: c, SourceURL: "stub://" + c.String()}
	switch c.Base12() % 3 {
	case 0:
		r.Status = "ATIVA"
		r.OK = true
		r.HTTPStatus = 200
	case 1:
		r.HTTPStatus = 404
	default:
		r.Err = apperrors.New(apperrors.Unavailable, "stubbed outage")
	}
	return r
}

func writeInputFile(t *testing.T, n int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "cnpjs.txt")
	var content []byte
	for i := 1; i <= n; i++ {
		content = append(content, cnpj.New(cnpj.Base12(i)).String()...)
		content = append(content, '\n')
	}
	require.NoError(t, os.WriteFile(path, content, 0644))
	return path
}

func newTestCheckConfig(t *testing.T, input string) *config.CheckConfig {
	t.Helper()

	return &config.CheckConfig{
		InputFile:  input,
		OutputDir:  filepath.Join(t.TempDir(), "reports"),
		Provider:   "biz",
		Workers:    3,
		Timeout:    "5s",
		RetryDelay: "1ms",
	}
}

func TestChecker_Run(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := newTestCheckConfig(t, writeInputFile(t, 30))
	ck := &Checker{cfg: cfg, provider: mixedProvider{}}

	summary, err := ck.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 30, summary.Total)
	assert.Equal(t, 30, summary.Completed)
	assert.Equal(t, 10, summary.OK, "bases 3,6,...,30 answer active")
	assert.Equal(t, 10, summary.Active)
	assert.Equal(t, 10, summary.Failed, "bases 2,5,...,29 fail")

	assert.FileExists(t, summary.ReportPath)
	assert.Equal(t, filepath.Join(cfg.OutputDir, "mixed-report.csv"), summary.ReportPath)
}

func TestChecker_Run_EmptyInput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("# nothing here\n"), 0644))

	ck := New(newTestCheckConfig(t, path))
	_, err := ck.Run(context.Background())
	require.ErrorIs(t, err, ErrNoIdentifiers)
}

// brokenDestination fails every write, as a full or revoked disk would.
type brokenDestination struct{}

func (brokenDestination) Write([]byte) (int, error) { return 0, errors.New("device gone") }
func (brokenDestination) Close() error              { return nil }

func TestChecker_Run_ReportFailureReleasesPool(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := newTestCheckConfig(t, writeInputFile(t, 50))
	dest := brokenDestination{}
	ck := &Checker{
		cfg:      cfg,
		provider: mixedProvider{},
		report:   &ReportWriter{out: dest, csv: csv.NewWriter(dest), path: "broken.csv"},
	}

	summary, err := ck.Run(context.Background())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.System))
	assert.Equal(t, 0, summary.Completed)
}

func TestChecker_Run_CancelledContextKeepsPartialReport(t *testing.T) {
	defer goleak.VerifyNone(t)

	cfg := newTestCheckConfig(t, writeInputFile(t, 20))
	ck := &Checker{cfg: cfg, provider: mixedProvider{}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := ck.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.FileExists(t, summary.ReportPath, "whatever completed stays on disk")
}
