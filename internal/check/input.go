package check

import (
	"bufio"
	"os"
	"strings"

	"github.com/geradorbr/cnpj-tools/internal/cnpj"
	applog "github.com/geradorbr/cnpj-tools/pkg/log"
)

// ReadIdentifiers loads one identifier per line from path. Masked forms
// are tolerated, blank lines and #-comments are skipped, and lines that
// do not parse as identifiers are logged and dropped rather than
// failing the whole run.
func ReadIdentifiers(path string) ([]cnpj.CNPJ, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, NewErrInputFileFailed(err, path)
	}
	defer f.Close()

	var (
		ids     []cnpj.CNPJ
		skipped int
		lineNo  int
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		c, err := cnpj.Parse(line)
		if err != nil {
			skipped++
			applog.WithComponentAndFields(component, applog.Fields{
				"file": path,
				"line": lineNo,
			}).Warn("skipping line that is not a valid identifier")
			continue
		}
		ids = append(ids, c)
	}
	if err := scanner.Err(); err != nil {
		return nil, NewErrInputFileFailed(err, path)
	}

	if skipped > 0 {
		applog.WithComponentAndFields(component, applog.Fields{
			"file":    path,
			"skipped": skipped,
			"loaded":  len(ids),
		}).Info("input file contained unusable lines")
	}

	return ids, nil
}
