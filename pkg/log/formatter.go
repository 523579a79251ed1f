package log

import "github.com/sirupsen/logrus"

// silentFormatter formats nothing. Logrus still runs the formatter even
// when output is io.Discard, so this keeps the default pipeline free;
// the actual formatting happens once inside the hook.
type silentFormatter struct{}

func (f *silentFormatter) Format(_ *logrus.Entry) ([]byte, error) {
	return nil, nil
}
