package build

import (
	"fmt"
	"strings"
	"time"
)

type buildLog struct {
	nowFn func() time.Time
	lines []string
}

func newBuildLog(nowFn func() time.Time) *buildLog {
	if nowFn == nil {
		nowFn = time.Now
	}
	return &buildLog{nowFn: nowFn, lines: []string{}}
}

func (l *buildLog) Addf(format string, args ...any) {
	prefix := l.nowFn().UTC().Format(time.RFC3339Nano)
	l.lines = append(l.lines, fmt.Sprintf("%s %s", prefix, fmt.Sprintf(format, args...)))
}

func (l *buildLog) String() string {
	if len(l.lines) == 0 {
		return ""
	}
	return strings.Join(l.lines, "\n") + "\n"
}
