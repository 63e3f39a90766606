package log

import (
	"fmt"

	"gopkg.in/Sirupsen/logrus.v0"
)

// printf emits a formatted message for mod at lvl, tagged with the module and
// the registered contexts.
func (mod Module) printf(lvl Level, format string, args ...any) {
	if !mod.Enabled(lvl) {
		return
	}

	var z EntryZ
	for _, c := range contexts {
		c.AddLogContext(&z)
	}
	fields := make(logrus.Fields, z.zfidx+1)
	fields["_mod"] = mod.String()
	for i := range z.zfbuf[:z.zfidx] {
		fields[z.zfbuf[i].Key] = z.zfbuf[i].Value()
	}

	entry := logrus.StandardLogger().WithFields(fields)
	msg := fmt.Sprintf(format, args...)
	switch lvl {
	case DebugLevel:
		entry.Debug(msg)
	case InfoLevel:
		entry.Info(msg)
	case WarnLevel:
		entry.Warn(msg)
	case ErrorLevel:
		entry.Error(msg)
	case FatalLevel:
		entry.Fatal(msg)
	}
}

func (mod Module) Debugf(format string, args ...any) { mod.printf(DebugLevel, format, args...) }
func (mod Module) Infof(format string, args ...any)  { mod.printf(InfoLevel, format, args...) }
func (mod Module) Warnf(format string, args ...any)  { mod.printf(WarnLevel, format, args...) }
func (mod Module) Errorf(format string, args ...any) { mod.printf(ErrorLevel, format, args...) }
func (mod Module) Fatalf(format string, args ...any) { mod.printf(FatalLevel, format, args...) }
