package console

import (
	"fmt"
	"io"
	"os"
)

const PictoThermometer = "🌡"
const PictoStop = "🚫"
const PictoPin = "📌"

var writer io.Writer = os.Stdout
var errWriter io.Writer = os.Stderr

func SetOutput(w, errw io.Writer) {
	writer = w
	errWriter = errw
}

func Output() io.Writer {
	return writer
}

func Format(err error) string {
	return fmt.Sprintf("%s: %s\n", Red("ERROR"), err.Error())
}

func Errorf(msg string, args ...any) {
	_, _ = fmt.Fprintf(errWriter, "%s: %s\n", Red("ERROR"), fmt.Sprintf(msg, args...))
}

func Warnf(msg string, args ...any) {
	_, _ = fmt.Fprintf(errWriter, "%s: %s\n", Yellow("WARN"), fmt.Sprintf(msg, args...))
}

func Infof(msg string, args ...any) {
	_, _ = fmt.Fprintf(writer, "%s %s\n", White("..."), fmt.Sprintf(msg, args...))
}

func PInfof(picto, msg string, args ...any) {
	_, _ = fmt.Fprintf(writer, "%s %s\n", picto, fmt.Sprintf(msg, args...))
}

func Printf(msg string, args ...any) {
	_, _ = fmt.Fprintf(writer, msg, args...)
}

// Temperature prints a single reading the same way for every command.
func Temperature(temp float32) {
	PInfof(PictoThermometer, "%s °C", White(fmt.Sprintf("%.2f", temp)))
}
