package console

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

const PictoThermometer = "🌡"
const PictoCheck = "✅"

var (
	Red   = color.New(color.FgRed).SprintFunc()
	Green = color.New(color.FgGreen).SprintFunc()
	White = color.New(color.FgHiWhite).SprintFunc()
)

var writer io.Writer = os.Stdout
var errWriter io.Writer = os.Stderr

// SetOutput redirects regular and error output.
func SetOutput(w, errw io.Writer) {
	writer = w
	errWriter = errw
}

func Exit(code int, msg string, args ...interface{}) cli.ExitCoder {
	return cli.Exit(fmt.Sprintf(msg, args...), code)
}

func Errorf(msg string, args ...interface{}) {
	_, _ = fmt.Fprintf(errWriter, "%s: %s\n", Red("ERROR"), fmt.Sprintf(msg, args...))
}

func PInfof(picto, msg string, args ...interface{}) {
	_, _ = fmt.Fprintf(writer, "%s %s\n", picto, fmt.Sprintf(msg, args...))
}

func Printf(msg string, args ...interface{}) {
	_, _ = fmt.Fprintf(writer, msg, args...)
}
