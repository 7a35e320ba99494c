package rpi

import (
	"fmt"
	"io"
	"os"

	"github.com/mklimuk/bme69x"
)

// writer is the diagnostic sink for interface banners and result reports.
var writer io.Writer = os.Stdout

// SetOutput redirects diagnostic lines. A nil writer restores stdout.
func SetOutput(w io.Writer) {
	if w == nil {
		w = os.Stdout
	}
	writer = w
}

func printf(msg string, args ...any) {
	_, _ = fmt.Fprintf(writer, msg, args...)
}

// CheckRslt prints a one-line classification of rslt for apiName.
// OK is silent.
func CheckRslt(apiName string, rslt bme69x.ResultCode) {
	switch rslt {
	case bme69x.OK:
	case bme69x.WarnNoNewData:
		printf("API name [%s]  Warning [%d] : %s\r\n", apiName, int8(rslt), rslt.String())
	default:
		printf("API name [%s]  Error [%d] : %s\r\n", apiName, int8(rslt), rslt.String())
	}
}
