//go:build !linux

package i2c

import "fmt"

func OpenDevfs(path string) (Port, error) {
	return nil, fmt.Errorf("%w: %s needs linux i2c-dev", ErrUnsupportedHost, path)
}
