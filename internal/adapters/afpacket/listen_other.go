//go:build !linux

package afpacket

import (
	"errors"
	"net"
)

var errUnsupported = errors.New("AF_PACKET sockets are only available on Linux")

func listen(*net.Interface) (conn, error) {
	return nil, errUnsupported
}
