// Package transport implements the framed byte-stream layer spec §4.2
// describes: address resolution (including SRV lookup), TCP/SOCKS5 dial,
// and length-delimited frame read/write with compression-threshold-aware
// body assembly.
//
// Grounded on the teacher's java_protocol/base_tcp.go
// (resolveMinecraftAddress's SRV-lookup shape) and java_protocol/packet.go
// (the compression framing, reworked here against the codec package and
// extended with the FrameTooLarge bound the teacher never checked). SOCKS5
// dialing is new: no teacher file dials through a proxy, so it is grounded
// directly on spec §6's proxy option and built against the ecosystem's
// standard SOCKS5 client, golang.org/x/net/proxy.
package transport

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"golang.org/x/net/proxy"

	"github.com/go-mclib/botclient/mcerr"
)

// ProxyAuth carries optional SOCKS5 username/password credentials.
type ProxyAuth struct {
	Username string
	Password string
}

// ProxyConfig names a SOCKS5 proxy the TCP connection should be dialed
// through, per spec §6's `proxy: optional {host, port, auth}` option.
type ProxyConfig struct {
	Host string
	Port uint16
	Auth *ProxyAuth
}

// ResolveMinecraftAddress resolves a "host[:port]" address using SRV
// records (_minecraft._tcp.<host>) when no port was given explicitly,
// falling back to the vanilla default port 25565. Grounded on the
// teacher's resolveMinecraftAddress in java_protocol/base_tcp.go.
func ResolveMinecraftAddress(address string) (string, error) {
	host, port, err := net.SplitHostPort(address)
	if err != nil {
		host = address
		port = ""
	}

	if port != "" {
		return net.JoinHostPort(host, port), nil
	}

	_, srvRecords, err := net.LookupSRV("minecraft", "tcp", host)
	if err == nil && len(srvRecords) > 0 {
		srv := srvRecords[0]
		target := strings.TrimSuffix(srv.Target, ".")
		return net.JoinHostPort(target, strconv.Itoa(int(srv.Port))), nil
	}

	return net.JoinHostPort(host, "25565"), nil
}

// Dial resolves address and connects directly over TCP.
func Dial(address string) (net.Conn, error) {
	resolved, err := ResolveMinecraftAddress(address)
	if err != nil {
		return nil, mcerr.New(mcerr.Resolver, "resolve "+address, err)
	}

	conn, err := net.Dial("tcp", resolved)
	if err != nil {
		return nil, mcerr.New(mcerr.Connection, "dial "+resolved, err)
	}
	return conn, nil
}

// DialWithProxy resolves address and connects through the given SOCKS5
// proxy, per spec §6's proxy option.
func DialWithProxy(address string, p ProxyConfig) (net.Conn, error) {
	resolved, err := ResolveMinecraftAddress(address)
	if err != nil {
		return nil, mcerr.New(mcerr.Resolver, "resolve "+address, err)
	}

	var auth *proxy.Auth
	if p.Auth != nil {
		auth = &proxy.Auth{User: p.Auth.Username, Password: p.Auth.Password}
	}

	proxyAddr := net.JoinHostPort(p.Host, strconv.Itoa(int(p.Port)))
	dialer, err := proxy.SOCKS5("tcp", proxyAddr, auth, proxy.Direct)
	if err != nil {
		return nil, mcerr.New(mcerr.Connection, "build socks5 dialer for "+proxyAddr, err)
	}

	conn, err := dialer.Dial("tcp", resolved)
	if err != nil {
		return nil, mcerr.New(mcerr.Connection, fmt.Sprintf("dial %s via proxy %s", resolved, proxyAddr), err)
	}
	return conn, nil
}
