package daemon

import (
	"fmt"
	"strings"
)

var (
	unitPath = "/etc/systemd/system/bno055.service"
)

const unitTemplate = `[Unit]
Description=BNO055 orientation sensor daemon
After=local-fs.target

[Service]
Type=simple
ExecStart=%s daemon --config %s --daemon-socket %s%s
Restart=on-failure
RestartSec=5

[Install]
WantedBy=multi-user.target
`

// Options configure the installed unit.
type Options struct {
	Executable         string
	ConfigPath         string
	SocketPath         string
	AllowNonRootAccess bool
}

// Unit renders the systemd unit for o.
func Unit(o Options) string {
	var extra strings.Builder
	if o.AllowNonRootAccess {
		extra.WriteString(" --always-allow-non-root-access")
	}
	return fmt.Sprintf(unitTemplate, o.Executable, o.ConfigPath, o.SocketPath, extra.String())
}
